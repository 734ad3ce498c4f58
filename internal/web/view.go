package web

import (
	"fmt"
	"html/template"
	"mime"
	"strings"

	"interview-summarizer/internal/interviews"
	"interview-summarizer/internal/llm"
	"interview-summarizer/internal/media"
	"interview-summarizer/internal/sessions"
)

const noContent = "暂无内容 / No content"

type languageOption struct {
	Code     string
	Label    string
	Selected bool
}

type downloadLink struct {
	Kind     string
	Label    string
	URL      string
	FileName string
	Primary  bool
}

type analysisView struct {
	ID             string
	FileName       string
	SizeKB         string
	Kind           string
	Language       string
	Model          string
	HasSummary     bool
	SummaryHTML    template.HTML
	HasMindMap     bool
	MindMap        string
	MindMapLiveURL string
	HasTranscript  bool
	Transcript     string
	ReportHTML     template.HTML
	Downloads      map[string]downloadLink
}

type pageData struct {
	Languages     []languageOption
	HasSessionKey bool
	HasServerKey  bool
	KeyAvailable  bool
	Model         string
	Accept        string
	AudioFormats  []string
	VideoFormats  []string
	ImageFormats  []string
	MaxUploadMB   int64
	Notice        string
	Error         string
	Analysis      *analysisView
}

var downloadLabels = map[interviews.ArtifactKind]string{
	interviews.ArtifactSummary:    "⬇️ 下载纪要 / Summary",
	interviews.ArtifactMindMap:    "⬇️ 下载框图 / Mind Map",
	interviews.ArtifactTranscript: "⬇️ 下载正文 / Transcript",
	interviews.ArtifactReport:     "⬇️ 下载完整报告 / Report (.md)",
	interviews.ArtifactReportDocx: "⬇️ Word 报告 / Report (.docx)",
}

func newPageData(session sessions.Session, hasServerKey bool, model string, maxUpload int64) pageData {
	lang := session.Language
	if lang == "" {
		lang = llm.LanguageChinese
	}
	var langs []languageOption
	for _, l := range llm.Languages() {
		langs = append(langs, languageOption{Code: string(l), Label: l.Label(), Selected: l == lang})
	}

	data := pageData{
		Languages:     langs,
		HasSessionKey: session.HasAPIKey(),
		HasServerKey:  hasServerKey,
		KeyAvailable:  session.HasAPIKey() || hasServerKey,
		Model:         model,
		Accept:        media.AcceptAttr(),
		AudioFormats:  media.Extensions(media.KindAudio),
		VideoFormats:  media.Extensions(media.KindVideo),
		ImageFormats:  media.Extensions(media.KindImage),
		MaxUploadMB:   maxUpload >> 20,
	}
	if session.Last != nil {
		data.Analysis = newAnalysisView(*session.Last, "/downloads/")
	}
	return data
}

func newAnalysisView(a interviews.Analysis, downloadBase string) *analysisView {
	r := a.Result
	v := &analysisView{
		ID:            a.ID,
		FileName:      a.FileName,
		SizeKB:        fmt.Sprintf("%.1f", float64(a.SizeBytes)/1024),
		Kind:          string(a.Kind),
		Language:      a.Language.Label(),
		Model:         a.Model,
		HasSummary:    strings.TrimSpace(r.Summary) != "",
		HasMindMap:    strings.TrimSpace(r.MindMap) != "",
		MindMap:       r.MindMap,
		HasTranscript: strings.TrimSpace(r.Transcript) != "",
		Transcript:    r.Transcript,
		ReportHTML:    renderMarkdown(interviews.BuildReport(r)),
		Downloads:     downloadLinks(a, downloadBase),
	}
	if v.HasSummary {
		v.SummaryHTML = renderMarkdown(r.Summary)
	} else {
		v.SummaryHTML = template.HTML(template.HTMLEscapeString(noContent))
	}
	if v.HasMindMap {
		v.MindMapLiveURL = mermaidLiveURL(r.MindMap)
	}
	return v
}

func downloadLinks(a interviews.Analysis, base string) map[string]downloadLink {
	base = strings.TrimSuffix(base, "/") + "/"
	out := make(map[string]downloadLink, len(downloadLabels))
	for _, kind := range interviews.ArtifactKinds() {
		out[string(kind)] = downloadLink{
			Kind:     string(kind),
			Label:    downloadLabels[kind],
			URL:      base + string(kind),
			FileName: interviews.ArtifactFileName(a.BaseName, kind),
			Primary:  kind == interviews.ArtifactReport,
		}
	}
	return out
}

func contentDisposition(fileName string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": fileName}); v != "" {
		return v
	}
	return `attachment; filename="download"`
}

func fileKind(fileName string) string {
	if f, err := media.Lookup(fileName); err == nil {
		return string(f.Kind)
	}
	return ""
}
