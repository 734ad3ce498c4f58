package interviews

import (
	"fmt"
	"strings"
)

// ArtifactKind names a downloadable rendering of an analysis.
type ArtifactKind string

const (
	ArtifactSummary    ArtifactKind = "summary"
	ArtifactMindMap    ArtifactKind = "mindmap"
	ArtifactTranscript ArtifactKind = "transcript"
	ArtifactReport     ArtifactKind = "report"
	ArtifactReportDocx ArtifactKind = "report-docx"
)

const (
	contentTypeMarkdown = "text/markdown; charset=utf-8"
	contentTypeText     = "text/plain; charset=utf-8"
	contentTypeDocx     = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// Artifact is a file ready to be sent as an attachment.
type Artifact struct {
	FileName    string
	ContentType string
	Body        []byte
}

// ArtifactKinds lists every download in display order.
func ArtifactKinds() []ArtifactKind {
	return []ArtifactKind{ArtifactSummary, ArtifactMindMap, ArtifactTranscript, ArtifactReport, ArtifactReportDocx}
}

// ParseArtifactKind validates a download kind from a URL.
func ParseArtifactKind(raw string) (ArtifactKind, error) {
	kind := ArtifactKind(strings.ToLower(strings.TrimSpace(raw)))
	for _, k := range ArtifactKinds() {
		if k == kind {
			return kind, nil
		}
	}
	return "", ErrUnknownArtifact
}

// ArtifactFileName names the download of kind for an upload's base name.
func ArtifactFileName(baseName string, kind ArtifactKind) string {
	if baseName == "" {
		baseName = "interview"
	}
	switch kind {
	case ArtifactSummary:
		return baseName + "_summary.md"
	case ArtifactMindMap:
		return baseName + "_mindmap.mmd"
	case ArtifactTranscript:
		return baseName + "_transcript.txt"
	case ArtifactReportDocx:
		return baseName + "_report.docx"
	default:
		return baseName + "_report.md"
	}
}

// BuildArtifact renders one download for an analysis.
func BuildArtifact(analysis Analysis, kind ArtifactKind) (Artifact, error) {
	result := analysis.Result
	name := ArtifactFileName(analysis.BaseName, kind)

	switch kind {
	case ArtifactSummary:
		return Artifact{FileName: name, ContentType: contentTypeMarkdown, Body: []byte(result.Summary)}, nil
	case ArtifactMindMap:
		return Artifact{FileName: name, ContentType: contentTypeText, Body: []byte(result.MindMap)}, nil
	case ArtifactTranscript:
		return Artifact{FileName: name, ContentType: contentTypeText, Body: []byte(result.Transcript)}, nil
	case ArtifactReport:
		return Artifact{FileName: name, ContentType: contentTypeMarkdown, Body: []byte(BuildReport(result))}, nil
	case ArtifactReportDocx:
		body, err := renderReportDocx(BuildReport(result))
		if err != nil {
			return Artifact{}, fmt.Errorf("render docx report: %w", err)
		}
		return Artifact{FileName: name, ContentType: contentTypeDocx, Body: body}, nil
	default:
		return Artifact{}, ErrUnknownArtifact
	}
}
