package interviews

import (
	"strings"

	"interview-summarizer/internal/llm"
)

const (
	noSummary    = "无摘要 / No summary"
	noMindMap    = "mindmap\n  root((No Data))"
	noTranscript = "无转录 / No transcript"
)

// BuildReport renders the full Markdown report for a result. Empty sections
// are replaced with bilingual placeholders.
func BuildReport(result llm.Result) string {
	var b strings.Builder
	b.WriteString("# 📋 访谈分析报告 / Interview Analysis Report\n\n")

	b.WriteString("## 📝 访谈纪要 / Summary\n\n")
	b.WriteString(orDefault(result.Summary, noSummary))
	b.WriteString("\n\n---\n\n")

	b.WriteString("## 🗺️ 信息框图 / Mind Map\n\n```mermaid\n")
	b.WriteString(orDefault(result.MindMap, noMindMap))
	b.WriteString("\n```\n\n---\n\n")

	b.WriteString("## 📜 访谈正文 / Transcript\n\n")
	b.WriteString(orDefault(result.Transcript, noTranscript))
	b.WriteString("\n\n---\n\n")

	b.WriteString("*由访谈总结器自动生成 / Generated by Interview Summarizer*\n")
	return b.String()
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return strings.TrimSpace(value)
}
