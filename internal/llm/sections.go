package llm

import (
	"strings"
)

var markers = map[string]Section{
	"<<<SUMMARY>>>":    SectionSummary,
	"<<<TRANSCRIPT>>>": SectionTranscript,
	"<<<MINDMAP>>>":    SectionMindMap,
}

// ParseSections splits a combined response into its three sections.
// Text before the first marker is dropped. A section that appears twice keeps
// its last occurrence.
func ParseSections(text string) (Result, error) {
	var (
		result  Result
		current Section
		found   bool
		buf     []string
	)

	flush := func() {
		if current == "" {
			return
		}
		body := strings.TrimSpace(strings.Join(buf, "\n"))
		switch current {
		case SectionSummary:
			result.Summary = body
		case SectionTranscript:
			result.Transcript = body
		case SectionMindMap:
			result.MindMap = CleanMermaid(body)
		}
	}

	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if section, ok := markerSection(line); ok {
			flush()
			current = section
			found = true
			buf = buf[:0]
			continue
		}
		if current != "" {
			buf = append(buf, line)
		}
	}
	flush()

	if !found {
		return Result{}, ErrNoSections
	}
	return result, nil
}

func markerSection(line string) (Section, bool) {
	s := strings.TrimSpace(line)
	s = strings.TrimLeft(s, "#*> \t")
	s = strings.TrimRight(s, "*: \t")
	section, ok := markers[strings.ToUpper(s)]
	return section, ok
}

// CleanMermaid strips Markdown code fences around Mermaid source.
func CleanMermaid(text string) string {
	if _, after, ok := strings.Cut(text, "```mermaid"); ok {
		inner, _, _ := strings.Cut(after, "```")
		return strings.TrimSpace(inner)
	}
	if _, after, ok := strings.Cut(text, "```"); ok {
		inner, _, _ := strings.Cut(after, "```")
		return strings.TrimSpace(inner)
	}
	return strings.TrimSpace(text)
}
