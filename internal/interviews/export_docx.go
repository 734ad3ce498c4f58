package interviews

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
)

const (
	docxFont     = "Calibri"
	docxCodeFont = "Courier New"
	docxSize     = 11
	docxColor    = "000000"
)

var (
	reDocxHeading = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	reDocxBold    = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reDocxBullet  = regexp.MustCompile(`^[\-\*]\s+(.+)$`)
)

// renderReportDocx converts the Markdown report into a Word document.
func renderReportDocx(markdown string) ([]byte, error) {
	doc, err := godocx.NewDocument()
	if err != nil {
		return nil, err
	}

	inCode := false
	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "```") {
			inCode = !inCode
			continue
		}
		if inCode {
			doc.AddParagraph("").AddText(line).Font(docxCodeFont).Size(docxSize - 1).Color(docxColor)
			continue
		}
		if trimmed == "" || trimmed == "---" {
			continue
		}

		if m := reDocxHeading.FindStringSubmatch(trimmed); m != nil {
			addDocxRun(doc.AddParagraph(""), m[2], true, headingSize(len(m[1])))
			continue
		}
		if m := reDocxBullet.FindStringSubmatch(trimmed); m != nil {
			addDocxRichText(doc.AddParagraph(""), "• "+m[1])
			continue
		}
		addDocxRichText(doc.AddParagraph(""), strings.TrimPrefix(trimmed, "> "))
	}

	var buf bytes.Buffer
	if err := doc.Write(&buf); err != nil {
		return nil, fmt.Errorf("write docx: %w", err)
	}
	return buf.Bytes(), nil
}

func headingSize(level int) uint64 {
	switch level {
	case 1:
		return 18
	case 2:
		return 15
	case 3:
		return 13
	default:
		return docxSize
	}
}

func addDocxRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(cleanInline(text)).Font(docxFont).Size(size).Color(docxColor)
	if bold {
		run.Bold(true)
	}
}

func addDocxRichText(p *docx.Paragraph, text string) {
	parts := reDocxBold.Split(text, -1)
	matches := reDocxBold.FindAllStringSubmatch(text, -1)
	for i, part := range parts {
		if part != "" {
			addDocxRun(p, part, false, docxSize)
		}
		if i < len(matches) {
			addDocxRun(p, matches[i][1], true, docxSize)
		}
	}
}

func cleanInline(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	s = strings.ReplaceAll(s, "`", "")
	return s
}
