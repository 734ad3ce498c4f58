package web

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Raw HTML in model output is dropped; goldmark only passes it through with html.WithUnsafe.
var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

func renderMarkdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String())
}

// mermaidLiveURL opens the diagram in the Mermaid Live Editor.
func mermaidLiveURL(code string) string {
	state, err := json.Marshal(map[string]any{
		"code":    code,
		"mermaid": `{"theme":"default"}`,
	})
	if err != nil {
		return "https://mermaid.live"
	}
	return "https://mermaid.live/edit#base64:" + base64.URLEncoding.EncodeToString(state)
}
