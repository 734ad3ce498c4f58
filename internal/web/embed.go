// Package web serves the browser UI and the JSON API for interview analyses.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"strings"
)

//go:embed templates/*.html static/*
var assets embed.FS

// staticFS returns the embedded static assets rooted at static/.
func staticFS() (fs.FS, error) {
	return fs.Sub(assets, "static")
}

func parseTemplates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"upper": strings.ToUpper,
		"join":  strings.Join,
	}).ParseFS(assets, "templates/*.html")
}
