// Package media knows which uploads the summarizer accepts and how to describe them
// to the model provider.
package media

import (
	"errors"
	"path/filepath"
	"sort"
	"strings"
)

// Kind groups formats for preview and display.
type Kind string

const (
	KindAudio Kind = "audio"
	KindVideo Kind = "video"
	KindImage Kind = "image"
)

// ErrUnsupportedFormat is returned for files outside the accepted extensions.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Format describes an accepted file extension.
type Format struct {
	Extension string
	Kind      Kind
	MIMEType  string
}

var formats = map[string]Format{
	"mp3":  {Extension: "mp3", Kind: KindAudio, MIMEType: "audio/mpeg"},
	"wav":  {Extension: "wav", Kind: KindAudio, MIMEType: "audio/wav"},
	"m4a":  {Extension: "m4a", Kind: KindAudio, MIMEType: "audio/mp4"},
	"mp4":  {Extension: "mp4", Kind: KindVideo, MIMEType: "video/mp4"},
	"mov":  {Extension: "mov", Kind: KindVideo, MIMEType: "video/quicktime"},
	"webm": {Extension: "webm", Kind: KindVideo, MIMEType: "video/webm"},
	"jpg":  {Extension: "jpg", Kind: KindImage, MIMEType: "image/jpeg"},
	"jpeg": {Extension: "jpeg", Kind: KindImage, MIMEType: "image/jpeg"},
	"png":  {Extension: "png", Kind: KindImage, MIMEType: "image/png"},
	"webp": {Extension: "webp", Kind: KindImage, MIMEType: "image/webp"},
}

// Lookup resolves the format of fileName by its extension.
func Lookup(fileName string) (Format, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(strings.TrimSpace(fileName)), "."))
	if ext == "" {
		return Format{}, ErrUnsupportedFormat
	}
	f, ok := formats[ext]
	if !ok {
		return Format{}, ErrUnsupportedFormat
	}
	return f, nil
}

// BaseName strips the last extension, falling back to "interview".
func BaseName(fileName string) string {
	name := filepath.Base(strings.ReplaceAll(strings.TrimSpace(fileName), "\\", "/"))
	if i := strings.LastIndex(name, "."); i > 0 {
		name = name[:i]
	}
	if name == "" || name == "." || name == "/" {
		return "interview"
	}
	return name
}

// Extensions lists accepted extensions for a kind, or all of them when kind is empty.
func Extensions(kind Kind) []string {
	var out []string
	for ext, f := range formats {
		if kind == "" || f.Kind == kind {
			out = append(out, ext)
		}
	}
	sort.Strings(out)
	return out
}

// AcceptAttr renders the accepted extensions for an <input type="file"> accept attribute.
func AcceptAttr() string {
	exts := Extensions("")
	for i, ext := range exts {
		exts[i] = "." + ext
	}
	return strings.Join(exts, ",")
}
