package llm

import (
	"context"
	"errors"
	"io"
)

// Client abstracts model providers for interview analysis.
type Client interface {
	Analyze(ctx context.Context, input Input) (Result, error)
}

// Factory builds a Client bound to one API key. Keys are chosen per session,
// so a client is created for each analysis.
type Factory func(ctx context.Context, apiKey string) (Client, error)

// Input captures what the provider needs to analyze one uploaded file.
type Input struct {
	FileName string
	MIMEType string
	Body     io.Reader
	Language Language
	Mode     Mode
}

// Result holds the three text blocks shown to the user.
type Result struct {
	Summary    string `json:"summary"`
	Transcript string `json:"transcript"`
	MindMap    string `json:"mindMap"`
}

// Empty reports whether no section carries text.
func (r Result) Empty() bool {
	return r.Summary == "" && r.Transcript == "" && r.MindMap == ""
}

var (
	// ErrAPIKeyRequired is returned when no API key is available.
	ErrAPIKeyRequired = errors.New("API key is required")
	// ErrNoSections is returned when a combined response carries no section markers.
	ErrNoSections = errors.New("model response is missing section markers")
	// ErrEmptyResponse is returned when the provider answers without text.
	ErrEmptyResponse = errors.New("empty response from model")
	// ErrFileProcessingFailed is returned when the provider cannot process the upload.
	ErrFileProcessingFailed = errors.New("file processing failed")
)
