package web

import (
	"context"
	"errors"
	"net/http"

	"interview-summarizer/internal/interviews"
	"interview-summarizer/internal/llm"
	"interview-summarizer/internal/media"
	"interview-summarizer/internal/sessions"
	"interview-summarizer/internal/shared/util"
)

var (
	errFileTooLarge = errors.New("file is too large")
	errNoResult     = errors.New("no analysis result in this session")
)

type httpError struct {
	status  int
	code    string
	message string
}

// classify maps domain errors onto HTTP statuses and envelope codes.
func classify(err error) httpError {
	switch {
	case errors.Is(err, llm.ErrAPIKeyRequired):
		return httpError{http.StatusBadRequest, "api_key_required", "请输入 Gemini API Key / Gemini API key is required"}
	case errors.Is(err, media.ErrUnsupportedFormat),
		errors.Is(err, interviews.ErrEmptyFile),
		errors.Is(err, interviews.ErrFileRequired),
		errors.Is(err, llm.ErrInvalidLanguage),
		errors.Is(err, util.ErrInvalidFileName):
		return httpError{http.StatusBadRequest, "validation_error", err.Error()}
	case errors.Is(err, errFileTooLarge):
		return httpError{http.StatusRequestEntityTooLarge, "file_too_large", err.Error()}
	case errors.Is(err, sessions.ErrBusy):
		return httpError{http.StatusConflict, "analysis_in_progress", "分析进行中 / An analysis is already running in this session"}
	case errors.Is(err, errNoResult), errors.Is(err, interviews.ErrUnknownArtifact):
		return httpError{http.StatusNotFound, "not_found", err.Error()}
	case errors.Is(err, interviews.ErrStorage),
		errors.Is(err, interviews.ErrNotConfigured),
		errors.Is(err, sessions.ErrNotFound):
		return httpError{http.StatusInternalServerError, "internal", err.Error()}
	case errors.Is(err, context.Canceled):
		return httpError{499, "canceled", "request canceled"}
	default:
		return httpError{http.StatusBadGateway, "analysis_failed", err.Error()}
	}
}
