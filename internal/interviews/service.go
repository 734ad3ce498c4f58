package interviews

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"interview-summarizer/internal/llm"
	"interview-summarizer/internal/media"
	"interview-summarizer/internal/shared/metrics"
	"interview-summarizer/internal/shared/storage/object"
	"interview-summarizer/internal/shared/telemetry"
	"interview-summarizer/internal/shared/util"
)

// Service runs one interview analysis synchronously.
type Service struct {
	Store           object.ObjectStore
	NewClient       llm.Factory
	DefaultAPIKey   string
	DefaultLanguage llm.Language
	Mode            llm.Mode
	Model           string

	now func() time.Time
}

// HasDefaultKey reports whether a server-side API key is configured.
func (s *Service) HasDefaultKey() bool {
	return strings.TrimSpace(s.DefaultAPIKey) != ""
}

// ResolveAPIKey prefers the caller's key and falls back to the server default.
func (s *Service) ResolveAPIKey(requestKey string) (string, error) {
	if key := strings.TrimSpace(requestKey); key != "" {
		return key, nil
	}
	if key := strings.TrimSpace(s.DefaultAPIKey); key != "" {
		return key, nil
	}
	return "", llm.ErrAPIKeyRequired
}

// Analyze stages the upload, sends it to the model provider and returns the
// finished analysis. The staged copy is removed whatever the outcome.
func (s *Service) Analyze(ctx context.Context, req AnalyzeRequest) (Analysis, error) {
	if s.Store == nil || s.NewClient == nil {
		return Analysis{}, ErrNotConfigured
	}
	apiKey, err := s.ResolveAPIKey(req.APIKey)
	if err != nil {
		return Analysis{}, err
	}
	lang, err := s.language(req.Language)
	if err != nil {
		return Analysis{}, err
	}
	if req.Body == nil || strings.TrimSpace(req.FileName) == "" {
		return Analysis{}, ErrFileRequired
	}
	format, err := media.Lookup(req.FileName)
	if err != nil {
		return Analysis{}, err
	}

	mode := s.Mode
	if mode == "" {
		mode = llm.ModeCombined
	}
	startedAt := s.clock()
	analysis := Analysis{
		ID:        uuid.NewString(),
		FileName:  req.FileName,
		BaseName:  media.BaseName(req.FileName),
		Kind:      format.Kind,
		MIMEType:  format.MIMEType,
		Language:  lang,
		Mode:      mode,
		Model:     s.Model,
		StartedAt: startedAt,
	}

	key, size, _, err := s.Store.Save(ctx, req.Owner, req.FileName, req.Body)
	if err != nil {
		if errors.Is(err, util.ErrInvalidFileName) || errors.Is(err, context.Canceled) {
			return Analysis{}, err
		}
		return Analysis{}, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	defer s.deleteStaged(ctx, key, analysis.ID)
	if size == 0 {
		return Analysis{}, ErrEmptyFile
	}
	analysis.SizeBytes = size

	metrics.IncAnalysisStarted()
	metrics.AddUploadBytes(size)
	requestID := telemetry.RequestIDFromContext(ctx)
	telemetry.Info("analysis.started", map[string]any{
		"request_id":  requestID,
		"analysis_id": analysis.ID,
		"file_kind":   string(analysis.Kind),
		"size_bytes":  size,
		"language":    string(lang),
		"mode":        string(mode),
	})

	result, err := s.run(ctx, apiKey, key, analysis)
	duration := s.clock().Sub(startedAt)
	metrics.ObserveAnalysisDurationMs(float64(duration.Milliseconds()))
	if err != nil {
		metrics.IncAnalysisFailed()
		telemetry.Error("analysis.failed", map[string]any{
			"request_id":  requestID,
			"analysis_id": analysis.ID,
			"duration_ms": duration.Milliseconds(),
			"error":       err,
		})
		return Analysis{}, err
	}

	analysis.Result = result
	analysis.CompletedAt = s.clock()
	metrics.IncAnalysisCompleted()
	telemetry.Info("analysis.completed", map[string]any{
		"request_id":  requestID,
		"analysis_id": analysis.ID,
		"duration_ms": duration.Milliseconds(),
	})
	return analysis, nil
}

func (s *Service) run(ctx context.Context, apiKey, key string, analysis Analysis) (llm.Result, error) {
	client, err := s.NewClient(ctx, apiKey)
	if err != nil {
		return llm.Result{}, err
	}
	body, err := s.Store.Open(ctx, key)
	if err != nil {
		return llm.Result{}, fmt.Errorf("%w: open: %v", ErrStorage, err)
	}
	defer body.Close()

	return client.Analyze(ctx, llm.Input{
		FileName: analysis.FileName,
		MIMEType: analysis.MIMEType,
		Body:     body,
		Language: analysis.Language,
		Mode:     analysis.Mode,
	})
}

func (s *Service) deleteStaged(ctx context.Context, key, analysisID string) {
	if err := s.Store.Delete(context.WithoutCancel(ctx), key); err != nil && !errors.Is(err, object.ErrInvalidKey) {
		telemetry.Warn("analysis.staged_delete_failed", map[string]any{
			"request_id":  telemetry.RequestIDFromContext(ctx),
			"analysis_id": analysisID,
			"error":       err,
		})
	}
}

func (s *Service) language(raw string) (llm.Language, error) {
	if strings.TrimSpace(raw) == "" {
		if s.DefaultLanguage != "" {
			return s.DefaultLanguage, nil
		}
		return llm.LanguageChinese, nil
	}
	return llm.ParseLanguage(raw)
}

func (s *Service) clock() time.Time {
	if s.now != nil {
		return s.now().UTC()
	}
	return time.Now().UTC()
}
