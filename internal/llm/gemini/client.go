// Package gemini implements llm.Client on top of the Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"interview-summarizer/internal/llm"
	"interview-summarizer/internal/shared/telemetry"
)

const (
	defaultModel        = "gemini-2.5-flash"
	defaultTimeout      = 10 * time.Minute
	defaultPollInterval = 2 * time.Second
	defaultPollTimeout  = 10 * time.Minute
	deleteTimeout       = 30 * time.Second
)

// Options tunes the provider. Zero values fall back to defaults.
type Options struct {
	Model        string
	Timeout      time.Duration
	PollInterval time.Duration
	PollTimeout  time.Duration
}

func (o Options) withDefaults() Options {
	if strings.TrimSpace(o.Model) == "" {
		o.Model = defaultModel
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.PollInterval <= 0 {
		o.PollInterval = defaultPollInterval
	}
	if o.PollTimeout <= 0 {
		o.PollTimeout = defaultPollTimeout
	}
	return o
}

type fileAPI interface {
	Upload(ctx context.Context, r io.Reader, config *genai.UploadFileConfig) (*genai.File, error)
	Get(ctx context.Context, name string, config *genai.GetFileConfig) (*genai.File, error)
	Delete(ctx context.Context, name string, config *genai.DeleteFileConfig) (*genai.DeleteFileResponse, error)
}

type modelAPI interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client implements llm.Client using the Gemini File API and GenerateContent.
type Client struct {
	files  fileAPI
	models modelAPI
	opts   Options
	sleep  func(ctx context.Context, d time.Duration) error
}

// NewClient constructs a client bound to apiKey.
func NewClient(ctx context.Context, apiKey string, opts Options) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, llm.ErrAPIKeyRequired
	}
	opts = opts.withDefaults()
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: opts.Timeout},
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return newClient(gc.Files, gc.Models, opts), nil
}

func newClient(files fileAPI, models modelAPI, opts Options) *Client {
	return &Client{
		files:  files,
		models: models,
		opts:   opts.withDefaults(),
		sleep:  sleepContext,
	}
}

// NewFactory returns an llm.Factory that builds a client per API key.
func NewFactory(opts Options) llm.Factory {
	return func(ctx context.Context, apiKey string) (llm.Client, error) {
		return NewClient(ctx, apiKey, opts)
	}
}

// Model reports the model name requests are sent to.
func (c *Client) Model() string {
	return c.opts.Model
}

// Analyze uploads the file, waits for it to become active and asks the model
// for the summary, transcript and mind map.
func (c *Client) Analyze(ctx context.Context, input llm.Input) (llm.Result, error) {
	if input.Body == nil {
		return llm.Result{}, errors.New("gemini: input body is required")
	}

	uploaded, err := c.files.Upload(ctx, input.Body, &genai.UploadFileConfig{
		MIMEType:    input.MIMEType,
		DisplayName: input.FileName,
	})
	if err != nil {
		return llm.Result{}, wrapAPIError("upload file", err)
	}
	defer c.deleteFile(ctx, uploaded.Name)

	file, err := c.waitActive(ctx, uploaded)
	if err != nil {
		return llm.Result{}, err
	}

	switch input.Mode {
	case llm.ModeSeparate:
		return c.analyzeSeparate(ctx, input, file)
	default:
		return c.analyzeCombined(ctx, input, file)
	}
}

func (c *Client) waitActive(ctx context.Context, file *genai.File) (*genai.File, error) {
	deadline := time.Now().Add(c.opts.PollTimeout)
	for file.State == genai.FileStateProcessing {
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w: still processing after %s", llm.ErrFileProcessingFailed, c.opts.PollTimeout)
		}
		if err := c.sleep(ctx, c.opts.PollInterval); err != nil {
			return nil, err
		}
		next, err := c.files.Get(ctx, file.Name, nil)
		if err != nil {
			return nil, wrapAPIError("get file", err)
		}
		file = next
	}
	if file.State == genai.FileStateFailed {
		if file.Error != nil && strings.TrimSpace(file.Error.Message) != "" {
			return nil, fmt.Errorf("%w: %s", llm.ErrFileProcessingFailed, file.Error.Message)
		}
		return nil, llm.ErrFileProcessingFailed
	}
	return file, nil
}

func (c *Client) analyzeCombined(ctx context.Context, input llm.Input, file *genai.File) (llm.Result, error) {
	text, err := c.generate(ctx, input, file, llm.CombinedPrompt(input.Language), "combined")
	if err != nil {
		return llm.Result{}, err
	}
	result, err := llm.ParseSections(text)
	if errors.Is(err, llm.ErrNoSections) {
		// Unmarked answers are kept whole as the summary.
		telemetry.Warn("llm.sections.missing", map[string]any{
			"request_id": telemetry.RequestIDFromContext(ctx),
			"model":      c.opts.Model,
			"chars":      len(text),
		})
		result = llm.Result{Summary: strings.TrimSpace(text)}
		if strings.Contains(text, "```mermaid") {
			result.MindMap = llm.CleanMermaid(text)
		}
		return result, nil
	}
	return result, err
}

func (c *Client) analyzeSeparate(ctx context.Context, input llm.Input, file *genai.File) (llm.Result, error) {
	var result llm.Result
	for _, section := range llm.Sections() {
		text, err := c.generate(ctx, input, file, llm.SectionPrompt(input.Language, section), string(section))
		if err != nil {
			return llm.Result{}, fmt.Errorf("%s: %w", section, err)
		}
		switch section {
		case llm.SectionTranscript:
			result.Transcript = strings.TrimSpace(text)
		case llm.SectionSummary:
			result.Summary = strings.TrimSpace(text)
		case llm.SectionMindMap:
			result.MindMap = llm.CleanMermaid(text)
		}
	}
	return result, nil
}

func (c *Client) generate(ctx context.Context, input llm.Input, file *genai.File, prompt, step string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromURI(file.URI, file.MIMEType),
			genai.NewPartFromText(prompt),
		}, genai.RoleUser),
	}
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(llm.BaseInstruction(input.Language), genai.RoleUser),
	}

	callCtx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.models.GenerateContent(callCtx, c.opts.Model, contents, cfg)
	if err != nil {
		return "", wrapAPIError("generate content", err)
	}
	logUsage(ctx, c.opts.Model, input, step, resp, time.Since(start))

	text := responseText(resp)
	if strings.TrimSpace(text) == "" {
		return "", llm.ErrEmptyResponse
	}
	return text, nil
}

func (c *Client) deleteFile(ctx context.Context, name string) {
	if name == "" {
		return
	}
	delCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), deleteTimeout)
	defer cancel()
	if _, err := c.files.Delete(delCtx, name, nil); err != nil {
		telemetry.Warn("gemini.file_delete_failed", map[string]any{
			"request_id": telemetry.RequestIDFromContext(ctx),
			"file":       name,
			"error":      err,
		})
	}
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			b.WriteString(part.Text)
		}
	}
	return b.String()
}

func logUsage(ctx context.Context, model string, input llm.Input, step string, resp *genai.GenerateContentResponse, elapsed time.Duration) {
	fields := map[string]any{
		"request_id":  telemetry.RequestIDFromContext(ctx),
		"model":       model,
		"language":    string(input.Language),
		"mode":        string(input.Mode),
		"step":        step,
		"duration_ms": elapsed.Milliseconds(),
	}
	if resp != nil && resp.UsageMetadata != nil {
		fields["prompt_tokens"] = resp.UsageMetadata.PromptTokenCount
		fields["completion_tokens"] = resp.UsageMetadata.CandidatesTokenCount
		fields["total_tokens"] = resp.UsageMetadata.TotalTokenCount
	}
	telemetry.Info("llm.response", fields)
}

// wrapAPIError keeps the provider's message visible to the user.
func wrapAPIError(op string, err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && strings.TrimSpace(apiErr.Message) != "" {
		return fmt.Errorf("%s: %s (HTTP %d)", op, apiErr.Message, apiErr.Code)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

var _ llm.Client = (*Client)(nil)
