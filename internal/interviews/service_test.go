package interviews

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"interview-summarizer/internal/llm"
	"interview-summarizer/internal/media"
	"interview-summarizer/internal/shared/storage/object/local"
)

type fakeClient struct {
	got    llm.Input
	body   string
	result llm.Result
	err    error
}

func (f *fakeClient) Analyze(_ context.Context, input llm.Input) (llm.Result, error) {
	f.got = input
	data, err := io.ReadAll(input.Body)
	if err != nil {
		return llm.Result{}, err
	}
	f.body = string(data)
	return f.result, f.err
}

func newTestService(t *testing.T, client *fakeClient) (*Service, string, *string) {
	t.Helper()
	dir := t.TempDir()
	var usedKey string
	svc := &Service{
		Store: local.New(dir),
		NewClient: func(_ context.Context, apiKey string) (llm.Client, error) {
			usedKey = apiKey
			return client, nil
		},
		DefaultLanguage: llm.LanguageChinese,
		Mode:            llm.ModeCombined,
		Model:           "gemini-test",
	}
	fixed := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }
	return svc, dir, &usedKey
}

func countFiles(t *testing.T, dir string) int {
	t.Helper()
	n := 0
	err := filepath.WalkDir(dir, func(_ string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			n++
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	return n
}

func TestAnalyzeSuccess(t *testing.T) {
	client := &fakeClient{result: llm.Result{Summary: "s", Transcript: "t", MindMap: "mindmap"}}
	svc, dir, usedKey := newTestService(t, client)

	got, err := svc.Analyze(context.Background(), AnalyzeRequest{
		Owner:    "session-1",
		APIKey:   " user-key ",
		Language: "en",
		FileName: "Team Sync.MP3",
		Body:     strings.NewReader("ID3 fake audio"),
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if *usedKey != "user-key" {
		t.Fatalf("api key = %q", *usedKey)
	}
	if client.body != "ID3 fake audio" {
		t.Fatalf("provider received %q", client.body)
	}
	if client.got.MIMEType != "audio/mpeg" || client.got.Language != llm.LanguageEnglish || client.got.Mode != llm.ModeCombined {
		t.Fatalf("unexpected input %+v", client.got)
	}
	if got.ID == "" || got.BaseName != "Team Sync" || got.Kind != media.KindAudio || got.SizeBytes != 14 {
		t.Fatalf("unexpected analysis %+v", got)
	}
	if got.Result.Summary != "s" || got.Model != "gemini-test" || got.CompletedAt.IsZero() {
		t.Fatalf("unexpected analysis %+v", got)
	}
	if n := countFiles(t, dir); n != 0 {
		t.Fatalf("staged files left behind: %d", n)
	}
}

func TestAnalyzeFallsBackToDefaultKey(t *testing.T) {
	client := &fakeClient{result: llm.Result{Summary: "ok"}}
	svc, _, usedKey := newTestService(t, client)
	svc.DefaultAPIKey = "server-key"

	got, err := svc.Analyze(context.Background(), AnalyzeRequest{
		Owner:    "s",
		FileName: "board.png",
		Body:     strings.NewReader("\x89PNG\r\n\x1a\nrest"),
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if *usedKey != "server-key" {
		t.Fatalf("api key = %q", *usedKey)
	}
	if got.Language != llm.LanguageChinese {
		t.Fatalf("language = %q, want default zh", got.Language)
	}
}

func TestAnalyzeValidation(t *testing.T) {
	tests := []struct {
		name    string
		req     AnalyzeRequest
		noKey   bool
		wantErr error
	}{
		{name: "missing key", noKey: true, req: AnalyzeRequest{FileName: "a.mp3", Body: strings.NewReader("x")}, wantErr: llm.ErrAPIKeyRequired},
		{name: "bad language", req: AnalyzeRequest{Language: "fr", FileName: "a.mp3", Body: strings.NewReader("x")}, wantErr: llm.ErrInvalidLanguage},
		{name: "unsupported format", req: AnalyzeRequest{FileName: "notes.pdf", Body: strings.NewReader("x")}, wantErr: media.ErrUnsupportedFormat},
		{name: "no file", req: AnalyzeRequest{}, wantErr: ErrFileRequired},
		{name: "empty file", req: AnalyzeRequest{FileName: "a.wav", Body: strings.NewReader("")}, wantErr: ErrEmptyFile},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{}
			svc, dir, _ := newTestService(t, client)
			if !tt.noKey {
				tt.req.APIKey = "key"
			}
			_, err := svc.Analyze(context.Background(), tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if n := countFiles(t, dir); n != 0 {
				t.Fatalf("staged files left behind: %d", n)
			}
		})
	}
}

func TestAnalyzeProviderFailureCleansUp(t *testing.T) {
	providerErr := errors.New("generate content: quota exceeded (HTTP 429)")
	client := &fakeClient{err: providerErr}
	svc, dir, _ := newTestService(t, client)

	_, err := svc.Analyze(context.Background(), AnalyzeRequest{
		Owner:    "s",
		APIKey:   "key",
		FileName: "clip.mp4",
		Body:     strings.NewReader("video bytes"),
	})
	if !errors.Is(err, providerErr) {
		t.Fatalf("err = %v, want provider error", err)
	}
	if n := countFiles(t, dir); n != 0 {
		t.Fatalf("staged files left behind: %d", n)
	}
}

func TestAnalyzeFactoryError(t *testing.T) {
	svc, _, _ := newTestService(t, &fakeClient{})
	svc.NewClient = func(context.Context, string) (llm.Client, error) {
		return nil, errors.New("dial failed")
	}
	_, err := svc.Analyze(context.Background(), AnalyzeRequest{APIKey: "k", FileName: "a.mp3", Body: strings.NewReader("x")})
	if err == nil || !strings.Contains(err.Error(), "dial failed") {
		t.Fatalf("err = %v", err)
	}
}

func TestAnalyzeNotConfigured(t *testing.T) {
	var svc Service
	if _, err := svc.Analyze(context.Background(), AnalyzeRequest{}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}
}
