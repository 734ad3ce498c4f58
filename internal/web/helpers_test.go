package web

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"interview-summarizer/internal/interviews"
	"interview-summarizer/internal/llm"
	"interview-summarizer/internal/sessions"
	"interview-summarizer/internal/shared/server/middleware"
	"interview-summarizer/internal/shared/storage/object/local"
)

type fakeLLM struct {
	mu     sync.Mutex
	result llm.Result
	err    error
	keys   []string
}

func (f *fakeLLM) factory(_ context.Context, apiKey string) (llm.Client, error) {
	f.mu.Lock()
	f.keys = append(f.keys, apiKey)
	f.mu.Unlock()
	return f, nil
}

func (f *fakeLLM) Analyze(_ context.Context, input llm.Input) (llm.Result, error) {
	if _, err := io.Copy(io.Discard, input.Body); err != nil {
		return llm.Result{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result, f.err
}

func (f *fakeLLM) set(result llm.Result, err error) {
	f.mu.Lock()
	f.result, f.err = result, err
	f.mu.Unlock()
}

type testEnv struct {
	router   *gin.Engine
	llm      *fakeLLM
	service  *interviews.Service
	sessions *sessions.Manager
	cookies  []*http.Cookie
}

func newTestEnv(t *testing.T, serverKey string) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	fake := &fakeLLM{result: llm.Result{
		Summary:    "## Executive Summary\nHiring plan <script>alert(1)</script>",
		Transcript: "Interviewer: Hello\nCandidate: Hi",
		MindMap:    "mindmap\n  root((Hiring))",
	}}
	svc := &interviews.Service{
		Store:           local.New(t.TempDir()),
		NewClient:       fake.factory,
		DefaultAPIKey:   serverKey,
		DefaultLanguage: llm.LanguageChinese,
		Mode:            llm.ModeCombined,
		Model:           "gemini-test",
	}
	manager := sessions.NewManager(time.Hour, 10)
	opts := Options{MaxUploadBytes: 1 << 20, Model: "gemini-test"}

	ui, err := NewUIHandler(svc, manager, opts)
	if err != nil {
		t.Fatalf("NewUIHandler: %v", err)
	}
	api := NewAPIHandler(svc, manager, opts)

	r := gin.New()
	r.Use(middleware.RequestID())
	group := r.Group("/", middleware.Session(manager, middleware.SessionOptions{DefaultLanguage: llm.LanguageChinese}))
	ui.RegisterRoutes(group)
	api.RegisterRoutes(group.Group("/api/v1"))

	return &testEnv{router: r, llm: fake, service: svc, sessions: manager}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range e.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	if cookies := rec.Result().Cookies(); len(cookies) > 0 {
		e.cookies = cookies
	}
	return rec
}

func (e *testEnv) get(path string) *httptest.ResponseRecorder {
	return e.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (e *testEnv) sessionID(t *testing.T) string {
	t.Helper()
	for _, c := range e.cookies {
		if c.Name == middleware.SessionCookieName {
			return c.Value
		}
	}
	t.Fatalf("no session cookie")
	return ""
}

func (e *testEnv) upload(path, fileName string, content []byte, fields map[string]string) *httptest.ResponseRecorder {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		_ = w.WriteField(k, v)
	}
	if fileName != "" {
		part, _ := w.CreateFormFile("file", fileName)
		_, _ = part.Write(content)
	}
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return e.do(req)
}

var errProvider = errors.New("generate content: API key not valid (HTTP 400)")
