package web

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"

	"interview-summarizer/internal/interviews"
	"interview-summarizer/internal/llm"
	"interview-summarizer/internal/sessions"
	"interview-summarizer/internal/shared/server/middleware"
	"interview-summarizer/internal/shared/server/respond"
)

// Options configures both handlers.
type Options struct {
	MaxUploadBytes int64
	Model          string
}

// UIHandler serves the server-rendered page.
type UIHandler struct {
	analyzer
	model string
	tmpl  *template.Template
}

// NewUIHandler parses the embedded templates.
func NewUIHandler(service *interviews.Service, manager *sessions.Manager, opts Options) (*UIHandler, error) {
	if service == nil || manager == nil {
		return nil, errors.New("web: service and session manager are required")
	}
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &UIHandler{
		analyzer: analyzer{service: service, sessions: manager, maxUpload: opts.MaxUploadBytes},
		model:    opts.Model,
		tmpl:     tmpl,
	}, nil
}

// RegisterStatic serves the embedded CSS and JS. It needs no session.
func (h *UIHandler) RegisterStatic(rg *gin.RouterGroup) {
	if sub, err := staticFS(); err == nil {
		rg.StaticFS("/static", http.FS(sub))
	}
}

// RegisterRoutes attaches the page routes.
func (h *UIHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.index)
	rg.POST("/settings", h.saveSettings)
	rg.POST("/analyze", h.analyze)
	rg.POST("/reset", h.reset)
	rg.GET("/downloads/:kind", h.download)
}

func (h *UIHandler) index(c *gin.Context) {
	notice := ""
	switch {
	case c.Query("saved") == "1":
		notice = "✅ 设置已保存 / Settings saved"
	case c.Query("done") == "1":
		notice = "✅ 分析完成! / Analysis Complete!"
	}
	h.render(c, http.StatusOK, notice, "")
}

func (h *UIHandler) saveSettings(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)
	apiKey := strings.TrimSpace(c.PostForm("api_key"))
	clearKey := c.PostForm("clear_key") == "1"

	var lang llm.Language
	if raw := c.PostForm("language"); raw != "" {
		parsed, err := llm.ParseLanguage(raw)
		if err != nil {
			h.fail(c, err)
			return
		}
		lang = parsed
	}

	_, err := h.sessions.Update(sessionID, func(s *sessions.Session) {
		switch {
		case clearKey:
			s.APIKey = ""
		case apiKey != "":
			s.APIKey = apiKey
		}
		if lang != "" {
			s.Language = lang
		}
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/?saved=1")
}

func (h *UIHandler) analyze(c *gin.Context) {
	if _, err := h.run(c); err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/?done=1#results")
}

func (h *UIHandler) reset(c *gin.Context) {
	if err := h.sessions.Reset(middleware.SessionIDFromContext(c)); err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *UIHandler) download(c *gin.Context) {
	if err := h.analyzer.download(c); err != nil {
		h.fail(c, err)
	}
}

// fail re-renders the page with the error so the previous result stays visible.
func (h *UIHandler) fail(c *gin.Context, err error) {
	e := classify(err)
	respond.Log(c, e.status, e.code, e.message)
	h.render(c, e.status, "", "❌ 分析失败 / Failed: "+e.message)
}

func (h *UIHandler) render(c *gin.Context, status int, notice, errMsg string) {
	session, _ := h.sessions.Get(middleware.SessionIDFromContext(c))
	if session.Language == "" {
		session.Language = h.service.DefaultLanguage
	}
	data := newPageData(session, h.service.HasDefaultKey(), h.model, h.maxUpload)
	data.Notice = notice
	data.Error = errMsg
	c.Render(status, render.HTML{Template: h.tmpl, Name: "index.html", Data: data})
}
