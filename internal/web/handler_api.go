package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"interview-summarizer/internal/interviews"
	"interview-summarizer/internal/sessions"
	"interview-summarizer/internal/shared/server/respond"
)

// APIHandler exposes the analysis flow as JSON under /api/v1.
type APIHandler struct {
	analyzer
}

// NewAPIHandler constructs the JSON handler.
func NewAPIHandler(service *interviews.Service, manager *sessions.Manager, opts Options) *APIHandler {
	return &APIHandler{analyzer: analyzer{service: service, sessions: manager, maxUpload: opts.MaxUploadBytes}}
}

type analysisResponse struct {
	interviews.Analysis
	Downloads map[string]string `json:"downloads"`
}

// RegisterRoutes attaches the API routes.
func (h *APIHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyses", h.create)
	rg.GET("/analyses/current", h.getCurrent)
	rg.GET("/analyses/current/downloads/:kind", h.downloadCurrent)
}

func (h *APIHandler) create(c *gin.Context) {
	analysis, err := h.run(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.JSON(c, http.StatusCreated, toResponse(analysis))
}

func (h *APIHandler) getCurrent(c *gin.Context) {
	analysis, err := h.current(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.OK(c, toResponse(*analysis))
}

func (h *APIHandler) downloadCurrent(c *gin.Context) {
	if err := h.download(c); err != nil {
		h.fail(c, err)
	}
}

func (h *APIHandler) fail(c *gin.Context, err error) {
	e := classify(err)
	respond.Error(c, e.status, e.code, e.message, nil)
}

func toResponse(a interviews.Analysis) analysisResponse {
	links := make(map[string]string)
	for kind, link := range downloadLinks(a, "/api/v1/analyses/current/downloads") {
		links[kind] = link.URL
	}
	return analysisResponse{Analysis: a, Downloads: links}
}
