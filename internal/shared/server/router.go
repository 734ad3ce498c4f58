package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"interview-summarizer/internal/services/health"
	"interview-summarizer/internal/sessions"
	"interview-summarizer/internal/shared/metrics"
	"interview-summarizer/internal/shared/server/middleware"
	"interview-summarizer/internal/shared/server/respond"
)

// RouteRegistrar attaches a handler's routes to a group.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// StaticRegistrar serves assets outside the session group.
type StaticRegistrar interface {
	RegisterStatic(rg *gin.RouterGroup)
}

// RouterDeps carries everything NewRouter wires.
type RouterDeps struct {
	CORSAllowOrigins []string
	Sessions         *sessions.Manager
	SessionOptions   middleware.SessionOptions
	Health           *health.Service
	UI               RouteRegistrar
	API              RouteRegistrar
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.CORSAllowOrigins),
	)

	r.GET("/metrics", metrics.Handler())
	r.GET("/api/v1/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, deps.Health.Status())
	})

	r.NoRoute(func(c *gin.Context) {
		respond.Error(c, http.StatusNotFound, "not_found", "route not found", nil)
	})

	if deps.Sessions == nil {
		return r
	}
	if static, ok := deps.UI.(StaticRegistrar); ok {
		static.RegisterStatic(r.Group("/"))
	}
	withSession := r.Group("/", middleware.Session(deps.Sessions, deps.SessionOptions))
	if deps.UI != nil {
		deps.UI.RegisterRoutes(withSession)
	}
	if deps.API != nil {
		deps.API.RegisterRoutes(withSession.Group("/api/v1"))
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
