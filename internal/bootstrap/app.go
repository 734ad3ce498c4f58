package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"interview-summarizer/internal/interviews"
	"interview-summarizer/internal/llm"
	"interview-summarizer/internal/llm/gemini"
	"interview-summarizer/internal/services/health"
	"interview-summarizer/internal/sessions"
	"interview-summarizer/internal/shared/config"
	"interview-summarizer/internal/shared/server"
	"interview-summarizer/internal/shared/server/middleware"
	"interview-summarizer/internal/shared/storage/object"
	localstore "interview-summarizer/internal/shared/storage/object/local"
	s3store "interview-summarizer/internal/shared/storage/object/s3"
	"interview-summarizer/internal/web"
)

// App holds shared dependencies.
type App struct {
	Config    config.Config
	Router    *gin.Engine
	Store     object.ObjectStore
	Sessions  *sessions.Manager
	Service   *interviews.Service
	UI        *web.UIHandler
	API       *web.APIHandler
	Health    *health.Service
	LLMClient llm.Factory
}

// Option customizes Build.
type Option func(*buildOptions)

type buildOptions struct {
	factory llm.Factory
	store   object.ObjectStore
	version string
}

// WithLLMFactory replaces the Gemini client factory, for tests.
func WithLLMFactory(f llm.Factory) Option {
	return func(o *buildOptions) { o.factory = f }
}

// WithStore replaces the configured object store.
func WithStore(s object.ObjectStore) Option {
	return func(o *buildOptions) { o.store = s }
}

// WithVersion sets the build version reported by the health endpoint.
func WithVersion(v string) Option {
	return func(o *buildOptions) { o.version = v }
}

// Build prepares shared dependencies and the router.
func Build(cfg config.Config, opts ...Option) (*App, error) {
	var o buildOptions
	for _, opt := range opts {
		opt(&o)
	}
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	store := o.store
	if store == nil {
		var err error
		store, err = buildStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
	}

	mode, err := llm.ParseMode(cfg.AnalysisMode)
	if err != nil {
		return nil, err
	}
	lang, err := llm.ParseLanguage(cfg.DefaultLanguage)
	if err != nil {
		lang = llm.LanguageChinese
	}

	factory := o.factory
	if factory == nil {
		factory = gemini.NewFactory(gemini.Options{
			Model:        cfg.GeminiModel,
			Timeout:      cfg.GeminiTimeout,
			PollInterval: cfg.GeminiPollInterval,
			PollTimeout:  cfg.GeminiPollTimeout,
		})
	}

	app := &App{
		Config:    cfg,
		Store:     store,
		Sessions:  sessions.NewManager(cfg.SessionTTL, cfg.MaxSessions),
		LLMClient: factory,
		Health:    health.NewService(cfg.GeminiModel, string(mode), cfg.ObjectStoreType, o.version),
	}
	app.Service = &interviews.Service{
		Store:           store,
		NewClient:       factory,
		DefaultAPIKey:   cfg.GeminiAPIKey,
		DefaultLanguage: lang,
		Mode:            mode,
		Model:           cfg.GeminiModel,
	}

	webOpts := web.Options{MaxUploadBytes: cfg.MaxUploadBytes, Model: cfg.GeminiModel}
	app.UI, err = web.NewUIHandler(app.Service, app.Sessions, webOpts)
	if err != nil {
		return nil, err
	}
	app.API = web.NewAPIHandler(app.Service, app.Sessions, webOpts)

	app.Router = server.NewRouter(server.RouterDeps{
		CORSAllowOrigins: cfg.CORSAllowOrigin,
		Sessions:         app.Sessions,
		SessionOptions: middleware.SessionOptions{
			Secure:          cfg.SessionCookieSecure,
			DefaultLanguage: lang,
		},
		Health: app.Health,
		UI:     app.UI,
		API:    app.API,
	})
	return app, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}
