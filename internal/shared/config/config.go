package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"interview-summarizer/internal/shared/telemetry"
)

const (
	DefaultModel       = "gemini-2.5-flash"
	defaultPort        = "8080"
	defaultMaxUploadMB = 200
	// maxUploadMB matches the Gemini File API's 2 GB per-file limit.
	maxUploadMB         = 2048
	defaultMaxSessions  = 1000
	defaultTimeout      = 10 * time.Minute
	defaultPollInterval = 2 * time.Second
	defaultPollTimeout  = 10 * time.Minute
	defaultSessionTTL   = time.Hour
)

// Config holds application configuration.
type Config struct {
	Port                string
	Env                 string
	CORSAllowOrigin     []string
	GeminiAPIKey        string
	GeminiModel         string
	GeminiTimeout       time.Duration
	GeminiPollInterval  time.Duration
	GeminiPollTimeout   time.Duration
	AnalysisMode        string
	DefaultLanguage     string
	MaxUploadBytes      int64
	ObjectStoreType     string
	LocalStoreDir       string
	AWSRegion           string
	S3Bucket            string
	S3Prefix            string
	SSEKMSKeyID         string
	SessionTTL          time.Duration
	MaxSessions         int
	SessionCookieSecure bool
}

// Load reads configuration from env files, an optional YAML file and environment
// variables, in increasing order of precedence.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	path := getEnv("CONFIG_FILE", "config.yaml")
	file, err := loadFile(path)
	if err != nil {
		telemetry.Warn("config.file.invalid", map[string]any{"path": path, "err": err})
	}
	return fromSources(file, os.Getenv)
}

func fromSources(file fileConfig, lookup func(string) string) Config {
	get := func(key, fileVal, def string) string {
		if v := strings.TrimSpace(lookup(key)); v != "" {
			return v
		}
		if v := strings.TrimSpace(fileVal); v != "" {
			return v
		}
		return def
	}

	env := normalizeEnv(get("ENV", file.Env, "dev"))
	cors := strings.Join(file.CORSAllowOrigins, ",")
	storeDir := get("LOCAL_STORE_DIR", file.Storage.LocalDir, filepath.Join(os.TempDir(), "interview-summarizer"))

	cookieSecureDefault := "false"
	if env == "production" || env == "staging" {
		cookieSecureDefault = "true"
	}
	fileSecure := ""
	if file.Sessions.CookieSecure != nil {
		fileSecure = strconv.FormatBool(*file.Sessions.CookieSecure)
	}

	return Config{
		Port:                get("PORT", file.Port, defaultPort),
		Env:                 env,
		CORSAllowOrigin:     splitAndTrim(get("CORS_ALLOW_ORIGINS", cors, "http://localhost:5173")),
		GeminiAPIKey:        get("GEMINI_API_KEY", file.Gemini.APIKey, ""),
		GeminiModel:         get("GEMINI_MODEL", file.Gemini.Model, DefaultModel),
		GeminiTimeout:       parseDuration("GEMINI_TIMEOUT", get("GEMINI_TIMEOUT", file.Gemini.Timeout, ""), defaultTimeout),
		GeminiPollInterval:  parseDuration("GEMINI_POLL_INTERVAL", get("GEMINI_POLL_INTERVAL", file.Gemini.PollInterval, ""), defaultPollInterval),
		GeminiPollTimeout:   parseDuration("GEMINI_POLL_TIMEOUT", get("GEMINI_POLL_TIMEOUT", file.Gemini.PollTimeout, ""), defaultPollTimeout),
		AnalysisMode:        normalizeMode(get("ANALYSIS_MODE", file.Analysis.Mode, "combined")),
		DefaultLanguage:     normalizeLanguage(get("DEFAULT_LANGUAGE", file.Analysis.DefaultLanguage, "zh")),
		MaxUploadBytes:      uploadLimit(parseInt("MAX_UPLOAD_MB", get("MAX_UPLOAD_MB", intString(file.Uploads.MaxMB), ""), defaultMaxUploadMB)),
		ObjectStoreType:     normalizeStoreType(get("OBJECT_STORE", file.Storage.Type, "local")),
		LocalStoreDir:       storeDir,
		AWSRegion:           get("AWS_REGION", file.Storage.S3.Region, ""),
		S3Bucket:            get("S3_BUCKET", file.Storage.S3.Bucket, ""),
		S3Prefix:            get("S3_PREFIX", file.Storage.S3.Prefix, ""),
		SSEKMSKeyID:         get("SSE_KMS_KEY_ID", file.Storage.S3.SSEKMSKeyID, ""),
		SessionTTL:          parseDuration("SESSION_TTL", get("SESSION_TTL", file.Sessions.TTL, ""), defaultSessionTTL),
		MaxSessions:         parseInt("MAX_SESSIONS", get("MAX_SESSIONS", intString(file.Sessions.Max), ""), defaultMaxSessions),
		SessionCookieSecure: parseBool(get("SESSION_COOKIE_SECURE", fileSecure, cookieSecureDefault)),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}

func normalizeMode(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "separate":
		return "separate"
	case "combined":
		return "combined"
	default:
		telemetry.Warn("config.value.invalid", map[string]any{"key": "ANALYSIS_MODE", "value": raw})
		return "combined"
	}
}

func normalizeLanguage(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "en":
		return "en"
	case "zh":
		return "zh"
	default:
		telemetry.Warn("config.value.invalid", map[string]any{"key": "DEFAULT_LANGUAGE", "value": raw})
		return "zh"
	}
}

func parseDuration(key, raw string, def time.Duration) time.Duration {
	if raw == "" {
		return def
	}
	val, err := time.ParseDuration(raw)
	if err != nil || val <= 0 {
		telemetry.Warn("config.value.invalid", map[string]any{"key": key, "value": raw})
		return def
	}
	return val
}

func parseInt(key, raw string, def int) int {
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val <= 0 {
		telemetry.Warn("config.value.invalid", map[string]any{"key": key, "value": raw})
		return def
	}
	return val
}

// uploadLimit converts megabytes to bytes, capped at maxUploadMB.
func uploadLimit(mb int) int64 {
	if mb > maxUploadMB {
		telemetry.Warn("config.value.clamped", map[string]any{"key": "MAX_UPLOAD_MB", "value": mb, "max": maxUploadMB})
		mb = maxUploadMB
	}
	return int64(mb) << 20
}

func parseBool(raw string) bool {
	val, err := strconv.ParseBool(strings.TrimSpace(raw))
	return err == nil && val
}

func intString(v int) string {
	if v == 0 {
		return ""
	}
	return strconv.Itoa(v)
}
