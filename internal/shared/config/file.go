package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

type fileConfig struct {
	Port             string   `yaml:"port"`
	Env              string   `yaml:"env"`
	CORSAllowOrigins []string `yaml:"cors_allow_origins"`
	Gemini           struct {
		APIKey       string `yaml:"api_key"`
		Model        string `yaml:"model"`
		Timeout      string `yaml:"timeout"`
		PollInterval string `yaml:"poll_interval"`
		PollTimeout  string `yaml:"poll_timeout"`
	} `yaml:"gemini"`
	Analysis struct {
		Mode            string `yaml:"mode"`
		DefaultLanguage string `yaml:"default_language"`
	} `yaml:"analysis"`
	Uploads struct {
		MaxMB int `yaml:"max_mb"`
	} `yaml:"uploads"`
	Storage struct {
		Type     string `yaml:"type"`
		LocalDir string `yaml:"local_dir"`
		S3       struct {
			Region      string `yaml:"region"`
			Bucket      string `yaml:"bucket"`
			Prefix      string `yaml:"prefix"`
			SSEKMSKeyID string `yaml:"sse_kms_key_id"`
		} `yaml:"s3"`
	} `yaml:"storage"`
	Sessions struct {
		TTL          string `yaml:"ttl"`
		Max          int    `yaml:"max"`
		CookieSecure *bool  `yaml:"cookie_secure"`
	} `yaml:"sessions"`
}

// loadFile reads the YAML overlay. A missing file is not an error.
func loadFile(path string) (fileConfig, error) {
	var cfg fileConfig
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fileConfig{}, fmt.Errorf("parse config file: %w", err)
	}
	return cfg, nil
}
