package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v2"

	"croprec/ml"
)

// DefaultPath is the config file the binaries look for.
const DefaultPath = "config.yaml"

type Config struct {
	Http      HTTPConfig       `yaml:"http"`
	Log       LogConfig        `yaml:"log"`
	Artifacts ml.ArtifactPaths `yaml:"artifacts"`
	Pipeline  PipelineConfig   `yaml:"pipeline"`
}

type HTTPConfig struct {
	Addr           string        `yaml:"addr"`
	Timeout        time.Duration `yaml:"timeout"`
	MaxRequestSize int64         `yaml:"max_request_size"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	Env        string `yaml:"env"` // prod (json) or dev (console)
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type PipelineConfig struct {
	CacheSize int `yaml:"cache_size"`
}

// Default returns the configuration used when no file sets a value.
func Default() Config {
	return Config{
		Http: HTTPConfig{
			Addr:           "127.0.0.1:8501",
			Timeout:        30 * time.Second,
			MaxRequestSize: 1 << 16,
		},
		Log: LogConfig{
			Level:      "info",
			Env:        "dev",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Artifacts: ml.ArtifactPaths{
			Scaler: filepath.Join("models", "placeholder", "scaler.json"),
			Model:  filepath.Join("models", "placeholder", "model.json"),
			Labels: filepath.Join("models", "placeholder", "labels.json"),
		},
		Pipeline: PipelineConfig{CacheSize: 256},
	}
}

// Load reads path over the defaults and validates the result. Relative
// artifact and log paths are resolved against the config file's directory.
func Load(path string) (*Config, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := Default()
	if err := yaml.Unmarshal(payload, &config); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	config.resolve(filepath.Dir(path))

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &config, nil
}

// Find returns path if it exists, otherwise the same name one directory up,
// so binaries under cmd/ pick up the root config.
func Find(path string) string {
	if _, err := os.Stat(path); os.IsNotExist(err) && !filepath.IsAbs(path) {
		parent := filepath.Join("..", path)
		if _, err := os.Stat(parent); err == nil {
			return parent
		}
	}
	return path
}

func (c *Config) resolve(dir string) {
	c.Artifacts.Scaler = resolvePath(dir, c.Artifacts.Scaler)
	c.Artifacts.Model = resolvePath(dir, c.Artifacts.Model)
	c.Artifacts.Labels = resolvePath(dir, c.Artifacts.Labels)
	c.Log.File = resolvePath(dir, c.Log.File)
}

func resolvePath(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

func (c *Config) Validate() error {
	var errs []error
	if c.Http.Addr == "" {
		errs = append(errs, errors.New("http.addr is required"))
	}
	if c.Http.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("http.timeout must be positive, got %s", c.Http.Timeout))
	}
	if c.Http.MaxRequestSize <= 0 {
		errs = append(errs, fmt.Errorf("http.max_request_size must be positive, got %d", c.Http.MaxRequestSize))
	}
	switch c.Log.Env {
	case "prod", "dev":
	default:
		errs = append(errs, fmt.Errorf(`log.env must be "prod" or "dev", got %q`, c.Log.Env))
	}
	if c.Artifacts.Scaler == "" || c.Artifacts.Model == "" || c.Artifacts.Labels == "" {
		errs = append(errs, errors.New("artifacts.scaler, artifacts.model and artifacts.labels are required"))
	}
	if c.Pipeline.CacheSize < 0 {
		errs = append(errs, fmt.Errorf("pipeline.cache_size must not be negative, got %d", c.Pipeline.CacheSize))
	}
	return errors.Join(errs...)
}
