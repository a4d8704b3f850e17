package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "log:\n  level: debug\n")

	config, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if config.Log.Level != "debug" {
		t.Fatalf("expected debug level, got %s", config.Log.Level)
	}
	if config.Http.Addr != "127.0.0.1:8501" {
		t.Fatalf("unexpected default addr: %s", config.Http.Addr)
	}
	if config.Pipeline.CacheSize != 256 {
		t.Fatalf("unexpected default cache size: %d", config.Pipeline.CacheSize)
	}
	dir := filepath.Dir(path)
	if config.Artifacts.Model != filepath.Join(dir, "models", "placeholder", "model.json") {
		t.Fatalf("expected model path relative to config, got %s", config.Artifacts.Model)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
http:
  addr: ":9000"
  timeout: 5s
artifacts:
  scaler: /opt/models/scaler.json
  model: forest.json
  labels: /opt/models/labels.json
pipeline:
  cache_size: 0
`)

	config, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if config.Http.Addr != ":9000" || config.Http.Timeout != 5*time.Second {
		t.Fatalf("unexpected http config: %+v", config.Http)
	}
	if config.Artifacts.Scaler != "/opt/models/scaler.json" {
		t.Fatalf("absolute path should be kept, got %s", config.Artifacts.Scaler)
	}
	if config.Artifacts.Model != filepath.Join(filepath.Dir(path), "forest.json") {
		t.Fatalf("unexpected model path: %s", config.Artifacts.Model)
	}
	if config.Pipeline.CacheSize != 0 {
		t.Fatalf("expected cache disabled, got %d", config.Pipeline.CacheSize)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := writeConfig(t, "log:\n  env: staging\npipeline:\n  cache_size: -1\n")

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), `log.env must be "prod" or "dev", got "staging"`) {
		t.Fatalf("missing env error: %v", err)
	}
	if !strings.Contains(err.Error(), "pipeline.cache_size must not be negative") {
		t.Fatalf("missing cache size error: %v", err)
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeConfig(t, "http: [unterminated\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); !os.IsNotExist(err) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}
