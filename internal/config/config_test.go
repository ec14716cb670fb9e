package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Addr() != "0.0.0.0:10000" {
		t.Errorf("Expected addr 0.0.0.0:10000, got %s", cfg.Addr())
	}
	if cfg.UIPath != "/gradio" {
		t.Errorf("Expected UI path /gradio, got %s", cfg.UIPath)
	}
	if !cfg.StrictValidation {
		t.Error("Expected strict validation by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()

	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
port: 9000
model_path: models/house.modelpack
root_descriptor: false
log:
  level: debug
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != 9000 {
		t.Errorf("Expected port 9000, got %d", cfg.Port)
	}
	if cfg.ModelPath != "models/house.modelpack" {
		t.Errorf("Expected model path from file, got %s", cfg.ModelPath)
	}
	if cfg.RootDescriptor {
		t.Error("Expected root descriptor disabled")
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Expected log level debug, got %s", cfg.Log.Level)
	}
	// Unset keys keep their defaults
	if cfg.Host != "0.0.0.0" {
		t.Errorf("Expected default host, got %s", cfg.Host)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing config file")
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"HOUSE_PREDICTOR_PORT":              "8081",
		"HOUSE_PREDICTOR_MODEL_PATH":        "/srv/model.gob",
		"HOUSE_PREDICTOR_STRICT_VALIDATION": "false",
		"HOUSE_PREDICTOR_CACHE_SIZE":        "0",
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	cfg := Default()
	if err := cfg.applyEnv(lookup); err != nil {
		t.Fatalf("applyEnv failed: %v", err)
	}

	if cfg.Port != 8081 {
		t.Errorf("Expected port 8081, got %d", cfg.Port)
	}
	if cfg.ModelPath != "/srv/model.gob" {
		t.Errorf("Expected model path override, got %s", cfg.ModelPath)
	}
	if cfg.StrictValidation {
		t.Error("Expected strict validation disabled")
	}
	if cfg.CacheSize != 0 {
		t.Errorf("Expected cache size 0, got %d", cfg.CacheSize)
	}
}

func TestApplyEnvInvalid(t *testing.T) {
	lookup := func(key string) (string, bool) {
		if key == "HOUSE_PREDICTOR_PORT" {
			return "abc", true
		}
		return "", false
	}

	cfg := Default()
	if err := cfg.applyEnv(lookup); err == nil {
		t.Error("Expected error for non-numeric port")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port zero", func(c *Config) { c.Port = 0 }},
		{"port too large", func(c *Config) { c.Port = 70000 }},
		{"no model", func(c *Config) { c.ModelPath = "" }},
		{"relative ui path", func(c *Config) { c.UIPath = "gradio" }},
		{"trailing slash", func(c *Config) { c.UIPath = "/gradio/" }},
		{"reserved ui path", func(c *Config) { c.UIPath = "/predict" }},
		{"negative cache", func(c *Config) { c.CacheSize = -1 }},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "log:\n  level: info\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan Config, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(cfg Config) { changes <- cfg })
	}()

	// Give the watcher time to register
	time.Sleep(200 * time.Millisecond)
	writeConfig(t, dir, "log:\n  level: debug\n")

	deadline := time.After(5 * time.Second)
	for {
		select {
		case cfg := <-changes:
			if cfg.Log.Level == "debug" {
				cancel()
				if err := <-done; err != nil {
					t.Errorf("Watch returned error: %v", err)
				}
				return
			}
		case <-deadline:
			t.Fatal("Timed out waiting for config change")
		}
	}
}
