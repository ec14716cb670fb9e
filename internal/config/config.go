package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v2"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "HOUSE_PREDICTOR_"

// Config holds the application configuration
type Config struct {
	Host             string    `yaml:"host"`
	Port             int       `yaml:"port"`
	ModelPath        string    `yaml:"model_path"`
	ModelType        string    `yaml:"model_type"`
	UIPath           string    `yaml:"ui_path"`
	RootDescriptor   bool      `yaml:"root_descriptor"`
	StrictValidation bool      `yaml:"strict_validation"`
	CacheSize        int       `yaml:"cache_size"`
	Tracing          bool      `yaml:"tracing"`
	Log              LogConfig `yaml:"log"`
	Version          string    `yaml:"-"`
}

// LogConfig controls logger output and rotation
type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// Default returns the configuration used when nothing is overridden
func Default() Config {
	return Config{
		Host:             "0.0.0.0",
		Port:             10000,
		ModelPath:        "house_model.json",
		UIPath:           "/gradio",
		RootDescriptor:   true,
		StrictValidation: true,
		CacheSize:        1024,
		Log: LogConfig{
			Level:      "info",
			Format:     "json",
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Version: "dev",
	}
}

// Addr returns the listen address
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load builds a configuration from defaults, an optional YAML file,
// a .env file in the working directory and HOUSE_PREDICTOR_* variables
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return cfg, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// loadFile decodes a YAML file over the current values
func (c *Config) loadFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

// applyEnv overrides fields from environment variables
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strVars := map[string]*string{
		"HOST":       &c.Host,
		"MODEL_PATH": &c.ModelPath,
		"MODEL_TYPE": &c.ModelType,
		"UI_PATH":    &c.UIPath,
		"LOG_LEVEL":  &c.Log.Level,
		"LOG_FORMAT": &c.Log.Format,
		"LOG_FILE":   &c.Log.File,
	}
	for key, dst := range strVars {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}

	intVars := map[string]*int{
		"PORT":       &c.Port,
		"CACHE_SIZE": &c.CacheSize,
	}
	for key, dst := range intVars {
		if v, ok := lookup(EnvPrefix + key); ok {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("invalid %s%s %q: %w", EnvPrefix, key, v, err)
			}
			*dst = n
		}
	}

	boolVars := map[string]*bool{
		"ROOT_DESCRIPTOR":   &c.RootDescriptor,
		"STRICT_VALIDATION": &c.StrictValidation,
		"TRACING":           &c.Tracing,
	}
	for key, dst := range boolVars {
		if v, ok := lookup(EnvPrefix + key); ok {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("invalid %s%s %q: %w", EnvPrefix, key, v, err)
			}
			*dst = b
		}
	}

	return nil
}

// reservedPaths cannot host the interactive form
var reservedPaths = map[string]bool{
	"/":             true,
	"/predict":      true,
	"/docs":         true,
	"/openapi.json": true,
	"/health":       true,
	"/info":         true,
}

// Validate checks the configuration for values the server cannot start with
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.ModelPath == "" {
		return errors.New("model_path is required")
	}
	if !strings.HasPrefix(c.UIPath, "/") || strings.HasSuffix(c.UIPath, "/") {
		return fmt.Errorf("ui_path %q must start with / and not end with /", c.UIPath)
	}
	if reservedPaths[c.UIPath] {
		return fmt.Errorf("ui_path %q collides with an API route", c.UIPath)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("cache_size %d must not be negative", c.CacheSize)
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log format %q must be json or console", c.Log.Format)
	}
	return nil
}
