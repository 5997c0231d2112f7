package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.APIKey = "test-key"
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Mode != ModeConvert {
		t.Errorf("Expected default mode to be 'convert', got '%s'", cfg.Mode)
	}

	if cfg.OCREndpoint != DefaultOCREndpoint {
		t.Errorf("Expected default OCR endpoint to be '%s', got '%s'", DefaultOCREndpoint, cfg.OCREndpoint)
	}

	if cfg.ChatEndpoint != DefaultChatEndpoint {
		t.Errorf("Expected default chat endpoint to be '%s', got '%s'", DefaultChatEndpoint, cfg.ChatEndpoint)
	}

	if cfg.OCRModel != DefaultOCRModel {
		t.Errorf("Expected default OCR model to be '%s', got '%s'", DefaultOCRModel, cfg.OCRModel)
	}

	if cfg.PagesPerPart != 30 {
		t.Errorf("Expected default pages per part to be 30, got %d", cfg.PagesPerPart)
	}

	if cfg.Timeout != 120*time.Second {
		t.Errorf("Expected default timeout to be 120s, got %s", cfg.Timeout)
	}

	if cfg.MaxFileSize != 100*1024*1024 {
		t.Errorf("Expected default max file size to be 100MB, got %d", cfg.MaxFileSize)
	}

	if !cfg.WithTOC {
		t.Error("Expected TOC output to be enabled by default")
	}

	if cfg.WithSummary {
		t.Error("Expected summary output to be disabled by default")
	}

	if cfg.ServerName != "pdf2md" {
		t.Errorf("Expected default server name to be 'pdf2md', got '%s'", cfg.ServerName)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("Expected default log level to be 'info', got '%s'", cfg.LogLevel)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid convert mode config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "valid stdio mode config",
			mutate:  func(c *Config) { c.Mode = ModeStdio },
			wantErr: false,
		},
		{
			name:    "invalid mode",
			mutate:  func(c *Config) { c.Mode = "server" },
			wantErr: true,
		},
		{
			name:    "missing API key",
			mutate:  func(c *Config) { c.APIKey = "" },
			wantErr: true,
		},
		{
			name:    "empty OCR endpoint",
			mutate:  func(c *Config) { c.OCREndpoint = "" },
			wantErr: true,
		},
		{
			name:    "zero pages per part",
			mutate:  func(c *Config) { c.PagesPerPart = 0 },
			wantErr: true,
		},
		{
			name:    "negative pages per part",
			mutate:  func(c *Config) { c.PagesPerPart = -3 },
			wantErr: true,
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.Timeout = 0 },
			wantErr: true,
		},
		{
			name:    "zero summary tokens",
			mutate:  func(c *Config) { c.SummaryTokens = 0 },
			wantErr: true,
		},
		{
			name:    "zero max file size",
			mutate:  func(c *Config) { c.MaxFileSize = 0 },
			wantErr: true,
		},
		{
			name:    "invalid log level",
			mutate:  func(c *Config) { c.LogLevel = "verbose" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected error but got none")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateCreatesOutputDir(t *testing.T) {
	cfg := validConfig()
	cfg.OutputDir = t.TempDir() + "/nested/out"

	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestModeHelpers(t *testing.T) {
	cfg := validConfig()

	if !cfg.IsConvertMode() || cfg.IsStdioMode() {
		t.Error("default config should be in convert mode")
	}

	cfg.Mode = ModeStdio
	if cfg.IsConvertMode() || !cfg.IsStdioMode() {
		t.Error("stdio config should be in stdio mode")
	}
}

func TestIsDebug(t *testing.T) {
	cfg := validConfig()
	if cfg.IsDebug() {
		t.Error("info level should not be debug")
	}

	cfg.LogLevel = "debug"
	if !cfg.IsDebug() {
		t.Error("debug level should be debug")
	}
}

func TestStringRedactsAPIKey(t *testing.T) {
	cfg := validConfig()

	s := cfg.String()
	if strings.Contains(s, "test-key") {
		t.Error("String() must not leak the API key")
	}
	if !strings.Contains(s, "APIKey: set") {
		t.Errorf("String() should report the key as set, got %s", s)
	}
}

func TestPopulateConfigFromViper(t *testing.T) {
	defer viper.Reset()

	cfg := DefaultConfig()
	setupViperEnvironment(cfg)

	viper.Set("api_key", "from-viper")
	viper.Set("pages_per_part", 15)
	viper.Set("ocr_model", "mistral-ocr-2503")
	viper.Set("summary", true)

	populateConfigFromViper(cfg)

	if cfg.APIKey != "from-viper" {
		t.Errorf("Expected API key 'from-viper', got '%s'", cfg.APIKey)
	}
	if cfg.PagesPerPart != 15 {
		t.Errorf("Expected pages per part 15, got %d", cfg.PagesPerPart)
	}
	if cfg.OCRModel != "mistral-ocr-2503" {
		t.Errorf("Expected OCR model 'mistral-ocr-2503', got '%s'", cfg.OCRModel)
	}
	if !cfg.WithSummary {
		t.Error("Expected summary output to be enabled")
	}
	// Untouched keys keep their defaults
	if cfg.OCREndpoint != DefaultOCREndpoint {
		t.Errorf("Expected default OCR endpoint, got '%s'", cfg.OCREndpoint)
	}
}
