package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeConvert = "convert"
	ModeStdio   = "stdio"

	// Default values
	DefaultOCREndpoint    = "https://api.mistral.ai/v1/ocr"
	DefaultChatEndpoint   = "https://api.mistral.ai/v1/chat/completions"
	DefaultOCRModel       = "mistral-ocr-latest"
	DefaultChatModel      = "mistral-small-latest"
	DefaultPagesPerPart   = 30
	DefaultLogLevel       = "info"
	DefaultMaxFileSize    = 100 * 1024 * 1024 // 100MB
	DefaultRequestTimeout = 120 * time.Second
	DefaultSummaryTokens  = 500

	// Directory permissions
	DefaultDirPerm = 0o750
)

// Config holds all configuration for the PDF to Markdown converter
type Config struct {
	// Execution mode: "convert" for the CLI pipeline, "stdio" for the MCP server
	Mode string

	// OCR / chat service configuration
	APIKey        string
	OCREndpoint   string
	ChatEndpoint  string
	OCRModel      string
	ChatModel     string
	Timeout       time.Duration
	SummaryTokens int

	// Document processing configuration
	PagesPerPart int
	OutputDir    string // empty means next to each source PDF
	MaxFileSize  int64
	WithTOC      bool
	WithSummary  bool
	SaveRaw      bool

	// Application configuration
	Version    string
	ServerName string
	LogLevel   string
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Mode:          ModeConvert,
		OCREndpoint:   DefaultOCREndpoint,
		ChatEndpoint:  DefaultChatEndpoint,
		OCRModel:      DefaultOCRModel,
		ChatModel:     DefaultChatModel,
		Timeout:       DefaultRequestTimeout,
		SummaryTokens: DefaultSummaryTokens,
		PagesPerPart:  DefaultPagesPerPart,
		MaxFileSize:   DefaultMaxFileSize,
		WithTOC:       true,
		WithSummary:   false,
		Version:       "1.0.0",
		ServerName:    "pdf2md",
		LogLevel:      DefaultLogLevel,
	}
}

// LoadFromFlags parses command line flags and returns a configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	pflag.Parse()

	populateConfigFromViper(cfg)

	// Expand the output directory if one was given
	if cfg.OutputDir != "" {
		if expandedPath, err := filepath.Abs(cfg.OutputDir); err == nil {
			cfg.OutputDir = expandedPath
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix("PDF2MD")
	viper.AutomaticEnv()

	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("api_key", cfg.APIKey)
	viper.SetDefault("ocr_endpoint", cfg.OCREndpoint)
	viper.SetDefault("chat_endpoint", cfg.ChatEndpoint)
	viper.SetDefault("ocr_model", cfg.OCRModel)
	viper.SetDefault("chat_model", cfg.ChatModel)
	viper.SetDefault("pages_per_part", cfg.PagesPerPart)
	viper.SetDefault("output_dir", cfg.OutputDir)
	viper.SetDefault("timeout", cfg.Timeout)
	viper.SetDefault("summary_tokens", cfg.SummaryTokens)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
	viper.SetDefault("toc", cfg.WithTOC)
	viper.SetDefault("summary", cfg.WithSummary)
	viper.SetDefault("save_raw", cfg.SaveRaw)
	viper.SetDefault("loglevel", cfg.LogLevel)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Execution mode: 'convert' for the CLI pipeline, 'stdio' for the MCP server")
	pflag.String("api-key", cfg.APIKey, "API key for the OCR/chat service")
	pflag.String("ocr-endpoint", cfg.OCREndpoint, "OCR endpoint URL")
	pflag.String("chat-endpoint", cfg.ChatEndpoint, "Chat completion endpoint URL")
	pflag.String("ocr-model", cfg.OCRModel, "Model identifier for OCR requests")
	pflag.String("chat-model", cfg.ChatModel, "Model identifier for summary requests")
	pflag.Int("pages-per-part", cfg.PagesPerPart, "Number of pages per split part")
	pflag.String("output-dir", cfg.OutputDir, "Output directory (default: next to each source PDF)")
	pflag.Duration("timeout", cfg.Timeout, "Timeout for each OCR/chat request")
	pflag.Int("summary-tokens", cfg.SummaryTokens, "Max tokens for the generated summary")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
	pflag.Bool("toc", cfg.WithTOC, "Write a <stem>_toc.md table of contents")
	pflag.Bool("summary", cfg.WithSummary, "Write a <stem>_summary.md document summary")
	pflag.Bool("save-raw", cfg.SaveRaw, "Save raw OCR JSON responses alongside the outputs")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	_ = viper.BindPFlag("mode", pflag.Lookup("mode"))
	_ = viper.BindPFlag("api_key", pflag.Lookup("api-key"))
	_ = viper.BindPFlag("ocr_endpoint", pflag.Lookup("ocr-endpoint"))
	_ = viper.BindPFlag("chat_endpoint", pflag.Lookup("chat-endpoint"))
	_ = viper.BindPFlag("ocr_model", pflag.Lookup("ocr-model"))
	_ = viper.BindPFlag("chat_model", pflag.Lookup("chat-model"))
	_ = viper.BindPFlag("pages_per_part", pflag.Lookup("pages-per-part"))
	_ = viper.BindPFlag("output_dir", pflag.Lookup("output-dir"))
	_ = viper.BindPFlag("timeout", pflag.Lookup("timeout"))
	_ = viper.BindPFlag("summary_tokens", pflag.Lookup("summary-tokens"))
	_ = viper.BindPFlag("maxfilesize", pflag.Lookup("maxfilesize"))
	_ = viper.BindPFlag("toc", pflag.Lookup("toc"))
	_ = viper.BindPFlag("summary", pflag.Lookup("summary"))
	_ = viper.BindPFlag("save_raw", pflag.Lookup("save-raw"))
	_ = viper.BindPFlag("loglevel", pflag.Lookup("loglevel"))
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\npdf2md - Convert PDF documents to Markdown via a hosted OCR API\n\n")
		fmt.Fprintf(os.Stderr, "  %s [options] <file.pdf> [more.pdf ...]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s report.pdf                                # convert one document\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --summary --pages-per-part=20 a.pdf b.pdf # summaries, 20-page parts\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=stdio                              # run as MCP server\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --ocr-endpoint=https://host/providers/mistral/azure/ocr report.pdf\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  PDF2MD_API_KEY         API key for the OCR/chat service\n")
		fmt.Fprintf(os.Stderr, "  PDF2MD_OCR_ENDPOINT    OCR endpoint URL\n")
		fmt.Fprintf(os.Stderr, "  PDF2MD_CHAT_ENDPOINT   Chat completion endpoint URL\n")
		fmt.Fprintf(os.Stderr, "  PDF2MD_OCR_MODEL       OCR model identifier\n")
		fmt.Fprintf(os.Stderr, "  PDF2MD_CHAT_MODEL      Chat model identifier\n")
		fmt.Fprintf(os.Stderr, "  PDF2MD_PAGES_PER_PART  Pages per split part\n")
		fmt.Fprintf(os.Stderr, "  PDF2MD_LOGLEVEL        Log level\n")
	}
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.APIKey = viper.GetString("api_key")
	cfg.OCREndpoint = viper.GetString("ocr_endpoint")
	cfg.ChatEndpoint = viper.GetString("chat_endpoint")
	cfg.OCRModel = viper.GetString("ocr_model")
	cfg.ChatModel = viper.GetString("chat_model")
	cfg.PagesPerPart = viper.GetInt("pages_per_part")
	cfg.OutputDir = viper.GetString("output_dir")
	cfg.Timeout = viper.GetDuration("timeout")
	cfg.SummaryTokens = viper.GetInt("summary_tokens")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
	cfg.WithTOC = viper.GetBool("toc")
	cfg.WithSummary = viper.GetBool("summary")
	cfg.SaveRaw = viper.GetBool("save_raw")
	cfg.LogLevel = viper.GetString("loglevel")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Mode != ModeConvert && c.Mode != ModeStdio {
		return errors.New("mode must be either 'convert' or 'stdio'")
	}

	if c.APIKey == "" {
		return errors.New("API key is required (set PDF2MD_API_KEY or --api-key)")
	}

	if c.OCREndpoint == "" {
		return errors.New("OCR endpoint cannot be empty")
	}

	if c.PagesPerPart <= 0 {
		return errors.New("pages per part must be positive")
	}

	if c.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}

	if c.SummaryTokens <= 0 {
		return errors.New("summary tokens must be positive")
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	// The output directory is optional; create it up front so failures surface early
	if c.OutputDir != "" {
		if _, err := os.Stat(c.OutputDir); os.IsNotExist(err) {
			if err := os.MkdirAll(c.OutputDir, DefaultDirPerm); err != nil {
				return fmt.Errorf("cannot create output directory %s: %w", c.OutputDir, err)
			}
		} else if err != nil {
			return fmt.Errorf("cannot access output directory %s: %w", c.OutputDir, err)
		}
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// IsStdioMode returns true if running as an MCP server over stdio
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}

// IsConvertMode returns true if running the CLI conversion pipeline
func (c *Config) IsConvertMode() bool {
	return c.Mode == ModeConvert
}

// String returns a string representation of the configuration with the API key redacted
func (c *Config) String() string {
	key := "unset"
	if c.APIKey != "" {
		key = "set"
	}
	return fmt.Sprintf("Config{Mode: %s, OCREndpoint: %s, OCRModel: %s, ChatModel: %s, "+
		"PagesPerPart: %d, Timeout: %s, APIKey: %s, LogLevel: %s}",
		c.Mode, c.OCREndpoint, c.OCRModel, c.ChatModel, c.PagesPerPart, c.Timeout, key, c.LogLevel)
}
