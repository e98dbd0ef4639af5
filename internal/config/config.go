package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/amishk599/codedesc/internal/describe"
)

// Config is the root configuration for codedesc.
type Config struct {
	Describe DescribeConfig
	HTTP     HTTPConfig
	Index    IndexConfig
	Report   ReportConfig
}

// DescribeConfig holds file-level fallbacks for the describer's environment
// variables. The process environment always wins.
type DescribeConfig struct {
	Enabled   bool
	OpenAI    ProviderConfig
	Anthropic ProviderConfig
	Groq      ProviderConfig
}

// ProviderConfig is the credential and endpoint override for one provider.
type ProviderConfig struct {
	APIKey   string `yaml:"api_key" toml:"api_key"`
	Endpoint string `yaml:"endpoint" toml:"endpoint"`
}

// HTTPConfig controls the CLI's HTTP client.
type HTTPConfig struct {
	Timeout time.Duration
}

// IndexConfig controls which files an index run visits and where results go.
type IndexConfig struct {
	DBPath      string
	Include     []string // file extensions with leading dot, lowercased
	ExcludeDirs []string
	MaxFileSize int64 // bytes
}

// ReportConfig configures where index results are sent besides stdout.
type ReportConfig struct {
	SlackWebhookURL string
}

const (
	defaultHTTPTimeout = 60 * time.Second
	defaultDBPath      = "codedesc.db"
	defaultMaxFileSize = "1 MB"
)

var defaultExcludeDirs = []string{".git", "node_modules", "vendor"}

// rawConfig is used for YAML/TOML unmarshaling (snake_case fields, durations and sizes as strings).
type rawConfig struct {
	Describe rawDescribeConfig `yaml:"describe" toml:"describe"`
	HTTP     rawHTTPConfig     `yaml:"http" toml:"http"`
	Index    rawIndexConfig    `yaml:"index" toml:"index"`
	Report   rawReportConfig   `yaml:"report" toml:"report"`
}

type rawReportConfig struct {
	SlackWebhookURL string `yaml:"slack_webhook_url" toml:"slack_webhook_url"`
}

type rawDescribeConfig struct {
	Enabled   bool           `yaml:"enabled" toml:"enabled"`
	OpenAI    ProviderConfig `yaml:"openai" toml:"openai"`
	Anthropic ProviderConfig `yaml:"anthropic" toml:"anthropic"`
	Groq      ProviderConfig `yaml:"groq" toml:"groq"`
}

type rawHTTPConfig struct {
	Timeout string `yaml:"timeout" toml:"timeout"`
}

type rawIndexConfig struct {
	DBPath      string   `yaml:"db_path" toml:"db_path"`
	Include     []string `yaml:"include" toml:"include"`
	ExcludeDirs []string `yaml:"exclude_dirs" toml:"exclude_dirs"`
	MaxFileSize string   `yaml:"max_file_size" toml:"max_file_size"`
}

// Default returns the configuration used when no config file is given.
func Default() *Config {
	cfg, err := build(rawConfig{})
	if err != nil {
		panic(fmt.Sprintf("default config: %v", err))
	}
	return cfg
}

// Load reads the config file at path. The format is chosen by extension:
// .yaml/.yml or .toml. ${VAR} references are expanded before parsing.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case ".toml":
		if _, err := toml.Decode(expanded, &raw); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q (want .yaml, .yml or .toml)", ext)
	}

	return build(raw)
}

func build(raw rawConfig) (*Config, error) {
	timeout := defaultHTTPTimeout
	if raw.HTTP.Timeout != "" {
		d, err := time.ParseDuration(raw.HTTP.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parse http.timeout %q: %w", raw.HTTP.Timeout, err)
		}
		timeout = d
	}

	sizeStr := raw.Index.MaxFileSize
	if sizeStr == "" {
		sizeStr = defaultMaxFileSize
	}
	maxSize, err := humanize.ParseBytes(sizeStr)
	if err != nil {
		return nil, fmt.Errorf("parse index.max_file_size %q: %w", sizeStr, err)
	}

	dbPath := raw.Index.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}

	excludeDirs := raw.Index.ExcludeDirs
	if excludeDirs == nil {
		excludeDirs = defaultExcludeDirs
	}

	include := make([]string, 0, len(raw.Index.Include))
	for _, ext := range raw.Index.Include {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		include = append(include, ext)
	}

	cfg := &Config{
		Describe: DescribeConfig{
			Enabled:   raw.Describe.Enabled,
			OpenAI:    raw.Describe.OpenAI,
			Anthropic: raw.Describe.Anthropic,
			Groq:      raw.Describe.Groq,
		},
		HTTP: HTTPConfig{Timeout: timeout},
		Index: IndexConfig{
			DBPath:      dbPath,
			Include:     include,
			ExcludeDirs: excludeDirs,
			MaxFileSize: int64(maxSize),
		},
		Report: ReportConfig{SlackWebhookURL: strings.TrimSpace(raw.Report.SlackWebhookURL)},
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.HTTP.Timeout < 0 {
		return fmt.Errorf("http.timeout must not be negative, got %v", cfg.HTTP.Timeout)
	}
	if cfg.Index.MaxFileSize == 0 {
		return fmt.Errorf("index.max_file_size must be positive")
	}
	if u := cfg.Report.SlackWebhookURL; u != "" && !strings.HasPrefix(u, "https://") && !strings.HasPrefix(u, "http://") {
		return fmt.Errorf("report.slack_webhook_url must be an http(s) URL")
	}
	for _, ext := range cfg.Index.Include {
		if ext == "." || strings.ContainsAny(ext, `/\`) {
			return fmt.Errorf("index.include: invalid extension %q", ext)
		}
	}
	return nil
}

// Lookup resolves a describer variable: the process environment first, then
// the matching config file value.
func (c *Config) Lookup(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return c.fileValue(key)
}

// Env returns Lookup as a describe.Env.
func (c *Config) Env() describe.Env {
	return c.Lookup
}

func (c *Config) fileValue(key string) string {
	switch key {
	case describe.EnvEnabled:
		if c.Describe.Enabled {
			return "true"
		}
	case describe.EnvOpenAIKey:
		return c.Describe.OpenAI.APIKey
	case describe.EnvOpenAIEndpoint:
		return c.Describe.OpenAI.Endpoint
	case describe.EnvAnthropicKey:
		return c.Describe.Anthropic.APIKey
	case describe.EnvAnthropicEndpoint:
		return c.Describe.Anthropic.Endpoint
	case describe.EnvGroqKey:
		return c.Describe.Groq.APIKey
	case describe.EnvGroqBaseURL:
		return c.Describe.Groq.Endpoint
	}
	return ""
}
