package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/codedesc/internal/config"
	"github.com/amishk599/codedesc/internal/describe"
	"github.com/amishk599/codedesc/internal/store"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "codedesc",
	Short: "One-line LLM descriptions of source files",
	Long: "codedesc asks an LLM provider (OpenAI, Anthropic or Groq, in that order) for a one-line\n" +
		"summary of each file and the files it references. Describing is switched on with\n" +
		"FILTER_RELEVANT_FILES=true.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file, .yaml or .toml (default: CODEDESC_CONFIG env var, else built-in defaults)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > CODEDESC_CONFIG env var > built-in defaults.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = os.Getenv("CODEDESC_CONFIG")
	}
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// setupLogger logs to stderr so stdout stays clean for results and MCP traffic.
func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

func setupDescriber(cfg *config.Config, logger *slog.Logger) *describe.Describer {
	httpClient := &http.Client{Timeout: cfg.HTTP.Timeout}
	d := describe.New(cfg.Env(), describe.WithHTTPClient(httpClient), describe.WithLogger(logger))
	if p, ok := d.Provider(); ok {
		logger.Debug("describer ready", "provider", p.Name())
	} else if d.Enabled() {
		logger.Warn("describing enabled but no provider key set")
	}
	return d
}

// setup builds the logger and loads config.
func setup() (*config.Config, *slog.Logger, error) {
	logger := setupLogger(debug)
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return nil, nil, err
	}
	return cfg, logger, nil
}

func openStore(cfg *config.Config, logger *slog.Logger) (*store.SQLiteStore, error) {
	st, err := store.NewSQLiteStore(cfg.Index.DBPath)
	if err != nil {
		logger.Error("failed to open index", "path", cfg.Index.DBPath, "error", err)
		return nil, err
	}
	logger.Debug("opened index", "path", cfg.Index.DBPath)
	return st, nil
}
