package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/codedesc/internal/config"
	"github.com/amishk599/codedesc/internal/describe"
	"github.com/amishk599/codedesc/internal/filter"
	"github.com/amishk599/codedesc/internal/index"
	"github.com/amishk599/codedesc/internal/model"
	"github.com/amishk599/codedesc/internal/report"
	"github.com/amishk599/codedesc/internal/scheduler"
	"github.com/amishk599/codedesc/internal/store"
)

var (
	indexDryRun bool
	indexFormat string
	indexEvery  time.Duration
)

var indexCmd = &cobra.Command{
	Use:   "index [dir]",
	Short: "Describe every matching file under a directory and save the results",
	Long:  "Walks dir (default: current directory), describes each file accepted by the index filters and stores the results in the index database.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runIndex,
}

func init() {
	indexCmd.Flags().BoolVar(&indexDryRun, "dry-run", false, "list matching files without calling a provider or writing the index")
	indexCmd.Flags().StringVar(&indexFormat, "format", "text", "report format: text, log or slack")
	indexCmd.Flags().DurationVar(&indexEvery, "every", 0, "keep running and re-index on this interval (e.g. 30m)")
	rootCmd.AddCommand(indexCmd)
}

func setupReporter(format string, cfg *config.Config, logger *slog.Logger) (model.Reporter, error) {
	switch format {
	case "text":
		return report.NewTextReporter(os.Stdout), nil
	case "log":
		return report.NewLogReporter(logger), nil
	case "slack":
		if cfg.Report.SlackWebhookURL == "" {
			return nil, fmt.Errorf("--format slack needs report.slack_webhook_url in the config file")
		}
		httpClient := &http.Client{Timeout: cfg.HTTP.Timeout}
		return report.NewSlackReporter(cfg.Report.SlackWebhookURL, httpClient, logger), nil
	default:
		return nil, fmt.Errorf("unknown report format %q (want text, log or slack)", format)
	}
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}

	root := "."
	if len(args) == 1 {
		root = args[0]
	}

	reporter, err := setupReporter(indexFormat, cfg, logger)
	if err != nil {
		return err
	}

	fileFilter := filter.NewExtensionFilter(cfg.Index.Include, cfg.Index.ExcludeDirs, cfg.Index.MaxFileSize)

	var (
		describer index.FileDescriber
		entries   model.EntryStore
	)
	if indexDryRun {
		logger.Info("dry run: no provider calls, index not written")
		describer = describe.NewNop()
		entries = store.NewNopStore()
	} else {
		describer = setupDescriber(cfg, logger)
		st, err := openStore(cfg, logger)
		if err != nil {
			return err
		}
		defer st.Close()
		entries = st
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ix := index.NewIndexer(describer, fileFilter, entries, reporter, logger)
	if indexEvery > 0 {
		return scheduler.NewScheduler(ix, []string{root}, indexEvery, logger).Run(ctx)
	}
	if _, err := ix.Run(ctx, root); err != nil {
		logger.Error("index failed", "root", root, "error", err)
		return err
	}
	return nil
}
