package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/codedesc/internal/browse"
	"github.com/amishk599/codedesc/internal/describe"
	"github.com/amishk599/codedesc/internal/model"
	"github.com/amishk599/codedesc/internal/report"
)

var describeSpinner bool

var describeCmd = &cobra.Command{
	Use:   "describe <file>...",
	Short: "Describe files and print the result",
	Long:  "Describes each file with the active provider and prints the description. Nothing is written to the index.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDescribe,
}

func init() {
	describeCmd.Flags().BoolVar(&describeSpinner, "spinner", false, "show a spinner while each file is described")
	rootCmd.AddCommand(describeCmd)
}

func runDescribe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	d := setupDescriber(cfg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reporter := report.NewTextReporter(os.Stdout)
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		content := string(data)

		var out describe.Outcome
		if describeSpinner {
			out, err = browse.RunLoader(ctx, path, func(ctx context.Context) describe.Outcome {
				return d.DescribeOutcome(ctx, path, content)
			})
			if err != nil {
				return err
			}
		} else {
			out = d.DescribeOutcome(ctx, path, content)
		}

		entry := model.Entry{
			Path:        path,
			Description: out.Text,
			Provider:    out.Provider,
			Size:        int64(len(data)),
			DescribedAt: time.Now(),
		}
		if err := reporter.Report([]model.Entry{entry}); err != nil {
			return err
		}
	}
	return nil
}
