package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/amishk599/codedesc/internal/browse"
	"github.com/amishk599/codedesc/internal/describe"
	"github.com/amishk599/codedesc/internal/index"
	"github.com/amishk599/codedesc/internal/model"
)

var browseRoot string

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the index in a terminal UI",
	Long:  "Interactive list of indexed files. Press r in the detail view to describe the file again from disk.",
	Args:  cobra.NoArgs,
	RunE:  runBrowse,
}

func init() {
	browseCmd.Flags().StringVar(&browseRoot, "root", ".", "directory the index paths are relative to")
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	st, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	entries, err := st.List(time.Time{})
	if err != nil {
		return err
	}

	// The TUI owns the terminal; keep describer logs out of it.
	d := setupDescriber(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return browse.Run(entries, refresher(d, st, browseRoot))
}

var errDescribingDisabled = errors.New("describing is disabled (set FILTER_RELEVANT_FILES=true)")

// refresher describes an entry's file again and saves the result.
func refresher(d index.FileDescriber, st model.EntryStore, root string) browse.RefreshFunc {
	return func(ctx context.Context, e model.Entry) (model.Entry, error) {
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(e.Path)))
		if err != nil {
			return e, fmt.Errorf("reading %s: %w", e.Path, err)
		}

		out := d.DescribeOutcome(ctx, e.Path, string(data))
		if out.Text == describe.Disabled && out.Provider == "" {
			return e, errDescribingDisabled
		}

		updated := model.Entry{
			Path:        e.Path,
			Description: out.Text,
			Provider:    out.Provider,
			Size:        int64(len(data)),
			RunID:       uuid.NewString(),
			DescribedAt: time.Now(),
		}
		if err := st.Save(updated); err != nil {
			return e, err
		}
		return updated, nil
	}
}
