package index

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/amishk599/codedesc/internal/describe"
	"github.com/amishk599/codedesc/internal/model"
)

// FileDescriber produces the description of one file.
// *describe.Describer and *describe.Nop implement it.
type FileDescriber interface {
	DescribeOutcome(ctx context.Context, path, content string) describe.Outcome
}

// Stats summarizes one index run.
type Stats struct {
	RunID     string
	Matched   int   // files accepted by the filter
	Skipped   int   // files rejected by the filter or not valid UTF-8
	Described int   // files that got a real description
	Empty     int   // files with blank content
	Unknown   int   // files left at the unknown placeholder
	Failed    int   // provider or parse failures (subset of Unknown)
	Disabled  int   // files seen while describing was switched off
	Bytes     int64 // content bytes sent for description
}

// Indexer owns the index pipeline for a directory tree:
// walk → filter → describe → save → report.
type Indexer struct {
	describer FileDescriber
	filter    model.FileFilter
	store     model.EntryStore
	reporter  model.Reporter
	logger    *slog.Logger
	now       func() time.Time
}

// NewIndexer creates an indexer wired with all its dependencies.
func NewIndexer(
	describer FileDescriber,
	filter model.FileFilter,
	store model.EntryStore,
	reporter model.Reporter,
	logger *slog.Logger,
) *Indexer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Indexer{
		describer: describer,
		filter:    filter,
		store:     store,
		reporter:  reporter,
		logger:    logger,
		now:       time.Now,
	}
}

// Run describes every matching file under root, one at a time. Entries are
// saved as they are produced and reported once the walk completes. Disabled
// outcomes are reported but not saved.
func (ix *Indexer) Run(ctx context.Context, root string) (Stats, error) {
	stats := Stats{RunID: uuid.NewString()}
	var entries []model.Entry

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && ix.filter.SkipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel := relativePath(root, path)
		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("stat %s: %w", rel, err)
		}
		if !ix.filter.Match(rel, info.Size()) {
			stats.Skipped++
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", rel, err)
		}
		if !utf8.Valid(data) {
			ix.logger.Debug("skipping binary file", "path", rel)
			stats.Skipped++
			return nil
		}
		stats.Matched++

		out := ix.describer.DescribeOutcome(ctx, rel, string(data))
		// A cancelled call degrades to Unknown; never let that replace a stored description.
		if err := ctx.Err(); err != nil {
			return err
		}
		entry := model.Entry{
			Path:        rel,
			Description: out.Text,
			Provider:    out.Provider,
			Size:        info.Size(),
			RunID:       stats.RunID,
			DescribedAt: ix.now(),
		}
		entries = append(entries, entry)

		switch {
		case out.Text == describe.Disabled && out.Provider == "":
			stats.Disabled++
			return nil
		case out.Text == describe.Empty:
			stats.Empty++
		case out.Text == describe.Unknown:
			stats.Unknown++
		default:
			stats.Described++
			stats.Bytes += info.Size()
		}
		if out.Err != nil {
			stats.Failed++
			stats.Bytes += info.Size()
		}

		if err := ix.store.Save(entry); err != nil {
			return fmt.Errorf("saving %s: %w", rel, err)
		}
		return nil
	})
	if err != nil {
		return stats, fmt.Errorf("indexing %s: %w", root, err)
	}

	if len(entries) > 0 {
		if err := ix.reporter.Report(entries); err != nil {
			return stats, fmt.Errorf("indexing %s: reporting: %w", root, err)
		}
	}

	ix.logger.Info("indexed directory",
		"root", root,
		"run_id", stats.RunID,
		"matched", stats.Matched,
		"described", stats.Described,
		"unknown", stats.Unknown,
		"failed", stats.Failed,
		"skipped", stats.Skipped,
		"sent", humanize.Bytes(uint64(stats.Bytes)),
	)

	return stats, nil
}

// relativePath names path relative to root with forward slashes. A root that
// is itself a file is named by its base name.
func relativePath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return filepath.Base(path)
	}
	return filepath.ToSlash(rel)
}
