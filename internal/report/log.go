package report

import (
	"log/slog"

	"github.com/dustin/go-humanize"

	"github.com/amishk599/codedesc/internal/model"
)

// Ensure LogReporter implements model.Reporter.
var _ model.Reporter = (*LogReporter)(nil)

// LogReporter writes described files to the given logger as structured messages.
type LogReporter struct {
	logger *slog.Logger
}

// NewLogReporter returns a reporter that logs each entry via slog.
func NewLogReporter(logger *slog.Logger) *LogReporter {
	return &LogReporter{logger: logger}
}

// Report logs each entry with path, size, provider and description.
// Returns nil (logging does not fail).
func (r *LogReporter) Report(entries []model.Entry) error {
	for _, e := range entries {
		args := []any{"path", e.Path, "size", humanize.Bytes(uint64(e.Size)), "description", e.Description}
		if e.Provider != "" {
			args = append(args, "provider", e.Provider)
		}
		r.logger.Info("described file", args...)
	}
	return nil
}
