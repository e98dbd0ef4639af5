package describe

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"
)

// truthy lists the accepted values of FILTER_RELEVANT_FILES after
// lowercasing and trimming.
var truthy = map[string]bool{"true": true, "1": true, "yes": true, "on": true}

// Outcome is the full result of one describe call. Text is what callers of
// Describe receive; Err records why Text fell back to a placeholder.
type Outcome struct {
	Text     string
	Provider string
	Elapsed  time.Duration
	Err      error
}

// Describer turns file content into a one-line description using the first
// configured LLM provider. It holds no mutable state and is safe for
// concurrent use.
type Describer struct {
	env           Env
	registrations []Registration
	httpClient    *http.Client
	logger        *slog.Logger
}

// Option configures a Describer.
type Option func(*Describer)

// WithRegistrations replaces the provider priority table.
func WithRegistrations(regs []Registration) Option {
	return func(d *Describer) { d.registrations = regs }
}

// WithHTTPClient sets the client handed to providers.
func WithHTTPClient(c *http.Client) Option {
	return func(d *Describer) { d.httpClient = c }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Describer) { d.logger = l }
}

// New creates a Describer that reads its configuration through env at call time.
func New(env Env, opts ...Option) *Describer {
	d := &Describer{
		env:           env,
		registrations: DefaultRegistrations,
		httpClient:    &http.Client{},
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return d
}

// DescribeFile describes a file using the process environment.
func DescribeFile(ctx context.Context, path, content string) string {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	return New(os.Getenv, WithLogger(logger)).Describe(ctx, path, content)
}

// Enabled reports whether FILTER_RELEVANT_FILES is set to a truthy value.
func (d *Describer) Enabled() bool {
	return truthy[strings.ToLower(strings.TrimSpace(d.env(EnvEnabled)))]
}

// Provider returns the provider that would serve the next call.
func (d *Describer) Provider() (Provider, bool) {
	reg, ok := Select(d.env, d.registrations)
	if !ok {
		return nil, false
	}
	return reg.New(d.env, d.httpClient, d.logger), true
}

// Describe returns the rendered description of the file, or one of the
// placeholders Disabled, Empty or Unknown. It never fails.
func (d *Describer) Describe(ctx context.Context, path, content string) string {
	return d.DescribeOutcome(ctx, path, content).Text
}

// DescribeOutcome is Describe with the provider name, timing and the
// swallowed error kept for the caller's bookkeeping.
func (d *Describer) DescribeOutcome(ctx context.Context, path, content string) Outcome {
	if !d.Enabled() {
		return Outcome{Text: Disabled}
	}
	if strings.TrimSpace(content) == "" {
		return Outcome{Text: Empty}
	}

	provider, ok := d.Provider()
	if !ok {
		return Outcome{Text: Unknown}
	}

	start := time.Now()
	desc, err := d.request(ctx, provider, path, content)
	elapsed := time.Since(start)
	if err != nil {
		d.logger.Warn("describe failed", "path", path, "provider", provider.Name(), "error", err)
		desc = unknownDescription
	} else {
		d.logger.Info("generated summary", "path", path, "provider", provider.Name(), "elapsed", elapsed.Round(100*time.Millisecond))
	}

	return Outcome{
		Text:     desc.String(),
		Provider: provider.Name(),
		Elapsed:  elapsed,
		Err:      err,
	}
}

func (d *Describer) request(ctx context.Context, provider Provider, path, content string) (Description, error) {
	raw, err := provider.Describe(ctx, path, content)
	if err != nil {
		return Description{}, fmt.Errorf("%s describe: %w", provider.Name(), err)
	}
	return ParseDescription(raw)
}
