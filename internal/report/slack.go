package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/dustin/go-humanize"

	"github.com/amishk599/codedesc/internal/describe"
	"github.com/amishk599/codedesc/internal/model"
)

// Ensure SlackReporter implements model.Reporter.
var _ model.Reporter = (*SlackReporter)(nil)

// Slack rejects messages with more than 50 blocks. Header, divider and the
// overflow note take three.
const maxSlackEntries = 47

// Slack rejects section text longer than 3000 characters.
const maxSectionChars = 3000

// SlackReporter posts an index run to a Slack channel via Incoming Webhooks.
type SlackReporter struct {
	webhookURL string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewSlackReporter returns a reporter that posts one message per run.
func NewSlackReporter(webhookURL string, httpClient *http.Client, logger *slog.Logger) *SlackReporter {
	return &SlackReporter{
		webhookURL: webhookURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Report sends all entries as a single Slack message using Block Kit.
func (s *SlackReporter) Report(entries []model.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	body, err := json.Marshal(buildPayload(entries))
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post to slack: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack returned %d", resp.StatusCode)
	}
	s.logger.Info("slack report sent", "entries", len(entries))
	return nil
}

// Block Kit payload types.

type slackPayload struct {
	Blocks []slackBlock `json:"blocks"`
}

type slackBlock struct {
	Type     string      `json:"type"`
	Text     *slackText  `json:"text,omitempty"`
	Elements []slackText `json:"elements,omitempty"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func slackDescription(text string) string {
	switch text {
	case describe.Disabled:
		return "_(describing disabled)_"
	case describe.Empty, describe.Unknown:
		return "_" + text + "_"
	}
	return text
}

func buildPayload(entries []model.Entry) slackPayload {
	blocks := []slackBlock{
		{
			Type: "header",
			Text: &slackText{Type: "plain_text", Text: fmt.Sprintf("📄 codedesc: %d files described", len(entries))},
		},
	}

	shown := entries
	if len(shown) > maxSlackEntries {
		shown = shown[:maxSlackEntries]
	}
	for _, e := range shown {
		meta := humanize.Bytes(uint64(e.Size))
		if e.Provider != "" {
			meta += " · " + e.Provider
		}
		blocks = append(blocks, slackBlock{
			Type: "section",
			Text: &slackText{
				Type: "mrkdwn",
				Text: truncateChars(fmt.Sprintf("*`%s`*  %s\n%s", e.Path, meta, slackDescription(e.Description)), maxSectionChars),
			},
		})
	}

	if rest := len(entries) - len(shown); rest > 0 {
		blocks = append(blocks, slackBlock{
			Type:     "context",
			Elements: []slackText{{Type: "mrkdwn", Text: fmt.Sprintf("…and %d more", rest)}},
		})
	}

	blocks = append(blocks, slackBlock{Type: "divider"})
	return slackPayload{Blocks: blocks}
}

// truncateChars cuts s to at most limit characters, ending with an ellipsis when cut.
func truncateChars(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
