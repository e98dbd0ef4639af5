package describe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/amishk599/codedesc/internal/model"
)

const (
	defaultAnthropicBaseURL = "https://api.anthropic.com"
	anthropicModel          = "claude-3-haiku-20240307"
	anthropicMaxTokens      = 1024
)

// AnthropicProvider calls the Anthropic messages API.
type AnthropicProvider struct {
	baseURL string
	opts    []option.RequestOption
	logger  *slog.Logger
}

// NewAnthropicProvider creates a provider targeting baseURL (empty uses the public API).
func NewAnthropicProvider(baseURL, apiKey string, httpClient *http.Client, logger *slog.Logger) *AnthropicProvider {
	if baseURL == "" {
		baseURL = defaultAnthropicBaseURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	opts := []option.RequestOption{
		option.WithBaseURL(baseURL + "/"),
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	return &AnthropicProvider{
		baseURL: baseURL,
		opts:    opts,
		logger:  logger,
	}
}

func (p *AnthropicProvider) Name() string { return "anthropic" }

// Describe sends the system instruction in its own parameter, the remaining
// turns as messages, and returns the text of the first content block.
func (p *AnthropicProvider) Describe(ctx context.Context, path, content string) (string, error) {
	messages, err := BuildMessages(path, content)
	if err != nil {
		return "", err
	}

	params := anthropic.MessageNewParams{
		Model:       anthropicModel,
		MaxTokens:   anthropicMaxTokens,
		Temperature: anthropic.Float(0),
	}
	for _, m := range messages {
		if m.Role == "system" {
			params.System = []anthropic.TextBlockParam{{Text: m.Content}}
			continue
		}
		params.Messages = append(params.Messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
	}

	p.logger.Info("calling provider", "provider", p.Name(), "model", anthropicModel, "path", path)
	client := anthropic.NewClient(p.opts...)
	msg, err := client.Messages.New(ctx, params)
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", model.NewHTTPError(p.Name(), apiErr.StatusCode, []byte(apiErr.RawJSON()))
		}
		return "", fmt.Errorf("anthropic request: %w", err)
	}
	if len(msg.Content) == 0 {
		return "", fmt.Errorf("anthropic returned no content")
	}
	return msg.Content[0].Text, nil
}
