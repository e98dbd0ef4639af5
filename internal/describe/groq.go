package describe

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/openai/openai-go/option"
)

const (
	defaultGroqBaseURL = "https://api.groq.com"
	groqModel          = "mixtral-8x7b-32768"
	groqMaxTokens      = 2047
)

// GroqProvider calls Groq's OpenAI-compatible chat completions endpoint
// through the OpenAI client.
type GroqProvider struct {
	baseURL string
	opts    []option.RequestOption
	logger  *slog.Logger
}

// NewGroqProvider creates a provider targeting baseURL (empty uses the public API).
func NewGroqProvider(baseURL, apiKey string, httpClient *http.Client, logger *slog.Logger) *GroqProvider {
	if baseURL == "" {
		baseURL = defaultGroqBaseURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")
	return &GroqProvider{
		baseURL: baseURL,
		opts:    chatClientOptions(baseURL+"/openai/v1", apiKey, httpClient),
		logger:  logger,
	}
}

func (p *GroqProvider) Name() string { return "groq" }

func (p *GroqProvider) Describe(ctx context.Context, path, content string) (string, error) {
	messages, err := BuildMessages(path, content)
	if err != nil {
		return "", err
	}

	p.logger.Info("calling provider", "provider", p.Name(), "model", groqModel, "path", path)
	return completeChat(ctx, p.opts, p.Name(), chatParams{Model: groqModel, MaxTokens: groqMaxTokens}, messages)
}
