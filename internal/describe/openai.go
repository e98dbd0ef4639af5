package describe

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/openai/openai-go/option"
)

const (
	defaultOpenAIEndpoint = "https://api.openai.com/v1/chat/completions"
	openAIModel           = "gpt-3.5-turbo"
)

// OpenAIProvider calls the OpenAI chat completions endpoint in JSON mode.
type OpenAIProvider struct {
	baseURL string
	opts    []option.RequestOption
	logger  *slog.Logger
}

// NewOpenAIProvider creates a provider targeting endpoint, which may be either
// the full chat completions URL or the API base. Empty uses the public API.
func NewOpenAIProvider(endpoint, apiKey string, httpClient *http.Client, logger *slog.Logger) *OpenAIProvider {
	if endpoint == "" {
		endpoint = defaultOpenAIEndpoint
	}
	baseURL := strings.TrimSuffix(strings.ReplaceAll(endpoint, "/chat/completions", ""), "/")
	return &OpenAIProvider{
		baseURL: baseURL,
		opts:    chatClientOptions(baseURL, apiKey, httpClient),
		logger:  logger,
	}
}

func (p *OpenAIProvider) Name() string { return "openai" }

// Describe requests a deterministic JSON-object completion for the file.
func (p *OpenAIProvider) Describe(ctx context.Context, path, content string) (string, error) {
	messages, err := BuildMessages(path, content)
	if err != nil {
		return "", err
	}

	p.logger.Info("calling provider", "provider", p.Name(), "model", openAIModel, "path", path)
	return completeChat(ctx, p.opts, p.Name(), chatParams{Model: openAIModel}, messages)
}
