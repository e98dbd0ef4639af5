package describe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/amishk599/codedesc/internal/model"
)

// chatParams are the knobs that differ between OpenAI-compatible providers.
type chatParams struct {
	Model     string
	MaxTokens int64 // 0 leaves the provider default
}

// chatClientOptions configures an openai-go client for baseURL. The SDK's
// built-in retries are switched off: a failed call falls back immediately.
func chatClientOptions(baseURL, apiKey string, httpClient *http.Client) []option.RequestOption {
	opts := []option.RequestOption{
		option.WithBaseURL(strings.TrimSuffix(baseURL, "/") + "/"),
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	return opts
}

// completeChat requests a temperature-0 JSON-object completion and returns
// the first choice's message content.
func completeChat(ctx context.Context, opts []option.RequestOption, provider string, params chatParams, messages []Message) (string, error) {
	req := openai.ChatCompletionNewParams{
		Model:       params.Model,
		Messages:    toChatMessages(messages),
		Temperature: openai.Float(0),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	}
	if params.MaxTokens > 0 {
		req.MaxTokens = openai.Int(params.MaxTokens)
	}

	client := openai.NewClient(opts...)
	completion, err := client.Chat.Completions.New(ctx, req)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", model.NewHTTPError(provider, apiErr.StatusCode, []byte(apiErr.RawJSON()))
		}
		return "", fmt.Errorf("%s request: %w", provider, err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%s returned no choices", provider)
	}
	return completion.Choices[0].Message.Content, nil
}

func toChatMessages(messages []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case "system":
			out = append(out, openai.SystemMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}
