package describe

import (
	"context"
	"log/slog"
	"net/http"
)

// Env looks up a configuration value by environment variable name.
// An empty result means the variable is unset.
type Env func(key string) string

// Provider asks one LLM vendor to describe a file and returns the raw
// response text.
type Provider interface {
	Name() string
	Describe(ctx context.Context, path, content string) (string, error)
}

// Factory builds a provider from env. It is only called once the
// registration's credential variable is known to be set.
type Factory func(env Env, httpClient *http.Client, logger *slog.Logger) Provider

// Registration ties a credential variable to the provider it selects.
type Registration struct {
	Name   string
	KeyVar string
	New    Factory
}

const (
	EnvEnabled = "FILTER_RELEVANT_FILES"

	EnvOpenAIKey         = "OPENAI_API_KEY"
	EnvOpenAIEndpoint    = "OPENAI_ENDPOINT"
	EnvAnthropicKey      = "ANTHROPIC_API_KEY"
	EnvAnthropicEndpoint = "ANTHROPIC_ENDPOINT"
	EnvGroqKey           = "GROQ_API_KEY"
	EnvGroqBaseURL       = "GROQ_BASE_URL"
)

// DefaultRegistrations lists the supported providers in order of preference.
var DefaultRegistrations = []Registration{
	{Name: "openai", KeyVar: EnvOpenAIKey, New: func(env Env, c *http.Client, l *slog.Logger) Provider {
		return NewOpenAIProvider(env(EnvOpenAIEndpoint), env(EnvOpenAIKey), c, l)
	}},
	{Name: "anthropic", KeyVar: EnvAnthropicKey, New: func(env Env, c *http.Client, l *slog.Logger) Provider {
		return NewAnthropicProvider(env(EnvAnthropicEndpoint), env(EnvAnthropicKey), c, l)
	}},
	{Name: "groq", KeyVar: EnvGroqKey, New: func(env Env, c *http.Client, l *slog.Logger) Provider {
		return NewGroqProvider(env(EnvGroqBaseURL), env(EnvGroqKey), c, l)
	}},
}

// Select returns the first registration whose credential variable is set.
func Select(env Env, regs []Registration) (Registration, bool) {
	for _, r := range regs {
		if env(r.KeyVar) != "" {
			return r, true
		}
	}
	return Registration{}, false
}
