package describe

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
)

// mapEnv is an Env backed by a map.
func mapEnv(vars map[string]string) Env {
	return func(key string) string { return vars[key] }
}

// stubProvider returns a canned response and counts calls.
type stubProvider struct {
	name     string
	response string
	err      error
	calls    int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Describe(_ context.Context, _, _ string) (string, error) {
	s.calls++
	return s.response, s.err
}

func register(name, keyVar string, p *stubProvider) Registration {
	return Registration{Name: name, KeyVar: keyVar, New: func(Env, *http.Client, *slog.Logger) Provider { return p }}
}

func newTestDescriber(env map[string]string, regs ...Registration) *Describer {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(mapEnv(env), WithRegistrations(regs), WithLogger(logger))
}

func TestDescribe_DisabledReturnsEmptyString(t *testing.T) {
	p := &stubProvider{name: "a", response: `{"summary":"S"}`}
	for _, flag := range []string{"", "false", "0", "no", "off", "enabled", "tru"} {
		d := newTestDescriber(map[string]string{EnvEnabled: flag, "A_KEY": "k"}, register("a", "A_KEY", p))
		if got := d.Describe(context.Background(), "main.go", "package main"); got != "" {
			t.Errorf("flag %q: got %q, want empty string", flag, got)
		}
	}
	if p.calls != 0 {
		t.Errorf("provider called %d times while disabled", p.calls)
	}
}

func TestDescribe_TruthyFlagValues(t *testing.T) {
	for _, flag := range []string{"true", "TRUE", "1", "yes", "Yes", "on", "On", "  on\n"} {
		p := &stubProvider{name: "a", response: `{"summary":"S","references":[]}`}
		d := newTestDescriber(map[string]string{EnvEnabled: flag, "A_KEY": "k"}, register("a", "A_KEY", p))
		if got := d.Describe(context.Background(), "main.go", "package main"); got != "S" {
			t.Errorf("flag %q: got %q, want S", flag, got)
		}
	}
}

func TestDescribe_EmptyContent(t *testing.T) {
	p := &stubProvider{name: "a", response: `{"summary":"S"}`}
	d := newTestDescriber(map[string]string{EnvEnabled: "1", "A_KEY": "k"}, register("a", "A_KEY", p))

	for _, content := range []string{"", "   \n\t ", "\n"} {
		if got := d.Describe(context.Background(), "x.py", content); got != Empty {
			t.Errorf("content %q: got %q, want %q", content, got, Empty)
		}
	}
	if p.calls != 0 {
		t.Errorf("provider called %d times for empty content", p.calls)
	}
}

func TestDescribe_EmptyContentWithoutCredentials(t *testing.T) {
	d := newTestDescriber(map[string]string{EnvEnabled: "1"}, DefaultRegistrations...)
	if got := d.Describe(context.Background(), "x.py", "   \n\t "); got != Empty {
		t.Errorf("got %q, want %q", got, Empty)
	}
}

func TestDescribe_NoCredentials(t *testing.T) {
	d := newTestDescriber(map[string]string{EnvEnabled: "true"}, DefaultRegistrations...)
	if got := d.Describe(context.Background(), "x.py", "print(1)"); got != Unknown {
		t.Errorf("got %q, want %q", got, Unknown)
	}
}

func TestDescribe_RendersSummaryOnly(t *testing.T) {
	p := &stubProvider{name: "a", response: `{"summary": "S", "references": []}`}
	d := newTestDescriber(map[string]string{EnvEnabled: "1", "A_KEY": "k"}, register("a", "A_KEY", p))
	if got := d.Describe(context.Background(), "x.py", "x = 1"); got != "S" {
		t.Errorf("got %q, want S", got)
	}
}

func TestDescribe_RendersReferences(t *testing.T) {
	p := &stubProvider{name: "a", response: `{"summary": "S", "references": ["a.py", "b.ts"]}`}
	d := newTestDescriber(map[string]string{EnvEnabled: "1", "A_KEY": "k"}, register("a", "A_KEY", p))
	if got := d.Describe(context.Background(), "x.py", "import a"); got != "S [References: a.py, b.ts]" {
		t.Errorf("got %q", got)
	}
}

func TestDescribe_FailuresFallBackToUnknown(t *testing.T) {
	tests := []struct {
		name     string
		response string
		err      error
	}{
		{"provider error", "", errors.New("connection refused")},
		{"not json", "Sure! Here is the summary you asked for.", nil},
		{"json array", `["a.py"]`, nil},
		{"json null", `null`, nil},
		{"missing summary", `{"references": ["a.py"]}`, nil},
		{"null summary", `{"summary": null}`, nil},
		{"numeric summary", `{"summary": 42}`, nil},
		{"bad references", `{"summary": "S", "references": "a.py"}`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &stubProvider{name: "a", response: tt.response, err: tt.err}
			d := newTestDescriber(map[string]string{EnvEnabled: "1", "A_KEY": "k"}, register("a", "A_KEY", p))

			out := d.DescribeOutcome(context.Background(), "x.py", "x = 1")
			if out.Text != Unknown {
				t.Errorf("Text = %q, want %q", out.Text, Unknown)
			}
			if out.Err == nil {
				t.Error("expected Outcome.Err to record the failure")
			}
			if out.Provider != "a" {
				t.Errorf("Provider = %q, want a", out.Provider)
			}
		})
	}
}

func TestDescribe_ProviderPriority(t *testing.T) {
	first := &stubProvider{name: "first", response: `{"summary":"from first"}`}
	second := &stubProvider{name: "second", response: `{"summary":"from second"}`}
	third := &stubProvider{name: "third", response: `{"summary":"from third"}`}
	regs := []Registration{
		register("first", "FIRST_KEY", first),
		register("second", "SECOND_KEY", second),
		register("third", "THIRD_KEY", third),
	}

	d := newTestDescriber(map[string]string{EnvEnabled: "1", "FIRST_KEY": "a", "SECOND_KEY": "b"}, regs...)
	if got := d.Describe(context.Background(), "x.py", "x"); got != "from first" {
		t.Errorf("got %q, want from first", got)
	}
	if second.calls != 0 {
		t.Error("second provider must not be called when first is configured")
	}

	d = newTestDescriber(map[string]string{EnvEnabled: "1", "SECOND_KEY": "b", "THIRD_KEY": "c"}, regs...)
	if got := d.Describe(context.Background(), "x.py", "x"); got != "from second" {
		t.Errorf("got %q, want from second", got)
	}
}

func TestDescribe_DefaultPriorityPrefersOpenAI(t *testing.T) {
	d := newTestDescriber(map[string]string{EnvOpenAIKey: "sk-a", EnvAnthropicKey: "sk-b"}, DefaultRegistrations...)
	p, ok := d.Provider()
	if !ok {
		t.Fatal("expected a provider")
	}
	if _, isOpenAI := p.(*OpenAIProvider); !isOpenAI {
		t.Errorf("provider = %T, want *OpenAIProvider", p)
	}

	d = newTestDescriber(map[string]string{EnvGroqKey: "gsk"}, DefaultRegistrations...)
	p, _ = d.Provider()
	if _, isGroq := p.(*GroqProvider); !isGroq {
		t.Errorf("provider = %T, want *GroqProvider", p)
	}
}

func TestDescribe_OnScenario(t *testing.T) {
	p := &stubProvider{name: "openai", response: `{"summary":"Prints one","references":[]}`}
	d := newTestDescriber(map[string]string{EnvEnabled: "On", EnvOpenAIKey: "sk"}, register("openai", EnvOpenAIKey, p))
	if got := d.Describe(context.Background(), "one.py", "print(1)"); got != "Prints one" {
		t.Errorf("got %q, want Prints one", got)
	}
}

func TestNop_NeverDescribes(t *testing.T) {
	n := NewNop()
	if got := n.Describe(context.Background(), "x.py", "x = 1"); got != Disabled {
		t.Errorf("got %q, want empty", got)
	}
	if out := n.DescribeOutcome(context.Background(), "x.py", "x = 1"); out.Provider != "" || out.Err != nil {
		t.Errorf("unexpected outcome %+v", out)
	}
}

// setProcessEnv clears every describer variable and then applies vars.
func setProcessEnv(t *testing.T, vars map[string]string) {
	t.Helper()
	for _, key := range []string{
		EnvEnabled, EnvOpenAIKey, EnvOpenAIEndpoint,
		EnvAnthropicKey, EnvAnthropicEndpoint, EnvGroqKey, EnvGroqBaseURL,
	} {
		t.Setenv(key, "")
	}
	for k, v := range vars {
		t.Setenv(k, v)
	}
}

func TestDescribeFile_ProcessEnvironment(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		content string
		want    string
	}{
		{"flag unset", nil, "print(1)", Disabled},
		{"flag false", map[string]string{EnvEnabled: "false", EnvOpenAIKey: "sk"}, "print(1)", Disabled},
		{"no credentials", map[string]string{EnvEnabled: "true"}, "print(1)", Unknown},
		{"blank content", map[string]string{EnvEnabled: "1"}, " \n\t", Empty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setProcessEnv(t, tt.env)
			if got := DescribeFile(context.Background(), "one.py", tt.content); got != tt.want {
				t.Errorf("DescribeFile = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDescribeFile_CallsProviderFromEnvironment(t *testing.T) {
	srv := makeTestServer(t, http.StatusOK, chatReply(`{"summary":"Prints one","references":[]}`), nil)
	setProcessEnv(t, map[string]string{
		EnvEnabled:        "yes",
		EnvOpenAIKey:      "sk",
		EnvOpenAIEndpoint: srv.URL + "/v1/chat/completions",
	})

	if got := DescribeFile(context.Background(), "one.py", "print(1)"); got != "Prints one" {
		t.Errorf("DescribeFile = %q, want %q", got, "Prints one")
	}
}
