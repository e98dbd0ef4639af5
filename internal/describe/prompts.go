package describe

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"
)

// SystemPrompt asks for a JSON object with summary and references.
//
//go:embed prompts/system.md
var SystemPrompt string

//go:embed prompts/user.tmpl
var userPromptRaw string

// userPromptTemplate renders the user turn. Parsed once at package init.
var userPromptTemplate = template.Must(template.New("describe_user").Parse(userPromptRaw))

// Message is one role-tagged turn of the conversation sent to a provider.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// BuildMessages returns the system instruction followed by a user turn
// carrying path and the literal content in a fenced block.
func BuildMessages(path, content string) ([]Message, error) {
	var buf bytes.Buffer
	if err := userPromptTemplate.Execute(&buf, struct{ Path, Content string }{
		Path:    path,
		Content: content,
	}); err != nil {
		return nil, fmt.Errorf("render prompt: %w", err)
	}
	return []Message{
		{Role: "system", Content: SystemPrompt},
		{Role: "user", Content: buf.String()},
	}, nil
}
