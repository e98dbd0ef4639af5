package describe

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Placeholder results.
const (
	Disabled = ""
	Empty    = "(empty)"
	Unknown  = "(unknown)"
)

var errMissingSummary = errors.New("description has no summary")

// Description is a provider's answer for one file.
type Description struct {
	Summary    string
	References []string
}

// unknownDescription replaces any answer that could not be obtained or parsed.
var unknownDescription = Description{Summary: Unknown, References: []string{}}

// String renders the summary, followed by the references when there are any.
func (d Description) String() string {
	if len(d.References) == 0 {
		return d.Summary
	}
	return d.Summary + " [References: " + strings.Join(d.References, ", ") + "]"
}

// ParseDescription decodes a provider response. The summary must be a JSON
// string; references may be absent or null, otherwise it must be an array
// of strings.
func ParseDescription(raw string) (Description, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return Description{}, fmt.Errorf("decode description JSON: %w", err)
	}

	var summary *string
	if rawSummary, ok := fields["summary"]; ok {
		if err := json.Unmarshal(rawSummary, &summary); err != nil {
			return Description{}, fmt.Errorf("decode summary: %w", err)
		}
	}
	if summary == nil {
		return Description{}, errMissingSummary
	}

	desc := Description{Summary: *summary}
	if rawRefs, ok := fields["references"]; ok {
		if err := json.Unmarshal(rawRefs, &desc.References); err != nil {
			return Description{}, fmt.Errorf("decode references: %w", err)
		}
	}
	return desc, nil
}
