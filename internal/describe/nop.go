package describe

import "context"

// Nop never calls a provider. Used by dry runs.
type Nop struct{}

// NewNop returns a Nop describer.
func NewNop() *Nop {
	return &Nop{}
}

// Describe returns the Disabled placeholder.
func (n *Nop) Describe(_ context.Context, _, _ string) string {
	return Disabled
}

// DescribeOutcome returns an Outcome carrying the Disabled placeholder.
func (n *Nop) DescribeOutcome(_ context.Context, _, _ string) Outcome {
	return Outcome{Text: Disabled}
}
