package ai

import "context"

// Prompt is one rendered template ready to be sent to a model.
type Prompt struct {
	// Name identifies the template (checklist-scan, custom-prompt, suggestion, legacy-checklist).
	Name   string
	System string
	User   string
}

// Client sends a prompt and returns the raw JSON text produced by the model.
type Client interface {
	Generate(ctx context.Context, p Prompt) (string, error)
}
