package llm

import (
	"context"
	"strings"

	"nutri-meal-planner/internal/shared"
)

// Prompt is a single chat turn with its system instruction.
type Prompt struct {
	System string
	User   string
}

// ContentResponse contains the generated text and metadata like token usage.
type ContentResponse struct {
	Content string
	Usage   shared.TokenUsage
}

// TextGenerator is an interface for generating text from a prompt.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt Prompt) (ContentResponse, error)
}

// Closer is an interface for closing resources.
type Closer interface {
	Close() error
}

// StripCodeFence removes a surrounding ```json or ``` fence from a model
// reply. Unfenced text is returned trimmed.
func StripCodeFence(content string) string {
	s := strings.TrimSpace(content)
	if strings.HasPrefix(s, "```json") {
		s = s[len("```json"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[len("```"):]
	}
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
