// File path: internal/llm/providers/local.go
package providers

import (
	"context"
	"fmt"
	"strings"
)

type Message struct {
	Role    string
	Content string
}

type Provider interface {
	Chat(ctx context.Context, messages []Message) (string, error)
	Name() string
}

// LocalProvider is the offline stand-in used when no API key is
// configured. Its replies are deterministic prose without fenced code
// blocks, so callers that extract code artifacts exercise their template
// fallback end to end.
type LocalProvider struct{}

func NewLocalProvider() *LocalProvider {
	return &LocalProvider{}
}

func (l *LocalProvider) Chat(ctx context.Context, messages []Message) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("no messages provided")
	}
	last := strings.TrimSpace(messages[len(messages)-1].Content)
	return fmt.Sprintf("Offline analysis: the request %q maps to a single-instruction program with one state account and an authority check.", firstLine(last)), nil
}

func (l *LocalProvider) Name() string {
	return "local"
}

func firstLine(text string) string {
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		text = text[:idx]
	}
	if len(text) > 120 {
		text = text[:120]
	}
	return strings.TrimSpace(text)
}
