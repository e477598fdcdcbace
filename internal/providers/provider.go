package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"contentscale/internal/domain/models"
)

// ChatRequest is a single prompt exchange with an LLM provider.
type ChatRequest struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
	JSONMode    bool
}

type ChatClient interface {
	Complete(ctx context.Context, req ChatRequest) (string, error)
	Name() string
}

// Manager routes a request to the provider the caller asked for.
type Manager struct {
	openai     ChatClient
	perplexity ChatClient
}

func NewManager(openai, perplexity ChatClient) *Manager {
	return &Manager{
		openai:     openai,
		perplexity: perplexity,
	}
}

func (m *Manager) ForProvider(provider string) (ChatClient, error) {
	switch models.AIProvider(provider) {
	case models.AIProviderOpenAI:
		return m.openai, nil
	case models.AIProviderPerplexity:
		return m.perplexity, nil
	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", provider)
	}
}

func (m *Manager) Complete(ctx context.Context, provider string, req ChatRequest) (string, error) {
	client, err := m.ForProvider(provider)
	if err != nil {
		return "", err
	}
	return client.Complete(ctx, req)
}

// CompleteJSON runs the request in JSON mode and unmarshals the reply into
// out. Providers occasionally wrap JSON in markdown fences; strip them.
func (m *Manager) CompleteJSON(ctx context.Context, provider string, req ChatRequest, out any) error {
	req.JSONMode = true
	raw, err := m.Complete(ctx, provider, req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(stripFences(raw)), out); err != nil {
		return fmt.Errorf("failed to parse %s response: %w", provider, err)
	}
	return nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:]
	}
	if idx := strings.LastIndex(s, "```"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
