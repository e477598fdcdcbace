package providers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	name     string
	response string
	lastReq  ChatRequest
}

func (f *fakeClient) Complete(_ context.Context, req ChatRequest) (string, error) {
	f.lastReq = req
	return f.response, nil
}

func (f *fakeClient) Name() string { return f.name }

func TestManagerRouting(t *testing.T) {
	openai := &fakeClient{name: "openai", response: "from openai"}
	perplexity := &fakeClient{name: "perplexity", response: "from perplexity"}
	m := NewManager(openai, perplexity)

	out, err := m.Complete(context.Background(), "openai", ChatRequest{Prompt: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "from openai", out)

	out, err = m.Complete(context.Background(), "perplexity", ChatRequest{Prompt: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "from perplexity", out)

	_, err = m.Complete(context.Background(), "anthropic", ChatRequest{Prompt: "hi"})
	assert.Error(t, err)
}

func TestCompleteJSON(t *testing.T) {
	openai := &fakeClient{name: "openai", response: `{"keywords": ["a", "b"]}`}
	m := NewManager(openai, &fakeClient{name: "perplexity"})

	var out struct {
		Keywords []string `json:"keywords"`
	}
	err := m.CompleteJSON(context.Background(), "openai", ChatRequest{Prompt: "go"}, &out)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, out.Keywords)
	assert.True(t, openai.lastReq.JSONMode)
}

func TestCompleteJSON_StripsMarkdownFences(t *testing.T) {
	openai := &fakeClient{name: "openai", response: "```json\n{\"keywords\": [\"a\"]}\n```"}
	m := NewManager(openai, &fakeClient{name: "perplexity"})

	var out struct {
		Keywords []string `json:"keywords"`
	}
	err := m.CompleteJSON(context.Background(), "openai", ChatRequest{Prompt: "go"}, &out)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, out.Keywords)
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripFences(`{"a":1}`))
	assert.Equal(t, `{"a":1}`, stripFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFences("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFences("  {\"a\":1}  "))
}
