package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const perplexityAPIURL = "https://api.perplexity.ai/chat/completions"

const perplexityModel = "llama-3.1-sonar-small-128k-online"

// PerplexityClient generates content backed by real-time web search.
type PerplexityClient struct {
	apiKey string
	apiURL string
	http   *http.Client
}

func NewPerplexityClient(apiKey string) *PerplexityClient {
	return &PerplexityClient{
		apiKey: apiKey,
		apiURL: perplexityAPIURL,
		http:   &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *PerplexityClient) Name() string {
	return "perplexity"
}

func (c *PerplexityClient) Complete(ctx context.Context, req ChatRequest) (string, error) {
	messages := make([]map[string]string, 0, 2)
	if req.System != "" {
		messages = append(messages, map[string]string{"role": "system", "content": req.System})
	}
	messages = append(messages, map[string]string{"role": "user", "content": req.Prompt})

	temperature := req.Temperature
	if temperature == 0 {
		temperature = 0.2
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = 2000
	}

	body := map[string]interface{}{
		"model":                    perplexityModel,
		"messages":                 messages,
		"temperature":              temperature,
		"top_p":                    0.9,
		"max_tokens":               maxTokens,
		"stream":                   false,
		"search_recency_filter":    "month",
		"return_images":            false,
		"return_related_questions": false,
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.apiURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Perplexity API error: %s", resp.Status)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var response struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := json.Unmarshal(respBody, &response); err != nil {
		return "", err
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no response from Perplexity")
	}

	return response.Choices[0].Message.Content, nil
}
