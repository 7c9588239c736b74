// Package llm implements the client for the external completion provider.
// The wire format is the OpenAI-compatible chat/completions API, which
// OpenRouter, Ollama and the hosted providers all speak.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/qres429/chatdoc-pro/internal/logger"
)

// ProviderError describes a failed provider call: missing credential,
// transport failure or timeout, non-2xx status, or a malformed body. The
// chat orchestrator absorbs it into a stored assistant message instead of
// failing the request.
type ProviderError struct {
	Reason string
	Err    error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("provider: %s: %v", e.Reason, e.Err)
	}
	return "provider: " + e.Reason
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Message is one turn in the completion request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string    `json:"model"`
	Messages  []Message `json:"messages"`
	Stream    bool      `json:"stream"`
	MaxTokens int       `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Provider is the boundary the chat orchestrator depends on.
type Provider interface {
	// Generate sends one prompt with an optional system context and
	// returns the completion text. All failures are *ProviderError.
	Generate(ctx context.Context, apiKey, systemPrompt, prompt string) (string, error)
}

// Client calls an OpenAI-compatible completion endpoint. One blocking,
// non-streaming call per Generate, bounded by the configured timeout.
type Client struct {
	baseURL    string
	model      string
	maxTokens  int
	httpClient *http.Client
}

// NewClient creates a provider client. baseURL is the API root without the
// /chat/completions suffix, e.g. "https://api.openai.com/v1".
func NewClient(baseURL, model string, timeout time.Duration) *Client {
	return &Client{
		baseURL:   baseURL,
		model:     model,
		maxTokens: 1000,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Generate implements Provider.
func (c *Client) Generate(ctx context.Context, apiKey, systemPrompt, prompt string) (string, error) {
	if apiKey == "" {
		return "", &ProviderError{Reason: "no API key configured"}
	}

	reqBody := chatRequest{
		Model: c.model,
		Messages: []Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Stream:    false,
		MaxTokens: c.maxTokens,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", &ProviderError{Reason: "error marshaling request", Err: err}
	}

	url := c.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", &ProviderError{Reason: "error creating request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	logger.Log.WithField("model", c.model).Debug("Calling completion API")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &ProviderError{Reason: "error sending request", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &ProviderError{
			Reason: fmt.Sprintf("API returned status %d: %s", resp.StatusCode, string(body)),
		}
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", &ProviderError{Reason: "error decoding response", Err: err}
	}

	if chatResp.Error != nil {
		return "", &ProviderError{
			Reason: fmt.Sprintf("API error: %s (%s)", chatResp.Error.Message, chatResp.Error.Type),
		}
	}

	if len(chatResp.Choices) == 0 {
		return "", &ProviderError{Reason: "no response from API"}
	}

	return chatResp.Choices[0].Message.Content, nil
}
