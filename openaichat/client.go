// Package openaichat implements datapilot.Model on top of an
// OpenAI-compatible chat-completions API. It is deliberately thin: one
// blocking request per Generate call, no streaming, no retries of its own —
// retrying is the runner's job.
package openaichat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/skosovsky/datapilot"
)

const defaultBaseURL = "https://api.openai.com/v1"

// ErrEmptyResponse is returned when the API answers without any choice
// content. The runner counts it as a failed plan-generation attempt.
var ErrEmptyResponse = errors.New("model returned no content")

// Client talks to a chat-completions endpoint. Zero value is not usable; use
// New.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	settings   settings
}

// settings mirror the request knobs the API accepts. Zero-valued fields are
// omitted from the request so the server defaults apply.
type settings struct {
	Model            string
	Temperature      float64
	TopP             float64
	FrequencyPenalty float64
	PresencePenalty  float64
	MaxTokens        int
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying *http.Client (e.g. to impose a request
// timeout, which is the session's only interruption mechanism besides ctx).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithBaseURL points the client at a different OpenAI-compatible endpoint.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.baseURL = strings.TrimSuffix(url, "/")
		}
	}
}

// WithModel sets the model name (default "gpt-4").
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.settings.Model = model
		}
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(c *Client) { c.settings.Temperature = t }
}

// WithTopP sets the nucleus sampling parameter.
func WithTopP(p float64) Option {
	return func(c *Client) { c.settings.TopP = p }
}

// WithFrequencyPenalty sets the frequency penalty.
func WithFrequencyPenalty(p float64) Option {
	return func(c *Client) { c.settings.FrequencyPenalty = p }
}

// WithPresencePenalty sets the presence penalty.
func WithPresencePenalty(p float64) Option {
	return func(c *Client) { c.settings.PresencePenalty = p }
}

// WithMaxTokens caps the response length.
func WithMaxTokens(n int) Option {
	return func(c *Client) { c.settings.MaxTokens = n }
}

// New creates a Client. apiKey is sent as a bearer token on every request.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		settings: settings{
			Model:       "gpt-4",
			Temperature: 0.7,
			TopP:        0.9,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type chatRequest struct {
	Model            string        `json:"model"`
	Messages         []chatMessage `json:"messages"`
	Temperature      float64       `json:"temperature,omitempty"`
	TopP             float64       `json:"top_p,omitempty"`
	FrequencyPenalty float64       `json:"frequency_penalty,omitempty"`
	PresencePenalty  float64       `json:"presence_penalty,omitempty"`
	MaxTokens        int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Generate sends one chat-completions request built from the prompt's system
// and user messages and returns the raw response text. Transport failures,
// non-2xx statuses, API error payloads, and empty content all return an
// error; classifying that error is up to the caller.
func (c *Client) Generate(ctx context.Context, prompt datapilot.Prompt) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.settings.Model,
		Messages: []chatMessage{
			{Role: "system", Content: prompt.System},
			{Role: "user", Content: prompt.User},
		},
		Temperature:      c.settings.Temperature,
		TopP:             c.settings.TopP,
		FrequencyPenalty: c.settings.FrequencyPenalty,
		PresencePenalty:  c.settings.PresencePenalty,
		MaxTokens:        c.settings.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat completion request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("api error (%s): %s", parsed.Error.Type, parsed.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return "", ErrEmptyResponse
	}
	return parsed.Choices[0].Message.Content, nil
}

var _ datapilot.Model = (*Client)(nil)
