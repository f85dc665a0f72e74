// Package llmparser extracts walkthroughs from freeform text with the
// Anthropic Messages API.
package llmparser

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shibukawa/walkthrough"
)

// Defaults applied to zero Config fields.
const (
	DefaultModel     = "claude-sonnet-4-20250514"
	DefaultBaseURL   = "https://api.anthropic.com/v1"
	DefaultMaxTokens = 4096
	DefaultTimeout   = 120 * time.Second

	apiVersion = "2023-06-01"
)

// Config holds client configuration.
type Config struct {
	APIKey    string
	Model     string
	BaseURL   string
	MaxTokens int
	Timeout   time.Duration
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client. The Config timeout is not applied
// to a client given this way.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// Client sends extraction requests.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	maxTokens  int
	httpClient *http.Client
}

// New creates a Client. It fails with ErrMissingAPIKey when no key is set.
func New(cfg Config, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}

	c := &Client{
		apiKey:    cfg.APIKey,
		model:     cfg.Model,
		baseURL:   strings.TrimSuffix(cfg.BaseURL, "/"),
		maxTokens: cfg.MaxTokens,
	}

	if c.model == "" {
		c.model = DefaultModel
	}

	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}

	if c.maxTokens <= 0 {
		c.maxTokens = DefaultMaxTokens
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c.httpClient = &http.Client{Timeout: timeout}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Model returns the model name requests are sent to.
func (c *Client) Model() string {
	return c.model
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Parse asks the model to structure content and decodes its answer.
// Every failure is an *ExtractionError.
func (c *Client) Parse(ctx context.Context, content string) (*walkthrough.Document, error) {
	if strings.TrimSpace(content) == "" {
		return nil, extractionError(StageRequest, walkthrough.ErrEmptyContent)
	}

	text, err := c.complete(ctx, BuildPrompt(content))
	if err != nil {
		return nil, err
	}

	return DecodeResponse(text)
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(messagesRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages:  []message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", extractionError(StageRequest, fmt.Errorf("marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return "", extractionError(StageRequest, fmt.Errorf("create request: %w", err))
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", extractionError(StageRequest, fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", extractionError(StageResponse, fmt.Errorf("read response: %w", err))
	}

	var result messagesResponse

	decodeErr := json.Unmarshal(respBody, &result)

	if resp.StatusCode != http.StatusOK {
		if decodeErr == nil && result.Error != nil {
			return "", extractionError(StageResponse, fmt.Errorf("API error (%d): %s", resp.StatusCode, result.Error.Message))
		}

		return "", extractionError(StageResponse, fmt.Errorf("API error (%d): %s", resp.StatusCode, strings.TrimSpace(string(respBody))))
	}

	if decodeErr != nil {
		return "", extractionError(StageResponse, fmt.Errorf("parse response: %w", decodeErr))
	}

	if result.Error != nil {
		return "", extractionError(StageResponse, fmt.Errorf("API error: %s", result.Error.Message))
	}

	for _, block := range result.Content {
		if block.Type == "" || block.Type == "text" {
			return block.Text, nil
		}
	}

	return "", extractionError(StageResponse, ErrNoContent)
}
