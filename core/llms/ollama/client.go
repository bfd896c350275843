// Package ollama is a client for a locally-hosted Ollama instance, the last
// resort of the provider fallback chain.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/manan-dev/jarvis-core/core/llms"
)

const (
	defaultURL   = "http://localhost:11434/api/generate"
	defaultModel = "llama3.2"

	// Local generation is slow compared to hosted providers.
	requestTimeout = 30 * time.Second
)

type Client struct {
	url   string
	model string

	httpClient *http.Client
}

type ClientOption func(*Client)

func WithURL(url string) ClientOption {
	return func(c *Client) { c.url = url }
}

func WithModel(model string) ClientOption {
	return func(c *Client) { c.model = model }
}

func NewClient(opts ...ClientOption) *Client {
	client := &Client{
		url:        defaultURL,
		model:      defaultModel,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

func (c *Client) Name() string { return "ollama" }

func (c *Client) Respond(ctx context.Context, prompt string, opts ...llms.PromptOption) (string, error) {
	options := llms.PromptOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	ctx, span := tracer.Start(ctx, "ollama generate")
	defer span.End()

	// Ollama's generate endpoint takes a single prompt string, so the
	// instructions and history are flattened into it.
	fullPrompt := prompt
	if options.Instructions != "" {
		fullPrompt = fmt.Sprintf("%s\n\nUser: %s", options.Instructions, prompt)
	}

	reqBody := requestBody{
		Model:  c.model,
		Prompt: fullPrompt,
		Stream: false,
	}

	requestBodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("error marshalling JSON: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewBuffer(requestBodyBytes))
	if err != nil {
		return "", fmt.Errorf("error creating HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("non-OK HTTP status: %s", resp.Status)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading response body: %w", err)
	}

	var responseBody responseBody
	if err := json.Unmarshal(bodyBytes, &responseBody); err != nil {
		return "", fmt.Errorf("error unmarshalling response body: %w", err)
	}

	return strings.TrimSpace(responseBody.Response), nil
}

type requestBody struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type responseBody struct {
	Response string `json:"response"`
}
