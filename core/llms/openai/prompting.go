// Package openai is a chat-completions client for OpenAI-compatible
// endpoints; pointing it at a different base URL covers OpenRouter and
// similar gateways.
package openai

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
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4o-mini"

	requestTimeout = 10 * time.Second
)

type Client struct {
	apiKey  string
	model   string
	baseURL string

	httpClient *http.Client
}

type ClientOption func(*Client)

func WithModel(model string) ClientOption {
	return func(c *Client) { c.model = model }
}

// WithBaseURL points the client at an OpenAI-compatible gateway.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) { c.baseURL = strings.TrimRight(baseURL, "/") }
}

func NewClient(apiKey string, opts ...ClientOption) *Client {
	client := &Client{
		apiKey:     apiKey,
		model:      defaultModel,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

func (c *Client) Name() string { return "openai" }

func (c *Client) Respond(ctx context.Context, prompt string, opts ...llms.PromptOption) (string, error) {
	options := llms.PromptOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	ctx, span := tracer.Start(ctx, "openai chat completion")
	defer span.End()

	messages := toMessages(options.Instructions, options.Turns)
	messages = append(messages, message{Role: messageRoleUser, Content: prompt})

	reqBody := requestBody{
		Model:    c.model,
		Messages: messages,
		Stream:   false,
	}

	requestBodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("error marshalling JSON: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewBuffer(requestBodyBytes))
	if err != nil {
		return "", fmt.Errorf("error creating HTTP request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

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

	if len(responseBody.Choices) == 0 {
		return "", fmt.Errorf("response contained no choices")
	}

	return strings.TrimSpace(responseBody.Choices[0].Message.Content), nil
}

type messageRole string

const (
	messageRoleSystem    messageRole = "system"
	messageRoleUser      messageRole = "user"
	messageRoleAssistant messageRole = "assistant"
)

type message struct {
	Role    messageRole `json:"role"`
	Content string      `json:"content"`
}

func toMessages(instructions string, turns []llms.Turn) []message {
	messages := make([]message, 0, len(turns)+1)
	if instructions != "" {
		messages = append(messages, message{Role: messageRoleSystem, Content: instructions})
	}

	for _, turn := range turns {
		role := messageRoleUser
		if turn.Role == llms.TurnRoleAssistant {
			role = messageRoleAssistant
		}
		messages = append(messages, message{Role: role, Content: turn.Content})
	}

	return messages
}

type requestBody struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
	Stream   bool      `json:"stream"`
}

type responseBody struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}
