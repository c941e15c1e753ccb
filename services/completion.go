package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"abena-car-sales/models"
)

// FallbackReply is used when the model returns no text
const FallbackReply = "Sorry, I could not generate a response."

// Completer turns a fully assembled prompt into the model's raw reply
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// CompleterFunc adapts a function to Completer
type CompleterFunc func(ctx context.Context, prompt string) (string, error)

func (f CompleterFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// EndpointClient calls a completion endpoint speaking {message} -> {response},
// such as this service's own /api/chat proxy.
type EndpointClient struct {
	URL    string
	APIKey string
	// HTTPClient has no timeout by default; only ctx can abort a call.
	HTTPClient *http.Client
}

// NewEndpointClient returns a client for url
func NewEndpointClient(url, apiKey string) *EndpointClient {
	return &EndpointClient{URL: url, APIKey: apiKey, HTTPClient: &http.Client{}}
}

// Complete performs one request/response round trip
func (c *EndpointClient) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(models.CompletionRequest{Message: prompt})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		log.Printf("LLM API error: %v", err)
		return "", fmt.Errorf("calling completion endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		log.Printf("LLM API error: status %d", resp.StatusCode)
		return "", fmt.Errorf("completion endpoint error (%d): %s", resp.StatusCode, strings.TrimSpace(string(bodyBytes)))
	}

	var result models.CompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding completion response: %w", err)
	}
	if result.Response == "" {
		return FallbackReply, nil
	}
	return result.Response, nil
}
