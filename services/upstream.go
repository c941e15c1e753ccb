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

	"abena-car-sales/config"
)

// UpstreamError is a non-2xx answer from the model provider
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream error (%d): %s", e.Status, e.Message)
}

// UpstreamClient forwards a single user turn to the configured provider
type UpstreamClient struct {
	cfg        *config.Config
	HTTPClient *http.Client
}

// NewUpstreamClient returns a client for cfg.AIProvider
func NewUpstreamClient(cfg *config.Config) *UpstreamClient {
	return &UpstreamClient{cfg: cfg, HTTPClient: &http.Client{}}
}

// Complete lets the chat call the provider in-process
func (u *UpstreamClient) Complete(ctx context.Context, prompt string) (string, error) {
	return u.Forward(ctx, prompt)
}

// Forward sends message as a single user turn and returns the reply text
func (u *UpstreamClient) Forward(ctx context.Context, message string) (string, error) {
	switch u.cfg.AIProvider {
	case "openrouter":
		return u.callOpenRouter(ctx, message)
	case "anthropic":
		return u.callAnthropic(ctx, message)
	case "ollama":
		return u.callOllama(ctx, message)
	default:
		return "", fmt.Errorf("unsupported AI provider: %s", u.cfg.AIProvider)
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// callOpenRouter calls an OpenAI-compatible chat completions API
func (u *UpstreamClient) callOpenRouter(ctx context.Context, message string) (string, error) {
	reqBody := map[string]interface{}{
		"model":    u.cfg.OpenRouterModel,
		"messages": []chatMessage{{Role: "user", Content: message}},
	}
	headers := map[string]string{
		"Authorization": "Bearer " + u.cfg.OpenRouterAPIKey,
		"HTTP-Referer":  "https://salescoms.vercel.app",
		"X-Title":       "Abena Car Sales",
	}

	var result struct {
		Choices []struct {
			Message chatMessage `json:"message"`
		} `json:"choices"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	status, err := u.postJSON(ctx, strings.TrimRight(u.cfg.OpenRouterBaseURL, "/")+"/api/v1/chat/completions", headers, reqBody, &result)
	if err != nil {
		return "", err
	}
	if status < 200 || status > 299 {
		msg := "OpenRouter error"
		if result.Error != nil && result.Error.Message != "" {
			msg = result.Error.Message
		}
		return "", &UpstreamError{Status: status, Message: msg}
	}

	if len(result.Choices) == 0 || result.Choices[0].Message.Content == "" {
		return FallbackReply, nil
	}
	return result.Choices[0].Message.Content, nil
}

// callOllama calls the Ollama chat API without streaming
func (u *UpstreamClient) callOllama(ctx context.Context, message string) (string, error) {
	reqBody := map[string]interface{}{
		"model":    u.cfg.OllamaModel,
		"messages": []chatMessage{{Role: "user", Content: message}},
		"stream":   false,
	}

	var result struct {
		Message chatMessage `json:"message"`
		Error   string      `json:"error"`
	}
	status, err := u.postJSON(ctx, strings.TrimRight(u.cfg.OllamaURL, "/")+"/api/chat", nil, reqBody, &result)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		msg := result.Error
		if msg == "" {
			msg = "Ollama error"
		}
		return "", &UpstreamError{Status: status, Message: msg}
	}

	if result.Message.Content == "" {
		return FallbackReply, nil
	}
	return result.Message.Content, nil
}

// callAnthropic calls the Anthropic messages API
func (u *UpstreamClient) callAnthropic(ctx context.Context, message string) (string, error) {
	reqBody := map[string]interface{}{
		"model":      "claude-3-haiku-20240307",
		"max_tokens": 2048,
		"messages":   []chatMessage{{Role: "user", Content: message}},
	}
	headers := map[string]string{
		"x-api-key":         u.cfg.AnthropicAPIKey,
		"anthropic-version": "2023-06-01",
	}

	var result struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	status, err := u.postJSON(ctx, "https://api.anthropic.com/v1/messages", headers, reqBody, &result)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		msg := "Anthropic error"
		if result.Error != nil && result.Error.Message != "" {
			msg = result.Error.Message
		}
		return "", &UpstreamError{Status: status, Message: msg}
	}

	if len(result.Content) == 0 || result.Content[0].Text == "" {
		return FallbackReply, nil
	}
	return result.Content[0].Text, nil
}

// postJSON sends body and decodes the JSON reply into out whatever the
// status, so provider error payloads can be read.
func (u *UpstreamClient) postJSON(ctx context.Context, url string, headers map[string]string, body, out interface{}) (int, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	client := u.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, err
	}
	if err := json.Unmarshal(bodyBytes, out); err != nil {
		log.Printf("Upstream returned non-JSON body (status %d)", resp.StatusCode)
		return resp.StatusCode, fmt.Errorf("decoding upstream response: %w", err)
	}
	return resp.StatusCode, nil
}
