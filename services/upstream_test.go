package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"abena-car-sales/config"
)

func TestUpstream_OpenRouter(t *testing.T) {
	var body struct {
		Model    string        `json:"model"`
		Messages []chatMessage `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer or-key" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.Header.Get("X-Title"); got != "Abena Car Sales" {
			t.Errorf("X-Title = %q", got)
		}
		json.NewDecoder(r.Body).Decode(&body)
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"We have a Camry."}}]}`))
	}))
	defer srv.Close()

	u := NewUpstreamClient(&config.Config{
		AIProvider:        "openrouter",
		OpenRouterAPIKey:  "or-key",
		OpenRouterBaseURL: srv.URL + "/",
		OpenRouterModel:   "test-model",
	})
	reply, err := u.Forward(context.Background(), "Any sedans?")
	if err != nil {
		t.Fatal(err)
	}
	if reply != "We have a Camry." {
		t.Errorf("reply = %q", reply)
	}
	if body.Model != "test-model" || len(body.Messages) != 1 || body.Messages[0].Role != "user" || body.Messages[0].Content != "Any sedans?" {
		t.Errorf("request body = %+v", body)
	}
}

func TestUpstream_OpenRouterError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"provider message", http.StatusUnauthorized, `{"error":{"message":"No auth credentials found"}}`, "No auth credentials found"},
		{"no message", http.StatusTooManyRequests, `{}`, "OpenRouter error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			u := NewUpstreamClient(&config.Config{AIProvider: "openrouter", OpenRouterBaseURL: srv.URL})
			_, err := u.Forward(context.Background(), "hi")
			var upErr *UpstreamError
			if !errors.As(err, &upErr) {
				t.Fatalf("err = %v, want *UpstreamError", err)
			}
			if upErr.Status != tt.status || upErr.Message != tt.wantMsg {
				t.Errorf("UpstreamError = %+v", upErr)
			}
		})
	}
}

func TestUpstream_OpenRouterEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	u := NewUpstreamClient(&config.Config{AIProvider: "openrouter", OpenRouterBaseURL: srv.URL})
	reply, err := u.Complete(context.Background(), "hi")
	if err != nil {
		t.Fatal(err)
	}
	if reply != FallbackReply {
		t.Errorf("reply = %q, want fallback", reply)
	}
}

func TestUpstream_NonJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>Bad Gateway</html>"))
	}))
	defer srv.Close()

	u := NewUpstreamClient(&config.Config{AIProvider: "openrouter", OpenRouterBaseURL: srv.URL})
	_, err := u.Forward(context.Background(), "hi")
	if err == nil {
		t.Fatal("expected error")
	}
	var upErr *UpstreamError
	if errors.As(err, &upErr) {
		t.Errorf("non-JSON body should not be an UpstreamError: %v", err)
	}
}

func TestUpstream_Ollama(t *testing.T) {
	var body struct {
		Model  string `json:"model"`
		Stream bool   `json:"stream"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&body)
		w.Write([]byte(`{"message":{"role":"assistant","content":"Hello from Ollama"}}`))
	}))
	defer srv.Close()

	u := NewUpstreamClient(&config.Config{AIProvider: "ollama", OllamaURL: srv.URL, OllamaModel: "mistral"})
	reply, err := u.Forward(context.Background(), "hi")
	if err != nil {
		t.Fatal(err)
	}
	if reply != "Hello from Ollama" {
		t.Errorf("reply = %q", reply)
	}
	if body.Model != "mistral" || body.Stream {
		t.Errorf("request body = %+v", body)
	}
}

func TestUpstream_OllamaError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"model 'mistral' not found"}`))
	}))
	defer srv.Close()

	u := NewUpstreamClient(&config.Config{AIProvider: "ollama", OllamaURL: srv.URL, OllamaModel: "mistral"})
	_, err := u.Forward(context.Background(), "hi")
	var upErr *UpstreamError
	if !errors.As(err, &upErr) || upErr.Status != http.StatusNotFound || upErr.Message != "model 'mistral' not found" {
		t.Errorf("err = %v", err)
	}
}

func TestUpstream_UnsupportedProvider(t *testing.T) {
	u := NewUpstreamClient(&config.Config{AIProvider: "gemini"})
	if _, err := u.Forward(context.Background(), "hi"); err == nil {
		t.Error("expected error for unsupported provider")
	}
}
