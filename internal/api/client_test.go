package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStreamCompletionRequestShape(t *testing.T) {
	var got ChatRequest
	var auth, contentType string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		auth = r.Header.Get("Authorization")
		contentType = r.Header.Get("Content-Type")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		io.WriteString(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	client := NewClient("sk-test", WithEndpoint(server.URL), WithHTTPClient(server.Client()))
	body, err := client.StreamCompletion(context.Background(), CompletionRequest{
		Model:        "gpt-4o-mini",
		SystemPrompt: "prompt",
		Content:      "content",
		Temperature:  Temp(0.7),
	})
	if err != nil {
		t.Fatalf("StreamCompletion failed: %v", err)
	}
	data, _ := io.ReadAll(body)
	body.Close()

	if string(data) != "data: [DONE]\n\n" {
		t.Errorf("unexpected body %q", data)
	}
	if auth != "Bearer sk-test" {
		t.Errorf("Authorization = %q", auth)
	}
	if contentType != "application/json" {
		t.Errorf("Content-Type = %q", contentType)
	}
	if !got.Stream {
		t.Error("stream should be true")
	}
	if got.Model != "gpt-4o-mini" {
		t.Errorf("model = %q", got.Model)
	}
	if len(got.Messages) != 2 ||
		got.Messages[0] != (Message{Role: "system", Content: "prompt"}) ||
		got.Messages[1] != (Message{Role: "user", Content: "content"}) {
		t.Errorf("messages = %+v", got.Messages)
	}
	if got.Temperature == nil || *got.Temperature != 0.7 {
		t.Errorf("temperature = %v", got.Temperature)
	}
}

func TestStreamCompletionOmitsEmptyTemperature(t *testing.T) {
	var raw map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&raw)
	}))
	defer server.Close()

	client := NewClient("k", WithEndpoint(server.URL))
	body, err := client.StreamCompletion(context.Background(), CompletionRequest{Model: "m"})
	if err != nil {
		t.Fatalf("StreamCompletion failed: %v", err)
	}
	body.Close()

	if _, ok := raw["temperature"]; ok {
		t.Errorf("temperature should be omitted, body = %v", raw)
	}
}

func TestStreamCompletionNonOKStatus(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusTooManyRequests)
		io.WriteString(w, `{"error":{"message":"quota"}}`)
	}))
	defer server.Close()

	client := NewClient("k", WithEndpoint(server.URL))
	_, err := client.StreamCompletion(context.Background(), CompletionRequest{Model: "m"})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("StatusCode = %d", apiErr.StatusCode)
	}
	if calls != 1 {
		t.Errorf("expected a single attempt, got %d", calls)
	}
}

func TestStreamCompletionTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient("k", WithEndpoint(url))
	_, err := client.StreamCompletion(context.Background(), CompletionRequest{Model: "m"})
	if err == nil {
		t.Fatal("expected transport error")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Errorf("transport error should not be an APIError: %v", err)
	}
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient("k", WithEndpoint(""))
	if c.Endpoint() != DefaultEndpoint {
		t.Errorf("Endpoint = %q", c.Endpoint())
	}
}
