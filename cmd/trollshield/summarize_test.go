package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Zacy-Sokach/TrollShield/internal/config"
	"github.com/Zacy-Sokach/TrollShield/internal/panel"
	"github.com/Zacy-Sokach/TrollShield/internal/shield"
)

type endpointStore struct {
	endpoint string
}

func (s endpointStore) Load(ctx context.Context) (config.Options, error) {
	return config.Options{
		APIKey:     "sk-test",
		PromptType: config.PromptTypeCustom,
		Model:      config.DefaultModel,
		Language:   "en",
		Endpoint:   s.endpoint,
	}, nil
}

type textSource struct{}

func (textSource) Extract(ctx context.Context) (string, error) {
	return "page", nil
}

func TestStreamPanelPrintsText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "data: {\"choices\":[{\"delta\":{\"content\":\"你好\"}}]}\n")
		w.(http.Flusher).Flush()
		io.WriteString(w, "data: {\"choices\":[{\"delta\":{\"content\":\", world\\u001b[2J\"}}]}\ndata: [DONE]\n")
	}))
	defer server.Close()

	orch := shield.New(panel.NewSession(), endpointStore{endpoint: server.URL}, textSource{})
	id := orch.OnTriggerCommentary(context.Background())

	var out bytes.Buffer
	p, err := streamPanel(context.Background(), &out, orch, id)
	if err != nil {
		t.Fatalf("streamPanel failed: %v", err)
	}
	if out.String() != "你好, world" {
		t.Errorf("output = %q", out.String())
	}
	if p.State != panel.StateDone {
		t.Errorf("state = %v", p.State)
	}
}

func TestStreamPanelSkipsErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	orch := shield.New(panel.NewSession(), endpointStore{endpoint: server.URL}, textSource{})
	id := orch.OnTriggerCommentary(context.Background())

	var out bytes.Buffer
	p, err := streamPanel(context.Background(), &out, orch, id)
	if err != nil {
		t.Fatalf("streamPanel failed: %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("error text should not be streamed, got %q", out.String())
	}
	if p.State != panel.StateError {
		t.Errorf("state = %v", p.State)
	}
}
