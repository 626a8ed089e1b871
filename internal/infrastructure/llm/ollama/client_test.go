package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCompleteSendsModelPerCall(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"response":" ok "}`))
	}))
	defer server.Close()

	client := New(server.URL, "embed-model", nil)
	answer, err := client.Complete(context.Background(), "say ok", "llama3.1:8b")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if answer != "ok" {
		t.Fatalf("expected trimmed response, got %q", answer)
	}
	if captured["model"] != "llama3.1:8b" {
		t.Fatalf("model must come from the call, got %v", captured["model"])
	}
	if _, hasFormat := captured["format"]; hasFormat {
		t.Fatalf("plain completion must not force the json format")
	}
}

func TestCompleteJSONForcesJSONFormat(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"response":"{\"scores\":[1]}"}`))
	}))
	defer server.Close()

	client := New(server.URL, "embed-model", nil)
	raw, err := client.CompleteJSON(context.Background(), "score", "m")
	if err != nil {
		t.Fatalf("CompleteJSON() error = %v", err)
	}
	if captured["format"] != "json" {
		t.Fatalf("expected json format flag, got %v", captured["format"])
	}
	if !strings.Contains(raw, "scores") {
		t.Fatalf("unexpected payload: %s", raw)
	}
}

func TestEmbedQueryReturnsFirstVector(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embed" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"embeddings":[[0.1,0.2,0.3]]}`))
	}))
	defer server.Close()

	client := New(server.URL, "embed-model", nil)
	vector, err := client.EmbedQuery(context.Background(), "hello")
	if err != nil {
		t.Fatalf("EmbedQuery() error = %v", err)
	}
	if len(vector) != 3 {
		t.Fatalf("expected 3-dim vector, got %v", vector)
	}
}

func TestErrorCarriesHTTPBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model unavailable", http.StatusBadGateway)
	}))
	defer server.Close()

	client := New(server.URL, "embed-model", nil)
	_, err := client.EmbedQuery(context.Background(), "hello")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "model unavailable") {
		t.Fatalf("expected response body in error, got %v", err)
	}
}
