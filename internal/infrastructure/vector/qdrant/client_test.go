package qdrant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSearchDecodesPayload(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/collections/chunks/points/search" {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"result":[
			{"id":"p1","score":0.91,"payload":{"chunk_id":"c1","doc_id":"d1","text":"alpha"}},
			{"id":"p2","score":0.42,"payload":{"chunk_id":"c2","doc_id":"d1","text":"beta"}}
		]}`))
	}))
	defer server.Close()

	client := New(server.URL, "chunks", nil)
	chunks, err := client.Search(context.Background(), []float32{0.1, 0.2}, 5)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0].ChunkID != "c1" || chunks[0].Text != "alpha" || chunks[0].Score != 0.91 {
		t.Fatalf("unexpected first chunk: %+v", chunks[0])
	}
	if captured["with_payload"] != true {
		t.Fatalf("search must request payloads")
	}
	if captured["limit"] != float64(5) {
		t.Fatalf("limit must be forwarded, got %v", captured["limit"])
	}
}

func TestSearchFallsBackToPointID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":[{"id":42,"score":0.5,"payload":{"text":"no chunk id"}}]}`))
	}))
	defer server.Close()

	client := New(server.URL, "chunks", nil)
	chunks, err := client.Search(context.Background(), []float32{0.1}, 1)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if chunks[0].ChunkID != "42" {
		t.Fatalf("expected point id fallback, got %q", chunks[0].ChunkID)
	}
}

func TestSearchSurfacesStatusBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "collection not found", http.StatusNotFound)
	}))
	defer server.Close()

	client := New(server.URL, "missing", nil)
	_, err := client.Search(context.Background(), []float32{0.1}, 1)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "collection not found") {
		t.Fatalf("expected response body in error, got %v", err)
	}
}
