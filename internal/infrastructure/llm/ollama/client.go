package ollama

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/rag-strategy-lab/internal/infrastructure/resilience"
)

// Client talks to a local Ollama daemon. Generation model is chosen per
// call by the strategy config; only the embedding model is fixed here.
type Client struct {
	baseURL    string
	embedModel string
	httpClient *http.Client
	exec       *resilience.Executor
}

func New(baseURL, embedModel string, exec *resilience.Executor) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		embedModel: embedModel,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		exec:       exec,
	}
}

func (c *Client) Complete(ctx context.Context, prompt, model string) (string, error) {
	return c.generate(ctx, map[string]any{
		"model":  model,
		"prompt": prompt,
		"stream": false,
	})
}

func (c *Client) CompleteJSON(ctx context.Context, prompt, model string) (string, error) {
	return c.generate(ctx, map[string]any{
		"model":  model,
		"prompt": prompt,
		"stream": false,
		"format": "json",
	})
}

func (c *Client) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	request := map[string]any{
		"model": c.embedModel,
		"input": []string{text},
	}

	var response struct {
		Embeddings [][]float32 `json:"embeddings"`
	}
	if err := c.call(ctx, "embed", "/api/embed", request, &response); err != nil {
		return nil, err
	}
	if len(response.Embeddings) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}
	return response.Embeddings[0], nil
}

func (c *Client) generate(ctx context.Context, reqBody map[string]any) (string, error) {
	var response struct {
		Response string `json:"response"`
	}
	if err := c.call(ctx, "generate", "/api/generate", reqBody, &response); err != nil {
		return "", err
	}
	return strings.TrimSpace(response.Response), nil
}

func (c *Client) call(ctx context.Context, operation, path string, payload, out any) error {
	if c.exec == nil {
		return wrapTemporaryIfNeeded(operation, c.postJSON(ctx, path, payload, out, operation))
	}
	err := c.exec.Do(ctx, "ollama_"+operation, classifyOllamaError, func(ctx context.Context) error {
		return c.postJSON(ctx, path, payload, out, operation)
	})
	return wrapTemporaryIfNeeded(operation, err)
}
