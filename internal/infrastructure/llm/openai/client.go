package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/kirillkom/rag-strategy-lab/internal/core/domain"
	"github.com/kirillkom/rag-strategy-lab/internal/infrastructure/resilience"
)

// Client adapts the OpenAI chat and embeddings APIs. Generation model is
// picked per call by the strategy config; the embedding model is fixed.
type Client struct {
	api        *openai.Client
	embedModel string
	exec       *resilience.Executor
}

type Config struct {
	APIKey     string
	BaseURL    string
	EmbedModel string
}

func New(cfg Config, exec *resilience.Executor) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("openai: api key is required")
	}
	if cfg.EmbedModel == "" {
		cfg.EmbedModel = string(openai.SmallEmbedding3)
	}

	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}

	return &Client{
		api:        openai.NewClientWithConfig(apiCfg),
		embedModel: cfg.EmbedModel,
		exec:       exec,
	}, nil
}

func (c *Client) Complete(ctx context.Context, prompt, model string) (string, error) {
	return c.chat(ctx, prompt, model, nil)
}

func (c *Client) CompleteJSON(ctx context.Context, prompt, model string) (string, error) {
	return c.chat(ctx, prompt, model, &openai.ChatCompletionResponseFormat{
		Type: openai.ChatCompletionResponseFormatTypeJSONObject,
	})
}

func (c *Client) chat(ctx context.Context, prompt, model string, format *openai.ChatCompletionResponseFormat) (string, error) {
	request := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: format,
	}

	var answer string
	err := c.do(ctx, "chat", func(ctx context.Context) error {
		resp, err := c.api.CreateChatCompletion(ctx, request)
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("openai chat: empty choices")
		}
		answer = strings.TrimSpace(resp.Choices[0].Message.Content)
		return nil
	})
	if err != nil {
		return "", err
	}
	return answer, nil
}

func (c *Client) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	var vector []float32
	err := c.do(ctx, "embed", func(ctx context.Context) error {
		resp, err := c.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input: []string{text},
			Model: openai.EmbeddingModel(c.embedModel),
		})
		if err != nil {
			return err
		}
		if len(resp.Data) == 0 {
			return fmt.Errorf("openai embed: empty result")
		}
		vector = resp.Data[0].Embedding
		return nil
	})
	if err != nil {
		return nil, err
	}
	return vector, nil
}

func (c *Client) do(ctx context.Context, operation string, fn func(context.Context) error) error {
	if c.exec == nil {
		return wrapTemporaryIfNeeded(operation, fn(ctx))
	}
	err := c.exec.Do(ctx, "openai_"+operation, classifyOpenAIError, func(ctx context.Context) error {
		return fn(ctx)
	})
	return wrapTemporaryIfNeeded(operation, err)
}

func classifyOpenAIError(err error) resilience.Verdict {
	if err == nil {
		return resilience.Verdict{}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return resilience.Verdict{Retryable: false, RecordFailure: false}
	}
	if resilience.IsCircuitOpen(err) {
		return resilience.Verdict{Retryable: true, RecordFailure: true}
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case 408, 429, 500, 502, 503, 504:
			return resilience.Verdict{Retryable: true, RecordFailure: true}
		default:
			return resilience.Verdict{Retryable: false, RecordFailure: false}
		}
	}

	// Transport-level failures (DNS, resets) surface as plain errors.
	return resilience.Verdict{Retryable: true, RecordFailure: true}
}

func wrapTemporaryIfNeeded(operation string, err error) error {
	if err == nil {
		return nil
	}
	if domain.IsKind(err, domain.ErrTemporary) {
		return err
	}
	if classifyOpenAIError(err).Retryable || resilience.IsCircuitOpen(err) {
		return domain.WrapError(domain.ErrTemporary, operation, err)
	}
	return err
}
