package openai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sashabaranov/go-openai"

	"github.com/knova-ai/knova/pkg/ai"
)

const NAME = "openai"

// Driver speaks any openai-compatible API, which also covers self-hosted
// backends (Ollama, vLLM) through BaseURL.
type Driver struct {
	client *openai.Client
	model  ai.ModelName
}

func New(token, baseURL string, model ai.ModelName) *Driver {
	cfg := openai.DefaultConfig(token)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	if model.ChatModel == "" {
		model.ChatModel = openai.GPT4oMini
	}
	if model.EmbeddingModel == "" {
		model.EmbeddingModel = string(openai.SmallEmbedding3)
	}

	return &Driver{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (s *Driver) ChatModel() string {
	return s.model.ChatModel
}

// EmbeddingForQuery embeds query strings, batching to keep request bodies
// small.
func (s *Driver) EmbeddingForQuery(ctx context.Context, content []string) ([][]float32, error) {
	slog.Debug("Embedding", slog.String("driver", NAME))
	queryReq := openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(s.model.EmbeddingModel),
	}

	var (
		groups   [][]string
		result   [][]float32
		batchMax = 6
	)

	for i, v := range content {
		if i%batchMax == 0 {
			groups = append(groups, []string{})
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], v)
	}

	for _, v := range groups {
		queryReq.Input = v
		resp, err := s.client.CreateEmbeddings(ctx, queryReq)
		if err != nil {
			return nil, fmt.Errorf("Error creating embedding: %w", err)
		}
		for _, item := range resp.Data {
			result = append(result, item.Embedding)
		}
	}

	return result, nil
}

func (s *Driver) QueryStream(ctx context.Context, query []openai.ChatCompletionMessage) (*openai.ChatCompletionStream, error) {
	req := openai.ChatCompletionRequest{
		Model:    s.model.ChatModel,
		Stream:   true,
		Messages: query,
	}

	resp, err := s.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("Completion error: %w", err)
	}

	slog.Debug("QueryStream", slog.String("driver", NAME), slog.String("model", s.model.ChatModel))

	return resp, nil
}

func (s *Driver) Query(ctx context.Context, query []openai.ChatCompletionMessage) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:    s.model.ChatModel,
		Messages: query,
	}

	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("Completion error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("Completion returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}
