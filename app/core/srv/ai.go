package srv

import (
	"context"
	"os"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/knova-ai/knova/pkg/ai"
	"github.com/knova-ai/knova/pkg/ai/openai"
	"github.com/knova-ai/knova/pkg/ai/rerank"
)

type AIConfig struct {
	Token          string `toml:"token"`
	Endpoint       string `toml:"endpoint"`
	ChatModel      string `toml:"chat_model"`
	EmbeddingModel string `toml:"embedding_model"`
}

func (c *AIConfig) FromENV() {
	c.Token = os.Getenv("KNOVA_AI_TOKEN")
	c.Endpoint = os.Getenv("KNOVA_AI_ENDPOINT")
	c.ChatModel = os.Getenv("KNOVA_AI_CHAT_MODEL")
	c.EmbeddingModel = os.Getenv("KNOVA_AI_EMBEDDING_MODEL")
}

type RerankConfig struct {
	Endpoint string `toml:"endpoint"`
	Token    string `toml:"token"`
	Model    string `toml:"model"`
}

func (c *RerankConfig) FromENV() {
	c.Endpoint = os.Getenv("KNOVA_RERANK_ENDPOINT")
	c.Token = os.Getenv("KNOVA_RERANK_TOKEN")
	c.Model = os.Getenv("KNOVA_RERANK_MODEL")
}

// AIDriver is what a turn needs from the generation backend.
type AIDriver interface {
	ChatModel() string
	EmbeddingForQuery(ctx context.Context, content []string) ([][]float32, error)
	QueryStream(ctx context.Context, query []goopenai.ChatCompletionMessage) (*goopenai.ChatCompletionStream, error)
	Query(ctx context.Context, query []goopenai.ChatCompletionMessage) (string, error)
}

var _ AIDriver = (*openai.Driver)(nil)

// Reranker scores candidate passages against a query.
type Reranker interface {
	Rerank(ctx context.Context, query string, docs []string, topN int) ([]rerank.RerankResponseItem, error)
}

func newAIDriver(cfg AIConfig) AIDriver {
	return openai.New(cfg.Token, cfg.Endpoint, ai.ModelName{
		ChatModel:      cfg.ChatModel,
		EmbeddingModel: cfg.EmbeddingModel,
	})
}

func newReranker(cfg RerankConfig) Reranker {
	if cfg.Endpoint == "" {
		return nil
	}
	return rerank.New(cfg.Endpoint, cfg.Token, cfg.Model)
}
