package v1

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pgvector/pgvector-go"
	goopenai "github.com/sashabaranov/go-openai"

	"github.com/knova-ai/knova/app/core"
	"github.com/knova-ai/knova/pkg/ai"
	"github.com/knova-ai/knova/pkg/errors"
	"github.com/knova-ai/knova/pkg/i18n"
	"github.com/knova-ai/knova/pkg/types"
)

const answerPrompt = `You are a knowledge base assistant. Answer the question using only the reference passages below. If the passages do not contain the answer, say you don't know. Answer in the language of the question.

Reference passages:
%s`

// GenerationResult is what the conversational engine hands back to the turn
// orchestrator: the curated evidence in both shapes plus the token stream.
type GenerationResult struct {
	DisplaySources []types.SourceDisplay
	Sources        types.MessageSources
	Stream         chan ai.ResponseChoice
}

// Converser runs retrieval and starts generation for one turn. Behind an
// interface so turn-orchestration tests can substitute a scripted engine.
type Converser interface {
	Converse(ctx context.Context, scope types.AccessScope, question string, history []types.HistoryEntry) (*GenerationResult, error)
}

type ragConverser struct {
	core *core.Core
}

func NewConverser(core *core.Core) Converser {
	return &ragConverser{core: core}
}

func (c *ragConverser) Converse(ctx context.Context, scope types.AccessScope, question string, history []types.HistoryEntry) (*GenerationResult, error) {
	hits, err := c.retrieve(ctx, scope, question)
	if err != nil {
		return nil, err
	}

	display, persisted := CurateEvidence(hits)

	messages := c.buildMessages(question, history, persisted)

	stream, err := c.core.Srv().AI().QueryStream(ctx, messages)
	if err != nil {
		return nil, errors.New("ragConverser.Converse.AI.QueryStream", i18n.ERROR_ANSWER_FAILED, err)
	}

	return &GenerationResult{
		DisplaySources: display,
		Sources:        persisted,
		Stream:         ai.HandleAIStream(ctx, stream),
	}, nil
}

// retrieve embeds the question, runs the scoped similarity query and, when a
// reranker is configured, rescores the candidates with it. Rerank failure is
// not fatal; the raw similarity order stands.
func (c *ragConverser) retrieve(ctx context.Context, scope types.AccessScope, question string) ([]RetrievedHit, error) {
	retrievalTimer := c.core.Metrics().RetrievalTimer()
	defer retrievalTimer.ObserveDuration()

	vectors, err := c.core.Srv().AI().EmbeddingForQuery(ctx, []string{question})
	if err != nil {
		return nil, errors.New("ragConverser.retrieve.AI.EmbeddingForQuery", i18n.ERROR_ANSWER_FAILED, err)
	}
	if len(vectors) == 0 {
		return nil, errors.New("ragConverser.retrieve.AI.EmbeddingForQuery.Empty", i18n.ERROR_ANSWER_FAILED, fmt.Errorf("embedding response is empty"))
	}

	departmentIDs, restricted := scope.Tenants()
	if restricted && len(departmentIDs) == 0 {
		return nil, nil
	}

	chunks, err := c.core.Store().DocumentChunkStore().Query(ctx, departmentIDs,
		pgvector.NewVector(vectors[0]), uint64(c.core.Cfg().Retrieval.TopK))
	if err != nil {
		return nil, errors.New("ragConverser.retrieve.DocumentChunkStore.Query", i18n.ERROR_INTERNAL, err)
	}

	hits := make([]RetrievedHit, 0, len(chunks))
	for _, chunk := range chunks {
		hits = append(hits, RetrievedHit{
			Score:        chunk.Cos,
			FileName:     chunk.FileName,
			PageLabel:    chunk.PageLabel,
			DepartmentID: chunk.DepartmentID,
			Content:      chunk.Content,
		})
	}

	if reranker := c.core.Srv().Reranker(); reranker != nil && len(hits) > 0 {
		docs := make([]string, 0, len(hits))
		for _, hit := range hits {
			docs = append(docs, hit.Content)
		}
		items, err := reranker.Rerank(ctx, question, docs, c.core.Cfg().Retrieval.RerankTopN)
		if err != nil {
			slog.Error("rerank failed, keeping similarity order",
				slog.String("error", err.Error()))
			return hits, nil
		}

		reranked := make([]RetrievedHit, 0, len(items))
		for _, item := range items {
			if item.Index < 0 || item.Index >= len(hits) {
				continue
			}
			hit := hits[item.Index]
			hit.Score = item.RelevanceScore
			reranked = append(reranked, hit)
		}
		hits = reranked
	}

	return hits, nil
}

// buildMessages assembles the prompt: grounding system message, as much
// recent history as the token budget allows, then the question. History is
// dropped oldest-first when over budget.
func (c *ragConverser) buildMessages(question string, history []types.HistoryEntry, sources types.MessageSources) []goopenai.ChatCompletionMessage {
	var passages strings.Builder
	for i, source := range sources {
		fmt.Fprintf(&passages, "[%d] %s (page %s)\n%s\n\n", i+1, source.FileName, source.PageLabel, source.Content)
	}
	if passages.Len() == 0 {
		passages.WriteString("(no relevant passages found)")
	}

	system := goopenai.ChatCompletionMessage{
		Role:    goopenai.ChatMessageRoleSystem,
		Content: fmt.Sprintf(answerPrompt, passages.String()),
	}
	user := goopenai.ChatCompletionMessage{
		Role:    goopenai.ChatMessageRoleUser,
		Content: question,
	}

	historyMsgs := make([]goopenai.ChatCompletionMessage, 0, len(history))
	for _, entry := range history {
		historyMsgs = append(historyMsgs, goopenai.ChatCompletionMessage{
			Role:    entry.Role,
			Content: entry.Content,
		})
	}

	model := c.core.Srv().AI().ChatModel()
	limit := c.core.Cfg().Retrieval.ContextTokenLimit
	for len(historyMsgs) > 0 {
		messages := append([]goopenai.ChatCompletionMessage{system}, historyMsgs...)
		messages = append(messages, user)
		tokens, err := ai.NumTokens(messages, model)
		if err != nil || tokens <= limit {
			return messages
		}
		historyMsgs = historyMsgs[1:]
	}

	return []goopenai.ChatCompletionMessage{system, user}
}
