package ai

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/pkoukk/tiktoken-go"
	"github.com/sashabaranov/go-openai"

	"github.com/knova-ai/knova/pkg/safe"
)

type ModelName struct {
	ChatModel      string
	EmbeddingModel string
}

type ResponseChoice struct {
	Message      string
	FinishReason string
	Error        error
}

// HandleAIStream pumps an openai completion stream into a channel of text
// fragments. Deltas are coalesced on a short ticker so the consumer sees a
// few larger frames instead of one frame per token. The channel closes when
// the upstream stream ends; upstream errors are delivered as a final choice
// carrying Error.
func HandleAIStream(ctx context.Context, resp *openai.ChatCompletionStream) chan ResponseChoice {
	respChan := make(chan ResponseChoice, 10)
	go safe.Run(func() {
		defer resp.Close()
		pumpStream(ctx, resp.Recv, respChan)
	})
	return respChan
}

// pumpStream drives one completion stream to completion. Every channel send
// is guarded on ctx: a consumer that stops reading and cancels must never
// strand this goroutine on a full buffer.
func pumpStream(ctx context.Context, recv func() (openai.ChatCompletionStreamResponse, error), respChan chan ResponseChoice) {
	ticker := time.NewTicker(time.Millisecond * 200)
	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		close(respChan)
		ticker.Stop()
		cancel()
	}()

	var (
		mu   sync.Mutex
		strs strings.Builder
	)

	send := func(choice ResponseChoice) bool {
		select {
		case respChan <- choice:
			return true
		case <-ctx.Done():
			return false
		}
	}

	flushResponse := func() bool {
		mu.Lock()
		defer mu.Unlock()
		if strs.Len() == 0 {
			return true
		}
		if !send(ResponseChoice{Message: strs.String()}) {
			return false
		}
		strs.Reset()
		return true
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				flushResponse()
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			// Best effort; the consumer may already be gone.
			select {
			case respChan <- ResponseChoice{Error: ctx.Err()}:
			default:
			}
			return
		default:
		}

		msg, err := recv()
		if err != nil && err != io.EOF {
			if flushResponse() {
				send(ResponseChoice{Error: err})
			}
			return
		}

		if err == io.EOF {
			flushResponse()
			return
		}

		for _, v := range msg.Choices {
			if v.FinishReason != "" {
				if !flushResponse() || !send(ResponseChoice{FinishReason: string(v.FinishReason)}) {
					return
				}
				continue
			}
			mu.Lock()
			strs.WriteString(v.Delta.Content)
			mu.Unlock()
		}
	}
}

// NumTokens estimates the prompt size of a message list the way the OpenAI
// cookbook counts chat tokens.
func NumTokens(messages []openai.ChatCompletionMessage, model string) (numTokens int, err error) {
	var tokensPerMessage, tokensPerName int
	switch model {
	case "gpt-3.5-turbo-0613",
		"gpt-4-0613",
		"gpt-4o-mini":
		tokensPerMessage = 3
		tokensPerName = 1
	default:
		if strings.Contains(model, "gpt-4") {
			return NumTokens(messages, "gpt-4-0613")
		}
		return NumTokens(messages, "gpt-3.5-turbo-0613")
	}

	tkm, err := tiktoken.EncodingForModel(model)
	if err != nil {
		err = fmt.Errorf("encoding for model: %v", err)
		return
	}

	for _, message := range messages {
		numTokens += tokensPerMessage
		numTokens += len(tkm.Encode(message.Content, nil, nil))
		numTokens += len(tkm.Encode(message.Role, nil, nil))
		if message.Name != "" {
			numTokens += len(tkm.Encode(message.Name, nil, nil))
			numTokens += tokensPerName
		}
	}
	numTokens += 3
	return numTokens, nil
}
