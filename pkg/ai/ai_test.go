package ai

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func deltaResponse(content string) openai.ChatCompletionStreamResponse {
	return openai.ChatCompletionStreamResponse{
		Choices: []openai.ChatCompletionStreamChoice{
			{Delta: openai.ChatCompletionStreamChoiceDelta{Content: content}},
		},
	}
}

func scriptedRecv(responses []openai.ChatCompletionStreamResponse, final error) func() (openai.ChatCompletionStreamResponse, error) {
	i := 0
	return func() (openai.ChatCompletionStreamResponse, error) {
		if i < len(responses) {
			r := responses[i]
			i++
			return r, nil
		}
		return openai.ChatCompletionStreamResponse{}, final
	}
}

func collect(t *testing.T, respChan chan ResponseChoice) (string, error) {
	t.Helper()
	var answer string
	for {
		select {
		case choice, ok := <-respChan:
			if !ok {
				return answer, nil
			}
			if choice.Error != nil {
				return answer, choice.Error
			}
			answer += choice.Message
		case <-time.After(5 * time.Second):
			t.Fatal("stream did not finish")
		}
	}
}

func Test_PumpStreamCoalescesDeltas(t *testing.T) {
	respChan := make(chan ResponseChoice, 10)
	recv := scriptedRecv([]openai.ChatCompletionStreamResponse{
		deltaResponse("The vacation policy "),
		deltaResponse("allows 20 days."),
	}, io.EOF)

	go pumpStream(context.Background(), recv, respChan)

	answer, err := collect(t, respChan)
	require.NoError(t, err)
	assert.Equal(t, "The vacation policy allows 20 days.", answer)
}

func Test_PumpStreamDeliversUpstreamError(t *testing.T) {
	upstream := errors.New("upstream gone")
	respChan := make(chan ResponseChoice, 10)
	recv := scriptedRecv([]openai.ChatCompletionStreamResponse{
		deltaResponse("partial"),
	}, upstream)

	go pumpStream(context.Background(), recv, respChan)

	answer, err := collect(t, respChan)
	assert.Equal(t, "partial", answer)
	assert.Equal(t, upstream, err)
}

// An abandoned consumer stops reading while the upstream keeps producing.
// Once the buffer is full the pump parks on a send; cancellation must still
// release it.
func Test_PumpStreamUnblocksOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	respChan := make(chan ResponseChoice, 2)
	recv := func() (openai.ChatCompletionStreamResponse, error) {
		return openai.ChatCompletionStreamResponse{
			Choices: []openai.ChatCompletionStreamChoice{
				{FinishReason: openai.FinishReasonStop},
			},
		}, nil
	}

	done := make(chan struct{})
	go func() {
		pumpStream(ctx, recv, respChan)
		close(done)
	}()

	// Let the pump fill the unread buffer and block on the next send.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("pump goroutine still blocked after cancellation")
	}
}
