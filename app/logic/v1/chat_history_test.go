package v1_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	v1 "github.com/knova-ai/knova/app/logic/v1"
	"github.com/knova-ai/knova/pkg/types"
)

func TestBuildContextWindow_ExcludesCurrentQuestion(t *testing.T) {
	history := []*types.ChatMessage{
		{Role: types.MESSAGE_ROLE_USER, Content: "hi"},
		{Role: types.MESSAGE_ROLE_ASSISTANT, Content: "hello"},
		{Role: types.MESSAGE_ROLE_USER, Content: "what is X?"},
	}

	window := v1.BuildContextWindow(history, "what is X?")

	assert.Equal(t, []types.HistoryEntry{
		{Role: types.MESSAGE_ROLE_USER, Content: "hi"},
		{Role: types.MESSAGE_ROLE_ASSISTANT, Content: "hello"},
	}, window)
}

func TestBuildContextWindow_KeepsAssistantEcho(t *testing.T) {
	// Only user-role entries matching the question are excluded. An assistant
	// message that happens to repeat the question text stays.
	history := []*types.ChatMessage{
		{Role: types.MESSAGE_ROLE_ASSISTANT, Content: "what is X?"},
		{Role: types.MESSAGE_ROLE_USER, Content: "what is X?"},
	}

	window := v1.BuildContextWindow(history, "what is X?")

	assert.Equal(t, []types.HistoryEntry{
		{Role: types.MESSAGE_ROLE_ASSISTANT, Content: "what is X?"},
	}, window)
}

func TestBuildContextWindow_Empty(t *testing.T) {
	window := v1.BuildContextWindow(nil, "anything")
	assert.Empty(t, window)
}
