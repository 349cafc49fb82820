package v1

import (
	"github.com/samber/lo"

	"github.com/knova-ai/knova/pkg/types"
)

// BuildContextWindow turns the just-loaded recent history into the prior-turn
// window fed to the generator. Entries that are role=user and textually
// identical to the current question are dropped: the current turn's user
// message was already persisted before retrieval and must not be counted as
// history. A genuinely repeated past question gets dropped too; accepted
// imprecision.
func BuildContextWindow(history []*types.ChatMessage, currentQuestion string) []types.HistoryEntry {
	filtered := lo.Filter(history, func(msg *types.ChatMessage, _ int) bool {
		return !(msg.Role == types.MESSAGE_ROLE_USER && msg.Content == currentQuestion)
	})

	return lo.Map(filtered, func(msg *types.ChatMessage, _ int) types.HistoryEntry {
		return types.HistoryEntry{
			Role:    msg.Role,
			Content: msg.Content,
		}
	})
}
