package v1

import (
	"context"
	"log/slog"
	"strings"

	"github.com/knova-ai/knova/app/core"
	"github.com/knova-ai/knova/pkg/errors"
	"github.com/knova-ai/knova/pkg/i18n"
	"github.com/knova-ai/knova/pkg/types"
	"github.com/knova-ai/knova/pkg/utils"
)

const (
	TURN_OUTCOME_DONE      = "done"
	TURN_OUTCOME_FAILED    = "failed"
	TURN_OUTCOME_ABANDONED = "abandoned"
)

type ChatLogic struct {
	UserInfo
	ctx       context.Context
	core      *core.Core
	converser Converser
}

func NewChatLogic(ctx context.Context, core *core.Core) *ChatLogic {
	return NewChatLogicWithConverser(ctx, core, NewConverser(core))
}

// NewChatLogicWithConverser swaps the generation engine; used by tests and
// by deployments that wrap retrieval.
func NewChatLogicWithConverser(ctx context.Context, core *core.Core, converser Converser) *ChatLogic {
	return &ChatLogic{
		ctx:       ctx,
		core:      core,
		UserInfo:  SetupUserInfo(ctx, core),
		converser: converser,
	}
}

type TurnRequest struct {
	SessionID string `json:"session_id"`
	Question  string `json:"question" binding:"required"`
}

// FrameWriter delivers one stream frame to the caller. The HTTP handler backs
// it with an NDJSON encoder; a write error means the caller is gone.
type FrameWriter func(frame types.StreamFrame) error

// StreamTurn runs one full chat turn: resolve the session, persist the
// question, retrieve scoped evidence, generate, stream frames and persist the
// answer. Frame order is fixed: session_id (only when a session was created),
// then sources exactly once, then content frames. There is no terminal frame;
// the stream just ends, on success and on failure alike.
func (l *ChatLogic) StreamTurn(req TurnRequest, emit FrameWriter) error {
	timer := l.core.Metrics().TurnTimer()
	defer timer.ObserveDuration()

	sessionLogic := NewChatSessionLogic(l.ctx, l.core)
	session, created, err := sessionLogic.ResolveOrCreate(req.SessionID, req.Question)
	if err != nil {
		l.core.Metrics().TurnOutcomeInc(TURN_OUTCOME_FAILED)
		return errors.Trace("ChatLogic.StreamTurn", err)
	}

	// The question is durable before any model call. If this write fails the
	// turn must not proceed; a generated answer with no recorded question
	// would corrupt the session transcript.
	userMsg := &types.ChatMessage{
		ID:        utils.GenUniqIDStr(),
		SessionID: session.ID,
		Role:      types.MESSAGE_ROLE_USER,
		Content:   req.Question,
	}
	if err = l.core.Store().ChatMessageStore().Create(l.ctx, userMsg); err != nil {
		l.core.Metrics().TurnOutcomeInc(TURN_OUTCOME_FAILED)
		return errors.New("ChatLogic.StreamTurn.ChatMessageStore.Create", i18n.ERROR_INTERNAL, err)
	}

	recent, err := l.core.Store().ChatMessageStore().ListRecent(l.ctx, session.ID,
		uint64(l.core.Cfg().Retrieval.HistoryLimit))
	if err != nil {
		l.core.Metrics().TurnOutcomeInc(TURN_OUTCOME_FAILED)
		return errors.New("ChatLogic.StreamTurn.ChatMessageStore.ListRecent", i18n.ERROR_INTERNAL, err)
	}
	// ListRecent is newest first; the prompt wants chronological order.
	for i, j := 0, len(recent)-1; i < j; i, j = i+1, j-1 {
		recent[i], recent[j] = recent[j], recent[i]
	}
	window := BuildContextWindow(recent, req.Question)

	scope := ResolveAccessScope(l.GetUserInfo())
	result, err := l.converser.Converse(l.ctx, scope, req.Question, window)
	if err != nil {
		l.core.Metrics().TurnOutcomeInc(TURN_OUTCOME_FAILED)
		return errors.Trace("ChatLogic.StreamTurn", err)
	}

	if created {
		if err = emit(types.StreamFrame{Type: types.FRAME_SESSION_ID, Data: session.ID}); err != nil {
			l.core.Metrics().TurnOutcomeInc(TURN_OUTCOME_ABANDONED)
			return nil
		}
	}
	if err = emit(types.StreamFrame{Type: types.FRAME_SOURCES, Data: result.DisplaySources}); err != nil {
		l.core.Metrics().TurnOutcomeInc(TURN_OUTCOME_ABANDONED)
		return nil
	}

	var (
		answer    strings.Builder
		abandoned bool
		streamErr error
	)
	for choice := range result.Stream {
		if choice.Error != nil {
			if choice.Error == context.Canceled || l.ctx.Err() != nil {
				abandoned = true
			} else {
				streamErr = choice.Error
			}
			break
		}
		if choice.Message == "" {
			continue
		}
		answer.WriteString(choice.Message)
		if err = emit(types.StreamFrame{Type: types.FRAME_CONTENT, Data: choice.Message}); err != nil {
			abandoned = true
			break
		}
	}

	if streamErr != nil {
		l.core.Metrics().TurnOutcomeInc(TURN_OUTCOME_FAILED)
		return errors.New("ChatLogic.StreamTurn.Stream", i18n.ERROR_ANSWER_FAILED, streamErr)
	}

	if abandoned && !l.core.Cfg().Chat.PersistPartialOnDisconnect {
		l.core.Metrics().TurnOutcomeInc(TURN_OUTCOME_ABANDONED)
		return nil
	}

	l.persistAssistantMessage(session.ID, answer.String(), result.Sources)

	if abandoned {
		l.core.Metrics().TurnOutcomeInc(TURN_OUTCOME_ABANDONED)
	} else {
		l.core.Metrics().TurnOutcomeInc(TURN_OUTCOME_DONE)
	}
	return nil
}

// Turn is the non-streaming variant: same pipeline, answer collected into one
// response body.
type TurnResult struct {
	SessionID string                `json:"session_id,omitempty"`
	Sources   []types.SourceDisplay `json:"sources"`
	Content   string                `json:"content"`
}

func (l *ChatLogic) Turn(req TurnRequest) (*TurnResult, error) {
	res := &TurnResult{}
	err := l.StreamTurn(req, func(frame types.StreamFrame) error {
		switch frame.Type {
		case types.FRAME_SESSION_ID:
			res.SessionID, _ = frame.Data.(string)
		case types.FRAME_SOURCES:
			if sources, ok := frame.Data.([]types.SourceDisplay); ok {
				res.Sources = sources
			}
		case types.FRAME_CONTENT:
			if text, ok := frame.Data.(string); ok {
				res.Content += text
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.Trace("ChatLogic.Turn", err)
	}
	return res, nil
}

// The question is already on record; losing the answer row only degrades the
// next turn's history, so the failure is logged and the stream's success is
// not retracted.
func (l *ChatLogic) persistAssistantMessage(sessionID, content string, sources types.MessageSources) {
	msg := &types.ChatMessage{
		ID:        utils.GenUniqIDStr(),
		SessionID: sessionID,
		Role:      types.MESSAGE_ROLE_ASSISTANT,
		Content:   content,
		Sources:   sources,
	}
	// The request context may already be canceled when the caller hung up.
	if err := l.core.Store().ChatMessageStore().Create(context.WithoutCancel(l.ctx), msg); err != nil {
		slog.Error("failed to persist assistant message",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()))
	}
}
