package v1

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/knova-ai/knova/app/core"
	"github.com/knova-ai/knova/pkg/errors"
	"github.com/knova-ai/knova/pkg/i18n"
	"github.com/knova-ai/knova/pkg/types"
	"github.com/knova-ai/knova/pkg/utils"
)

type ChatSessionLogic struct {
	UserInfo
	ctx  context.Context
	core *core.Core
}

func NewChatSessionLogic(ctx context.Context, core *core.Core) *ChatSessionLogic {
	return &ChatSessionLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: SetupUserInfo(ctx, core),
	}
}

// ResolveOrCreate returns the session the turn runs in. An empty id, an
// unknown id and an id owned by another user all get the same treatment:
// a fresh session titled with the leading runes of the question. Callers
// never learn whether a foreign session id existed.
func (l *ChatSessionLogic) ResolveOrCreate(sessionID, question string) (*types.ChatSession, bool, error) {
	user := l.GetUserInfo()

	if sessionID != "" {
		session, err := l.core.Store().ChatSessionStore().GetChatSession(l.ctx, sessionID)
		if err != nil && err != sql.ErrNoRows {
			return nil, false, errors.New("ChatSessionLogic.ResolveOrCreate.ChatSessionStore.GetChatSession", i18n.ERROR_INTERNAL, err)
		}
		if err == nil && session.UserID == user.User {
			if err := l.core.Store().ChatSessionStore().UpdateAccessTime(l.ctx, session.ID); err != nil {
				return nil, false, errors.New("ChatSessionLogic.ResolveOrCreate.ChatSessionStore.UpdateAccessTime", i18n.ERROR_INTERNAL, err)
			}
			return session, false, nil
		}
	}

	now := time.Now().Unix()
	session := types.ChatSession{
		ID:        utils.GenUniqIDStr(),
		UserID:    user.User,
		Title:     utils.TruncateRunes(question, types.SESSION_TITLE_LIMIT),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := l.core.Store().ChatSessionStore().Create(l.ctx, session); err != nil {
		return nil, false, errors.New("ChatSessionLogic.ResolveOrCreate.ChatSessionStore.Create", i18n.ERROR_INTERNAL, err)
	}
	return &session, true, nil
}

func (l *ChatSessionLogic) ListUserChatSessions(page, pageSize uint64) ([]types.ChatSession, int64, error) {
	user := l.GetUserInfo()

	list, err := l.core.Store().ChatSessionStore().List(l.ctx, user.User, page, pageSize)
	if err != nil {
		return nil, 0, errors.New("ChatSessionLogic.ListUserChatSessions.ChatSessionStore.List", i18n.ERROR_INTERNAL, err)
	}

	total, err := l.core.Store().ChatSessionStore().Total(l.ctx, user.User)
	if err != nil {
		return nil, 0, errors.New("ChatSessionLogic.ListUserChatSessions.ChatSessionStore.Total", i18n.ERROR_INTERNAL, err)
	}
	return list, total, nil
}

// GetSessionHistory lists a session's messages oldest first. Only the owner
// sees anything; everyone else gets not-found, same as a missing session.
func (l *ChatSessionLogic) GetSessionHistory(sessionID string) ([]*types.ChatMessage, error) {
	user := l.GetUserInfo()

	session, err := l.core.Store().ChatSessionStore().GetChatSession(l.ctx, sessionID)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("ChatSessionLogic.GetSessionHistory.ChatSessionStore.GetChatSession", i18n.ERROR_INTERNAL, err)
	}
	if err == sql.ErrNoRows || session.UserID != user.User {
		return nil, errors.New("ChatSessionLogic.GetSessionHistory.SessionNotFound", i18n.ERROR_NOT_FOUND, nil).Code(http.StatusNotFound)
	}

	list, err := l.core.Store().ChatMessageStore().ListSessionMessages(l.ctx, sessionID)
	if err != nil {
		return nil, errors.New("ChatSessionLogic.GetSessionHistory.ChatMessageStore.ListSessionMessages", i18n.ERROR_INTERNAL, err)
	}

	// The stored source list keeps one entry per cited page; the history view
	// shows each file once per answer.
	for _, msg := range list {
		if msg.Role == types.MESSAGE_ROLE_ASSISTANT {
			msg.Sources = DedupSourcesByFile(msg.Sources)
		}
	}
	return list, nil
}

// DeleteChatSession removes a session and its messages in one transaction.
// Deleting a session you don't own, or one that never existed, is a no-op.
func (l *ChatSessionLogic) DeleteChatSession(sessionID string) error {
	user := l.GetUserInfo()

	session, err := l.core.Store().ChatSessionStore().GetChatSession(l.ctx, sessionID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil
		}
		return errors.New("ChatSessionLogic.DeleteChatSession.ChatSessionStore.GetChatSession", i18n.ERROR_INTERNAL, err)
	}
	if session.UserID != user.User {
		return nil
	}

	return l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		if err := l.core.Store().ChatMessageStore().DeleteSessionMessages(ctx, sessionID); err != nil {
			return errors.New("ChatSessionLogic.DeleteChatSession.ChatMessageStore.DeleteSessionMessages", i18n.ERROR_INTERNAL, err)
		}
		if err := l.core.Store().ChatSessionStore().Delete(ctx, sessionID); err != nil {
			return errors.New("ChatSessionLogic.DeleteChatSession.ChatSessionStore.Delete", i18n.ERROR_INTERNAL, err)
		}
		return nil
	})
}
