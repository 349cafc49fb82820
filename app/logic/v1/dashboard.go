package v1

import (
	"context"

	"github.com/knova-ai/knova/app/core"
	"github.com/knova-ai/knova/pkg/errors"
	"github.com/knova-ai/knova/pkg/i18n"
	"github.com/knova-ai/knova/pkg/types"
)

type DashboardLogic struct {
	UserInfo
	ctx  context.Context
	core *core.Core
}

func NewDashboardLogic(ctx context.Context, core *core.Core) *DashboardLogic {
	return &DashboardLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: SetupUserInfo(ctx, core),
	}
}

type DashboardStats struct {
	Sessions       int64               `json:"sessions"`
	Messages       int64               `json:"messages"`
	Documents      int64               `json:"documents"`
	Users          int64               `json:"users,omitempty"`
	RecentSessions []types.ChatSession `json:"recent_sessions"`
}

// Stats counts what the caller can see: admins get corpus-wide session,
// message and user totals, members get their own activity plus the documents
// their scope can read.
func (l *DashboardLogic) Stats() (*DashboardStats, error) {
	user := l.GetUserInfo()
	stats := &DashboardStats{}

	// An empty user id widens the session store queries to every user.
	sessionUser := user.User
	if l.IsAdmin() {
		sessionUser = ""

		messages, err := l.core.Store().ChatMessageStore().Total(l.ctx)
		if err != nil {
			return nil, errors.New("DashboardLogic.Stats.ChatMessageStore.Total", i18n.ERROR_INTERNAL, err)
		}
		stats.Messages = messages

		users, err := l.core.Store().UserStore().Total(l.ctx)
		if err != nil {
			return nil, errors.New("DashboardLogic.Stats.UserStore.Total", i18n.ERROR_INTERNAL, err)
		}
		stats.Users = users
	} else {
		messages, err := l.core.Store().ChatMessageStore().TotalForUser(l.ctx, user.User)
		if err != nil {
			return nil, errors.New("DashboardLogic.Stats.ChatMessageStore.TotalForUser", i18n.ERROR_INTERNAL, err)
		}
		stats.Messages = messages
	}

	sessions, err := l.core.Store().ChatSessionStore().Total(l.ctx, sessionUser)
	if err != nil {
		return nil, errors.New("DashboardLogic.Stats.ChatSessionStore.Total", i18n.ERROR_INTERNAL, err)
	}
	stats.Sessions = sessions

	departmentIDs, _ := ResolveAccessScope(user).Tenants()
	documents, err := l.core.Store().DocumentStore().Total(l.ctx, departmentIDs)
	if err != nil {
		return nil, errors.New("DashboardLogic.Stats.DocumentStore.Total", i18n.ERROR_INTERNAL, err)
	}
	stats.Documents = documents

	recent, err := l.core.Store().ChatSessionStore().List(l.ctx, sessionUser, 1, 5)
	if err != nil {
		return nil, errors.New("DashboardLogic.Stats.ChatSessionStore.List", i18n.ERROR_INTERNAL, err)
	}
	stats.RecentSessions = recent

	return stats, nil
}
