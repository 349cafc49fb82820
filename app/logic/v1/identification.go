package v1

import (
	"context"
	"log/slog"

	"github.com/knova-ai/knova/app/core"
	"github.com/knova-ai/knova/pkg/security"
	"github.com/knova-ai/knova/pkg/types"
)

type _userInfo struct {
	u *security.TokenClaims
}

func (u *_userInfo) GetUserInfo() security.TokenClaims {
	return *u.u
}

func (u *_userInfo) IsAdmin() bool {
	return u.u.Role == types.USER_ROLE_ADMIN
}

func SetupUserInfo(ctx context.Context, core *core.Core) UserInfo {
	userInfo, ok := InjectTokenClaim(ctx)
	if !ok {
		slog.Error("Not found user in context", slog.String("component", "logic.v1.SetupUserInfo"))
		userInfo = security.TokenClaims{}
	}
	return &_userInfo{
		u: &userInfo,
	}
}

type UserInfo interface {
	GetUserInfo() security.TokenClaims
	IsAdmin() bool
}
