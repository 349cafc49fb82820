package v1

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/knova-ai/knova/app/core"
	"github.com/knova-ai/knova/pkg/auth"
	"github.com/knova-ai/knova/pkg/errors"
	"github.com/knova-ai/knova/pkg/i18n"
	"github.com/knova-ai/knova/pkg/security"
	"github.com/knova-ai/knova/pkg/types"
	"github.com/knova-ai/knova/pkg/utils"
)

type UserLogic struct {
	UserInfo
	ctx  context.Context
	core *core.Core
}

func NewUserLogic(ctx context.Context, core *core.Core) *UserLogic {
	return &UserLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: SetupUserInfo(ctx, core),
	}
}

func (l *UserLogic) CreateUser(name, email string, role types.UserRole, departmentID *string) (*types.User, error) {
	if !l.IsAdmin() {
		return nil, errors.New("UserLogic.CreateUser.Forbidden", i18n.ERROR_FORBIDDEN, nil).Code(http.StatusForbidden)
	}

	exist, err := l.core.Store().UserStore().GetUserByEmail(l.ctx, email)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("UserLogic.CreateUser.UserStore.GetUserByEmail", i18n.ERROR_INTERNAL, err)
	}
	if exist != nil {
		return nil, errors.New("UserLogic.CreateUser.Exist", i18n.ERROR_EXIST, nil).Code(http.StatusConflict)
	}

	if departmentID != nil {
		if _, err = l.core.Store().DepartmentStore().Get(l.ctx, *departmentID); err != nil {
			if err == sql.ErrNoRows {
				return nil, errors.New("UserLogic.CreateUser.DepartmentNotFound", i18n.ERROR_NOT_FOUND, nil).Code(http.StatusNotFound)
			}
			return nil, errors.New("UserLogic.CreateUser.DepartmentStore.Get", i18n.ERROR_INTERNAL, err)
		}
	}

	user := types.User{
		ID:           utils.GenUniqIDStr(),
		Name:         name,
		Email:        email,
		Role:         role,
		DepartmentID: departmentID,
		Active:       true,
	}
	if err = l.core.Store().UserStore().Create(l.ctx, user); err != nil {
		return nil, errors.New("UserLogic.CreateUser.UserStore.Create", i18n.ERROR_INTERNAL, err)
	}
	return &user, nil
}

func (l *UserLogic) ListUsers(page, pageSize uint64) ([]types.User, int64, error) {
	if !l.IsAdmin() {
		return nil, 0, errors.New("UserLogic.ListUsers.Forbidden", i18n.ERROR_FORBIDDEN, nil).Code(http.StatusForbidden)
	}

	list, err := l.core.Store().UserStore().List(l.ctx, page, pageSize)
	if err != nil {
		return nil, 0, errors.New("UserLogic.ListUsers.UserStore.List", i18n.ERROR_INTERNAL, err)
	}
	total, err := l.core.Store().UserStore().Total(l.ctx)
	if err != nil {
		return nil, 0, errors.New("UserLogic.ListUsers.UserStore.Total", i18n.ERROR_INTERNAL, err)
	}
	return list, total, nil
}

func (l *UserLogic) UpdateUser(id, name, email string, role types.UserRole, departmentID *string) error {
	if !l.IsAdmin() {
		return errors.New("UserLogic.UpdateUser.Forbidden", i18n.ERROR_FORBIDDEN, nil).Code(http.StatusForbidden)
	}

	if _, err := l.core.Store().UserStore().GetUser(l.ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return errors.New("UserLogic.UpdateUser.NotFound", i18n.ERROR_NOT_FOUND, nil).Code(http.StatusNotFound)
		}
		return errors.New("UserLogic.UpdateUser.UserStore.GetUser", i18n.ERROR_INTERNAL, err)
	}

	if departmentID != nil {
		if _, err := l.core.Store().DepartmentStore().Get(l.ctx, *departmentID); err != nil {
			if err == sql.ErrNoRows {
				return errors.New("UserLogic.UpdateUser.DepartmentNotFound", i18n.ERROR_NOT_FOUND, nil).Code(http.StatusNotFound)
			}
			return errors.New("UserLogic.UpdateUser.DepartmentStore.Get", i18n.ERROR_INTERNAL, err)
		}
	}

	if err := l.core.Store().UserStore().Update(l.ctx, id, name, email, role, departmentID); err != nil {
		return errors.New("UserLogic.UpdateUser.UserStore.Update", i18n.ERROR_INTERNAL, err)
	}
	return nil
}

func (l *UserLogic) SetUserActive(id string, active bool) error {
	if !l.IsAdmin() {
		return errors.New("UserLogic.SetUserActive.Forbidden", i18n.ERROR_FORBIDDEN, nil).Code(http.StatusForbidden)
	}
	if err := l.core.Store().UserStore().SetActive(l.ctx, id, active); err != nil {
		return errors.New("UserLogic.SetUserActive.UserStore.SetActive", i18n.ERROR_INTERNAL, err)
	}
	return nil
}

// IssueToken signs an access token for a user and caches the claims so the
// auth middleware can skip signature verification on the hot path.
func (l *UserLogic) IssueToken(userID string) (string, error) {
	if !l.IsAdmin() {
		return "", errors.New("UserLogic.IssueToken.Forbidden", i18n.ERROR_FORBIDDEN, nil).Code(http.StatusForbidden)
	}

	user, err := l.core.Store().UserStore().GetUser(l.ctx, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", errors.New("UserLogic.IssueToken.NotFound", i18n.ERROR_NOT_FOUND, nil).Code(http.StatusNotFound)
		}
		return "", errors.New("UserLogic.IssueToken.UserStore.GetUser", i18n.ERROR_INTERNAL, err)
	}
	if !user.Active {
		return "", errors.New("UserLogic.IssueToken.Inactive", i18n.ERROR_FORBIDDEN, nil).Code(http.StatusForbidden)
	}

	ttl := time.Hour * 24 * 7
	if l.core.Cfg().Auth.TokenTTLHour > 0 {
		ttl = time.Hour * time.Duration(l.core.Cfg().Auth.TokenTTLHour)
	}

	claims := security.NewTokenClaims(user.ID, user.Name, user.Role, user.DepartmentOrEmpty(), time.Now().Add(ttl).Unix())
	token, err := security.SignToken(claims, l.core.Cfg().Auth.JWTSecret)
	if err != nil {
		return "", errors.New("UserLogic.IssueToken.SignToken", i18n.ERROR_INTERNAL, err)
	}

	if err = auth.CacheTokenClaims(l.ctx, token, claims, l.core.Cache(), ttl); err != nil {
		slog.Error("failed to cache token claims", slog.String("error", err.Error()))
	}
	return token, nil
}
