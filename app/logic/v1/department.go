package v1

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/knova-ai/knova/app/core"
	"github.com/knova-ai/knova/pkg/errors"
	"github.com/knova-ai/knova/pkg/i18n"
	"github.com/knova-ai/knova/pkg/types"
	"github.com/knova-ai/knova/pkg/utils"
)

type DepartmentLogic struct {
	UserInfo
	ctx  context.Context
	core *core.Core
}

func NewDepartmentLogic(ctx context.Context, core *core.Core) *DepartmentLogic {
	return &DepartmentLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: SetupUserInfo(ctx, core),
	}
}

func (l *DepartmentLogic) CreateDepartment(name, description string) (*types.Department, error) {
	if !l.IsAdmin() {
		return nil, errors.New("DepartmentLogic.CreateDepartment.Forbidden", i18n.ERROR_FORBIDDEN, nil).Code(http.StatusForbidden)
	}

	department := types.Department{
		ID:          utils.GenUniqIDStr(),
		Name:        name,
		Description: description,
	}
	if err := l.core.Store().DepartmentStore().Create(l.ctx, department); err != nil {
		return nil, errors.New("DepartmentLogic.CreateDepartment.DepartmentStore.Create", i18n.ERROR_INTERNAL, err)
	}
	return &department, nil
}

func (l *DepartmentLogic) ListDepartments() ([]types.Department, error) {
	list, err := l.core.Store().DepartmentStore().List(l.ctx)
	if err != nil {
		return nil, errors.New("DepartmentLogic.ListDepartments.DepartmentStore.List", i18n.ERROR_INTERNAL, err)
	}
	return list, nil
}

func (l *DepartmentLogic) UpdateDepartment(id, name, description string) error {
	if !l.IsAdmin() {
		return errors.New("DepartmentLogic.UpdateDepartment.Forbidden", i18n.ERROR_FORBIDDEN, nil).Code(http.StatusForbidden)
	}
	if id == types.GLOBAL_DEPARTMENT_ID {
		return errors.New("DepartmentLogic.UpdateDepartment.Protected", i18n.ERROR_DEPT_PROTECTED, nil).Code(http.StatusForbidden)
	}

	if _, err := l.core.Store().DepartmentStore().Get(l.ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return errors.New("DepartmentLogic.UpdateDepartment.NotFound", i18n.ERROR_NOT_FOUND, nil).Code(http.StatusNotFound)
		}
		return errors.New("DepartmentLogic.UpdateDepartment.DepartmentStore.Get", i18n.ERROR_INTERNAL, err)
	}

	if err := l.core.Store().DepartmentStore().Update(l.ctx, id, name, description); err != nil {
		return errors.New("DepartmentLogic.UpdateDepartment.DepartmentStore.Update", i18n.ERROR_INTERNAL, err)
	}
	return nil
}

// DeleteDepartment removes a department and detaches its members. The global
// department is permanent, and a department that still has documents refuses
// deletion so its corpus is never orphaned silently.
func (l *DepartmentLogic) DeleteDepartment(id string) error {
	if !l.IsAdmin() {
		return errors.New("DepartmentLogic.DeleteDepartment.Forbidden", i18n.ERROR_FORBIDDEN, nil).Code(http.StatusForbidden)
	}
	if id == types.GLOBAL_DEPARTMENT_ID {
		return errors.New("DepartmentLogic.DeleteDepartment.Protected", i18n.ERROR_DEPT_PROTECTED, nil).Code(http.StatusForbidden)
	}

	if _, err := l.core.Store().DepartmentStore().Get(l.ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return errors.New("DepartmentLogic.DeleteDepartment.NotFound", i18n.ERROR_NOT_FOUND, nil).Code(http.StatusNotFound)
		}
		return errors.New("DepartmentLogic.DeleteDepartment.DepartmentStore.Get", i18n.ERROR_INTERNAL, err)
	}

	total, err := l.core.Store().DocumentStore().Total(l.ctx, []string{id})
	if err != nil {
		return errors.New("DepartmentLogic.DeleteDepartment.DocumentStore.Total", i18n.ERROR_INTERNAL, err)
	}
	if total > 0 {
		return errors.New("DepartmentLogic.DeleteDepartment.InUse", i18n.ERROR_DEPT_IN_USE, nil).Code(http.StatusConflict)
	}

	return l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		if err := l.core.Store().UserStore().DetachDepartment(ctx, id); err != nil {
			return errors.New("DepartmentLogic.DeleteDepartment.UserStore.DetachDepartment", i18n.ERROR_INTERNAL, err)
		}
		if err := l.core.Store().DepartmentStore().Delete(ctx, id); err != nil {
			return errors.New("DepartmentLogic.DeleteDepartment.DepartmentStore.Delete", i18n.ERROR_INTERNAL, err)
		}
		return nil
	})
}
