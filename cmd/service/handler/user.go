package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/knova-ai/knova/app/logic/v1"
	"github.com/knova-ai/knova/app/response"
	"github.com/knova-ai/knova/pkg/errors"
	"github.com/knova-ai/knova/pkg/i18n"
	"github.com/knova-ai/knova/pkg/types"
	"github.com/knova-ai/knova/pkg/utils"
)

type CreateUserRequest struct {
	Name         string  `json:"name" form:"name" binding:"required"`
	Email        string  `json:"email" form:"email" binding:"required,email"`
	Role         string  `json:"role" form:"role" binding:"required,oneof=admin member"`
	DepartmentID *string `json:"department_id" form:"department_id"`
}

func (s *HttpSrv) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	logic := v1.NewUserLogic(c, s.Core)
	user, err := logic.CreateUser(req.Name, req.Email, req.Role, req.DepartmentID)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, user)
}

type ListUsersRequest struct {
	Page     uint64 `json:"page" form:"page" binding:"required"`
	PageSize uint64 `json:"pagesize" form:"pagesize" binding:"required"`
}

type ListUsersResponse struct {
	List  []types.User `json:"list"`
	Total int64        `json:"total"`
}

func (s *HttpSrv) ListUsers(c *gin.Context) {
	var req ListUsersRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	logic := v1.NewUserLogic(c, s.Core)
	list, total, err := logic.ListUsers(req.Page, req.PageSize)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, ListUsersResponse{
		List:  list,
		Total: total,
	})
}

type UpdateUserRequest struct {
	Name         string  `json:"name" form:"name" binding:"required"`
	Email        string  `json:"email" form:"email" binding:"required,email"`
	Role         string  `json:"role" form:"role" binding:"required,oneof=admin member"`
	DepartmentID *string `json:"department_id" form:"department_id"`
}

func (s *HttpSrv) UpdateUser(c *gin.Context) {
	id, exist := c.Params.Get("user")
	if !exist || id == "" {
		response.APIError(c, errors.New("api.UpdateUser", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest))
		return
	}

	var req UpdateUserRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	logic := v1.NewUserLogic(c, s.Core)
	if err := logic.UpdateUser(id, req.Name, req.Email, req.Role, req.DepartmentID); err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, nil)
}

type SetUserActiveRequest struct {
	Active *bool `json:"active" form:"active" binding:"required"`
}

func (s *HttpSrv) SetUserActive(c *gin.Context) {
	id, exist := c.Params.Get("user")
	if !exist || id == "" {
		response.APIError(c, errors.New("api.SetUserActive", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest))
		return
	}

	var req SetUserActiveRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	logic := v1.NewUserLogic(c, s.Core)
	if err := logic.SetUserActive(id, *req.Active); err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, nil)
}

type IssueTokenResponse struct {
	Token string `json:"token"`
}

func (s *HttpSrv) IssueUserToken(c *gin.Context) {
	id, exist := c.Params.Get("user")
	if !exist || id == "" {
		response.APIError(c, errors.New("api.IssueUserToken", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest))
		return
	}

	logic := v1.NewUserLogic(c, s.Core)
	token, err := logic.IssueToken(id)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, IssueTokenResponse{Token: token})
}
