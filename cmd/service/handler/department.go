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

type CreateDepartmentRequest struct {
	Name        string `json:"name" form:"name" binding:"required"`
	Description string `json:"description" form:"description"`
}

func (s *HttpSrv) CreateDepartment(c *gin.Context) {
	var req CreateDepartmentRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	logic := v1.NewDepartmentLogic(c, s.Core)
	department, err := logic.CreateDepartment(req.Name, req.Description)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, department)
}

type ListDepartmentsResponse struct {
	List []types.Department `json:"list"`
}

func (s *HttpSrv) ListDepartments(c *gin.Context) {
	logic := v1.NewDepartmentLogic(c, s.Core)
	list, err := logic.ListDepartments()
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, ListDepartmentsResponse{List: list})
}

type UpdateDepartmentRequest struct {
	Name        string `json:"name" form:"name" binding:"required"`
	Description string `json:"description" form:"description"`
}

func (s *HttpSrv) UpdateDepartment(c *gin.Context) {
	id, exist := c.Params.Get("department")
	if !exist || id == "" {
		response.APIError(c, errors.New("api.UpdateDepartment", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest))
		return
	}

	var req UpdateDepartmentRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	logic := v1.NewDepartmentLogic(c, s.Core)
	if err := logic.UpdateDepartment(id, req.Name, req.Description); err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, nil)
}

func (s *HttpSrv) DeleteDepartment(c *gin.Context) {
	id, exist := c.Params.Get("department")
	if !exist || id == "" {
		response.APIError(c, errors.New("api.DeleteDepartment", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest))
		return
	}

	logic := v1.NewDepartmentLogic(c, s.Core)
	if err := logic.DeleteDepartment(id); err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, nil)
}
