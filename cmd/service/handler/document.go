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

type ListDocumentsRequest struct {
	Page     uint64 `json:"page" form:"page" binding:"required"`
	PageSize uint64 `json:"pagesize" form:"pagesize" binding:"required"`
}

type ListDocumentsResponse struct {
	List  []types.Document `json:"list"`
	Total int64            `json:"total"`
}

func (s *HttpSrv) ListDocuments(c *gin.Context) {
	var req ListDocumentsRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	logic := v1.NewDocumentLogic(c, s.Core)
	list, total, err := logic.ListDocuments(req.Page, req.PageSize)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, ListDocumentsResponse{
		List:  list,
		Total: total,
	})
}

type IngestDocumentRequest struct {
	FileName     string          `json:"file_name" binding:"required"`
	DepartmentID string          `json:"department_id" binding:"required"`
	PageCount    int             `json:"page_count"`
	Chunks       []v1.ChunkInput `json:"chunks" binding:"required,min=1,dive"`
}

func (s *HttpSrv) IngestDocument(c *gin.Context) {
	var req IngestDocumentRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	logic := v1.NewDocumentLogic(c, s.Core)
	document, err := logic.IngestDocument(req.FileName, req.DepartmentID, req.PageCount, req.Chunks)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, document)
}

func (s *HttpSrv) DeleteDocument(c *gin.Context) {
	id, exist := c.Params.Get("document")
	if !exist || id == "" {
		response.APIError(c, errors.New("api.DeleteDocument", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest))
		return
	}

	logic := v1.NewDocumentLogic(c, s.Core)
	if err := logic.DeleteDocument(id); err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, nil)
}
