package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/knova-ai/knova/app/logic/v1"
	"github.com/knova-ai/knova/app/response"
)

func (s *HttpSrv) GetDashboardStats(c *gin.Context) {
	logic := v1.NewDashboardLogic(c, s.Core)
	stats, err := logic.Stats()
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, stats)
}
