package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/knova-ai/knova/app/core"
)

type HttpSrv struct {
	Core   *core.Core
	Engine *gin.Engine
}
