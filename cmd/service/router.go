package service

import (
	"github.com/gin-gonic/gin"

	"github.com/knova-ai/knova/app/core"
	v1 "github.com/knova-ai/knova/app/logic/v1"
	"github.com/knova-ai/knova/app/response"
	"github.com/knova-ai/knova/cmd/service/handler"
	"github.com/knova-ai/knova/cmd/service/middleware"
	"github.com/knova-ai/knova/pkg/metrics"
)

func serve(core *core.Core) {
	httpSrv := &handler.HttpSrv{
		Core:   core,
		Engine: core.HttpEngine(),
	}
	setupHttpRouter(httpSrv)

	core.HttpEngine().Run(core.Cfg().Addr)
}

func GetUserLimitBuilder(appCore *core.Core) func(key string, opts ...core.LimitOption) gin.HandlerFunc {
	return func(key string, opts ...core.LimitOption) gin.HandlerFunc {
		return middleware.UseLimit(appCore, func(c *gin.Context) string {
			token, _ := v1.InjectTokenClaim(c)
			return key + ":" + token.User
		}, opts...)
	}
}

func setupHttpRouter(s *handler.HttpSrv) {
	userLimit := GetUserLimitBuilder(s.Core)

	s.Engine.Use(gin.Recovery())
	s.Engine.Use(middleware.I18n(), response.NewResponse())
	s.Engine.Use(middleware.Cors, middleware.Metrics(s.Core))

	s.Engine.GET("/metrics", metrics.DefaultExportHandler())

	apiV1 := s.Engine.Group("/api/v1")
	authed := apiV1.Group("")
	authed.Use(middleware.Authorization(s.Core))
	{
		authed.POST("/chat", userLimit("chat"), s.ChatTurn)

		chat := authed.Group("/chat")
		{
			chat.GET("/sessions", s.ListChatSession)
			chat.GET("/sessions/:session/messages", s.GetChatSessionHistory)
			chat.DELETE("/sessions/:session", s.DeleteChatSession)
		}

		authed.GET("/departments", s.ListDepartments)
		authed.GET("/documents", s.ListDocuments)
		authed.GET("/dashboard", s.GetDashboardStats)

		admin := authed.Group("")
		admin.Use(middleware.VerifyAdminRole())
		{
			admin.POST("/departments", s.CreateDepartment)
			admin.PUT("/departments/:department", s.UpdateDepartment)
			admin.DELETE("/departments/:department", s.DeleteDepartment)

			admin.POST("/users", s.CreateUser)
			admin.GET("/users", s.ListUsers)
			admin.PUT("/users/:user", s.UpdateUser)
			admin.PUT("/users/:user/active", s.SetUserActive)
			admin.POST("/users/:user/token", s.IssueUserToken)

			admin.POST("/documents", s.IngestDocument)
			admin.DELETE("/documents/:document", s.DeleteDocument)
		}
	}
}
