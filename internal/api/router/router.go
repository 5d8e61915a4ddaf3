package router

import (
	"resume-insights/internal/api/handler"
	"resume-insights/internal/api/middleware"
	"resume-insights/internal/config"

	"github.com/cloudwego/hertz/pkg/app/server"
)

// RegisterRoutes 注册中间件与 API 路由。健康检查不需要鉴权
func RegisterRoutes(h *server.Hertz, cfg config.ServerConfig, resumeHandler *handler.ResumeHandler) {
	h.Use(
		middleware.RequestID(),
		middleware.AccessLog(),
		middleware.CORS(cfg.AllowedOrigins),
	)

	h.GET("/health", resumeHandler.Health)

	api := h.Group("/api/v1")
	api.GET("/health", resumeHandler.Health)

	resume := api.Group("/resume")
	if auth := middleware.APIKeyAuth(cfg.APIKeys); auth != nil {
		resume.Use(auth)
	}
	resume.POST("/analyze", resumeHandler.Analyze)
	resume.POST("/text", resumeHandler.AnalyzeText)
	resume.POST("/submit", resumeHandler.Submit)
	resume.GET("/reports/:id", resumeHandler.GetReport)
}
