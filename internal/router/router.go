// Package router 设置 HTTP 路由
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/Luizhcrs/orb/internal/config"
	"github.com/Luizhcrs/orb/internal/handler"
	"github.com/Luizhcrs/orb/internal/middleware"
)

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, h *handler.Handlers) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()

	// 中间件
	r.Use(middleware.RecoveryMiddleware())
	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.CORSMiddleware(cfg.Server.CORSOrigins))

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": cfg.App.Version})
	})

	// Agent 消息管线
	agent := r.Group("/agent")
	{
		agent.POST("/message", h.Agent.ProcessMessage)
		agent.GET("/status", h.Agent.Status)
		agent.POST("/reset", h.Agent.ResetSession)
	}

	// History 会话历史
	history := r.Group("/history")
	{
		history.GET("/sessions", h.History.ListSessions)
		history.GET("/sessions/:id", h.History.GetSession)
		history.GET("/sessions/:id/messages", h.History.GetMessages)
		history.GET("/sessions/:id/full", h.History.GetSessionDetail)
		history.DELETE("/sessions/:id", h.History.DeleteSession)
		history.POST("/sessions/:id/clear", h.History.ClearSession)
		history.GET("/stats", h.History.GetStats)
	}

	// Config 配置
	configGroup := r.Group("/config")
	{
		configGroup.GET("", h.Config.GetConfig)
		configGroup.POST("/setting", h.Config.SetSetting)
		configGroup.POST("/llm", h.Config.SaveLLMConfig)
	}

	// WebSocket
	r.GET("/ws", h.WS.Serve)

	return r
}
