package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Luizhcrs/orb/internal/service"
	"github.com/Luizhcrs/orb/internal/service/agent"
	"github.com/Luizhcrs/orb/internal/service/llm"
)

// AgentHandler 消息管线处理器
type AgentHandler struct {
	svc *service.Services
}

// NewAgentHandler 创建消息管线处理器
func NewAgentHandler(svc *service.Services) *AgentHandler {
	return &AgentHandler{svc: svc}
}

// ProcessMessage 处理一条用户消息
// 桌面前端直接消费响应信封，不做通用包装
func (h *AgentHandler) ProcessMessage(c *gin.Context) {
	var input agent.Input
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}
	if input.Message == "" {
		badRequest(c, "message is required")
		return
	}

	resp, err := h.svc.Agent.ProcessMessage(c.Request.Context(), &input)
	if err != nil {
		if _, ok := err.(*llm.ConfigurationError); ok {
			badRequest(c, err.Error())
			return
		}
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Status 编排器状态
func (h *AgentHandler) Status(c *gin.Context) {
	success(c, h.svc.Agent.Status())
}

// ResetSession 丢弃会话的进程内上下文
func (h *AgentHandler) ResetSession(c *gin.Context) {
	var req struct {
		SessionID string `json:"session_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	h.svc.Agent.ResetSession(c.Request.Context(), req.SessionID)
	success(c, gin.H{"session_id": req.SessionID, "reset": true})
}
