package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Luizhcrs/orb/internal/service"
)

// HistoryHandler 会话历史处理器
type HistoryHandler struct {
	svc *service.Services
}

// NewHistoryHandler 创建会话历史处理器
func NewHistoryHandler(svc *service.Services) *HistoryHandler {
	return &HistoryHandler{svc: svc}
}

// ListSessions 列出会话
func (h *HistoryHandler) ListSessions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	sessions, err := h.svc.Chat.ListSessions(limit)
	if err != nil {
		errorResponse(c, err)
		return
	}
	success(c, sessions)
}

// GetSession 获取会话元数据
func (h *HistoryHandler) GetSession(c *gin.Context) {
	id := c.Param("id")

	session, err := h.svc.Chat.GetSession(id)
	if err != nil {
		errorResponse(c, err)
		return
	}
	if session == nil {
		notFound(c, "session not found")
		return
	}
	success(c, session)
}

// GetMessages 获取会话消息
func (h *HistoryHandler) GetMessages(c *gin.Context) {
	id := c.Param("id")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	messages, err := h.svc.Chat.GetMessages(id, limit)
	if err != nil {
		errorResponse(c, err)
		return
	}
	success(c, messages)
}

// GetSessionDetail 获取会话及全部消息
func (h *HistoryHandler) GetSessionDetail(c *gin.Context) {
	id := c.Param("id")

	detail, err := h.svc.Chat.GetSessionDetail(id)
	if err != nil {
		errorResponse(c, err)
		return
	}
	if detail == nil {
		notFound(c, "session not found")
		return
	}
	success(c, detail)
}

// DeleteSession 删除会话及其消息
func (h *HistoryHandler) DeleteSession(c *gin.Context) {
	id := c.Param("id")

	if err := h.svc.Chat.DeleteSession(c.Request.Context(), id); err != nil {
		errorResponse(c, err)
		return
	}
	success(c, gin.H{"session_id": id, "deleted": true})
}

// ClearSession 清空会话消息，保留会话
func (h *HistoryHandler) ClearSession(c *gin.Context) {
	id := c.Param("id")

	if err := h.svc.Chat.ClearSession(c.Request.Context(), id); err != nil {
		errorResponse(c, err)
		return
	}
	success(c, gin.H{"session_id": id, "cleared": true})
}

// GetStats 历史统计
func (h *HistoryHandler) GetStats(c *gin.Context) {
	stats, err := h.svc.Chat.GetStats()
	if err != nil {
		errorResponse(c, err)
		return
	}
	success(c, stats)
}
