// Package handler 提供 HTTP 处理器
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Luizhcrs/orb/internal/service"
)

// Handlers 处理器集合
type Handlers struct {
	Agent   *AgentHandler
	History *HistoryHandler
	Config  *ConfigHandler
	WS      *WSHandler
}

// NewHandlers 创建所有处理器
func NewHandlers(svc *service.Services) *Handlers {
	return &Handlers{
		Agent:   NewAgentHandler(svc),
		History: NewHistoryHandler(svc),
		Config:  NewConfigHandler(svc),
		WS:      NewWSHandler(svc),
	}
}

// Response 通用响应格式
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// success 成功响应
func success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Code: 0, Message: "success", Data: data})
}

// errorResponse 错误响应
func errorResponse(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, Response{Code: -1, Message: err.Error()})
}

// badRequest 参数错误响应
func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Response{Code: -1, Message: msg})
}

// notFound 资源不存在响应
func notFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, Response{Code: -1, Message: msg})
}
