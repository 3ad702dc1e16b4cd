package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Luizhcrs/orb/internal/service"
	"github.com/Luizhcrs/orb/internal/service/settings"
)

// ConfigHandler 配置处理器
type ConfigHandler struct {
	svc *service.Services
}

// NewConfigHandler 创建配置处理器
func NewConfigHandler(svc *service.Services) *ConfigHandler {
	return &ConfigHandler{svc: svc}
}

// GetConfig 读取设置与脱敏后的 LLM 配置
func (h *ConfigHandler) GetConfig(c *gin.Context) {
	view, err := h.svc.Settings.GetView()
	if err != nil {
		errorResponse(c, err)
		return
	}
	success(c, view)
}

// SetSetting 写入单个通用设置
func (h *ConfigHandler) SetSetting(c *gin.Context) {
	var req struct {
		Key   string `json:"key" binding:"required"`
		Value string `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	if err := h.svc.Settings.SetSetting(req.Key, req.Value); err != nil {
		errorResponse(c, err)
		return
	}
	success(c, gin.H{"key": req.Key, "saved": true})
}

// SaveLLMConfig 保存 LLM 配置三元组（provider, model, api_key），不允许部分更新
func (h *ConfigHandler) SaveLLMConfig(c *gin.Context) {
	var input settings.SaveLLMInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}

	if err := h.svc.Settings.SaveLLMConfig(&input); err != nil {
		errorResponse(c, err)
		return
	}
	success(c, gin.H{"provider": input.Provider, "model": input.Model, "saved": true})
}
