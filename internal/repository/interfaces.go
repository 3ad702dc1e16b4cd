// Package repository 定义数据访问接口
// 接口抽象使依赖注入和单元测试成为可能
package repository

import "github.com/Luizhcrs/orb/internal/model"

// ========== ChatRepository 接口 ==========

// ChatRepository 会话与消息数据访问接口
// 接口定义使 Service 层可以轻松 mock 进行单元测试
type ChatRepository interface {
	// 会话操作
	CreateSession(session *model.ChatSession) error
	GetSessionInfo(id string) (*model.ChatSession, error)
	ListSessions(limit int) ([]*model.ChatSession, error)
	SetTitle(id, title string) error
	DeleteSession(id string) error
	ClearSession(id string) error

	// 消息操作
	AppendMessage(msg *model.ChatMessage) error
	GetMessages(sessionID string, limit int) ([]*model.ChatMessage, error)
	GetRecentMessages(sessionID string, limit int) ([]*model.ChatMessage, error)

	// 统计
	CountSessions() (int64, error)
	CountMessages() (int64, error)
}

// ========== ConfigRepository 接口 ==========

// ConfigRepository 配置数据访问接口
type ConfigRepository interface {
	// 键值配置
	GetSetting(key string) (string, error)
	SetSetting(key, value string) error
	GetAllSettings() (map[string]string, error)

	// LLM 配置（追加 + 激活标记，保留历史）
	SaveLLMConfig(cfg *model.LLMConfig) error
	GetActiveLLMConfig() (*model.LLMConfig, error)
}

// 确保实现满足接口
var (
	_ ChatRepository   = (*chatRepositoryImpl)(nil)
	_ ConfigRepository = (*configRepositoryImpl)(nil)
)
