package model

import (
	"encoding/json"
	"time"
)

// ChatSession 聊天会话
type ChatSession struct {
	ID           string    `gorm:"primaryKey;size:64" json:"session_id"`
	Title        string    `gorm:"size:255" json:"title"`
	MessageCount int       `gorm:"default:0" json:"message_count"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// ChatMessage 聊天消息
// ExtraData 是序列化的附加数据（如 image_data），保持为不透明 JSON 便于扩展
type ChatMessage struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	SessionID string    `gorm:"index;size:64" json:"session_id"`
	Role      string    `gorm:"size:20;index" json:"role"` // user, assistant
	Content   string    `gorm:"type:text" json:"content"`
	ExtraData string    `gorm:"type:text" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

// MessageExtra 消息附加数据
type MessageExtra struct {
	ImageData string `json:"image_data,omitempty"`
	ToolUsed  string `json:"tool_used,omitempty"`
}

// Extra 反序列化附加数据，损坏的数据按空处理
func (m *ChatMessage) Extra() MessageExtra {
	var extra MessageExtra
	if m.ExtraData != "" {
		_ = json.Unmarshal([]byte(m.ExtraData), &extra)
	}
	return extra
}

// SetExtra 序列化附加数据
func (m *ChatMessage) SetExtra(extra MessageExtra) {
	if extra == (MessageExtra{}) {
		m.ExtraData = ""
		return
	}
	data, err := json.Marshal(extra)
	if err != nil {
		return
	}
	m.ExtraData = string(data)
}

// TableName 指定表名
func (ChatSession) TableName() string {
	return "chat_sessions"
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
