package model

import "time"

// Setting 键值配置，key 唯一，写入即覆盖
type Setting struct {
	Key       string    `gorm:"primaryKey;size:128" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// LLMConfig LLM 配置记录
// 保存时追加新行并停用旧行，最多一条 is_active，保留配置历史
type LLMConfig struct {
	ID              uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Provider        string    `gorm:"size:50" json:"provider"`
	Model           string    `gorm:"size:100" json:"model"`
	APIKeyEncrypted string    `gorm:"type:text" json:"-"`
	IsActive        bool      `gorm:"index;default:false" json:"is_active"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName 指定表名
func (Setting) TableName() string {
	return "settings"
}

func (LLMConfig) TableName() string {
	return "llm_config"
}
