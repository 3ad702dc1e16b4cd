// Package settings 提供通用设置与 LLM 配置管理
package settings

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Luizhcrs/orb/internal/model"
	"github.com/Luizhcrs/orb/internal/repository"
	"github.com/Luizhcrs/orb/internal/secret"
)

// LLMConfigView 对外的 LLM 配置视图，凭证只露出尾部字符
type LLMConfigView struct {
	Provider     string `json:"provider"`
	Model        string `json:"model"`
	APIKeyMasked string `json:"api_key_masked"`
	Configured   bool   `json:"configured"`
}

// View 全量配置视图
type View struct {
	Settings  map[string]string `json:"settings"`
	LLMConfig LLMConfigView     `json:"llm_config"`
}

// SaveLLMInput 保存 LLM 配置的输入：三元组必须完整
type SaveLLMInput struct {
	Provider string `json:"provider" binding:"required"`
	Model    string `json:"model" binding:"required"`
	APIKey   string `json:"api_key" binding:"required"`
}

// Service 配置服务
// onChange 在 LLM 配置变化后触发，用于让编排器重建网关
type Service struct {
	configRepo repository.ConfigRepository
	cipher     *secret.Cipher
	onChange   func()
}

// NewService 创建配置服务
func NewService(configRepo repository.ConfigRepository, cipher *secret.Cipher, onChange func()) *Service {
	return &Service{configRepo: configRepo, cipher: cipher, onChange: onChange}
}

// GetView 读取全部设置与脱敏后的 LLM 配置
func (s *Service) GetView() (*View, error) {
	all, err := s.configRepo.GetAllSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	view := &View{Settings: all}

	record, err := s.configRepo.GetActiveLLMConfig()
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to load llm config: %w", err)
		}
		return view, nil
	}

	apiKey := s.cipher.Decrypt(record.APIKeyEncrypted)
	view.LLMConfig = LLMConfigView{
		Provider:     record.Provider,
		Model:        record.Model,
		APIKeyMasked: maskKey(apiKey),
		Configured:   apiKey != "",
	}
	return view, nil
}

// GetSetting 读取单个设置，未配置时返回 defaultValue
func (s *Service) GetSetting(key, defaultValue string) string {
	value, err := s.configRepo.GetSetting(key)
	if err != nil {
		return defaultValue
	}
	return value
}

// SetSetting 写入单个设置
func (s *Service) SetSetting(key, value string) error {
	if key == "" {
		return fmt.Errorf("setting key must not be empty")
	}
	if err := s.configRepo.SetSetting(key, value); err != nil {
		return fmt.Errorf("failed to save setting %s: %w", key, err)
	}
	return nil
}

// SaveLLMConfig 保存 LLM 配置三元组
// 凭证加密后整体落库，成功后通知变更
func (s *Service) SaveLLMConfig(input *SaveLLMInput) error {
	if input.Provider == "" || input.Model == "" || input.APIKey == "" {
		return fmt.Errorf("provider, model and api_key are all required")
	}

	encrypted, err := s.cipher.Encrypt(input.APIKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt credential: %w", err)
	}

	record := &model.LLMConfig{
		Provider:        input.Provider,
		Model:           input.Model,
		APIKeyEncrypted: encrypted,
	}
	if err := s.configRepo.SaveLLMConfig(record); err != nil {
		return fmt.Errorf("failed to save llm config: %w", err)
	}

	if s.onChange != nil {
		s.onChange()
	}
	return nil
}

// maskKey 凭证脱敏：只露出最后 4 个字符
func maskKey(apiKey string) string {
	if apiKey == "" {
		return ""
	}
	runes := []rune(apiKey)
	if len(runes) <= 4 {
		return "***"
	}
	return "***" + string(runes[len(runes)-4:])
}
