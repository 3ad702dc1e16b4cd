// Package llm 封装大模型接入：运行配置解析、厂商网关与演示模型
package llm

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/Luizhcrs/orb/internal/config"
	"github.com/Luizhcrs/orb/internal/repository"
	"github.com/Luizhcrs/orb/internal/secret"
)

// 配置来源
const (
	SourceDatabase    = "database"
	SourceEnvironment = "environment"
)

// ConfigurationError 用户侧配置问题：有激活配置但凭证为空或无法解密
// 此时不回退到环境变量，要求用户通过配置界面修复
type ConfigurationError struct {
	Provider string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("credencial do provedor %s ausente ou inválida, configure pela tela de configurações", e.Provider)
}

// ResolvedConfig 解析后的运行配置
type ResolvedConfig struct {
	Provider string
	Model    string
	APIKey   string
	Source   string
}

// Resolver 运行配置解析器
// 优先级：数据库激活配置 > 环境变量；数据库不可用或无记录时回退环境变量
type Resolver struct {
	configRepo repository.ConfigRepository
	cipher     *secret.Cipher
	ai         *config.AIConfig
}

// NewResolver 创建运行配置解析器
func NewResolver(configRepo repository.ConfigRepository, cipher *secret.Cipher, ai *config.AIConfig) *Resolver {
	return &Resolver{
		configRepo: configRepo,
		cipher:     cipher,
		ai:         ai,
	}
}

// Resolve 解析当前应使用的厂商、模型与凭证
// 存在激活配置但凭证解密为空时返回 *ConfigurationError
func (r *Resolver) Resolve() (*ResolvedConfig, error) {
	record, err := r.configRepo.GetActiveLLMConfig()
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Warning: failed to load active LLM config, falling back to environment: %v", err)
		}
		return r.resolveFromEnv(), nil
	}

	apiKey := r.cipher.Decrypt(record.APIKeyEncrypted)
	if apiKey == "" {
		return nil, &ConfigurationError{Provider: record.Provider}
	}

	return &ResolvedConfig{
		Provider: record.Provider,
		Model:    record.Model,
		APIKey:   apiKey,
		Source:   SourceDatabase,
	}, nil
}

// resolveFromEnv 从环境配置构建运行配置
// 凭证可能为空，由网关降级到演示模式
func (r *Resolver) resolveFromEnv() *ResolvedConfig {
	return &ResolvedConfig{
		Provider: r.ai.Provider,
		Model:    r.ai.Model,
		APIKey:   r.ai.CredentialFor(r.ai.Provider),
		Source:   SourceEnvironment,
	}
}
