package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	AI       AIConfig
}

// AppConfig 应用配置
type AppConfig struct {
	Name        string
	Environment string
	Version     string
	Debug       bool
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host         string
	Port         int
	Mode         string
	ReadTimeout  int
	WriteTimeout int
	CORSOrigins  []string
}

// DatabaseConfig 数据库配置（桌面端单文件 SQLite）
type DatabaseConfig struct {
	Path string
}

// RedisConfig Redis 配置（可选，host 为空时缓存只在进程内）
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// AIConfig AI 配置，作为数据库不可用时的环境回退
type AIConfig struct {
	Provider    string
	Model       string
	MaxTokens   int
	Temperature float64
	OpenAI      OpenAIConfig
	Anthropic   AnthropicConfig
}

// OpenAIConfig OpenAI 配置
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
}

// AnthropicConfig Anthropic 配置
type AnthropicConfig struct {
	APIKey  string
	BaseURL string
}

// Load 加载配置
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	setDefaults(v)

	// 环境变量
	v.SetEnvPrefix("ORB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 兼容经典的厂商环境变量名
	_ = v.BindEnv("ai.openai.apikey", "ORB_AI_OPENAI_APIKEY", "OPENAI_API_KEY")
	_ = v.BindEnv("ai.anthropic.apikey", "ORB_AI_ANTHROPIC_APIKEY", "ANTHROPIC_API_KEY")
	_ = v.BindEnv("ai.provider", "ORB_AI_PROVIDER", "LLM_PROVIDER")
	_ = v.BindEnv("ai.model", "ORB_AI_MODEL", "LLM_MODEL")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// GetAddr 获取服务器地址
func (c *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// GetAddr 获取 Redis 地址
func (c *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Enabled Redis 是否启用
func (c *RedisConfig) Enabled() bool {
	return c.Host != ""
}

// KeyPath 加密密钥文件路径（与数据库同目录）
func (c *DatabaseConfig) KeyPath() string {
	return filepath.Join(filepath.Dir(c.Path), ".orb_key")
}

// CredentialFor 按厂商名返回环境回退的凭证
func (c *AIConfig) CredentialFor(provider string) string {
	switch provider {
	case "openai":
		return c.OpenAI.APIKey
	case "anthropic":
		return c.Anthropic.APIKey
	default:
		return ""
	}
}

func setDefaults(v *viper.Viper) {
	// App
	v.SetDefault("app.name", "orb-backend")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.debug", true)

	// Server
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.readTimeout", 30)
	v.SetDefault("server.writeTimeout", 120)
	v.SetDefault("server.corsOrigins", []string{"http://localhost:3000"})

	// Database
	v.SetDefault("database.path", "./orb.db")

	// Redis
	v.SetDefault("redis.host", "")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)

	// AI
	v.SetDefault("ai.provider", "openai")
	v.SetDefault("ai.model", "gpt-4o-mini")
	v.SetDefault("ai.maxTokens", 1000)
	v.SetDefault("ai.temperature", 0.7)
	v.SetDefault("ai.openai.baseUrl", "")
	v.SetDefault("ai.anthropic.baseUrl", "")
}
