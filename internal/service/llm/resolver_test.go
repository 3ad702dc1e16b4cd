package llm

import (
	"errors"
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"github.com/Luizhcrs/orb/internal/config"
	"github.com/Luizhcrs/orb/internal/model"
	"github.com/Luizhcrs/orb/internal/secret"
)

// fakeConfigRepo 配置仓库 mock
type fakeConfigRepo struct {
	active    *model.LLMConfig
	activeErr error
}

func (f *fakeConfigRepo) GetSetting(key string) (string, error)      { return "", gorm.ErrRecordNotFound }
func (f *fakeConfigRepo) SetSetting(key, value string) error         { return nil }
func (f *fakeConfigRepo) GetAllSettings() (map[string]string, error) { return nil, nil }
func (f *fakeConfigRepo) SaveLLMConfig(cfg *model.LLMConfig) error   { return nil }
func (f *fakeConfigRepo) GetActiveLLMConfig() (*model.LLMConfig, error) {
	if f.activeErr != nil {
		return nil, f.activeErr
	}
	return f.active, nil
}

func newTestCipher(t *testing.T) *secret.Cipher {
	t.Helper()
	cipher, err := secret.NewCipher(filepath.Join(t.TempDir(), ".key"))
	if err != nil {
		t.Fatalf("NewCipher failed: %v", err)
	}
	return cipher
}

func testAIConfig() *config.AIConfig {
	return &config.AIConfig{
		Provider:    "openai",
		Model:       "gpt-4o-mini",
		MaxTokens:   1000,
		Temperature: 0.7,
		OpenAI:      config.OpenAIConfig{APIKey: "env-openai-key"},
	}
}

func TestResolvePrefersDatabaseRecord(t *testing.T) {
	cipher := newTestCipher(t)
	encrypted, err := cipher.Encrypt("db-key")
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	repo := &fakeConfigRepo{active: &model.LLMConfig{
		Provider:        "anthropic",
		Model:           "claude-3-haiku-20240307",
		APIKeyEncrypted: encrypted,
	}}
	resolver := NewResolver(repo, cipher, testAIConfig())

	resolved, err := resolver.Resolve()
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if resolved.Provider != "anthropic" || resolved.APIKey != "db-key" {
		t.Fatalf("unexpected resolution: %+v", resolved)
	}
	if resolved.Source != SourceDatabase {
		t.Fatalf("source = %q, want %q", resolved.Source, SourceDatabase)
	}
}

func TestResolveEmptyCredentialIsConfigurationError(t *testing.T) {
	cipher := newTestCipher(t)

	// 激活记录存在但凭证无法解密：不回退环境变量
	repo := &fakeConfigRepo{active: &model.LLMConfig{
		Provider:        "openai",
		Model:           "gpt-4o-mini",
		APIKeyEncrypted: "garbage-that-wont-decrypt",
	}}
	resolver := NewResolver(repo, cipher, testAIConfig())

	_, err := resolver.Resolve()
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("err = %v, want *ConfigurationError", err)
	}
	if cfgErr.Provider != "openai" {
		t.Fatalf("error provider = %q, want openai", cfgErr.Provider)
	}
}

func TestResolveNoRecordFallsBackToEnvironment(t *testing.T) {
	repo := &fakeConfigRepo{activeErr: gorm.ErrRecordNotFound}
	resolver := NewResolver(repo, newTestCipher(t), testAIConfig())

	resolved, err := resolver.Resolve()
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if resolved.Source != SourceEnvironment {
		t.Fatalf("source = %q, want %q", resolved.Source, SourceEnvironment)
	}
	if resolved.APIKey != "env-openai-key" {
		t.Fatalf("api key = %q, want env credential", resolved.APIKey)
	}
}

func TestResolveStoreFailureFallsBackToEnvironment(t *testing.T) {
	repo := &fakeConfigRepo{activeErr: errors.New("database is locked")}
	resolver := NewResolver(repo, newTestCipher(t), testAIConfig())

	resolved, err := resolver.Resolve()
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if resolved.Source != SourceEnvironment {
		t.Fatalf("source = %q, want %q", resolved.Source, SourceEnvironment)
	}
}

func TestResolveEnvironmentWithoutCredential(t *testing.T) {
	ai := testAIConfig()
	ai.OpenAI.APIKey = ""
	repo := &fakeConfigRepo{activeErr: gorm.ErrRecordNotFound}
	resolver := NewResolver(repo, newTestCipher(t), ai)

	// 环境也没有凭证：解析成功，网关侧降级为演示模式
	resolved, err := resolver.Resolve()
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if resolved.APIKey != "" {
		t.Fatalf("api key = %q, want empty", resolved.APIKey)
	}
}
