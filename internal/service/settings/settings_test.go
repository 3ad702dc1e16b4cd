package settings

import (
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"github.com/Luizhcrs/orb/internal/model"
	"github.com/Luizhcrs/orb/internal/secret"
)

// fakeConfigRepo 配置仓库 mock
type fakeConfigRepo struct {
	settings map[string]string
	active   *model.LLMConfig
	saved    []*model.LLMConfig
}

func newFakeConfigRepo() *fakeConfigRepo {
	return &fakeConfigRepo{settings: make(map[string]string)}
}

func (f *fakeConfigRepo) GetSetting(key string) (string, error) {
	v, ok := f.settings[key]
	if !ok {
		return "", gorm.ErrRecordNotFound
	}
	return v, nil
}

func (f *fakeConfigRepo) SetSetting(key, value string) error {
	f.settings[key] = value
	return nil
}

func (f *fakeConfigRepo) GetAllSettings() (map[string]string, error) {
	return f.settings, nil
}

func (f *fakeConfigRepo) SaveLLMConfig(cfg *model.LLMConfig) error {
	cfg.IsActive = true
	f.active = cfg
	f.saved = append(f.saved, cfg)
	return nil
}

func (f *fakeConfigRepo) GetActiveLLMConfig() (*model.LLMConfig, error) {
	if f.active == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.active, nil
}

func newTestService(t *testing.T, repo *fakeConfigRepo, onChange func()) *Service {
	t.Helper()
	cipher, err := secret.NewCipher(filepath.Join(t.TempDir(), ".key"))
	if err != nil {
		t.Fatalf("NewCipher failed: %v", err)
	}
	return NewService(repo, cipher, onChange)
}

func TestMaskKey(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"", ""},
		{"ab", "***"},
		{"abcd", "***"},
		{"sk-test-1234abcd", "***abcd"},
	}
	for _, c := range cases {
		if got := maskKey(c.in); got != c.want {
			t.Fatalf("maskKey(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSaveLLMConfigEncryptsCredential(t *testing.T) {
	repo := newFakeConfigRepo()
	svc := newTestService(t, repo, nil)

	err := svc.SaveLLMConfig(&SaveLLMInput{Provider: "openai", Model: "gpt-4o-mini", APIKey: "sk-live-key"})
	if err != nil {
		t.Fatalf("SaveLLMConfig failed: %v", err)
	}
	if repo.active == nil {
		t.Fatal("config not saved")
	}
	if repo.active.APIKeyEncrypted == "sk-live-key" {
		t.Fatal("credential stored in plaintext")
	}
	if repo.active.APIKeyEncrypted == "" {
		t.Fatal("encrypted credential is empty")
	}
}

func TestSaveLLMConfigRejectsPartialInput(t *testing.T) {
	svc := newTestService(t, newFakeConfigRepo(), nil)

	for _, input := range []*SaveLLMInput{
		{Provider: "", Model: "m", APIKey: "k"},
		{Provider: "openai", Model: "", APIKey: "k"},
		{Provider: "openai", Model: "m", APIKey: ""},
	} {
		if err := svc.SaveLLMConfig(input); err == nil {
			t.Fatalf("partial input %+v accepted", input)
		}
	}
}

func TestSaveLLMConfigNotifiesChange(t *testing.T) {
	notified := false
	svc := newTestService(t, newFakeConfigRepo(), func() { notified = true })

	if err := svc.SaveLLMConfig(&SaveLLMInput{Provider: "openai", Model: "gpt-4o-mini", APIKey: "k"}); err != nil {
		t.Fatalf("SaveLLMConfig failed: %v", err)
	}
	if !notified {
		t.Fatal("onChange not invoked")
	}
}

func TestGetViewMasksCredential(t *testing.T) {
	repo := newFakeConfigRepo()
	svc := newTestService(t, repo, nil)

	if err := svc.SaveLLMConfig(&SaveLLMInput{Provider: "openai", Model: "gpt-4o-mini", APIKey: "sk-test-1234abcd"}); err != nil {
		t.Fatalf("SaveLLMConfig failed: %v", err)
	}

	view, err := svc.GetView()
	if err != nil {
		t.Fatalf("GetView failed: %v", err)
	}
	if view.LLMConfig.APIKeyMasked != "***abcd" {
		t.Fatalf("masked key = %q, want ***abcd", view.LLMConfig.APIKeyMasked)
	}
	if !view.LLMConfig.Configured {
		t.Fatal("configured flag should be true")
	}
}

func TestGetViewWithoutLLMConfig(t *testing.T) {
	svc := newTestService(t, newFakeConfigRepo(), nil)

	view, err := svc.GetView()
	if err != nil {
		t.Fatalf("GetView failed: %v", err)
	}
	if view.LLMConfig.Configured {
		t.Fatal("configured flag should be false when nothing saved")
	}
}

func TestGetSettingDefault(t *testing.T) {
	repo := newFakeConfigRepo()
	svc := newTestService(t, repo, nil)

	if got := svc.GetSetting("theme", "dark"); got != "dark" {
		t.Fatalf("default = %q, want dark", got)
	}
	if err := svc.SetSetting("theme", "light"); err != nil {
		t.Fatalf("SetSetting failed: %v", err)
	}
	if got := svc.GetSetting("theme", "dark"); got != "light" {
		t.Fatalf("value = %q, want light", got)
	}
}

func TestSetSettingRejectsEmptyKey(t *testing.T) {
	svc := newTestService(t, newFakeConfigRepo(), nil)

	if err := svc.SetSetting("", "value"); err == nil {
		t.Fatal("empty key accepted")
	}
}
