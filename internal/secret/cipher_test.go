package secret

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestCipher(t *testing.T) (*Cipher, string) {
	t.Helper()
	keyPath := filepath.Join(t.TempDir(), ".test_key")
	c, err := NewCipher(keyPath)
	if err != nil {
		t.Fatalf("NewCipher failed: %v", err)
	}
	return c, keyPath
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	c, _ := newTestCipher(t)

	plaintext := "sk-test-1234567890"
	encrypted, err := c.Encrypt(plaintext)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if encrypted == plaintext {
		t.Fatal("ciphertext must differ from plaintext")
	}

	if got := c.Decrypt(encrypted); got != plaintext {
		t.Fatalf("Decrypt = %q, want %q", got, plaintext)
	}
}

func TestEncryptEmptyPassesThrough(t *testing.T) {
	c, _ := newTestCipher(t)

	encrypted, err := c.Encrypt("")
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if encrypted != "" {
		t.Fatalf("empty plaintext should stay empty, got %q", encrypted)
	}
	if got := c.Decrypt(""); got != "" {
		t.Fatalf("Decrypt(\"\") = %q, want empty", got)
	}
}

func TestKeyPersistsAcrossRestarts(t *testing.T) {
	c1, keyPath := newTestCipher(t)

	encrypted, err := c1.Encrypt("my-credential")
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	// 模拟重启：用同一密钥文件重建加密器
	c2, err := NewCipher(keyPath)
	if err != nil {
		t.Fatalf("NewCipher on existing key failed: %v", err)
	}
	if got := c2.Decrypt(encrypted); got != "my-credential" {
		t.Fatalf("Decrypt after restart = %q, want %q", got, "my-credential")
	}
}

func TestDecryptGarbageReturnsEmpty(t *testing.T) {
	c, _ := newTestCipher(t)

	for _, bad := range []string{"not-base64!!!", "YWJjZA==", "short"} {
		if got := c.Decrypt(bad); got != "" {
			t.Fatalf("Decrypt(%q) = %q, want empty", bad, got)
		}
	}
}

func TestDecryptWithDifferentKeyReturnsEmpty(t *testing.T) {
	c1, _ := newTestCipher(t)
	c2, _ := newTestCipher(t)

	encrypted, err := c1.Encrypt("secret-value")
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if got := c2.Decrypt(encrypted); got != "" {
		t.Fatalf("cross-key Decrypt = %q, want empty", got)
	}
}

func TestKeyFilePermissions(t *testing.T) {
	_, keyPath := newTestCipher(t)

	info, err := os.Stat(keyPath)
	if err != nil {
		t.Fatalf("key file not written: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("key file permissions = %o, want 600", perm)
	}
}
