// Package secret 提供凭证的对称加密
// 密钥在首次使用时生成并落盘，重启后仍能解密历史凭证
package secret

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log"
	"os"

	"golang.org/x/crypto/nacl/secretbox"
)

const (
	keySize   = 32
	nonceSize = 24
)

// Cipher 进程级对称加密器
type Cipher struct {
	key [keySize]byte
}

// NewCipher 加载或生成密钥
// 密钥文件不存在时生成新密钥并以 0600 权限写入
func NewCipher(keyPath string) (*Cipher, error) {
	c := &Cipher{}

	data, err := os.ReadFile(keyPath)
	if err == nil {
		raw, decErr := base64.StdEncoding.DecodeString(string(data))
		if decErr == nil && len(raw) == keySize {
			copy(c.key[:], raw)
			return c, nil
		}
		log.Printf("Warning: invalid encryption key file %s, generating a new key", keyPath)
	}

	if _, err := rand.Read(c.key[:]); err != nil {
		return nil, fmt.Errorf("failed to generate encryption key: %w", err)
	}

	encoded := base64.StdEncoding.EncodeToString(c.key[:])
	if err := os.WriteFile(keyPath, []byte(encoded), 0o600); err != nil {
		return nil, fmt.Errorf("failed to persist encryption key: %w", err)
	}
	log.Printf("New encryption key generated: %s", keyPath)

	return c, nil
}

// Encrypt 加密明文，输出 base64(nonce || box)
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := secretbox.Seal(nonce[:], []byte(plaintext), &nonce, &c.key)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt 解密密文
// 解密失败按"未配置"处理：返回空串并记录日志，不向调用方抛错
func (c *Cipher) Decrypt(encrypted string) string {
	if encrypted == "" {
		return ""
	}

	raw, err := base64.StdEncoding.DecodeString(encrypted)
	if err != nil || len(raw) <= nonceSize {
		log.Printf("Warning: failed to decode encrypted value")
		return ""
	}

	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])

	plain, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, &c.key)
	if !ok {
		log.Printf("Warning: failed to decrypt value, treating as not configured")
		return ""
	}
	return string(plain)
}
