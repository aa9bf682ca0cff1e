package services

import (
	"encoding/hex"
	"testing"
)

/**
 * TestNewSecretValue 测试会话密钥生成
 * @description
 * - 验证密钥长度满足256位熵的要求
 * - 验证密钥是合法的十六进制字符串
 * - 验证连续生成的密钥互不相同
 */
func TestNewSecretValue(t *testing.T) {
	secret, err := NewSecretValue()
	if err != nil {
		t.Fatalf("生成密钥失败: %v", err)
	}

	if len(secret) != SecretBytes*2 {
		t.Errorf("密钥长度错误: 期望=%d, 实际=%d", SecretBytes*2, len(secret))
	}

	raw, err := hex.DecodeString(secret)
	if err != nil {
		t.Errorf("密钥不是合法的十六进制字符串: %v", err)
	}
	if len(raw) != SecretBytes {
		t.Errorf("密钥解码后字节数错误: 期望=%d, 实际=%d", SecretBytes, len(raw))
	}
}

func TestSecretValuesAreDistinct(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 16; i++ {
		secret, err := NewSecretValue()
		if err != nil {
			t.Fatalf("生成密钥失败: %v", err)
		}
		if seen[secret] {
			t.Fatalf("生成了重复的密钥: %s", secret[:8])
		}
		seen[secret] = true
	}
}
