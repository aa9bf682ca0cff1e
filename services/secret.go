package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// SecretBytes 会话签名密钥的字节数，256位熵
const SecretBytes = 32

/**
 * Generate a fresh session signing secret
 * @returns {string} Hex encoded secret, 64 characters
 * @returns {error} Returns error if the system entropy source fails
 * @description
 * - Drawn from crypto/rand on every provisioning run, never reused
 * - Only ever written into the rendered systemd unit, never logged
 */
func NewSecretValue() (string, error) {
	buf := make([]byte, SecretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
