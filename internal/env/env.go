package env

import (
	"os"
	"path/filepath"
)

var Daemon bool = false
var ListenPort int = 0

// (default: $HOME/.publisher-keeper, created on demand)
var KeeperDir string = GetKeeperDir()

/**
 * Get publisher-keeper directory path
 * @returns {string} Returns keeper directory path
 */
func GetKeeperDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".publisher-keeper")
}
