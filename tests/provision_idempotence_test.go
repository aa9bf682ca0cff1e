package tests

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"publisher-keeper/internal/config"
	"publisher-keeper/internal/logger"
	"publisher-keeper/services"
)

func init() {
	logger.InitLogger(&config.LogConfig{Level: "error", Path: "console"})
}

// noopRunner 假装所有外部命令都成功
func noopRunner(ctx context.Context, name string, args ...string) (string, error) {
	if name == "systemctl" && len(args) > 0 && args[0] == "is-active" {
		return "active\n", nil
	}
	if name == "hostname" {
		return "192.0.2.10\n", nil
	}
	return "", nil
}

/**
 * TestProvisionTwiceConverges 测试重复执行的幂等性
 * @description
 * - 连续执行两次完整配置流程，最终落盘的文件状态一致
 * - 唯一的例外是单元文件里的SECRET_KEY，每次运行都重新生成
 * - 站点配置两次完全相同
 */
func TestProvisionTwiceConverges(t *testing.T) {
	base := t.TempDir()
	target := &config.AppTarget{
		Name:              "publisher",
		Dir:               filepath.Join(base, "app"),
		User:              "www-data",
		Domain:            "_",
		Port:              43191,
		Workers:           3,
		Timeout:           120,
		SystemdDir:        filepath.Join(base, "systemd"),
		NginxAvailableDir: filepath.Join(base, "sites-available"),
		NginxEnabledDir:   filepath.Join(base, "sites-enabled"),
	}
	for _, dir := range []string{target.Dir, target.SystemdDir, target.NginxAvailableDir, target.NginxEnabledDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("创建测试目录失败: %v", err)
		}
	}

	p := services.NewProvisioner(target)
	p.SetRunner(noopRunner)

	// 第一次运行
	if _, err := p.RunAll(context.Background()); err != nil {
		t.Fatalf("第一次配置流程失败: %v", err)
	}
	unit1, err := os.ReadFile(target.UnitPath())
	if err != nil {
		t.Fatalf("读取单元文件失败: %v", err)
	}
	site1, err := os.ReadFile(target.SitePath())
	if err != nil {
		t.Fatalf("读取站点配置失败: %v", err)
	}

	// 第二次运行
	if _, err := p.RunAll(context.Background()); err != nil {
		t.Fatalf("第二次配置流程失败: %v", err)
	}
	unit2, err := os.ReadFile(target.UnitPath())
	if err != nil {
		t.Fatalf("读取单元文件失败: %v", err)
	}
	site2, err := os.ReadFile(target.SitePath())
	if err != nil {
		t.Fatalf("读取站点配置失败: %v", err)
	}

	// 站点配置完全一致
	if string(site1) != string(site2) {
		t.Error("两次运行生成的站点配置应当完全相同")
	}

	// 单元文件只有SECRET_KEY不同
	secret1 := extractSecret(t, string(unit1))
	secret2 := extractSecret(t, string(unit2))
	if secret1 == secret2 {
		t.Error("两次运行应当生成不同的密钥")
	}
	normalized1 := strings.ReplaceAll(string(unit1), secret1, "SECRET")
	normalized2 := strings.ReplaceAll(string(unit2), secret2, "SECRET")
	if normalized1 != normalized2 {
		t.Error("除密钥外，两次运行生成的单元文件应当完全相同")
	}

	// 启用链接依然指向站点配置
	link, err := os.Readlink(target.SiteLinkPath())
	if err != nil {
		t.Fatalf("站点未启用: %v", err)
	}
	if link != target.SitePath() {
		t.Errorf("启用链接指向错误: %s", link)
	}
}

func extractSecret(t *testing.T, unit string) string {
	t.Helper()
	const marker = `SECRET_KEY=`
	idx := strings.Index(unit, marker)
	if idx < 0 {
		t.Fatal("单元文件缺少SECRET_KEY")
	}
	rest := unit[idx+len(marker):]
	end := strings.Index(rest, `"`)
	if end < 0 {
		t.Fatal("SECRET_KEY格式错误")
	}
	secret := rest[:end]
	if len(secret) != services.SecretBytes*2 {
		t.Fatalf("密钥长度错误: %d", len(secret))
	}
	return secret
}
