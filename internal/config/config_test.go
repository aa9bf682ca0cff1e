package config

import (
	"errors"
	"testing"
)

func validTarget() AppTarget {
	return AppTarget{
		Name:    "publisher",
		Dir:     "/var/www/publisher_site",
		User:    "www-data",
		Domain:  "_",
		Port:    8000,
		Workers: 3,
		Timeout: 120,
	}
}

/**
 * TestTargetValidate 测试配置校验
 * @description
 * - 非法的应用名、相对路径、特权端口等都应当在任何步骤执行前被拦截
 */
func TestTargetValidate(t *testing.T) {
	valid := validTarget()
	if err := valid.Validate(); err != nil {
		t.Fatalf("合法配置不应报错: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*AppTarget)
	}{
		{"空应用名", func(a *AppTarget) { a.Name = "" }},
		{"应用名带路径分隔符", func(a *AppTarget) { a.Name = "pub/lisher" }},
		{"应用名带空格", func(a *AppTarget) { a.Name = "pub lisher" }},
		{"相对路径", func(a *AppTarget) { a.Dir = "www/publisher" }},
		{"空运行用户", func(a *AppTarget) { a.User = "" }},
		{"空域名", func(a *AppTarget) { a.Domain = "" }},
		{"特权端口", func(a *AppTarget) { a.Port = 80 }},
		{"端口越界", func(a *AppTarget) { a.Port = 70000 }},
		{"零工作进程", func(a *AppTarget) { a.Workers = 0 }},
		{"零超时", func(a *AppTarget) { a.Timeout = 0 }},
	}

	for _, tc := range cases {
		target := validTarget()
		tc.mutate(&target)
		err := target.Validate()
		if err == nil {
			t.Errorf("%s: 应当校验失败", tc.name)
			continue
		}
		if !errors.Is(err, ErrInvalidTarget) {
			t.Errorf("%s: 错误类型应当是ErrInvalidTarget: %v", tc.name, err)
		}
	}
}

func TestTargetPaths(t *testing.T) {
	target := validTarget()

	if got := target.UnitPath(); got != "/etc/systemd/system/publisher.service" {
		t.Errorf("单元文件路径错误: %s", got)
	}
	if got := target.SitePath(); got != "/etc/nginx/sites-available/publisher" {
		t.Errorf("站点配置路径错误: %s", got)
	}
	if got := target.SiteLinkPath(); got != "/etc/nginx/sites-enabled/publisher" {
		t.Errorf("启用链接路径错误: %s", got)
	}
	if got := target.DefaultSiteLink(); got != "/etc/nginx/sites-enabled/default" {
		t.Errorf("默认站点链接路径错误: %s", got)
	}
	if got := target.VenvDir(); got != "/var/www/publisher_site/venv" {
		t.Errorf("虚拟环境路径错误: %s", got)
	}
	if got := target.DatabasePath(); got != "/var/www/publisher_site/instance/publisher.db" {
		t.Errorf("数据库路径错误: %s", got)
	}
}

func TestTargetPathOverrides(t *testing.T) {
	target := validTarget()
	target.SystemdDir = "/tmp/systemd"
	target.NginxAvailableDir = "/tmp/sa"
	target.NginxEnabledDir = "/tmp/se"

	if got := target.UnitPath(); got != "/tmp/systemd/publisher.service" {
		t.Errorf("单元文件路径错误: %s", got)
	}
	if got := target.SitePath(); got != "/tmp/sa/publisher" {
		t.Errorf("站点配置路径错误: %s", got)
	}
	if got := target.SiteLinkPath(); got != "/tmp/se/publisher" {
		t.Errorf("启用链接路径错误: %s", got)
	}
	if got := target.DefaultSiteLink(); got != "/tmp/se/default" {
		t.Errorf("默认站点链接路径错误: %s", got)
	}
}

func TestCollectConfigDefaults(t *testing.T) {
	cfg := AppConfig{}
	cfg.App = validTarget()
	collectConfig(&cfg)

	if cfg.Backup.Dir != "/var/www/publisher_site/backups" {
		t.Errorf("备份目录默认值错误: %s", cfg.Backup.Dir)
	}
	if cfg.Backup.Keep != 10 {
		t.Errorf("备份保留数量默认值错误: %d", cfg.Backup.Keep)
	}
}
