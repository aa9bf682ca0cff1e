package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"publisher-keeper/internal/config"
)

func newTestBackupService(t *testing.T) (*BackupService, *config.AppTarget) {
	t.Helper()
	base := t.TempDir()
	target := &config.AppTarget{
		Name: "publisher",
		Dir:  filepath.Join(base, "app"),
	}
	if err := os.MkdirAll(filepath.Join(target.Dir, "instance"), 0755); err != nil {
		t.Fatalf("创建测试目录失败: %v", err)
	}
	cfg := &config.BackupConfig{
		Dir:  filepath.Join(base, "backups"),
		Keep: 10,
	}
	return NewBackupService(target, cfg), target
}

/**
 * TestBackupCreate 测试备份创建
 * @description
 * - 备份文件名带时间戳前缀
 * - 备份内容和原数据库一致
 */
func TestBackupCreate(t *testing.T) {
	svc, target := newTestBackupService(t)

	content := []byte("sqlite format 3\x00 test payload")
	if err := os.WriteFile(target.DatabasePath(), content, 0644); err != nil {
		t.Fatalf("写入测试数据库失败: %v", err)
	}

	resp, err := svc.Create()
	if err != nil {
		t.Fatalf("创建备份失败: %v", err)
	}
	if resp.Skipped {
		t.Fatal("数据库存在时不应跳过备份")
	}
	if !strings.HasPrefix(resp.Created, "publisher_backup_") || !strings.HasSuffix(resp.Created, ".db") {
		t.Errorf("备份文件名格式错误: %s", resp.Created)
	}

	copied, err := os.ReadFile(filepath.Join(svc.cfg.Dir, resp.Created))
	if err != nil {
		t.Fatalf("读取备份文件失败: %v", err)
	}
	if string(copied) != string(content) {
		t.Error("备份内容与原数据库不一致")
	}
}

func TestBackupCreateSkipsWhenDatabaseMissing(t *testing.T) {
	svc, _ := newTestBackupService(t)

	resp, err := svc.Create()
	if err != nil {
		t.Fatalf("数据库不存在不应报错: %v", err)
	}
	if !resp.Skipped {
		t.Error("数据库不存在时应当跳过备份")
	}
}

/**
 * TestBackupPruneRetention 测试旧备份清理
 * @description
 * - 超出保留数量的旧备份按修改时间从旧到新被删除
 * - 保留的恰好是最新的N份
 */
func TestBackupPruneRetention(t *testing.T) {
	svc, _ := newTestBackupService(t)
	svc.cfg.Keep = 3

	if err := os.MkdirAll(svc.cfg.Dir, 0755); err != nil {
		t.Fatalf("创建备份目录失败: %v", err)
	}

	// 制造5份修改时间递增的备份
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		name := fmt.Sprintf("publisher_backup_2026-08-30_10-00-0%d.db", i)
		path := filepath.Join(svc.cfg.Dir, name)
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatalf("写入备份失败: %v", err)
		}
		mtime := base.Add(time.Duration(i) * time.Minute)
		if err := os.Chtimes(path, mtime, mtime); err != nil {
			t.Fatalf("设置修改时间失败: %v", err)
		}
	}

	pruned, err := svc.Prune()
	if err != nil {
		t.Fatalf("清理失败: %v", err)
	}
	if len(pruned) != 2 {
		t.Fatalf("清理数量错误: 期望=2, 实际=%d", len(pruned))
	}

	remaining, err := svc.List()
	if err != nil {
		t.Fatalf("列出备份失败: %v", err)
	}
	if len(remaining) != 3 {
		t.Errorf("保留数量错误: 期望=3, 实际=%d", len(remaining))
	}
	// 最旧的两份应当被删掉
	for _, b := range remaining {
		if strings.HasSuffix(b.Name, "00.db") || strings.HasSuffix(b.Name, "01.db") {
			t.Errorf("最旧的备份应当被删除: %s", b.Name)
		}
	}
}

func TestBackupListSortsNewestFirst(t *testing.T) {
	svc, _ := newTestBackupService(t)
	if err := os.MkdirAll(svc.cfg.Dir, 0755); err != nil {
		t.Fatalf("创建备份目录失败: %v", err)
	}

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		path := filepath.Join(svc.cfg.Dir, fmt.Sprintf("publisher_backup_%d.db", i))
		os.WriteFile(path, []byte("x"), 0644)
		mtime := base.Add(time.Duration(i) * time.Minute)
		os.Chtimes(path, mtime, mtime)
	}
	// 非备份文件应当被忽略
	os.WriteFile(filepath.Join(svc.cfg.Dir, "notes.txt"), []byte("x"), 0644)

	backups, err := svc.List()
	if err != nil {
		t.Fatalf("列出备份失败: %v", err)
	}
	if len(backups) != 3 {
		t.Fatalf("备份数量错误: 期望=3, 实际=%d", len(backups))
	}
	for i := 1; i < len(backups); i++ {
		if backups[i].ModTime.After(backups[i-1].ModTime) {
			t.Error("备份列表应当按时间倒序排列")
		}
	}
}

func TestBackupListEmptyDirectory(t *testing.T) {
	svc, _ := newTestBackupService(t)

	backups, err := svc.List()
	if err != nil {
		t.Fatalf("备份目录不存在不应报错: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("空目录应当返回空列表: %d", len(backups))
	}
}
