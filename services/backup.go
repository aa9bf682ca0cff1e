package services

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"publisher-keeper/internal/config"
	"publisher-keeper/internal/logger"
	"publisher-keeper/internal/models"
)

const backupTimeLayout = "2006-01-02_15-04-05"

/**
 * BackupService copies the application database aside and prunes old copies
 * @description
 * - Backups land in the configured backup directory as
 *   <app>_backup_<timestamp>.db
 * - Pruning keeps the newest N backups by modification time
 */
type BackupService struct {
	target *config.AppTarget
	cfg    *config.BackupConfig
}

var (
	backupService     *BackupService
	backupServiceOnce sync.Once
)

// GetBackupService 返回全局BackupService实例
func GetBackupService() *BackupService {
	backupServiceOnce.Do(func() {
		backupService = NewBackupService(&config.Config.App, &config.Config.Backup)
	})
	return backupService
}

func NewBackupService(target *config.AppTarget, cfg *config.BackupConfig) *BackupService {
	return &BackupService{target: target, cfg: cfg}
}

/**
 * Create a database backup and prune old ones
 * @returns {*models.BackupCreateResponse} Created file name and pruned file names
 * @returns {error} Returns error if the copy or prune fails
 * @description
 * - A host whose database does not exist yet is not an error: the response
 *   reports the backup as skipped
 */
func (s *BackupService) Create() (*models.BackupCreateResponse, error) {
	dbPath := s.target.DatabasePath()
	if _, err := os.Stat(dbPath); err != nil {
		// 数据库还不存在，说明还没完成初始化，不算错误
		return &models.BackupCreateResponse{Skipped: true, Reason: "database not found"}, nil
	}

	if err := os.MkdirAll(s.cfg.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}

	name := fmt.Sprintf("%s_backup_%s.db", s.target.Name, time.Now().Format(backupTimeLayout))
	dest := filepath.Join(s.cfg.Dir, name)
	if err := copyFile(dbPath, dest); err != nil {
		return nil, fmt.Errorf("backup copy failed: %w", err)
	}
	logger.Infof("backup created: %s", name)

	pruned, err := s.Prune()
	if err != nil {
		return nil, err
	}
	return &models.BackupCreateResponse{Created: name, Pruned: pruned}, nil
}

/**
 * List existing backups, newest first
 * @returns {[]models.BackupInfo} Backup files with size and modification time
 * @returns {error} Returns error if the backup directory cannot be read
 */
func (s *BackupService) List() ([]models.BackupInfo, error) {
	entries, err := os.ReadDir(s.cfg.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var backups []models.BackupInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".db") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, models.BackupInfo{
			Name:    entry.Name(),
			Path:    filepath.Join(s.cfg.Dir, entry.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].ModTime.After(backups[j].ModTime)
	})
	return backups, nil
}

/**
 * Delete backups beyond the configured retention count
 * @returns {[]string} Names of the deleted backup files
 * @returns {error} Returns error if listing or deletion fails
 */
func (s *BackupService) Prune() ([]string, error) {
	backups, err := s.List()
	if err != nil {
		return nil, err
	}
	if len(backups) <= s.cfg.Keep {
		return nil, nil
	}

	var pruned []string
	for _, old := range backups[s.cfg.Keep:] {
		if err := os.Remove(old.Path); err != nil {
			return pruned, fmt.Errorf("failed to remove old backup %s: %w", old.Name, err)
		}
		logger.Infof("old backup removed: %s", old.Name)
		pruned = append(pruned, old.Name)
	}
	return pruned, nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
