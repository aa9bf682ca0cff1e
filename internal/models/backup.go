package models

import "time"

/**
 * Information about one database backup file
 * @property {string} name - Backup file name (publisher_backup_<timestamp>.db)
 * @property {string} path - Absolute path of the backup file
 * @property {int64} size - File size in bytes
 * @property {time.Time} modTime - Backup creation time
 */
type BackupInfo struct {
	Name    string    `json:"name"`
	Path    string    `json:"path"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"modTime"`
}

type BackupCreateResponse struct {
	Created string   `json:"created,omitempty"`
	Pruned  []string `json:"pruned,omitempty"`
	Skipped bool     `json:"skipped"`
	Reason  string   `json:"reason,omitempty"`
}

type BackupListResponse struct {
	Backups []BackupInfo `json:"backups"`
	Total   int          `json:"total"`
}
