package controllers

import (
	"net/http"

	"publisher-keeper/internal/models"
	"publisher-keeper/services"

	"github.com/gin-gonic/gin"
)

type BackupController struct {
	backup *services.BackupService
}

/**
 * Create new Backup controller instance
 * @param {*services.BackupService} backup - Backup service instance
 * @returns {*BackupController} New Backup controller instance
 */
func NewBackupController(backup *services.BackupService) *BackupController {
	return &BackupController{
		backup: backup,
	}
}

/**
 * Register backup API routes to Gin engine
 * @param {*gin.Engine} r - Gin router instance
 */
func (b *BackupController) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/publisher/api/v1")
	api.GET("/backups", b.ListBackups)
	api.POST("/backups", b.CreateBackup)
}

// @Summary 列出数据库备份
// @Description 按时间倒序列出备份目录下的全部备份文件
// @Tags Backup
// @Produce json
// @Success 200 {object} models.BackupListResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /publisher/api/v1/backups [get]
func (b *BackupController) ListBackups(c *gin.Context) {
	backups, err := b.backup.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":  "backup.list_failed",
			"error": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, models.BackupListResponse{
		Backups: backups,
		Total:   len(backups),
	})
}

// @Summary 创建数据库备份
// @Description 备份应用数据库并清理超出保留数量的旧备份
// @Tags Backup
// @Produce json
// @Success 200 {object} models.BackupCreateResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /publisher/api/v1/backups [post]
func (b *BackupController) CreateBackup(c *gin.Context) {
	resp, err := b.backup.Create()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":  "backup.create_failed",
			"error": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, resp)
}
