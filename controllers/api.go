package controllers

import (
	"net/http"

	"publisher-keeper/internal/config"
	"publisher-keeper/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type APIController struct {
	prov *services.Provisioner
}

/**
 * Create new API controller instance
 * @param {*services.Provisioner} prov - Provisioner the status endpoint reports on
 * @returns {*APIController} New API controller instance
 */
func NewAPIController(prov *services.Provisioner) *APIController {
	return &APIController{
		prov: prov,
	}
}

/**
 * Register general API routes to Gin engine
 * @param {*gin.Engine} r - Gin router instance
 * @description
 * - Registers routes for:
 *   - Liveness probe and prometheus metrics
 *   - Convergence status report
 *   - Configuration reload
 */
func (a *APIController) RegisterRoutes(r *gin.Engine) {
	r.GET("/healthz", a.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/publisher/api/v1/status", a.Status)
	r.POST("/publisher/api/v1/reload", a.ReloadConfig)
}

// @Summary 健康检查
// @Description 返回守护进程存活状态
// @Tags System
// @Success 200 {object} map[string]interface{}
// @Router /healthz [get]
func (a *APIController) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary 查询收敛状态
// @Description 逐步探测主机状态是否符合期望状态，返回每一步的收敛报告
// @Tags Provision
// @Produce json
// @Success 200 {object} models.StatusResponse
// @Router /publisher/api/v1/status [get]
func (a *APIController) Status(c *gin.Context) {
	c.JSON(http.StatusOK, a.prov.Status(c.Request.Context()))
}

// @Summary 重新加载配置
// @Description 重新加载应用配置文件
// @Tags Config
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} models.ErrorResponse
// @Router /publisher/api/v1/reload [post]
func (a *APIController) ReloadConfig(c *gin.Context) {
	if err := config.ReloadConfig(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":  "config.reload_failed",
			"error": "Failed to reload configuration: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Configuration reloaded successfully",
	})
}
