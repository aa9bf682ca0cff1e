package controllers

import (
	"net/http"
	"strings"

	"publisher-keeper/services"

	"github.com/gin-gonic/gin"
)

type ProvisionController struct {
	prov *services.Provisioner
}

/**
 * Create new Provision controller instance
 * @param {*services.Provisioner} prov - Provisioner executing the steps
 * @returns {*ProvisionController} New Provision controller instance
 */
func NewProvisionController(prov *services.Provisioner) *ProvisionController {
	return &ProvisionController{
		prov: prov,
	}
}

/**
 * Register provisioning API routes to Gin engine
 * @param {*gin.Engine} r - Gin router instance
 */
func (p *ProvisionController) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/publisher/api/v1")
	api.POST("/provision", p.RunAll)
	api.POST("/provision/:step", p.RunStep)
}

// @Summary 执行完整的服务器配置流程
// @Description 按顺序执行全部配置步骤，任何一步失败立即中止，不做回滚，重新运行即可恢复
// @Tags Provision
// @Produce json
// @Success 200 {object} models.ProvisionResponse
// @Failure 409 {object} models.ErrorResponse "已有配置流程在执行"
// @Failure 500 {object} models.ProvisionResponse "某一步执行失败"
// @Router /publisher/api/v1/provision [post]
func (p *ProvisionController) RunAll(c *gin.Context) {
	resp, err := p.prov.RunAll(c.Request.Context())
	if err != nil {
		if resp == nil {
			// 已有流程在执行
			c.JSON(http.StatusConflict, gin.H{
				"code":  "provision.in_flight",
				"error": err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary 执行单个配置步骤
// @Description 只执行指定名称的配置步骤，步骤本身幂等
// @Tags Provision
// @Param step path string true "步骤名称" Enums(system, packages, firewall, appenv, unit, proxy, database, ownership)
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} models.ErrorResponse "步骤名称不存在"
// @Failure 500 {object} models.ErrorResponse
// @Router /publisher/api/v1/provision/{step} [post]
func (p *ProvisionController) RunStep(c *gin.Context) {
	name := c.Param("step")
	if err := p.prov.RunStep(c.Request.Context(), name); err != nil {
		status := http.StatusInternalServerError
		code := "provision.step_failed"
		if strings.Contains(err.Error(), "unknown provisioning step") {
			status = http.StatusBadRequest
			code = "provision.unknown_step"
		}
		c.JSON(status, gin.H{
			"code":  code,
			"error": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"step":   name,
	})
}
