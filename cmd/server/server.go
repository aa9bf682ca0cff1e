package server

import (
	"fmt"
	"strings"

	"publisher-keeper/cmd/root"
	"publisher-keeper/controllers"
	"publisher-keeper/internal/config"
	"publisher-keeper/internal/env"
	"publisher-keeper/internal/logger"
	"publisher-keeper/internal/middleware"
	"publisher-keeper/services"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "启动HTTP管理服务",
	Long:  `以守护进程方式运行，通过HTTP接口提供配置状态查询、配置流程触发、数据库备份和prometheus指标`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := startServer(); err != nil {
			logger.Fatal(err)
		}
	},
}

func startServer() error {
	env.Daemon = true

	if config.Config.Server.Mode != "" {
		gin.SetMode(config.Config.Server.Mode)
	}

	router := gin.Default()
	router.Use(middleware.MetricsMiddleware())

	prov := services.GetProvisioner()
	backup := services.GetBackupService()

	// 注册API路由
	apiController := controllers.NewAPIController(prov)
	apiController.RegisterRoutes(router)
	provController := controllers.NewProvisionController(prov)
	provController.RegisterRoutes(router)
	backupController := controllers.NewBackupController(backup)
	backupController.RegisterRoutes(router)

	addr := config.Config.Server.Address
	if idx := strings.LastIndex(addr, ":"); idx >= 0 {
		fmt.Sscanf(addr[idx+1:], "%d", &env.ListenPort)
	}

	logger.Infof("management server listening on %s", addr)
	return router.Run(addr)
}

func init() {
	root.RootCmd.AddCommand(serverCmd)

	serverCmd.Example = `  # Run the management daemon
  publisher-keeper server`
}
