package root

import (
	"github.com/spf13/cobra"
)

var RootCmd = &cobra.Command{
	Use:   "publisher-keeper",
	Short: "publisher站点服务器配置管理器",
	Long:  `publisher-keeper负责把一台空白Ubuntu服务器配置成运行publisher站点的状态：安装依赖、配置防火墙、生成systemd单元和nginx站点、初始化数据库，并提供备份和状态巡检`,
}
