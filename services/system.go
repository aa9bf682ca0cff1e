package services

import (
	"context"
	"fmt"
	"os"
	"strings"

	"publisher-keeper/internal/models"
)

// 所有依赖包：语言运行时、包管理器、虚拟环境、反向代理、证书工具、防火墙
var requiredPackages = []string{
	"python3",
	"python3-pip",
	"python3-venv",
	"nginx",
	"certbot",
	"python3-certbot-nginx",
	"ufw",
}

/**
 * Refresh the package index and upgrade installed packages
 * @description
 * - Failure here is fatal for the whole run: later installs assume a
 *   consistent package index
 */
func (p *Provisioner) runSystemUpdate(ctx context.Context) error {
	if _, err := p.run(ctx, "apt-get", "update"); err != nil {
		return fmt.Errorf("package index refresh failed: %w", err)
	}
	if _, err := p.run(ctx, "apt-get", "upgrade", "-y"); err != nil {
		return fmt.Errorf("package upgrade failed: %w", err)
	}
	return nil
}

func (p *Provisioner) probeSystemUpdate(ctx context.Context) models.StepReport {
	// 包索引存在即认为收敛，刷新本身每次provision都会重跑
	if _, err := os.Stat("/var/lib/apt/lists"); err != nil {
		return models.StepReport{Status: models.StatusDiverged, Detail: "package index never refreshed"}
	}
	return models.StepReport{Status: models.StatusConverged, Detail: "package index present"}
}

// runPackageInstall 安装所有依赖包，apt对已安装的包保持原样
func (p *Provisioner) runPackageInstall(ctx context.Context) error {
	args := append([]string{"install", "-y"}, requiredPackages...)
	if _, err := p.run(ctx, "apt-get", args...); err != nil {
		return fmt.Errorf("dependency installation failed: %w", err)
	}
	return nil
}

func (p *Provisioner) probePackageInstall(ctx context.Context) models.StepReport {
	var missing []string
	for _, pkg := range requiredPackages {
		if _, err := p.run(ctx, "dpkg", "-s", pkg); err != nil {
			missing = append(missing, pkg)
		}
	}
	if len(missing) > 0 {
		return models.StepReport{
			Status: models.StatusDiverged,
			Detail: "missing packages: " + strings.Join(missing, ", "),
		}
	}
	return models.StepReport{Status: models.StatusConverged, Detail: "all packages installed"}
}
