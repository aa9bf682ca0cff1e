package services

import (
	"context"
	"fmt"
	"os"
	"strings"

	"publisher-keeper/internal/models"
)

/**
 * Render and activate the nginx site for the application
 * @description
 * - Writes sites-available/<app>, links it into sites-enabled and removes the
 *   distribution default site
 * - `nginx -t` gates the restart: an invalid rendered site aborts the step
 *   before nginx reloads, so a previously working proxy keeps serving
 */
func (p *Provisioner) runProxy(ctx context.Context) error {
	text, err := RenderProxySite(p.target)
	if err != nil {
		return err
	}

	if err := os.WriteFile(p.target.SitePath(), []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write site file %s: %w", p.target.SitePath(), err)
	}

	// 重建启用链接，等价于ln -sf
	if err := os.Remove(p.target.SiteLinkPath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove old site link: %w", err)
	}
	if err := os.Symlink(p.target.SitePath(), p.target.SiteLinkPath()); err != nil {
		return fmt.Errorf("failed to enable site: %w", err)
	}

	if err := os.Remove(p.target.DefaultSiteLink()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove default site: %w", err)
	}

	// 配置语法校验失败时绝不重启，保住当前还在服务的配置
	if _, err := p.run(ctx, "nginx", "-t"); err != nil {
		return fmt.Errorf("nginx configuration validation failed: %w", err)
	}

	if _, err := p.run(ctx, "systemctl", "restart", "nginx"); err != nil {
		return fmt.Errorf("nginx restart failed: %w", err)
	}
	return nil
}

func (p *Provisioner) probeProxy(ctx context.Context) models.StepReport {
	if _, err := os.Lstat(p.target.SiteLinkPath()); err != nil {
		return models.StepReport{Status: models.StatusDiverged, Detail: "site not enabled"}
	}
	out, err := p.run(ctx, "systemctl", "is-active", "nginx")
	if err != nil || strings.TrimSpace(out) != "active" {
		return models.StepReport{Status: models.StatusDiverged, Detail: "nginx not active"}
	}
	return models.StepReport{Status: models.StatusConverged, Detail: "site enabled, nginx active"}
}
