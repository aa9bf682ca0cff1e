package services

import (
	"context"
	"fmt"
	"os"
	"strings"

	"publisher-keeper/internal/models"
)

/**
 * Render and activate the systemd unit for the application
 * @description
 * - A fresh SecretValue is generated on every run and only lives inside the
 *   rendered unit text; it is never logged or persisted elsewhere
 * - The unit file is overwritten unconditionally, then ownership of the
 *   application directory is handed to the runtime user before the service
 *   starts
 * - enable --now makes the unit survive reboots and starts it immediately
 */
func (p *Provisioner) runUnit(ctx context.Context) error {
	secret, err := NewSecretValue()
	if err != nil {
		return err
	}
	text, err := RenderUnit(p.target, secret)
	if err != nil {
		return err
	}

	if err := os.WriteFile(p.target.UnitPath(), []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write unit file %s: %w", p.target.UnitPath(), err)
	}

	owner := p.target.User + ":" + p.target.User
	if _, err := p.run(ctx, "chown", "-R", owner, p.target.Dir); err != nil {
		return fmt.Errorf("ownership transfer failed: %w", err)
	}

	if _, err := p.run(ctx, "systemctl", "daemon-reload"); err != nil {
		return fmt.Errorf("daemon-reload failed: %w", err)
	}
	if _, err := p.run(ctx, "systemctl", "enable", "--now", p.target.Name); err != nil {
		return fmt.Errorf("failed to enable service %s: %w", p.target.Name, err)
	}
	return nil
}

func (p *Provisioner) probeUnit(ctx context.Context) models.StepReport {
	if _, err := os.Stat(p.target.UnitPath()); err != nil {
		return models.StepReport{Status: models.StatusDiverged, Detail: "unit file missing"}
	}
	out, err := p.run(ctx, "systemctl", "is-active", p.target.Name)
	if err != nil || strings.TrimSpace(out) != "active" {
		return models.StepReport{Status: models.StatusDiverged, Detail: "unit not active"}
	}
	return models.StepReport{Status: models.StatusConverged, Detail: "unit active"}
}
