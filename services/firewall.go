package services

import (
	"context"
	"fmt"
	"strings"

	"publisher-keeper/internal/models"
)

/**
 * Configure the firewall: SSH first, then web traffic, then enable
 * @description
 * - The OpenSSH rule is applied strictly before enabling so the current
 *   administrative session can never be locked out
 * - "Nginx Full" covers both the plaintext and the TLS port
 * - ufw treats repeated allow rules as no-ops, so the step is idempotent
 */
func (p *Provisioner) runFirewall(ctx context.Context) error {
	if _, err := p.run(ctx, "ufw", "allow", "OpenSSH"); err != nil {
		return fmt.Errorf("failed to allow OpenSSH: %w", err)
	}
	if _, err := p.run(ctx, "ufw", "allow", "Nginx Full"); err != nil {
		return fmt.Errorf("failed to allow Nginx Full: %w", err)
	}
	if _, err := p.run(ctx, "ufw", "--force", "enable"); err != nil {
		return fmt.Errorf("failed to enable firewall: %w", err)
	}
	return nil
}

func (p *Provisioner) probeFirewall(ctx context.Context) models.StepReport {
	out, err := p.run(ctx, "ufw", "status")
	if err != nil {
		return models.StepReport{Status: models.StatusUnknown, Detail: "ufw status unavailable"}
	}
	if !strings.Contains(out, "Status: active") {
		return models.StepReport{Status: models.StatusDiverged, Detail: "firewall inactive"}
	}
	for _, rule := range []string{"OpenSSH", "Nginx Full"} {
		if !strings.Contains(out, rule) {
			return models.StepReport{Status: models.StatusDiverged, Detail: "missing rule: " + rule}
		}
	}
	return models.StepReport{Status: models.StatusConverged, Detail: "firewall active with OpenSSH and Nginx Full"}
}
