package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"publisher-keeper/internal/models"
)

/**
 * Create the application virtualenv and install dependencies
 * @description
 * - An existing virtualenv is reused, never recreated, so repeated runs
 *   cannot corrupt an environment the running service depends on
 * - Installs the pinned requirements plus gunicorn, the process server the
 *   generated unit starts
 */
func (p *Provisioner) runAppEnv(ctx context.Context) error {
	if _, err := os.Stat(p.target.Dir); err != nil {
		return fmt.Errorf("application directory %s not found: %w", p.target.Dir, err)
	}

	venvPython := filepath.Join(p.target.VenvDir(), "bin", "python")
	if _, err := os.Stat(venvPython); err != nil {
		// 虚拟环境不存在才创建
		if _, err := p.run(ctx, "python3", "-m", "venv", p.target.VenvDir()); err != nil {
			return fmt.Errorf("virtualenv creation failed: %w", err)
		}
	}

	venvPip := filepath.Join(p.target.VenvDir(), "bin", "pip")
	requirements := filepath.Join(p.target.Dir, "requirements.txt")
	if _, err := p.run(ctx, venvPip, "install", "-r", requirements); err != nil {
		return fmt.Errorf("requirements installation failed: %w", err)
	}
	if _, err := p.run(ctx, venvPip, "install", "gunicorn"); err != nil {
		return fmt.Errorf("gunicorn installation failed: %w", err)
	}
	return nil
}

func (p *Provisioner) probeAppEnv(ctx context.Context) models.StepReport {
	gunicorn := filepath.Join(p.target.VenvDir(), "bin", "gunicorn")
	if _, err := os.Stat(gunicorn); err != nil {
		return models.StepReport{Status: models.StatusDiverged, Detail: "virtualenv or gunicorn missing"}
	}
	return models.StepReport{Status: models.StatusConverged, Detail: "virtualenv ready"}
}
