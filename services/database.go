package services

import (
	"context"
	"fmt"
	"os"
	"strings"

	"publisher-keeper/internal/models"
	"publisher-keeper/internal/utils"
)

// 在应用自己的运行环境里执行建表和灌入种子数据
// create_all对已存在的表是空操作；重复灌种子数据由应用侧的init_data负责容忍
const dbInitSnippet = `from app import app, db, init_data; app.app_context().push(); db.create_all(); init_data()`

/**
 * Initialize the application database inside its own runtime environment
 * @description
 * - Invokes the application's schema creation and seed routine through the
 *   virtualenv python, from the application directory
 * - Safe to re-run: schema creation is a no-op when tables exist, and seed
 *   insertion tolerating existing rows is the application's obligation
 */
func (p *Provisioner) runDatabase(ctx context.Context) error {
	command, args, err := utils.GetCommandLine("sh", []string{
		"-c",
		`cd {{.Dir}} && {{.Dir}}/venv/bin/python -c "` + dbInitSnippet + `"`,
	}, p.target)
	if err != nil {
		return err
	}
	if _, err := p.run(ctx, command, args...); err != nil {
		return fmt.Errorf("database initialization failed: %w", err)
	}
	return nil
}

func (p *Provisioner) probeDatabase(ctx context.Context) models.StepReport {
	if _, err := os.Stat(p.target.DatabasePath()); err != nil {
		return models.StepReport{Status: models.StatusDiverged, Detail: "database file missing"}
	}
	return models.StepReport{Status: models.StatusConverged, Detail: "database initialized"}
}

/**
 * Re-apply application directory ownership
 * @description
 * - Database initialization runs as the provisioning operator and may have
 *   created database files under a different identity; the final chown makes
 *   the whole tree writable by the runtime user again
 */
func (p *Provisioner) runOwnership(ctx context.Context) error {
	owner := p.target.User + ":" + p.target.User
	if _, err := p.run(ctx, "chown", "-R", owner, p.target.Dir); err != nil {
		return fmt.Errorf("ownership finalization failed: %w", err)
	}
	return nil
}

func (p *Provisioner) probeOwnership(ctx context.Context) models.StepReport {
	out, err := p.run(ctx, "stat", "-c", "%U", p.target.Dir)
	if err != nil {
		return models.StepReport{Status: models.StatusUnknown, Detail: "cannot stat application directory"}
	}
	if strings.TrimSpace(out) != p.target.User {
		return models.StepReport{Status: models.StatusDiverged, Detail: "owned by " + strings.TrimSpace(out)}
	}
	return models.StepReport{Status: models.StatusConverged, Detail: "owned by " + p.target.User}
}
