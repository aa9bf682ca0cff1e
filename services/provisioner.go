package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"publisher-keeper/internal/config"
	"publisher-keeper/internal/logger"
	"publisher-keeper/internal/models"
	"publisher-keeper/internal/utils"
)

/**
 * Step is one idempotent provisioning action
 * @property {string} Name - Short identifier, usable as a CLI argument and API path segment
 * @property {string} Title - Human readable description shown in logs and status output
 * @property {func} Run - Brings the host to the step's desired state; safe to repeat
 * @property {func} Probe - Checks whether the host already matches the desired state
 */
type Step struct {
	Name  string
	Title string
	Run   func(ctx context.Context) error
	Probe func(ctx context.Context) models.StepReport
}

/**
 * Provisioner runs the ordered provisioning procedure against the local host
 * @description
 * - Steps execute strictly in order with stop-on-first-error semantics
 * - There is no rollback; every step is idempotent and the documented recovery
 *   path is re-running the whole procedure
 * - Only one run may be in flight at a time
 */
type Provisioner struct {
	target *config.AppTarget
	run    utils.CommandRunner
	steps  []Step

	mu      sync.Mutex
	running bool
}

var (
	provisioner     *Provisioner
	provisionerOnce sync.Once
)

// GetProvisioner 返回全局Provisioner实例
func GetProvisioner() *Provisioner {
	provisionerOnce.Do(func() {
		provisioner = NewProvisioner(&config.Config.App)
	})
	return provisioner
}

func NewProvisioner(target *config.AppTarget) *Provisioner {
	p := &Provisioner{
		target: target,
		run:    utils.RunCommand,
	}
	p.steps = []Step{
		{Name: "system", Title: "Refresh package index and upgrade packages", Run: p.runSystemUpdate, Probe: p.probeSystemUpdate},
		{Name: "packages", Title: "Install runtime, proxy, certbot and firewall packages", Run: p.runPackageInstall, Probe: p.probePackageInstall},
		{Name: "firewall", Title: "Allow OpenSSH and Nginx Full, enable ufw", Run: p.runFirewall, Probe: p.probeFirewall},
		{Name: "appenv", Title: "Create virtualenv and install pinned dependencies", Run: p.runAppEnv, Probe: p.probeAppEnv},
		{Name: "unit", Title: "Render systemd unit, enable and start the service", Run: p.runUnit, Probe: p.probeUnit},
		{Name: "proxy", Title: "Render nginx site, validate and restart the proxy", Run: p.runProxy, Probe: p.probeProxy},
		{Name: "database", Title: "Create schema and seed initial data", Run: p.runDatabase, Probe: p.probeDatabase},
		{Name: "ownership", Title: "Re-apply application directory ownership", Run: p.runOwnership, Probe: p.probeOwnership},
	}
	return p
}

// Steps 返回所有步骤，CLI用它生成子命令
func (p *Provisioner) Steps() []Step {
	return p.steps
}

// SetRunner 替换外部命令执行器，测试时注入假实现
func (p *Provisioner) SetRunner(run utils.CommandRunner) {
	p.run = run
}

func (p *Provisioner) findStep(name string) *Step {
	for i := range p.steps {
		if p.steps[i].Name == name {
			return &p.steps[i]
		}
	}
	return nil
}

/**
 * Run the full provisioning procedure
 * @param {context.Context} ctx - Cancelling the context kills the in-flight command and aborts
 * @returns {*models.ProvisionResponse} Step results up to the failure point, access URLs on success
 * @returns {error} The first step error; the host keeps whatever state completed steps produced
 * @description
 * - Pre-flight validates the target and probes the application port for collisions
 * - Steps run strictly in order; a failing step aborts the whole run
 * - Returns an error without touching the host when another run is in flight
 */
func (p *Provisioner) RunAll(ctx context.Context) (*models.ProvisionResponse, error) {
	if !p.tryAcquire() {
		return nil, fmt.Errorf("another provisioning run is in flight")
	}
	defer p.release()

	resp := &models.ProvisionResponse{Timestamp: time.Now()}

	if err := p.preflight(ctx); err != nil {
		resp.Error = err.Error()
		return resp, err
	}

	for _, step := range p.steps {
		logger.Infof("provision step %s: %s", step.Name, step.Title)
		start := time.Now()
		err := step.Run(ctx)
		seconds := time.Since(start).Seconds()
		RecordStepResult(step.Name, seconds, err)
		if err != nil {
			resp.FailedStep = step.Name
			resp.Error = err.Error()
			logger.Errorf("provision step %s failed after %.1fs: %v", step.Name, seconds, err)
			return resp, fmt.Errorf("step %s: %w", step.Name, err)
		}
		resp.Completed = append(resp.Completed, models.StepResult{Name: step.Name, Seconds: seconds})
		logger.Infof("provision step %s done in %.1fs", step.Name, seconds)
	}

	resp.Success = true
	resp.AccessURLs = p.accessURLs(ctx)
	return resp, nil
}

/**
 * Run a single named provisioning step
 * @param {context.Context} ctx - Context for cancellation
 * @param {string} name - Step identifier, see Steps()
 * @returns {error} Returns error if the step is unknown or its run fails
 */
func (p *Provisioner) RunStep(ctx context.Context, name string) error {
	step := p.findStep(name)
	if step == nil {
		return fmt.Errorf("unknown provisioning step: %s", name)
	}
	if !p.tryAcquire() {
		return fmt.Errorf("another provisioning run is in flight")
	}
	defer p.release()

	if err := p.target.Validate(); err != nil {
		return err
	}

	logger.Infof("provision step %s: %s", step.Name, step.Title)
	start := time.Now()
	err := step.Run(ctx)
	RecordStepResult(step.Name, time.Since(start).Seconds(), err)
	if err != nil {
		return fmt.Errorf("step %s: %w", step.Name, err)
	}
	return nil
}

/**
 * Report per-step convergence without changing anything
 * @param {context.Context} ctx - Context for cancellation
 * @returns {*models.StatusResponse} One report per step plus an overall verdict
 */
func (p *Provisioner) Status(ctx context.Context) *models.StatusResponse {
	resp := &models.StatusResponse{
		Timestamp: time.Now(),
		AppName:   p.target.Name,
	}
	for _, step := range p.steps {
		report := step.Probe(ctx)
		report.Name = step.Name
		report.Title = step.Title
		if report.Status == models.StatusConverged {
			resp.ConvergedSteps++
		}
		resp.Steps = append(resp.Steps, report)
	}
	resp.TotalSteps = len(resp.Steps)
	resp.Converged = resp.ConvergedSteps == resp.TotalSteps
	return resp
}

// preflight 在第一步执行前校验配置和端口占用
func (p *Provisioner) preflight(ctx context.Context) error {
	if err := p.target.Validate(); err != nil {
		return err
	}
	// 端口已被占用时，如果占用者就是本应用的单元则属于重复运行，放行
	if !utils.CheckPortAvailable(p.target.Port) {
		if out, err := p.run(ctx, "systemctl", "is-active", p.target.Name); err != nil || strings.TrimSpace(out) != "active" {
			return fmt.Errorf("port %d is already in use by another service", p.target.Port)
		}
	}
	return nil
}

// accessURLs 生成完成横幅里展示的访问地址
func (p *Provisioner) accessURLs(ctx context.Context) []string {
	host := p.target.Domain
	if host == "_" {
		// 通配站点用主机地址代替
		out, err := p.run(ctx, "hostname", "-I")
		if err == nil {
			if fields := strings.Fields(out); len(fields) > 0 {
				host = fields[0]
			}
		}
		if host == "_" {
			host = "localhost"
		}
	}
	return []string{
		fmt.Sprintf("http://%s/", host),
		fmt.Sprintf("http://%s/admin", host),
	}
}

func (p *Provisioner) tryAcquire() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return false
	}
	p.running = true
	return true
}

func (p *Provisioner) release() {
	p.mu.Lock()
	p.running = false
	p.mu.Unlock()
}
