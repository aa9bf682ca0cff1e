package models

import "time"

// RunStatus 步骤探测得到的收敛状态
type RunStatus string

const (
	// 主机状态已经符合该步骤的期望状态
	StatusConverged RunStatus = "converged"
	// 主机状态与期望状态不一致，重新执行provision可以修复
	StatusDiverged RunStatus = "diverged"
	// 无法探测，比如systemctl/ufw不存在或者权限不足
	StatusUnknown RunStatus = "unknown"
)

/**
 * Convergence report for a single provisioning step
 * @property {string} name - Step identifier (system/packages/firewall/...)
 * @property {string} title - Human readable step title
 * @property {RunStatus} status - Probe result for the step
 * @property {string} detail - Probe output, e.g. "unit active" or the probe error
 */
type StepReport struct {
	Name   string    `json:"name"`
	Title  string    `json:"title"`
	Status RunStatus `json:"status"`
	Detail string    `json:"detail,omitempty"`
}

type StatusResponse struct {
	Timestamp      time.Time    `json:"timestamp"`
	AppName        string       `json:"appName"`
	Steps          []StepReport `json:"steps"`
	TotalSteps     int          `json:"totalSteps"`
	ConvergedSteps int          `json:"convergedSteps"`
	Converged      bool         `json:"converged"`
}

/**
 * Result of one executed provisioning step
 * @property {string} name - Step identifier
 * @property {string} output - Trailing output of the underlying commands
 * @property {float64} seconds - Wall time the step took
 */
type StepResult struct {
	Name    string  `json:"name"`
	Output  string  `json:"output,omitempty"`
	Seconds float64 `json:"seconds"`
}

type ProvisionResponse struct {
	Timestamp  time.Time    `json:"timestamp"`
	Success    bool         `json:"success"`
	Completed  []StepResult `json:"completed"`
	FailedStep string       `json:"failedStep,omitempty"`
	Error      string       `json:"error,omitempty"`
	AccessURLs []string     `json:"accessUrls,omitempty"`
}
