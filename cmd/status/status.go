package status

import (
	"context"
	"encoding/json"
	"fmt"

	"publisher-keeper/cmd/root"
	"publisher-keeper/internal/models"
	"publisher-keeper/internal/rpc"
	"publisher-keeper/services"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report per-step convergence of the host",
	Long:  `Probe every provisioning step and report whether the host still matches its desired state. Asks a running publisher-keeper server first and probes locally when no server answers.`,
	Run: func(cmd *cobra.Command, args []string) {
		showStatus(context.Background())
	},
}

/**
 * Show the convergence status of every provisioning step
 * @param {context.Context} ctx - Context for cancellation
 * @description
 * - Tries the management daemon API first (a long-lived server may already
 *   hold fresher probes and metrics)
 * - Falls back to probing the host directly when the daemon is unreachable
 */
func showStatus(ctx context.Context) {
	// 尝试通过守护进程获取状态
	rpcClient := rpc.NewHTTPClient(nil)
	defer rpcClient.Close()

	resp, err := rpcClient.Get("/publisher/api/v1/status", nil)
	if err == nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
		var statusResp models.StatusResponse
		if err := json.Unmarshal(resp.Body, &statusResp); err == nil {
			displayStatus(&statusResp, "server")
			return
		}
	}

	// 守护进程不可达，本地探测
	statusResp := services.GetProvisioner().Status(ctx)
	displayStatus(statusResp, "local probe")
}

func displayStatus(resp *models.StatusResponse, source string) {
	fmt.Printf("Host status for application '%s' (via %s):\n\n", resp.AppName, source)
	for _, step := range resp.Steps {
		marker := " "
		switch step.Status {
		case models.StatusConverged:
			marker = "+"
		case models.StatusDiverged:
			marker = "-"
		case models.StatusUnknown:
			marker = "?"
		}
		fmt.Printf("  [%s] %-10s %s", marker, step.Name, step.Title)
		if step.Detail != "" {
			fmt.Printf(" (%s)", step.Detail)
		}
		fmt.Println()
	}
	fmt.Printf("\n%d/%d steps converged\n", resp.ConvergedSteps, resp.TotalSteps)
	if !resp.Converged {
		fmt.Println("Run 'publisher-keeper provision' to converge the host.")
	}
}

func init() {
	root.RootCmd.AddCommand(statusCmd)

	statusCmd.Example = `  # Check host convergence
  publisher-keeper status`
}
