package provision

import (
	"context"
	"fmt"
	"os"
	"strings"

	"publisher-keeper/cmd/root"
	"publisher-keeper/internal/models"
	"publisher-keeper/services"

	"github.com/spf13/cobra"
)

var provisionCmd = &cobra.Command{
	Use:   "provision [step]",
	Short: "Provision this host for the publisher application",
	Long: `Run the full provisioning procedure, or a single named step.
Steps run in strict order with stop-on-first-error semantics; every step is
idempotent, so the recovery path after a failure is simply re-running.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 1 {
			runSingleStep(context.Background(), args[0])
			return
		}
		runAll(context.Background())
	},
}

/**
 * Run the full provisioning procedure and print the completion banner
 * @param {context.Context} ctx - Context for cancellation
 * @description
 * - Aborts the process with a non-zero status on the first failing step
 * - On success prints access URLs and the default admin credentials seeded
 *   by the application's init routine
 */
func runAll(ctx context.Context) {
	prov := services.GetProvisioner()
	fmt.Println("Starting provisioning...")
	resp, err := prov.RunAll(ctx)
	if err != nil {
		if resp != nil && resp.FailedStep != "" {
			fmt.Printf("Provisioning aborted at step '%s': %v\n", resp.FailedStep, err)
			fmt.Println("Fix the reported problem and re-run 'publisher-keeper provision'.")
		} else {
			fmt.Printf("Provisioning failed: %v\n", err)
		}
		os.Exit(1)
	}

	printBanner(resp)
}

func runSingleStep(ctx context.Context, name string) {
	prov := services.GetProvisioner()
	if err := prov.RunStep(ctx, name); err != nil {
		fmt.Println(err)
		fmt.Printf("Available steps: %s\n", strings.Join(stepNames(prov), ", "))
		os.Exit(1)
	}
	fmt.Printf("Step '%s' completed successfully\n", name)
}

func stepNames(prov *services.Provisioner) []string {
	var names []string
	for _, step := range prov.Steps() {
		names = append(names, step.Name)
	}
	return names
}

func printBanner(resp *models.ProvisionResponse) {
	fmt.Println("==============================================")
	fmt.Println(" Provisioning complete!")
	for _, url := range resp.AccessURLs {
		fmt.Printf(" %s\n", url)
	}
	// 默认管理员账号由应用的种子数据创建，首次登录后应立即修改
	fmt.Println(" Admin login: admin / admin2026")
	fmt.Println("==============================================")
}

func init() {
	root.RootCmd.AddCommand(provisionCmd)

	provisionCmd.Example = `  # Run the whole procedure
  publisher-keeper provision

  # Re-run only the reverse proxy step
  publisher-keeper provision proxy`
}
