package backup

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"publisher-keeper/cmd/root"
	"publisher-keeper/internal/models"
	"publisher-keeper/internal/rpc"
	"publisher-keeper/services"

	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Manage database backups",
	Long:  `Create, list and prune backups of the application database`,
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a database backup",
	Run: func(cmd *cobra.Command, args []string) {
		createBackup()
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List existing backups",
	Run: func(cmd *cobra.Command, args []string) {
		listBackups()
	},
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete backups beyond the retention count",
	Run: func(cmd *cobra.Command, args []string) {
		pruneBackups()
	},
}

/**
 * Create a database backup via the daemon or locally
 * @description
 * - Tries the management daemon first so a running server keeps its own
 *   request metrics accurate, falls back to copying the file directly
 * - A missing database is reported as a skip, not an error
 */
func createBackup() {
	// 尝试通过守护进程执行备份
	rpcClient := rpc.NewHTTPClient(nil)
	defer rpcClient.Close()

	if resp, err := rpcClient.Post("/publisher/api/v1/backups", nil); err == nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
		var createResp models.BackupCreateResponse
		if err := json.Unmarshal(resp.Body, &createResp); err == nil {
			displayCreateResult(&createResp)
			return
		}
	}

	// 守护进程不可达，本地执行
	createResp, err := services.GetBackupService().Create()
	if err != nil {
		fmt.Printf("Backup failed: %v\n", err)
		os.Exit(1)
	}
	displayCreateResult(createResp)
}

func displayCreateResult(resp *models.BackupCreateResponse) {
	if resp.Skipped {
		fmt.Printf("Backup skipped: %s\n", resp.Reason)
		return
	}
	fmt.Printf("Backup created: %s\n", resp.Created)
	for _, name := range resp.Pruned {
		fmt.Printf("Old backup removed: %s\n", name)
	}
}

func listBackups() {
	backups, err := services.GetBackupService().List()
	if err != nil {
		fmt.Printf("Failed to list backups: %v\n", err)
		os.Exit(1)
	}
	if len(backups) == 0 {
		fmt.Println("No backups found")
		return
	}
	for _, b := range backups {
		age := time.Since(b.ModTime).Round(time.Minute)
		fmt.Printf("  %-45s %8d bytes  %s ago\n", b.Name, b.Size, age)
	}
	fmt.Printf("%d backup(s)\n", len(backups))
}

func pruneBackups() {
	pruned, err := services.GetBackupService().Prune()
	if err != nil {
		fmt.Printf("Prune failed: %v\n", err)
		os.Exit(1)
	}
	if len(pruned) == 0 {
		fmt.Println("Nothing to prune")
		return
	}
	for _, name := range pruned {
		fmt.Printf("Old backup removed: %s\n", name)
	}
}

func init() {
	backupCmd.AddCommand(createCmd)
	backupCmd.AddCommand(listCmd)
	backupCmd.AddCommand(pruneCmd)
	root.RootCmd.AddCommand(backupCmd)

	backupCmd.Example = `  # Back up the database and prune old copies
  publisher-keeper backup create

  # Show existing backups
  publisher-keeper backup list`
}
