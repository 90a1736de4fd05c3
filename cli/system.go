package cli

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/binhbb2204/Anime-Hub-Group13/cli/config"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

var systemCmd = &cobra.Command{
	Use:   "system",
	Short: "System information",
	Long:  `Display system information and diagnostics.`,
}

var systemInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show system info",
	Long:  `Display detailed system information including OS, architecture, and server status.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("System Information:")
		fmt.Println("-------------------")
		fmt.Printf("OS: %s\n", runtime.GOOS)
		fmt.Printf("Architecture: %s\n", runtime.GOARCH)
		fmt.Printf("Go Version: %s\n", runtime.Version())
		fmt.Printf("CLI Version: %s\n", rootCmd.Version)

		cfg, err := config.Load()
		if err != nil {
			fmt.Println("\nConfiguration: Not initialized")
			return nil
		}
		path, _ := config.GetConfigPath()
		fmt.Println("\nConfiguration:")
		fmt.Printf("  Config Path: %s\n", path)
		fmt.Printf("  Server: %s\n", cfg.ServerURL())
		fmt.Printf("  Theme: %s\n", cfg.UI.Theme)
		if cfg.User.Username != "" {
			fmt.Printf("  Logged in as: %s\n", cfg.User.Username)
		}

		fmt.Println("\nServer Connectivity:")
		client := http.Client{Timeout: 2 * time.Second}
		resp, err := client.Get(cfg.ServerURL() + "/readyz")
		if err != nil {
			fmt.Printf("  Status: ✗ Unreachable (%s)\n", err.Error())
			return nil
		}
		defer resp.Body.Close()

		var ready struct {
			Status string `json:"status"`
			Reason string `json:"reason"`
			Jikan  string `json:"jikan"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&ready); err != nil {
			fmt.Printf("  Status: ⚠ Unexpected response (HTTP %d): %s\n", resp.StatusCode, err.Error())
			return nil
		}
		if resp.StatusCode == http.StatusOK {
			fmt.Printf("  Status: ✓ Online (HTTP %d)\n", resp.StatusCode)
		} else {
			fmt.Printf("  Status: ⚠ Not ready (%s)\n", ready.Reason)
		}
		if ready.Jikan != "" {
			fmt.Printf("  Anime metadata API: %s\n", ready.Jikan)
		}
		return nil
	},
}

func init() {
	systemCmd.AddCommand(systemInfoCmd)
}
