package cli

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/binhbb2204/Anime-Hub-Group13/cli/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `View and modify AnimeHub CLI configuration.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the current configuration values.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			printError("Configuration not initialized")
			fmt.Println("Run: animehub init")
			return err
		}

		fmt.Println("Current Configuration:")
		fmt.Println("----------------------")

		v := reflect.ValueOf(*cfg)
		t := v.Type()

		for i := 0; i < v.NumField(); i++ {
			field := v.Field(i)
			section := t.Field(i).Tag.Get("yaml")

			fmt.Printf("[%s]\n", section)
			for j := 0; j < field.NumField(); j++ {
				tag := field.Type().Field(j).Tag.Get("yaml")
				value := fmt.Sprintf("%v", field.Field(j).Interface())
				if tag == "token" && value != "" {
					value = "********"
				}
				fmt.Printf("  %s: %s\n", tag, value)
			}
			fmt.Println()
		}

		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Long:  `Set a configuration value. Key should be in format 'section.key' (e.g., server.http_port).`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		cfg, err := config.Load()
		if err != nil {
			printError("Configuration not initialized")
			return err
		}

		if err := applyConfigValue(cfg, key, value); err != nil {
			return err
		}

		if err := config.Save(cfg); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		printSuccess(fmt.Sprintf("Updated %s to %s", key, value))
		return nil
	},
}

func applyConfigValue(cfg *config.Config, key, value string) error {
	parts := strings.Split(strings.ToLower(key), ".")
	if len(parts) != 2 {
		return fmt.Errorf("invalid key format. Use 'section.key'")
	}

	switch parts[0] + "." + parts[1] {
	case "server.host":
		cfg.Server.Host = value
	case "server.http_port":
		v, err := strconv.Atoi(value)
		if err != nil || v <= 0 || v > 65535 {
			return fmt.Errorf("invalid port for http_port")
		}
		cfg.Server.HTTPPort = v
	case "server.tls":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for tls")
		}
		cfg.Server.TLS = v
	case "ui.theme":
		if value != config.ThemeLight && value != config.ThemeDark {
			return fmt.Errorf("theme must be %q or %q", config.ThemeLight, config.ThemeDark)
		}
		cfg.UI.Theme = value
	case "logging.level":
		cfg.Logging.Level = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
