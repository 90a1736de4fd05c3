package cli

import (
	"fmt"

	"github.com/binhbb2204/Anime-Hub-Group13/cli/config"
	"github.com/spf13/cobra"
)

var themeCmd = &cobra.Command{
	Use:       "theme [light|dark]",
	Short:     "Show or set the color theme",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{config.ThemeLight, config.ThemeDark},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			cfg, err := config.Load()
			if err != nil {
				printError("Configuration not initialized")
				return err
			}
			fmt.Printf("Current theme: %s\n", cfg.UI.Theme)
			return nil
		}
		if err := config.SetTheme(args[0]); err != nil {
			printError(err.Error())
			return err
		}
		printSuccess(fmt.Sprintf("Theme set to %s", args[0]))
		return nil
	},
}
