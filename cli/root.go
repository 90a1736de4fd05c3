package cli

import (
	"fmt"
	"os"

	"github.com/binhbb2204/Anime-Hub-Group13/cli/config"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var rootCmd = &cobra.Command{
	Use:     "animehub",
	Short:   "AnimeHub command line client",
	Long:    `Track your anime list, progress, achievements and recommendations from the terminal.`,
	Version: "1.0.0",

	SilenceUsage: true,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Long:  `Create ~/.animehub/config.yaml with default settings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Init(); err != nil {
			printError("Failed to initialize configuration")
			return err
		}
		path, _ := config.GetConfigPath()
		printSuccess("Configuration initialized")
		fmt.Printf("Config file: %s\n", path)
		fmt.Println("\nNext steps:")
		fmt.Println("  animehub auth register --username <name> --email <email>")
		fmt.Println("  animehub auth login --username <name>")
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(achievementsCmd)
	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(avatarCmd)
	rootCmd.AddCommand(premiumCmd)
	rootCmd.AddCommand(themeCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(systemCmd)
}

type palette struct {
	ok, err, info string
}

var palettes = map[string]palette{
	config.ThemeLight: {ok: "\033[32m", err: "\033[31m", info: "\033[34m"},
	config.ThemeDark:  {ok: "\033[92m", err: "\033[91m", info: "\033[96m"},
}

const reset = "\033[0m"

func colors() (palette, bool) {
	if os.Getenv("NO_COLOR") != "" || !term.IsTerminal(int(os.Stdout.Fd())) {
		return palette{}, false
	}
	theme := config.ThemeLight
	if config.GlobalConfig != nil && config.GlobalConfig.UI.Theme != "" {
		theme = config.GlobalConfig.UI.Theme
	}
	p, ok := palettes[theme]
	return p, ok
}

func printColored(color func(palette) string, mark, msg string) {
	if p, ok := colors(); ok {
		fmt.Printf("%s%s%s %s\n", color(p), mark, reset, msg)
		return
	}
	fmt.Printf("%s %s\n", mark, msg)
}

func printSuccess(msg string) {
	printColored(func(p palette) string { return p.ok }, "✓", msg)
}

func printError(msg string) {
	printColored(func(p palette) string { return p.err }, "✗", msg)
}

func printInfo(msg string) {
	printColored(func(p palette) string { return p.info }, "ℹ", msg)
}
