package cli

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/binhbb2204/Anime-Hub-Group13/pkg/models"
	"github.com/spf13/cobra"
)

var avatarCmd = &cobra.Command{
	Use:   "avatar",
	Short: "Choose your profile avatar",
}

func fetchAvatars(client *apiClient) ([]models.AvatarOption, error) {
	var res struct {
		Avatars []models.AvatarOption `json:"avatars"`
	}
	if err := client.do(http.MethodGet, "/users/me/avatars", nil, &res); err != nil {
		return nil, err
	}
	return res.Avatars, nil
}

var avatarListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available avatars",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient(true)
		if err != nil {
			return err
		}
		opts, err := fetchAvatars(client)
		if err != nil {
			printError(fmt.Sprintf("Failed to load avatars: %v", err))
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "\tNAME\tKIND\tUNLOCK BY")
		for _, o := range opts {
			mark, kind, hint := "✓", "free", ""
			if !o.IsUnlocked {
				mark = "🔒"
			}
			if o.IsPremium {
				kind = "premium"
				if o.AnimeTitle != "" {
					hint = "complete " + o.AnimeTitle
				}
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", mark, o.Filename, kind, hint)
		}
		w.Flush()
		fmt.Println("\nSet one: animehub avatar set <name>")
		return nil
	},
}

var avatarSetCmd = &cobra.Command{
	Use:   "set <name|url>",
	Short: "Set your avatar",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient(true)
		if err != nil {
			return err
		}
		target := args[0]
		if !strings.Contains(target, "/") {
			opts, err := fetchAvatars(client)
			if err != nil {
				return err
			}
			for _, o := range opts {
				if o.Filename == target {
					target = o.URL
					break
				}
			}
		}

		if err := client.do(http.MethodPut, "/users/me/avatar", models.UpdateAvatarRequest{URL: target}, nil); err != nil {
			printError(fmt.Sprintf("Failed to set avatar: %v", err))
			return err
		}
		printSuccess("Avatar updated")
		return nil
	},
}

var avatarProgressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show premium avatar unlock progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient(true)
		if err != nil {
			return err
		}
		var res struct {
			Progress []struct {
				Filename   string `json:"filename"`
				AnimeTitle string `json:"anime_title"`
				IsUnlocked bool   `json:"is_unlocked"`
			} `json:"progress"`
			Unlocked int `json:"unlocked"`
			Total    int `json:"total"`
		}
		if err := client.do(http.MethodGet, "/users/me/avatars/progress", nil, &res); err != nil {
			printError(fmt.Sprintf("Failed to load avatar progress: %v", err))
			return err
		}
		fmt.Printf("Unlocked %d of %d anime avatars\n\n", res.Unlocked, res.Total)
		for _, p := range res.Progress {
			mark := "🔒"
			if p.IsUnlocked {
				mark = "✓"
			}
			fmt.Printf("  %s %s (%s)\n", mark, p.Filename, p.AnimeTitle)
		}
		return nil
	},
}

func init() {
	avatarCmd.AddCommand(avatarListCmd)
	avatarCmd.AddCommand(avatarSetCmd)
	avatarCmd.AddCommand(avatarProgressCmd)
}
