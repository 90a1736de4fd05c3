package cli

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/binhbb2204/Anime-Hub-Group13/pkg/models"
	"github.com/spf13/cobra"
)

var progressTotal int

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Track watched episodes",
}

func progressBar(current, total int) string {
	const width = 20
	if total <= 0 {
		return fmt.Sprintf("%d episodes watched", current)
	}
	filled := current * width / total
	if filled > width {
		filled = width
	}
	bar := ""
	for i := 0; i < width; i++ {
		if i < filled {
			bar += "#"
		} else {
			bar += "-"
		}
	}
	pct := current * 100 / total
	if pct > 100 {
		pct = 100
	}
	return fmt.Sprintf("[%s] %d/%d (%d%%)", bar, current, total, pct)
}

var progressShowCmd = &cobra.Command{
	Use:   "show <entry-id>",
	Short: "Show progress for a list entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient(true)
		if err != nil {
			return err
		}
		var p models.AnimeProgress
		if err := client.do(http.MethodGet, "/users/me/anime/"+url.PathEscape(args[0])+"/progress", nil, &p); err != nil {
			printError(fmt.Sprintf("Failed to load progress: %v", err))
			return err
		}
		fmt.Println(progressBar(p.CurrentEpisode, p.TotalEpisodes))
		if p.Completed && p.CompletedAt != nil {
			fmt.Printf("Completed on %s\n", p.CompletedAt.Format("2006-01-02"))
		}
		return nil
	},
}

var progressSetCmd = &cobra.Command{
	Use:   "set <entry-id> <episode>",
	Short: "Set the current episode",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		episode, err := strconv.Atoi(args[1])
		if err != nil || episode < 0 {
			return fmt.Errorf("episode must be a non-negative number")
		}
		client, err := newAPIClient(true)
		if err != nil {
			return err
		}

		req := models.UpdateProgressRequest{CurrentEpisode: &episode}
		if cmd.Flags().Changed("total") {
			req.TotalEpisodes = &progressTotal
		}
		var res models.ProgressResponse
		if err := client.do(http.MethodPut, "/users/me/anime/"+url.PathEscape(args[0])+"/progress", req, &res); err != nil {
			printError(fmt.Sprintf("Failed to update progress: %v", err))
			return err
		}

		fmt.Println(progressBar(res.Progress.CurrentEpisode, res.Progress.TotalEpisodes))
		if res.Progress.Completed {
			printSuccess("Completed! The entry was moved to your completed list.")
		}
		if res.AchievementAwarded {
			printSuccess("Completion achievement earned!")
		}
		return nil
	},
}

func init() {
	progressSetCmd.Flags().IntVar(&progressTotal, "total", 0, "Total episode count, if the entry lacks one")
	progressCmd.AddCommand(progressShowCmd)
	progressCmd.AddCommand(progressSetCmd)
}
