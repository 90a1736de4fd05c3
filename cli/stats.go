package cli

import (
	"fmt"
	"net/http"
	"os"
	"text/tabwriter"

	"github.com/binhbb2204/Anime-Hub-Group13/internal/achievement"
	"github.com/binhbb2204/Anime-Hub-Group13/pkg/models"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show your dashboard statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient(true)
		if err != nil {
			return err
		}
		var s models.DashboardStats
		if err := client.do(http.MethodGet, "/users/me/stats", nil, &s); err != nil {
			printError(fmt.Sprintf("Failed to load stats: %v", err))
			return err
		}

		fmt.Printf("Level %d  %s\n\n", s.Level, progressBar(int(s.NextLevelProgress), 100))
		fmt.Printf("Completed:      %d\n", s.TotalCompleted)
		fmt.Printf("Watching:       %d\n", s.TotalWatching)
		fmt.Printf("Plan to watch:  %d\n", s.TotalPlanned)
		fmt.Printf("Hours watched:  %.1f\n", s.TotalHours)
		fmt.Printf("Average rating: %.1f\n", s.AverageRating)

		if len(s.RecentCompleted) > 0 {
			fmt.Println("\nRecently completed:")
			for _, e := range s.RecentCompleted {
				fmt.Printf("  - %s\n", e.Title)
			}
		}
		if len(s.Planned) > 0 {
			fmt.Println("\nUp next:")
			for _, e := range s.Planned {
				fmt.Printf("  - %s\n", e.Title)
			}
		}
		return nil
	},
}

var achievementsCmd = &cobra.Command{
	Use:   "achievements",
	Short: "Show achievement progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient(true)
		if err != nil {
			return err
		}
		var res struct {
			Achievements  []achievement.Status     `json:"achievements"`
			Completions   []models.UserAchievement `json:"completions"`
			UnlockedCount int                      `json:"unlocked_count"`
			Total         int                      `json:"total"`
			IsPremium     bool                     `json:"is_premium"`
		}
		if err := client.do(http.MethodGet, "/users/me/achievements", nil, &res); err != nil {
			printError(fmt.Sprintf("Failed to load achievements: %v", err))
			return err
		}

		fmt.Printf("Unlocked %d of %d\n\n", res.UnlockedCount, res.Total)
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "\tNAME\tPROGRESS\tDESCRIPTION")
		for _, a := range res.Achievements {
			mark := " "
			switch {
			case a.IsUnlocked:
				mark = "✓"
			case a.IsPremium && !res.IsPremium:
				mark = "🔒"
			}
			fmt.Fprintf(w, "%s\t%s\t%.0f/%.0f\t%s\n", mark, a.Name, a.Current, a.Requirement, a.Description)
		}
		w.Flush()

		if len(res.Completions) > 0 {
			fmt.Printf("\nCompletion badges: %d\n", len(res.Completions))
		}
		if !res.IsPremium {
			fmt.Println("\nPremium achievements need a subscription: animehub premium subscribe")
		}
		return nil
	},
}
