package cli

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/binhbb2204/Anime-Hub-Group13/pkg/models"
	"github.com/spf13/cobra"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Personalized recommendations (premium)",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient(true)
		if err != nil {
			return err
		}
		var res models.RecommendationResult
		if err := client.do(http.MethodGet, "/users/me/recommendations", nil, &res); err != nil {
			printError(fmt.Sprintf("Failed to load recommendations: %v", err))
			return err
		}
		if res.PremiumRequired {
			printInfo("Recommendations are a premium feature")
			fmt.Println("Upgrade: animehub premium subscribe")
			return nil
		}

		if len(res.UserGenres) > 0 {
			fmt.Printf("Your genres: %s\n\n", strings.Join(res.UserGenres, ", "))
		}
		if len(res.Recommendations) == 0 {
			printInfo("No recommendations right now, try again later")
		} else {
			fmt.Println("Recommended for you:")
			printMeta(res.Recommendations, true)
		}
		if len(res.Trending) > 0 {
			fmt.Println("\nTrending now:")
			printMeta(res.Trending, true)
		}
		return nil
	},
}

var genresCmd = &cobra.Command{
	Use:   "genres",
	Short: "Show your favorite genres",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient(true)
		if err != nil {
			return err
		}
		var res struct {
			Genres []string `json:"genres"`
		}
		if err := client.do(http.MethodGet, "/users/me/genres", nil, &res); err != nil {
			printError(fmt.Sprintf("Failed to load genres: %v", err))
			return err
		}
		fmt.Println(strings.Join(res.Genres, ", "))
		return nil
	},
}

func init() {
	recommendCmd.AddCommand(genresCmd)
}
