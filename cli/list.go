package cli

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/binhbb2204/Anime-Hub-Group13/pkg/models"
	"github.com/spf13/cobra"
)

var (
	listStatus   string
	listAnimeID  string
	listTitle    string
	listImage    string
	listEpisodes int
	listYear     int
	listRating   float64
	listNotes    string
)

type listResponse struct {
	Entries []models.AnimeListEntry `json:"entries"`
	Total   int                     `json:"total"`
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Manage your anime list",
	Long:  `Show, add, update and remove entries on your watch list.`,
}

func fetchList(client *apiClient, status string) ([]models.AnimeListEntry, error) {
	path := "/users/me/anime"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}
	var res listResponse
	if err := client.do(http.MethodGet, path, nil, &res); err != nil {
		return nil, err
	}
	return res.Entries, nil
}

func printEntries(entries []models.AnimeListEntry) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tEPISODES\tRATING")
	for _, e := range entries {
		eps, rating := "-", "-"
		if e.Episodes != nil {
			eps = strconv.Itoa(*e.Episodes)
		}
		if e.Rating != nil {
			rating = strconv.FormatFloat(*e.Rating, 'f', 1, 64)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", e.ID, e.Title, e.Status, eps, rating)
	}
	w.Flush()
}

var listShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show your list",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient(true)
		if err != nil {
			return err
		}
		if listStatus != "" {
			if _, err := models.ParseAnimeStatus(listStatus); err != nil {
				return err
			}
		}
		entries, err := fetchList(client, listStatus)
		if err != nil {
			printError(fmt.Sprintf("Failed to load list: %v", err))
			return err
		}
		if len(entries) == 0 {
			printInfo("Your list is empty")
			fmt.Println("Try: animehub search \"frieren\"")
			return nil
		}
		printEntries(entries)
		fmt.Printf("\n%d entries\n", len(entries))
		return nil
	},
}

var listAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an anime to your list",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient(true)
		if err != nil {
			return err
		}
		req := models.AddAnimeRequest{
			AnimeID: listAnimeID,
			Title:   listTitle,
			Status:  listStatus,
		}
		if req.Status == "" {
			req.Status = string(models.StatusPlanToWatch)
		}
		if listImage != "" {
			req.Image = &listImage
		}
		if cmd.Flags().Changed("episodes") {
			req.Episodes = &listEpisodes
		}
		if cmd.Flags().Changed("year") {
			req.Year = &listYear
		}
		if cmd.Flags().Changed("rating") {
			req.Rating = &listRating
		}
		if listNotes != "" {
			req.Notes = &listNotes
		}

		var entry models.AnimeListEntry
		if err := client.do(http.MethodPost, "/users/me/anime", req, &entry); err != nil {
			printError(fmt.Sprintf("Failed to add anime: %v", err))
			return err
		}
		printSuccess(fmt.Sprintf("Added %q as %s", entry.Title, entry.Status))
		fmt.Printf("Entry ID: %s\n", entry.ID)
		return nil
	},
}

var listUpdateCmd = &cobra.Command{
	Use:   "update <entry-id>",
	Short: "Update a list entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient(true)
		if err != nil {
			return err
		}
		var req models.UpdateAnimeRequest
		changed := false
		if cmd.Flags().Changed("status") {
			req.Status = &listStatus
			changed = true
		}
		if cmd.Flags().Changed("title") {
			req.Title = &listTitle
			changed = true
		}
		if cmd.Flags().Changed("episodes") {
			req.Episodes = &listEpisodes
			changed = true
		}
		if cmd.Flags().Changed("year") {
			req.Year = &listYear
			changed = true
		}
		if cmd.Flags().Changed("rating") {
			req.Rating = &listRating
			changed = true
		}
		if cmd.Flags().Changed("notes") {
			req.Notes = &listNotes
			changed = true
		}
		if !changed {
			return fmt.Errorf("nothing to update; pass at least one of --status, --title, --episodes, --year, --rating, --notes")
		}

		var entry models.AnimeListEntry
		if err := client.do(http.MethodPut, "/users/me/anime/"+url.PathEscape(args[0]), req, &entry); err != nil {
			printError(fmt.Sprintf("Failed to update entry: %v", err))
			return err
		}
		printSuccess(fmt.Sprintf("Updated %q", entry.Title))
		return nil
	},
}

var listRemoveCmd = &cobra.Command{
	Use:   "remove <entry-id>",
	Short: "Remove an entry from your list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient(true)
		if err != nil {
			return err
		}
		if err := client.do(http.MethodDelete, "/users/me/anime/"+url.PathEscape(args[0]), nil, nil); err != nil {
			printError(fmt.Sprintf("Failed to remove entry: %v", err))
			return err
		}
		printSuccess("Entry removed")
		return nil
	},
}

func init() {
	listShowCmd.Flags().StringVar(&listStatus, "status", "", "Filter by status (watching, completed, plan_to_watch)")

	for _, c := range []*cobra.Command{listAddCmd, listUpdateCmd} {
		c.Flags().StringVar(&listStatus, "status", "", "watching, completed or plan_to_watch")
		c.Flags().StringVar(&listTitle, "title", "", "Anime title")
		c.Flags().IntVar(&listEpisodes, "episodes", 0, "Episode count")
		c.Flags().IntVar(&listYear, "year", 0, "Release year")
		c.Flags().Float64Var(&listRating, "rating", 0, "Your rating from 0 to 5")
		c.Flags().StringVar(&listNotes, "notes", "", "Personal notes")
	}
	listAddCmd.Flags().StringVar(&listAnimeID, "anime-id", "", "External (MyAnimeList) id")
	listAddCmd.Flags().StringVar(&listImage, "image", "", "Cover image URL")
	listAddCmd.MarkFlagRequired("title")

	listCmd.AddCommand(listShowCmd)
	listCmd.AddCommand(listAddCmd)
	listCmd.AddCommand(listUpdateCmd)
	listCmd.AddCommand(listRemoveCmd)
}
