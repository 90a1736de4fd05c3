package cli

import (
	"bytes"
	"encoding/csv"
	"encoding/xml"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/binhbb2204/Anime-Hub-Group13/pkg/models"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportOutput string
	importFormat string
	importInput  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export data",
	Long:  `Export your anime list to a file.`,
}

var exportListCmd = &cobra.Command{
	Use:   "list",
	Short: "Export your anime list",
	Long:  `Export your anime list to JSON or CSV format.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient(true)
		if err != nil {
			return err
		}
		entries, err := fetchList(client, "")
		if err != nil {
			return fmt.Errorf("failed to fetch list: %w", err)
		}

		out, err := renderExport(exportFormat, entries)
		if err != nil {
			return err
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, out, 0o644); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			printSuccess(fmt.Sprintf("Exported %d entries to %s", len(entries), exportOutput))
		} else {
			fmt.Println(string(out))
		}
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import an anime list",
	Long:  `Import entries from an AnimeHub JSON export or a MyAnimeList XML export.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(importInput)
		if err != nil {
			return fmt.Errorf("failed to read input file: %w", err)
		}
		reqs, err := parseImport(importFormat, data)
		if err != nil {
			return err
		}

		client, err := newAPIClient(true)
		if err != nil {
			return err
		}

		imported := 0
		for _, r := range reqs {
			if err := client.do(http.MethodPost, "/users/me/anime", r, nil); err != nil {
				printError(fmt.Sprintf("Skipped %q: %v", r.Title, err))
				continue
			}
			imported++
		}
		printSuccess(fmt.Sprintf("Imported %d of %d entries", imported, len(reqs)))
		return nil
	},
}

func renderExport(format string, entries []models.AnimeListEntry) ([]byte, error) {
	switch strings.ToLower(format) {
	case "json":
		return json.MarshalIndent(entries, "", "  ")
	case "csv":
		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		w.Write([]string{"AnimeID", "Title", "Status", "Episodes", "Year", "Rating", "Notes"})
		for _, e := range entries {
			w.Write([]string{e.AnimeID, e.Title, string(e.Status), intOrEmpty(e.Episodes), intOrEmpty(e.Year), floatOrEmpty(e.Rating), strOrEmpty(e.Notes)})
		}
		w.Flush()
		return buf.Bytes(), w.Error()
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

type malAnime struct {
	ID       string `xml:"series_animedb_id"`
	Title    string `xml:"series_title"`
	Episodes int    `xml:"series_episodes"`
	Status   string `xml:"my_status"`
	Score    int    `xml:"my_score"`
}

type malExport struct {
	Anime []malAnime `xml:"anime"`
}

// malStatuses maps MyAnimeList states onto list statuses. On-Hold and
// Dropped have no equivalent and are skipped.
var malStatuses = map[string]models.AnimeStatus{
	"Watching":      models.StatusWatching,
	"Completed":     models.StatusCompleted,
	"Plan to Watch": models.StatusPlanToWatch,
}

func parseImport(format string, data []byte) ([]models.AddAnimeRequest, error) {
	var reqs []models.AddAnimeRequest
	switch strings.ToLower(format) {
	case "json":
		var entries []models.AnimeListEntry
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("failed to parse JSON export: %w", err)
		}
		for _, e := range entries {
			reqs = append(reqs, models.AddAnimeRequest{
				AnimeID:  e.AnimeID,
				Title:    e.Title,
				Image:    e.Image,
				Episodes: e.Episodes,
				Year:     e.Year,
				Status:   string(e.Status),
				Rating:   e.Rating,
				Notes:    e.Notes,
			})
		}
	case "mal":
		var mal malExport
		if err := xml.Unmarshal(data, &mal); err != nil {
			return nil, fmt.Errorf("failed to parse MAL XML: %w", err)
		}
		for _, a := range mal.Anime {
			status, ok := malStatuses[a.Status]
			if !ok || a.Title == "" {
				continue
			}
			r := models.AddAnimeRequest{AnimeID: a.ID, Title: a.Title, Status: string(status)}
			if a.Episodes > 0 {
				eps := a.Episodes
				r.Episodes = &eps
			}
			if a.Score > 0 {
				// MAL scores out of 10
				rating := float64(a.Score) / 2
				r.Rating = &rating
			}
			reqs = append(reqs, r)
		}
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
	return reqs, nil
}

func intOrEmpty(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func floatOrEmpty(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func strOrEmpty(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func init() {
	exportListCmd.Flags().StringVar(&exportFormat, "format", "json", "Output format (json, csv)")
	exportListCmd.Flags().StringVar(&exportOutput, "output", "", "Output file path")
	exportCmd.AddCommand(exportListCmd)

	importCmd.Flags().StringVar(&importFormat, "format", "json", "Input format (json, mal)")
	importCmd.Flags().StringVar(&importInput, "input", "", "Input file path")
	importCmd.MarkFlagRequired("input")
}
