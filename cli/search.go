package cli

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/binhbb2204/Anime-Hub-Group13/pkg/models"
	"github.com/spf13/cobra"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search anime",
	Long:  `Search the public anime catalogue. Queries shorter than 3 characters return nothing.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient(false)
		if err != nil {
			return err
		}
		query := strings.Join(args, " ")

		q := url.Values{}
		q.Set("q", query)
		q.Set("limit", strconv.Itoa(searchLimit))
		var res struct {
			Results []models.AnimeMeta `json:"results"`
			Total   int                `json:"total"`
		}
		if err := client.do(http.MethodGet, "/anime/search?"+q.Encode(), nil, &res); err != nil {
			printError(fmt.Sprintf("Search failed: %v", err))
			return err
		}
		if res.Total == 0 {
			printInfo(fmt.Sprintf("No results for %q", query))
			return nil
		}

		fmt.Printf("Found %d results for %q:\n\n", res.Total, query)
		printMeta(res.Results, false)
		fmt.Println("\nAdd one: animehub list add --anime-id <MAL ID> --title \"<title>\"")
		return nil
	},
}

func printMeta(items []models.AnimeMeta, withMatch bool) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	header := "MAL ID\tTITLE\tYEAR\tEPISODES\tSCORE"
	if withMatch {
		header += "\tMATCH"
	}
	fmt.Fprintln(w, header)
	for _, a := range items {
		year, eps := "-", "-"
		if a.Year > 0 {
			year = strconv.Itoa(a.Year)
		}
		if a.Episodes > 0 {
			eps = strconv.Itoa(a.Episodes)
		}
		line := fmt.Sprintf("%d\t%s\t%s\t%s\t%.2f", a.MalID, a.Title, year, eps, a.Score)
		if withMatch {
			line += fmt.Sprintf("\t%d%%", a.MatchPercentage)
		}
		fmt.Fprintln(w, line)
	}
	w.Flush()
}

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", 10, "Maximum results (1-25)")
}
