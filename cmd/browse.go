package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/reelcheck/detail"
	"github.com/s0up4200/reelcheck/search"
	"github.com/s0up4200/reelcheck/tui"
)

// browseCmd represents the browse command
var browseCmd = &cobra.Command{
	Use:   "browse [title]",
	Short: "Search interactively as you type",
	Long: `Open an interactive browser. Results update as you type, enter shows
the details of the highlighted movie and i/r/a/m open it on IMDb,
Rotten Tomatoes, the RT audience page or Metacritic.

Logs are written only to logging.file while the browser is open.`,
	PreRunE: initializeBrowse,
	RunE:    runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)

	browseCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")
	browseCmd.Flags().StringVarP(&preset, "preset", "p", "", "use a preset filter from config")
}

// initializeBrowse sets the app up without console logging, stderr would
// corrupt the alternate screen
func initializeBrowse(cmd *cobra.Command, args []string) error {
	return setupApp(nil)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	f, err := resolveFilter(filterExpr, preset)
	if err != nil {
		return err
	}

	sc := search.New(client, logger,
		search.WithDebounce(cfg.Search.Debounce),
		search.WithRatingConcurrency(cfg.Search.RatingConcurrency),
		search.WithItemRatings(cfg.Search.ItemRatings),
	)
	defer sc.Close()

	dc := detail.New(client, logger)
	defer dc.Close()

	return tui.Run(tui.Options{
		Context: cmd.Context(),
		Search:  sc,
		Detail:  dc,
		Filter:  f,
		Logger:  logger,
		Query:   strings.Join(args, " "),
	})
}
