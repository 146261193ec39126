package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/reelcheck/console"
	"github.com/s0up4200/reelcheck/filter"
	"github.com/s0up4200/reelcheck/search"
)

var (
	filterExpr string
	preset     string
	noRatings  bool
	hideIDs    bool
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <title>",
	Short: "Search movies by title",
	Long: `Search OMDb for movies matching a title and list them with their ratings.

Results can be narrowed with an expression, for example:
  reelcheck search alien --filter 'imdb >= 80 and Year < 2000'`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: initializeApp,
	RunE:    runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")
	searchCmd.Flags().StringVarP(&preset, "preset", "p", "", "use a preset filter from config")
	searchCmd.Flags().BoolVar(&noRatings, "no-ratings", false, "skip the per-result rating lookups")
	searchCmd.Flags().BoolVar(&hideIDs, "hide-ids", false, "do not print IMDb ids")
}

func runSearch(cmd *cobra.Command, args []string) error {
	f, err := resolveFilter(filterExpr, preset)
	if err != nil {
		return err
	}

	ctrl := search.New(client, logger,
		search.WithRatingConcurrency(cfg.Search.RatingConcurrency),
		search.WithItemRatings(cfg.Search.ItemRatings && !noRatings),
	)
	defer ctrl.Close()

	query := strings.Join(args, " ")
	logger.Info().Str("query", query).Msg("Searching movies")

	// Submit skips the debounce, there is no typing to wait for
	ctrl.Submit(query)
	st, err := ctrl.Wait(cmd.Context())
	if err != nil {
		return err
	}

	items := filter.Apply(f, console.Items(st))

	formatter := console.NewConsoleFormatter()
	formatter.ShowIDs = !hideIDs
	fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSearch(st, items))

	if st.Status == search.StatusError {
		return errors.New(st.ErrorMessage)
	}
	return nil
}
