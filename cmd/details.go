package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/reelcheck/console"
	"github.com/s0up4200/reelcheck/detail"
)

// detailsCmd represents the details command
var detailsCmd = &cobra.Command{
	Use:     "details <imdb-id>",
	Short:   "Show plot, cast, ratings and links for one movie",
	Args:    cobra.ExactArgs(1),
	PreRunE: initializeApp,
	RunE:    runDetails,
}

func init() {
	rootCmd.AddCommand(detailsCmd)
}

func runDetails(cmd *cobra.Command, args []string) error {
	ctrl := detail.New(client, logger)
	defer ctrl.Close()

	ctrl.SelectID(args[0])
	st, err := ctrl.Wait(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), console.NewConsoleFormatter().FormatDetails(st, ctrl.URL))

	if st.Status == detail.StatusError {
		return errors.New(st.ErrorMessage)
	}
	return nil
}
