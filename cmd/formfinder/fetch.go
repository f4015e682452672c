package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/pdiddy/formfinder/internal/fetch"
	"github.com/pdiddy/formfinder/pkg/types"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download every PDF form linked from the finance-forms page",
	Long: `Fetch loads the finance-forms page, finds every link to a PDF, and saves
each one in the forms directory under a name derived from the link text.
Existing files with the same name are overwritten. A link that fails to
download is reported and skipped.

Link text is taken as displayed, so "<b>Petty Cash</b> Request" is saved as
Petty_Cash_Request.pdf (older scripts glued the fragments into
Petty_CashRequest.pdf).`,
	Args: cobra.NoArgs,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().String("page-url", fetch.DefaultPageURL, "finance-forms page to scrape")
	fetchCmd.Flags().Duration("delay", 0, "minimum spacing between PDF downloads")

	bindFlag("page_url", fetchCmd.Flags().Lookup("page-url"))
	bindFlag("delay", fetchCmd.Flags().Lookup("delay"))

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg := fetchConfig()
	out := cmd.OutOrStdout()
	notes := noticeWriter(cmd)

	client := &http.Client{Timeout: cfg.Timeout}

	result, err := fetch.Forms(cmd.Context(), client, cfg, notes)
	if err != nil {
		var fe *fetch.FetchError
		if errors.As(err, &fe) {
			fmt.Fprintf(notes, "Failed to access the forms page: %v\n", fe)
		} else {
			fmt.Fprintf(notes, "Fetch stopped: %v\n", err)
		}
		fmt.Fprintln(notes, "No forms downloaded.")
		return writeOutput(out, []types.FormFile{}, func() {})
	}

	return writeOutput(out, result.Forms, func() {
		printNumbered(out, "Downloaded forms", result.Filenames())
	})
}
