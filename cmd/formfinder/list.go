package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/formfinder/internal/catalog"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the forms saved in the forms directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		names, err := catalog.List(formsDir(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		return writeOutput(out, names, func() {
			printNumbered(out, "Downloaded forms", names)
		})
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
