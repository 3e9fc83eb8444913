package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pyhub-apps/pricebulletin/internal/bulletinpdf"
)

func newSampleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample <out.pdf>",
		Short: "Write a synthetic bulletin PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			perPage, _ := cmd.Flags().GetInt("rows-per-page")
			b := bulletinpdf.Sample()
			b.RowsPerPage = perPage
			if err := bulletinpdf.WriteFile(args[0], b); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().Int("rows-per-page", 0, "market rows per page (default all on one page)")
	return cmd
}
