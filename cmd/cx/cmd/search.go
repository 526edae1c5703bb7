package cmd

import (
	"github.com/spf13/cobra"

	domain "github.com/storefront-tools/catalog-explorer/pkg/types"
)

func searchCmd() *cobra.Command {
	var csvPath string

	cmd := &cobra.Command{
		Use:   "search <keyword>",
		Short: "Search the catalog by keyword",
		Long:  "Runs a keyword search through the API server and displays normalized product records.",
		Example: `  cx search laptop
  cx search "wireless headphones" --csv results.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := domain.QueryRequest{Mode: domain.ModeKeyword, Keyword: args[0]}

			if csvPath != "" {
				return exportToFile(cmd, req, csvPath)
			}

			resp, err := newClient().Query(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printQueryResult(resp)
		},
	}
	cmd.Flags().StringVar(&csvPath, "csv", "", "write results to a CSV file instead of printing")

	return cmd
}
