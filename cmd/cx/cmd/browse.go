package cmd

import (
	"github.com/spf13/cobra"

	domain "github.com/storefront-tools/catalog-explorer/pkg/types"
)

func browseCmd() *cobra.Command {
	var csvPath string

	cmd := &cobra.Command{
		Use:   "browse <category-id>",
		Short: "Browse products by category",
		Long: "Fetches products in a provider category through the API server.\n" +
			"Use 'cx categories' to list category ids.",
		Example: `  cx browse abcat0502000
  cx browse abcat0502000 --csv laptops.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := domain.QueryRequest{Mode: domain.ModeCategory, CategoryID: args[0]}

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
