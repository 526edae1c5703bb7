package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	domain "github.com/storefront-tools/catalog-explorer/pkg/types"
)

func skuCmd() *cobra.Command {
	var csvPath string

	cmd := &cobra.Command{
		Use:   "sku <sku>[,<sku>...]",
		Short: "Look up products by SKU list",
		Long: "Looks up one or more SKUs through the API server. SKUs can be given\n" +
			"as separate arguments or comma-separated.",
		Example: `  cx sku 6487433
  cx sku 6487433,6487434 1032164 --csv skus.csv`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var skus []string
			for _, arg := range args {
				for _, sku := range strings.Split(arg, ",") {
					if sku = strings.TrimSpace(sku); sku != "" {
						skus = append(skus, sku)
					}
				}
			}

			req := domain.QueryRequest{Mode: domain.ModeSKU, SKUs: skus}

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
