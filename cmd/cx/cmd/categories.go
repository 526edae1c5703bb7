package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "categories",
		Short:   "List provider categories",
		Example: "  cx categories",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			categories, err := newClient().Categories(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOutput() {
				return printJSON(categories)
			}

			tw := newTabWriter(os.Stdout)
			tw.writef("ID\tNAME\n")
			for _, cat := range categories {
				tw.writef("%s\t%s\n", cat.ID, cat.Name)
			}
			return tw.finish()
		},
	}
}
