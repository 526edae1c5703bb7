package cmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"
)

func quotaCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "quota",
		Short:   "Show catalog API quota usage",
		Example: "  cx quota",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			quota, err := newClient().Quota(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOutput() {
				return printJSON(quota)
			}

			tw := newTabWriter(os.Stdout)
			tw.writef("Daily limit:\t%d\n", quota.DailyLimit)
			tw.writef("Used:\t%d\n", quota.DailyUsed)
			tw.writef("Remaining:\t%d\n", quota.Remaining)
			tw.writef("Resets:\t%s\n", quota.ResetAt.Format(time.RFC3339))
			return tw.finish()
		},
	}
}
