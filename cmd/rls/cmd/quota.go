package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

func quotaCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "quota",
		Short:   "Show vision analysis quota",
		Example: `  rls quota`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			quota, err := c.GetQuota(context.Background())
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(quota)
			}

			tw := newTabWriter(os.Stdout)
			tw.writef("Daily limit:\t%d\n", quota.DailyLimit)
			tw.writef("Used:\t%d\n", quota.DailyUsed)
			tw.writef("Remaining:\t%d\n", quota.Remaining)
			tw.writef("Resets:\t%s\n", quota.ResetAt.Format("2006-01-02 15:04:05 MST"))
			return tw.finish()
		},
	}
}
