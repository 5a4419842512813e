package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func groupsCmd() *cobra.Command {
	groupsRoot := &cobra.Command{
		Use:   "groups",
		Short: "Inspect SKU groups",
		Long: "Show the photo groups derived from SKU assignments, each with\n" +
			"its photo count and generation state.",
	}

	groupsRoot.AddCommand(groupsListCmd())

	return groupsRoot
}

func groupsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   "List SKU groups",
		Example: `  rls groups list`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			groups, err := c.ListGroups(context.Background())
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(groups)
			}

			if len(groups) == 0 {
				fmt.Println("No groups found. Assign SKUs to photos first.")
				return nil
			}

			return printGroupTable(groups)
		},
	}
}
