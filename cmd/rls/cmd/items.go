package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func itemsCmd() *cobra.Command {
	itemsRoot := &cobra.Command{
		Use:   "items",
		Short: "Query generated items",
		Long: "Query and inspect the marketplace listings generated from photo\n" +
			"groups, and delete items to release their photos for regrouping.",
	}

	itemsRoot.AddCommand(
		itemsListCmd(),
		itemsGetCmd(),
		itemsDeleteCmd(),
	)

	return itemsRoot
}

func itemsListCmd() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List generated items",
		Example: `  # List all items
  rls items list

  # Only items that need a retry
  rls items list --status needs_attention`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			items, err := c.ListItems(context.Background(), status)
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(items)
			}

			if len(items) == 0 {
				fmt.Println("No items found.")
				return nil
			}

			return printItemTable(items)
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "filter by generation status")

	return cmd
}

func itemsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get <id>",
		Short:   "Show item details",
		Example: `  rls items get abc123`,
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			item, err := c.GetItem(context.Background(), args[0])
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(item)
			}

			return printItemDetail(item)
		},
	}
}

func itemsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Short:   "Delete an item and release its photos",
		Example: `  rls items delete abc123`,
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			if err := c.DeleteItem(context.Background(), args[0]); err != nil {
				return err
			}

			fmt.Println("Item deleted. Its photos are back in the ungrouped pool.")
			return nil
		},
	}
}
