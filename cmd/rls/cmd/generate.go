package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func generateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate [sku]",
		Short: "Generate listings from photo groups",
		Long: "Runs the generation pipeline. Without arguments every eligible\n" +
			"group is processed; with a SKU only that group is.",
		Example: `  # Generate everything that is pending or failed
  rls generate

  # Retry one group
  rls generate JACKET-01`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()

			if len(args) == 1 {
				result, err := c.GenerateSKU(context.Background(), args[0])
				if err != nil {
					return err
				}

				if jsonOutput() {
					return outputJSON(result)
				}

				if result.Error != "" {
					fmt.Printf("%s: %s (%s)\n", result.SKU, result.Status, result.Error)
				} else {
					fmt.Printf("%s: %s\n", result.SKU, result.Status)
				}
				return nil
			}

			report, err := c.GenerateAll(context.Background())
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(report)
			}

			if len(report.Results) == 0 {
				fmt.Println("Nothing to generate.")
				return nil
			}

			fmt.Printf("Generated %d, failed %d of %d candidates\n\n",
				report.Generated, report.Failed, len(report.Results))
			return printResultTable(report.Results)
		},
	}
}
