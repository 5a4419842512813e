package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func photosCmd() *cobra.Command {
	photosRoot := &cobra.Command{
		Use:   "photos",
		Short: "Manage uploaded photos",
		Long: "Register uploaded photos, list them, and assign SKUs to group\n" +
			"photos of the same physical item into listing candidates.",
	}

	photosRoot.AddCommand(
		photosRegisterCmd(),
		photosListCmd(),
		photosAssignCmd(),
	)

	return photosRoot
}

func photosRegisterCmd() *cobra.Command {
	var (
		filename string
		order    int
		sku      string
	)

	cmd := &cobra.Command{
		Use:   "register <image-ref>",
		Short: "Register an uploaded photo",
		Example: `  # Register a photo by its storage reference
  rls photos register photos/batch-7/IMG_1023.jpg --filename IMG_1023.jpg

  # Register and tag with a SKU in one step
  rls photos register photos/batch-7/IMG_1024.jpg --sku JACKET-01 --order 1`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			photo, err := c.RegisterPhoto(context.Background(), args[0], filename, order, sku)
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(photo)
			}

			fmt.Printf("Registered photo %s\n", photo.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&filename, "filename", "", "original filename")
	cmd.Flags().IntVar(&order, "order", 0, "position within the upload batch")
	cmd.Flags().StringVar(&sku, "sku", "", "grouping identifier to assign immediately")

	return cmd
}

func photosListCmd() *cobra.Command {
	var sku string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List photos",
		Example: `  # List all photos
  rls photos list

  # List photos in one group
  rls photos list --sku JACKET-01`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			photos, err := c.ListPhotos(context.Background(), sku)
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(photos)
			}

			if len(photos) == 0 {
				fmt.Println("No photos found.")
				return nil
			}

			return printPhotoTable(photos)
		},
	}
	cmd.Flags().StringVar(&sku, "sku", "", "filter by grouping identifier")

	return cmd
}

func photosAssignCmd() *cobra.Command {
	var clear bool

	cmd := &cobra.Command{
		Use:   "assign <photo-id> [sku]",
		Short: "Assign or clear a photo's SKU",
		Example: `  # Tag a photo with a SKU
  rls photos assign 3f2a... JACKET-01

  # Remove a photo from its group
  rls photos assign 3f2a... --clear`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(_ *cobra.Command, args []string) error {
			sku := ""
			if len(args) == 2 {
				sku = args[1]
			}
			if !clear && sku == "" {
				return fmt.Errorf("either provide a sku or pass --clear")
			}

			c := newClient()
			photo, err := c.AssignSKU(context.Background(), args[0], sku)
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(photo)
			}

			if photo.SKU == nil {
				fmt.Printf("Photo %s removed from its group\n", photo.ID)
			} else {
				fmt.Printf("Photo %s assigned to %s\n", photo.ID, *photo.SKU)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&clear, "clear", false, "clear the SKU assignment")

	return cmd
}
