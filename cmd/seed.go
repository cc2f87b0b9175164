package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the sample users and items and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Seed(); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		fmt.Println("Seeded.")
		return nil
	},
}
