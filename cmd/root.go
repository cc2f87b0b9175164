package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Allena9/Campus-Equipment-Checkout-Database-Application/checkout"
)

const defaultDBFile = "checkout.db"

var dbPath string

var rootCmd = &cobra.Command{
	Use:   "equipment-checkout",
	Short: "Interactive equipment checkout manager",
	Long: `Tracks loanable equipment, registered users, and the loans between them
in a local SQLite database. Running without a subcommand starts the
interactive menu.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		runShell(store)
		return nil
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", defaultDBFile, "path to the SQLite database file")
	rootCmd.AddCommand(seedCmd)
}

func openStore() (*checkout.Store, error) {
	store, err := checkout.Open(dbPath)
	if err != nil {
		slog.Error("open database", "path", dbPath, "err", err)
		return nil, err
	}
	return store, nil
}
