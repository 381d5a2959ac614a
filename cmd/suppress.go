package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mlagarde/ledgerlens/integrations/postgres"
)

var suppressRemove bool

var suppressCmd = &cobra.Command{
	Use:   "suppress [key]",
	Short: "Manage the alert suppression list",
	Long: `Adds or removes an alert suppression key. The key is the alert's
type|reference|amount triple as reported in the analysis output; suppressed
alerts are dropped from future runs. Requires a configured database URL.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dbURL := viper.GetString("server.database_url")
		if dbURL == "" {
			return fmt.Errorf("no database_url configured")
		}

		ctx := context.Background()
		db, err := postgres.Connect(ctx, dbURL)
		if err != nil {
			return fmt.Errorf("database connection failed: %w", err)
		}
		defer db.Close()
		if err := db.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("schema setup failed: %w", err)
		}

		if suppressRemove {
			return db.Unsuppress(ctx, args[0])
		}
		return db.Suppress(ctx, args[0])
	},
}

func init() {
	rootCmd.AddCommand(suppressCmd)

	suppressCmd.Flags().BoolVar(&suppressRemove, "remove", false, "remove the key instead of adding it")
}
