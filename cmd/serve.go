package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mlagarde/ledgerlens/api"
	"github.com/mlagarde/ledgerlens/integrations/postgres"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Starts the HTTP API server that accepts document batches and returns
analysis reports as JSON. With a database URL configured, reports are
persisted and reviewer suppressions survive across runs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		engineCfg, err := engineConfig()
		if err != nil {
			return fmt.Errorf("invalid analysis configuration: %w", err)
		}

		cfg := api.DefaultConfig()
		cfg.Engine = engineCfg
		cfg.Logger = logger
		if servePort != "" {
			cfg.Addr = ":" + servePort
		} else if addr := viper.GetString("server.addr"); addr != "" {
			cfg.Addr = addr
		}

		if dbURL := viper.GetString("server.database_url"); dbURL != "" {
			ctx := context.Background()
			db, err := postgres.Connect(ctx, dbURL)
			if err != nil {
				return fmt.Errorf("database connection failed: %w", err)
			}
			defer db.Close()
			if err := db.EnsureSchema(ctx); err != nil {
				return fmt.Errorf("schema setup failed: %w", err)
			}
			cfg.Store = db
			logger.Info().Msg("report persistence enabled")
		}

		return api.New(cfg).Start()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "port to run the API server on")
}
