package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mlagarde/ledgerlens/document"
	"github.com/mlagarde/ledgerlens/engine"
	"github.com/mlagarde/ledgerlens/integrations/postgres"
	"github.com/mlagarde/ledgerlens/logging"
)

var importCmd = &cobra.Command{
	Use:   "import [directory]",
	Short: "Analyze a directory and archive the run",
	Long: `Runs the same analysis as "analyze" and persists the report, its alerts
and the document descriptors to the configured database. Stored
suppressions are applied before archiving.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dbURL := viper.GetString("server.database_url")
		if dbURL == "" {
			return fmt.Errorf("no database_url configured")
		}

		cfg, err := engineConfig()
		if err != nil {
			return fmt.Errorf("invalid analysis configuration: %w", err)
		}

		docs, err := document.LoadDir(args[0])
		if err != nil {
			return err
		}
		if len(docs) == 0 {
			return fmt.Errorf("no documents found in %s", args[0])
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

		suppressed, err := db.SuppressedKeys(ctx)
		if err != nil {
			return fmt.Errorf("could not load suppressions: %w", err)
		}

		report := engine.Analyze(logging.WithContext(ctx, logger), docs, engine.Options{
			Config:         cfg,
			SuppressedKeys: suppressed,
		})

		if err := db.SaveReport(ctx, report); err != nil {
			return fmt.Errorf("could not archive report: %w", err)
		}
		if err := db.SaveDocuments(ctx, report.RunID, docs); err != nil {
			return fmt.Errorf("could not archive documents: %w", err)
		}

		logger.Info().
			Str("run_id", report.RunID).
			Int("documents", report.Documents.Total).
			Int("alerts", len(report.Alerts)).
			Int("risk_score", report.Risk.Score).
			Msg("run archived")
		fmt.Printf("Archived run %s: %d alerts, risk %d (%s)\n",
			report.RunID, len(report.Alerts), report.Risk.Score, report.Risk.Level)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
