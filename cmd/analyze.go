package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mlagarde/ledgerlens/document"
	"github.com/mlagarde/ledgerlens/engine"
	"github.com/mlagarde/ledgerlens/integrations/postgres"
	"github.com/mlagarde/ledgerlens/logging"
)

var (
	analyzeAsOf   string
	analyzeOutput string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [directory]",
	Short: "Analyze a directory of extraction outputs",
	Long: `Scans a directory for extraction outputs (JSON documents, plus raw PDF
bank statements), runs the reconciliation and anomaly rules over them, and
prints the report as JSON.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := engineConfig()
		if err != nil {
			return fmt.Errorf("invalid analysis configuration: %w", err)
		}

		now := time.Time{}
		if analyzeAsOf != "" {
			now, err = time.ParseInLocation("2006-01-02", analyzeAsOf, time.UTC)
			if err != nil {
				return fmt.Errorf("invalid --as-of date %q: %w", analyzeAsOf, err)
			}
		}

		docs, err := document.LoadDir(args[0])
		if err != nil {
			return err
		}
		if len(docs) == 0 {
			return fmt.Errorf("no documents found in %s", args[0])
		}

		ctx := context.Background()
		var suppressed map[string]bool
		if dbURL := viper.GetString("server.database_url"); dbURL != "" {
			db, err := postgres.Connect(ctx, dbURL)
			if err != nil {
				return fmt.Errorf("database connection failed: %w", err)
			}
			defer db.Close()
			if err := db.EnsureSchema(ctx); err != nil {
				return fmt.Errorf("schema setup failed: %w", err)
			}
			if suppressed, err = db.SuppressedKeys(ctx); err != nil {
				return fmt.Errorf("could not load suppressions: %w", err)
			}
		}

		report := engine.Analyze(logging.WithContext(ctx, logger), docs, engine.Options{
			Config:         cfg,
			Now:            now,
			SuppressedKeys: suppressed,
		})

		out := os.Stdout
		if analyzeOutput != "" {
			f, err := os.Create(analyzeOutput)
			if err != nil {
				return fmt.Errorf("create %s: %w", analyzeOutput, err)
			}
			defer f.Close()
			out = f
		}

		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeAsOf, "as-of", "", "analysis date (YYYY-MM-DD, default today)")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "write the report to a file instead of stdout")
}
