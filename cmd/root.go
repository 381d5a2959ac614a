// Package cmd wires the command line interface: configuration loading,
// logging setup, and the analyze/serve/suppress subcommands.
package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mlagarde/ledgerlens/engine/config"
	"github.com/mlagarde/ledgerlens/logging"
)

// Embedded default configuration. Every key mirrors the engine defaults so a
// bare binary behaves the same as one with a config file listing them.
const defaultConfigYAML = `
analysis:
  max_date_delay_days: 3
  amount_tolerance_percentage: 1.0
  amount_tolerance_absolute: 0.50
  high_priority_delay_days: 1
  medium_priority_delay_days: 2
  large_amount_threshold: 1000
  critical_amount_threshold: 10000
  alert_on_missing_counterpart: true
  alert_on_duplicates: true
  alert_on_amount_discrepancy: true
  alert_on_date_discrepancy: true
  alert_on_non_business_day: true
  alert_on_large_transactions: true
  alert_on_closing_reminders: true
  monitored_bank_accounts: ["512100", "512200", "531000", "467000"]
  payable_account_prefixes: ["401"]
  receivable_account_prefixes: ["411"]
  expense_account_prefixes: ["6"]
  vat_account_prefixes: ["445"]
  critical_threshold: 80
  high_threshold: 60
  medium_threshold: 30
  low_threshold: 10
  company_name: ""
server:
  addr: ":8080"
  database_url: ""
`

var (
	cfgFile string
	verbose bool
	logger  zerolog.Logger

	rootCmd = &cobra.Command{
		Use:   "ledgerlens",
		Short: "Reconcile financial documents and flag anomalies",
		Long: `ledgerlens cross-checks bank statements, general ledgers, invoices and
checks against each other, and turns the discrepancies into typed,
prioritized alerts with an aggregate risk score.`,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}
)

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initLogging)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default is ./.ledgerlens.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

func initLogging() {
	logger = logging.New(verbose)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
		viper.SetConfigName(".ledgerlens")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("LEDGERLENS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if err := viper.ReadConfig(bytes.NewBufferString(defaultConfigYAML)); err != nil {
				fmt.Printf("Error loading embedded configuration: %v\n", err)
				os.Exit(1)
			}
		} else {
			fmt.Printf("Error reading config file: %v\n", err)
			os.Exit(1)
		}
	}
}

// engineConfig builds the analysis configuration from the "analysis" section
// of whatever viper loaded.
func engineConfig() (config.Config, error) {
	values := viper.GetStringMap("analysis")
	if len(values) == 0 {
		return config.Default(), nil
	}
	return config.FromMap(values)
}
