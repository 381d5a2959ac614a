// Package config holds the analysis configuration: tolerance windows,
// priority thresholds, per-rule switches and account prefixes. A Config is
// built once per run by merging caller-supplied keys over the defaults and
// is replaced atomically, never mutated.
package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// Config is the flat, validated analysis configuration.
type Config struct {
	// Matching tolerances.
	MaxDateDelayDays        int             `json:"max_date_delay_days"`
	AmountTolerancePercent  float64         `json:"amount_tolerance_percentage"`
	AmountToleranceAbsolute decimal.Decimal `json:"amount_tolerance_absolute"`

	// Delay buckets driving missing-counterpart and date-discrepancy priority.
	HighPriorityDelayDays   int `json:"high_priority_delay_days"`
	MediumPriorityDelayDays int `json:"medium_priority_delay_days"`

	// Amount screens.
	LargeAmountThreshold    decimal.Decimal `json:"large_amount_threshold"`
	CriticalAmountThreshold decimal.Decimal `json:"critical_amount_threshold"`

	// Per-rule switches.
	AlertOnMissingCounterpart bool `json:"alert_on_missing_counterpart"`
	AlertOnDuplicates         bool `json:"alert_on_duplicates"`
	AlertOnAmountDiscrepancy  bool `json:"alert_on_amount_discrepancy"`
	AlertOnDateDiscrepancy    bool `json:"alert_on_date_discrepancy"`
	AlertOnNonBusinessDay     bool `json:"alert_on_non_business_day"`
	AlertOnLargeTransactions  bool `json:"alert_on_large_transactions"`
	AlertOnClosingReminders   bool `json:"alert_on_closing_reminders"`

	// Account prefixes (French chart of accounts).
	MonitoredBankAccounts []string `json:"monitored_bank_accounts"`
	PayablePrefixes       []string `json:"payable_account_prefixes"`
	ReceivablePrefixes    []string `json:"receivable_account_prefixes"`
	ExpensePrefixes       []string `json:"expense_account_prefixes"`
	VATPrefixes           []string `json:"vat_account_prefixes"`

	// Risk level thresholds, ascending: low < medium < high < critical.
	CriticalScoreThreshold int `json:"critical_threshold"`
	HighScoreThreshold     int `json:"high_threshold"`
	MediumScoreThreshold   int `json:"medium_threshold"`
	LowScoreThreshold      int `json:"low_threshold"`

	// Self identity, used to label invoices/checks as supplier vs client.
	CompanyName string `json:"company_name"`
}

// Default returns the documented default configuration.
func Default() Config {
	return Config{
		MaxDateDelayDays:        3,
		AmountTolerancePercent:  1.0,
		AmountToleranceAbsolute: decimal.NewFromFloat(0.50),

		HighPriorityDelayDays:   1,
		MediumPriorityDelayDays: 2,

		LargeAmountThreshold:    decimal.NewFromInt(1000),
		CriticalAmountThreshold: decimal.NewFromInt(10000),

		AlertOnMissingCounterpart: true,
		AlertOnDuplicates:         true,
		AlertOnAmountDiscrepancy:  true,
		AlertOnDateDiscrepancy:    true,
		AlertOnNonBusinessDay:     true,
		AlertOnLargeTransactions:  true,
		AlertOnClosingReminders:   true,

		MonitoredBankAccounts: []string{"512100", "512200", "531000", "467000"},
		PayablePrefixes:       []string{"401"},
		ReceivablePrefixes:    []string{"411"},
		ExpensePrefixes:       []string{"6"},
		VATPrefixes:           []string{"445"},

		CriticalScoreThreshold: 80,
		HighScoreThreshold:     60,
		MediumScoreThreshold:   30,
		LowScoreThreshold:      10,

		CompanyName: "",
	}
}

// setters maps each accepted flat key to its assignment. Everything the
// engine reads is listed here; a key outside this table is a misconfiguration.
var setters = map[string]func(*Config, any) error{
	"max_date_delay_days":         func(c *Config, v any) error { return toInt(&c.MaxDateDelayDays, v) },
	"amount_tolerance_percentage": func(c *Config, v any) error { return toFloat(&c.AmountTolerancePercent, v) },
	"amount_tolerance_absolute":   func(c *Config, v any) error { return toDecimal(&c.AmountToleranceAbsolute, v) },
	"high_priority_delay_days":    func(c *Config, v any) error { return toInt(&c.HighPriorityDelayDays, v) },
	"medium_priority_delay_days":  func(c *Config, v any) error { return toInt(&c.MediumPriorityDelayDays, v) },
	"large_amount_threshold":      func(c *Config, v any) error { return toDecimal(&c.LargeAmountThreshold, v) },
	"critical_amount_threshold":   func(c *Config, v any) error { return toDecimal(&c.CriticalAmountThreshold, v) },

	"alert_on_missing_counterpart": func(c *Config, v any) error { return toBool(&c.AlertOnMissingCounterpart, v) },
	"alert_on_duplicates":          func(c *Config, v any) error { return toBool(&c.AlertOnDuplicates, v) },
	"alert_on_amount_discrepancy":  func(c *Config, v any) error { return toBool(&c.AlertOnAmountDiscrepancy, v) },
	"alert_on_date_discrepancy":    func(c *Config, v any) error { return toBool(&c.AlertOnDateDiscrepancy, v) },
	"alert_on_non_business_day":    func(c *Config, v any) error { return toBool(&c.AlertOnNonBusinessDay, v) },
	"alert_on_large_transactions":  func(c *Config, v any) error { return toBool(&c.AlertOnLargeTransactions, v) },
	"alert_on_closing_reminders":   func(c *Config, v any) error { return toBool(&c.AlertOnClosingReminders, v) },

	"monitored_bank_accounts":     func(c *Config, v any) error { return toStrings(&c.MonitoredBankAccounts, v) },
	"payable_account_prefixes":    func(c *Config, v any) error { return toStrings(&c.PayablePrefixes, v) },
	"receivable_account_prefixes": func(c *Config, v any) error { return toStrings(&c.ReceivablePrefixes, v) },
	"expense_account_prefixes":    func(c *Config, v any) error { return toStrings(&c.ExpensePrefixes, v) },
	"vat_account_prefixes":        func(c *Config, v any) error { return toStrings(&c.VATPrefixes, v) },

	"critical_threshold": func(c *Config, v any) error { return toInt(&c.CriticalScoreThreshold, v) },
	"high_threshold":     func(c *Config, v any) error { return toInt(&c.HighScoreThreshold, v) },
	"medium_threshold":   func(c *Config, v any) error { return toInt(&c.MediumScoreThreshold, v) },
	"low_threshold":      func(c *Config, v any) error { return toInt(&c.LowScoreThreshold, v) },

	"company_name": func(c *Config, v any) error { return toString(&c.CompanyName, v) },
}

// FromMap merges a flat key/value map over the defaults. Unknown keys and
// unconvertible values are reported as an error; the defaults are untouched
// in that case so a bad update never half-applies.
func FromMap(values map[string]any) (Config, error) {
	cfg := Default()

	var unknown []string
	for key, value := range values {
		setter, ok := setters[strings.ToLower(key)]
		if !ok {
			unknown = append(unknown, key)
			continue
		}
		if err := setter(&cfg, value); err != nil {
			return Default(), fmt.Errorf("config key %q: %w", key, err)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return Default(), fmt.Errorf("unknown config keys: %s", strings.Join(unknown, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// Validate checks internal consistency.
func (c Config) Validate() error {
	if c.MaxDateDelayDays < 0 {
		return fmt.Errorf("max_date_delay_days must not be negative")
	}
	if c.AmountTolerancePercent < 0 {
		return fmt.Errorf("amount_tolerance_percentage must not be negative")
	}
	if c.AmountToleranceAbsolute.IsNegative() {
		return fmt.Errorf("amount_tolerance_absolute must not be negative")
	}
	if c.HighPriorityDelayDays < 0 || c.MediumPriorityDelayDays < c.HighPriorityDelayDays {
		return fmt.Errorf("priority delay days must satisfy 0 <= high <= medium")
	}
	if c.LargeAmountThreshold.IsNegative() || c.CriticalAmountThreshold.LessThan(c.LargeAmountThreshold) {
		return fmt.Errorf("amount thresholds must satisfy 0 <= large <= critical")
	}
	if c.CriticalScoreThreshold <= 0 {
		return fmt.Errorf("critical_threshold must be positive")
	}
	if !(c.LowScoreThreshold <= c.MediumScoreThreshold &&
		c.MediumScoreThreshold <= c.HighScoreThreshold &&
		c.HighScoreThreshold <= c.CriticalScoreThreshold) {
		return fmt.Errorf("score thresholds must be ascending low <= medium <= high <= critical")
	}
	return nil
}

// IsBusinessAccount reports whether the account code belongs to one of the
// payable / receivable / expense / VAT families.
func (c Config) IsBusinessAccount(account string) bool {
	return hasAnyPrefix(account, c.PayablePrefixes) ||
		hasAnyPrefix(account, c.ReceivablePrefixes) ||
		hasAnyPrefix(account, c.ExpensePrefixes) ||
		hasAnyPrefix(account, c.VATPrefixes)
}

// IsMonitoredBankAccount reports whether the account code is one of the
// monitored bank/treasury accounts.
func (c Config) IsMonitoredBankAccount(account string) bool {
	return hasAnyPrefix(account, c.MonitoredBankAccounts)
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if prefix != "" && strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}

func toInt(dst *int, v any) error {
	n, err := cast.ToIntE(v)
	if err != nil {
		return err
	}
	*dst = n
	return nil
}

func toFloat(dst *float64, v any) error {
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return err
	}
	*dst = f
	return nil
}

func toBool(dst *bool, v any) error {
	b, err := cast.ToBoolE(v)
	if err != nil {
		return err
	}
	*dst = b
	return nil
}

func toString(dst *string, v any) error {
	s, err := cast.ToStringE(v)
	if err != nil {
		return err
	}
	*dst = s
	return nil
}

func toStrings(dst *[]string, v any) error {
	list, err := cast.ToStringSliceE(v)
	if err != nil {
		return err
	}
	*dst = list
	return nil
}

func toDecimal(dst *decimal.Decimal, v any) error {
	switch val := v.(type) {
	case decimal.Decimal:
		*dst = val
		return nil
	case string:
		d, err := decimal.NewFromString(val)
		if err != nil {
			return err
		}
		*dst = d
		return nil
	default:
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return err
		}
		*dst = decimal.NewFromFloat(f)
		return nil
	}
}
