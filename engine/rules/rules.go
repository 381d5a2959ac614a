// Package rules holds the classification rule catalog. Each rule is an
// independent, deterministic function from the analysis context to zero or
// more alerts; a rule that fails internally is recovered at its boundary and
// reported as one system-error alert so the rest of the catalog still runs.
package rules

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/mlagarde/ledgerlens/document"
	"github.com/mlagarde/ledgerlens/engine/alert"
	"github.com/mlagarde/ledgerlens/engine/config"
	"github.com/mlagarde/ledgerlens/engine/match"
	"github.com/mlagarde/ledgerlens/engine/normalize"
)

// LedgerTotals are the per-ledger-document debit/credit aggregates consumed
// by the imbalance rule and the report.
type LedgerTotals struct {
	DocumentID  string          `json:"document_id"`
	SourceFile  string          `json:"source_file"`
	EntryCount  int             `json:"entry_count"`
	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
}

// Context is the read-only input every rule sees: normalized transactions
// per origin, raw document descriptors, per-ledger aggregates, configuration
// and the analysis clock.
type Context struct {
	Now       time.Time
	Config    config.Config
	Documents []document.Document

	Bank     []normalize.Transaction
	Ledger   []normalize.Transaction
	Invoices []normalize.Transaction
	Checks   []normalize.Transaction

	LedgerDocs []LedgerTotals
}

// Tolerance derives the matcher policy from the configuration.
func (c Context) Tolerance() match.Tolerance {
	return match.Tolerance{
		MaxDateDelayDays: c.Config.MaxDateDelayDays,
		AbsoluteAmount:   c.Config.AmountToleranceAbsolute,
		PercentAmount:    c.Config.AmountTolerancePercent,
	}
}

// agePriority buckets a transaction's age for missing-counterpart alerts:
// the most recent gaps are the most actionable.
func (c Context) agePriority(txDate time.Time) alert.Priority {
	if txDate.IsZero() {
		return alert.PriorityLow
	}
	age := int(c.Now.Sub(txDate).Hours() / 24)
	switch {
	case age <= c.Config.HighPriorityDelayDays:
		return alert.PriorityHigh
	case age <= c.Config.MediumPriorityDelayDays:
		return alert.PriorityMedium
	default:
		return alert.PriorityLow
	}
}

// delayPriority buckets a date delta beyond the allowed window.
func (c Context) delayPriority(deltaDays int) alert.Priority {
	excess := deltaDays - c.Config.MaxDateDelayDays
	switch {
	case excess <= c.Config.HighPriorityDelayDays:
		return alert.PriorityLow
	case excess <= c.Config.MediumPriorityDelayDays:
		return alert.PriorityMedium
	default:
		return alert.PriorityHigh
	}
}

// Rule is one catalog entry.
type Rule struct {
	Name    string
	Enabled func(config.Config) bool
	Run     func(Context) []alert.Alert
}

func always(config.Config) bool { return true }

// Registry returns the rule catalog in execution order. Order matters only
// for the stable numbering of the resulting alerts.
func Registry() []Rule {
	return []Rule{
		{Name: "missing_counterpart", Enabled: func(c config.Config) bool { return c.AlertOnMissingCounterpart }, Run: missingCounterpart},
		{Name: "duplicate_entries", Enabled: func(c config.Config) bool { return c.AlertOnDuplicates }, Run: duplicateEntries},
		{Name: "amount_discrepancy", Enabled: func(c config.Config) bool { return c.AlertOnAmountDiscrepancy }, Run: amountDiscrepancy},
		{Name: "date_discrepancy", Enabled: func(c config.Config) bool { return c.AlertOnDateDiscrepancy }, Run: dateDiscrepancy},
		{Name: "non_business_day", Enabled: func(c config.Config) bool { return c.AlertOnNonBusinessDay }, Run: nonBusinessDay},
		{Name: "large_transactions", Enabled: func(c config.Config) bool { return c.AlertOnLargeTransactions }, Run: largeTransactions},
		{Name: "suspicious_amounts", Enabled: always, Run: suspiciousAmounts},
		{Name: "document_dates", Enabled: always, Run: documentDates},
		{Name: "invoice_lifecycle", Enabled: always, Run: invoiceLifecycle},
		{Name: "check_lifecycle", Enabled: always, Run: checkLifecycle},
		{Name: "ledger_balance", Enabled: always, Run: ledgerBalance},
		{Name: "unusual_accounts", Enabled: always, Run: unusualAccounts},
		{Name: "document_quality", Enabled: always, Run: documentQuality},
		{Name: "document_workflow", Enabled: always, Run: documentWorkflow},
		{Name: "closing_reminders", Enabled: func(c config.Config) bool { return c.AlertOnClosingReminders }, Run: closingReminders},
	}
}

// RunAll executes the catalog. Panics inside a rule become one system-error
// alert; the remaining rules still run.
func RunAll(ctx Context, logger zerolog.Logger) []alert.Alert {
	var alerts []alert.Alert

	for _, rule := range Registry() {
		if !rule.Enabled(ctx.Config) {
			logger.Debug().Str("rule", rule.Name).Msg("rule disabled")
			continue
		}
		produced := runRecovered(rule, ctx, logger)
		logger.Debug().Str("rule", rule.Name).Int("alerts", len(produced)).Msg("rule done")
		alerts = append(alerts, produced...)
	}

	return alerts
}

func runRecovered(rule Rule, ctx Context, logger zerolog.Logger) (alerts []alert.Alert) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Str("rule", rule.Name).Interface("panic", r).Msg("rule failed")
			alerts = []alert.Alert{alert.New(
				alert.TypeSystemError,
				alert.PriorityMedium,
				"Erreur système",
				fmt.Sprintf("La règle %s a échoué: %v", rule.Name, r),
				ctx.Now,
			)}
		}
	}()
	return rule.Run(ctx)
}
