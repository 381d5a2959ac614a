// Package engine orchestrates one analysis run: normalize the completed
// documents, enrich descriptions with extracted references, execute the rule
// catalog, drop previously rejected findings, and score what remains.
package engine

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mlagarde/ledgerlens/document"
	"github.com/mlagarde/ledgerlens/engine/alert"
	"github.com/mlagarde/ledgerlens/engine/config"
	"github.com/mlagarde/ledgerlens/engine/normalize"
	"github.com/mlagarde/ledgerlens/engine/refextract"
	"github.com/mlagarde/ledgerlens/engine/rules"
	"github.com/mlagarde/ledgerlens/engine/score"
	"github.com/mlagarde/ledgerlens/logging"
)

// Options tunes one analysis run. The zero value is usable: current time,
// default configuration, nothing suppressed.
type Options struct {
	Config config.Config

	// Now fixes the analysis clock; zero means time.Now.
	Now time.Time

	// SuppressedKeys holds suppression keys of alerts a reviewer rejected in
	// earlier runs. Matching alerts are counted but not reported.
	SuppressedKeys map[string]bool
}

// DocumentCounts breaks the input batch down by processing status and by
// document family.
type DocumentCounts struct {
	Total     int                   `json:"total"`
	Completed int                   `json:"completed"`
	Pending   int                   `json:"pending"`
	Failed    int                   `json:"failed"`
	ByType    map[document.Type]int `json:"by_type"`
}

// AlertCounts breaks the reported alerts down by priority.
type AlertCounts struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// FamilyTotals sums ledger debits and credits per account family of the
// French chart of accounts, as configured by the account prefixes.
type FamilyTotals struct {
	Family      string          `json:"family"`
	EntryCount  int             `json:"entry_count"`
	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
}

// TransactionCounts breaks the normalized records down by origin.
type TransactionCounts struct {
	BankStatement int `json:"bank_statement"`
	Ledger        int `json:"ledger"`
	Invoices      int `json:"invoices"`
	Checks        int `json:"checks"`
}

// Report is the complete result of one analysis run.
type Report struct {
	RunID           string               `json:"run_id"`
	GeneratedAt     time.Time            `json:"generated_at"`
	Documents       DocumentCounts       `json:"documents"`
	Transactions    TransactionCounts    `json:"transactions"`
	LedgerTotals    []rules.LedgerTotals `json:"ledger_totals,omitempty"`
	AccountFamilies []FamilyTotals       `json:"account_families,omitempty"`
	Alerts          []alert.Alert        `json:"alerts"`
	AlertCounts     AlertCounts          `json:"alert_counts"`
	Suppressed      int                  `json:"suppressed_alerts"`
	Risk            score.RiskScore      `json:"risk"`
}

// Analyze runs the full pipeline over the document batch.
func Analyze(ctx context.Context, docs []document.Document, opts Options) Report {
	logger := logging.FromContext(ctx)
	now := opts.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		logger.Warn().Err(err).Msg("invalid configuration, falling back to defaults")
		cfg = config.Default()
	}

	ruleCtx := rules.Context{
		Now:       now,
		Config:    cfg,
		Documents: docs,
	}

	counts := DocumentCounts{Total: len(docs), ByType: make(map[document.Type]int)}
	for _, doc := range docs {
		counts.ByType[doc.Type]++
		switch doc.Status {
		case document.StatusCompleted:
			counts.Completed++
		case document.StatusFailed:
			counts.Failed++
		default:
			counts.Pending++
		}
		if doc.Status != document.StatusCompleted {
			continue
		}

		txs := enrich(normalize.Document(doc))
		switch doc.Type {
		case document.TypeBankStatement:
			ruleCtx.Bank = append(ruleCtx.Bank, txs...)
		case document.TypeLedger:
			ruleCtx.Ledger = append(ruleCtx.Ledger, txs...)
			ruleCtx.LedgerDocs = append(ruleCtx.LedgerDocs, ledgerTotals(doc, txs))
		case document.TypeInvoice:
			ruleCtx.Invoices = append(ruleCtx.Invoices, txs...)
		case document.TypeCheck:
			ruleCtx.Checks = append(ruleCtx.Checks, txs...)
		}
	}

	logger.Info().
		Int("documents", counts.Total).
		Int("completed", counts.Completed).
		Msg("analysis started")

	alerts := rules.RunAll(ruleCtx, logger)
	alerts, suppressed := applySuppressions(alerts, opts.SuppressedKeys)
	alert.Renumber(alerts)

	risk := score.Compute(alerts, counts.Completed, cfg)

	logger.Info().
		Int("alerts", len(alerts)).
		Int("suppressed", suppressed).
		Int("risk_score", risk.Score).
		Str("risk_level", string(risk.Level)).
		Msg("analysis done")

	return Report{
		RunID:       uuid.NewString(),
		GeneratedAt: now,
		Documents:   counts,
		Transactions: TransactionCounts{
			BankStatement: len(ruleCtx.Bank),
			Ledger:        len(ruleCtx.Ledger),
			Invoices:      len(ruleCtx.Invoices),
			Checks:        len(ruleCtx.Checks),
		},
		LedgerTotals:    ruleCtx.LedgerDocs,
		AccountFamilies: familyTotals(ruleCtx.Ledger, cfg),
		Alerts:          alerts,
		AlertCounts:     countAlerts(alerts),
		Suppressed:      suppressed,
		Risk:            risk,
	}
}

func countAlerts(alerts []alert.Alert) AlertCounts {
	var counts AlertCounts
	for _, a := range alerts {
		switch a.Priority {
		case alert.PriorityHigh:
			counts.High++
		case alert.PriorityMedium:
			counts.Medium++
		default:
			counts.Low++
		}
	}
	return counts
}

// familyTotals aggregates ledger postings per account family, in a fixed
// reporting order.
func familyTotals(ledger []normalize.Transaction, cfg config.Config) []FamilyTotals {
	if len(ledger) == 0 {
		return nil
	}

	families := []struct {
		name     string
		prefixes []string
	}{
		{"banque", cfg.MonitoredBankAccounts},
		{"clients", cfg.ReceivablePrefixes},
		{"fournisseurs", cfg.PayablePrefixes},
		{"tva", cfg.VATPrefixes},
		{"charges", cfg.ExpensePrefixes},
	}

	totals := make([]FamilyTotals, len(families))
	for i, family := range families {
		totals[i].Family = family.name
	}

	for _, tx := range ledger {
		for i, family := range families {
			if !hasAnyPrefix(tx.Account, family.prefixes) {
				continue
			}
			totals[i].EntryCount++
			totals[i].TotalDebit = totals[i].TotalDebit.Add(tx.Debit)
			totals[i].TotalCredit = totals[i].TotalCredit.Add(tx.Credit)
			break
		}
	}

	kept := totals[:0]
	for _, t := range totals {
		if t.EntryCount > 0 {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return kept
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if prefix != "" && strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}

// enrich backfills reference and counterparty from the description for
// records whose source had no dedicated field. Existing values are kept.
func enrich(txs []normalize.Transaction) []normalize.Transaction {
	for i := range txs {
		reference, counterparty := refextract.Extract(txs[i].Description)
		if txs[i].Reference == "" {
			txs[i].Reference = reference
		}
		if txs[i].CounterpartyName == "" {
			txs[i].CounterpartyName = counterparty
		}
	}
	return txs
}

func ledgerTotals(doc document.Document, txs []normalize.Transaction) rules.LedgerTotals {
	totals := rules.LedgerTotals{
		DocumentID: doc.ID,
		SourceFile: doc.Name,
		EntryCount: len(txs),
	}
	for _, tx := range txs {
		totals.TotalDebit = totals.TotalDebit.Add(tx.Debit)
		totals.TotalCredit = totals.TotalCredit.Add(tx.Credit)
	}
	return totals
}

func applySuppressions(alerts []alert.Alert, suppressed map[string]bool) ([]alert.Alert, int) {
	if len(suppressed) == 0 {
		return alerts, 0
	}
	kept := alerts[:0]
	dropped := 0
	for _, a := range alerts {
		if suppressed[a.SuppressionKey()] {
			dropped++
			continue
		}
		kept = append(kept, a)
	}
	return kept, dropped
}
