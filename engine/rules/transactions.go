package rules

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mlagarde/ledgerlens/engine/alert"
	"github.com/mlagarde/ledgerlens/engine/normalize"
)

// nonBusinessDay flags statement and ledger records dated on a weekend or a
// French public holiday. Informational only.
func nonBusinessDay(ctx Context) []alert.Alert {
	var alerts []alert.Alert
	for _, tx := range append(append([]normalize.Transaction{}, ctx.Bank...), ctx.Ledger...) {
		if !tx.NonBusinessDay {
			continue
		}
		alerts = append(alerts, alert.New(
			alert.TypeNonBusinessDay,
			alert.PriorityLow,
			"Opération un jour non ouvré",
			fmt.Sprintf("L'opération %q est datée du %s, un jour non ouvré.",
				tx.Description, formatDate(tx)),
			ctx.Now,
		).WithSource(tx.SourceDocumentID, tx.SourceFileName).
			WithAmount(tx.AbsAmount()))
	}
	return alerts
}

// largeTransactions screens every normalized record against the large and
// critical amount thresholds.
func largeTransactions(ctx Context) []alert.Alert {
	var alerts []alert.Alert
	for _, tx := range allTransactions(ctx) {
		if !tx.Amount.Valid {
			continue
		}
		abs := tx.AbsAmount()
		if abs.LessThanOrEqual(ctx.Config.LargeAmountThreshold) {
			continue
		}
		priority := alert.PriorityMedium
		if abs.GreaterThan(ctx.Config.CriticalAmountThreshold) {
			priority = alert.PriorityHigh
		}
		alerts = append(alerts, alert.New(
			alert.TypeLargeTransaction,
			priority,
			"Montant élevé",
			fmt.Sprintf("%q porte sur %s €, au-dessus du seuil de vigilance.",
				tx.Description, abs.StringFixed(2)),
			ctx.Now,
		).WithSource(tx.SourceDocumentID, tx.SourceFileName).
			WithReference(tx.Reference).
			WithAmount(abs))
	}
	return alerts
}

var thousand = decimal.NewFromInt(1000)

// suspiciousAmounts flags invoice and check amounts that are exact multiples
// of 1000 euros, a common marker of fabricated figures.
func suspiciousAmounts(ctx Context) []alert.Alert {
	var alerts []alert.Alert
	for _, tx := range append(append([]normalize.Transaction{}, ctx.Invoices...), ctx.Checks...) {
		if !tx.Amount.Valid {
			continue
		}
		abs := tx.AbsAmount()
		if abs.LessThan(thousand) || !abs.Mod(thousand).IsZero() {
			continue
		}
		alerts = append(alerts, alert.New(
			alert.TypeRoundAmount,
			alert.PriorityMedium,
			"Montant rond suspect",
			fmt.Sprintf("%q porte sur un montant rond de %s €.", tx.Description, abs.StringFixed(2)),
			ctx.Now,
		).WithSource(tx.SourceDocumentID, tx.SourceFileName).
			WithReference(tx.Reference).
			WithAmount(abs))
	}
	return alerts
}

// staleAfterYears is the age past which an invoice or check date is
// considered stale.
const staleAfterYears = 2

// documentDates screens invoice and check dates for impossible values: dated
// in the future, or so old the document cannot still be in flight.
func documentDates(ctx Context) []alert.Alert {
	var alerts []alert.Alert
	staleBefore := ctx.Now.AddDate(-staleAfterYears, 0, 0)

	for _, tx := range append(append([]normalize.Transaction{}, ctx.Invoices...), ctx.Checks...) {
		if !tx.HasDate() {
			continue
		}
		switch {
		case tx.Date.After(ctx.Now):
			alerts = append(alerts, alert.New(
				alert.TypeFutureDate,
				alert.PriorityMedium,
				"Date future",
				fmt.Sprintf("%q est daté du %s, postérieur à la date d'analyse.",
					tx.Description, formatDate(tx)),
				ctx.Now,
			).WithSource(tx.SourceDocumentID, tx.SourceFileName).
				WithReference(tx.Reference))
		case tx.Date.Before(staleBefore):
			alerts = append(alerts, alert.New(
				alert.TypeStaleDocument,
				alert.PriorityLow,
				"Document ancien",
				fmt.Sprintf("%q est daté du %s, plus de %d ans avant la date d'analyse.",
					tx.Description, formatDate(tx), staleAfterYears),
				ctx.Now,
			).WithSource(tx.SourceDocumentID, tx.SourceFileName).
				WithReference(tx.Reference))
		}
	}
	return alerts
}

func allTransactions(ctx Context) []normalize.Transaction {
	all := make([]normalize.Transaction, 0,
		len(ctx.Bank)+len(ctx.Ledger)+len(ctx.Invoices)+len(ctx.Checks))
	all = append(all, ctx.Bank...)
	all = append(all, ctx.Ledger...)
	all = append(all, ctx.Invoices...)
	all = append(all, ctx.Checks...)
	return all
}
