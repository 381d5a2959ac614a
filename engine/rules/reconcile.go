package rules

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mlagarde/ledgerlens/engine/alert"
	"github.com/mlagarde/ledgerlens/engine/match"
	"github.com/mlagarde/ledgerlens/engine/normalize"
)

// missingCounterpart cross-checks the bank statement against the ledger in
// both directions. On the ledger side only postings on monitored bank
// accounts are expected to appear on the statement; fee and maintenance
// lines are exempt on both sides because banks book them without a ledger
// counterpart until period close.
func missingCounterpart(ctx Context) []alert.Alert {
	tol := ctx.Tolerance()
	var alerts []alert.Alert

	monitored := make([]normalize.Transaction, 0, len(ctx.Ledger))
	for _, tx := range ctx.Ledger {
		if ctx.Config.IsMonitoredBankAccount(tx.Account) {
			monitored = append(monitored, tx)
		}
	}

	for _, tx := range ctx.Bank {
		if tx.FeesOrMaintenance {
			continue
		}
		if match.FindCorrespondence(tx, ctx.Ledger, tol).Matched() {
			continue
		}
		alerts = append(alerts, alert.New(
			alert.TypeMissingCounterpart,
			ctx.agePriority(tx.Date),
			"Opération bancaire sans contrepartie",
			fmt.Sprintf("L'opération bancaire %q du %s n'a aucune écriture comptable correspondante.",
				tx.Description, formatDate(tx)),
			ctx.Now,
		).WithSource(tx.SourceDocumentID, tx.SourceFileName).
			WithReference(tx.Reference).
			WithAmount(tx.AbsAmount()))
	}

	for _, tx := range monitored {
		if tx.FeesOrMaintenance {
			continue
		}
		if match.FindCorrespondence(tx, ctx.Bank, tol).Matched() {
			continue
		}
		alerts = append(alerts, alert.New(
			alert.TypeMissingCounterpart,
			ctx.agePriority(tx.Date),
			"Écriture comptable absente du relevé",
			fmt.Sprintf("L'écriture %q du %s sur le compte %s n'apparaît pas sur le relevé bancaire.",
				tx.Description, formatDate(tx), tx.Account),
			ctx.Now,
		).WithSource(tx.SourceDocumentID, tx.SourceFileName).
			WithReference(tx.Reference).
			WithAmount(tx.AbsAmount()))
	}

	return alerts
}

// duplicateEntries flags groups of same-day, same-amount, same-wording
// records within the statement and within the ledger. One alert per group.
func duplicateEntries(ctx Context) []alert.Alert {
	var alerts []alert.Alert

	for _, set := range []struct {
		label string
		txs   []normalize.Transaction
	}{
		{"relevé bancaire", ctx.Bank},
		{"grand livre", ctx.Ledger},
	} {
		for _, group := range match.DuplicateGroups(set.txs) {
			first := group[0]
			alerts = append(alerts, alert.New(
				alert.TypeDuplicateEntries,
				alert.PriorityMedium,
				"Écritures en double",
				fmt.Sprintf("%d écritures identiques dans le %s: %q le %s.",
					len(group), set.label, first.Description, formatDate(first)),
				ctx.Now,
			).WithSource(first.SourceDocumentID, first.SourceFileName).
				WithAmount(first.AbsAmount()).
				WithExtra("occurrences", fmt.Sprintf("%d", len(group))))
		}
	}

	return alerts
}

// criticalDiscrepancyMultiple escalates an amount discrepancy to high
// priority once the delta passes this multiple of the absolute tolerance.
const criticalDiscrepancyMultiple = 10

// amountDiscrepancy inspects reference-matched bank/ledger pairs whose
// amounts disagree beyond both tolerances.
func amountDiscrepancy(ctx Context) []alert.Alert {
	tol := ctx.Tolerance()
	var alerts []alert.Alert

	for _, tx := range ctx.Bank {
		if tx.Reference == "" {
			continue
		}
		result := match.FindCorrespondence(tx, ctx.Ledger, tol)
		if result.Type != match.TypeExactReference {
			continue
		}
		other := *result.Counterpart
		if !tx.Amount.Valid || !other.Amount.Valid {
			continue
		}
		if match.WithinAmountTolerance(tx.AbsAmount(), other.AbsAmount(), tol) {
			continue
		}

		priority := alert.PriorityMedium
		if result.AmountDelta.GreaterThan(tol.AbsoluteAmount.Mul(decimal.NewFromInt(criticalDiscrepancyMultiple))) {
			priority = alert.PriorityHigh
		}
		alerts = append(alerts, alert.New(
			alert.TypeAmountDiscrepancy,
			priority,
			"Écart de montant",
			fmt.Sprintf("La référence %s figure pour %s € sur le relevé et %s € au grand livre (écart %s €).",
				tx.Reference, tx.AbsAmount().StringFixed(2), other.AbsAmount().StringFixed(2),
				result.AmountDelta.StringFixed(2)),
			ctx.Now,
		).WithSource(tx.SourceDocumentID, tx.SourceFileName).
			WithReference(tx.Reference).
			WithAmount(result.AmountDelta))
	}

	return alerts
}

// dateDiscrepancy looks for bank lines whose amount matches a ledger posting
// but whose booking dates sit further apart than the allowed window. Lines
// already matched by reference or tolerance are left alone.
func dateDiscrepancy(ctx Context) []alert.Alert {
	tol := ctx.Tolerance()
	var alerts []alert.Alert

	for _, tx := range ctx.Bank {
		if !tx.HasDate() || !tx.Amount.Valid {
			continue
		}
		if match.FindCorrespondence(tx, ctx.Ledger, tol).Matched() {
			continue
		}

		best := -1
		bestDelta := 0
		for i, cand := range ctx.Ledger {
			if !cand.HasDate() || !cand.Amount.Valid {
				continue
			}
			if !match.WithinAmountTolerance(tx.AbsAmount(), cand.AbsAmount(), tol) {
				continue
			}
			if !sameWording(tx.Description, cand.Description) {
				continue
			}
			delta := match.DateDeltaDays(tx.Date, cand.Date)
			if best < 0 || delta < bestDelta {
				best, bestDelta = i, delta
			}
		}
		if best < 0 || bestDelta <= tol.MaxDateDelayDays {
			continue
		}

		other := ctx.Ledger[best]
		alerts = append(alerts, alert.New(
			alert.TypeDateDiscrepancy,
			ctx.delayPriority(bestDelta),
			"Écart de date",
			fmt.Sprintf("L'opération %q est datée du %s sur le relevé mais du %s au grand livre (%d jours d'écart).",
				tx.Description, formatDate(tx), formatDate(other), bestDelta),
			ctx.Now,
		).WithSource(tx.SourceDocumentID, tx.SourceFileName).
			WithReference(tx.Reference).
			WithAmount(tx.AbsAmount()).
			WithExtra("delay_days", fmt.Sprintf("%d", bestDelta)))
	}

	return alerts
}

// sameWording compares the short description prefixes two records would
// share if they were the same operation booked twice.
func sameWording(a, b string) bool {
	const n = 12
	a, b = strings.ToLower(a), strings.ToLower(b)
	if len(a) > n {
		a = a[:n]
	}
	if len(b) > n {
		b = b[:n]
	}
	return a != "" && a == b
}

func formatDate(tx normalize.Transaction) string {
	if !tx.HasDate() {
		return "date inconnue"
	}
	return tx.Date.Format("02/01/2006")
}
