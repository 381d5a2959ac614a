package rules

import (
	"fmt"
	"regexp"

	"github.com/mlagarde/ledgerlens/engine/alert"
)

// ledgerBalance checks the double-entry invariant per ledger document: total
// debits must equal total credits within the absolute amount tolerance.
func ledgerBalance(ctx Context) []alert.Alert {
	var alerts []alert.Alert
	for _, totals := range ctx.LedgerDocs {
		diff := totals.TotalDebit.Sub(totals.TotalCredit).Abs()
		if diff.LessThanOrEqual(ctx.Config.AmountToleranceAbsolute) {
			continue
		}
		alerts = append(alerts, alert.New(
			alert.TypeLedgerImbalance,
			alert.PriorityHigh,
			"Grand livre déséquilibré",
			fmt.Sprintf("Le grand livre %s n'est pas équilibré: débits %s €, crédits %s €, écart %s €.",
				totals.SourceFile, totals.TotalDebit.StringFixed(2),
				totals.TotalCredit.StringFixed(2), diff.StringFixed(2)),
			ctx.Now,
		).WithSource(totals.DocumentID, totals.SourceFile).
			WithAmount(diff))
	}
	return alerts
}

// knownAccount matches codes of the French chart of accounts, classes 1-7.
var knownAccount = regexp.MustCompile(`^[1-7]\d{2,}$`)

// unusualAccounts flags ledger postings whose account code does not belong
// to any class of the chart of accounts. One alert per distinct code.
func unusualAccounts(ctx Context) []alert.Alert {
	var alerts []alert.Alert
	seen := make(map[string]bool)

	for _, tx := range ctx.Ledger {
		if tx.Account == "" || knownAccount.MatchString(tx.Account) || seen[tx.Account] {
			continue
		}
		seen[tx.Account] = true
		alerts = append(alerts, alert.New(
			alert.TypeUnusualAccount,
			alert.PriorityLow,
			"Compte inhabituel",
			fmt.Sprintf("Le compte %q utilisé dans %s ne correspond à aucune classe du plan comptable.",
				tx.Account, tx.SourceFileName),
			ctx.Now,
		).WithSource(tx.SourceDocumentID, tx.SourceFileName).
			WithExtra("account", tx.Account))
	}
	return alerts
}
