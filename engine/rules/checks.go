package rules

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mlagarde/ledgerlens/engine/alert"
	"github.com/mlagarde/ledgerlens/engine/match"
	"github.com/mlagarde/ledgerlens/engine/normalize"
)

// checkLifecycle verifies each check exists on both legs of its ledger
// journey: an emission posting on a business account and a cashing posting
// on a monitored bank account, with consistent amounts.
func checkLifecycle(ctx Context) []alert.Alert {
	tol := ctx.Tolerance()
	var alerts []alert.Alert

	for _, chk := range ctx.Checks {
		if chk.Reference == "" {
			continue
		}
		emission := checkPostings(chk, ctx.Ledger, ctx.Config.IsBusinessAccount)
		cashing := checkPostings(chk, ctx.Ledger, ctx.Config.IsMonitoredBankAccount)

		switch {
		case len(emission) == 0 && len(cashing) == 0:
			alerts = append(alerts, alert.New(
				alert.TypeCheckNotInLedger,
				alert.PriorityHigh,
				"Chèque absent du grand livre",
				fmt.Sprintf("Le chèque n°%s (%s €) n'apparaît nulle part au grand livre.",
					chk.Reference, chk.AbsAmount().StringFixed(2)),
				ctx.Now,
			).WithSource(chk.SourceDocumentID, chk.SourceFileName).
				WithReference(chk.Reference).
				WithAmount(chk.AbsAmount()))
			continue
		case len(emission) > 0 && len(cashing) == 0:
			alerts = append(alerts, alert.New(
				alert.TypeCheckNotCashed,
				alert.PriorityMedium,
				"Chèque émis non encaissé",
				fmt.Sprintf("Le chèque n°%s est comptabilisé à l'émission mais aucun mouvement de trésorerie ne le solde.",
					chk.Reference),
				ctx.Now,
			).WithSource(chk.SourceDocumentID, chk.SourceFileName).
				WithReference(chk.Reference).
				WithAmount(chk.AbsAmount()))
			continue
		case len(cashing) > 0 && len(emission) == 0:
			alerts = append(alerts, alert.New(
				alert.TypeCheckNotEmitted,
				alert.PriorityHigh,
				"Chèque encaissé sans émission",
				fmt.Sprintf("Le chèque n°%s est passé en trésorerie sans écriture d'émission correspondante.",
					chk.Reference),
				ctx.Now,
			).WithSource(chk.SourceDocumentID, chk.SourceFileName).
				WithReference(chk.Reference).
				WithAmount(chk.AbsAmount()))
			continue
		}

		emitted := sumAbs(emission)
		cashed := sumAbs(cashing)
		if match.WithinAmountTolerance(emitted, cashed, tol) {
			continue
		}
		alerts = append(alerts, alert.New(
			alert.TypeCheckAmountMismatch,
			alert.PriorityMedium,
			"Montants de chèque incohérents",
			fmt.Sprintf("Le chèque n°%s est émis pour %s € mais encaissé pour %s €.",
				chk.Reference, emitted.StringFixed(2), cashed.StringFixed(2)),
			ctx.Now,
		).WithSource(chk.SourceDocumentID, chk.SourceFileName).
			WithReference(chk.Reference).
			WithAmount(emitted.Sub(cashed).Abs()))
	}

	return alerts
}

// checkPostings returns the ledger postings that mention the check number
// and sit on an account accepted by the filter.
func checkPostings(chk normalize.Transaction, ledger []normalize.Transaction, accept func(string) bool) []normalize.Transaction {
	number := strings.ToLower(chk.Reference)
	var postings []normalize.Transaction
	for _, tx := range ledger {
		if !accept(tx.Account) {
			continue
		}
		if strings.Contains(strings.ToLower(tx.Description), number) ||
			strings.EqualFold(tx.Reference, chk.Reference) {
			postings = append(postings, tx)
		}
	}
	return postings
}

func sumAbs(txs []normalize.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		total = total.Add(tx.AbsAmount())
	}
	return total
}
