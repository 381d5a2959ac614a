package rules

import (
	"fmt"
	"strings"

	"github.com/mlagarde/ledgerlens/engine/alert"
	"github.com/mlagarde/ledgerlens/engine/match"
	"github.com/mlagarde/ledgerlens/engine/normalize"
)

// invoiceLifecycle follows each invoice through the books: it must be booked
// on a business account and settled through a monitored bank account. The
// three failure modes get three distinct alert types.
func invoiceLifecycle(ctx Context) []alert.Alert {
	tol := ctx.Tolerance()
	var alerts []alert.Alert

	business := make([]normalize.Transaction, 0, len(ctx.Ledger))
	banking := make([]normalize.Transaction, 0, len(ctx.Ledger))
	for _, tx := range ctx.Ledger {
		if ctx.Config.IsBusinessAccount(tx.Account) {
			business = append(business, tx)
		}
		if ctx.Config.IsMonitoredBankAccount(tx.Account) {
			banking = append(banking, tx)
		}
	}

	for _, inv := range ctx.Invoices {
		role := invoiceRole(ctx.Config.CompanyName, inv.CounterpartyName)
		inBusiness := hasInvoiceTrace(inv, business, tol)
		inBank := hasInvoiceTrace(inv, banking, tol)

		switch {
		case !inBusiness && !inBank:
			alerts = append(alerts, alert.New(
				alert.TypeInvoiceNotInLedger,
				alert.PriorityHigh,
				"Facture absente du grand livre",
				fmt.Sprintf("La facture %s %s(%s €) n'a aucune écriture au grand livre.",
					inv.Reference, role, inv.AbsAmount().StringFixed(2)),
				ctx.Now,
			).WithSource(inv.SourceDocumentID, inv.SourceFileName).
				WithReference(inv.Reference).
				WithAmount(inv.AbsAmount()))
		case inBusiness && !inBank:
			alerts = append(alerts, alert.New(
				alert.TypeInvoiceNotBankReconciled,
				alert.PriorityMedium,
				"Facture comptabilisée mais non réglée",
				fmt.Sprintf("La facture %s %sest enregistrée au grand livre mais aucun mouvement n'apparaît sur les comptes de trésorerie.",
					inv.Reference, role),
				ctx.Now,
			).WithSource(inv.SourceDocumentID, inv.SourceFileName).
				WithReference(inv.Reference).
				WithAmount(inv.AbsAmount()))
		case inBank && !inBusiness:
			alerts = append(alerts, alert.New(
				alert.TypeInvoiceOverReconciled,
				alert.PriorityHigh,
				"Règlement sans comptabilisation",
				fmt.Sprintf("Un mouvement de trésorerie correspond à la facture %s %smais aucune écriture n'existe sur les comptes de gestion.",
					inv.Reference, role),
				ctx.Now,
			).WithSource(inv.SourceDocumentID, inv.SourceFileName).
				WithReference(inv.Reference).
				WithAmount(inv.AbsAmount()))
		}
	}

	return alerts
}

// hasInvoiceTrace reports whether any posting in the candidate set carries
// the invoice: its number in the wording or reference, or its total within
// amount tolerance.
func hasInvoiceTrace(inv normalize.Transaction, candidates []normalize.Transaction, tol match.Tolerance) bool {
	number := strings.ToLower(inv.Reference)
	for _, cand := range candidates {
		if number != "" {
			if strings.Contains(strings.ToLower(cand.Description), number) ||
				strings.EqualFold(cand.Reference, inv.Reference) {
				return true
			}
		}
		if inv.Amount.Valid && cand.Amount.Valid &&
			match.WithinAmountTolerance(inv.AbsAmount(), cand.AbsAmount(), tol) {
			return true
		}
	}
	return false
}

// invoiceRole labels the invoice as supplier or client side relative to the
// configured company name. Returns a sentence fragment ending with a space,
// or empty when the company name is unset or matches nothing.
func invoiceRole(companyName, counterparty string) string {
	if companyName == "" || counterparty == "" {
		return ""
	}
	if strings.EqualFold(strings.TrimSpace(companyName), strings.TrimSpace(counterparty)) {
		return "fournisseur "
	}
	return "client "
}
