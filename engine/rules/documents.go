package rules

import (
	"fmt"
	"strings"

	"github.com/mlagarde/ledgerlens/document"
	"github.com/mlagarde/ledgerlens/engine/alert"
	"github.com/mlagarde/ledgerlens/engine/normalize"
)

// documentQuality inspects each completed document's extracted content:
// unreadable output, empty record lists, unparsable field values, and
// missing required fields.
func documentQuality(ctx Context) []alert.Alert {
	var alerts []alert.Alert

	for _, doc := range ctx.Documents {
		if doc.Status != document.StatusCompleted {
			continue
		}
		if doc.LoadError != "" || doc.Content == nil {
			reason := doc.LoadError
			if reason == "" {
				reason = "contenu vide"
			}
			alerts = append(alerts, alert.New(
				alert.TypeReadError,
				alert.PriorityHigh,
				"Document illisible",
				fmt.Sprintf("Le résultat d'extraction de %s n'a pas pu être lu: %s.", doc.Name, reason),
				ctx.Now,
			).WithSource(doc.ID, doc.Name))
			continue
		}

		alerts = append(alerts, emptyDocumentAlerts(ctx, doc)...)
		alerts = append(alerts, fieldAlerts(ctx, doc)...)
	}

	return alerts
}

func emptyDocumentAlerts(ctx Context, doc document.Document) []alert.Alert {
	empty := false
	switch {
	case doc.Content.BankStatement != nil && len(doc.Content.BankStatement.Operations) == 0:
		empty = true
	case doc.Content.Ledger != nil && len(doc.Content.Ledger.Entries) == 0:
		empty = true
	}
	if !empty {
		return nil
	}
	return []alert.Alert{alert.New(
		alert.TypeEmptyDocument,
		alert.PriorityMedium,
		"Document sans écritures",
		fmt.Sprintf("%s a été traité mais ne contient aucune écriture.", doc.Name),
		ctx.Now,
	).WithSource(doc.ID, doc.Name)}
}

// requiredField is one field a document family cannot do without.
type requiredField struct {
	label string
	value string
	date  bool
	money bool
}

func fieldAlerts(ctx Context, doc document.Document) []alert.Alert {
	var fields []requiredField
	var missingType alert.Type
	var missingTitle string

	switch {
	case doc.Content.Invoice != nil:
		inv := doc.Content.Invoice
		fields = []requiredField{
			{label: "numéro", value: inv.Number},
			{label: "date de facturation", value: inv.BillingDate, date: true},
			{label: "client", value: inv.ClientName},
			{label: "montant TTC", value: inv.TotalInclVAT, money: true},
		}
		missingType = alert.TypeMissingRequiredFields
		missingTitle = "Facture incomplète"
	case doc.Content.Check != nil:
		chk := doc.Content.Check
		fields = []requiredField{
			{label: "numéro", value: chk.Number},
			{label: "date", value: chk.Date, date: true},
			{label: "bénéficiaire", value: chk.Payee},
			{label: "montant", value: chk.Amount, money: true},
		}
		missingType = alert.TypeIncompleteBankDetails
		missingTitle = "Coordonnées de chèque incomplètes"
	default:
		return nil
	}

	var missing, unparsable []string
	for _, f := range fields {
		if normalize.IsPlaceholder(f.value) {
			missing = append(missing, f.label)
			continue
		}
		switch {
		case f.date && normalize.ParseDate(f.value).IsZero():
			unparsable = append(unparsable, f.label)
		case f.money && !normalize.ParseAmount(f.value).Valid:
			unparsable = append(unparsable, f.label)
		}
	}

	var alerts []alert.Alert
	// One absent field is extraction noise; the document counts as
	// incomplete only when most of the required set is missing.
	if len(missing) > len(fields)/2 {
		alerts = append(alerts, alert.New(
			missingType,
			alert.PriorityMedium,
			missingTitle,
			fmt.Sprintf("%s: champs manquants: %s.", doc.Name, strings.Join(missing, ", ")),
			ctx.Now,
		).WithSource(doc.ID, doc.Name).
			WithExtra("missing_fields", strings.Join(missing, ",")))
	}
	if len(unparsable) > 0 {
		alerts = append(alerts, alert.New(
			alert.TypeInvalidFormat,
			alert.PriorityLow,
			"Valeurs illisibles",
			fmt.Sprintf("%s: valeurs non interprétables: %s.", doc.Name, strings.Join(unparsable, ", ")),
			ctx.Now,
		).WithSource(doc.ID, doc.Name).
			WithExtra("fields", strings.Join(unparsable, ",")))
	}
	return alerts
}

// pendingBacklogThreshold is the pending-document count past which the
// backlog itself becomes a finding.
const pendingBacklogThreshold = 5

// documentWorkflow reports on the processing pipeline: a pending backlog and
// any failed extractions.
func documentWorkflow(ctx Context) []alert.Alert {
	var alerts []alert.Alert

	pending := 0
	var failed []string
	for _, doc := range ctx.Documents {
		switch doc.Status {
		case document.StatusPending, document.StatusProcessing:
			pending++
		case document.StatusFailed:
			failed = append(failed, doc.Name)
		}
	}

	if pending > pendingBacklogThreshold {
		alerts = append(alerts, alert.New(
			alert.TypePendingDocuments,
			alert.PriorityLow,
			"Documents en attente",
			fmt.Sprintf("%d documents attendent encore leur traitement.", pending),
			ctx.Now,
		).WithExtra("pending_count", fmt.Sprintf("%d", pending)))
	}
	if len(failed) > 0 {
		alerts = append(alerts, alert.New(
			alert.TypeProcessingFailures,
			alert.PriorityMedium,
			"Extractions en échec",
			fmt.Sprintf("%d documents sont en échec de traitement: %s.",
				len(failed), strings.Join(failed, ", ")),
			ctx.Now,
		).WithExtra("failed_count", fmt.Sprintf("%d", len(failed))))
	}

	return alerts
}
