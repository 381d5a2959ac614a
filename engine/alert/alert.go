// Package alert defines the typed alerts produced by the classification
// rules: the closed type catalog, priorities and their derived severities,
// the suppression key used to honor user rejections across runs, and the
// stable post-run renumbering.
package alert

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Type is a member of the closed alert catalog. Rules never invent types
// outside this list; the risk scorer weighs them by it.
type Type string

const (
	// Reconciliation between record sets.
	TypeMissingCounterpart Type = "missing_counterpart"
	TypeDuplicateEntries   Type = "duplicate_entries"
	TypeAmountDiscrepancy  Type = "amount_discrepancy"
	TypeDateDiscrepancy    Type = "date_discrepancy"

	// Single-transaction screens.
	TypeNonBusinessDay   Type = "non_business_day"
	TypeLargeTransaction Type = "large_transaction"
	TypeRoundAmount      Type = "suspicious_round_amount"
	TypeFutureDate       Type = "future_date"
	TypeStaleDocument    Type = "stale_document"

	// Invoice lifecycle.
	TypeInvoiceNotInLedger       Type = "invoice_not_in_ledger"
	TypeInvoiceNotBankReconciled Type = "invoice_not_bank_reconciled"
	TypeInvoiceOverReconciled    Type = "invoice_over_reconciled"

	// Check lifecycle.
	TypeCheckNotInLedger    Type = "check_not_in_ledger"
	TypeCheckNotCashed      Type = "check_not_cashed"
	TypeCheckNotEmitted     Type = "check_not_emitted"
	TypeCheckAmountMismatch Type = "check_amount_mismatch"

	// Ledger integrity.
	TypeLedgerImbalance Type = "ledger_imbalance"
	TypeUnusualAccount  Type = "unusual_account"
	TypeEmptyDocument   Type = "empty_document"

	// Document quality.
	TypeMissingRequiredFields Type = "missing_required_fields"
	TypeIncompleteBankDetails Type = "incomplete_bank_details"
	TypeInvalidFormat         Type = "invalid_format"
	TypeReadError             Type = "read_error"

	// Workflow and system.
	TypePendingDocuments   Type = "pending_documents"
	TypeProcessingFailures Type = "processing_failures"
	TypeSystemError        Type = "system_error"

	// Period closing reminders.
	TypeMonthEndClosing Type = "month_end_closing"
	TypeYearEndClosing  Type = "year_end_closing"
	TypeVATDeadline     Type = "vat_filing_deadline"
)

// Catalog lists every valid alert type.
var Catalog = []Type{
	TypeMissingCounterpart, TypeDuplicateEntries, TypeAmountDiscrepancy, TypeDateDiscrepancy,
	TypeNonBusinessDay, TypeLargeTransaction, TypeRoundAmount, TypeFutureDate, TypeStaleDocument,
	TypeInvoiceNotInLedger, TypeInvoiceNotBankReconciled, TypeInvoiceOverReconciled,
	TypeCheckNotInLedger, TypeCheckNotCashed, TypeCheckNotEmitted, TypeCheckAmountMismatch,
	TypeLedgerImbalance, TypeUnusualAccount, TypeEmptyDocument,
	TypeMissingRequiredFields, TypeIncompleteBankDetails, TypeInvalidFormat, TypeReadError,
	TypePendingDocuments, TypeProcessingFailures, TypeSystemError,
	TypeMonthEndClosing, TypeYearEndClosing, TypeVATDeadline,
}

var catalogSet = func() map[Type]bool {
	set := make(map[Type]bool, len(Catalog))
	for _, t := range Catalog {
		set[t] = true
	}
	return set
}()

// Known reports whether t belongs to the catalog.
func Known(t Type) bool {
	return catalogSet[t]
}

// Priority orders alerts for the reviewer.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Severity is derived from priority and only used by the risk scorer.
type Severity string

const (
	SeverityLow    Severity = "FAIBLE"
	SeverityMedium Severity = "MOYENNE"
	SeverityHigh   Severity = "HAUTE"
)

// Severity maps a priority to its scoring severity.
func (p Priority) Severity() Severity {
	switch p {
	case PriorityHigh:
		return SeverityHigh
	case PriorityMedium:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// Status is the review state of an alert. The engine always emits active
// alerts; the other states belong to the review workflow upstream.
type Status string

const (
	StatusActive    Status = "active"
	StatusValidated Status = "validated"
	StatusCorrected Status = "corrected"
	StatusRejected  Status = "rejected"
)

// Alert is one typed finding.
type Alert struct {
	ID          int               `json:"id"`
	Type        Type              `json:"type"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Priority    Priority          `json:"priority"`
	Severity    Severity          `json:"severity"`
	Date        string            `json:"date"`
	Status      Status            `json:"status"`
	DocumentID  string            `json:"document_id,omitempty"`
	SourceFile  string            `json:"source_file,omitempty"`
	Reference   string            `json:"reference,omitempty"`
	Amount      *decimal.Decimal  `json:"amount,omitempty"`
	Extra       map[string]string `json:"extra,omitempty"`
}

// New builds an active alert dated at the given creation time. IDs are
// assigned later, once every rule has run, so numbering stays stable.
func New(t Type, priority Priority, title, description string, createdAt time.Time) Alert {
	return Alert{
		Type:        t,
		Title:       title,
		Description: description,
		Priority:    priority,
		Severity:    priority.Severity(),
		Date:        createdAt.Format("2006-01-02"),
		Status:      StatusActive,
	}
}

// WithAmount attaches the triggering amount.
func (a Alert) WithAmount(amount decimal.Decimal) Alert {
	a.Amount = &amount
	return a
}

// WithSource attaches the source document.
func (a Alert) WithSource(documentID, sourceFile string) Alert {
	a.DocumentID = documentID
	a.SourceFile = sourceFile
	return a
}

// WithReference attaches the reference code that triggered the alert.
func (a Alert) WithReference(ref string) Alert {
	a.Reference = ref
	return a
}

// WithExtra attaches one type-specific detail field.
func (a Alert) WithExtra(key, value string) Alert {
	if a.Extra == nil {
		a.Extra = make(map[string]string)
	}
	a.Extra[key] = value
	return a
}

// SuppressionKey derives the stable identity used to drop alerts a user has
// rejected in a previous run: type, reference and amount.
func (a Alert) SuppressionKey() string {
	amount := ""
	if a.Amount != nil {
		amount = a.Amount.Round(2).StringFixed(2)
	}
	return fmt.Sprintf("%s|%s|%s", a.Type, strings.ToLower(a.Reference), amount)
}

// Renumber assigns sequential ids in slice order. Called once after all
// rules have produced their alerts, replacing any shared mutable counter.
func Renumber(alerts []Alert) {
	for i := range alerts {
		alerts[i].ID = i + 1
	}
}
