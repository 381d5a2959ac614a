// Package normalize turns raw per-document records into canonical
// transactions: amount strings in mixed separator conventions, dates in
// mixed calendar formats, and free-text descriptions all come out in one
// shape the matcher and rules can compare.
package normalize

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mlagarde/ledgerlens/document"
)

// Origin identifies which document family a transaction came from.
type Origin string

const (
	OriginBankStatement Origin = "bank_statement"
	OriginLedger        Origin = "ledger"
	OriginInvoice       Origin = "invoice"
	OriginCheck         Origin = "check"
)

// Transaction is the canonical record every rule and the matcher operate on.
// A zero Date means the source date was absent or unparsable; an invalid
// Amount likewise. Values are never fabricated to fill a gap.
type Transaction struct {
	Date              time.Time           `json:"date,omitzero"`
	Amount            decimal.NullDecimal `json:"amount"`
	Description       string              `json:"description"`
	Reference         string              `json:"reference,omitempty"`
	CounterpartyName  string              `json:"counterparty_name,omitempty"`
	Account           string              `json:"account,omitempty"`
	Origin            Origin              `json:"origin"`
	SourceDocumentID  string              `json:"source_document_id"`
	SourceFileName    string              `json:"source_file_name"`
	NonBusinessDay    bool                `json:"non_business_day"`
	FeesOrMaintenance bool                `json:"fees_or_maintenance,omitempty"`

	// Ledger postings keep their raw debit/credit columns for netting and
	// for the check emission/cashing rules. Blank cells are zero.
	Debit  decimal.Decimal `json:"debit,omitempty"`
	Credit decimal.Decimal `json:"credit,omitempty"`
}

// HasDate reports whether the transaction carries a usable date.
func (t Transaction) HasDate() bool {
	return !t.Date.IsZero()
}

// AbsAmount returns |amount|, or zero when the amount is absent.
func (t Transaction) AbsAmount() decimal.Decimal {
	if !t.Amount.Valid {
		return decimal.Zero
	}
	return t.Amount.Decimal.Abs()
}

type normalizer func(document.Document) []Transaction

// normalizers dispatches per document family.
var normalizers = map[document.Type]normalizer{
	document.TypeBankStatement: bankStatementTransactions,
	document.TypeLedger:        ledgerTransactions,
	document.TypeInvoice:       invoiceTransactions,
	document.TypeCheck:         checkTransactions,
}

// Document returns the canonical transactions for one decoded document.
// Documents without content yield nothing; the read-error rule reports them.
func Document(doc document.Document) []Transaction {
	if doc.Content == nil {
		return nil
	}
	fn, ok := normalizers[doc.Type]
	if !ok {
		return nil
	}
	return fn(doc)
}

func bankStatementTransactions(doc document.Document) []Transaction {
	stmt := doc.Content.BankStatement
	if stmt == nil {
		return nil
	}

	txs := make([]Transaction, 0, len(stmt.Operations))
	for _, op := range stmt.Operations {
		date := ParseDate(op.Date)
		desc := CleanDescription(op.Label)
		txs = append(txs, Transaction{
			Date:              date,
			Amount:            ParseAmount(op.Amount),
			Description:       desc,
			Origin:            OriginBankStatement,
			SourceDocumentID:  doc.ID,
			SourceFileName:    doc.Name,
			NonBusinessDay:    IsNonBusinessDay(date),
			FeesOrMaintenance: IsFeesOrMaintenance(desc),
		})
	}
	return txs
}

func ledgerTransactions(doc document.Document) []Transaction {
	ledger := doc.Content.Ledger
	if ledger == nil {
		return nil
	}

	txs := make([]Transaction, 0, len(ledger.Entries))
	for _, entry := range ledger.Entries {
		date := ParseDate(entry.Date)
		desc := CleanDescription(entry.Label)
		// A blank ledger cell is conventionally zero, unlike every other
		// amount field in the system.
		debit := ParseAmountOrZero(entry.Debit)
		credit := ParseAmountOrZero(entry.Credit)
		net := debit.Sub(credit)

		txs = append(txs, Transaction{
			Date:              date,
			Amount:            decimal.NullDecimal{Decimal: net, Valid: true},
			Description:       desc,
			Account:           CleanDescription(entry.Account),
			Origin:            OriginLedger,
			SourceDocumentID:  doc.ID,
			SourceFileName:    doc.Name,
			NonBusinessDay:    IsNonBusinessDay(date),
			FeesOrMaintenance: IsFeesOrMaintenance(desc),
			Debit:             debit,
			Credit:            credit,
		})
	}
	return txs
}

func invoiceTransactions(doc document.Document) []Transaction {
	inv := doc.Content.Invoice
	if inv == nil {
		return nil
	}

	date := ParseDate(inv.BillingDate)
	desc := CleanDescription("Facture " + inv.Number + " - " + inv.ClientName)
	return []Transaction{{
		Date:             date,
		Amount:           ParseAmount(inv.TotalInclVAT),
		Description:      desc,
		Reference:        CleanDescription(inv.Number),
		CounterpartyName: CleanDescription(inv.ClientName),
		Origin:           OriginInvoice,
		SourceDocumentID: doc.ID,
		SourceFileName:   doc.Name,
		NonBusinessDay:   IsNonBusinessDay(date),
	}}
}

func checkTransactions(doc document.Document) []Transaction {
	chk := doc.Content.Check
	if chk == nil {
		return nil
	}

	date := ParseDate(chk.Date)
	desc := CleanDescription("Chèque " + chk.Number + " - " + chk.Payee)
	return []Transaction{{
		Date:             date,
		Amount:           ParseAmount(chk.Amount),
		Description:      desc,
		Reference:        CleanDescription(chk.Number),
		CounterpartyName: CleanDescription(chk.Payee),
		Account:          CleanDescription(chk.AccountNumber),
		Origin:           OriginCheck,
		SourceDocumentID: doc.ID,
		SourceFileName:   doc.Name,
		NonBusinessDay:   IsNonBusinessDay(date),
	}}
}
