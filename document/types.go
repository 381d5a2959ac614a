// Package document models the per-document records produced by the upstream
// extraction step: descriptors coming from the document store, and the four
// content families (facture, cheque, releve, grandlivre). Key-name aliases
// used by different extraction revisions are resolved here and nowhere else.
package document

// Type identifies one of the four supported document families.
type Type string

const (
	TypeInvoice       Type = "facture"
	TypeCheck         Type = "cheque"
	TypeBankStatement Type = "releve"
	TypeLedger        Type = "grandlivre"
)

// Valid reports whether t is one of the four known families.
func (t Type) Valid() bool {
	switch t {
	case TypeInvoice, TypeCheck, TypeBankStatement, TypeLedger:
		return true
	}
	return false
}

// Status is the processing state reported by the document store.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Document is the descriptor supplied by the external document store,
// optionally carrying decoded content for completed documents.
type Document struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Type       Type     `json:"type"`
	Status     Status   `json:"status"`
	OutputPath string   `json:"output_path,omitempty"`
	Content    *Content `json:"content,omitempty"`
	LoadError  string   `json:"load_error,omitempty"`
}

// Content is the closed union of the four per-family content shapes.
// Exactly one field is non-nil for a successfully decoded document.
type Content struct {
	Invoice       *Invoice       `json:"invoice,omitempty"`
	Check         *Check         `json:"check,omitempty"`
	BankStatement *BankStatement `json:"bank_statement,omitempty"`
	Ledger        *Ledger        `json:"ledger,omitempty"`
}

// Invoice mirrors the facture extraction output. Scalar values are kept as
// raw strings; parsing them is the normalizer's job.
type Invoice struct {
	CompanyName  string        `json:"company_name"`
	Number       string        `json:"number"`
	BillingDate  string        `json:"billing_date"`
	DueDate      string        `json:"due_date"`
	ClientName   string        `json:"client_name"`
	TotalInclVAT string        `json:"total_incl_vat"`
	Lines        []InvoiceLine `json:"lines,omitempty"`
}

// InvoiceLine is one row of the invoice detail table.
type InvoiceLine struct {
	Description  string `json:"description"`
	Date         string `json:"date"`
	VAT          string `json:"vat"`
	AmountExcl   string `json:"amount_excl_vat"`
	TotalInclVAT string `json:"total_incl_vat"`
}

// Check mirrors the cheque extraction output.
type Check struct {
	Number        string `json:"number"`
	Amount        string `json:"amount"`
	Bank          string `json:"bank"`
	Issuer        string `json:"issuer"`
	Payee         string `json:"payee"`
	Date          string `json:"date"`
	AccountNumber string `json:"account_number"`
}

// BankStatement mirrors the relevé extraction output.
type BankStatement struct {
	Operations []Operation `json:"operations"`
}

// Operation is one bank statement line.
type Operation struct {
	Date   string `json:"date"`
	Label  string `json:"label"`
	Amount string `json:"amount"`
}

// Ledger mirrors the grand livre extraction output.
type Ledger struct {
	Entries []LedgerEntry `json:"entries"`
}

// LedgerEntry is one posting of the general ledger. Blank debit/credit cells
// are kept blank here; the normalizer nets them as zero.
type LedgerEntry struct {
	Account string `json:"account"`
	Label   string `json:"label"`
	Date    string `json:"date"`
	Debit   string `json:"debit"`
	Credit  string `json:"credit"`
}
