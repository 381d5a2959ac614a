package document

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Key aliases produced by the different extraction revisions. Resolution
// happens here only; downstream code sees the canonical field names.
var (
	paymentBlockKeys = []string{"info payment", "info_payment", "payment"}
	ledgerListKeys   = []string{"ecritures_comptables", "ecritures", "lignes"}
	accountKeys      = []string{"n° compte", "numero_compte", "compte", "N° Compte"}
	labelKeys        = []string{"libellé", "libelle", "description", "Libellé", "nature"}
	dateKeys         = []string{"date", "Date", "DATE"}
	debitKeys        = []string{"débit", "debit", "DÉBIT"}
	creditKeys       = []string{"crédit", "credit", "CRÉDIT"}
	amountKeys       = []string{"montant", "Montant"}
	checkAmountKeys  = []string{"Montant du Chèque", "Montant", "montant"}
	checkNumberKeys  = []string{"Numéro de Chèque", "numero_cheque", "Numéro de Cheque"}
)

// DecodeContent parses raw extraction JSON for a document of the given type.
// Numbers are preserved verbatim (json.Number) so that amount parsing stays
// a normalizer concern.
func DecodeContent(t Type, data []byte) (*Content, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode %s content: %w", t, err)
	}

	switch t {
	case TypeInvoice:
		return &Content{Invoice: decodeInvoice(raw)}, nil
	case TypeCheck:
		return &Content{Check: decodeCheck(raw)}, nil
	case TypeBankStatement:
		stmt, err := decodeBankStatement(raw)
		if err != nil {
			return nil, err
		}
		return &Content{BankStatement: stmt}, nil
	case TypeLedger:
		ledger, err := decodeLedger(raw)
		if err != nil {
			return nil, err
		}
		return &Content{Ledger: ledger}, nil
	default:
		return nil, fmt.Errorf("unsupported document type %q", t)
	}
}

func decodeInvoice(raw map[string]any) *Invoice {
	inv := &Invoice{
		CompanyName: stringField(raw, "Nom Societe", "nom_societe"),
	}

	if payment := mapField(raw, paymentBlockKeys...); payment != nil {
		inv.Number = stringField(payment, "Numéro Facture", "numero_facture")
		inv.BillingDate = stringField(payment, "Date Facturation", "date_facturation")
		inv.DueDate = stringField(payment, "Date Echeance", "date_echeance")
		inv.ClientName = stringField(payment, "Nom du Client", "nom_du_client")
		inv.TotalInclVAT = stringField(payment, "Total TTC", "total_ttc")
	}

	for _, item := range listField(raw, "table") {
		row, ok := item.(map[string]any)
		if !ok {
			continue
		}
		inv.Lines = append(inv.Lines, InvoiceLine{
			Description:  stringField(row, "Description", "description"),
			Date:         stringField(row, dateKeys...),
			VAT:          stringField(row, "TVA", "tva"),
			AmountExcl:   stringField(row, "Montant HT", "montant_ht"),
			TotalInclVAT: stringField(row, "Total TTC", "total_ttc"),
		})
	}

	return inv
}

func decodeCheck(raw map[string]any) *Check {
	return &Check{
		Number:        stringField(raw, checkNumberKeys...),
		Amount:        stringField(raw, checkAmountKeys...),
		Bank:          stringField(raw, "Banque", "banque"),
		Issuer:        stringField(raw, "Emetteur", "emetteur"),
		Payee:         stringField(raw, "Destinataire", "destinataire"),
		Date:          stringField(raw, "Le", "le", "date"),
		AccountNumber: stringField(raw, "Numéro de Compte", "numero_de_compte"),
	}
}

func decodeBankStatement(raw map[string]any) (*BankStatement, error) {
	items, ok := lookup(raw, "operations")
	if !ok {
		return nil, fmt.Errorf("bank statement content has no operations list")
	}
	list, ok := items.([]any)
	if !ok {
		return nil, fmt.Errorf("bank statement operations is not a list")
	}

	stmt := &BankStatement{Operations: make([]Operation, 0, len(list))}
	for _, item := range list {
		row, ok := item.(map[string]any)
		if !ok {
			continue
		}
		stmt.Operations = append(stmt.Operations, Operation{
			Date:   stringField(row, dateKeys...),
			Label:  stringField(row, labelKeys...),
			Amount: stringField(row, amountKeys...),
		})
	}
	return stmt, nil
}

func decodeLedger(raw map[string]any) (*Ledger, error) {
	items, ok := lookup(raw, ledgerListKeys...)
	if !ok {
		return nil, fmt.Errorf("ledger content has no entries list")
	}
	list, ok := items.([]any)
	if !ok {
		return nil, fmt.Errorf("ledger entries is not a list")
	}

	ledger := &Ledger{Entries: make([]LedgerEntry, 0, len(list))}
	for _, item := range list {
		row, ok := item.(map[string]any)
		if !ok {
			continue
		}
		ledger.Entries = append(ledger.Entries, LedgerEntry{
			Account: stringField(row, accountKeys...),
			Label:   stringField(row, labelKeys...),
			Date:    stringField(row, dateKeys...),
			Debit:   stringField(row, debitKeys...),
			Credit:  stringField(row, creditKeys...),
		})
	}
	return ledger, nil
}

func lookup(m map[string]any, keys ...string) (any, bool) {
	for _, key := range keys {
		if v, ok := m[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// stringField returns the first present alias rendered as a string. Numeric
// values keep their literal JSON representation.
func stringField(m map[string]any, keys ...string) string {
	v, ok := lookup(m, keys...)
	if !ok {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		if val {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

func mapField(m map[string]any, keys ...string) map[string]any {
	v, ok := lookup(m, keys...)
	if !ok {
		return nil
	}
	if sub, ok := v.(map[string]any); ok {
		return sub
	}
	return nil
}

func listField(m map[string]any, keys ...string) []any {
	v, ok := lookup(m, keys...)
	if !ok {
		return nil
	}
	if list, ok := v.([]any); ok {
		return list
	}
	return nil
}
