package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeContent_Invoice(t *testing.T) {
	data := []byte(`{
		"Nom Societe": "Ma Société SARL",
		"info payment": {
			"Numéro Facture": "FAC202401",
			"Date Facturation": "10/01/2024",
			"Nom du Client": "ACME",
			"Total TTC": "1 500,00"
		},
		"table": [
			{"Description": "Prestation", "Montant HT": "1250,00", "TVA": "20%", "Total TTC": "1500,00"}
		]
	}`)

	content, err := DecodeContent(TypeInvoice, data)
	require.NoError(t, err)
	require.NotNil(t, content.Invoice)

	inv := content.Invoice
	assert.Equal(t, "Ma Société SARL", inv.CompanyName)
	assert.Equal(t, "FAC202401", inv.Number)
	assert.Equal(t, "10/01/2024", inv.BillingDate)
	assert.Equal(t, "ACME", inv.ClientName)
	assert.Equal(t, "1 500,00", inv.TotalInclVAT)
	require.Len(t, inv.Lines, 1)
	assert.Equal(t, "Prestation", inv.Lines[0].Description)
}

func TestDecodeContent_InvoiceSnakeCaseAliases(t *testing.T) {
	data := []byte(`{
		"nom_societe": "Ma Société",
		"info_payment": {
			"numero_facture": "FAC202402",
			"date_facturation": "2024-01-12",
			"nom_du_client": "Durand",
			"total_ttc": 990.5
		}
	}`)

	content, err := DecodeContent(TypeInvoice, data)
	require.NoError(t, err)

	inv := content.Invoice
	assert.Equal(t, "FAC202402", inv.Number)
	assert.Equal(t, "990.5", inv.TotalInclVAT, "numbers keep their literal representation")
}

func TestDecodeContent_Check(t *testing.T) {
	data := []byte(`{
		"Numéro de Chèque": "1234567",
		"Montant du Chèque": "850,00",
		"Banque": "Crédit Agricole",
		"Destinataire": "Fournisseur SA",
		"Le": "12/01/2024",
		"Numéro de Compte": "512100"
	}`)

	content, err := DecodeContent(TypeCheck, data)
	require.NoError(t, err)

	chk := content.Check
	assert.Equal(t, "1234567", chk.Number)
	assert.Equal(t, "850,00", chk.Amount)
	assert.Equal(t, "Fournisseur SA", chk.Payee)
	assert.Equal(t, "12/01/2024", chk.Date)
}

func TestDecodeContent_BankStatement(t *testing.T) {
	data := []byte(`{
		"operations": [
			{"date": "15/01/2024", "libellé": "VIREMENT ACME", "montant": "1500,00"},
			{"Date": "16/01/2024", "nature": "PRLV EDF", "Montant": "-120,00"}
		]
	}`)

	content, err := DecodeContent(TypeBankStatement, data)
	require.NoError(t, err)
	require.Len(t, content.BankStatement.Operations, 2)

	assert.Equal(t, "VIREMENT ACME", content.BankStatement.Operations[0].Label)
	assert.Equal(t, "PRLV EDF", content.BankStatement.Operations[1].Label, "nature is a label alias")
}

func TestDecodeContent_BankStatementMissingOperations(t *testing.T) {
	_, err := DecodeContent(TypeBankStatement, []byte(`{"autre": true}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "operations")
}

func TestDecodeContent_LedgerAliases(t *testing.T) {
	for _, listKey := range []string{"ecritures_comptables", "ecritures", "lignes"} {
		data := []byte(`{"` + listKey + `": [
			{"n° compte": "512100", "libelle": "VIREMENT", "date": "15/01/2024", "débit": "1500,00", "crédit": ""}
		]}`)

		content, err := DecodeContent(TypeLedger, data)
		require.NoError(t, err, "list key %s", listKey)
		require.Len(t, content.Ledger.Entries, 1)

		entry := content.Ledger.Entries[0]
		assert.Equal(t, "512100", entry.Account)
		assert.Equal(t, "1500,00", entry.Debit)
		assert.Equal(t, "", entry.Credit)
	}
}

func TestDecodeContent_LedgerMissingEntries(t *testing.T) {
	_, err := DecodeContent(TypeLedger, []byte(`{}`))
	require.Error(t, err)
}

func TestDecodeContent_InvalidJSON(t *testing.T) {
	_, err := DecodeContent(TypeInvoice, []byte(`not json`))
	require.Error(t, err)
}

func TestTypeFromFilename(t *testing.T) {
	tests := []struct {
		name string
		want Type
	}{
		{"facture_202401.json", TypeInvoice},
		{"cheque_0042.json", TypeCheck},
		{"releve_janvier.json", TypeBankStatement},
		{"grand_livre_2024.json", TypeLedger},
		{"export.csv", TypeLedger},
		{"scan.pdf", TypeBankStatement},
		{"mystere.json", TypeInvoice},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TypeFromFilename(tt.name), tt.name)
	}
}
