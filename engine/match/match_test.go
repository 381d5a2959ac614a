package match

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlagarde/ledgerlens/engine/normalize"
)

func defaultTolerance() Tolerance {
	return Tolerance{
		MaxDateDelayDays: 3,
		AbsoluteAmount:   decimal.NewFromFloat(0.50),
		PercentAmount:    1.0,
	}
}

func tx(date string, amount float64, desc, ref string) normalize.Transaction {
	var d time.Time
	if date != "" {
		d, _ = time.ParseInLocation("2006-01-02", date, time.UTC)
	}
	return normalize.Transaction{
		Date:        d,
		Amount:      decimal.NullDecimal{Decimal: decimal.NewFromFloat(amount), Valid: true},
		Description: desc,
		Reference:   ref,
	}
}

func TestFindCorrespondence_ExactReference(t *testing.T) {
	candidates := []normalize.Transaction{
		tx("2024-01-20", 999, "autre", "FAC202499"),
		tx("2024-01-20", 1500, "règlement", "fac202401"),
	}
	result := FindCorrespondence(tx("2024-01-15", 1500, "virement", "FAC202401"), candidates, defaultTolerance())

	require.True(t, result.Matched())
	assert.Equal(t, TypeExactReference, result.Type)
	assert.Equal(t, "fac202401", result.Counterpart.Reference)
}

func TestFindCorrespondence_ReferenceBeatsTolerance(t *testing.T) {
	// A same-amount same-day candidate sits first, but the reference match
	// further down must win.
	candidates := []normalize.Transaction{
		tx("2024-01-15", 1500, "coïncidence", ""),
		tx("2024-01-17", 1480, "règlement", "FAC202401"),
	}
	result := FindCorrespondence(tx("2024-01-15", 1500, "virement", "FAC202401"), candidates, defaultTolerance())

	require.True(t, result.Matched())
	assert.Equal(t, TypeExactReference, result.Type)
}

func TestFindCorrespondence_AmountDateTolerance(t *testing.T) {
	candidates := []normalize.Transaction{
		tx("2024-01-17", 1500.40, "règlement", ""),
	}
	result := FindCorrespondence(tx("2024-01-15", 1500, "virement", ""), candidates, defaultTolerance())

	require.True(t, result.Matched())
	assert.Equal(t, TypeAmountDateTolerance, result.Type)
	assert.Equal(t, 2, result.DateDeltaDays)
}

func TestFindCorrespondence_OutsideDateWindow(t *testing.T) {
	candidates := []normalize.Transaction{
		tx("2024-01-25", 1500, "règlement", ""),
	}
	result := FindCorrespondence(tx("2024-01-15", 1500, "virement", ""), candidates, defaultTolerance())
	assert.False(t, result.Matched())
}

func TestFindCorrespondence_AbsentValuesNeverToleranceMatch(t *testing.T) {
	noAmount := normalize.Transaction{Date: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)}
	candidates := []normalize.Transaction{tx("2024-01-15", 0, "zéro", "")}
	assert.False(t, FindCorrespondence(noAmount, candidates, defaultTolerance()).Matched())
}

func TestWithinAmountTolerance_Symmetric(t *testing.T) {
	tol := defaultTolerance()
	a := decimal.NewFromFloat(1000)
	b := decimal.NewFromFloat(1008)

	assert.Equal(t,
		WithinAmountTolerance(a, b, tol),
		WithinAmountTolerance(b, a, tol),
	)
	// 8 on 1008 is under 1%, so the pair passes both ways.
	assert.True(t, WithinAmountTolerance(a, b, tol))
}

func TestWithinAmountTolerance_AbsoluteOrPercent(t *testing.T) {
	tol := defaultTolerance()

	// 0.40 delta passes the absolute tolerance even at tiny amounts.
	assert.True(t, WithinAmountTolerance(decimal.NewFromFloat(1.00), decimal.NewFromFloat(1.40), tol))
	// 60 delta on 1000 fails both.
	assert.False(t, WithinAmountTolerance(decimal.NewFromFloat(1000), decimal.NewFromFloat(1060), tol))
	// Zero against zero passes.
	assert.True(t, WithinAmountTolerance(decimal.Zero, decimal.Zero, tol))
}

func TestDateDeltaDays_ZeroDate(t *testing.T) {
	delta := DateDeltaDays(time.Time{}, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	assert.Greater(t, delta, 365*100, "zero dates must never fall inside a tolerance window")
}

func TestDuplicateGroups(t *testing.T) {
	txs := []normalize.Transaction{
		tx("2024-01-15", 100, "PRLV EDF FACTURE ELEC", ""),
		tx("2024-01-15", 100, "PRLV EDF FACTURE ELEC", ""),
		tx("2024-01-15", 100, "PRLV EDF FACTURE ELEC", ""),
		tx("2024-01-16", 100, "PRLV EDF FACTURE ELEC", ""),
		tx("2024-01-15", 200, "VIREMENT", ""),
	}

	groups := DuplicateGroups(txs)
	require.Len(t, groups, 1)
	assert.Len(t, groups[0], 3)
}

func TestDuplicateGroups_CaseInsensitiveDescription(t *testing.T) {
	txs := []normalize.Transaction{
		tx("2024-01-15", 100, "Prlv Edf", ""),
		tx("2024-01-15", 100, "PRLV EDF", ""),
	}
	assert.Len(t, DuplicateGroups(txs), 1)
}

func TestDuplicateGroups_NoDuplicates(t *testing.T) {
	txs := []normalize.Transaction{
		tx("2024-01-15", 100, "A", ""),
		tx("2024-01-16", 100, "A", ""),
	}
	assert.Empty(t, DuplicateGroups(txs))
}
