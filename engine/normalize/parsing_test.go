package normalize

import (
	"testing"
	"time"
)

func TestParseAmount_SimpleNumber(t *testing.T) {
	result := ParseAmount("123.45")
	if !result.Valid {
		t.Fatal("Expected a valid amount")
	}
	if result.Decimal.String() != "123.45" {
		t.Errorf("Expected '123.45', got '%s'", result.Decimal.String())
	}
}

func TestParseAmount_FrenchConvention(t *testing.T) {
	result := ParseAmount("1 234,56 €")
	if !result.Valid {
		t.Fatal("Expected a valid amount")
	}
	if result.Decimal.String() != "1234.56" {
		t.Errorf("Expected '1234.56', got '%s'", result.Decimal.String())
	}
}

func TestParseAmount_ThousandsSeparatorOnly(t *testing.T) {
	// Three trailing digits mean a thousands marker, not a decimal point.
	result := ParseAmount("1.234")
	if !result.Valid {
		t.Fatal("Expected a valid amount")
	}
	if result.Decimal.String() != "1234" {
		t.Errorf("Expected '1234', got '%s'", result.Decimal.String())
	}
}

func TestParseAmount_MixedSeparators(t *testing.T) {
	result := ParseAmount("1.234,5")
	if !result.Valid {
		t.Fatal("Expected a valid amount")
	}
	if result.Decimal.String() != "1234.5" {
		t.Errorf("Expected '1234.5', got '%s'", result.Decimal.String())
	}
}

func TestParseAmount_Negative(t *testing.T) {
	result := ParseAmount("-250,00")
	if !result.Valid {
		t.Fatal("Expected a valid amount")
	}
	if result.Decimal.String() != "-250" {
		t.Errorf("Expected '-250', got '%s'", result.Decimal.String())
	}
}

func TestParseAmount_Idempotent(t *testing.T) {
	// Re-parsing an already-parsed amount must be a fixpoint.
	for _, raw := range []string{"123.45", "1 234,56 €", "1.234,5", "-250,00", "1.234"} {
		once := ParseAmount(raw)
		if !once.Valid {
			t.Fatalf("Expected %q to parse", raw)
		}
		twice := ParseAmount(once.Decimal.String())
		if !twice.Valid || !twice.Decimal.Equal(once.Decimal) {
			t.Errorf("Expected %q to re-parse to '%s', got '%s'", raw, once.Decimal.String(), twice.Decimal.String())
		}
	}
}

func TestParseAmount_Placeholders(t *testing.T) {
	for _, raw := range []string{"", "-", "N/A", "nan", "None", "null", "  "} {
		if result := ParseAmount(raw); result.Valid {
			t.Errorf("Expected %q to be absent, got '%s'", raw, result.Decimal.String())
		}
	}
}

func TestParseAmount_Garbage(t *testing.T) {
	if result := ParseAmount("abc"); result.Valid {
		t.Errorf("Expected garbage to be absent, got '%s'", result.Decimal.String())
	}
}

func TestParseAmountOrZero_BlankCell(t *testing.T) {
	if result := ParseAmountOrZero(""); !result.IsZero() {
		t.Errorf("Expected zero for a blank cell, got '%s'", result.String())
	}
}

func TestParseDate_DayFirst(t *testing.T) {
	result := ParseDate("15/01/2024")
	expected := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	if !result.Equal(expected) {
		t.Errorf("Expected %v, got %v", expected, result)
	}
}

func TestParseDate_ISO(t *testing.T) {
	result := ParseDate("2024-01-15")
	expected := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	if !result.Equal(expected) {
		t.Errorf("Expected %v, got %v", expected, result)
	}
}

func TestParseDate_AmbiguousIsDayFirst(t *testing.T) {
	// 03/04 must read as 3 April, not 4 March.
	result := ParseDate("03/04/2024")
	expected := time.Date(2024, 4, 3, 0, 0, 0, 0, time.UTC)
	if !result.Equal(expected) {
		t.Errorf("Expected %v, got %v", expected, result)
	}
}

func TestParseDate_Idempotent(t *testing.T) {
	// A parsed date rendered back to ISO must re-parse to the same day.
	for _, raw := range []string{"15/01/2024", "2024-01-15", "03/04/2024"} {
		once := ParseDate(raw)
		if once.IsZero() {
			t.Fatalf("Expected %q to parse", raw)
		}
		twice := ParseDate(once.Format("2006-01-02"))
		if !twice.Equal(once) {
			t.Errorf("Expected %q to re-parse to %v, got %v", raw, once, twice)
		}
	}
}

func TestParseDate_Unparsable(t *testing.T) {
	if result := ParseDate("pas une date"); !result.IsZero() {
		t.Errorf("Expected zero time, got %v", result)
	}
}

func TestIsNonBusinessDay_Weekend(t *testing.T) {
	saturday := time.Date(2024, 1, 13, 0, 0, 0, 0, time.UTC)
	if !IsNonBusinessDay(saturday) {
		t.Error("Expected Saturday to be a non-business day")
	}
}

func TestIsNonBusinessDay_Holiday(t *testing.T) {
	bastilleDay := time.Date(2023, 7, 14, 0, 0, 0, 0, time.UTC)
	if !IsNonBusinessDay(bastilleDay) {
		t.Error("Expected 14 July to be a non-business day")
	}
}

func TestIsNonBusinessDay_Weekday(t *testing.T) {
	monday := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	if IsNonBusinessDay(monday) {
		t.Error("Expected a plain Monday to be a business day")
	}
}

func TestIsNonBusinessDay_ZeroDate(t *testing.T) {
	if IsNonBusinessDay(time.Time{}) {
		t.Error("Expected the zero date to count as a business day")
	}
}

func TestCleanDescription_CollapsesWhitespace(t *testing.T) {
	result := CleanDescription("  VIREMENT \t SALAIRE\n - ACME  ")
	if result != "VIREMENT SALAIRE - ACME" {
		t.Errorf("Expected collapsed text, got %q", result)
	}
}

func TestIsFeesOrMaintenance(t *testing.T) {
	if !IsFeesOrMaintenance("FRAIS TENUE DE COMPTE") {
		t.Error("Expected a fees line to be recognized")
	}
	if IsFeesOrMaintenance("VIREMENT SALAIRE") {
		t.Error("Expected a salary line not to be flagged as fees")
	}
}
