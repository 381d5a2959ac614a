package normalize

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// placeholders are extraction outputs that mean "no value".
var placeholders = map[string]bool{
	"": true, "-": true, "n/a": true, "na": true, "none": true, "nan": true, "null": true,
}

// dateFormats is the ordered list of accepted calendar formats, day-first
// conventions before ISO variants. First successful parse wins.
var dateFormats = []string{
	"02/01/2006",
	"2006-01-02",
	"02-01-2006",
	"02/01/06",
	"2006/01/02",
	"02.01.2006",
	"2006.01.02",
	"02 01 2006",
	"2006 01 02",
}

// fixedHolidays are the fixed-date French public holidays (month*100 + day).
var fixedHolidays = map[int]bool{
	101:  true, // jour de l'an
	501:  true, // fête du travail
	508:  true, // victoire 1945
	714:  true, // fête nationale
	815:  true, // assomption
	1101: true, // toussaint
	1111: true, // armistice
	1225: true, // noël
}

var feesKeywords = []string{
	"frais", "commission", "cotisation", "abonnement", "agios",
	"tenue de compte", "maintenance", "fee",
}

// IsPlaceholder reports whether the raw value stands for "no value".
func IsPlaceholder(raw string) bool {
	return placeholders[strings.ToLower(strings.TrimSpace(raw))]
}

// ParseAmount parses a textual amount into a decimal. It strips currency
// symbols and whitespace, then disambiguates thousands vs decimal separators
// by the rightmost separator's trailing digit count: one or two trailing
// digits mean a decimal point, anything else a thousands marker. Unparsable
// input yields an invalid (absent) value, never zero.
func ParseAmount(raw string) decimal.NullDecimal {
	if placeholders[strings.ToLower(strings.TrimSpace(raw))] {
		return decimal.NullDecimal{}
	}

	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9', r == ',', r == '.', r == '-':
			b.WriteRune(r)
		}
	}
	s := b.String()
	if s == "" || s == "-" {
		return decimal.NullDecimal{}
	}

	if last := strings.LastIndexAny(s, ".,"); last >= 0 {
		trailing := len(s) - last - 1
		if trailing >= 1 && trailing <= 2 {
			s = stripSeparators(s[:last]) + "." + s[last+1:]
		} else {
			s = stripSeparators(s)
		}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// ParseAmountOrZero is the ledger debit/credit variant: a blank or
// unparsable cell nets as zero.
func ParseAmountOrZero(raw string) decimal.Decimal {
	amount := ParseAmount(raw)
	if !amount.Valid {
		return decimal.Zero
	}
	return amount.Decimal
}

func stripSeparators(s string) string {
	s = strings.ReplaceAll(s, ",", "")
	return strings.ReplaceAll(s, ".", "")
}

// ParseDate tries the ordered format list and returns the first match, or
// the zero time when nothing parses. The output never carries a partially
// parsed value.
func ParseDate(raw string) time.Time {
	s := strings.TrimSpace(raw)
	if placeholders[strings.ToLower(s)] {
		return time.Time{}
	}
	for _, layout := range dateFormats {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t
		}
	}
	return time.Time{}
}

// CleanDescription collapses whitespace runs and trims.
func CleanDescription(s string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " "))
}

// IsNonBusinessDay reports whether the date is a weekend or a fixed-date
// French public holiday. Zero dates are business days by convention.
func IsNonBusinessDay(t time.Time) bool {
	if t.IsZero() {
		return false
	}
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return true
	}
	return fixedHolidays[int(t.Month())*100+t.Day()]
}

// IsFeesOrMaintenance reports whether the description looks like a bank fee
// or account maintenance line.
func IsFeesOrMaintenance(description string) bool {
	lower := strings.ToLower(description)
	for _, keyword := range feesKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
