// Package refextract pulls reference codes and counterparty names out of
// free-text transaction descriptions. It is pure: same text in, same result
// out, no configuration and no side effects.
package refextract

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// patternRule is one ordered extraction attempt. The first rule whose
// pattern yields a non-empty capture wins, so the invoice pattern shadows
// the check pattern when both could match.
type patternRule struct {
	name    string
	pattern *regexp.Regexp
	// group is the capture index holding the reference.
	group int
}

// rules is the ordered pattern list. Kept as data so patterns can be
// extended without touching the extraction logic.
var rules = []patternRule{
	{
		name:    "invoice-code",
		pattern: regexp.MustCompile(`\b(FAC\d{6,})\b`),
		group:   1,
	},
	{
		name:    "check-number",
		pattern: regexp.MustCompile(`(?i)(?:CHQ|CH[ÈE]QUE|N[°º]|NO\.?)\s*:?\s*(\d{5,})`),
		group:   1,
	},
}

// accountAnnotation matches trailing account-code notes like "(411)".
var accountAnnotation = regexp.MustCompile(`\(\s*\d{3,}\s*\)`)

var nameTitler = cases.Title(language.French)

// separators recognized between the transaction wording and the
// counterparty name. The last occurrence wins.
var nameSeparators = []string{" - ", " – "}

// Extract returns the reference code and counterparty name found in the
// text. Either result may be empty; nothing is guessed.
func Extract(text string) (reference, counterparty string) {
	return ExtractReference(text), ExtractCounterparty(text)
}

// ExtractReference applies the ordered pattern list and returns the first
// non-empty match, upper-cased.
func ExtractReference(text string) string {
	for _, rule := range rules {
		match := rule.pattern.FindStringSubmatch(text)
		if match == nil || match[rule.group] == "" {
			continue
		}
		return strings.ToUpper(strings.TrimSpace(match[rule.group]))
	}
	return ""
}

// ExtractCounterparty takes the text after the last hyphen separator,
// strips account annotations like "(411)", and title-cases the remainder.
// It returns empty when no separator exists.
func ExtractCounterparty(text string) string {
	idx := -1
	sepLen := 0
	for _, sep := range nameSeparators {
		if i := strings.LastIndex(text, sep); i > idx {
			idx = i
			sepLen = len(sep)
		}
	}
	if idx < 0 {
		return ""
	}

	name := text[idx+sepLen:]
	name = accountAnnotation.ReplaceAllString(name, "")
	name = strings.TrimSpace(name)
	name = strings.Trim(name, ",.;:")
	name = strings.TrimSpace(name)
	if len(name) < 2 {
		return ""
	}
	return nameTitler.String(name)
}
