// Package match finds correspondences between transaction collections and
// duplicate groups within a single collection. Every comparison here is a
// policy decision driven by the configured tolerance windows; the verdicts
// are symmetric and deterministic.
package match

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mlagarde/ledgerlens/engine/normalize"
)

// Type classifies how a correspondence was established.
type Type string

const (
	TypeExactReference      Type = "exact_reference"
	TypeAmountDateTolerance Type = "amount_date_tolerance"
	TypeNone                Type = "none"
)

// Tolerance carries the matching policy knobs.
type Tolerance struct {
	MaxDateDelayDays int
	AbsoluteAmount   decimal.Decimal
	PercentAmount    float64
}

// Result pairs one transaction with at most one counterpart.
type Result struct {
	Type          Type
	Counterpart   *normalize.Transaction
	DateDeltaDays int
	AmountDelta   decimal.Decimal
}

// Matched reports whether a counterpart was accepted.
func (r Result) Matched() bool {
	return r.Type != TypeNone
}

// FindCorrespondence scans candidates for the transaction's counterpart:
// first by case-insensitive reference equality, then by amount within
// tolerance and date within the configured day window. The first candidate
// satisfying a criterion is accepted.
func FindCorrespondence(tx normalize.Transaction, candidates []normalize.Transaction, tol Tolerance) Result {
	if tx.Reference != "" {
		for i := range candidates {
			if candidates[i].Reference == "" {
				continue
			}
			if strings.EqualFold(tx.Reference, candidates[i].Reference) {
				return Result{
					Type:          TypeExactReference,
					Counterpart:   &candidates[i],
					DateDeltaDays: DateDeltaDays(tx.Date, candidates[i].Date),
					AmountDelta:   AmountDelta(tx, candidates[i]),
				}
			}
		}
	}

	if tx.HasDate() && tx.Amount.Valid {
		for i := range candidates {
			cand := candidates[i]
			if !cand.HasDate() || !cand.Amount.Valid {
				continue
			}
			delta := DateDeltaDays(tx.Date, cand.Date)
			if delta > tol.MaxDateDelayDays {
				continue
			}
			if WithinAmountTolerance(tx.AbsAmount(), cand.AbsAmount(), tol) {
				return Result{
					Type:          TypeAmountDateTolerance,
					Counterpart:   &candidates[i],
					DateDeltaDays: delta,
					AmountDelta:   AmountDelta(tx, cand),
				}
			}
		}
	}

	return Result{Type: TypeNone}
}

// WithinAmountTolerance reports whether two absolute amounts are close
// enough: the delta passes when it is under the absolute tolerance OR under
// the percentage tolerance. The percentage is taken on the larger operand so
// the verdict is identical when the operands are swapped.
func WithinAmountTolerance(a, b decimal.Decimal, tol Tolerance) bool {
	delta := a.Sub(b).Abs()
	if delta.LessThanOrEqual(tol.AbsoluteAmount) {
		return true
	}
	reference := decimal.Max(a, b)
	if reference.IsZero() {
		return delta.IsZero()
	}
	limit := reference.Mul(decimal.NewFromFloat(tol.PercentAmount)).Div(decimal.NewFromInt(100))
	return delta.LessThanOrEqual(limit)
}

// AmountDelta returns |absolute amount difference| for a matched pair.
// Absent amounts count as zero here; rules treat missing values separately.
func AmountDelta(a, b normalize.Transaction) decimal.Decimal {
	return a.AbsAmount().Sub(b.AbsAmount()).Abs()
}

// DateDeltaDays returns the whole-day distance between two dates. A zero
// date on either side yields a delta larger than any sane window so the
// pair never tolerance-matches.
func DateDeltaDays(a, b time.Time) int {
	if a.IsZero() || b.IsZero() {
		return 1 << 20
	}
	delta := a.Sub(b)
	if delta < 0 {
		delta = -delta
	}
	return int(delta.Hours() / 24)
}

// descriptionPrefixLen is the short lower-cased prefix used in the
// duplicate-detection composite key.
const descriptionPrefixLen = 20

// DuplicateKey builds the composite key (date, amount to cents, description
// prefix) used to group duplicates within one collection.
func DuplicateKey(tx normalize.Transaction) string {
	date := ""
	if tx.HasDate() {
		date = tx.Date.Format("2006-01-02")
	}
	amount := ""
	if tx.Amount.Valid {
		amount = tx.Amount.Decimal.Round(2).StringFixed(2)
	}
	desc := strings.ToLower(tx.Description)
	if len(desc) > descriptionPrefixLen {
		desc = desc[:descriptionPrefixLen]
	}
	return date + "|" + amount + "|" + desc
}

// DuplicateGroups partitions a collection by composite key and returns the
// groups with more than one member, in first-seen order. Groups never
// overlap: a transaction belongs to at most one group.
func DuplicateGroups(txs []normalize.Transaction) [][]normalize.Transaction {
	byKey := make(map[string][]normalize.Transaction)
	var order []string

	for _, tx := range txs {
		key := DuplicateKey(tx)
		if _, seen := byKey[key]; !seen {
			order = append(order, key)
		}
		byKey[key] = append(byKey[key], tx)
	}

	var groups [][]normalize.Transaction
	for _, key := range order {
		if group := byKey[key]; len(group) > 1 {
			groups = append(groups, group)
		}
	}
	return groups
}
