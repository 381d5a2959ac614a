// Package score reduces an alert list and a document volume to one bounded
// risk score. The weighting is deterministic: fixed severity and type weight
// tables, normalization by document count, then logarithmic compression so
// large batches do not saturate the scale.
package score

import (
	"math"

	"github.com/mlagarde/ledgerlens/engine/alert"
	"github.com/mlagarde/ledgerlens/engine/config"
)

// Level is the discrete risk classification.
type Level string

const (
	LevelNone     Level = "none"
	LevelLow      Level = "low"
	LevelMedium   Level = "medium"
	LevelHigh     Level = "high"
	LevelCritical Level = "critical"
)

// compressionFactor is the k in min(100, floor(k*ln(normalized+1))).
const compressionFactor = 30

// severityWeights weighs alerts by their derived severity.
var severityWeights = map[alert.Severity]int{
	alert.SeverityHigh:   10,
	alert.SeverityMedium: 5,
	alert.SeverityLow:    2,
}

// typeWeights weighs alert kinds by how strongly they indicate a bookkeeping
// problem. Unlisted types weigh 1.
var typeWeights = map[alert.Type]int{
	alert.TypeLedgerImbalance:   8,
	alert.TypeDuplicateEntries:  8,
	alert.TypeRoundAmount:       7,
	alert.TypeAmountDiscrepancy: 6,
	alert.TypeLargeTransaction:  6,
	alert.TypeCheckNotEmitted:   6,

	alert.TypeInvoiceNotInLedger:    5,
	alert.TypeInvoiceOverReconciled: 5,
	alert.TypeCheckNotInLedger:      5,
	alert.TypeCheckAmountMismatch:   5,
	alert.TypeMissingRequiredFields: 5,

	alert.TypeDateDiscrepancy:       4,
	alert.TypeFutureDate:            4,
	alert.TypeIncompleteBankDetails: 4,

	alert.TypeMissingCounterpart:       3,
	alert.TypeCheckNotCashed:           3,
	alert.TypeInvoiceNotBankReconciled: 3,
	alert.TypeEmptyDocument:            3,
	alert.TypeReadError:                3,
	alert.TypeSystemError:              3,

	alert.TypeNonBusinessDay:  2,
	alert.TypeMonthEndClosing: 2,
	alert.TypeYearEndClosing:  2,
	alert.TypeVATDeadline:     2,
}

// Details exposes the intermediate values for audit.
type Details struct {
	TotalAlerts     int     `json:"total_alerts"`
	TotalDocuments  int     `json:"total_documents"`
	WeightedScore   int     `json:"weighted_score"`
	NormalizedScore float64 `json:"normalized_score"`
}

// RiskScore is the aggregate result.
type RiskScore struct {
	Score   int     `json:"score"`
	Level   Level   `json:"level"`
	Details Details `json:"details"`
}

// Compute scores the alert list against the document volume. An empty list
// or zero documents yields score 0, level none.
func Compute(alerts []alert.Alert, totalDocuments int, cfg config.Config) RiskScore {
	details := Details{
		TotalAlerts:    len(alerts),
		TotalDocuments: totalDocuments,
	}

	if len(alerts) == 0 || totalDocuments == 0 {
		return RiskScore{Score: 0, Level: LevelNone, Details: details}
	}

	weighted := 0
	for _, a := range alerts {
		severityWeight, ok := severityWeights[a.Severity]
		if !ok {
			severityWeight = 1
		}
		typeWeight, ok := typeWeights[a.Type]
		if !ok {
			typeWeight = 1
		}
		weighted += severityWeight * typeWeight
	}

	normalized := float64(weighted) / float64(max(totalDocuments, 1))
	final := int(math.Floor(compressionFactor * math.Log(normalized+1)))
	if final > 100 {
		final = 100
	}

	details.WeightedScore = weighted
	details.NormalizedScore = normalized

	return RiskScore{
		Score:   final,
		Level:   levelFor(final, cfg),
		Details: details,
	}
}

func levelFor(score int, cfg config.Config) Level {
	switch {
	case score >= cfg.CriticalScoreThreshold:
		return LevelCritical
	case score >= cfg.HighScoreThreshold:
		return LevelHigh
	case score >= cfg.MediumScoreThreshold:
		return LevelMedium
	case score >= cfg.LowScoreThreshold && score > 0:
		return LevelLow
	default:
		return LevelNone
	}
}
