package score

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlagarde/ledgerlens/engine/alert"
	"github.com/mlagarde/ledgerlens/engine/config"
)

var now = time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

func makeAlerts(n int, typ alert.Type, priority alert.Priority) []alert.Alert {
	alerts := make([]alert.Alert, 0, n)
	for i := 0; i < n; i++ {
		alerts = append(alerts, alert.New(typ, priority, "t", "d", now))
	}
	return alerts
}

func TestCompute_Empty(t *testing.T) {
	result := Compute(nil, 10, config.Default())
	assert.Equal(t, 0, result.Score)
	assert.Equal(t, LevelNone, result.Level)
}

func TestCompute_ZeroDocuments(t *testing.T) {
	alerts := makeAlerts(3, alert.TypeLedgerImbalance, alert.PriorityHigh)
	result := Compute(alerts, 0, config.Default())
	assert.Equal(t, 0, result.Score)
	assert.Equal(t, LevelNone, result.Level)
}

func TestCompute_BoundedAt100(t *testing.T) {
	alerts := makeAlerts(500, alert.TypeLedgerImbalance, alert.PriorityHigh)
	result := Compute(alerts, 1, config.Default())
	assert.Equal(t, 100, result.Score)
	assert.Equal(t, LevelCritical, result.Level)
}

func TestCompute_Deterministic(t *testing.T) {
	alerts := makeAlerts(5, alert.TypeDuplicateEntries, alert.PriorityMedium)
	first := Compute(alerts, 10, config.Default())
	second := Compute(alerts, 10, config.Default())
	assert.Equal(t, first, second)
}

func TestCompute_MoreDocumentsLowerScore(t *testing.T) {
	// Same findings over a larger batch indicate less concentrated risk.
	alerts := makeAlerts(4, alert.TypeAmountDiscrepancy, alert.PriorityHigh)
	small := Compute(alerts, 2, config.Default())
	large := Compute(alerts, 40, config.Default())
	assert.Greater(t, small.Score, large.Score)
}

func TestCompute_SeverityOrdering(t *testing.T) {
	high := Compute(makeAlerts(3, alert.TypeMissingCounterpart, alert.PriorityHigh), 5, config.Default())
	low := Compute(makeAlerts(3, alert.TypeMissingCounterpart, alert.PriorityLow), 5, config.Default())
	assert.Greater(t, high.Score, low.Score)
}

func TestCompute_Details(t *testing.T) {
	alerts := makeAlerts(2, alert.TypeDuplicateEntries, alert.PriorityMedium)
	result := Compute(alerts, 4, config.Default())

	assert.Equal(t, 2, result.Details.TotalAlerts)
	assert.Equal(t, 4, result.Details.TotalDocuments)
	// duplicate_entries weighs 8, medium severity weighs 5.
	assert.Equal(t, 80, result.Details.WeightedScore)
	assert.InDelta(t, 20.0, result.Details.NormalizedScore, 0.001)
}

func TestRiskScore_JSONRoundTrip(t *testing.T) {
	original := Compute(makeAlerts(3, alert.TypeLedgerImbalance, alert.PriorityHigh), 5, config.Default())

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded RiskScore
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, original, decoded)
}

func TestLevelFor_Thresholds(t *testing.T) {
	cfg := config.Default()
	tests := []struct {
		score int
		want  Level
	}{
		{0, LevelNone},
		// Below the low threshold the residual noise is not worth a level.
		{5, LevelNone},
		{9, LevelNone},
		{10, LevelLow},
		{29, LevelLow},
		{30, LevelMedium},
		{59, LevelMedium},
		{60, LevelHigh},
		{80, LevelCritical},
		{100, LevelCritical},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, levelFor(tt.score, cfg), "score %d", tt.score)
	}
}
