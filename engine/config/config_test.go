package config

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 3, cfg.MaxDateDelayDays)
	assert.Equal(t, 1.0, cfg.AmountTolerancePercent)
	assert.True(t, cfg.AmountToleranceAbsolute.Equal(decimal.NewFromFloat(0.50)))
	assert.True(t, cfg.CriticalAmountThreshold.Equal(decimal.NewFromInt(10000)))
	assert.True(t, cfg.AlertOnMissingCounterpart)
	assert.Equal(t, []string{"512100", "512200", "531000", "467000"}, cfg.MonitoredBankAccounts)
	require.NoError(t, cfg.Validate())
}

func TestFromMap_Overrides(t *testing.T) {
	cfg, err := FromMap(map[string]any{
		"max_date_delay_days":    5,
		"alert_on_duplicates":    false,
		"company_name":           "Ma Société",
		"large_amount_threshold": "2000",
	})
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.MaxDateDelayDays)
	assert.False(t, cfg.AlertOnDuplicates)
	assert.Equal(t, "Ma Société", cfg.CompanyName)
	assert.True(t, cfg.LargeAmountThreshold.Equal(decimal.NewFromInt(2000)))
	// Untouched keys keep their defaults.
	assert.True(t, cfg.AlertOnMissingCounterpart)
}

func TestFromMap_UnknownKey(t *testing.T) {
	cfg, err := FromMap(map[string]any{
		"max_date_delay_days": 5,
		"typo_key":            true,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "typo_key")
	// A bad update never half-applies.
	assert.Equal(t, Default(), cfg)
}

func TestFromMap_UnconvertibleValue(t *testing.T) {
	cfg, err := FromMap(map[string]any{"max_date_delay_days": "pas un nombre"})
	require.Error(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestFromMap_InvalidOrdering(t *testing.T) {
	_, err := FromMap(map[string]any{
		"critical_threshold": 10,
		"high_threshold":     60,
	})
	require.Error(t, err)
}

func TestValidate_RejectsZeroValue(t *testing.T) {
	// The zero Config means "no configuration supplied"; it must fail
	// validation so callers fall back to the defaults instead of running
	// with every rule switched off and zero thresholds.
	var cfg Config
	assert.Error(t, cfg.Validate())
}

func TestValidate_NegativeTolerance(t *testing.T) {
	cfg := Default()
	cfg.MaxDateDelayDays = -1
	assert.Error(t, cfg.Validate())
}

func TestIsBusinessAccount(t *testing.T) {
	cfg := Default()

	assert.True(t, cfg.IsBusinessAccount("401000"), "payable")
	assert.True(t, cfg.IsBusinessAccount("411200"), "receivable")
	assert.True(t, cfg.IsBusinessAccount("606300"), "expense")
	assert.True(t, cfg.IsBusinessAccount("445660"), "vat")
	assert.False(t, cfg.IsBusinessAccount("512100"), "bank accounts are not business accounts")
	assert.False(t, cfg.IsBusinessAccount(""))
}

func TestIsMonitoredBankAccount(t *testing.T) {
	cfg := Default()

	assert.True(t, cfg.IsMonitoredBankAccount("512100"))
	assert.True(t, cfg.IsMonitoredBankAccount("531000"))
	assert.False(t, cfg.IsMonitoredBankAccount("411000"))
}
