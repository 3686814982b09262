package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleanhome/CH-BookingService/internal/config"
	"github.com/cleanhome/CH-BookingService/internal/domain"
)

func testConfig(taxRate float64) config.BookingConfig {
	return config.BookingConfig{
		TaxRate: taxRate,
		Rates: map[string]config.TierRates{
			"standard":    {BedroomRate: 20, BathroomRate: 15},
			"deep":        {BedroomRate: 22, BathroomRate: 18},
			"move-in-out": {BedroomRate: 25, BathroomRate: 20},
		},
	}
}

// Сценарий из ТЗ: standard, 3 спальни, 2 ванные, налог 0% -> 90.00
func TestEngine_Price_StandardNoTax(t *testing.T) {
	e := NewEngine(testConfig(0))

	breakdown, err := e.Price(domain.TierStandard, 3, 2)
	require.NoError(t, err)

	assert.True(t, breakdown.BedroomSubtotal.Equal(decimal.NewFromInt(60)),
		"bedroom subtotal = %s", breakdown.BedroomSubtotal)
	assert.True(t, breakdown.BathroomSubtotal.Equal(decimal.NewFromInt(30)),
		"bathroom subtotal = %s", breakdown.BathroomSubtotal)
	assert.True(t, breakdown.Subtotal.Equal(decimal.NewFromInt(90)))
	assert.True(t, breakdown.TaxAmount.IsZero())
	assert.Equal(t, "90", breakdown.Total.String())
}

func TestEngine_Price_WithTax(t *testing.T) {
	e := NewEngine(testConfig(0.08))

	breakdown, err := e.Price(domain.TierDeep, 2, 1)
	require.NoError(t, err)

	// 2*22 + 1*18 = 62; налог 8% = 4.96; итого 66.96
	assert.Equal(t, "62", breakdown.Subtotal.String())
	assert.Equal(t, "4.96", breakdown.TaxAmount.String())
	assert.Equal(t, "66.96", breakdown.Total.String())
}

// Налог округляется до центов, итог = subtotal + округлённый налог
func TestEngine_Price_TaxRounding(t *testing.T) {
	e := NewEngine(config.BookingConfig{
		TaxRate: 0.0825,
		Rates: map[string]config.TierRates{
			"standard": {BedroomRate: 19.99, BathroomRate: 14.99},
		},
	})

	breakdown, err := e.Price(domain.TierStandard, 1, 1)
	require.NoError(t, err)

	// 19.99 + 14.99 = 34.98; 34.98 * 0.0825 = 2.88585 -> 2.89
	assert.Equal(t, "34.98", breakdown.Subtotal.String())
	assert.Equal(t, "2.89", breakdown.TaxAmount.String())
	assert.Equal(t, "37.87", breakdown.Total.String())
	assert.True(t, breakdown.Total.Equal(breakdown.Subtotal.Add(breakdown.TaxAmount)))
}

func TestEngine_Price_AllTiers(t *testing.T) {
	e := NewEngine(testConfig(0))

	tests := []struct {
		tier  domain.ServiceTier
		total string
	}{
		{domain.TierStandard, "35"},
		{domain.TierDeep, "40"},
		{domain.TierMoveInOut, "45"},
	}

	for _, tt := range tests {
		t.Run(string(tt.tier), func(t *testing.T) {
			breakdown, err := e.Price(tt.tier, 1, 1)
			require.NoError(t, err)
			assert.Equal(t, tt.total, breakdown.Total.String())
		})
	}
}

func TestEngine_Price_UnknownTier(t *testing.T) {
	e := NewEngine(testConfig(0))

	_, err := e.Price(domain.ServiceTier("premium"), 1, 1)
	assert.ErrorIs(t, err, ErrUnknownServiceTier)
}

func TestEngine_Rates(t *testing.T) {
	e := NewEngine(testConfig(0))

	bedroom, bathroom, err := e.Rates(domain.TierMoveInOut)
	require.NoError(t, err)
	assert.Equal(t, "25", bedroom.String())
	assert.Equal(t, "20", bathroom.String())

	_, _, err = e.Rates(domain.ServiceTier("premium"))
	assert.ErrorIs(t, err, ErrUnknownServiceTier)
}
