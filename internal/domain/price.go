package domain

import "github.com/shopspring/decimal"

// ServiceTier identifies the cleaning type used for pricing
type ServiceTier string

const (
	TierStandard  ServiceTier = "standard"
	TierDeep      ServiceTier = "deep"
	TierMoveInOut ServiceTier = "move-in-out"
)

// ParseServiceTier converts a raw string into a ServiceTier
func ParseServiceTier(s string) (ServiceTier, bool) {
	switch ServiceTier(s) {
	case TierStandard, TierDeep, TierMoveInOut:
		return ServiceTier(s), true
	default:
		return "", false
	}
}

// PriceBreakdown is the computed price of a booking.
// Invariant: Subtotal = BedroomSubtotal + BathroomSubtotal,
// TaxAmount = Subtotal * taxRate, Total = Subtotal + TaxAmount,
// all amounts rounded to 2 decimal places and non-negative.
type PriceBreakdown struct {
	Tier      ServiceTier
	Bedrooms  int
	Bathrooms int

	BedroomSubtotal  decimal.Decimal
	BathroomSubtotal decimal.Decimal
	Subtotal         decimal.Decimal
	TaxAmount        decimal.Decimal
	Total            decimal.Decimal
}
