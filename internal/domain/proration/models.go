package proration

import (
	"time"

	"github.com/shopspring/decimal"
)

// Params carries the inputs for a proration calculation.
type Params struct {
	// Today is the date the plan change takes effect
	Today time.Time

	// NextBillingDate is the end of the already-paid cycle
	NextBillingDate time.Time

	// OldPrice is the price snapshot currently on the subscription
	OldPrice decimal.Decimal

	// NewPrice is the monthly price of the target plan
	NewPrice decimal.Decimal
}

// Result is the outcome of a proration calculation.
type Result struct {
	// Amount is the prorated charge. Positive for upgrades, negative or
	// zero otherwise; only positive amounts are invoiced.
	Amount decimal.Decimal

	// DaysRemaining is the clamped day count until the next billing date
	DaysRemaining int

	// PriceDiff is NewPrice - OldPrice
	PriceDiff decimal.Decimal

	// IsUpgrade reports whether the new plan is more expensive
	IsUpgrade bool
}
