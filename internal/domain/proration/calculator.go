package proration

import (
	"context"

	"github.com/shopspring/decimal"
	ierr "github.com/subcycle/subcycle/internal/errors"
	"github.com/subcycle/subcycle/internal/types"
)

// Calculator computes the charge owed for the remainder of the current
// billing cycle when a subscription changes plan mid-cycle.
type Calculator interface {
	Calculate(ctx context.Context, params Params) (*Result, error)
}

// NewCalculator returns the day-based proration calculator.
func NewCalculator() Calculator {
	return &dayBasedCalculator{}
}

type dayBasedCalculator struct{}

func (c *dayBasedCalculator) Calculate(ctx context.Context, params Params) (*Result, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	days := types.DaysBetween(params.Today, params.NextBillingDate)
	if days < 0 {
		days = 0
	}

	diff := params.NewPrice.Sub(params.OldPrice)

	result := &Result{
		DaysRemaining: days,
		PriceDiff:     diff,
		IsUpgrade:     diff.IsPositive(),
	}

	if days == 0 {
		result.Amount = decimal.Zero
		return result, nil
	}

	// diff * days / 30, rounded half up to cents. The divisor is the fixed
	// billing cycle length, never the calendar month.
	result.Amount = diff.
		Mul(decimal.NewFromInt(int64(days))).
		Div(decimal.NewFromInt(types.BillingCycleDays)).
		Round(2)

	return result, nil
}

func (p Params) Validate() error {
	if p.OldPrice.IsNegative() || p.NewPrice.IsNegative() {
		return ierr.NewError("prices must not be negative").
			WithHint("Proration requires non-negative prices").
			Mark(ierr.ErrValidation)
	}
	return nil
}
