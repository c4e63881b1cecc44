package subscription

import (
	"time"

	"github.com/shopspring/decimal"
	ierr "github.com/subcycle/subcycle/internal/errors"
	"github.com/subcycle/subcycle/internal/types"
)

type Subscription struct {
	// ID is the unique identifier for the subscription
	ID string `db:"id" json:"id"`

	// CustomerID is the identifier for the customer in our system
	CustomerID string `db:"customer_id" json:"customer_id"`

	// PlanID is the identifier for the current plan
	PlanID string `db:"plan_id" json:"plan_id"`

	// SubscriptionStatus is the lifecycle status of the subscription
	SubscriptionStatus types.SubscriptionStatus `db:"subscription_status" json:"subscription_status"`

	// StartDate is the start date of the subscription
	StartDate time.Time `db:"start_date" json:"start_date"`

	// EndDate is the end date of the subscription, if any
	EndDate *time.Time `db:"end_date" json:"end_date"`

	// NextBillingDate is the date the next monthly invoice is due to be
	// generated. Advanced by exactly one billing cycle on each renewal.
	NextBillingDate time.Time `db:"next_billing_date" json:"next_billing_date"`

	// AutoRenew controls whether renewal invoices are generated
	AutoRenew bool `db:"auto_renew" json:"auto_renew"`

	// CurrentPrice is the price snapshot taken from the plan at creation
	// or at the last plan change. Renewal invoices bill this amount, not
	// the live catalog price.
	CurrentPrice decimal.Decimal `db:"current_price" json:"current_price"`

	// CancelledAt is the date the subscription was cancelled
	CancelledAt *time.Time `db:"cancelled_at" json:"cancelled_at"`

	// CancellationReason records why the subscription was cancelled
	CancellationReason string `db:"cancellation_reason" json:"cancellation_reason"`

	types.BaseModel
}

func (s *Subscription) Validate() error {
	if s.CustomerID == "" {
		return ierr.NewError("customer_id is required").
			WithHint("Subscription must belong to a customer").
			Mark(ierr.ErrValidation)
	}
	if s.PlanID == "" {
		return ierr.NewError("plan_id is required").
			WithHint("Subscription must reference a plan").
			Mark(ierr.ErrValidation)
	}
	if err := s.SubscriptionStatus.Validate(); err != nil {
		return err
	}
	if s.CurrentPrice.IsNegative() {
		return ierr.NewError("current_price must not be negative").
			WithHint("Subscription price cannot be negative").
			Mark(ierr.ErrValidation)
	}
	if s.EndDate != nil && s.EndDate.Before(s.StartDate) {
		return ierr.NewError("end_date cannot be before start_date").
			WithHint("Subscription end date must not precede its start date").
			Mark(ierr.ErrValidation)
	}
	return nil
}
