package types

import (
	"time"

	ierr "github.com/subcycle/subcycle/internal/errors"
	"github.com/samber/lo"
)

// SubscriptionStatus is the operational status of a subscription.
// Subscriptions move between these states through the lifecycle service
// only; no other component writes the status field.
type SubscriptionStatus string

const (
	// SubscriptionStatusActive is a subscription in good standing that is
	// billed every cycle while auto renew is enabled.
	SubscriptionStatusActive SubscriptionStatus = "active"
	// SubscriptionStatusDelinquent is a subscription holding an invoice
	// unpaid past the grace period.
	SubscriptionStatusDelinquent SubscriptionStatus = "delinquent"
	// SubscriptionStatusSuspended is a subscription with prolonged
	// non-payment; service access is assumed to be cut off.
	SubscriptionStatusSuspended SubscriptionStatus = "suspended"
	// SubscriptionStatusCancelled is a terminal state reached by a manual
	// cancel request. It can be reactivated once outstanding invoices are
	// settled.
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
	// SubscriptionStatusExpired is the terminal state for subscriptions
	// abandoned to non-payment. It can never be reactivated.
	SubscriptionStatusExpired SubscriptionStatus = "expired"
)

func (s SubscriptionStatus) String() string {
	return string(s)
}

// IsTerminal reports whether the status forbids further automatic
// transitions. Cancelled subscriptions may still be manually reactivated;
// expired ones may not.
func (s SubscriptionStatus) IsTerminal() bool {
	return s == SubscriptionStatusCancelled || s == SubscriptionStatusExpired
}

func (s SubscriptionStatus) Validate() error {
	allowed := []SubscriptionStatus{
		SubscriptionStatusActive,
		SubscriptionStatusDelinquent,
		SubscriptionStatusSuspended,
		SubscriptionStatusCancelled,
		SubscriptionStatusExpired,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid subscription status").
			WithHint("Invalid subscription status").
			WithReportableDetails(map[string]any{
				"status":         s,
				"allowed_status": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// SubscriptionFilter narrows subscription list queries
type SubscriptionFilter struct {
	CustomerID         string               `json:"customer_id,omitempty" form:"customer_id"`
	PlanID             string               `json:"plan_id,omitempty" form:"plan_id"`
	SubscriptionStatus []SubscriptionStatus `json:"subscription_status,omitempty" form:"subscription_status"`
	AutoRenew          *bool                `json:"auto_renew,omitempty" form:"auto_renew"`
	// NextBillingBefore selects subscriptions due for renewal on or before
	// the given date.
	NextBillingBefore *time.Time `json:"next_billing_before,omitempty" form:"next_billing_before"`
}

// NewSubscriptionStatusFilter is a convenience constructor for the common
// single-status queries the batch jobs issue.
func NewSubscriptionStatusFilter(status SubscriptionStatus) *SubscriptionFilter {
	return &SubscriptionFilter{
		SubscriptionStatus: []SubscriptionStatus{status},
	}
}
