package dto

import (
	"github.com/go-playground/validator/v10"
	"github.com/subcycle/subcycle/internal/domain/subscription"
	"github.com/subcycle/subcycle/internal/types"
)

type CreateSubscriptionRequest struct {
	CustomerID string `json:"customer_id" validate:"required"`
	PlanID     string `json:"plan_id" validate:"required"`
	AutoRenew  *bool  `json:"auto_renew"`
}

type CancelSubscriptionRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

type ToggleAutoRenewRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

type ChangePlanRequest struct {
	PlanID string `json:"plan_id" validate:"required"`
}

type SubscriptionResponse struct {
	*subscription.Subscription
}

type ListSubscriptionsResponse = types.ListResponse[*SubscriptionResponse]

// ChangePlanResponse reports the outcome of a plan change, including the
// proration invoice when the change was an upgrade with days remaining.
type ChangePlanResponse struct {
	Subscription     *SubscriptionResponse `json:"subscription"`
	ProrationInvoice *InvoiceResponse      `json:"proration_invoice,omitempty"`
}

// LifecycleStatsResponse summarizes subscription statuses and open invoices.
type LifecycleStatsResponse struct {
	Subscriptions   map[types.SubscriptionStatus]int `json:"subscriptions"`
	PendingInvoices int                              `json:"pending_invoices"`
}

// BatchItemResult reports the outcome of one item in a lifecycle batch run.
type BatchItemResult struct {
	SubscriptionID string `json:"subscription_id"`
	InvoiceID      string `json:"invoice_id,omitempty"`
	Skipped        bool   `json:"skipped,omitempty"`
	SkipReason     string `json:"skip_reason,omitempty"`
	Error          string `json:"error,omitempty"`
}

// BatchResponse is the summary for the lifecycle batch jobs. Failures are
// isolated per item: one bad subscription never aborts the run.
type BatchResponse struct {
	Processed int               `json:"processed"`
	Errors    int               `json:"errors"`
	Items     []BatchItemResult `json:"items"`
}

func (r *CreateSubscriptionRequest) Validate() error {
	return validator.New().Struct(r)
}

func (r *CancelSubscriptionRequest) Validate() error {
	return validator.New().Struct(r)
}

func (r *ToggleAutoRenewRequest) Validate() error {
	return validator.New().Struct(r)
}

func (r *ChangePlanRequest) Validate() error {
	return validator.New().Struct(r)
}
