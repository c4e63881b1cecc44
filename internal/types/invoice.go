package types

import (
	"time"

	ierr "github.com/subcycle/subcycle/internal/errors"
	"github.com/samber/lo"
)

// InvoiceStatus represents the payment state of an invoice
type InvoiceStatus string

const (
	// InvoiceStatusPending indicates the invoice is issued and awaiting payment
	InvoiceStatusPending InvoiceStatus = "PENDING"
	// InvoiceStatusPaid indicates the invoice has been settled; terminal
	InvoiceStatusPaid InvoiceStatus = "PAID"
	// InvoiceStatusOverdue indicates a pending invoice past its due date.
	// It is derived at read time from the due date and never stored by the
	// lifecycle core; it exists so externally written rows keep matching
	// the unpaid-invoice queries.
	InvoiceStatusOverdue InvoiceStatus = "OVERDUE"
	// InvoiceStatusCancelled indicates the invoice was voided; terminal
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED"
)

func (s InvoiceStatus) String() string {
	return string(s)
}

// IsUnpaid reports whether the invoice still blocks renewal and
// reactivation.
func (s InvoiceStatus) IsUnpaid() bool {
	return s == InvoiceStatusPending || s == InvoiceStatusOverdue
}

func (s InvoiceStatus) Validate() error {
	allowed := []InvoiceStatus{
		InvoiceStatusPending,
		InvoiceStatusPaid,
		InvoiceStatusOverdue,
		InvoiceStatusCancelled,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid invoice status").
			WithHint("Invalid invoice status").
			WithReportableDetails(map[string]any{
				"status":         s,
				"allowed_status": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// InvoiceFilter narrows invoice list queries
type InvoiceFilter struct {
	SubscriptionID string          `json:"subscription_id,omitempty" form:"subscription_id"`
	InvoiceStatus  []InvoiceStatus `json:"invoice_status,omitempty" form:"invoice_status"`
	IsProration    *bool           `json:"is_proration,omitempty" form:"is_proration"`
	IssuedAfter    *time.Time      `json:"issued_after,omitempty" form:"issued_after"`
	IssuedBefore   *time.Time      `json:"issued_before,omitempty" form:"issued_before"`
	// DueBefore selects unpaid invoices whose due date is strictly before
	// the given cutoff. The dunning jobs derive their 7/30/60 day windows
	// from this field.
	DueBefore *time.Time `json:"due_before,omitempty" form:"due_before"`
}
