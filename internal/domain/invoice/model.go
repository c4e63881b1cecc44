package invoice

import (
	"time"

	"github.com/shopspring/decimal"
	ierr "github.com/subcycle/subcycle/internal/errors"
	"github.com/subcycle/subcycle/internal/types"
)

type Invoice struct {
	// ID is the unique identifier for the invoice
	ID string `db:"id" json:"id"`

	// InvoiceNumber is the human-facing number, FAC-XXXXXXXX for renewal
	// invoices and PRO-XXXXXXXX for proration invoices
	InvoiceNumber string `db:"invoice_number" json:"invoice_number"`

	// SubscriptionID is the subscription this invoice bills
	SubscriptionID string `db:"subscription_id" json:"subscription_id"`

	// Description is a human-readable line describing the charge
	Description string `db:"description" json:"description"`

	// IssueDate is the date the invoice was generated
	IssueDate time.Time `db:"issue_date" json:"issue_date"`

	// DueDate is the payment deadline. Dunning windows are measured from
	// this date, not from any status change.
	DueDate time.Time `db:"due_date" json:"due_date"`

	// Subtotal is the pre-tax amount
	Subtotal decimal.Decimal `db:"subtotal" json:"subtotal"`

	// TaxRate is the applied VAT percentage
	TaxRate decimal.Decimal `db:"tax_rate" json:"tax_rate"`

	// TaxAmount is the tax computed on the subtotal, rounded half up to 2dp
	TaxAmount decimal.Decimal `db:"tax_amount" json:"tax_amount"`

	// Total is Subtotal + TaxAmount, exactly
	Total decimal.Decimal `db:"total" json:"total"`

	// InvoiceStatus is the stored payment status
	InvoiceStatus types.InvoiceStatus `db:"invoice_status" json:"invoice_status"`

	// IsProration marks invoices produced by a plan upgrade
	IsProration bool `db:"is_proration" json:"is_proration"`

	// PaidAt is the date payment was recorded
	PaidAt *time.Time `db:"paid_at" json:"paid_at"`

	types.BaseModel
}

func (i *Invoice) Validate() error {
	if i.SubscriptionID == "" {
		return ierr.NewError("subscription_id is required").
			WithHint("Invoice must belong to a subscription").
			Mark(ierr.ErrValidation)
	}
	if err := i.InvoiceStatus.Validate(); err != nil {
		return err
	}
	if i.Subtotal.IsNegative() {
		return ierr.NewError("subtotal must not be negative").
			WithHint("Invoice subtotal cannot be negative").
			Mark(ierr.ErrValidation)
	}
	if !i.Total.Equal(i.Subtotal.Add(i.TaxAmount)) {
		return ierr.NewError("total does not equal subtotal plus tax").
			WithHintf("Expected total %s, got %s", i.Subtotal.Add(i.TaxAmount), i.Total).
			Mark(ierr.ErrValidation)
	}
	if i.DueDate.Before(i.IssueDate) {
		return ierr.NewError("due_date cannot be before issue_date").
			WithHint("Invoice due date must not precede its issue date").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// IsUnpaid reports whether the invoice still demands payment.
func (i *Invoice) IsUnpaid() bool {
	return i.InvoiceStatus.IsUnpaid()
}

// DerivedStatus returns the read-time status: a pending invoice whose due
// date has passed reads as overdue. The stored row is not rewritten; the
// lifecycle jobs key off due dates directly.
func (i *Invoice) DerivedStatus(asOf time.Time) types.InvoiceStatus {
	if i.InvoiceStatus == types.InvoiceStatusPending && types.DateOf(i.DueDate).Before(types.DateOf(asOf)) {
		return types.InvoiceStatusOverdue
	}
	return i.InvoiceStatus
}

// MarkPaid records payment at the given time. Paid is terminal.
func (i *Invoice) MarkPaid(at time.Time) error {
	if i.InvoiceStatus == types.InvoiceStatusPaid {
		return ierr.NewError("invoice is already paid").
			WithHint("Invoice has already been paid").
			Mark(ierr.ErrInvalidOperation)
	}
	if i.InvoiceStatus == types.InvoiceStatusCancelled {
		return ierr.NewError("cannot pay a cancelled invoice").
			WithHint("Cancelled invoices cannot be paid").
			Mark(ierr.ErrInvalidOperation)
	}
	i.InvoiceStatus = types.InvoiceStatusPaid
	i.PaidAt = &at
	return nil
}
