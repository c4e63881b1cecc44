package invoice

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subcycle/subcycle/internal/types"
)

func validInvoice() *Invoice {
	return &Invoice{
		ID:             "inv_1",
		InvoiceNumber:  "FAC-0A1B2C3D",
		SubscriptionID: "sub_1",
		IssueDate:      time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		DueDate:        time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC),
		Subtotal:       decimal.RequireFromString("10.00"),
		TaxRate:        decimal.RequireFromString("21"),
		TaxAmount:      decimal.RequireFromString("2.10"),
		Total:          decimal.RequireFromString("12.10"),
		InvoiceStatus:  types.InvoiceStatusPending,
	}
}

func TestInvoice_Validate(t *testing.T) {
	assert.NoError(t, validInvoice().Validate())

	missingSub := validInvoice()
	missingSub.SubscriptionID = ""
	assert.Error(t, missingSub.Validate())

	negativeSubtotal := validInvoice()
	negativeSubtotal.Subtotal = decimal.RequireFromString("-1")
	assert.Error(t, negativeSubtotal.Validate())

	// The stored total must be the exact sum of its parts
	brokenTotal := validInvoice()
	brokenTotal.Total = decimal.RequireFromString("12.11")
	assert.Error(t, brokenTotal.Validate())

	dueBeforeIssue := validInvoice()
	dueBeforeIssue.DueDate = dueBeforeIssue.IssueDate.AddDate(0, 0, -1)
	assert.Error(t, dueBeforeIssue.Validate())
}

func TestInvoice_DerivedStatus(t *testing.T) {
	inv := validInvoice()

	onDueDate := time.Date(2025, 6, 16, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, types.InvoiceStatusPending, inv.DerivedStatus(onDueDate))

	dayAfter := time.Date(2025, 6, 17, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, types.InvoiceStatusOverdue, inv.DerivedStatus(dayAfter))

	// Paid invoices never read as overdue
	paid := validInvoice()
	require.NoError(t, paid.MarkPaid(onDueDate))
	assert.Equal(t, types.InvoiceStatusPaid, paid.DerivedStatus(dayAfter))
}

func TestInvoice_MarkPaid(t *testing.T) {
	at := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

	inv := validInvoice()
	require.NoError(t, inv.MarkPaid(at))
	assert.Equal(t, types.InvoiceStatusPaid, inv.InvoiceStatus)
	require.NotNil(t, inv.PaidAt)
	assert.Equal(t, at, *inv.PaidAt)

	// Paid is terminal
	assert.Error(t, inv.MarkPaid(at))

	cancelled := validInvoice()
	cancelled.InvoiceStatus = types.InvoiceStatusCancelled
	assert.Error(t, cancelled.MarkPaid(at))
}

func TestGenerateNumber(t *testing.T) {
	standard, err := GenerateNumber(NumberPrefixStandard)
	require.NoError(t, err)
	assert.Regexp(t, `^FAC-[0-9A-F]{8}$`, standard)

	proration, err := GenerateNumber(NumberPrefixProration)
	require.NoError(t, err)
	assert.Regexp(t, `^PRO-[0-9A-F]{8}$`, proration)
}
