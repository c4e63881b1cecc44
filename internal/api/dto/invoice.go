package dto

import (
	"time"

	"github.com/subcycle/subcycle/internal/domain/invoice"
	"github.com/subcycle/subcycle/internal/types"
)

type InvoiceResponse struct {
	*invoice.Invoice

	// DerivedStatus is the read-time status: pending past its due date
	// reads as overdue without rewriting the stored row.
	DerivedStatus types.InvoiceStatus `json:"derived_status"`
}

func NewInvoiceResponse(inv *invoice.Invoice, asOf time.Time) *InvoiceResponse {
	return &InvoiceResponse{
		Invoice:       inv,
		DerivedStatus: inv.DerivedStatus(asOf),
	}
}

type ListInvoicesResponse = types.ListResponse[*InvoiceResponse]
