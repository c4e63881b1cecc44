package payment

import "context"

type Repository interface {
	Create(ctx context.Context, payment *Payment) error
	Get(ctx context.Context, id string) (*Payment, error)
	ListByInvoice(ctx context.Context, invoiceID string) ([]*Payment, error)
}
