package invoice

import (
	"context"
	"time"

	"github.com/subcycle/subcycle/internal/types"
)

type Repository interface {
	Create(ctx context.Context, invoice *Invoice) error
	Get(ctx context.Context, id string) (*Invoice, error)
	Update(ctx context.Context, invoice *Invoice) error
	List(ctx context.Context, filter *types.InvoiceFilter) ([]*Invoice, error)
	ListBySubscription(ctx context.Context, subscriptionID string) ([]*Invoice, error)
	// ListUnpaidBySubscription returns pending or overdue invoices for the
	// subscription. Renewal and reactivation both gate on this being empty.
	ListUnpaidBySubscription(ctx context.Context, subscriptionID string) ([]*Invoice, error)
	// ListOverdue returns unpaid invoices whose due date is strictly
	// before the cutoff. The dunning jobs derive their candidate sets
	// from it.
	ListOverdue(ctx context.Context, cutoff time.Time) ([]*Invoice, error)
	CountByStatus(ctx context.Context, status types.InvoiceStatus) (int, error)
}
