package testutil

import (
	"context"
	"time"

	"github.com/samber/lo"
	"github.com/subcycle/subcycle/internal/domain/invoice"
	ierr "github.com/subcycle/subcycle/internal/errors"
	"github.com/subcycle/subcycle/internal/types"
)

// InMemoryInvoiceStore implements invoice.Repository
type InMemoryInvoiceStore struct {
	*InMemoryStore[*invoice.Invoice]
}

func NewInMemoryInvoiceStore() *InMemoryInvoiceStore {
	return &InMemoryInvoiceStore{
		InMemoryStore: NewInMemoryStore[*invoice.Invoice](),
	}
}

func copyInvoice(inv *invoice.Invoice) *invoice.Invoice {
	if inv == nil {
		return nil
	}
	copied := *inv
	if inv.PaidAt != nil {
		paidAt := *inv.PaidAt
		copied.PaidAt = &paidAt
	}
	return &copied
}

func (s *InMemoryInvoiceStore) Create(ctx context.Context, inv *invoice.Invoice) error {
	if inv == nil {
		return ierr.NewError("invoice cannot be nil").
			WithHint("Invoice data is required").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Create(ctx, inv.ID, copyInvoice(inv))
}

func (s *InMemoryInvoiceStore) Get(ctx context.Context, id string) (*invoice.Invoice, error) {
	inv, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("invoice not found").
			WithHintf("Invoice with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return copyInvoice(inv), nil
}

func (s *InMemoryInvoiceStore) Update(ctx context.Context, inv *invoice.Invoice) error {
	if err := s.InMemoryStore.Update(ctx, inv.ID, copyInvoice(inv)); err != nil {
		return ierr.NewError("invoice not found").
			WithHintf("Invoice with ID %s was not found", inv.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func invoiceFilterFn(ctx context.Context, inv *invoice.Invoice, filter interface{}) bool {
	f, ok := filter.(*types.InvoiceFilter)
	if !ok || f == nil {
		return true
	}

	if f.SubscriptionID != "" && inv.SubscriptionID != f.SubscriptionID {
		return false
	}
	if len(f.InvoiceStatus) > 0 && !lo.Contains(f.InvoiceStatus, inv.InvoiceStatus) {
		return false
	}
	if f.IsProration != nil && inv.IsProration != *f.IsProration {
		return false
	}
	if f.IssuedAfter != nil && inv.IssueDate.Before(*f.IssuedAfter) {
		return false
	}
	if f.IssuedBefore != nil && inv.IssueDate.After(*f.IssuedBefore) {
		return false
	}
	if f.DueBefore != nil && !inv.DueDate.Before(*f.DueBefore) {
		return false
	}
	return true
}

func (s *InMemoryInvoiceStore) List(ctx context.Context, filter *types.InvoiceFilter) ([]*invoice.Invoice, error) {
	invoices, err := s.InMemoryStore.List(ctx, filter, invoiceFilterFn, func(i, j *invoice.Invoice) bool {
		return i.IssueDate.After(j.IssueDate)
	})
	if err != nil {
		return nil, err
	}

	result := make([]*invoice.Invoice, 0, len(invoices))
	for _, inv := range invoices {
		result = append(result, copyInvoice(inv))
	}
	return result, nil
}

func (s *InMemoryInvoiceStore) ListBySubscription(ctx context.Context, subscriptionID string) ([]*invoice.Invoice, error) {
	return s.List(ctx, &types.InvoiceFilter{SubscriptionID: subscriptionID})
}

func (s *InMemoryInvoiceStore) ListUnpaidBySubscription(ctx context.Context, subscriptionID string) ([]*invoice.Invoice, error) {
	invoices, err := s.ListBySubscription(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	return lo.Filter(invoices, func(inv *invoice.Invoice, _ int) bool {
		return inv.IsUnpaid()
	}), nil
}

func (s *InMemoryInvoiceStore) ListOverdue(ctx context.Context, cutoff time.Time) ([]*invoice.Invoice, error) {
	invoices, err := s.InMemoryStore.List(ctx, nil, func(ctx context.Context, inv *invoice.Invoice, _ interface{}) bool {
		return inv.IsUnpaid() && inv.DueDate.Before(cutoff)
	}, func(i, j *invoice.Invoice) bool {
		return i.DueDate.Before(j.DueDate)
	})
	if err != nil {
		return nil, err
	}

	result := make([]*invoice.Invoice, 0, len(invoices))
	for _, inv := range invoices {
		result = append(result, copyInvoice(inv))
	}
	return result, nil
}

func (s *InMemoryInvoiceStore) CountByStatus(ctx context.Context, status types.InvoiceStatus) (int, error) {
	return s.InMemoryStore.Count(ctx, nil, func(ctx context.Context, inv *invoice.Invoice, _ interface{}) bool {
		return inv.InvoiceStatus == status
	})
}
