package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/subcycle/subcycle/internal/domain/auditlog"
	"github.com/subcycle/subcycle/internal/domain/invoice"
	ierr "github.com/subcycle/subcycle/internal/errors"
	"github.com/subcycle/subcycle/internal/logger"
	"github.com/subcycle/subcycle/internal/postgres"
	"github.com/subcycle/subcycle/internal/types"
)

type invoiceRepository struct {
	client  postgres.IClient
	logger  *logger.Logger
	auditor *auditor
}

func NewInvoiceRepository(client postgres.IClient, logger *logger.Logger) invoice.Repository {
	return &invoiceRepository{
		client:  client,
		logger:  logger,
		auditor: newAuditor(client, logger),
	}
}

func (r *invoiceRepository) Create(ctx context.Context, inv *invoice.Invoice) error {
	query := `
		INSERT INTO invoices (
			id, invoice_number, subscription_id, description, issue_date, due_date,
			subtotal, tax_rate, tax_amount, total, invoice_status, is_proration, paid_at,
			status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :invoice_number, :subscription_id, :description, :issue_date, :due_date,
			:subtotal, :tax_rate, :tax_amount, :total, :invoice_status, :is_proration, :paid_at,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)`

	r.logger.Debugw("creating invoice",
		"invoice_id", inv.ID,
		"invoice_number", inv.InvoiceNumber,
		"subscription_id", inv.SubscriptionID,
	)

	if _, err := sqlxNamedExec(ctx, r.client, query, inv); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create invoice").
			Mark(ierr.ErrDatabase)
	}

	r.auditor.record(ctx, "invoice", inv.ID, auditlog.ChangeKindCreate, inv)
	return nil
}

func (r *invoiceRepository) Get(ctx context.Context, id string) (*invoice.Invoice, error) {
	var inv invoice.Invoice
	err := r.client.Querier(ctx).GetContext(ctx, &inv,
		`SELECT * FROM invoices WHERE id = $1 AND status != 'deleted'`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("invoice not found").
				WithHintf("Invoice with ID %s was not found", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get invoice").
			Mark(ierr.ErrDatabase)
	}
	return &inv, nil
}

func (r *invoiceRepository) Update(ctx context.Context, inv *invoice.Invoice) error {
	query := `
		UPDATE invoices SET
			invoice_status = :invoice_status,
			paid_at = :paid_at,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id`

	res, err := sqlxNamedExec(ctx, r.client, query, inv)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update invoice").
			Mark(ierr.ErrDatabase)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ierr.NewError("invoice not found").
			WithHintf("Invoice with ID %s was not found", inv.ID).
			Mark(ierr.ErrNotFound)
	}

	r.auditor.record(ctx, "invoice", inv.ID, auditlog.ChangeKindUpdate, inv)
	return nil
}

func (r *invoiceRepository) List(ctx context.Context, filter *types.InvoiceFilter) ([]*invoice.Invoice, error) {
	conds := []string{`status != 'deleted'`}
	var args []interface{}

	if filter != nil {
		if filter.SubscriptionID != "" {
			args = append(args, filter.SubscriptionID)
			conds = append(conds, fmt.Sprintf("subscription_id = $%d", len(args)))
		}
		if len(filter.InvoiceStatus) > 0 {
			statuses := make([]string, len(filter.InvoiceStatus))
			for i, s := range filter.InvoiceStatus {
				statuses[i] = string(s)
			}
			args = append(args, pq.Array(statuses))
			conds = append(conds, fmt.Sprintf("invoice_status = ANY($%d)", len(args)))
		}
		if filter.IsProration != nil {
			args = append(args, *filter.IsProration)
			conds = append(conds, fmt.Sprintf("is_proration = $%d", len(args)))
		}
		if filter.IssuedAfter != nil {
			args = append(args, *filter.IssuedAfter)
			conds = append(conds, fmt.Sprintf("issue_date >= $%d", len(args)))
		}
		if filter.IssuedBefore != nil {
			args = append(args, *filter.IssuedBefore)
			conds = append(conds, fmt.Sprintf("issue_date <= $%d", len(args)))
		}
		if filter.DueBefore != nil {
			args = append(args, *filter.DueBefore)
			conds = append(conds, fmt.Sprintf("due_date <= $%d", len(args)))
		}
	}

	query := fmt.Sprintf(
		`SELECT * FROM invoices WHERE %s ORDER BY issue_date DESC`,
		strings.Join(conds, " AND "))

	var invoices []*invoice.Invoice
	if err := r.client.Querier(ctx).SelectContext(ctx, &invoices, query, args...); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list invoices").
			Mark(ierr.ErrDatabase)
	}
	return invoices, nil
}

func (r *invoiceRepository) ListBySubscription(ctx context.Context, subscriptionID string) ([]*invoice.Invoice, error) {
	return r.List(ctx, &types.InvoiceFilter{SubscriptionID: subscriptionID})
}

func (r *invoiceRepository) ListUnpaidBySubscription(ctx context.Context, subscriptionID string) ([]*invoice.Invoice, error) {
	var invoices []*invoice.Invoice
	query := `
		SELECT * FROM invoices
		WHERE subscription_id = $1
		  AND invoice_status IN ('PENDING', 'OVERDUE')
		  AND status != 'deleted'
		ORDER BY due_date`

	if err := r.client.Querier(ctx).SelectContext(ctx, &invoices, query, subscriptionID); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list unpaid invoices").
			Mark(ierr.ErrDatabase)
	}
	return invoices, nil
}

func (r *invoiceRepository) ListOverdue(ctx context.Context, cutoff time.Time) ([]*invoice.Invoice, error) {
	var invoices []*invoice.Invoice
	query := `
		SELECT * FROM invoices
		WHERE invoice_status IN ('PENDING', 'OVERDUE')
		  AND due_date < $1
		  AND status != 'deleted'
		ORDER BY due_date`

	if err := r.client.Querier(ctx).SelectContext(ctx, &invoices, query, cutoff); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list overdue invoices").
			Mark(ierr.ErrDatabase)
	}
	return invoices, nil
}

func (r *invoiceRepository) CountByStatus(ctx context.Context, status types.InvoiceStatus) (int, error) {
	var count int
	err := r.client.Querier(ctx).GetContext(ctx, &count,
		`SELECT COUNT(*) FROM invoices WHERE invoice_status = $1 AND status != 'deleted'`, status)
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count invoices").
			Mark(ierr.ErrDatabase)
	}
	return count, nil
}
