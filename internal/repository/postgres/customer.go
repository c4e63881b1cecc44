package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/subcycle/subcycle/internal/domain/auditlog"
	"github.com/subcycle/subcycle/internal/domain/customer"
	ierr "github.com/subcycle/subcycle/internal/errors"
	"github.com/subcycle/subcycle/internal/logger"
	"github.com/subcycle/subcycle/internal/postgres"
)

type customerRepository struct {
	client  postgres.IClient
	logger  *logger.Logger
	auditor *auditor
}

func NewCustomerRepository(client postgres.IClient, logger *logger.Logger) customer.Repository {
	return &customerRepository{
		client:  client,
		logger:  logger,
		auditor: newAuditor(client, logger),
	}
}

func (r *customerRepository) Create(ctx context.Context, c *customer.Customer) error {
	query := `
		INSERT INTO customers (
			id, email, name, country,
			status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :email, :name, :country,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)`

	r.logger.Debugw("creating customer", "customer_id", c.ID)

	if _, err := sqlxNamedExec(ctx, r.client, query, c); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create customer").
			Mark(ierr.ErrDatabase)
	}

	r.auditor.record(ctx, "customer", c.ID, auditlog.ChangeKindCreate, c)
	return nil
}

func (r *customerRepository) Get(ctx context.Context, id string) (*customer.Customer, error) {
	var c customer.Customer
	err := r.client.Querier(ctx).GetContext(ctx, &c,
		`SELECT * FROM customers WHERE id = $1 AND status != 'deleted'`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("customer not found").
				WithHintf("Customer with ID %s was not found", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get customer").
			Mark(ierr.ErrDatabase)
	}
	return &c, nil
}

func (r *customerRepository) List(ctx context.Context) ([]*customer.Customer, error) {
	var customers []*customer.Customer
	err := r.client.Querier(ctx).SelectContext(ctx, &customers,
		`SELECT * FROM customers WHERE status != 'deleted' ORDER BY created_at`)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list customers").
			Mark(ierr.ErrDatabase)
	}
	return customers, nil
}

func (r *customerRepository) Update(ctx context.Context, c *customer.Customer) error {
	query := `
		UPDATE customers SET
			email = :email,
			name = :name,
			country = :country,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id`

	if _, err := sqlxNamedExec(ctx, r.client, query, c); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update customer").
			Mark(ierr.ErrDatabase)
	}

	r.auditor.record(ctx, "customer", c.ID, auditlog.ChangeKindUpdate, c)
	return nil
}
