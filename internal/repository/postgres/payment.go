package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/subcycle/subcycle/internal/domain/auditlog"
	"github.com/subcycle/subcycle/internal/domain/payment"
	ierr "github.com/subcycle/subcycle/internal/errors"
	"github.com/subcycle/subcycle/internal/logger"
	"github.com/subcycle/subcycle/internal/postgres"
	"github.com/subcycle/subcycle/internal/types"
)

type paymentRepository struct {
	client  postgres.IClient
	logger  *logger.Logger
	auditor *auditor
}

func NewPaymentRepository(client postgres.IClient, logger *logger.Logger) payment.Repository {
	return &paymentRepository{
		client:  client,
		logger:  logger,
		auditor: newAuditor(client, logger),
	}
}

// paymentRow flattens the tagged variant for storage. The method details
// are kept as a single JSONB column keyed by method type.
type paymentRow struct {
	ID         string                  `db:"id"`
	InvoiceID  string                  `db:"invoice_id"`
	Amount     decimal.Decimal         `db:"amount"`
	PaidAt     time.Time               `db:"paid_at"`
	MethodType types.PaymentMethodType `db:"method_type"`
	Details    []byte                  `db:"details"`
	types.BaseModel
}

type paymentDetails struct {
	Card         *payment.CardDetails         `json:"card,omitempty"`
	Paypal       *payment.PaypalDetails       `json:"paypal,omitempty"`
	BankTransfer *payment.BankTransferDetails `json:"bank_transfer,omitempty"`
}

func toPaymentRow(p *payment.Payment) (*paymentRow, error) {
	details, err := json.Marshal(paymentDetails{
		Card:         p.Card,
		Paypal:       p.Paypal,
		BankTransfer: p.BankTransfer,
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to serialize payment details").
			Mark(ierr.ErrSystem)
	}
	return &paymentRow{
		ID:         p.ID,
		InvoiceID:  p.InvoiceID,
		Amount:     p.Amount,
		PaidAt:     p.PaidAt,
		MethodType: p.MethodType,
		Details:    details,
		BaseModel:  p.BaseModel,
	}, nil
}

func fromPaymentRow(row *paymentRow) (*payment.Payment, error) {
	var details paymentDetails
	if len(row.Details) > 0 {
		if err := json.Unmarshal(row.Details, &details); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to deserialize payment details").
				Mark(ierr.ErrSystem)
		}
	}
	return &payment.Payment{
		ID:           row.ID,
		InvoiceID:    row.InvoiceID,
		Amount:       row.Amount,
		PaidAt:       row.PaidAt,
		MethodType:   row.MethodType,
		Card:         details.Card,
		Paypal:       details.Paypal,
		BankTransfer: details.BankTransfer,
		BaseModel:    row.BaseModel,
	}, nil
}

func (r *paymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	row, err := toPaymentRow(p)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO payments (
			id, invoice_id, amount, paid_at, method_type, details,
			status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :invoice_id, :amount, :paid_at, :method_type, :details,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)`

	r.logger.Debugw("creating payment",
		"payment_id", p.ID,
		"invoice_id", p.InvoiceID,
		"method", p.MaskedDisplay(),
	)

	if _, err := sqlxNamedExec(ctx, r.client, query, row); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create payment").
			Mark(ierr.ErrDatabase)
	}

	r.auditor.record(ctx, "payment", p.ID, auditlog.ChangeKindCreate, p)
	return nil
}

func (r *paymentRepository) Get(ctx context.Context, id string) (*payment.Payment, error) {
	var row paymentRow
	err := r.client.Querier(ctx).GetContext(ctx, &row,
		`SELECT * FROM payments WHERE id = $1 AND status != 'deleted'`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("payment not found").
				WithHintf("Payment with ID %s was not found", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get payment").
			Mark(ierr.ErrDatabase)
	}
	return fromPaymentRow(&row)
}

func (r *paymentRepository) ListByInvoice(ctx context.Context, invoiceID string) ([]*payment.Payment, error) {
	var rows []*paymentRow
	query := `
		SELECT * FROM payments
		WHERE invoice_id = $1 AND status != 'deleted'
		ORDER BY paid_at`

	if err := r.client.Querier(ctx).SelectContext(ctx, &rows, query, invoiceID); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list payments").
			Mark(ierr.ErrDatabase)
	}

	payments := make([]*payment.Payment, 0, len(rows))
	for _, row := range rows {
		p, err := fromPaymentRow(row)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, nil
}
