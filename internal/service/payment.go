package service

import (
	"context"

	"github.com/subcycle/subcycle/internal/api/dto"
	"github.com/subcycle/subcycle/internal/domain/payment"
	ierr "github.com/subcycle/subcycle/internal/errors"
	"github.com/subcycle/subcycle/internal/types"
)

// PaymentService records payments against invoices. A payment and the paid
// mark on its invoice commit atomically.
type PaymentService interface {
	RecordPayment(ctx context.Context, req dto.RecordPaymentRequest) (*dto.PaymentResponse, error)
	GetPayment(ctx context.Context, id string) (*dto.PaymentResponse, error)
	ListByInvoice(ctx context.Context, invoiceID string) ([]*dto.PaymentResponse, error)
}

type paymentService struct {
	ServiceParams
}

func NewPaymentService(params ServiceParams) PaymentService {
	return &paymentService{ServiceParams: params}
}

func (s *paymentService) RecordPayment(ctx context.Context, req dto.RecordPaymentRequest) (*dto.PaymentResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Invalid payment data provided").
			Mark(ierr.ErrValidation)
	}

	var p *payment.Payment

	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		inv, err := s.InvoiceRepo.Get(ctx, req.InvoiceID)
		if err != nil {
			return err
		}

		if !inv.IsUnpaid() {
			return ierr.NewError("invoice does not accept payments").
				WithHintf("Invoice %s is %s", inv.InvoiceNumber, inv.InvoiceStatus).
				Mark(ierr.ErrInvalidOperation)
		}
		if !req.Amount.Equal(inv.Total) {
			return ierr.NewError("payment amount does not match invoice total").
				WithHintf("Invoice %s total is %s, got %s", inv.InvoiceNumber, inv.Total, req.Amount).
				WithReportableDetails(map[string]interface{}{
					"invoice_total": inv.Total,
					"amount":        req.Amount,
				}).
				Mark(ierr.ErrValidation)
		}

		built := req.ToPayment(ctx, s.Clock.Now())
		if err := built.Validate(); err != nil {
			return err
		}

		if err := inv.MarkPaid(s.Clock.Now()); err != nil {
			return err
		}
		inv.UpdatedAt = s.Clock.Now()
		inv.UpdatedBy = types.GetUserID(ctx)
		if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
			return err
		}

		if err := s.PaymentRepo.Create(ctx, built); err != nil {
			return err
		}

		p = built
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("recorded payment",
		"payment_id", p.ID,
		"invoice_id", p.InvoiceID,
		"method", p.MaskedDisplay(),
		"amount", p.Amount,
	)
	return dto.NewPaymentResponse(p), nil
}

func (s *paymentService) GetPayment(ctx context.Context, id string) (*dto.PaymentResponse, error) {
	p, err := s.PaymentRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewPaymentResponse(p), nil
}

func (s *paymentService) ListByInvoice(ctx context.Context, invoiceID string) ([]*dto.PaymentResponse, error) {
	payments, err := s.PaymentRepo.ListByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.PaymentResponse, 0, len(payments))
	for _, p := range payments {
		items = append(items, dto.NewPaymentResponse(p))
	}
	return items, nil
}
