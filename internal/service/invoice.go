package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/subcycle/subcycle/internal/api/dto"
	"github.com/subcycle/subcycle/internal/domain/invoice"
	"github.com/subcycle/subcycle/internal/domain/subscription"
	ierr "github.com/subcycle/subcycle/internal/errors"
	"github.com/subcycle/subcycle/internal/types"
)

// InvoiceService generates and serves invoices. Renewal generation is the
// only place the subscription's next billing date advances; the advance and
// the invoice insert commit or roll back together.
type InvoiceService interface {
	// GenerateMonthly creates the renewal invoice for the subscription's
	// current cycle and advances NextBillingDate by one cycle from its
	// previous value. Must see the subscription under its caller's row
	// lock when invoked from the renewal batch.
	GenerateMonthly(ctx context.Context, sub *subscription.Subscription) (*invoice.Invoice, error)

	// GenerateProration creates an upgrade invoice for the given prorated
	// amount. The subscription's billing date is not touched. Callers only
	// invoke this with a positive amount.
	GenerateProration(ctx context.Context, sub *subscription.Subscription, amount decimal.Decimal, description string) (*invoice.Invoice, error)

	GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error)
	ListInvoices(ctx context.Context, filter *types.InvoiceFilter) (*dto.ListInvoicesResponse, error)
	ListBySubscription(ctx context.Context, subscriptionID string) (*dto.ListInvoicesResponse, error)
	ListOverdue(ctx context.Context) (*dto.ListInvoicesResponse, error)

	// MarkInvoicePaid records payment without a payment instrument, for
	// operator reconciliation. Paid is terminal.
	MarkInvoicePaid(ctx context.Context, id string) (*dto.InvoiceResponse, error)
}

type invoiceService struct {
	ServiceParams
}

func NewInvoiceService(params ServiceParams) InvoiceService {
	return &invoiceService{ServiceParams: params}
}

func (s *invoiceService) GenerateMonthly(ctx context.Context, sub *subscription.Subscription) (*invoice.Invoice, error) {
	var inv *invoice.Invoice

	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		built, err := s.buildInvoice(ctx, sub, buildInvoiceParams{
			Subtotal:    sub.CurrentPrice,
			Prefix:      invoice.NumberPrefixStandard,
			DueDays:     types.MonthlyInvoiceDueDays,
			IsProration: false,
			Description: fmt.Sprintf("Monthly subscription charge (%s)", s.Clock.Today().Format("2006-01")),
		})
		if err != nil {
			return err
		}

		if err := s.InvoiceRepo.Create(ctx, built); err != nil {
			return err
		}

		// Advance from the previous value, not from today: a late batch
		// run must not drift the billing anchor.
		sub.NextBillingDate = sub.NextBillingDate.AddDate(0, 0, types.BillingCycleDays)
		sub.UpdatedAt = s.Clock.Now()
		sub.UpdatedBy = types.GetUserID(ctx)
		if err := s.SubRepo.Update(ctx, sub); err != nil {
			return err
		}

		inv = built
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("generated monthly invoice",
		"invoice_id", inv.ID,
		"invoice_number", inv.InvoiceNumber,
		"subscription_id", sub.ID,
		"total", inv.Total,
		"next_billing_date", sub.NextBillingDate,
	)
	return inv, nil
}

func (s *invoiceService) GenerateProration(ctx context.Context, sub *subscription.Subscription, amount decimal.Decimal, description string) (*invoice.Invoice, error) {
	if !amount.IsPositive() {
		return nil, ierr.NewError("proration amount must be positive").
			WithHint("Only upgrades generate proration invoices").
			Mark(ierr.ErrInvalidOperation)
	}

	var inv *invoice.Invoice

	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		built, err := s.buildInvoice(ctx, sub, buildInvoiceParams{
			Subtotal:    amount,
			Prefix:      invoice.NumberPrefixProration,
			DueDays:     types.ProrationInvoiceDueDays,
			IsProration: true,
			Description: description,
		})
		if err != nil {
			return err
		}

		if err := s.InvoiceRepo.Create(ctx, built); err != nil {
			return err
		}

		inv = built
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("generated proration invoice",
		"invoice_id", inv.ID,
		"invoice_number", inv.InvoiceNumber,
		"subscription_id", sub.ID,
		"total", inv.Total,
	)
	return inv, nil
}

type buildInvoiceParams struct {
	Subtotal    decimal.Decimal
	Prefix      string
	DueDays     int
	IsProration bool
	Description string
}

func (s *invoiceService) buildInvoice(ctx context.Context, sub *subscription.Subscription, params buildInvoiceParams) (*invoice.Invoice, error) {
	cust, err := s.CustomerRepo.Get(ctx, sub.CustomerID)
	if err != nil {
		return nil, err
	}

	number, err := invoice.GenerateNumber(params.Prefix)
	if err != nil {
		return nil, err
	}

	rate := s.Tax.RateFor(cust.Country)
	taxAmount := s.Tax.TaxAmount(params.Subtotal, rate)
	issueDate := s.Clock.Today()

	inv := &invoice.Invoice{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE),
		InvoiceNumber:  number,
		SubscriptionID: sub.ID,
		Description:    params.Description,
		IssueDate:      issueDate,
		DueDate:        issueDate.AddDate(0, 0, params.DueDays),
		Subtotal:       params.Subtotal,
		TaxRate:        rate,
		TaxAmount:      taxAmount,
		Total:          s.Tax.Total(params.Subtotal, taxAmount),
		InvoiceStatus:  types.InvoiceStatusPending,
		IsProration:    params.IsProration,
		BaseModel:      types.GetDefaultBaseModel(ctx),
	}

	if err := inv.Validate(); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewInvoiceResponse(inv, s.Clock.Today()), nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, filter *types.InvoiceFilter) (*dto.ListInvoicesResponse, error) {
	invoices, err := s.InvoiceRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.toListResponse(invoices), nil
}

func (s *invoiceService) ListBySubscription(ctx context.Context, subscriptionID string) (*dto.ListInvoicesResponse, error) {
	invoices, err := s.InvoiceRepo.ListBySubscription(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	return s.toListResponse(invoices), nil
}

func (s *invoiceService) ListOverdue(ctx context.Context) (*dto.ListInvoicesResponse, error) {
	// Anything due strictly before today is overdue at read time
	invoices, err := s.InvoiceRepo.ListOverdue(ctx, s.Clock.Today())
	if err != nil {
		return nil, err
	}
	return s.toListResponse(invoices), nil
}

func (s *invoiceService) MarkInvoicePaid(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	var inv *invoice.Invoice

	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		loaded, err := s.InvoiceRepo.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := loaded.MarkPaid(s.Clock.Now()); err != nil {
			return err
		}
		loaded.UpdatedAt = s.Clock.Now()
		loaded.UpdatedBy = types.GetUserID(ctx)
		if err := s.InvoiceRepo.Update(ctx, loaded); err != nil {
			return err
		}
		inv = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("marked invoice paid", "invoice_id", inv.ID)
	return dto.NewInvoiceResponse(inv, s.Clock.Today()), nil
}

func (s *invoiceService) toListResponse(invoices []*invoice.Invoice) *dto.ListInvoicesResponse {
	asOf := s.Clock.Today()
	items := make([]*dto.InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		items = append(items, dto.NewInvoiceResponse(inv, asOf))
	}
	resp := dto.ListInvoicesResponse{Items: items, Total: len(items)}
	return &resp
}
