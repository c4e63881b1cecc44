package service

import (
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/subcycle/subcycle/internal/domain/customer"
	"github.com/subcycle/subcycle/internal/domain/plan"
	"github.com/subcycle/subcycle/internal/domain/proration"
	"github.com/subcycle/subcycle/internal/domain/subscription"
	ierr "github.com/subcycle/subcycle/internal/errors"
	"github.com/subcycle/subcycle/internal/testutil"
	"github.com/subcycle/subcycle/internal/types"
)

type InvoiceServiceSuite struct {
	testutil.BaseServiceTestSuite
	service  InvoiceService
	testData struct {
		customer *customer.Customer
		plan     *plan.Plan
		sub      *subscription.Subscription
	}
}

func TestInvoiceService(t *testing.T) {
	suite.Run(t, new(InvoiceServiceSuite))
}

func (s *InvoiceServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	params := ServiceParams{
		Logger:              s.GetLogger(),
		Config:              s.GetConfig(),
		DB:                  s.GetDB(),
		Clock:               s.GetClock(),
		Tax:                 NewTaxService(s.GetConfig().Tax),
		ProrationCalculator: proration.NewCalculator(),
		PlanRepo:            s.GetStores().PlanRepo,
		CustomerRepo:        s.GetStores().CustomerRepo,
		SubRepo:             s.GetStores().SubRepo,
		InvoiceRepo:         s.GetStores().InvoiceRepo,
		PaymentRepo:         s.GetStores().PaymentRepo,
	}
	s.service = NewInvoiceService(params)

	s.setupTestData()
}

func (s *InvoiceServiceSuite) setupTestData() {
	ctx := s.GetContext()

	s.testData.customer = &customer.Customer{
		ID:        "cust_test",
		Email:     "mia@example.com",
		Name:      "Mia Schmidt",
		Country:   "DE",
		BaseModel: types.GetDefaultBaseModel(ctx),
	}
	s.NoError(s.GetStores().CustomerRepo.Create(ctx, s.testData.customer))

	s.testData.plan = &plan.Plan{
		ID:           "plan_pro",
		Name:         "Pro",
		MonthlyPrice: decimal.RequireFromString("50.00"),
		BaseModel:    types.GetDefaultBaseModel(ctx),
	}
	s.NoError(s.GetStores().PlanRepo.Create(ctx, s.testData.plan))

	today := s.GetClock().Today()
	s.testData.sub = &subscription.Subscription{
		ID:                 "sub_test",
		CustomerID:         s.testData.customer.ID,
		PlanID:             s.testData.plan.ID,
		SubscriptionStatus: types.SubscriptionStatusActive,
		StartDate:          today,
		NextBillingDate:    today.AddDate(0, 0, types.BillingCycleDays),
		AutoRenew:          true,
		CurrentPrice:       s.testData.plan.MonthlyPrice,
		BaseModel:          types.GetDefaultBaseModel(ctx),
	}
	s.NoError(s.GetStores().SubRepo.Create(ctx, s.testData.sub))
}

func (s *InvoiceServiceSuite) TestGenerateMonthly() {
	inv, err := s.service.GenerateMonthly(s.GetContext(), s.testData.sub)
	s.Require().NoError(err)

	s.Regexp(`^FAC-[0-9A-F]{8}$`, inv.InvoiceNumber)
	s.Equal(s.testData.sub.ID, inv.SubscriptionID)
	s.False(inv.IsProration)
	s.Equal(types.InvoiceStatusPending, inv.InvoiceStatus)
	s.True(decimal.RequireFromString("50.00").Equal(inv.Subtotal))
	// German VAT at 19%
	s.True(decimal.RequireFromString("19").Equal(inv.TaxRate))
	s.True(decimal.RequireFromString("9.50").Equal(inv.TaxAmount))
	s.True(decimal.RequireFromString("59.50").Equal(inv.Total))
	s.Equal(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), inv.IssueDate)
	s.Equal(time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC), inv.DueDate)

	// The next billing date moved one cycle forward from its previous value
	sub, err := s.GetStores().SubRepo.Get(s.GetContext(), s.testData.sub.ID)
	s.Require().NoError(err)
	s.Equal(time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC), sub.NextBillingDate)
}

func (s *InvoiceServiceSuite) TestGenerateProration() {
	inv, err := s.service.GenerateProration(s.GetContext(), s.testData.sub,
		decimal.RequireFromString("10.00"), "Plan upgrade to Pro, 15 day(s) remaining in cycle")
	s.Require().NoError(err)

	s.Regexp(`^PRO-[0-9A-F]{8}$`, inv.InvoiceNumber)
	s.True(inv.IsProration)
	s.True(decimal.RequireFromString("10.00").Equal(inv.Subtotal))
	s.True(decimal.RequireFromString("1.90").Equal(inv.TaxAmount))
	s.True(decimal.RequireFromString("11.90").Equal(inv.Total))
	// Proration invoices carry the shorter payment window
	s.Equal(time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC), inv.DueDate)

	// Proration never moves the billing anchor
	sub, err := s.GetStores().SubRepo.Get(s.GetContext(), s.testData.sub.ID)
	s.Require().NoError(err)
	s.Equal(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), sub.NextBillingDate)
}

func (s *InvoiceServiceSuite) TestGenerateProrationRejectsNonPositiveAmount() {
	_, err := s.service.GenerateProration(s.GetContext(), s.testData.sub, decimal.Zero, "noop")
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))

	_, err = s.service.GenerateProration(s.GetContext(), s.testData.sub,
		decimal.RequireFromString("-5.00"), "downgrade")
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *InvoiceServiceSuite) TestMarkInvoicePaid() {
	inv, err := s.service.GenerateMonthly(s.GetContext(), s.testData.sub)
	s.Require().NoError(err)

	resp, err := s.service.MarkInvoicePaid(s.GetContext(), inv.ID)
	s.Require().NoError(err)
	s.Equal(types.InvoiceStatusPaid, resp.InvoiceStatus)
	s.Require().NotNil(resp.PaidAt)
	s.Equal(s.GetClock().Now(), *resp.PaidAt)
}

func (s *InvoiceServiceSuite) TestMarkInvoicePaidIsTerminal() {
	inv, err := s.service.GenerateMonthly(s.GetContext(), s.testData.sub)
	s.Require().NoError(err)

	_, err = s.service.MarkInvoicePaid(s.GetContext(), inv.ID)
	s.Require().NoError(err)

	_, err = s.service.MarkInvoicePaid(s.GetContext(), inv.ID)
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *InvoiceServiceSuite) TestGetInvoiceDerivesOverdueStatus() {
	inv, err := s.service.GenerateMonthly(s.GetContext(), s.testData.sub)
	s.Require().NoError(err)

	resp, err := s.service.GetInvoice(s.GetContext(), inv.ID)
	s.Require().NoError(err)
	s.Equal(types.InvoiceStatusPending, resp.DerivedStatus)

	// One day past due: the stored row is untouched, the read is overdue
	s.GetClock().AdvanceDays(16)
	resp, err = s.service.GetInvoice(s.GetContext(), inv.ID)
	s.Require().NoError(err)
	s.Equal(types.InvoiceStatusOverdue, resp.DerivedStatus)
	s.Equal(types.InvoiceStatusPending, resp.InvoiceStatus)
}

func (s *InvoiceServiceSuite) TestListOverdue() {
	inv, err := s.service.GenerateMonthly(s.GetContext(), s.testData.sub)
	s.Require().NoError(err)

	resp, err := s.service.ListOverdue(s.GetContext())
	s.Require().NoError(err)
	s.Equal(0, resp.Total)

	// Due 2025-06-16; overdue from the following day
	s.GetClock().AdvanceDays(16)
	resp, err = s.service.ListOverdue(s.GetContext())
	s.Require().NoError(err)
	s.Require().Equal(1, resp.Total)
	s.Equal(inv.ID, resp.Items[0].ID)
	s.Equal(types.InvoiceStatusOverdue, resp.Items[0].DerivedStatus)
}

func (s *InvoiceServiceSuite) TestListBySubscription() {
	_, err := s.service.GenerateMonthly(s.GetContext(), s.testData.sub)
	s.Require().NoError(err)
	_, err = s.service.GenerateProration(s.GetContext(), s.testData.sub,
		decimal.RequireFromString("5.00"), "Plan upgrade")
	s.Require().NoError(err)

	resp, err := s.service.ListBySubscription(s.GetContext(), s.testData.sub.ID)
	s.Require().NoError(err)
	s.Equal(2, resp.Total)

	onlyProration, err := s.service.ListInvoices(s.GetContext(), &types.InvoiceFilter{
		SubscriptionID: s.testData.sub.ID,
		IsProration:    lo.ToPtr(true),
	})
	s.Require().NoError(err)
	s.Equal(1, onlyProration.Total)
	s.True(onlyProration.Items[0].IsProration)
}

func (s *InvoiceServiceSuite) TestGetInvoiceNotFound() {
	_, err := s.service.GetInvoice(s.GetContext(), "inv_missing")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}
