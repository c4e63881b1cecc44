package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/subcycle/subcycle/internal/api/dto"
	"github.com/subcycle/subcycle/internal/domain/customer"
	"github.com/subcycle/subcycle/internal/domain/invoice"
	"github.com/subcycle/subcycle/internal/domain/plan"
	"github.com/subcycle/subcycle/internal/domain/proration"
	"github.com/subcycle/subcycle/internal/domain/subscription"
	ierr "github.com/subcycle/subcycle/internal/errors"
	"github.com/subcycle/subcycle/internal/testutil"
	"github.com/subcycle/subcycle/internal/types"
)

type PaymentServiceSuite struct {
	testutil.BaseServiceTestSuite
	service        PaymentService
	invoiceService InvoiceService
	testData       struct {
		invoice *invoice.Invoice
	}
}

func TestPaymentService(t *testing.T) {
	suite.Run(t, new(PaymentServiceSuite))
}

func (s *PaymentServiceSuite) SetupTest() {
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
	s.service = NewPaymentService(params)
	s.invoiceService = NewInvoiceService(params)

	s.setupTestData()
}

func (s *PaymentServiceSuite) setupTestData() {
	ctx := s.GetContext()

	cust := &customer.Customer{
		ID:        "cust_test",
		Email:     "leo@example.com",
		Name:      "Leo Costa",
		Country:   "PT",
		BaseModel: types.GetDefaultBaseModel(ctx),
	}
	s.NoError(s.GetStores().CustomerRepo.Create(ctx, cust))

	p := &plan.Plan{
		ID:           "plan_std",
		Name:         "Standard",
		MonthlyPrice: decimal.RequireFromString("20.00"),
		BaseModel:    types.GetDefaultBaseModel(ctx),
	}
	s.NoError(s.GetStores().PlanRepo.Create(ctx, p))

	today := s.GetClock().Today()
	sub := &subscription.Subscription{
		ID:                 "sub_test",
		CustomerID:         cust.ID,
		PlanID:             p.ID,
		SubscriptionStatus: types.SubscriptionStatusActive,
		StartDate:          today,
		NextBillingDate:    today.AddDate(0, 0, types.BillingCycleDays),
		AutoRenew:          true,
		CurrentPrice:       p.MonthlyPrice,
		BaseModel:          types.GetDefaultBaseModel(ctx),
	}
	s.NoError(s.GetStores().SubRepo.Create(ctx, sub))

	// 20.00 + 23% Portuguese VAT = 24.60
	inv, err := s.invoiceService.GenerateMonthly(ctx, sub)
	s.Require().NoError(err)
	s.testData.invoice = inv
}

func (s *PaymentServiceSuite) cardRequest(amount string) dto.RecordPaymentRequest {
	return dto.RecordPaymentRequest{
		InvoiceID:  s.testData.invoice.ID,
		Amount:     decimal.RequireFromString(amount),
		MethodType: types.PaymentMethodTypeCard,
		Card: &dto.CardDetailsRequest{
			Number: "4111111111111111",
			Holder: "Leo Costa",
			Expiry: "12/27",
		},
	}
}

func (s *PaymentServiceSuite) TestRecordCardPayment() {
	resp, err := s.service.RecordPayment(s.GetContext(), s.cardRequest("24.60"))
	s.Require().NoError(err)

	s.Equal(s.testData.invoice.ID, resp.InvoiceID)
	s.Equal(types.PaymentMethodTypeCard, resp.MethodType)
	s.Equal("card ****1111", resp.MaskedMethod)
	s.True(decimal.RequireFromString("24.60").Equal(resp.Amount))
	s.Equal(s.GetClock().Now(), resp.PaidAt)

	// The invoice is marked paid in the same transaction
	inv, err := s.GetStores().InvoiceRepo.Get(s.GetContext(), s.testData.invoice.ID)
	s.Require().NoError(err)
	s.Equal(types.InvoiceStatusPaid, inv.InvoiceStatus)
	s.Require().NotNil(inv.PaidAt)
}

func (s *PaymentServiceSuite) TestRecordPaypalPayment() {
	resp, err := s.service.RecordPayment(s.GetContext(), dto.RecordPaymentRequest{
		InvoiceID:  s.testData.invoice.ID,
		Amount:     decimal.RequireFromString("24.60"),
		MethodType: types.PaymentMethodTypePaypal,
		Paypal: &dto.PaypalDetailsRequest{
			Email:         "leo@example.com",
			TransactionID: "TX-1042",
		},
	})
	s.Require().NoError(err)
	s.Equal("paypal l***@example.com", resp.MaskedMethod)
}

func (s *PaymentServiceSuite) TestRecordBankTransferPayment() {
	resp, err := s.service.RecordPayment(s.GetContext(), dto.RecordPaymentRequest{
		InvoiceID:  s.testData.invoice.ID,
		Amount:     decimal.RequireFromString("24.60"),
		MethodType: types.PaymentMethodTypeBankTransfer,
		Bank: &dto.BankTransferDetailsRequest{
			Bank:    "Banco Azul",
			Account: "PT50000201231234567890154",
		},
	})
	s.Require().NoError(err)
	s.Equal("bank transfer ...0154", resp.MaskedMethod)
}

func (s *PaymentServiceSuite) TestRecordPaymentAmountMismatch() {
	_, err := s.service.RecordPayment(s.GetContext(), s.cardRequest("20.00"))
	s.Error(err)
	s.True(ierr.IsValidation(err))

	// Nothing was persisted
	inv, err := s.GetStores().InvoiceRepo.Get(s.GetContext(), s.testData.invoice.ID)
	s.Require().NoError(err)
	s.Equal(types.InvoiceStatusPending, inv.InvoiceStatus)
	payments, err := s.GetStores().PaymentRepo.ListByInvoice(s.GetContext(), s.testData.invoice.ID)
	s.Require().NoError(err)
	s.Empty(payments)
}

func (s *PaymentServiceSuite) TestRecordPaymentOnPaidInvoiceRejected() {
	_, err := s.service.RecordPayment(s.GetContext(), s.cardRequest("24.60"))
	s.Require().NoError(err)

	_, err = s.service.RecordPayment(s.GetContext(), s.cardRequest("24.60"))
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *PaymentServiceSuite) TestRecordPaymentMismatchedDetailsRejected() {
	req := s.cardRequest("24.60")
	req.MethodType = types.PaymentMethodTypePaypal
	req.Paypal = nil

	_, err := s.service.RecordPayment(s.GetContext(), req)
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *PaymentServiceSuite) TestRecordPaymentUnknownInvoice() {
	req := s.cardRequest("24.60")
	req.InvoiceID = "inv_missing"

	_, err := s.service.RecordPayment(s.GetContext(), req)
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *PaymentServiceSuite) TestGetPaymentAndListByInvoice() {
	recorded, err := s.service.RecordPayment(s.GetContext(), s.cardRequest("24.60"))
	s.Require().NoError(err)

	got, err := s.service.GetPayment(s.GetContext(), recorded.ID)
	s.Require().NoError(err)
	s.Equal(recorded.ID, got.ID)
	s.Equal("card ****1111", got.MaskedMethod)

	listed, err := s.service.ListByInvoice(s.GetContext(), s.testData.invoice.ID)
	s.Require().NoError(err)
	s.Require().Len(listed, 1)
	s.Equal(recorded.ID, listed[0].ID)
}
