package service

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/subcycle/subcycle/internal/api/dto"
	"github.com/subcycle/subcycle/internal/domain/proration"
	ierr "github.com/subcycle/subcycle/internal/errors"
	"github.com/subcycle/subcycle/internal/testutil"
)

type CustomerServiceSuite struct {
	testutil.BaseServiceTestSuite
	service CustomerService
}

func TestCustomerService(t *testing.T) {
	suite.Run(t, new(CustomerServiceSuite))
}

func (s *CustomerServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	s.service = NewCustomerService(ServiceParams{
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
	})
}

func (s *CustomerServiceSuite) TestCreateCustomer() {
	resp, err := s.service.CreateCustomer(s.GetContext(), dto.CreateCustomerRequest{
		Name:    "Ana Garcia",
		Email:   "ana@example.com",
		Country: "ES",
	})
	s.Require().NoError(err)
	s.NotEmpty(resp.ID)
	s.Equal("Ana Garcia", resp.Name)
	s.Equal("ES", resp.Country)

	got, err := s.service.GetCustomer(s.GetContext(), resp.ID)
	s.Require().NoError(err)
	s.Equal(resp.ID, got.ID)
}

func (s *CustomerServiceSuite) TestCreateCustomerInvalidEmail() {
	_, err := s.service.CreateCustomer(s.GetContext(), dto.CreateCustomerRequest{
		Name:  "Ana Garcia",
		Email: "not-an-email",
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *CustomerServiceSuite) TestCreateCustomerWithoutCountry() {
	// Country is optional; the tax engine falls back to the default rate
	resp, err := s.service.CreateCustomer(s.GetContext(), dto.CreateCustomerRequest{
		Name:  "Ana Garcia",
		Email: "ana@example.com",
	})
	s.Require().NoError(err)
	s.Empty(resp.Country)
}

func (s *CustomerServiceSuite) TestGetCustomerNotFound() {
	_, err := s.service.GetCustomer(s.GetContext(), "cust_missing")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *CustomerServiceSuite) TestListCustomers() {
	for _, email := range []string{"a@example.com", "b@example.com"} {
		_, err := s.service.CreateCustomer(s.GetContext(), dto.CreateCustomerRequest{
			Name:  "Customer",
			Email: email,
		})
		s.Require().NoError(err)
	}

	resp, err := s.service.ListCustomers(s.GetContext())
	s.Require().NoError(err)
	s.Equal(2, resp.Total)
	s.Len(resp.Items, 2)
}
