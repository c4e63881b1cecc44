package service

import (
	"github.com/subcycle/subcycle/internal/clock"
	"github.com/subcycle/subcycle/internal/config"
	"github.com/subcycle/subcycle/internal/domain/customer"
	"github.com/subcycle/subcycle/internal/domain/invoice"
	"github.com/subcycle/subcycle/internal/domain/payment"
	"github.com/subcycle/subcycle/internal/domain/plan"
	"github.com/subcycle/subcycle/internal/domain/proration"
	"github.com/subcycle/subcycle/internal/domain/subscription"
	"github.com/subcycle/subcycle/internal/logger"
	"github.com/subcycle/subcycle/internal/postgres"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	DB     postgres.IClient
	Clock  clock.Clock

	Tax                 TaxService
	ProrationCalculator proration.Calculator

	// Repositories
	PlanRepo     plan.Repository
	CustomerRepo customer.Repository
	SubRepo      subscription.Repository
	InvoiceRepo  invoice.Repository
	PaymentRepo  payment.Repository
}

func NewServiceParams(
	logger *logger.Logger,
	cfg *config.Configuration,
	db postgres.IClient,
	clk clock.Clock,
	tax TaxService,
	prorationCalculator proration.Calculator,
	planRepo plan.Repository,
	customerRepo customer.Repository,
	subRepo subscription.Repository,
	invoiceRepo invoice.Repository,
	paymentRepo payment.Repository,
) ServiceParams {
	return ServiceParams{
		Logger:              logger,
		Config:              cfg,
		DB:                  db,
		Clock:               clk,
		Tax:                 tax,
		ProrationCalculator: prorationCalculator,
		PlanRepo:            planRepo,
		CustomerRepo:        customerRepo,
		SubRepo:             subRepo,
		InvoiceRepo:         invoiceRepo,
		PaymentRepo:         paymentRepo,
	}
}
