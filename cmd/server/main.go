package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/subcycle/subcycle/internal/api"
	"github.com/subcycle/subcycle/internal/api/cron"
	v1 "github.com/subcycle/subcycle/internal/api/v1"
	"github.com/subcycle/subcycle/internal/cache"
	"github.com/subcycle/subcycle/internal/clock"
	"github.com/subcycle/subcycle/internal/config"
	"github.com/subcycle/subcycle/internal/domain/proration"
	"github.com/subcycle/subcycle/internal/logger"
	"github.com/subcycle/subcycle/internal/postgres"
	"github.com/subcycle/subcycle/internal/repository"
	"github.com/subcycle/subcycle/internal/scheduler"
	"github.com/subcycle/subcycle/internal/service"
	"go.uber.org/fx"
)

func init() {
	// Billing day arithmetic assumes UTC everywhere
	time.Local = time.UTC
}

func main() {
	app := fx.New(
		fx.Provide(
			// Config and logging
			config.NewConfig,
			logger.NewLogger,

			// Cache
			cache.NewInMemoryCache,

			// Postgres
			postgres.NewDB,
			postgres.NewClient,
			func(c *postgres.Client) postgres.IClient { return c },

			// Clock
			func() clock.Clock { return clock.NewRealClock() },

			// Domain helpers
			proration.NewCalculator,
			provideTaxService,

			// Repositories
			repository.NewPlanRepository,
			repository.NewCustomerRepository,
			repository.NewSubscriptionRepository,
			repository.NewInvoiceRepository,
			repository.NewPaymentRepository,

			// Services
			service.NewServiceParams,
			service.NewPlanService,
			service.NewCustomerService,
			service.NewInvoiceService,
			service.NewSubscriptionService,
			service.NewPaymentService,

			// HTTP and scheduler
			provideHandlers,
			provideRouter,
			scheduler.NewScheduler,
		),
		fx.Invoke(startServer),
	)

	app.Run()
}

func provideTaxService(cfg *config.Configuration) service.TaxService {
	return service.NewTaxService(cfg.Tax)
}

func provideHandlers(
	logger *logger.Logger,
	planService service.PlanService,
	customerService service.CustomerService,
	subscriptionService service.SubscriptionService,
	invoiceService service.InvoiceService,
	paymentService service.PaymentService,
) api.Handlers {
	return api.Handlers{
		Health:           v1.NewHealthHandler(),
		Plan:             v1.NewPlanHandler(planService, logger),
		Customer:         v1.NewCustomerHandler(customerService, logger),
		Subscription:     v1.NewSubscriptionHandler(subscriptionService, logger),
		Invoice:          v1.NewInvoiceHandler(invoiceService, logger),
		Payment:          v1.NewPaymentHandler(paymentService, logger),
		CronSubscription: cron.NewSubscriptionHandler(subscriptionService, logger),
	}
}

func provideRouter(handlers api.Handlers, cfg *config.Configuration, logger *logger.Logger) *gin.Engine {
	return api.NewRouter(handlers, cfg, logger)
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	sched *scheduler.Scheduler,
	db *sqlx.DB,
	log *logger.Logger,
) {
	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := sched.Start(); err != nil {
				return err
			}

			log.Infow("starting server", "address", cfg.Server.Address)
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatalw("server failed", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("shutting down server")
			sched.Stop()
			if err := srv.Shutdown(ctx); err != nil {
				return err
			}
			return db.Close()
		},
	})
}
