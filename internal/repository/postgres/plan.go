package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/subcycle/subcycle/internal/cache"
	"github.com/subcycle/subcycle/internal/domain/auditlog"
	"github.com/subcycle/subcycle/internal/domain/plan"
	ierr "github.com/subcycle/subcycle/internal/errors"
	"github.com/subcycle/subcycle/internal/logger"
	"github.com/subcycle/subcycle/internal/postgres"
)

type planRepository struct {
	client  postgres.IClient
	logger  *logger.Logger
	auditor *auditor
	cache   cache.Cache
}

func NewPlanRepository(client postgres.IClient, logger *logger.Logger, cache cache.Cache) plan.Repository {
	return &planRepository{
		client:  client,
		logger:  logger,
		auditor: newAuditor(client, logger),
		cache:   cache,
	}
}

func (r *planRepository) Create(ctx context.Context, p *plan.Plan) error {
	query := `
		INSERT INTO plans (
			id, name, description, monthly_price,
			status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :name, :description, :monthly_price,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)`

	r.logger.Debugw("creating plan", "plan_id", p.ID)

	if _, err := sqlxNamedExec(ctx, r.client, query, p); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create plan").
			Mark(ierr.ErrDatabase)
	}

	r.auditor.record(ctx, "plan", p.ID, auditlog.ChangeKindCreate, p)
	return nil
}

// Get serves the read-only catalog through a read-through cache. Plans
// only change out of band, so a stale window of the default expiration
// is acceptable.
func (r *planRepository) Get(ctx context.Context, id string) (*plan.Plan, error) {
	key := cache.GenerateKey(cache.PrefixPlan, id)
	if cached, found := r.cache.Get(ctx, key); found {
		if p, ok := cached.(*plan.Plan); ok {
			return p, nil
		}
	}

	var p plan.Plan
	err := r.client.Querier(ctx).GetContext(ctx, &p,
		`SELECT * FROM plans WHERE id = $1 AND status != 'deleted'`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("plan not found").
				WithHintf("Plan with ID %s was not found", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get plan").
			Mark(ierr.ErrDatabase)
	}

	r.cache.Set(ctx, key, &p, cache.DefaultExpiration)
	return &p, nil
}

func (r *planRepository) List(ctx context.Context) ([]*plan.Plan, error) {
	var plans []*plan.Plan
	err := r.client.Querier(ctx).SelectContext(ctx, &plans,
		`SELECT * FROM plans WHERE status != 'deleted' ORDER BY created_at`)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list plans").
			Mark(ierr.ErrDatabase)
	}
	return plans, nil
}
