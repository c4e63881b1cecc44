package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/subcycle/subcycle/internal/domain/auditlog"
	"github.com/subcycle/subcycle/internal/domain/subscription"
	ierr "github.com/subcycle/subcycle/internal/errors"
	"github.com/subcycle/subcycle/internal/logger"
	"github.com/subcycle/subcycle/internal/postgres"
	"github.com/subcycle/subcycle/internal/types"
)

type subscriptionRepository struct {
	client  postgres.IClient
	logger  *logger.Logger
	auditor *auditor
}

func NewSubscriptionRepository(client postgres.IClient, logger *logger.Logger) subscription.Repository {
	return &subscriptionRepository{
		client:  client,
		logger:  logger,
		auditor: newAuditor(client, logger),
	}
}

func (r *subscriptionRepository) Create(ctx context.Context, s *subscription.Subscription) error {
	query := `
		INSERT INTO subscriptions (
			id, customer_id, plan_id, subscription_status, start_date, end_date,
			next_billing_date, auto_renew, current_price, cancelled_at, cancellation_reason,
			status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :customer_id, :plan_id, :subscription_status, :start_date, :end_date,
			:next_billing_date, :auto_renew, :current_price, :cancelled_at, :cancellation_reason,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)`

	r.logger.Debugw("creating subscription",
		"subscription_id", s.ID,
		"customer_id", s.CustomerID,
	)

	if _, err := sqlxNamedExec(ctx, r.client, query, s); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create subscription").
			Mark(ierr.ErrDatabase)
	}

	r.auditor.record(ctx, "subscription", s.ID, auditlog.ChangeKindCreate, s)
	return nil
}

func (r *subscriptionRepository) Get(ctx context.Context, id string) (*subscription.Subscription, error) {
	return r.get(ctx, id, false)
}

func (r *subscriptionRepository) GetForUpdate(ctx context.Context, id string) (*subscription.Subscription, error) {
	return r.get(ctx, id, true)
}

func (r *subscriptionRepository) get(ctx context.Context, id string, forUpdate bool) (*subscription.Subscription, error) {
	query := `SELECT * FROM subscriptions WHERE id = $1 AND status != 'deleted'`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var s subscription.Subscription
	err := r.client.Querier(ctx).GetContext(ctx, &s, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("subscription not found").
				WithHintf("Subscription with ID %s was not found", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get subscription").
			Mark(ierr.ErrDatabase)
	}
	return &s, nil
}

func (r *subscriptionRepository) Update(ctx context.Context, s *subscription.Subscription) error {
	query := `
		UPDATE subscriptions SET
			plan_id = :plan_id,
			subscription_status = :subscription_status,
			end_date = :end_date,
			next_billing_date = :next_billing_date,
			auto_renew = :auto_renew,
			current_price = :current_price,
			cancelled_at = :cancelled_at,
			cancellation_reason = :cancellation_reason,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id`

	res, err := sqlxNamedExec(ctx, r.client, query, s)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update subscription").
			Mark(ierr.ErrDatabase)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ierr.NewError("subscription not found").
			WithHintf("Subscription with ID %s was not found", s.ID).
			Mark(ierr.ErrNotFound)
	}

	r.auditor.record(ctx, "subscription", s.ID, auditlog.ChangeKindUpdate, s)
	return nil
}

func (r *subscriptionRepository) List(ctx context.Context, filter *types.SubscriptionFilter) ([]*subscription.Subscription, error) {
	where, args := buildSubscriptionWhere(filter)
	query := fmt.Sprintf(
		`SELECT * FROM subscriptions WHERE %s ORDER BY created_at`, where)

	var subs []*subscription.Subscription
	if err := r.client.Querier(ctx).SelectContext(ctx, &subs, query, args...); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list subscriptions").
			Mark(ierr.ErrDatabase)
	}
	return subs, nil
}

func (r *subscriptionRepository) Count(ctx context.Context, filter *types.SubscriptionFilter) (int, error) {
	where, args := buildSubscriptionWhere(filter)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM subscriptions WHERE %s`, where)

	var count int
	if err := r.client.Querier(ctx).GetContext(ctx, &count, query, args...); err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count subscriptions").
			Mark(ierr.ErrDatabase)
	}
	return count, nil
}

func (r *subscriptionRepository) CountByStatus(ctx context.Context) (map[types.SubscriptionStatus]int, error) {
	rows := []struct {
		SubscriptionStatus types.SubscriptionStatus `db:"subscription_status"`
		Count              int                      `db:"count"`
	}{}

	query := `
		SELECT subscription_status, COUNT(*) AS count
		FROM subscriptions
		WHERE status != 'deleted'
		GROUP BY subscription_status`

	if err := r.client.Querier(ctx).SelectContext(ctx, &rows, query); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to count subscriptions by status").
			Mark(ierr.ErrDatabase)
	}

	counts := make(map[types.SubscriptionStatus]int, len(rows))
	for _, row := range rows {
		counts[row.SubscriptionStatus] = row.Count
	}
	return counts, nil
}

func buildSubscriptionWhere(filter *types.SubscriptionFilter) (string, []interface{}) {
	conds := []string{`status != 'deleted'`}
	var args []interface{}

	if filter == nil {
		return strings.Join(conds, " AND "), args
	}

	if filter.CustomerID != "" {
		args = append(args, filter.CustomerID)
		conds = append(conds, fmt.Sprintf("customer_id = $%d", len(args)))
	}
	if filter.PlanID != "" {
		args = append(args, filter.PlanID)
		conds = append(conds, fmt.Sprintf("plan_id = $%d", len(args)))
	}
	if len(filter.SubscriptionStatus) > 0 {
		statuses := make([]string, len(filter.SubscriptionStatus))
		for i, s := range filter.SubscriptionStatus {
			statuses[i] = string(s)
		}
		args = append(args, pq.Array(statuses))
		conds = append(conds, fmt.Sprintf("subscription_status = ANY($%d)", len(args)))
	}
	if filter.AutoRenew != nil {
		args = append(args, *filter.AutoRenew)
		conds = append(conds, fmt.Sprintf("auto_renew = $%d", len(args)))
	}
	if filter.NextBillingBefore != nil {
		args = append(args, *filter.NextBillingBefore)
		conds = append(conds, fmt.Sprintf("next_billing_date <= $%d", len(args)))
	}

	return strings.Join(conds, " AND "), args
}
