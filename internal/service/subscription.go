package service

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"github.com/subcycle/subcycle/internal/api/dto"
	"github.com/subcycle/subcycle/internal/domain/invoice"
	"github.com/subcycle/subcycle/internal/domain/proration"
	"github.com/subcycle/subcycle/internal/domain/subscription"
	ierr "github.com/subcycle/subcycle/internal/errors"
	"github.com/subcycle/subcycle/internal/types"
)

// SubscriptionService owns the subscription lifecycle. Every status
// mutation in the system goes through it, both the request-driven
// operations and the daily batch jobs.
type SubscriptionService interface {
	CreateSubscription(ctx context.Context, req dto.CreateSubscriptionRequest) (*dto.SubscriptionResponse, error)
	GetSubscription(ctx context.Context, id string) (*dto.SubscriptionResponse, error)
	ListSubscriptions(ctx context.Context, filter *types.SubscriptionFilter) (*dto.ListSubscriptionsResponse, error)

	// CancelSubscription stops future billing. Terminal states reject it.
	CancelSubscription(ctx context.Context, id string, reason string) (*dto.SubscriptionResponse, error)

	// ReactivateSubscription restores a cancelled, delinquent or suspended
	// subscription to active. Expired subscriptions and subscriptions with
	// unpaid invoices reject it.
	ReactivateSubscription(ctx context.Context, id string) (*dto.SubscriptionResponse, error)

	// ToggleAutoRenew flips renewal invoicing. Enabling it on a terminal
	// subscription is rejected.
	ToggleAutoRenew(ctx context.Context, id string, enabled bool) (*dto.SubscriptionResponse, error)

	// ChangePlan switches an active subscription to a new plan, generating
	// a proration invoice when the change is an upgrade with days left in
	// the paid cycle.
	ChangePlan(ctx context.Context, id string, newPlanID string) (*dto.ChangePlanResponse, error)

	// ProcessRenewals generates monthly invoices for active subscriptions
	// whose next billing date has arrived. Safe to re-run: the billing
	// date advance makes a same-day second pass a no-op.
	ProcessRenewals(ctx context.Context) (*dto.BatchResponse, error)

	// ProcessDelinquencies marks active subscriptions delinquent once an
	// invoice is more than the grace period past its due date.
	ProcessDelinquencies(ctx context.Context) (*dto.BatchResponse, error)

	// ProcessSuspensions suspends delinquent subscriptions once an invoice
	// is more than the suspension threshold past its due date.
	ProcessSuspensions(ctx context.Context) (*dto.BatchResponse, error)

	// ProcessExpirations terminally expires suspended subscriptions once
	// an invoice is more than the expiration threshold past its due date.
	ProcessExpirations(ctx context.Context) (*dto.BatchResponse, error)

	LifecycleStatistics(ctx context.Context) (*dto.LifecycleStatsResponse, error)
}

type subscriptionService struct {
	ServiceParams
	invoiceService InvoiceService
}

func NewSubscriptionService(params ServiceParams) SubscriptionService {
	return &subscriptionService{
		ServiceParams:  params,
		invoiceService: NewInvoiceService(params),
	}
}

func (s *subscriptionService) CreateSubscription(ctx context.Context, req dto.CreateSubscriptionRequest) (*dto.SubscriptionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Invalid subscription data provided").
			Mark(ierr.ErrValidation)
	}

	if _, err := s.CustomerRepo.Get(ctx, req.CustomerID); err != nil {
		return nil, err
	}
	p, err := s.PlanRepo.Get(ctx, req.PlanID)
	if err != nil {
		return nil, err
	}

	today := s.Clock.Today()
	sub := &subscription.Subscription{
		ID:                 types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SUBSCRIPTION),
		CustomerID:         req.CustomerID,
		PlanID:             req.PlanID,
		SubscriptionStatus: types.SubscriptionStatusActive,
		StartDate:          today,
		NextBillingDate:    today.AddDate(0, 0, types.BillingCycleDays),
		AutoRenew:          lo.FromPtrOr(req.AutoRenew, true),
		CurrentPrice:       p.MonthlyPrice,
		BaseModel:          types.GetDefaultBaseModel(ctx),
	}
	if err := sub.Validate(); err != nil {
		return nil, err
	}

	if err := s.SubRepo.Create(ctx, sub); err != nil {
		return nil, err
	}

	s.Logger.Infow("created subscription",
		"subscription_id", sub.ID,
		"customer_id", sub.CustomerID,
		"plan_id", sub.PlanID,
		"next_billing_date", sub.NextBillingDate,
	)
	return &dto.SubscriptionResponse{Subscription: sub}, nil
}

func (s *subscriptionService) GetSubscription(ctx context.Context, id string) (*dto.SubscriptionResponse, error) {
	sub, err := s.SubRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.SubscriptionResponse{Subscription: sub}, nil
}

func (s *subscriptionService) ListSubscriptions(ctx context.Context, filter *types.SubscriptionFilter) (*dto.ListSubscriptionsResponse, error) {
	subs, err := s.SubRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.SubscriptionResponse, 0, len(subs))
	for _, sub := range subs {
		items = append(items, &dto.SubscriptionResponse{Subscription: sub})
	}
	resp := dto.ListSubscriptionsResponse{Items: items, Total: len(items)}
	return &resp, nil
}

func (s *subscriptionService) CancelSubscription(ctx context.Context, id string, reason string) (*dto.SubscriptionResponse, error) {
	var sub *subscription.Subscription

	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		loaded, err := s.SubRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}

		if loaded.SubscriptionStatus.IsTerminal() {
			return ierr.NewError("subscription cannot be cancelled").
				WithHintf("Subscription is already %s", loaded.SubscriptionStatus).
				Mark(ierr.ErrInvalidOperation)
		}

		now := s.Clock.Now()
		loaded.SubscriptionStatus = types.SubscriptionStatusCancelled
		loaded.AutoRenew = false
		loaded.CancelledAt = &now
		loaded.CancellationReason = reason
		s.touch(ctx, loaded)

		if err := s.SubRepo.Update(ctx, loaded); err != nil {
			return err
		}
		sub = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("cancelled subscription", "subscription_id", sub.ID, "reason", reason)
	return &dto.SubscriptionResponse{Subscription: sub}, nil
}

func (s *subscriptionService) ReactivateSubscription(ctx context.Context, id string) (*dto.SubscriptionResponse, error) {
	var sub *subscription.Subscription

	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		loaded, err := s.SubRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}

		if loaded.SubscriptionStatus == types.SubscriptionStatusExpired {
			return ierr.NewError("expired subscriptions cannot be reactivated").
				WithHint("Expired subscriptions are terminal; create a new subscription instead").
				Mark(ierr.ErrInvalidOperation)
		}
		if loaded.SubscriptionStatus == types.SubscriptionStatusActive {
			return ierr.NewError("subscription is already active").
				WithHint("Active subscriptions do not need reactivation").
				Mark(ierr.ErrInvalidOperation)
		}

		unpaid, err := s.InvoiceRepo.ListUnpaidBySubscription(ctx, loaded.ID)
		if err != nil {
			return err
		}
		if len(unpaid) > 0 {
			return ierr.NewError("subscription has unpaid invoices").
				WithHintf("Settle %d unpaid invoice(s) before reactivating", len(unpaid)).
				Mark(ierr.ErrInvalidOperation)
		}

		loaded.SubscriptionStatus = types.SubscriptionStatusActive
		loaded.AutoRenew = true
		loaded.CancelledAt = nil
		loaded.CancellationReason = ""
		// A billing date left in the past would make the next renewal run
		// bill the gap; restart the cycle from today instead.
		today := s.Clock.Today()
		if loaded.NextBillingDate.Before(today) {
			loaded.NextBillingDate = today.AddDate(0, 0, types.BillingCycleDays)
		}
		s.touch(ctx, loaded)

		if err := s.SubRepo.Update(ctx, loaded); err != nil {
			return err
		}
		sub = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("reactivated subscription", "subscription_id", sub.ID)
	return &dto.SubscriptionResponse{Subscription: sub}, nil
}

func (s *subscriptionService) ToggleAutoRenew(ctx context.Context, id string, enabled bool) (*dto.SubscriptionResponse, error) {
	var sub *subscription.Subscription

	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		loaded, err := s.SubRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}

		if enabled && loaded.SubscriptionStatus.IsTerminal() {
			return ierr.NewError("cannot enable auto renew").
				WithHintf("Subscription is %s", loaded.SubscriptionStatus).
				Mark(ierr.ErrInvalidOperation)
		}

		loaded.AutoRenew = enabled
		s.touch(ctx, loaded)

		if err := s.SubRepo.Update(ctx, loaded); err != nil {
			return err
		}
		sub = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("toggled auto renew", "subscription_id", sub.ID, "enabled", enabled)
	return &dto.SubscriptionResponse{Subscription: sub}, nil
}

func (s *subscriptionService) ChangePlan(ctx context.Context, id string, newPlanID string) (*dto.ChangePlanResponse, error) {
	var resp dto.ChangePlanResponse

	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		sub, err := s.SubRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}

		if sub.SubscriptionStatus != types.SubscriptionStatusActive {
			return ierr.NewError("only active subscriptions can change plan").
				WithHintf("Subscription is %s", sub.SubscriptionStatus).
				Mark(ierr.ErrInvalidOperation)
		}
		newPlan, err := s.PlanRepo.Get(ctx, newPlanID)
		if err != nil {
			return err
		}

		result, err := s.ProrationCalculator.Calculate(ctx, proration.Params{
			Today:           s.Clock.Today(),
			NextBillingDate: sub.NextBillingDate,
			OldPrice:        sub.CurrentPrice,
			NewPrice:        newPlan.MonthlyPrice,
		})
		if err != nil {
			return err
		}

		// Downgrades and same-price switches take effect without credit;
		// only an upgrade with a positive remainder is invoiced.
		if result.IsUpgrade && result.Amount.IsPositive() {
			desc := fmt.Sprintf("Plan upgrade to %s, %d day(s) remaining in cycle", newPlan.Name, result.DaysRemaining)
			inv, err := s.invoiceService.GenerateProration(ctx, sub, result.Amount, desc)
			if err != nil {
				return err
			}
			resp.ProrationInvoice = dto.NewInvoiceResponse(inv, s.Clock.Today())
		}

		sub.PlanID = newPlan.ID
		sub.CurrentPrice = newPlan.MonthlyPrice
		s.touch(ctx, sub)

		if err := s.SubRepo.Update(ctx, sub); err != nil {
			return err
		}
		resp.Subscription = &dto.SubscriptionResponse{Subscription: sub}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("changed plan",
		"subscription_id", id,
		"plan_id", newPlanID,
		"prorated", resp.ProrationInvoice != nil,
	)
	return &resp, nil
}

func (s *subscriptionService) ProcessRenewals(ctx context.Context) (*dto.BatchResponse, error) {
	today := s.Clock.Today()
	due, err := s.SubRepo.List(ctx, &types.SubscriptionFilter{
		SubscriptionStatus: []types.SubscriptionStatus{types.SubscriptionStatusActive},
		NextBillingBefore:  &today,
	})
	if err != nil {
		return nil, err
	}

	resp := &dto.BatchResponse{Items: make([]dto.BatchItemResult, 0, len(due))}

	for _, candidate := range due {
		item := dto.BatchItemResult{SubscriptionID: candidate.ID}

		err := s.DB.WithTx(ctx, func(ctx context.Context) error {
			sub, err := s.SubRepo.GetForUpdate(ctx, candidate.ID)
			if err != nil {
				return err
			}

			// Re-check under the lock: a concurrent or earlier run this
			// day may already have advanced the billing date.
			if sub.SubscriptionStatus != types.SubscriptionStatusActive ||
				sub.NextBillingDate.After(today) {
				item.Skipped = true
				item.SkipReason = "already processed"
				return nil
			}
			if !sub.AutoRenew {
				item.Skipped = true
				item.SkipReason = "auto renew disabled"
				return nil
			}

			unpaid, err := s.InvoiceRepo.ListUnpaidBySubscription(ctx, sub.ID)
			if err != nil {
				return err
			}
			if len(unpaid) > 0 {
				item.Skipped = true
				item.SkipReason = "unpaid invoices outstanding"
				return nil
			}

			inv, err := s.invoiceService.GenerateMonthly(ctx, sub)
			if err != nil {
				return err
			}
			item.InvoiceID = inv.ID
			return nil
		})

		s.collect(resp, item, err, "renewal failed for subscription")
	}

	s.Logger.Infow("processed renewals", "processed", resp.Processed, "errors", resp.Errors)
	return resp, nil
}

func (s *subscriptionService) ProcessDelinquencies(ctx context.Context) (*dto.BatchResponse, error) {
	return s.processDunning(ctx, dunningStep{
		Name:          "delinquency",
		ThresholdDays: types.DelinquencyThresholdDays,
		From:          types.SubscriptionStatusActive,
		To:            types.SubscriptionStatusDelinquent,
	})
}

func (s *subscriptionService) ProcessSuspensions(ctx context.Context) (*dto.BatchResponse, error) {
	return s.processDunning(ctx, dunningStep{
		Name:          "suspension",
		ThresholdDays: types.SuspensionThresholdDays,
		From:          types.SubscriptionStatusDelinquent,
		To:            types.SubscriptionStatusSuspended,
	})
}

func (s *subscriptionService) ProcessExpirations(ctx context.Context) (*dto.BatchResponse, error) {
	return s.processDunning(ctx, dunningStep{
		Name:          "expiration",
		ThresholdDays: types.ExpirationThresholdDays,
		From:          types.SubscriptionStatusSuspended,
		To:            types.SubscriptionStatusExpired,
	})
}

// dunningStep describes one escalation of the dunning ladder. Thresholds
// are measured in days past an invoice's due date, so a subscription's dwell
// time in the intermediate statuses never delays the later steps.
type dunningStep struct {
	Name          string
	ThresholdDays int
	From          types.SubscriptionStatus
	To            types.SubscriptionStatus
}

func (s *subscriptionService) processDunning(ctx context.Context, step dunningStep) (*dto.BatchResponse, error) {
	cutoff := s.Clock.Today().AddDate(0, 0, -step.ThresholdDays)
	overdue, err := s.InvoiceRepo.ListOverdue(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	subIDs := lo.Uniq(lo.Map(overdue, func(inv *invoice.Invoice, _ int) string {
		return inv.SubscriptionID
	}))

	resp := &dto.BatchResponse{Items: make([]dto.BatchItemResult, 0, len(subIDs))}

	for _, subID := range subIDs {
		item := dto.BatchItemResult{SubscriptionID: subID}

		err := s.DB.WithTx(ctx, func(ctx context.Context) error {
			sub, err := s.SubRepo.GetForUpdate(ctx, subID)
			if err != nil {
				return err
			}

			if sub.SubscriptionStatus != step.From {
				item.Skipped = true
				item.SkipReason = fmt.Sprintf("status is %s, not %s", sub.SubscriptionStatus, step.From)
				return nil
			}

			sub.SubscriptionStatus = step.To
			if step.To == types.SubscriptionStatusExpired {
				now := s.Clock.Now()
				sub.AutoRenew = false
				sub.EndDate = &now
				sub.CancelledAt = &now
				sub.CancellationReason = "expired due to prolonged non-payment"
			}
			s.touch(ctx, sub)

			return s.SubRepo.Update(ctx, sub)
		})

		s.collect(resp, item, err, step.Name+" failed for subscription")
	}

	s.Logger.Infow("processed dunning step",
		"step", step.Name,
		"processed", resp.Processed,
		"errors", resp.Errors,
	)
	return resp, nil
}

func (s *subscriptionService) LifecycleStatistics(ctx context.Context) (*dto.LifecycleStatsResponse, error) {
	counts, err := s.SubRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	pending, err := s.InvoiceRepo.CountByStatus(ctx, types.InvoiceStatusPending)
	if err != nil {
		return nil, err
	}

	return &dto.LifecycleStatsResponse{
		Subscriptions:   counts,
		PendingInvoices: pending,
	}, nil
}

// collect folds one batch item outcome into the response. Item failures
// are recorded, never propagated: one bad subscription must not abort the
// rest of the run.
func (s *subscriptionService) collect(resp *dto.BatchResponse, item dto.BatchItemResult, err error, logMsg string) {
	if err != nil {
		item.Error = err.Error()
		resp.Errors++
		s.Logger.Errorw(logMsg, "subscription_id", item.SubscriptionID, "error", err)
	} else if !item.Skipped {
		resp.Processed++
	}
	resp.Items = append(resp.Items, item)
}

func (s *subscriptionService) touch(ctx context.Context, sub *subscription.Subscription) {
	sub.UpdatedAt = s.Clock.Now()
	sub.UpdatedBy = types.GetUserID(ctx)
}
