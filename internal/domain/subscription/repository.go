package subscription

import (
	"context"

	"github.com/subcycle/subcycle/internal/types"
)

type Repository interface {
	Create(ctx context.Context, subscription *Subscription) error
	Get(ctx context.Context, id string) (*Subscription, error)
	// GetForUpdate loads the subscription under a row lock. Must be called
	// inside a transaction; lifecycle mutations use it to serialize
	// concurrent writers per subscription.
	GetForUpdate(ctx context.Context, id string) (*Subscription, error)
	Update(ctx context.Context, subscription *Subscription) error
	List(ctx context.Context, filter *types.SubscriptionFilter) ([]*Subscription, error)
	Count(ctx context.Context, filter *types.SubscriptionFilter) (int, error)
	CountByStatus(ctx context.Context) (map[types.SubscriptionStatus]int, error)
}
