package storage

import (
	"context"

	"subtrack/internal/core"
)

// Repository persists subscription records.
type Repository interface {
	// List returns every subscription ordered by name.
	List(ctx context.Context) ([]core.Subscription, error)
	// Insert stores s and returns its new ID.
	Insert(ctx context.Context, s core.Subscription) (int64, error)
	// Delete removes the subscription with the given ID. Unknown IDs are not an error.
	Delete(ctx context.Context, id int64) error
	// ListRenewingBetween returns subscriptions whose renewal date falls on a
	// calendar day in [from, to], ordered by renewal date.
	ListRenewingBetween(ctx context.Context, from, to core.Date) ([]core.Subscription, error)
	// Count returns the number of stored subscriptions.
	Count(ctx context.Context) (int, error)
	// Ping checks that the backing store is reachable.
	Ping(ctx context.Context) error
	Close() error
}
