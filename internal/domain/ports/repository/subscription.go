package repository

import (
	"context"

	"app-access-server/internal/domain/model"
)

// SubscriptionRepository is the port for per-user entitlement windows.
type SubscriptionRepository interface {
	// FindByUser returns the row or domain.ErrNotFound; it does not
	// interpret the expiry.
	FindByUser(ctx context.Context, tx Tx, userID string) (*model.Subscription, error)
	// Upsert writes the expiry for a user, creating the row when absent.
	Upsert(ctx context.Context, tx Tx, sub *model.Subscription) error
	// FindExpiring returns every subscription with expires_at within the
	// window, including already-lapsed rows.
	FindExpiring(ctx context.Context, tx Tx, withinDays int) ([]*model.Subscription, error)
}
