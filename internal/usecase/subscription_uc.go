// File: internal/usecase/subscription_uc.go
package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"app-access-server/internal/domain"
	"app-access-server/internal/domain/model"
	"app-access-server/internal/domain/ports/repository"
	"app-access-server/internal/infra/metrics"
)

// Compile-time check
var _ SubscriptionUseCase = (*subscriptionUC)(nil)

// SubscriptionUseCase tracks per-user entitlement windows.
type SubscriptionUseCase interface {
	// Status returns the stored expiry and whether it is still in the
	// future. An inactive or missing subscription is a normal outcome,
	// not an error.
	Status(ctx context.Context, userID string) (time.Time, bool, error)
	// Extend pushes the expiry forward by months, stacking onto the
	// remaining balance when the subscription is still active and starting
	// from now when it is lapsed or missing. Callers that need atomicity
	// with other writes pass their transaction handle; it is NOT
	// idempotent, so each approval must call it exactly once.
	Extend(ctx context.Context, tx repository.Tx, userID string, months int) (time.Time, error)
	// ListExpiring returns every subscription ending within the window,
	// lapsed ones included.
	ListExpiring(ctx context.Context, withinDays int) ([]*model.Subscription, error)
}

type subscriptionUC struct {
	subs        repository.SubscriptionRepository
	monthLength time.Duration
	log         *zerolog.Logger
}

func NewSubscriptionUseCase(subs repository.SubscriptionRepository, monthLength time.Duration, logger *zerolog.Logger) *subscriptionUC {
	compLog := logger.With().Str("component", "SubscriptionUC").Logger()
	return &subscriptionUC{subs: subs, monthLength: monthLength, log: &compLog}
}

func (u *subscriptionUC) Status(ctx context.Context, userID string) (time.Time, bool, error) {
	if userID == "" {
		return time.Time{}, false, domain.ErrInvalidArgument
	}
	sub, err := u.subs.FindByUser(ctx, repository.NoTX, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, err
	}
	return sub.ExpiresAt, sub.Active(time.Now()), nil
}

func (u *subscriptionUC) Extend(ctx context.Context, tx repository.Tx, userID string, months int) (time.Time, error) {
	if userID == "" || months < 1 {
		return time.Time{}, domain.ErrInvalidArgument
	}

	now := time.Now()
	// Base is the later of now and the current expiry: early renewal stacks
	// onto the remaining balance, a lapsed term restarts from now.
	base := now
	current, err := u.subs.FindByUser(ctx, tx, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return time.Time{}, err
	}
	if current != nil && current.ExpiresAt.After(now) {
		base = current.ExpiresAt
	}

	newExpiry := base.Add(time.Duration(months) * u.monthLength)
	sub := &model.Subscription{
		UserID:    userID,
		ExpiresAt: newExpiry,
		UpdatedAt: now,
	}
	if err := u.subs.Upsert(ctx, tx, sub); err != nil {
		return time.Time{}, err
	}
	metrics.IncSubscriptionExtended(months)
	u.log.Info().Str("user_id", userID).Int("months", months).Time("expires_at", newExpiry).Msg("subscription extended")
	return newExpiry, nil
}

func (u *subscriptionUC) ListExpiring(ctx context.Context, withinDays int) ([]*model.Subscription, error) {
	if withinDays < 0 {
		return nil, domain.ErrInvalidArgument
	}
	return u.subs.FindExpiring(ctx, repository.NoTX, withinDays)
}
