// File: internal/usecase/payment_uc.go
package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"app-access-server/internal/domain"
	"app-access-server/internal/domain/model"
	"app-access-server/internal/domain/ports/repository"
	"app-access-server/internal/infra/metrics"
)

// Compile-time check
var _ PaymentUseCase = (*paymentUC)(nil)

// PaymentUseCase drives the manual payment review state machine:
// pending -> approved | rejected, both terminal.
type PaymentUseCase interface {
	Create(ctx context.Context, userID string, months int, method model.PaymentMethod) (*model.Payment, error)
	AttachScreenshot(ctx context.Context, id int64, ref string) error
	// Approve settles the payment and extends the owner's subscription in
	// the same transaction. Returns the owner and the new expiry.
	Approve(ctx context.Context, id int64, reviewer string) (string, time.Time, error)
	// Reject settles the payment without touching the ledger. Returns the owner.
	Reject(ctx context.Context, id int64, reviewer string) (string, error)
	Get(ctx context.Context, id int64) (*model.Payment, error)
	List(ctx context.Context, status *model.PaymentStatus, limit int) ([]*model.Payment, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]*model.Payment, error)
}

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type paymentUC struct {
	payments repository.PaymentRepository
	subs     SubscriptionUseCase
	tm       repository.TransactionManager
	log      *zerolog.Logger
}

func NewPaymentUseCase(payments repository.PaymentRepository, subs SubscriptionUseCase, tm repository.TransactionManager, logger *zerolog.Logger) *paymentUC {
	compLog := logger.With().Str("component", "PaymentUC").Logger()
	return &paymentUC{payments: payments, subs: subs, tm: tm, log: &compLog}
}

func (u *paymentUC) Create(ctx context.Context, userID string, months int, method model.PaymentMethod) (*model.Payment, error) {
	if userID == "" || months < 1 || !model.KnownPaymentMethod(method) {
		return nil, domain.ErrInvalidArgument
	}

	p := &model.Payment{
		UserID:    userID,
		Months:    months,
		Method:    method,
		Status:    model.PaymentStatusPending,
		CreatedAt: time.Now(),
	}
	if _, err := u.payments.Create(ctx, repository.NoTX, p); err != nil {
		return nil, err
	}
	metrics.IncPayment(string(model.PaymentStatusPending))
	u.log.Info().Int64("payment_id", p.ID).Str("user_id", userID).Int("months", months).Str("method", string(method)).Msg("payment created")
	return p, nil
}

// AttachScreenshot stores the evidence reference while the payment is still
// pending. After a decision the evidence is frozen.
func (u *paymentUC) AttachScreenshot(ctx context.Context, id int64, ref string) error {
	if id <= 0 || ref == "" {
		return domain.ErrInvalidArgument
	}

	ok, err := u.payments.SetScreenshotIfPending(ctx, repository.NoTX, id, ref)
	if err != nil {
		return err
	}
	if !ok {
		return u.settledStateError(ctx, id)
	}
	return nil
}

func (u *paymentUC) Approve(ctx context.Context, id int64, reviewer string) (string, time.Time, error) {
	if id <= 0 || reviewer == "" {
		return "", time.Time{}, domain.ErrInvalidArgument
	}

	var (
		owner     string
		newExpiry time.Time
	)
	// The status flip and the ledger extension commit together: a crash
	// between them can neither grant time without a recorded approval nor
	// record an approval without granting time.
	err := u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		p, err := u.payments.FindByID(ctx, tx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrPaymentNotFound
			}
			return err
		}
		if !p.Pending() {
			return domain.ErrPaymentNotPending
		}

		ok, err := u.payments.UpdateStatusIfPending(ctx, tx, id, model.PaymentStatusApproved, reviewer, time.Now())
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrPaymentNotPending
		}

		owner = p.UserID
		newExpiry, err = u.subs.Extend(ctx, tx, p.UserID, p.Months)
		return err
	})
	if err != nil {
		return "", time.Time{}, err
	}
	metrics.IncPayment(string(model.PaymentStatusApproved))
	u.log.Info().Int64("payment_id", id).Str("user_id", owner).Str("reviewer", reviewer).Time("expires_at", newExpiry).Msg("payment approved")
	return owner, newExpiry, nil
}

func (u *paymentUC) Reject(ctx context.Context, id int64, reviewer string) (string, error) {
	if id <= 0 || reviewer == "" {
		return "", domain.ErrInvalidArgument
	}

	var owner string
	err := u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		p, err := u.payments.FindByID(ctx, tx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrPaymentNotFound
			}
			return err
		}
		if !p.Pending() {
			return domain.ErrPaymentNotPending
		}

		ok, err := u.payments.UpdateStatusIfPending(ctx, tx, id, model.PaymentStatusRejected, reviewer, time.Now())
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrPaymentNotPending
		}
		owner = p.UserID
		return nil
	})
	if err != nil {
		return "", err
	}
	metrics.IncPayment(string(model.PaymentStatusRejected))
	u.log.Info().Int64("payment_id", id).Str("user_id", owner).Str("reviewer", reviewer).Msg("payment rejected")
	return owner, nil
}

func (u *paymentUC) Get(ctx context.Context, id int64) (*model.Payment, error) {
	if id <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	p, err := u.payments.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, err
	}
	return p, nil
}

func (u *paymentUC) List(ctx context.Context, status *model.PaymentStatus, limit int) ([]*model.Payment, error) {
	return u.payments.List(ctx, repository.NoTX, status, clampLimit(limit))
}

func (u *paymentUC) ListByUser(ctx context.Context, userID string, limit int) ([]*model.Payment, error) {
	if userID == "" {
		return nil, domain.ErrInvalidArgument
	}
	return u.payments.ListByUser(ctx, repository.NoTX, userID, clampLimit(limit))
}

// settledStateError distinguishes an unknown id from a payment that has
// already left pending, after a conditional update matched no row.
func (u *paymentUC) settledStateError(ctx context.Context, id int64) error {
	_, err := u.payments.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrPaymentNotFound
		}
		return err
	}
	return domain.ErrPaymentNotPending
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}
