package web_test

import (
	"context"
	"time"

	"app-access-server/internal/domain/model"
	"app-access-server/internal/domain/ports/repository"
	"app-access-server/internal/usecase"
)

//
// ---------------- stub use cases ----------------
//
// Function-field stubs let each test pin exactly the behavior under test.

var (
	_ usecase.AuthUseCase         = (*stubAuthUC)(nil)
	_ usecase.SubscriptionUseCase = (*stubSubUC)(nil)
	_ usecase.PaymentUseCase      = (*stubPaymentUC)(nil)
)

type stubAuthUC struct {
	IssueCodeFunc       func(ctx context.Context, userID string) (*model.AccessCode, error)
	RedeemCodeFunc      func(ctx context.Context, code, deviceID string) (*model.Session, error)
	ValidateSessionFunc func(ctx context.Context, token string) (time.Time, error)
}

func (s *stubAuthUC) IssueCode(ctx context.Context, userID string) (*model.AccessCode, error) {
	return s.IssueCodeFunc(ctx, userID)
}

func (s *stubAuthUC) RedeemCode(ctx context.Context, code, deviceID string) (*model.Session, error) {
	return s.RedeemCodeFunc(ctx, code, deviceID)
}

func (s *stubAuthUC) ValidateSession(ctx context.Context, token string) (time.Time, error) {
	return s.ValidateSessionFunc(ctx, token)
}

type stubSubUC struct {
	StatusFunc       func(ctx context.Context, userID string) (time.Time, bool, error)
	ExtendFunc       func(ctx context.Context, tx repository.Tx, userID string, months int) (time.Time, error)
	ListExpiringFunc func(ctx context.Context, withinDays int) ([]*model.Subscription, error)
}

func (s *stubSubUC) Status(ctx context.Context, userID string) (time.Time, bool, error) {
	return s.StatusFunc(ctx, userID)
}

func (s *stubSubUC) Extend(ctx context.Context, tx repository.Tx, userID string, months int) (time.Time, error) {
	return s.ExtendFunc(ctx, tx, userID, months)
}

func (s *stubSubUC) ListExpiring(ctx context.Context, withinDays int) ([]*model.Subscription, error) {
	return s.ListExpiringFunc(ctx, withinDays)
}

type stubPaymentUC struct {
	CreateFunc           func(ctx context.Context, userID string, months int, method model.PaymentMethod) (*model.Payment, error)
	AttachScreenshotFunc func(ctx context.Context, id int64, ref string) error
	ApproveFunc          func(ctx context.Context, id int64, reviewer string) (string, time.Time, error)
	RejectFunc           func(ctx context.Context, id int64, reviewer string) (string, error)
	GetFunc              func(ctx context.Context, id int64) (*model.Payment, error)
	ListFunc             func(ctx context.Context, status *model.PaymentStatus, limit int) ([]*model.Payment, error)
	ListByUserFunc       func(ctx context.Context, userID string, limit int) ([]*model.Payment, error)
}

func (s *stubPaymentUC) Create(ctx context.Context, userID string, months int, method model.PaymentMethod) (*model.Payment, error) {
	return s.CreateFunc(ctx, userID, months, method)
}

func (s *stubPaymentUC) AttachScreenshot(ctx context.Context, id int64, ref string) error {
	return s.AttachScreenshotFunc(ctx, id, ref)
}

func (s *stubPaymentUC) Approve(ctx context.Context, id int64, reviewer string) (string, time.Time, error) {
	return s.ApproveFunc(ctx, id, reviewer)
}

func (s *stubPaymentUC) Reject(ctx context.Context, id int64, reviewer string) (string, error) {
	return s.RejectFunc(ctx, id, reviewer)
}

func (s *stubPaymentUC) Get(ctx context.Context, id int64) (*model.Payment, error) {
	return s.GetFunc(ctx, id)
}

func (s *stubPaymentUC) List(ctx context.Context, status *model.PaymentStatus, limit int) ([]*model.Payment, error) {
	return s.ListFunc(ctx, status, limit)
}

func (s *stubPaymentUC) ListByUser(ctx context.Context, userID string, limit int) ([]*model.Payment, error) {
	return s.ListByUserFunc(ctx, userID, limit)
}
