package repository

import (
	"context"
	"time"

	"app-access-server/internal/domain/model"
)

// PaymentRepository is the port for manually reviewed payments.
type PaymentRepository interface {
	// Create inserts a pending payment and returns the assigned serial id.
	Create(ctx context.Context, tx Tx, p *model.Payment) (int64, error)
	// FindByID returns the payment; implementations lock the row when
	// called inside a transaction.
	FindByID(ctx context.Context, tx Tx, id int64) (*model.Payment, error)
	// SetScreenshotIfPending attaches the reference only while pending.
	// Returns false when no pending row matched.
	SetScreenshotIfPending(ctx context.Context, tx Tx, id int64, ref string) (bool, error)
	// UpdateStatusIfPending flips to a terminal status only while pending,
	// recording reviewer and review time. Returns false when no pending row
	// matched.
	UpdateStatusIfPending(ctx context.Context, tx Tx, id int64, status model.PaymentStatus, reviewer string, reviewedAt time.Time) (bool, error)
	// List returns payments newest-first, optionally filtered by status.
	List(ctx context.Context, tx Tx, status *model.PaymentStatus, limit int) ([]*model.Payment, error)
	// ListByUser returns a user's payments newest-first.
	ListByUser(ctx context.Context, tx Tx, userID string, limit int) ([]*model.Payment, error)
}
