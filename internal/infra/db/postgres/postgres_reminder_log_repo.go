package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"app-access-server/internal/domain"
	"app-access-server/internal/domain/ports/repository"
)

var _ repository.ReminderLogRepository = (*reminderLogRepo)(nil)

type reminderLogRepo struct {
	pool *pgxpool.Pool
}

func NewReminderLogRepo(pool *pgxpool.Pool) repository.ReminderLogRepository {
	return &reminderLogRepo{pool: pool}
}

func (r *reminderLogRepo) Save(ctx context.Context, tx repository.Tx, userID string, expiresAt time.Time, thresholdDays int) error {
	// The UNIQUE constraint on (user_id, expires_at, threshold_days) is the
	// dedup guarantee; ON CONFLICT DO NOTHING keeps a duplicate send attempt
	// from failing the whole sweep.
	const q = `
INSERT INTO reminder_log (id, user_id, expires_at, threshold_days)
VALUES ($1, $2, $3, $4)
ON CONFLICT (user_id, expires_at, threshold_days) DO NOTHING;
`
	_, err := execSQL(ctx, r.pool, tx, q, uuid.NewString(), userID, expiresAt, thresholdDays)
	return err
}

func (r *reminderLogRepo) Exists(ctx context.Context, tx repository.Tx, userID string, expiresAt time.Time, thresholdDays int) (bool, error) {
	const q = `
SELECT EXISTS(
    SELECT 1 FROM reminder_log
    WHERE user_id = $1 AND expires_at = $2 AND threshold_days = $3
);
`
	row, err := pickRow(ctx, r.pool, tx, q, userID, expiresAt, thresholdDays)
	if err != nil {
		return false, err
	}

	var exists bool
	if err := row.Scan(&exists); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, domain.ErrReadDatabaseRow
	}
	return exists, nil
}
