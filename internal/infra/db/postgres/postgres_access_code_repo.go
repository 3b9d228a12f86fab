package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"app-access-server/internal/domain"
	"app-access-server/internal/domain/model"
	"app-access-server/internal/domain/ports/repository"
)

var _ repository.AccessCodeRepository = (*accessCodeRepo)(nil)

type accessCodeRepo struct {
	pool *pgxpool.Pool
}

func NewAccessCodeRepo(pool *pgxpool.Pool) repository.AccessCodeRepository {
	return &accessCodeRepo{pool: pool}
}

func (r *accessCodeRepo) Save(ctx context.Context, tx repository.Tx, code *model.AccessCode) error {
	const q = `
INSERT INTO access_codes (code, user_id, expires_at, used, created_at)
VALUES ($1, $2, $3, $4, $5);
`
	_, err := execSQL(ctx, r.pool, tx, q, code.Code, code.UserID, code.ExpiresAt, code.Used, code.CreatedAt)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

// FindByCode returns the row whatever its used flag, so the caller can tell
// a consumed code from an unknown one. Inside a transaction the row is
// locked for the redemption that follows.
func (r *accessCodeRepo) FindByCode(ctx context.Context, tx repository.Tx, code string) (*model.AccessCode, error) {
	q := `SELECT code, user_id, expires_at, used, created_at FROM access_codes WHERE code = $1`
	if inTx(tx) {
		q += " FOR UPDATE"
	}
	q += ";"
	row, err := pickRow(ctx, r.pool, tx, q, code)
	if err != nil {
		return nil, err
	}

	var ac model.AccessCode
	if err := row.Scan(&ac.Code, &ac.UserID, &ac.ExpiresAt, &ac.Used, &ac.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &ac, nil
}

// Consume atomically flips used only when it is still false, so two
// concurrent redemptions cannot both win.
func (r *accessCodeRepo) Consume(ctx context.Context, tx repository.Tx, code string) (bool, error) {
	const q = `UPDATE access_codes SET used = TRUE WHERE code = $1 AND used = FALSE;`
	cmd, err := execSQL(ctx, r.pool, tx, q, code)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return false, err
		}
		return false, domain.ErrOperationFailed
	}
	return cmd.RowsAffected() >= 1, nil
}
