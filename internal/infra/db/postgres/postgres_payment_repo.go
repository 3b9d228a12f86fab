package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"app-access-server/internal/domain"
	"app-access-server/internal/domain/model"
	"app-access-server/internal/domain/ports/repository"
)

var _ repository.PaymentRepository = (*paymentRepo)(nil)

const paymentColumns = `id, user_id, months, method, screenshot_ref, status, created_at, reviewed_at, reviewed_by`

type paymentRepo struct {
	pool *pgxpool.Pool
}

func NewPaymentRepo(pool *pgxpool.Pool) repository.PaymentRepository {
	return &paymentRepo{pool: pool}
}

func (r *paymentRepo) Create(ctx context.Context, tx repository.Tx, p *model.Payment) (int64, error) {
	const q = `
INSERT INTO payments (user_id, months, method, status, created_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id;
`
	row, err := pickRow(ctx, r.pool, tx, q, p.UserID, p.Months, p.Method, p.Status, p.CreatedAt)
	if err != nil {
		return 0, err
	}
	var id int64
	if err := row.Scan(&id); err != nil {
		return 0, domain.ErrOperationFailed
	}
	p.ID = id
	return id, nil
}

func (r *paymentRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.Payment, error) {
	q := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	if inTx(tx) {
		q += " FOR UPDATE"
	}
	q += ";"
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}

	p := &model.Payment{}
	if err := scanPayment(row, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *paymentRepo) SetScreenshotIfPending(ctx context.Context, tx repository.Tx, id int64, ref string) (bool, error) {
	const q = `UPDATE payments SET screenshot_ref = $2 WHERE id = $1 AND status = 'pending';`
	cmd, err := execSQL(ctx, r.pool, tx, q, id, ref)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return false, err
		}
		return false, domain.ErrOperationFailed
	}
	return cmd.RowsAffected() >= 1, nil
}

// UpdateStatusIfPending flips to a terminal status only when the row is
// still pending, so a settled payment can never be reviewed twice.
func (r *paymentRepo) UpdateStatusIfPending(ctx context.Context, tx repository.Tx, id int64, status model.PaymentStatus, reviewer string, reviewedAt time.Time) (bool, error) {
	const q = `
UPDATE payments
   SET status = $2,
       reviewed_by = $3,
       reviewed_at = $4
 WHERE id = $1
   AND status = 'pending';
`
	cmd, err := execSQL(ctx, r.pool, tx, q, id, status, reviewer, reviewedAt)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return false, err
		}
		return false, domain.ErrOperationFailed
	}
	return cmd.RowsAffected() >= 1, nil
}

func (r *paymentRepo) List(ctx context.Context, tx repository.Tx, status *model.PaymentStatus, limit int) ([]*model.Payment, error) {
	q := `SELECT ` + paymentColumns + ` FROM payments`
	args := []interface{}{}
	if status != nil {
		q += ` WHERE status = $1 ORDER BY id DESC LIMIT $2;`
		args = append(args, *status, limit)
	} else {
		q += ` ORDER BY id DESC LIMIT $1;`
		args = append(args, limit)
	}
	return r.listRows(ctx, tx, q, args...)
}

func (r *paymentRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string, limit int) ([]*model.Payment, error) {
	const q = `SELECT ` + paymentColumns + ` FROM payments WHERE user_id = $1 ORDER BY id DESC LIMIT $2;`
	return r.listRows(ctx, tx, q, userID, limit)
}

func (r *paymentRepo) listRows(ctx context.Context, tx repository.Tx, q string, args ...interface{}) ([]*model.Payment, error) {
	rows, err := queryRows(ctx, r.pool, tx, q, args...)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidArgument), errors.Is(err, domain.ErrInvalidExecContext):
			return nil, err
		default:
			return nil, domain.ErrOperationFailed
		}
	}
	defer rows.Close()

	var out []*model.Payment
	for rows.Next() {
		p := new(model.Payment)
		if err := rows.Scan(&p.ID, &p.UserID, &p.Months, &p.Method, &p.ScreenshotRef, &p.Status, &p.CreatedAt, &p.ReviewedAt, &p.ReviewedBy); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPayment(row pgx.Row, p *model.Payment) error {
	err := row.Scan(&p.ID, &p.UserID, &p.Months, &p.Method, &p.ScreenshotRef, &p.Status, &p.CreatedAt, &p.ReviewedAt, &p.ReviewedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return domain.ErrReadDatabaseRow
	}
	return nil
}
