package repository

import (
	"context"

	"app-access-server/internal/domain/model"
)

// SessionRepository is the port for redeemed sessions.
type SessionRepository interface {
	Save(ctx context.Context, tx Tx, s *model.Session) error
	FindByToken(ctx context.Context, tx Tx, token string) (*model.Session, error)
}
