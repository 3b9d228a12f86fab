package repository

import (
	"context"

	"app-access-server/internal/domain/model"
)

// AccessCodeRepository is the port for one-time codes.
type AccessCodeRepository interface {
	// Save inserts a freshly issued code.
	Save(ctx context.Context, tx Tx, code *model.AccessCode) error
	// FindByCode returns the code row regardless of its used flag.
	FindByCode(ctx context.Context, tx Tx, code string) (*model.AccessCode, error)
	// Consume flips used to true only if it is still false.
	// Returns false when the code was missing or already consumed.
	Consume(ctx context.Context, tx Tx, code string) (bool, error)
}
