//go:build integration

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v4"

	"app-access-server/internal/domain"
	"app-access-server/internal/domain/model"
	"app-access-server/internal/domain/ports/repository"
)

func TestAccessCodeRepo_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode.")
	}

	ctx := context.Background()
	repo := NewAccessCodeRepo(testPool)

	newCode := func(code string) *model.AccessCode {
		return &model.AccessCode{
			Code:      code,
			UserID:    "user-1",
			ExpiresAt: time.Now().Add(10 * time.Minute),
			CreatedAt: time.Now(),
		}
	}

	t.Run("should save, find, and consume a code exactly once", func(t *testing.T) {
		cleanup(t)

		if err := repo.Save(ctx, repository.NoTX, newCode("V7-AAAA-0001")); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		found, err := repo.FindByCode(ctx, repository.NoTX, "V7-AAAA-0001")
		if err != nil {
			t.Fatalf("FindByCode failed: %v", err)
		}
		if found.UserID != "user-1" || found.Used {
			t.Fatalf("unexpected code state: %+v", found)
		}

		ok, err := repo.Consume(ctx, repository.NoTX, "V7-AAAA-0001")
		if err != nil {
			t.Fatalf("Consume failed: %v", err)
		}
		if !ok {
			t.Fatal("first Consume should win")
		}

		// A consumed code stays findable with used=true.
		found, err = repo.FindByCode(ctx, repository.NoTX, "V7-AAAA-0001")
		if err != nil {
			t.Fatalf("FindByCode after consume failed: %v", err)
		}
		if !found.Used {
			t.Fatal("expected used=true after consume")
		}

		ok, err = repo.Consume(ctx, repository.NoTX, "V7-AAAA-0001")
		if err != nil {
			t.Fatalf("second Consume errored: %v", err)
		}
		if ok {
			t.Fatal("second Consume must not win")
		}
	})

	t.Run("should return ErrNotFound for an unknown code", func(t *testing.T) {
		cleanup(t)

		_, err := repo.FindByCode(ctx, repository.NoTX, "V7-ZZZZ-9999")
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("only one of two concurrent transactions consumes the code", func(t *testing.T) {
		cleanup(t)

		if err := repo.Save(ctx, repository.NoTX, newCode("V7-BBBB-0002")); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		tm := NewTxManager(testPool)
		wins := 0
		for i := 0; i < 2; i++ {
			err := tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
				if _, err := repo.FindByCode(ctx, tx, "V7-BBBB-0002"); err != nil {
					return err
				}
				ok, err := repo.Consume(ctx, tx, "V7-BBBB-0002")
				if err != nil {
					return err
				}
				if ok {
					wins++
				}
				return nil
			})
			if err != nil {
				t.Fatalf("transaction %d failed: %v", i, err)
			}
		}
		if wins != 1 {
			t.Fatalf("wins = %d, want exactly 1", wins)
		}
	})
}

func TestSessionRepo_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode.")
	}

	ctx := context.Background()
	repo := NewSessionRepo(testPool)

	t.Run("should save and find a session by token", func(t *testing.T) {
		cleanup(t)

		// Truncate to the microsecond precision timestamptz stores.
		s := &model.Session{
			Token:     "tok-abc",
			DeviceID:  "device-1",
			ExpiresAt: time.Now().Add(time.Hour).Truncate(time.Microsecond),
			CreatedAt: time.Now().Truncate(time.Microsecond),
		}
		if err := repo.Save(ctx, repository.NoTX, s); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		found, err := repo.FindByToken(ctx, repository.NoTX, "tok-abc")
		if err != nil {
			t.Fatalf("FindByToken failed: %v", err)
		}
		if found.DeviceID != "device-1" {
			t.Fatalf("DeviceID = %q", found.DeviceID)
		}
		if !found.ExpiresAt.Equal(s.ExpiresAt) {
			t.Fatalf("ExpiresAt = %v, want %v", found.ExpiresAt, s.ExpiresAt)
		}
	})

	t.Run("should return ErrNotFound for an unknown token", func(t *testing.T) {
		cleanup(t)

		_, err := repo.FindByToken(ctx, repository.NoTX, "nope")
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}
