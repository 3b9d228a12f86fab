// File: internal/usecase/auth_uc.go
package usecase

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"app-access-server/internal/domain"
	"app-access-server/internal/domain/model"
	"app-access-server/internal/domain/ports/repository"
	"app-access-server/internal/infra/metrics"
)

// Compile-time check
var _ AuthUseCase = (*authUC)(nil)

// AuthUseCase issues one-time codes, redeems them into sessions and
// validates sessions. Issuance is gated on an active subscription.
type AuthUseCase interface {
	IssueCode(ctx context.Context, userID string) (*model.AccessCode, error)
	RedeemCode(ctx context.Context, code, deviceID string) (*model.Session, error)
	ValidateSession(ctx context.Context, token string) (time.Time, error)
}

type authUC struct {
	codes      repository.AccessCodeRepository
	sessions   repository.SessionRepository
	subs       SubscriptionUseCase
	tm         repository.TransactionManager
	codeTTL    time.Duration
	sessionTTL time.Duration
	log        *zerolog.Logger
}

func NewAuthUseCase(
	codes repository.AccessCodeRepository,
	sessions repository.SessionRepository,
	subs SubscriptionUseCase,
	tm repository.TransactionManager,
	codeTTL, sessionTTL time.Duration,
	logger *zerolog.Logger,
) *authUC {
	compLog := logger.With().Str("component", "AuthUC").Logger()
	return &authUC{
		codes:      codes,
		sessions:   sessions,
		subs:       subs,
		tm:         tm,
		codeTTL:    codeTTL,
		sessionTTL: sessionTTL,
		log:        &compLog,
	}
}

// IssueCode mints a fresh one-time code for the user. Fails with
// domain.ErrNoActiveSubscription when the user's entitlement has lapsed;
// the code/session tables are not touched in that case.
func (u *authUC) IssueCode(ctx context.Context, userID string) (*model.AccessCode, error) {
	if userID == "" {
		return nil, domain.ErrInvalidArgument
	}

	_, active, err := u.subs.Status(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !active {
		metrics.IncCodeIssued("denied")
		return nil, domain.ErrNoActiveSubscription
	}

	value, err := generateCode()
	if err != nil {
		return nil, err
	}
	now := time.Now()
	code := &model.AccessCode{
		Code:      value,
		UserID:    userID,
		ExpiresAt: now.Add(u.codeTTL),
		Used:      false,
		CreatedAt: now,
	}
	if err := u.codes.Save(ctx, repository.NoTX, code); err != nil {
		return nil, err
	}
	metrics.IncCodeIssued("ok")
	u.log.Debug().Str("user_id", userID).Time("expires_at", code.ExpiresAt).Msg("code issued")
	return code, nil
}

// RedeemCode exchanges an unused, unexpired code for a new session. The
// used-flag flip and the session insert commit in one transaction, so at
// most one caller can redeem a given code.
func (u *authUC) RedeemCode(ctx context.Context, code, deviceID string) (*model.Session, error) {
	if code == "" || deviceID == "" {
		return nil, domain.ErrInvalidArgument
	}

	var session *model.Session
	err := u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		ac, err := u.codes.FindByCode(ctx, tx, code)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrCodeNotFound
			}
			return err
		}
		if ac.Used {
			return domain.ErrCodeAlreadyUsed
		}
		now := time.Now()
		if ac.Expired(now) {
			return domain.ErrCodeExpired
		}

		ok, err := u.codes.Consume(ctx, tx, code)
		if err != nil {
			return err
		}
		if !ok {
			// A concurrent redeemer settled the row first.
			return domain.ErrCodeAlreadyUsed
		}

		token, err := generateToken()
		if err != nil {
			return err
		}
		session = &model.Session{
			Token:     token,
			DeviceID:  deviceID,
			ExpiresAt: now.Add(u.sessionTTL),
			CreatedAt: now,
		}
		return u.sessions.Save(ctx, tx, session)
	})
	if err != nil {
		metrics.IncCodeRedeemed(redeemResult(err))
		return nil, err
	}
	metrics.IncCodeRedeemed("ok")
	u.log.Debug().Str("device_id", session.DeviceID).Time("expires_at", session.ExpiresAt).Msg("code redeemed")
	return session, nil
}

// ValidateSession is read-only and idempotent; it never touches the row.
func (u *authUC) ValidateSession(ctx context.Context, token string) (time.Time, error) {
	if token == "" {
		return time.Time{}, domain.ErrInvalidArgument
	}

	s, err := u.sessions.FindByToken(ctx, repository.NoTX, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			metrics.IncSessionValidated("invalid")
			return time.Time{}, domain.ErrSessionNotFound
		}
		return time.Time{}, err
	}
	if s.Expired(time.Now()) {
		metrics.IncSessionValidated("expired")
		return time.Time{}, domain.ErrSessionExpired
	}
	metrics.IncSessionValidated("ok")
	return s.ExpiresAt, nil
}

func redeemResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrCodeNotFound):
		return "invalid"
	case errors.Is(err, domain.ErrCodeAlreadyUsed):
		return "used"
	case errors.Is(err, domain.ErrCodeExpired):
		return "expired"
	default:
		return "error"
	}
}

// generateCode returns a human-typeable code like "V7-3F0A-9C2B". Both
// groups come from crypto/rand; collisions land on the primary key.
func generateCode() (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	s := strings.ToUpper(hex.EncodeToString(buf))
	return fmt.Sprintf("V7-%s-%s", s[:4], s[4:]), nil
}

// generateToken returns an unguessable url-safe bearer token.
func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
