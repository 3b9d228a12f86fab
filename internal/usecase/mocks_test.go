// File: internal/usecase/mocks_test.go
package usecase_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"app-access-server/internal/domain"
	"app-access-server/internal/domain/model"
	"app-access-server/internal/domain/ports/repository"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// memTxManager runs the callback without a real transaction; the in-memory
// repos ignore the handle.
type memTxManager struct{}

func (memTxManager) WithTx(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	return fn(ctx, nil)
}

// ---------------- access codes ----------------

type memCodeRepo struct {
	mu      sync.RWMutex
	store   map[string]*model.AccessCode
	saveErr error // used by tests to simulate save failures
}

func newMemCodeRepo() *memCodeRepo {
	return &memCodeRepo{store: make(map[string]*model.AccessCode)}
}

func (m *memCodeRepo) Save(ctx context.Context, tx repository.Tx, code *model.AccessCode) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *code
	m.store[code.Code] = &cp
	return nil
}

func (m *memCodeRepo) FindByCode(ctx context.Context, tx repository.Tx, code string) (*model.AccessCode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.store[code]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memCodeRepo) Consume(ctx context.Context, tx repository.Tx, code string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.store[code]
	if !ok || c.Used {
		return false, nil
	}
	c.Used = true
	return true, nil
}

// ---------------- sessions ----------------

type memSessionRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Session
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{store: make(map[string]*model.Session)}
}

func (m *memSessionRepo) Save(ctx context.Context, tx repository.Tx, s *model.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.store[s.Token] = &cp
	return nil
}

func (m *memSessionRepo) FindByToken(ctx context.Context, tx repository.Tx, token string) (*model.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.store[token]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

// ---------------- subscriptions ----------------

type memSubscriptionRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Subscription
}

func newMemSubscriptionRepo() *memSubscriptionRepo {
	return &memSubscriptionRepo{store: make(map[string]*model.Subscription)}
}

func (m *memSubscriptionRepo) FindByUser(ctx context.Context, tx repository.Tx, userID string) (*model.Subscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.store[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memSubscriptionRepo) Upsert(ctx context.Context, tx repository.Tx, sub *model.Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *sub
	m.store[sub.UserID] = &cp
	return nil
}

func (m *memSubscriptionRepo) FindExpiring(ctx context.Context, tx repository.Tx, withinDays int) ([]*model.Subscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cutoff := time.Now().Add(time.Duration(withinDays) * 24 * time.Hour)
	var out []*model.Subscription
	for _, s := range m.store {
		if !s.ExpiresAt.After(cutoff) {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpiresAt.Before(out[j].ExpiresAt) })
	return out, nil
}

// ---------------- payments ----------------

type memPaymentRepo struct {
	mu     sync.RWMutex
	store  map[int64]*model.Payment
	nextID int64
}

func newMemPaymentRepo() *memPaymentRepo {
	return &memPaymentRepo{store: make(map[int64]*model.Payment)}
}

func (m *memPaymentRepo) Create(ctx context.Context, tx repository.Tx, p *model.Payment) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	p.ID = m.nextID
	cp := *p
	m.store[p.ID] = &cp
	return p.ID, nil
}

func (m *memPaymentRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memPaymentRepo) SetScreenshotIfPending(ctx context.Context, tx repository.Tx, id int64, ref string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[id]
	if !ok || p.Status != model.PaymentStatusPending {
		return false, nil
	}
	p.ScreenshotRef = &ref
	return true, nil
}

func (m *memPaymentRepo) UpdateStatusIfPending(ctx context.Context, tx repository.Tx, id int64, status model.PaymentStatus, reviewer string, reviewedAt time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[id]
	if !ok || p.Status != model.PaymentStatusPending {
		return false, nil
	}
	p.Status = status
	p.ReviewedBy = &reviewer
	p.ReviewedAt = &reviewedAt
	return true, nil
}

func (m *memPaymentRepo) List(ctx context.Context, tx repository.Tx, status *model.PaymentStatus, limit int) ([]*model.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Payment
	for _, p := range m.store {
		if status != nil && p.Status != *status {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memPaymentRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string, limit int) ([]*model.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Payment
	for _, p := range m.store {
		if p.UserID != userID {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ---------------- reminder log ----------------

type reminderKey struct {
	userID    string
	expiresAt time.Time
	threshold int
}

type memReminderLogRepo struct {
	mu   sync.Mutex
	sent map[reminderKey]bool
}

func newMemReminderLogRepo() *memReminderLogRepo {
	return &memReminderLogRepo{sent: make(map[reminderKey]bool)}
}

func (m *memReminderLogRepo) Save(ctx context.Context, tx repository.Tx, userID string, expiresAt time.Time, thresholdDays int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent[reminderKey{userID, expiresAt, thresholdDays}] = true
	return nil
}

func (m *memReminderLogRepo) Exists(ctx context.Context, tx repository.Tx, userID string, expiresAt time.Time, thresholdDays int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent[reminderKey{userID, expiresAt, thresholdDays}], nil
}

// ---------------- notifier ----------------

type recordingNotifier struct {
	mu       sync.Mutex
	notified []string
	err      error
}

func (n *recordingNotifier) NotifyExpiring(ctx context.Context, userID string, expiresAt time.Time, daysLeft int) error {
	if n.err != nil {
		return n.err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notified = append(n.notified, userID)
	return nil
}
