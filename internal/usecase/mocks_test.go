// File: internal/usecase/mocks_test.go
package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/shopspring/decimal"

	"instapay-callback/internal/domain"
	"instapay-callback/internal/domain/model"
	"instapay-callback/internal/domain/ports/repository"
)

// memAccountRepo is a small in-memory ledger used by unit tests.
type memAccountRepo struct {
	mu       sync.RWMutex
	store    map[string]*model.LedgerAccount
	findErr  error // used by tests to simulate lookup failures
	creditTx []repository.Tx
}

func newMemAccountRepo(accts ...*model.LedgerAccount) *memAccountRepo {
	m := &memAccountRepo{store: make(map[string]*model.LedgerAccount)}
	for _, a := range accts {
		m.store[a.AccountNumber] = a
	}
	return m
}

func (m *memAccountRepo) FindByNumber(ctx context.Context, tx repository.Tx, accountNumber string) (*model.LedgerAccount, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.store[accountNumber]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memAccountRepo) Save(ctx context.Context, tx repository.Tx, a *model.LedgerAccount) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *a
	m.store[a.AccountNumber] = &cp
	return nil
}

func (m *memAccountRepo) Credit(ctx context.Context, tx repository.Tx, accountNumber string, amount decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.store[accountNumber]
	if !ok || a.Status != model.LedgerAccountActive {
		return domain.ErrNotFound
	}
	a.Balance = a.Balance.Add(amount)
	m.creditTx = append(m.creditTx, tx)
	return nil
}

func (m *memAccountRepo) balance(accountNumber string) decimal.Decimal {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.store[accountNumber].Balance
}

// memInwardRepo keeps inward records keyed by instruction id.
type memInwardRepo struct {
	mu        sync.RWMutex
	store     map[string]*model.InwardTransaction
	createErr error
}

func newMemInwardRepo() *memInwardRepo {
	return &memInwardRepo{store: make(map[string]*model.InwardTransaction)}
}

func (m *memInwardRepo) Create(ctx context.Context, tx repository.Tx, t *model.InwardTransaction) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[t.InstructionID]; ok {
		return domain.ErrDuplicateTransaction
	}
	cp := *t
	m.store[t.InstructionID] = &cp
	return nil
}

func (m *memInwardRepo) FindByInstructionID(ctx context.Context, tx repository.Tx, instructionID string) (*model.InwardTransaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.store[instructionID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *memInwardRepo) SumCreditedSince(ctx context.Context, tx repository.Tx, accountNumber string, since time.Time) (decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sum := decimal.Zero
	for _, t := range m.store {
		if t.CreditorAccount == accountNumber && t.Status == model.InwardStatusCredited && !t.CreatedAt.Before(since) {
			sum = sum.Add(t.Amount)
		}
	}
	return sum, nil
}

// memOutwardRepo records status updates for known instruction ids.
type memOutwardRepo struct {
	mu      sync.Mutex
	known   map[string]bool
	updates []model.OutwardStatusUpdate
}

func newMemOutwardRepo(ids ...string) *memOutwardRepo {
	m := &memOutwardRepo{known: make(map[string]bool)}
	for _, id := range ids {
		m.known[id] = true
	}
	return m
}

func (m *memOutwardRepo) UpdateStatus(ctx context.Context, tx repository.Tx, u model.OutwardStatusUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.known[u.InstructionID] {
		return domain.ErrNotFound
	}
	m.updates = append(m.updates, u)
	return nil
}

// memTxManager runs fn directly and rolls back the in-memory stores
// it was given when fn fails.
type memTxManager struct {
	calls    int
	rollback func()
}

type memTx struct{}

func (m *memTxManager) WithTx(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	m.calls++
	err := fn(ctx, memTx{})
	if err != nil && m.rollback != nil {
		m.rollback()
	}
	return err
}

// spyDuplicates is a duplicate checker that claims ids in memory and records
// releases.
type spyDuplicates struct {
	mu       sync.Mutex
	seen     map[string]bool
	err      error
	calls    int
	released []string
}

func newSpyDuplicates(seen ...string) *spyDuplicates {
	s := &spyDuplicates{seen: make(map[string]bool)}
	for _, id := range seen {
		s.seen[id] = true
	}
	return s
}

func (s *spyDuplicates) IsDuplicate(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return false, s.err
	}
	if s.seen[id] {
		return true, nil
	}
	s.seen[id] = true
	return false, nil
}

func (s *spyDuplicates) Release(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.seen, id)
	s.released = append(s.released, id)
	return nil
}

// fakeTokens issues predictable tokens.
type fakeTokens struct {
	subjects []string
	err      error
}

func (f *fakeTokens) Issue(subject string) (string, time.Time, error) {
	if f.err != nil {
		return "", time.Time{}, f.err
	}
	f.subjects = append(f.subjects, subject)
	return "tok-" + subject, time.Now().Add(time.Hour), nil
}

func (f *fakeTokens) Verify(token string) bool {
	for _, s := range f.subjects {
		if token == "tok-"+s {
			return true
		}
	}
	return false
}

var errBoom = errors.New("boom")
