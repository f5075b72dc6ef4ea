// Package memory is an in-process reference backend for the ledger storage
// contract. Writers are serialized; each write transaction works on a private
// copy of the state that replaces the committed state on Commit.
package memory

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sync"

	"github.com/iho/bookkeeper/internal/domain"
	"github.com/iho/bookkeeper/internal/usecase"
)

// ErrTxDone is returned when a finished transaction is used again.
var ErrTxDone = errors.New("memory: transaction has already been committed or rolled back")

type accountKey struct {
	ledgerID string
	slug     string
}

type assignmentKey struct {
	ledgerID      string
	accountTypeID string
}

type entryRow struct {
	ledgerID string
	entry    domain.PersistedEntry
}

type state struct {
	ledgers          map[string]domain.Ledger
	ledgerSlugs      map[string]string
	currencies       map[string]domain.Currency
	accountTypes     map[string]domain.LedgerAccountType
	accountTypeSlugs map[string]string
	assignments      map[assignmentKey]int
	accounts         map[string]domain.PersistedLedgerAccount
	accountSlugs     map[accountKey]string
	transactions     map[string]domain.PersistedTransaction
	entries          []entryRow
}

func newState() *state {
	return &state{
		ledgers:          make(map[string]domain.Ledger),
		ledgerSlugs:      make(map[string]string),
		currencies:       make(map[string]domain.Currency),
		accountTypes:     make(map[string]domain.LedgerAccountType),
		accountTypeSlugs: make(map[string]string),
		assignments:      make(map[assignmentKey]int),
		accounts:         make(map[string]domain.PersistedLedgerAccount),
		accountSlugs:     make(map[accountKey]string),
		transactions:     make(map[string]domain.PersistedTransaction),
	}
}

// clone copies every table. Rows are values, so the copy shares nothing mutable.
func (s *state) clone() *state {
	return &state{
		ledgers:          maps.Clone(s.ledgers),
		ledgerSlugs:      maps.Clone(s.ledgerSlugs),
		currencies:       maps.Clone(s.currencies),
		accountTypes:     maps.Clone(s.accountTypes),
		accountTypeSlugs: maps.Clone(s.accountTypeSlugs),
		assignments:      maps.Clone(s.assignments),
		accounts:         maps.Clone(s.accounts),
		accountSlugs:     maps.Clone(s.accountSlugs),
		transactions:     maps.Clone(s.transactions),
		entries:          slices.Clone(s.entries),
	}
}

// Store holds the committed state and implements usecase.TransactionManager.
type Store struct {
	writer chan struct{}

	mu        sync.RWMutex
	committed *state
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		writer:    make(chan struct{}, 1),
		committed: newState(),
	}
}

// Begin starts a write transaction, waiting for any other writer to finish.
func (s *Store) Begin(ctx context.Context) (usecase.Transaction, error) {
	select {
	case s.writer <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	return &Tx{store: s, staged: s.snapshot().clone()}, nil
}

// snapshot returns the committed state. Committed states are never mutated.
func (s *Store) snapshot() *state {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.committed
}

// Tx is a write transaction over a private copy of the store.
type Tx struct {
	store  *Store
	staged *state
	done   bool
}

// Commit publishes the staged state.
func (t *Tx) Commit(_ context.Context) error {
	if t.done {
		return ErrTxDone
	}
	t.done = true

	t.store.mu.Lock()
	t.store.committed = t.staged
	t.store.mu.Unlock()

	<-t.store.writer

	return nil
}

// Rollback discards the staged state. Rolling back a finished transaction is a no-op.
func (t *Tx) Rollback(_ context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	t.staged = nil

	<-t.store.writer

	return nil
}

// read resolves the state visible to tx.
func (s *Store) read(tx usecase.Transaction) (*state, error) {
	if tx == nil {
		return s.snapshot(), nil
	}

	return s.staged(tx)
}

// write runs fn against the state of tx. Without a transaction fn runs in its own.
func (s *Store) write(ctx context.Context, tx usecase.Transaction, fn func(*state) error) error {
	if tx != nil {
		st, err := s.staged(tx)
		if err != nil {
			return err
		}
		return fn(st)
	}

	own, err := s.Begin(ctx)
	if err != nil {
		return err
	}
	defer own.Rollback(ctx)

	if err := fn(own.(*Tx).staged); err != nil {
		return err
	}

	return own.Commit(ctx)
}

func (s *Store) staged(tx usecase.Transaction) (*state, error) {
	memTx, ok := tx.(*Tx)
	if !ok || memTx.store != s {
		return nil, errors.New("memory: transaction does not belong to this store")
	}

	if memTx.done {
		return nil, ErrTxDone
	}

	return memTx.staged, nil
}
