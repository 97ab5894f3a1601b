// Package ledger owns the authoritative ordered collection of transactions and
// keeps the persisted copy in step with it.
//
// Every mutation validates its input first, applies the change to a copy of
// the collection, saves that copy through the Repository and only then makes it
// current. A rejected or failed mutation therefore leaves both memory and disk
// untouched.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"budget/internal/core"
	applog "budget/internal/log"
)

var (
	ErrPositionOutOfRange = errors.New("position out of range")
	ErrNotFound           = errors.New("transaction not found")
)

// Repository loads and saves the whole collection.
type Repository interface {
	Load(ctx context.Context) ([]core.Transaction, error)
	Save(ctx context.Context, txs []core.Transaction) error
}

// NewTransaction carries the values of one input section.
type NewTransaction struct {
	Date     string
	Type     core.TxType
	Amount   string
	Category string
	Notes    string
}

// Edit carries the editable fields of an existing record. The type of a
// record never changes once created.
type Edit struct {
	Date     string
	Amount   string
	Category string
	Notes    string
}

type Store struct {
	mu     sync.RWMutex
	repo   Repository
	items  []core.Transaction
	logger *applog.Logger
	newID  func() string
}

func NewStore(repo Repository, logger *applog.Logger) *Store {
	if logger == nil {
		logger = applog.Discard()
	}
	return &Store{
		repo:   repo,
		items:  []core.Transaction{},
		logger: logger.WithComponent(applog.ComponentLedger),
		newID:  uuid.NewString,
	}
}

// Load replaces the collection with the persisted one. Records that predate
// stable ids are given one and written back.
func (s *Store) Load(ctx context.Context) error {
	txs, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load transactions: %w", err)
	}
	if txs == nil {
		txs = []core.Transaction{}
	}

	assigned := 0
	seen := make(map[string]struct{}, len(txs))
	for i := range txs {
		if _, dup := seen[txs[i].ID]; txs[i].ID == "" || dup {
			txs[i].ID = s.newID()
			assigned++
		}
		seen[txs[i].ID] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if assigned > 0 {
		if err := s.repo.Save(ctx, txs); err != nil {
			return fmt.Errorf("persist assigned ids: %w", err)
		}
	}
	s.items = txs

	s.logger.InfoContext(ctx, "Transactions loaded",
		applog.FieldOperation, applog.OpLoad,
		applog.FieldCount, len(txs),
		applog.FieldIDsAssigned, assigned)
	return nil
}

// Add validates the section input and appends a new record.
func (s *Store) Add(ctx context.Context, in NewTransaction) (core.Transaction, error) {
	amount, err := core.ParseMoney(in.Amount)
	if err != nil {
		return core.Transaction{}, err
	}
	t := core.Transaction{
		Date:     in.Date,
		Type:     in.Type,
		Amount:   amount,
		Category: in.Category,
		Notes:    in.Notes,
	}.Normalize()
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t.ID = s.newID()
	next := make([]core.Transaction, len(s.items), len(s.items)+1)
	copy(next, s.items)
	next = append(next, t)
	if err := s.commit(ctx, next); err != nil {
		return core.Transaction{}, err
	}

	s.logger.InfoContext(ctx, "Transaction added", applog.NewFields().
		WithTransaction(t.ID, t.Type.String(), t.Amount.Cents, t.Category).
		WithPosition(len(next)-1).
		WithOperation(applog.OpCreate).ToSlice()...)
	return t, nil
}

// Update replaces the editable fields of the record at position. Either every
// field changes or none does.
func (s *Store) Update(ctx context.Context, position int, in Edit) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if position < 0 || position >= len(s.items) {
		return core.Transaction{}, ErrPositionOutOfRange
	}
	return s.updateLocked(ctx, position, in)
}

// UpdateByID is Update keyed by the record's stable id.
func (s *Store) UpdateByID(ctx context.Context, id string, in Edit) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos := s.indexLocked(id)
	if pos < 0 {
		return core.Transaction{}, ErrNotFound
	}
	return s.updateLocked(ctx, pos, in)
}

func (s *Store) updateLocked(ctx context.Context, position int, in Edit) (core.Transaction, error) {
	amount, err := core.ParseMoney(in.Amount)
	if err != nil {
		return core.Transaction{}, err
	}

	t := s.items[position]
	t.Date = in.Date
	t.Amount = amount
	t.Category = in.Category
	t.Notes = in.Notes
	t = t.Normalize()
	if strings.TrimSpace(t.Date) == "" {
		return core.Transaction{}, core.ErrEmptyDate
	}

	next := make([]core.Transaction, len(s.items))
	copy(next, s.items)
	next[position] = t
	if err := s.commit(ctx, next); err != nil {
		return core.Transaction{}, err
	}

	s.logger.InfoContext(ctx, "Transaction updated", applog.NewFields().
		WithTransaction(t.ID, t.Type.String(), t.Amount.Cents, t.Category).
		WithPosition(position).
		WithOperation(applog.OpUpdate).ToSlice()...)
	return t, nil
}

// Delete removes the record at position; later records shift down by one.
func (s *Store) Delete(ctx context.Context, position int) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if position < 0 || position >= len(s.items) {
		return core.Transaction{}, ErrPositionOutOfRange
	}
	return s.deleteLocked(ctx, position)
}

// DeleteByID is Delete keyed by the record's stable id.
func (s *Store) DeleteByID(ctx context.Context, id string) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos := s.indexLocked(id)
	if pos < 0 {
		return core.Transaction{}, ErrNotFound
	}
	return s.deleteLocked(ctx, pos)
}

func (s *Store) deleteLocked(ctx context.Context, position int) (core.Transaction, error) {
	removed := s.items[position]
	next := make([]core.Transaction, 0, len(s.items)-1)
	next = append(next, s.items[:position]...)
	next = append(next, s.items[position+1:]...)
	if err := s.commit(ctx, next); err != nil {
		return core.Transaction{}, err
	}

	s.logger.InfoContext(ctx, "Transaction deleted", applog.NewFields().
		WithTransaction(removed.ID, removed.Type.String(), removed.Amount.Cents, removed.Category).
		WithPosition(position).
		WithOperation(applog.OpDelete).ToSlice()...)
	return removed, nil
}

// All returns a copy of the collection in insertion order.
func (s *Store) All() []core.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Transaction{}, s.items...)
}

// Get returns the record at position.
func (s *Store) Get(position int) (core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if position < 0 || position >= len(s.items) {
		return core.Transaction{}, ErrPositionOutOfRange
	}
	return s.items[position], nil
}

// Position returns the current position of the record with the given id.
func (s *Store) Position(id string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if pos := s.indexLocked(id); pos >= 0 {
		return pos, nil
	}
	return -1, ErrNotFound
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Summary aggregates the current collection.
func (s *Store) Summary() core.Breakdown {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return core.Summarize(s.items)
}

func (s *Store) indexLocked(id string) int {
	if id == "" {
		return -1
	}
	for i, t := range s.items {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// commit persists next and makes it current. s.mu must be held.
func (s *Store) commit(ctx context.Context, next []core.Transaction) error {
	if err := s.repo.Save(ctx, next); err != nil {
		s.logger.ErrorContext(ctx, "Failed to save transactions", applog.NewFields().
			WithOperation(applog.OpSave).
			WithError(err).ToSlice()...)
		return fmt.Errorf("save transactions: %w", err)
	}
	s.items = next
	return nil
}
