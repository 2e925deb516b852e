package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/MANOJ-80/0xRupex/internal/models"
	apperrors "github.com/MANOJ-80/0xRupex/pkg/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MemoryStore keeps canonical transactions in process memory, indexed by ID,
// fingerprint, and exact amount. The amount buckets keep windowed lookups
// from scanning the whole ledger.
type MemoryStore struct {
	mu            sync.RWMutex
	byID          map[string]*models.CanonicalTransaction
	byFingerprint map[string]*models.CanonicalTransaction
	byAmount      map[string][]*models.CanonicalTransaction
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:          make(map[string]*models.CanonicalTransaction),
		byFingerprint: make(map[string]*models.CanonicalTransaction),
		byAmount:      make(map[string][]*models.CanonicalTransaction),
	}
}

// FindByFingerprint returns a copy of the record with the given fingerprint,
// or (nil, nil) when none exists.
func (s *MemoryStore) FindByFingerprint(ctx context.Context, fingerprint string) (*models.CanonicalTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tx, ok := s.byFingerprint[fingerprint]
	if !ok {
		return nil, nil
	}
	cp := *tx
	return &cp, nil
}

// FindByAmountDirectionWindow scans the exact-amount bucket for the earliest
// record matching direction whose transaction time lies in [start, end].
func (s *MemoryStore) FindByAmountDirectionWindow(ctx context.Context, amount decimal.Decimal, direction models.Direction, start, end time.Time) (*models.CanonicalTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var best *models.CanonicalTransaction
	for _, tx := range s.byAmount[amount.String()] {
		if tx.Direction != direction {
			continue
		}
		if tx.TransactionAt.Before(start) || tx.TransactionAt.After(end) {
			continue
		}
		if best == nil || tx.TransactionAt.Before(best.TransactionAt) {
			best = tx
		}
	}
	if best == nil {
		return nil, nil
	}
	cp := *best
	return &cp, nil
}

// Insert stores a copy of the transaction, assigning an ID when the caller
// did not.
func (s *MemoryStore) Insert(ctx context.Context, tx *models.CanonicalTransaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", apperrors.StoreError(apperrors.CodeInsertFailed, "insert", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *tx
	if cp.ID == "" {
		cp.ID = uuid.NewString()
	}
	s.byID[cp.ID] = &cp
	s.byFingerprint[cp.Fingerprint] = &cp
	key := cp.Amount.String()
	s.byAmount[key] = append(s.byAmount[key], &cp)
	return cp.ID, nil
}

// UpdateFields applies patch to the record with the given ID. A fingerprint
// change re-keys the fingerprint index so the new key dedups future resends.
func (s *MemoryStore) UpdateFields(ctx context.Context, id string, patch FieldPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, ok := s.byID[id]
	if !ok {
		return apperrors.StoreError(apperrors.CodeUpdateFailed, "update_fields",
			apperrors.New(apperrors.CategoryStore, apperrors.CodeUpdateFailed, "no transaction with id "+id))
	}

	if patch.OriginLabel != nil {
		tx.OriginLabel = *patch.OriginLabel
	}
	if patch.AccountSuffix != nil {
		tx.AccountSuffix = *patch.AccountSuffix
	}
	if patch.Merchant != nil {
		tx.Merchant = *patch.Merchant
	}
	if patch.Category != nil {
		tx.Category = *patch.Category
	}
	if patch.Reference != nil {
		tx.Reference = *patch.Reference
	}
	if patch.Fingerprint != nil && *patch.Fingerprint != tx.Fingerprint {
		delete(s.byFingerprint, tx.Fingerprint)
		tx.Fingerprint = *patch.Fingerprint
		s.byFingerprint[tx.Fingerprint] = tx
	}
	return nil
}

// Len reports the number of stored transactions.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// All returns copies of every stored transaction, ordered by transaction
// time. Used by reporting.
func (s *MemoryStore) All(ctx context.Context) ([]*models.CanonicalTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.CanonicalTransaction, 0, len(s.byID))
	for _, tx := range s.byID {
		cp := *tx
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].TransactionAt.Before(out[j].TransactionAt)
	})
	return out, nil
}
