// Package store persists canonical transactions and exposes the narrow
// query surface reconciliation needs: fingerprint lookup, windowed
// amount/direction lookup, insert, and partial field update. Two
// implementations share the contract, an in-memory store for tests and
// single-run ingestion and a SQLite store for persistent ledgers.
package store

import (
	"context"
	"time"

	"github.com/MANOJ-80/0xRupex/internal/models"

	"github.com/shopspring/decimal"
)

// Store is the transaction store contract consumed by reconciliation.
// Lookups return (nil, nil) when no record qualifies; an error always means
// the store itself failed, never "not found".
type Store interface {
	// FindByFingerprint returns the record carrying the exact
	// idempotency key, if any.
	FindByFingerprint(ctx context.Context, fingerprint string) (*models.CanonicalTransaction, error)

	// FindByAmountDirectionWindow returns the earliest record with equal
	// amount and direction whose transaction time falls inside
	// [start, end] inclusive.
	FindByAmountDirectionWindow(ctx context.Context, amount decimal.Decimal, direction models.Direction, start, end time.Time) (*models.CanonicalTransaction, error)

	// Insert persists a new record and returns its assigned ID.
	Insert(ctx context.Context, tx *models.CanonicalTransaction) (string, error)

	// UpdateFields applies a partial update to an existing record.
	UpdateFields(ctx context.Context, id string, patch FieldPatch) error

	// All returns every stored record ordered by transaction time.
	All(ctx context.Context) ([]*models.CanonicalTransaction, error)
}

// FieldPatch is the precise set of fields a merge is allowed to rewrite.
// A nil pointer leaves the stored value untouched.
type FieldPatch struct {
	OriginLabel   *string
	AccountSuffix *string
	Merchant      *string
	Category      *models.Category
	Reference     *string
	Fingerprint   *string
}

// IsEmpty reports whether the patch would change nothing.
func (p FieldPatch) IsEmpty() bool {
	return p.OriginLabel == nil &&
		p.AccountSuffix == nil &&
		p.Merchant == nil &&
		p.Category == nil &&
		p.Reference == nil &&
		p.Fingerprint == nil
}

// String is a convenience for building patch pointers from literals.
func String(s string) *string { return &s }

// CategoryPtr is the Category counterpart of String.
func CategoryPtr(c models.Category) *models.Category { return &c }
