package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/MANOJ-80/0xRupex/internal/models"
	apperrors "github.com/MANOJ-80/0xRupex/pkg/errors"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

// SQLiteStore persists canonical transactions in a single-table SQLite
// ledger. Timestamps are stored as unix milliseconds so window comparisons
// stay plain integer range scans.
type SQLiteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS transactions (
	id             TEXT PRIMARY KEY,
	direction      TEXT NOT NULL,
	amount         TEXT NOT NULL,
	account_suffix TEXT NOT NULL DEFAULT '',
	merchant       TEXT NOT NULL DEFAULT '',
	reference      TEXT NOT NULL DEFAULT '',
	balance_after  TEXT NOT NULL DEFAULT '0',
	has_balance    INTEGER NOT NULL DEFAULT 0,
	origin_label   TEXT NOT NULL DEFAULT '',
	category       TEXT NOT NULL DEFAULT '',
	category_icon  TEXT NOT NULL DEFAULT '',
	category_color TEXT NOT NULL DEFAULT '',
	confidence     REAL NOT NULL DEFAULT 0,
	fingerprint    TEXT NOT NULL UNIQUE,
	source         TEXT NOT NULL,
	transaction_at INTEGER NOT NULL,
	created_at     INTEGER NOT NULL,
	synced         INTEGER NOT NULL DEFAULT 0,
	note           TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_transactions_window
	ON transactions(amount, direction, transaction_at);
`

// OpenSQLite opens (and if needed creates) the ledger at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, apperrors.StoreError(apperrors.CodeQueryFailed, "open", err)
	}
	db.SetMaxOpenConns(1) // sqlite
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, apperrors.StoreError(apperrors.CodeQueryFailed, "create_schema", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const selectColumns = `id, direction, amount, account_suffix, merchant, reference,
	balance_after, has_balance, origin_label, category, category_icon, category_color,
	confidence, fingerprint, source, transaction_at, created_at, synced, note`

// FindByFingerprint returns the record with the exact fingerprint, or
// (nil, nil) when absent.
func (s *SQLiteStore) FindByFingerprint(ctx context.Context, fingerprint string) (*models.CanonicalTransaction, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM transactions WHERE fingerprint = ?`, fingerprint)
	tx, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.StoreError(apperrors.CodeQueryFailed, "find_by_fingerprint", err)
	}
	return tx, nil
}

// FindByAmountDirectionWindow returns the earliest record with equal amount
// and direction inside [start, end], or (nil, nil).
func (s *SQLiteStore) FindByAmountDirectionWindow(ctx context.Context, amount decimal.Decimal, direction models.Direction, start, end time.Time) (*models.CanonicalTransaction, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM transactions
		 WHERE amount = ? AND direction = ? AND transaction_at >= ? AND transaction_at <= ?
		 ORDER BY transaction_at ASC LIMIT 1`,
		amount.String(), direction.String(), start.UnixMilli(), end.UnixMilli())
	tx, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.StoreError(apperrors.CodeQueryFailed, "find_by_window", err)
	}
	return tx, nil
}

// Insert persists a new record, assigning an ID when the caller did not.
func (s *SQLiteStore) Insert(ctx context.Context, tx *models.CanonicalTransaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", apperrors.StoreError(apperrors.CodeInsertFailed, "insert", err)
	}

	id := tx.ID
	if id == "" {
		id = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `
	INSERT INTO transactions(
	 id, direction, amount, account_suffix, merchant, reference, balance_after,
	 has_balance, origin_label, category, category_icon, category_color,
	 confidence, fingerprint, source, transaction_at, created_at, synced, note)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`,
		id, tx.Direction.String(), tx.Amount.String(), tx.AccountSuffix, tx.Merchant,
		tx.Reference, tx.BalanceAfter.String(), boolToInt(tx.HasBalance), tx.OriginLabel,
		tx.Category.Name, tx.Category.Icon, tx.Category.Color, tx.Confidence,
		tx.Fingerprint, tx.Source.String(), tx.TransactionAt.UnixMilli(),
		tx.CreatedAt.UnixMilli(), boolToInt(tx.Synced), tx.Note)
	if err != nil {
		return "", apperrors.StoreError(apperrors.CodeInsertFailed, "insert", err)
	}
	return id, nil
}

// UpdateFields applies a partial update by building the SET clause from the
// non-nil patch fields.
func (s *SQLiteStore) UpdateFields(ctx context.Context, id string, patch FieldPatch) error {
	if patch.IsEmpty() {
		return nil
	}

	var set []string
	var args []interface{}

	if patch.OriginLabel != nil {
		set = append(set, "origin_label = ?")
		args = append(args, *patch.OriginLabel)
	}
	if patch.AccountSuffix != nil {
		set = append(set, "account_suffix = ?")
		args = append(args, *patch.AccountSuffix)
	}
	if patch.Merchant != nil {
		set = append(set, "merchant = ?")
		args = append(args, *patch.Merchant)
	}
	if patch.Category != nil {
		set = append(set, "category = ?", "category_icon = ?", "category_color = ?")
		args = append(args, patch.Category.Name, patch.Category.Icon, patch.Category.Color)
	}
	if patch.Reference != nil {
		set = append(set, "reference = ?")
		args = append(args, *patch.Reference)
	}
	if patch.Fingerprint != nil {
		set = append(set, "fingerprint = ?")
		args = append(args, *patch.Fingerprint)
	}
	args = append(args, id)

	res, err := s.db.ExecContext(ctx,
		`UPDATE transactions SET `+strings.Join(set, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return apperrors.StoreError(apperrors.CodeUpdateFailed, "update_fields", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.StoreError(apperrors.CodeUpdateFailed, "update_fields",
			fmt.Errorf("no transaction with id %s", id))
	}
	return nil
}

// All returns every stored transaction ordered by transaction time.
func (s *SQLiteStore) All(ctx context.Context) ([]*models.CanonicalTransaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM transactions ORDER BY transaction_at ASC`)
	if err != nil {
		return nil, apperrors.StoreError(apperrors.CodeQueryFailed, "list", err)
	}
	defer rows.Close()

	var out []*models.CanonicalTransaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, apperrors.StoreError(apperrors.CodeQueryFailed, "list", err)
		}
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.StoreError(apperrors.CodeQueryFailed, "list", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTransaction(row rowScanner) (*models.CanonicalTransaction, error) {
	var (
		tx            models.CanonicalTransaction
		direction     string
		amount        string
		balance       string
		hasBalance    int
		source        string
		transactionAt int64
		createdAt     int64
		synced        int
	)
	err := row.Scan(&tx.ID, &direction, &amount, &tx.AccountSuffix, &tx.Merchant,
		&tx.Reference, &balance, &hasBalance, &tx.OriginLabel, &tx.Category.Name,
		&tx.Category.Icon, &tx.Category.Color, &tx.Confidence, &tx.Fingerprint,
		&source, &transactionAt, &createdAt, &synced, &tx.Note)
	if err != nil {
		return nil, err
	}

	tx.Direction = models.Direction(direction)
	tx.Source = models.Source(source)
	if tx.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, err
	}
	if tx.BalanceAfter, err = decimal.NewFromString(balance); err != nil {
		return nil, err
	}
	tx.HasBalance = hasBalance != 0
	tx.Synced = synced != 0
	tx.TransactionAt = time.UnixMilli(transactionAt).UTC()
	tx.CreatedAt = time.UnixMilli(createdAt).UTC()
	return &tx, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
