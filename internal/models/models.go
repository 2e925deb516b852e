package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Source identifies the observation channel an event arrived on.
type Source string

const (
	// SourceSMS marks events delivered as bank SMS bodies.
	SourceSMS Source = "sms"
	// SourceNotification marks events delivered as payment-app notifications.
	SourceNotification Source = "notification"
)

// String returns the string representation of Source.
func (s Source) String() string {
	return string(s)
}

// IsValid checks if the source is one of the known channels.
func (s Source) IsValid() bool {
	return s == SourceSMS || s == SourceNotification
}

// Direction represents the monetary direction of a transaction.
type Direction string

const (
	// DirectionExpense represents money leaving the account.
	DirectionExpense Direction = "expense"
	// DirectionIncome represents money entering the account.
	DirectionIncome Direction = "income"
)

// String returns the string representation of Direction.
func (d Direction) String() string {
	return string(d)
}

// IsValid checks if the direction is set to a known value.
func (d Direction) IsValid() bool {
	return d == DirectionExpense || d == DirectionIncome
}

// RawEvent is a single unstructured text event as delivered by a channel.
// It is ephemeral: only fields derived from it are ever persisted.
type RawEvent struct {
	// OriginID is the sender id for SMS events or the application
	// package name for notification events.
	OriginID string `json:"origin_id"`
	Source   Source `json:"source"`
	// Title is the notification title; empty for SMS events.
	Title string `json:"title,omitempty"`
	// Text is the SMS body or notification body.
	Text       string    `json:"text"`
	ObservedAt time.Time `json:"observed_at"`
}

// Validate performs basic validation on the RawEvent.
func (e *RawEvent) Validate() error {
	if !e.Source.IsValid() {
		return fmt.Errorf("invalid event source: %q", e.Source)
	}
	if strings.TrimSpace(e.Text) == "" && strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("event text cannot be empty")
	}
	if e.ObservedAt.IsZero() {
		return fmt.Errorf("event observation time cannot be zero")
	}
	return nil
}

// Category is a transaction category with its display metadata.
type Category struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// CandidateTransaction is the transient output of extraction. It is never
// stored; the reconciliation engine either folds it into an existing
// canonical record or promotes it to a new one.
type CandidateTransaction struct {
	Direction     Direction       `json:"direction"`
	Amount        decimal.Decimal `json:"amount"`
	AccountSuffix string          `json:"account_suffix,omitempty"`
	Merchant      string          `json:"merchant,omitempty"`
	Reference     string          `json:"reference,omitempty"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	HasBalance    bool            `json:"has_balance,omitempty"`
	OriginLabel   string          `json:"origin_label"`
	Category      Category        `json:"category"`
	Confidence    float64         `json:"confidence"`
	Fingerprint   string          `json:"fingerprint"`
	Source        Source          `json:"source"`
}

// Validate enforces the invariant that a candidate with a non-positive
// amount or an unset direction must never reach the store.
func (c *CandidateTransaction) Validate() error {
	if !c.Direction.IsValid() {
		return fmt.Errorf("candidate direction is unset")
	}
	if !c.Amount.IsPositive() {
		return fmt.Errorf("candidate amount must be positive, got %s", c.Amount)
	}
	if !c.Source.IsValid() {
		return fmt.Errorf("candidate source is unset")
	}
	if c.Fingerprint == "" {
		return fmt.Errorf("candidate fingerprint is empty")
	}
	return nil
}

// String returns a short description of the candidate for logging.
func (c *CandidateTransaction) String() string {
	return fmt.Sprintf("Candidate{%s %s, merchant=%q, origin=%q, source=%s}",
		c.Direction, c.Amount.String(), c.Merchant, c.OriginLabel, c.Source)
}

// CanonicalTransaction is the single persisted record for one real-world
// transaction, regardless of how many observation sources contributed.
type CanonicalTransaction struct {
	ID            string          `json:"id"`
	Direction     Direction       `json:"direction"`
	Amount        decimal.Decimal `json:"amount"`
	AccountSuffix string          `json:"account_suffix,omitempty"`
	Merchant      string          `json:"merchant,omitempty"`
	Reference     string          `json:"reference,omitempty"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	HasBalance    bool            `json:"has_balance,omitempty"`
	OriginLabel   string          `json:"origin_label"`
	Category      Category        `json:"category"`
	Confidence    float64         `json:"confidence"`
	Fingerprint   string          `json:"fingerprint"`
	Source        Source          `json:"source"`
	TransactionAt time.Time       `json:"transaction_at"`
	CreatedAt     time.Time       `json:"created_at"`
	Synced        bool            `json:"synced"`
	Note          string          `json:"note,omitempty"`
}

// NewCanonicalFromCandidate promotes a candidate to a canonical record. The
// store assigns the ID on insert.
func NewCanonicalFromCandidate(c *CandidateTransaction, transactionAt, createdAt time.Time) *CanonicalTransaction {
	return &CanonicalTransaction{
		Direction:     c.Direction,
		Amount:        c.Amount,
		AccountSuffix: c.AccountSuffix,
		Merchant:      c.Merchant,
		Reference:     c.Reference,
		BalanceAfter:  c.BalanceAfter,
		HasBalance:    c.HasBalance,
		OriginLabel:   c.OriginLabel,
		Category:      c.Category,
		Confidence:    c.Confidence,
		Fingerprint:   c.Fingerprint,
		Source:        c.Source,
		TransactionAt: transactionAt,
		CreatedAt:     createdAt,
	}
}

// Validate performs basic validation on the CanonicalTransaction.
func (t *CanonicalTransaction) Validate() error {
	if !t.Direction.IsValid() {
		return fmt.Errorf("invalid transaction direction: %q", t.Direction)
	}
	if !t.Amount.IsPositive() {
		return fmt.Errorf("transaction amount must be positive, got %s", t.Amount)
	}
	if t.Fingerprint == "" {
		return fmt.Errorf("transaction fingerprint cannot be empty")
	}
	if t.TransactionAt.IsZero() {
		return fmt.Errorf("transaction time cannot be zero")
	}
	return nil
}

// String returns a short description of the transaction for logging.
func (t *CanonicalTransaction) String() string {
	return fmt.Sprintf("Transaction{ID: %s, %s %s, merchant=%q, at=%s}",
		t.ID, t.Direction, t.Amount.String(), t.Merchant,
		t.TransactionAt.Format(time.RFC3339))
}

// ParseAmount parses a monetary amount from extracted SMS/notification text.
// Thousands separators are stripped before conversion; an empty or malformed
// string is an error so the caller can degrade to "no match".
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("amount string cannot be empty")
	}

	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSuffix(s, ".")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount format %q: %w", s, err)
	}
	return d, nil
}

// ParseDirection parses and validates a direction from string.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "expense", "debit":
		return DirectionExpense, nil
	case "income", "credit":
		return DirectionIncome, nil
	default:
		return "", fmt.Errorf("invalid direction %q: must be expense or income", s)
	}
}
