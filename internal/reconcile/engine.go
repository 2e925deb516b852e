// Package reconcile decides what an extracted candidate transaction means
// for the canonical ledger: an exact resend to drop, a cross-source sighting
// of a known transaction to merge, or a new transaction to insert.
package reconcile

import (
	"context"
	"sync"
	"time"

	"github.com/MANOJ-80/0xRupex/internal/models"
	"github.com/MANOJ-80/0xRupex/internal/store"
	apperrors "github.com/MANOJ-80/0xRupex/pkg/errors"
	"github.com/MANOJ-80/0xRupex/pkg/logger"
)

// Decision is the terminal state of one reconciliation attempt.
type Decision string

const (
	// DecisionInserted means a new canonical transaction was created,
	// either because nothing matched or because a window match named a
	// genuinely different counterparty.
	DecisionInserted Decision = "inserted"

	// DecisionMerged means the candidate was folded into an existing
	// canonical transaction observed by the other source.
	DecisionMerged Decision = "merged"

	// DecisionDuplicate means the exact fingerprint already exists; the
	// candidate is a resend and was dropped silently.
	DecisionDuplicate Decision = "duplicate"
)

// Result reports the outcome of a reconciliation attempt.
type Result struct {
	Decision      Decision
	TransactionID string
}

// Origin labels that identify a delivery rail rather than an institution.
// SMS-derived labels may overwrite these but never the reverse.
var genericOriginLabels = map[string]struct{}{
	"":           {},
	"UPI":        {},
	"Bank":       {},
	"Unknown":    {},
	"Google Pay": {},
	"PhonePe":    {},
	"Paytm":      {},
	"Amazon Pay": {},
	"BHIM":       {},
	"CRED":       {},
}

func isGenericOriginLabel(label string) bool {
	_, ok := genericOriginLabels[label]
	return ok
}

// Engine applies the reconciliation protocol. The store's
// check-then-decide-then-write sequence is a race under concurrent events,
// so every attempt runs under a single mutex; extraction stays parallel,
// only this step serializes.
type Engine struct {
	mu     sync.Mutex
	store  store.Store
	config *Config
	logger logger.Logger
}

// NewEngine creates a reconciliation engine backed by s. A nil config gets
// defaults.
func NewEngine(s store.Store, config *Config, log logger.Logger) (*Engine, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, apperrors.ConfigurationError(apperrors.CodeInvalidConfig, "reconcile", config, err)
	}
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Engine{
		store:  s,
		config: config.Clone(),
		logger: log.WithComponent("reconcile"),
	}, nil
}

// Reconcile runs the protocol for one candidate observed at observedAt and
// returns the terminal decision. Replaying the same events in any order and
// any number of times converges on one canonical transaction with the same
// final field values.
func (e *Engine) Reconcile(ctx context.Context, cand *models.CandidateTransaction, observedAt time.Time) (*Result, error) {
	if err := cand.Validate(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CategoryExtract, apperrors.CodeInvalidCandidate,
			"candidate failed validation")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	// Exact resend of a raw event we already processed.
	existing, err := e.store.FindByFingerprint(ctx, cand.Fingerprint)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		e.logger.WithFields(logger.Fields{
			"fingerprint": cand.Fingerprint,
			"id":          existing.ID,
		}).Debug("Dropping exact duplicate")
		return &Result{Decision: DecisionDuplicate, TransactionID: existing.ID}, nil
	}

	// Cross-source sighting of the same real-world transaction.
	window := e.window(cand.Source)
	match, err := e.store.FindByAmountDirectionWindow(ctx, cand.Amount, cand.Direction,
		observedAt.Add(-window), observedAt.Add(window))
	if err != nil {
		return nil, err
	}

	if match != nil && e.sameTransaction(match, cand) {
		return e.merge(ctx, match, cand)
	}

	if match != nil {
		e.logger.WithFields(logger.Fields{
			"existing_merchant": match.Merchant,
			"new_merchant":      cand.Merchant,
			"amount":            cand.Amount.String(),
		}).Info("Window match with dissimilar merchant, inserting as distinct")
	}
	return e.insert(ctx, cand, observedAt)
}

func (e *Engine) window(source models.Source) time.Duration {
	if source == models.SourceNotification {
		return e.config.NotificationWindow
	}
	return e.config.SMSWindow
}

// sameTransaction decides merge vs distinct for a window match. A generic
// merchant on either side carries no discriminating identity, so it cannot
// prove the transactions are different.
func (e *Engine) sameTransaction(existing *models.CanonicalTransaction, cand *models.CandidateTransaction) bool {
	if IsGenericMerchant(existing.Merchant) || IsGenericMerchant(cand.Merchant) {
		return true
	}
	return MerchantsSimilar(existing.Merchant, cand.Merchant)
}

func (e *Engine) insert(ctx context.Context, cand *models.CandidateTransaction, observedAt time.Time) (*Result, error) {
	tx := models.NewCanonicalFromCandidate(cand, observedAt, time.Now().UTC())
	id, err := e.store.Insert(ctx, tx)
	if err != nil {
		return nil, err
	}
	e.logger.WithFields(logger.Fields{
		"id":        id,
		"direction": cand.Direction.String(),
		"amount":    cand.Amount.String(),
		"merchant":  cand.Merchant,
		"source":    cand.Source.String(),
	}).Info("Inserted canonical transaction")
	return &Result{Decision: DecisionInserted, TransactionID: id}, nil
}

// merge folds the candidate into an existing record under field precedence:
// SMS is authoritative for institution identity (origin label, account
// suffix, reference), and whichever source carries the specific merchant is
// authoritative for counterparty identity (merchant, category). A
// non-generic stored value is never overwritten with a less specific one.
func (e *Engine) merge(ctx context.Context, existing *models.CanonicalTransaction, cand *models.CandidateTransaction) (*Result, error) {
	var patch store.FieldPatch

	// Either source may name the counterparty the other only saw as a rail
	// marker; the arrival order of the two events must not change the
	// surviving merchant.
	if IsGenericMerchant(existing.Merchant) && !IsGenericMerchant(cand.Merchant) {
		patch.Merchant = store.String(cand.Merchant)
		patch.Category = store.CategoryPtr(cand.Category)
	}

	if cand.Source == models.SourceSMS {
		if isGenericOriginLabel(existing.OriginLabel) && cand.OriginLabel != "" && !isGenericOriginLabel(cand.OriginLabel) {
			patch.OriginLabel = store.String(cand.OriginLabel)
		}
		if existing.AccountSuffix == "" && cand.AccountSuffix != "" {
			patch.AccountSuffix = store.String(cand.AccountSuffix)
		}
		if existing.Reference == "" && cand.Reference != "" {
			patch.Reference = store.String(cand.Reference)
		}
		// Bank references are stable across resends where notification
		// fingerprints are synthetic, so the SMS fingerprint becomes
		// the record's idempotency key.
		if existing.Source == models.SourceNotification && cand.Fingerprint != existing.Fingerprint {
			patch.Fingerprint = store.String(cand.Fingerprint)
		}
	}

	if !patch.IsEmpty() {
		if err := e.store.UpdateFields(ctx, existing.ID, patch); err != nil {
			return nil, err
		}
	}

	e.logger.WithFields(logger.Fields{
		"id":     existing.ID,
		"source": cand.Source.String(),
		"amount": cand.Amount.String(),
	}).Info("Merged cross-source observation")
	return &Result{Decision: DecisionMerged, TransactionID: existing.ID}, nil
}
