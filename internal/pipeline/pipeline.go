// Package pipeline drives a raw event through the full chain: sender
// classification, extraction, category inference, fingerprinting, and
// reconciliation. Every event reaches exactly one terminal outcome; discards
// are outcomes, not errors.
package pipeline

import (
	"context"
	"time"

	"github.com/MANOJ-80/0xRupex/internal/category"
	"github.com/MANOJ-80/0xRupex/internal/extract"
	"github.com/MANOJ-80/0xRupex/internal/fingerprint"
	"github.com/MANOJ-80/0xRupex/internal/models"
	"github.com/MANOJ-80/0xRupex/internal/reconcile"
	"github.com/MANOJ-80/0xRupex/internal/sender"
	apperrors "github.com/MANOJ-80/0xRupex/pkg/errors"
	"github.com/MANOJ-80/0xRupex/pkg/logger"
)

// Outcome is the terminal state of one processed event.
type Outcome string

const (
	OutcomeInserted            Outcome = "inserted"
	OutcomeMerged              Outcome = "merged"
	OutcomeDuplicateDropped    Outcome = "duplicate_dropped"
	OutcomeRejectedSender      Outcome = "rejected_sender"
	OutcomeRejectedUnparseable Outcome = "rejected_unparseable"
	OutcomeRejectedAmbiguous   Outcome = "rejected_ambiguous"
	OutcomeRejectedInvalid     Outcome = "rejected_invalid"
)

// Result pairs one event with its terminal outcome.
type Result struct {
	Event         models.RawEvent
	Outcome       Outcome
	TransactionID string
	// Reason holds the discard error for rejected outcomes.
	Reason error
}

// Processor owns the per-event unit of work. Extraction is side-effect-free
// and safe to run concurrently; the reconciliation engine serializes the
// store step internally.
type Processor struct {
	classifier *sender.Classifier
	engine     *reconcile.Engine
	logger     logger.Logger
}

// NewProcessor assembles a processor from its collaborators.
func NewProcessor(classifier *sender.Classifier, engine *reconcile.Engine, log logger.Logger) *Processor {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Processor{
		classifier: classifier,
		engine:     engine,
		logger:     log.WithComponent("pipeline"),
	}
}

// Process runs a single raw event to a terminal state. An error return
// means the store failed; every textual defect in the event itself becomes
// a rejected outcome instead.
func (p *Processor) Process(ctx context.Context, event models.RawEvent) (*Result, error) {
	if err := event.Validate(); err != nil {
		return p.rejected(event, OutcomeRejectedInvalid, err), nil
	}

	cand, result := p.extract(event)
	if result != nil {
		return result, nil
	}

	res, err := p.engine.Reconcile(ctx, cand, event.ObservedAt)
	if err != nil {
		if apperrors.IsDiscard(err) {
			return p.rejected(event, OutcomeRejectedInvalid, err), nil
		}
		return nil, err
	}

	out := &Result{Event: event, TransactionID: res.TransactionID}
	switch res.Decision {
	case reconcile.DecisionMerged:
		out.Outcome = OutcomeMerged
	case reconcile.DecisionDuplicate:
		out.Outcome = OutcomeDuplicateDropped
	default:
		out.Outcome = OutcomeInserted
	}
	return out, nil
}

// extract turns the event into a candidate, or into a terminal rejection
// result.
func (p *Processor) extract(event models.RawEvent) (*models.CandidateTransaction, *Result) {
	var (
		label string
		ok    bool
	)
	switch event.Source {
	case models.SourceSMS:
		ok, label = p.classifier.Classify(event.OriginID)
	case models.SourceNotification:
		ok, label = sender.ClassifyApp(event.OriginID)
	}
	if !ok {
		return nil, p.rejected(event, OutcomeRejectedSender, apperrors.UnrecognizedSender(event.OriginID))
	}

	var (
		cand *models.CandidateTransaction
		err  error
	)
	if event.Source == models.SourceSMS {
		cand, err = extract.SMS(event.Text)
	} else {
		cand, err = extract.Notification(event.OriginID, event.Title, event.Text)
	}
	if err != nil {
		return nil, p.rejected(event, rejectionOutcome(err), err)
	}

	cand.OriginLabel = label
	cand.Category = category.Classify(cand.Merchant)
	if event.Source == models.SourceSMS {
		cand.Fingerprint = fingerprint.ForSMS(label, cand.Amount, cand.Reference, event.ObservedAt)
	} else {
		cand.Fingerprint = fingerprint.ForNotification(label, cand.Amount, cand.Merchant, event.ObservedAt)
	}
	return cand, nil
}

func (p *Processor) rejected(event models.RawEvent, outcome Outcome, cause error) *Result {
	p.logger.WithFields(logger.Fields{
		"origin":  event.OriginID,
		"source":  event.Source.String(),
		"outcome": string(outcome),
	}).WithError(cause).Debug("Event rejected")
	return &Result{Event: event, Outcome: outcome, Reason: cause}
}

func rejectionOutcome(err error) Outcome {
	engErr, ok := apperrors.AsEngineError(err)
	if !ok {
		return OutcomeRejectedInvalid
	}
	switch engErr.Code {
	case apperrors.CodeAmbiguousDirection:
		return OutcomeRejectedAmbiguous
	case apperrors.CodeNoPatternMatch, apperrors.CodeInvalidAmount:
		return OutcomeRejectedUnparseable
	default:
		return OutcomeRejectedInvalid
	}
}

// Stats counts terminal outcomes over a run.
type Stats struct {
	Total     int             `json:"total"`
	ByOutcome map[Outcome]int `json:"by_outcome"`
	Elapsed   time.Duration   `json:"elapsed"`
}

// NewStats creates an empty counter set.
func NewStats() *Stats {
	return &Stats{ByOutcome: make(map[Outcome]int)}
}

// Record counts one result.
func (s *Stats) Record(r *Result) {
	s.Total++
	s.ByOutcome[r.Outcome]++
}

// Stored returns how many events ended in a live store record (inserted or
// merged).
func (s *Stats) Stored() int {
	return s.ByOutcome[OutcomeInserted] + s.ByOutcome[OutcomeMerged]
}

// Rejected returns how many events were discarded before reconciliation.
func (s *Stats) Rejected() int {
	return s.ByOutcome[OutcomeRejectedSender] +
		s.ByOutcome[OutcomeRejectedUnparseable] +
		s.ByOutcome[OutcomeRejectedAmbiguous] +
		s.ByOutcome[OutcomeRejectedInvalid]
}
