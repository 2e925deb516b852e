package reconcile

import (
	"context"
	"testing"
	"time"

	"github.com/MANOJ-80/0xRupex/internal/models"
	"github.com/MANOJ-80/0xRupex/internal/store"

	"github.com/shopspring/decimal"
)

var transfersCategory = models.Category{Name: "Transfers", Icon: "swap_horiz", Color: "#00BCD4"}

func newTestEngine(t *testing.T) (*Engine, *store.MemoryStore) {
	t.Helper()
	s := store.NewMemoryStore()
	e, err := NewEngine(s, nil, nil)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e, s
}

// smsCandidate mimics the bank's view of a ₹500 UPI expense: reliable
// institution identity, generic counterparty.
func smsCandidate() *models.CandidateTransaction {
	return &models.CandidateTransaction{
		Direction:     models.DirectionExpense,
		Amount:        decimal.RequireFromString("500"),
		AccountSuffix: "95",
		Merchant:      "UPI-DR/5671",
		Reference:     "525201123456",
		OriginLabel:   "Indian Overseas Bank",
		Category:      transfersCategory,
		Confidence:    0.90,
		Fingerprint:   "sms-fp-500",
		Source:        models.SourceSMS,
	}
}

// notificationCandidate is the payment app's view of the same transaction:
// reliable counterparty, generic institution identity.
func notificationCandidate() *models.CandidateTransaction {
	return &models.CandidateTransaction{
		Direction:   models.DirectionExpense,
		Amount:      decimal.RequireFromString("500.00"),
		Merchant:    "JOHN DOE",
		OriginLabel: "Google Pay",
		Category:    transfersCategory,
		Confidence:  0.85,
		Fingerprint: "notif-fp-500",
		Source:      models.SourceNotification,
	}
}

func TestReconcileInsertThenExactDuplicate(t *testing.T) {
	ctx := context.Background()
	e, s := newTestEngine(t)
	at := time.Date(2025, 9, 10, 10, 0, 0, 0, time.UTC)

	first, err := e.Reconcile(ctx, smsCandidate(), at)
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if first.Decision != DecisionInserted {
		t.Fatalf("first Decision = %s, want inserted", first.Decision)
	}

	second, err := e.Reconcile(ctx, smsCandidate(), at)
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if second.Decision != DecisionDuplicate {
		t.Errorf("second Decision = %s, want duplicate", second.Decision)
	}
	if second.TransactionID != first.TransactionID {
		t.Errorf("duplicate resolved to %s, want %s", second.TransactionID, first.TransactionID)
	}
	if s.Len() != 1 {
		t.Errorf("store has %d records, want 1", s.Len())
	}
}

func TestReconcileCrossSourceMerge(t *testing.T) {
	ctx := context.Background()
	e, s := newTestEngine(t)
	smsAt := time.Date(2025, 9, 10, 10, 0, 0, 0, time.UTC)
	notifAt := smsAt.Add(time.Minute)

	ins, err := e.Reconcile(ctx, smsCandidate(), smsAt)
	if err != nil {
		t.Fatalf("Reconcile(sms) error = %v", err)
	}
	merged, err := e.Reconcile(ctx, notificationCandidate(), notifAt)
	if err != nil {
		t.Fatalf("Reconcile(notification) error = %v", err)
	}
	if merged.Decision != DecisionMerged {
		t.Fatalf("Decision = %s, want merged", merged.Decision)
	}
	if merged.TransactionID != ins.TransactionID {
		t.Errorf("merged into %s, want %s", merged.TransactionID, ins.TransactionID)
	}
	if s.Len() != 1 {
		t.Fatalf("store has %d records, want 1", s.Len())
	}

	got, err := s.FindByFingerprint(ctx, "sms-fp-500")
	if err != nil {
		t.Fatalf("FindByFingerprint() error = %v", err)
	}
	if got == nil {
		t.Fatal("record not reachable under sms fingerprint after merge")
	}
	if got.Merchant != "JOHN DOE" {
		t.Errorf("Merchant = %q, want JOHN DOE (generic overwritten by specific)", got.Merchant)
	}
	if got.AccountSuffix != "95" {
		t.Errorf("AccountSuffix = %q, want 95 (retained from sms)", got.AccountSuffix)
	}
	if got.OriginLabel != "Indian Overseas Bank" {
		t.Errorf("OriginLabel = %q, want Indian Overseas Bank", got.OriginLabel)
	}
	if got.Reference != "525201123456" {
		t.Errorf("Reference = %q, want bank reference", got.Reference)
	}
}

func TestReconcileCommutativity(t *testing.T) {
	ctx := context.Background()
	smsAt := time.Date(2025, 9, 10, 10, 0, 0, 0, time.UTC)
	notifAt := smsAt.Add(time.Minute)

	run := func(smsFirst bool) *models.CanonicalTransaction {
		e, s := newTestEngine(t)
		var err error
		if smsFirst {
			_, err = e.Reconcile(ctx, smsCandidate(), smsAt)
			if err == nil {
				_, err = e.Reconcile(ctx, notificationCandidate(), notifAt)
			}
		} else {
			_, err = e.Reconcile(ctx, notificationCandidate(), notifAt)
			if err == nil {
				_, err = e.Reconcile(ctx, smsCandidate(), smsAt)
			}
		}
		if err != nil {
			t.Fatalf("Reconcile() error = %v", err)
		}
		if s.Len() != 1 {
			t.Fatalf("store has %d records, want 1", s.Len())
		}
		all, err := s.All(ctx)
		if err != nil {
			t.Fatalf("All() error = %v", err)
		}
		return all[0]
	}

	a := run(true)
	b := run(false)

	if a.Merchant != b.Merchant {
		t.Errorf("Merchant differs by order: %q vs %q", a.Merchant, b.Merchant)
	}
	if a.OriginLabel != b.OriginLabel {
		t.Errorf("OriginLabel differs by order: %q vs %q", a.OriginLabel, b.OriginLabel)
	}
	if a.AccountSuffix != b.AccountSuffix {
		t.Errorf("AccountSuffix differs by order: %q vs %q", a.AccountSuffix, b.AccountSuffix)
	}
	if a.Reference != b.Reference {
		t.Errorf("Reference differs by order: %q vs %q", a.Reference, b.Reference)
	}
	if a.Fingerprint != b.Fingerprint {
		t.Errorf("Fingerprint differs by order: %q vs %q", a.Fingerprint, b.Fingerprint)
	}
	if !a.Amount.Equal(b.Amount) || a.Direction != b.Direction {
		t.Errorf("amount/direction differ by order")
	}
	if a.Category != b.Category {
		t.Errorf("Category differs by order: %+v vs %+v", a.Category, b.Category)
	}
}

func TestReconcileCommutativitySpecificSMSMerchant(t *testing.T) {
	// Inverse of the usual pairing: the bank SMS names the payee and the
	// notification only carries the generic app label.
	ctx := context.Background()
	smsAt := time.Date(2025, 9, 10, 10, 0, 0, 0, time.UTC)
	notifAt := smsAt.Add(time.Minute)
	foodCategory := models.Category{Name: "Food & Dining", Icon: "restaurant", Color: "#EF4444"}

	sms := func() *models.CandidateTransaction {
		c := smsCandidate()
		c.Amount = decimal.RequireFromString("350")
		c.Merchant = "SWIGGY"
		c.Category = foodCategory
		c.Fingerprint = "sms-fp-350"
		return c
	}
	notif := func() *models.CandidateTransaction {
		c := notificationCandidate()
		c.Amount = decimal.RequireFromString("350.00")
		c.Merchant = "UPI Payment"
		c.Fingerprint = "notif-fp-350"
		return c
	}

	run := func(smsFirst bool) *models.CanonicalTransaction {
		e, s := newTestEngine(t)
		var err error
		if smsFirst {
			_, err = e.Reconcile(ctx, sms(), smsAt)
			if err == nil {
				_, err = e.Reconcile(ctx, notif(), notifAt)
			}
		} else {
			_, err = e.Reconcile(ctx, notif(), notifAt)
			if err == nil {
				_, err = e.Reconcile(ctx, sms(), smsAt)
			}
		}
		if err != nil {
			t.Fatalf("Reconcile() error = %v", err)
		}
		if s.Len() != 1 {
			t.Fatalf("store has %d records, want 1", s.Len())
		}
		all, err := s.All(ctx)
		if err != nil {
			t.Fatalf("All() error = %v", err)
		}
		return all[0]
	}

	a := run(true)
	b := run(false)

	if a.Merchant != "SWIGGY" || b.Merchant != "SWIGGY" {
		t.Errorf("Merchant = %q / %q, want SWIGGY in both orders", a.Merchant, b.Merchant)
	}
	if a.Category != foodCategory || b.Category != foodCategory {
		t.Errorf("Category = %+v / %+v, want Food & Dining in both orders", a.Category, b.Category)
	}
	if a.Fingerprint != "sms-fp-350" || b.Fingerprint != "sms-fp-350" {
		t.Errorf("Fingerprint = %q / %q, want the bank fingerprint in both orders", a.Fingerprint, b.Fingerprint)
	}
	if a.OriginLabel != b.OriginLabel || a.AccountSuffix != b.AccountSuffix || a.Reference != b.Reference {
		t.Errorf("institution fields differ by order: %+v vs %+v", a, b)
	}
}

func TestReconcileReplayConverges(t *testing.T) {
	ctx := context.Background()
	e, s := newTestEngine(t)
	smsAt := time.Date(2025, 9, 10, 10, 0, 0, 0, time.UTC)
	notifAt := smsAt.Add(time.Minute)

	feed := []struct {
		cand *models.CandidateTransaction
		at   time.Time
	}{
		{notificationCandidate(), notifAt},
		{smsCandidate(), smsAt},
		{notificationCandidate(), notifAt},
		{smsCandidate(), smsAt},
		{notificationCandidate(), notifAt},
	}
	for i, f := range feed {
		if _, err := e.Reconcile(ctx, f.cand, f.at); err != nil {
			t.Fatalf("Reconcile(#%d) error = %v", i, err)
		}
	}

	if s.Len() != 1 {
		t.Fatalf("store has %d records, want 1", s.Len())
	}
	all, err := s.All(ctx)
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	got := all[0]
	if got.Merchant != "JOHN DOE" || got.OriginLabel != "Indian Overseas Bank" ||
		got.AccountSuffix != "95" || got.Fingerprint != "sms-fp-500" {
		t.Errorf("converged record = %v", got)
	}
}

func TestReconcileDistinctMerchantsStayDistinct(t *testing.T) {
	ctx := context.Background()
	e, s := newTestEngine(t)
	at := time.Date(2025, 9, 10, 10, 0, 0, 0, time.UTC)

	first := notificationCandidate()
	first.Merchant = "JOHN DOE"
	first.Fingerprint = "notif-fp-john"

	second := notificationCandidate()
	second.Merchant = "PRIYA SHARMA"
	second.Fingerprint = "notif-fp-priya"

	if _, err := e.Reconcile(ctx, first, at); err != nil {
		t.Fatalf("Reconcile(first) error = %v", err)
	}
	res, err := e.Reconcile(ctx, second, at.Add(time.Minute))
	if err != nil {
		t.Fatalf("Reconcile(second) error = %v", err)
	}
	if res.Decision != DecisionInserted {
		t.Errorf("Decision = %s, want inserted (coincidental amount match)", res.Decision)
	}
	if s.Len() != 2 {
		t.Errorf("store has %d records, want 2", s.Len())
	}
}

func TestReconcileOutsideWindowInserts(t *testing.T) {
	ctx := context.Background()
	e, s := newTestEngine(t)
	smsAt := time.Date(2025, 9, 10, 10, 0, 0, 0, time.UTC)

	if _, err := e.Reconcile(ctx, smsCandidate(), smsAt); err != nil {
		t.Fatalf("Reconcile(sms) error = %v", err)
	}
	// 45 minutes later is outside the 10 minute notification window.
	res, err := e.Reconcile(ctx, notificationCandidate(), smsAt.Add(45*time.Minute))
	if err != nil {
		t.Fatalf("Reconcile(notification) error = %v", err)
	}
	if res.Decision != DecisionInserted {
		t.Errorf("Decision = %s, want inserted", res.Decision)
	}
	if s.Len() != 2 {
		t.Errorf("store has %d records, want 2", s.Len())
	}
}

func TestReconcileWiderWindowForLateSMS(t *testing.T) {
	ctx := context.Background()
	e, s := newTestEngine(t)
	notifAt := time.Date(2025, 9, 10, 10, 0, 0, 0, time.UTC)

	if _, err := e.Reconcile(ctx, notificationCandidate(), notifAt); err != nil {
		t.Fatalf("Reconcile(notification) error = %v", err)
	}
	// 25 minutes exceeds the notification window but not the SMS window;
	// a lagging SMS must still fold into the notification's record.
	res, err := e.Reconcile(ctx, smsCandidate(), notifAt.Add(25*time.Minute))
	if err != nil {
		t.Fatalf("Reconcile(sms) error = %v", err)
	}
	if res.Decision != DecisionMerged {
		t.Errorf("Decision = %s, want merged", res.Decision)
	}
	if s.Len() != 1 {
		t.Errorf("store has %d records, want 1", s.Len())
	}
}

func TestReconcileRejectsInvalidCandidate(t *testing.T) {
	e, _ := newTestEngine(t)
	cand := smsCandidate()
	cand.Amount = decimal.Zero

	if _, err := e.Reconcile(context.Background(), cand, time.Now()); err == nil {
		t.Fatal("Reconcile() error = nil, want validation failure")
	}
}

func TestReconcileConfigValidation(t *testing.T) {
	s := store.NewMemoryStore()
	if _, err := NewEngine(s, &Config{NotificationWindow: 0, SMSWindow: time.Minute}, nil); err == nil {
		t.Error("NewEngine() with zero window: error = nil, want failure")
	}
	if _, err := NewEngine(s, nil, nil); err != nil {
		t.Errorf("NewEngine() with nil config: error = %v", err)
	}
}
