package fingerprint

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

var (
	testTime  = time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	amount500 = decimal.NewFromInt(500)
)

func TestForSMSDeterministic(t *testing.T) {
	a := ForSMS("HDFC Bank", amount500, "536198947755", testTime)
	b := ForSMS("HDFC Bank", amount500, "536198947755", testTime)
	if a != b {
		t.Fatalf("same inputs produced different fingerprints: %s vs %s", a, b)
	}
	if len(a) != Length {
		t.Errorf("fingerprint length = %d, want %d", len(a), Length)
	}
}

func TestForSMSDiscriminates(t *testing.T) {
	base := ForSMS("HDFC Bank", amount500, "REF1", testTime)

	if got := ForSMS("SBI", amount500, "REF1", testTime); got == base {
		t.Error("different origin must change the fingerprint")
	}
	if got := ForSMS("HDFC Bank", decimal.NewFromInt(501), "REF1", testTime); got == base {
		t.Error("different amount must change the fingerprint")
	}
	if got := ForSMS("HDFC Bank", amount500, "REF2", testTime); got == base {
		t.Error("different reference must change the fingerprint")
	}
}

func TestForSMSTimestampFallback(t *testing.T) {
	a := ForSMS("SBI", amount500, "", testTime)
	b := ForSMS("SBI", amount500, "", testTime)
	if a != b {
		t.Error("reference-less resend with the same timestamp must collapse")
	}
	c := ForSMS("SBI", amount500, "", testTime.Add(time.Second))
	if c == a {
		t.Error("a later reference-less event is a new event")
	}
}

func TestForNotification(t *testing.T) {
	a := ForNotification("Google Pay", amount500, "JOHN DOE", testTime)
	b := ForNotification("Google Pay", amount500, "JOHN DOE", testTime)
	if a != b {
		t.Fatal("redelivered notification must collapse")
	}
	if len(a) != Length {
		t.Errorf("fingerprint length = %d, want %d", len(a), Length)
	}

	if got := ForNotification("Google Pay", amount500, "JANE ROE", testTime); got == a {
		t.Error("different merchant must change the fingerprint")
	}
	if got := ForNotification("Google Pay", amount500, "JOHN DOE", testTime.Add(time.Minute)); got == a {
		t.Error("different observation time must change the fingerprint")
	}

	// Empty merchant is allowed; it hashes under a fixed placeholder.
	empty := ForNotification("Google Pay", amount500, "", testTime)
	if empty == "" || empty == a {
		t.Error("empty merchant handling broken")
	}
}

func TestSMSAndNotificationNamespacesDiffer(t *testing.T) {
	sms := ForSMS("Google Pay", amount500, "", testTime)
	notif := ForNotification("Google Pay", amount500, "", testTime)
	if sms == notif {
		t.Error("SMS and notification fingerprints must not collide on equal inputs")
	}
}
