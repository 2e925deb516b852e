package sender

import "testing"

func TestClassifyKnownSenders(t *testing.T) {
	c := NewClassifier(nil)

	tests := []struct {
		originID  string
		wantOK    bool
		wantLabel string
	}{
		{"VM-HDFCBK", true, "HDFC Bank"},
		{"AD-SBIINB", true, "SBI"},
		{"ICICIB", true, "ICICI Bank"},
		{"TM-IOBCHN", true, "Indian Overseas Bank"},
		{"VD-AXISBK", true, "Axis Bank"},
		{"paytmb", true, "Paytm"},
		{"BZ-PHONEPE", true, "PhonePe"},
		{"GPAY", true, "Google Pay"},
		{"AMZPAY", true, "Amazon Pay"},
		{"CITI", true, "Citibank"},
		// Generic financial suffix, no specific institution
		{"XYZBANK", true, FallbackLabel},
		{"SOMEUPI", true, FallbackLabel},
		// Rejections
		{"", false, ""},
		{"MOMSPA", false, ""}, // contains no financial token ("SPA" is not "PAY")
		{"FRIEND", false, ""},
		{"+919812345678", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.originID, func(t *testing.T) {
			ok, label := c.Classify(tt.originID)
			if ok != tt.wantOK {
				t.Fatalf("Classify(%q) ok = %v, want %v", tt.originID, ok, tt.wantOK)
			}
			if ok && label != tt.wantLabel {
				t.Errorf("Classify(%q) label = %q, want %q", tt.originID, label, tt.wantLabel)
			}
		})
	}
}

func TestCarrierPrefixStripping(t *testing.T) {
	c := NewClassifier(nil)
	// Each carrier prefix should be removed before token matching.
	for _, prefix := range []string{"AD-", "BZ-", "DM-", "TD-", "TM-", "VM-", "VD-"} {
		ok, label := c.Classify(prefix + "IOB")
		if !ok || label != "Indian Overseas Bank" {
			t.Errorf("Classify(%q) = %v, %q; want Indian Overseas Bank", prefix+"IOB", ok, label)
		}
	}
}

func TestTestSenderGate(t *testing.T) {
	prod := NewClassifier(DefaultConfig())
	if ok, _ := prod.Classify("6505556789"); ok {
		t.Fatal("test sender must be rejected in production configuration")
	}

	harness := NewClassifier(&Config{AllowTestSender: true})
	ok, label := harness.Classify("6505556789")
	if !ok {
		t.Fatal("test sender must be accepted when the gate is open")
	}
	if label != "Indian Overseas Bank" {
		t.Errorf("test sender label = %q", label)
	}

	// The gate accepts the number with country-code decoration too.
	if ok, _ := harness.Classify("+1-650-555-6789"); !ok {
		t.Error("decorated test sender should be accepted")
	}

	// The gate does not loosen anything else.
	if ok, _ := harness.Classify("FRIEND"); ok {
		t.Error("gate must not accept unrelated senders")
	}
}
