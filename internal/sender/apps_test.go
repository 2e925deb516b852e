package sender

import "testing"

func TestClassifyApp(t *testing.T) {
	tests := []struct {
		name      string
		pkg       string
		wantOK    bool
		wantLabel string
	}{
		{"google pay", "com.google.android.apps.nbu.paisa.user", true, "Google Pay"},
		{"phonepe", "com.phonepe.app", true, "PhonePe"},
		{"paytm", "net.one97.paytm", true, "Paytm"},
		{"bhim", "in.org.npci.upiapp", true, "BHIM"},
		{"unknown app", "com.example.chat", false, ""},
		{"prefix is not a match", "com.phonepe", false, ""},
		{"empty package", "", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, label := ClassifyApp(tt.pkg)
			if ok != tt.wantOK || label != tt.wantLabel {
				t.Errorf("ClassifyApp(%q) = (%v, %q), want (%v, %q)", tt.pkg, ok, label, tt.wantOK, tt.wantLabel)
			}
		})
	}
}
