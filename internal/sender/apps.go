package sender

// knownApps maps the package names of payment applications whose
// notifications are worth parsing to their display labels. Lookup is exact:
// package names are stable identifiers, unlike SMS origin headers.
var knownApps = map[string]string{
	"com.google.android.apps.nbu.paisa.user": "Google Pay",
	"com.phonepe.app":                        "PhonePe",
	"net.one97.paytm":                        "Paytm",
	"in.amazon.mShop.android.shopping":       "Amazon Pay",
	"in.org.npci.upiapp":                     "BHIM",
	"com.dreamplug.androidapp":               "CRED",
}

// ClassifyApp reports whether a notification's originating package belongs to
// a known payment application, and its display label when it does.
func ClassifyApp(packageName string) (bool, string) {
	label, ok := knownApps[packageName]
	if !ok {
		return false, ""
	}
	return true, label
}
