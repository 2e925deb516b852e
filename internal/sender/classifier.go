package sender

import (
	"regexp"
	"strings"
)

// FallbackLabel is returned when the sender is recognized as financial but
// maps to no specific institution.
const FallbackLabel = "Bank"

// testSender is the fixed numeric sender accepted only when the classifier is
// built with AllowTestSender. It exists for harness testing and must stay
// disabled in production configurations.
const testSender = "6505556789"

// knownSenders holds the sender id tokens of known banks and payment
// services. Matching is done on the normalized origin id.
var knownSenders = map[string]struct{}{
	// Major banks
	"HDFCBK": {}, "HDFCBN": {}, "HDFC": {},
	"SBIINB": {}, "SBIPSG": {}, "SBISMS": {}, "SBIUPI": {},
	"ICICIB": {}, "ICICIT": {}, "ICICI": {},
	"AXISBK": {}, "AXISBN": {},
	"KOTAKB": {}, "KOTAK": {},
	"PNBSMS": {}, "PUNBNK": {},
	"BOIIND": {}, "BOBANK": {},
	"CANBNK": {}, "CANARA": {},
	"IABORB": {}, "INDBNK": {},
	"IOBCHN": {}, "IOB": {}, "IOBIND": {},
	"UNIONB": {},
	"YESBNK": {}, "YESBK": {},
	"IDBIBNK": {},
	"FEDBNK": {}, "FEDSMS": {},

	// UPI / wallets
	"PAYTMB": {}, "PYTM": {},
	"PHONEPE": {}, "PHNEPE": {},
	"GPAY": {}, "GOOGLEPAY": {},
	"AMAZONPAY": {}, "AMZPAY": {},
	"MOBIKWIK":   {},
	"FREECHARGE": {},

	// Credit cards
	"HDFCCC": {}, "SBICRD": {}, "ICICCC": {}, "AXISCC": {},
	"AMEX": {}, "CITI": {},

	// Generic UPI
	"UPIBNK": {}, "NPCIUPI": {},
}

// financialSuffixes are generic tokens whose presence marks a sender as a
// financial service even when no specific institution token matches.
var financialSuffixes = []string{"BK", "BNK", "BANK", "UPI", "PAY", "CC", "CRD"}

// labelRules resolves a human-readable institution name from the origin id.
// Order matters: more specific tokens come before substrings they contain.
var labelRules = []struct {
	tokens []string
	label  string
}{
	{[]string{"HDFC"}, "HDFC Bank"},
	{[]string{"SBI"}, "SBI"},
	{[]string{"ICICI"}, "ICICI Bank"},
	{[]string{"AXIS"}, "Axis Bank"},
	{[]string{"KOTAK"}, "Kotak Bank"},
	{[]string{"PNB", "PUNB"}, "PNB"},
	{[]string{"BOI"}, "Bank of India"},
	{[]string{"CAN"}, "Canara Bank"},
	{[]string{"IOB"}, "Indian Overseas Bank"},
	{[]string{"UNION"}, "Union Bank"},
	{[]string{"YES"}, "Yes Bank"},
	{[]string{"IDBI"}, "IDBI Bank"},
	{[]string{"FED"}, "Federal Bank"},
	{[]string{"PAYTM"}, "Paytm"},
	{[]string{"PHONE", "PHNE"}, "PhonePe"},
	{[]string{"GPAY", "GOOGLE"}, "Google Pay"},
	{[]string{"AMAZON", "AMZ"}, "Amazon Pay"},
	{[]string{"MOBIKWIK"}, "MobiKwik"},
	{[]string{"AMEX"}, "American Express"},
	{[]string{"CITI"}, "Citibank"},
}

var (
	nonAlnumRe      = regexp.MustCompile(`[^A-Z0-9]`)
	nonDigitRe      = regexp.MustCompile(`[^0-9]`)
	carrierPrefixRe = regexp.MustCompile(`^(AD|BZ|DM|TD|TM|VM|VD)-?`)
)

// Config holds classifier options.
type Config struct {
	// AllowTestSender accepts the fixed harness test sender. Must be false
	// in production configurations.
	AllowTestSender bool
}

// DefaultConfig returns the production classifier configuration.
func DefaultConfig() *Config {
	return &Config{AllowTestSender: false}
}

// Classifier decides whether an origin identifier belongs to a known
// bank/payment-service namespace and resolves its display label.
type Classifier struct {
	config *Config
}

// NewClassifier creates a classifier with the given configuration.
func NewClassifier(config *Config) *Classifier {
	if config == nil {
		config = DefaultConfig()
	}
	return &Classifier{config: config}
}

// Classify reports whether originID is a recognized financial sender and
// returns the best-effort institution label. The label is meaningful only
// when ok is true. No side effects.
func (c *Classifier) Classify(originID string) (ok bool, label string) {
	if !c.accept(originID) {
		return false, ""
	}
	return true, c.resolveLabel(originID)
}

func (c *Classifier) accept(originID string) bool {
	if originID == "" {
		return false
	}

	if c.config.AllowTestSender {
		digits := nonDigitRe.ReplaceAllString(originID, "")
		if strings.HasSuffix(digits, testSender) {
			return true
		}
	}

	normalized := normalize(originID)
	if normalized == "" {
		return false
	}

	if _, found := knownSenders[normalized]; found {
		return true
	}

	for known := range knownSenders {
		if strings.Contains(normalized, known) || strings.Contains(known, normalized) {
			return true
		}
	}

	for _, suffix := range financialSuffixes {
		if strings.HasSuffix(normalized, suffix) || strings.Contains(normalized, suffix) {
			return true
		}
	}

	return false
}

func (c *Classifier) resolveLabel(originID string) string {
	if c.config.AllowTestSender {
		digits := nonDigitRe.ReplaceAllString(originID, "")
		if strings.HasSuffix(digits, testSender) {
			// Harness events carry no institution; pick a fixed one.
			return "Indian Overseas Bank"
		}
	}

	upper := strings.ToUpper(originID)
	for _, rule := range labelRules {
		for _, token := range rule.tokens {
			if strings.Contains(upper, token) {
				return rule.label
			}
		}
	}
	return FallbackLabel
}

// normalize upper-cases the origin id, strips non-alphanumerics and removes
// known carrier routing prefixes.
func normalize(originID string) string {
	s := strings.ToUpper(originID)
	s = nonAlnumRe.ReplaceAllString(s, "")
	return carrierPrefixRe.ReplaceAllString(s, "")
}
