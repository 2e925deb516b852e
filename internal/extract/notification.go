package extract

import (
	"regexp"
	"strings"

	"github.com/MANOJ-80/0xRupex/internal/glyph"
	"github.com/MANOJ-80/0xRupex/internal/models"
	apperrors "github.com/MANOJ-80/0xRupex/pkg/errors"
)

// Confidence tiers for notification parses. App-specific phrasings are more
// trustworthy than the keyword-inference fallback.
const (
	appConfidence     = 0.85
	genericConfidence = 0.75
)

// DefaultMerchantLabel is used when a notification carries no usable
// counterparty text. It is deliberately a generic label: reconciliation
// treats it as carrying no discriminating identity.
const DefaultMerchantLabel = "UPI Payment"

// merchantMaxLen bounds cleaned counterparty names.
const merchantMaxLen = 50

// Currency-symbol-anchored amount patterns, tried symbol-before then
// symbol-after.
var (
	amountBeforeRe = regexp.MustCompile(`(?i)(?:₹|Rs\.?|INR)\s*([\d,]+(?:\.\d{1,2})?)`)
	amountAfterRe  = regexp.MustCompile(`(?i)([\d,]+(?:\.\d{1,2})?)\s*(?:₹|Rs\.?|INR)`)
)

// Google Pay phrasings, most specific first.
var (
	gpayPaidYouRe  = regexp.MustCompile(`(?i)(.+?)\s+paid you\s+₹?([\d,]+(?:\.\d{2})?)`)
	gpayYouPaidRe  = regexp.MustCompile(`(?i)(?:You paid|Paid)\s+(.+?)\s+₹?([\d,]+(?:\.\d{2})?)`)
	gpayPaidRe     = regexp.MustCompile(`(?i)(?:Paid|Sent)\s+₹?([\d,]+(?:\.\d{2})?)\s+(?:to|for)\s+(.+)`)
	gpayReceivedRe = regexp.MustCompile(`(?i)(?:Received|Got)\s+₹?([\d,]+(?:\.\d{2})?)\s+from\s+(.+)`)
)

// PhonePe phrasings.
var (
	phonePePaidRe     = regexp.MustCompile(`(?i)(?:Payment of|Paid)\s+₹?([\d,]+(?:\.\d{2})?)\s+(?:to|successful)`)
	phonePeReceivedRe = regexp.MustCompile(`(?i)(?:Received|Credited)\s+₹?([\d,]+(?:\.\d{2})?)\s+from\s+(.+)`)
)

// Paytm phrasing.
var paytmPaidRe = regexp.MustCompile(`(?i)(?:Paid|Payment)\s+(?:₹|Rs\.?)\s*([\d,]+(?:\.\d{2})?)`)

// Counterparty extraction for parsers whose winning pattern captures none.
var (
	counterpartyToRe   = regexp.MustCompile(`(?i)(?:to|at|for)\s+([A-Za-z][A-Za-z0-9\s]+)`)
	counterpartyFromRe = regexp.MustCompile(`(?i)from\s+([A-Za-z][A-Za-z0-9\s]+)`)
)

// Merchant cleanup: trailing transport clauses and UPI handles carry no
// counterparty identity.
var (
	viaClauseRe   = regexp.MustCompile(`\s*via\s+.*`)
	onClauseRe    = regexp.MustCompile(`\s*on\s+.*`)
	usingClauseRe = regexp.MustCompile(`\s*using\s+.*`)
	handleRe      = regexp.MustCompile(`@.*`)
)

// Notification extracts a candidate transaction from a payment-app
// notification. Dispatch is by originating application: known apps get their
// phrase parsers and fall through to the generic keyword parser when none of
// their phrasings match.
func Notification(packageName, title, body string) (*models.CandidateTransaction, error) {
	combined := strings.TrimSpace(title + " " + body)
	if combined == "" {
		return nil, apperrors.ExtractError(apperrors.CodeNoPatternMatch, "notification", nil)
	}
	combined = glyph.Normalize(combined)

	pkg := strings.ToLower(packageName)
	switch {
	case strings.Contains(pkg, "google") || strings.Contains(pkg, "gpay"):
		if cand := parseGPay(combined); cand != nil {
			return cand, nil
		}
	case strings.Contains(pkg, "phonepe"):
		if cand := parsePhonePe(combined); cand != nil {
			return cand, nil
		}
	case strings.Contains(pkg, "paytm"):
		if cand := parsePaytm(combined); cand != nil {
			return cand, nil
		}
	}

	return parseGeneric(combined)
}

func parseGPay(text string) *models.CandidateTransaction {
	// "NAME paid you ₹X.XX" means money received.
	if m := gpayPaidYouRe.FindStringSubmatch(text); m != nil {
		return notifCandidate(models.DirectionIncome, m[2], cleanNotificationMerchant(m[1]))
	}
	// "You paid NAME ₹X.XX" means money sent.
	if m := gpayYouPaidRe.FindStringSubmatch(text); m != nil {
		return notifCandidate(models.DirectionExpense, m[2], cleanNotificationMerchant(m[1]))
	}
	// "Paid ₹X to NAME" / "Sent ₹X to NAME"
	if m := gpayPaidRe.FindStringSubmatch(text); m != nil {
		return notifCandidate(models.DirectionExpense, m[1], cleanNotificationMerchant(m[2]))
	}
	// "Received ₹X from NAME"
	if m := gpayReceivedRe.FindStringSubmatch(text); m != nil {
		return notifCandidate(models.DirectionIncome, m[1], cleanNotificationMerchant(m[2]))
	}
	return nil
}

func parsePhonePe(text string) *models.CandidateTransaction {
	if m := phonePePaidRe.FindStringSubmatch(text); m != nil {
		return notifCandidate(models.DirectionExpense, m[1], extractCounterparty(text))
	}
	if m := phonePeReceivedRe.FindStringSubmatch(text); m != nil {
		return notifCandidate(models.DirectionIncome, m[1], cleanNotificationMerchant(m[2]))
	}
	return nil
}

func parsePaytm(text string) *models.CandidateTransaction {
	m := paytmPaidRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	lower := strings.ToLower(text)
	dir := models.DirectionExpense
	if strings.Contains(lower, "received") || strings.Contains(lower, "credited") {
		dir = models.DirectionIncome
	}
	return notifCandidate(dir, m[1], extractCounterparty(text))
}

// parseGeneric infers direction from characteristic keywords over the full
// title+body text. When both opposing keyword sets are present, or neither,
// the only tie-break is explicit success phrasing; otherwise the event is
// unparseable and dropped.
func parseGeneric(text string) (*models.CandidateTransaction, error) {
	lower := strings.ToLower(text)

	isIncome := strings.Contains(lower, "received") ||
		strings.Contains(lower, "credited") ||
		strings.Contains(lower, "got") ||
		strings.Contains(lower, "from")

	isExpense := strings.Contains(lower, "paid") ||
		strings.Contains(lower, "sent") ||
		strings.Contains(lower, "debited") ||
		strings.Contains(lower, "to ")

	if (isIncome && isExpense) || (!isIncome && !isExpense) {
		if strings.Contains(lower, "payment successful") || strings.Contains(lower, "transaction successful") {
			isExpense = true
			isIncome = false
		} else {
			return nil, apperrors.ExtractError(apperrors.CodeAmbiguousDirection, "notification", nil)
		}
	}

	var amountStr string
	if m := amountBeforeRe.FindStringSubmatch(text); m != nil {
		amountStr = m[1]
	} else if m := amountAfterRe.FindStringSubmatch(text); m != nil {
		amountStr = m[1]
	} else {
		return nil, apperrors.ExtractError(apperrors.CodeInvalidAmount, "notification", nil)
	}

	amount, err := models.ParseAmount(amountStr)
	if err != nil || !amount.IsPositive() {
		return nil, apperrors.ExtractError(apperrors.CodeInvalidAmount, "notification", err)
	}

	dir := models.DirectionExpense
	if isIncome && !isExpense {
		dir = models.DirectionIncome
	}

	cand := &models.CandidateTransaction{
		Direction:  dir,
		Amount:     amount,
		Merchant:   extractCounterparty(text),
		Source:     models.SourceNotification,
		Confidence: genericConfidence,
	}
	return cand, nil
}

// notifCandidate builds an app-parse candidate; a malformed amount degrades
// to nil so the caller can fall through to the generic parser.
func notifCandidate(dir models.Direction, amountStr, merchant string) *models.CandidateTransaction {
	amount, err := models.ParseAmount(amountStr)
	if err != nil || !amount.IsPositive() {
		return nil
	}
	return &models.CandidateTransaction{
		Direction:  dir,
		Amount:     amount,
		Merchant:   merchant,
		Source:     models.SourceNotification,
		Confidence: appConfidence,
	}
}

func extractCounterparty(text string) string {
	if m := counterpartyToRe.FindStringSubmatch(text); m != nil {
		return cleanNotificationMerchant(m[1])
	}
	if m := counterpartyFromRe.FindStringSubmatch(text); m != nil {
		return cleanNotificationMerchant(m[1])
	}
	return DefaultMerchantLabel
}

// cleanNotificationMerchant strips trailing via/on/using clauses and UPI
// handles, bounds the length, and falls back to the generic label.
func cleanNotificationMerchant(merchant string) string {
	merchant = strings.TrimSpace(merchant)
	merchant = viaClauseRe.ReplaceAllString(merchant, "")
	merchant = onClauseRe.ReplaceAllString(merchant, "")
	merchant = usingClauseRe.ReplaceAllString(merchant, "")
	merchant = handleRe.ReplaceAllString(merchant, "")
	merchant = strings.TrimSpace(merchant)

	if runes := []rune(merchant); len(runes) > merchantMaxLen {
		merchant = string(runes[:merchantMaxLen-3]) + "..."
	}

	if merchant == "" {
		return DefaultMerchantLabel
	}
	return merchant
}
