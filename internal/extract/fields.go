package extract

import (
	"regexp"
	"strings"

	"github.com/MANOJ-80/0xRupex/internal/models"

	"github.com/shopspring/decimal"
)

// Secondary single-purpose extractors. Each keeps its own prioritized
// pattern list and is applied only to fields the winning pattern omitted.

var referencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:UPI\s*[Rr]ef|Ref(?:erence)?(?:\s*No)?|Txn\s*ID?)[\s:]*([A-Za-z0-9]+)`),
	// 12+ digit number as fallback
	regexp.MustCompile(`(\d{12,})`),
}

var balancePattern = regexp.MustCompile(`(?i)(?:Avl?\.?\s*Bal(?:ance)?|Balance|Bal)[\s:]*(?:INR|Rs\.?)?\s*([\d,]+\.?\d*)`)

var accountPattern = regexp.MustCompile(`(?i)(?:A/c|Acct?|Account|Card)\s*[xX*]*\s*(\d{4})`)

var merchantPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:at|to|from|for|@)\s+([A-Za-z0-9@._\-]+)`),
	regexp.MustCompile(`(?i)Info:\s*([^.]+)`),
	regexp.MustCompile(`(?i)VPA:\s*([^\s]+)`),
}

var (
	upiHandleSuffixRe = regexp.MustCompile(`@[a-z]+$`)
	trailingPunctRe   = regexp.MustCompile(`[._-]+$`)
)

func extractReference(text string) string {
	for _, re := range referencePatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	return ""
}

func extractBalance(text string) (decimal.Decimal, bool) {
	m := balancePattern.FindStringSubmatch(text)
	if m == nil {
		return decimal.Zero, false
	}
	bal, err := models.ParseAmount(m[1])
	if err != nil {
		return decimal.Zero, false
	}
	return bal, true
}

func extractAccountSuffix(text string) string {
	if m := accountPattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

func extractMerchant(text string) string {
	for _, re := range merchantPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return cleanSMSMerchant(m[1])
		}
	}
	return ""
}

// cleanSMSMerchant strips UPI handle suffixes and trailing separators from a
// merchant capture.
func cleanSMSMerchant(merchant string) string {
	merchant = strings.TrimSpace(merchant)
	merchant = upiHandleSuffixRe.ReplaceAllString(merchant, "")
	merchant = trailingPunctRe.ReplaceAllString(merchant, "")
	return strings.TrimSpace(merchant)
}
