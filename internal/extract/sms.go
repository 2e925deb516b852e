// Package extract converts normalized event text into candidate transaction
// records. Two independent pattern engines share the same contract: SMS
// bodies and payment-app notifications both come out as a
// models.CandidateTransaction or "no match".
package extract

import (
	"regexp"

	"github.com/MANOJ-80/0xRupex/internal/glyph"
	"github.com/MANOJ-80/0xRupex/internal/models"
	apperrors "github.com/MANOJ-80/0xRupex/pkg/errors"
)

// smsConfidence is assigned to every SMS pattern match.
const smsConfidence = 0.90

// fieldMap records which capture groups of a pattern carry which semantic
// field. The mapping differs per pattern and is part of the pattern, never
// inferred from position in the list. A zero index means "not captured".
type fieldMap struct {
	amount   int
	suffix   int
	merchant int
}

// smsPattern is one tagged entry of an ordered pattern list.
type smsPattern struct {
	re     *regexp.Regexp
	fields fieldMap
}

// debitPatterns is ordered most-specific first. Ordering is a correctness
// property: generic amount-only patterns would otherwise win over
// institution phrasings that also expose merchant and account data.
var debitPatterns = []smsPattern{
	// IOB: "Your a/c XXXXX95 debited for payee P S GOVINDAS for Rs. 50.00 on 2025-09-10"
	{
		re:     regexp.MustCompile(`(?i)(?:Your\s+)?a/c\s*[xX*]*(\d{2,4})\s*debited\s*for\s*payee\s+(.+?)\s+for\s+Rs\.?\s*([\d,]+\.?\d*)`),
		fields: fieldMap{suffix: 1, merchant: 2, amount: 3},
	},
	// HDFC: "Rs.499.00 debited from A/c **4532"
	{
		re:     regexp.MustCompile(`(?i)Rs\.?\s*([\d,]+\.?\d*)\s*(?:debited|withdrawn|spent|paid)\s*(?:from)?\s*(?:A/c|a/c|Acct?)?\s*\*{0,2}(\d{4})`),
		fields: fieldMap{amount: 1, suffix: 2},
	},
	// SBI: "debited by Rs.500 from A/c XXXX1234"
	{
		re:     regexp.MustCompile(`(?i)(?:debited|withdrawn)\s*(?:by|for)?\s*Rs\.?\s*([\d,]+\.?\d*).*?(?:A/c|a/c)\s*[xX*]+(\d{4})`),
		fields: fieldMap{amount: 1, suffix: 2},
	},
	// ICICI: "Rs 1,500 debited from your Account"
	{
		re:     regexp.MustCompile(`(?i)Rs\.?\s*([\d,]+\.?\d*)\s*(?:debited|spent|paid)\s*(?:from)?\s*(?:your)?\s*(?:Account|Card)`),
		fields: fieldMap{amount: 1},
	},
	// UPI: "Paid Rs.250 to merchant@upi"
	{
		re:     regexp.MustCompile(`(?i)(?:Paid|Sent|Transferred)\s*Rs\.?\s*([\d,]+\.?\d*)\s*(?:to|for)\s*([^\s]+)`),
		fields: fieldMap{amount: 1, merchant: 2},
	},
	// Credit card: "spent Rs.1234 at AMAZON"
	{
		re:     regexp.MustCompile(`(?i)(?:spent|charged|transaction)\s*(?:of)?\s*Rs\.?\s*([\d,]+\.?\d*).*?(?:at|on)\s+([A-Za-z0-9\s]+)`),
		fields: fieldMap{amount: 1, merchant: 2},
	},
	// HDFC with merchant: "Rs.5999.00 debited from A/c **4532 on 01-01-26 to FLIPKART. Avl bal..."
	{
		re:     regexp.MustCompile(`(?i)Rs\.?\s*([\d,]+\.?\d*)\s*debited.*?(?:A/c|a/c)\s*\**(\d{4}).*?(?:to|at|for)\s+([A-Za-z0-9\s]+?)(?:\.\s*|\s+Avl)`),
		fields: fieldMap{amount: 1, suffix: 2, merchant: 3},
	},
	// Generic: "INR 500.00 debited"
	{
		re:     regexp.MustCompile(`(?i)(?:INR|Rs\.?)\s*([\d,]+\.?\d*)\s*(?:has been)?\s*(?:debited|deducted|withdrawn)`),
		fields: fieldMap{amount: 1},
	},
}

// creditPatterns mirrors debitPatterns for income.
var creditPatterns = []smsPattern{
	// IOB UPI credit: "Your a/c no. XXXXX95 is credited by Rs.1000.00 on DATE, from SENDER-upi@bank"
	{
		re:     regexp.MustCompile(`(?i)a/c\s*(?:no\.?)?\s*[xX*]*(\d{2,4})\s*is\s*credited\s*by\s*Rs\.?\s*([\d,]+\.?\d*).*?from\s+([^(]+)`),
		fields: fieldMap{suffix: 1, amount: 2, merchant: 3},
	},
	// HDFC: "Rs.5000.00 credited to A/c **4532"
	{
		re:     regexp.MustCompile(`(?i)Rs\.?\s*([\d,]+\.?\d*)\s*(?:credited|deposited|received)\s*(?:to|in)?\s*(?:A/c|a/c|Acct?)?\s*\*{0,2}(\d{4})`),
		fields: fieldMap{amount: 1, suffix: 2},
	},
	// UPI: "Received Rs.500 from sender@upi"
	{
		re:     regexp.MustCompile(`(?i)(?:Received|Got|Credited)\s*Rs\.?\s*([\d,]+\.?\d*)\s*(?:from)\s*([^\s]+)`),
		fields: fieldMap{amount: 1, merchant: 2},
	},
	// Salary: "Salary of Rs.50000 credited"
	{
		re:     regexp.MustCompile(`(?i)(?:Salary|Payment)\s*(?:of)?\s*Rs\.?\s*([\d,]+\.?\d*)\s*(?:has been)?\s*(?:credited|deposited)`),
		fields: fieldMap{amount: 1},
	},
	// Generic: "credited with Rs.1000"
	{
		re:     regexp.MustCompile(`(?i)(?:credited|deposited)\s*(?:with)?\s*(?:INR|Rs\.?)\s*([\d,]+\.?\d*)`),
		fields: fieldMap{amount: 1},
	},
	// Refund: "Refund of Rs.499 credited"
	{
		re:     regexp.MustCompile(`(?i)(?:Refund|Cashback)\s*(?:of)?\s*Rs\.?\s*([\d,]+\.?\d*)\s*(?:has been)?\s*(?:credited|processed)`),
		fields: fieldMap{amount: 1},
	},
}

// SMS extracts a candidate transaction from a normalized bank SMS body.
// Debit patterns are tried in order first; only if none match are credit
// patterns tried. Secondary extractors then fill fields the winning pattern
// did not capture. Returns a discard-class error when nothing matches or
// the captured amount is unusable.
func SMS(text string) (*models.CandidateTransaction, error) {
	if text == "" {
		return nil, apperrors.ExtractError(apperrors.CodeNoPatternMatch, "sms", nil)
	}

	// Some banks style their messages with mathematical alphanumerics.
	text = glyph.Normalize(text)

	cand, err := matchOrdered(text, debitPatterns, models.DirectionExpense)
	if err != nil {
		// A debit pattern that matched but carried an unusable amount is a
		// terminal verdict. Retrying credits would let a generic credit
		// pattern re-capture the malformed text.
		if engineErr, ok := apperrors.AsEngineError(err); ok && engineErr.Code == apperrors.CodeInvalidAmount {
			return nil, err
		}
		cand, err = matchOrdered(text, creditPatterns, models.DirectionIncome)
	}
	if err != nil {
		return nil, err
	}

	// Secondary single-purpose extractors run over the full normalized
	// text, each only for fields the winning pattern left empty.
	cand.Reference = extractReference(text)
	if bal, ok := extractBalance(text); ok {
		cand.BalanceAfter = bal
		cand.HasBalance = true
	}
	if cand.AccountSuffix == "" {
		cand.AccountSuffix = extractAccountSuffix(text)
	}
	if cand.Merchant == "" {
		cand.Merchant = extractMerchant(text)
	}

	cand.Source = models.SourceSMS
	cand.Confidence = smsConfidence
	return cand, nil
}

func matchOrdered(text string, patterns []smsPattern, dir models.Direction) (*models.CandidateTransaction, error) {
	for _, p := range patterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}

		amount, err := models.ParseAmount(m[p.fields.amount])
		if err != nil || !amount.IsPositive() {
			return nil, apperrors.ExtractError(apperrors.CodeInvalidAmount, "sms", err)
		}

		cand := &models.CandidateTransaction{
			Direction: dir,
			Amount:    amount,
		}
		if p.fields.suffix != 0 {
			cand.AccountSuffix = m[p.fields.suffix]
		}
		if p.fields.merchant != 0 {
			cand.Merchant = cleanSMSMerchant(m[p.fields.merchant])
		}
		return cand, nil
	}
	return nil, apperrors.ExtractError(apperrors.CodeNoPatternMatch, "sms", nil)
}
