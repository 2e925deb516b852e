package reconcile

import (
	"regexp"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Transfer-rail markers. A merchant string containing one of these is a
// transit artifact (SMS reference text), not a counterparty identity.
var genericMarkers = []string{"UPI", "IMPS", "DR/", "CR/"}

var (
	honorificRe   = regexp.MustCompile(`^(MR\s*|MRS\s*|MS\s*|DR\s*)`)
	nonAlnumSpRe  = regexp.MustCompile(`[^A-Z0-9\s]`)
	similarityMax = 0.4
)

// IsGenericMerchant reports whether a merchant label carries no
// discriminating identity: empty, or a bare transfer-rail marker.
func IsGenericMerchant(merchant string) bool {
	merchant = strings.TrimSpace(merchant)
	if merchant == "" {
		return true
	}
	upper := strings.ToUpper(merchant)
	for _, marker := range genericMarkers {
		if strings.Contains(upper, marker) {
			return true
		}
	}
	return false
}

// normalizeMerchant uppercases, strips a leading honorific title and all
// non-alphanumerics, and trims.
func normalizeMerchant(merchant string) string {
	merchant = strings.ToUpper(strings.TrimSpace(merchant))
	merchant = honorificRe.ReplaceAllString(merchant, "")
	merchant = nonAlnumSpRe.ReplaceAllString(merchant, "")
	return strings.TrimSpace(merchant)
}

// MerchantsSimilar decides whether two merchant labels plausibly name the
// same counterparty. Tiers, cheapest first: exact match after
// normalization, containment, equal first tokens (first-name match, tokens
// longer than two characters), then edit distance bounded relative to the
// longer string.
func MerchantsSimilar(a, b string) bool {
	na, nb := normalizeMerchant(a), normalizeMerchant(b)
	if na == "" || nb == "" {
		return false
	}

	if na == nb {
		return true
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return true
	}

	wa, wb := strings.Fields(na), strings.Fields(nb)
	if len(wa) > 0 && len(wb) > 0 &&
		len(wa[0]) > 2 && len(wb[0]) > 2 && wa[0] == wb[0] {
		return true
	}

	// The edit-distance tier goes beyond the enumerated conditions above:
	// near-miss distinct names within the cutoff (JOHN DOE vs JOAN DOE)
	// merge rather than stay distinct.
	dist := levenshtein.ComputeDistance(na, nb)
	maxLen := len(na)
	if len(nb) > maxLen {
		maxLen = len(nb)
	}
	return float64(dist)/float64(maxLen) < similarityMax
}
