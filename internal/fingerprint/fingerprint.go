// Package fingerprint derives deterministic idempotency keys for raw events.
// A fingerprint collapses exact duplicate deliveries of the same raw event;
// it is not a security credential.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Length is the hex-digest prefix length used as the key.
const Length = 32

// ForSMS fingerprints a bank SMS event: origin label, amount and the bank
// reference id. Events without a reference fall back to the observation
// timestamp, so a true resend (same timestamp) still collapses.
func ForSMS(originLabel string, amount decimal.Decimal, reference string, observedAt time.Time) string {
	ref := reference
	if ref == "" {
		ref = strconv.FormatInt(observedAt.UnixMilli(), 10)
	}
	return digest(originLabel + "-" + amount.String() + "-" + ref)
}

// ForNotification fingerprints a payment-app notification, which carries no
// bank reference. The synthetic reference combines the observation time, the
// amount and a short hash of the merchant, making redelivery of the same raw
// notification collapse while distinct notifications stay distinct.
func ForNotification(originLabel string, amount decimal.Decimal, merchant string, observedAt time.Time) string {
	ref := fmt.Sprintf("UPI_%d_%s_%s", observedAt.UnixMilli(), amount.String(), shortHash(merchant))
	return digest(originLabel + "-" + amount.String() + "-" + ref)
}

func digest(data string) string {
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])[:Length]
}

func shortHash(s string) string {
	if s == "" {
		return "unknown"
	}
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:8]
}
