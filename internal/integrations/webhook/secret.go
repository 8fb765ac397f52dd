package webhook

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// secretLength number of hex characters kept from the SHA-256 digest
const secretLength = 32

// GenerateSecret derives the X-Webhook-Secret of a shop from the server master secret.
// The same shop always gets the same value, so it is never stored.
func GenerateSecret(shopID uuid.UUID, masterSecret string) string {
	return truncatedHash(fmt.Sprintf("%s-%s", shopID, masterSecret))
}

// GenerateCancellationToken builds an unguessable token for customer self-cancellation
func GenerateCancellationToken(appointmentID uuid.UUID, now time.Time, secret string) string {
	return truncatedHash(fmt.Sprintf("%s-%d-%s", appointmentID, now.UnixMilli(), secret))
}

func truncatedHash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:secretLength]
}
