package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/chatterbox/auth-api/internal/domain"
)

// TTL is how long an issued code stays valid.
const TTL = 5 * time.Minute

// Length is the number of digits in a code.
const Length = 6

// New draws a uniformly random 6-digit code from 100000 to 999999.
func New() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+100000), nil
}

// Check compares a submitted code against the stored code and expiry.
// Expiry is checked first; the stored code being absent counts as invalid
// because a consumed code must never be replayable.
func Check(submitted, stored string, expiresAt int64, now time.Time) error {
	if stored == "" || expiresAt == 0 {
		return domain.ErrInvalidCode
	}
	if now.Unix() > expiresAt {
		return domain.ErrCodeExpired
	}
	if submitted != stored {
		return domain.ErrInvalidCode
	}
	return nil
}
