package security

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"
	"time"
)

const (
	VerificationTTL = 24 * time.Hour
	ResetTTL        = time.Hour

	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	codeLength   = 6
)

// NewVerificationCode returns a short code the user types back from their
// inbox. Drawn per-character from the CSPRNG so the code carries no bias.
func NewVerificationCode() (string, error) {
	out := make([]byte, codeLength)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = codeAlphabet[n.Int64()]
	}
	return string(out), nil
}

// NewResetToken returns 40 random bytes as hex, used in password-reset links.
func NewResetToken() (string, error) {
	b := make([]byte, 40)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
