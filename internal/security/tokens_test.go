package security_test

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/plateful/plateful/internal/security"
)

const alnum = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

func TestVerificationCodeShape(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		code, err := security.NewVerificationCode()
		if err != nil {
			t.Fatal(err)
		}
		if len(code) != 6 {
			t.Fatalf("code %q: want 6 characters", code)
		}
		for _, r := range code {
			if !strings.ContainsRune(alnum, r) {
				t.Fatalf("code %q: %q outside alphabet", code, r)
			}
		}
		seen[code] = true
	}
	// 100 draws from 62^6 values should not collide down to a handful
	if len(seen) < 90 {
		t.Fatalf("suspicious collision rate: %d distinct of 100", len(seen))
	}
}

func TestResetTokenShape(t *testing.T) {
	tok, err := security.NewResetToken()
	if err != nil {
		t.Fatal(err)
	}
	if len(tok) != 80 {
		t.Fatalf("want 80 hex chars (40 bytes), got %d", len(tok))
	}
	if _, err := hex.DecodeString(tok); err != nil {
		t.Fatalf("not hex: %v", err)
	}
	other, _ := security.NewResetToken()
	if tok == other {
		t.Fatal("two reset tokens are identical")
	}
}
