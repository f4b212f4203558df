package ledger

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
)

// Account is one customer record. The ledger owns the authoritative cash
// balance; the trading core only reads and debits/credits it.
type Account struct {
	Number         int
	Name           string
	Type           string // Savings or Current
	PIN            int
	Balance        float64 // cash, INR
	Loan           float64
	Active         bool
	Frozen         bool
	FailedAttempts int
	UPI            string
	LastLogin      time.Time
}

// ErrInvalidUPI rejects handles that are not an alphanumeric local part with
// an optional @bvdu domain.
var ErrInvalidUPI = errors.New("invalid UPI handle")

// NormalizeUPI validates a UPI handle and returns its canonical lowercase
// form. "Alice" and "alice@bvdu" both normalize to "alice@bvdu"; any other
// domain, a second '@', or a non-alphanumeric local part is rejected.
func NormalizeUPI(input string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(input))
	if s == "" {
		return "", ErrInvalidUPI
	}

	local := s
	if at := strings.IndexByte(s, '@'); at >= 0 {
		local = s[:at]
		domain := s[at+1:]
		if domain != "bvdu" || strings.ContainsRune(domain, '@') {
			return "", ErrInvalidUPI
		}
	}

	if local == "" {
		return "", ErrInvalidUPI
	}
	for _, r := range local {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return "", ErrInvalidUPI
		}
	}
	return fmt.Sprintf("%s@bvdu", local), nil
}
