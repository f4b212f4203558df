package market

import (
	"sync"
	"time"
)

// Rates are the two floating reference rates every currency conversion uses.
type Rates struct {
	INRPerUSD  float64
	INRPerEUR  float64
	LastUpdate time.Time
}

// DefaultRates are used until an administrator sets rates or a saved rate
// file is loaded.
func DefaultRates() Rates {
	return Rates{INRPerUSD: 83.5, INRPerEUR: 88.2}
}

// ToINR converts a native-currency amount from the given market into INR.
// IN amounts pass through unchanged. Unrecognized markets convert at 1.0
// rather than failing; valuation must never error on a stale market tag.
func (r Rates) ToINR(amount float64, m Market) float64 {
	switch m {
	case US:
		return amount * r.INRPerUSD
	case EU:
		return amount * r.INRPerEUR
	default:
		return amount
	}
}

// RateStore owns the process-wide FX rates. Conversions always read the
// current rates, never a snapshot taken at position-open time.
type RateStore struct {
	mu    sync.RWMutex
	rates Rates
}

func NewRateStore(r Rates) *RateStore {
	return &RateStore{rates: r}
}

func (s *RateStore) Get() Rates {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rates
}

func (s *RateStore) Set(r Rates) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rates = r
}
