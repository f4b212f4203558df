package market

import "time"

// MinPrice is the floor a simulated price is clamped to after any mutation.
// Prices never reach zero or go negative.
const MinPrice = 0.0001

// Asset is one tradable instrument: a native-currency price, a volatility
// fraction driving the tick simulation, and a daily trading-hours window.
type Asset struct {
	ID         string // short unique identifier, case-sensitive
	Name       string
	Price      float64 // per unit, in the market's native currency
	Volatility float64 // fraction, 0.01 ~= 1% per tick
	Market     Market
	LastUpdate time.Time
	OpenHour   int // 0-23
	CloseHour  int // 0-24; 24 means always open, < OpenHour wraps past midnight
}

// IsOpen reports whether the asset trades at the given wall-clock time.
// The window is half-open [OpenHour, CloseHour). A close hour below the open
// hour wraps past midnight: open 20, close 4 means hour >= 20 or hour < 4.
func (a Asset) IsOpen(now time.Time) bool {
	hour := now.Hour()
	if a.OpenHour <= a.CloseHour {
		return hour >= a.OpenHour && hour < a.CloseHour
	}
	return hour >= a.OpenHour || hour < a.CloseHour
}
