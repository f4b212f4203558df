// Package portfolio values positions at current market prices and FX rates.
//
// Valuation is a pure function over (positions, catalog, rates); nothing
// here mutates state. Note that unrealized P/L re-expresses the historical
// cost basis at today's FX rate, not the rate at acquisition time: figures
// are "unrealized in today's FX terms". Surfaces presenting these numbers
// should say so.
package portfolio

import (
	"github.com/kaiadhikary/BVDU-Bank/book"
	"github.com/kaiadhikary/BVDU-Bank/market"
)

// Holding is one valued position row.
type Holding struct {
	book.Position
	CurrentPrice float64 // native currency; falls back to AvgPrice when the asset left the catalog
	ValueINR     float64
	PLINR        float64
}

// Holdings values each position. When an asset has been withdrawn from the
// catalog its cost basis stands in for the current price, so the row values
// flat rather than disappearing. Currency conversion uses the market tag
// captured at acquisition time.
func Holdings(positions []book.Position, catalog *market.Catalog, fx market.Rates) []Holding {
	out := make([]Holding, 0, len(positions))
	for _, p := range positions {
		current := p.AvgPrice
		if a, ok := catalog.Get(p.AssetID); ok {
			current = a.Price
		}

		currentINR := fx.ToINR(current, p.Market)
		avgINR := fx.ToINR(p.AvgPrice, p.Market)

		out = append(out, Holding{
			Position:     p,
			CurrentPrice: current,
			ValueINR:     p.Qty * currentINR,
			PLINR:        p.Qty * (currentINR - avgINR),
		})
	}
	return out
}

// MarkToMarket returns the total INR value of the positions at current
// prices and rates.
func MarkToMarket(positions []book.Position, catalog *market.Catalog, fx market.Rates) float64 {
	var total float64
	for _, h := range Holdings(positions, catalog, fx) {
		total += h.ValueINR
	}
	return total
}

// UnrealizedPL returns the total unrealized profit or loss in INR, with both
// the current price and the cost basis converted at today's rates.
func UnrealizedPL(positions []book.Position, catalog *market.Catalog, fx market.Rates) float64 {
	var total float64
	for _, h := range Holdings(positions, catalog, fx) {
		total += h.PLINR
	}
	return total
}
