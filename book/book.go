// Package book tracks per-account holdings with average cost basis.
package book

import (
	"errors"
	"math"

	"github.com/kaiadhikary/BVDU-Bank/market"
)

var (
	ErrNoPosition           = errors.New("no position held")
	ErrInsufficientQuantity = errors.New("insufficient quantity held")
	ErrInvalidQuantity      = errors.New("quantity must be positive and finite")
)

// Epsilon is the residual quantity below which a position is considered
// closed and removed. Zero or near-zero rows are never kept or persisted.
const Epsilon = 1e-6

// Position is one account's holding of one asset. AvgPrice is the
// quantity-weighted average native-currency fill price of the units still
// held. Market is copied from the asset at acquisition time and keeps
// driving currency conversion even if the catalog later reassigns the asset.
type Position struct {
	Account   int
	AssetID   string
	AssetName string
	Qty       float64
	AvgPrice  float64 // native currency
	Market    market.Market
}

type posKey struct {
	account int
	asset   string
}

// Book holds all positions keyed by (account, asset), preserving insertion
// order for display.
type Book struct {
	positions map[posKey]*Position
	order     []posKey
}

func New() *Book {
	return &Book{positions: make(map[posKey]*Position)}
}

// Load replaces the book's contents with previously persisted positions.
func (b *Book) Load(positions []Position) {
	b.positions = make(map[posKey]*Position, len(positions))
	b.order = b.order[:0]
	for _, p := range positions {
		k := posKey{p.Account, p.AssetID}
		if _, ok := b.positions[k]; !ok {
			b.order = append(b.order, k)
		}
		cp := p
		b.positions[k] = &cp
	}
}

// Get returns a copy of the position for the (account, asset) pair.
func (b *Book) Get(account int, assetID string) (Position, bool) {
	p, ok := b.positions[posKey{account, assetID}]
	if !ok {
		return Position{}, false
	}
	return *p, true
}

// Positions returns copies of every position in insertion order.
func (b *Book) Positions() []Position {
	out := make([]Position, 0, len(b.order))
	for _, k := range b.order {
		out = append(out, *b.positions[k])
	}
	return out
}

// ForAccount returns the account's positions in insertion order.
func (b *Book) ForAccount(account int) []Position {
	var out []Position
	for _, k := range b.order {
		if k.account == account {
			out = append(out, *b.positions[k])
		}
	}
	return out
}

// Add opens a new position at the fill price or folds the fill into an
// existing one, recomputing the average price as the quantity-weighted
// average of the old basis and the new fill.
func (b *Book) Add(account int, asset market.Asset, qty, fillPrice float64) error {
	if !validQty(qty) {
		return ErrInvalidQuantity
	}

	k := posKey{account, asset.ID}
	p, ok := b.positions[k]
	if !ok {
		b.positions[k] = &Position{
			Account:   account,
			AssetID:   asset.ID,
			AssetName: asset.Name,
			Qty:       qty,
			AvgPrice:  fillPrice,
			Market:    asset.Market,
		}
		b.order = append(b.order, k)
		return nil
	}

	oldCost := p.AvgPrice * p.Qty
	newCost := fillPrice * qty
	p.Qty += qty
	p.AvgPrice = (oldCost + newCost) / p.Qty
	return nil
}

// Reduce sells down a position. The average price is left untouched: under
// average-cost accounting the basis per remaining unit does not change on a
// sell. A residual at or below Epsilon removes the position entirely.
// On failure the position is unchanged.
func (b *Book) Reduce(account int, assetID string, qty float64) (remaining Position, err error) {
	if !validQty(qty) {
		return Position{}, ErrInvalidQuantity
	}

	k := posKey{account, assetID}
	p, ok := b.positions[k]
	if !ok {
		return Position{}, ErrNoPosition
	}
	if qty > p.Qty {
		return Position{}, ErrInsufficientQuantity
	}

	p.Qty -= qty
	if p.Qty <= Epsilon {
		b.remove(k)
		return Position{}, nil
	}
	return *p, nil
}

func (b *Book) remove(k posKey) {
	delete(b.positions, k)
	for i, o := range b.order {
		if o == k {
			b.order = append(b.order[:i], b.order[i+1:]...)
			return
		}
	}
}

func validQty(qty float64) bool {
	return qty > 0 && !math.IsInf(qty, 0) && !math.IsNaN(qty)
}
