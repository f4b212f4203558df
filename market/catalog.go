package market

import (
	"errors"
	"math/rand"
	"time"
)

// ErrAssetNotFound is returned when a catalog lookup misses.
var ErrAssetNotFound = errors.New("asset not found")

// bigMoveFactor scales the volatility for the administrative randomize, a
// deliberately larger move than an ordinary tick.
const bigMoveFactor = 5.0

// Catalog is the set of tradable assets, keyed by asset ID with insertion
// order preserved for display. The random source is injected so ticks are
// reproducible in tests and replays.
type Catalog struct {
	assets map[string]*Asset
	order  []string
	rng    *rand.Rand
}

func NewCatalog(rng *rand.Rand) *Catalog {
	return &Catalog{
		assets: make(map[string]*Asset),
		rng:    rng,
	}
}

// Len returns the number of assets in the catalog.
func (c *Catalog) Len() int { return len(c.order) }

// Get returns a copy of the asset with the given ID. IDs are case-sensitive.
func (c *Catalog) Get(id string) (Asset, bool) {
	a, ok := c.assets[id]
	if !ok {
		return Asset{}, false
	}
	return *a, true
}

// Assets returns copies of all assets in insertion order.
func (c *Catalog) Assets() []Asset {
	out := make([]Asset, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, *c.assets[id])
	}
	return out
}

// Upsert adds the asset or replaces an existing record with the same ID.
func (c *Catalog) Upsert(a Asset) {
	if _, ok := c.assets[a.ID]; !ok {
		c.order = append(c.order, a.ID)
	}
	cp := a
	if cp.Price < MinPrice {
		cp.Price = MinPrice
	}
	c.assets[a.ID] = &cp
}

// SetPrice is the administrative price override. The new price must be
// positive.
func (c *Catalog) SetPrice(id string, price float64, now time.Time) (old float64, err error) {
	a, ok := c.assets[id]
	if !ok {
		return 0, ErrAssetNotFound
	}
	if price <= 0 {
		return 0, errors.New("price must be positive")
	}
	old = a.Price
	a.Price = price
	a.LastUpdate = now
	return old, nil
}

// Tick applies one stochastic price update to every asset whose market is
// open at now: a fresh uniform draw in [-1, 1] scaled by the asset's
// volatility, applied multiplicatively and clamped at MinPrice. Closed
// assets are untouched. Returns the number of assets moved; an empty
// catalog is a no-op.
func (c *Catalog) Tick(now time.Time) int {
	return c.tick(now, 1.0)
}

// BigMove is the administrative randomize: same draw as Tick but with the
// volatility scaled up.
func (c *Catalog) BigMove(now time.Time) int {
	return c.tick(now, bigMoveFactor)
}

func (c *Catalog) tick(now time.Time, factor float64) int {
	moved := 0
	for _, id := range c.order {
		a := c.assets[id]
		if !a.IsOpen(now) {
			continue
		}
		draw := c.rng.Float64()*2 - 1 // uniform in [-1, 1]
		a.Price *= 1 + draw*a.Volatility*factor
		if a.Price < MinPrice {
			a.Price = MinPrice
		}
		a.LastUpdate = now
		moved++
	}
	return moved
}

// Seed populates the catalog with the default asset set when it is empty and
// reports whether it did so. The defaults span all three markets with
// distinct volatilities and trading windows; BTC is always open.
func (c *Catalog) Seed(now time.Time) bool {
	if len(c.order) > 0 {
		return false
	}
	for _, a := range defaultAssets {
		a.LastUpdate = now
		c.Upsert(a)
	}
	return true
}

var defaultAssets = []Asset{
	{ID: "INFY", Name: "Infosys Ltd", Price: 1500.0, Volatility: 0.01, Market: IN, OpenHour: 9, CloseHour: 15},
	{ID: "TCS", Name: "TCS", Price: 3200.0, Volatility: 0.008, Market: IN, OpenHour: 9, CloseHour: 15},
	{ID: "AAPL", Name: "Apple Inc", Price: 190.0, Volatility: 0.02, Market: US, OpenHour: 9, CloseHour: 17},
	{ID: "NVDA", Name: "NVIDIA Corp", Price: 190.0, Volatility: 0.03, Market: US, OpenHour: 9, CloseHour: 17},
	{ID: "BTC", Name: "Bitcoin", Price: 35000.0, Volatility: 0.05, Market: US, OpenHour: 0, CloseHour: 24},
	{ID: "SIE", Name: "Siemens", Price: 120.0, Volatility: 0.018, Market: EU, OpenHour: 8, CloseHour: 18},
}
