// Package trade orchestrates buys and sells against the market catalog, the
// position book and the external cash ledger as one logical unit.
package trade

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/kaiadhikary/BVDU-Bank/book"
	"github.com/kaiadhikary/BVDU-Bank/journal"
	"github.com/kaiadhikary/BVDU-Bank/market"
	"github.com/kaiadhikary/BVDU-Bank/pkg/id"
)

// CashLedger is what the executor needs from the account ledger: read a
// balance, debit it, credit it. Amounts are always positive; direction is
// implied by the call. The ledger owns the authoritative cash state.
type CashLedger interface {
	Cash(account int) (float64, error)
	Debit(account int, amount float64) error
	Credit(account int, amount float64) error
}

// PositionSaver persists the position book after a completed trade.
type PositionSaver interface {
	SavePositions([]book.Position) error
}

// Fill describes one executed trade.
type Fill struct {
	ID          string
	Account     int
	Side        string // "BUY" or "SELL"
	AssetID     string
	AssetName   string
	Qty         float64
	PriceNative float64 // fill price per unit, native currency
	AmountINR   float64 // cost for buys, proceeds for sells
	CashAfter   float64
	Time        time.Time
}

// Executor runs the all-or-nothing trade state machine. All checks happen
// before any mutation; the cash and position mutations are applied
// back-to-back with no fallible step between them, so a partially applied
// trade is never observable.
type Executor struct {
	catalog   *market.Catalog
	rates     *market.RateStore
	book      *book.Book
	cash      CashLedger
	positions PositionSaver
	journal   journal.Journal
	log       *slog.Logger
}

func NewExecutor(
	catalog *market.Catalog,
	rates *market.RateStore,
	b *book.Book,
	cash CashLedger,
	positions PositionSaver,
	j journal.Journal,
	log *slog.Logger,
) *Executor {
	if log == nil {
		log = slog.Default()
	}
	return &Executor{
		catalog:   catalog,
		rates:     rates,
		book:      b,
		cash:      cash,
		positions: positions,
		journal:   j,
		log:       log,
	}
}

// Buy purchases qty units of the asset at the current native price, paying
// in INR at current FX rates.
func (e *Executor) Buy(account int, assetID string, qty float64, now time.Time) (Fill, error) {
	if !validQty(qty) {
		return Fill{}, ErrInvalidQuantity
	}

	asset, ok := e.catalog.Get(assetID)
	if !ok {
		return Fill{}, fmt.Errorf("buy %s: %w", assetID, ErrAssetNotFound)
	}
	if !asset.IsOpen(now) {
		return Fill{}, fmt.Errorf("buy %s: %s market open %02d:00-%02d:00: %w",
			assetID, asset.Market, asset.OpenHour, asset.CloseHour, ErrMarketClosed)
	}

	costINR := e.rates.Get().ToINR(asset.Price*qty, asset.Market)

	cash, err := e.cash.Cash(account)
	if err != nil {
		return Fill{}, fmt.Errorf("buy %s: %w", assetID, err)
	}
	if cash < costINR {
		return Fill{}, fmt.Errorf("buy %s: need %.2f INR, have %.2f: %w",
			assetID, costINR, cash, ErrInsufficientFunds)
	}

	// All checks passed: debit and position update must both happen.
	// Add cannot fail here since the quantity was validated above.
	if err := e.cash.Debit(account, costINR); err != nil {
		return Fill{}, fmt.Errorf("buy %s: debit: %w", assetID, err)
	}
	if err := e.book.Add(account, asset, qty, asset.Price); err != nil {
		return Fill{}, fmt.Errorf("buy %s: position: %w", assetID, err)
	}

	fill := Fill{
		ID:          id.New(),
		Account:     account,
		Side:        "BUY",
		AssetID:     asset.ID,
		AssetName:   asset.Name,
		Qty:         qty,
		PriceNative: asset.Price,
		AmountINR:   costINR,
		CashAfter:   cash - costINR,
		Time:        now,
	}
	e.settle(fill, -costINR)
	return fill, nil
}

// Sell disposes of qty units of a held position, crediting the INR proceeds
// at current FX rates.
func (e *Executor) Sell(account int, assetID string, qty float64, now time.Time) (Fill, error) {
	if !validQty(qty) {
		return Fill{}, ErrInvalidQuantity
	}

	asset, ok := e.catalog.Get(assetID)
	if !ok {
		return Fill{}, fmt.Errorf("sell %s: %w", assetID, ErrAssetNotFound)
	}
	if !asset.IsOpen(now) {
		return Fill{}, fmt.Errorf("sell %s: %s market open %02d:00-%02d:00: %w",
			assetID, asset.Market, asset.OpenHour, asset.CloseHour, ErrMarketClosed)
	}

	held, ok := e.book.Get(account, assetID)
	if !ok {
		return Fill{}, fmt.Errorf("sell %s: %w", assetID, ErrNoSuchPosition)
	}
	if qty > held.Qty {
		return Fill{}, fmt.Errorf("sell %s: hold %.6f, asked %.6f: %w",
			assetID, held.Qty, qty, ErrInsufficientQuantity)
	}

	proceedsINR := e.rates.Get().ToINR(asset.Price*qty, asset.Market)

	cash, err := e.cash.Cash(account)
	if err != nil {
		return Fill{}, fmt.Errorf("sell %s: %w", assetID, err)
	}

	// All checks passed. Reduce cannot fail after the ownership check.
	if _, err := e.book.Reduce(account, assetID, qty); err != nil {
		return Fill{}, fmt.Errorf("sell %s: position: %w", assetID, err)
	}
	if err := e.cash.Credit(account, proceedsINR); err != nil {
		return Fill{}, fmt.Errorf("sell %s: credit: %w", assetID, err)
	}

	fill := Fill{
		ID:          id.New(),
		Account:     account,
		Side:        "SELL",
		AssetID:     asset.ID,
		AssetName:   asset.Name,
		Qty:         qty,
		PriceNative: asset.Price,
		AmountINR:   proceedsINR,
		CashAfter:   cash + proceedsINR,
		Time:        now,
	}
	e.settle(fill, proceedsINR)
	return fill, nil
}

// settle persists the book and emits the ledger entry, audit event and
// notification for a completed fill. Failures here are logged, not
// returned: the in-memory state is authoritative until the next successful
// save, and the trade itself already happened.
func (e *Executor) settle(fill Fill, signedAmount float64) {
	if err := e.positions.SavePositions(e.book.Positions()); err != nil {
		e.log.Warn("position save failed; in-memory book remains authoritative",
			"error", err, "account", fill.Account)
	}

	var verb string
	if fill.Side == "BUY" {
		verb = "Bought"
	} else {
		verb = "Sold"
	}
	note := fmt.Sprintf("%s %s x %.4f", verb, fill.AssetID, fill.Qty)

	if err := e.journal.RecordEntry(journal.Entry{
		Account:      fill.Account,
		Time:         fill.Time,
		Type:         fill.Side,
		Amount:       signedAmount,
		BalanceAfter: fill.CashAfter,
		Note:         note,
	}); err != nil {
		e.log.Warn("ledger entry append failed", "error", err, "fill", fill.ID)
	}

	if err := e.journal.RecordAudit(journal.Event{
		Time: fill.Time,
		Detail: fmt.Sprintf("%s|%d|%s|%.4f|%.2fINR",
			fill.Side, fill.Account, fill.AssetID, fill.Qty, fill.AmountINR),
	}); err != nil {
		e.log.Warn("audit append failed", "error", err, "fill", fill.ID)
	}

	if err := e.journal.RecordNotice(journal.Notice{
		Time:    fill.Time,
		Account: fill.Account,
		Message: note,
	}); err != nil {
		e.log.Warn("notification append failed", "error", err, "fill", fill.ID)
	}
}

func validQty(qty float64) bool {
	return qty > 0 && !math.IsInf(qty, 0) && !math.IsNaN(qty)
}
