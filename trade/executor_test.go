package trade

import (
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/kaiadhikary/BVDU-Bank/book"
	"github.com/kaiadhikary/BVDU-Bank/journal"
	"github.com/kaiadhikary/BVDU-Bank/market"
)

type testCash struct {
	balances map[int]float64
}

func (c *testCash) Cash(account int) (float64, error) {
	return c.balances[account], nil
}

func (c *testCash) Debit(account int, amount float64) error {
	if c.balances[account] < amount {
		return errors.New("insufficient funds")
	}
	c.balances[account] -= amount
	return nil
}

func (c *testCash) Credit(account int, amount float64) error {
	c.balances[account] += amount
	return nil
}

type testJournal struct {
	entries []journal.Entry
	audit   []journal.Event
	notices []journal.Notice
}

func (j *testJournal) RecordEntry(e journal.Entry) error   { j.entries = append(j.entries, e); return nil }
func (j *testJournal) RecordAudit(e journal.Event) error   { j.audit = append(j.audit, e); return nil }
func (j *testJournal) RecordNotice(n journal.Notice) error { j.notices = append(j.notices, n); return nil }
func (j *testJournal) LastEntries(int, int) ([]journal.Entry, error) {
	return nil, nil
}
func (j *testJournal) Close() error { return nil }

type testSaver struct {
	saves int
	last  []book.Position
	err   error
}

func (s *testSaver) SavePositions(positions []book.Position) error {
	s.saves++
	s.last = positions
	return s.err
}

type fixture struct {
	exec    *Executor
	catalog *market.Catalog
	rates   *market.RateStore
	book    *book.Book
	cash    *testCash
	journal *testJournal
	saver   *testSaver
}

func newFixture(t *testing.T, balance float64) *fixture {
	t.Helper()

	catalog := market.NewCatalog(rand.New(rand.NewSource(1)))
	catalog.Upsert(market.Asset{
		ID: "AAPL", Name: "Apple Inc", Price: 190.0, Volatility: 0.02,
		Market: market.US, OpenHour: 0, CloseHour: 24,
	})
	catalog.Upsert(market.Asset{
		ID: "INFY", Name: "Infosys Ltd", Price: 1500.0, Volatility: 0.01,
		Market: market.IN, OpenHour: 9, CloseHour: 15,
	})

	f := &fixture{
		catalog: catalog,
		rates:   market.NewRateStore(market.Rates{INRPerUSD: 83.5, INRPerEUR: 88.2}),
		book:    book.New(),
		cash:    &testCash{balances: map[int]float64{1001: balance}},
		journal: &testJournal{},
		saver:   &testSaver{},
	}
	f.exec = NewExecutor(f.catalog, f.rates, f.book, f.cash, f.saver, f.journal, nil)
	return f
}

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

var noon = time.Date(2025, 3, 10, 12, 0, 0, 0, time.Local)

func TestBuyDebitsCashAndOpensPosition(t *testing.T) {
	f := newFixture(t, 50000.00)

	fill, err := f.exec.Buy(1001, "AAPL", 2, noon)
	if err != nil {
		t.Fatalf("buy: %v", err)
	}

	wantCost := 190.0 * 2 * 83.5 // 31730.00
	if !approxEqual(fill.AmountINR, wantCost, 1e-9) {
		t.Fatalf("cost = %v, want %v", fill.AmountINR, wantCost)
	}
	if !approxEqual(f.cash.balances[1001], 50000.00-wantCost, 1e-9) {
		t.Fatalf("cash = %v, want %v", f.cash.balances[1001], 50000.00-wantCost)
	}
	if !approxEqual(fill.CashAfter, 18270.00, 1e-9) {
		t.Fatalf("cash after = %v, want 18270.00", fill.CashAfter)
	}

	p, ok := f.book.Get(1001, "AAPL")
	if !ok {
		t.Fatalf("position not opened")
	}
	if p.Qty != 2 || p.AvgPrice != 190.0 {
		t.Fatalf("position = %v @ %v, want 2 @ 190", p.Qty, p.AvgPrice)
	}
	if fill.ID == "" {
		t.Fatalf("fill must carry an ID")
	}
}

func TestBuyCostMatchesFXConverter(t *testing.T) {
	f := newFixture(t, 1e9)

	fill, err := f.exec.Buy(1001, "AAPL", 7, noon)
	if err != nil {
		t.Fatalf("buy: %v", err)
	}

	want := f.rates.Get().ToINR(190.0*7, market.US)
	if fill.AmountINR != want {
		t.Fatalf("cost = %v, converter says %v", fill.AmountINR, want)
	}
}

func TestBuyThenIncreaseAveragesBasis(t *testing.T) {
	f := newFixture(t, 1e6)

	if _, err := f.exec.Buy(1001, "AAPL", 2, noon); err != nil {
		t.Fatalf("buy: %v", err)
	}

	// Price moves before the second fill.
	if _, err := f.catalog.SetPrice("AAPL", 200.0, noon); err != nil {
		t.Fatalf("set price: %v", err)
	}
	if _, err := f.exec.Buy(1001, "AAPL", 1, noon); err != nil {
		t.Fatalf("buy: %v", err)
	}

	p, _ := f.book.Get(1001, "AAPL")
	want := (2*190.0 + 1*200.0) / 3 // 193.333...
	if !approxEqual(p.AvgPrice, want, 1e-9) {
		t.Fatalf("avg = %v, want %v", p.AvgPrice, want)
	}
	if p.Qty != 3 {
		t.Fatalf("qty = %v, want 3", p.Qty)
	}
}

func TestSellFullPositionCreditsAndRemoves(t *testing.T) {
	f := newFixture(t, 1e6)
	if _, err := f.exec.Buy(1001, "AAPL", 3, noon); err != nil {
		t.Fatalf("buy: %v", err)
	}
	cashBefore := f.cash.balances[1001]

	if _, err := f.catalog.SetPrice("AAPL", 210.0, noon); err != nil {
		t.Fatalf("set price: %v", err)
	}
	f.rates.Set(market.Rates{INRPerUSD: 84.0, INRPerEUR: 88.2})

	fill, err := f.exec.Sell(1001, "AAPL", 3, noon)
	if err != nil {
		t.Fatalf("sell: %v", err)
	}

	wantProceeds := 3 * 210.0 * 84.0 // 52920.00
	if !approxEqual(fill.AmountINR, wantProceeds, 1e-9) {
		t.Fatalf("proceeds = %v, want %v", fill.AmountINR, wantProceeds)
	}
	if !approxEqual(f.cash.balances[1001], cashBefore+wantProceeds, 1e-9) {
		t.Fatalf("cash = %v, want %v", f.cash.balances[1001], cashBefore+wantProceeds)
	}
	if _, ok := f.book.Get(1001, "AAPL"); ok {
		t.Fatalf("position should be removed after selling everything")
	}
}

func TestBuyAssetNotFound(t *testing.T) {
	f := newFixture(t, 50000)

	_, err := f.exec.Buy(1001, "NOPE", 1, noon)
	if !errors.Is(err, ErrAssetNotFound) {
		t.Fatalf("err = %v, want ErrAssetNotFound", err)
	}
	assertNoMutation(t, f, 50000)
}

func TestTradeRejectedWhenMarketClosed(t *testing.T) {
	f := newFixture(t, 1e6)
	evening := time.Date(2025, 3, 10, 20, 0, 0, 0, time.Local) // IN market shut

	if _, err := f.exec.Buy(1001, "INFY", 1, evening); !errors.Is(err, ErrMarketClosed) {
		t.Fatalf("buy err = %v, want ErrMarketClosed", err)
	}

	// Sells are gated too.
	if _, err := f.exec.Buy(1001, "INFY", 1, noon); err != nil {
		t.Fatalf("buy: %v", err)
	}
	if _, err := f.exec.Sell(1001, "INFY", 1, evening); !errors.Is(err, ErrMarketClosed) {
		t.Fatalf("sell err = %v, want ErrMarketClosed", err)
	}
}

func TestBuyInsufficientFundsNoMutation(t *testing.T) {
	f := newFixture(t, 100.00) // AAPL x1 costs 15865 INR

	_, err := f.exec.Buy(1001, "AAPL", 1, noon)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}
	assertNoMutation(t, f, 100.00)
}

func TestSellWithoutPosition(t *testing.T) {
	f := newFixture(t, 50000)

	_, err := f.exec.Sell(1001, "AAPL", 1, noon)
	if !errors.Is(err, ErrNoSuchPosition) {
		t.Fatalf("err = %v, want ErrNoSuchPosition", err)
	}
	assertNoMutation(t, f, 50000)
}

func TestSellMoreThanHeld(t *testing.T) {
	f := newFixture(t, 1e6)
	if _, err := f.exec.Buy(1001, "AAPL", 2, noon); err != nil {
		t.Fatalf("buy: %v", err)
	}
	cash := f.cash.balances[1001]

	_, err := f.exec.Sell(1001, "AAPL", 3, noon)
	if !errors.Is(err, ErrInsufficientQuantity) {
		t.Fatalf("err = %v, want ErrInsufficientQuantity", err)
	}

	p, _ := f.book.Get(1001, "AAPL")
	if p.Qty != 2 {
		t.Fatalf("failed sell mutated position: qty=%v", p.Qty)
	}
	if f.cash.balances[1001] != cash {
		t.Fatalf("failed sell mutated cash")
	}
}

func TestInvalidQuantities(t *testing.T) {
	f := newFixture(t, 1e6)

	for _, qty := range []float64{0, -2, math.NaN(), math.Inf(1)} {
		if _, err := f.exec.Buy(1001, "AAPL", qty, noon); !errors.Is(err, ErrInvalidQuantity) {
			t.Fatalf("buy qty %v: err = %v, want ErrInvalidQuantity", qty, err)
		}
		if _, err := f.exec.Sell(1001, "AAPL", qty, noon); !errors.Is(err, ErrInvalidQuantity) {
			t.Fatalf("sell qty %v: err = %v, want ErrInvalidQuantity", qty, err)
		}
	}
}

func TestTradeEmitsOneEntryOneAuditOneNotice(t *testing.T) {
	f := newFixture(t, 1e6)

	if _, err := f.exec.Buy(1001, "AAPL", 2, noon); err != nil {
		t.Fatalf("buy: %v", err)
	}

	if len(f.journal.entries) != 1 || len(f.journal.audit) != 1 || len(f.journal.notices) != 1 {
		t.Fatalf("emitted %d entries, %d audit, %d notices; want 1 each",
			len(f.journal.entries), len(f.journal.audit), len(f.journal.notices))
	}

	entry := f.journal.entries[0]
	if entry.Type != "BUY" || entry.Amount >= 0 {
		t.Fatalf("entry = %+v, want negative BUY amount", entry)
	}
	if !approxEqual(entry.BalanceAfter, f.cash.balances[1001], 1e-9) {
		t.Fatalf("entry balance %v != ledger %v", entry.BalanceAfter, f.cash.balances[1001])
	}
	if f.journal.audit[0].Detail != "BUY|1001|AAPL|2.0000|31730.00INR" {
		t.Fatalf("audit detail = %q", f.journal.audit[0].Detail)
	}

	if f.saver.saves != 1 {
		t.Fatalf("positions saved %d times, want 1", f.saver.saves)
	}
}

func TestSaveFailureDoesNotFailTrade(t *testing.T) {
	f := newFixture(t, 1e6)
	f.saver.err = errors.New("disk full")

	fill, err := f.exec.Buy(1001, "AAPL", 1, noon)
	if err != nil {
		t.Fatalf("buy should succeed despite save failure: %v", err)
	}
	if fill.Qty != 1 {
		t.Fatalf("fill = %+v", fill)
	}
	// In-memory book remains authoritative.
	if _, ok := f.book.Get(1001, "AAPL"); !ok {
		t.Fatalf("position missing")
	}
}

func assertNoMutation(t *testing.T, f *fixture, wantCash float64) {
	t.Helper()
	if f.cash.balances[1001] != wantCash {
		t.Fatalf("cash mutated: %v", f.cash.balances[1001])
	}
	if len(f.book.Positions()) != 0 {
		t.Fatalf("book mutated")
	}
	if f.saver.saves != 0 {
		t.Fatalf("positions persisted on a failed trade")
	}
	if len(f.journal.entries)+len(f.journal.audit)+len(f.journal.notices) != 0 {
		t.Fatalf("events emitted on a failed trade")
	}
}
