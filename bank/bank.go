// Package bank assembles the banking and trading core: market catalog, FX
// rates, position book, cash ledger, trade executor and journal, wired over
// one data directory. A Bank owns the persisted state under that directory
// and is the only writer to it.
package bank

import (
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/kaiadhikary/BVDU-Bank/book"
	"github.com/kaiadhikary/BVDU-Bank/config"
	"github.com/kaiadhikary/BVDU-Bank/journal"
	"github.com/kaiadhikary/BVDU-Bank/ledger"
	"github.com/kaiadhikary/BVDU-Bank/market"
	"github.com/kaiadhikary/BVDU-Bank/portfolio"
	"github.com/kaiadhikary/BVDU-Bank/store"
	"github.com/kaiadhikary/BVDU-Bank/trade"
)

// Bank is the assembled core. Fields are exported for direct read access;
// mutations go through the Bank methods so every change is journaled and
// persisted.
type Bank struct {
	Catalog  *market.Catalog
	Rates    *market.RateStore
	Book     *book.Book
	Ledger   *ledger.Ledger
	Journal  journal.Journal
	Executor *trade.Executor

	store *store.Store
	cfg   *config.Config
	log   *slog.Logger
}

// Open loads (or initializes) all persisted state under cfg.DataDir and
// wires the components together. A fresh directory gets the default FX
// rates, the default asset catalog and, when configured, the sample
// accounts.
func Open(cfg *config.Config, log *slog.Logger) (*Bank, error) {
	if log == nil {
		log = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	s := store.New(cfg.DataDir)
	now := time.Now()

	j, err := openJournal(cfg)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	rates, ok, err := s.LoadRates()
	if err != nil {
		j.Close()
		return nil, fmt.Errorf("load fx rates: %w", err)
	}
	if !ok {
		rates = market.Rates{
			INRPerUSD:  cfg.FX.INRPerUSD,
			INRPerEUR:  cfg.FX.INRPerEUR,
			LastUpdate: now,
		}
		if err := s.SaveRates(rates); err != nil {
			j.Close()
			return nil, fmt.Errorf("save fx rates: %w", err)
		}
		log.Info("fx rates initialized", "inr_per_usd", rates.INRPerUSD, "inr_per_eur", rates.INRPerEUR)
	}

	seed := cfg.Market.Seed
	if seed == 0 {
		seed = now.UnixNano()
	}
	catalog := market.NewCatalog(rand.New(rand.NewSource(seed)))

	assets, err := s.LoadPrices()
	if err != nil {
		j.Close()
		return nil, fmt.Errorf("load prices: %w", err)
	}
	for _, a := range assets {
		catalog.Upsert(a)
	}
	if catalog.Seed(now) {
		if err := s.SavePrices(catalog.Assets()); err != nil {
			j.Close()
			return nil, fmt.Errorf("save prices: %w", err)
		}
		audit(j, log, now, "INITIALIZED_DEFAULT_PRICES")
		log.Info("asset catalog seeded", "assets", catalog.Len())
	}

	positions, err := s.LoadPositions()
	if err != nil {
		j.Close()
		return nil, fmt.Errorf("load positions: %w", err)
	}
	b := book.New()
	b.Load(positions)

	l, err := ledger.New(s, j, log)
	if err != nil {
		j.Close()
		return nil, fmt.Errorf("load accounts: %w", err)
	}
	if cfg.Ledger.SeedAccounts && l.SeedDefaults(now) {
		log.Info("default accounts created", "accounts", l.Len())
	}

	rateStore := market.NewRateStore(rates)

	return &Bank{
		Catalog:  catalog,
		Rates:    rateStore,
		Book:     b,
		Ledger:   l,
		Journal:  j,
		Executor: trade.NewExecutor(catalog, rateStore, b, l, s, j, log),
		store:    s,
		cfg:      cfg,
		log:      log,
	}, nil
}

func openJournal(cfg *config.Config) (journal.Journal, error) {
	if cfg.Journal.Type == "sqlite" {
		return journal.NewSQLite(cfg.Journal.DBPath)
	}
	return journal.NewFile(cfg.DataDir)
}

// Tick applies one random price movement to every asset whose market is
// open, then persists the catalog.
func (bk *Bank) Tick(now time.Time) (moved int, err error) {
	moved = bk.Catalog.Tick(now)
	if err := bk.store.SavePrices(bk.Catalog.Assets()); err != nil {
		return moved, fmt.Errorf("save prices: %w", err)
	}
	audit(bk.Journal, bk.log, now, "MARKET_TICK|ALL_MARKETS")
	return moved, nil
}

// BigMove applies one amplified price movement to every open-market asset.
// Admin action.
func (bk *Bank) BigMove(now time.Time) (moved int, err error) {
	moved = bk.Catalog.BigMove(now)
	if err := bk.store.SavePrices(bk.Catalog.Assets()); err != nil {
		return moved, fmt.Errorf("save prices: %w", err)
	}
	audit(bk.Journal, bk.log, now, "ADMIN_RANDOMIZE_PRICES")
	return moved, nil
}

// SetPrice overrides an asset's price directly. Admin action.
func (bk *Bank) SetPrice(id string, price float64, now time.Time) error {
	old, err := bk.Catalog.SetPrice(id, price, now)
	if err != nil {
		return err
	}
	if err := bk.store.SavePrices(bk.Catalog.Assets()); err != nil {
		return fmt.Errorf("save prices: %w", err)
	}
	audit(bk.Journal, bk.log, now, fmt.Sprintf("ADMIN_SET_PRICE|%s|%.4f->%.4f", id, old, price))
	return nil
}

// SetFX replaces both exchange rates. Admin action.
func (bk *Bank) SetFX(inrPerUSD, inrPerEUR float64, now time.Time) error {
	if inrPerUSD <= 0 || inrPerEUR <= 0 {
		return fmt.Errorf("fx rates must be positive")
	}
	rates := market.Rates{INRPerUSD: inrPerUSD, INRPerEUR: inrPerEUR, LastUpdate: now}
	bk.Rates.Set(rates)
	if err := bk.store.SaveRates(rates); err != nil {
		return fmt.Errorf("save fx rates: %w", err)
	}
	audit(bk.Journal, bk.log, now, fmt.Sprintf("ADMIN_SET_FX|INR_USD=%.6f|INR_EUR=%.6f", inrPerUSD, inrPerEUR))
	return nil
}

// Buy executes a purchase for the account.
func (bk *Bank) Buy(account int, assetID string, qty float64, now time.Time) (trade.Fill, error) {
	return bk.Executor.Buy(account, assetID, qty, now)
}

// Sell executes a sale for the account.
func (bk *Bank) Sell(account int, assetID string, qty float64, now time.Time) (trade.Fill, error) {
	return bk.Executor.Sell(account, assetID, qty, now)
}

// Holdings values the account's positions at current prices and FX rates.
func (bk *Bank) Holdings(account int) []portfolio.Holding {
	return portfolio.Holdings(bk.Book.ForAccount(account), bk.Catalog, bk.Rates.Get())
}

// ArchiveLogs compresses and truncates the append-only journal files. Only
// the file backend has files to archive; under SQLite this is a no-op.
// Returns the paths of the archives written.
func (bk *Bank) ArchiveLogs(now time.Time) ([]string, error) {
	if bk.cfg.Journal.Type != "file" {
		return nil, nil
	}
	var archived []string
	for _, name := range []string{journal.EntriesFile, journal.AuditFile, journal.NoticesFile} {
		path, err := journal.Archive(filepath.Join(bk.cfg.DataDir, name), now)
		if err != nil {
			return archived, fmt.Errorf("archive %s: %w", name, err)
		}
		if path != "" {
			archived = append(archived, path)
		}
	}
	audit(bk.Journal, bk.log, now, "ADMIN_ARCHIVE_LOGS")
	return archived, nil
}

// Close flushes all state to disk and closes the journal.
func (bk *Bank) Close() error {
	var firstErr error
	if err := bk.store.SavePrices(bk.Catalog.Assets()); err != nil {
		firstErr = fmt.Errorf("save prices: %w", err)
	}
	if err := bk.store.SaveRates(bk.Rates.Get()); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("save fx rates: %w", err)
	}
	if err := bk.store.SavePositions(bk.Book.Positions()); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("save positions: %w", err)
	}
	if err := bk.Journal.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("close journal: %w", err)
	}
	return firstErr
}

func audit(j journal.Journal, log *slog.Logger, now time.Time, detail string) {
	if err := j.RecordAudit(journal.Event{Time: now, Detail: detail}); err != nil {
		log.Warn("audit append failed", "error", err)
	}
}
