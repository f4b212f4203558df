// Package store persists the price catalog, FX rates and position book as
// pipe-delimited text files, one record per line. Field order and decimal
// precision are an external contract shared with other tools reading the
// same files.
//
// Loads tolerate a missing file (empty result). A malformed or truncated
// line stops the load at that point: everything parsed so far is kept and
// the tail is dropped, so a partially damaged file never aborts the process.
package store

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/kaiadhikary/BVDU-Bank/book"
	"github.com/kaiadhikary/BVDU-Bank/market"
)

// TimeLayout is the timestamp format used in every persisted record.
const TimeLayout = "2006-01-02 15:04:05"

// Default file names, matching the original data directory layout.
const (
	PricesFile    = "prices.txt"
	FXFile        = "fx_rates.txt"
	PositionsFile = "holdings.txt"
)

// Store reads and writes the three core record sets under a single data
// directory.
type Store struct {
	dir string
}

func New(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the data directory the store operates on.
func (s *Store) Dir() string { return s.dir }

func (s *Store) path(name string) string { return filepath.Join(s.dir, name) }

// WriteAtomic exposes the tmp-then-rename write used for every mutable
// catalog, for collaborators persisting their own record sets (the account
// ledger) in the same directory with the same crash safety.
func (s *Store) WriteAtomic(name string, fn func(w io.Writer) error) error {
	return writeAtomic(s.path(name), fn)
}

// readLines opens name and hands each line's fields to fn. A missing file
// yields no lines and no error. fn returning false stops the scan (fail-soft
// truncation on a malformed line).
func (s *Store) readLines(name string, fields int, fn func(parts []string) bool) error {
	f, err := os.Open(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		parts := strings.Split(line, "|")
		if len(parts) != fields {
			return nil // malformed: keep what parsed, drop the tail
		}
		if !fn(parts) {
			return nil
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	return nil
}

// LoadPrices reads the price catalog.
// Record: asset_id|name|price|volatility|market|last_update|open_hour|close_hour
func (s *Store) LoadPrices() ([]market.Asset, error) {
	var assets []market.Asset
	err := s.readLines(PricesFile, 8, func(p []string) bool {
		price, err1 := strconv.ParseFloat(p[2], 64)
		vol, err2 := strconv.ParseFloat(p[3], 64)
		openHour, err3 := strconv.Atoi(p[6])
		closeHour, err4 := strconv.Atoi(p[7])
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			return false
		}
		assets = append(assets, market.Asset{
			ID:         p[0],
			Name:       p[1],
			Price:      price,
			Volatility: vol,
			Market:     market.Market(p[4]),
			LastUpdate: parseTime(p[5]),
			OpenHour:   openHour,
			CloseHour:  closeHour,
		})
		return true
	})
	return assets, err
}

// SavePrices replaces the price catalog atomically.
func (s *Store) SavePrices(assets []market.Asset) error {
	return writeAtomic(s.path(PricesFile), func(w io.Writer) error {
		for _, a := range assets {
			_, err := fmt.Fprintf(w, "%s|%s|%s|%s|%s|%s|%d|%d\n",
				a.ID, a.Name, f4(a.Price), f6(a.Volatility),
				a.Market, formatTime(a.LastUpdate), a.OpenHour, a.CloseHour)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// LoadRates reads the FX rates. ok is false when no rate file exists yet.
// Record (single line): inr_per_usd|inr_per_eur|last_update
func (s *Store) LoadRates() (rates market.Rates, ok bool, err error) {
	err = s.readLines(FXFile, 3, func(p []string) bool {
		usd, err1 := strconv.ParseFloat(p[0], 64)
		eur, err2 := strconv.ParseFloat(p[1], 64)
		if err1 != nil || err2 != nil {
			return false
		}
		rates = market.Rates{INRPerUSD: usd, INRPerEUR: eur, LastUpdate: parseTime(p[2])}
		ok = true
		return false // single record
	})
	return rates, ok, err
}

// SaveRates replaces the FX rate file atomically.
func (s *Store) SaveRates(r market.Rates) error {
	return writeAtomic(s.path(FXFile), func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "%s|%s|%s\n",
			f6(r.INRPerUSD), f6(r.INRPerEUR), formatTime(r.LastUpdate))
		return err
	})
}

// LoadPositions reads the position book.
// Record: account_id|asset_id|asset_name|quantity|avg_price|market
func (s *Store) LoadPositions() ([]book.Position, error) {
	var positions []book.Position
	err := s.readLines(PositionsFile, 6, func(p []string) bool {
		account, err1 := strconv.Atoi(p[0])
		qty, err2 := strconv.ParseFloat(p[3], 64)
		avg, err3 := strconv.ParseFloat(p[4], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			return false
		}
		positions = append(positions, book.Position{
			Account:   account,
			AssetID:   p[1],
			AssetName: p[2],
			Qty:       qty,
			AvgPrice:  avg,
			Market:    market.Market(p[5]),
		})
		return true
	})
	return positions, err
}

// SavePositions rewrites the whole position book. The atomic helper is used
// here too so an interrupted write cannot leave a truncated file behind.
func (s *Store) SavePositions(positions []book.Position) error {
	return writeAtomic(s.path(PositionsFile), func(w io.Writer) error {
		for _, p := range positions {
			_, err := fmt.Fprintf(w, "%d|%s|%s|%s|%s|%s\n",
				p.Account, p.AssetID, p.AssetName, f6(p.Qty), f4(p.AvgPrice), p.Market)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// FieldSafe reports whether a free-text value may be stored. The format has
// no escape syntax, so an embedded delimiter would corrupt the record.
func FieldSafe(s string) bool {
	return !strings.ContainsAny(s, "|\n")
}

func f4(x float64) string { return strconv.FormatFloat(x, 'f', 4, 64) }
func f6(x float64) string { return strconv.FormatFloat(x, 'f', 6, 64) }

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "1970-01-01 00:00:00"
	}
	return t.Format(TimeLayout)
}

// parseTime is lenient: timestamps are informational, so an unreadable one
// becomes the zero time instead of truncating the load.
func parseTime(s string) time.Time {
	t, err := time.ParseInLocation(TimeLayout, s, time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}
