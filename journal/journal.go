// Package journal provides the append-only sinks the core emits into: the
// cash ledger entry log, the admin audit trail, and per-account
// notifications. Backends are fire-and-forget from the caller's point of
// view; a failed append is reported but never blocks a completed operation.
package journal

import "time"

// Entry is one cash ledger delta. Amount is signed: debits are negative,
// credits positive. BalanceAfter is the cash balance once the delta applied.
type Entry struct {
	Account      int
	Time         time.Time
	Type         string // DEPOSIT, WITHDRAW, BUY, SELL, TRANSFER_IN, ...
	Amount       float64
	BalanceAfter float64
	Note         string
}

// Event is one admin audit record. Detail is a pipe-joined free-form
// payload, e.g. "BUY|1001|AAPL|2.0000|31730.00INR".
type Event struct {
	Time   time.Time
	Detail string
}

// Notice is a notification pushed to one account.
type Notice struct {
	Time    time.Time
	Account int
	Message string
}

// Journal is the sink contract the trading core and the account ledger emit
// into.
type Journal interface {
	RecordEntry(Entry) error
	RecordAudit(Event) error
	RecordNotice(Notice) error

	// LastEntries returns up to n most recent ledger entries for the
	// account, oldest first. Backs the mini-statement.
	LastEntries(account, n int) ([]Entry, error)

	Close() error
}
