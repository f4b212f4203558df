// Package ledger is the account collaborator of the trading core: it owns
// customer accounts and their authoritative cash balances, authentication
// with a freeze policy, and cash movement between accounts.
package ledger

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kaiadhikary/BVDU-Bank/journal"
	"github.com/kaiadhikary/BVDU-Bank/store"
)

var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrAccountInactive   = errors.New("account inactive")
	ErrAccountFrozen     = errors.New("account frozen")
	ErrInvalidPIN        = errors.New("invalid PIN")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrSameAccount       = errors.New("cannot transfer to the same account")
	ErrUPITaken          = errors.New("UPI handle already taken")
	ErrUPINotFound       = errors.New("UPI handle not registered")
	ErrInvalidName       = errors.New("name contains reserved characters")
)

// maxPINAttempts failed logins in a row freeze the account until an admin
// unfreezes it.
const maxPINAttempts = 3

// firstAccountNumber is where numbering starts on an empty ledger.
const firstAccountNumber = 1001

// Ledger holds all customer accounts, persisting after every mutation.
type Ledger struct {
	store    *store.Store
	journal  journal.Journal
	log      *slog.Logger
	accounts map[int]*Account
	order    []int
}

// New loads the accounts file from the store's data directory. A missing
// file is an empty ledger.
func New(s *store.Store, j journal.Journal, log *slog.Logger) (*Ledger, error) {
	if log == nil {
		log = slog.Default()
	}
	accounts, err := loadAccounts(s.Dir())
	if err != nil {
		return nil, err
	}

	l := &Ledger{
		store:    s,
		journal:  j,
		log:      log,
		accounts: make(map[int]*Account, len(accounts)),
	}
	for _, a := range accounts {
		cp := a
		l.accounts[a.Number] = &cp
		l.order = append(l.order, a.Number)
	}
	return l, nil
}

// Len returns the number of accounts, active or not.
func (l *Ledger) Len() int { return len(l.order) }

// Get returns a copy of the account.
func (l *Ledger) Get(number int) (Account, bool) {
	a, ok := l.accounts[number]
	if !ok {
		return Account{}, false
	}
	return *a, true
}

// Accounts returns copies of all accounts in insertion order.
func (l *Ledger) Accounts() []Account {
	out := make([]Account, 0, len(l.order))
	for _, n := range l.order {
		out = append(out, *l.accounts[n])
	}
	return out
}

// NextNumber returns the next account number to assign: one above the
// highest in use, starting at 1001.
func (l *Ledger) NextNumber() int {
	max := firstAccountNumber - 1
	for _, n := range l.order {
		if n > max {
			max = n
		}
	}
	return max + 1
}

// Open creates a new account with an initial deposit. The UPI handle is
// normalized and must be unique; an empty handle derives one from the name,
// falling back to the account number.
func (l *Ledger) Open(name, accType string, pin int, deposit float64, upi string, now time.Time) (Account, error) {
	if !store.FieldSafe(name) || !store.FieldSafe(accType) {
		return Account{}, ErrInvalidName
	}
	if pin < 1000 || pin > 9999 {
		return Account{}, fmt.Errorf("PIN must be four digits: %w", ErrInvalidPIN)
	}
	if deposit < 0 {
		return Account{}, ErrInvalidAmount
	}
	if accType == "" {
		accType = "Savings"
	}

	number := l.NextNumber()

	handle, err := NormalizeUPI(upi)
	if upi == "" {
		// Derive from the name; account number as a last resort.
		if handle, err = NormalizeUPI(name); err != nil {
			handle = fmt.Sprintf("%d@bvdu", number)
			err = nil
		}
	}
	if err != nil {
		return Account{}, err
	}
	if l.upiTaken(handle) {
		return Account{}, fmt.Errorf("%s: %w", handle, ErrUPITaken)
	}

	a := &Account{
		Number:    number,
		Name:      name,
		Type:      accType,
		PIN:       pin,
		Balance:   deposit,
		Active:    true,
		UPI:       handle,
		LastLogin: now,
	}
	l.accounts[number] = a
	l.order = append(l.order, number)
	l.save()

	l.entry(number, now, "CREATE", deposit, deposit, fmt.Sprintf("Account created (UPI:%s)", handle))
	l.audit(now, fmt.Sprintf("CREATE_ACCOUNT|%d|%s|%s", number, name, handle))
	l.notify(number, now, "Welcome! Account created.")
	return *a, nil
}

// Authenticate verifies the PIN for an account. Each failure increments the
// attempt counter; hitting the limit freezes the account until an admin
// unfreezes it. Success resets the counter and stamps the login time.
func (l *Ledger) Authenticate(number, pin int, now time.Time) (Account, error) {
	a, err := l.usable(number)
	if err != nil {
		return Account{}, err
	}

	if a.PIN != pin {
		a.FailedAttempts++
		if a.FailedAttempts >= maxPINAttempts {
			a.Frozen = true
			l.audit(now, fmt.Sprintf("ACCOUNT_FROZEN|%d", number))
		}
		l.save()
		if a.Frozen {
			return Account{}, fmt.Errorf("account %d: %w", number, ErrAccountFrozen)
		}
		return Account{}, fmt.Errorf("account %d: %d attempts left: %w",
			number, maxPINAttempts-a.FailedAttempts, ErrInvalidPIN)
	}

	a.FailedAttempts = 0
	a.LastLogin = now
	l.save()
	return *a, nil
}

// Cash returns the account's cash balance in INR.
func (l *Ledger) Cash(number int) (float64, error) {
	a, err := l.usable(number)
	if err != nil {
		return 0, err
	}
	return a.Balance, nil
}

// Debit removes a positive amount of cash from the account. No ledger entry
// is emitted; callers moving cash for their own operation record their own.
func (l *Ledger) Debit(number int, amount float64) error {
	a, err := l.usable(number)
	if err != nil {
		return err
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if amount > a.Balance {
		return fmt.Errorf("account %d: %w", number, ErrInsufficientFunds)
	}
	a.Balance -= amount
	l.save()
	return nil
}

// Credit adds a positive amount of cash to the account.
func (l *Ledger) Credit(number int, amount float64) error {
	a, err := l.usable(number)
	if err != nil {
		return err
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}
	a.Balance += amount
	l.save()
	return nil
}

// Deposit credits cash and records the ledger entry and notification.
func (l *Ledger) Deposit(number int, amount float64, now time.Time) (balance float64, err error) {
	if err := l.Credit(number, amount); err != nil {
		return 0, err
	}
	a := l.accounts[number]
	l.entry(number, now, "DEPOSIT", amount, a.Balance, "Deposit")
	l.notify(number, now, "Deposit successful.")
	return a.Balance, nil
}

// Withdraw debits cash and records the ledger entry and notification.
func (l *Ledger) Withdraw(number int, amount float64, now time.Time) (balance float64, err error) {
	if err := l.Debit(number, amount); err != nil {
		return 0, err
	}
	a := l.accounts[number]
	l.entry(number, now, "WITHDRAW", -amount, a.Balance, "Withdraw")
	l.notify(number, now, "Withdrawal processed.")
	return a.Balance, nil
}

// Transfer moves cash between two accounts as one step: both balances
// change together after all checks, then both entries are recorded.
func (l *Ledger) Transfer(from, to int, amount float64, now time.Time) error {
	return l.transfer(from, to, amount, now, "TRANSFER_OUT", "TRANSFER_IN",
		func(src, dst *Account) (string, string) {
			return fmt.Sprintf("Transfer to %d", dst.Number), fmt.Sprintf("Transfer from %d", src.Number)
		})
}

// TransferUPI is Transfer addressed by the destination's UPI handle.
func (l *Ledger) TransferUPI(from int, toUPI string, amount float64, now time.Time) error {
	handle, err := NormalizeUPI(toUPI)
	if err != nil {
		return err
	}
	to, ok := l.byUPI(handle)
	if !ok {
		return fmt.Errorf("%s: %w", handle, ErrUPINotFound)
	}
	return l.transfer(from, to, amount, now, "UPI_OUT", "UPI_IN",
		func(src, dst *Account) (string, string) {
			return fmt.Sprintf("UPI to %s", dst.UPI), fmt.Sprintf("UPI from %s", src.UPI)
		})
}

func (l *Ledger) transfer(from, to int, amount float64, now time.Time,
	outType, inType string, notes func(src, dst *Account) (string, string)) error {

	src, err := l.usable(from)
	if err != nil {
		return err
	}
	dst, err := l.usable(to)
	if err != nil {
		return err
	}
	if from == to {
		return ErrSameAccount
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if amount > src.Balance {
		return fmt.Errorf("account %d: %w", from, ErrInsufficientFunds)
	}

	src.Balance -= amount
	dst.Balance += amount
	l.save()

	outNote, inNote := notes(src, dst)
	l.entry(from, now, outType, -amount, src.Balance, outNote)
	l.entry(to, now, inType, amount, dst.Balance, inNote)
	l.notify(to, now, "You have received a transfer.")
	return nil
}

// Unfreeze clears the freeze and the failed-attempt counter. Admin action.
func (l *Ledger) Unfreeze(number int, now time.Time) error {
	a, ok := l.accounts[number]
	if !ok {
		return fmt.Errorf("account %d: %w", number, ErrAccountNotFound)
	}
	a.Frozen = false
	a.FailedAttempts = 0
	l.save()
	l.audit(now, fmt.Sprintf("ADMIN_UNFREEZE|%d", number))
	return nil
}

// ApplyInterest credits annual interest to every active savings account.
// Admin action. Returns the number of accounts credited.
func (l *Ledger) ApplyInterest(ratePercent float64, now time.Time) (int, error) {
	if ratePercent <= 0 {
		return 0, ErrInvalidAmount
	}
	credited := 0
	for _, n := range l.order {
		a := l.accounts[n]
		if !a.Active || !strings.EqualFold(a.Type, "Savings") {
			continue
		}
		interest := a.Balance * ratePercent / 100
		a.Balance += interest
		l.entry(n, now, "INTEREST", interest, a.Balance, fmt.Sprintf("Interest applied %.2f%%", ratePercent))
		credited++
	}
	l.save()
	l.audit(now, "ADMIN_APPLY_INTEREST")
	return credited, nil
}

// MiniStatement returns the account's most recent ledger entries, oldest
// first.
func (l *Ledger) MiniStatement(number, n int) ([]journal.Entry, error) {
	return l.journal.LastEntries(number, n)
}

// SeedDefaults installs the sample accounts on an empty ledger and reports
// whether it did so.
func (l *Ledger) SeedDefaults(now time.Time) bool {
	if len(l.order) > 0 {
		return false
	}
	for _, a := range defaultAccounts {
		cp := a
		cp.LastLogin = now
		l.accounts[cp.Number] = &cp
		l.order = append(l.order, cp.Number)
	}
	l.save()
	l.audit(now, "DEFAULT_ACCOUNTS_CREATED")
	return true
}

var defaultAccounts = []Account{
	{Number: 1001, Name: "adarsh", Type: "Savings", PIN: 1234, Balance: 10000.0, Active: true, UPI: "adarsh@bvdu"},
	{Number: 1002, Name: "achyut", Type: "Savings", PIN: 2345, Balance: 8000.0, Active: true, UPI: "achyut@bvdu"},
	{Number: 1003, Name: "ayush", Type: "Current", PIN: 3456, Balance: 5000.0, Active: true, UPI: "ayush@bvdu"},
	{Number: 1004, Name: "aabir", Type: "Savings", PIN: 4567, Balance: 12000.0, Active: true, UPI: "aabir@bvdu"},
}

// usable returns the mutable record for an account that can take part in
// operations: existing, active and not frozen.
func (l *Ledger) usable(number int) (*Account, error) {
	a, ok := l.accounts[number]
	if !ok {
		return nil, fmt.Errorf("account %d: %w", number, ErrAccountNotFound)
	}
	if !a.Active {
		return nil, fmt.Errorf("account %d: %w", number, ErrAccountInactive)
	}
	if a.Frozen {
		return nil, fmt.Errorf("account %d: %w", number, ErrAccountFrozen)
	}
	return a, nil
}

func (l *Ledger) upiTaken(handle string) bool {
	_, ok := l.byUPI(handle)
	return ok
}

func (l *Ledger) byUPI(handle string) (int, bool) {
	for _, n := range l.order {
		a := l.accounts[n]
		if a.Active && strings.EqualFold(a.UPI, handle) {
			return n, true
		}
	}
	return 0, false
}

// save rewrites the accounts file. Failure is logged, not returned: the
// in-memory ledger stays authoritative until the next successful save.
func (l *Ledger) save() {
	if err := saveAccounts(l.store, l.Accounts()); err != nil {
		l.log.Warn("account save failed; in-memory ledger remains authoritative", "error", err)
	}
}

func (l *Ledger) entry(number int, now time.Time, typ string, amount, balance float64, note string) {
	if err := l.journal.RecordEntry(journal.Entry{
		Account: number, Time: now, Type: typ,
		Amount: amount, BalanceAfter: balance, Note: note,
	}); err != nil {
		l.log.Warn("ledger entry append failed", "error", err, "account", number)
	}
}

func (l *Ledger) audit(now time.Time, detail string) {
	if err := l.journal.RecordAudit(journal.Event{Time: now, Detail: detail}); err != nil {
		l.log.Warn("audit append failed", "error", err)
	}
}

func (l *Ledger) notify(number int, now time.Time, msg string) {
	if err := l.journal.RecordNotice(journal.Notice{Time: now, Account: number, Message: msg}); err != nil {
		l.log.Warn("notification append failed", "error", err, "account", number)
	}
}
