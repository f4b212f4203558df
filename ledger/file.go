package ledger

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/kaiadhikary/BVDU-Bank/store"
)

// AccountsFile is the accounts record set, kept in the same data directory
// as the core catalogs.
// Record: acc_no|name|acc_type|pin|balance|loan|active|frozen|failed_attempts|upi|last_login
const AccountsFile = "accounts.txt"

func loadAccounts(dir string) ([]Account, error) {
	f, err := os.Open(filepath.Join(dir, AccountsFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", AccountsFile, err)
	}
	defer f.Close()

	var accounts []Account
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		parts := strings.Split(line, "|")
		if len(parts) != 11 {
			return accounts, nil // fail-soft: keep what parsed
		}
		number, err1 := strconv.Atoi(parts[0])
		pin, err2 := strconv.Atoi(parts[3])
		balance, err3 := strconv.ParseFloat(parts[4], 64)
		loan, err4 := strconv.ParseFloat(parts[5], 64)
		active, err5 := strconv.Atoi(parts[6])
		frozen, err6 := strconv.Atoi(parts[7])
		attempts, err7 := strconv.Atoi(parts[8])
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil || err6 != nil || err7 != nil {
			return accounts, nil
		}
		lastLogin, _ := time.ParseInLocation(store.TimeLayout, parts[10], time.Local)
		accounts = append(accounts, Account{
			Number:         number,
			Name:           parts[1],
			Type:           parts[2],
			PIN:            pin,
			Balance:        balance,
			Loan:           loan,
			Active:         active != 0,
			Frozen:         frozen != 0,
			FailedAttempts: attempts,
			UPI:            parts[9],
			LastLogin:      lastLogin,
		})
	}
	if err := sc.Err(); err != nil {
		return accounts, fmt.Errorf("read %s: %w", AccountsFile, err)
	}
	return accounts, nil
}

func saveAccounts(s *store.Store, accounts []Account) error {
	return s.WriteAtomic(AccountsFile, func(w io.Writer) error {
		for _, a := range accounts {
			_, err := fmt.Fprintf(w, "%d|%s|%s|%d|%.2f|%.2f|%d|%d|%d|%s|%s\n",
				a.Number, a.Name, a.Type, a.PIN, a.Balance, a.Loan,
				boolInt(a.Active), boolInt(a.Frozen), a.FailedAttempts,
				a.UPI, a.LastLogin.Format(store.TimeLayout))
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
