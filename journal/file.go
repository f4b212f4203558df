package journal

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/kaiadhikary/BVDU-Bank/store"
)

// Default sink file names, matching the original data directory layout.
const (
	EntriesFile = "transactions.txt"
	AuditFile   = "admin_audit.txt"
	NoticesFile = "notifications.txt"
)

// FileJournal appends pipe-delimited lines to three text files.
// Line formats:
//
//	transactions:  acc_no|timestamp|type|amount|balance_after|note
//	audit:         timestamp|detail
//	notifications: timestamp|acc_no|message
type FileJournal struct {
	dir     string
	entries *os.File
	audit   *os.File
	notices *os.File
}

func NewFile(dir string) (*FileJournal, error) {
	j := &FileJournal{dir: dir}

	var err error
	if j.entries, err = openAppend(filepath.Join(dir, EntriesFile)); err != nil {
		return nil, err
	}
	if j.audit, err = openAppend(filepath.Join(dir, AuditFile)); err != nil {
		j.entries.Close()
		return nil, err
	}
	if j.notices, err = openAppend(filepath.Join(dir, NoticesFile)); err != nil {
		j.entries.Close()
		j.audit.Close()
		return nil, err
	}
	return j, nil
}

func openAppend(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}

func (j *FileJournal) RecordEntry(e Entry) error {
	_, err := fmt.Fprintf(j.entries, "%d|%s|%s|%.2f|%.2f|%s\n",
		e.Account, e.Time.Format(store.TimeLayout), e.Type, e.Amount, e.BalanceAfter, e.Note)
	return err
}

func (j *FileJournal) RecordAudit(e Event) error {
	_, err := fmt.Fprintf(j.audit, "%s|%s\n", e.Time.Format(store.TimeLayout), e.Detail)
	return err
}

func (j *FileJournal) RecordNotice(n Notice) error {
	_, err := fmt.Fprintf(j.notices, "%s|%d|%s\n",
		n.Time.Format(store.TimeLayout), n.Account, n.Message)
	return err
}

// LastEntries scans the transactions file for the account's most recent n
// entries, oldest first. The file is re-read on every call so entries
// appended by this process are always visible.
func (j *FileJournal) LastEntries(account, n int) ([]Entry, error) {
	f, err := os.Open(filepath.Join(j.dir, EntriesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", EntriesFile, err)
	}
	defer f.Close()

	var tail []Entry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		e, ok := parseEntry(sc.Text())
		if !ok || e.Account != account {
			continue
		}
		tail = append(tail, e)
		if len(tail) > n {
			tail = tail[1:]
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", EntriesFile, err)
	}
	return tail, nil
}

func parseEntry(line string) (Entry, bool) {
	parts := strings.SplitN(line, "|", 6)
	if len(parts) != 6 {
		return Entry{}, false
	}
	account, err1 := strconv.Atoi(parts[0])
	amount, err2 := strconv.ParseFloat(parts[3], 64)
	balance, err3 := strconv.ParseFloat(parts[4], 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return Entry{}, false
	}
	ts, _ := time.ParseInLocation(store.TimeLayout, parts[1], time.Local)
	return Entry{
		Account:      account,
		Time:         ts,
		Type:         parts[2],
		Amount:       amount,
		BalanceAfter: balance,
		Note:         parts[5],
	}, true
}

func (j *FileJournal) Close() error {
	if err := j.entries.Close(); err != nil {
		return err
	}
	if err := j.audit.Close(); err != nil {
		return err
	}
	return j.notices.Close()
}
