package journal

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) (*SQLiteJournal, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "journal.db")

	j, err := NewSQLite(path)
	require.NoError(t, err)

	return j, path
}

func TestSQLiteSchemaCreated(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)
	assert.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table' AND name IN ('entries','audit','notices')`)
	require.NoError(t, err)
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		found[name] = true
	}
	require.NoError(t, rows.Err())

	assert.True(t, found["entries"])
	assert.True(t, found["audit"])
	assert.True(t, found["notices"])
}

func TestSQLiteRecordAndQueryEntries(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, j.RecordEntry(Entry{
			Account: 1001, Time: base.Add(time.Duration(i) * time.Minute),
			Type: "DEPOSIT", Amount: float64(i + 1), BalanceAfter: float64(i + 1), Note: "Deposit",
		}))
	}
	require.NoError(t, j.RecordEntry(Entry{
		Account: 2002, Time: base, Type: "WITHDRAW", Amount: -5, BalanceAfter: 10, Note: "Withdraw",
	}))

	got, err := j.LastEntries(1001, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)

	// Oldest first of the three most recent.
	assert.Equal(t, 3.0, got[0].Amount)
	assert.Equal(t, 5.0, got[2].Amount)
	for _, e := range got {
		assert.Equal(t, 1001, e.Account)
		assert.Equal(t, "DEPOSIT", e.Type)
	}
}

func TestSQLiteRecordAuditAndNotice(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)

	stamp := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	require.NoError(t, j.RecordAudit(Event{Time: stamp, Detail: "ADMIN_SET_FX|INR_USD=84.000000|INR_EUR=90.000000"}))
	require.NoError(t, j.RecordNotice(Notice{Time: stamp, Account: 1001, Message: "FX rates updated"}))
	require.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var detail string
	require.NoError(t, db.QueryRow(`SELECT detail FROM audit`).Scan(&detail))
	assert.Contains(t, detail, "ADMIN_SET_FX")

	var account int
	var message string
	require.NoError(t, db.QueryRow(`SELECT account, message FROM notices`).Scan(&account, &message))
	assert.Equal(t, 1001, account)
	assert.Equal(t, "FX rates updated", message)
}
