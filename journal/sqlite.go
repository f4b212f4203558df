package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteJournal stores ledger entries, audit events and notifications in a
// single SQLite database, for deployments that want queryable history
// instead of flat append logs.
type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordEntry(e Entry) error {
	_, err := j.db.Exec(`
		INSERT INTO entries (account, time, type, amount, balance_after, note)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.Account, e.Time, e.Type, e.Amount, e.BalanceAfter, e.Note,
	)
	return err
}

func (j *SQLiteJournal) RecordAudit(e Event) error {
	_, err := j.db.Exec(`INSERT INTO audit (time, detail) VALUES (?, ?)`,
		e.Time, e.Detail,
	)
	return err
}

func (j *SQLiteJournal) RecordNotice(n Notice) error {
	_, err := j.db.Exec(`INSERT INTO notices (time, account, message) VALUES (?, ?, ?)`,
		n.Time, n.Account, n.Message,
	)
	return err
}

func (j *SQLiteJournal) LastEntries(account, n int) ([]Entry, error) {
	rows, err := j.db.Query(`
		SELECT account, time, type, amount, balance_after, note
		FROM entries WHERE account = ?
		ORDER BY time DESC, rowid DESC LIMIT ?`,
		account, n,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Account, &e.Time, &e.Type, &e.Amount, &e.BalanceAfter, &e.Note); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Query returns newest first; callers expect oldest first.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
