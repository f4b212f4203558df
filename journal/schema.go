package journal

const schema = `
CREATE TABLE IF NOT EXISTS entries (
	account INTEGER NOT NULL,
	time DATETIME NOT NULL,
	type TEXT NOT NULL,
	amount REAL NOT NULL,
	balance_after REAL NOT NULL,
	note TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS audit (
	time DATETIME NOT NULL,
	detail TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS notices (
	time DATETIME NOT NULL,
	account INTEGER NOT NULL,
	message TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_entries_account ON entries(account, time);
`
