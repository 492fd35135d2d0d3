// journal/schema.go
package journal

const Schema = `
CREATE TABLE IF NOT EXISTS transactions (
	id TEXT PRIMARY KEY,
	run_id TEXT NOT NULL,
	day INTEGER NOT NULL,
	side TEXT NOT NULL,
	instrument TEXT NOT NULL,
	shares INTEGER NOT NULL,
	price REAL NOT NULL,
	total REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS snapshots (
	run_id TEXT NOT NULL,
	day INTEGER NOT NULL,
	cash REAL NOT NULL,
	stock_value REAL NOT NULL,
	total_value REAL NOT NULL,
	PRIMARY KEY (run_id, day)
);

CREATE TABLE IF NOT EXISTS prices (
	run_id TEXT NOT NULL,
	day INTEGER NOT NULL,
	instrument TEXT NOT NULL,
	price REAL NOT NULL,
	PRIMARY KEY (run_id, instrument, day)
);

CREATE INDEX IF NOT EXISTS idx_transactions_run_day ON transactions(run_id, day);
`
