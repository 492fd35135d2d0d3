package journal

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteJournal writes one session's records into a SQLite file. Several
// sessions can share a file; each row carries the session's run ID.
type SQLiteJournal struct {
	db    *sql.DB
	runID string
}

// NewSQLite opens (or creates) the database at path. runID tags every row
// this journal records and may be empty for a read-only handle.
func NewSQLite(path, runID string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLiteJournal{db: db, runID: runID}, nil
}

func (j *SQLiteJournal) RecordTransaction(t Transaction) error {
	_, err := j.db.Exec(`
		INSERT INTO transactions
		(id, run_id, day, side, instrument, shares, price, total)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, j.runID, t.Day, t.Side.String(), t.Instrument, t.Shares, t.Price, t.Total,
	)
	return err
}

func (j *SQLiteJournal) RecordSnapshot(s Snapshot) error {
	_, err := j.db.Exec(`
		INSERT INTO snapshots
		(run_id, day, cash, stock_value, total_value)
		VALUES (?, ?, ?, ?, ?)`,
		j.runID, s.Day, s.Cash, s.StockValue, s.TotalValue,
	)
	return err
}

func (j *SQLiteJournal) RecordPrice(p PriceRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO prices
		(run_id, day, instrument, price)
		VALUES (?, ?, ?, ?)`,
		j.runID, p.Day, p.Instrument, p.Price,
	)
	return err
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
