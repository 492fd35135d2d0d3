package journal

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/rustyeddy/tradesim/market"
)

const transactionColumns = `id, day, side, instrument, shares, price, total`

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(s scanner) (Transaction, error) {
	var (
		rec  Transaction
		side string
	)
	if err := s.Scan(
		&rec.ID,
		&rec.Day,
		&side,
		&rec.Instrument,
		&rec.Shares,
		&rec.Price,
		&rec.Total,
	); err != nil {
		return Transaction{}, err
	}
	var err error
	if rec.Side, err = market.ParseSide(side); err != nil {
		return Transaction{}, fmt.Errorf("transaction %s: %w", rec.ID, err)
	}
	return rec, nil
}

// GetTransaction returns a single transaction by ID, from any run.
func (j *SQLiteJournal) GetTransaction(id string) (Transaction, error) {
	row := j.db.QueryRow(`
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE id = ?`, id)

	rec, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Transaction{}, fmt.Errorf("transaction %q not found", id)
		}
		return Transaction{}, err
	}
	return rec, nil
}

// ListTransactions returns every transaction of a run in execution order.
func (j *SQLiteJournal) ListTransactions(runID string) ([]Transaction, error) {
	return j.queryTransactions(`
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE run_id = ?
		ORDER BY day ASC, rowid ASC`, runID)
}

// ListTransactionsBetweenDays returns a run's transactions with day in
// [from, to].
func (j *SQLiteJournal) ListTransactionsBetweenDays(runID string, from, to int) ([]Transaction, error) {
	return j.queryTransactions(`
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE run_id = ? AND day >= ? AND day <= ?
		ORDER BY day ASC, rowid ASC`, runID, from, to)
}

func (j *SQLiteJournal) queryTransactions(query string, args ...any) ([]Transaction, error) {
	rows, err := j.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		rec, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListSnapshots returns a run's daily snapshots in day order.
func (j *SQLiteJournal) ListSnapshots(runID string) ([]Snapshot, error) {
	rows, err := j.db.Query(`
		SELECT day, cash, stock_value, total_value
		FROM snapshots
		WHERE run_id = ?
		ORDER BY day ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var s Snapshot
		if err := rows.Scan(&s.Day, &s.Cash, &s.StockValue, &s.TotalValue); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListPrices returns one instrument's price series for a run.
func (j *SQLiteJournal) ListPrices(runID, instrument string) ([]market.PricePoint, error) {
	rows, err := j.db.Query(`
		SELECT day, price
		FROM prices
		WHERE run_id = ? AND instrument = ?
		ORDER BY day ASC`, runID, instrument)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []market.PricePoint
	for rows.Next() {
		var p market.PricePoint
		if err := rows.Scan(&p.Day, &p.Price); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListInstruments returns the instruments a run recorded prices for, in the
// order they were first written.
func (j *SQLiteJournal) ListInstruments(runID string) ([]string, error) {
	rows, err := j.db.Query(`
		SELECT instrument
		FROM prices
		WHERE run_id = ?
		GROUP BY instrument
		ORDER BY MIN(rowid) ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListRuns returns every run ID that recorded a snapshot, oldest first.
// Run IDs are ULIDs so lexical order is creation order.
func (j *SQLiteJournal) ListRuns() ([]string, error) {
	rows, err := j.db.Query(`SELECT DISTINCT run_id FROM snapshots ORDER BY run_id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
