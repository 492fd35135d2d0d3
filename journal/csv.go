package journal

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// CSVJournal streams the three export tables to disk as records arrive.
// Price rows are written once every instrument has reported for a day, or
// when the next day starts, with N/A for any instrument that did not report.
type CSVJournal struct {
	txs, snaps, prices *csv.Writer
	tf, sf, pf         *os.File

	names   []string
	index   map[string]int
	day     int
	pending []string
	filled  int
}

func NewCSV(transactionsPath, portfolioPath, pricesPath string, instruments []string) (*CSVJournal, error) {
	j := &CSVJournal{
		names: append([]string(nil), instruments...),
		index: make(map[string]int, len(instruments)),
		day:   -1,
	}
	for i, n := range instruments {
		j.index[n] = i
	}

	var err error
	if j.tf, err = os.Create(transactionsPath); err != nil {
		return nil, err
	}
	if j.sf, err = os.Create(portfolioPath); err != nil {
		j.tf.Close()
		return nil, err
	}
	if j.pf, err = os.Create(pricesPath); err != nil {
		j.tf.Close()
		j.sf.Close()
		return nil, err
	}

	j.txs = csv.NewWriter(j.tf)
	j.snaps = csv.NewWriter(j.sf)
	j.prices = csv.NewWriter(j.pf)

	for _, h := range []struct {
		w   *csv.Writer
		row []string
	}{
		{j.txs, TransactionHeader},
		{j.snaps, PortfolioHeader},
		{j.prices, PriceHeader(instruments)},
	} {
		if err := h.w.Write(h.row); err != nil {
			j.closeFiles()
			return nil, err
		}
		h.w.Flush()
		if err := h.w.Error(); err != nil {
			j.closeFiles()
			return nil, err
		}
	}
	return j, nil
}

func (j *CSVJournal) RecordTransaction(t Transaction) error {
	if err := j.txs.Write(transactionRow(t)); err != nil {
		return err
	}
	j.txs.Flush()
	return j.txs.Error()
}

func (j *CSVJournal) RecordSnapshot(s Snapshot) error {
	if err := j.snaps.Write(snapshotRow(s)); err != nil {
		return err
	}
	j.snaps.Flush()
	return j.snaps.Error()
}

func (j *CSVJournal) RecordPrice(p PriceRecord) error {
	i, ok := j.index[p.Instrument]
	if !ok {
		return fmt.Errorf("price for %q: %w", p.Instrument, ErrUnknownInstrument)
	}
	if p.Day < j.day || (p.Day == j.day && j.pending == nil) {
		return fmt.Errorf("price for day %d after day %d: %w", p.Day, j.day, ErrOutOfOrder)
	}
	if p.Day > j.day {
		if err := j.flushPrices(); err != nil {
			return err
		}
		j.startDay(p.Day)
	}
	if j.pending[i+1] == NotAvailable {
		j.filled++
	}
	j.pending[i+1] = money(p.Price)
	if j.filled == len(j.names) {
		return j.flushPrices()
	}
	return nil
}

func (j *CSVJournal) startDay(day int) {
	j.day = day
	j.pending = make([]string, len(j.names)+1)
	j.pending[0] = strconv.Itoa(day)
	for i := range j.names {
		j.pending[i+1] = NotAvailable
	}
	j.filled = 0
}

func (j *CSVJournal) flushPrices() error {
	if j.pending == nil {
		return nil
	}
	if err := j.prices.Write(j.pending); err != nil {
		return err
	}
	j.pending = nil
	j.prices.Flush()
	return j.prices.Error()
}

func (j *CSVJournal) Close() error {
	if err := j.flushPrices(); err != nil {
		j.closeFiles()
		return err
	}
	for _, w := range []*csv.Writer{j.txs, j.snaps, j.prices} {
		w.Flush()
		if err := w.Error(); err != nil {
			j.closeFiles()
			return err
		}
	}
	return j.closeFiles()
}

func (j *CSVJournal) closeFiles() error {
	var first error
	for _, f := range []*os.File{j.tf, j.sf, j.pf} {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
