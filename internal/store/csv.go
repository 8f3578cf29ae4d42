package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"

	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/core"
)

// csvHeader is the fixed column set of the ledger file. Order matters: it is
// part of the on-disk format and must stay compatible with existing files.
var csvHeader = []string{"id", "date", "type", "category", "amount", "description"}

// CSVStore is the flat-file ledger backend. Every operation reloads the file;
// nothing is cached between calls.
type CSVStore struct {
	path string
	mu   sync.Mutex
}

// OpenCSV opens the ledger at path, creating the file with its header row if
// it does not exist yet. Opening an already-initialized file is a no-op.
func OpenCSV(path string) (*CSVStore, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	s := &CSVStore{path: path}
	if err := s.ensureFile(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the location of the backing file.
func (s *CSVStore) Path() string {
	return s.path
}

func (s *CSVStore) ensureFile() error {
	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat ledger file: %w", err)
	}
	return s.writeAll(nil)
}

// Add implements Store.
func (s *CSVStore) Add(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	txs, err := s.load()
	if err != nil {
		return core.Transaction{}, err
	}

	tx.ID = nextID(txs)

	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("open ledger for append: %w", err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(encodeRow(tx)); err != nil {
		f.Close()
		return core.Transaction{}, fmt.Errorf("append transaction: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return core.Transaction{}, fmt.Errorf("flush ledger: %w", err)
	}
	if err := f.Close(); err != nil {
		return core.Transaction{}, fmt.Errorf("close ledger: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to ledger",
		"id", tx.ID,
		"date", tx.Date.String(),
		"type", tx.Type.String(),
		"category", tx.Category,
		"amount_cents", tx.Amount.Cents)

	return tx, nil
}

// List implements Store.
func (s *CSVStore) List(ctx context.Context, f Filter) ([]core.Transaction, error) {
	s.mu.Lock()
	txs, err := s.load()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	out := make([]core.Transaction, 0, len(txs))
	for _, tx := range txs {
		if f.Match(tx) {
			out = append(out, tx)
		}
	}
	if f.SortByDateDesc {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Date.After(out[j].Date.Time)
		})
	}
	return out, nil
}

// Delete implements Store. The whole file is rewritten when a row is removed.
func (s *CSVStore) Delete(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	txs, err := s.load()
	if err != nil {
		return false, err
	}

	kept := txs[:0]
	removed := false
	for _, tx := range txs {
		if tx.ID == id {
			removed = true
			continue
		}
		kept = append(kept, tx)
	}
	if !removed {
		return false, nil
	}

	if err := s.writeAll(kept); err != nil {
		return false, err
	}

	slog.InfoContext(ctx, "Transaction deleted from ledger", "id", id, "remaining", len(kept))
	return true, nil
}

// Balance implements Store.
func (s *CSVStore) Balance(ctx context.Context) (core.Money, error) {
	s.mu.Lock()
	txs, err := s.load()
	s.mu.Unlock()
	if err != nil {
		return core.Money{}, err
	}

	var cents int64
	for _, tx := range txs {
		cents += tx.Signed()
	}
	return core.Money{Cents: cents}, nil
}

// Close implements Store. The CSV backend holds no open handles.
func (s *CSVStore) Close() error {
	return nil
}

// load reads the full ledger. Decoding is fail-fast: any malformed row aborts
// the load with ErrCorruptRow.
func (s *CSVStore) load() ([]core.Transaction, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(csvHeader)

	header, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: missing header row", ErrCorruptRow)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrCorruptRow, err)
	}
	for i, col := range csvHeader {
		if header[i] != col {
			return nil, fmt.Errorf("%w: unexpected header %v", ErrCorruptRow, header)
		}
	}

	var txs []core.Transaction
	for line := 2; ; line++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrCorruptRow, line, err)
		}
		tx, err := decodeRow(record)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrCorruptRow, line, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// writeAll rewrites the ledger atomically: write to a temp file in the same
// directory, then rename over the original.
func (s *CSVStore) writeAll(txs []core.Transaction) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp ledger: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	w := csv.NewWriter(tmp)
	if err := w.Write(csvHeader); err != nil {
		tmp.Close()
		return fmt.Errorf("write header: %w", err)
	}
	for _, tx := range txs {
		if err := w.Write(encodeRow(tx)); err != nil {
			tmp.Close()
			return fmt.Errorf("write transaction %d: %w", tx.ID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush temp ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp ledger: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace ledger: %w", err)
	}
	return nil
}

func nextID(txs []core.Transaction) int64 {
	var max int64
	for _, tx := range txs {
		if tx.ID > max {
			max = tx.ID
		}
	}
	return max + 1
}

func encodeRow(tx core.Transaction) []string {
	return []string{
		strconv.FormatInt(tx.ID, 10),
		tx.Date.String(),
		tx.Type.String(),
		tx.Category,
		tx.Amount.String(),
		tx.Description,
	}
}

func decodeRow(record []string) (core.Transaction, error) {
	id, err := strconv.ParseInt(record[0], 10, 64)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("bad id %q", record[0])
	}
	date, err := core.ParseDate(record[1])
	if err != nil {
		return core.Transaction{}, fmt.Errorf("bad date %q", record[1])
	}
	typ, err := core.ParseTransactionType(record[2])
	if err != nil {
		return core.Transaction{}, fmt.Errorf("bad type %q", record[2])
	}
	cents, err := core.ParseDecimalToCents(record[4])
	if err != nil {
		return core.Transaction{}, fmt.Errorf("bad amount %q", record[4])
	}
	return core.Transaction{
		ID:          id,
		Date:        date,
		Type:        typ,
		Category:    record[3],
		Amount:      core.Money{Cents: cents},
		Description: record[5],
	}, nil
}
