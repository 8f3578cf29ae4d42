package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/core"
)

var recurringHeader = []string{"id", "start_date", "end_date", "every", "type", "category", "amount", "description", "last_run"}

// RecurringStore persists recurring transaction templates in their own CSV
// file, next to the main ledger. The recurring worker reads templates from
// here and materializes due ones into the ledger.
type RecurringStore struct {
	path string
	mu   sync.Mutex
}

// OpenRecurring opens the template file at path, creating it if absent.
func OpenRecurring(path string) (*RecurringStore, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}
	s := &RecurringStore{path: path}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := s.writeAll(nil); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, fmt.Errorf("stat recurring file: %w", err)
	}
	return s, nil
}

// Close releases the store. The CSV-backed template file holds no open
// handles.
func (s *RecurringStore) Close() error {
	return nil
}

// Add assigns the next ID and persists the template.
func (s *RecurringStore) Add(ctx context.Context, rt core.RecurringTransaction) (core.RecurringTransaction, error) {
	if err := rt.Validate(); err != nil {
		return core.RecurringTransaction{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	templates, err := s.load()
	if err != nil {
		return core.RecurringTransaction{}, err
	}

	var max int64
	for _, t := range templates {
		if t.ID > max {
			max = t.ID
		}
	}
	rt.ID = max + 1
	templates = append(templates, rt)

	if err := s.writeAll(templates); err != nil {
		return core.RecurringTransaction{}, err
	}

	slog.InfoContext(ctx, "Recurring template saved",
		"id", rt.ID,
		"every", rt.Every.String(),
		"category", rt.Category,
		"amount_cents", rt.Amount.Cents)

	return rt, nil
}

// List returns all templates in file order.
func (s *RecurringStore) List(ctx context.Context) ([]core.RecurringTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Delete removes a template by ID, reporting whether anything was removed.
func (s *RecurringStore) Delete(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	templates, err := s.load()
	if err != nil {
		return false, err
	}

	kept := templates[:0]
	removed := false
	for _, t := range templates {
		if t.ID == id {
			removed = true
			continue
		}
		kept = append(kept, t)
	}
	if !removed {
		return false, nil
	}
	return true, s.writeAll(kept)
}

// MarkRun records the date a template last materialized a transaction.
func (s *RecurringStore) MarkRun(ctx context.Context, id int64, ran core.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	templates, err := s.load()
	if err != nil {
		return err
	}
	found := false
	for i := range templates {
		if templates[i].ID == id {
			templates[i].LastRun = ran
			found = true
			break
		}
	}
	if !found {
		return core.ErrNotFound
	}
	return s.writeAll(templates)
}

func (s *RecurringStore) load() ([]core.RecurringTransaction, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open recurring file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(recurringHeader)

	if _, err := r.Read(); err == io.EOF {
		return nil, fmt.Errorf("%w: missing header row", ErrCorruptRow)
	} else if err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrCorruptRow, err)
	}

	var templates []core.RecurringTransaction
	for line := 2; ; line++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrCorruptRow, line, err)
		}
		rt, err := decodeRecurringRow(record)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrCorruptRow, line, err)
		}
		templates = append(templates, rt)
	}
	return templates, nil
}

func (s *RecurringStore) writeAll(templates []core.RecurringTransaction) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp recurring file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	w := csv.NewWriter(tmp)
	if err := w.Write(recurringHeader); err != nil {
		tmp.Close()
		return fmt.Errorf("write header: %w", err)
	}
	for _, rt := range templates {
		row := []string{
			strconv.FormatInt(rt.ID, 10),
			rt.StartDate.String(),
			rt.EndDate.String(),
			rt.Every.String(),
			rt.Type.String(),
			rt.Category,
			rt.Amount.String(),
			rt.Description,
			rt.LastRun.String(),
		}
		if err := w.Write(row); err != nil {
			tmp.Close()
			return fmt.Errorf("write template %d: %w", rt.ID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush temp recurring file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp recurring file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace recurring file: %w", err)
	}
	return nil
}

func decodeRecurringRow(record []string) (core.RecurringTransaction, error) {
	id, err := strconv.ParseInt(record[0], 10, 64)
	if err != nil {
		return core.RecurringTransaction{}, fmt.Errorf("bad id %q", record[0])
	}
	start, err := core.ParseDate(record[1])
	if err != nil {
		return core.RecurringTransaction{}, fmt.Errorf("bad start date %q", record[1])
	}
	var end core.Date
	if record[2] != "" {
		end, err = core.ParseDate(record[2])
		if err != nil {
			return core.RecurringTransaction{}, fmt.Errorf("bad end date %q", record[2])
		}
	}
	every := core.Frequency(record[3])
	if !every.Valid() {
		return core.RecurringTransaction{}, fmt.Errorf("bad frequency %q", record[3])
	}
	typ, err := core.ParseTransactionType(record[4])
	if err != nil {
		return core.RecurringTransaction{}, fmt.Errorf("bad type %q", record[4])
	}
	cents, err := core.ParseDecimalToCents(record[6])
	if err != nil {
		return core.RecurringTransaction{}, fmt.Errorf("bad amount %q", record[6])
	}
	var lastRun core.Date
	if record[8] != "" {
		lastRun, err = core.ParseDate(record[8])
		if err != nil {
			return core.RecurringTransaction{}, fmt.Errorf("bad last run %q", record[8])
		}
	}
	return core.RecurringTransaction{
		ID:          id,
		StartDate:   start,
		EndDate:     end,
		Every:       every,
		Type:        typ,
		Category:    record[5],
		Amount:      core.Money{Cents: cents},
		Description: record[7],
		LastRun:     lastRun,
	}, nil
}
