package memory

import (
	"context"
	"sync"

	"github.com/universitas/manuales-backend/internal/domain"
	"github.com/universitas/manuales-backend/internal/spreadsheet"
)

// SheetStore is an in-memory spreadsheet.Store. It backs unit tests and the
// dev bootstrap mode, and mirrors the real store's quirks: 1-based rows,
// rows of uneven length, deletions that shift rows up.
type SheetStore struct {
	mu     sync.RWMutex
	sheets map[string][][]string

	// FailWith, when set, is returned by every call. Used by tests to drive
	// the store-unavailable paths.
	FailWith error
}

func NewSheetStore() *SheetStore {
	return &SheetStore{sheets: make(map[string][][]string)}
}

// Seed replaces the named sheet's contents (header row included).
func (s *SheetStore) Seed(sheet string, rows [][]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([][]string, len(rows))
	for i, r := range rows {
		cp[i] = append([]string(nil), r...)
	}
	s.sheets[sheet] = cp
}

// Rows returns a copy of the sheet for assertions.
func (s *SheetStore) Rows(sheet string) [][]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := s.sheets[sheet]
	cp := make([][]string, len(rows))
	for i, r := range rows {
		cp[i] = append([]string(nil), r...)
	}
	return cp
}

func (s *SheetStore) GetRange(ctx context.Context, sheet, ref string) ([][]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.FailWith != nil {
		return nil, s.FailWith
	}
	rows, ok := s.sheets[sheet]
	if !ok {
		return nil, domain.ErrStoreUnavailable(nil)
	}
	r, err := spreadsheet.ParseRef(ref)
	if err != nil {
		return nil, domain.ErrStoreUnavailable(err)
	}

	startRow := r.StartRow
	if startRow == 0 {
		startRow = 1
	}
	endRow := r.EndRow
	if endRow == 0 {
		endRow = len(rows)
	}

	var out [][]string
	for n := startRow; n <= endRow && n <= len(rows); n++ {
		row := rows[n-1]
		startCol := r.StartCol
		if startCol < 0 {
			startCol = 0
		}
		endCol := r.EndCol
		if endCol < 0 {
			endCol = len(row) - 1
		}
		var cells []string
		for c := startCol; c <= endCol && c < len(row); c++ {
			cells = append(cells, row[c])
		}
		out = append(out, cells)
	}
	return out, nil
}

func (s *SheetStore) AppendRow(ctx context.Context, sheet string, values []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWith != nil {
		return s.FailWith
	}
	s.sheets[sheet] = append(s.sheets[sheet], append([]string(nil), values...))
	return nil
}

func (s *SheetStore) UpdateCell(ctx context.Context, sheet, cell, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWith != nil {
		return s.FailWith
	}
	ref, err := spreadsheet.ParseRef(cell)
	if err != nil || ref.StartCol < 0 || ref.StartRow == 0 {
		return domain.ErrStoreUnavailable(err)
	}

	rows := s.sheets[sheet]
	for len(rows) < ref.StartRow {
		rows = append(rows, nil)
	}
	row := rows[ref.StartRow-1]
	for len(row) <= ref.StartCol {
		row = append(row, "")
	}
	row[ref.StartCol] = value
	rows[ref.StartRow-1] = row
	s.sheets[sheet] = rows
	return nil
}

func (s *SheetStore) DeleteRow(ctx context.Context, sheet string, row int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWith != nil {
		return s.FailWith
	}
	rows := s.sheets[sheet]
	if row < 1 || row > len(rows) {
		return domain.ErrStoreUnavailable(nil)
	}
	s.sheets[sheet] = append(rows[:row-1], rows[row:]...)
	return nil
}
