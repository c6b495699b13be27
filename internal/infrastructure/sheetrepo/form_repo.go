package sheetrepo

import (
	"context"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/universitas/manuales-backend/internal/domain"
	"github.com/universitas/manuales-backend/internal/spreadsheet"
)

// FormRepo reads and upserts rows of arbitrary form sheets. Unlike the Login
// sheet there is no single schema here: each call carries the form's static
// column list, with column position implied by slice order.
type FormRepo struct {
	store spreadsheet.Store
}

func NewFormRepo(store spreadsheet.Store) *FormRepo {
	return &FormRepo{store: store}
}

// Lookup returns the first row whose identifier column equals value, zipped
// against the static column list. ok is false on a clean miss.
func (r *FormRepo) Lookup(ctx context.Context, sheet string, columns []string, identifier, value string) (map[string]string, bool, error) {
	row, err := r.findRow(ctx, sheet, columns, identifier, value)
	if err != nil {
		return nil, false, err
	}
	if row == 0 {
		return nil, false, nil
	}

	ref := strconv.Itoa(row)
	rows, err := r.store.GetRange(ctx, sheet, ref+":"+ref)
	if err != nil {
		return nil, false, err
	}
	var cells []string
	if len(rows) > 0 {
		cells = rows[0]
	}
	return spreadsheet.Zip(columns, cells), true, nil
}

// Upsert writes values into the row keyed by the identifier column, appending
// a fresh row when none exists. Returns whether a row was created. Updates to
// an existing row touch only the provided fields, one cell write each, issued
// concurrently.
func (r *FormRepo) Upsert(ctx context.Context, sheet string, columns []string, identifier, value string, values map[string]string) (bool, error) {
	row, err := r.findRow(ctx, sheet, columns, identifier, value)
	if err != nil {
		return false, err
	}

	if row == 0 {
		line := make([]string, len(columns))
		for i, h := range columns {
			if h == identifier {
				line[i] = value
				continue
			}
			line[i] = values[h]
		}
		if err := r.store.AppendRow(ctx, sheet, line); err != nil {
			return false, err
		}
		return true, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for header, v := range values {
		letter := columnLetterOf(columns, header)
		if letter == "" {
			return false, domain.ErrSchemaMismatch(sheet, "column "+header+" not in form definition")
		}
		cell := spreadsheet.Cell(letter, row)
		v := v
		g.Go(func() error {
			return r.store.UpdateCell(gctx, sheet, cell, v)
		})
	}
	if err := g.Wait(); err != nil {
		return false, err
	}
	return false, nil
}

// findRow scans the identifier column below the header row; 0 means no match.
func (r *FormRepo) findRow(ctx context.Context, sheet string, columns []string, identifier, value string) (int, error) {
	letter := columnLetterOf(columns, identifier)
	if letter == "" {
		return 0, domain.ErrSchemaMismatch(sheet, "identifier column "+identifier+" not in form definition")
	}

	column, err := r.store.GetRange(ctx, sheet, letter+"2:"+letter)
	if err != nil {
		return 0, err
	}
	for i, row := range column {
		cell := ""
		if len(row) > 0 {
			cell = row[0]
		}
		if cell == value {
			return i + 2, nil
		}
	}
	return 0, nil
}

func columnLetterOf(columns []string, header string) string {
	for i, h := range columns {
		if h == header {
			return spreadsheet.ColumnLetter(i)
		}
	}
	return ""
}
