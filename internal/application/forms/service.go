package forms

import (
	"context"
	"time"

	"github.com/universitas/manuales-backend/internal/domain"
)

/*
SheetUpserter
-------------
Persistence port over form sheets; the column list travels with each call
because every form has its own schema.
*/
type SheetUpserter interface {
	Lookup(ctx context.Context, sheet string, columns []string, identifier, value string) (map[string]string, bool, error)
	Upsert(ctx context.Context, sheet string, columns []string, identifier, value string, values map[string]string) (created bool, err error)
}

type Service struct {
	repo SheetUpserter
	reg  *Registry

	now func() time.Time
}

func NewService(repo SheetUpserter, reg *Registry) *Service {
	return &Service{repo: repo, reg: reg, now: time.Now}
}

// WithClock overrides the timestamp source; used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

// Definition exposes registry lookups so transport can tell authenticated
// forms from public ones.
func (s *Service) Definition(formID string) (Definition, error) {
	return s.reg.Get(formID)
}

type SubmitResult struct {
	Created bool
}

// Submit upserts one submission keyed by the form's identifier column.
// Control columns (identifier, filled flag) cannot be set through values;
// the timestamp column is refreshed on every submit.
func (s *Service) Submit(ctx context.Context, formID, identifierValue string, values map[string]string) (SubmitResult, error) {
	def, err := s.reg.Get(formID)
	if err != nil {
		return SubmitResult{}, err
	}
	if identifierValue == "" {
		return SubmitResult{}, domain.ErrMissingField(def.Identifier)
	}

	row := make(map[string]string, len(values)+2)
	for header, v := range values {
		if !def.hasColumn(header) {
			return SubmitResult{}, domain.ErrInvalidField(header, "unknown form field")
		}
		if def.controlled(header) {
			return SubmitResult{}, domain.ErrInvalidField(header, "field is set by the server")
		}
		row[header] = v
	}
	if def.FilledColumn != "" {
		row[def.FilledColumn] = "TRUE"
	}
	if def.TimestampColumn != "" {
		row[def.TimestampColumn] = s.now().UTC().Format(time.RFC3339)
	}

	created, err := s.repo.Upsert(ctx, def.Sheet, def.Columns, def.Identifier, identifierValue, row)
	if err != nil {
		return SubmitResult{}, err
	}
	return SubmitResult{Created: created}, nil
}

type Status struct {
	Exists bool
	Filled bool
}

// Status reports whether a submission exists for the identifier, and whether
// its filled flag is set (always mirrors Exists for forms without one).
func (s *Service) Status(ctx context.Context, formID, identifierValue string) (Status, error) {
	def, err := s.reg.Get(formID)
	if err != nil {
		return Status{}, err
	}
	if identifierValue == "" {
		return Status{}, domain.ErrMissingField(def.Identifier)
	}

	fields, ok, err := s.repo.Lookup(ctx, def.Sheet, def.Columns, def.Identifier, identifierValue)
	if err != nil {
		return Status{}, err
	}
	if !ok {
		return Status{}, nil
	}
	st := Status{Exists: true, Filled: true}
	if def.FilledColumn != "" {
		st.Filled = fields[def.FilledColumn] == "TRUE"
	}
	return st, nil
}
