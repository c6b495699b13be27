// Package sheetrepo implements the persistence ports on top of the spreadsheet
// record store. It owns the static field-to-column maps and translates between
// sheet rows and domain types.
package sheetrepo

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/universitas/manuales-backend/internal/domain"
	"github.com/universitas/manuales-backend/internal/spreadsheet"
)

// Column layout of the Login sheet. Order is the physical column order;
// ValidateSchema checks it against the live header row at startup so a
// renamed or reordered column fails fast instead of corrupting writes.
var loginColumns = []string{
	"ID",                  // A
	"Email",               // B
	"PasswordHash",        // C
	"FirstName",           // D
	"LastName",            // E
	"Phone",               // F
	"Institution",         // G
	"Role",                // H
	"ResetToken",          // I
	"ResetTokenExpiry",    // J
	"DeletionToken",       // K
	"DeletionTokenExpiry", // L
}

func loginColumnLetter(header string) string {
	for i, h := range loginColumns {
		if h == header {
			return spreadsheet.ColumnLetter(i)
		}
	}
	// Unreachable with a validated schema; callers pass literals from
	// loginColumns.
	return ""
}

// UserRepo persists users as rows of the Login sheet.
type UserRepo struct {
	store spreadsheet.Store
	sheet string
}

func NewUserRepo(store spreadsheet.Store, sheet string) *UserRepo {
	if sheet == "" {
		sheet = "Login"
	}
	return &UserRepo{store: store, sheet: sheet}
}

// ValidateSchema compares the live header row against the static column map.
// Run once at startup.
func (r *UserRepo) ValidateSchema(ctx context.Context) error {
	rows, err := r.store.GetRange(ctx, r.sheet, "1:1")
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return domain.ErrSchemaMismatch(r.sheet, "missing header row")
	}
	headers := rows[0]
	for i, want := range loginColumns {
		if i >= len(headers) || headers[i] != want {
			got := ""
			if i < len(headers) {
				got = headers[i]
			}
			return domain.ErrSchemaMismatch(r.sheet, "column "+spreadsheet.ColumnLetter(i)+": want "+want+", got "+got)
		}
	}
	return nil
}

// Ping reads the header row, which is the cheapest call that still exercises
// credentials, spreadsheet ID and sheet title.
func (r *UserRepo) Ping(ctx context.Context) error {
	_, err := r.store.GetRange(ctx, r.sheet, "1:1")
	return err
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.findBy(ctx, "Email", email)
}

func (r *UserRepo) FindByResetToken(ctx context.Context, tokenValue string) (domain.User, error) {
	return r.findBy(ctx, "ResetToken", tokenValue)
}

func (r *UserRepo) FindByDeletionToken(ctx context.Context, tokenValue string) (domain.User, error) {
	return r.findBy(ctx, "DeletionToken", tokenValue)
}

func (r *UserRepo) findBy(ctx context.Context, header, value string) (domain.User, error) {
	if value == "" {
		// An empty lookup value would match every blank cell in the column.
		return domain.User{}, domain.ErrUserNotFound()
	}
	rec, err := spreadsheet.FindRowByColumnValue(ctx, r.store, r.sheet, header, value)
	if err != nil {
		if domain.Is(err, "row_not_found") {
			return domain.User{}, domain.ErrUserNotFound()
		}
		return domain.User{}, err
	}
	return userFromRecord(rec), nil
}

func (r *UserRepo) Create(ctx context.Context, u domain.User) error {
	return r.store.AppendRow(ctx, r.sheet, []string{
		u.ID,
		u.Email,
		u.PasswordHash,
		u.FirstName,
		u.LastName,
		u.Phone,
		u.Institution,
		u.Role,
		u.ResetToken,
		u.ResetTokenExpiry,
		u.DeletionToken,
		u.DeletionTokenExpiry,
	})
}

func (r *UserRepo) Delete(ctx context.Context, email string) error {
	row, err := r.rowOf(ctx, email)
	if err != nil {
		return err
	}
	return r.store.DeleteRow(ctx, r.sheet, row)
}

func (r *UserRepo) AssignID(ctx context.Context, email, id string) error {
	return r.updateCells(ctx, email, map[string]string{"ID": id})
}

func (r *UserRepo) UpdatePasswordHash(ctx context.Context, email, hash string) error {
	return r.updateCells(ctx, email, map[string]string{"PasswordHash": hash})
}

func (r *UserRepo) UpdateProfile(ctx context.Context, email string, p domain.Profile) error {
	return r.updateCells(ctx, email, map[string]string{
		"FirstName":   p.FirstName,
		"LastName":    p.LastName,
		"Phone":       p.Phone,
		"Institution": p.Institution,
	})
}

func (r *UserRepo) UpdateRole(ctx context.Context, email, role string) error {
	return r.updateCells(ctx, email, map[string]string{"Role": role})
}

func (r *UserRepo) SetResetToken(ctx context.Context, email, value, expiry string) error {
	return r.updateCells(ctx, email, map[string]string{
		"ResetToken":       value,
		"ResetTokenExpiry": expiry,
	})
}

func (r *UserRepo) ClearResetToken(ctx context.Context, email string) error {
	return r.SetResetToken(ctx, email, "", "")
}

func (r *UserRepo) SetDeletionToken(ctx context.Context, email, value, expiry string) error {
	return r.updateCells(ctx, email, map[string]string{
		"DeletionToken":       value,
		"DeletionTokenExpiry": expiry,
	})
}

func (r *UserRepo) ListAll(ctx context.Context) ([]domain.UserSummary, error) {
	recs, err := spreadsheet.ListRecords(ctx, r.store, r.sheet)
	if err != nil {
		return nil, err
	}
	out := make([]domain.UserSummary, 0, len(recs))
	for _, rec := range recs {
		u := userFromRecord(rec)
		if u.Email == "" {
			continue // trailing blank rows
		}
		out = append(out, domain.UserSummary{
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Email:     u.Email,
			Role:      u.EffectiveRole(),
		})
	}
	return out, nil
}

// updateCells writes the given fields of one row concurrently and waits for
// all of them. No rollback: a partial failure leaves the row inconsistent and
// surfaces the first error.
func (r *UserRepo) updateCells(ctx context.Context, email string, fields map[string]string) error {
	row, err := r.rowOf(ctx, email)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	for header, value := range fields {
		cell := spreadsheet.Cell(loginColumnLetter(header), row)
		value := value
		g.Go(func() error {
			return r.store.UpdateCell(gctx, r.sheet, cell, value)
		})
	}
	return g.Wait()
}

func (r *UserRepo) rowOf(ctx context.Context, email string) (int, error) {
	rec, err := spreadsheet.FindRowByColumnValue(ctx, r.store, r.sheet, "Email", email)
	if err != nil {
		if domain.Is(err, "row_not_found") {
			return 0, domain.ErrUserNotFound()
		}
		return 0, err
	}
	return rec.Row, nil
}

func userFromRecord(rec spreadsheet.Record) domain.User {
	return domain.User{
		ID:                  rec.Get("ID"),
		Email:               rec.Get("Email"),
		PasswordHash:        rec.Get("PasswordHash"),
		FirstName:           rec.Get("FirstName"),
		LastName:            rec.Get("LastName"),
		Phone:               rec.Get("Phone"),
		Institution:         rec.Get("Institution"),
		Role:                rec.Get("Role"),
		ResetToken:          rec.Get("ResetToken"),
		ResetTokenExpiry:    rec.Get("ResetTokenExpiry"),
		DeletionToken:       rec.Get("DeletionToken"),
		DeletionTokenExpiry: rec.Get("DeletionTokenExpiry"),
	}
}
