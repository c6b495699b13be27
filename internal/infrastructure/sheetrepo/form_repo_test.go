package sheetrepo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/universitas/manuales-backend/internal/domain"
	"github.com/universitas/manuales-backend/internal/infrastructure/memory"
)

var contactColumns = []string{"Email", "Name", "Message", "Filled", "Timestamp"}

func TestFormRepo_Upsert_AppendsWhenMissing(t *testing.T) {
	store := memory.NewSheetStore()
	store.Seed("Contact", [][]string{contactColumns})
	repo := NewFormRepo(store)

	created, err := repo.Upsert(context.Background(), "Contact", contactColumns, "Email", "a@b.com", map[string]string{
		"Name":    "Ana",
		"Message": "hola",
	})
	require.NoError(t, err)
	require.True(t, created)

	rows := store.Rows("Contact")
	require.Len(t, rows, 2)
	require.Equal(t, []string{"a@b.com", "Ana", "hola", "", ""}, rows[1])
}

func TestFormRepo_Upsert_UpdatesInPlace(t *testing.T) {
	store := memory.NewSheetStore()
	store.Seed("Contact", [][]string{
		contactColumns,
		{"a@b.com", "Ana", "hola", "TRUE", "2026-01-01T00:00:00Z"},
	})
	repo := NewFormRepo(store)

	created, err := repo.Upsert(context.Background(), "Contact", contactColumns, "Email", "a@b.com", map[string]string{
		"Message":   "actualizado",
		"Timestamp": "2026-02-01T00:00:00Z",
	})
	require.NoError(t, err)
	require.False(t, created)

	rows := store.Rows("Contact")
	require.Len(t, rows, 2) // no duplicate row
	require.Equal(t, "actualizado", rows[1][2])
	require.Equal(t, "2026-02-01T00:00:00Z", rows[1][4])
	require.Equal(t, "Ana", rows[1][1]) // untouched field survives
}

func TestFormRepo_Upsert_UnknownColumn_SchemaMismatch(t *testing.T) {
	store := memory.NewSheetStore()
	store.Seed("Contact", [][]string{
		contactColumns,
		{"a@b.com", "Ana", "hola", "", ""},
	})
	repo := NewFormRepo(store)

	_, err := repo.Upsert(context.Background(), "Contact", contactColumns, "Email", "a@b.com", map[string]string{
		"Nope": "x",
	})
	require.True(t, domain.Is(err, "schema_mismatch"), "got %v", err)
}

func TestFormRepo_Lookup_HitAndMiss(t *testing.T) {
	store := memory.NewSheetStore()
	store.Seed("Contact", [][]string{
		contactColumns,
		{"a@b.com", "Ana"},
	})
	repo := NewFormRepo(store)

	fields, ok, err := repo.Lookup(context.Background(), "Contact", contactColumns, "Email", "a@b.com")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Ana", fields["Name"])
	require.Equal(t, "", fields["Filled"]) // short row zips to empty strings

	_, ok, err = repo.Lookup(context.Background(), "Contact", contactColumns, "Email", "nobody@x.com")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestChatLog_AppendsTimestampedRow(t *testing.T) {
	store := memory.NewSheetStore()
	store.Seed("ChatLog", [][]string{{"Timestamp", "UserName", "UserMessage", "BotResponse"}})

	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	log := NewChatLog(store, "ChatLog").WithClock(func() time.Time { return fixed })

	require.NoError(t, log.Append(context.Background(), "Ana", "hola", "¡Hola!"))

	rows := store.Rows("ChatLog")
	require.Len(t, rows, 2)
	require.Equal(t, []string{"2026-03-01T12:00:00Z", "Ana", "hola", "¡Hola!"}, rows[1])
}
