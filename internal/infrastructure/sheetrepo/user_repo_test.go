package sheetrepo

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/universitas/manuales-backend/internal/domain"
	"github.com/universitas/manuales-backend/internal/infrastructure/memory"
)

func seededRepo(t *testing.T) (*UserRepo, *memory.SheetStore) {
	t.Helper()
	store := memory.NewSheetStore()
	store.Seed("Login", [][]string{append([]string(nil), loginColumns...)})
	return NewUserRepo(store, "Login"), store
}

func TestUserRepo_ValidateSchema_OK(t *testing.T) {
	repo, _ := seededRepo(t)
	require.NoError(t, repo.ValidateSchema(context.Background()))
}

func TestUserRepo_ValidateSchema_RenamedColumn(t *testing.T) {
	store := memory.NewSheetStore()
	store.Seed("Login", [][]string{{"ID", "Mail", "PasswordHash"}})
	repo := NewUserRepo(store, "Login")

	err := repo.ValidateSchema(context.Background())
	require.Error(t, err)
	require.True(t, domain.Is(err, "schema_mismatch"), "got %v", err)
}

func TestUserRepo_ValidateSchema_MissingHeaderRow(t *testing.T) {
	store := memory.NewSheetStore()
	store.Seed("Login", nil)
	repo := NewUserRepo(store, "Login")

	err := repo.ValidateSchema(context.Background())
	require.True(t, domain.Is(err, "schema_mismatch"), "got %v", err)
}

func TestUserRepo_CreateFind_RoundTrip(t *testing.T) {
	repo, _ := seededRepo(t)
	ctx := context.Background()

	in := domain.User{
		Email:        "a@b.com",
		PasswordHash: "hash",
		FirstName:    "Ana",
		LastName:     "Ruiz",
		Phone:        "600111222",
		Institution:  "UNI",
		Role:         domain.RoleFree,
		ResetToken:   "tok",
	}
	require.NoError(t, repo.Create(ctx, in))

	got, err := repo.FindByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	require.Equal(t, in, got)

	byTok, err := repo.FindByResetToken(ctx, "tok")
	require.NoError(t, err)
	require.Equal(t, "a@b.com", byTok.Email)
}

func TestUserRepo_Find_Miss_IsUserNotFound(t *testing.T) {
	repo, _ := seededRepo(t)

	_, err := repo.FindByEmail(context.Background(), "nobody@x.com")
	require.True(t, domain.Is(err, "user_not_found"), "got %v", err)
}

// A blank lookup value would match every empty cell in the column; it must
// short-circuit to not-found instead.
func TestUserRepo_Find_EmptyValue_NotFound(t *testing.T) {
	repo, _ := seededRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, domain.User{Email: "a@b.com"}))

	_, err := repo.FindByResetToken(ctx, "")
	require.True(t, domain.Is(err, "user_not_found"), "got %v", err)
	_, err = repo.FindByDeletionToken(ctx, "")
	require.True(t, domain.Is(err, "user_not_found"), "got %v", err)
}

func TestUserRepo_Find_StoreFailure_Propagates(t *testing.T) {
	repo, store := seededRepo(t)
	store.FailWith = domain.ErrStoreUnavailable(errors.New("403"))

	_, err := repo.FindByEmail(context.Background(), "a@b.com")
	require.True(t, domain.Is(err, "store_unavailable"), "got %v", err)
}

func TestUserRepo_AssignID_WritesColumnA(t *testing.T) {
	repo, store := seededRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, domain.User{Email: "a@b.com"}))

	require.NoError(t, repo.AssignID(ctx, "a@b.com", "u1"))
	require.Equal(t, "u1", store.Rows("Login")[1][0])

	u, err := repo.FindByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	require.True(t, u.Activated())
}

func TestUserRepo_TokenSlot_Lifecycle(t *testing.T) {
	repo, _ := seededRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, domain.User{Email: "a@b.com"}))

	require.NoError(t, repo.SetResetToken(ctx, "a@b.com", "111111", "2026-01-01T00:00:00Z"))
	u, err := repo.FindByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	require.Equal(t, "111111", u.ResetToken)
	require.Equal(t, "2026-01-01T00:00:00Z", u.ResetTokenExpiry)

	// a second set overwrites, never stacks
	require.NoError(t, repo.SetResetToken(ctx, "a@b.com", "222222", "2026-02-01T00:00:00Z"))
	u, err = repo.FindByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	require.Equal(t, "222222", u.ResetToken)

	require.NoError(t, repo.ClearResetToken(ctx, "a@b.com"))
	u, err = repo.FindByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	require.Empty(t, u.ResetToken)
	require.Empty(t, u.ResetTokenExpiry)
}

func TestUserRepo_UpdateProfile_WritesAllFields(t *testing.T) {
	repo, _ := seededRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, domain.User{Email: "a@b.com"}))

	require.NoError(t, repo.UpdateProfile(ctx, "a@b.com", domain.Profile{
		FirstName: "Ana", LastName: "Ruiz", Phone: "600", Institution: "UNI",
	}))
	u, err := repo.FindByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	require.Equal(t, "Ana", u.FirstName)
	require.Equal(t, "Ruiz", u.LastName)
	require.Equal(t, "600", u.Phone)
	require.Equal(t, "UNI", u.Institution)
}

func TestUserRepo_Delete_RemovesRow(t *testing.T) {
	repo, store := seededRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, domain.User{Email: "a@b.com"}))
	require.NoError(t, repo.Create(ctx, domain.User{Email: "b@b.com"}))

	require.NoError(t, repo.Delete(ctx, "a@b.com"))
	require.Len(t, store.Rows("Login"), 2) // header + one survivor

	_, err := repo.FindByEmail(ctx, "a@b.com")
	require.True(t, domain.Is(err, "user_not_found"))

	// the surviving row moved up and is still findable
	u, err := repo.FindByEmail(ctx, "b@b.com")
	require.NoError(t, err)
	require.Equal(t, "b@b.com", u.Email)
}

func TestUserRepo_ListAll_ProjectsWithoutHash(t *testing.T) {
	repo, _ := seededRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, domain.User{Email: "a@b.com", PasswordHash: "hash", FirstName: "Ana", Role: "premium"}))
	require.NoError(t, repo.Create(ctx, domain.User{Email: "b@b.com", PasswordHash: "hash"}))

	list, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "premium", list[0].Role)
	require.Equal(t, domain.RoleFree, list[1].Role) // blank role defaults
}
