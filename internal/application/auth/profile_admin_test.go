package auth

import (
	"context"
	"testing"
	"time"

	"github.com/universitas/manuales-backend/internal/domain"
)

func TestGetProfile_StripsSecretSlots(t *testing.T) {
	t.Parallel()

	svc, users, _, _, _, _ := newSvcForTest(t)
	users.byEmail["e@x.com"] = domain.User{
		ID: "u1", Email: "e@x.com", PasswordHash: "hash:pw",
		ResetToken: "111111", DeletionToken: "h:x",
	}

	u, err := svc.GetProfile(context.Background(), "e@x.com")
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if u.PasswordHash != "" || u.ResetToken != "" || u.DeletionToken != "" {
		t.Fatalf("secret slots must be blank, got %+v", u)
	}
}

func TestVerifyPassword_Wrong_InvalidCredentials(t *testing.T) {
	t.Parallel()

	svc, users, _, _, _, _ := newSvcForTest(t)
	users.byEmail["e@x.com"] = domain.User{ID: "u1", Email: "e@x.com", PasswordHash: "hash:pw"}

	err := svc.VerifyPassword(context.Background(), "e@x.com", "wrong")
	requireErrCode(t, err, "invalid_credentials")
}

func TestChangePassword_WrongCurrent_Rejected(t *testing.T) {
	t.Parallel()

	svc, users, _, _, _, _ := newSvcForTest(t)
	users.byEmail["e@x.com"] = domain.User{ID: "u1", Email: "e@x.com", PasswordHash: "hash:pw"}

	err := svc.ChangePassword(context.Background(), "e@x.com", "wrong", "next")
	requireErrCode(t, err, "invalid_credentials")
	if len(users.updatedPwd) != 0 {
		t.Fatalf("expected no password update, got %v", users.updatedPwd)
	}
}

func TestChangePassword_Success(t *testing.T) {
	t.Parallel()

	svc, users, _, _, _, _ := newSvcForTest(t)
	users.byEmail["e@x.com"] = domain.User{ID: "u1", Email: "e@x.com", PasswordHash: "hash:pw"}

	if err := svc.ChangePassword(context.Background(), "e@x.com", "pw", "next"); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if users.byEmail["e@x.com"].PasswordHash != "hash:next" {
		t.Fatalf("expected new hash, got %q", users.byEmail["e@x.com"].PasswordHash)
	}
}

func TestCompleteProfile_ScopedToken_UpdatesFields(t *testing.T) {
	t.Parallel()

	svc, users, _, signer, _, _ := newSvcForTest(t)
	users.byEmail["e@x.com"] = domain.User{Email: "e@x.com", PasswordHash: "hash:pw"}
	tok, _ := signer.SignScoped("e@x.com", PurposeProfileCompletion, time.Minute)

	err := svc.CompleteProfile(context.Background(), tok, domain.Profile{
		FirstName: "Ana", LastName: "Ruiz", Phone: "600", Institution: "UNI",
	})
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	u := users.byEmail["e@x.com"]
	if u.FirstName != "Ana" || u.Institution != "UNI" {
		t.Fatalf("expected profile stored, got %+v", u)
	}
}

func TestCompleteProfile_ResetScopedToken_Rejected(t *testing.T) {
	t.Parallel()

	svc, _, _, signer, _, _ := newSvcForTest(t)
	tok, _ := signer.SignScoped("e@x.com", PurposeResetPassword, time.Minute)

	err := svc.CompleteProfile(context.Background(), tok, domain.Profile{FirstName: "Ana"})
	requireErrCode(t, err, "token_scope_mismatch")
}

func TestListUsers_ReturnsSummaries(t *testing.T) {
	t.Parallel()

	svc, users, _, _, _, _ := newSvcForTest(t)
	users.byEmail["a@x.com"] = domain.User{ID: "u1", Email: "a@x.com", FirstName: "Ana", Role: "premium"}
	users.byEmail["b@x.com"] = domain.User{ID: "u2", Email: "b@x.com", FirstName: "Bea"}

	list, err := svc.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(list))
	}
	for _, s := range list {
		if s.Role == "" {
			t.Fatalf("blank role must default to free, got %+v", s)
		}
	}
}

func TestSetUserRole_InvalidRole_Rejected(t *testing.T) {
	t.Parallel()

	svc, _, _, _, _, _ := newSvcForTest(t)

	err := svc.SetUserRole(context.Background(), "a@x.com", "superuser")
	requireErrCode(t, err, "invalid_role")
}

func TestSetUserRole_UnknownUser_NotFound(t *testing.T) {
	t.Parallel()

	svc, _, _, _, _, _ := newSvcForTest(t)

	err := svc.SetUserRole(context.Background(), "a@x.com", domain.RolePremium)
	requireErrCode(t, err, "user_not_found")
}

func TestSetUserRole_Success(t *testing.T) {
	t.Parallel()

	svc, users, _, _, _, _ := newSvcForTest(t)
	users.byEmail["a@x.com"] = domain.User{ID: "u1", Email: "a@x.com", Role: "free"}

	if err := svc.SetUserRole(context.Background(), "a@x.com", domain.RoleAdmin); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if users.byEmail["a@x.com"].Role != domain.RoleAdmin {
		t.Fatalf("expected admin role, got %q", users.byEmail["a@x.com"].Role)
	}
}
