package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/universitas/manuales-backend/internal/domain"
)

/*
Fakes for ports
*/

type fakeUserStore struct {
	mu sync.Mutex

	byEmail map[string]domain.User

	// injected errors (if set, method returns error)
	findByEmailErr    error
	findByResetErr    error
	findByDeletionErr error
	createErr         error
	deleteErr         error
	assignIDErr       error
	updatePwdErr      error
	updateProfileErr  error
	updateRoleErr     error
	setResetErr       error
	clearResetErr     error
	setDeletionErr    error
	listAllErr        error

	// record calls
	deleted     []string
	clearedRst  []string
	assignedIDs []struct{ email, id string }
	updatedPwd  []struct{ email, hash string }
	setRoles    []struct{ email, role string }
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byEmail: map[string]domain.User{}}
}

func (f *fakeUserStore) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.findByEmailErr != nil {
		return domain.User{}, f.findByEmailErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (f *fakeUserStore) FindByResetToken(ctx context.Context, tokenValue string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.findByResetErr != nil {
		return domain.User{}, f.findByResetErr
	}
	for _, u := range f.byEmail {
		if u.ResetToken != "" && u.ResetToken == tokenValue {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound()
}

func (f *fakeUserStore) FindByDeletionToken(ctx context.Context, tokenValue string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.findByDeletionErr != nil {
		return domain.User{}, f.findByDeletionErr
	}
	for _, u := range f.byEmail {
		if u.DeletionToken != "" && u.DeletionToken == tokenValue {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound()
}

func (f *fakeUserStore) Create(ctx context.Context, u domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return f.createErr
	}
	f.byEmail[u.Email] = u
	return nil
}

func (f *fakeUserStore) Delete(ctx context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.byEmail, email)
	f.deleted = append(f.deleted, email)
	return nil
}

func (f *fakeUserStore) AssignID(ctx context.Context, email, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.assignIDErr != nil {
		return f.assignIDErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return errors.New("not found")
	}
	u.ID = id
	f.byEmail[email] = u
	f.assignedIDs = append(f.assignedIDs, struct{ email, id string }{email, id})
	return nil
}

func (f *fakeUserStore) UpdatePasswordHash(ctx context.Context, email, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.updatePwdErr != nil {
		return f.updatePwdErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return errors.New("not found")
	}
	u.PasswordHash = hash
	f.byEmail[email] = u
	f.updatedPwd = append(f.updatedPwd, struct{ email, hash string }{email, hash})
	return nil
}

func (f *fakeUserStore) UpdateProfile(ctx context.Context, email string, p domain.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.updateProfileErr != nil {
		return f.updateProfileErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return errors.New("not found")
	}
	u.FirstName = p.FirstName
	u.LastName = p.LastName
	u.Phone = p.Phone
	u.Institution = p.Institution
	f.byEmail[email] = u
	return nil
}

func (f *fakeUserStore) UpdateRole(ctx context.Context, email, role string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.updateRoleErr != nil {
		return f.updateRoleErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return errors.New("not found")
	}
	u.Role = role
	f.byEmail[email] = u
	f.setRoles = append(f.setRoles, struct{ email, role string }{email, role})
	return nil
}

func (f *fakeUserStore) SetResetToken(ctx context.Context, email, value, expiry string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.setResetErr != nil {
		return f.setResetErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return errors.New("not found")
	}
	u.ResetToken = value
	u.ResetTokenExpiry = expiry
	f.byEmail[email] = u
	return nil
}

func (f *fakeUserStore) ClearResetToken(ctx context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.clearResetErr != nil {
		return f.clearResetErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return errors.New("not found")
	}
	u.ResetToken = ""
	u.ResetTokenExpiry = ""
	f.byEmail[email] = u
	f.clearedRst = append(f.clearedRst, email)
	return nil
}

func (f *fakeUserStore) SetDeletionToken(ctx context.Context, email, value, expiry string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.setDeletionErr != nil {
		return f.setDeletionErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return errors.New("not found")
	}
	u.DeletionToken = value
	u.DeletionTokenExpiry = expiry
	f.byEmail[email] = u
	return nil
}

func (f *fakeUserStore) ListAll(ctx context.Context) ([]domain.UserSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.listAllErr != nil {
		return nil, f.listAllErr
	}
	out := make([]domain.UserSummary, 0, len(f.byEmail))
	for _, u := range f.byEmail {
		out = append(out, domain.UserSummary{
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Email:     u.Email,
			Role:      u.EffectiveRole(),
		})
	}
	return out, nil
}

type fakeHasher struct {
	hashFn    func(pw string) (string, error)
	compareFn func(hash, pw string) error
}

func (h *fakeHasher) Hash(password string) (string, error) {
	if h.hashFn != nil {
		return h.hashFn(password)
	}
	return "hash:" + password, nil
}

func (h *fakeHasher) Compare(hash string, password string) error {
	if h.compareFn != nil {
		return h.compareFn(hash, password)
	}
	if hash == "hash:"+password {
		return nil
	}
	return errors.New("mismatch")
}

type fakeSigner struct {
	mu sync.Mutex

	sessions map[string]SessionClaims // token -> claims
	scoped   map[string]struct{ email, purpose string }

	signSessionErr   error
	verifySessionErr error
	signScopedErr    error
	verifyScopedErr  error
}

func newFakeSigner() *fakeSigner {
	return &fakeSigner{
		sessions: map[string]SessionClaims{},
		scoped:   map[string]struct{ email, purpose string }{},
	}
}

func (s *fakeSigner) SignSession(userID, email, role string, ttl time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.signSessionErr != nil {
		return "", s.signSessionErr
	}
	tok := fmt.Sprintf("jwt(%s,%s,%s)", userID, email, role)
	s.sessions[tok] = SessionClaims{UserID: userID, Email: email, Role: role, Exp: time.Now().Add(ttl)}
	return tok, nil
}

func (s *fakeSigner) VerifySession(token string) (SessionClaims, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.verifySessionErr != nil {
		return SessionClaims{}, s.verifySessionErr
	}
	c, ok := s.sessions[token]
	if !ok {
		return SessionClaims{}, domain.ErrTokenInvalid()
	}
	return c, nil
}

func (s *fakeSigner) SignScoped(email, purpose string, ttl time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.signScopedErr != nil {
		return "", s.signScopedErr
	}
	tok := fmt.Sprintf("scoped(%s,%s)", email, purpose)
	s.scoped[tok] = struct{ email, purpose string }{email, purpose}
	return tok, nil
}

func (s *fakeSigner) VerifyScoped(token, purpose string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.verifyScopedErr != nil {
		return "", s.verifyScopedErr
	}
	e, ok := s.scoped[token]
	if !ok {
		return "", domain.ErrTokenInvalid()
	}
	if e.purpose != purpose {
		return "", domain.ErrTokenScopeMismatch(purpose)
	}
	return e.email, nil
}

type fakeTokenGen struct {
	mu  sync.Mutex
	seq int

	opaqueErr error
	otpErr    error
	otpValue  string
}

func (g *fakeTokenGen) Opaque() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.opaqueErr != nil {
		return "", g.opaqueErr
	}
	g.seq++
	return fmt.Sprintf("opaque-%d", g.seq), nil
}

func (g *fakeTokenGen) Hash(raw string) string { return "h:" + raw }

func (g *fakeTokenGen) OTP() (string, error) {
	if g.otpErr != nil {
		return "", g.otpErr
	}
	if g.otpValue != "" {
		return g.otpValue, nil
	}
	return "123456", nil
}

type sentMail struct {
	kind string // activation | reset | deletion
	to   string
	name string
	code string
	link string
}

type fakeMailer struct {
	mu sync.Mutex

	activationErr error
	resetErr      error
	deletionErr   error

	sent []sentMail
}

func (m *fakeMailer) SendActivationEmail(ctx context.Context, to, name, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.activationErr != nil {
		return m.activationErr
	}
	m.sent = append(m.sent, sentMail{kind: "activation", to: to, name: name, link: link})
	return nil
}

func (m *fakeMailer) SendPasswordResetEmail(ctx context.Context, to, name, code, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.resetErr != nil {
		return m.resetErr
	}
	m.sent = append(m.sent, sentMail{kind: "reset", to: to, name: name, code: code, link: link})
	return nil
}

func (m *fakeMailer) SendDeletionEmail(ctx context.Context, to, name, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.deletionErr != nil {
		return m.deletionErr
	}
	m.sent = append(m.sent, sentMail{kind: "deletion", to: to, name: name, link: link})
	return nil
}

func (m *fakeMailer) lastSent(t *testing.T) sentMail {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		t.Fatalf("expected a mail to be sent, got none")
	}
	return m.sent[len(m.sent)-1]
}

/*
Service factory for tests
*/

func newSvcForTest(t *testing.T) (*Service, *fakeUserStore, *fakeHasher, *fakeSigner, *fakeTokenGen, *fakeMailer) {
	t.Helper()

	users := newFakeUserStore()
	hasher := &fakeHasher{}
	signer := newFakeSigner()
	tokens := &fakeTokenGen{}
	mailer := &fakeMailer{}

	cfg := Config{
		SessionTokenTTL:    time.Hour,
		ScopedTokenTTL:     10 * time.Minute,
		ProfileTokenTTL:    15 * time.Minute,
		ActivationTokenTTL: 24 * time.Hour,
		ResetCodeTTL:       10 * time.Minute,
		DeletionTokenTTL:   time.Hour,
		BaseURL:            "https://be.example.com",
	}

	svc := NewService(users, hasher, signer, tokens, mailer, cfg)
	if svc == nil {
		t.Fatalf("svc is nil")
	}
	return svc, users, hasher, signer, tokens, mailer
}

// stamp builds an RFC3339 expiry relative to now; negative offsets are in
// the past.
func stamp(offset time.Duration) string {
	return time.Now().Add(offset).UTC().Format(time.RFC3339)
}
