package http_handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/universitas/manuales-backend/internal/application/assistant"
	"github.com/universitas/manuales-backend/internal/application/auth"
	"github.com/universitas/manuales-backend/internal/application/forms"
	"github.com/universitas/manuales-backend/internal/domain"
	"github.com/universitas/manuales-backend/internal/infrastructure/memory"
	"github.com/universitas/manuales-backend/internal/infrastructure/security"
	"github.com/universitas/manuales-backend/internal/infrastructure/sheetrepo"
	"github.com/universitas/manuales-backend/internal/transport/http/middleware"
	"github.com/universitas/manuales-backend/internal/transport/http/response"
	"github.com/universitas/manuales-backend/internal/transport/http/router"
)

var loginHeader = []string{
	"ID", "Email", "PasswordHash", "FirstName", "LastName", "Phone",
	"Institution", "Role", "ResetToken", "ResetTokenExpiry",
	"DeletionToken", "DeletionTokenExpiry",
}

const (
	contratacionesSheet = "MANUAL CONTRATACIONES valor agregado ESCALA"
	expressSheet        = "CONCURSO ABIERTO SIMINISTRO DE BIENES APP.COD"
)

var (
	contratacionesHeader = []string{
		"Marca temporal",
		"Dirección de correo electrónico",
		"Nombre de la Institución / Ente / Órgano",
		"Acrónimo y/o siglas de la Institución / Ente / Órgano",
		"Nombre de la Unidad / Gerencia y/u Oficina responsable de la Gestión Administrativa y Financiera de la Institución / Ente / Órgano",
		"Nombre de la Unidad / Gerencia y/u Oficina responsable del Área de Sistema y Tecnología de la Institución / Ente / Órgano",
		"Nombre de la Unidad / Gerencia y/u Oficina que cumple funciones de Unidad Contratante en la Institución / Ente / Órgano",
		"Persona de contacto",
		"Teléfono",
		"Correo electrónico",
	}
	expressHeader = []string{
		"Marca temporal",
		"Indique el Nombre de la Institución / Ente / Órgano.",
		"Indique el Acrónimo y/o siglas de la Institución / Ente / Órgano.",
		"Indique el Nombre de la Unidad / Gerencia y/u Oficina responsable de la Gestión Administrativa y Financiera de la Institución / Ente / Órgano.",
		"Indique el Nombre de la Unidad / Gerencia y/u Oficina responsable del Área de Sistema y Tecnología de la Institución / Ente / Órgano.",
		"UsuarioRegistradoEmail",
		"Llenado",
	}
)

// recordingMailer captures outgoing mail so tests can fish tokens and codes
// out of the links the service built.
type recordingMailer struct {
	mu sync.Mutex

	activationLinks []string
	resetCodes      []string
	deletionLinks   []string
}

func (m *recordingMailer) SendActivationEmail(ctx context.Context, to, name, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activationLinks = append(m.activationLinks, link)
	return nil
}

func (m *recordingMailer) SendPasswordResetEmail(ctx context.Context, to, name, code, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetCodes = append(m.resetCodes, code)
	return nil
}

func (m *recordingMailer) SendDeletionEmail(ctx context.Context, to, name, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletionLinks = append(m.deletionLinks, link)
	return nil
}

func (m *recordingMailer) lastActivationToken(t *testing.T) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.activationLinks) == 0 {
		t.Fatalf("no activation mail sent")
	}
	return queryParam(t, m.activationLinks[len(m.activationLinks)-1], "token")
}

func (m *recordingMailer) lastResetCode(t *testing.T) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.resetCodes) == 0 {
		t.Fatalf("no reset mail sent")
	}
	return m.resetCodes[len(m.resetCodes)-1]
}

func (m *recordingMailer) lastDeletionToken(t *testing.T) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.deletionLinks) == 0 {
		t.Fatalf("no deletion mail sent")
	}
	return queryParam(t, m.deletionLinks[len(m.deletionLinks)-1], "token")
}

func queryParam(t *testing.T, rawURL, key string) string {
	t.Helper()
	u, err := url.Parse(rawURL)
	if err != nil {
		t.Fatalf("bad link %q: %v", rawURL, err)
	}
	v := u.Query().Get(key)
	if v == "" {
		t.Fatalf("link %q has no %q param", rawURL, key)
	}
	return v
}

type echoDetector struct{}

func (echoDetector) DetectIntent(ctx context.Context, sessionID, text string) (string, error) {
	return "eco: " + text, nil
}

type testApp struct {
	handler http.Handler
	store   *memory.SheetStore
	mailer  *recordingMailer
	authSvc *auth.Service
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	store := memory.NewSheetStore()
	store.Seed("Login", [][]string{loginHeader})
	store.Seed(contratacionesSheet, [][]string{contratacionesHeader})
	store.Seed(expressSheet, [][]string{expressHeader})

	userRepo := sheetrepo.NewUserRepo(store, "Login")
	hasher := security.NewBcryptHasher(4)
	signer := security.NewJWTSigner("test-secret", "test")
	tokens := security.NewTokenGenerator()
	mailer := &recordingMailer{}

	authSvc := auth.NewService(userRepo, hasher, signer, tokens, mailer, auth.Config{
		BaseURL: "http://api.test",
	})

	formsSvc := forms.NewService(sheetrepo.NewFormRepo(store), forms.DefaultRegistry())
	assistSvc := assistant.NewService(echoDetector{}, nil)
	t.Cleanup(assistSvc.Wait)

	authMW := middleware.Auth(signer, response.WriteError)
	optionalMW := middleware.OptionalAuth(signer, response.WriteError)
	adminMW := middleware.RequireAtLeast(domain.RoleAdmin, response.WriteError)

	handler, err := router.New(router.Deps{
		Health:         NewHealthHandler(userRepo),
		Auth:           NewAuthHandler(authSvc),
		User:           NewUserHandler(authSvc),
		Forms:          NewFormsHandler(formsSvc),
		Redirect:       NewRedirectHandler(authSvc, "manualesapp", "https://example.com/"),
		Assistant:      NewAssistantHandler(assistSvc),
		AuthMW:         authMW,
		OptionalAuthMW: optionalMW,
		AdminMW:        adminMW,
	})
	if err != nil {
		t.Fatalf("router: %v", err)
	}

	return &testApp{handler: handler, store: store, mailer: mailer, authSvc: authSvc}
}

// do performs one request against the in-memory stack. A non-empty token is
// sent as the bearer credential; a non-nil body is marshalled to JSON.
func (a *testApp) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

// decodeData unwraps the {"data": ...} envelope.
func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()

	wrapped := struct {
		Data json.RawMessage `json:"data"`
	}{}
	if err := json.Unmarshal(rec.Body.Bytes(), &wrapped); err != nil {
		t.Fatalf("decode envelope: %v; body=%s", err, rec.Body.String())
	}
	if err := json.Unmarshal(wrapped.Data, out); err != nil {
		t.Fatalf("decode data: %v; body=%s", err, rec.Body.String())
	}
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body response.ErrorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v; body=%s", err, rec.Body.String())
	}
	return body.Error.Code
}

// register runs the register + activate + login flow and returns a live
// session token.
func (a *testApp) registerActivated(t *testing.T, email, password string) string {
	t.Helper()

	rec := a.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"email":      email,
		"password":   password,
		"first_name": "Ana",
		"last_name":  "Pérez",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status %d: %s", rec.Code, rec.Body.String())
	}

	token := a.mailer.lastActivationToken(t)
	rec = a.do(t, http.MethodGet, "/api/redirect?type=verify&token="+url.QueryEscape(token), "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("activation status %d: %s", rec.Code, rec.Body.String())
	}

	rec = a.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email":    email,
		"password": password,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status %d: %s", rec.Code, rec.Body.String())
	}

	var res struct {
		Token string `json:"token"`
	}
	decodeData(t, rec, &res)
	return res.Token
}
