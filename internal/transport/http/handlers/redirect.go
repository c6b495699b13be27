package http_handlers

import (
	"fmt"
	"html/template"
	"net/http"
	"net/url"

	"github.com/universitas/manuales-backend/internal/application/auth"
	"github.com/universitas/manuales-backend/internal/logger"
)

// RedirectHandler turns email links opened in a browser into app deep links.
// Mail clients cannot open custom schemes directly, so every link in an email
// points here and this handler hands off to the app.
type RedirectHandler struct {
	svc         *auth.Service
	appScheme   string
	fallbackURL string
}

func NewRedirectHandler(svc *auth.Service, appScheme, fallbackURL string) *RedirectHandler {
	return &RedirectHandler{
		svc:         svc,
		appScheme:   appScheme,
		fallbackURL: fallbackURL,
	}
}

func (h *RedirectHandler) deepLink(path string, params url.Values) template.URL {
	link := fmt.Sprintf("%s://%s", h.appScheme, path)
	if len(params) > 0 {
		link += "?" + params.Encode()
	}
	return template.URL(link)
}

// Redirect handles GET /api/redirect. Two shapes arrive here:
//
//	?type=verify&token=...   activation links; the token is consumed
//	?otp=...&email=...       password reset links; pure trampoline
func (h *RedirectHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	switch {
	case q.Get("type") == "verify":
		h.verify(w, r, q.Get("token"))
	case q.Get("otp") != "" && q.Get("email") != "":
		h.resetTrampoline(w, q.Get("otp"), q.Get("email"))
	default:
		writePage(w, http.StatusBadRequest, page{
			Title:    "Solicitud no válida",
			Heading:  "Solicitud no válida",
			Body:     "El enlace que has abierto no es válido.",
			Link:     template.URL(h.fallbackURL),
			LinkText: "Ir al sitio web",
		})
	}
}

func (h *RedirectHandler) verify(w http.ResponseWriter, r *http.Request, token string) {
	outcome, u, err := h.svc.ActivateAccount(r.Context(), token)
	if err != nil {
		writePage(w, http.StatusGone, page{
			Title:    "Enlace caducado",
			Heading:  "Enlace no válido o caducado",
			Body:     "Este enlace de verificación ya no es válido. Regístrate de nuevo para recibir uno nuevo.",
			Link:     h.deepLink("register", nil),
			LinkText: "Volver a la aplicación",
		})
		return
	}

	if outcome == auth.ActivationAlreadyDone {
		writePage(w, http.StatusOK, page{
			Title:    "Cuenta ya verificada",
			Heading:  "Tu cuenta ya estaba verificada",
			Body:     "Puedes iniciar sesión con normalidad.",
			Link:     h.deepLink("login", url.Values{"verified": {"true"}}),
			LinkText: "Iniciar sesión",
		})
		return
	}

	log := logger.WithCtx(r.Context())
	log.Info().
		Str("email", u.Email).
		Msg("account_activated")

	writePage(w, http.StatusOK, page{
		Title:    "Cuenta verificada",
		Heading:  "¡Cuenta verificada!",
		Body:     "Tu cuenta se ha activado correctamente. Ya puedes iniciar sesión en la aplicación.",
		Link:     h.deepLink("login", url.Values{"verified": {"true"}}),
		LinkText: "Iniciar sesión",
	})
}

// resetTrampoline never touches the store: the OTP is validated later by the
// verify-otp endpoint, so an attacker gains nothing by fetching this page.
func (h *RedirectHandler) resetTrampoline(w http.ResponseWriter, otp, email string) {
	link := h.deepLink("forgot-password", url.Values{
		"otp":   {otp},
		"email": {email},
	})

	writePage(w, http.StatusOK, page{
		Title:        "Restablecer contraseña",
		Heading:      "Abriendo la aplicación…",
		Body:         "Si la aplicación no se abre automáticamente, pulsa el botón.",
		Link:         link,
		LinkText:     "Abrir la aplicación",
		AutoRedirect: true,
	})
}
