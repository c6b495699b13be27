package router

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/universitas/manuales-backend/internal/transport/http/middleware"
)

type HealthHandler interface {
	Healthz(w http.ResponseWriter, r *http.Request)
	Readyz(w http.ResponseWriter, r *http.Request)
}

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	Refresh(w http.ResponseWriter, r *http.Request)

	// Password recovery
	ForgotPassword(w http.ResponseWriter, r *http.Request)
	VerifyOtp(w http.ResponseWriter, r *http.Request)
	ResetPassword(w http.ResponseWriter, r *http.Request)

	// Scoped profile completion after register
	CompleteProfile(w http.ResponseWriter, r *http.Request)

	// Account deletion
	RequestDeletion(w http.ResponseWriter, r *http.Request)
	ConfirmDeletion(w http.ResponseWriter, r *http.Request)
}

type UserHandler interface {
	GetProfile(w http.ResponseWriter, r *http.Request)
	UpdateProfile(w http.ResponseWriter, r *http.Request)
	VerifyPassword(w http.ResponseWriter, r *http.Request)
	ChangePassword(w http.ResponseWriter, r *http.Request)

	// Admin
	ListUsers(w http.ResponseWriter, r *http.Request)
	SetUserRole(w http.ResponseWriter, r *http.Request)
}

type FormsHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	Status(w http.ResponseWriter, r *http.Request)
}

type AssistantHandler interface {
	Message(w http.ResponseWriter, r *http.Request)
}

type RedirectHandler interface {
	Redirect(w http.ResponseWriter, r *http.Request)
}

type Deps struct {
	Health   HealthHandler
	Auth     AuthHandler
	User     UserHandler
	Forms    FormsHandler
	Redirect RedirectHandler

	// Assistant is optional: left nil, the /api/ai surface is not mounted.
	Assistant AssistantHandler

	AuthMW         func(http.Handler) http.Handler
	OptionalAuthMW func(http.Handler) http.Handler
	AdminMW        func(http.Handler) http.Handler
}

func New(deps Deps) (http.Handler, error) {
	if deps.Health == nil {
		return nil, fmt.Errorf("nil Health handler")
	}
	if deps.Auth == nil {
		return nil, fmt.Errorf("nil Auth handler")
	}
	if deps.User == nil {
		return nil, fmt.Errorf("nil User handler")
	}
	if deps.Forms == nil {
		return nil, fmt.Errorf("nil Forms handler")
	}
	if deps.Redirect == nil {
		return nil, fmt.Errorf("nil Redirect handler")
	}
	if deps.AuthMW == nil {
		return nil, fmt.Errorf("nil Auth middleware")
	}
	if deps.OptionalAuthMW == nil {
		return nil, fmt.Errorf("nil OptionalAuth middleware")
	}
	if deps.AdminMW == nil {
		return nil, fmt.Errorf("nil Admin middleware")
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", middleware.HeaderXRequestID},
		MaxAge:         300,
	}))

	r.Get("/healthz", deps.Health.Healthz)
	r.Get("/readyz", deps.Health.Readyz)

	r.Route("/api", func(r chi.Router) {
		// Email links land here in a browser.
		r.Get("/redirect", deps.Redirect.Redirect)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", deps.Auth.Register)
			r.Post("/login", deps.Auth.Login)
			r.Post("/refresh-token", deps.Auth.Refresh)

			r.Post("/forgot-password", deps.Auth.ForgotPassword)
			r.Post("/verify-otp", deps.Auth.VerifyOtp)
			r.Post("/reset-password", deps.Auth.ResetPassword)

			r.Post("/complete-profile", deps.Auth.CompleteProfile)

			r.With(deps.AuthMW).Post("/request-deletion", deps.Auth.RequestDeletion)
			r.Get("/confirm-deletion", deps.Auth.ConfirmDeletion) // ?token=...
		})

		r.Route("/user", func(r chi.Router) {
			r.Use(deps.AuthMW)

			r.Get("/profile", deps.User.GetProfile)
			r.Put("/profile", deps.User.UpdateProfile)
			r.Post("/password/verify", deps.User.VerifyPassword)
			r.Put("/password/change", deps.User.ChangePassword)

			r.Route("/admin", func(r chi.Router) {
				r.Use(deps.AdminMW)

				r.Get("/users", deps.User.ListUsers)
				r.Put("/role", deps.User.SetUserRole)
			})
		})

		// Form access is decided per definition, so auth is optional at the
		// routing level and enforced by the handler.
		r.Route("/forms/{formID}", func(r chi.Router) {
			r.Use(deps.OptionalAuthMW)

			r.Post("/submit", deps.Forms.Submit)
			r.Get("/status", deps.Forms.Status)
		})

		if deps.Assistant != nil {
			r.With(deps.OptionalAuthMW).Post("/ai/message", deps.Assistant.Message)
		}
	})

	return r, nil
}
