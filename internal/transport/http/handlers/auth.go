package http_handlers

import (
	"net/http"

	"github.com/universitas/manuales-backend/internal/application/auth"
	"github.com/universitas/manuales-backend/internal/logger"
	"github.com/universitas/manuales-backend/internal/transport/http/dto"
	"github.com/universitas/manuales-backend/internal/transport/http/middleware"
	"github.com/universitas/manuales-backend/internal/transport/http/response"
)

type AuthHandler struct {
	svc *auth.Service
}

func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	res, err := h.svc.Register(r.Context(), req.Email, req.Password, domainProfile(req.FirstName, req.LastName, req.Phone, req.Institution))
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	log := logger.WithCtx(r.Context())
	log.Info().
		Str("email", req.Email).
		Msg("user_registered")

	response.Created(w, dto.RegisterResponse{
		ProfileToken: res.ProfileToken,
		Status:       "pending_verification",
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	res, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	log := logger.WithCtx(r.Context())
	log.Info().
		Str("user_id", res.User.ID).
		Msg("user_logged_in")

	response.OK(w, dto.LoginResponse{
		Token:     res.Token,
		TokenType: "Bearer",
		ExpiresIn: res.ExpiresIn,
		User:      dto.UserViewFrom(res.User),
	})
}

// Refresh re-issues a session token from a still-valid one. No body; the
// current token travels as the bearer credential.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	token, err := middleware.BearerToken(r)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	fresh, expiresIn, err := h.svc.RefreshToken(token)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.RefreshResponse{
		Token:     fresh,
		TokenType: "Bearer",
		ExpiresIn: expiresIn,
	})
}

// ForgotPassword always answers 200 for well-formed requests so callers
// cannot probe which addresses are registered. Infrastructure failures are
// still surfaced: a 503 here means "retry", not "unknown email".
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ForgotPasswordRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	if err := h.svc.RequestPasswordReset(r.Context(), req.Email); err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.StatusResponse{Status: "ok"})
}

func (h *AuthHandler) VerifyOtp(w http.ResponseWriter, r *http.Request) {
	var req dto.VerifyOtpRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	resetToken, err := h.svc.VerifyOtp(r.Context(), req.Email, req.Otp)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.VerifyOtpResponse{ResetToken: resetToken})
}

// ResetPassword consumes the reset-scoped token minted by VerifyOtp.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	scoped, err := middleware.BearerToken(r)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	var req dto.ResetPasswordRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	if err := h.svc.ResetPassword(r.Context(), scoped, req.NewPassword); err != nil {
		response.WriteError(w, r, err)
		return
	}

	log := logger.WithCtx(r.Context())
	log.Info().Msg("password_reset")

	response.OK(w, dto.StatusResponse{Status: "ok"})
}

// CompleteProfile consumes the profile-scoped token handed out at
// registration, letting the client fill in profile fields before the account
// is even activated.
func (h *AuthHandler) CompleteProfile(w http.ResponseWriter, r *http.Request) {
	scoped, err := middleware.BearerToken(r)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	var req dto.CompleteProfileRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	p := domainProfile(req.FirstName, req.LastName, req.Phone, req.Institution)
	if err := h.svc.CompleteProfile(r.Context(), scoped, p); err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.StatusResponse{Status: "ok"})
}

// RequestDeletion mails a confirmation link to the logged-in user. The
// session token itself is re-verified by the service so the email address
// cannot be swapped between middleware and use case.
func (h *AuthHandler) RequestDeletion(w http.ResponseWriter, r *http.Request) {
	token, err := middleware.BearerToken(r)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	if err := h.svc.RequestAccountDeletion(r.Context(), token); err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.StatusResponse{Status: "ok"})
}

// ConfirmDeletion lands from the email link in a browser, so the answer is a
// human-readable page rather than JSON.
func (h *AuthHandler) ConfirmDeletion(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")

	u, err := h.svc.ConfirmAccountDeletion(r.Context(), token)
	if err != nil {
		writePage(w, http.StatusGone, pageDeletionInvalid)
		return
	}

	log := logger.WithCtx(r.Context())
	log.Info().
		Str("user_id", u.ID).
		Msg("account_deleted")

	writePage(w, http.StatusOK, pageDeletionDone)
}
