package http_handlers

import (
	"net/http"

	"github.com/universitas/manuales-backend/internal/application/auth"
	"github.com/universitas/manuales-backend/internal/domain"
	"github.com/universitas/manuales-backend/internal/logger"
	"github.com/universitas/manuales-backend/internal/transport/http/dto"
	"github.com/universitas/manuales-backend/internal/transport/http/middleware"
	"github.com/universitas/manuales-backend/internal/transport/http/response"
)

type UserHandler struct {
	svc *auth.Service
}

func NewUserHandler(svc *auth.Service) *UserHandler {
	return &UserHandler{svc: svc}
}

func domainProfile(first, last, phone, institution string) domain.Profile {
	return domain.Profile{
		FirstName:   first,
		LastName:    last,
		Phone:       phone,
		Institution: institution,
	}
}

func sessionEmail(r *http.Request) (string, error) {
	email, ok := middleware.EmailFromContext(r.Context())
	if !ok || email == "" {
		return "", domain.ErrTokenInvalid()
	}
	return email, nil
}

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	email, err := sessionEmail(r)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	u, err := h.svc.GetProfile(r.Context(), email)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.UserViewFrom(u))
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	email, err := sessionEmail(r)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	var req dto.UpdateProfileRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	p := domainProfile(req.FirstName, req.LastName, req.Phone, req.Institution)
	if err := h.svc.UpdateProfile(r.Context(), email, p); err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.StatusResponse{Status: "ok"})
}

// VerifyPassword re-checks the current password before the client exposes a
// sensitive screen (account deletion, password change).
func (h *UserHandler) VerifyPassword(w http.ResponseWriter, r *http.Request) {
	email, err := sessionEmail(r)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	var req dto.PasswordVerifyRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	if err := h.svc.VerifyPassword(r.Context(), email, req.Password); err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.StatusResponse{Status: "ok"})
}

func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	email, err := sessionEmail(r)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	var req dto.PasswordChangeRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	if err := h.svc.ChangePassword(r.Context(), email, req.CurrentPassword, req.NewPassword); err != nil {
		response.WriteError(w, r, err)
		return
	}

	log := logger.WithCtx(r.Context())
	log.Info().Msg("password_changed")

	response.OK(w, dto.StatusResponse{Status: "ok"})
}

// -------- Admin --------

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListUsers(r.Context())
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	views := make([]dto.AdminUserView, 0, len(users))
	for _, u := range users {
		views = append(views, dto.AdminUserView{
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Email:     u.Email,
			Role:      u.Role,
		})
	}

	response.OK(w, views)
}

func (h *UserHandler) SetUserRole(w http.ResponseWriter, r *http.Request) {
	var req dto.SetUserRoleRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	if err := h.svc.SetUserRole(r.Context(), req.Email, req.Role); err != nil {
		response.WriteError(w, r, err)
		return
	}

	log := logger.WithCtx(r.Context())
	log.Info().
		Str("email", req.Email).
		Str("role", req.Role).
		Msg("role_updated")

	response.OK(w, dto.StatusResponse{Status: "ok"})
}
