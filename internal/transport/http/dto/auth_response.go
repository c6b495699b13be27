package dto

import "github.com/universitas/manuales-backend/internal/domain"

// UserView is the standard user payload for auth responses. Token slots and
// the password hash never leave the service.
type UserView struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Phone       string `json:"phone"`
	Institution string `json:"institution"`
	Role        string `json:"role"`
}

func UserViewFrom(u domain.User) UserView {
	return UserView{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Phone:       u.Phone,
		Institution: u.Institution,
		Role:        u.EffectiveRole(),
	}
}

type RegisterResponse struct {
	// ProfileToken lets the client fill in profile fields before first login.
	ProfileToken string `json:"profile_token"`
	Status       string `json:"status"` // "pending_verification"
}

type LoginResponse struct {
	Token     string   `json:"token"`
	TokenType string   `json:"token_type"` // "Bearer"
	ExpiresIn int64    `json:"expires_in"` // seconds
	User      UserView `json:"user"`
}

type RefreshResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	ExpiresIn int64  `json:"expires_in"`
}

type VerifyOtpResponse struct {
	ResetToken string `json:"reset_token"`
}

type StatusResponse struct {
	Status string `json:"status"` // "ok"
}

// -------- Admin --------

type AdminUserView struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

// -------- Forms --------

type FormSubmitResponse struct {
	Status  string `json:"status"` // "ok"
	Created bool   `json:"created"`
}

type FormStatusResponse struct {
	Exists bool `json:"exists"`
	Filled bool `json:"filled"`
}

// -------- Assistant --------

type AssistantMessageResponse struct {
	Reply     string `json:"reply"`
	SessionID string `json:"session_id"`
}
