package dto

// -------- Core auth --------

type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,strongpw"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Phone       string `json:"phone"`
	Institution string `json:"institution"`
}

func (r *RegisterRequest) Validate() error {
	r.Email = normalizeEmail(r.Email)
	return check(r)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error {
	r.Email = normalizeEmail(r.Email)
	return check(r)
}

// -------- Password recovery --------

// Step A: request a one-time code (always 200 to avoid enumeration).
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (r *ForgotPasswordRequest) Validate() error {
	r.Email = normalizeEmail(r.Email)
	return check(r)
}

// Step B: exchange the code for a reset-scoped token.
type VerifyOtpRequest struct {
	Email string `json:"email" validate:"required,email"`
	Otp   string `json:"otp" validate:"required,len=6,numeric"`
}

func (r *VerifyOtpRequest) Validate() error {
	r.Email = normalizeEmail(r.Email)
	return check(r)
}

// Step C: set the new password (reset-scoped bearer).
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,strongpw"`
}

func (r *ResetPasswordRequest) Validate() error {
	return check(r)
}

// -------- Profile --------

type CompleteProfileRequest struct {
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	Phone       string `json:"phone"`
	Institution string `json:"institution"`
}

func (r *CompleteProfileRequest) Validate() error {
	return check(r)
}

type UpdateProfileRequest struct {
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	Phone       string `json:"phone"`
	Institution string `json:"institution"`
}

func (r *UpdateProfileRequest) Validate() error {
	return check(r)
}

type PasswordVerifyRequest struct {
	Password string `json:"password" validate:"required"`
}

func (r *PasswordVerifyRequest) Validate() error {
	return check(r)
}

type PasswordChangeRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,strongpw"`
}

func (r *PasswordChangeRequest) Validate() error {
	return check(r)
}

// -------- Admin --------

type SetUserRoleRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required"`
}

func (r *SetUserRoleRequest) Validate() error {
	r.Email = normalizeEmail(r.Email)
	return check(r)
}

// -------- Assistant --------

type AssistantMessageRequest struct {
	Message   string `json:"message" validate:"required"`
	SessionID string `json:"session_id"`
	UserName  string `json:"user_name"`
}

func (r *AssistantMessageRequest) Validate() error {
	return check(r)
}
