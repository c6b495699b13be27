package domain

import (
	"errors"
	"fmt"
)

// ErrKind is used to map domain errors to HTTP status codes consistently.
type ErrKind string

const (
	KindValidation     ErrKind = "validation"     // 400
	KindAuth           ErrKind = "auth"           // 401
	KindForbidden      ErrKind = "forbidden"      // 403
	KindNotFound       ErrKind = "not_found"      // 404
	KindConflict       ErrKind = "conflict"       // 409
	KindInfrastructure ErrKind = "infrastructure" // 503
	KindInternal       ErrKind = "internal"       // 500
)

// Error is a structured domain error.
// - Kind: high-level category for HTTP mapping
// - Code: stable machine code (do not change casually)
// - Message: safe summary for clients (avoid leaking sensitive details)
// - Meta: optional details (field, reason, etc.)
// - Cause: wrapped internal error for logging/diagnostics
type Error struct {
	Kind    ErrKind
	Code    string
	Message string
	Meta    map[string]string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Kind, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Kind, e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func New(kind ErrKind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

func Wrap(kind ErrKind, code, msg string, cause error) *Error {
	return &Error{Kind: kind, Code: code, Message: msg, Cause: cause}
}

func WithMeta(err *Error, meta map[string]string) *Error {
	err.Meta = meta
	return err
}

func Is(err error, code string) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// ----------------------
// Validation errors (400)
// ----------------------

func ErrInvalidJSON(cause error) *Error {
	return Wrap(KindValidation, "invalid_json", "invalid JSON body", cause)
}

func ErrMissingField(field string) *Error {
	return WithMeta(New(KindValidation, "missing_field", "missing required field"), map[string]string{
		"field": field,
	})
}

func ErrInvalidField(field, reason string) *Error {
	return WithMeta(New(KindValidation, "invalid_field", "invalid field"), map[string]string{
		"field":  field,
		"reason": reason,
	})
}

func ErrWeakPassword(reason string) *Error {
	return WithMeta(New(KindValidation, "weak_password", "password does not meet requirements"), map[string]string{
		"reason": reason,
	})
}

// ErrInvalidCode covers a wrong one-time code during password recovery.
func ErrInvalidCode() *Error {
	return New(KindValidation, "invalid_code", "invalid or expired code")
}

// ErrCodeExpired covers a correct one-time code presented after its window.
// The stored code is cleared as a side effect wherever this is detected.
func ErrCodeExpired() *Error {
	return New(KindValidation, "code_expired", "invalid or expired code")
}

// ErrTokenInvalidOrExpired covers activation / deletion links that no longer
// resolve to a pending token.
func ErrTokenInvalidOrExpired() *Error {
	return New(KindValidation, "token_invalid_or_expired", "invalid or expired token")
}

// ----------------------
// Auth errors (401)
// ----------------------

// IMPORTANT: use this for login failures to avoid user enumeration.
func ErrInvalidCredentials() *Error {
	return New(KindAuth, "invalid_credentials", "invalid email or password")
}

func ErrTokenMissing() *Error {
	return New(KindAuth, "token_missing", "no token provided")
}

func ErrTokenInvalid() *Error {
	return New(KindAuth, "token_invalid", "invalid token")
}

func ErrTokenExpired() *Error {
	return New(KindAuth, "token_expired", "token is expired")
}

// ----------------------
// Forbidden (403)
// ----------------------

func ErrForbidden() *Error {
	return New(KindForbidden, "forbidden", "forbidden")
}

func ErrInsufficientRole(required string) *Error {
	return WithMeta(New(KindForbidden, "insufficient_role", "insufficient role"), map[string]string{
		"required": required,
	})
}

// ErrAccountNotVerified: email matched and the password was correct, but the
// account has never been activated (no ID assigned yet).
func ErrAccountNotVerified() *Error {
	return New(KindForbidden, "account_not_verified", "account not verified")
}

func ErrTokenScopeMismatch(required string) *Error {
	return WithMeta(New(KindForbidden, "token_scope_mismatch", "token not valid for this operation"), map[string]string{
		"required": required,
	})
}

// ----------------------
// Not Found (404)
// ----------------------

func ErrUserNotFound() *Error {
	return New(KindNotFound, "user_not_found", "user not found")
}

// ErrRowNotFound is the normal negative outcome of a sheet lookup. It is a
// domain error so callers can distinguish it from ErrStoreUnavailable, which
// signals a transport failure.
func ErrRowNotFound() *Error {
	return New(KindNotFound, "row_not_found", "row not found")
}

func ErrFormNotFound(formID string) *Error {
	return WithMeta(New(KindNotFound, "form_not_found", "unknown form"), map[string]string{
		"form_id": formID,
	})
}

// ----------------------
// Conflict (409)
// ----------------------

func ErrEmailAlreadyExists() *Error {
	return New(KindConflict, "email_already_exists", "email already registered")
}

// ----------------------
// Infrastructure / internal (5xx)
// ----------------------

// ErrStoreUnavailable wraps any transport or auth failure against the backing
// spreadsheet. Callers must never treat this as "not found".
func ErrStoreUnavailable(cause error) *Error {
	return Wrap(KindInfrastructure, "store_unavailable", "backing store unavailable", cause)
}

// ErrSchemaMismatch means the live header row of a sheet does not match the
// static column map. Raised at startup validation or on lookup by a header
// that no longer exists.
func ErrSchemaMismatch(sheet, detail string) *Error {
	return WithMeta(New(KindInfrastructure, "schema_mismatch", "sheet schema mismatch"), map[string]string{
		"sheet":  sheet,
		"detail": detail,
	})
}

func ErrHashFailed(cause error) *Error {
	return Wrap(KindInternal, "hash_failed", "password hashing failed", cause)
}

func ErrTokenSignFailed(cause error) *Error {
	return Wrap(KindInternal, "token_sign_failed", "token signing failed", cause)
}

func ErrRandomFailed(cause error) *Error {
	return Wrap(KindInternal, "random_failed", "random generation failed", cause)
}

func ErrMailFailed(cause error) *Error {
	return Wrap(KindInternal, "mail_failed", "email delivery failed", cause)
}

func ErrAssistantUnavailable(cause error) *Error {
	return Wrap(KindInfrastructure, "assistant_unavailable", "assistant backend unavailable", cause)
}

func ErrInternal(cause error) *Error {
	return Wrap(KindInternal, "internal_error", "internal error", cause)
}

func ErrInvalidRole(role string) *Error {
	return WithMeta(
		New(KindValidation, "invalid_role", "invalid role"),
		map[string]string{"role": role},
	)
}
