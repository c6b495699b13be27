package domain

import (
	"strings"
	"time"
)

// User is one row of the Login sheet. All fields are stored as strings; the
// sheet has no other types. ID stays empty until the activation link is
// consumed — a non-empty ID is the canonical "activated" flag.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Phone        string
	Institution  string
	Role         string

	// Single-slot one-time token storage. The slot holds either the hash of
	// an activation token or a password-recovery code; issuing a new one
	// overwrites the previous one.
	ResetToken       string
	ResetTokenExpiry string

	// Parallel slot for account-deletion confirmation.
	DeletionToken       string
	DeletionTokenExpiry string
}

// Activated reports whether the account has consumed its activation link.
func (u User) Activated() bool {
	return strings.TrimSpace(u.ID) != ""
}

// EffectiveRole returns the stored role, defaulting legacy rows to the free
// tier.
func (u User) EffectiveRole() string {
	if strings.TrimSpace(u.Role) == "" {
		return RoleFree
	}
	return u.Role
}

// ResetTokenExpired reports whether the reset/activation slot has passed its
// window. An empty or unparseable expiry counts as expired: the slot is
// unusable either way.
func (u User) ResetTokenExpired(now time.Time) bool {
	return expired(u.ResetTokenExpiry, now)
}

// DeletionTokenExpired is the same check for the deletion slot.
func (u User) DeletionTokenExpired(now time.Time) bool {
	return expired(u.DeletionTokenExpiry, now)
}

func expired(stamp string, now time.Time) bool {
	stamp = strings.TrimSpace(stamp)
	if stamp == "" {
		return true
	}
	t, err := time.Parse(time.RFC3339, stamp)
	if err != nil {
		return true
	}
	return now.After(t)
}

// UserSummary is the admin-listing projection. It deliberately has no slot
// for the password hash.
type UserSummary struct {
	FirstName string
	LastName  string
	Email     string
	Role      string
}

// Profile carries the mutable profile fields of a user.
type Profile struct {
	FirstName   string
	LastName    string
	Phone       string
	Institution string
}
