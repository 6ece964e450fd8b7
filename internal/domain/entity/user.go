// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// UserStatus describes where an account sits in its approval lifecycle.
type UserStatus string

const (
	// UserStatusPending marks an account created while needApproval was
	// on; it cannot log in until an administrator enables it.
	UserStatusPending UserStatus = "pending"
	// UserStatusEnabled marks a fully active account.
	UserStatusEnabled UserStatus = "enabled"
	// UserStatusDisabled marks a deactivated account.
	UserStatusDisabled UserStatus = "disabled"
)

// User is the core identity record. Email and Username are globally
// unique; the GUID is a stable external identifier handed to recovery
// links so the primary key never leaves the system.
type User struct {
	ID            uuid.UUID
	GUID          string
	Email         string
	Username      string
	DisplayName   string
	Language      string
	GroupID       string
	Status        UserStatus
	SuperAdmin    bool
	RecoveryToken string // Encoded password-recovery token; empty means none outstanding.
	Profile       *Profile
	Credential    *Credential
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Enabled reports whether the account may establish sessions.
func (u *User) Enabled() bool {
	return u.Status == UserStatusEnabled
}

// Profile holds the user-visible profile fields collected at
// registration. It lives and dies with its User.
type Profile struct {
	UserID    uuid.UUID
	FirstName string
	LastName  string
	Title     string
	UpdatedAt time.Time
}

// Credential stores the bcrypt-hashed password for an account. It is
// created together with the User during registration and replaced as a
// whole on password reset.
type Credential struct {
	UserID       uuid.UUID
	PasswordHash string
	UpdatedAt    time.Time
}
