package domain

import (
	"strings"
	"time"
)

// Role enumerates account roles.
type Role string

const (
	RoleUser    Role = "user"
	RoleSupport Role = "support"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleSupport, RoleAdmin:
		return true
	}
	return false
}

// ParseRole normalizes case and whitespace before validating.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	return r, r.Valid()
}

// Language is a user's preferred interface language.
type Language string

const (
	LanguageEnglish Language = "English"
	LanguageHindi   Language = "Hindi"
	LanguageFrench  Language = "French"
)

// User is an account able to submit, handle or administer tickets.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
	Name         string
	Interest     []string
	Language     Language
	ProfilePic   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
