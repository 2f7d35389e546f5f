package domain

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Role represents the authorization level of a profile.
type Role string

// Possible profile roles.
const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
	RoleGuest Role = "GUEST"
)

// Common validation errors for Profile. All wrap ErrValidation so callers can
// classify them with a single errors.Is check.
var (
	ErrEmptyProfileID      = fmt.Errorf("profile ID cannot be empty: %w", ErrValidation)
	ErrEmptyUsername       = fmt.Errorf("username cannot be empty: %w", ErrValidation)
	ErrUsernameTooLong     = fmt.Errorf("username must be at most 50 characters long: %w", ErrValidation)
	ErrEmptyEmail          = fmt.Errorf("email cannot be empty: %w", ErrValidation)
	ErrInvalidEmail        = fmt.Errorf("invalid email format: %w", ErrValidation)
	ErrEmptyHashedPassword = fmt.Errorf("hashed password cannot be empty: %w", ErrValidation)
	ErrPasswordTooShort    = fmt.Errorf("password must be at least 8 characters long: %w", ErrValidation)
	ErrPasswordTooLong     = fmt.Errorf("password must be at most 72 characters long: %w", ErrValidation)
)

// Profile represents a registered account on the platform. A profile owns the
// questions and answers it authored and the notifications addressed to it;
// deleting a profile deletes all of them.
type Profile struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Password       string    `json:"-"` // Plaintext password, used temporarily during registration
	HashedPassword string    `json:"-"` // Never expose password hash in JSON
	Role           Role      `json:"role"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewProfile creates a new Profile with the given username, email, password,
// and role. It generates a new UUID for the profile ID and sets the
// creation/update timestamps. Returns an error if validation fails.
//
// NOTE: This function only sets up the profile structure with the plaintext
// password. The caller is responsible for hashing the password before storage.
func NewProfile(username, email, password string, role Role) (*Profile, error) {
	profile := &Profile{
		ID:        uuid.New(),
		Username:  username,
		Email:     email,
		Password:  password, // Plaintext password - must be hashed before storage
		Role:      role,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := profile.Validate(); err != nil {
		return nil, err
	}

	return profile, nil
}

// Validate checks if the Profile has valid data.
// Returns an error if any field fails validation.
func (p *Profile) Validate() error {
	if p.ID == uuid.Nil {
		return ErrEmptyProfileID
	}

	if p.Username == "" {
		return ErrEmptyUsername
	}

	// Rune count, matching the request-level max=50 validator rule.
	if utf8.RuneCountInString(p.Username) > 50 {
		return ErrUsernameTooLong
	}

	if p.Email == "" {
		return ErrEmptyEmail
	}

	if !validateEmailFormat(p.Email) {
		return ErrInvalidEmail
	}

	if !isValidRole(p.Role) {
		return ErrInvalidRole
	}

	if p.Password != "" {
		if len(p.Password) < 8 {
			return ErrPasswordTooShort
		}
		if len(p.Password) > 72 {
			return ErrPasswordTooLong
		}
	} else if p.HashedPassword == "" {
		// Profiles loaded from the store carry only the hash.
		return ErrEmptyHashedPassword
	}

	return nil
}

// CanPost reports whether the profile may create questions and answers or
// cast votes. Guests are read-only under the default policy; the service
// layer accepts an override predicate for deployments that allow guest
// participation.
func (p *Profile) CanPost() bool {
	return p.Role == RoleUser || p.Role == RoleAdmin
}

// IsAdmin reports whether the profile carries the ADMIN role.
func (p *Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// isValidRole checks if the given role is one of the enumerated set.
func isValidRole(role Role) bool {
	switch role {
	case RoleUser, RoleAdmin, RoleGuest:
		return true
	default:
		return false
	}
}

// validateEmailFormat performs basic validation of email format.
// Returns true if the email appears to be in a valid format.
func validateEmailFormat(email string) bool {
	atIndex := -1
	for i, char := range email {
		if char == '@' {
			atIndex = i
			break
		}
	}

	if atIndex <= 0 || atIndex == len(email)-1 {
		return false
	}

	// Check for a dot in the domain part, not immediately after @ and not at
	// the end.
	domainPart := email[atIndex+1:]
	dotIndex := -1
	for i, char := range domainPart {
		if char == '.' {
			dotIndex = i
			break
		}
	}

	return dotIndex > 0 && dotIndex < len(domainPart)-1
}
