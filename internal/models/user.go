package models

import (
	"net/mail"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/sbilibin2017/bestellsystem/internal/apperrors"
)

// UserTable is the name of the users table.
const UserTable = "user"

// Column limits of the user table.
const (
	MaxEmailLength        = 255
	MaxPasswordHashLength = 255
	MaxRoleLength         = 50
)

// User represents a user record in the database
type User struct {
	ID           int64     `json:"id" db:"id"`                 // Primary key
	Email        string    `json:"email" db:"email"`           // Unique email
	PasswordHash string    `json:"-" db:"password_hash"`       // bcrypt hash
	Role         string    `json:"role" db:"role"`             // Role name
	CreatedAt    time.Time `json:"created_at" db:"created_at"` // Creation timestamp (UTC)
}

// NewUser validates the input and returns a user with a hashed password.
// CreatedAt is left zero; the database defaults it at insert.
func NewUser(email, password, role string) (*User, error) {
	email = strings.TrimSpace(email)
	role = strings.TrimSpace(role)

	details := map[string]any{}
	if _, err := mail.ParseAddress(email); err != nil || len(email) > MaxEmailLength {
		details["email"] = "must be a valid address of at most 255 characters"
	}
	if password == "" {
		details["password"] = "must not be empty"
	}
	if role == "" || len(role) > MaxRoleLength {
		details["role"] = "must be between 1 and 50 characters"
	}
	if len(details) > 0 {
		return nil, apperrors.Validation("Invalid user", details)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}, nil
}

// CheckPassword reports whether password matches the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}
