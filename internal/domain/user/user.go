package user

import (
	"errors"
	"strings"
	"time"
)

type User struct {
	ID           string    `json:"id"`
	FullName     string    `json:"user_fullname"`
	Email        string    `json:"user_addr_email"`
	PasswordHash string    `json:"-"` // never expose hash in JSON
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already registered")
)

const (
	MinPasswordLength = 6
	MinFullNameLength = 4
)

// bcryptlen caps passwords at bcrypt's 72-byte input limit; max= would count
// characters.
type SignUpRequest struct {
	FullName string `json:"user_fullname" binding:"required,min=4,max=100"`
	Email    string `json:"user_addr_email" binding:"required,email,max=80"`
	Password string `json:"user_password" binding:"required,min=6,bcryptlen"`
}

type LoginRequest struct {
	Email    string `json:"user_addr_email" binding:"required"`
	Password string `json:"user_password" binding:"required"`
}

// UpdateProfileRequest lists every field a user may change about themselves.
// Nil means "leave as is".
type UpdateProfileRequest struct {
	FullName *string `json:"user_fullname" binding:"omitempty,min=4,max=100"`
	Email    *string `json:"user_addr_email" binding:"omitempty,email,max=80"`
	Password *string `json:"user_password" binding:"omitempty,min=6,bcryptlen"`
}

func (r UpdateProfileRequest) IsEmpty() bool {
	return r.FullName == nil && r.Email == nil && r.Password == nil
}

// Changes is what the store applies on update; PasswordHash is already hashed.
type Changes struct {
	FullName     *string
	Email        *string
	PasswordHash *string
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
