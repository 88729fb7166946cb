package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/geocoder89/recipehub/internal/auth"
	"github.com/geocoder89/recipehub/internal/domain/user"
	"github.com/geocoder89/recipehub/internal/security"
	"github.com/geocoder89/recipehub/internal/validation"
)

type UserStore interface {
	Create(ctx context.Context, fullName, email, passwordHash string) (user.User, error)
	GetByID(ctx context.Context, id string) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	Update(ctx context.Context, id string, ch user.Changes) (user.User, error)
	Delete(ctx context.Context, id string) error
}

type TokenManager interface {
	IssueAccess(userID string) (string, error)
	IssueRefresh(userID string) (string, error)
	Validate(token string, expected auth.TokenType) (string, error)
}

// Session is what a successful login hands back to the client.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         user.User
}

type Accounts struct {
	users    UserStore
	tokens   TokenManager
	validate *validation.Validator
}

func NewAccounts(users UserStore, tokens TokenManager, v *validation.Validator) *Accounts {
	if v == nil {
		v = validation.New()
	}
	return &Accounts{users: users, tokens: tokens, validate: v}
}

func (a *Accounts) SignUp(ctx context.Context, req user.SignUpRequest) (user.User, error) {
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = user.NormalizeEmail(req.Email)

	if err := checkStruct(a.validate, req); err != nil {
		return user.User{}, err
	}

	// skips a bcrypt round for the common duplicate case; the unique index
	// still decides races
	_, err := a.users.GetByEmail(ctx, req.Email)
	if err == nil {
		return user.User{}, user.ErrEmailTaken
	}
	if !errors.Is(err, user.ErrNotFound) {
		return user.User{}, err
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return user.User{}, err
	}

	return a.users.Create(ctx, req.FullName, req.Email, hash)
}

func (a *Accounts) Login(ctx context.Context, req user.LoginRequest) (Session, error) {
	email := user.NormalizeEmail(req.Email)

	u, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, user.ErrNotFound) {
			return Session{}, err
		}

		security.BurnCompare(req.Password)
		return Session{}, ErrInvalidCredentials
	}

	if !security.VerifyPassword(req.Password, u.PasswordHash) {
		return Session{}, ErrInvalidCredentials
	}

	access, err := a.tokens.IssueAccess(u.ID)
	if err != nil {
		return Session{}, err
	}

	refresh, err := a.tokens.IssueRefresh(u.ID)
	if err != nil {
		return Session{}, err
	}

	return Session{AccessToken: access, RefreshToken: refresh, User: u}, nil
}

// Refresh exchanges a refresh token for a new access token. The refresh
// token itself is not rotated and stays valid until it expires.
func (a *Accounts) Refresh(ctx context.Context, refreshToken string) (string, error) {
	subject, err := a.tokens.Validate(refreshToken, auth.TypeRefresh)
	if err != nil {
		return "", err
	}

	if _, err := a.Profile(ctx, subject); err != nil {
		return "", err
	}

	return a.tokens.IssueAccess(subject)
}

func (a *Accounts) Profile(ctx context.Context, subject string) (user.User, error) {
	u, err := a.users.GetByID(ctx, subject)
	if err != nil {
		return user.User{}, subjectErr(err)
	}
	return u, nil
}

func (a *Accounts) UpdateProfile(ctx context.Context, subject string, req user.UpdateProfileRequest) (user.User, error) {
	if req.IsEmpty() {
		return user.User{}, &ValidationError{Reason: "no fields to update"}
	}

	if req.FullName != nil {
		name := strings.TrimSpace(*req.FullName)
		req.FullName = &name
	}
	if req.Email != nil {
		email := user.NormalizeEmail(*req.Email)
		req.Email = &email
	}

	if err := checkStruct(a.validate, req); err != nil {
		return user.User{}, err
	}

	ch := user.Changes{FullName: req.FullName, Email: req.Email}

	if req.Password != nil {
		hash, err := hashPassword(*req.Password)
		if err != nil {
			return user.User{}, err
		}
		ch.PasswordHash = &hash
	}

	u, err := a.users.Update(ctx, subject, ch)
	if err != nil {
		return user.User{}, subjectErr(err)
	}
	return u, nil
}

// DeleteProfile removes the account and every recipe it owns.
func (a *Accounts) DeleteProfile(ctx context.Context, subject string) error {
	return subjectErr(a.users.Delete(ctx, subject))
}

// hashPassword reports bcrypt's input limit as bad input rather than a
// server fault.
func hashPassword(plain string) (string, error) {
	hash, err := security.HashPassword(plain)
	if errors.Is(err, security.ErrPasswordTooLong) {
		return "", &ValidationError{Reason: fmt.Sprintf("password must be at most %d bytes", security.MaxPasswordBytes)}
	}
	return hash, err
}

func subjectErr(err error) error {
	if errors.Is(err, user.ErrNotFound) {
		return ErrUnknownSubject
	}
	return err
}
