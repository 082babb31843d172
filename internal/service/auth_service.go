package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/iliyamo/eventella/internal/model"
	"github.com/iliyamo/eventella/internal/repository"
	"github.com/iliyamo/eventella/internal/utils"
)

// AuthService registers users, issues bearer tokens and resolves tokens
// back to users.
type AuthService struct {
	users  UserStore
	secret string
	ttl    time.Duration
	cost   int
}

func NewAuthService(users UserStore, secret string, ttl time.Duration, bcryptCost int) *AuthService {
	return &AuthService{users: users, secret: secret, ttl: ttl, cost: bcryptCost}
}

// RegisterInput is the body of POST /api/auth/register.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginInput is the body of POST /api/auth/login.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expiresAt"`
	User      model.User `json:"user"`
}

// Register creates a user with the user role.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (AuthResult, error) {
	name := strings.TrimSpace(in.Name)
	email := repository.NormalizeEmail(in.Email)
	switch {
	case name == "":
		return AuthResult{}, newError(ErrValidation, "name is required")
	case email == "":
		return AuthResult{}, newError(ErrValidation, "email is required")
	case in.Password == "":
		return AuthResult{}, newError(ErrValidation, "password is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return AuthResult{}, newError(ErrValidation, "email is invalid")
	}

	hash, err := utils.HashPassword(in.Password, s.cost)
	if err != nil {
		return AuthResult{}, err
	}
	u := model.User{Name: name, Email: email, PasswordHash: hash, Role: model.RoleUser}
	if err := s.users.Create(ctx, &u); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return AuthResult{}, newError(ErrConflict, "User already exists")
		}
		return AuthResult{}, err
	}
	return s.issue(u)
}

// Login checks credentials.  Unknown email and wrong password produce the
// same error.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (AuthResult, error) {
	if strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return AuthResult{}, newError(ErrValidation, "email and password are required")
	}
	u, err := s.users.GetByEmail(ctx, in.Email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return AuthResult{}, newError(ErrUnauthorized, "Invalid email or password")
	}
	if err != nil {
		return AuthResult{}, err
	}
	if !utils.VerifyPassword(u.PasswordHash, in.Password) {
		return AuthResult{}, newError(ErrUnauthorized, "Invalid email or password")
	}
	return s.issue(u)
}

// Authenticate verifies a raw bearer token and loads the current user.  A
// valid token for a user that no longer exists is rejected.
func (s *AuthService) Authenticate(ctx context.Context, raw string) (model.User, error) {
	if raw == "" {
		return model.User{}, newError(ErrUnauthorized, "Not authorized, no token")
	}
	claims, err := utils.ParseToken(s.secret, raw)
	if err != nil {
		return model.User{}, newError(ErrUnauthorized, "Not authorized, token failed")
	}
	u, err := s.users.GetByID(ctx, claims.UserID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return model.User{}, newError(ErrUnauthorized, "Not authorized, token failed")
	}
	if err != nil {
		return model.User{}, err
	}
	return u, nil
}

// AdminInput names the account EnsureAdmin bootstraps.
type AdminInput struct {
	Name     string
	Email    string
	Password string
}

// EnsureAdmin gives the account with in.Email the admin role.  When no such
// account exists it is created from in, which then needs a password;
// otherwise the existing password is kept.
func (s *AuthService) EnsureAdmin(ctx context.Context, in AdminInput) (model.User, error) {
	email := repository.NormalizeEmail(in.Email)
	if email == "" {
		return model.User{}, newError(ErrValidation, "admin email is required")
	}
	u, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if u.Role == model.RoleAdmin {
			return u, nil
		}
		if err := s.users.SetRole(ctx, u.ID, model.RoleAdmin); err != nil {
			return model.User{}, err
		}
		u.Role = model.RoleAdmin
		return u, nil
	case !errors.Is(err, repository.ErrUserNotFound):
		return model.User{}, err
	case in.Password == "":
		return model.User{}, newError(ErrNotFound, "admin account "+email+" does not exist and no password was given")
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = "Admin"
	}
	hash, err := utils.HashPassword(in.Password, s.cost)
	if err != nil {
		return model.User{}, err
	}
	u = model.User{Name: name, Email: email, PasswordHash: hash, Role: model.RoleAdmin}
	if err := s.users.Create(ctx, &u); err != nil {
		return model.User{}, err
	}
	return u, nil
}

func (s *AuthService) issue(u model.User) (AuthResult, error) {
	tok, err := utils.NewToken(s.secret, u.ID, string(u.Role), s.ttl)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{Token: tok.Value, ExpiresAt: tok.Exp, User: u}, nil
}
