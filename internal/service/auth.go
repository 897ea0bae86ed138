package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Prabashv2/movie-watchlist-app/internal/data"
	"github.com/Prabashv2/movie-watchlist-app/internal/validator"
)

// UserStore is the credential store used by AuthService.
type UserStore interface {
	Insert(ctx context.Context, user *data.User) error
	GetByEmail(ctx context.Context, email string) (*data.User, error)
}

// TokenIssuer signs a session token for a user id.
type TokenIssuer interface {
	Issue(userID int64) (string, error)
}

// RegisterInput is the request shape of POST /api/auth/register.
type RegisterInput struct {
	Username string `json:"username" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginInput is the request shape of POST /api/auth/login.
type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Session is what a client receives after registering or logging in. User
// never carries the password hash.
type Session struct {
	Token string     `json:"token"`
	User  *data.User `json:"user"`
}

// AuthService registers users and logs them in.
type AuthService struct {
	users  UserStore
	tokens TokenIssuer
}

func NewAuthService(users UserStore, tokens TokenIssuer) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Register creates a user and returns a session for it. A duplicate email
// returns data.ErrDuplicateEmail and creates nothing.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	v := validator.New()
	v.Struct(in)
	// bcrypt rejects long input, so the byte limit is checked before hashing.
	data.ValidatePasswordPlaintext(v, in.Password)
	if !v.Valid() {
		return nil, newValidationError(v.Errors)
	}

	user := &data.User{
		Username: in.Username,
		Email:    in.Email,
	}
	if err := user.Password.Set(in.Password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	if data.ValidateUser(v, user); !v.Valid() {
		return nil, newValidationError(v.Errors)
	}

	if err := s.users.Insert(ctx, user); err != nil {
		return nil, err
	}

	return s.session(user)
}

// Login checks the credentials and returns a fresh session. Earlier sessions
// of the same user stay valid.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*Session, error) {
	v := validator.New()
	if v.Struct(in); !v.Valid() {
		return nil, newValidationError(v.Errors)
	}

	user, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			return nil, ErrInvalidCredentials
		default:
			return nil, err
		}
	}

	match, err := user.Password.Matches(in.Password)
	if err != nil {
		return nil, fmt.Errorf("compare password: %w", err)
	}
	if !match {
		return nil, ErrInvalidCredentials
	}

	return s.session(user)
}

func (s *AuthService) session(user *data.User) (*Session, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &Session{Token: token, User: user}, nil
}
