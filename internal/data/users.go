package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Prabashv2/movie-watchlist-app/internal/validator"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

// passwordCost keeps a bcrypt comparison in the tens of milliseconds.
const passwordCost = 10

// uniqueViolation is the Postgres SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

// User is a registered account. Users are never updated or deleted through
// the API.
type User struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"-"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  password  `json:"-"`
}

// password holds the plaintext (only while a request is in flight) and the
// bcrypt hash of a user's password.
type password struct {
	plaintext *string
	hash      []byte
}

// Set calculates the bcrypt hash of plaintext and stores both values.
func (p *password) Set(plaintext string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), passwordCost)
	if err != nil {
		return err
	}
	p.plaintext = &plaintext
	p.hash = hash
	return nil
}

// Matches reports whether plaintext matches the stored hash.
func (p *password) Matches(plaintext string) (bool, error) {
	// Such a password could never have been set.
	if len(plaintext) > maxPasswordBytes {
		return false, nil
	}
	err := bcrypt.CompareHashAndPassword(p.hash, []byte(plaintext))
	if err != nil {
		switch {
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			return false, nil
		default:
			return false, err
		}
	}
	return true, nil
}

// Hash returns the stored bcrypt hash.
func (p *password) Hash() []byte {
	return p.hash
}

// SetHash loads an already computed hash, e.g. when reading a user row.
func (p *password) SetHash(hash []byte) {
	p.plaintext = nil
	p.hash = hash
}

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

// ValidatePasswordPlaintext checks a plaintext password. The length limit is
// in bytes, so it must run before Set.
func ValidatePasswordPlaintext(v *validator.Validator, password string) {
	v.Check(password != "", "password", "must be provided")
	v.Check(len(password) <= maxPasswordBytes, "password", fmt.Sprintf("must not be more than %d bytes long", maxPasswordBytes))
}

// ValidateUser checks the record-level rules for a new user.
func ValidateUser(v *validator.Validator, user *User) {
	v.Check(validator.NotBlank(user.Username), "username", "must be provided")
	v.Check(len(user.Username) <= 100, "username", "must not be more than 100 bytes long")
	v.Check(user.Email != "", "email", "must be provided")
	v.Check(validator.Matches(user.Email, validator.EmailRX), "email", "must be a valid email address")

	if user.Password.plaintext != nil {
		ValidatePasswordPlaintext(v, *user.Password.plaintext)
	}

	// A missing hash means Set was never called; that is a bug, not bad input.
	if user.Password.hash == nil {
		panic("missing password hash for user")
	}
}

// UserModel wraps the users table.
type UserModel struct {
	DB *sql.DB
}

// Insert adds user to the table and fills in the generated id and
// created_at. A duplicate email returns ErrDuplicateEmail.
func (m UserModel) Insert(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	err := m.DB.QueryRowContext(ctx, query, user.Username, user.Email, user.Password.hash).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByEmail returns the user registered with email, or ErrRecordNotFound.
func (m UserModel) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := `
		SELECT id, created_at, username, email, password_hash
		FROM users
		WHERE email = $1`

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var user User
	var hash []byte
	err := m.DB.QueryRowContext(ctx, query, email).Scan(
		&user.ID,
		&user.CreatedAt,
		&user.Username,
		&user.Email,
		&hash,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, fmt.Errorf("get user by email: %w", err)
		}
	}
	user.Password.SetHash(hash)
	return &user, nil
}
