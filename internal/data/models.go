package data

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// queryTimeout bounds every statement issued by the models.
const queryTimeout = 3 * time.Second

var (
	// ErrRecordNotFound is returned when a lookup matches no row. For movies
	// this also covers rows owned by someone else.
	ErrRecordNotFound = errors.New("record not found")
	// ErrDuplicateEmail is returned when inserting a user whose email is
	// already registered.
	ErrDuplicateEmail = errors.New("duplicate email")
)

// Models is a 'container' which holds all the database models.
type Models struct {
	Movies interface {
		Insert(ctx context.Context, movie *Movie) error
		Get(ctx context.Context, userID, id int64) (*Movie, error)
		GetAll(ctx context.Context, userID int64, filters Filters) ([]*Movie, error)
		Update(ctx context.Context, movie *Movie) error
		Delete(ctx context.Context, userID, id int64) error
		Stats(ctx context.Context, userID int64) (*Stats, error)
	}
	Users interface {
		Insert(ctx context.Context, user *User) error
		GetByEmail(ctx context.Context, email string) (*User, error)
	}
}

// NewModels returns a Models struct backed by db.
func NewModels(db *sql.DB) Models {
	return Models{
		Movies: MovieModel{DB: db},
		Users:  UserModel{DB: db},
	}
}
