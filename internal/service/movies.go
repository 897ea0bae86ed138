package service

import (
	"context"
	"strings"

	"github.com/Prabashv2/movie-watchlist-app/internal/data"
	"github.com/Prabashv2/movie-watchlist-app/internal/validator"
)

// MovieStore is the movie store used by MovieService. Every method that
// touches a single movie is scoped by the owner's user id.
type MovieStore interface {
	Insert(ctx context.Context, movie *data.Movie) error
	Get(ctx context.Context, userID, id int64) (*data.Movie, error)
	GetAll(ctx context.Context, userID int64, filters data.Filters) ([]*data.Movie, error)
	Update(ctx context.Context, movie *data.Movie) error
	Delete(ctx context.Context, userID, id int64) error
	Stats(ctx context.Context, userID int64) (*data.Stats, error)
}

// MovieInput is the request shape of POST /api/movies and PUT
// /api/movies/:id. Only title is required. On update the input replaces
// every editable field, so an omitted field is cleared.
type MovieInput struct {
	Title       string  `json:"title" validate:"required,max=500"`
	Genre       *string `json:"genre" validate:"omitempty,max=100"`
	Year        *int32  `json:"year"`
	PosterURL   *string `json:"poster_url" validate:"omitempty,max=2048"`
	Description *string `json:"description" validate:"omitempty,max=10000"`
	Status      string  `json:"status" validate:"omitempty,oneof=to_watch watched"`
	Rating      *int32  `json:"rating"`
	Notes       *string `json:"notes" validate:"omitempty,max=10000"`
}

// MovieService implements the watchlist operations for a single caller.
type MovieService struct {
	movies MovieStore
}

func NewMovieService(movies MovieStore) *MovieService {
	return &MovieService{movies: movies}
}

// List returns every movie owned by userID, newest first.
func (s *MovieService) List(ctx context.Context, userID int64) ([]*data.Movie, error) {
	return s.movies.GetAll(ctx, userID, data.Filters{})
}

// Get returns one movie owned by userID, or data.ErrRecordNotFound.
func (s *MovieService) Get(ctx context.Context, userID, id int64) (*data.Movie, error) {
	return s.movies.Get(ctx, userID, id)
}

// Create adds a movie owned by userID and returns its id.
func (s *MovieService) Create(ctx context.Context, userID int64, in MovieInput) (int64, error) {
	movie, err := s.movieFromInput(in)
	if err != nil {
		return 0, err
	}
	movie.UserID = userID

	if err := s.movies.Insert(ctx, movie); err != nil {
		return 0, err
	}
	return movie.ID, nil
}

// Update replaces the editable fields of a movie owned by userID. A movie
// that does not exist or belongs to someone else returns
// data.ErrRecordNotFound.
func (s *MovieService) Update(ctx context.Context, userID, id int64, in MovieInput) error {
	movie, err := s.movieFromInput(in)
	if err != nil {
		return err
	}
	movie.ID = id
	movie.UserID = userID

	return s.movies.Update(ctx, movie)
}

// Delete removes a movie owned by userID. A movie that does not exist or
// belongs to someone else returns data.ErrRecordNotFound.
func (s *MovieService) Delete(ctx context.Context, userID, id int64) error {
	return s.movies.Delete(ctx, userID, id)
}

// Search returns the movies owned by userID matching every set filter,
// newest first.
func (s *MovieService) Search(ctx context.Context, userID int64, filters data.Filters) ([]*data.Movie, error) {
	filters.Query = strings.TrimSpace(filters.Query)
	filters.Genre = strings.TrimSpace(filters.Genre)
	filters.Status = strings.TrimSpace(filters.Status)

	v := validator.New()
	if data.ValidateFilters(v, filters); !v.Valid() {
		return nil, newValidationError(v.Errors)
	}
	return s.movies.GetAll(ctx, userID, filters)
}

// Stats summarises the watchlist of userID.
func (s *MovieService) Stats(ctx context.Context, userID int64) (*data.Stats, error) {
	return s.movies.Stats(ctx, userID)
}

func (s *MovieService) movieFromInput(in MovieInput) (*data.Movie, error) {
	v := validator.New()
	if v.Struct(in); !v.Valid() {
		return nil, newValidationError(v.Errors)
	}

	movie := &data.Movie{
		Title:       in.Title,
		Genre:       nullIfBlank(in.Genre),
		Year:        in.Year,
		PosterURL:   nullIfBlank(in.PosterURL),
		Description: nullIfBlank(in.Description),
		Status:      in.Status,
		Rating:      in.Rating,
		Notes:       nullIfBlank(in.Notes),
	}
	if movie.Status == "" {
		movie.Status = data.StatusToWatch
	}

	if data.ValidateMovie(v, movie); !v.Valid() {
		return nil, newValidationError(v.Errors)
	}
	return movie, nil
}

// nullIfBlank stores empty optional text as NULL.
func nullIfBlank(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}
