package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Prabashv2/movie-watchlist-app/internal/validator"
)

// Movie statuses.
const (
	StatusToWatch = "to_watch"
	StatusWatched = "watched"
)

// Statuses lists every accepted movie status.
var Statuses = []string{StatusToWatch, StatusWatched}

// Movie is an entry on a user's watchlist. UserID is the owner; every read
// and write of a movie is scoped by it.
type Movie struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Title       string    `json:"title"`
	Genre       *string   `json:"genre"`
	Year        *int32    `json:"year"`
	PosterURL   *string   `json:"poster_url"`
	Description *string   `json:"description"`
	Status      string    `json:"status"`
	Rating      *int32    `json:"rating"`
	Notes       *string   `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// earliestFilmYear is the year of the oldest surviving motion picture.
const earliestFilmYear = 1888

// ValidateMovie checks the record-level rules for the editable fields of movie.
func ValidateMovie(v *validator.Validator, movie *Movie) {
	v.Check(validator.NotBlank(movie.Title), "title", "must be provided")
	v.Check(len(movie.Title) <= 500, "title", "must not be more than 500 bytes long")

	v.Check(validator.In(movie.Status, Statuses...), "status", "must be one of: to_watch, watched")

	if movie.Rating != nil {
		v.Check(*movie.Rating >= 1 && *movie.Rating <= 5, "rating", "must be between 1 and 5")
	}

	if movie.Year != nil {
		v.Check(*movie.Year >= earliestFilmYear, "year", fmt.Sprintf("must be greater than or equal to %d", earliestFilmYear))
		v.Check(int(*movie.Year) <= time.Now().Year()+10, "year", "must not be too far in the future")
	}
}

// GenreCount is one row of the per-genre breakdown in Stats.
type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// Stats summarises one user's watchlist. AverageRating is formatted with one
// decimal place and is nil when no movie carries a rating.
type Stats struct {
	Total         int          `json:"total"`
	Watched       int          `json:"watched"`
	ToWatch       int          `json:"toWatch"`
	Genres        []GenreCount `json:"genres"`
	AverageRating *string      `json:"averageRating,omitempty"`
}

// MovieModel wraps the movies table.
type MovieModel struct {
	DB *sql.DB
}

// Insert adds movie and fills in its id and timestamps. movie.UserID must
// already be set to the owner.
func (m MovieModel) Insert(ctx context.Context, movie *Movie) error {
	query := `
		INSERT INTO movies (user_id, title, genre, year, poster_url, description, status, rating, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`

	args := []any{
		movie.UserID,
		movie.Title,
		movie.Genre,
		movie.Year,
		movie.PosterURL,
		movie.Description,
		movie.Status,
		movie.Rating,
		movie.Notes,
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	err := m.DB.QueryRowContext(ctx, query, args...).Scan(&movie.ID, &movie.CreatedAt, &movie.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert movie: %w", err)
	}
	return nil
}

// Get returns the movie with id owned by userID. A missing movie and a movie
// owned by another user both return ErrRecordNotFound.
func (m MovieModel) Get(ctx context.Context, userID, id int64) (*Movie, error) {
	if id < 1 {
		return nil, ErrRecordNotFound
	}

	query := `
		SELECT id, user_id, title, genre, year, poster_url, description, status, rating, notes, created_at, updated_at
		FROM movies
		WHERE id = $1 AND user_id = $2`

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var movie Movie
	err := scanMovie(m.DB.QueryRowContext(ctx, query, id, userID), &movie)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, fmt.Errorf("get movie: %w", err)
		}
	}
	return &movie, nil
}

// GetAll returns the movies owned by userID that match filters, newest first.
// Zero-valued filters match everything.
func (m MovieModel) GetAll(ctx context.Context, userID int64, filters Filters) ([]*Movie, error) {
	query := `
		SELECT id, user_id, title, genre, year, poster_url, description, status, rating, notes, created_at, updated_at
		FROM movies
		WHERE user_id = $1
		AND (title ILIKE '%' || $2 || '%' OR $2 = '')
		AND (genre = $3 OR $3 = '')
		AND (status = $4 OR $4 = '')
		ORDER BY created_at DESC, id DESC`

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := m.DB.QueryContext(ctx, query, userID, filters.titlePattern(), filters.Genre, filters.Status)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	defer rows.Close()

	movies := []*Movie{}
	for rows.Next() {
		var movie Movie
		if err := scanMovie(rows, &movie); err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		movies = append(movies, &movie)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	return movies, nil
}

// Update replaces the editable fields of the movie identified by movie.ID
// and movie.UserID. When no row is affected it returns ErrRecordNotFound.
func (m MovieModel) Update(ctx context.Context, movie *Movie) error {
	query := `
		UPDATE movies
		SET title = $1, genre = $2, year = $3, poster_url = $4, description = $5,
		    status = $6, rating = $7, notes = $8, updated_at = now()
		WHERE id = $9 AND user_id = $10`

	args := []any{
		movie.Title,
		movie.Genre,
		movie.Year,
		movie.PosterURL,
		movie.Description,
		movie.Status,
		movie.Rating,
		movie.Notes,
		movie.ID,
		movie.UserID,
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := m.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update movie: %w", err)
	}
	return checkAffected(result)
}

// Delete hard-deletes the movie with id owned by userID. When no row is
// affected it returns ErrRecordNotFound.
func (m MovieModel) Delete(ctx context.Context, userID, id int64) error {
	if id < 1 {
		return ErrRecordNotFound
	}

	query := `
		DELETE FROM movies
		WHERE id = $1 AND user_id = $2`

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := m.DB.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete movie: %w", err)
	}
	return checkAffected(result)
}

// Stats aggregates the watchlist of userID. The reads are independent and
// run outside a transaction.
func (m MovieModel) Stats(ctx context.Context, userID int64) (*Stats, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	stats := &Stats{Genres: []GenreCount{}}

	err := m.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM movies WHERE user_id = $1`, userID).Scan(&stats.Total)
	if err != nil {
		return nil, fmt.Errorf("count movies: %w", err)
	}

	if err := m.statusCounts(ctx, userID, stats); err != nil {
		return nil, err
	}

	if err := m.genreCounts(ctx, userID, stats); err != nil {
		return nil, err
	}

	var avg sql.NullString
	err = m.DB.QueryRowContext(ctx, `
		SELECT ROUND(AVG(rating), 1)::text
		FROM movies
		WHERE user_id = $1 AND rating IS NOT NULL`, userID).Scan(&avg)
	if err != nil {
		return nil, fmt.Errorf("average rating: %w", err)
	}
	if avg.Valid {
		stats.AverageRating = &avg.String
	}

	return stats, nil
}

func (m MovieModel) statusCounts(ctx context.Context, userID int64, stats *Stats) error {
	rows, err := m.DB.QueryContext(ctx, `
		SELECT status, COUNT(*)
		FROM movies
		WHERE user_id = $1
		GROUP BY status`, userID)
	if err != nil {
		return fmt.Errorf("count statuses: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return fmt.Errorf("scan status count: %w", err)
		}
		switch status {
		case StatusWatched:
			stats.Watched = count
		case StatusToWatch:
			stats.ToWatch = count
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("count statuses: %w", err)
	}
	return nil
}

func (m MovieModel) genreCounts(ctx context.Context, userID int64, stats *Stats) error {
	rows, err := m.DB.QueryContext(ctx, `
		SELECT genre, COUNT(*) AS count
		FROM movies
		WHERE user_id = $1 AND genre IS NOT NULL
		GROUP BY genre
		ORDER BY count DESC, genre ASC`, userID)
	if err != nil {
		return fmt.Errorf("count genres: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var gc GenreCount
		if err := rows.Scan(&gc.Genre, &gc.Count); err != nil {
			return fmt.Errorf("scan genre count: %w", err)
		}
		stats.Genres = append(stats.Genres, gc)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("count genres: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMovie(row rowScanner, movie *Movie) error {
	return row.Scan(
		&movie.ID,
		&movie.UserID,
		&movie.Title,
		&movie.Genre,
		&movie.Year,
		&movie.PosterURL,
		&movie.Description,
		&movie.Status,
		&movie.Rating,
		&movie.Notes,
		&movie.CreatedAt,
		&movie.UpdatedAt,
	)
}

func checkAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}
