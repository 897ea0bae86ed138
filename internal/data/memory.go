package data

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// memoryStore keeps users and movies in-process. It backs local development
// runs without a database and the service and handler tests.
type memoryStore struct {
	mu          sync.RWMutex
	users       map[int64]User
	emails      map[string]int64
	movies      map[int64]Movie
	nextUserID  int64
	nextMovieID int64
	now         func() time.Time
}

// NewMemoryModels returns Models backed by an empty in-memory store.
func NewMemoryModels() Models {
	s := &memoryStore{
		users:  make(map[int64]User),
		emails: make(map[string]int64),
		movies: make(map[int64]Movie),
		now:    func() time.Time { return time.Now().UTC().Truncate(time.Second) },
	}
	return Models{
		Movies: MemoryMovieModel{s: s},
		Users:  MemoryUserModel{s: s},
	}
}

// MemoryUserModel is the in-memory counterpart of UserModel.
type MemoryUserModel struct {
	s *memoryStore
}

func (m MemoryUserModel) Insert(_ context.Context, user *User) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if _, exists := m.s.emails[user.Email]; exists {
		return ErrDuplicateEmail
	}
	m.s.nextUserID++
	user.ID = m.s.nextUserID
	user.CreatedAt = m.s.now()

	stored := *user
	stored.Password.plaintext = nil
	m.s.users[user.ID] = stored
	m.s.emails[user.Email] = user.ID
	return nil
}

func (m MemoryUserModel) GetByEmail(_ context.Context, email string) (*User, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	id, ok := m.s.emails[email]
	if !ok {
		return nil, ErrRecordNotFound
	}
	user := m.s.users[id]
	return &user, nil
}

// MemoryMovieModel is the in-memory counterpart of MovieModel. It applies the
// same owner scoping, ordering and filter semantics.
type MemoryMovieModel struct {
	s *memoryStore
}

func (m MemoryMovieModel) Insert(_ context.Context, movie *Movie) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	m.s.nextMovieID++
	movie.ID = m.s.nextMovieID
	movie.CreatedAt = m.s.now()
	movie.UpdatedAt = movie.CreatedAt
	m.s.movies[movie.ID] = cloneMovie(*movie)
	return nil
}

func (m MemoryMovieModel) Get(_ context.Context, userID, id int64) (*Movie, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	movie, ok := m.s.movies[id]
	if !ok || movie.UserID != userID {
		return nil, ErrRecordNotFound
	}
	movie = cloneMovie(movie)
	return &movie, nil
}

func (m MemoryMovieModel) GetAll(_ context.Context, userID int64, filters Filters) ([]*Movie, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	query := strings.ToLower(filters.Query)
	movies := []*Movie{}
	for _, movie := range m.s.movies {
		if movie.UserID != userID {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(movie.Title), query) {
			continue
		}
		if filters.Genre != "" && (movie.Genre == nil || *movie.Genre != filters.Genre) {
			continue
		}
		if filters.Status != "" && movie.Status != filters.Status {
			continue
		}
		c := cloneMovie(movie)
		movies = append(movies, &c)
	}

	sort.Slice(movies, func(i, j int) bool {
		if !movies[i].CreatedAt.Equal(movies[j].CreatedAt) {
			return movies[i].CreatedAt.After(movies[j].CreatedAt)
		}
		return movies[i].ID > movies[j].ID
	})
	return movies, nil
}

func (m MemoryMovieModel) Update(_ context.Context, movie *Movie) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	stored, ok := m.s.movies[movie.ID]
	if !ok || stored.UserID != movie.UserID {
		return ErrRecordNotFound
	}

	updated := cloneMovie(*movie)
	updated.CreatedAt = stored.CreatedAt
	updated.UpdatedAt = m.s.now()
	m.s.movies[movie.ID] = updated

	movie.CreatedAt = updated.CreatedAt
	movie.UpdatedAt = updated.UpdatedAt
	return nil
}

func (m MemoryMovieModel) Delete(_ context.Context, userID, id int64) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	stored, ok := m.s.movies[id]
	if !ok || stored.UserID != userID {
		return ErrRecordNotFound
	}
	delete(m.s.movies, id)
	return nil
}

func (m MemoryMovieModel) Stats(_ context.Context, userID int64) (*Stats, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	stats := &Stats{Genres: []GenreCount{}}
	genres := make(map[string]int)
	var ratingSum, rated int64

	for _, movie := range m.s.movies {
		if movie.UserID != userID {
			continue
		}
		stats.Total++
		switch movie.Status {
		case StatusWatched:
			stats.Watched++
		case StatusToWatch:
			stats.ToWatch++
		}
		if movie.Genre != nil {
			genres[*movie.Genre]++
		}
		if movie.Rating != nil {
			ratingSum += int64(*movie.Rating)
			rated++
		}
	}

	for genre, count := range genres {
		stats.Genres = append(stats.Genres, GenreCount{Genre: genre, Count: count})
	}
	sort.Slice(stats.Genres, func(i, j int) bool {
		if stats.Genres[i].Count != stats.Genres[j].Count {
			return stats.Genres[i].Count > stats.Genres[j].Count
		}
		return stats.Genres[i].Genre < stats.Genres[j].Genre
	})

	if rated > 0 {
		avg := formatAverage(ratingSum, rated)
		stats.AverageRating = &avg
	}
	return stats, nil
}

// formatAverage renders sum/count with one decimal place, rounding halves
// away from zero like Postgres ROUND on numeric.
func formatAverage(sum, count int64) string {
	tenths := (sum*20 + count) / (count * 2)
	return fmt.Sprintf("%d.%d", tenths/10, tenths%10)
}

func cloneMovie(m Movie) Movie {
	m.Genre = clonePtr(m.Genre)
	m.Year = clonePtr(m.Year)
	m.PosterURL = clonePtr(m.PosterURL)
	m.Description = clonePtr(m.Description)
	m.Rating = clonePtr(m.Rating)
	m.Notes = clonePtr(m.Notes)
	return m
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
