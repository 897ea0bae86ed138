package data

import (
	"strings"

	"github.com/Prabashv2/movie-watchlist-app/internal/validator"
)

// Filters narrows GetAll. Each field is optional; set fields are ANDed.
type Filters struct {
	// Query matches as a case-insensitive substring of the title.
	Query string
	// Genre matches the genre exactly.
	Genre string
	// Status matches the status exactly.
	Status string
}

// likeEscaper makes LIKE metacharacters in user input match literally.
// Postgres uses backslash as the default LIKE escape character.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// titlePattern returns Query escaped for use inside an ILIKE pattern.
func (f Filters) titlePattern() string {
	return likeEscaper.Replace(f.Query)
}

// ValidateFilters checks f against the business rules. An unknown status is
// rejected rather than silently matching nothing.
func ValidateFilters(v *validator.Validator, f Filters) {
	if f.Status != "" {
		v.Check(validator.In(f.Status, Statuses...), "status", "must be one of: to_watch, watched")
	}
	v.Check(len(f.Query) <= 500, "query", "must not be more than 500 bytes long")
}
