package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Movie is one catalog entry. The game engine treats movies as read-only;
// rows are written only by catalog maintenance tooling.
type Movie struct {
	ID         uint                `gorm:"primaryKey" json:"id"`
	Title      string              `gorm:"size:255;not null;uniqueIndex" json:"title"`
	Year       int                 `gorm:"not null;index" json:"year"`
	Genres     string              `gorm:"size:255" json:"genres"` // "Action, Sci-Fi"
	Director   string              `gorm:"size:255" json:"director"`
	Actors     string              `gorm:"size:512" json:"actors"` // "Actor1, Actor2, ..."
	RuntimeMin *int                `gorm:"column:runtime_min" json:"runtime_min"`
	ImdbRating decimal.NullDecimal `gorm:"type:decimal(3,1)" json:"imdb_rating"`
	ImdbVotes  *int64              `json:"imdb_votes"`
	ImdbID     *string             `gorm:"size:16;uniqueIndex" json:"imdb_id"`
	PosterURL  string              `gorm:"size:512" json:"poster_url"`
	CreatedAt  time.Time           `json:"created_at"`
}

// GenreList splits the comma-joined genres column, first entry is the
// primary genre.
func (m *Movie) GenreList() []string {
	return splitCSV(m.Genres)
}

// CastList splits the comma-joined actors column, billing order preserved.
func (m *Movie) CastList() []string {
	return splitCSV(m.Actors)
}

// Playable reports whether the movie carries enough data to be guessed
// against: autocomplete and the public list only surface playable entries.
func (m *Movie) Playable() bool {
	return m.ImdbVotes != nil && m.ImdbRating.Valid
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}
