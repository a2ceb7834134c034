package models

import "time"

// GameStatus is the lifecycle state of a daily game. WON and LOST are
// terminal; there is no transition out of either.
type GameStatus string

const (
	GameInProgress GameStatus = "IN_PROGRESS"
	GameWon        GameStatus = "WON"
	GameLost       GameStatus = "LOST"
)

// Tier is the per-attribute proximity verdict, rendered green/yellow/gray
// by the client.
type Tier string

const (
	TierMatch Tier = "MATCH"
	TierClose Tier = "CLOSE"
	TierNone  Tier = "NONE"
)

// Direction tells the player where the secret's value sits relative to the
// guessed value on ordered attributes. Empty when the values are equal or
// not comparable.
type Direction string

const (
	DirHigher Direction = "HIGHER"
	DirLower  Direction = "LOWER"
	DirNone   Direction = ""
)

// DateKey renders a calendar day as the YYYY-MM-DD string stored in game
// and pick rows. String date columns keep equality and ordering predictable
// across drivers and timezones.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// Game is one player's game for one calendar day. The (player, date) pair
// is unique: the engine relies on the key to serialize concurrent creates.
type Game struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	PlayerID      uint       `gorm:"not null;uniqueIndex:uq_games_player_date" json:"player_id"`
	GameDate      string     `gorm:"size:10;not null;uniqueIndex:uq_games_player_date" json:"game_date"`
	SecretMovieID uint       `gorm:"not null" json:"-"`
	Status        GameStatus `gorm:"size:12;not null;default:'IN_PROGRESS'" json:"status"`
	MaxAttempts   int        `gorm:"not null;default:10" json:"max_attempts"`
	CreatedAt     time.Time  `json:"created_at"`

	SecretMovie Movie     `json:"-"`
	Attempts    []Attempt `json:"-"`
}

// Attempt is one guess inside a game. Numbers are contiguous from 1 and
// unique per game. Immutable once written.
type Attempt struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	GameID    uint      `gorm:"not null;uniqueIndex:uq_attempts_game_number" json:"game_id"`
	MovieID   uint      `gorm:"not null;index" json:"movie_id"`
	Number    int       `gorm:"column:attempt_number;not null;uniqueIndex:uq_attempts_game_number" json:"attempt_number"`
	CreatedAt time.Time `json:"created_at"`

	Movie    Movie     `json:"movie"`
	Feedback *Feedback `json:"feedback"`
}

// Feedback holds the seven attribute verdicts for an attempt, one row per
// attempt, written in the same transaction that creates the attempt.
// IsCorrect is an identity match against the secret movie, not a function
// of the tiers.
type Feedback struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	AttemptID uint `gorm:"not null;uniqueIndex" json:"attempt_id"`

	YearTier     Tier      `gorm:"size:8;not null" json:"year_tier"`
	YearDir      Direction `gorm:"size:8" json:"year_direction"`
	VotesTier    Tier      `gorm:"size:8;not null" json:"votes_tier"`
	VotesDir     Direction `gorm:"size:8" json:"votes_direction"`
	GenresTier   Tier      `gorm:"size:8;not null" json:"genres_tier"`
	RuntimeTier  Tier      `gorm:"size:8;not null" json:"runtime_tier"`
	RuntimeDir   Direction `gorm:"size:8" json:"runtime_direction"`
	DirectorTier Tier      `gorm:"size:8;not null" json:"director_tier"`
	CastTier     Tier      `gorm:"size:8;not null" json:"cast_tier"`
	RatingTier   Tier      `gorm:"size:8;not null" json:"rating_tier"`

	IsCorrect bool      `gorm:"not null" json:"is_correct"`
	CreatedAt time.Time `json:"created_at"`
}
