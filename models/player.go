package models

import "time"

// Player is the game profile attached to a user account, one per account.
// Streaks are mutated only by the attempt engine when a game resolves.
// Streaks count consecutive WON resolutions and reset on any LOST; calendar
// gaps between wins do not break a streak.
type Player struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	CurrentStreak int       `gorm:"not null;default:0" json:"current_streak"`
	MaxStreak     int       `gorm:"not null;default:0" json:"max_streak"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	User User `json:"-"`
}
