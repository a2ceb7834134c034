package models

import "time"

// DailyPick maps a calendar day to its admin-curated secret movie, unique
// per date. The engine only reads picks; the admin endpoint upserts them.
type DailyPick struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PickDate  string    `gorm:"size:10;not null;uniqueIndex" json:"pick_date"`
	MovieID   uint      `gorm:"not null" json:"movie_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Movie Movie `json:"movie"`
}
