package game

import (
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/movidle/movidle/models"
)

// newTestDB opens a throwaway sqlite database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "movidle_test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Player{},
		&models.Movie{},
		&models.DailyPick{},
		&models.Game{},
		&models.Attempt{},
		&models.Feedback{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedMovie(t *testing.T, db *gorm.DB, m models.Movie) models.Movie {
	t.Helper()
	if err := db.Create(&m).Error; err != nil {
		t.Fatalf("seed movie %q: %v", m.Title, err)
	}
	return m
}

func seedPlayer(t *testing.T, db *gorm.DB) models.Player {
	t.Helper()
	user := models.User{Username: "tester", PasswordHash: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	p := models.Player{UserID: user.ID}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed player: %v", err)
	}
	return p
}

func seedPick(t *testing.T, db *gorm.DB, dateKey string, movieID uint) {
	t.Helper()
	if err := db.Create(&models.DailyPick{PickDate: dateKey, MovieID: movieID}).Error; err != nil {
		t.Fatalf("seed pick %s: %v", dateKey, err)
	}
}
