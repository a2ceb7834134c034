package game

import (
	"errors"
	"testing"
	"time"

	"github.com/movidle/movidle/models"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestCuratedSelectorPickForDate(t *testing.T) {
	db := newTestDB(t)
	alien := seedMovie(t, db, models.Movie{Title: "Alien", Year: 1979})
	blade := seedMovie(t, db, models.Movie{Title: "Blade Runner", Year: 1982})
	seedPick(t, db, "2024-03-01", alien.ID)
	seedPick(t, db, "2024-03-02", blade.ID)

	sel := NewSelector(db, NewCatalog(db), ModeCurated)

	got, err := sel.SecretForDate(day("2024-03-02"))
	if err != nil {
		t.Fatalf("SecretForDate: %v", err)
	}
	if got.ID != blade.ID {
		t.Errorf("secret = %q, want %q", got.Title, blade.Title)
	}
}

func TestCuratedSelectorFallsBackToLatestPick(t *testing.T) {
	db := newTestDB(t)
	alien := seedMovie(t, db, models.Movie{Title: "Alien", Year: 1979})
	blade := seedMovie(t, db, models.Movie{Title: "Blade Runner", Year: 1982})
	seedPick(t, db, "2024-02-20", alien.ID)
	seedPick(t, db, "2024-03-01", blade.ID)

	sel := NewSelector(db, NewCatalog(db), ModeCurated)

	// No pick for the 10th: the most recent earlier pick wins
	got, err := sel.SecretForDate(day("2024-03-10"))
	if err != nil {
		t.Fatalf("SecretForDate: %v", err)
	}
	if got.ID != blade.ID {
		t.Errorf("fallback secret = %q, want %q", got.Title, blade.Title)
	}
}

func TestCuratedSelectorNoPicksConfigured(t *testing.T) {
	db := newTestDB(t)
	seedMovie(t, db, models.Movie{Title: "Alien", Year: 1979})

	sel := NewSelector(db, NewCatalog(db), ModeCurated)

	_, err := sel.SecretForDate(day("2024-03-10"))
	if !errors.Is(err, ErrNoSelectionConfigured) {
		t.Fatalf("err = %v, want ErrNoSelectionConfigured", err)
	}
}

func TestDeterministicSelectorIsStable(t *testing.T) {
	db := newTestDB(t)
	for _, title := range []string{"Alien", "Blade Runner", "Heat", "Seven"} {
		seedMovie(t, db, models.Movie{Title: title, Year: 1990})
	}

	sel := NewSelector(db, NewCatalog(db), ModeDeterministic)

	first, err := sel.SecretForDate(day("2024-03-10"))
	if err != nil {
		t.Fatalf("SecretForDate: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := sel.SecretForDate(day("2024-03-10"))
		if err != nil {
			t.Fatalf("SecretForDate: %v", err)
		}
		if again.ID != first.ID {
			t.Fatalf("same date produced %q then %q", first.Title, again.Title)
		}
	}
}

func TestDeterministicSelectorEmptyCatalog(t *testing.T) {
	db := newTestDB(t)

	sel := NewSelector(db, NewCatalog(db), ModeDeterministic)

	_, err := sel.SecretForDate(day("2024-03-10"))
	if !errors.Is(err, ErrNoMovieAvailable) {
		t.Fatalf("err = %v, want ErrNoMovieAvailable", err)
	}
}
