package game

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/movidle/movidle/models"
)

// Selector modes. Curated is canonical: an admin assigns the secret movie
// per date and the game falls back to the most recent assignment so it never
// blocks on a missed day. Deterministic hashes the date into the catalog and
// exists as a configuration fallback; note it reshuffles all dates whenever
// the catalog grows.
const (
	ModeCurated       = "curated"
	ModeDeterministic = "deterministic"
)

// lookup is one strategy in the selector's chain. It returns (nil, nil)
// when it has no answer and the next strategy should be tried.
type lookup func(day time.Time) (*models.Movie, error)

// Selector resolves the secret movie for a date by trying an ordered list
// of lookup strategies and failing with a mode-specific error once the
// chain is exhausted.
type Selector struct {
	chain     []lookup
	exhausted error
}

// NewSelector builds a selector for the configured mode, defaulting to
// curated for unknown mode strings.
func NewSelector(db *gorm.DB, catalog *Catalog, mode string) *Selector {
	if mode == ModeDeterministic {
		return &Selector{
			chain:     []lookup{deterministicLookup(catalog)},
			exhausted: ErrNoMovieAvailable,
		}
	}
	return &Selector{
		chain:     []lookup{pickForDate(db), latestPickBefore(db)},
		exhausted: ErrNoSelectionConfigured,
	}
}

// SecretForDate returns the secret movie for the given calendar day.
func (s *Selector) SecretForDate(day time.Time) (*models.Movie, error) {
	for _, l := range s.chain {
		m, err := l(day)
		if err != nil {
			return nil, err
		}
		if m != nil {
			return m, nil
		}
	}
	return nil, s.exhausted
}

// pickForDate reads the admin assignment for exactly this date.
func pickForDate(db *gorm.DB) lookup {
	return func(day time.Time) (*models.Movie, error) {
		var pick models.DailyPick
		err := db.Preload("Movie").
			Where("pick_date = ?", models.DateKey(day)).
			First(&pick).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return &pick.Movie, nil
	}
}

// latestPickBefore falls back to the most recent assignment on an earlier
// date. ISO date strings order lexicographically, so a plain string compare
// is enough.
func latestPickBefore(db *gorm.DB) lookup {
	return func(day time.Time) (*models.Movie, error) {
		var pick models.DailyPick
		err := db.Preload("Movie").
			Where("pick_date < ?", models.DateKey(day)).
			Order("pick_date DESC").
			First(&pick).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return &pick.Movie, nil
	}
}

// deterministicLookup reduces a sha256 digest of the ISO date modulo the
// catalog size and indexes into the id-ordered enumeration. Stable for a
// given date as long as the catalog is unchanged.
func deterministicLookup(catalog *Catalog) lookup {
	return func(day time.Time) (*models.Movie, error) {
		n, err := catalog.Count()
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, ErrNoMovieAvailable
		}
		sum := sha256.Sum256([]byte(models.DateKey(day)))
		idx := int64(binary.BigEndian.Uint64(sum[:8]) % uint64(n))
		return catalog.ByOffset(idx)
	}
}
