package game

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/movidle/movidle/models"
)

// Rules is the engine tuning: attempt limit plus comparator bands.
type Rules struct {
	MaxAttempts int
	Bands       Bands
}

// DefaultRules mirrors the shipped game configuration.
func DefaultRules() Rules {
	return Rules{MaxAttempts: 10, Bands: DefaultBands()}
}

// Reveal is the secret-movie payload attached to a result when the game
// just finished.
type Reveal struct {
	Title     string `json:"title"`
	Year      int    `json:"year"`
	PosterURL string `json:"poster_url"`
}

// AttemptResult is what one registered attempt reports back to the caller.
type AttemptResult struct {
	AttemptNumber     int               `json:"attempt_number"`
	Feedback          Scorecard         `json:"feedback"`
	IsCorrect         bool              `json:"is_correct"`
	GameStatus        models.GameStatus `json:"game_status"`
	AttemptsRemaining int               `json:"attempts_remaining"`
	Reveal            *Reveal           `json:"reveal,omitempty"`
}

// Engine orchestrates one guess: resolves the secret, gets or creates the
// day's game, enforces the game rules, scores the guess, and persists
// attempt, feedback, and state transitions in one transaction.
type Engine struct {
	db       *gorm.DB
	selector *Selector
	rules    Rules
}

// NewEngine wires the engine.
func NewEngine(db *gorm.DB, selector *Selector, rules Rules) *Engine {
	if rules.MaxAttempts <= 0 {
		rules.MaxAttempts = DefaultRules().MaxAttempts
	}
	return &Engine{db: db, selector: selector, rules: rules}
}

// Rules exposes the engine tuning to the boundary layer.
func (e *Engine) Rules() Rules {
	return e.rules
}

// RegisterAttempt registers one guess for the player on the given calendar
// day. Player and day are explicit parameters; the engine reads no ambient
// session state.
//
// Rule violations come back as the package's sentinel errors. On
// ErrAttemptLimitExceeded the LOST transition is committed while the
// triggering attempt is not persisted; on every other rule violation no
// state changes.
func (e *Engine) RegisterAttempt(playerID uint, day time.Time, guess models.Movie) (*AttemptResult, error) {
	secret, err := e.selector.SecretForDate(day)
	if err != nil {
		return nil, err
	}

	var (
		result    *AttemptResult
		domainErr error
	)

	err = e.db.Transaction(func(tx *gorm.DB) error {
		g, err := e.gameForUpdate(tx, playerID, models.DateKey(day), secret)
		if err != nil {
			return err
		}

		if g.Status != models.GameInProgress {
			domainErr = ErrGameAlreadyFinished
			return nil
		}

		var dup int64
		if err := tx.Model(&models.Attempt{}).
			Where("game_id = ? AND movie_id = ?", g.ID, guess.ID).
			Count(&dup).Error; err != nil {
			return err
		}
		if dup > 0 {
			domainErr = ErrDuplicateGuess
			return nil
		}

		var count int64
		if err := tx.Model(&models.Attempt{}).
			Where("game_id = ?", g.ID).
			Count(&count).Error; err != nil {
			return err
		}
		number := int(count) + 1

		if number > g.MaxAttempts {
			// Overflowed game still marked IN_PROGRESS: close it. The
			// transition commits, the attempt is rejected.
			if err := tx.Model(g).Update("status", models.GameLost).Error; err != nil {
				return err
			}
			domainErr = ErrAttemptLimitExceeded
			return nil
		}

		attempt := models.Attempt{GameID: g.ID, MovieID: guess.ID, Number: number}
		if err := tx.Create(&attempt).Error; err != nil {
			return err
		}

		card := Score(guess, g.SecretMovie, e.rules.Bands)
		// Correctness is identity, never tiers: two distinct movies can
		// share every compared attribute.
		correct := guess.ID == g.SecretMovie.ID

		fb := feedbackRow(attempt.ID, card, correct)
		if err := tx.Create(&fb).Error; err != nil {
			return err
		}

		status := models.GameInProgress
		switch {
		case correct:
			status = models.GameWon
			if err := e.resolveStreak(tx, playerID, true); err != nil {
				return err
			}
		case number >= g.MaxAttempts:
			status = models.GameLost
			if err := e.resolveStreak(tx, playerID, false); err != nil {
				return err
			}
		}
		if status != models.GameInProgress {
			if err := tx.Model(g).Update("status", status).Error; err != nil {
				return err
			}
		}

		remaining := g.MaxAttempts - number
		if remaining < 0 {
			remaining = 0
		}
		result = &AttemptResult{
			AttemptNumber:     number,
			Feedback:          card,
			IsCorrect:         correct,
			GameStatus:        status,
			AttemptsRemaining: remaining,
		}
		if status != models.GameInProgress {
			result.Reveal = &Reveal{
				Title:     g.SecretMovie.Title,
				Year:      g.SecretMovie.Year,
				PosterURL: g.SecretMovie.PosterURL,
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if domainErr != nil {
		return nil, domainErr
	}
	return result, nil
}

// gameForUpdate loads today's game for the player under a row lock, or
// creates it with the secret and the configured limit. A unique-key loss to
// a concurrent create re-reads the winning row instead of failing.
func (e *Engine) gameForUpdate(tx *gorm.DB, playerID uint, dateKey string, secret *models.Movie) (*models.Game, error) {
	var g models.Game
	err := lockForUpdate(tx).Preload("SecretMovie").
		Where("player_id = ? AND game_date = ?", playerID, dateKey).
		First(&g).Error
	if err == nil {
		return &g, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	g = models.Game{
		PlayerID:      playerID,
		GameDate:      dateKey,
		SecretMovieID: secret.ID,
		Status:        models.GameInProgress,
		MaxAttempts:   e.rules.MaxAttempts,
	}
	if err := tx.Create(&g).Error; err != nil {
		var again models.Game
		if ferr := lockForUpdate(tx).Preload("SecretMovie").
			Where("player_id = ? AND game_date = ?", playerID, dateKey).
			First(&again).Error; ferr == nil {
			return &again, nil
		}
		return nil, err
	}
	g.SecretMovie = *secret
	return &g, nil
}

// resolveStreak applies the streak algebra at game resolution: +1 and
// max-update on a win, reset to zero on a loss. Max streak survives losses.
func (e *Engine) resolveStreak(tx *gorm.DB, playerID uint, won bool) error {
	var p models.Player
	if err := lockForUpdate(tx).First(&p, playerID).Error; err != nil {
		return err
	}
	if won {
		p.CurrentStreak++
		if p.CurrentStreak > p.MaxStreak {
			p.MaxStreak = p.CurrentStreak
		}
	} else {
		p.CurrentStreak = 0
	}
	return tx.Model(&p).Updates(map[string]interface{}{
		"current_streak": p.CurrentStreak,
		"max_streak":     p.MaxStreak,
	}).Error
}

func feedbackRow(attemptID uint, card Scorecard, correct bool) models.Feedback {
	return models.Feedback{
		AttemptID:    attemptID,
		YearTier:     card.Year.Tier,
		YearDir:      card.Year.Direction,
		VotesTier:    card.Votes.Tier,
		VotesDir:     card.Votes.Direction,
		GenresTier:   card.Genres.Tier,
		RuntimeTier:  card.Runtime.Tier,
		RuntimeDir:   card.Runtime.Direction,
		DirectorTier: card.Director.Tier,
		CastTier:     card.Cast.Tier,
		RatingTier:   card.Rating.Tier,
		IsCorrect:    correct,
	}
}

// lockForUpdate adds SELECT ... FOR UPDATE on MySQL. SQLite (used by the
// test suite) serializes writers on its own and rejects the clause.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "mysql" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}
