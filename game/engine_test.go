package game

import (
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/movidle/movidle/models"
)

func newTestEngine(t *testing.T, db *gorm.DB, maxAttempts int) *Engine {
	t.Helper()
	sel := NewSelector(db, NewCatalog(db), ModeCurated)
	return NewEngine(db, sel, Rules{MaxAttempts: maxAttempts, Bands: DefaultBands()})
}

func seedGameFixtures(t *testing.T, db *gorm.DB, today time.Time) (models.Player, models.Movie, []models.Movie) {
	t.Helper()
	player := seedPlayer(t, db)
	secret := seedMovie(t, db, models.Movie{
		Title:      "The Matrix",
		Year:       1999,
		Genres:     "Action, Sci-Fi",
		Director:   "Lana Wachowski",
		Actors:     "Keanu Reeves, Laurence Fishburne, Carrie-Anne Moss",
		RuntimeMin: ptrInt(136),
		ImdbRating: rating("8.7"),
		ImdbVotes:  ptrInt64(500000),
	})
	others := []models.Movie{
		seedMovie(t, db, models.Movie{Title: "Heat", Year: 1995, Genres: "Crime", Director: "Michael Mann", Actors: "Al Pacino, Robert De Niro"}),
		seedMovie(t, db, models.Movie{Title: "Seven", Year: 1995, Genres: "Thriller", Director: "David Fincher", Actors: "Brad Pitt, Morgan Freeman"}),
		seedMovie(t, db, models.Movie{Title: "Alien", Year: 1979, Genres: "Horror, Sci-Fi", Director: "Ridley Scott", Actors: "Sigourney Weaver"}),
	}
	seedPick(t, db, models.DateKey(today), secret.ID)
	return player, secret, others
}

func TestRegisterAttemptWin(t *testing.T) {
	db := newTestDB(t)
	today := day("2024-03-10")
	player, secret, _ := seedGameFixtures(t, db, today)
	eng := newTestEngine(t, db, 10)

	res, err := eng.RegisterAttempt(player.ID, today, secret)
	if err != nil {
		t.Fatalf("RegisterAttempt: %v", err)
	}

	if !res.IsCorrect {
		t.Error("identity guess should be correct")
	}
	if res.GameStatus != models.GameWon {
		t.Errorf("status = %s, want WON", res.GameStatus)
	}
	if res.AttemptNumber != 1 {
		t.Errorf("attempt number = %d, want 1", res.AttemptNumber)
	}
	if res.AttemptsRemaining != 9 {
		t.Errorf("attempts remaining = %d, want 9", res.AttemptsRemaining)
	}
	if res.Reveal == nil || res.Reveal.Title != secret.Title {
		t.Errorf("reveal = %+v, want title %q", res.Reveal, secret.Title)
	}
	// Correctness implies all tiers MATCH for an identity guess
	for name, v := range map[string]Verdict{
		"year": res.Feedback.Year, "votes": res.Feedback.Votes,
		"genres": res.Feedback.Genres, "runtime": res.Feedback.Runtime,
		"director": res.Feedback.Director, "cast": res.Feedback.Cast,
		"rating": res.Feedback.Rating,
	} {
		if v.Tier != models.TierMatch {
			t.Errorf("%s tier = %s, want MATCH", name, v.Tier)
		}
	}

	var p models.Player
	if err := db.First(&p, player.ID).Error; err != nil {
		t.Fatalf("reload player: %v", err)
	}
	if p.CurrentStreak != 1 || p.MaxStreak != 1 {
		t.Errorf("streaks = (%d, %d), want (1, 1)", p.CurrentStreak, p.MaxStreak)
	}
}

func TestRegisterAttemptWinWithMissingFields(t *testing.T) {
	db := newTestDB(t)
	today := day("2024-03-10")
	player := seedPlayer(t, db)
	// Secret with no votes, runtime, or rating
	secret := seedMovie(t, db, models.Movie{Title: "Obscurity", Year: 1968, Director: "Unknown"})
	seedPick(t, db, models.DateKey(today), secret.ID)
	eng := newTestEngine(t, db, 10)

	res, err := eng.RegisterAttempt(player.ID, today, secret)
	if err != nil {
		t.Fatalf("RegisterAttempt: %v", err)
	}
	if !res.IsCorrect || res.GameStatus != models.GameWon {
		t.Errorf("got (correct=%v, status=%s), want (true, WON)", res.IsCorrect, res.GameStatus)
	}
	if res.Feedback.Votes.Tier != models.TierNone {
		t.Errorf("missing votes tier = %s, want NONE even on a win", res.Feedback.Votes.Tier)
	}
}

func TestRegisterAttemptSharedAttributesAreNotCorrect(t *testing.T) {
	db := newTestDB(t)
	today := day("2024-03-10")
	player, secret, _ := seedGameFixtures(t, db, today)
	// A distinct movie that shares every compared attribute with the secret
	twin := seedMovie(t, db, models.Movie{
		Title:      "The Matrix (Remaster)",
		Year:       secret.Year,
		Genres:     secret.Genres,
		Director:   secret.Director,
		Actors:     secret.Actors,
		RuntimeMin: secret.RuntimeMin,
		ImdbRating: secret.ImdbRating,
		ImdbVotes:  secret.ImdbVotes,
	})
	eng := newTestEngine(t, db, 10)

	res, err := eng.RegisterAttempt(player.ID, today, twin)
	if err != nil {
		t.Fatalf("RegisterAttempt: %v", err)
	}
	if res.IsCorrect {
		t.Error("attribute twin must not count as correct")
	}
	if res.GameStatus != models.GameInProgress {
		t.Errorf("status = %s, want IN_PROGRESS", res.GameStatus)
	}
	if res.Feedback.Year.Tier != models.TierMatch || res.Feedback.Cast.Tier != models.TierMatch {
		t.Error("twin should score MATCH on shared attributes")
	}
}

func TestRegisterAttemptDuplicateGuess(t *testing.T) {
	db := newTestDB(t)
	today := day("2024-03-10")
	player, _, others := seedGameFixtures(t, db, today)
	eng := newTestEngine(t, db, 10)

	if _, err := eng.RegisterAttempt(player.ID, today, others[0]); err != nil {
		t.Fatalf("first attempt: %v", err)
	}
	_, err := eng.RegisterAttempt(player.ID, today, others[0])
	if !errors.Is(err, ErrDuplicateGuess) {
		t.Fatalf("err = %v, want ErrDuplicateGuess", err)
	}

	var count int64
	db.Model(&models.Attempt{}).Count(&count)
	if count != 1 {
		t.Errorf("attempt rows = %d, want 1 (duplicate not persisted)", count)
	}
}

func TestRegisterAttemptLossResetsStreak(t *testing.T) {
	db := newTestDB(t)
	today := day("2024-03-10")
	player, _, others := seedGameFixtures(t, db, today)
	db.Model(&models.Player{}).Where("id = ?", player.ID).
		Updates(map[string]interface{}{"current_streak": 4, "max_streak": 6})
	eng := newTestEngine(t, db, 3)

	var last *AttemptResult
	for i, wrong := range others {
		res, err := eng.RegisterAttempt(player.ID, today, wrong)
		if err != nil {
			t.Fatalf("attempt %d: %v", i+1, err)
		}
		if res.AttemptNumber != i+1 {
			t.Errorf("attempt number = %d, want %d", res.AttemptNumber, i+1)
		}
		last = res
	}

	if last.GameStatus != models.GameLost {
		t.Errorf("final status = %s, want LOST", last.GameStatus)
	}
	if last.AttemptsRemaining != 0 {
		t.Errorf("attempts remaining = %d, want 0", last.AttemptsRemaining)
	}
	if last.Reveal == nil {
		t.Error("loss should reveal the secret")
	}

	var p models.Player
	db.First(&p, player.ID)
	if p.CurrentStreak != 0 {
		t.Errorf("current streak = %d, want 0 after loss", p.CurrentStreak)
	}
	if p.MaxStreak != 6 {
		t.Errorf("max streak = %d, want 6 preserved", p.MaxStreak)
	}

	// Attempt numbers stay a contiguous 1..k sequence
	var numbers []int
	db.Model(&models.Attempt{}).Order("attempt_number").Pluck("attempt_number", &numbers)
	for i, n := range numbers {
		if n != i+1 {
			t.Fatalf("attempt numbers = %v, want 1..%d", numbers, len(numbers))
		}
	}
}

func TestRegisterAttemptRejectsFinishedGame(t *testing.T) {
	db := newTestDB(t)
	today := day("2024-03-10")
	player, secret, others := seedGameFixtures(t, db, today)
	eng := newTestEngine(t, db, 10)

	if _, err := eng.RegisterAttempt(player.ID, today, secret); err != nil {
		t.Fatalf("winning attempt: %v", err)
	}

	_, err := eng.RegisterAttempt(player.ID, today, others[0])
	if !errors.Is(err, ErrGameAlreadyFinished) {
		t.Fatalf("err = %v, want ErrGameAlreadyFinished", err)
	}

	var count int64
	db.Model(&models.Attempt{}).Count(&count)
	if count != 1 {
		t.Errorf("attempt rows = %d, want 1 (no attempt after finish)", count)
	}
}

func TestRegisterAttemptOverflowCommitsLostTransition(t *testing.T) {
	db := newTestDB(t)
	today := day("2024-03-10")
	player, secret, others := seedGameFixtures(t, db, today)
	eng := newTestEngine(t, db, 2)

	// An overflowed game stuck IN_PROGRESS: two attempts already stored
	g := models.Game{
		PlayerID:      player.ID,
		GameDate:      models.DateKey(today),
		SecretMovieID: secret.ID,
		Status:        models.GameInProgress,
		MaxAttempts:   2,
	}
	if err := db.Create(&g).Error; err != nil {
		t.Fatalf("seed game: %v", err)
	}
	for i, m := range others[:2] {
		if err := db.Create(&models.Attempt{GameID: g.ID, MovieID: m.ID, Number: i + 1}).Error; err != nil {
			t.Fatalf("seed attempt: %v", err)
		}
	}

	_, err := eng.RegisterAttempt(player.ID, today, others[2])
	if !errors.Is(err, ErrAttemptLimitExceeded) {
		t.Fatalf("err = %v, want ErrAttemptLimitExceeded", err)
	}

	var reloaded models.Game
	db.First(&reloaded, g.ID)
	if reloaded.Status != models.GameLost {
		t.Errorf("status = %s, want LOST committed despite the rejection", reloaded.Status)
	}
	var count int64
	db.Model(&models.Attempt{}).Where("game_id = ?", g.ID).Count(&count)
	if count != 2 {
		t.Errorf("attempt rows = %d, want 2 (overflowing attempt not persisted)", count)
	}
}

func TestRegisterAttemptSingleGamePerDay(t *testing.T) {
	db := newTestDB(t)
	today := day("2024-03-10")
	player, _, others := seedGameFixtures(t, db, today)
	eng := newTestEngine(t, db, 10)

	for _, m := range others[:2] {
		if _, err := eng.RegisterAttempt(player.ID, today, m); err != nil {
			t.Fatalf("attempt: %v", err)
		}
	}

	var games int64
	db.Model(&models.Game{}).Where("player_id = ?", player.ID).Count(&games)
	if games != 1 {
		t.Errorf("games = %d, want exactly 1 per (player, date)", games)
	}
}

func TestRegisterAttemptFeedbackPersistedWithAttempt(t *testing.T) {
	db := newTestDB(t)
	today := day("2024-03-10")
	player, _, others := seedGameFixtures(t, db, today)
	eng := newTestEngine(t, db, 10)

	if _, err := eng.RegisterAttempt(player.ID, today, others[0]); err != nil {
		t.Fatalf("attempt: %v", err)
	}

	var attempts, feedbacks int64
	db.Model(&models.Attempt{}).Count(&attempts)
	db.Model(&models.Feedback{}).Count(&feedbacks)
	if attempts != feedbacks {
		t.Errorf("attempts=%d feedbacks=%d, want one feedback per attempt", attempts, feedbacks)
	}
}

func TestRegisterAttemptConsecutiveWinsExtendStreak(t *testing.T) {
	db := newTestDB(t)
	player := seedPlayer(t, db)
	secret := seedMovie(t, db, models.Movie{Title: "Heat", Year: 1995, Genres: "Crime", Director: "Michael Mann", Actors: "Al Pacino"})
	eng := newTestEngine(t, db, 10)

	// Win on two non-adjacent days; streak still extends
	for _, d := range []string{"2024-03-10", "2024-03-14"} {
		seedPick(t, db, d, secret.ID)
		res, err := eng.RegisterAttempt(player.ID, day(d), secret)
		if err != nil {
			t.Fatalf("win on %s: %v", d, err)
		}
		if res.GameStatus != models.GameWon {
			t.Fatalf("status on %s = %s, want WON", d, res.GameStatus)
		}
	}

	var p models.Player
	db.First(&p, player.ID)
	if p.CurrentStreak != 2 || p.MaxStreak != 2 {
		t.Errorf("streaks = (%d, %d), want (2, 2)", p.CurrentStreak, p.MaxStreak)
	}
}
