package game

import "errors"

// Domain errors surfaced to the HTTP layer. Rule violations
// (finished/duplicate/limit) are answered alongside current game state so
// the client can render the right screen; the rest block or 404.
var (
	// ErrNoMovieAvailable: the catalog is empty, the deterministic selector
	// has nothing to pick from.
	ErrNoMovieAvailable = errors.New("no movies available to play")

	// ErrNoSelectionConfigured: curated mode found no pick for the date and
	// no earlier pick to fall back to.
	ErrNoSelectionConfigured = errors.New("no daily movie has been configured")

	// ErrGameAlreadyFinished: today's game is WON or LOST; further attempts
	// are rejected and nothing is persisted.
	ErrGameAlreadyFinished = errors.New("today's game has already finished")

	// ErrDuplicateGuess: the same movie was already guessed in this game.
	ErrDuplicateGuess = errors.New("movie already guessed in this game")

	// ErrAttemptLimitExceeded: the attempt would overflow max attempts; the
	// game is marked LOST and the attempt itself is not persisted.
	ErrAttemptLimitExceeded = errors.New("maximum number of attempts reached")

	// ErrMovieNotFound: the guess could not be resolved to a catalog entry.
	ErrMovieNotFound = errors.New("movie not found")
)
