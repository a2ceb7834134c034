package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/movidle/movidle/game"
	"github.com/movidle/movidle/models"
	"github.com/movidle/movidle/utils"
)

// GameController exposes the daily game: registering attempts and reading
// the current game state.
type GameController struct {
	db      *gorm.DB
	engine  *game.Engine
	catalog *game.Catalog
}

// NewGameController wires the controller.
func NewGameController(db *gorm.DB, engine *game.Engine, catalog *game.Catalog) *GameController {
	return &GameController{db: db, engine: engine, catalog: catalog}
}

// RegisterAttempt records one guess for the authenticated player's game of
// the day. The guess is given either as a movie id or as a title with an
// optional year.
func (g *GameController) RegisterAttempt(ctx *gin.Context) {
	type request struct {
		MovieID *uint  `json:"movie_id"`
		Title   string `json:"title"`
		Year    *int   `json:"year"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "invalid request payload")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	player, err := playerForUser(g.db, userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to load player profile")
		return
	}

	var guess *models.Movie
	switch {
	case req.MovieID != nil:
		guess, err = g.catalog.GetMovie(*req.MovieID)
	case req.Title != "":
		guess, err = g.catalog.FindByTitle(req.Title, req.Year)
	default:
		utils.Error(ctx, http.StatusBadRequest, 40011, "movie_id or title is required")
		return
	}
	if err != nil {
		if errors.Is(err, game.ErrMovieNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40411, "movie not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50011, "failed to resolve movie")
		return
	}

	today := time.Now()
	result, err := g.engine.RegisterAttempt(player.ID, today, *guess)
	if err != nil {
		g.respondAttemptError(ctx, err, player.ID, today)
		return
	}

	if result.GameStatus != models.GameInProgress {
		utils.Sugar.Infow("game resolved",
			"player_id", player.ID,
			"status", result.GameStatus,
			"attempts", result.AttemptNumber,
		)
	}
	utils.Success(ctx, result)
}

// GameState returns the authenticated player's game of the day including
// all attempts with their feedback.
func (g *GameController) GameState(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	player, err := playerForUser(g.db, userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50012, "failed to load player profile")
		return
	}

	state, err := g.statePayload(player.ID, time.Now())
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50013, "failed to load game state")
		return
	}
	utils.Success(ctx, state)
}

// respondAttemptError maps engine errors to the API contract: rule
// violations answer 200 with the current game state attached, configuration
// absence blocks with 409, anything else is a server error.
func (g *GameController) respondAttemptError(ctx *gin.Context, err error, playerID uint, day time.Time) {
	switch {
	case errors.Is(err, game.ErrNoMovieAvailable):
		utils.Error(ctx, http.StatusConflict, 40902, err.Error())
	case errors.Is(err, game.ErrNoSelectionConfigured):
		utils.Error(ctx, http.StatusConflict, 40903, err.Error())
	case errors.Is(err, game.ErrGameAlreadyFinished),
		errors.Is(err, game.ErrDuplicateGuess),
		errors.Is(err, game.ErrAttemptLimitExceeded):
		state, serr := g.statePayload(playerID, day)
		if serr != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50014, "failed to load game state")
			return
		}
		utils.ErrorWithData(ctx, http.StatusOK, 40030, err.Error(), state)
	default:
		utils.Error(ctx, http.StatusInternalServerError, 50015, "failed to register attempt")
	}
}

// statePayload shapes today's game for the client. A day with no game yet
// reports a fresh board so the UI can render before the first guess.
func (g *GameController) statePayload(playerID uint, day time.Time) (gin.H, error) {
	maxAttempts := g.engine.Rules().MaxAttempts

	var gm models.Game
	err := g.db.Preload("SecretMovie").
		Preload("Attempts", func(db *gorm.DB) *gorm.DB { return db.Order("attempt_number") }).
		Preload("Attempts.Movie").
		Preload("Attempts.Feedback").
		Where("player_id = ? AND game_date = ?", playerID, models.DateKey(day)).
		First(&gm).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return gin.H{
			"started":            false,
			"status":             models.GameInProgress,
			"attempts":           []models.Attempt{},
			"max_attempts":       maxAttempts,
			"attempts_remaining": maxAttempts,
		}, nil
	}
	if err != nil {
		return nil, err
	}

	remaining := gm.MaxAttempts - len(gm.Attempts)
	if remaining < 0 || gm.Status != models.GameInProgress {
		remaining = 0
	}

	payload := gin.H{
		"started":            true,
		"status":             gm.Status,
		"attempts":           gm.Attempts,
		"max_attempts":       gm.MaxAttempts,
		"attempts_remaining": remaining,
	}
	if gm.Status != models.GameInProgress {
		payload["reveal"] = game.Reveal{
			Title:     gm.SecretMovie.Title,
			Year:      gm.SecretMovie.Year,
			PosterURL: gm.SecretMovie.PosterURL,
		}
	}
	return payload, nil
}
