package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/movidle/movidle/game"
	"github.com/movidle/movidle/models"
	"github.com/movidle/movidle/utils"
)

// AdminController lets administrators curate the daily pick and watch the
// day's play.
type AdminController struct {
	db       *gorm.DB
	catalog  *game.Catalog
	selector *game.Selector
}

// NewAdminController wires the controller.
func NewAdminController(db *gorm.DB, catalog *game.Catalog, selector *game.Selector) *AdminController {
	return &AdminController{db: db, catalog: catalog, selector: selector}
}

// SetDailyPick creates or replaces the secret movie for a date (today when
// omitted). Replacing a pick does not touch games already created from it;
// a game keeps the secret it started with.
func (a *AdminController) SetDailyPick(ctx *gin.Context) {
	type request struct {
		MovieID uint   `json:"movie_id" binding:"required"`
		Date    string `json:"date"` // YYYY-MM-DD, defaults to today
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40060, "invalid request payload")
		return
	}

	dateKey := models.DateKey(time.Now())
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40061, "date must be YYYY-MM-DD")
			return
		}
		dateKey = models.DateKey(parsed)
	}

	movie, err := a.catalog.GetMovie(req.MovieID)
	if err != nil {
		if errors.Is(err, game.ErrMovieNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40412, "movie not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50060, "failed to load movie")
		return
	}
	if !movie.Playable() {
		utils.Error(ctx, http.StatusBadRequest, 40062, "movie lacks the data needed to be played")
		return
	}

	pick := models.DailyPick{PickDate: dateKey, MovieID: movie.ID}
	if err := a.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "pick_date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"movie_id": movie.ID, "updated_at": time.Now()}),
	}).Create(&pick).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50061, "failed to save daily pick")
		return
	}

	utils.InvalidateByPrefix("cache:admin:dashboard:")
	utils.Sugar.Infow("daily pick set", "date", dateKey, "movie_id", movie.ID, "title", movie.Title)

	utils.Success(ctx, gin.H{
		"pick_date": dateKey,
		"movie":     gin.H{"id": movie.ID, "title": movie.Title, "year": movie.Year},
	})
}

// Dashboard reports today's secret and play metrics: games, attempts, win
// rate, and the most guessed titles.
func (a *AdminController) Dashboard(ctx *gin.Context) {
	today := time.Now()
	dateKey := models.DateKey(today)

	cacheKey := "cache:admin:dashboard:" + dateKey
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	var secret gin.H
	if movie, err := a.selector.SecretForDate(today); err == nil {
		secret = gin.H{"id": movie.ID, "title": movie.Title, "year": movie.Year}
	}

	var totalGames, wonGames, totalAttempts int64
	if err := a.db.Model(&models.Game{}).Where("game_date = ?", dateKey).Count(&totalGames).Error; err != nil {
		totalGames = 0
	}
	if err := a.db.Model(&models.Game{}).
		Where("game_date = ? AND status = ?", dateKey, models.GameWon).
		Count(&wonGames).Error; err != nil {
		wonGames = 0
	}
	if err := a.db.Model(&models.Attempt{}).
		Joins("JOIN games ON games.id = attempts.game_id").
		Where("games.game_date = ?", dateKey).
		Count(&totalAttempts).Error; err != nil {
		totalAttempts = 0
	}

	winRate := 0.0
	if totalGames > 0 {
		winRate = float64(wonGames) * 100 / float64(totalGames)
	}

	type topGuess struct {
		Title string `json:"title"`
		Count int64  `json:"count"`
	}
	var topGuesses []topGuess
	if err := a.db.Model(&models.Attempt{}).
		Select("movies.title AS title, COUNT(attempts.id) AS count").
		Joins("JOIN games ON games.id = attempts.game_id").
		Joins("JOIN movies ON movies.id = attempts.movie_id").
		Where("games.game_date = ?", dateKey).
		Group("movies.title").
		Order("count DESC").
		Limit(10).
		Scan(&topGuesses).Error; err != nil {
		topGuesses = nil
	}

	payload := gin.H{
		"date":           dateKey,
		"secret":         secret,
		"total_games":    totalGames,
		"won_games":      wonGames,
		"total_attempts": totalAttempts,
		"win_rate":       winRate,
		"top_guesses":    topGuesses,
	}
	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: payload}
	utils.CacheSetJSON(cacheKey, wrapper, time.Minute)
	utils.Success(ctx, payload)
}
