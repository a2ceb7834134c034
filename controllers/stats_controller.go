package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/movidle/movidle/models"
	"github.com/movidle/movidle/utils"
)

// StatsController reports per-player game statistics.
type StatsController struct {
	db *gorm.DB
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{db: db}
}

// MyStats returns the authenticated player's record: games won and lost,
// streaks, and the distribution of winning attempt numbers.
func (s *StatsController) MyStats(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	player, err := playerForUser(s.db, userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50070, "failed to load player profile")
		return
	}

	var won, lost int64
	if err := s.db.Model(&models.Game{}).
		Where("player_id = ? AND status = ?", player.ID, models.GameWon).
		Count(&won).Error; err != nil {
		won = 0
	}
	if err := s.db.Model(&models.Game{}).
		Where("player_id = ? AND status = ?", player.ID, models.GameLost).
		Count(&lost).Error; err != nil {
		lost = 0
	}

	// How many games were won on attempt 1, 2, ... for the guess histogram
	type bucket struct {
		AttemptNumber int   `json:"attempt_number"`
		Count         int64 `json:"count"`
	}
	var distribution []bucket
	if err := s.db.Model(&models.Attempt{}).
		Select("attempts.attempt_number AS attempt_number, COUNT(attempts.id) AS count").
		Joins("JOIN games ON games.id = attempts.game_id").
		Joins("JOIN feedbacks ON feedbacks.attempt_id = attempts.id").
		Where("games.player_id = ? AND feedbacks.is_correct = ?", player.ID, true).
		Group("attempts.attempt_number").
		Order("attempts.attempt_number").
		Scan(&distribution).Error; err != nil {
		distribution = nil
	}

	utils.Success(ctx, gin.H{
		"games_won":      won,
		"games_lost":     lost,
		"current_streak": player.CurrentStreak,
		"max_streak":     player.MaxStreak,
		"distribution":   distribution,
	})
}
