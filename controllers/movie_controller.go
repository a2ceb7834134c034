package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/movidle/movidle/game"
	"github.com/movidle/movidle/utils"
)

// MovieController serves the public catalog surface: title autocomplete for
// the guess box and the playable-movie listing.
type MovieController struct {
	db      *gorm.DB
	catalog *game.Catalog
}

// NewMovieController wires the controller.
func NewMovieController(db *gorm.DB, catalog *game.Catalog) *MovieController {
	return &MovieController{db: db, catalog: catalog}
}

// Autocomplete suggests movie titles for a query. Responses are cached;
// the catalog only changes through offline ingestion, so a short TTL is
// enough to keep suggestions fresh.
func (m *MovieController) Autocomplete(ctx *gin.Context) {
	q := strings.TrimSpace(ctx.Query("q"))
	limit := 20
	if v := strings.TrimSpace(ctx.Query("limit")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 50 {
			limit = n
		}
	}

	if q == "" {
		utils.Success(ctx, gin.H{"results": []game.AutocompleteItem{}})
		return
	}

	cacheKey := fmt.Sprintf("cache:movies:ac:q=%s:limit=%d", strings.ToLower(q), limit)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	results, err := m.catalog.Autocomplete(q, limit)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to search movies")
		return
	}

	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: gin.H{"results": results}}
	utils.CacheSetJSON(cacheKey, wrapper, 10*time.Minute)
	utils.Success(ctx, gin.H{"results": results})
}

// ListMovies returns a paginated listing of playable movies, best-known
// first.
func (m *MovieController) ListMovies(ctx *gin.Context) {
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))

	cacheKey := fmt.Sprintf("cache:movies:list:page=%d:size=%d", page, pageSize)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	movies, total, err := m.catalog.ListPlayable(page, pageSize)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to list movies")
		return
	}

	payload := gin.H{
		"items": movies,
		"pagination": gin.H{
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": int((total + int64(pageSize) - 1) / int64(pageSize)),
		},
	}
	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: payload}
	utils.CacheSetJSON(cacheKey, wrapper, time.Hour)
	utils.Success(ctx, payload)
}

func parsePagination(pageStr, sizeStr string) (int, int) {
	page, pageSize := 1, 20
	if v := strings.TrimSpace(pageStr); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	if v := strings.TrimSpace(sizeStr); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			pageSize = n
		}
	}
	return page, pageSize
}
