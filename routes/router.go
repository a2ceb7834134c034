package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/movidle/movidle/config"
	"github.com/movidle/movidle/controllers"
	"github.com/movidle/movidle/game"
	"github.com/movidle/movidle/middleware"
	"github.com/movidle/movidle/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.ZapLogger())
	r.Use(middleware.ZapRecovery())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	catalog := game.NewCatalog(db)
	selector := game.NewSelector(db, catalog, cfg.SelectorMode)
	engine := game.NewEngine(db, selector, rulesFromConfig(cfg))

	authController := controllers.NewAuthController(db)
	gameController := controllers.NewGameController(db, engine, catalog)
	movieController := controllers.NewMovieController(db, catalog)
	adminController := controllers.NewAdminController(db, catalog, selector)
	statsController := controllers.NewStatsController(db)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)

	// Public catalog surface
	api.GET("/movies", movieController.ListMovies)
	api.GET("/movies/autocomplete", movieController.Autocomplete)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware())
	protected.POST("/game/attempts", gameController.RegisterAttempt)
	protected.GET("/game/state", gameController.GameState)
	protected.GET("/stats/me", statsController.MyStats)

	admin := api.Group("/admin")
	admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
	admin.PUT("/daily-pick", adminController.SetDailyPick)
	admin.GET("/dashboard", adminController.Dashboard)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}

// rulesFromConfig turns the configured tuning into engine rules, falling
// back to the shipped defaults on a malformed rating band.
func rulesFromConfig(cfg config.AppConfig) game.Rules {
	bands := game.Bands{
		Year:    cfg.YearBand,
		Votes:   int64(cfg.VotesBand),
		Runtime: cfg.RuntimeBand,
	}
	if d, err := decimal.NewFromString(cfg.RatingBand); err == nil {
		bands.Rating = d
	} else {
		bands.Rating = game.DefaultBands().Rating
	}
	return game.Rules{MaxAttempts: cfg.MaxAttempts, Bands: bands}
}
