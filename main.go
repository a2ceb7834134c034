package main

import (
	"github.com/movidle/movidle/config"
	"github.com/movidle/movidle/models"
	"github.com/movidle/movidle/routes"
	"github.com/movidle/movidle/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.User{},
		&models.Player{},
		&models.Movie{},
		&models.DailyPick{},
		&models.Game{},
		&models.Attempt{},
		&models.Feedback{},
	)

	r := routes.SetupRouter(db)

	utils.Sugar.Infof("Starting server on port %s", cfg.AppPort)
	if err := utils.RunServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
