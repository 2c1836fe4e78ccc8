package main

import (
	"github.com/devboard/devboard/config"
	"github.com/devboard/devboard/models"
	"github.com/devboard/devboard/routes"
	"github.com/devboard/devboard/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.Like{},
		&models.PageView{},
	)

	r := routes.SetupRouter(db)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.Server.Port)
	if err := utils.GraceServer(":"+cfg.Server.Port, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
