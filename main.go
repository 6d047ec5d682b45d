package main

import (
	"flag"
	"log"

	"weblog/config"
	"weblog/routes"
	"weblog/seed"
	"weblog/utils"
)

func main() {
	runSeed := flag.Bool("seed", false, "insert demo users, posts and comments, then exit")
	configPath := flag.String("config", "config/config.json", "path to JSON configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	if err := utils.InitLogger(cfg); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer utils.Logger.Sync()

	db, err := config.OpenDatabase(cfg)
	if err != nil {
		utils.Sugar.Fatalf("failed to open database: %v", err)
	}

	if *runSeed {
		if err := seed.Run(db); err != nil {
			utils.Sugar.Fatalf("seeding failed: %v", err)
		}
		// Listing caches built before the seed ran are stale now.
		utils.NewCache(utils.NewRedis(cfg)).InvalidateByPrefix("cache:posts:")
		utils.Sugar.Info("database seeded")
		return
	}

	r := routes.SetupRouter(db, cfg)

	utils.Sugar.Infof("starting server on port %s", cfg.AppPort)
	if err := utils.RunServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
