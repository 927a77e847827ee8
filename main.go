package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/cppla/homelab/config"
	"github.com/cppla/homelab/models"
	"github.com/cppla/homelab/routes"
	"github.com/cppla/homelab/store"
	"github.com/cppla/homelab/utils"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to the JSON config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = utils.Logger.Sync() }()

	dbs, err := config.InitDatabases(cfg)
	if err != nil {
		utils.Sugar.Fatalf("database init failed: %v", err)
	}

	visits := store.NewVisits(dbs.Homelab)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := visits.EnsurePages(ctx, models.TrackedPages...); err != nil {
		utils.Sugar.Warnf("seeding page counters failed: %v", err)
	}
	cancel()

	rc := utils.NewRedis(cfg)
	cache := utils.NewCache(rc, cfg.CacheTTL())

	petitions := store.NewPetitions(dbs.Petitions).WithItemCache(cache)
	r := routes.SetupRouter(cfg, petitions, visits, cache)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	err = utils.GraceServer(":"+cfg.AppPort, r, func() {
		if rc != nil {
			_ = rc.Close()
		}
		dbs.Close()
	})
	if err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
