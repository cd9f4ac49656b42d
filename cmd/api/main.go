package main

import (
	"os"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"recipe-api/internal/bootstrap"
	"recipe-api/internal/core/config"
	"recipe-api/internal/core/database"
	"recipe-api/internal/core/server"
	"recipe-api/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := bootstrap.Logger(cfg)
	defer cleanup()

	db, err := bootstrap.OpenDB(cfg, log)
	if err != nil {
		log.Fatal("database", zap.Error(err))
	}
	defer func() { _ = database.Close(db) }()
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	r := router.NewAPIEngine(log, bootstrap.Services(cfg, db, log), bootstrap.Guards(cfg))

	h := cfg.App.HTTP
	srv := server.BuildServer(
		server.Addr(h.Host, h.Port), r,
		time.Duration(h.ReadTimeoutSec)*time.Second,
		time.Duration(h.WriteTimeoutSec)*time.Second,
		time.Duration(h.IdleTimeoutSec)*time.Second,
		log,
	)

	baseURL := server.HumanURL(h.Host, h.Port)
	log.Info("recipe api starting",
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("api", baseURL+"/api"),
	)
	server.Run(srv, log, "recipe api", 10*time.Second)
}
