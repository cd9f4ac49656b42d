package main

import (
	"context"
	"errors"
	"os"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"recipe-api/internal/bootstrap"
	"recipe-api/internal/core/config"
	"recipe-api/internal/core/database"
	"recipe-api/internal/core/server"
	"recipe-api/internal/domain"
	"recipe-api/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := bootstrap.Logger(cfg)
	defer cleanup()
	log = log.Named("admin")

	db, err := bootstrap.OpenDB(cfg, log)
	if err != nil {
		log.Fatal("database", zap.Error(err))
	}
	defer func() { _ = database.Close(db) }()
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	svc := bootstrap.Services(cfg, db, log)

	if email := cfg.Admin.BootstrapEmail; email != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := svc.Users.SetRoleByEmail(ctx, email, domain.RoleAdmin)
		cancel()
		switch {
		case err == nil:
			log.Info("bootstrap admin granted", zap.String("email", email))
		case errors.Is(err, domain.ErrNotFound):
			log.Warn("bootstrap admin not registered yet", zap.String("email", email))
		default:
			log.Fatal("bootstrap admin", zap.Error(err))
		}
	}

	r := router.NewAdminEngine(log, svc, bootstrap.Guards(cfg))

	a := cfg.App.Admin
	srv := server.BuildServer(server.Addr(a.Host, a.Port), r, 5*time.Second, 10*time.Second, 60*time.Second, log)

	baseURL := server.HumanURL(a.Host, a.Port)
	log.Info("admin api starting",
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("admin_v1", baseURL+"/admin/v1"),
	)
	server.Run(srv, log, "admin api", 10*time.Second)
}
