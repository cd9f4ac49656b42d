// Package bootstrap builds the object graph shared by cmd/api and cmd/admin.
package bootstrap

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"recipe-api/internal/core/auth"
	"recipe-api/internal/core/config"
	"recipe-api/internal/core/database"
	"recipe-api/internal/core/logger"
	"recipe-api/internal/repo"
	"recipe-api/internal/service"
	"recipe-api/internal/transport/http/router"
)

// Logger builds the process logger and routes std log and gin's writers into it.
func Logger(cfg *config.Config) (*zap.Logger, func()) {
	var (
		l       *zap.Logger
		cleanup func()
	)
	if f := cfg.Log.File; f.Enable {
		l, cleanup = logger.NewWithRotate(cfg.Log.Level, cfg.Log.JSON, logger.FileRotate{
			Filename:   f.Filename,
			MaxSizeMB:  f.MaxSizeMB,
			MaxBackups: f.MaxBackups,
			MaxAgeDays: f.MaxAgeDays,
			Compress:   f.Compress,
		})
	} else {
		l, cleanup = logger.New(cfg.Log.Level, cfg.Log.JSON)
	}
	l = l.With(zap.String("app", cfg.App.Name), zap.String("env", cfg.App.Env))

	undo := logger.RedirectStdLog(l, zapcore.InfoLevel)
	if cfg.App.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}
	gin.DefaultWriter = logger.ToWriter(l, zapcore.DebugLevel)
	gin.DefaultErrorWriter = logger.ToWriter(l, zapcore.ErrorLevel)

	return l, func() { undo(); cleanup() }
}

// OpenDB connects and, when db.auto_migrate is set, migrates the schema.
func OpenDB(cfg *config.Config, l *zap.Logger) (*gorm.DB, error) {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Logger:             l,
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			_ = database.Close(db)
			return nil, fmt.Errorf("migrate: %w", err)
		}
		l.Info("automigrate done")
	}
	return db, nil
}

func JWTer(cfg *config.Config) *auth.JWTer {
	return &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}
}

// Services wires stores into services.
func Services(cfg *config.Config, db *gorm.DB, l *zap.Logger) router.Services {
	users := repo.NewUserRepo(db)
	recipes := repo.NewRecipeRepo(db)
	return router.Services{
		Recipes: service.NewRecipeService(recipes, users, l),
		Users:   service.NewUserService(users, l),
		Auth:    service.NewAuthService(users, JWTer(cfg)),
	}
}

func Guards(cfg *config.Config) router.Guards {
	h := cfg.App.HTTP
	return router.Guards{
		MaxInflight:  h.MaxInflight,
		MaxBodyBytes: h.MaxBodyBytes,
		Timeout:      time.Duration(h.TimeoutSec) * time.Second,
	}
}
