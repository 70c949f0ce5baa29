package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/college-site-api/internal/repository"
	"github.com/noah-isme/college-site-api/internal/service"
	"github.com/noah-isme/college-site-api/pkg/config"
	"github.com/noah-isme/college-site-api/pkg/database"
	"github.com/noah-isme/college-site-api/pkg/logger"
)

func main() {
	var (
		email    string
		password string
		name     string
		role     string
		seedPath string
	)
	flag.StringVar(&email, "email", "", "admin email (env ADMIN_EMAIL)")
	flag.StringVar(&password, "password", "", "admin password (env ADMIN_PASSWORD)")
	flag.StringVar(&name, "name", "", "display name (env ADMIN_NAME)")
	flag.StringVar(&role, "role", "", "ADMIN or SUPERADMIN (env ADMIN_ROLE)")
	flag.StringVar(&seedPath, "file", "", "YAML file listing admins to upsert")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	var seeds []adminSeed
	if seedPath != "" {
		seeds, err = loadSeed(seedPath)
		if err != nil {
			logr.Fatal("failed to read seed file", zap.String("path", seedPath), zap.Error(err))
		}
	} else {
		seeds = []adminSeed{seedFromEnv(email, password, name, role, os.Getenv)}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	if err := database.EnsureSchema(ctx, db); err != nil {
		logr.Fatal("failed to ensure schema", zap.Error(err))
	}

	auth := service.NewAuthService(repository.NewUserRepository(db), nil, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})

	failed := 0
	for _, seed := range seeds {
		user, err := auth.EnsureAdmin(ctx, seed.Email, seed.Password, seed.FullName, seed.Role)
		if err != nil {
			failed++
			logr.Error("failed to upsert admin", zap.String("email", seed.Email), zap.Error(err))
			continue
		}
		fmt.Printf("admin ready: %s (%s)\n", user.Email, user.Role)
	}
	if failed > 0 {
		db.Close()
		logr.Sync() //nolint:errcheck
		os.Exit(1)
	}
}
