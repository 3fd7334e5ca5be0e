package main

import (
	"context"
	"flag"
	"log"

	"go.uber.org/zap"

	"github.com/spec-kit/laundry-service/internal/config"
	"github.com/spec-kit/laundry-service/internal/docstore"
	"github.com/spec-kit/laundry-service/internal/observability"
	"github.com/spec-kit/laundry-service/internal/persistence"
	"github.com/spec-kit/laundry-service/internal/repository"
	"github.com/spec-kit/laundry-service/internal/service"
)

// seedoperator creates an operator account so the API has a first login.
func main() {
	name := flag.String("name", "", "operator display name")
	mail := flag.String("mail", "", "operator login mail")
	password := flag.String("password", "", "operator password")
	flag.Parse()

	if *name == "" || *mail == "" || *password == "" {
		log.Fatal("usage: seedoperator -name NAME -mail MAIL -password PASSWORD")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	store := docstore.NewPostgresStore(pg.PoolHandle(), redis.Client, logger)
	operatorRepo := repository.NewOperatorRepository(store)
	authService := service.NewAuthService(*cfg, operatorRepo)

	id, err := authService.RegisterOperator(ctx, *name, *mail, *password)
	if err != nil {
		logger.Fatal("failed to create operator", zap.Error(err))
	}
	logger.Info("operator created", zap.String("id", id), zap.String("mail", *mail))
}
