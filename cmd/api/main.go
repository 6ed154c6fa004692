package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/dawerha/dawerha-api/internal/api"
	"github.com/dawerha/dawerha-api/internal/api/snapshot"
	"github.com/dawerha/dawerha-api/internal/core/service"
	"github.com/dawerha/dawerha-api/internal/infrastructure/config"
	mongodb "github.com/dawerha/dawerha-api/internal/infrastructure/db/mongo"
	redisdb "github.com/dawerha/dawerha-api/internal/infrastructure/db/redis"
	"github.com/dawerha/dawerha-api/internal/infrastructure/scheduler"
	"github.com/dawerha/dawerha-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: !cfg.Production(),
	})
	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("dawerha api starting")

	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	// --- Repositories ---
	credentialRepo := mongodb.NewCredentialRepository(db)
	sessionRepo := mongodb.NewSessionRepository(db)
	companyRepo := mongodb.NewCompanyRepository(db)
	scheduleRepo := mongodb.NewScheduleRepository(db)
	spinRepo := mongodb.NewSpinRepository(db)
	influencerRepo := mongodb.NewInfluencerRepository(db)
	participantRepo := mongodb.NewParticipantRepository(db)

	for name, ensure := range map[string]func(context.Context) error{
		"companies":    companyRepo.EnsureIndexes,
		"sessions":     sessionRepo.EnsureIndexes,
		"game_spins":   spinRepo.EnsureIndexes,
		"influencers":  influencerRepo.EnsureIndexes,
		"participants": participantRepo.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			log.Fatal().Err(err).Str("collection", name).Msg("index creation failed")
		}
	}

	// --- Services ---
	authService := service.NewAuthService(credentialRepo, sessionRepo, companyRepo, log)
	companyService := service.NewCompanyService(companyRepo, scheduleRepo, log)
	spinGuard := redisdb.NewSpinGuard(rdb, cfg.Game.SpinCooldown)
	gameService := service.NewGameService(companyRepo, spinRepo, spinGuard, log)
	influencerService := service.NewInfluencerService(influencerRepo, participantRepo, log)

	// --- Background sweep ---
	scheduler.New(companyService, authService, cfg.Scheduler.SweepInterval, log).Start(ctx)

	// --- HTTP ---
	e := api.NewRouter(api.Dependencies{
		AuthService:       authService,
		CompanyService:    companyService,
		GameService:       gameService,
		InfluencerService: influencerService,
		Codec:             snapshot.NewCodec(cfg.SessionSecret),
		Mongo:             db,
		Redis:             rdb,
		Logger:            log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server start failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}
	log.Info().Msg("shutdown complete")
}
