package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pedroaba/fono-api-c317/internal/config"
	"github.com/pedroaba/fono-api-c317/internal/db"
	apihttp "github.com/pedroaba/fono-api-c317/internal/http"
	"github.com/pedroaba/fono-api-c317/internal/repository"
	"github.com/pedroaba/fono-api-c317/internal/service"
	"github.com/pedroaba/fono-api-c317/internal/transcription"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	userRepo := repository.NewPgUserRepository(pool)
	sessionRepo := repository.NewPgSessionRepository(pool)
	pronounceRepo := repository.NewPgPronounceRepository(pool)
	sessionTestRepo := repository.NewPgSessionTestRepository(pool)
	pronounceTestRepo := repository.NewPgPronounceTestRepository(pool)

	var signInLimiter service.SignInRateLimiter
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			signInLimiter = service.NewRedisSignInRateLimiter(redisClient, 10*time.Minute, 10)
		}
		cancel()
	}

	authSvc := service.NewAuthService(logger, userRepo, sessionRepo, cfg.IsProduction())
	userSvc := service.NewUserService(logger, userRepo, sessionRepo)

	transcriptionClient := transcription.NewHTTPClient(cfg.TranscriptionAPIURL, cfg.TranscriptionAPIKey, logger)
	audioLibrary := transcription.NewLibrary(cfg.TestAudioPath, cfg.DefaultAudioFile, cfg.ExpectedTranscription, logger)

	authHandler := apihttp.NewAuthHandler(logger, authSvc, signInLimiter, cfg.CookieDomain, cfg.IsProduction())
	userHandler := apihttp.NewUserHandler(logger, userSvc)
	pronounceHandler := apihttp.NewPronounceHandler(logger, pronounceRepo)
	sessionTestHandler := apihttp.NewSessionTestHandler(logger, sessionTestRepo, userRepo)
	pronounceTestHandler := apihttp.NewPronounceTestHandler(logger, pronounceTestRepo, sessionTestRepo)
	transcriptionHandler := apihttp.NewTranscriptionHandler(logger, transcriptionClient, audioLibrary)

	router := apihttp.NewRouter(
		logger,
		authSvc,
		authHandler,
		userHandler,
		pronounceHandler,
		sessionTestHandler,
		pronounceTestHandler,
		transcriptionHandler,
	)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
