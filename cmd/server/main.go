package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/venue-price-board/internal/board"
	"github.com/iliyamo/venue-price-board/internal/config"
	"github.com/iliyamo/venue-price-board/internal/database"
	"github.com/iliyamo/venue-price-board/internal/handler"
	"github.com/iliyamo/venue-price-board/internal/middleware"
	"github.com/iliyamo/venue-price-board/internal/queue"
	"github.com/iliyamo/venue-price-board/internal/repository"
	"github.com/iliyamo/venue-price-board/internal/router"
	"github.com/iliyamo/venue-price-board/internal/service"
	"github.com/iliyamo/venue-price-board/internal/utils"
	"github.com/iliyamo/venue-price-board/internal/version"
)

func main() {
	config.LoadDotEnv()
	cfg := config.Load()
	logger := config.NewLogger(cfg.LogLevel, cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, db := openStore(ctx, cfg, logger)
	if db != nil {
		defer db.Close()
	}

	rdb := config.NewRedisClient(config.LoadRedisConfig())
	if rdb != nil {
		defer rdb.Close()
	}
	tracker := newTracker(rdb, logger)

	var pub service.EventPublisher = service.NopPublisher{}
	if cfg.AMQPEnabled {
		pub = &service.AMQPPublisher{URL: cfg.AMQPURL, Log: logger}
		consumer := &queue.Consumer{URL: cfg.AMQPURL, Dir: "logs", Log: logger}
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.WithError(err).Error("board change consumer stopped")
			}
		}()
	}

	clock := board.SystemClock{Location: cfg.Location}
	svc := service.NewBoardService(store, tracker, pub, clock, logger)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(logger))

	publicLimit := middleware.NewTokenBucket(config.LoadRateLimitConfig("PUBLIC", 120, time.Second), rdb, logger)
	adminLimit := middleware.NewTokenBucket(config.LoadRateLimitConfig("ADMIN", 30, 2*time.Second), rdb, logger)
	authLimit := middleware.NewTokenBucket(config.LoadRateLimitConfig("AUTH", 5, time.Minute), rdb, logger)
	cache := middleware.NewBoardCache(config.LoadCacheConfig(), rdb, svc.Version, clock.Now)

	authH := &handler.AuthHandler{
		Creds:     utils.Credentials{Username: cfg.AdminUsername, PasswordHash: cfg.AdminPasswordHash},
		JWTSecret: cfg.JWTSecret,
		TTLMin:    cfg.AccessTTLMin,
		Now:       time.Now,
		Log:       logger,
	}
	boardH := handler.NewBoardHandler(svc, logger)
	adminH := handler.NewAdminHandler(svc, logger)
	liveH := handler.NewLiveHandler(svc, logger)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret, authLimit)
	router.RegisterPublic(e, boardH, liveH, publicLimit, cache)
	router.RegisterAdmin(e, adminH, cfg.JWTSecret, adminLimit)
	router.RegisterMaintenance(e, adminH, cfg.AdminAPIKey, authLimit)

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "If-None-Match", "X-API-Key"},
		ExposedHeaders: []string{"ETag", "X-Cache", "Retry-After"},
	})
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           c.Handler(e),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Warn("shutdown")
		}
	}()

	logger.WithFields(logrus.Fields{
		"addr":     srv.Addr,
		"env":      cfg.Env,
		"timezone": cfg.Location.String(),
		"redis":    rdb != nil,
		"amqp":     cfg.AMQPEnabled,
	}).Info("listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Fatal("server failed")
	}
}

// openStore connects to MySQL, creates missing tables and seeds empty ones.
// Without DB_HOST the board runs on the in-memory store.
func openStore(ctx context.Context, cfg config.Config, logger *logrus.Logger) (service.Store, *sql.DB) {
	if !cfg.UseDatabase() {
		logger.Warn("DB_HOST not set, using in-memory store; edits are lost on restart")
		return repository.NewMemoryStore(), nil
	}
	db, err := database.Open(database.Options{
		User: cfg.DBUser,
		Pass: cfg.DBPass,
		Host: cfg.DBHost,
		Port: cfg.DBPort,
		Name: cfg.DBName,
	})
	if err != nil {
		logger.WithError(err).Fatal("connect to MySQL")
	}
	if err := database.Migrate(ctx, db); err != nil {
		logger.WithError(err).Fatal("migrate")
	}
	store := repository.NewSQLStore(db)
	if err := store.Seed(ctx); err != nil {
		logger.WithError(err).Fatal("seed")
	}
	return store, db
}

func newTracker(rdb *redis.Client, logger *logrus.Logger) version.Tracker {
	if rdb == nil {
		logger.Warn("Redis unavailable, board version is tracked in process")
		return version.NewMemory()
	}
	return version.NewRedis(rdb, logger)
}
