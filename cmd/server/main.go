package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/rakhadimas/field-reservation/internal/config"
	"github.com/rakhadimas/field-reservation/internal/database"
	"github.com/rakhadimas/field-reservation/internal/handler"
	"github.com/rakhadimas/field-reservation/internal/middleware"
	"github.com/rakhadimas/field-reservation/internal/queue"
	"github.com/rakhadimas/field-reservation/internal/repository"
	"github.com/rakhadimas/field-reservation/internal/router"
)

func main() {
	// Load .env if present; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connect failed: %v", err)
	}
	defer func() { _ = db.Close() }()

	// Repositories
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	fieldRepo := repository.NewFieldRepo(db)
	memberRepo := repository.NewMemberScheduleRepo(db)
	reservationRepo := repository.NewReservationRepo(db)

	// Handlers
	authHandler := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	publicHandler := handler.NewPublicHandler(fieldRepo, memberRepo, reservationRepo)
	reservationHandler := handler.NewReservationHandler(fieldRepo, reservationRepo)
	fieldHandler := handler.NewFieldHandler(fieldRepo)
	memberHandler := handler.NewMemberHandler(fieldRepo, memberRepo)
	adminResHandler := handler.NewAdminReservationHandler(fieldRepo, reservationRepo)

	e := echo.New()

	// Redis backs the rate limiter (global) and the availability response
	// cache.  Clients poll the grid, so a short cache TTL takes real load
	// off the database without serving stale slots for long.
	rdb := config.NewRedisClient()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	availabilityCache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterPublic(e, publicHandler, availabilityCache)
	router.RegisterCustomer(e, reservationHandler, cfg.JWTSecret)
	router.RegisterAdmin(e, fieldHandler, memberHandler, adminResHandler, cfg.JWTSecret)

	// Background consumer turns reservation events into notification log lines.
	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("reservation consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
