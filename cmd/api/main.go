package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/printq/printq-backend/internal/config"
	"github.com/printq/printq-backend/internal/logger"
	"github.com/printq/printq-backend/internal/modules/admin"
	"github.com/printq/printq-backend/internal/modules/auth"
	"github.com/printq/printq-backend/internal/modules/pricing"
	"github.com/printq/printq-backend/internal/modules/printjob"
	"github.com/printq/printq-backend/internal/modules/shop"
	"github.com/printq/printq-backend/internal/modules/user"
	"github.com/printq/printq-backend/internal/notify"
	"github.com/printq/printq-backend/internal/pdfutil"
	"github.com/printq/printq-backend/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	slogger := logger.New(cfg.LogLevel)

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatal(err)
	}
	slogger.Info("connected to database")

	store, err := storage.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	if err := store.EnsureBucket(context.Background()); err != nil {
		log.Fatal(err)
	}

	events, err := notify.NewAMQPBroadcaster(cfg.AMQPURL, cfg.EventsExchange, slogger)
	if err != nil {
		log.Fatal(err)
	}
	defer events.Close()

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)

	// ── Identity ────────────────────────────────────────────
	userRepo := user.NewPostgresRepository(db)
	userService := user.NewService(userRepo)
	user.NewHandler(userService).RegisterRoutes(router)

	authService := auth.NewService(userRepo, cfg.JWTSecret)
	auth.NewHandler(authService).RegisterRoutes(router)

	// ── Shops ───────────────────────────────────────────────
	shopRepo := shop.NewPostgresRepository(db)
	shopService := shop.NewService(shopRepo, userRepo, store, cfg.FrontendURL, slogger)
	shop.NewHandler(shopService).RegisterRoutes(router)

	// ── Pricing ─────────────────────────────────────────────
	pricingRepo := pricing.NewPostgresRepository(db)
	pricingService := pricing.NewService(pricingRepo)
	pricing.NewHandler(pricingService).RegisterRoutes(router)

	// ── Print jobs ──────────────────────────────────────────
	jobRepo := printjob.NewPostgresRepository(db)
	jobService, err := printjob.NewService(jobRepo, pricingService, store, pdfutil.Counter{}, events, slogger)
	if err != nil {
		log.Fatal(err)
	}
	printjob.NewHandler(jobService).RegisterRoutes(router)

	// ── Administration ──────────────────────────────────────
	adminRepo := admin.NewPostgresRepository(db)
	adminService := admin.NewService(adminRepo, store, slogger)
	admin.NewHandler(adminService, cfg.JWTSecret).RegisterRoutes(router)

	// ── Start Server ────────────────────────────────────────
	slogger.Info("api server starting", "port", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, router))
}
