package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"daily-vibes-backend/internal/config"
	"daily-vibes-backend/internal/handlers"
	"daily-vibes-backend/internal/middleware"
	"daily-vibes-backend/internal/repository"
	"daily-vibes-backend/internal/services"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Run() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	loc, err := cfg.Challenge.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to resolve challenge timezone")
	}

	// Connect to database
	db, err := pgxpool.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Database connection established")

	if err := repository.EnsureSchema(context.Background(), db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database schema")
	}

	// Connect to redis (device registry)
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping redis")
	}
	deviceTTL, err := cfg.Redis.TTL()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse device registry TTL")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	photoRepo := repository.NewPhotoRepository(db)
	challengeRepo := repository.NewChallengeRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	deviceRegistry := repository.NewDeviceRegistry(rdb, deviceTTL)

	// Initialize services
	userService := services.NewUserService(userRepo, cfg.JWT.Secret)
	challengeService := services.NewChallengeService(challengeRepo, loc)
	streakService := services.NewStreakService(userRepo)
	wsHub := services.NewWSHub()

	var pusher *services.Pusher
	if cfg.APNS.Enabled {
		pusher, err = services.NewPusher(cfg.APNS.CertPath, cfg.APNS.CertPassword, cfg.APNS.Topic, cfg.APNS.Production)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create push client")
		}
	}

	notificationService := services.NewNotificationService(notificationRepo, deviceRegistry, wsHub, pusher)
	friendService := services.NewFriendService(userRepo, notificationService)

	photoStore, err := services.NewPhotoStore(
		context.Background(),
		cfg.AWS.Region,
		cfg.AWS.S3Bucket,
		cfg.AWS.AccessKey,
		cfg.AWS.SecretKey,
		cfg.AWS.Endpoint,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create photo store")
	}

	engagementService := services.NewEngagementService(
		photoRepo, userRepo, challengeService, streakService, notificationService, photoStore)

	// Seed the challenge catalogue (no-op unless the table is empty)
	if err := challengeService.Seed(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed challenge catalogue")
	}

	// Daily challenge job
	scheduler := services.NewScheduler(loc, cfg.Challenge.CronSpec, userRepo, challengeService, notificationService)
	if err := scheduler.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start scheduler")
	}

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService)
	challengeHandler := handlers.NewChallengeHandler(challengeService)
	photoHandler := handlers.NewPhotoHandler(engagementService)
	friendHandler := handlers.NewFriendHandler(friendService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	wsHandler := handlers.NewWebSocketHandler(wsHub, userService)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsMiddleware)

	// Routes
	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Post("/auth/register", userHandler.Register)
		r.Post("/auth/login", userHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(userService))

			r.Get("/profile", userHandler.GetProfile)
			r.Post("/profile/image", userHandler.UpdateImage)
			r.Post("/profile/email", userHandler.UpdateEmail)
			r.Post("/profile/password", userHandler.UpdatePassword)
			r.Post("/profile/memories-visibility", userHandler.UpdateMemoriesVisibility)

			r.Get("/challenge/today", challengeHandler.Today)

			r.Post("/photos/upload", photoHandler.Upload)
			r.Get("/photos/today", photoHandler.TodayFeed)
			r.Get("/photos/me/today", photoHandler.MyToday)
			r.Get("/photos/memories", photoHandler.Memories)
			r.Get("/photos/memories/{username}/calendar", photoHandler.MemoryCalendar)
			r.Get("/photos/memories/{username}/{date}", photoHandler.MemoriesForDate)
			r.Post("/photos/like", photoHandler.Like)
			r.Post("/photos/comment", photoHandler.Comment)
			r.Delete("/photos/{photo_id}", photoHandler.Delete)

			r.Get("/friends", friendHandler.List)
			r.Get("/friends/requests", friendHandler.Requests)
			r.Post("/friends/add", friendHandler.Add)
			r.Post("/friends/accept", friendHandler.Accept)
			r.Post("/friends/remove", friendHandler.Remove)

			r.Post("/notifications/register", notificationHandler.RegisterDevice)
			r.Get("/notifications", notificationHandler.List)
			r.Post("/notifications/{id}/read", notificationHandler.MarkRead)
			r.Post("/notifications/read", notificationHandler.Clear)

			// Administrative routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Post("/challenges", challengeHandler.AddChallenge)
				r.Post("/challenges/override", challengeHandler.SetOverride)
			})
		})
	})

	// WebSocket route
	r.Get("/ws", wsHandler.HandleWebSocket)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	scheduler.Stop()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
