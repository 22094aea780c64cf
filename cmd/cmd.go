package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crewlink-backend/internal/config"
	"crewlink-backend/internal/handlers"
	"crewlink-backend/internal/middleware"
	"crewlink-backend/internal/repository"
	"crewlink-backend/internal/seed"
	"crewlink-backend/internal/services"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Run() {
	// .env is optional; secrets in it override config.yaml values
	_ = godotenv.Load()

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	setupLogger(cfg.Log.Level)

	db, err := pgxpool.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Database connection established")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	portRepo := repository.NewPortDeclarationRepository(db)
	connectionRepo := repository.NewConnectionRepository(db)
	checkInRepo := repository.NewCheckInRepository(db)
	photoRepo := repository.NewPhotoRepository(db)

	// Initialize services
	userService := services.NewUserService(userRepo, cfg.JWT.Secret)
	assignmentService := services.NewAssignmentService(assignmentRepo)
	portLinkService := services.NewPortLinkService(portRepo)
	visibilityService := services.NewVisibilityService(userRepo, portRepo)
	connectionService := services.NewConnectionService(connectionRepo)
	checkInService := services.NewCheckInService(userRepo, checkInRepo)
	photoService, err := services.NewPhotoService(
		photoRepo,
		userRepo,
		cfg.AWS.Region,
		cfg.AWS.S3Bucket,
		cfg.AWS.AccessKey,
		cfg.AWS.SecretKey,
		cfg.AWS.Endpoint,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create photo service")
	}
	wsHub := services.NewWSHub()

	if cfg.Dev.Seed {
		if err := seed.Run(context.Background(), userRepo, assignmentRepo, portRepo); err != nil {
			log.Error().Err(err).Msg("Failed to seed dev data")
		}
	}

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService)
	assignmentHandler := handlers.NewAssignmentHandler(assignmentService)
	portHandler := handlers.NewPortHandler(portLinkService, userService, wsHub)
	visibilityHandler := handlers.NewVisibilityHandler(visibilityService, connectionService)
	connectionHandler := handlers.NewConnectionHandler(connectionService, wsHub)
	checkInHandler := handlers.NewCheckInHandler(checkInService)
	photoHandler := handlers.NewPhotoHandler(photoService)
	wsHandler := handlers.NewWebSocketHandler(wsHub, userService, checkInService)

	// Setup router
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/auth/register", userHandler.Register)
		r.Post("/auth/login", userHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(userService))

			r.Get("/profile", userHandler.GetProfile)
			r.Put("/profile", userHandler.UpdateProfile)
			r.Delete("/profile", userHandler.Deactivate)
			r.Post("/profile/photo", photoHandler.UploadPhoto)
			r.Get("/profile/photo", photoHandler.GetPhoto)

			r.Post("/assignments", assignmentHandler.Create)
			r.Get("/assignments", assignmentHandler.List)
			r.Put("/assignments/{assignment_id}", assignmentHandler.Update)
			r.Post("/assignments/{assignment_id}/cancel", assignmentHandler.Cancel)
			r.Delete("/assignments/{assignment_id}", assignmentHandler.Delete)

			r.Post("/ports/declarations", portHandler.Declare)
			r.Get("/ports/declarations", portHandler.List)
			r.Delete("/ports/declarations/{declaration_id}", portHandler.Withdraw)

			r.Get("/visibility", visibilityHandler.List)

			r.Post("/connections/requests", connectionHandler.Send)
			r.Get("/connections/requests/incoming", connectionHandler.ListIncoming)
			r.Get("/connections/requests/outgoing", connectionHandler.ListOutgoing)
			r.Post("/connections/requests/{request_id}/accept", connectionHandler.Accept)
			r.Post("/connections/requests/{request_id}/decline", connectionHandler.Decline)
			r.Delete("/connections/requests/{request_id}", connectionHandler.Withdraw)
			r.Get("/connections", connectionHandler.ListConnections)
			r.Get("/connections/status/{user_id}", connectionHandler.Status)
			r.Delete("/connections/{user_id}", connectionHandler.Disconnect)

			r.Get("/checkin", checkInHandler.Status)
			r.Post("/checkin", checkInHandler.Confirm)
		})
	})

	// WebSocket route
	r.Get("/ws", wsHandler.HandleWebSocket)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

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
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
