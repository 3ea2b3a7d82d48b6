package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"polly-api/internal/config"
	"polly-api/internal/container"
	"polly-api/internal/handler"
	"polly-api/internal/middleware"
	"polly-api/pkg/logger"
	"polly-api/pkg/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log.WithFields(map[string]interface{}{
		"port":         cfg.Port,
		"log_level":    cfg.LogLevel,
		"environment":  cfg.Environment,
		"allow_revote": cfg.AllowRevote,
	}).Info("Starting polly-api server")

	ctx := context.Background()
	c, err := container.New(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to create container")
	}

	router := setupRouter(c)

	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	if err := server.Run(srv, log, c.Close); err != nil {
		os.Exit(1)
	}
}

// setupRouter configures and returns the HTTP router
func setupRouter(c *container.Container) *chi.Mux {
	cfg := c.Config
	log := c.Logger

	r := chi.NewRouter()

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowedOrigins = cfg.AllowedOrigins

	r.Use(middleware.CORS(corsConfig))
	r.Use(middleware.RequestID(log))
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Compress(5))
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	healthHandler := handler.NewHealthHandler(log)
	authHandler := handler.NewAuthHandler(c.AuthService, log)
	pollHandler := handler.NewPollHandler(c.PollService, log)
	voteHandler := handler.NewVoteHandler(c.VoteService, log)

	// Health check (no auth required)
	r.Get("/health", healthHandler.Check)

	r.Route("/api/v1", func(r chi.Router) {
		// Credential auth gateway
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.SignUp)
			r.Post("/signin", authHandler.SignIn)
			r.Post("/signout", authHandler.SignOut)
		})

		r.Route("/polls", func(r chi.Router) {
			// Public read path
			r.Get("/", pollHandler.List)
			r.Get("/{id}", pollHandler.Get)
			r.Get("/{id}/results", pollHandler.Results)

			// Voting permits anonymous participation
			r.With(middleware.OptionalAuth(c.AuthService, log)).
				Post("/{id}/vote", voteHandler.Submit)

			// Creation requires an authenticated creator
			r.With(middleware.Auth(c.AuthService, log)).
				Post("/", pollHandler.Create)
		})
	})

	return r
}
