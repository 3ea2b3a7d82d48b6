package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"polly-api/pkg/logger"
)

// Run starts the server and blocks until a shutdown signal or server
// failure, then drains in-flight requests and calls cleanup.
func Run(server *http.Server, log *logger.Logger, cleanup func(ctx context.Context)) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)

	serverErrChan := make(chan error, 1)
	go func() {
		log.Info("Server starting on " + server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- err
		}
	}()

	var runErr error
	select {
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("Received shutdown signal")
	case err := <-serverErrChan:
		log.WithError(err).Error("Server failed, initiating shutdown")
		runErr = err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer cancel()

	log.Info("Shutting down HTTP server...")
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Failed to shutdown HTTP server")
		if runErr == nil {
			runErr = err
		}
	} else {
		log.Info("HTTP server shutdown complete")
	}

	if cleanup != nil {
		cleanup(shutdownCtx)
	}

	log.Info("Graceful shutdown completed")
	return runErr
}
