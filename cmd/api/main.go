package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"seedmart/internal/auth"
	"seedmart/internal/config"
	"seedmart/internal/database"
	"seedmart/internal/events"
	"seedmart/internal/handler"
	"seedmart/internal/repository"
	"seedmart/internal/router"
	"seedmart/internal/service"

	amqp "github.com/rabbitmq/amqp091-go"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting seedmart API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize repositories
	productRepo := repository.NewProductRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	addressRepo := repository.NewAddressRepository(pool, logger)

	// Initialize order event publisher
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Events.Enabled {
		conn, err := amqp.Dial(cfg.Events.URL)
		if err != nil {
			return fmt.Errorf("failed to connect to AMQP broker: %w", err)
		}
		defer conn.Close()

		publisher, err = events.NewRabbitPublisher(conn, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize event publisher: %w", err)
		}
		defer publisher.Close()
	} else {
		logger.Info().Msg("order events disabled")
	}

	// Initialize auth collaborator
	verifier := auth.NewHTTPVerifier(cfg.Auth.URL, cfg.Auth.Timeout, logger)

	// Initialize services
	productService := service.NewProductService(productRepo, logger)
	checkoutService := service.NewCheckoutService(orderRepo, productRepo, addressRepo, cfg.Checkout, logger)

	// Initialize HTTP handlers
	productHandler := handler.NewProductHandler(productService, logger)
	orderHandler := handler.NewOrderHandler(checkoutService, publisher, logger)

	// Initialize router
	mux := router.New(productHandler, orderHandler, verifier, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
