package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/shopstock/shopstock-backend/internal/inventory/consumers"
	"github.com/shopstock/shopstock-backend/internal/inventory/events"
	"github.com/shopstock/shopstock-backend/internal/inventory/handler"
	"github.com/shopstock/shopstock-backend/internal/inventory/repository"
	"github.com/shopstock/shopstock-backend/internal/inventory/service"
	"github.com/shopstock/shopstock-backend/pkg/config"
	"github.com/shopstock/shopstock-backend/pkg/database"
	"github.com/shopstock/shopstock-backend/pkg/httputil"
	"github.com/shopstock/shopstock-backend/pkg/logger"
	"github.com/shopstock/shopstock-backend/pkg/messaging"
)

const alertScanInterval = 6 * time.Hour

func main() {
	// Load configuration with validation (fails fast in production if required config is missing)
	cfg, err := config.LoadWithValidation("inventory-service")
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New("inventory-service", cfg.Server.Environment)
	log.Info().Msg("starting Inventory Service")

	// Connect to database
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Connect to RabbitMQ
	rmq, err := messaging.New(&cfg.RabbitMQ, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
	}
	defer rmq.Close()

	// Initialize event publisher
	pub, err := messaging.NewPublisher(rmq, messaging.ExchangeInventoryEvents, "inventory-service", log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create event publisher")
	}
	publisher := events.NewPublisher(pub, log)

	// Initialize repositories
	productRepo := repository.NewProductRepository(db)
	batchRepo := repository.NewBatchRepository(db)
	movementRepo := repository.NewMovementRepository(db)
	batchMovementRepo := repository.NewBatchMovementRepository(db)

	// Initialize services
	fefoService := service.NewFEFOService(db, batchRepo, log)
	batchService := service.NewBatchService(db, productRepo, batchRepo, movementRepo, batchMovementRepo, publisher, log)
	stockService := service.NewStockService(db, productRepo, movementRepo, fefoService, batchService, publisher, log)
	receivingService := service.NewReceivingService(productRepo, batchService, stockService, log)
	reportService := service.NewReportService(batchRepo, log)

	// Initialize handlers
	batchHandler := handler.NewBatchHandler(batchService, log)
	movementHandler := handler.NewMovementHandler(stockService, log)
	productHandler := handler.NewProductHandler(stockService, fefoService, reportService, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start consumers
	poConsumer, err := consumers.NewPurchaseOrderConsumer(rmq, receivingService, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create purchase order consumer")
	}
	if err := poConsumer.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to start purchase order consumer")
	}

	saleConsumer, err := consumers.NewSaleConsumer(rmq, stockService, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create sale consumer")
	}
	if err := saleConsumer.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to start sale consumer")
	}

	// Start alert scheduler
	alertScanner := service.NewAlertScanner(productRepo, batchRepo, publisher, 30, log)
	alertScheduler := service.NewAlertScheduler(alertScanner, db, alertScanInterval, log)
	alertScheduler.Start(ctx)
	defer alertScheduler.Stop()

	// Create router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RealIP)
	r.Use(httputil.RequestID)
	r.Use(httputil.Logger(log))
	r.Use(httputil.Recoverer(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID", "X-User-ID", "X-User-Email", "X-Store-ID", "X-Store-Slug"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(httputil.UserMiddleware)
	r.Use(httputil.StoreMiddleware) // Extract store context from headers

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]interface{}{
			"status":   "healthy",
			"service":  "inventory-service",
			"database": db.Health(r.Context()),
			"rabbitmq": rmq.Health(),
		})
	})

	// API routes
	r.Route("/api/v1/inventory", func(r chi.Router) {
		// Product stock routes
		r.Get("/products", productHandler.List)
		r.Route("/products/{id}", func(r chi.Router) {
			r.Get("/batches", batchHandler.ListByProduct)
			r.Post("/batches", batchHandler.Create)
			r.Post("/allocate", productHandler.Allocate)
			r.Get("/next-expiring", productHandler.NextExpiring)
			r.Post("/reconcile", batchHandler.Reconcile)
		})

		// Batch routes
		r.Route("/batches/{id}", func(r chi.Router) {
			r.Get("/", batchHandler.Get)
			r.Patch("/", batchHandler.Adjust)
			r.Delete("/", batchHandler.Delete)
			r.Get("/movements", batchHandler.Movements)
		})

		// Stock ledger routes
		r.Route("/movements", func(r chi.Router) {
			r.Get("/", movementHandler.List)
			r.Post("/", movementHandler.Record)
		})

		// Bulk expiration tracking toggle
		r.Post("/expiration-tracking", productHandler.ToggleTracking)

		// Reports
		r.Get("/reports/expiring", productHandler.ExpiringReport)
	})

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Cancel context to stop consumers
	cancel()

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
