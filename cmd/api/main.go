package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	deliveryHTTP "github.com/greenpath/logistics/internal/delivery/http"
	"github.com/greenpath/logistics/internal/infrastructure/queue"
	"github.com/greenpath/logistics/internal/pkg/config"
	"github.com/greenpath/logistics/internal/pkg/database"
	"github.com/greenpath/logistics/internal/pkg/jwt"
	"github.com/greenpath/logistics/internal/pkg/logger"
	"github.com/greenpath/logistics/internal/repository/postgres"
	"github.com/greenpath/logistics/internal/usecase/auth"
	"github.com/greenpath/logistics/internal/usecase/company"
	"github.com/greenpath/logistics/internal/usecase/shipment"
	"github.com/greenpath/logistics/internal/usecase/vehicle"
)

func main() {
	// =========================================================================
	// Загрузка конфигурации
	// =========================================================================

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// =========================================================================
	// Инициализация logger
	// =========================================================================

	log := logger.New(cfg.Logger.Level, cfg.Logger.Format, cfg.Logger.Output)
	log.Info("Starting logistics API server", map[string]interface{}{
		"version": "1.0.0",
	})

	// =========================================================================
	// Подключение к PostgreSQL
	// =========================================================================

	ctx := context.Background()
	db, err := database.Connect(ctx, &cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer database.Close(db)

	log.Info("Connected to PostgreSQL", map[string]interface{}{
		"host":     cfg.Database.Host,
		"port":     cfg.Database.Port,
		"database": cfg.Database.Database,
	})

	// =========================================================================
	// Создание repositories
	// =========================================================================

	userRepo := postgres.NewUserRepository(db)
	profileRepo := postgres.NewProfileRepository(db)
	companyRepo := postgres.NewCompanyRepository(db)
	vehicleRepo := postgres.NewVehicleRepository(db)
	shipmentRepo := postgres.NewShipmentRepository(db)

	log.Info("Repositories initialized")

	// =========================================================================
	// Создание диспетчера очереди пересчета метрик
	// =========================================================================

	dispatcher := queue.NewKafkaDispatcher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer func() { _ = dispatcher.Close() }()

	log.Info("Metrics dispatcher initialized", map[string]interface{}{
		"topic": cfg.Kafka.Topic,
	})

	// =========================================================================
	// Создание JWT token service
	// =========================================================================

	tokenService := jwt.NewTokenService(
		cfg.JWT.SecretKey,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	// =========================================================================
	// Создание use case services
	// =========================================================================

	authService := auth.NewService(userRepo, profileRepo, tokenService, log)
	vehicleService := vehicle.NewService(vehicleRepo, log)
	companyService := company.NewService(companyRepo, profileRepo, log)
	shipmentService := shipment.NewService(shipmentRepo, vehicleRepo, profileRepo, dispatcher, log)

	log.Info("Use case services initialized")

	// =========================================================================
	// Создание HTTP handlers и router
	// =========================================================================

	authHandler := deliveryHTTP.NewAuthHandler(authService, log)
	vehicleHandler := deliveryHTTP.NewVehicleHandler(vehicleService, log)
	companyHandler := deliveryHTTP.NewCompanyHandler(companyService, log)
	shipmentHandler := deliveryHTTP.NewShipmentHandler(shipmentService, log)

	router := deliveryHTTP.NewRouter(
		authHandler,
		vehicleHandler,
		companyHandler,
		shipmentHandler,
		tokenService,
		cfg,
		log,
	)

	handler := router.Setup()

	log.Info("HTTP router configured")

	// =========================================================================
	// Создание HTTP сервера
	// =========================================================================

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// =========================================================================
	// Запуск сервера в goroutine
	// =========================================================================

	serverErrors := make(chan error, 1)

	go func() {
		log.Info("API server listening", map[string]interface{}{
			"address": srv.Addr,
		})
		serverErrors <- srv.ListenAndServe()
	}()

	// =========================================================================
	// Graceful shutdown
	// =========================================================================

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		log.Fatal("Server error", map[string]interface{}{
			"error": err.Error(),
		})

	case sig := <-shutdown:
		log.Info("Shutdown signal received", map[string]interface{}{
			"signal": sig.String(),
		})

		// Даем серверу 30 секунд на graceful shutdown
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Graceful shutdown failed", map[string]interface{}{
				"error": err.Error(),
			})

			if err := srv.Close(); err != nil {
				log.Fatal("Failed to close server", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}

		log.Info("Server stopped gracefully")
	}
}
