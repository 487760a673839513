package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/greenpath/logistics/internal/infrastructure/geocoding"
	"github.com/greenpath/logistics/internal/infrastructure/queue"
	"github.com/greenpath/logistics/internal/pkg/config"
	"github.com/greenpath/logistics/internal/pkg/database"
	"github.com/greenpath/logistics/internal/pkg/logger"
	"github.com/greenpath/logistics/internal/pkg/redis"
	"github.com/greenpath/logistics/internal/repository/postgres"
	"github.com/greenpath/logistics/internal/usecase/metrics"
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
	log.Info("Starting metrics worker", map[string]interface{}{
		"concurrency": cfg.Worker.Concurrency,
		"topic":       cfg.Kafka.Topic,
		"group_id":    cfg.Kafka.GroupID,
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
		"database": cfg.Database.Database,
	})

	// =========================================================================
	// Подключение к Redis (кэш геокодирования)
	// =========================================================================

	redisClient, err := redis.NewClient(redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal("Failed to connect to Redis", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer func() { _ = redisClient.Close() }()

	log.Info("Connected to Redis")

	// =========================================================================
	// Создание сервиса пересчета метрик
	// =========================================================================

	shipmentRepo := postgres.NewShipmentRepository(db)

	geocoder := geocoding.NewCachedClient(
		geocoding.NewHTTPClient(cfg.Geocoding.BaseURL, cfg.Geocoding.UserAgent, cfg.Geocoding.Timeout),
		redisClient,
	)
	resolver := metrics.NewResolver(geocoder)
	metricsService := metrics.NewService(shipmentRepo, resolver, log)

	// =========================================================================
	// Запуск пула consumers
	// =========================================================================

	// Consumers делят одну consumer group: брокер распределяет партиции
	// между ними, каждое сообщение обрабатывается ровно одним воркером
	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < cfg.Worker.Concurrency; i++ {
		consumer := queue.NewConsumer(
			cfg.Kafka.Brokers,
			cfg.Kafka.Topic,
			cfg.Kafka.GroupID,
			cfg.Worker.HandlerTimeout,
			log,
		)

		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			defer func() { _ = consumer.Close() }()
			log.Info("Worker started", map[string]interface{}{
				"worker_id": id,
			})
			consumer.Run(runCtx, metricsService.Recompute)
		}(i)
	}

	// =========================================================================
	// Graceful shutdown
	// =========================================================================

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	sig := <-shutdown
	log.Info("Shutdown signal received", map[string]interface{}{
		"signal": sig.String(),
	})

	cancel()
	wg.Wait()

	log.Info("Worker stopped gracefully")
}
