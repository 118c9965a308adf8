// Command seed loads the demo alumni dataset into the directory.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/SAP-F-2025/alumni-service/internal/config"
	"github.com/SAP-F-2025/alumni-service/internal/events"
	"github.com/SAP-F-2025/alumni-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/alumni-service/internal/services"
	"github.com/SAP-F-2025/alumni-service/pkg"
)

func main() {
	clearFirst := flag.Bool("clear", false, "delete every existing alumni record before seeding")
	timeout := flag.Duration("timeout", time.Minute, "abort seeding after this long")
	flag.Parse()

	if err := run(*clearFirst, *timeout); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}

func run(clearFirst bool, timeout time.Duration) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	db, err := pkg.InitDatabase(cfg, logger)
	if err != nil {
		return err
	}

	// Seeding must drop cached aggregates the server may still hold
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		if redisClient, err = pkg.NewRedisClient(cfg); err != nil {
			logger.Warn("Redis unavailable, cached aggregates may be stale", "error", err)
			redisClient = nil
		}
	}

	repo := postgres.NewPostgreSQLRepository(postgres.RepositoryConfig{
		DB:          db,
		RedisClient: redisClient,
		CacheTTL:    cfg.CacheTTL,
	})
	defer repo.Close()

	var publisher events.EventPublisher = events.NewNoopEventPublisher(logger)
	if len(cfg.KafkaBrokers) > 0 {
		if publisher, err = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger); err != nil {
			return err
		}
	}
	defer publisher.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	result, err := services.NewSeedService(repo, logger, publisher).Seed(ctx, clearFirst)
	if err != nil {
		return err
	}

	if clearFirst {
		fmt.Printf("Deleted %d existing alumni records\n", result.Deleted)
	}
	fmt.Printf("Seeded %d alumni records (%d total)\n", result.Created, result.Total)
	return nil
}
