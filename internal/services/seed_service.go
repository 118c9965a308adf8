package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/alumni-service/internal/directory"
	"github.com/SAP-F-2025/alumni-service/internal/events"
	"github.com/SAP-F-2025/alumni-service/internal/repositories"
	"github.com/SAP-F-2025/alumni-service/internal/seed"
)

type seedService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	publisher events.EventPublisher
	load      func() ([]seed.Record, error)
}

func NewSeedService(repo repositories.Repository, logger *slog.Logger, publisher events.EventPublisher) SeedService {
	return &seedService{
		repo:      repo,
		logger:    logger,
		publisher: publisher,
		load:      seed.Load,
	}
}

func (s *seedService) Seed(ctx context.Context, clear bool) (*SeedResult, error) {
	records, err := s.load()
	if err != nil {
		return nil, err
	}

	result := &SeedResult{}
	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if clear {
			deleted, err := tx.Alumni().DeleteAll(ctx)
			if err != nil {
				return fmt.Errorf("failed to clear alumni: %w", err)
			}
			result.Deleted = deleted
			s.logger.Warn("Cleared alumni directory", "deleted", deleted)
		}

		for _, record := range records {
			_, err := tx.Alumni().GetByEmail(ctx, record.Email)
			if err == nil {
				continue
			}
			if !repositories.IsNotFoundError(err) {
				return fmt.Errorf("failed to look up %s: %w", record.Email, err)
			}

			if err := tx.Alumni().Create(ctx, record.ToModel()); err != nil {
				return fmt.Errorf("failed to seed %s: %w", record.Email, err)
			}
			result.Created++
		}

		total, err := tx.Alumni().Count(ctx, directory.Query{})
		if err != nil {
			return fmt.Errorf("failed to count alumni: %w", err)
		}
		result.Total = total
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Seeded alumni directory", "created", result.Created, "total", result.Total)

	if s.publisher != nil {
		event := events.NewEvent(events.AlumniSeeded, events.AlumniSeededData{
			Created: result.Created,
			Deleted: result.Deleted,
			Total:   result.Total,
		})
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Error("Failed to publish event", "event_type", event.Type, "error", err)
		}
	}

	return result, nil
}
