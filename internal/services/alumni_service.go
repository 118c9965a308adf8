package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/alumni-service/internal/directory"
	"github.com/SAP-F-2025/alumni-service/internal/events"
	"github.com/SAP-F-2025/alumni-service/internal/models"
	"github.com/SAP-F-2025/alumni-service/internal/repositories"
	"github.com/SAP-F-2025/alumni-service/internal/validator"
)

type alumniService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
	pageSize  int
}

func NewAlumniService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher, pageSize int) AlumniService {
	return &alumniService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		publisher: publisher,
		pageSize:  pageSize,
	}
}

func (s *alumniService) PageSize() int {
	return s.pageSize
}

// ===== LISTING =====

func (s *alumniService) List(ctx context.Context, query directory.Query, rawPage string) (*AlumniListResult, error) {
	s.logger.Debug("Listing alumni", "query", query, "page", rawPage)

	filters := repositories.AlumniFilters{Query: query}
	result := &AlumniListResult{}

	if s.pageSize > 0 {
		total, err := s.repo.Alumni().Count(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("failed to count alumni: %w", err)
		}

		page, ok := directory.ResolvePage(rawPage, s.pageSize, total)
		if !ok {
			return nil, ErrInvalidPage
		}
		result.Page = &page
		filters.Limit = page.Size
		filters.Offset = page.Offset()
	}

	records, err := s.repo.Alumni().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list alumni: %w", err)
	}

	result.Results = make([]models.AlumniListItem, 0, len(records))
	for _, a := range records {
		result.Results = append(result.Results, models.NewAlumniListItem(a))
	}

	aggregates, err := s.Aggregates(ctx)
	if err != nil {
		return nil, err
	}
	result.Aggregates = aggregates

	return result, nil
}

func (s *alumniService) Aggregates(ctx context.Context) (*directory.Aggregates, error) {
	aggregates, err := s.repo.Alumni().Aggregates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute directory aggregates: %w", err)
	}
	return aggregates, nil
}

// ===== CRUD =====

func (s *alumniService) Create(ctx context.Context, req *CreateAlumniRequest) (*AlumniResponse, error) {
	req.Normalize()
	if err := s.validateCreate(req); err != nil {
		return nil, err
	}

	alumni := newAlumniFromRequest(req)
	s.logger.Info("Creating alumni", "name", alumni.Name, "email", alumni.EmailValue())

	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := s.ensureEmailAvailable(ctx, tx, alumni.Email, nil); err != nil {
			return err
		}
		return tx.Alumni().Create(ctx, alumni)
	})
	if err != nil {
		return nil, s.translateWriteError(err, alumni.Email)
	}

	response := models.NewAlumniResponse(alumni)
	s.publish(ctx, events.NewEvent(events.AlumniCreated, response))

	s.logger.Info("Alumni created", "alumni_id", alumni.ID)
	return response, nil
}

func (s *alumniService) GetByID(ctx context.Context, id uint) (*AlumniResponse, error) {
	alumni, err := s.repo.Alumni().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAlumniNotFound
		}
		return nil, fmt.Errorf("failed to get alumni: %w", err)
	}

	return models.NewAlumniResponse(alumni), nil
}

// Update replaces the record; every required field must be supplied
func (s *alumniService) Update(ctx context.Context, id uint, req *UpdateAlumniRequest) (*AlumniResponse, error) {
	return s.update(ctx, id, req, false)
}

// Patch changes only the supplied fields
func (s *alumniService) Patch(ctx context.Context, id uint, req *UpdateAlumniRequest) (*AlumniResponse, error) {
	return s.update(ctx, id, req, true)
}

func (s *alumniService) update(ctx context.Context, id uint, req *UpdateAlumniRequest, partial bool) (*AlumniResponse, error) {
	s.logger.Info("Updating alumni", "alumni_id", id, "partial", partial)

	req.Normalize()
	if err := s.validateUpdate(req, partial); err != nil {
		return nil, err
	}

	var updated *models.Alumni
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		alumni, err := tx.Alumni().GetByID(ctx, id)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrAlumniNotFound
			}
			return fmt.Errorf("failed to get alumni: %w", err)
		}

		previousEmail := alumni.EmailValue()
		applyUpdate(alumni, req)

		if alumni.EmailValue() != previousEmail {
			if err := s.ensureEmailAvailable(ctx, tx, alumni.Email, &id); err != nil {
				return err
			}
		}

		if err := tx.Alumni().Update(ctx, alumni); err != nil {
			return err
		}
		updated = alumni
		return nil
	})
	if err != nil {
		return nil, s.translateWriteError(err, req.Email)
	}

	response := models.NewAlumniResponse(updated)
	s.publish(ctx, events.NewEvent(events.AlumniUpdated, response))

	return response, nil
}

func (s *alumniService) Delete(ctx context.Context, id uint) error {
	s.logger.Info("Deleting alumni", "alumni_id", id)

	if err := s.repo.Alumni().Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrAlumniNotFound
		}
		return fmt.Errorf("failed to delete alumni: %w", err)
	}

	s.publish(ctx, events.NewEvent(events.AlumniDeleted, events.AlumniDeletedData{ID: id}))
	return nil
}
