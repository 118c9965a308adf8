package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/SAP-F-2025/alumni-service/internal/events"
	"github.com/SAP-F-2025/alumni-service/internal/models"
	"github.com/SAP-F-2025/alumni-service/internal/repositories"
)

// emailPointer stores blank emails as NULL so the unique index ignores them
func emailPointer(email string) *string {
	if email == "" {
		return nil
	}
	return &email
}

func newAlumniFromRequest(req *CreateAlumniRequest) *models.Alumni {
	skills := req.Skills
	if skills == nil {
		skills = []string{}
	}

	available := true
	if req.Available != nil {
		available = *req.Available
	}

	return &models.Alumni{
		Name:       req.Name,
		Email:      emailPointer(req.Email),
		Role:       req.Role,
		Company:    req.Company,
		Batch:      req.Batch,
		Department: req.Department,
		Location:   req.Location,
		Experience: req.Experience,
		Industry:   req.Industry,
		Skills:     skills,
		Available:  available,
		LinkedIn:   req.LinkedIn,
		Avatar:     req.Avatar,
	}
}

// applyUpdate copies every supplied field onto the record
func applyUpdate(a *models.Alumni, req *UpdateAlumniRequest) {
	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}

	setString(&a.Name, req.Name)
	setString(&a.Role, req.Role)
	setString(&a.Company, req.Company)
	setString(&a.Batch, req.Batch)
	setString(&a.Department, req.Department)
	setString(&a.Location, req.Location)
	setString(&a.Experience, req.Experience)
	setString(&a.Industry, req.Industry)
	setString(&a.LinkedIn, req.LinkedIn)
	setString(&a.Avatar, req.Avatar)

	if req.ClearsEmail() {
		a.Email = nil
	} else if req.Email != nil {
		a.Email = emailPointer(*req.Email)
	}
	if req.Skills != nil {
		skills := *req.Skills
		if skills == nil {
			skills = []string{}
		}
		a.Skills = skills
	}
	if req.Available != nil {
		a.Available = *req.Available
	}
}

func (s *alumniService) validateCreate(req *CreateAlumniRequest) error {
	return s.collectErrors(nullFieldsError(req.NullFields()), req)
}

func (s *alumniService) validateUpdate(req *UpdateAlumniRequest, partial bool) error {
	verrs := nullFieldsError(req.NullFields())
	if !partial {
		verrs = append(verrs, missingFieldsError(req.MissingRequired())...)
	}

	return s.collectErrors(verrs, req)
}

// collectErrors appends the struct tag failures of req to verrs, skipping
// fields that already failed
func (s *alumniService) collectErrors(verrs ValidationErrors, req interface{}) error {
	if err := s.validator.Validate(req); err != nil {
		var fieldErrs ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		failed := verrs.Fields()
		for _, fe := range fieldErrs {
			if _, ok := failed[fe.Field]; !ok {
				verrs = append(verrs, fe)
			}
		}
	}

	if len(verrs) > 0 {
		return verrs
	}
	return nil
}

// ensureEmailAvailable rejects an email already used by another record
func (s *alumniService) ensureEmailAvailable(ctx context.Context, tx repositories.Repository, email *string, excludeID *uint) error {
	if email == nil {
		return nil
	}

	exists, err := tx.Alumni().ExistsByEmail(ctx, *email, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check email uniqueness: %w", err)
	}
	if exists {
		return emailTakenError(*email)
	}
	return nil
}

// translateWriteError reports a unique index violation the same way as the pre-check
func (s *alumniService) translateWriteError(err error, email *string) error {
	switch {
	case errors.Is(err, ErrAlumniNotFound), IsValidationError(err):
		return err
	case repositories.IsDuplicateKeyError(err):
		value := ""
		if email != nil {
			value = *email
		}
		return emailTakenError(value)
	default:
		return fmt.Errorf("failed to save alumni: %w", err)
	}
}

// publish sends an event after a committed write. Failures are only logged.
func (s *alumniService) publish(ctx context.Context, event *events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish event", "event_type", event.Type, "event_id", event.ID, "error", err)
	}
}
