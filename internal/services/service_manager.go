package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SAP-F-2025/alumni-service/internal/events"
	"github.com/SAP-F-2025/alumni-service/internal/repositories"
	"github.com/SAP-F-2025/alumni-service/internal/validator"
)

// ServiceManagerConfig holds configuration for the service manager
type ServiceManagerConfig struct {
	// Page size of the directory listing, 0 disables pagination
	AlumniPageSize int

	// Upper bound for health checks
	DefaultTimeout time.Duration
}

// componentPinger is implemented by repositories that can report the
// database and cache separately
type componentPinger interface {
	ComponentStatus(ctx context.Context) map[string]string
}

// serviceManager implements ServiceManager interface
type serviceManager struct {
	// Dependencies
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
	config    ServiceManagerConfig

	// Service instances
	alumniService AlumniService
	seedService   SeedService
	exportService ExportService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a new service manager with all dependencies
func NewServiceManager(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher, config ServiceManagerConfig) ServiceManager {
	if publisher == nil {
		publisher = events.NewNoopEventPublisher(logger)
	}
	return &serviceManager{
		repo:      repo,
		logger:    logger,
		validator: validator,
		publisher: publisher,
		config:    config,
	}
}

// Initialize sets up all services and their dependencies
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	if sm.repo == nil {
		return fmt.Errorf("repository is required")
	}
	if sm.config.AlumniPageSize < 0 {
		return fmt.Errorf("alumni page size cannot be negative")
	}

	sm.logger.Info("Initializing service manager")

	sm.alumniService = NewAlumniService(sm.repo, sm.logger, sm.validator, sm.publisher, sm.config.AlumniPageSize)
	sm.seedService = NewSeedService(sm.repo, sm.logger, sm.publisher)
	sm.exportService = NewExportService(sm.repo, sm.logger)

	sm.initialized = true
	sm.logger.Info("Service manager initialized successfully", "page_size", sm.config.AlumniPageSize)

	return nil
}

// Service getters
func (sm *serviceManager) Alumni() AlumniService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.alumniService
}

func (sm *serviceManager) Seed() SeedService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.seedService
}

func (sm *serviceManager) Export() ExportService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.exportService
}

// Health and lifecycle
func (sm *serviceManager) HealthCheck(ctx context.Context) *HealthReport {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if sm.config.DefaultTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, sm.config.DefaultTimeout)
		defer cancel()
	}

	report := &HealthReport{Status: "healthy", Components: map[string]string{}}

	switch {
	case !sm.initialized:
		report.Components["services"] = "not initialized"
	case sm.shutdown:
		report.Components["services"] = "shut down"
	default:
		report.Components["services"] = "up"
	}

	if pinger, ok := sm.repo.(componentPinger); ok {
		for name, status := range pinger.ComponentStatus(ctx) {
			report.Components[name] = status
		}
	} else if err := sm.repo.Ping(ctx); err != nil {
		report.Components["repository"] = err.Error()
	} else {
		report.Components["repository"] = "up"
	}

	for _, status := range report.Components {
		if status != "up" && status != "disabled" {
			report.Status = "unhealthy"
		}
	}

	return report
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	if err := sm.publisher.Close(); err != nil {
		sm.logger.Error("Failed to close event publisher", "error", err)
	}

	sm.shutdown = true
	sm.logger.Info("Service manager shut down completed")

	return nil
}
