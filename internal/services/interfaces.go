package services

import (
	"context"
	"io"

	"github.com/SAP-F-2025/alumni-service/internal/directory"
	"github.com/SAP-F-2025/alumni-service/internal/models"
)

// ===== REQUEST/RESPONSE DTOs =====

type CreateAlumniRequest = models.AlumniCreateRequest
type UpdateAlumniRequest = models.AlumniUpdateRequest
type AlumniResponse = models.AlumniResponse

// AlumniListResult is one listing: the requested slice of results plus the
// aggregates over the whole directory
type AlumniListResult struct {
	Results    []models.AlumniListItem
	Page       *directory.Page // nil when pagination is disabled
	Aggregates *directory.Aggregates
}

type SeedResult struct {
	Deleted int64 `json:"deleted"`
	Created int   `json:"created"`
	Total   int64 `json:"total"`
}

type HealthReport struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
}

// ===== SERVICE INTERFACES =====

type AlumniService interface {
	// Listing
	List(ctx context.Context, query directory.Query, page string) (*AlumniListResult, error)
	Aggregates(ctx context.Context) (*directory.Aggregates, error)
	PageSize() int

	// CRUD
	Create(ctx context.Context, req *CreateAlumniRequest) (*AlumniResponse, error)
	GetByID(ctx context.Context, id uint) (*AlumniResponse, error)
	Update(ctx context.Context, id uint, req *UpdateAlumniRequest) (*AlumniResponse, error)
	Patch(ctx context.Context, id uint, req *UpdateAlumniRequest) (*AlumniResponse, error)
	Delete(ctx context.Context, id uint) error
}

type SeedService interface {
	// Seed inserts the demo dataset, skipping emails already present.
	// With clear set every existing row is deleted first.
	Seed(ctx context.Context, clear bool) (*SeedResult, error)
}

type ExportService interface {
	ExportXLSX(ctx context.Context, query directory.Query, w io.Writer) error
}

type ServiceManager interface {
	Alumni() AlumniService
	Seed() SeedService
	Export() ExportService

	// Lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) *HealthReport
	Shutdown(ctx context.Context) error
}
