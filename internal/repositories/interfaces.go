package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/alumni-service/internal/directory"
	"github.com/SAP-F-2025/alumni-service/internal/models"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicateKey = errors.New("duplicate key")
)

// IsNotFoundError reports whether err means the requested row does not exist
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicateKeyError reports whether err is a unique constraint violation
func IsDuplicateKeyError(err error) bool {
	return errors.Is(err, ErrDuplicateKey) || errors.Is(err, gorm.ErrDuplicatedKey)
}

// ===== SHARED FILTER STRUCTS =====

type AlumniFilters struct {
	Query     directory.Query `json:"query"`
	Limit     int             `json:"limit"`
	Offset    int             `json:"offset"`
	SortBy    string          `json:"sort_by"`    // "created_at", "name", "batch"
	SortOrder string          `json:"sort_order"` // "asc", "desc"
}

// AlumniRepository is the Record Store for alumni profiles
type AlumniRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, alumni *models.Alumni) error
	GetByID(ctx context.Context, id uint) (*models.Alumni, error)
	Update(ctx context.Context, alumni *models.Alumni) error
	Delete(ctx context.Context, id uint) error
	DeleteAll(ctx context.Context) (int64, error)

	// Query operations
	List(ctx context.Context, filters AlumniFilters) ([]*models.Alumni, error)
	Count(ctx context.Context, query directory.Query) (int64, error)
	GetByEmail(ctx context.Context, email string) (*models.Alumni, error)

	// Aggregates over the unfiltered collection
	Aggregates(ctx context.Context) (*directory.Aggregates, error)

	// Validation and checks
	ExistsByEmail(ctx context.Context, email string, excludeID *uint) (bool, error)
}
