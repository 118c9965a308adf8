package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/alumni-service/internal/directory"
	"github.com/SAP-F-2025/alumni-service/internal/models"
)

// SharedHelpers contains common database operations
type SharedHelpers struct {
	db *gorm.DB
}

func NewSharedHelpers(db *gorm.DB) *SharedHelpers {
	return &SharedHelpers{db: db}
}

// Columns the directory facets are read from
var facetColumns = map[string]bool{
	"batch":      true,
	"department": true,
	"company":    true,
	"industry":   true,
}

// ApplyDirectoryQuery applies the listing predicate to an alumni query.
// Batch matches exactly; the other facets ignore case.
func (h *SharedHelpers) ApplyDirectoryQuery(query *gorm.DB, q directory.Query) *gorm.DB {
	if q.Search != "" {
		pattern := directory.LikePattern(q.Search)
		query = query.Where(
			"name ILIKE ? OR role ILIKE ? OR company ILIKE ? OR skills::text ILIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}
	if q.Batch != "" {
		query = query.Where("batch = ?", q.Batch)
	}
	if q.Department != "" {
		query = query.Where("LOWER(department) = LOWER(?)", q.Department)
	}
	if q.Company != "" {
		query = query.Where("LOWER(company) = LOWER(?)", q.Company)
	}
	if q.Industry != "" {
		query = query.Where("LOWER(industry) = LOWER(?)", q.Industry)
	}
	if q.Available != nil {
		query = query.Where("available = ?", *q.Available)
	}
	return query
}

// DistinctValues returns the distinct values of one facet column, unordered
func (h *SharedHelpers) DistinctValues(ctx context.Context, column string) ([]string, error) {
	if !facetColumns[column] {
		return nil, fmt.Errorf("unsupported facet column %q", column)
	}

	var values []string
	err := h.db.WithContext(ctx).
		Model(&models.Alumni{}).
		Distinct(column).
		Pluck(column, &values).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load distinct %s: %w", column, err)
	}
	return values, nil
}

// ApplyPaginationAndSort applies pagination and sorting with SQL injection protection
func (h *SharedHelpers) ApplyPaginationAndSort(query *gorm.DB, sortBy, sortOrder string, limit, offset int) *gorm.DB {
	// Whitelist allowed sort columns
	allowedSortColumns := map[string]bool{
		"created_at": true,
		"updated_at": true,
		"id":         true,
		"name":       true,
		"batch":      true,
		"company":    true,
	}

	if sortBy == "" || !allowedSortColumns[sortBy] {
		sortBy = "created_at"
	}

	if sortOrder != "asc" && sortOrder != "ASC" {
		sortOrder = "DESC"
	} else {
		sortOrder = "ASC"
	}

	query = query.Order(sortBy + " " + sortOrder)
	if sortBy != "id" {
		// Rows sharing a timestamp still come back in a stable order
		query = query.Order("id " + sortOrder)
	}

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	return query
}
