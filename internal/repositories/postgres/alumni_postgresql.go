package postgres

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/alumni-service/internal/cache"
	"github.com/SAP-F-2025/alumni-service/internal/directory"
	"github.com/SAP-F-2025/alumni-service/internal/models"
	"github.com/SAP-F-2025/alumni-service/internal/repositories"
)

type AlumniPostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager

	// Set inside a transaction: reads skip the cache and invalidations wait for commit
	pending *pendingInvalidations
}

// pendingInvalidations collects the cache invalidations of one transaction
type pendingInvalidations struct {
	mu  sync.Mutex
	fns []func(context.Context)
}

func (p *pendingInvalidations) add(fn func(context.Context)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fns = append(p.fns, fn)
}

// flush runs the collected invalidations once the transaction has committed
func (p *pendingInvalidations) flush(ctx context.Context) {
	p.mu.Lock()
	fns := p.fns
	p.fns = nil
	p.mu.Unlock()

	ctx = context.WithoutCancel(ctx)
	for _, fn := range fns {
		fn(ctx)
	}
}

func NewAlumniPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.AlumniRepository {
	if cacheManager == nil {
		cacheManager = cache.NewCacheManager(nil, 0)
	}
	return &AlumniPostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cacheManager,
	}
}

func newAlumniTxPostgreSQL(tx *gorm.DB, cacheManager *cache.CacheManager, pending *pendingInvalidations) repositories.AlumniRepository {
	repo := NewAlumniPostgreSQL(tx, cacheManager).(*AlumniPostgreSQL)
	repo.pending = pending
	return repo
}

func (a *AlumniPostgreSQL) inTransaction() bool {
	return a.pending != nil
}

// invalidate drops cache entries now, or after commit when inside a transaction
func (a *AlumniPostgreSQL) invalidate(ctx context.Context, fn func(context.Context)) {
	if a.inTransaction() {
		a.pending.add(fn)
		return
	}
	fn(ctx)
}

func (a *AlumniPostgreSQL) invalidateRecord(ctx context.Context, id uint) {
	a.invalidate(ctx, func(ctx context.Context) {
		cache.InvalidateAlumniCache(ctx, a.cacheManager, id)
	})
}

// translateError maps gorm sentinel errors onto the repository ones
func translateError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repositories.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return repositories.ErrDuplicateKey
	default:
		return err
	}
}

// Create inserts a new alumni record and invalidates the directory aggregates
func (a *AlumniPostgreSQL) Create(ctx context.Context, alumni *models.Alumni) error {
	if err := a.db.WithContext(ctx).Create(alumni).Error; err != nil {
		return fmt.Errorf("failed to create alumni: %w", translateError(err))
	}

	a.invalidateRecord(ctx, alumni.ID)
	return nil
}

// GetByID retrieves an alumni record by ID with caching
func (a *AlumniPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Alumni, error) {
	if a.inTransaction() {
		return a.fetchByID(ctx, id)
	}

	var alumni models.Alumni
	err := a.cacheManager.Alumni.CacheOrExecute(ctx, cache.AlumniIDKey(id), &alumni, a.cacheManager.TTL(), func() (interface{}, error) {
		return a.fetchByID(ctx, id)
	})
	if err != nil {
		return nil, err
	}

	return &alumni, nil
}

func (a *AlumniPostgreSQL) fetchByID(ctx context.Context, id uint) (*models.Alumni, error) {
	var alumni models.Alumni
	if err := a.db.WithContext(ctx).First(&alumni, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get alumni %d: %w", id, translateError(err))
	}
	return &alumni, nil
}

// Update writes every column of the record and invalidates its cache entries
func (a *AlumniPostgreSQL) Update(ctx context.Context, alumni *models.Alumni) error {
	result := a.db.WithContext(ctx).
		Model(alumni).
		Select("*").
		Omit("id", "created_at").
		Updates(alumni)
	if result.Error != nil {
		return fmt.Errorf("failed to update alumni: %w", translateError(result.Error))
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to update alumni %d: %w", alumni.ID, repositories.ErrNotFound)
	}

	a.invalidateRecord(ctx, alumni.ID)
	return nil
}

// Delete removes an alumni record
func (a *AlumniPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := a.db.WithContext(ctx).Delete(&models.Alumni{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete alumni: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to delete alumni %d: %w", id, repositories.ErrNotFound)
	}

	a.invalidateRecord(ctx, id)
	return nil
}

// DeleteAll empties the collection and returns the number of removed rows
func (a *AlumniPostgreSQL) DeleteAll(ctx context.Context) (int64, error) {
	result := a.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&models.Alumni{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete alumni: %w", result.Error)
	}

	a.invalidate(ctx, func(ctx context.Context) {
		cache.InvalidateDirectoryCache(ctx, a.cacheManager)
	})
	return result.RowsAffected, nil
}

// List returns the records matching the directory query, newest first
func (a *AlumniPostgreSQL) List(ctx context.Context, filters repositories.AlumniFilters) ([]*models.Alumni, error) {
	query := a.db.WithContext(ctx).Model(&models.Alumni{})
	query = a.helpers.ApplyDirectoryQuery(query, filters.Query)
	query = a.helpers.ApplyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)

	var alumni []*models.Alumni
	if err := query.Find(&alumni).Error; err != nil {
		return nil, fmt.Errorf("failed to list alumni: %w", err)
	}

	return alumni, nil
}

// Count returns the number of records matching the directory query
func (a *AlumniPostgreSQL) Count(ctx context.Context, q directory.Query) (int64, error) {
	var count int64
	query := a.helpers.ApplyDirectoryQuery(a.db.WithContext(ctx).Model(&models.Alumni{}), q)
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count alumni: %w", err)
	}
	return count, nil
}

// GetByEmail retrieves an alumni record by its exact email
func (a *AlumniPostgreSQL) GetByEmail(ctx context.Context, email string) (*models.Alumni, error) {
	var alumni models.Alumni
	err := a.db.WithContext(ctx).
		Where("email = ?", email).
		First(&alumni).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get alumni by email: %w", translateError(err))
	}
	return &alumni, nil
}

// Aggregates computes facet options and stats over the whole collection.
// The result is cached until the next write.
func (a *AlumniPostgreSQL) Aggregates(ctx context.Context) (*directory.Aggregates, error) {
	if a.inTransaction() {
		return a.computeAggregates(ctx)
	}

	var aggregates directory.Aggregates
	err := a.cacheManager.Stats.CacheOrExecute(ctx, cache.DirectoryAggregatesKey, &aggregates, a.cacheManager.TTL(), func() (interface{}, error) {
		return a.computeAggregates(ctx)
	})
	if err != nil {
		return nil, err
	}

	return &aggregates, nil
}

func (a *AlumniPostgreSQL) computeAggregates(ctx context.Context) (*directory.Aggregates, error) {
	db := a.db.WithContext(ctx)

	var total, available int64
	if err := db.Model(&models.Alumni{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count alumni: %w", err)
	}
	if err := db.Model(&models.Alumni{}).Where("available = ?", true).Count(&available).Error; err != nil {
		return nil, fmt.Errorf("failed to count available mentors: %w", err)
	}

	var raw directory.FilterOptions
	facets := []struct {
		column string
		dest   *[]string
	}{
		{"batch", &raw.Batches},
		{"department", &raw.Departments},
		{"company", &raw.Companies},
		{"industry", &raw.Industries},
	}
	for _, facet := range facets {
		values, err := a.helpers.DistinctValues(ctx, facet.column)
		if err != nil {
			return nil, err
		}
		*facet.dest = values
	}

	return directory.NewAggregates(raw, total, available), nil
}

// ExistsByEmail checks whether another record already uses the email
func (a *AlumniPostgreSQL) ExistsByEmail(ctx context.Context, email string, excludeID *uint) (bool, error) {
	var count int64
	query := a.db.WithContext(ctx).
		Model(&models.Alumni{}).
		Where("email = ?", email)

	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check email uniqueness: %w", err)
	}

	return count > 0, nil
}
