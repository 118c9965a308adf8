package services

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/SAP-F-2025/alumni-service/internal/directory"
	"github.com/SAP-F-2025/alumni-service/internal/events"
	"github.com/SAP-F-2025/alumni-service/internal/models"
	"github.com/SAP-F-2025/alumni-service/internal/repositories"
	"github.com/SAP-F-2025/alumni-service/internal/validator"
)

// memRepository is an in-memory Repository for service tests
type memRepository struct {
	mu      sync.Mutex
	records map[uint]*models.Alumni
	nextID  uint
	clock   time.Time
}

func newMemRepository() *memRepository {
	return &memRepository{
		records: map[uint]*models.Alumni{},
		clock:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (r *memRepository) Alumni() repositories.AlumniRepository { return r }

func (r *memRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(r)
}

func (r *memRepository) Ping(ctx context.Context) error { return nil }
func (r *memRepository) Close() error                   { return nil }

// tick advances the fake clock so timestamps are strictly ordered
func (r *memRepository) tick() time.Time {
	r.clock = r.clock.Add(time.Second)
	return r.clock
}

func clone(a *models.Alumni) *models.Alumni {
	c := *a
	c.Skills = append([]string{}, a.SkillList()...)
	if a.Email != nil {
		email := *a.Email
		c.Email = &email
	}
	return &c
}

func (r *memRepository) emailTaken(email *string, excludeID uint) bool {
	if email == nil {
		return false
	}
	for id, a := range r.records {
		if id != excludeID && a.Email != nil && *a.Email == *email {
			return true
		}
	}
	return false
}

func (r *memRepository) Create(ctx context.Context, alumni *models.Alumni) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.emailTaken(alumni.Email, 0) {
		return repositories.ErrDuplicateKey
	}
	r.nextID++
	alumni.ID = r.nextID
	alumni.CreatedAt = r.tick()
	alumni.UpdatedAt = alumni.CreatedAt
	r.records[alumni.ID] = clone(alumni)
	return nil
}

func (r *memRepository) GetByID(ctx context.Context, id uint) (*models.Alumni, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.records[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return clone(a), nil
}

func (r *memRepository) Update(ctx context.Context, alumni *models.Alumni) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.records[alumni.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	if r.emailTaken(alumni.Email, alumni.ID) {
		return repositories.ErrDuplicateKey
	}
	alumni.CreatedAt = existing.CreatedAt
	alumni.UpdatedAt = r.tick()
	r.records[alumni.ID] = clone(alumni)
	return nil
}

func (r *memRepository) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.records, id)
	return nil
}

func (r *memRepository) DeleteAll(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := int64(len(r.records))
	r.records = map[uint]*models.Alumni{}
	return n, nil
}

// ordered returns every record newest first
func (r *memRepository) ordered() []*models.Alumni {
	all := make([]*models.Alumni, 0, len(r.records))
	for _, a := range r.records {
		all = append(all, clone(a))
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID > all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	return all
}

func (r *memRepository) List(ctx context.Context, filters repositories.AlumniFilters) ([]*models.Alumni, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matched := filters.Query.Filter(r.ordered())
	if filters.Offset > 0 {
		if filters.Offset >= len(matched) {
			return []*models.Alumni{}, nil
		}
		matched = matched[filters.Offset:]
	}
	if filters.Limit > 0 && filters.Limit < len(matched) {
		matched = matched[:filters.Limit]
	}
	return matched, nil
}

func (r *memRepository) Count(ctx context.Context, query directory.Query) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return int64(len(query.Filter(r.ordered()))), nil
}

func (r *memRepository) GetByEmail(ctx context.Context, email string) (*models.Alumni, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.records {
		if a.Email != nil && *a.Email == email {
			return clone(a), nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *memRepository) Aggregates(ctx context.Context) (*directory.Aggregates, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return directory.ComputeAggregates(r.ordered()), nil
}

func (r *memRepository) ExistsByEmail(ctx context.Context, email string, excludeID *uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var exclude uint
	if excludeID != nil {
		exclude = *excludeID
	}
	return r.emailTaken(&email, exclude), nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestServices wires the services over a fresh in-memory store
func newTestServices(pageSize int) (*memRepository, *events.MockEventPublisher, ServiceManager) {
	repo := newMemRepository()
	logger := testLogger()
	publisher := events.NewMockEventPublisher(logger)
	sm := NewServiceManager(repo, logger, validator.New(), publisher, ServiceManagerConfig{
		AlumniPageSize: pageSize,
		DefaultTimeout: time.Second,
	})
	if err := sm.Initialize(context.Background()); err != nil {
		panic(err)
	}
	return repo, publisher, sm
}

func ptr[T any](v T) *T {
	return &v
}
