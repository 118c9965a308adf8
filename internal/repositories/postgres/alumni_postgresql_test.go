package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/SAP-F-2025/alumni-service/internal/directory"
	"github.com/SAP-F-2025/alumni-service/internal/models"
	"github.com/SAP-F-2025/alumni-service/internal/repositories"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	return db, mock
}

func newMockRepo(t *testing.T) (repositories.AlumniRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newMockDB(t)
	return NewAlumniPostgreSQL(db, nil), mock
}

func alumniRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "email", "role", "company", "batch", "department", "available"})
}

func TestAlumniPostgreSQL_ExistsByEmail(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "alumni" WHERE email = \$1`).
		WithArgs("ankit@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := repo.ExistsByEmail(context.Background(), "ankit@example.com", nil)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAlumniPostgreSQL_ExistsByEmailExcludingSelf(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uint(4)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "alumni" WHERE email = \$1 AND id <> \$2`).
		WithArgs("ankit@example.com", id).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	exists, err := repo.ExistsByEmail(context.Background(), "ankit@example.com", &id)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAlumniPostgreSQL_CountWithQuery(t *testing.T) {
	repo, mock := newMockRepo(t)
	available := true

	mock.ExpectQuery(`SELECT count\(\*\) FROM "alumni" WHERE .*name ILIKE \$1 OR role ILIKE \$2 OR company ILIKE \$3 OR skills::text ILIKE \$4.*LOWER\(department\) = LOWER\(\$5\).*available = \$6`).
		WithArgs("%react%", "%react%", "%react%", "%react%", "cs", true).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	count, err := repo.Count(context.Background(), directory.Query{
		Search:     "react",
		Department: "cs",
		Available:  &available,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAlumniPostgreSQL_GetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT \* FROM "alumni" WHERE "alumni"."id" = \$1`).
		WillReturnError(gorm.ErrRecordNotFound)

	_, err := repo.GetByID(context.Background(), 99)
	require.Error(t, err)
	assert.True(t, repositories.IsNotFoundError(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAlumniPostgreSQL_Aggregates(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "alumni"$`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "alumni" WHERE available = \$1`).
		WithArgs(true).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`SELECT DISTINCT "batch" FROM "alumni"`).
		WillReturnRows(sqlmock.NewRows([]string{"batch"}).AddRow("2020").AddRow("2018"))
	mock.ExpectQuery(`SELECT DISTINCT "department" FROM "alumni"`).
		WillReturnRows(sqlmock.NewRows([]string{"department"}).AddRow("CS"))
	mock.ExpectQuery(`SELECT DISTINCT "company" FROM "alumni"`).
		WillReturnRows(sqlmock.NewRows([]string{"company"}).AddRow("Microsoft").AddRow("Google"))
	mock.ExpectQuery(`SELECT DISTINCT "industry" FROM "alumni"`).
		WillReturnRows(sqlmock.NewRows([]string{"industry"}).AddRow("Technology"))

	agg, err := repo.Aggregates(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"2018", "2020"}, agg.FilterOptions.Batches)
	assert.Equal(t, []string{"Google", "Microsoft"}, agg.FilterOptions.Companies)
	assert.Equal(t, int64(3), agg.Stats.Total)
	assert.Equal(t, int64(2), agg.Stats.AvailableMentors)
	assert.Equal(t, int64(2), agg.Stats.CompaniesCount)
	assert.Equal(t, int64(1), agg.Stats.IndustriesCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAlumniPostgreSQL_List(t *testing.T) {
	t.Run("newest first with limit and offset", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectQuery(`SELECT \* FROM "alumni" ORDER BY created_at DESC,id DESC LIMIT (\$1|4) OFFSET (\$2|8)$`).
			WillReturnRows(alumniRows().
				AddRow(9, "Kavita", nil, "SDE", "Google", "2022", "CS", true).
				AddRow(8, "Vikram", nil, "PM", "Flipkart", "2019", "CS", false))

		records, err := repo.List(context.Background(), repositories.AlumniFilters{Limit: 4, Offset: 8})
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "Kavita", records[0].Name)
		assert.Equal(t, "Vikram", records[1].Name)
		assert.False(t, records[1].Available)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("filtered without pagination", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectQuery(`SELECT \* FROM "alumni" WHERE LOWER\(department\) = LOWER\(\$1\) ORDER BY created_at DESC,id DESC$`).
			WithArgs("cs").
			WillReturnRows(alumniRows())

		records, err := repo.List(context.Background(), repositories.AlumniFilters{
			Query: directory.Query{Department: "cs"},
		})
		require.NoError(t, err)
		assert.Empty(t, records)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAlumniPostgreSQL_Create(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "alumni" \(.*"name".*"available".*\) VALUES .* RETURNING .*"id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))
	mock.ExpectCommit()

	alumni := &models.Alumni{Name: "Meera", Role: "SDE", Company: "Adobe", Batch: "2023", Department: "CS"}
	require.NoError(t, repo.Create(context.Background(), alumni))
	assert.Equal(t, uint(10), alumni.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAlumniPostgreSQL_CreateDuplicateEmail(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "alumni"`).
		WillReturnError(gorm.ErrDuplicatedKey)
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.Alumni{Name: "Meera"})
	require.Error(t, err)
	assert.True(t, repositories.IsDuplicateKeyError(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAlumniPostgreSQL_Update(t *testing.T) {
	t.Run("writes every column including zero values", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "alumni" SET "name"=\$1,"email"=\$2,"role"=\$3,"company"=\$4,"batch"=\$5,"department"=\$6,"location"=\$7,"experience"=\$8,"industry"=\$9,"skills"=\$10,"available"=\$11,"linkedin"=\$12,"avatar"=\$13,"updated_at"=\$14 WHERE .*"id" = \$15`).
			WithArgs("Rohit", nil, "Analyst", "Amazon", "2021", "IT", "", "", "", sqlmock.AnyArg(), false, "", "", sqlmock.AnyArg(), uint(3)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.Update(context.Background(), &models.Alumni{
			ID: 3, Name: "Rohit", Role: "Analyst", Company: "Amazon", Batch: "2021", Department: "IT",
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "alumni" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		err := repo.Update(context.Background(), &models.Alumni{ID: 99, Name: "Nobody"})
		require.Error(t, err)
		assert.True(t, repositories.IsNotFoundError(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAlumniPostgreSQL_Delete(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		notFound bool
	}{
		{"existing row", 1, false},
		{"missing row", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepo(t)

			mock.ExpectBegin()
			mock.ExpectExec(`DELETE FROM "alumni" WHERE "alumni"."id" = \$1`).
				WithArgs(5).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))
			mock.ExpectCommit()

			err := repo.Delete(context.Background(), 5)
			if tt.notFound {
				assert.True(t, repositories.IsNotFoundError(err))
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAlumniPostgreSQL_DeleteAll(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "alumni"$`).
		WillReturnResult(sqlmock.NewResult(0, 9))
	mock.ExpectCommit()

	deleted, err := repo.DeleteAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(9), deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAlumniPostgreSQL_GetByEmail(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectQuery(`SELECT \* FROM "alumni" WHERE email = \$1 ORDER BY "alumni"."id" LIMIT`).
			WillReturnRows(alumniRows().AddRow(2, "Priya", "priya@example.com", "SDE", "Microsoft", "2020", "CS", true))

		alumni, err := repo.GetByEmail(context.Background(), "priya@example.com")
		require.NoError(t, err)
		assert.Equal(t, uint(2), alumni.ID)
		assert.Equal(t, "priya@example.com", alumni.EmailValue())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectQuery(`SELECT \* FROM "alumni" WHERE email = \$1`).
			WillReturnRows(alumniRows())

		_, err := repo.GetByEmail(context.Background(), "nobody@example.com")
		assert.True(t, repositories.IsNotFoundError(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
