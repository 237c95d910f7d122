package postgres_test

import (
	"context"
	"os"
	"testing"
	"time"

	"go-dreamjob-backend/internal/domain"
	"go-dreamjob-backend/internal/repository/postgres"
	"go-dreamjob-backend/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := database.NewPostgresConnection(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, database.EnsureSchema(ctx, pool, []string{"Moscow", "Saint Petersburg", "Yekaterinburg"}))
	return pool
}

func TestCandidateRepository(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := postgres.NewCandidateRepository(pool)

	created := time.Now().UTC().Truncate(time.Microsecond)
	saved, err := repo.Save(ctx, domain.Candidate{Name: "Ivan", Description: "Go", CreationDate: created, CityID: 1})
	require.NoError(t, err)
	require.NotZero(t, saved.ID)
	t.Cleanup(func() { _, _ = repo.DeleteByID(ctx, saved.ID) })

	found, err := repo.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Ivan", found.Name)
	assert.True(t, created.Equal(found.CreationDate))

	saved.Name = "Ivan Ivanov"
	saved.FileID = 3
	ok, err := repo.Update(ctx, saved)
	require.NoError(t, err)
	assert.True(t, ok)

	found, _ = repo.FindByID(ctx, saved.ID)
	assert.Equal(t, "Ivan Ivanov", found.Name)
	assert.Equal(t, 3, found.FileID)

	saved.FileID = 8
	ok, err = repo.UpdateIfFile(ctx, saved, 5)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.UpdateIfFile(ctx, saved, 3)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.DeleteIfFile(ctx, saved.ID, 3)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.DeleteByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.DeleteByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.Update(ctx, saved)
	require.NoError(t, err)
	assert.False(t, ok)

	found, err = repo.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestVacancyRepository(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := postgres.NewVacancyRepository(pool)

	saved, err := repo.Save(ctx, domain.Vacancy{Title: "Go Developer", Visible: true, CreationDate: time.Now(), CityID: 2})
	require.NoError(t, err)
	t.Cleanup(func() { _, _ = repo.DeleteByID(ctx, saved.ID) })

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	ids := make([]int, 0, len(all))
	for _, v := range all {
		ids = append(ids, v.ID)
	}
	assert.Contains(t, ids, saved.ID)
	assert.IsIncreasing(t, ids)
}

func TestCityRepositorySeeded(t *testing.T) {
	pool := testPool(t)
	cities, err := postgres.NewCityRepository(pool).FindAll(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(cities), 3)
}

func TestFileRepository(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := postgres.NewFileRepository(pool)

	saved, err := repo.Save(ctx, domain.File{Name: "cv.pdf", Path: uuid.NewString() + "_cv.pdf"})
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved, *found)

	ok, err := repo.DeleteByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUserRepositoryDuplicateEmail(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := postgres.NewUserRepository(pool)

	email := uuid.NewString() + "@example.com"
	first, err := repo.Save(ctx, domain.User{Email: email, Name: "Anna", Password: "hash"})
	require.NoError(t, err)
	require.NotNil(t, first)
	t.Cleanup(func() { _, _ = pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, first.ID) })

	second, err := repo.Save(ctx, domain.User{Email: email, Name: "Other", Password: "hash"})
	require.NoError(t, err)
	assert.Nil(t, second)

	found, err := repo.FindByEmail(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)
}
