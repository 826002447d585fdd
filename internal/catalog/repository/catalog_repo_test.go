package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cascade-digital/agency-backend/internal/catalog/domain"
)

func setupCatalogRepo(t *testing.T) (*CatalogRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewCatalogRepository(db), mock, db
}

func categoryRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "slug", "description", "icon_class", "display_order",
		"is_active", "created_at", "updated_at", "service_count",
	})
}

func serviceRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "category_id", "name", "slug", "title", "s_slug",
		"short_description", "full_description", "image_url", "icon_class",
		"price_starting_at", "delivery_time_days", "features",
		"display_order", "is_featured", "is_active", "created_at", "updated_at",
	})
}

func TestCatalogRepository_ListCategories(t *testing.T) {
	repo, mock, db := setupCatalogRepo(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`SELECT (.+) FROM categories c`).
		WillReturnRows(categoryRows().
			AddRow(int64(1), "Web Development", "web-development", "Sites and apps",
				"fas fa-laptop-code", 1, true, now, now, 4).
			AddRow(int64(2), "Design", "design", nil, "fas fa-pen-nib", 2, true, now, now, 0))

	out, err := repo.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "web-development", out[0].Slug)
	assert.Equal(t, 4, out[0].ServiceCount)
	assert.Empty(t, out[1].Description, "null description comes back empty")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepository_GetServiceBySlug(t *testing.T) {
	t.Run("found service carries category context", func(t *testing.T) {
		repo, mock, db := setupCatalogRepo(t)
		defer db.Close()

		now := time.Now()
		mock.ExpectQuery(`SELECT (.+) FROM services s`).
			WithArgs("web-development").
			WillReturnRows(serviceRows().
				AddRow(int64(7), int64(1), "Engineering", "engineering", "Web Development",
					"web-development", "Full-stack builds", "", "https://img.example/web.png",
					"fas fa-laptop-code", "2500.00", 14, []byte(`["Responsive","CMS"]`),
					1, true, true, now, now))

		svc, err := repo.GetServiceBySlug(context.Background(), "web-development")
		require.NoError(t, err)
		assert.Equal(t, "Web Development", svc.Title)
		assert.Equal(t, "engineering", svc.CategorySlug)
		require.NotNil(t, svc.PriceStartingAt)
		assert.Equal(t, "2500", svc.PriceStartingAt.String())
		assert.Equal(t, []string{"Responsive", "CMS"}, svc.Features)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing service maps to not found", func(t *testing.T) {
		repo, mock, db := setupCatalogRepo(t)
		defer db.Close()

		mock.ExpectQuery(`SELECT (.+) FROM services s`).
			WithArgs("ghost").
			WillReturnRows(serviceRows())

		_, err := repo.GetServiceBySlug(context.Background(), "ghost")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCatalogRepository_CreateCategory(t *testing.T) {
	t.Run("slug collision maps to slug taken", func(t *testing.T) {
		repo, mock, db := setupCatalogRepo(t)
		defer db.Close()

		mock.ExpectQuery(`INSERT INTO categories`).
			WillReturnError(&pq.Error{Code: "23505"})

		err := repo.CreateCategory(context.Background(), &domain.Category{Name: "Design"})
		assert.ErrorIs(t, err, domain.ErrSlugTaken)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
