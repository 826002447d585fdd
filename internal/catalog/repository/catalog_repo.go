package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/cascade-digital/agency-backend/internal/catalog/domain"
)

// CatalogRepository provides persistence for categories and services.
type CatalogRepository struct {
	db *sql.DB
}

func NewCatalogRepository(db *sql.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// ListCategories returns active categories in display order with their
// active service counts.
func (r *CatalogRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	const q = `
SELECT c.id, c.name, c.slug, c.description, c.icon_class, c.display_order,
       c.is_active, c.created_at, c.updated_at,
       count(s.id) FILTER (WHERE s.is_active) AS service_count
FROM categories c
LEFT JOIN services s ON s.category_id = c.id
WHERE c.is_active
GROUP BY c.id
ORDER BY c.display_order, c.name;
`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Category, 0, 8)
	for rows.Next() {
		var c domain.Category
		var desc sql.NullString
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Slug, &desc, &c.IconClass, &c.DisplayOrder,
			&c.IsActive, &c.CreatedAt, &c.UpdatedAt, &c.ServiceCount,
		); err != nil {
			return nil, err
		}
		c.Description = desc.String
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CatalogRepository) GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	const q = `
SELECT id, name, slug, description, icon_class, display_order, is_active,
       created_at, updated_at
FROM categories
WHERE slug = $1 AND is_active;
`
	var c domain.Category
	var desc sql.NullString
	err := r.db.QueryRowContext(ctx, q, slug).Scan(
		&c.ID, &c.Name, &c.Slug, &desc, &c.IconClass, &c.DisplayOrder,
		&c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	c.Description = desc.String
	return &c, nil
}

const serviceColumns = `
s.id, s.category_id, c.name, c.slug, s.title, s.slug, s.short_description,
s.full_description, s.image_url, s.icon_class, s.price_starting_at,
s.delivery_time_days, s.features, s.display_order, s.is_featured,
s.is_active, s.created_at, s.updated_at`

// ListServices returns active services in display order, optionally
// narrowed to one category slug.
func (r *CatalogRepository) ListServices(ctx context.Context, categorySlug string) ([]domain.Service, error) {
	q := `
SELECT ` + serviceColumns + `
FROM services s
JOIN categories c ON c.id = s.category_id
WHERE s.is_active AND c.is_active`
	args := []interface{}{}
	if categorySlug != "" {
		q += ` AND c.slug = $1`
		args = append(args, categorySlug)
	}
	q += ` ORDER BY s.display_order, s.title;`

	return r.queryServices(ctx, q, args...)
}

func (r *CatalogRepository) GetServiceBySlug(ctx context.Context, slug string) (*domain.Service, error) {
	q := `
SELECT ` + serviceColumns + `
FROM services s
JOIN categories c ON c.id = s.category_id
WHERE s.slug = $1 AND s.is_active;
`
	services, err := r.queryServices(ctx, q, slug)
	if err != nil {
		return nil, err
	}
	if len(services) == 0 {
		return nil, domain.ErrNotFound
	}
	return &services[0], nil
}

// SuggestedServices returns up to limit services related to the given one:
// same category first, topped up with featured services from elsewhere.
func (r *CatalogRepository) SuggestedServices(ctx context.Context, serviceID, categoryID int64, limit int) ([]domain.Service, error) {
	if limit <= 0 {
		limit = 3
	}

	q := `
SELECT ` + serviceColumns + `
FROM services s
JOIN categories c ON c.id = s.category_id
WHERE s.is_active AND s.id <> $1 AND s.category_id = $2
ORDER BY s.display_order
LIMIT $3;
`
	related, err := r.queryServices(ctx, q, serviceID, categoryID, limit)
	if err != nil {
		return nil, err
	}

	if len(related) < limit {
		q := `
SELECT ` + serviceColumns + `
FROM services s
JOIN categories c ON c.id = s.category_id
WHERE s.is_active AND s.is_featured AND s.id <> $1 AND s.category_id <> $2
ORDER BY random()
LIMIT $3;
`
		featured, err := r.queryServices(ctx, q, serviceID, categoryID, limit-len(related))
		if err != nil {
			return nil, err
		}
		related = append(related, featured...)
	}

	return related, nil
}

// CreateService inserts a catalog service. A missing slug is derived from
// the title.
func (r *CatalogRepository) CreateService(ctx context.Context, s *domain.Service) error {
	if s.Slug == "" {
		s.Slug = domain.Slugify(s.Title)
	}
	features, err := json.Marshal(featuresOrEmpty(s.Features))
	if err != nil {
		return err
	}

	const q = `
INSERT INTO services (
  category_id, title, slug, short_description, full_description, image_url,
  icon_class, price_starting_at, delivery_time_days, features,
  display_order, is_featured, is_active
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
RETURNING id, created_at, updated_at;
`
	err = r.db.QueryRowContext(ctx, q,
		s.CategoryID, s.Title, s.Slug, s.ShortDescription, s.FullDescription,
		s.ImageURL, s.IconClass, s.PriceStartingAt, s.DeliveryTimeDays,
		features, s.DisplayOrder, s.IsFeatured, s.IsActive,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)

	var pgErr *pq.Error
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return domain.ErrSlugTaken
	}
	return err
}

// UpdateService applies mutable fields by slug.
func (r *CatalogRepository) UpdateService(ctx context.Context, s *domain.Service) error {
	features, err := json.Marshal(featuresOrEmpty(s.Features))
	if err != nil {
		return err
	}

	const q = `
UPDATE services SET
  title = $2, short_description = $3, full_description = $4, image_url = $5,
  icon_class = $6, price_starting_at = $7, delivery_time_days = $8,
  features = $9, display_order = $10, is_featured = $11, is_active = $12,
  updated_at = now()
WHERE slug = $1
RETURNING id, category_id, created_at, updated_at;
`
	err = r.db.QueryRowContext(ctx, q,
		s.Slug, s.Title, s.ShortDescription, s.FullDescription, s.ImageURL,
		s.IconClass, s.PriceStartingAt, s.DeliveryTimeDays, features,
		s.DisplayOrder, s.IsFeatured, s.IsActive,
	).Scan(&s.ID, &s.CategoryID, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

func (r *CatalogRepository) CreateCategory(ctx context.Context, c *domain.Category) error {
	if c.Slug == "" {
		c.Slug = domain.Slugify(c.Name)
	}

	const q = `
INSERT INTO categories (name, slug, description, icon_class, display_order, is_active)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, created_at, updated_at;
`
	err := r.db.QueryRowContext(ctx, q,
		c.Name, c.Slug, c.Description, c.IconClass, c.DisplayOrder, c.IsActive,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)

	var pgErr *pq.Error
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return domain.ErrSlugTaken
	}
	return err
}

func (r *CatalogRepository) queryServices(ctx context.Context, q string, args ...interface{}) ([]domain.Service, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Service, 0, 16)
	for rows.Next() {
		var (
			s        domain.Service
			fullDesc sql.NullString
			price    sql.NullString
			delivery sql.NullInt64
			features []byte
		)
		if err := rows.Scan(
			&s.ID, &s.CategoryID, &s.CategoryName, &s.CategorySlug, &s.Title,
			&s.Slug, &s.ShortDescription, &fullDesc, &s.ImageURL, &s.IconClass,
			&price, &delivery, &features, &s.DisplayOrder, &s.IsFeatured,
			&s.IsActive, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		s.FullDescription = fullDesc.String
		if price.Valid {
			if v, err := decimalFromString(price.String); err == nil {
				s.PriceStartingAt = v
			}
		}
		if delivery.Valid {
			d := int(delivery.Int64)
			s.DeliveryTimeDays = &d
		}
		if len(features) > 0 {
			if err := json.Unmarshal(features, &s.Features); err != nil {
				return nil, err
			}
		}
		if s.Features == nil {
			s.Features = []string{}
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func decimalFromString(s string) (*decimal.Decimal, error) {
	v, err := decimal.NewFromString(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func featuresOrEmpty(features []string) []string {
	if features == nil {
		return []string{}
	}
	return features
}
