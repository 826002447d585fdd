package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cascade-digital/agency-backend/internal/catalog/domain"
)

const (
	categoriesKey    = "catalog:categories"          // active category listing
	servicesKey      = "catalog:services:all"        // full active service listing
	servicesByCatKey = "catalog:services:cat:"       // per-category listing: catalog:services:cat:{slug}
	serviceKey       = "catalog:service:"            // service detail: catalog:service:{slug}
	scanPattern      = "catalog:*"

	// TTLs mirror the page-cache durations the listings had before:
	// 15 minutes for detail, 30 for listings.
	detailTTL  = 15 * time.Minute
	listingTTL = 30 * time.Minute
)

var ErrMiss = errors.New("cache miss")

// CatalogCache is a read-only, time-expiring cache over catalog listings.
// It is never consulted on the write path; admin mutations invalidate it.
type CatalogCache struct {
	client *redis.Client
}

func NewCatalogCache(client *redis.Client) *CatalogCache {
	return &CatalogCache{client: client}
}

func (c *CatalogCache) GetCategories(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	if err := c.get(ctx, categoriesKey, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CatalogCache) SetCategories(ctx context.Context, categories []domain.Category) error {
	return c.set(ctx, categoriesKey, categories, listingTTL)
}

func (c *CatalogCache) GetServices(ctx context.Context, categorySlug string) ([]domain.Service, error) {
	var out []domain.Service
	if err := c.get(ctx, servicesListKey(categorySlug), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CatalogCache) SetServices(ctx context.Context, categorySlug string, services []domain.Service) error {
	return c.set(ctx, servicesListKey(categorySlug), services, listingTTL)
}

func (c *CatalogCache) GetService(ctx context.Context, slug string) (*domain.Service, error) {
	var out domain.Service
	if err := c.get(ctx, serviceKey+slug, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *CatalogCache) SetService(ctx context.Context, svc *domain.Service) error {
	return c.set(ctx, serviceKey+svc.Slug, svc, detailTTL)
}

// Invalidate drops every catalog key. Admin mutations are rare enough that
// a full sweep beats tracking key dependencies.
func (c *CatalogCache) Invalidate(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, scanPattern, 100).Iterator()
	keys := []string{}
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan catalog keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("invalidate catalog cache: %w", err)
	}
	return nil
}

func servicesListKey(categorySlug string) string {
	if categorySlug == "" {
		return servicesKey
	}
	return servicesByCatKey + categorySlug
}

func (c *CatalogCache) get(ctx context.Context, key string, dest interface{}) error {
	data, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return ErrMiss
	}
	if err != nil {
		return fmt.Errorf("cache get %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return fmt.Errorf("cache decode %s: %w", key, err)
	}
	return nil
}

func (c *CatalogCache) set(ctx context.Context, key string, v interface{}, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}
