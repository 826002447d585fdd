package service

import (
	"context"
	"errors"

	"github.com/cascade-digital/agency-backend/internal/catalog/cache"
	"github.com/cascade-digital/agency-backend/internal/catalog/domain"
	"github.com/cascade-digital/agency-backend/internal/catalog/repository"
	"github.com/cascade-digital/agency-backend/internal/logging"
)

// CatalogService serves catalog reads through the cache and routes admin
// writes straight to the repository, invalidating the cache afterwards.
type CatalogService struct {
	repo  *repository.CatalogRepository
	cache *cache.CatalogCache
}

func NewCatalogService(repo *repository.CatalogRepository, c *cache.CatalogCache) *CatalogService {
	return &CatalogService{repo: repo, cache: c}
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetCategories(ctx); err == nil {
			return cached, nil
		} else if !errors.Is(err, cache.ErrMiss) {
			logging.L.Warn().Err(err).Msg("category cache read failed")
		}
	}

	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetCategories(ctx, categories); err != nil {
			logging.L.Warn().Err(err).Msg("category cache write failed")
		}
	}
	return categories, nil
}

func (s *CatalogService) ListServices(ctx context.Context, categorySlug string) ([]domain.Service, error) {
	if categorySlug != "" {
		// 404 for unknown categories rather than an empty listing
		if _, err := s.repo.GetCategoryBySlug(ctx, categorySlug); err != nil {
			return nil, err
		}
	}

	if s.cache != nil {
		if cached, err := s.cache.GetServices(ctx, categorySlug); err == nil {
			return cached, nil
		} else if !errors.Is(err, cache.ErrMiss) {
			logging.L.Warn().Err(err).Msg("service listing cache read failed")
		}
	}

	services, err := s.repo.ListServices(ctx, categorySlug)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetServices(ctx, categorySlug, services); err != nil {
			logging.L.Warn().Err(err).Msg("service listing cache write failed")
		}
	}
	return services, nil
}

// ServiceDetail is a service plus its suggested alternatives.
type ServiceDetail struct {
	Service   domain.Service   `json:"service"`
	Suggested []domain.Service `json:"suggested_services"`
}

func (s *CatalogService) GetServiceDetail(ctx context.Context, slug string) (*ServiceDetail, error) {
	svc, err := s.GetServiceBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	suggested, err := s.repo.SuggestedServices(ctx, svc.ID, svc.CategoryID, 3)
	if err != nil {
		return nil, err
	}

	return &ServiceDetail{Service: *svc, Suggested: suggested}, nil
}

func (s *CatalogService) GetServiceBySlug(ctx context.Context, slug string) (*domain.Service, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetService(ctx, slug); err == nil {
			return cached, nil
		} else if !errors.Is(err, cache.ErrMiss) {
			logging.L.Warn().Err(err).Msg("service cache read failed")
		}
	}

	svc, err := s.repo.GetServiceBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetService(ctx, svc); err != nil {
			logging.L.Warn().Err(err).Msg("service cache write failed")
		}
	}
	return svc, nil
}

func (s *CatalogService) CreateService(ctx context.Context, svc *domain.Service) error {
	if err := s.repo.CreateService(ctx, svc); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CatalogService) UpdateService(ctx context.Context, svc *domain.Service) error {
	if err := s.repo.UpdateService(ctx, svc); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, c *domain.Category) error {
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// WarmCache refreshes the listing keys ahead of their expiry.
func (s *CatalogService) WarmCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}

	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return err
	}
	if err := s.cache.SetCategories(ctx, categories); err != nil {
		return err
	}

	services, err := s.repo.ListServices(ctx, "")
	if err != nil {
		return err
	}
	if err := s.cache.SetServices(ctx, "", services); err != nil {
		return err
	}

	for _, c := range categories {
		perCat, err := s.repo.ListServices(ctx, c.Slug)
		if err != nil {
			return err
		}
		if err := s.cache.SetServices(ctx, c.Slug, perCat); err != nil {
			return err
		}
	}
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		logging.L.Warn().Err(err).Msg("catalog cache invalidation failed")
	}
}
