package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/cascade-digital/agency-backend/internal/catalog/domain"
	"github.com/cascade-digital/agency-backend/internal/catalog/service"
	"github.com/cascade-digital/agency-backend/internal/httpx"
)

type Handler struct {
	catalog *service.CatalogService
}

func NewHandler(catalog *service.CatalogService) *Handler {
	return &Handler{catalog: catalog}
}

// Register attaches the public catalog routes.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/categories", h.listCategories)
	rg.GET("/categories/:slug/services", h.listCategoryServices)
	rg.GET("/services", h.listServices)
	rg.GET("/services/:slug", h.serviceDetail)
}

// RegisterAdmin attaches the staff-only catalog mutations.
func (h *Handler) RegisterAdmin(rg *gin.RouterGroup) {
	rg.POST("/services", h.createService)
	rg.PATCH("/services/:slug", h.updateService)
	rg.POST("/categories", h.createCategory)
}

func (h *Handler) listCategories(c *gin.Context) {
	categories, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		httpx.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "categories": categories})
}

func (h *Handler) listServices(c *gin.Context) {
	categorySlug := strings.TrimSpace(c.Query("category"))

	services, err := h.catalog.ListServices(c.Request.Context(), categorySlug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			httpx.HandleError(c, httpx.NotFoundError("category"))
			return
		}
		httpx.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "services": services})
}

func (h *Handler) listCategoryServices(c *gin.Context) {
	slug := c.Param("slug")

	services, err := h.catalog.ListServices(c.Request.Context(), slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			httpx.HandleError(c, httpx.NotFoundError("category"))
			return
		}
		httpx.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "category": slug, "services": services})
}

func (h *Handler) serviceDetail(c *gin.Context) {
	detail, err := h.catalog.GetServiceDetail(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			httpx.HandleError(c, httpx.NotFoundError("service"))
			return
		}
		httpx.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":            true,
		"service":            detail.Service,
		"suggested_services": detail.Suggested,
		"price_display":      detail.Service.PriceDisplay(),
		"delivery_display":   detail.Service.DeliveryDisplay(),
	})
}

type serviceReq struct {
	CategoryID       int64    `json:"category_id" binding:"required"`
	Title            string   `json:"title" binding:"required,max=200"`
	Slug             string   `json:"slug"`
	ShortDescription string   `json:"short_description" binding:"required,max=250"`
	FullDescription  string   `json:"full_description"`
	ImageURL         string   `json:"image_url" binding:"required,url"`
	IconClass        string   `json:"icon_class"`
	PriceStartingAt  *string  `json:"price_starting_at"`
	DeliveryTimeDays *int     `json:"delivery_time_days"`
	Features         []string `json:"features"`
	DisplayOrder     int      `json:"display_order"`
	IsFeatured       bool     `json:"is_featured"`
	IsActive         *bool    `json:"is_active"`
}

func (r *serviceReq) toDomain() (*domain.Service, error) {
	svc := &domain.Service{
		CategoryID:       r.CategoryID,
		Title:            r.Title,
		Slug:             r.Slug,
		ShortDescription: r.ShortDescription,
		FullDescription:  r.FullDescription,
		ImageURL:         r.ImageURL,
		IconClass:        r.IconClass,
		DeliveryTimeDays: r.DeliveryTimeDays,
		Features:         r.Features,
		DisplayOrder:     r.DisplayOrder,
		IsFeatured:       r.IsFeatured,
		IsActive:         true,
	}
	if r.IconClass == "" {
		svc.IconClass = "fas fa-laptop-code"
	}
	if r.IsActive != nil {
		svc.IsActive = *r.IsActive
	}
	if r.PriceStartingAt != nil {
		price, err := decimal.NewFromString(*r.PriceStartingAt)
		if err != nil {
			return nil, httpx.BadRequestError("invalid price")
		}
		svc.PriceStartingAt = &price
	}
	return svc, nil
}

func (h *Handler) createService(c *gin.Context) {
	var req serviceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.HandleError(c, httpx.BadRequestError("invalid body"))
		return
	}

	svc, err := req.toDomain()
	if err != nil {
		httpx.HandleError(c, err)
		return
	}

	if err := h.catalog.CreateService(c.Request.Context(), svc); err != nil {
		if errors.Is(err, domain.ErrSlugTaken) {
			httpx.HandleError(c, httpx.BadRequestError("slug already in use"))
			return
		}
		httpx.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "service": svc})
}

func (h *Handler) updateService(c *gin.Context) {
	var req serviceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.HandleError(c, httpx.BadRequestError("invalid body"))
		return
	}

	svc, err := req.toDomain()
	if err != nil {
		httpx.HandleError(c, err)
		return
	}
	svc.Slug = c.Param("slug")

	if err := h.catalog.UpdateService(c.Request.Context(), svc); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			httpx.HandleError(c, httpx.NotFoundError("service"))
			return
		}
		httpx.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "service": svc})
}

type categoryReq struct {
	Name         string `json:"name" binding:"required,max=100"`
	Slug         string `json:"slug"`
	Description  string `json:"description"`
	IconClass    string `json:"icon_class"`
	DisplayOrder int    `json:"display_order"`
	IsActive     *bool  `json:"is_active"`
}

func (h *Handler) createCategory(c *gin.Context) {
	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.HandleError(c, httpx.BadRequestError("invalid body"))
		return
	}

	cat := &domain.Category{
		Name:         req.Name,
		Slug:         req.Slug,
		Description:  req.Description,
		IconClass:    req.IconClass,
		DisplayOrder: req.DisplayOrder,
		IsActive:     true,
	}
	if cat.IconClass == "" {
		cat.IconClass = "fas fa-cog"
	}
	if req.IsActive != nil {
		cat.IsActive = *req.IsActive
	}

	if err := h.catalog.CreateCategory(c.Request.Context(), cat); err != nil {
		if errors.Is(err, domain.ErrSlugTaken) {
			httpx.HandleError(c, httpx.BadRequestError("slug already in use"))
			return
		}
		httpx.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "category": cat})
}
