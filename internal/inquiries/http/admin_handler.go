package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/cascade-digital/agency-backend/internal/httpx"
	"github.com/cascade-digital/agency-backend/internal/inquiries/domain"
	"github.com/cascade-digital/agency-backend/internal/inquiries/repository"
)

// AdminHandler serves the back-office inquiry API.
type AdminHandler struct {
	repo *repository.InquiryRepository
}

func NewAdminHandler(repo *repository.InquiryRepository) *AdminHandler {
	return &AdminHandler{repo: repo}
}

func (h *AdminHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/inquiries", h.list)
	rg.GET("/inquiries/:id", h.get)
	rg.PATCH("/inquiries/:id/status", h.updateStatus)
	rg.PATCH("/inquiries/:id/assignee", h.assign)
	rg.PATCH("/inquiries/:id/value", h.setValue)
	rg.PATCH("/inquiries/:id/notes", h.setNotes)
	rg.POST("/inquiries/:id/contacted", h.markContacted)
}

func (h *AdminHandler) list(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	filter := repository.ListFilter{
		Status:     domain.Status(c.Query("status")),
		Kind:       domain.Kind(c.Query("kind")),
		AssignedTo: c.Query("assignee"),
		Limit:      limit,
		Offset:     (page - 1) * limit,
	}
	if raw := c.Query("spam"); raw != "" {
		spam, err := strconv.ParseBool(raw)
		if err != nil {
			httpx.HandleError(c, httpx.BadRequestError("invalid spam filter"))
			return
		}
		filter.Spam = &spam
	}
	if filter.Status != "" && !domain.ValidStatus(filter.Status) {
		httpx.HandleError(c, httpx.BadRequestError("invalid status filter"))
		return
	}

	inquiries, total, err := h.repo.List(c.Request.Context(), filter)
	if err != nil {
		httpx.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"inquiries": inquiries,
		"total":     total,
		"page":      page,
	})
}

func (h *AdminHandler) get(c *gin.Context) {
	inq, err := h.repo.GetByPublicID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "inquiry": inq})
}

func (h *AdminHandler) updateStatus(c *gin.Context) {
	var req struct {
		Status domain.Status `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.HandleError(c, httpx.BadRequestError("status is required"))
		return
	}

	inq, err := h.repo.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		h.handleRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "inquiry": inq})
}

func (h *AdminHandler) assign(c *gin.Context) {
	var req struct {
		Assignee string `json:"assignee"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.HandleError(c, httpx.BadRequestError("invalid body"))
		return
	}

	inq, err := h.repo.Assign(c.Request.Context(), c.Param("id"), req.Assignee)
	if err != nil {
		h.handleRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "inquiry": inq})
}

func (h *AdminHandler) setValue(c *gin.Context) {
	var req struct {
		EstimatedValue string `json:"estimated_value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.HandleError(c, httpx.BadRequestError("estimated_value is required"))
		return
	}

	value, err := decimal.NewFromString(req.EstimatedValue)
	if err != nil || value.IsNegative() {
		httpx.HandleError(c, httpx.BadRequestError("estimated_value must be a non-negative amount"))
		return
	}

	inq, err := h.repo.SetEstimatedValue(c.Request.Context(), c.Param("id"), value)
	if err != nil {
		h.handleRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "inquiry": inq})
}

func (h *AdminHandler) setNotes(c *gin.Context) {
	var req struct {
		InternalNotes string `json:"internal_notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.HandleError(c, httpx.BadRequestError("invalid body"))
		return
	}

	inq, err := h.repo.SetInternalNotes(c.Request.Context(), c.Param("id"), req.InternalNotes)
	if err != nil {
		h.handleRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "inquiry": inq})
}

func (h *AdminHandler) markContacted(c *gin.Context) {
	inq, err := h.repo.MarkContacted(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "inquiry": inq})
}

func (h *AdminHandler) handleRepoError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		httpx.HandleError(c, httpx.NotFoundError("inquiry"))
	case errors.Is(err, domain.ErrInvalidStatus):
		httpx.HandleError(c, httpx.BadRequestError("unknown status"))
	case errors.Is(err, domain.ErrInvalidTransition):
		httpx.HandleError(c, httpx.BadRequestError("status transition not allowed"))
	default:
		httpx.HandleError(c, err)
	}
}
