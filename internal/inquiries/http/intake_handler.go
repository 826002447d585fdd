package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cascade-digital/agency-backend/config"
	"github.com/cascade-digital/agency-backend/internal/httpx"
	"github.com/cascade-digital/agency-backend/internal/inquiries/domain"
	"github.com/cascade-digital/agency-backend/internal/inquiries/intake"
	"github.com/cascade-digital/agency-backend/internal/inquiries/service"
)

// IntakeHandler exposes the public submission endpoints. Forms post either
// urlencoded bodies (progressive enhancement path) or JSON (fetch path);
// both collapse into intake.Values.
type IntakeHandler struct {
	intake *service.IntakeService
	cfg    config.IntakeConfig
}

func NewIntakeHandler(svc *service.IntakeService, cfg config.IntakeConfig) *IntakeHandler {
	return &IntakeHandler{intake: svc, cfg: cfg}
}

func (h *IntakeHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/contact", h.submitContact)
	rg.POST("/services/:slug/inquiries", h.submitServiceInquiry)
}

// RegisterValidation registers the per-step validation route separately so
// it can carry a looser rate budget than the submission routes. A wizard
// client validates each step before one final submit.
func (h *IntakeHandler) RegisterValidation(rg *gin.RouterGroup) {
	rg.POST("/contact/validate", h.validateStep)
}

func (h *IntakeHandler) submitContact(c *gin.Context) {
	values, err := readValues(c)
	if err != nil {
		httpx.HandleError(c, httpx.BadRequestError("malformed form body"))
		return
	}

	res, err := h.intake.SubmitGeneral(c.Request.Context(), values, requestMeta(c))
	h.respond(c, res, err, "")
}

func (h *IntakeHandler) submitServiceInquiry(c *gin.Context) {
	values, err := readValues(c)
	if err != nil {
		httpx.HandleError(c, httpx.BadRequestError("malformed form body"))
		return
	}

	slug := c.Param("slug")
	res, err := h.intake.SubmitService(c.Request.Context(), slug, values, requestMeta(c))
	h.respond(c, res, err, "/services/"+slug)
}

// validateStep checks a single wizard step so the client can gate its
// "Next" button. Always JSON; never persists anything.
func (h *IntakeHandler) validateStep(c *gin.Context) {
	values, err := readValues(c)
	if err != nil {
		httpx.HandleError(c, httpx.BadRequestError("malformed form body"))
		return
	}

	step, err := strconv.Atoi(c.DefaultQuery("step", values["step"]))
	if err != nil {
		httpx.HandleError(c, httpx.BadRequestError("invalid step"))
		return
	}

	ok, errs, err := h.intake.ValidateStep(step, values)
	if err != nil {
		httpx.HandleError(c, httpx.BadRequestError("invalid step"))
		return
	}
	if ok {
		c.JSON(http.StatusOK, gin.H{"success": true, "valid": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "valid": false, "errors": errs})
}

func (h *IntakeHandler) respond(c *gin.Context, res *service.Result, err error, fallback string) {
	switch {
	case err == nil && res.Inquiry != nil:
		httpx.RespondForm(c, httpx.FormResult{
			Success:     true,
			Message:     "Thank you! Your inquiry has been received. We will get back to you within one business day.",
			InquiryID:   res.Inquiry.PublicID,
			RedirectURL: h.cfg.SuccessURL,
		})
	case err == nil:
		httpx.RespondForm(c, httpx.FormResult{
			Success:     false,
			Status:      http.StatusBadRequest,
			Message:     "Please correct the highlighted fields and try again.",
			Errors:      res.FieldErrors,
			FallbackURL: fallback,
		})
	case errors.Is(err, domain.ErrNotFound):
		httpx.HandleError(c, httpx.NotFoundError("service"))
	case errors.Is(err, domain.ErrConsentRequired):
		httpx.RespondForm(c, httpx.FormResult{
			Success:     false,
			Status:      http.StatusBadRequest,
			Message:     "You must agree to be contacted to proceed.",
			Errors:      map[string][]string{"consent": {"You must agree to be contacted to proceed."}},
			FallbackURL: fallback,
		})
	default:
		httpx.RespondForm(c, httpx.FormResult{
			Success:     false,
			Status:      http.StatusInternalServerError,
			Message:     "Something went wrong on our side. Please try again in a moment.",
			FallbackURL: fallback,
		})
	}
}

// readValues flattens the request body into field values. JSON bodies take
// scalars only; nested values are rejected.
func readValues(c *gin.Context) (intake.Values, error) {
	values := intake.Values{}

	if c.ContentType() == "application/json" {
		raw := map[string]json.RawMessage{}
		if err := c.ShouldBindJSON(&raw); err != nil {
			return nil, err
		}
		for name, rm := range raw {
			var s string
			if err := json.Unmarshal(rm, &s); err == nil {
				values[name] = s
				continue
			}
			var b bool
			if err := json.Unmarshal(rm, &b); err == nil {
				values[name] = strconv.FormatBool(b)
				continue
			}
			var n float64
			if err := json.Unmarshal(rm, &n); err == nil {
				values[name] = strconv.FormatFloat(n, 'f', -1, 64)
				continue
			}
			return nil, errors.New("non-scalar form value")
		}
		return values, nil
	}

	if err := c.Request.ParseForm(); err != nil {
		return nil, err
	}
	for name := range c.Request.PostForm {
		values[name] = c.Request.PostForm.Get(name)
	}
	return values, nil
}

func requestMeta(c *gin.Context) service.Meta {
	return service.Meta{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Referrer:  c.Request.Referer(),
	}
}
