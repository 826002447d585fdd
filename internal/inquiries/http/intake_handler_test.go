package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cascade-digital/agency-backend/config"
	catalogdomain "github.com/cascade-digital/agency-backend/internal/catalog/domain"
	"github.com/cascade-digital/agency-backend/internal/inquiries/domain"
	"github.com/cascade-digital/agency-backend/internal/inquiries/service"
	"github.com/cascade-digital/agency-backend/internal/inquiries/spam"
)

type stubStore struct {
	created int
	err     error
}

func (s *stubStore) Create(ctx context.Context, inq *domain.Inquiry) error {
	if s.err != nil {
		return s.err
	}
	s.created++
	inq.ID = int64(s.created)
	inq.PublicID = "inq-0000-0001"
	inq.Status = domain.StatusNew
	return nil
}

type stubCatalog struct{}

func (stubCatalog) GetServiceBySlug(ctx context.Context, slug string) (*catalogdomain.Service, error) {
	if slug == "web-development" {
		return &catalogdomain.Service{ID: 7, Title: "Web Development", Slug: slug}, nil
	}
	return nil, catalogdomain.ErrNotFound
}

type noopNotifier struct{}

func (noopNotifier) Notify(inq *domain.Inquiry, serviceTitle string) {}

func newTestRouter(store *stubStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(sessions.Sessions("test_session", cookie.NewStore([]byte("test-secret"))))

	svc := service.NewIntakeService(store, stubCatalog{}, noopNotifier{}, spam.New(spam.DefaultConfig()))
	h := NewIntakeHandler(svc, config.IntakeConfig{SuccessURL: "/contact/success/"})

	api := r.Group("/api/v1")
	h.Register(api)
	h.RegisterValidation(api)
	return r
}

func validForm() url.Values {
	return url.Values{
		"full_name":           {"Jane Doe"},
		"email":               {"jane@acme-corp.com"},
		"phone":               {"+44 20 7946 0958"},
		"company_name":        {"Acme Corp"},
		"country":             {"United Kingdom"},
		"project_type":        {"Website Redesign"},
		"project_description": {"Full redesign of our marketing site with CMS migration."},
		"timeline":            {"flexible"},
		"budget_range":        {"10k_25k"},
		"consent":             {"on"},
	}
}

func postForm(r *gin.Engine, path string, form url.Values, ajax bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if ajax {
		req.Header.Set("X-Requested-With", "XMLHttpRequest")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSubmitContact_AJAX(t *testing.T) {
	t.Run("success returns inquiry id and redirect url", func(t *testing.T) {
		store := &stubStore{}
		r := newTestRouter(store)

		w := postForm(r, "/api/v1/contact", validForm(), true)
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Success     bool   `json:"success"`
			Message     string `json:"message"`
			InquiryID   string `json:"inquiry_id"`
			RedirectURL string `json:"redirect_url"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.True(t, body.Success)
		assert.Equal(t, "inq-0000-0001", body.InquiryID)
		assert.Equal(t, "/contact/success/", body.RedirectURL)
		assert.NotEmpty(t, body.Message)
		assert.Equal(t, 1, store.created)
	})

	t.Run("validation failure lists field errors", func(t *testing.T) {
		store := &stubStore{}
		r := newTestRouter(store)

		form := validForm()
		form.Set("email", "broken")
		form.Del("consent")

		w := postForm(r, "/api/v1/contact", form, true)
		require.Equal(t, http.StatusBadRequest, w.Code)

		var body struct {
			Success bool `json:"success"`
			Errors  map[string][]struct {
				Message string `json:"message"`
			} `json:"errors"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.False(t, body.Success)
		require.Contains(t, body.Errors, "email")
		require.Contains(t, body.Errors, "consent")
		assert.NotEmpty(t, body.Errors["email"][0].Message)
		assert.Zero(t, store.created)
	})

	t.Run("honeypot trips the same validation path", func(t *testing.T) {
		store := &stubStore{}
		r := newTestRouter(store)

		form := validForm()
		form.Set("website", "http://bot.example")

		w := postForm(r, "/api/v1/contact", form, true)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Zero(t, store.created)
	})

	t.Run("store failure is a generic 500", func(t *testing.T) {
		store := &stubStore{err: context.DeadlineExceeded}
		r := newTestRouter(store)

		w := postForm(r, "/api/v1/contact", validForm(), true)
		require.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "deadline", "internals stay private")
	})

	t.Run("accepts a json body", func(t *testing.T) {
		store := &stubStore{}
		r := newTestRouter(store)

		payload := map[string]interface{}{
			"full_name":           "Jane Doe",
			"email":               "jane@acme-corp.com",
			"company_name":        "Acme Corp",
			"country":             "United Kingdom",
			"project_type":        "Website Redesign",
			"project_description": "Full redesign of our marketing site with CMS migration.",
			"timeline":            "flexible",
			"budget_range":        "10k_25k",
			"consent":             true,
		}
		raw, err := json.Marshal(payload)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/contact", strings.NewReader(string(raw)))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Requested-With", "XMLHttpRequest")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, store.created)
	})
}

func TestSubmitContact_Redirect(t *testing.T) {
	t.Run("browser submission redirects to the success page", func(t *testing.T) {
		r := newTestRouter(&stubStore{})

		w := postForm(r, "/api/v1/contact", validForm(), false)
		require.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/contact/success/", w.Header().Get("Location"))
	})

	t.Run("validation failure redirects back to the referring page", func(t *testing.T) {
		r := newTestRouter(&stubStore{})

		form := validForm()
		form.Del("email")

		req := httptest.NewRequest(http.MethodPost, "/api/v1/contact", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Referer", "/contact/")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/contact/", w.Header().Get("Location"))
	})
}

func TestSubmitServiceInquiry(t *testing.T) {
	serviceForm := func() url.Values {
		form := validForm()
		form.Del("company_name")
		form.Del("country")
		return form
	}

	t.Run("known slug accepts the inquiry", func(t *testing.T) {
		store := &stubStore{}
		r := newTestRouter(store)

		w := postForm(r, "/api/v1/services/web-development/inquiries", serviceForm(), true)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, store.created)
	})

	t.Run("unknown slug is a 404", func(t *testing.T) {
		store := &stubStore{}
		r := newTestRouter(store)

		w := postForm(r, "/api/v1/services/no-such-service/inquiries", serviceForm(), true)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Zero(t, store.created)
	})
}

func TestValidateStep(t *testing.T) {
	r := newTestRouter(&stubStore{})

	t.Run("valid step fields pass", func(t *testing.T) {
		form := url.Values{
			"full_name": {"Jane Doe"},
			"email":     {"jane@acme-corp.com"},
		}
		w := postForm(r, "/api/v1/contact/validate?step=1", form, true)
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Valid bool `json:"valid"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.True(t, body.Valid)
	})

	t.Run("invalid step fields report errors", func(t *testing.T) {
		form := url.Values{"full_name": {"Jane Doe"}}
		w := postForm(r, "/api/v1/contact/validate?step=1", form, true)
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Valid  bool                `json:"valid"`
			Errors map[string][]string `json:"errors"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.False(t, body.Valid)
		assert.Contains(t, body.Errors, "email")
	})

	t.Run("bad step number is a 400", func(t *testing.T) {
		w := postForm(r, "/api/v1/contact/validate?step=12", url.Values{}, true)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
