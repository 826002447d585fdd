package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func formRouter(res FormResult) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(sessions.Sessions("test_session", cookie.NewStore([]byte("secret"))))
	r.POST("/submit", func(c *gin.Context) {
		RespondForm(c, res)
	})
	return r
}

func doPost(r *gin.Engine, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/submit", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIsAJAX(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	assert.False(t, IsAJAX(c))

	c.Request.Header.Set("X-Requested-With", "XMLHttpRequest")
	assert.True(t, IsAJAX(c))
}

func TestRespondForm_AJAX(t *testing.T) {
	t.Run("success payload carries id and redirect", func(t *testing.T) {
		r := formRouter(FormResult{
			Success:     true,
			Message:     "Thanks!",
			InquiryID:   "inq-1",
			RedirectURL: "/contact/success/",
		})
		w := doPost(r, map[string]string{"X-Requested-With": "XMLHttpRequest"})

		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "inq-1", body["inquiry_id"])
		assert.Equal(t, "/contact/success/", body["redirect_url"])
	})

	t.Run("failure wraps field errors as message objects", func(t *testing.T) {
		r := formRouter(FormResult{
			Success: false,
			Message: "Fix the form.",
			Errors:  map[string][]string{"email": {"Please enter a valid email address."}},
		})
		w := doPost(r, map[string]string{"X-Requested-With": "XMLHttpRequest"})

		require.Equal(t, http.StatusBadRequest, w.Code)
		var body struct {
			Success bool `json:"success"`
			Errors  map[string][]struct {
				Message string `json:"message"`
			} `json:"errors"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.False(t, body.Success)
		require.Len(t, body.Errors["email"], 1)
		assert.Equal(t, "Please enter a valid email address.", body.Errors["email"][0].Message)
	})

	t.Run("explicit status wins over the default", func(t *testing.T) {
		r := formRouter(FormResult{Success: false, Status: http.StatusInternalServerError, Message: "oops"})
		w := doPost(r, map[string]string{"X-Requested-With": "XMLHttpRequest"})
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestFlashesHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(sessions.Sessions("test_session", cookie.NewStore([]byte("secret"))))
	r.POST("/submit", func(c *gin.Context) {
		RespondForm(c, FormResult{Success: true, Message: "Thanks!", RedirectURL: "/contact/success/"})
	})
	r.GET("/flashes", FlashesHandler)

	submit := httptest.NewRequest(http.MethodPost, "/submit", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, submit)
	require.Equal(t, http.StatusSeeOther, w.Code)
	sessionCookie := w.Header().Get("Set-Cookie")
	require.NotEmpty(t, sessionCookie)

	readFlashes := func() []Flash {
		req := httptest.NewRequest(http.MethodGet, "/flashes", nil)
		req.Header.Set("Cookie", sessionCookie)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		var body struct {
			Flashes []Flash `json:"flashes"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		if c := w.Header().Get("Set-Cookie"); c != "" {
			sessionCookie = c
		}
		return body.Flashes
	}

	t.Run("drain returns the message stored by the redirect", func(t *testing.T) {
		flashes := readFlashes()
		require.Len(t, flashes, 1)
		assert.Equal(t, "success", flashes[0].Level)
		assert.Equal(t, "Thanks!", flashes[0].Message)
	})

	t.Run("second drain is empty", func(t *testing.T) {
		assert.Empty(t, readFlashes())
	})
}

func TestRespondForm_Redirect(t *testing.T) {
	t.Run("success redirects to the configured page", func(t *testing.T) {
		r := formRouter(FormResult{Success: true, Message: "Thanks!", RedirectURL: "/contact/success/"})
		w := doPost(r, nil)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/contact/success/", w.Header().Get("Location"))
	})

	t.Run("failure falls back to the referer", func(t *testing.T) {
		r := formRouter(FormResult{Success: false, Message: "Fix the form."})
		w := doPost(r, map[string]string{"Referer": "/contact/"})

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/contact/", w.Header().Get("Location"))
	})

	t.Run("failure without referer uses the fallback then root", func(t *testing.T) {
		r := formRouter(FormResult{Success: false, Message: "Fix it.", FallbackURL: "/services/x"})
		w := doPost(r, nil)
		assert.Equal(t, "/services/x", w.Header().Get("Location"))

		r = formRouter(FormResult{Success: false, Message: "Fix it."})
		w = doPost(r, nil)
		assert.Equal(t, "/", w.Header().Get("Location"))
	})
}
