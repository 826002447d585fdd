package httpx

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const flashKey = "flashes"

// IsAJAX reports whether the request came from a background fetch call.
func IsAJAX(c *gin.Context) bool {
	return c.GetHeader("X-Requested-With") == "XMLHttpRequest"
}

// Flash is a message carried over one redirect in the session,
// rendered by the next page load.
type Flash struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

func AddFlash(c *gin.Context, level, message string) {
	session := sessions.Default(c)
	session.AddFlash(message, flashKey+":"+level)
	_ = session.Save()
}

// PopFlashes drains and returns all pending flash messages.
func PopFlashes(c *gin.Context) []Flash {
	session := sessions.Default(c)
	out := []Flash{}
	for _, level := range []string{"success", "error"} {
		for _, raw := range session.Flashes(flashKey + ":" + level) {
			if msg, ok := raw.(string); ok {
				out = append(out, Flash{Level: level, Message: msg})
			}
		}
	}
	_ = session.Save()
	return out
}

// FlashesHandler drains the session's pending flash messages so a page
// render after a redirect can display them once.
func FlashesHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "flashes": PopFlashes(c)})
}

// FormResult is the backend outcome of a form submission, independent of
// how the client wants it rendered.
type FormResult struct {
	Success     bool
	Status      int
	Message     string
	InquiryID   string
	RedirectURL string
	Errors      map[string][]string
	FallbackURL string
}

type fieldErrorJSON struct {
	Message string `json:"message"`
}

// RespondForm adapts a FormResult to the caller's protocol: JSON for AJAX
// requests, redirect plus session flash otherwise.
func RespondForm(c *gin.Context, res FormResult) {
	if IsAJAX(c) {
		respondFormJSON(c, res)
		return
	}

	if res.Success {
		AddFlash(c, "success", res.Message)
		c.Redirect(http.StatusSeeOther, res.RedirectURL)
		return
	}

	AddFlash(c, "error", res.Message)
	back := c.Request.Referer()
	if back == "" {
		back = res.FallbackURL
	}
	if back == "" {
		back = "/"
	}
	c.Redirect(http.StatusSeeOther, back)
}

func respondFormJSON(c *gin.Context, res FormResult) {
	if res.Success {
		c.JSON(http.StatusOK, gin.H{
			"success":      true,
			"message":      res.Message,
			"inquiry_id":   res.InquiryID,
			"redirect_url": res.RedirectURL,
		})
		return
	}

	status := res.Status
	if status == 0 {
		status = http.StatusBadRequest
	}

	body := gin.H{"success": false, "message": res.Message}
	if len(res.Errors) > 0 {
		errs := make(map[string][]fieldErrorJSON, len(res.Errors))
		for field, msgs := range res.Errors {
			list := make([]fieldErrorJSON, 0, len(msgs))
			for _, m := range msgs {
				list = append(list, fieldErrorJSON{Message: m})
			}
			errs[field] = list
		}
		body["errors"] = errs
	}
	c.JSON(status, body)
}
