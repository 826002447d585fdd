package httpx

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cascade-digital/agency-backend/internal/logging"
)

// ApiError is an error that already knows its HTTP mapping.
type ApiError struct {
	StatusCode int
	Message    string
	ErrorCode  string
}

func (e *ApiError) Error() string {
	return e.Message
}

func NewApiError(message string, statusCode int, errorCode string) *ApiError {
	return &ApiError{
		StatusCode: statusCode,
		Message:    message,
		ErrorCode:  errorCode,
	}
}

func NotFoundError(resource string) *ApiError {
	return NewApiError(resource+" not found", http.StatusNotFound, "RESOURCE_NOT_FOUND")
}

func BadRequestError(message string) *ApiError {
	return NewApiError(message, http.StatusBadRequest, "BAD_REQUEST")
}

// HandleError logs err and writes the matching JSON response.
func HandleError(c *gin.Context, err error) {
	if c == nil {
		return
	}

	logging.L.Error().
		Err(err).
		Str("path", c.Request.URL.Path).
		Str("method", c.Request.Method).
		Msg("request failed")

	if apiErr, ok := err.(*ApiError); ok {
		response := gin.H{"success": false, "message": apiErr.Message}
		if apiErr.ErrorCode != "" {
			response["code"] = apiErr.ErrorCode
		}
		c.JSON(apiErr.StatusCode, response)
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"message": "internal server error",
	})
}
