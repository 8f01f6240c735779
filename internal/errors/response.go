package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Error   string `json:"error"`            // error code (for frontend mapping)
	Message string `json:"message"`          // human-readable message
	Detail  string `json:"detail,omitempty"` // underlying error text (internal errors only)
}

// RespondWithError writes a standard error response.
// statusCode: HTTP status code
// errorCode: error code constant (see codes.go)
// message: human-readable message
func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   errorCode,
		Message: message,
	})
}

// Shorthand helpers for the common cases.

func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}

func NotFound(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusNotFound, errorCode, message)
}

func Conflict(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusConflict, errorCode, message)
}

// InternalError writes a 500 response. The underlying error text is
// surfaced in the detail field so clients can report what failed.
func InternalError(c *gin.Context, message string, err error) {
	if message == "" {
		message = "Something went wrong. Please try again later"
	}
	resp := ErrorResponse{
		Error:   InternalServerError,
		Message: message,
	}
	if err != nil {
		resp.Detail = err.Error()
	}
	c.JSON(http.StatusInternalServerError, resp)
}

// FieldError is a single per-field validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is the body for requests that fail input validation.
// All failing fields are reported at once, not just the first.
type ValidationError struct {
	Error   string       `json:"error"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors"`
}

func RespondWithValidationErrors(c *gin.Context, fieldErrors []FieldError) {
	c.JSON(http.StatusBadRequest, ValidationError{
		Error:   ValidationInvalidInput,
		Message: "Validation failed",
		Errors:  fieldErrors,
	})
}
