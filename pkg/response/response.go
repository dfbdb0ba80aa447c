package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Stable machine-readable error codes.
const (
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeTokenExpired    = "TOKEN_EXPIRED"
	CodeForbidden       = "FORBIDDEN"
	CodeNotFound        = "NOT_FOUND"
	CodeInvalidInput    = "INVALID_INPUT"
	CodeRateLimited     = "RATE_LIMIT_EXCEEDED"
	CodeInternal        = "INTERNAL"
)

// ErrorBody carries a stable code, a human message and a timestamp.
// Store-internal detail never goes here.
type ErrorBody struct {
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Body is the standard API response envelope.
type Body struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

// OK sends a 200 JSON response with data.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Body{Success: true, Data: data})
}

// Created sends a 201 JSON response with data.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Body{Success: true, Data: data})
}

// NoContent sends 204.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Fail sends an error response with the given status and code.
func Fail(c *gin.Context, status int, code, message string) {
	c.JSON(status, Body{Success: false, Error: &ErrorBody{
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}})
}

// BadRequest sends 400 with code INVALID_INPUT.
func BadRequest(c *gin.Context, message string) {
	Fail(c, http.StatusBadRequest, CodeInvalidInput, message)
}

// Unauthorized sends 401 with code UNAUTHENTICATED.
func Unauthorized(c *gin.Context, message string) {
	Fail(c, http.StatusUnauthorized, CodeUnauthenticated, message)
}

// TokenExpired sends 401 with code TOKEN_EXPIRED.
func TokenExpired(c *gin.Context, message string) {
	Fail(c, http.StatusUnauthorized, CodeTokenExpired, message)
}

// Forbidden sends 403 with code FORBIDDEN.
func Forbidden(c *gin.Context, message string) {
	Fail(c, http.StatusForbidden, CodeForbidden, message)
}

// NotFound sends 404 with code NOT_FOUND.
func NotFound(c *gin.Context, message string) {
	Fail(c, http.StatusNotFound, CodeNotFound, message)
}

// RateLimited sends 429 with code RATE_LIMIT_EXCEEDED.
func RateLimited(c *gin.Context, message string) {
	Fail(c, http.StatusTooManyRequests, CodeRateLimited, message)
}

// Internal sends 500 with code INTERNAL.
func Internal(c *gin.Context, message string) {
	Fail(c, http.StatusInternalServerError, CodeInternal, message)
}
