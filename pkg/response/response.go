// Package response defines the JSON envelope every API handler replies
// with, so clients parse one shape for success and failure alike.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the wire envelope. Code is zero on success and mirrors the
// HTTP status on failure.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Details string `json:"details,omitempty"`
}

// OK writes a 200 with the payload.
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Accepted writes a 202 for work that continues after the reply.
func Accepted(c *gin.Context, data any) {
	c.JSON(http.StatusAccepted, Response{
		Code:    0,
		Message: "accepted",
		Data:    data,
	})
}

// Error writes an error envelope with the given HTTP status.
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, Response{
		Code:    status,
		Message: message,
	})
}

// ErrorWithDetails writes an error envelope carrying extra context.
func ErrorWithDetails(c *gin.Context, status int, message, details string) {
	c.JSON(status, Response{
		Code:    status,
		Message: message,
		Details: details,
	})
}

// BadRequest writes a 400.
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// NotFound writes a 404.
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// Conflict writes a 409.
func Conflict(c *gin.Context, message string) {
	Error(c, http.StatusConflict, message)
}

// InternalError writes a 500.
func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}
