package server

import (
	"github.com/gin-gonic/gin"
)

// Error codes returned in ErrorBody.Code.
const (
	CodeInvalidRequest = "invalid_request"
	CodeNotFound       = "not_found"
	CodeUpstream       = "upstream_error"
	CodeBlocked        = "blocked_by_robots"
	CodeRateLimited    = "rate_limited"
	CodeInternal       = "internal"
)

// ErrorBody is the error object of every failed response.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorResponse wraps ErrorBody.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

func respondError(c *gin.Context, status int, code, message string, details any) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorBody{Code: code, Message: message, Details: details},
	})
}
