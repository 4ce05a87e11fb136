package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pearlcard/internal/domain"
	"pearlcard/internal/http/middleware"
	"pearlcard/internal/utils"
)

// ErrorResponse standardizes error payloads.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

func respondError(c *gin.Context, status int, code, message string, details any) {
	if code == "" {
		code = http.StatusText(status)
	}
	resp := ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	}
	reqID := middleware.GetRequestID(c)
	if reqID != "" {
		c.JSON(status, gin.H{
			"error":      resp.Error,
			"code":       resp.Code,
			"details":    resp.Details,
			"request_id": reqID,
			"message":    message,
		})
		return
	}
	c.JSON(status, resp)
}

// RespondDomainError maps domain errors to HTTP responses.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		respondError(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case domain.IsLimitExceeded(err):
		var le domain.LimitExceededError
		errors.As(err, &le)
		respondError(c, http.StatusTooManyRequests, "limit_exceeded", err.Error(), gin.H{"limit": le.Limit})
	case domain.IsUpstream(err):
		var ue domain.UpstreamError
		errors.As(err, &ue)
		utils.LogFailure(middleware.GetRequestID(c), "http", "upstream", err)
		respondError(c, http.StatusBadGateway, "upstream_error", err.Error(), gin.H{"op": ue.Op, "status": ue.Status})
	default:
		utils.LogFailure(middleware.GetRequestID(c), "http", "internal", err)
		respondError(c, http.StatusInternalServerError, "internal_error", "internal server error", nil)
	}
}
