package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"pearlcard/internal/domain"
	"pearlcard/internal/http/middleware"
	"pearlcard/internal/utils"
)

type sessionRequest struct {
	UserID string `json:"user_id"`
}

// POST /api/session starts a session for a user id. The portal has no
// credentials of its own; the token only scopes /api/me routes to one user.
func CreateSession(c *gin.Context) {
	var req sessionRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		RespondDomainError(c, domain.ValidationError{Field: "user_id", Msg: "required"})
		return
	}

	d := currentDeps()
	token, exp, err := middleware.IssueToken(d.JWTSecret, userID, d.SessionTTL, time.Now())
	if err != nil {
		RespondDomainError(c, domain.InternalError{Msg: "failed to issue session", Err: err})
		return
	}
	utils.LogEvent(middleware.GetRequestID(c), "session", "create", "user_id="+userID)
	c.JSON(http.StatusCreated, gin.H{"token": token, "user_id": userID, "expires_at": exp.UTC()})
}
