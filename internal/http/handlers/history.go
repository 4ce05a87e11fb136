package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pearlcard/internal/http/middleware"
)

// userResolver picks whose history a route serves.
type userResolver func(c *gin.Context) (string, bool)

func userFromParam(c *gin.Context) (string, bool) {
	return c.Param("id"), true
}

func sessionUser(c *gin.Context) (string, bool) {
	rc, ok := middleware.GetRequestContext(c)
	return rc.UserID, ok
}

func journeyHistory(resolve userResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := resolve(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "unauthorized", middleware.ErrInvalidToken.Error(), nil)
			return
		}
		view, err := historyService(c).View(c.Request.Context(), userID, historyQuery(c), queryBool(c, "refresh"))
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

func journeyExport(resolve userResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := resolve(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "unauthorized", middleware.ErrInvalidToken.Error(), nil)
			return
		}
		body, filename, err := historyService(c).Export(c.Request.Context(), userID, historyQuery(c), location())
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(body))
	}
}

func journeyPrint(resolve userResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := resolve(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "unauthorized", middleware.ErrInvalidToken.Error(), nil)
			return
		}
		pdfBytes, filename, err := docsService(c).GenerateHistoryPDF(c.Request.Context(), userID, historyQuery(c))
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
		c.Data(http.StatusOK, "application/pdf", pdfBytes)
	}
}

func journeyCount(resolve userResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := resolve(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "unauthorized", middleware.ErrInvalidToken.Error(), nil)
			return
		}
		allowance, err := fareService(c).Remaining(c.Request.Context(), userID)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, allowance)
	}
}

// GET /api/users/:id/journeys
var GetJourneyHistory = journeyHistory(userFromParam)

// GET /api/users/:id/journeys/export
var ExportJourneyHistory = journeyExport(userFromParam)

// GET /api/users/:id/journeys/print
var PrintJourneyHistory = journeyPrint(userFromParam)

// GET /api/users/:id/journeys/count
var GetJourneyCount = journeyCount(userFromParam)

// The /api/me variants serve the session user.
var (
	GetMyJourneyHistory    = journeyHistory(sessionUser)
	ExportMyJourneyHistory = journeyExport(sessionUser)
	PrintMyJourneyHistory  = journeyPrint(sessionUser)
	GetMyJourneyCount      = journeyCount(sessionUser)
)
