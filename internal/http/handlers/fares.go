package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pearlcard/internal/domain/models"
)

type calculateRequest struct {
	UserID   string                `json:"user_id"`
	Journeys []models.JourneyInput `json:"journeys"`
}

type calculationResponse struct {
	models.CalculationResult
	AverageFare float64 `json:"average_fare"`
}

func toCalculationResponse(r models.CalculationResult) calculationResponse {
	return calculationResponse{CalculationResult: r, AverageFare: r.AverageFare()}
}

// POST /api/fares/calculate
func CalculateFares(c *gin.Context) {
	var req calculateRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	userID := req.UserID
	if rc, ok := sessionUser(c); ok && userID == "" {
		userID = rc
	}
	res, err := fareService(c).Calculate(c.Request.Context(), userID, req.Journeys)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCalculationResponse(res))
}

// GET /api/results/:id
func GetResult(c *gin.Context) {
	res, err := fareService(c).Result(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCalculationResponse(res))
}

// GET /api/results/:id/print returns the printable results page (inline).
func GetResultPDF(c *gin.Context) {
	pdfBytes, filename, err := docsService(c).GenerateResultsPDF(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

// GET /api/users/:id/results
func GetUserResults(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	list, err := fareService(c).RecentResults(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	out := make([]calculationResponse, 0, len(list))
	for _, r := range list {
		out = append(out, toCalculationResponse(r))
	}
	c.JSON(http.StatusOK, gin.H{"results": out, "count": len(out)})
}
