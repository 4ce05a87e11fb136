package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GET /api/zones
func GetZones(c *gin.Context) {
	c.JSON(http.StatusOK, zoneService(c).Catalog(c.Request.Context()))
}

// GET /api/fare-rules
func GetFareRules(c *gin.Context) {
	rules, err := zoneService(c).FareRules(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"fare_rules": rules, "count": len(rules)})
}
