package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"pearlcard/internal/http/middleware"
	"pearlcard/internal/journeys"
)

// RespondError sends standard error payload with request_id included.
// Keeps backward compatibility by always providing "message".
func RespondError(c *gin.Context, status int, message string, err error) {
	reqID := middleware.GetRequestID(c)
	payload := gin.H{
		"message":    message,
		"request_id": reqID,
	}
	if err != nil {
		payload["error"] = err.Error()
	}
	c.JSON(status, payload)
}

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		RespondError(c, http.StatusBadRequest, "empty body", nil)
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid payload", err)
		return false
	}
	return true
}

// historyQuery reads the filter, sort and page parameters of a history view.
// Malformed values fall back to "no constraint", never to an error.
func historyQuery(c *gin.Context) journeys.Query {
	page, _ := strconv.Atoi(strings.TrimSpace(c.Query("page")))
	return journeys.Query{
		Filter: journeys.Filter{
			Price: journeys.PriceFilter{
				Operator: journeys.ParseOperator(c.Query("price_op")),
				Value:    c.Query("price"),
			},
			FromZone: strings.TrimSpace(c.Query("from_zone")),
			ToZone:   strings.TrimSpace(c.Query("to_zone")),
		},
		Sort: journeys.SortSpec{
			Key:       journeys.ParseSortKey(c.Query("sort")),
			Direction: journeys.ParseDirection(c.Query("dir")),
		},
		Page: journeys.PageSpec{Size: journeys.DefaultPageSize, Current: page},
	}
}

func queryBool(c *gin.Context, key string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(c.Query(key)))
	return err == nil && v
}
