package api

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	intconfig "pearlcard/internal/config"
	h "pearlcard/internal/http/handlers"
	"pearlcard/internal/http/middleware"
	"pearlcard/internal/utils"
)

func NewRouter(env intconfig.Env, deps h.Dependencies) *gin.Engine {
	if deps.MaxPerDay <= 0 {
		deps.MaxPerDay = env.MaxJourneysPerDay
	}
	if len(deps.JWTSecret) == 0 {
		deps.JWTSecret = []byte(env.JWTSecret)
	}
	if deps.SessionTTL <= 0 {
		deps.SessionTTL = env.SessionTTL
	}
	h.SetDependencies(deps)

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(),
		gin.Recovery(),
		middleware.CORS(env.CORSAllowedOrigins),
		middleware.AuthOptional(deps.JWTSecret),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		utils.LogEvent("", "http", "trusted_proxies", "failed to set trusted proxies: "+err.Error())
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)
		api.GET("/routes", h.Routes)

		// Zone catalog & price table (read-only, from the fare service)
		api.GET("/zones", h.GetZones)
		api.GET("/fare-rules", h.GetFareRules)

		// Fare calculation
		api.POST("/fares/calculate", h.CalculateFares)
		api.GET("/results/:id", h.GetResult)
		api.GET("/results/:id/print", h.GetResultPDF)

		// Sessions
		api.POST("/session", h.CreateSession)

		// Users
		users := api.Group("/users/:id")
		users.GET("/results", h.GetUserResults)
		mountJourneys(users.Group("/journeys"),
			h.GetJourneyHistory, h.ExportJourneyHistory, h.PrintJourneyHistory, h.GetJourneyCount)

		// Session user
		me := api.Group("/me", middleware.RequireUser())
		mountJourneys(me.Group("/journeys"),
			h.GetMyJourneyHistory, h.ExportMyJourneyHistory, h.PrintMyJourneyHistory, h.GetMyJourneyCount)
	}

	h.SetRouter(r)
	return r
}

func mountJourneys(g *gin.RouterGroup, list, export, printPDF, count gin.HandlerFunc) {
	g.GET("", list)
	g.GET("/export", export)
	g.GET("/print", printPDF)
	g.GET("/count", count)
}
