package handlers

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	intconfig "pearlcard/internal/config"
	intdb "pearlcard/internal/db"
)

var (
	routerMu sync.RWMutex
	router   *gin.Engine
)

// SetRouter stores the active gin engine for later inspection (e.g., /api/routes).
func SetRouter(r *gin.Engine) {
	routerMu.Lock()
	defer routerMu.Unlock()
	router = r
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "pearlcard journey portal running"})
}

func DBCheck(c *gin.Context) {
	if err := intconfig.EnsureDB(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database unavailable: " + err.Error()})
		return
	}
	repo := currentDeps().Results
	db := repo.DB
	if db == nil {
		db = intconfig.DB
	}
	dialect := repo.Dialect
	if dialect == "" {
		dialect = intdb.DialectFor(intconfig.Driver)
	}
	var count int
	if intdb.HasTable(c.Request.Context(), db, dialect, "calculation_results") {
		if err := db.QueryRowContext(c.Request.Context(), "SELECT COUNT(*) FROM calculation_results").Scan(&count); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed: " + err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "database connection OK", "driver": string(dialect), "results_in_db": count})
}

func Routes(c *gin.Context) {
	routerMu.RLock()
	r := router
	routerMu.RUnlock()
	if r == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "router not ready"})
		return
	}

	routes := r.Routes()
	out := make([]gin.H, 0, len(routes))
	for _, rt := range routes {
		out = append(out, gin.H{
			"method":  rt.Method,
			"path":    rt.Path,
			"handler": rt.Handler,
		})
	}
	c.JSON(http.StatusOK, gin.H{"routes": out})
}
