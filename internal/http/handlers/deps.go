package handlers

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"pearlcard/internal/cache"
	"pearlcard/internal/http/middleware"
	"pearlcard/internal/metrics"
	"pearlcard/internal/repositories"
	"pearlcard/internal/services"
)

// Dependencies are the shared collaborators handlers build services from.
type Dependencies struct {
	Gateway    services.FareGateway
	Results    repositories.CalculationRepository
	Cache      *cache.HistoryCache
	Metrics    *metrics.Metrics
	Location   *time.Location
	MaxPerDay  int
	JWTSecret  []byte
	SessionTTL time.Duration
}

var (
	depsMu sync.RWMutex
	deps   Dependencies
)

// SetDependencies installs the collaborators used by every handler.
func SetDependencies(d Dependencies) {
	depsMu.Lock()
	defer depsMu.Unlock()
	deps = d
}

func currentDeps() Dependencies {
	depsMu.RLock()
	defer depsMu.RUnlock()
	return deps
}

func location() *time.Location {
	if loc := currentDeps().Location; loc != nil {
		return loc
	}
	return time.Local
}

func zoneService(c *gin.Context) services.ZoneService {
	d := currentDeps()
	return services.ZoneService{Gateway: d.Gateway, RequestID: middleware.GetRequestID(c)}
}

func fareService(c *gin.Context) services.FareService {
	d := currentDeps()
	return services.FareService{
		Gateway:   d.Gateway,
		Results:   d.Results,
		Cache:     d.Cache,
		Metrics:   d.Metrics,
		MaxPerDay: d.MaxPerDay,
		RequestID: middleware.GetRequestID(c),
	}
}

func historyService(c *gin.Context) services.HistoryService {
	d := currentDeps()
	return services.HistoryService{
		Gateway:   d.Gateway,
		Cache:     d.Cache,
		Metrics:   d.Metrics,
		RequestID: middleware.GetRequestID(c),
	}
}

func docsService(c *gin.Context) services.DocsService {
	return services.DocsService{
		Fares:     fareService(c),
		History:   historyService(c),
		Location:  location(),
		RequestID: middleware.GetRequestID(c),
	}
}
