package services

import (
	"cmp"
	"context"
	"slices"
	"strconv"
	"strings"

	"pearlcard/internal/domain/models"
	"pearlcard/internal/utils"
)

// DefaultZones is shown when the zone catalog cannot be loaded.
var DefaultZones = []models.Zone{
	{ZoneNumber: "1", Name: "Zone 1", IsActive: true},
	{ZoneNumber: "2", Name: "Zone 2", IsActive: true},
	{ZoneNumber: "3", Name: "Zone 3", IsActive: true},
}

type ZoneCatalog struct {
	Zones    []models.Zone `json:"zones"`
	Count    int           `json:"count"`
	Fallback bool          `json:"fallback"`
	Message  string        `json:"message,omitempty"`
}

type ZoneService struct {
	Gateway   FareGateway
	RequestID string
}

// Catalog lists active zones ordered by zone number. A failed fetch is not an
// error: the default zones are returned with Fallback set.
func (s ZoneService) Catalog(ctx context.Context) ZoneCatalog {
	zones, err := s.Gateway.Zones(ctx)
	if err != nil {
		utils.LogFailure(s.RequestID, "zones", "catalog", err)
		return ZoneCatalog{
			Zones:    slices.Clone(DefaultZones),
			Count:    len(DefaultZones),
			Fallback: true,
			Message:  "Failed to load zones. Using default zones.",
		}
	}

	active := make([]models.Zone, 0, len(zones))
	for _, z := range zones {
		if z.IsActive && strings.TrimSpace(z.ZoneNumber) != "" {
			active = append(active, z)
		}
	}
	slices.SortStableFunc(active, func(a, b models.Zone) int {
		return compareZoneNumbers(a.ZoneNumber, b.ZoneNumber)
	})
	return ZoneCatalog{Zones: active, Count: len(active)}
}

func (s ZoneService) FareRules(ctx context.Context) ([]models.FareRule, error) {
	rules, err := s.Gateway.FareRules(ctx)
	if err != nil {
		utils.LogFailure(s.RequestID, "zones", "fare_rules", err)
		return nil, err
	}
	return rules, nil
}

// numeric zone numbers sort before anything else, then by string
func compareZoneNumbers(a, b string) int {
	ai, aerr := strconv.Atoi(strings.TrimSpace(a))
	bi, berr := strconv.Atoi(strings.TrimSpace(b))
	switch {
	case aerr == nil && berr == nil:
		return cmp.Compare(ai, bi)
	case aerr == nil:
		return -1
	case berr == nil:
		return 1
	}
	return strings.Compare(a, b)
}
