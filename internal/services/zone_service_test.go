package services

import (
	"context"
	"errors"
	"testing"

	"pearlcard/internal/domain/models"
)

func TestZoneServiceCatalogActiveSorted(t *testing.T) {
	gw := &fakeGateway{zones: []models.Zone{
		{ZoneNumber: "10", IsActive: true},
		{ZoneNumber: "2", IsActive: true},
		{ZoneNumber: "3", IsActive: false},
		{ZoneNumber: "1", Name: "Central", IsActive: true},
	}}

	cat := ZoneService{Gateway: gw}.Catalog(context.Background())
	if cat.Fallback {
		t.Fatalf("unexpected fallback")
	}
	got := []string{}
	for _, z := range cat.Zones {
		got = append(got, z.ZoneNumber)
	}
	if len(got) != 3 || got[0] != "1" || got[1] != "2" || got[2] != "10" {
		t.Fatalf("unexpected order: %v", got)
	}
	if cat.Count != 3 {
		t.Fatalf("count = %d", cat.Count)
	}
}

func TestZoneServiceCatalogFallback(t *testing.T) {
	gw := &fakeGateway{zonesErr: errors.New("connection refused")}

	cat := ZoneService{Gateway: gw}.Catalog(context.Background())
	if !cat.Fallback || len(cat.Zones) != 3 {
		t.Fatalf("expected default zones, got %+v", cat)
	}
	if cat.Zones[0].Label() != "Zone 1" {
		t.Fatalf("unexpected label %q", cat.Zones[0].Label())
	}
	cat.Zones[0].Name = "changed"
	if DefaultZones[0].Name != "Zone 1" {
		t.Fatalf("default zones mutated")
	}
}
