package models

// Zone mirrors the fare service zone catalog entry.
type Zone struct {
	ZoneNumber  string `json:"zone_number"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
}

// Label is what the journey form shows for a zone.
func (z Zone) Label() string {
	if z.Name != "" {
		return z.Name
	}
	return "Zone " + z.ZoneNumber
}

// FareRule is a read-only price table row published by the fare service.
type FareRule struct {
	FromZone string  `json:"from_zone"`
	ToZone   string  `json:"to_zone"`
	Fare     float64 `json:"fare"`
	Route    string  `json:"route"`
}
