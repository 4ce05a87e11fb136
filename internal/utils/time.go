package utils

import (
	"fmt"
	"strings"
	"time"
)

const (
	layoutDate     = "2006-01-02"
	layoutDateTime = "2006-01-02 15:04:05"
	layoutDisplay  = "2006-01-02 15:04"
)

// timestampLayouts are tried in order; zone-less layouts are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	layoutDateTime,
	layoutDate,
}

// ParseTimestamp reads the ISO-8601 variants the fare service emits.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

// FormatDate formats t as YYYY-MM-DD without converting its location.
func FormatDate(t time.Time) string {
	return t.Format(layoutDate)
}

// FormatDateTime formats time to "YYYY-MM-DD HH:MM:SS" in loc.
func FormatDateTime(t time.Time, loc *time.Location) string {
	return t.In(orLocal(loc)).Format(layoutDateTime)
}

// FormatDisplay is the date shown in tables and exports: "YYYY-MM-DD HH:MM" in loc.
func FormatDisplay(t time.Time, loc *time.Location) string {
	return t.In(orLocal(loc)).Format(layoutDisplay)
}

// LoadLocation resolves a display timezone name; "" and "Local" mean the host zone.
func LoadLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(name)
}

func orLocal(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}
	return loc
}
