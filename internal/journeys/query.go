package journeys

import (
	"cmp"
	"math"
	"strconv"
	"strings"

	"pearlcard/internal/domain/models"
)

// DefaultPageSize is the history table page size.
const DefaultPageSize = 10

type PriceOperator string

const (
	PriceAny     PriceOperator = ""
	PriceGreater PriceOperator = ">"
	PriceLess    PriceOperator = "<"
	PriceEqual   PriceOperator = "="
)

// ParseOperator accepts the symbols and their query-string friendly names.
// Anything else means no price constraint.
func ParseOperator(s string) PriceOperator {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case ">", "gt":
		return PriceGreater
	case "<", "lt":
		return PriceLess
	case "=", "==", "eq":
		return PriceEqual
	default:
		return PriceAny
	}
}

// PriceFilter keeps the raw user input; an unparsable or infinite Value
// disables the constraint.
type PriceFilter struct {
	Operator PriceOperator `json:"operator"`
	Value    string        `json:"value"`
}

func (p PriceFilter) threshold() (float64, bool) {
	if p.Operator == PriceAny {
		return 0, false
	}
	raw := strings.TrimSpace(p.Value)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Match reports whether fare satisfies the constraint.
// "=" is exact float equality.
func (p PriceFilter) Match(fare float64) bool {
	v, ok := p.threshold()
	if !ok {
		return true
	}
	switch p.Operator {
	case PriceGreater:
		return fare > v
	case PriceLess:
		return fare < v
	case PriceEqual:
		return fare == v
	default:
		return true
	}
}

// Filter is the AND of the price constraint and the zone constraints.
// Empty zone fields match everything; set ones compare as strings.
type Filter struct {
	Price    PriceFilter `json:"price"`
	FromZone string      `json:"from_zone,omitempty"`
	ToZone   string      `json:"to_zone,omitempty"`
}

func (f Filter) Match(r models.JourneyRecord) bool {
	if !f.Price.Match(r.Fare) {
		return false
	}
	if f.FromZone != "" && r.FromZone != f.FromZone {
		return false
	}
	if f.ToZone != "" && r.ToZone != f.ToZone {
		return false
	}
	return true
}

type SortKey string

const (
	SortNone      SortKey = ""
	SortTimestamp SortKey = "timestamp"
	SortFromZone  SortKey = "from_zone"
	SortToZone    SortKey = "to_zone"
	SortFare      SortKey = "fare"
)

// ParseSortKey maps column names to keys; unknown names keep input order.
func ParseSortKey(s string) SortKey {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "timestamp", "date":
		return SortTimestamp
	case "from_zone", "fromzone", "from":
		return SortFromZone
	case "to_zone", "tozone", "to":
		return SortToZone
	case "fare", "price":
		return SortFare
	default:
		return SortNone
	}
}

type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

func ParseDirection(s string) Direction {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "desc", "descending":
		return Descending
	default:
		return Ascending
	}
}

type SortSpec struct {
	Key       SortKey   `json:"key"`
	Direction Direction `json:"direction"`
}

// Toggle is what clicking a column header does: the same key flips asc to desc,
// anything else starts ascending on the new key.
func (s SortSpec) Toggle(key SortKey) SortSpec {
	if s.Key == key && s.Direction != Descending {
		return SortSpec{Key: key, Direction: Descending}
	}
	return SortSpec{Key: key, Direction: Ascending}
}

func (s SortSpec) compare(a, b models.JourneyRecord) int {
	var c int
	switch s.Key {
	case SortTimestamp:
		c = strings.Compare(a.Timestamp, b.Timestamp)
	case SortFromZone:
		c = strings.Compare(a.FromZone, b.FromZone)
	case SortToZone:
		c = strings.Compare(a.ToZone, b.ToZone)
	case SortFare:
		c = cmp.Compare(a.Fare, b.Fare)
	}
	if s.Direction == Descending {
		return -c
	}
	return c
}

type PageSpec struct {
	Size    int `json:"size"`
	Current int `json:"current"`
}

func (p PageSpec) size() int {
	if p.Size <= 0 {
		return DefaultPageSize
	}
	return p.Size
}

func (p PageSpec) current() int {
	if p.Current < 1 {
		return 1
	}
	return p.Current
}

// Query bundles the parameters of one history render.
type Query struct {
	Filter Filter   `json:"filter"`
	Sort   SortSpec `json:"sort"`
	Page   PageSpec `json:"page"`
}
