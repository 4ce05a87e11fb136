// Package journeys is the journey history pipeline: filter, sort, aggregate, paginate.
package journeys

import (
	"errors"
	"slices"

	"pearlcard/internal/domain"
	"pearlcard/internal/domain/models"
)

// ErrNilRecords is returned when no collection was supplied at all.
var ErrNilRecords = errors.New("journey records collection is required")

const noRoute = "N/A"

type Statistics struct {
	TotalFare       float64 `json:"total_fare"`
	AverageFare     float64 `json:"average_fare"`
	JourneyCount    int     `json:"journey_count"`
	MostCommonRoute string  `json:"most_common_route"`
}

// Result is one render of the history view.
// Matching is the full filtered+sorted set; Visible is the requested page of it.
type Result struct {
	Visible    []models.JourneyRecord `json:"journeys"`
	Matching   []models.JourneyRecord `json:"-"`
	Stats      Statistics             `json:"stats"`
	Page       int                    `json:"page"`
	PageSize   int                    `json:"page_size"`
	TotalPages int                    `json:"total_pages"`
}

// Process runs the pipeline. records is never modified; every slice in the
// Result is freshly allocated.
func Process(records []models.JourneyRecord, q Query) (Result, error) {
	if records == nil {
		return Result{}, domain.ValidationError{Field: "records", Msg: "collection is required", Err: ErrNilRecords}
	}

	matching := Apply(records, q.Filter)
	stats := Aggregate(matching)
	Sort(matching, q.Sort)

	visible, totalPages := Paginate(matching, q.Page)
	return Result{
		Visible:    visible,
		Matching:   matching,
		Stats:      stats,
		Page:       q.Page.current(),
		PageSize:   q.Page.size(),
		TotalPages: totalPages,
	}, nil
}

// Apply returns a new slice with the records that match f, in input order.
func Apply(records []models.JourneyRecord, f Filter) []models.JourneyRecord {
	out := make([]models.JourneyRecord, 0, len(records))
	for _, r := range records {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// Sort orders records in place. It is stable in both directions, so equal keys
// keep their filter order.
func Sort(records []models.JourneyRecord, s SortSpec) {
	if s.Key == SortNone {
		return
	}
	slices.SortStableFunc(records, s.compare)
}

// Aggregate summarises records. Ties for the most common route go to the
// route seen first.
func Aggregate(records []models.JourneyRecord) Statistics {
	stats := Statistics{MostCommonRoute: noRoute}
	if len(records) == 0 {
		return stats
	}

	counts := make(map[string]int)
	var order []string
	for _, r := range records {
		stats.TotalFare += r.Fare
		route := r.Route()
		if counts[route] == 0 {
			order = append(order, route)
		}
		counts[route]++
	}

	bestCount := 0
	for _, route := range order {
		if counts[route] > bestCount {
			stats.MostCommonRoute, bestCount = route, counts[route]
		}
	}
	stats.JourneyCount = len(records)
	stats.AverageFare = stats.TotalFare / float64(stats.JourneyCount)
	return stats
}

// Paginate returns a copy of the requested page and the page count.
// A page past the end is empty, not an error.
func Paginate(records []models.JourneyRecord, p PageSpec) ([]models.JourneyRecord, int) {
	size := p.size()
	totalPages := len(records) / size
	if len(records)%size != 0 {
		totalPages++
	}

	if p.current() > totalPages {
		return []models.JourneyRecord{}, totalPages
	}
	start := (p.current() - 1) * size
	end := min(start+size, len(records))
	return slices.Clone(records[start:end]), totalPages
}
