package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pearlcard/internal/cache"
	"pearlcard/internal/domain"
	"pearlcard/internal/domain/models"
	"pearlcard/internal/journeys"
	"pearlcard/internal/metrics"
	"pearlcard/internal/utils"
)

const (
	SourceCache  = "cache"
	SourceRemote = "remote"
)

// sortColumns are the history table headers that sort.
var sortColumns = []journeys.SortKey{
	journeys.SortTimestamp,
	journeys.SortFromZone,
	journeys.SortToZone,
	journeys.SortFare,
}

// HistoryView is a processed history page plus what the pager and the
// column headers need. Sorts holds the sort each header switches to.
type HistoryView struct {
	journeys.Result
	Total  int                                    `json:"total"`
	Pages  []journeys.PageLink                    `json:"pages"`
	Sorts  map[journeys.SortKey]journeys.SortSpec `json:"sorts"`
	Query  journeys.Query                         `json:"query"`
	Source string                                 `json:"source"`
}

// HistoryService loads a user's journey records once per view (or from the
// short-lived cache) and runs them through the journeys pipeline.
type HistoryService struct {
	Gateway   FareGateway
	Cache     *cache.HistoryCache
	Metrics   *metrics.Metrics
	RequestID string
}

// Records returns the user's journeys. refresh skips the cache.
func (s HistoryService) Records(ctx context.Context, userID string, refresh bool) ([]models.JourneyRecord, string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, "", domain.ValidationError{Field: "user_id", Msg: "required"}
	}

	if !refresh {
		records, ok, err := s.Cache.Get(ctx, userID)
		if err != nil {
			utils.LogFailure(s.RequestID, "history", "cache_get", err)
		}
		if ok {
			return records, SourceCache, nil
		}
	}

	records, err := s.Gateway.UserJourneys(ctx, userID)
	if err != nil {
		utils.LogFailure(s.RequestID, "history", "fetch", err)
		return nil, "", err
	}
	if records == nil {
		records = []models.JourneyRecord{}
	}
	if err := s.Cache.Set(ctx, userID, records); err != nil {
		utils.LogFailure(s.RequestID, "history", "cache_set", err)
	}
	return records, SourceRemote, nil
}

// View renders one page of the user's history for q.
func (s HistoryService) View(ctx context.Context, userID string, q journeys.Query, refresh bool) (HistoryView, error) {
	records, source, err := s.Records(ctx, userID, refresh)
	if err != nil {
		return HistoryView{}, err
	}

	start := time.Now()
	res, err := journeys.Process(records, q)
	if err != nil {
		return HistoryView{}, err
	}
	// a page past the end shows the last page
	if page := journeys.ClampPage(res.Page, res.TotalPages); page != res.Page && res.TotalPages > 0 {
		res.Visible, _ = journeys.Paginate(res.Matching, journeys.PageSpec{Size: res.PageSize, Current: page})
		res.Page = page
	}
	s.Metrics.ObservePipeline(time.Since(start))
	s.Metrics.IncrementHistoryView(source)

	utils.LogEvent(s.RequestID, "history", "view",
		fmt.Sprintf("user_id=%s source=%s matching=%d page=%d/%d", userID, source, len(res.Matching), res.Page, res.TotalPages))
	return HistoryView{
		Result: res,
		Total:  len(res.Matching),
		Pages:  journeys.PageWindow(res.Page, res.TotalPages),
		Sorts:  headerSorts(q.Sort),
		Query:  q,
		Source: source,
	}, nil
}

// Export renders the CSV of everything matching q, ignoring its page.
func (s HistoryService) Export(ctx context.Context, userID string, q journeys.Query, loc *time.Location) (string, string, error) {
	view, err := s.View(ctx, userID, q, false)
	if err != nil {
		return "", "", err
	}
	body, err := journeys.ExportCSV(view.Matching, loc)
	if err != nil {
		return "", "", domain.InternalError{Msg: "failed to export journeys", Err: err}
	}
	return body, journeys.ExportFilename(time.Now()), nil
}

func headerSorts(current journeys.SortSpec) map[journeys.SortKey]journeys.SortSpec {
	out := make(map[journeys.SortKey]journeys.SortSpec, len(sortColumns))
	for _, key := range sortColumns {
		out[key] = current.Toggle(key)
	}
	return out
}
