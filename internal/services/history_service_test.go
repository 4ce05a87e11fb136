package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pearlcard/internal/domain"
	"pearlcard/internal/domain/models"
	"pearlcard/internal/journeys"
	"pearlcard/internal/metrics"
)

func historyRecords(n int) []models.JourneyRecord {
	out := make([]models.JourneyRecord, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, models.JourneyRecord{
			ID:        string(rune('a' + i)),
			FromZone:  "1",
			ToZone:    "2",
			Fare:      float64(10 * (i + 1)),
			Timestamp: time.Date(2024, 5, 1+i, 8, 0, 0, 0, time.UTC).Format(time.RFC3339),
		})
	}
	return out
}

func TestHistoryServiceViewPagesAndStats(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	gw := &fakeGateway{records: historyRecords(25)}
	svc := HistoryService{Gateway: gw, Metrics: m}

	q := journeys.Query{
		Sort: journeys.SortSpec{Key: journeys.SortFare, Direction: journeys.Descending},
		Page: journeys.PageSpec{Current: 3},
	}
	view, err := svc.View(context.Background(), "u-1", q, false)
	require.NoError(t, err)

	assert.Equal(t, 25, view.Total)
	assert.Equal(t, 3, view.TotalPages)
	assert.Len(t, view.Visible, 5)
	assert.Equal(t, 50.0, view.Visible[0].Fare)
	assert.Equal(t, 25, view.Stats.JourneyCount)
	assert.Equal(t, "1-2", view.Stats.MostCommonRoute)
	assert.Equal(t, SourceRemote, view.Source)
	assert.Equal(t, []journeys.PageLink{{Number: 1}, {Number: 2}, {Number: 3, Current: true}}, view.Pages)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HistoryViews.WithLabelValues(SourceRemote)))
}

func TestHistoryServiceViewPastLastPageShowsLastPage(t *testing.T) {
	gw := &fakeGateway{records: historyRecords(25)}
	q := journeys.Query{Page: journeys.PageSpec{Current: 9}}

	view, err := HistoryService{Gateway: gw}.View(context.Background(), "u-1", q, false)
	require.NoError(t, err)
	assert.Equal(t, 3, view.Page)
	assert.Len(t, view.Visible, 5)
	assert.Equal(t, []journeys.PageLink{{Number: 1}, {Number: 2}, {Number: 3, Current: true}}, view.Pages)
}

func TestHistoryServiceViewHeaderSorts(t *testing.T) {
	gw := &fakeGateway{records: historyRecords(3)}
	q := journeys.Query{Sort: journeys.SortSpec{Key: journeys.SortFare, Direction: journeys.Ascending}}

	view, err := HistoryService{Gateway: gw}.View(context.Background(), "u-1", q, false)
	require.NoError(t, err)
	assert.Equal(t, map[journeys.SortKey]journeys.SortSpec{
		journeys.SortTimestamp: {Key: journeys.SortTimestamp, Direction: journeys.Ascending},
		journeys.SortFromZone:  {Key: journeys.SortFromZone, Direction: journeys.Ascending},
		journeys.SortToZone:    {Key: journeys.SortToZone, Direction: journeys.Ascending},
		journeys.SortFare:      {Key: journeys.SortFare, Direction: journeys.Descending},
	}, view.Sorts)
}

func TestHistoryServiceRemoteFailure(t *testing.T) {
	gw := &fakeGateway{recordsErr: domain.UpstreamError{Op: "user_journeys", Status: 503}}
	_, err := HistoryService{Gateway: gw}.View(context.Background(), "u-1", journeys.Query{}, false)
	assert.True(t, domain.IsUpstream(err))
}

func TestHistoryServiceNilRemoteRecordsAreEmpty(t *testing.T) {
	gw := &fakeGateway{}
	view, err := HistoryService{Gateway: gw}.View(context.Background(), "u-1", journeys.Query{}, true)
	require.NoError(t, err)
	assert.Equal(t, 0, view.Total)
	assert.Equal(t, 0, view.TotalPages)
	assert.Empty(t, view.Visible)
	assert.Nil(t, view.Pages)
	assert.Equal(t, "N/A", view.Stats.MostCommonRoute)
}

func TestHistoryServiceRequiresUser(t *testing.T) {
	_, _, err := HistoryService{Gateway: &fakeGateway{}}.Records(context.Background(), "  ", false)
	assert.True(t, domain.IsValidation(err))
}

func TestHistoryServiceExportIgnoresPage(t *testing.T) {
	gw := &fakeGateway{records: historyRecords(12)}
	q := journeys.Query{
		Filter: journeys.Filter{Price: journeys.PriceFilter{Operator: journeys.PriceGreater, Value: "100"}},
		Page:   journeys.PageSpec{Current: 2},
	}

	body, filename, err := HistoryService{Gateway: gw}.Export(context.Background(), "u-1", q, time.UTC)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filename, "journey-history-"))
	lines := strings.Split(strings.TrimSuffix(body, "\n"), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, "Date,From Zone,To Zone,Fare", lines[0])
	assert.Equal(t, "2024-05-11 08:00,Zone 1,Zone 2,$110.00", lines[1])
}

func TestHistoryServiceFetchErrorIsNotCached(t *testing.T) {
	gw := &fakeGateway{recordsErr: errors.New("boom")}
	svc := HistoryService{Gateway: gw}
	_, _, err := svc.Records(context.Background(), "u-1", false)
	require.Error(t, err)
	_, _, _ = svc.Records(context.Background(), "u-1", false)
	assert.Equal(t, 2, gw.journeyCalls)
}
