package journeys

import (
	"encoding/csv"
	"strings"
	"time"

	"pearlcard/internal/domain/models"
	"pearlcard/internal/utils"
)

var exportHeader = []string{"Date", "From Zone", "To Zone", "Fare"}

// ExportCSV serializes records (the matching set, not a page) as
// Date,From Zone,To Zone,Fare rows, each ending in a newline. Dates are
// shown in loc.
func ExportCSV(records []models.JourneyRecord, loc *time.Location) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	if err := w.Write(exportHeader); err != nil {
		return "", err
	}
	for _, r := range records {
		row := []string{
			FormatDate(r.Timestamp, loc),
			"Zone " + r.FromZone,
			"Zone " + r.ToZone,
			utils.FormatFare(r.Fare),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// ExportFilename names the download after the export day, e.g.
// journey-history-2024-05-01.csv.
func ExportFilename(now time.Time) string {
	return "journey-history-" + utils.FormatDate(now.UTC()) + ".csv"
}

// FormatDate renders a record timestamp for display. Unparsable input is
// returned unchanged.
func FormatDate(timestamp string, loc *time.Location) string {
	t, err := utils.ParseTimestamp(timestamp)
	if err != nil {
		return timestamp
	}
	return utils.FormatDisplay(t, loc)
}
