package models

// JourneyRecord is one recorded journey as returned by the fare service.
// Timestamp stays an ISO-8601 string so lexicographic order is chronological.
type JourneyRecord struct {
	ID        string  `json:"id"`
	UserID    string  `json:"user_id"`
	FromZone  string  `json:"from_zone"`
	ToZone    string  `json:"to_zone"`
	Fare      float64 `json:"fare"`
	Timestamp string  `json:"timestamp"`
}

// Route renders the "{from}-{to}" key used for route statistics.
func (j JourneyRecord) Route() string {
	return j.FromZone + "-" + j.ToZone
}

// JourneyInput is one row of the journey entry form.
type JourneyInput struct {
	FromZone string `json:"from_zone"`
	ToZone   string `json:"to_zone"`
}

// Complete reports whether both zones were chosen.
func (j JourneyInput) Complete() bool {
	return j.FromZone != "" && j.ToZone != ""
}
