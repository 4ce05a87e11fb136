package models

import "time"

const (
	JourneyStatusSuccess = "success"
	JourneyStatusError   = "error"
)

// JourneyFare is one priced journey inside a calculation.
type JourneyFare struct {
	JourneyNumber int     `json:"journey_number"`
	FromZone      string  `json:"from_zone"`
	ToZone        string  `json:"to_zone"`
	Fare          float64 `json:"fare"`
	Status        string  `json:"status"`
	ErrorMessage  string  `json:"error_message,omitempty"`
}

// CalculationResult is the server-side copy of a submitted journey form.
type CalculationResult struct {
	ID           string        `json:"id"`
	UserID       string        `json:"user_id"`
	Journeys     []JourneyFare `json:"journeys"`
	TotalFare    float64       `json:"total_fare"`
	JourneyCount int           `json:"journey_count"`
	CalculatedAt time.Time     `json:"calculated_at"`
}

// AverageFare is zero for an empty calculation.
func (r CalculationResult) AverageFare() float64 {
	if r.JourneyCount == 0 {
		return 0
	}
	return r.TotalFare / float64(r.JourneyCount)
}
