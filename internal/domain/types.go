package domain

// MaxJourneysPerDay is the remote fare service's per-user daily cap.
const MaxJourneysPerDay = 20

// RequestContext carries the session user when a bearer token was presented.
type RequestContext struct {
	UserID string `json:"userId"`
}

// JourneyAllowance reports how many journeys a user may still submit today.
type JourneyAllowance struct {
	Count     int `json:"count"`
	Limit     int `json:"limit"`
	Remaining int `json:"remaining"`
}

// NewJourneyAllowance floors Remaining at zero.
func NewJourneyAllowance(count, limit int) JourneyAllowance {
	if limit <= 0 {
		limit = MaxJourneysPerDay
	}
	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}
	return JourneyAllowance{Count: count, Limit: limit, Remaining: remaining}
}
