package fareclient

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"pearlcard/internal/domain/models"
)

// flexString accepts a JSON string or number. The fare service serializes
// zone numbers and ids as integers in some endpoints and strings in others.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*s = ""
		return nil
	}
	if b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(strings.TrimSpace(v))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*s = flexString(n.String())
	return nil
}

// flexFloat accepts a JSON number or a decimal string.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*f = 0
		return nil
	}
	if b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		if strings.TrimSpace(v) == "" {
			*f = 0
			return nil
		}
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return err
		}
		*f = flexFloat(n)
		return nil
	}
	var n float64
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexFloat(n)
	return nil
}

type wireZone struct {
	ZoneNumber  flexString `json:"zone_number"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	IsActive    *bool      `json:"is_active"`
}

func (z wireZone) model() models.Zone {
	return models.Zone{
		ZoneNumber:  string(z.ZoneNumber),
		Name:        z.Name,
		Description: z.Description,
		IsActive:    z.IsActive == nil || *z.IsActive,
	}
}

type wireFareRule struct {
	FromZone flexString `json:"from_zone"`
	ToZone   flexString `json:"to_zone"`
	Fare     flexFloat  `json:"fare"`
	Route    string     `json:"route"`
}

func (r wireFareRule) model() models.FareRule {
	route := r.Route
	if route == "" {
		route = string(r.FromZone) + "-" + string(r.ToZone)
	}
	return models.FareRule{
		FromZone: string(r.FromZone),
		ToZone:   string(r.ToZone),
		Fare:     float64(r.Fare),
		Route:    route,
	}
}

type wireJourneyFare struct {
	JourneyNumber int        `json:"journey_number"`
	FromZone      flexString `json:"from_zone"`
	ToZone        flexString `json:"to_zone"`
	Fare          flexFloat  `json:"fare"`
	Status        string     `json:"status"`
	ErrorMessage  string     `json:"error_message"`
}

func (j wireJourneyFare) model() models.JourneyFare {
	status := j.Status
	if status == "" {
		status = models.JourneyStatusSuccess
		if j.ErrorMessage != "" {
			status = models.JourneyStatusError
		}
	}
	return models.JourneyFare{
		JourneyNumber: j.JourneyNumber,
		FromZone:      string(j.FromZone),
		ToZone:        string(j.ToZone),
		Fare:          float64(j.Fare),
		Status:        status,
		ErrorMessage:  j.ErrorMessage,
	}
}

type wireJourney struct {
	ID        flexString `json:"id"`
	UserID    flexString `json:"user_id"`
	FromZone  flexString `json:"from_zone"`
	ToZone    flexString `json:"to_zone"`
	Fare      flexFloat  `json:"fare"`
	Timestamp string     `json:"timestamp"`
}

func (j wireJourney) model() models.JourneyRecord {
	return models.JourneyRecord{
		ID:        string(j.ID),
		UserID:    string(j.UserID),
		FromZone:  string(j.FromZone),
		ToZone:    string(j.ToZone),
		Fare:      float64(j.Fare),
		Timestamp: j.Timestamp,
	}
}
