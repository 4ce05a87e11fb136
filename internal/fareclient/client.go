package fareclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pearlcard/internal/domain"
	"pearlcard/internal/domain/models"
	"pearlcard/internal/metrics"
)

const (
	OpZones      = "zones"
	OpFareRules  = "fare_rules"
	OpCalculate  = "calculate_fare"
	OpJourneys   = "user_journeys"
	OpCount      = "user_journey_count"
	maxBodyBytes = 4 << 20
)

// Client talks to the remote fare service. Every call is a single attempt
// bounded by the HTTP client timeout and the caller's context.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Metrics *metrics.Metrics
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		BaseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

type CalculationRequest struct {
	UserID   string                `json:"user_id"`
	Journeys []models.JourneyInput `json:"journeys"`
}

type Calculation struct {
	UserID       string
	Journeys     []models.JourneyFare
	TotalFare    float64
	JourneyCount int
}

func (c *Client) Zones(ctx context.Context) ([]models.Zone, error) {
	var resp struct {
		Success *bool      `json:"success"`
		Error   string     `json:"error"`
		Zones   []wireZone `json:"zones"`
	}
	if err := c.do(ctx, OpZones, http.MethodGet, "/zones/", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Success != nil && !*resp.Success {
		return nil, c.fail(OpZones, 0, resp.Error, "failed to fetch zones from server")
	}
	out := make([]models.Zone, 0, len(resp.Zones))
	for _, z := range resp.Zones {
		out = append(out, z.model())
	}
	return out, nil
}

func (c *Client) FareRules(ctx context.Context) ([]models.FareRule, error) {
	var resp struct {
		Success   *bool          `json:"success"`
		Error     string         `json:"error"`
		FareRules []wireFareRule `json:"fare_rules"`
	}
	if err := c.do(ctx, OpFareRules, http.MethodGet, "/fare-rules/", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Success != nil && !*resp.Success {
		return nil, c.fail(OpFareRules, 0, resp.Error, "failed to fetch fare rules")
	}
	out := make([]models.FareRule, 0, len(resp.FareRules))
	for _, r := range resp.FareRules {
		out = append(out, r.model())
	}
	return out, nil
}

// CalculateFares submits a batch. A 429 from the service becomes a
// domain.LimitExceededError.
func (c *Client) CalculateFares(ctx context.Context, req CalculationRequest) (Calculation, error) {
	var resp struct {
		Success *bool  `json:"success"`
		Error   string `json:"error"`
		Data    struct {
			UserID       flexString        `json:"user_id"`
			Journeys     []wireJourneyFare `json:"journeys"`
			TotalFare    flexFloat         `json:"total_fare"`
			JourneyCount int               `json:"journey_count"`
		} `json:"data"`
	}
	if err := c.do(ctx, OpCalculate, http.MethodPost, "/calculate-fare/", req, &resp); err != nil {
		return Calculation{}, err
	}
	if resp.Success != nil && !*resp.Success {
		return Calculation{}, c.fail(OpCalculate, 0, resp.Error, "calculation failed")
	}

	out := Calculation{
		UserID:       string(resp.Data.UserID),
		Journeys:     make([]models.JourneyFare, 0, len(resp.Data.Journeys)),
		TotalFare:    float64(resp.Data.TotalFare),
		JourneyCount: resp.Data.JourneyCount,
	}
	for _, j := range resp.Data.Journeys {
		out.Journeys = append(out.Journeys, j.model())
	}
	if out.UserID == "" {
		out.UserID = req.UserID
	}
	if out.JourneyCount == 0 {
		out.JourneyCount = len(out.Journeys)
	}
	return out, nil
}

// UserJourneys returns the user's stored journey records. A response with no
// journeys field yields an empty slice.
func (c *Client) UserJourneys(ctx context.Context, userID string) ([]models.JourneyRecord, error) {
	var resp struct {
		Journeys []wireJourney `json:"journeys"`
	}
	if err := c.do(ctx, OpJourneys, http.MethodGet, "/users/"+url.PathEscape(userID)+"/journeys/", nil, &resp); err != nil {
		return nil, err
	}
	out := make([]models.JourneyRecord, 0, len(resp.Journeys))
	for _, j := range resp.Journeys {
		rec := j.model()
		if rec.UserID == "" {
			rec.UserID = userID
		}
		out = append(out, rec)
	}
	return out, nil
}

// UserJourneyCount is today's journey count for the user.
func (c *Client) UserJourneyCount(ctx context.Context, userID string) (int, error) {
	var resp struct {
		Count int `json:"count"`
	}
	if err := c.do(ctx, OpCount, http.MethodGet, "/users/"+url.PathEscape(userID)+"/journeys/count", nil, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal %s request: %w", op, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("create %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		c.Metrics.IncrementUpstreamError(op)
		return domain.UpstreamError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		c.Metrics.IncrementUpstreamError(op)
		return domain.UpstreamError{Op: op, Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		msg := errorMessage(raw)
		if msg == "" {
			msg = "Maximum journeys per day exceeded"
		}
		return domain.LimitExceededError{Limit: domain.MaxJourneysPerDay, Msg: msg}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.fail(op, resp.StatusCode, errorMessage(raw), resp.Status)
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		c.Metrics.IncrementUpstreamError(op)
		return domain.UpstreamError{Op: op, Status: resp.StatusCode, Msg: "invalid response body", Err: err}
	}
	return nil
}

func (c *Client) fail(op string, status int, msg, fallback string) error {
	c.Metrics.IncrementUpstreamError(op)
	if strings.TrimSpace(msg) == "" {
		msg = fallback
	}
	return domain.UpstreamError{Op: op, Status: status, Msg: msg}
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

func errorMessage(raw []byte) string {
	var e struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &e) != nil {
		return ""
	}
	if e.Error != "" {
		return e.Error
	}
	return e.Message
}
