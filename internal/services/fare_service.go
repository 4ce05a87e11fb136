package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"pearlcard/internal/cache"
	"pearlcard/internal/domain"
	"pearlcard/internal/domain/models"
	"pearlcard/internal/fareclient"
	"pearlcard/internal/metrics"
	"pearlcard/internal/repositories"
	"pearlcard/internal/utils"
)

const (
	outcomeSuccess  = "success"
	outcomeInvalid  = "invalid"
	outcomeLimit    = "limit_exceeded"
	outcomeUpstream = "upstream_error"
	outcomeStore    = "store_error"
)

// FareService submits journey batches to the fare service and keeps the
// priced result so it can be reopened and printed later.
type FareService struct {
	Gateway   FareGateway
	Results   repositories.CalculationRepository
	Cache     *cache.HistoryCache
	Metrics   *metrics.Metrics
	MaxPerDay int
	RequestID string
	Now       func() time.Time
	NewID     func() string
}

func (s FareService) maxPerDay() int {
	if s.MaxPerDay > 0 {
		return s.MaxPerDay
	}
	return domain.MaxJourneysPerDay
}

func (s FareService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s FareService) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

// ValidJourneys trims every row and drops the ones missing a zone.
func ValidJourneys(inputs []models.JourneyInput) []models.JourneyInput {
	out := make([]models.JourneyInput, 0, len(inputs))
	for _, in := range inputs {
		in.FromZone = strings.TrimSpace(in.FromZone)
		in.ToZone = strings.TrimSpace(in.ToZone)
		if in.Complete() {
			out = append(out, in)
		}
	}
	return out
}

// Calculate prices the complete rows of a journey form for userID.
func (s FareService) Calculate(ctx context.Context, userID string, inputs []models.JourneyInput) (models.CalculationResult, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		s.Metrics.IncrementCalculation(outcomeInvalid)
		return models.CalculationResult{}, domain.ValidationError{Field: "user_id", Msg: "required"}
	}
	journeys := ValidJourneys(inputs)
	if len(journeys) == 0 {
		s.Metrics.IncrementCalculation(outcomeInvalid)
		return models.CalculationResult{}, domain.ValidationError{Field: "journeys", Msg: "Please enter at least one valid journey"}
	}

	limit := s.maxPerDay()
	existing := s.todayCount(ctx, userID)
	if existing+len(journeys) > limit {
		s.Metrics.IncrementCalculation(outcomeLimit)
		s.Metrics.IncrementLimitRejection()
		return models.CalculationResult{}, domain.LimitExceededError{
			Limit: limit,
			Msg: fmt.Sprintf("Cannot submit %d journeys. You have %d existing journeys today. Maximum %d allowed per day.",
				len(journeys), existing, limit),
		}
	}

	calc, err := s.Gateway.CalculateFares(ctx, fareclient.CalculationRequest{UserID: userID, Journeys: journeys})
	if err != nil {
		if domain.IsLimitExceeded(err) {
			s.Metrics.IncrementCalculation(outcomeLimit)
			s.Metrics.IncrementLimitRejection()
		} else {
			s.Metrics.IncrementCalculation(outcomeUpstream)
		}
		utils.LogFailure(s.RequestID, "fares", "calculate", err)
		return models.CalculationResult{}, err
	}

	res := models.CalculationResult{
		ID:           s.newID(),
		UserID:       userID,
		Journeys:     calc.Journeys,
		TotalFare:    calc.TotalFare,
		JourneyCount: len(journeys),
		CalculatedAt: s.now().UTC(),
	}
	if res.Journeys == nil {
		res.Journeys = []models.JourneyFare{}
	}

	if err := s.Results.Save(ctx, res); err != nil {
		s.Metrics.IncrementCalculation(outcomeStore)
		utils.LogFailure(s.RequestID, "fares", "save_result", err)
		return models.CalculationResult{}, domain.InternalError{Msg: "failed to store calculation result", Err: err}
	}

	if err := s.Cache.Invalidate(ctx, userID); err != nil {
		utils.LogFailure(s.RequestID, "fares", "invalidate_history", err)
	}
	s.Metrics.IncrementCalculation(outcomeSuccess)
	utils.LogEvent(s.RequestID, "fares", "calculate",
		fmt.Sprintf("result_id=%s user_id=%s journeys=%d total=%.2f", res.ID, userID, res.JourneyCount, res.TotalFare))
	return res, nil
}

// todayCount treats a failed count lookup as zero; the fare service still
// enforces the cap on submission.
func (s FareService) todayCount(ctx context.Context, userID string) int {
	n, err := s.Gateway.UserJourneyCount(ctx, userID)
	if err != nil {
		utils.LogFailure(s.RequestID, "fares", "journey_count", err)
		return 0
	}
	return n
}

// Remaining reports today's usage against the daily cap.
func (s FareService) Remaining(ctx context.Context, userID string) (domain.JourneyAllowance, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.JourneyAllowance{}, domain.ValidationError{Field: "user_id", Msg: "required"}
	}
	return domain.NewJourneyAllowance(s.todayCount(ctx, userID), s.maxPerDay()), nil
}

func (s FareService) Result(ctx context.Context, id string) (models.CalculationResult, error) {
	return s.Results.GetByID(ctx, id)
}

func (s FareService) RecentResults(ctx context.Context, userID string, limit int) ([]models.CalculationResult, error) {
	return s.Results.ListByUser(ctx, userID, limit)
}
