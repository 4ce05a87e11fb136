package services

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	intdb "pearlcard/internal/db"
	"pearlcard/internal/domain"
	"pearlcard/internal/domain/models"
	"pearlcard/internal/fareclient"
	"pearlcard/internal/repositories"
)

func TestFareServiceCalculateStoresResult(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO calculation_results").
		WithArgs("res-1", "u-1", 85.0, int64(2), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO calculation_journeys").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO calculation_journeys").WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	gw := &fakeGateway{
		count: 3,
		calc: fareclient.Calculation{
			UserID: "u-1",
			Journeys: []models.JourneyFare{
				{JourneyNumber: 1, FromZone: "1", ToZone: "2", Fare: 55, Status: models.JourneyStatusSuccess},
				{JourneyNumber: 2, FromZone: "3", ToZone: "3", Fare: 30, Status: models.JourneyStatusSuccess},
			},
			TotalFare:    85,
			JourneyCount: 2,
		},
	}
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	svc := FareService{
		Gateway: gw,
		Results: repositories.CalculationRepository{DB: db, Dialect: intdb.MySQL},
		Now:     func() time.Time { return now },
		NewID:   func() string { return "res-1" },
	}

	res, err := svc.Calculate(context.Background(), " u-1 ", []models.JourneyInput{
		{FromZone: "1", ToZone: "2"},
		{FromZone: "", ToZone: "2"},
		{FromZone: " 3 ", ToZone: "3"},
	})
	if err != nil {
		t.Fatalf("Calculate error: %v", err)
	}
	if res.ID != "res-1" || res.UserID != "u-1" || res.JourneyCount != 2 || res.TotalFare != 85 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if !res.CalculatedAt.Equal(now) {
		t.Fatalf("calculated_at = %v", res.CalculatedAt)
	}
	if len(gw.calcRequests) != 1 || len(gw.calcRequests[0].Journeys) != 2 {
		t.Fatalf("unexpected remote request: %+v", gw.calcRequests)
	}
	if gw.calcRequests[0].Journeys[1].FromZone != "3" {
		t.Fatalf("journey not trimmed: %+v", gw.calcRequests[0].Journeys[1])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFareServiceCalculateRequiresValidJourney(t *testing.T) {
	gw := &fakeGateway{}
	svc := FareService{Gateway: gw}

	_, err := svc.Calculate(context.Background(), "u-1", []models.JourneyInput{{FromZone: "1"}, {ToZone: "2"}})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err.Error() != "journeys: Please enter at least one valid journey" {
		t.Fatalf("unexpected message: %v", err)
	}
	if len(gw.calcRequests) != 0 {
		t.Fatalf("remote should not be called")
	}

	if _, err := svc.Calculate(context.Background(), " ", []models.JourneyInput{{FromZone: "1", ToZone: "2"}}); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for empty user, got %v", err)
	}
}

func TestFareServiceCalculateDailyLimit(t *testing.T) {
	gw := &fakeGateway{count: 19}
	svc := FareService{Gateway: gw}

	_, err := svc.Calculate(context.Background(), "u-1", []models.JourneyInput{
		{FromZone: "1", ToZone: "2"},
		{FromZone: "2", ToZone: "1"},
	})
	if !domain.IsLimitExceeded(err) {
		t.Fatalf("expected limit error, got %v", err)
	}
	want := "Cannot submit 2 journeys. You have 19 existing journeys today. Maximum 20 allowed per day."
	if err.Error() != want {
		t.Fatalf("unexpected message: %q", err.Error())
	}
	if len(gw.calcRequests) != 0 {
		t.Fatalf("remote should not be called")
	}
}

func TestFareServiceCalculateRemoteLimitPassesThrough(t *testing.T) {
	gw := &fakeGateway{
		countErr: domain.UpstreamError{Op: fareclient.OpCount, Msg: "down"},
		calcErr:  domain.LimitExceededError{Limit: 20, Msg: "Maximum 20 journeys per day exceeded"},
	}
	svc := FareService{Gateway: gw}

	_, err := svc.Calculate(context.Background(), "u-1", []models.JourneyInput{{FromZone: "1", ToZone: "2"}})
	if !domain.IsLimitExceeded(err) {
		t.Fatalf("expected limit error, got %v", err)
	}
	if len(gw.calcRequests) != 1 {
		t.Fatalf("count failure should not block submission")
	}
}

func TestFareServiceCalculateStoreFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	mock.ExpectBegin().WillReturnError(context.DeadlineExceeded)

	svc := FareService{
		Gateway: &fakeGateway{calc: fareclient.Calculation{TotalFare: 55}},
		Results: repositories.CalculationRepository{DB: db, Dialect: intdb.MySQL},
	}
	_, err = svc.Calculate(context.Background(), "u-1", []models.JourneyInput{{FromZone: "1", ToZone: "2"}})
	if !domain.IsInternal(err) {
		t.Fatalf("expected internal error, got %v", err)
	}
}

func TestFareServiceRemaining(t *testing.T) {
	svc := FareService{Gateway: &fakeGateway{count: 23}}
	got, err := svc.Remaining(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("Remaining error: %v", err)
	}
	if got.Count != 23 || got.Limit != 20 || got.Remaining != 0 {
		t.Fatalf("unexpected allowance: %+v", got)
	}

	svc = FareService{Gateway: &fakeGateway{count: 5}, MaxPerDay: 8}
	got, _ = svc.Remaining(context.Background(), "u-1")
	if got.Remaining != 3 {
		t.Fatalf("remaining = %d", got.Remaining)
	}

	if _, err := svc.Remaining(context.Background(), ""); !domain.IsValidation(err) {
		t.Fatalf("expected validation error")
	}
}

func TestValidJourneys(t *testing.T) {
	got := ValidJourneys([]models.JourneyInput{{FromZone: " ", ToZone: "1"}, {FromZone: "1 ", ToZone: " 2"}})
	if len(got) != 1 || got[0].FromZone != "1" || got[0].ToZone != "2" {
		t.Fatalf("unexpected rows: %+v", got)
	}
}
