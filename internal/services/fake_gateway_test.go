package services

import (
	"context"

	"pearlcard/internal/domain/models"
	"pearlcard/internal/fareclient"
)

type fakeGateway struct {
	zones      []models.Zone
	zonesErr   error
	rules      []models.FareRule
	calc       fareclient.Calculation
	calcErr    error
	records    []models.JourneyRecord
	recordsErr error
	count      int
	countErr   error

	calcRequests []fareclient.CalculationRequest
	journeyCalls int
}

func (f *fakeGateway) Zones(context.Context) ([]models.Zone, error) {
	return f.zones, f.zonesErr
}

func (f *fakeGateway) FareRules(context.Context) ([]models.FareRule, error) {
	return f.rules, nil
}

func (f *fakeGateway) CalculateFares(_ context.Context, req fareclient.CalculationRequest) (fareclient.Calculation, error) {
	f.calcRequests = append(f.calcRequests, req)
	return f.calc, f.calcErr
}

func (f *fakeGateway) UserJourneys(context.Context, string) ([]models.JourneyRecord, error) {
	f.journeyCalls++
	return f.records, f.recordsErr
}

func (f *fakeGateway) UserJourneyCount(context.Context, string) (int, error) {
	return f.count, f.countErr
}
