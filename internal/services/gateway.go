package services

import (
	"context"

	"pearlcard/internal/domain/models"
	"pearlcard/internal/fareclient"
)

// FareGateway is what the services need from the remote fare service.
// *fareclient.Client implements it.
type FareGateway interface {
	Zones(ctx context.Context) ([]models.Zone, error)
	FareRules(ctx context.Context) ([]models.FareRule, error)
	CalculateFares(ctx context.Context, req fareclient.CalculationRequest) (fareclient.Calculation, error)
	UserJourneys(ctx context.Context, userID string) ([]models.JourneyRecord, error)
	UserJourneyCount(ctx context.Context, userID string) (int, error)
}

var _ FareGateway = (*fareclient.Client)(nil)
