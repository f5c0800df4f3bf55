// internal/services/apartment_service.go
package services

import (
	"context"
	"fmt"

	"github.com/javajoker/residence-backend/internal/models"
	"github.com/javajoker/residence-backend/internal/repository"
)

type ApartmentService struct {
	apartments repository.ApartmentRepository
}

func NewApartmentService(apartments repository.ApartmentRepository) *ApartmentService {
	return &ApartmentService{apartments: apartments}
}

// ListListings returns the active, unoccupied apartments currently offered
// for the given request type.
func (s *ApartmentService) ListListings(ctx context.Context, listingType models.LeaseRequestType) ([]models.Apartment, error) {
	if !listingType.IsValid() {
		return nil, NewValidationError("invalid listing type", nil)
	}

	apartments, err := s.apartments.ListEligibleForListing(ctx, listingType)
	if err != nil {
		return nil, fmt.Errorf("failed to list apartments: %w", err)
	}
	return apartments, nil
}
