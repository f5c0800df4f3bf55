package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/javajoker/residence-backend/internal/models"
)

type apartmentRepository struct {
	db *gorm.DB
}

func NewApartmentRepository(db *gorm.DB) ApartmentRepository {
	return &apartmentRepository{db: db}
}

func (r *apartmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Apartment, error) {
	var apartment models.Apartment
	if err := r.db.WithContext(ctx).First(&apartment, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &apartment, nil
}

// GetForUpdate reads the apartment and locks its row until the surrounding
// transaction ends. SQLite ignores the lock; its writes are serialized anyway.
func (r *apartmentRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Apartment, error) {
	var apartment models.Apartment
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&apartment, "id = ?", id).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &apartment, nil
}

func (r *apartmentRepository) ListEligibleForListing(ctx context.Context, t models.LeaseRequestType) ([]models.Apartment, error) {
	query := r.db.WithContext(ctx).Model(&models.Apartment{}).
		Where("is_active = ? AND status <> ?", true, models.ApartmentStatusOccupied)

	switch t {
	case models.LeaseRequestTypeRent:
		query = query.Where("is_listed_for_rent = ?", true)
	case models.LeaseRequestTypeBuy:
		query = query.Where("is_listed_for_sale = ?", true)
	default:
		return nil, fmt.Errorf("unknown lease request type %q", t)
	}

	var apartments []models.Apartment
	if err := query.Order("code asc").Find(&apartments).Error; err != nil {
		return nil, fmt.Errorf("failed to list apartments: %w", err)
	}
	return apartments, nil
}

// UpdateOccupancy applies the approval mutation. The write is guarded on the
// apartment not being occupied yet; a lost race surfaces as ErrStaleState.
func (r *apartmentRepository) UpdateOccupancy(ctx context.Context, id uuid.UUID, update models.OccupancyUpdate) error {
	values := map[string]interface{}{}
	if update.Status != "" {
		values["status"] = update.Status
	}
	if update.OwnerID != nil {
		values["owner_id"] = *update.OwnerID
	}
	if update.ClearTenant {
		values["tenant_id"] = nil
	} else if update.TenantID != nil {
		values["tenant_id"] = *update.TenantID
	}
	if update.IsListedForRent != nil {
		values["is_listed_for_rent"] = *update.IsListedForRent
	}
	if update.IsListedForSale != nil {
		values["is_listed_for_sale"] = *update.IsListedForSale
	}
	if len(values) == 0 {
		return nil
	}

	result := r.db.WithContext(ctx).Model(&models.Apartment{}).
		Where("id = ? AND status <> ?", id, models.ApartmentStatusOccupied).
		Updates(values)
	if result.Error != nil {
		return fmt.Errorf("failed to update apartment occupancy: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrStaleState
	}
	return nil
}
