package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/javajoker/residence-backend/internal/models"
	"github.com/javajoker/residence-backend/internal/utils"
)

var leaseRequestSortFields = []string{"created_at", "updated_at", "decision_at", "status"}

type leaseRequestRepository struct {
	db *gorm.DB
}

func NewLeaseRequestRepository(db *gorm.DB) LeaseRequestRepository {
	return &leaseRequestRepository{db: db}
}

func (r *leaseRequestRepository) Create(ctx context.Context, request *models.LeaseRequest) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(request).Error; err != nil {
		return fmt.Errorf("failed to create lease request: %w", err)
	}
	return nil
}

func (r *leaseRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.LeaseRequest, error) {
	var request models.LeaseRequest
	err := r.db.WithContext(ctx).
		Preload("Apartment").
		First(&request, "id = ?", id).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &request, nil
}

func (r *leaseRequestRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.LeaseRequest, error) {
	var request models.LeaseRequest
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&request, "id = ?", id).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &request, nil
}

func (r *leaseRequestRepository) Transition(ctx context.Context, id uuid.UUID, change LeaseRequestTransition) error {
	if len(change.From) == 0 {
		return fmt.Errorf("transition to %s has no source status", change.To)
	}
	for _, from := range change.From {
		if !from.CanTransitionTo(change.To) {
			return fmt.Errorf("illegal lease request transition %s -> %s", from, change.To)
		}
	}

	values := map[string]interface{}{"status": change.To}
	if change.DecisionBy != nil {
		values["decision_by"] = *change.DecisionBy
	}
	if change.DecisionAt != nil {
		values["decision_at"] = *change.DecisionAt
	}
	if change.DecisionNote != "" {
		values["decision_note"] = change.DecisionNote
	}
	if change.OwnerApprovedAt != nil {
		values["owner_approved_at"] = *change.OwnerApprovedAt
	}
	if change.CancelledAt != nil {
		values["cancelled_at"] = *change.CancelledAt
	}

	result := r.db.WithContext(ctx).Model(&models.LeaseRequest{}).
		Where("id = ? AND status IN ?", id, change.From).
		Updates(values)
	if result.Error != nil {
		return fmt.Errorf("failed to update lease request: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrStaleState
	}
	return nil
}

func (r *leaseRequestRepository) SetRequester(ctx context.Context, id, requesterID uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&models.LeaseRequest{}).
		Where("id = ?", id).
		Update("requester_id", requesterID)
	if result.Error != nil {
		return fmt.Errorf("failed to link requester: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// FindOpen returns a pending request for the apartment by the same requester,
// or by the same contact email when the requester is a guest.
func (r *leaseRequestRepository) FindOpen(ctx context.Context, apartmentID uuid.UUID, requesterID *uuid.UUID, contactEmail string) (*models.LeaseRequest, error) {
	query := r.db.WithContext(ctx).
		Where("apartment_id = ? AND status IN ?", apartmentID, models.PendingLeaseRequestStatuses)

	if requesterID != nil {
		query = query.Where("requester_id = ?", *requesterID)
	} else {
		query = query.Where("requester_id IS NULL AND contact_email = ?", strings.ToLower(contactEmail))
	}

	var request models.LeaseRequest
	if err := query.First(&request).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &request, nil
}

func (r *leaseRequestRepository) List(ctx context.Context, filter LeaseRequestFilter) ([]models.LeaseRequest, int64, error) {
	params := utils.NormalizePagination(filter.PaginationParams)
	query := r.db.WithContext(ctx).Model(&models.LeaseRequest{})

	// Apply filters
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}

	if filter.ApartmentID != nil {
		query = query.Where("apartment_id = ?", *filter.ApartmentID)
	}

	if filter.RequesterID != nil {
		query = query.Where("requester_id = ?", *filter.RequesterID)
	}

	for _, token := range strings.Fields(filter.Query) {
		query = query.Where(`LOWER(note) LIKE ? ESCAPE '\'`, likePattern(token))
	}

	// Get total count
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count lease requests: %w", err)
	}

	query = utils.ApplySort(query, params, leaseRequestSortFields)
	query = utils.ApplyPagination(query, params)

	var requests []models.LeaseRequest
	if err := query.Preload("Apartment").Find(&requests).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch lease requests: %w", err)
	}

	return requests, total, nil
}
