// internal/services/lease_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/residence-backend/internal/config"
	"github.com/javajoker/residence-backend/internal/metrics"
	"github.com/javajoker/residence-backend/internal/models"
	"github.com/javajoker/residence-backend/internal/repository"
	"github.com/javajoker/residence-backend/internal/utils"
)

// LeaseService drives lease and purchase requests from submission through the
// owner and manager gates to the final occupancy commit.
type LeaseService struct {
	uow         repository.UnitOfWork
	stores      repository.Stores
	dispatcher  *Dispatcher
	metrics     *metrics.Metrics
	timeout     time.Duration
	starterRole models.Role
	now         func() time.Time
}

type CreateLeaseRequest struct {
	ApartmentID  uuid.UUID               `json:"apartment_id" validate:"required"`
	Type         models.LeaseRequestType `json:"type" validate:"required,oneof=rent buy"`
	StartDate    *time.Time              `json:"start_date,omitempty"`
	EndDate      *time.Time              `json:"end_date,omitempty"`
	MonthlyRent  *float64                `json:"monthly_rent,omitempty" validate:"omitempty,gte=0"`
	TotalPrice   *float64                `json:"total_price,omitempty" validate:"omitempty,gte=0"`
	Note         string                  `json:"note,omitempty" validate:"max=1000"`
	ContactName  string                  `json:"contact_name,omitempty" validate:"omitempty,max=100"`
	ContactEmail string                  `json:"contact_email,omitempty" validate:"omitempty,email,max=255"`
	ContactPhone string                  `json:"contact_phone,omitempty" validate:"omitempty,phone"`
}

type LeaseDecisionRequest struct {
	Decision models.Decision `json:"decision" validate:"required,oneof=approve reject"`
	Note     string          `json:"note,omitempty" validate:"max=1000"`
}

func NewLeaseService(uow repository.UnitOfWork, stores repository.Stores, dispatcher *Dispatcher, m *metrics.Metrics, cfg config.LeaseConfig) *LeaseService {
	starterRole, err := models.ParseRole(cfg.StarterRole)
	if err != nil {
		starterRole = models.RoleResident
	}
	return &LeaseService{
		uow:         uow,
		stores:      stores,
		dispatcher:  dispatcher,
		metrics:     m,
		timeout:     cfg.DecisionTimeout,
		starterRole: starterRole,
		now:         time.Now,
	}
}

func (s *LeaseService) CreateRequest(ctx context.Context, actor *Actor, req *CreateLeaseRequest) (*models.LeaseRequest, error) {
	if actor != nil && !actor.Role.CanCreateLeaseRequest() {
		if actor.Role.HoldsApartment() {
			return nil, NewForbiddenError(fmt.Sprintf("role %q already holds an apartment", actor.Role))
		}
		return nil, NewForbiddenError(fmt.Sprintf("role %q cannot submit lease requests", actor.Role))
	}
	if err := validateCreateRequest(actor, req); err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var (
		request *models.LeaseRequest
		events  []Event
	)
	err := s.uow.Do(ctx, func(ctx context.Context, stores repository.Stores) error {
		apartment, err := stores.Apartments.GetByID(ctx, req.ApartmentID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return NewNotFoundError("apartment not found")
			}
			return fmt.Errorf("failed to load apartment: %w", err)
		}
		if !apartment.IsActive {
			return NewNotFoundError("apartment not found")
		}
		if apartment.IsOccupied() {
			return NewInvalidStateError("apartment is already occupied")
		}
		if !apartment.IsListedFor(req.Type) {
			return NewInvalidStateError(fmt.Sprintf("apartment is not listed for %s", req.Type))
		}

		request = newLeaseRequest(actor, req, apartment)

		_, err = stores.LeaseRequests.FindOpen(ctx, apartment.ID, request.RequesterID, request.ContactEmail)
		if err == nil {
			return NewInvalidStateError("an open request for this apartment already exists")
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("failed to check open requests: %w", err)
		}

		if err := stores.LeaseRequests.Create(ctx, request); err != nil {
			return fmt.Errorf("failed to create lease request: %w", err)
		}
		request.Apartment = apartment
		events = creationEvents(request, apartment)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RequestCreated(string(request.Type), string(request.Status))
	logrus.WithFields(logrus.Fields{
		"lease_request_id": request.ID,
		"apartment_id":     request.ApartmentID,
		"type":             request.Type,
		"status":           request.Status,
		"guest":            request.IsGuest(),
	}).Info("Lease request created")

	s.dispatcher.Dispatch(events...)
	return request, nil
}

// OwnerDecision records the apartment owner's verdict on a rent request.
// Approval hands the request to the manager; rejection is final.
func (s *LeaseService) OwnerDecision(ctx context.Context, actor *Actor, id uuid.UUID, req *LeaseDecisionRequest) (*models.LeaseRequest, error) {
	if err := validateDecision(req); err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, NewForbiddenError("authentication required")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	target := models.LeaseRequestStatusPendingManager
	if req.Decision == models.DecisionReject {
		target = models.LeaseRequestStatusRejected
	}

	var (
		request *models.LeaseRequest
		events  []Event
	)
	err := s.uow.Do(ctx, func(ctx context.Context, stores repository.Stores) error {
		current, err := lockLeaseRequest(ctx, stores, id)
		if err != nil {
			return err
		}
		if current.Status != models.LeaseRequestStatusPendingOwner {
			return NewInvalidStateError(fmt.Sprintf("request is %s, not awaiting the owner", current.Status))
		}

		apartment, err := stores.Apartments.GetByID(ctx, current.ApartmentID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return NewNotFoundError("apartment not found")
			}
			return fmt.Errorf("failed to load apartment: %w", err)
		}
		if apartment.OwnerID == nil || *apartment.OwnerID != actor.ID {
			return NewForbiddenError("only the apartment owner can decide this request")
		}

		now := s.now()
		change := repository.LeaseRequestTransition{
			From: []models.LeaseRequestStatus{current.Status},
			To:   target,
		}
		if target == models.LeaseRequestStatusRejected {
			change.DecisionBy = &actor.ID
			change.DecisionAt = &now
			change.DecisionNote = req.Note
		} else {
			change.OwnerApprovedAt = &now
		}
		if err := applyTransition(ctx, stores, current, change); err != nil {
			return err
		}

		request, err = stores.LeaseRequests.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to reload lease request: %w", err)
		}
		events = []Event{decisionEvent(request, apartment, "owner")}
		return nil
	})
	s.metrics.Transition(string(target), err)
	if err != nil {
		return nil, err
	}

	s.dispatcher.Dispatch(events...)
	return request, nil
}

// DecideLeaseRequest is the manager gate. Approval commits the occupancy
// change, provisions or promotes the requester's account and finalizes the
// request in one unit of work.
func (s *LeaseService) DecideLeaseRequest(ctx context.Context, actor *Actor, id uuid.UUID, req *LeaseDecisionRequest) (*models.LeaseRequest, error) {
	if actor == nil || !actor.Role.CanDecideLeaseRequest() {
		return nil, NewForbiddenError("only managers and administrators can decide lease requests")
	}
	if err := validateDecision(req); err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	target := models.LeaseRequestStatusApproved
	if req.Decision == models.DecisionReject {
		target = models.LeaseRequestStatusRejected
	}

	var (
		request *models.LeaseRequest
		outcome approvalOutcome
	)
	err := s.uow.Do(ctx, func(ctx context.Context, stores repository.Stores) error {
		outcome = approvalOutcome{}

		current, err := lockLeaseRequest(ctx, stores, id)
		if err != nil {
			return err
		}
		if current.Status != models.LeaseRequestStatusPendingManager {
			return NewInvalidStateError(fmt.Sprintf("request is %s, not awaiting a manager decision", current.Status))
		}

		now := s.now()
		if target == models.LeaseRequestStatusApproved {
			outcome, err = s.approve(ctx, stores, actor, current, req.Note, now)
			if err != nil {
				return err
			}
		} else {
			err := applyTransition(ctx, stores, current, repository.LeaseRequestTransition{
				From:         []models.LeaseRequestStatus{current.Status},
				To:           models.LeaseRequestStatusRejected,
				DecisionBy:   &actor.ID,
				DecisionAt:   &now,
				DecisionNote: req.Note,
			})
			if err != nil {
				return err
			}
		}

		request, err = stores.LeaseRequests.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to reload lease request: %w", err)
		}
		outcome.events = append(outcome.events, decisionEvent(request, request.Apartment, "manager"))
		return nil
	})
	s.metrics.Transition(string(target), err)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"lease_request_id": id,
			"decision":         req.Decision,
		}).Warn("Lease decision failed")
		return nil, err
	}

	if outcome.accountCreated {
		s.metrics.GuestAccountCreated()
	}
	logrus.WithFields(logrus.Fields{
		"lease_request_id": request.ID,
		"apartment_id":     request.ApartmentID,
		"decision_by":      actor.ID,
		"status":           request.Status,
	}).Info("Lease request decided")

	s.dispatcher.Dispatch(outcome.events...)
	return request, nil
}

type approvalOutcome struct {
	events         []Event
	accountCreated bool
}

func (s *LeaseService) approve(ctx context.Context, stores repository.Stores, actor *Actor, request *models.LeaseRequest, note string, now time.Time) (approvalOutcome, error) {
	var outcome approvalOutcome

	apartment, err := stores.Apartments.GetForUpdate(ctx, request.ApartmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return outcome, NewNotFoundError("apartment not found")
		}
		return outcome, fmt.Errorf("failed to lock apartment: %w", err)
	}
	if apartment.IsOccupied() {
		return outcome, NewInvalidStateError("apartment is already occupied")
	}

	err = applyTransition(ctx, stores, request, repository.LeaseRequestTransition{
		From:         []models.LeaseRequestStatus{request.Status},
		To:           models.LeaseRequestStatusApproved,
		DecisionBy:   &actor.ID,
		DecisionAt:   &now,
		DecisionNote: note,
	})
	if err != nil {
		return outcome, err
	}

	requester, created, err := s.effectiveRequester(ctx, stores, request)
	if err != nil {
		return outcome, err
	}
	if created {
		outcome.accountCreated = true
		outcome.events = append(outcome.events, accountIssuedEvent(request, requester, apartment))
	}

	role, err := stores.Users.GetRole(ctx, requester.ID)
	if err != nil {
		return outcome, fmt.Errorf("failed to load requester role: %w", err)
	}
	if role != s.starterRole {
		if err := stores.Users.SetRole(ctx, requester.ID, s.starterRole); err != nil {
			return outcome, fmt.Errorf("failed to upgrade requester role: %w", err)
		}
		outcome.events = append(outcome.events, roleUpgradedEvent(request, requester, apartment, role, s.starterRole))
	}

	if err := stores.Apartments.UpdateOccupancy(ctx, apartment.ID, models.OccupancyFor(request.Type, requester.ID)); err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return outcome, NewConflictError("apartment occupancy changed concurrently", err)
		}
		return outcome, fmt.Errorf("failed to update apartment occupancy: %w", err)
	}

	if !request.IsRequestedBy(requester.ID) {
		if err := stores.LeaseRequests.SetRequester(ctx, request.ID, requester.ID); err != nil {
			return outcome, fmt.Errorf("failed to link requester: %w", err)
		}
	}

	return outcome, nil
}

func (s *LeaseService) effectiveRequester(ctx context.Context, stores repository.Stores, request *models.LeaseRequest) (*models.User, bool, error) {
	if request.RequesterID != nil {
		user, err := stores.Users.GetByID(ctx, *request.RequesterID)
		if err == nil {
			return user, false, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, false, fmt.Errorf("failed to load requester: %w", err)
		}
		if request.ContactEmail == "" {
			return nil, false, NewInvalidStateError("missing requester info")
		}
	}

	return resolveOrCreateRequester(ctx, stores.Users, RequesterProfile{
		Name:  request.ContactName,
		Email: request.ContactEmail,
		Phone: request.ContactPhone,
	}, s.starterRole)
}

// CancelLeaseRequest withdraws a request that is still awaiting a decision.
func (s *LeaseService) CancelLeaseRequest(ctx context.Context, actor *Actor, id uuid.UUID) (*models.LeaseRequest, error) {
	if actor == nil {
		return nil, NewForbiddenError("authentication required")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var request *models.LeaseRequest
	err := s.uow.Do(ctx, func(ctx context.Context, stores repository.Stores) error {
		current, err := lockLeaseRequest(ctx, stores, id)
		if err != nil {
			return err
		}
		if !current.IsRequestedBy(actor.ID) && !actor.Role.CanCancelAnyLeaseRequest() {
			return NewForbiddenError("only the requester or an administrator can cancel this request")
		}
		if !current.Status.IsPending() {
			return NewInvalidStateError(fmt.Sprintf("request is %s and can no longer be cancelled", current.Status))
		}

		now := s.now()
		err = applyTransition(ctx, stores, current, repository.LeaseRequestTransition{
			From:        []models.LeaseRequestStatus{current.Status},
			To:          models.LeaseRequestStatusCancelled,
			CancelledAt: &now,
		})
		if err != nil {
			return err
		}

		request, err = stores.LeaseRequests.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to reload lease request: %w", err)
		}
		return nil
	})
	s.metrics.Transition(string(models.LeaseRequestStatusCancelled), err)
	if err != nil {
		return nil, err
	}

	s.dispatcher.Dispatch(cancellationEvent(request, actor))
	return request, nil
}

// ListRequests pages through requests newest first. Callers without the
// view-all capability only ever see their own requests.
func (s *LeaseService) ListRequests(ctx context.Context, actor *Actor, filter repository.LeaseRequestFilter) ([]models.LeaseRequest, int64, error) {
	if actor == nil {
		return nil, 0, NewForbiddenError("authentication required")
	}

	var details []utils.ValidationError
	if filter.Status != nil && !filter.Status.IsValid() {
		details = append(details, utils.ValidationError{Field: "status", Tag: "oneof", Message: "unknown status " + string(*filter.Status)})
	}
	if filter.Type != nil && !filter.Type.IsValid() {
		details = append(details, utils.ValidationError{Field: "type", Tag: "oneof", Message: "type must be one of: rent buy"})
	}
	if len(details) > 0 {
		return nil, 0, NewValidationError("invalid filter", details)
	}

	if !actor.Role.CanViewAllLeaseRequests() {
		filter.RequesterID = &actor.ID
	}
	filter.PaginationParams = utils.NormalizePagination(filter.PaginationParams)

	requests, total, err := s.stores.LeaseRequests.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list lease requests: %w", err)
	}
	return requests, total, nil
}

// GetRequest returns a request visible to the requester, the apartment owner
// and management.
func (s *LeaseService) GetRequest(ctx context.Context, actor *Actor, id uuid.UUID) (*models.LeaseRequest, error) {
	if actor == nil {
		return nil, NewForbiddenError("authentication required")
	}

	request, err := s.stores.LeaseRequests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewNotFoundError("lease request not found")
		}
		return nil, fmt.Errorf("failed to load lease request: %w", err)
	}

	ownsApartment := request.Apartment != nil && request.Apartment.OwnerID != nil && *request.Apartment.OwnerID == actor.ID
	if !actor.Role.CanViewAllLeaseRequests() && !request.IsRequestedBy(actor.ID) && !ownsApartment {
		return nil, NewForbiddenError("you cannot view this request")
	}
	return request, nil
}

func (s *LeaseService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(ctx, s.timeout)
	}
	return context.WithCancel(ctx)
}

func lockLeaseRequest(ctx context.Context, stores repository.Stores, id uuid.UUID) (*models.LeaseRequest, error) {
	request, err := stores.LeaseRequests.GetForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewNotFoundError("lease request not found")
		}
		return nil, fmt.Errorf("failed to load lease request: %w", err)
	}
	return request, nil
}

func applyTransition(ctx context.Context, stores repository.Stores, request *models.LeaseRequest, change repository.LeaseRequestTransition) error {
	err := stores.LeaseRequests.Transition(ctx, request.ID, change)
	if err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return NewConflictError("lease request changed concurrently", err)
		}
		return fmt.Errorf("failed to update lease request: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"lease_request_id": request.ID,
		"apartment_id":     request.ApartmentID,
		"from":             request.Status,
		"to":               change.To,
	}).Debug("Lease request transition")
	return nil
}

func validateCreateRequest(actor *Actor, req *CreateLeaseRequest) error {
	if req == nil {
		return NewValidationError("request body is required", nil)
	}

	var details []utils.ValidationError
	if err := utils.ValidateStruct(req); err != nil {
		details = append(details, utils.GetValidationErrors(err)...)
	}

	// Blank contact fields fall back to the actor's profile; whatever is still
	// blank afterwards cannot be contacted.
	name, email, phone := req.ContactName, req.ContactEmail, req.ContactPhone
	if actor != nil {
		name = firstNonBlank(name, actor.Name)
		email = firstNonBlank(email, actor.Email)
		phone = firstNonBlank(phone, actor.Phone)
	}
	if strings.TrimSpace(name) == "" {
		details = append(details, requiredField("contact_name"))
	}
	if strings.TrimSpace(email) == "" {
		details = append(details, requiredField("contact_email"))
	}
	if strings.TrimSpace(phone) == "" {
		details = append(details, requiredField("contact_phone"))
	}

	if req.StartDate != nil && req.EndDate != nil && !req.EndDate.After(*req.StartDate) {
		details = append(details, utils.ValidationError{Field: "end_date", Tag: "gtfield", Message: "end_date must be after start_date"})
	}
	if req.Type == models.LeaseRequestTypeRent && req.TotalPrice != nil {
		details = append(details, utils.ValidationError{Field: "total_price", Tag: "excluded", Message: "total_price only applies to buy requests"})
	}
	if req.Type == models.LeaseRequestTypeBuy && req.MonthlyRent != nil {
		details = append(details, utils.ValidationError{Field: "monthly_rent", Tag: "excluded", Message: "monthly_rent only applies to rent requests"})
	}

	if len(details) > 0 {
		return NewValidationError("invalid lease request", details)
	}
	return nil
}

func validateDecision(req *LeaseDecisionRequest) error {
	if req == nil {
		return NewValidationError("decision is required", nil)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return NewValidationError("invalid decision", utils.GetValidationErrors(err))
	}
	return nil
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func requiredField(field string) utils.ValidationError {
	return utils.ValidationError{Field: field, Tag: "required", Message: field + " is required"}
}

// newLeaseRequest builds the record for an eligible submission. Contact
// fields left blank by an authenticated actor fall back to the actor's
// profile, and an omitted price snapshots the apartment's listed figure.
func newLeaseRequest(actor *Actor, req *CreateLeaseRequest, apartment *models.Apartment) *models.LeaseRequest {
	request := &models.LeaseRequest{
		ApartmentID:  apartment.ID,
		RequesterID:  actor.userID(),
		Type:         req.Type,
		ContactName:  strings.TrimSpace(req.ContactName),
		ContactEmail: strings.ToLower(strings.TrimSpace(req.ContactEmail)),
		ContactPhone: strings.TrimSpace(req.ContactPhone),
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Note:         strings.TrimSpace(req.Note),
	}
	request.Status = models.InitialLeaseRequestStatus(req.Type, apartment, request.RequesterID)

	if actor != nil {
		if request.ContactName == "" {
			request.ContactName = actor.Name
		}
		if request.ContactEmail == "" {
			request.ContactEmail = actor.Email
		}
		if request.ContactPhone == "" {
			request.ContactPhone = actor.Phone
		}
	}

	switch req.Type {
	case models.LeaseRequestTypeRent:
		rent := apartment.MonthlyRent
		if req.MonthlyRent != nil {
			rent = *req.MonthlyRent
		}
		request.MonthlyRent = &rent
	case models.LeaseRequestTypeBuy:
		price := apartment.SalePrice
		if req.TotalPrice != nil {
			price = *req.TotalPrice
		}
		request.TotalPrice = &price
	}

	return request
}
