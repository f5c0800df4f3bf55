// Package repository holds the persistence contracts of the lease workflow and
// their GORM implementations. Every repository is bound to a *gorm.DB, which
// is either the shared pool or a transaction handed out by a UnitOfWork.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/javajoker/residence-backend/internal/models"
	"github.com/javajoker/residence-backend/internal/utils"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrStaleState means a conditional update matched no row because the
	// record changed since it was read.
	ErrStaleState = errors.New("record state changed concurrently")
)

// UserRepository is the identity directory.
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	// FindDeletedByEmail returns a soft-deleted account still holding email.
	FindDeletedByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	GetRole(ctx context.Context, id uuid.UUID) (models.Role, error)
	SetRole(ctx context.Context, id uuid.UUID, role models.Role) error
}

// ApartmentRepository is the apartment directory.
type ApartmentRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Apartment, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Apartment, error)
	ListEligibleForListing(ctx context.Context, t models.LeaseRequestType) ([]models.Apartment, error)
	UpdateOccupancy(ctx context.Context, id uuid.UUID, update models.OccupancyUpdate) error
}

type LeaseRequestRepository interface {
	Create(ctx context.Context, request *models.LeaseRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.LeaseRequest, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*models.LeaseRequest, error)
	Transition(ctx context.Context, id uuid.UUID, change LeaseRequestTransition) error
	SetRequester(ctx context.Context, id, requesterID uuid.UUID) error
	FindOpen(ctx context.Context, apartmentID uuid.UUID, requesterID *uuid.UUID, contactEmail string) (*models.LeaseRequest, error)
	List(ctx context.Context, filter LeaseRequestFilter) ([]models.LeaseRequest, int64, error)
}

// LeaseRequestTransition is a guarded status change. It applies only while the
// stored status is one of From; otherwise Transition returns ErrStaleState.
type LeaseRequestTransition struct {
	From            []models.LeaseRequestStatus
	To              models.LeaseRequestStatus
	DecisionBy      *uuid.UUID
	DecisionAt      *time.Time
	DecisionNote    string
	OwnerApprovedAt *time.Time
	CancelledAt     *time.Time
}

type LeaseRequestFilter struct {
	utils.PaginationParams
	Status      *models.LeaseRequestStatus
	Type        *models.LeaseRequestType
	ApartmentID *uuid.UUID
	RequesterID *uuid.UUID
	// Query is matched against the note; every whitespace separated token must appear.
	Query string
}

// Stores groups the repositories that share one connection or transaction.
type Stores struct {
	Users         UserRepository
	Apartments    ApartmentRepository
	LeaseRequests LeaseRequestRepository
}

// UnitOfWork runs fn atomically. All writes made through the Stores passed to
// fn commit together or not at all.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, stores Stores) error) error
}
