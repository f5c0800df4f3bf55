// internal/models/lease_request.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type LeaseRequestStatus string

const (
	LeaseRequestStatusPendingOwner   LeaseRequestStatus = "pending_owner"
	LeaseRequestStatusPendingManager LeaseRequestStatus = "pending_manager"
	LeaseRequestStatusApproved       LeaseRequestStatus = "approved"
	LeaseRequestStatusRejected       LeaseRequestStatus = "rejected"
	LeaseRequestStatusCancelled      LeaseRequestStatus = "cancelled"
)

// PendingLeaseRequestStatuses are the statuses a request can still leave.
var PendingLeaseRequestStatuses = []LeaseRequestStatus{
	LeaseRequestStatusPendingOwner,
	LeaseRequestStatusPendingManager,
}

var leaseRequestTransitions = map[LeaseRequestStatus][]LeaseRequestStatus{
	LeaseRequestStatusPendingOwner: {
		LeaseRequestStatusPendingManager,
		LeaseRequestStatusRejected,
		LeaseRequestStatusCancelled,
	},
	LeaseRequestStatusPendingManager: {
		LeaseRequestStatusApproved,
		LeaseRequestStatusRejected,
		LeaseRequestStatusCancelled,
	},
}

func (s LeaseRequestStatus) IsValid() bool {
	switch s {
	case LeaseRequestStatusPendingOwner, LeaseRequestStatusPendingManager,
		LeaseRequestStatusApproved, LeaseRequestStatusRejected, LeaseRequestStatusCancelled:
		return true
	}
	return false
}

func (s LeaseRequestStatus) IsPending() bool {
	return s == LeaseRequestStatusPendingOwner || s == LeaseRequestStatusPendingManager
}

// CanTransitionTo reports whether next is a legal successor of s.
func (s LeaseRequestStatus) CanTransitionTo(next LeaseRequestStatus) bool {
	for _, allowed := range leaseRequestTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type LeaseRequest struct {
	BaseModel
	ApartmentID     uuid.UUID          `json:"apartment_id" gorm:"type:uuid;not null;index"`
	RequesterID     *uuid.UUID         `json:"requester_id" gorm:"type:uuid;index"`
	Type            LeaseRequestType   `json:"type" gorm:"type:varchar(10);not null;index"`
	Status          LeaseRequestStatus `json:"status" gorm:"type:varchar(20);not null;index"`
	ContactName     string             `json:"contact_name" gorm:"size:100"`
	ContactEmail    string             `json:"contact_email" gorm:"size:255;index"`
	ContactPhone    string             `json:"contact_phone" gorm:"size:20"`
	StartDate       *time.Time         `json:"start_date,omitempty"`
	EndDate         *time.Time         `json:"end_date,omitempty"`
	MonthlyRent     *float64           `json:"monthly_rent,omitempty" gorm:"type:decimal(15,2)"`
	TotalPrice      *float64           `json:"total_price,omitempty" gorm:"type:decimal(15,2)"`
	Note            string             `json:"note,omitempty" gorm:"type:text"`
	OwnerApprovedAt *time.Time         `json:"owner_approved_at,omitempty"`
	DecisionBy      *uuid.UUID         `json:"decision_by,omitempty" gorm:"type:uuid"`
	DecisionAt      *time.Time         `json:"decision_at,omitempty"`
	DecisionNote    string             `json:"decision_note,omitempty" gorm:"type:text"`
	CancelledAt     *time.Time         `json:"cancelled_at,omitempty"`

	// Relationships
	Apartment *Apartment `json:"apartment,omitempty" gorm:"foreignKey:ApartmentID"`
	Requester *User      `json:"requester,omitempty" gorm:"foreignKey:RequesterID"`
}

func (r *LeaseRequest) IsGuest() bool {
	return r.RequesterID == nil
}

// IsRequestedBy reports whether id is the recorded requester.
func (r *LeaseRequest) IsRequestedBy(id uuid.UUID) bool {
	return r.RequesterID != nil && *r.RequesterID == id
}

// InitialLeaseRequestStatus computes where a new request starts. Rent requests
// for an apartment whose owner is someone other than the requester wait on the
// owner first; everything else goes straight to the manager.
func InitialLeaseRequestStatus(t LeaseRequestType, apartment *Apartment, requesterID *uuid.UUID) LeaseRequestStatus {
	if t == LeaseRequestTypeRent && apartment.HasDistinctOwner(requesterID) {
		return LeaseRequestStatusPendingOwner
	}
	return LeaseRequestStatusPendingManager
}
