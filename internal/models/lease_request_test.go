package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestLeaseRequestStatusTransitions(t *testing.T) {
	assert.True(t, LeaseRequestStatusPendingOwner.CanTransitionTo(LeaseRequestStatusPendingManager))
	assert.True(t, LeaseRequestStatusPendingOwner.CanTransitionTo(LeaseRequestStatusRejected))
	assert.True(t, LeaseRequestStatusPendingOwner.CanTransitionTo(LeaseRequestStatusCancelled))
	assert.False(t, LeaseRequestStatusPendingOwner.CanTransitionTo(LeaseRequestStatusApproved))

	assert.True(t, LeaseRequestStatusPendingManager.CanTransitionTo(LeaseRequestStatusApproved))
	assert.False(t, LeaseRequestStatusPendingManager.CanTransitionTo(LeaseRequestStatusPendingOwner))

	for _, terminal := range []LeaseRequestStatus{
		LeaseRequestStatusApproved, LeaseRequestStatusRejected, LeaseRequestStatusCancelled,
	} {
		assert.False(t, terminal.IsPending())
		for _, next := range []LeaseRequestStatus{
			LeaseRequestStatusPendingOwner, LeaseRequestStatusPendingManager,
			LeaseRequestStatusApproved, LeaseRequestStatusRejected, LeaseRequestStatusCancelled,
		} {
			assert.False(t, terminal.CanTransitionTo(next), "%s -> %s", terminal, next)
		}
	}

	assert.False(t, LeaseRequestStatus("pending").IsValid())
	assert.False(t, LeaseRequestStatus("pending").IsPending())
}

func TestInitialLeaseRequestStatus(t *testing.T) {
	owner := uuid.New()
	requester := uuid.New()

	owned := &Apartment{OwnerID: &owner}
	unowned := &Apartment{}

	// buy always goes to the manager
	assert.Equal(t, LeaseRequestStatusPendingManager, InitialLeaseRequestStatus(LeaseRequestTypeBuy, owned, &requester))
	assert.Equal(t, LeaseRequestStatusPendingManager, InitialLeaseRequestStatus(LeaseRequestTypeBuy, owned, nil))
	assert.Equal(t, LeaseRequestStatusPendingManager, InitialLeaseRequestStatus(LeaseRequestTypeBuy, unowned, nil))

	assert.Equal(t, LeaseRequestStatusPendingOwner, InitialLeaseRequestStatus(LeaseRequestTypeRent, owned, &requester))
	assert.Equal(t, LeaseRequestStatusPendingOwner, InitialLeaseRequestStatus(LeaseRequestTypeRent, owned, nil))
	assert.Equal(t, LeaseRequestStatusPendingManager, InitialLeaseRequestStatus(LeaseRequestTypeRent, owned, &owner))
	assert.Equal(t, LeaseRequestStatusPendingManager, InitialLeaseRequestStatus(LeaseRequestTypeRent, unowned, &requester))
}

func TestOccupancyFor(t *testing.T) {
	id := uuid.New()

	rent := OccupancyFor(LeaseRequestTypeRent, id)
	assert.Equal(t, ApartmentStatusOccupied, rent.Status)
	if assert.NotNil(t, rent.TenantID) {
		assert.Equal(t, id, *rent.TenantID)
	}
	assert.Nil(t, rent.OwnerID)
	assert.False(t, rent.ClearTenant)
	if assert.NotNil(t, rent.IsListedForRent) {
		assert.False(t, *rent.IsListedForRent)
	}
	assert.Nil(t, rent.IsListedForSale)

	buy := OccupancyFor(LeaseRequestTypeBuy, id)
	if assert.NotNil(t, buy.OwnerID) {
		assert.Equal(t, id, *buy.OwnerID)
	}
	assert.True(t, buy.ClearTenant)
	assert.Nil(t, buy.TenantID)
	assert.False(t, *buy.IsListedForRent)
	assert.False(t, *buy.IsListedForSale)
}
