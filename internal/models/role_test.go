package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	for _, r := range allRoles {
		parsed, err := ParseRole(string(r))
		require.NoError(t, err)
		assert.Equal(t, r, parsed)
	}

	_, err := ParseRole("superuser")
	assert.Error(t, err)
	assert.False(t, Role("").IsValid())
}

func TestRoleCapabilities(t *testing.T) {
	tests := []struct {
		role       Role
		staff      bool
		canCreate  bool
		canDecide  bool
		canViewAll bool
	}{
		{RoleAdmin, true, false, true, true},
		{RoleManager, true, false, true, true},
		{RoleSecurity, true, false, false, false},
		{RoleTechnician, true, false, false, false},
		{RoleAccountant, true, false, false, false},
		{RoleResident, false, false, false, false},
		{RoleOwner, false, false, false, false},
		{RoleUser, false, true, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.staff, tt.role.IsStaff())
			assert.Equal(t, tt.canCreate, tt.role.CanCreateLeaseRequest())
			assert.Equal(t, tt.canDecide, tt.role.CanDecideLeaseRequest())
			assert.Equal(t, tt.canViewAll, tt.role.CanViewAllLeaseRequests())
		})
	}

	assert.True(t, RoleResident.HoldsApartment())
	assert.True(t, RoleOwner.HoldsApartment())
	assert.False(t, RoleUser.HoldsApartment())
	assert.True(t, RoleAdmin.CanCancelAnyLeaseRequest())
	assert.False(t, RoleManager.CanCancelAnyLeaseRequest())
}

func TestSplitContactName(t *testing.T) {
	tests := []struct {
		in, first, last string
	}{
		{"Jane Doe", "Jane", "Doe"},
		{"Jane Mary Doe", "Jane", "Mary Doe"},
		{"Jane", "Jane", "User"},
		{"", "Guest", "User"},
		{"   ", "Guest", "User"},
	}

	for _, tt := range tests {
		first, last := SplitContactName(tt.in)
		assert.Equal(t, tt.first, first, tt.in)
		assert.Equal(t, tt.last, last, tt.in)
	}
}
