package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/residence-backend/internal/models"
	"github.com/javajoker/residence-backend/internal/repository"
	"github.com/javajoker/residence-backend/internal/testutil"
	"github.com/javajoker/residence-backend/internal/utils"
)

func TestUserRepository_CreateIsUniqueByEmail(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	users := repository.NewUserRepository(db)
	ctx := context.Background()

	first := &models.User{Email: "Jane@X.com ", PasswordHash: "x", Role: models.RoleResident}
	require.NoError(t, users.Create(ctx, first))
	assert.Equal(t, "jane@x.com", first.Email)

	err := users.Create(ctx, &models.User{Email: "jane@x.com", PasswordHash: "x", Role: models.RoleResident})
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)

	found, err := users.FindByEmail(ctx, "JANE@x.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)

	_, err = users.FindByEmail(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepository_DuplicateInsideUnitOfWorkKeepsTransactionUsable(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	existing := testutil.CreateUser(t, db, "jane@x.com", models.RoleUser)
	uow := repository.NewUnitOfWork(db)

	var reused uuid.UUID
	err := uow.Do(context.Background(), func(ctx context.Context, stores repository.Stores) error {
		err := stores.Users.Create(ctx, &models.User{Email: "jane@x.com", PasswordHash: "x", Role: models.RoleResident})
		if !errors.Is(err, repository.ErrDuplicateEmail) {
			return err
		}
		user, err := stores.Users.FindByEmail(ctx, "jane@x.com")
		if err != nil {
			return err
		}
		reused = user.ID
		return stores.Users.SetRole(ctx, user.ID, models.RoleResident)
	})
	require.NoError(t, err)
	assert.Equal(t, existing.ID, reused)

	role, err := repository.NewUserRepository(db).GetRole(context.Background(), existing.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleResident, role)
}

func TestUserRepository_FindDeletedByEmail(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	users := repository.NewUserRepository(db)
	ctx := context.Background()

	live := testutil.CreateUser(t, db, "live@x.com", models.RoleUser)
	gone := testutil.CreateUser(t, db, "gone@x.com", models.RoleUser)
	require.NoError(t, db.Delete(gone).Error)

	_, err := users.FindByEmail(ctx, "gone@x.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	found, err := users.FindDeletedByEmail(ctx, "Gone@X.com")
	require.NoError(t, err)
	assert.Equal(t, gone.ID, found.ID)

	_, err = users.FindDeletedByEmail(ctx, live.Email)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepository_SetRole(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	users := repository.NewUserRepository(db)
	ctx := context.Background()

	assert.ErrorIs(t, users.SetRole(ctx, uuid.New(), models.RoleResident), repository.ErrNotFound)

	user := testutil.CreateUser(t, db, "a@x.com", models.RoleUser)
	assert.Error(t, users.SetRole(ctx, user.ID, models.Role("root")))
}

func TestApartmentRepository_UpdateOccupancyIsGuarded(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	apartments := repository.NewApartmentRepository(db)
	ctx := context.Background()
	apartment := testutil.CreateApartment(t, db, "A-101", testutil.ForRent)
	tenant := uuid.New()

	require.NoError(t, apartments.UpdateOccupancy(ctx, apartment.ID, models.OccupancyFor(models.LeaseRequestTypeRent, tenant)))

	reloaded := testutil.ReloadApartment(t, db, apartment.ID)
	assert.Equal(t, models.ApartmentStatusOccupied, reloaded.Status)
	assert.False(t, reloaded.IsListedForRent)
	require.NotNil(t, reloaded.TenantID)
	assert.Equal(t, tenant, *reloaded.TenantID)

	err := apartments.UpdateOccupancy(ctx, apartment.ID, models.OccupancyFor(models.LeaseRequestTypeRent, uuid.New()))
	assert.ErrorIs(t, err, repository.ErrStaleState)
}

func TestApartmentRepository_BuyClearsTenant(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	apartments := repository.NewApartmentRepository(db)
	previousTenant := uuid.New()
	apartment := testutil.CreateApartment(t, db, "A-102", testutil.ForSale, func(a *models.Apartment) {
		a.TenantID = &previousTenant
		a.IsListedForRent = true
	})
	buyer := uuid.New()

	require.NoError(t, apartments.UpdateOccupancy(context.Background(), apartment.ID, models.OccupancyFor(models.LeaseRequestTypeBuy, buyer)))

	reloaded := testutil.ReloadApartment(t, db, apartment.ID)
	require.NotNil(t, reloaded.OwnerID)
	assert.Equal(t, buyer, *reloaded.OwnerID)
	assert.Nil(t, reloaded.TenantID)
	assert.False(t, reloaded.IsListedForRent)
	assert.False(t, reloaded.IsListedForSale)
	assert.Equal(t, models.ApartmentStatusOccupied, reloaded.Status)
}

func TestApartmentRepository_ListEligibleForListing(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	apartments := repository.NewApartmentRepository(db)
	testutil.CreateApartment(t, db, "A-1", testutil.ForRent)
	testutil.CreateApartment(t, db, "A-2", testutil.ForSale)
	testutil.CreateApartment(t, db, "A-3", testutil.ForRent, func(a *models.Apartment) {
		a.Status = models.ApartmentStatusOccupied
	})
	inactive := testutil.CreateApartment(t, db, "A-4", testutil.ForRent)
	require.NoError(t, db.Model(inactive).Update("is_active", false).Error)

	rent, err := apartments.ListEligibleForListing(context.Background(), models.LeaseRequestTypeRent)
	require.NoError(t, err)
	require.Len(t, rent, 1)
	assert.Equal(t, "A-1", rent[0].Code)

	buy, err := apartments.ListEligibleForListing(context.Background(), models.LeaseRequestTypeBuy)
	require.NoError(t, err)
	require.Len(t, buy, 1)
	assert.Equal(t, "A-2", buy[0].Code)
}

func TestLeaseRequestRepository_TransitionIsConditional(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	requests := repository.NewLeaseRequestRepository(db)
	ctx := context.Background()
	apartment := testutil.CreateApartment(t, db, "A-1", testutil.ForRent)

	request := &models.LeaseRequest{
		ApartmentID:  apartment.ID,
		Type:         models.LeaseRequestTypeRent,
		Status:       models.LeaseRequestStatusPendingManager,
		ContactEmail: "jane@x.com",
	}
	require.NoError(t, requests.Create(ctx, request))

	now := time.Now()
	decider := uuid.New()
	change := repository.LeaseRequestTransition{
		From:       []models.LeaseRequestStatus{models.LeaseRequestStatusPendingManager},
		To:         models.LeaseRequestStatusApproved,
		DecisionBy: &decider,
		DecisionAt: &now,
	}
	require.NoError(t, requests.Transition(ctx, request.ID, change))
	assert.ErrorIs(t, requests.Transition(ctx, request.ID, change), repository.ErrStaleState)

	stored := testutil.ReloadLeaseRequest(t, db, request.ID)
	assert.Equal(t, models.LeaseRequestStatusApproved, stored.Status)
	require.NotNil(t, stored.DecisionBy)
	assert.Equal(t, decider, *stored.DecisionBy)

	// backwards moves are rejected before touching the database
	err := requests.Transition(ctx, request.ID, repository.LeaseRequestTransition{
		From: []models.LeaseRequestStatus{models.LeaseRequestStatusApproved},
		To:   models.LeaseRequestStatusPendingManager,
	})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrStaleState)
}

func TestLeaseRequestRepository_ListFilters(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	requests := repository.NewLeaseRequestRepository(db)
	ctx := context.Background()
	apartment := testutil.CreateApartment(t, db, "A-1", testutil.ForRent, testutil.ForSale)
	requester := uuid.New()

	notes := []string{"quiet family with a cat", "family of four", "student, 100% quiet"}
	for i, note := range notes {
		r := &models.LeaseRequest{
			ApartmentID:  apartment.ID,
			Type:         models.LeaseRequestTypeRent,
			Status:       models.LeaseRequestStatusPendingManager,
			ContactEmail: "x@x.com",
			Note:         note,
		}
		if i == 0 {
			r.RequesterID = &requester
			r.Type = models.LeaseRequestTypeBuy
		}
		require.NoError(t, requests.Create(ctx, r))
	}

	all, total, err := requests.List(ctx, repository.LeaseRequestFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, all, 3)
	// newest first
	assert.Equal(t, notes[2], all[0].Note)
	assert.NotNil(t, all[0].Apartment)

	found, total, err := requests.List(ctx, repository.LeaseRequestFilter{Query: "Family QUIET"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, notes[0], found[0].Note)

	found, _, err = requests.List(ctx, repository.LeaseRequestFilter{Query: "100%"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, notes[2], found[0].Note)

	buy := models.LeaseRequestTypeBuy
	found, total, err = requests.List(ctx, repository.LeaseRequestFilter{Type: &buy})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, notes[0], found[0].Note)

	found, total, err = requests.List(ctx, repository.LeaseRequestFilter{RequesterID: &requester})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	page, total, err := requests.List(ctx, repository.LeaseRequestFilter{
		PaginationParams: utils.PaginationParams{Page: 2, Limit: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, page, 1)
	assert.Equal(t, notes[0], page[0].Note)
}

func TestLeaseRequestRepository_FindOpen(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	requests := repository.NewLeaseRequestRepository(db)
	ctx := context.Background()
	apartment := testutil.CreateApartment(t, db, "A-1", testutil.ForRent)

	guest := &models.LeaseRequest{
		ApartmentID:  apartment.ID,
		Type:         models.LeaseRequestTypeRent,
		Status:       models.LeaseRequestStatusPendingOwner,
		ContactEmail: "jane@x.com",
	}
	require.NoError(t, requests.Create(ctx, guest))

	open, err := requests.FindOpen(ctx, apartment.ID, nil, "Jane@x.com")
	require.NoError(t, err)
	assert.Equal(t, guest.ID, open.ID)

	requester := uuid.New()
	_, err = requests.FindOpen(ctx, apartment.ID, &requester, "jane@x.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
