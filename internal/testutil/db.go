// Package testutil holds helpers shared by package tests.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/javajoker/residence-backend/internal/config"
	"github.com/javajoker/residence-backend/internal/database"
	"github.com/javajoker/residence-backend/internal/models"
)

// NewSQLiteDB opens a private file-backed database with the schema migrated.
// The file outlives connections that database/sql discards on cancellation.
func NewSQLiteDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Initialize(config.DatabaseConfig{
		Driver:   "sqlite",
		Database: filepath.Join(t.TempDir(), "residence.db"),
		LogLevel: "silent",
	})
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db))

	t.Cleanup(func() { database.Close(db) })
	return db
}

// CreateUser inserts an active account with the given role.
func CreateUser(t testing.TB, db *gorm.DB, email string, role models.Role) *models.User {
	t.Helper()

	user := &models.User{
		Email:     email,
		FirstName: "Test",
		LastName:  string(role),
		Phone:     "0900000001",
		Role:      role,
		Status:    models.UserStatusActive,
	}
	require.NoError(t, user.SetPassword("Passw0rd!"))
	require.NoError(t, db.Create(user).Error)
	return user
}

// ApartmentOption customizes an apartment before it is inserted.
type ApartmentOption func(*models.Apartment)

func ForRent(a *models.Apartment) {
	a.Status = models.ApartmentStatusForRent
	a.IsListedForRent = true
}

func ForSale(a *models.Apartment) {
	a.Status = models.ApartmentStatusForSale
	a.IsListedForSale = true
}

func OwnedBy(id uuid.UUID) ApartmentOption {
	return func(a *models.Apartment) {
		owner := id
		a.OwnerID = &owner
	}
}

// CreateApartment inserts an active apartment.
func CreateApartment(t testing.TB, db *gorm.DB, code string, opts ...ApartmentOption) *models.Apartment {
	t.Helper()

	apartment := &models.Apartment{
		Code:         code,
		BuildingName: "Block A",
		Floor:        3,
		Status:       models.ApartmentStatusVacant,
		IsActive:     true,
		MonthlyRent:  1200,
		SalePrice:    250000,
	}
	for _, opt := range opts {
		opt(apartment)
	}
	require.NoError(t, db.Create(apartment).Error)
	return apartment
}

// ReloadApartment reads the apartment straight from the database.
func ReloadApartment(t testing.TB, db *gorm.DB, id uuid.UUID) *models.Apartment {
	t.Helper()

	var apartment models.Apartment
	require.NoError(t, db.First(&apartment, "id = ?", id).Error)
	return &apartment
}

// ReloadLeaseRequest reads the request straight from the database.
func ReloadLeaseRequest(t testing.TB, db *gorm.DB, id uuid.UUID) *models.LeaseRequest {
	t.Helper()

	var request models.LeaseRequest
	require.NoError(t, db.First(&request, "id = ?", id).Error)
	return &request
}
