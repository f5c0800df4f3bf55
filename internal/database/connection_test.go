package database_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/javajoker/residence-backend/internal/database"
	"github.com/javajoker/residence-backend/internal/models"
	"github.com/javajoker/residence-backend/internal/testutil"
)

func TestWithTransaction_CommitsOnSuccess(t *testing.T) {
	db := testutil.NewSQLiteDB(t)

	err := database.WithTransaction(context.Background(), db, func(tx *gorm.DB) error {
		return tx.Create(&models.User{Email: "a@example.com", PasswordHash: "x", Role: models.RoleUser}).Error
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestWithTransaction_RollsBackOnError(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	boom := errors.New("boom")

	err := database.WithTransaction(context.Background(), db, func(tx *gorm.DB) error {
		if err := tx.Create(&models.User{Email: "a@example.com", PasswordHash: "x", Role: models.RoleUser}).Error; err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestWithTransaction_RollsBackOnPanic(t *testing.T) {
	db := testutil.NewSQLiteDB(t)

	assert.Panics(t, func() {
		_ = database.WithTransaction(context.Background(), db, func(tx *gorm.DB) error {
			tx.Create(&models.User{Email: "a@example.com", PasswordHash: "x", Role: models.RoleUser})
			panic("boom")
		})
	})

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestWithTransaction_RollsBackOnExpiredContext(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := database.WithTransaction(ctx, db, func(tx *gorm.DB) error {
		if err := tx.Create(&models.User{Email: "a@example.com", PasswordHash: "x", Role: models.RoleUser}).Error; err != nil {
			return err
		}
		time.Sleep(50 * time.Millisecond)
		return nil
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSeedInitialData_IsIdempotent(t *testing.T) {
	db := testutil.NewSQLiteDB(t)

	require.NoError(t, database.SeedInitialData(db, "admin@residence.local", "Adm1n!pass"))
	require.NoError(t, database.SeedInitialData(db, "admin@residence.local", "Adm1n!pass"))

	var admins []models.User
	require.NoError(t, db.Where("role = ?", models.RoleAdmin).Find(&admins).Error)
	require.Len(t, admins, 1)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admins[0].PasswordHash), []byte("Adm1n!pass")))
}
