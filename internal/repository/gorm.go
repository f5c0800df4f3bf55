package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/javajoker/residence-backend/internal/database"
)

type gormUnitOfWork struct {
	db *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &gormUnitOfWork{db: db}
}

func (u *gormUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, stores Stores) error) error {
	return database.WithTransaction(ctx, u.db, func(tx *gorm.DB) error {
		return fn(ctx, NewStores(tx))
	})
}

// NewStores binds every repository to db.
func NewStores(db *gorm.DB) Stores {
	return Stores{
		Users:         NewUserRepository(db),
		Apartments:    NewApartmentRepository(db),
		LeaseRequests: NewLeaseRequestRepository(db),
	}
}

func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(token string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(token)) + "%"
}
