// internal/services/requester.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/javajoker/residence-backend/internal/models"
	"github.com/javajoker/residence-backend/internal/repository"
	"github.com/javajoker/residence-backend/internal/utils"
)

// RequesterProfile is the contact information a guest supplied on a request.
type RequesterProfile struct {
	Name  string
	Email string
	Phone string
}

// resolveOrCreateRequester returns the account registered under
// profile.Email, creating an active one with starterRole when none exists.
// created reports whether a new account was inserted. A concurrent insert of
// the same email is resolved by reading the winner once; a second miss is a
// conflict, unless the email is held by a soft-deleted account.
func resolveOrCreateRequester(ctx context.Context, users repository.UserRepository, profile RequesterProfile, starterRole models.Role) (user *models.User, created bool, err error) {
	email := strings.ToLower(strings.TrimSpace(profile.Email))
	if email == "" {
		return nil, false, NewInvalidStateError("missing requester info")
	}

	user, err = users.FindByEmail(ctx, email)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, fmt.Errorf("failed to look up requester: %w", err)
	}

	password, err := utils.GenerateTemporaryPassword()
	if err != nil {
		return nil, false, fmt.Errorf("failed to generate password: %w", err)
	}

	first, last := models.SplitContactName(profile.Name)
	user = &models.User{
		Email:     email,
		FirstName: first,
		LastName:  last,
		Phone:     strings.TrimSpace(profile.Phone),
		Role:      starterRole,
		Status:    models.UserStatusActive,
	}
	if err := user.SetPassword(password); err != nil {
		return nil, false, fmt.Errorf("failed to hash password: %w", err)
	}

	err = users.Create(ctx, user)
	if err == nil {
		return user, true, nil
	}
	if !errors.Is(err, repository.ErrDuplicateEmail) {
		return nil, false, fmt.Errorf("failed to create requester account: %w", err)
	}

	existing, err := users.FindByEmail(ctx, email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, fmt.Errorf("failed to look up requester: %w", err)
	}

	// The unique index still covers soft-deleted accounts.
	if _, derr := users.FindDeletedByEmail(ctx, email); derr == nil {
		return nil, false, NewInvalidStateError("requester email belongs to a deleted account")
	} else if !errors.Is(derr, repository.ErrNotFound) {
		return nil, false, fmt.Errorf("failed to look up deleted requester: %w", derr)
	}
	return nil, false, NewConflictError("requester account changed concurrently", err)
}
