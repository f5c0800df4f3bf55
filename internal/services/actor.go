// internal/services/actor.go
package services

import (
	"strings"

	"github.com/google/uuid"

	"github.com/javajoker/residence-backend/internal/models"
)

// Actor is the authenticated caller of a workflow operation. A nil *Actor is
// an anonymous guest.
type Actor struct {
	ID    uuid.UUID
	Role  models.Role
	Email string
	Name  string
	Phone string
}

func NewActor(id uuid.UUID, role models.Role, email, name, phone string) *Actor {
	return &Actor{
		ID:    id,
		Role:  role,
		Email: strings.ToLower(strings.TrimSpace(email)),
		Name:  strings.TrimSpace(name),
		Phone: strings.TrimSpace(phone),
	}
}

func (a *Actor) IsGuest() bool {
	return a == nil
}

func (a *Actor) userID() *uuid.UUID {
	if a == nil {
		return nil
	}
	id := a.ID
	return &id
}
