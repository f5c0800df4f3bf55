// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns the primary key in Go so every driver gets the same ids.
func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// Enums
type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

type ApartmentStatus string

const (
	ApartmentStatusVacant          ApartmentStatus = "vacant"
	ApartmentStatusOccupied        ApartmentStatus = "occupied"
	ApartmentStatusUnderRenovation ApartmentStatus = "under_renovation"
	ApartmentStatusForRent         ApartmentStatus = "for_rent"
	ApartmentStatusForSale         ApartmentStatus = "for_sale"
)

type LeaseRequestType string

const (
	LeaseRequestTypeRent LeaseRequestType = "rent"
	LeaseRequestTypeBuy  LeaseRequestType = "buy"
)

func (t LeaseRequestType) IsValid() bool {
	return t == LeaseRequestTypeRent || t == LeaseRequestTypeBuy
}

type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

func (d Decision) IsValid() bool {
	return d == DecisionApprove || d == DecisionReject
}
