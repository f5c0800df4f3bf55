// internal/models/apartment.go
package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Apartment struct {
	BaseModel
	Code            string          `json:"code" gorm:"uniqueIndex;size:50;not null"`
	BuildingName    string          `json:"building_name" gorm:"size:255"`
	Floor           int             `json:"floor"`
	Area            float64         `json:"area" gorm:"type:decimal(10,2)"`
	Status          ApartmentStatus `json:"status" gorm:"type:varchar(20);default:'vacant';index"`
	IsActive        bool            `json:"is_active" gorm:"default:true"`
	IsListedForRent bool            `json:"is_listed_for_rent" gorm:"default:false;index"`
	IsListedForSale bool            `json:"is_listed_for_sale" gorm:"default:false;index"`
	MonthlyRent     float64         `json:"monthly_rent" gorm:"type:decimal(15,2)"`
	SalePrice       float64         `json:"sale_price" gorm:"type:decimal(15,2)"`
	OwnerID         *uuid.UUID      `json:"owner_id" gorm:"type:uuid;index"`
	TenantID        *uuid.UUID      `json:"tenant_id" gorm:"type:uuid;index"`
	DeletedAt       gorm.DeletedAt  `json:"deleted_at,omitempty" gorm:"index"`

	// Relationships
	Owner  *User `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Tenant *User `json:"tenant,omitempty" gorm:"foreignKey:TenantID"`
}

func (a *Apartment) IsOccupied() bool {
	return a.Status == ApartmentStatusOccupied
}

// IsListedFor reports whether the apartment is offered for the given request type.
func (a *Apartment) IsListedFor(t LeaseRequestType) bool {
	switch t {
	case LeaseRequestTypeRent:
		return a.IsListedForRent
	case LeaseRequestTypeBuy:
		return a.IsListedForSale
	}
	return false
}

// HasDistinctOwner reports whether the apartment has a registered owner other
// than the given identity. A nil identity (guest) never matches the owner.
func (a *Apartment) HasDistinctOwner(id *uuid.UUID) bool {
	if a.OwnerID == nil {
		return false
	}
	return id == nil || *a.OwnerID != *id
}

// OccupancyUpdate describes the apartment fields the lease workflow writes on
// approval. Nil pointers leave the column untouched; ClearTenant writes NULL.
type OccupancyUpdate struct {
	Status          ApartmentStatus
	OwnerID         *uuid.UUID
	TenantID        *uuid.UUID
	ClearTenant     bool
	IsListedForRent *bool
	IsListedForSale *bool
}

// OccupancyFor builds the apartment mutation for an approved request.
func OccupancyFor(t LeaseRequestType, requesterID uuid.UUID) OccupancyUpdate {
	notListed := false
	id := requesterID
	switch t {
	case LeaseRequestTypeBuy:
		return OccupancyUpdate{
			Status:          ApartmentStatusOccupied,
			OwnerID:         &id,
			ClearTenant:     true,
			IsListedForRent: &notListed,
			IsListedForSale: &notListed,
		}
	default:
		return OccupancyUpdate{
			Status:          ApartmentStatusOccupied,
			TenantID:        &id,
			IsListedForRent: &notListed,
		}
	}
}
