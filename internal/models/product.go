package models

import (
	"time"

	"gorm.io/gorm"
)

// ProductStatus is the moderation state of a product listing.
type ProductStatus string

const (
	ProductPending  ProductStatus = "PENDING"
	ProductApproved ProductStatus = "APPROVED"
	ProductRejected ProductStatus = "REJECTED"
)

// Valid reports whether s is a known moderation state.
func (s ProductStatus) Valid() bool {
	switch s {
	case ProductPending, ProductApproved, ProductRejected:
		return true
	}
	return false
}

// Product represents a product in the store.
type Product struct {
	ID          string         `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	StallID     string         `json:"stall_id" gorm:"type:varchar(36);index"`
	Name        string         `json:"name" validate:"required,min=3,max=100"`
	Description string         `json:"description" validate:"omitempty,max=500"`
	Price       float64        `json:"price" validate:"required,gt=0"`
	Stock       int            `json:"stock" validate:"gte=0"`
	IsWholesale bool           `json:"is_wholesale"`
	Status      ProductStatus  `json:"status" gorm:"type:varchar(16);default:PENDING"`
	CreatedByID string         `json:"created_by_id" gorm:"type:varchar(36)"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"` // soft delete
}
