package models

import "time"

// Stall is a seller's storefront inside the market.
type Stall struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string    `json:"name" gorm:"type:varchar(100);not null"`
	Description string    `json:"description" gorm:"type:varchar(500)"`
	Location    string    `json:"location" gorm:"type:varchar(255)"`
	OwnerID     string    `json:"owner_id" gorm:"type:varchar(36);index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
