package models

import "time"

// Base is the base model for all entities. IDs are numeric and
// auto-incremented; the API exposes them as-is.
type Base struct {
	ID        uint      `json:"id"        gorm:"primaryKey"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
