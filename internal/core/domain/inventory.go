package domain

import "time"

// Warehouse is a storage facility managed from the ops dashboard.
type Warehouse struct {
	ID        int64     `json:"id,omitempty"`
	Name      string    `json:"name" validate:"required,max=255"`
	Address   string    `json:"address" validate:"required"`
	City      string    `json:"city" validate:"required,max=100"`
	Country   string    `json:"country" validate:"required,max=100"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}
