package model

import (
	"time"

	"github.com/google/uuid"
)

// ShippingAddress is created once per checkout and shared by every order
// that checkout produces.
type ShippingAddress struct {
	ID        uuid.UUID `json:"id" db:"id"`
	BuyerID   int64     `json:"-" db:"buyer_id"`
	Label     string    `json:"label" db:"label"`
	Country   string    `json:"country" db:"country"`
	Region    string    `json:"region" db:"region"`
	City      string    `json:"city" db:"city"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
