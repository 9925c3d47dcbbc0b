package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusConfirmed OrderStatus = "CONFIRMED"
	StatusPreparing OrderStatus = "PREPARING"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusDelivered OrderStatus = "DELIVERED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// statusTransitions encodes the allowed lifecycle moves. DELIVERED and
// CANCELLED are terminal.
var statusTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusShipped},
	StatusShipped:   {StatusDelivered},
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether the status admits no further transitions.
func (s OrderStatus) Terminal() bool {
	return len(statusTransitions[s]) == 0
}

// Order is one supplier's share of a checkout. A checkout spanning K
// suppliers creates K orders, all referencing the same shipping address.
type Order struct {
	ID                uuid.UUID     `json:"-" db:"id"`
	OrderNumber       string        `json:"orderNumber" db:"order_number"`
	BuyerID           int64         `json:"buyerId" db:"buyer_id"`
	SupplierID        int64         `json:"supplierId" db:"supplier_id"`
	TotalCents        int64         `json:"totalCents" db:"total_cents"`
	Currency          string        `json:"currency" db:"currency"`
	PaymentMethod     PaymentMethod `json:"paymentMethod" db:"payment_method"`
	Status            OrderStatus   `json:"status" db:"status"`
	ShippingAddressID uuid.UUID     `json:"shippingAddressId" db:"shipping_address_id"`
	Note              *string       `json:"note,omitempty" db:"note"`
	CreatedAt         time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time     `json:"updatedAt" db:"updated_at"`
	Items             []OrderLine   `json:"items"`
}

// OrderLine captures title and unit price as they were at order time, so
// historical orders are immune to later catalogue edits.
type OrderLine struct {
	ID             uuid.UUID `json:"-" db:"id"`
	OrderID        uuid.UUID `json:"-" db:"order_id"`
	ProductID      int64     `json:"productId" db:"product_id"`
	Title          string    `json:"title" db:"title"`
	UnitPriceCents int64     `json:"unitPriceCents" db:"unit_price_cents"`
	Quantity       int       `json:"quantity" db:"quantity"`
}
