package model

import "time"

// ProductStatus describes whether a product can currently be purchased.
type ProductStatus string

const (
	ProductActive  ProductStatus = "ACTIVE"
	ProductDraft   ProductStatus = "DRAFT"
	ProductBlocked ProductStatus = "BLOCKED"
)

// Product represents a seed product in the catalogue.
type Product struct {
	ID             int64         `json:"id" db:"id"`
	Title          string        `json:"title" db:"title"`
	UnitPriceCents int64         `json:"unitPriceCents" db:"unit_price_cents"`
	SupplierID     int64         `json:"supplierId" db:"supplier_id"`
	Stock          int           `json:"stock" db:"stock"`
	Status         ProductStatus `json:"status" db:"status"`
	CreatedAt      time.Time     `json:"createdAt" db:"created_at"`
}

// Purchasable reports whether the product may appear in a checkout.
func (p Product) Purchasable() bool {
	return p.Status == ProductActive
}
