package events

import (
	"time"

	"seedmart/internal/model"

	"github.com/google/uuid"
)

const (
	orderCreatedEventName    = "OrderCreated"
	orderCreatedEventVersion = 1
)

// OrderCreatedItem mirrors an order line in the event contract.
type OrderCreatedItem struct {
	ProductID      int64  `json:"productId"`
	Title          string `json:"title"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	Quantity       int    `json:"quantity"`
}

// OrderCreated is the v1 payload published for every order a checkout creates.
type OrderCreated struct {
	EventName    string             `json:"eventName"`
	EventVersion int                `json:"eventVersion"`
	EventID      string             `json:"eventId"`
	OrderNumber  string             `json:"orderNumber"`
	BuyerID      int64              `json:"buyerId"`
	SupplierID   int64              `json:"supplierId"`
	TotalCents   int64              `json:"totalCents"`
	Currency     string             `json:"currency"`
	Items        []OrderCreatedItem `json:"items"`
	OccurredAt   time.Time          `json:"occurredAt"`
}

// BuildOrderCreated builds the OrderCreated event for an order.
func BuildOrderCreated(o *model.Order) OrderCreated {
	items := make([]OrderCreatedItem, 0, len(o.Items))
	for _, line := range o.Items {
		items = append(items, OrderCreatedItem{
			ProductID:      line.ProductID,
			Title:          line.Title,
			UnitPriceCents: line.UnitPriceCents,
			Quantity:       line.Quantity,
		})
	}

	return OrderCreated{
		EventName:    orderCreatedEventName,
		EventVersion: orderCreatedEventVersion,
		EventID:      uuid.NewString(),
		OrderNumber:  o.OrderNumber,
		BuyerID:      o.BuyerID,
		SupplierID:   o.SupplierID,
		TotalCents:   o.TotalCents,
		Currency:     o.Currency,
		Items:        items,
		OccurredAt:   time.Now().UTC(),
	}
}
