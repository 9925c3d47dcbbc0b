package model

import "fmt"

// PaymentMethod is the closed set of supported payment methods.
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "CASH"
	PaymentMobileMoney  PaymentMethod = "MOBILE_MONEY"
	PaymentBankTransfer PaymentMethod = "BANK_TRANSFER"
)

// Valid reports whether the payment method is one of the supported values.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentMobileMoney, PaymentBankTransfer:
		return true
	}
	return false
}

// CheckoutItem is a single requested cart line.
type CheckoutItem struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"qty"`
}

// AddressPayload is the shipping address submitted with a checkout.
type AddressPayload struct {
	Label   string `json:"label"`
	Country string `json:"country"`
	Region  string `json:"region"`
	City    string `json:"city"`
}

// CheckoutRequest is the request payload for creating orders from a cart.
type CheckoutRequest struct {
	Items         []CheckoutItem `json:"items"`
	Address       AddressPayload `json:"address"`
	PaymentMethod PaymentMethod  `json:"paymentMethod"`
	Notes         *string        `json:"notes,omitempty"`
}

// Validate performs the pure shape check done before any storage access.
// It returns an INVALID_REQUEST domain error describing the first problem found.
func (r *CheckoutRequest) Validate() error {
	if r == nil {
		return NewInvalidRequest("request body is required")
	}

	if len(r.Items) == 0 {
		return NewInvalidRequest("cart must contain at least one item")
	}

	seen := make(map[int64]struct{}, len(r.Items))
	for i, item := range r.Items {
		if item.ProductID <= 0 {
			return NewInvalidRequest(fmt.Sprintf("item %d: product id is required", i))
		}
		if item.Quantity < 1 {
			return NewInvalidRequest(fmt.Sprintf("item %d: quantity must be at least 1", i))
		}
		if _, dup := seen[item.ProductID]; dup {
			return NewInvalidRequest(fmt.Sprintf("item %d: duplicate product id %d", i, item.ProductID))
		}
		seen[item.ProductID] = struct{}{}
	}

	if r.Address.Label == "" || r.Address.Country == "" || r.Address.Region == "" || r.Address.City == "" {
		return NewInvalidRequest("address label, country, region and city are required")
	}

	if !r.PaymentMethod.Valid() {
		return NewInvalidRequest(fmt.Sprintf("unsupported payment method: %s", r.PaymentMethod))
	}

	return nil
}

// ProductIDs returns the requested product ids in cart order.
func (r *CheckoutRequest) ProductIDs() []int64 {
	ids := make([]int64, len(r.Items))
	for i, item := range r.Items {
		ids[i] = item.ProductID
	}
	return ids
}
