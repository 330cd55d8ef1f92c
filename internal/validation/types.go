package validation

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderCustomer is the customer block inside an order submission.
type OrderCustomer struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
}

// OrderEntry is a single order line item.
type OrderEntry struct {
	ProductID int `json:"productId" validate:"required"`
	Quantity  int `json:"quantity" validate:"required,min=1"` // must be >= 1
}

// PlaceOrderRequest is the payload for POST /orders.
type PlaceOrderRequest struct {
	Customer     OrderCustomer   `json:"customer" validate:"required"`
	OrderDate    time.Time       `json:"orderDate" validate:"required"`
	DeliveryDate time.Time       `json:"deliveryDate" validate:"required"`
	Status       string          `json:"status" validate:"omitempty,oneof=Pending Confirmed Shipped Delivered Cancelled"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	Entries      []OrderEntry    `json:"entries" validate:"required,min=1,dive"` // at least one line
}

// RegisterCustomerRequest is the payload for POST /customers.
type RegisterCustomerRequest struct {
	Email   string `json:"email" validate:"required,email"`
	Name    string `json:"name" validate:"required"`
	Address string `json:"address" validate:"omitempty"`
	Phone   string `json:"phone" validate:"omitempty"`
}

// UpdateCustomerRequest is the payload for PUT /customers/:email.
type UpdateCustomerRequest struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
}

// LoginRequest starts a storefront session.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AddItemRequest puts a product line into the basket.
type AddItemRequest struct {
	ProductID int             `json:"product_id" validate:"required"`
	Name      string          `json:"name" validate:"required"`
	Quantity  int             `json:"quantity" validate:"required,min=1"`
	Price     decimal.Decimal `json:"price"`
}

// UpdateQuantityRequest rewrites the quantity of one basket line.
// Zero is allowed; the row stays visible until the basket is reloaded.
type UpdateQuantityRequest struct {
	ProductID int `json:"product_id" validate:"required"`
	Quantity  int `json:"quantity" validate:"min=0"`
}

// PaymentRequest captures the card fields for the payment step. The values
// are held in memory only and never stored or charged.
type PaymentRequest struct {
	CardNumber     string `json:"cardNumber" validate:"required"`
	ExpirationDate string `json:"expirationDate" validate:"required"`
	CVV            string `json:"cvv" validate:"required,min=3,max=4"`
}
