package checkout

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/NaylinHla/Dunder-Mifflin-Infinity/internal/profile"
)

// Step is the checkout wizard position. Receipt is terminal.
type Step int

const (
	StepLogin Step = iota + 1
	StepShipping
	StepPayment
	StepConfirmation
	StepReceipt
)

func (s Step) String() string {
	switch s {
	case StepLogin:
		return "login"
	case StepShipping:
		return "shipping"
	case StepPayment:
		return "payment"
	case StepConfirmation:
		return "confirmation"
	case StepReceipt:
		return "receipt"
	}
	return "unknown"
}

// PaymentDetails are collected at the payment step. They are never persisted
// and no charge is made against them.
type PaymentDetails struct {
	CardNumber     string `json:"cardNumber"`
	ExpirationDate string `json:"expirationDate"`
	CVV            string `json:"cvv"`
}

// Entry is one order line sent to the order collaborator.
type Entry struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

// OrderRequest is what the order submission collaborator accepts.
type OrderRequest struct {
	Customer     profile.Customer `json:"customer"`
	OrderDate    time.Time        `json:"orderDate"`
	DeliveryDate time.Time        `json:"deliveryDate"`
	Status       string           `json:"status"`
	TotalAmount  decimal.Decimal  `json:"totalAmount"`
	Entries      []Entry          `json:"entries"`
}

// Confirmation is the server's answer to a successful submission; it feeds
// the terminal receipt step.
type Confirmation struct {
	OrderID      string          `json:"orderId"`
	DeliveryDate time.Time       `json:"deliveryDate"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
}

// OrderPlacer is the external order submission collaborator.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, req OrderRequest) (Confirmation, error)
}

// Submission failures surfaced at the flow boundary. ErrConflict marks a
// duplicate-email style rejection the user can retry with corrected input.
var (
	ErrConflict   = errors.New("order rejected: conflict")
	ErrValidation = errors.New("validation failed")
)
