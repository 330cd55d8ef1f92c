package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses
const (
	StatusPending   = "Pending"
	StatusConfirmed = "Confirmed"
	StatusShipped   = "Shipped"
	StatusDelivered = "Delivered"
	StatusCancelled = "Cancelled"
)

// Entry is one order line.
type Entry struct {
	ProductID int `dynamodbav:"product_id" json:"productId"`
	Quantity  int `dynamodbav:"quantity" json:"quantity"`
}

// Order represents the item stored in the orders table. TotalAmount is kept
// as a decimal string so no float rounding ever touches money.
type Order struct {
	OrderID       string    `dynamodbav:"order_id"` // PK
	CustomerEmail string    `dynamodbav:"customer_email"`
	OrderDate     time.Time `dynamodbav:"order_date"`
	DeliveryDate  time.Time `dynamodbav:"delivery_date"`
	Status        string    `dynamodbav:"status"`
	TotalAmount   string    `dynamodbav:"total_amount"`
	Entries       []Entry   `dynamodbav:"entries,omitempty"`
	CreatedAt     time.Time `dynamodbav:"created_at"`
	UpdatedAt     time.Time `dynamodbav:"updated_at"`
}

// Total parses the stored amount back into a decimal.
func (o Order) Total() (decimal.Decimal, error) {
	return decimal.NewFromString(o.TotalAmount)
}
