package validation

import (
	"fmt"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// New returns a configured validator with custom struct-level validation registered.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	// register struct-level validation for PlaceOrderRequest: the amount must
	// be positive and the delivery date cannot precede the order date.
	v.RegisterStructValidation(placeOrderStructValidation, PlaceOrderRequest{})

	return v
}

func placeOrderStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(PlaceOrderRequest)

	if !req.TotalAmount.GreaterThan(decimal.Zero) {
		sl.ReportError(req.TotalAmount, "totalAmount", "TotalAmount", "amount_positive",
			fmt.Sprintf("total %s must be > 0", req.TotalAmount))
	}

	if req.DeliveryDate.Before(req.OrderDate) {
		sl.ReportError(req.DeliveryDate, "deliveryDate", "DeliveryDate", "delivery_after_order",
			fmt.Sprintf("delivery %s precedes order date %s", req.DeliveryDate.Format("2006-01-02"), req.OrderDate.Format("2006-01-02")))
	}
}
