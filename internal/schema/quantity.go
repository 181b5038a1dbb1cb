package schema

import (
	"encoding/json"
	"math"
)

const MaxQuantity = 99

type Quantity struct {
	Quantity int `json:"quantity" validate:"min=0,max=99"`
}

var quantityMessages = messages{
	"quantity.min": "quantity cannot be negative",
	"quantity.max": "maximum quantity is 99 items",
}

func ValidateQuantity(q int) error {
	return check(Quantity{Quantity: q}, quantityMessages)
}

// ParseQuantity accepts {"quantity": n} and rejects fractional numbers.
func ParseQuantity(raw []byte) (int, error) {
	var body struct {
		Quantity *json.Number `json:"quantity"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return 0, decodeFailure("quantity", err)
	}
	if body.Quantity == nil {
		return 0, newValidationError(FieldError{Field: "quantity", Message: "quantity is required"})
	}

	f, err := body.Quantity.Float64()
	if err != nil || f != math.Trunc(f) {
		return 0, newValidationError(FieldError{Field: "quantity", Message: "quantity must be a whole number"})
	}
	if f < 0 {
		return 0, ValidateQuantity(-1)
	}
	if f > MaxQuantity {
		return 0, ValidateQuantity(MaxQuantity + 1)
	}

	return int(f), nil
}
