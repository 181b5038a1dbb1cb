package schema

import "strings"

// Shipping is the delivery form filled in at checkout.
type Shipping struct {
	FirstName  string `json:"firstName" validate:"trimmin=2"`
	LastName   string `json:"lastName" validate:"trimmin=2"`
	Address1   string `json:"address1" validate:"trimmin=5"`
	Address2   string `json:"address2,omitempty"`
	PostalCode string `json:"postalCode" validate:"postalcode"`
	City       string `json:"city" validate:"trimmin=2"`
	Phone      string `json:"phone" validate:"phone"`
}

var shippingMessages = messages{
	"firstName.trimmin":     "first name must be at least 2 characters",
	"lastName.trimmin":      "last name must be at least 2 characters",
	"address1.trimmin":      "address must be at least 5 characters",
	"postalCode.postalcode": "postal code must be 5 digits",
	"city.trimmin":          "city must be at least 2 characters",
	"phone.phone":           "phone number is not valid",
}

// Validate reports every violated field, in form order.
func (s Shipping) Validate() error {
	return check(s, shippingMessages)
}

// Address renders the multi-line delivery address sent with an order.
// Blank lines (an empty address2) are left out.
func (s Shipping) Address() string {
	lines := []string{
		strings.TrimSpace(s.FirstName) + " " + strings.TrimSpace(s.LastName),
		strings.TrimSpace(s.Address1),
		strings.TrimSpace(s.Address2),
		s.PostalCode + " " + strings.TrimSpace(s.City),
		"Tel: " + strings.TrimSpace(s.Phone),
	}

	out := lines[:0]
	for _, l := range lines {
		if l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}
