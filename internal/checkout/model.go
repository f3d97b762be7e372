package checkout

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultCountry is the platform fallback used when a checkout has no
// resolved billing country.
const DefaultCountry = "US"

// Checkout is the storefront's snapshot of a checkout at payment time. The
// storefront owns checkout persistence; this service only reads it.
type Checkout struct {
	ID             uuid.UUID
	Currency       string
	Country        string
	Email          string
	Total          decimal.Decimal
	Lines          []Line
	ShippingMethod *ShippingMethod
}

type Line struct {
	ProductName string
	VariantName string
	SKU         string
	Quantity    int
	UnitPrice   decimal.Decimal
}

type ShippingMethod struct {
	ID    string
	Name  string
	Price decimal.Decimal
}

func (c *Checkout) CountryOrDefault() string {
	if c.Country == "" {
		return DefaultCountry
	}
	return c.Country
}
