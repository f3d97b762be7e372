package adyen

import (
	"encoding/json"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"shopcore-payments/internal/checkout"
)

// PaymentData is the gateway-facing view of a payment handed over by the
// storefront. Data carries the raw drop-in fields collected client side
// (paymentMethod, browserInfo, billingAddress, ...) and is never mutated
// here. Checkout is attached when the payment belongs to a checkout; the
// buy-now-pay-later flow requires it.
type PaymentData struct {
	Amount        decimal.Decimal
	Currency      string
	Reference     string
	CustomerEmail string
	Data          map[string]interface{}
	Checkout      *checkout.Checkout
}

// MethodType returns the raw payment-method type submitted by the drop-in.
func (p *PaymentData) MethodType() string {
	pm, ok := p.Data["paymentMethod"].(map[string]interface{})
	if !ok {
		return ""
	}
	return cast.ToString(pm["type"])
}

// Amount is the gateway's minor-unit amount encoding.
type Amount struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

// PaymentRequest is the payload posted to the Checkout API's /payments
// endpoint. Passthrough fields stay opaque; absent ones are omitted from the
// wire format.
type PaymentRequest struct {
	Amount           Amount            `json:"amount"`
	Reference        string            `json:"reference"`
	PaymentMethod    interface{}       `json:"paymentMethod"`
	ReturnURL        string            `json:"returnUrl"`
	MerchantAccount  string            `json:"merchantAccount"`
	Origin           string            `json:"origin,omitempty"`
	ShopperIP        interface{}       `json:"shopperIP,omitempty"`
	BillingAddress   interface{}       `json:"billingAddress,omitempty"`
	BrowserInfo      interface{}       `json:"browserInfo,omitempty"`
	Channel          string            `json:"channel"`
	AdditionalData   map[string]string `json:"additionalData,omitempty"`
	ShopperEmail     string            `json:"shopperEmail,omitempty"`
	ShopperLocale    string            `json:"shopperLocale,omitempty"`
	ShopperReference string            `json:"shopperReference,omitempty"`
	CountryCode      string            `json:"countryCode,omitempty"`
	LineItems        []LineItem        `json:"lineItems,omitempty"`
}

// LineItem is one entry of the buy-now-pay-later breakdown. Monetary fields
// are minor-unit strings; TaxPercentage uses the gateway's percentage-times-
// one-hundred scale (23% -> 2300).
type LineItem struct {
	Description        string `json:"description"`
	Quantity           int    `json:"quantity"`
	ID                 string `json:"id"`
	TaxAmount          string `json:"taxAmount"`
	TaxPercentage      int64  `json:"taxPercentage"`
	AmountExcludingTax string `json:"amountExcludingTax"`
	AmountIncludingTax string `json:"amountIncludingTax"`
}

// GatewayConfigRequest fetches gateway-side configuration and method
// availability for a checkout, independent of a specific payment.
type GatewayConfigRequest struct {
	MerchantAccount string `json:"merchantAccount"`
	CountryCode     string `json:"countryCode"`
	Channel         string `json:"channel"`
	Amount          Amount `json:"amount"`
}

// PaymentMethodInfo is the normalized description of the instrument used.
type PaymentMethodInfo struct {
	Brand string `json:"brand,omitempty"`
	Type  string `json:"type"`
}

// Action is the opaque follow-up object the gateway returns when a payment
// needs another shopper step (redirect, 3DS challenge, ...). Only paymentData
// is read here; the rest is passed through to the storefront untouched.
type Action map[string]interface{}

func (a Action) PaymentData() string {
	return cast.ToString(a["paymentData"])
}

// ActionDetail declares one parameter the shopper must come back with to
// complete an action.
type ActionDetail struct {
	Key  string `json:"key"`
	Type string `json:"type"`
}

// GatewayResult wraps a parsed Checkout API response. Message holds the whole
// decoded body; the other fields are conveniences extracted from it.
type GatewayResult struct {
	ResultCode   string
	PSPReference string
	Action       Action
	Details      []ActionDetail
	Message      map[string]interface{}
	Raw          json.RawMessage
}
