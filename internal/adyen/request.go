package adyen

import (
	"github.com/spf13/cast"

	"shopcore-payments/internal/checkout"
	"shopcore-payments/internal/currency"
)

const (
	// ChannelWeb is the default drop-in channel when the storefront does not
	// override it.
	ChannelWeb = "web"

	methodKlarna = "klarna"
	methodScheme = "scheme"
	methodCard   = "card"
)

// RequestBuilder assembles Checkout API payment requests from storefront
// payment data.
type RequestBuilder struct {
	taxes checkout.Calculator
}

func NewRequestBuilder(taxes checkout.Calculator) *RequestBuilder {
	return &RequestBuilder{taxes: taxes}
}

// requestStrategy finalizes the payload from the base request assembled for
// every method type. Keeping the variants separate stops fields of one
// payload shape from bleeding into the other.
type requestStrategy interface {
	build(p *PaymentData, base PaymentRequest) (*PaymentRequest, error)
}

type standardStrategy struct{}

func (standardStrategy) build(_ *PaymentData, base PaymentRequest) (*PaymentRequest, error) {
	return &base, nil
}

// buyNowPayLaterStrategy produces the complete alternate payload those
// methods require: the base fields plus shopper locale, shopper reference,
// country and the per-line tax breakdown.
type buyNowPayLaterStrategy struct {
	taxes checkout.Calculator
}

func (s buyNowPayLaterStrategy) build(p *PaymentData, base PaymentRequest) (*PaymentRequest, error) {
	chk := p.Checkout
	if chk == nil {
		return nil, ErrCheckoutNotFound
	}

	country := chk.CountryOrDefault()
	base.ShopperLocale = ShopperLocale(country)
	base.ShopperReference = p.CustomerEmail
	base.CountryCode = country
	base.LineItems = buildLineItems(chk, s.taxes)
	return &base, nil
}

func (b *RequestBuilder) strategyFor(methodType string) requestStrategy {
	if methodType == methodKlarna {
		return buyNowPayLaterStrategy{taxes: b.taxes}
	}
	return standardStrategy{}
}

// BuildPaymentRequest assembles the /payments payload. The storefront marks
// payment data it has accepted with is_valid; anything else is refused
// outright.
func (b *RequestBuilder) BuildPaymentRequest(p *PaymentData, returnURL, merchantAccount string, nativeThreeDSecure bool) (*PaymentRequest, error) {
	if valid, _ := p.Data["is_valid"].(bool); !valid {
		return nil, ErrInvalidPaymentData
	}

	req := PaymentRequest{
		Amount: Amount{
			Value:    currency.ToMinorUnits(p.Amount, p.Currency),
			Currency: p.Currency,
		},
		Reference:       p.Reference,
		PaymentMethod:   p.Data["paymentMethod"],
		ReturnURL:       returnURL,
		MerchantAccount: merchantAccount,
		ShopperEmail:    p.CustomerEmail,
		Channel:         ChannelWeb,
	}

	if ip, ok := p.Data["shopperIP"]; ok {
		req.ShopperIP = ip
	}
	if addr, ok := p.Data["billingAddress"]; ok {
		req.BillingAddress = addr
	}
	if info, ok := p.Data["browserInfo"]; ok {
		req.BrowserInfo = info
	}

	// origin is only meaningful for the web channel; native channels carry
	// their channel token through verbatim and no origin at all.
	if ch, ok := p.Data["channel"]; ok {
		req.Channel = cast.ToString(ch)
	} else if origin := cast.ToString(p.Data["originUrl"]); origin != "" {
		req.Origin = origin
	} else {
		req.Origin = returnURL
	}

	if nativeThreeDSecure {
		req.AdditionalData = map[string]string{"allow3DS2": "true"}
	}

	return b.strategyFor(p.MethodType()).build(p, req)
}
