package adyen

import (
	"shopcore-payments/internal/checkout"
	"shopcore-payments/internal/currency"
)

// BuildGatewayConfigRequest assembles the /paymentMethods payload used to
// fetch gateway-side configuration and availability for a checkout. A
// checkout without a total reports a zero amount.
func BuildGatewayConfigRequest(chk *checkout.Checkout, merchantAccount string) GatewayConfigRequest {
	return GatewayConfigRequest{
		MerchantAccount: merchantAccount,
		CountryCode:     chk.CountryOrDefault(),
		Channel:         ChannelWeb,
		Amount: Amount{
			Currency: chk.Currency,
			Value:    currency.ToMinorUnits(chk.Total, chk.Currency),
		},
	}
}
