package adyen

import "github.com/spf13/cast"

// ExtractPaymentMethodInfo derives the normalized (brand, type) description
// of the instrument from the original request and the gateway's response
// metadata. The gateway's raw "scheme" type is reported as "card"; every
// other type passes through unchanged.
func ExtractPaymentMethodInfo(p *PaymentData, result *GatewayResult) PaymentMethodInfo {
	info := PaymentMethodInfo{Type: p.MethodType()}
	if info.Type == methodScheme {
		info.Type = methodCard
	}
	if additional, ok := result.Message["additionalData"].(map[string]interface{}); ok {
		info.Brand = cast.ToString(additional["paymentMethod"])
	}
	return info
}
