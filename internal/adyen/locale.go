package adyen

// shopperLocales maps a billing country to the shopper locale token the
// gateway's hosted pages accept. Countries without a dedicated locale fall
// back to en_US, including the platform's default country.
var shopperLocales = map[string]string{
	"BR": "pt_BR",
	"CN": "zh_CN",
	"CZ": "cs_CZ",
	"DE": "de_DE",
	"DK": "da_DK",
	"ES": "es_ES",
	"FI": "fi_FI",
	"FR": "fr_FR",
	"GR": "el_GR",
	"HU": "hu_HU",
	"IT": "it_IT",
	"JP": "ja_JP",
	"KR": "ko_KR",
	"NL": "nl_NL",
	"NO": "no_NO",
	"PL": "pl_PL",
	"RU": "ru_RU",
	"SE": "sv_SE",
	"SK": "sk_SK",
	"TW": "zh_TW",
}

const defaultShopperLocale = "en_US"

// ShopperLocale resolves a country code to a gateway-accepted shopper locale.
func ShopperLocale(countryCode string) string {
	if locale, ok := shopperLocales[countryCode]; ok {
		return locale
	}
	return defaultShopperLocale
}
