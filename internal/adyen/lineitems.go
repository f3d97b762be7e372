package adyen

import (
	"fmt"

	"github.com/shopspring/decimal"

	"shopcore-payments/internal/checkout"
	"shopcore-payments/internal/currency"
)

var taxPercentageScale = decimal.NewFromInt(10000)

// buildLineItems produces the per-line breakdown buy-now-pay-later methods
// require: purchased lines in checkout order, then one shipping line when a
// shipping method is set.
func buildLineItems(chk *checkout.Checkout, taxes checkout.Calculator) []LineItem {
	items := make([]LineItem, 0, len(chk.Lines)+1)

	for _, line := range chk.Lines {
		items = append(items, taxSplit(taxes.LineTotal(chk, line), chk.Currency, LineItem{
			Description: fmt.Sprintf("%s, %s", line.ProductName, line.VariantName),
			Quantity:    line.Quantity,
			ID:          line.SKU,
		}))
	}

	if chk.ShippingMethod != nil {
		items = append(items, taxSplit(taxes.ShippingTotal(chk), chk.Currency, LineItem{
			Description: fmt.Sprintf("Shipping - %s", chk.ShippingMethod.Name),
			Quantity:    1,
			ID:          fmt.Sprintf("Shipping:%s", chk.ShippingMethod.ID),
		}))
	}

	return items
}

// taxSplit fills the monetary fields of one entry. A zero net total yields a
// zero percentage, not a division error.
func taxSplit(total checkout.TaxedMoney, cur string, item LineItem) LineItem {
	tax := total.Gross.Sub(total.Net)

	var percentage int64
	if !total.Net.IsZero() {
		percentage = tax.Div(total.Net).Mul(taxPercentageScale).Round(0).IntPart()
	}

	item.TaxAmount = currency.ToMinorUnits(tax, cur)
	item.TaxPercentage = percentage
	item.AmountExcludingTax = currency.ToMinorUnits(total.Net, cur)
	item.AmountIncludingTax = currency.ToMinorUnits(total.Gross, cur)
	return item
}
