package checkout

import "github.com/shopspring/decimal"

// TaxedMoney is the net/gross pair returned by the tax engine for a line or
// shipping total.
type TaxedMoney struct {
	Net   decimal.Decimal
	Gross decimal.Decimal
}

// Calculator is the external tax engine. Its totals are authoritative;
// nothing in this service recomputes taxes.
type Calculator interface {
	LineTotal(chk *Checkout, line Line) TaxedMoney
	ShippingTotal(chk *Checkout) TaxedMoney
}

// FlatCalculator charges no tax: gross equals net for every total. It is the
// default when the platform has no tax engine configured.
type FlatCalculator struct{}

func (FlatCalculator) LineTotal(_ *Checkout, line Line) TaxedMoney {
	total := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
	return TaxedMoney{Net: total, Gross: total}
}

func (FlatCalculator) ShippingTotal(chk *Checkout) TaxedMoney {
	if chk.ShippingMethod == nil {
		return TaxedMoney{}
	}
	return TaxedMoney{Net: chk.ShippingMethod.Price, Gross: chk.ShippingMethod.Price}
}
