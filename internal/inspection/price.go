package inspection

import "github.com/shopspring/decimal"

// PriceAdvisory flags invoice prices that deviate from what the pharmacy
// expects to pay. Both flags are independent.
type PriceAdvisory struct {
	AboveSystem      bool            `json:"above_system"`
	DiffersFromOffer bool            `json:"differs_from_offer"`
	SystemDelta      decimal.Decimal `json:"system_delta"`
	OfferDelta       decimal.Decimal `json:"offer_delta"`
}

// Any reports whether at least one flag is raised.
func (p PriceAdvisory) Any() bool {
	return p.AboveSystem || p.DiffersFromOffer
}

// DetectPriceVariance compares the invoiced unit price against the system
// price and the supplier's offered price.
func DetectPriceVariance(invoice, system, offer decimal.Decimal) PriceAdvisory {
	return PriceAdvisory{
		AboveSystem:      invoice.GreaterThan(system),
		DiffersFromOffer: !invoice.Equal(offer),
		SystemDelta:      invoice.Sub(system),
		OfferDelta:       invoice.Sub(offer),
	}
}
