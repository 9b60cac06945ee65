package catalog

import "fmt"

// PriceTier selects one of the four precomputed unit prices of a product.
type PriceTier string

const (
	TierRetail           PriceTier = "retail"
	TierWholesale        PriceTier = "wholesale"
	TierBulkWholesale    PriceTier = "bulk_wholesale"
	TierPremiumWholesale PriceTier = "premium_wholesale"
)

type Product struct {
	ID                    int64   `json:"id"`
	Name                  string  `json:"name"`
	RetailPrice           float64 `json:"retail_price"`
	WholesalePrice        float64 `json:"wholesale_price"`
	BulkWholesalePrice    float64 `json:"bulk_wholesale_price"`
	PremiumWholesalePrice float64 `json:"premium_wholesale_price"`
	ProductionCost        float64 `json:"production_cost"`
	ProductionHours       float64 `json:"production_hours"`
}

// TierPrice returns the unit price for the given tier.
func (p *Product) TierPrice(tier PriceTier) (float64, error) {
	switch tier {
	case TierRetail:
		return p.RetailPrice, nil
	case TierWholesale:
		return p.WholesalePrice, nil
	case TierBulkWholesale:
		return p.BulkWholesalePrice, nil
	case TierPremiumWholesale:
		return p.PremiumWholesalePrice, nil
	default:
		return 0, fmt.Errorf("unknown price tier %q", tier)
	}
}
