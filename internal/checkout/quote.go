package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/foodheaven/storefront-backend/pkg/config"
	"github.com/foodheaven/storefront-backend/pkg/enums"
)

// Quote is the priced breakdown of a cart for a given service type.
// Tax applies to the subtotal plus the delivery charge, so delivery
// orders are taxed on the fee as well.
type Quote struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DeliveryCharge decimal.Decimal `json:"delivery_charge"`
	Tax            decimal.Decimal `json:"tax"`
	Total          decimal.Decimal `json:"total"`
}

// ComputeQuote prices a subtotal under the configured fee and tax rate.
// Dine-in orders carry no delivery charge.
func ComputeQuote(cfg config.CheckoutConfig, subtotal decimal.Decimal, serviceType enums.ServiceType) Quote {
	deliveryCharge := decimal.Zero
	if serviceType == enums.ServiceTypeDelivery {
		deliveryCharge = cfg.DeliveryFee
	}

	taxableBase := subtotal.Add(deliveryCharge)
	tax := taxableBase.Mul(cfg.TaxRate).Round(2)

	return Quote{
		Subtotal:       subtotal.Round(2),
		DeliveryCharge: deliveryCharge.Round(2),
		Tax:            tax,
		Total:          taxableBase.Add(tax).Round(2),
	}
}
