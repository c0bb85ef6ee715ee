package checkout

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/foodheaven/storefront-backend/pkg/config"
	"github.com/foodheaven/storefront-backend/pkg/enums"
)

func pricingConfig() config.CheckoutConfig {
	return config.CheckoutConfig{
		DeliveryFee: decimal.NewFromInt(40),
		TaxRate:     decimal.RequireFromString("0.05"),
	}
}

func TestComputeQuoteDeliveryTaxesTheFee(t *testing.T) {
	quote := ComputeQuote(pricingConfig(), decimal.NewFromInt(200), enums.ServiceTypeDelivery)

	if quote.DeliveryCharge.String() != "40" {
		t.Fatalf("unexpected delivery charge %s", quote.DeliveryCharge)
	}
	if quote.Tax.String() != "12" {
		t.Fatalf("unexpected tax %s", quote.Tax)
	}
	if quote.Total.String() != "252" {
		t.Fatalf("unexpected total %s", quote.Total)
	}
}

func TestComputeQuoteDineInSkipsDeliveryCharge(t *testing.T) {
	quote := ComputeQuote(pricingConfig(), decimal.NewFromInt(200), enums.ServiceTypeDineIn)

	if !quote.DeliveryCharge.IsZero() {
		t.Fatalf("expected zero delivery charge, got %s", quote.DeliveryCharge)
	}
	if quote.Tax.String() != "10" {
		t.Fatalf("unexpected tax %s", quote.Tax)
	}
	if quote.Total.String() != "210" {
		t.Fatalf("unexpected total %s", quote.Total)
	}
}

func TestComputeQuoteRoundsToCents(t *testing.T) {
	quote := ComputeQuote(pricingConfig(), decimal.RequireFromString("99.99"), enums.ServiceTypeDineIn)

	if quote.Tax.String() != "5" {
		t.Fatalf("unexpected tax %s", quote.Tax)
	}
	if quote.Total.String() != "104.99" {
		t.Fatalf("unexpected total %s", quote.Total)
	}
}

func TestComputeQuoteEmptyCart(t *testing.T) {
	quote := ComputeQuote(pricingConfig(), decimal.Zero, enums.ServiceTypeDelivery)

	if quote.Subtotal.String() != "0" {
		t.Fatalf("unexpected subtotal %s", quote.Subtotal)
	}
	if quote.Tax.String() != "2" {
		t.Fatalf("unexpected tax %s", quote.Tax)
	}
	if quote.Total.String() != "42" {
		t.Fatalf("unexpected total %s", quote.Total)
	}
}
