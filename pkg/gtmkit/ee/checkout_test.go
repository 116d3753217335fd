package ee_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/analyzify/gtmkit/pkg/gtmkit/ee"
	"github.com/analyzify/gtmkit/pkg/gtmkit/shopify"
)

func checkout() *shopify.Checkout {
	return &shopify.Checkout{
		Email: "jo@example.com",
		LineItems: []*shopify.CheckoutLineItem{
			{Variant: variant(), Quantity: 2},
		},
		DiscountApplications: &shopify.DiscountApplication{Title: "SAVE10", Value: 5},
		TotalPrice:           &shopify.Money{Amount: 59.98, CurrencyCode: "USD"},
		SubtotalPrice:        &shopify.Money{Amount: 54.48},
		TotalTax:             &shopify.Money{Amount: 4.5},
		ShippingLine:         &shopify.ShippingLine{Price: &shopify.Money{Amount: 1.0}},
		CurrencyCode:         "USD",
	}
}

// TestCheckoutSummary verifies the economics block.
func TestCheckoutSummary(t *testing.T) {
	m := ee.NewMapper("US", "")

	summary, err := m.CheckoutSummary(checkout())
	require.NoError(t, err)

	require.Len(t, summary.Items, 1)
	assert.Equal(t, 2, summary.Items[0].Quantity)
	require.NotNil(t, summary.Coupon)
	assert.Equal(t, "SAVE10", *summary.Coupon)
	assert.Equal(t, 5.0, summary.Discount)
	assert.Equal(t, 59.98, summary.Value)
	assert.Equal(t, "USD", summary.Currency)
	assert.Equal(t, 54.48, summary.Subtotal)
	assert.Equal(t, 1.0, summary.Shipping)
	assert.Equal(t, 4.5, summary.Tax)
}

// TestCheckoutSummaryDefaults verifies the null/zero defaults for empty
// inner values.
func TestCheckoutSummaryDefaults(t *testing.T) {
	m := ee.NewMapper("US", "")

	c := checkout()
	c.DiscountApplications = &shopify.DiscountApplication{}
	c.ShippingLine = &shopify.ShippingLine{Price: &shopify.Money{}}
	c.TotalTax = &shopify.Money{}

	summary, err := m.CheckoutSummary(c)
	require.NoError(t, err)
	assert.Nil(t, summary.Coupon)
	assert.Equal(t, 0.0, summary.Discount)
	assert.Equal(t, 0.0, summary.Shipping)
	assert.Equal(t, 0.0, summary.Tax)
}

// TestCheckoutSummaryFaults verifies missing required objects abort with a
// typed fault.
func TestCheckoutSummaryFaults(t *testing.T) {
	m := ee.NewMapper("US", "")

	tests := []struct {
		name    string
		mutate  func(*shopify.Checkout) *shopify.Checkout
		wantErr string
	}{
		{
			"nil checkout",
			func(*shopify.Checkout) *shopify.Checkout { return nil },
			"checkout",
		},
		{
			"missing discount applications",
			func(c *shopify.Checkout) *shopify.Checkout {
				c.DiscountApplications = nil
				return c
			},
			"checkout.discountApplications",
		},
		{
			"missing total price",
			func(c *shopify.Checkout) *shopify.Checkout {
				c.TotalPrice = nil
				return c
			},
			"checkout.totalPrice",
		},
		{
			"missing subtotal",
			func(c *shopify.Checkout) *shopify.Checkout {
				c.SubtotalPrice = nil
				return c
			},
			"checkout.subtotalPrice",
		},
		{
			"missing shipping line",
			func(c *shopify.Checkout) *shopify.Checkout {
				c.ShippingLine = nil
				return c
			},
			"checkout.shippingLine",
		},
		{
			"missing shipping price",
			func(c *shopify.Checkout) *shopify.Checkout {
				c.ShippingLine = &shopify.ShippingLine{}
				return c
			},
			"checkout.shippingLine.price",
		},
		{
			"missing tax",
			func(c *shopify.Checkout) *shopify.Checkout {
				c.TotalTax = nil
				return c
			},
			"checkout.totalTax",
		},
		{
			"missing line variant",
			func(c *shopify.Checkout) *shopify.Checkout {
				c.LineItems[0].Variant = nil
				return c
			},
			"productVariant",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.CheckoutSummary(tt.mutate(checkout()))
			var missing *shopify.MissingFieldError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, tt.wantErr, missing.Path)
		})
	}
}

// TestPurchaseSummary verifies transaction identity mapping.
func TestPurchaseSummary(t *testing.T) {
	m := ee.NewMapper("US", "")

	c := checkout()
	c.Order = &shopify.Order{ID: "order-1"}
	c.Transactions = []*shopify.Transaction{{Gateway: "shopify_payments"}}

	summary, err := m.PurchaseSummary(c)
	require.NoError(t, err)
	require.NotNil(t, summary.TransactionID)
	assert.Equal(t, "order-1", *summary.TransactionID)
	require.NotNil(t, summary.PaymentType)
	assert.Equal(t, "shopify_payments", *summary.PaymentType)
}

// TestPurchaseSummaryNoTransactions verifies payment_type is null with an
// empty transaction list and transaction_id is null with an empty order id.
func TestPurchaseSummaryNoTransactions(t *testing.T) {
	m := ee.NewMapper("US", "")

	c := checkout()
	c.Order = &shopify.Order{}
	c.Transactions = []*shopify.Transaction{}

	summary, err := m.PurchaseSummary(c)
	require.NoError(t, err)
	assert.Nil(t, summary.TransactionID)
	assert.Nil(t, summary.PaymentType)
}

// TestPurchaseSummaryMissingOrder verifies an absent order object faults.
func TestPurchaseSummaryMissingOrder(t *testing.T) {
	m := ee.NewMapper("US", "")

	_, err := m.PurchaseSummary(checkout())
	var missing *shopify.MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "checkout.order", missing.Path)
}
