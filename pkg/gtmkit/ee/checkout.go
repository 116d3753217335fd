package ee

import "github.com/analyzify/gtmkit/pkg/gtmkit/shopify"

// CheckoutSummary is the economics block attached to every funnel event.
type CheckoutSummary struct {
	Items    []Item  `json:"items"`
	Coupon   *string `json:"coupon"`
	Discount float64 `json:"discount"`
	Value    float64 `json:"value"`
	Currency string  `json:"currency"`
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Tax      float64 `json:"tax"`
}

// PurchaseSummary extends CheckoutSummary with the order identity emitted
// on the purchase event.
type PurchaseSummary struct {
	CheckoutSummary
	TransactionID *string `json:"transaction_id"`
	PaymentType   *string `json:"payment_type"`
}

// CheckoutSummary builds the economics block for a checkout.
//
// The discount application, totals and shipping line are required objects:
// their absence aborts the event (MissingFieldError). Their inner values
// default to null/0 the way the tag templates expect.
func (m Mapper) CheckoutSummary(c *shopify.Checkout) (CheckoutSummary, error) {
	if c == nil {
		return CheckoutSummary{}, shopify.MissingField("checkout")
	}

	items, err := m.LineItems(c.LineItems)
	if err != nil {
		return CheckoutSummary{}, err
	}

	if c.DiscountApplications == nil {
		return CheckoutSummary{}, shopify.MissingField("checkout.discountApplications")
	}
	if c.TotalPrice == nil {
		return CheckoutSummary{}, shopify.MissingField("checkout.totalPrice")
	}
	if c.SubtotalPrice == nil {
		return CheckoutSummary{}, shopify.MissingField("checkout.subtotalPrice")
	}
	if c.ShippingLine == nil {
		return CheckoutSummary{}, shopify.MissingField("checkout.shippingLine")
	}
	if c.ShippingLine.Price == nil {
		return CheckoutSummary{}, shopify.MissingField("checkout.shippingLine.price")
	}
	if c.TotalTax == nil {
		return CheckoutSummary{}, shopify.MissingField("checkout.totalTax")
	}

	return CheckoutSummary{
		Items:    items,
		Coupon:   firstNonEmpty(c.DiscountApplications.Title),
		Discount: c.DiscountApplications.Value,
		Value:    c.TotalPrice.Amount,
		Currency: c.CurrencyCode,
		Subtotal: c.SubtotalPrice.Amount,
		Shipping: c.ShippingLine.Price.Amount,
		Tax:      c.TotalTax.Amount,
	}, nil
}

// PurchaseSummary builds the purchase economics block.
//
// The order object is required; an empty order id maps to a null
// transaction_id. payment_type is the gateway of the first transaction, or
// null when the checkout carries no transactions.
func (m Mapper) PurchaseSummary(c *shopify.Checkout) (PurchaseSummary, error) {
	summary, err := m.CheckoutSummary(c)
	if err != nil {
		return PurchaseSummary{}, err
	}

	if c.Order == nil {
		return PurchaseSummary{}, shopify.MissingField("checkout.order")
	}

	var paymentType *string
	if len(c.Transactions) > 0 && c.Transactions[0] != nil {
		gateway := c.Transactions[0].Gateway
		paymentType = &gateway
	}

	return PurchaseSummary{
		CheckoutSummary: summary,
		TransactionID:   firstNonEmpty(c.Order.ID),
		PaymentType:     paymentType,
	}, nil
}
