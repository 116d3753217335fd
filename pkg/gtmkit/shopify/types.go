// Package shopify models the customer-event payloads delivered by the
// storefront analytics runtime.
//
// Optional nested objects are pointers; scalar fields the runtime may omit
// decode to their zero value, which downstream mapping treats as absent
// (the runtime itself surfaces missing strings as empty). Mapping code in
// package ee reports a missing required object as a MissingFieldError.
package shopify

// Money is an amount in a specific currency.
type Money struct {
	Amount       float64 `json:"amount"`
	CurrencyCode string  `json:"currencyCode"`
}

// Product is the parent product of a variant.
type Product struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Type   string `json:"type"`
	Vendor string `json:"vendor"`
}

// ProductVariant is a purchasable variant of a product.
type ProductVariant struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	SKU      string   `json:"sku"`
	Price    *Money   `json:"price"`
	Product  *Product `json:"product"`
	Quantity int      `json:"quantity"`
}

// SearchResult is the outcome of a storefront search.
type SearchResult struct {
	Query           string            `json:"query"`
	ProductVariants []*ProductVariant `json:"productVariants"`
}

// Collection is a product collection page.
type Collection struct {
	ID              string            `json:"id"`
	Title           string            `json:"title"`
	ProductVariants []*ProductVariant `json:"productVariants"`
}

// Cost carries the computed totals of a cart or cart line.
type Cost struct {
	TotalAmount *Money `json:"totalAmount"`
}

// CartLine is one merchandise line in the cart.
type CartLine struct {
	Merchandise *ProductVariant `json:"merchandise"`
	Quantity    int             `json:"quantity"`
	Cost        *Cost           `json:"cost"`
}

// Cart is the buyer's cart.
type Cart struct {
	Lines []*CartLine `json:"lines"`
	Cost  *Cost       `json:"cost"`
}

// Address is a shipping or billing address.
type Address struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Address1     string `json:"address1"`
	Address2     string `json:"address2"`
	City         string `json:"city"`
	Country      string `json:"country"`
	CountryCode  string `json:"countryCode"`
	Province     string `json:"province"`
	ProvinceCode string `json:"provinceCode"`
	Zip          string `json:"zip"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
}

// DiscountApplication is the discount applied to a checkout.
type DiscountApplication struct {
	Title string  `json:"title"`
	Value float64 `json:"value"`
}

// ShippingLine is the selected shipping rate.
type ShippingLine struct {
	Price *Money `json:"price"`
}

// CheckoutLineItem is one line in the checkout.
type CheckoutLineItem struct {
	Variant  *ProductVariant `json:"variant"`
	Quantity int             `json:"quantity"`
}

// Order identifies the order created by a completed checkout.
type Order struct {
	ID string `json:"id"`
}

// Transaction is a payment transaction on a completed checkout.
type Transaction struct {
	Gateway string `json:"gateway"`
}

// Checkout is the checkout object carried by every funnel event.
type Checkout struct {
	Email                string               `json:"email"`
	Phone                string               `json:"phone"`
	ShippingAddress      *Address             `json:"shippingAddress"`
	BillingAddress       *Address             `json:"billingAddress"`
	LineItems            []*CheckoutLineItem  `json:"lineItems"`
	DiscountApplications *DiscountApplication `json:"discountApplications"`
	TotalPrice           *Money               `json:"totalPrice"`
	SubtotalPrice        *Money               `json:"subtotalPrice"`
	TotalTax             *Money               `json:"totalTax"`
	ShippingLine         *ShippingLine        `json:"shippingLine"`
	CurrencyCode         string               `json:"currencyCode"`
	Order                *Order               `json:"order"`
	Transactions         []*Transaction       `json:"transactions"`
}

// Location describes the browser location of the current page.
type Location struct {
	Href     string `json:"href"`
	Pathname string `json:"pathname"`
	Search   string `json:"search"`
	Hostname string `json:"hostname"`
}

// Document is the read-only page metadata exposed to the pixel sandbox.
type Document struct {
	Location Location `json:"location"`
	Referrer string   `json:"referrer"`
	Title    string   `json:"title"`
}

// EventContext wraps the page metadata attached to an event.
type EventContext struct {
	Document Document `json:"document"`
}
