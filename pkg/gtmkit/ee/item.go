// Package ee maps raw storefront payloads into the enhanced-ecommerce
// schema expected by ad-platform tag templates: flat item records with a
// composite merchant-feed id, a flattened user record, and per-event
// ecommerce blocks.
package ee

import (
	"fmt"

	"github.com/analyzify/gtmkit/pkg/gtmkit/shopify"
)

// DefaultVertical is the business vertical applied when none is configured.
const DefaultVertical = "retail"

// Item is an ad-platform-ready item record.
type Item struct {
	ItemID           string  `json:"item_id"`
	ItemName         string  `json:"item_name"`
	ItemType         string  `json:"item_type"`
	ItemVendor       string  `json:"item_vendor"`
	ItemSKU          string  `json:"item_sku"`
	ItemVariant      string  `json:"item_variant"`
	ItemVariantID    string  `json:"item_variant_id"`
	Price            float64 `json:"price"`
	Quantity         int     `json:"quantity"`
	Currency         string  `json:"currency"`
	ID               string  `json:"id"`
	BusinessVertical string  `json:"business_vertical"`
	Index            int     `json:"index,omitempty"`
}

// Mapper builds enhanced-ecommerce records for one merchant feed.
type Mapper struct {
	// Region is the two-letter merchant feed region code baked into
	// composite item ids.
	Region string

	// Vertical is the business vertical label. Empty means DefaultVertical.
	Vertical string
}

// NewMapper creates a Mapper, defaulting the vertical to "retail".
func NewMapper(region, vertical string) Mapper {
	if vertical == "" {
		vertical = DefaultVertical
	}
	return Mapper{Region: region, Vertical: vertical}
}

// Item maps a product variant to an item record.
//
// Quantity defaults to 1 when the variant carries none. The composite id is
// deterministic: two variants with the same catalog identity and region map
// to the same id, which is what downstream feed matching depends on.
func (m Mapper) Item(v *shopify.ProductVariant) (Item, error) {
	if v == nil {
		return Item{}, shopify.MissingField("productVariant")
	}
	if v.Product == nil {
		return Item{}, shopify.MissingField("productVariant.product")
	}
	if v.Price == nil {
		return Item{}, shopify.MissingField("productVariant.price")
	}

	quantity := v.Quantity
	if quantity == 0 {
		quantity = 1
	}

	return Item{
		ItemID:           v.Product.ID,
		ItemName:         v.Product.Title,
		ItemType:         v.Product.Type,
		ItemVendor:       v.Product.Vendor,
		ItemSKU:          v.SKU,
		ItemVariant:      v.Title,
		ItemVariantID:    v.ID,
		Price:            v.Price.Amount,
		Quantity:         quantity,
		Currency:         v.Price.CurrencyCode,
		ID:               fmt.Sprintf("shopify_%s_%s_%s", m.Region, v.Product.ID, v.ID),
		BusinessVertical: m.Vertical,
	}, nil
}

// VariantItems maps a result/collection variant list to indexed item
// records. Index starts at 1, matching the ad-platform list convention.
func (m Mapper) VariantItems(variants []*shopify.ProductVariant) ([]Item, error) {
	items := make([]Item, 0, len(variants))
	for i, v := range variants {
		item, err := m.Item(v)
		if err != nil {
			return nil, err
		}
		item.Index = i + 1
		items = append(items, item)
	}
	return items, nil
}

// LineItems maps checkout line items. The line quantity replaces the
// variant quantity unconditionally.
func (m Mapper) LineItems(lines []*shopify.CheckoutLineItem) ([]Item, error) {
	items := make([]Item, 0, len(lines))
	for i, line := range lines {
		if line == nil {
			return nil, shopify.MissingField(fmt.Sprintf("checkout.lineItems[%d]", i))
		}
		item, err := m.Item(line.Variant)
		if err != nil {
			return nil, err
		}
		item.Quantity = line.Quantity
		items = append(items, item)
	}
	return items, nil
}

// CartItems maps cart lines. The line quantity replaces the variant
// quantity unconditionally.
func (m Mapper) CartItems(lines []*shopify.CartLine) ([]Item, error) {
	items := make([]Item, 0, len(lines))
	for i, line := range lines {
		if line == nil {
			return nil, shopify.MissingField(fmt.Sprintf("cart.lines[%d]", i))
		}
		item, err := m.Item(line.Merchandise)
		if err != nil {
			return nil, err
		}
		item.Quantity = line.Quantity
		items = append(items, item)
	}
	return items, nil
}

// TotalPrice sums the item prices. An empty list sums to 0. No
// currency-mixing check is performed; a basket is single-currency.
func TotalPrice(items []Item) float64 {
	var total float64
	for _, item := range items {
		total += item.Price
	}
	return total
}
