package ee

import (
	"net/url"

	"github.com/analyzify/gtmkit/pkg/gtmkit/shopify"
)

// Per-event field blocks merged into outbound data layer records. JSON keys
// follow the tag-template naming exactly.

// PageViewFields carries page metadata for ee_page_view.
type PageViewFields struct {
	PageTitle    string `json:"page_title"`
	Query        string `json:"query"`
	Hostname     string `json:"hostname"`
	PagePath     string `json:"page_path"`
	PageReferrer string `json:"page_referrer"`
	PageLocation string `json:"page_location"`
}

// PageView builds the page metadata block from the document context.
// The location href is URI-normalized.
func PageView(doc shopify.Document) PageViewFields {
	return PageViewFields{
		PageTitle:    doc.Title,
		Query:        doc.Location.Search,
		Hostname:     doc.Location.Hostname,
		PagePath:     doc.Location.Pathname,
		PageReferrer: doc.Referrer,
		PageLocation: encodeLocation(doc.Location.Href),
	}
}

// encodeLocation re-encodes an href so reserved characters survive and
// everything else is percent-escaped. A malformed href passes through as-is.
func encodeLocation(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	return u.String()
}

// ItemListView is the ecommerce block shared by ee_search and
// ee_view_item_list. The list id and name only appear on collection views.
// Currency comes off the first item; an empty list omits the key.
type ItemListView struct {
	ItemListID   string  `json:"item_list_id,omitempty"`
	ItemListName string  `json:"item_list_name,omitempty"`
	Items        []Item  `json:"items"`
	Value        float64 `json:"value"`
	Currency     string  `json:"currency,omitempty"`
}

// SearchFields is the merged block for ee_search.
type SearchFields struct {
	SearchTerm string       `json:"search_term"`
	Ecommerce  ItemListView `json:"ecommerce"`
}

// ListFields is the merged block for ee_view_item_list.
type ListFields struct {
	Ecommerce ItemListView `json:"ecommerce"`
}

// ItemView is the ecommerce block for single-item and cart events.
type ItemView struct {
	Items    []Item  `json:"items"`
	Value    float64 `json:"value"`
	Currency string  `json:"currency"`
}

// ItemFields is the merged block for ee_view_item, ee_add_to_cart,
// ee_remove_from_cart and ee_view_cart.
type ItemFields struct {
	Ecommerce ItemView `json:"ecommerce"`
}

// CheckoutFields is the merged block for checkout funnel events.
type CheckoutFields struct {
	User         User            `json:"user"`
	CheckoutStep string          `json:"checkout_step"`
	Ecommerce    CheckoutSummary `json:"ecommerce"`
}

// PurchaseFields is the merged block for ee_purchase.
type PurchaseFields struct {
	User         User            `json:"user"`
	CheckoutStep string          `json:"checkout_step"`
	Ecommerce    PurchaseSummary `json:"ecommerce"`
}
