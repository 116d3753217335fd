package shopify

// Per-event payload envelopes. Each mirrors the `data` object the runtime
// attaches to the lifecycle event of the same name; PageViewedPayload also
// carries the page context since that event reads document metadata.

// PageViewedPayload is the payload of page_viewed.
type PageViewedPayload struct {
	Context EventContext `json:"context"`
}

// SearchSubmittedPayload is the payload of search_submitted.
type SearchSubmittedPayload struct {
	SearchResult SearchResult `json:"searchResult"`
}

// CollectionViewedPayload is the payload of collection_viewed.
type CollectionViewedPayload struct {
	Collection Collection `json:"collection"`
}

// ProductViewedPayload is the payload of product_viewed.
type ProductViewedPayload struct {
	ProductVariant *ProductVariant `json:"productVariant"`
}

// CartLinePayload is the payload of product_added_to_cart and
// product_removed_from_cart.
type CartLinePayload struct {
	CartLine *CartLine `json:"cartLine"`
}

// CartViewedPayload is the payload of cart_viewed.
type CartViewedPayload struct {
	Cart *Cart `json:"cart"`
}

// CheckoutPayload is the payload of every checkout funnel event.
type CheckoutPayload struct {
	Checkout *Checkout `json:"checkout"`
}
