package event

// Lifecycle event names published by the storefront analytics runtime.
const (
	PageViewed                = "page_viewed"
	SearchSubmitted           = "search_submitted"
	CollectionViewed          = "collection_viewed"
	ProductViewed             = "product_viewed"
	ProductAddedToCart        = "product_added_to_cart"
	ProductRemovedFromCart    = "product_removed_from_cart"
	CartViewed                = "cart_viewed"
	CheckoutStarted           = "checkout_started"
	CheckoutContactSubmitted  = "checkout_contact_info_submitted"
	CheckoutAddressSubmitted  = "checkout_address_info_submitted"
	CheckoutShippingSubmitted = "checkout_shipping_info_submitted"
	PaymentInfoSubmitted      = "payment_info_submitted"
	CheckoutCompleted         = "checkout_completed"
)

// Names lists every lifecycle event the pixel subscribes to.
var Names = []string{
	PageViewed,
	SearchSubmitted,
	CollectionViewed,
	ProductViewed,
	ProductAddedToCart,
	ProductRemovedFromCart,
	CartViewed,
	CheckoutStarted,
	CheckoutContactSubmitted,
	CheckoutAddressSubmitted,
	CheckoutShippingSubmitted,
	PaymentInfoSubmitted,
	CheckoutCompleted,
}
