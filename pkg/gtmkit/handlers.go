package gtmkit

import (
	"context"

	"github.com/analyzify/gtmkit/pkg/gtmkit/ee"
	"github.com/analyzify/gtmkit/pkg/gtmkit/event"
	"github.com/analyzify/gtmkit/pkg/gtmkit/observability"
	"github.com/analyzify/gtmkit/pkg/gtmkit/shopify"
)

// handlers returns one typed handler per lifecycle event.
func (p *Pixel) handlers() []event.Handler {
	return []event.Handler{
		event.TypedHandler([]string{event.PageViewed}, p.onPageViewed),
		event.TypedHandler([]string{event.SearchSubmitted}, p.onSearchSubmitted),
		event.TypedHandler([]string{event.CollectionViewed}, p.onCollectionViewed),
		event.TypedHandler([]string{event.ProductViewed}, p.onProductViewed),
		event.TypedHandler([]string{event.ProductAddedToCart}, p.onProductAddedToCart),
		event.TypedHandler([]string{event.ProductRemovedFromCart}, p.onProductRemovedFromCart),
		event.TypedHandler([]string{event.CartViewed}, p.onCartViewed),
		event.TypedHandler([]string{event.CheckoutStarted}, p.onCheckoutStarted),
		event.TypedHandler([]string{event.CheckoutContactSubmitted}, p.onContactSubmitted),
		event.TypedHandler([]string{event.CheckoutAddressSubmitted}, p.onAddressSubmitted),
		event.TypedHandler([]string{event.CheckoutShippingSubmitted}, p.onShippingSubmitted),
		event.TypedHandler([]string{event.PaymentInfoSubmitted}, p.onPaymentSubmitted),
		event.TypedHandler([]string{event.CheckoutCompleted}, p.onCheckoutCompleted),
	}
}

func (p *Pixel) onPageViewed(ctx context.Context, payload shopify.PageViewedPayload, _ event.Metadata) error {
	// Bootstrap the container on the first page view
	p.loader.Inject(ctx)

	p.push(ctx, EventPageView, ee.PageView(payload.Context.Document))
	return nil
}

func (p *Pixel) onSearchSubmitted(ctx context.Context, payload shopify.SearchSubmittedPayload, _ event.Metadata) error {
	items, err := p.mapper.VariantItems(payload.SearchResult.ProductVariants)
	if err != nil {
		return err
	}

	var currency string
	if len(items) > 0 {
		currency = items[0].Currency
	}

	p.push(ctx, EventSearch, ee.SearchFields{
		SearchTerm: payload.SearchResult.Query,
		Ecommerce: ee.ItemListView{
			Items:    items,
			Value:    ee.TotalPrice(items),
			Currency: currency,
		},
	})
	return nil
}

func (p *Pixel) onCollectionViewed(ctx context.Context, payload shopify.CollectionViewedPayload, _ event.Metadata) error {
	items, err := p.mapper.VariantItems(payload.Collection.ProductVariants)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		// The list currency comes off the first item; an empty collection
		// has no currency to report
		return shopify.MissingField("collection.productVariants")
	}

	p.push(ctx, EventViewItemList, ee.ListFields{
		Ecommerce: ee.ItemListView{
			ItemListID:   payload.Collection.ID,
			ItemListName: payload.Collection.Title,
			Items:        items,
			Value:        ee.TotalPrice(items),
			Currency:     items[0].Currency,
		},
	})
	return nil
}

func (p *Pixel) onProductViewed(ctx context.Context, payload shopify.ProductViewedPayload, _ event.Metadata) error {
	item, err := p.mapper.Item(payload.ProductVariant)
	if err != nil {
		return err
	}

	p.push(ctx, EventViewItem, ee.ItemFields{
		Ecommerce: ee.ItemView{
			Items:    []ee.Item{item},
			Value:    item.Price,
			Currency: item.Currency,
		},
	})
	return nil
}

func (p *Pixel) onProductAddedToCart(ctx context.Context, payload shopify.CartLinePayload, _ event.Metadata) error {
	return p.cartLineChange(ctx, EventAddToCart, payload.CartLine)
}

func (p *Pixel) onProductRemovedFromCart(ctx context.Context, payload shopify.CartLinePayload, _ event.Metadata) error {
	return p.cartLineChange(ctx, EventRemoveFromCart, payload.CartLine)
}

// cartLineChange dispatches an add/remove event. The line value comes from
// the computed line cost, not the item price, so quantity discounts carry
// through.
func (p *Pixel) cartLineChange(ctx context.Context, name string, line *shopify.CartLine) error {
	if line == nil {
		return shopify.MissingField("cartLine")
	}

	item, err := p.mapper.Item(line.Merchandise)
	if err != nil {
		return err
	}

	if line.Cost == nil {
		return shopify.MissingField("cartLine.cost")
	}
	if line.Cost.TotalAmount == nil {
		return shopify.MissingField("cartLine.cost.totalAmount")
	}

	p.push(ctx, name, ee.ItemFields{
		Ecommerce: ee.ItemView{
			Items:    []ee.Item{item},
			Value:    line.Cost.TotalAmount.Amount,
			Currency: line.Cost.TotalAmount.CurrencyCode,
		},
	})
	return nil
}

func (p *Pixel) onCartViewed(ctx context.Context, payload shopify.CartViewedPayload, _ event.Metadata) error {
	cart := payload.Cart
	if cart == nil {
		return shopify.MissingField("cart")
	}

	items, err := p.mapper.CartItems(cart.Lines)
	if err != nil {
		return err
	}

	if cart.Cost == nil {
		return shopify.MissingField("cart.cost")
	}
	if cart.Cost.TotalAmount == nil {
		return shopify.MissingField("cart.cost.totalAmount")
	}

	p.push(ctx, EventViewCart, ee.ItemFields{
		Ecommerce: ee.ItemView{
			Items:    items,
			Value:    cart.Cost.TotalAmount.Amount,
			Currency: cart.Cost.TotalAmount.CurrencyCode,
		},
	})
	return nil
}

func (p *Pixel) onCheckoutStarted(ctx context.Context, payload shopify.CheckoutPayload, _ event.Metadata) error {
	return p.checkoutStep(ctx, payload.Checkout, EventBeginCheckout, StepStarted)
}

func (p *Pixel) onContactSubmitted(ctx context.Context, payload shopify.CheckoutPayload, _ event.Metadata) error {
	return p.guardedStep(ctx, payload.Checkout, EventAddContactInfo, StepContact)
}

func (p *Pixel) onAddressSubmitted(ctx context.Context, payload shopify.CheckoutPayload, _ event.Metadata) error {
	return p.guardedStep(ctx, payload.Checkout, EventAddAddressInfo, StepAddress)
}

func (p *Pixel) onShippingSubmitted(ctx context.Context, payload shopify.CheckoutPayload, _ event.Metadata) error {
	return p.guardedStep(ctx, payload.Checkout, EventAddShippingInfo, StepShipping)
}

func (p *Pixel) onPaymentSubmitted(ctx context.Context, payload shopify.CheckoutPayload, _ event.Metadata) error {
	return p.checkoutStep(ctx, payload.Checkout, EventAddPaymentInfo, StepPayment)
}

func (p *Pixel) onCheckoutCompleted(ctx context.Context, payload shopify.CheckoutPayload, _ event.Metadata) error {
	// Ensure the container exists even when the order-status page is the
	// first page of the session
	p.loader.Inject(ctx)

	summary, err := p.mapper.PurchaseSummary(payload.Checkout)
	if err != nil {
		return err
	}

	p.push(ctx, EventPurchase, ee.PurchaseFields{
		User:         ee.UserFrom(payload.Checkout),
		CheckoutStep: string(StepThankYou),
		Ecommerce:    summary,
	})
	return nil
}

// checkoutStep dispatches one unguarded funnel event.
func (p *Pixel) checkoutStep(ctx context.Context, c *shopify.Checkout, name string, step Step) error {
	summary, err := p.mapper.CheckoutSummary(c)
	if err != nil {
		return err
	}

	p.push(ctx, name, ee.CheckoutFields{
		User:         ee.UserFrom(c),
		CheckoutStep: string(step),
		Ecommerce:    summary,
	})
	return nil
}

// guardedStep dispatches a funnel event at most once per page lifetime.
// The guard is marked only after a successful dispatch: a malformed payload
// leaves it open for the next firing.
func (p *Pixel) guardedStep(ctx context.Context, c *shopify.Checkout, name string, step Step) error {
	if p.funnel.HasFired(step) {
		observability.LogSuppressed(p.logger, name, string(step))
		return nil
	}

	if err := p.checkoutStep(ctx, c, name, step); err != nil {
		return err
	}

	p.funnel.MarkFired(step)
	return nil
}
