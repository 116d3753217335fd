package gtmkit

import (
	"context"
	"log/slog"
	"time"

	"github.com/analyzify/gtmkit/pkg/gtmkit/config"
	"github.com/analyzify/gtmkit/pkg/gtmkit/datalayer"
	"github.com/analyzify/gtmkit/pkg/gtmkit/ee"
	"github.com/analyzify/gtmkit/pkg/gtmkit/event"
	"github.com/analyzify/gtmkit/pkg/gtmkit/observability"
	"github.com/analyzify/gtmkit/pkg/gtmkit/shopify"
)

// Version of the pixel adapter.
const Version = "1.0.0"

// Outbound enhanced-ecommerce event names.
const (
	EventPageView        = "ee_page_view"
	EventSearch          = "ee_search"
	EventViewItemList    = "ee_view_item_list"
	EventViewItem        = "ee_view_item"
	EventAddToCart       = "ee_add_to_cart"
	EventRemoveFromCart  = "ee_remove_from_cart"
	EventViewCart        = "ee_view_cart"
	EventBeginCheckout   = "ee_begin_checkout"
	EventAddContactInfo  = "ee_add_contact_info"
	EventAddAddressInfo  = "ee_add_address_info"
	EventAddShippingInfo = "ee_add_shipping_info"
	EventAddPaymentInfo  = "ee_add_payment_info"
	EventPurchase        = "ee_purchase"
)

// Pixel subscribes to the storefront's lifecycle events, reshapes each
// payload into the enhanced-ecommerce schema and pushes the result onto
// the tag-management data layer. One Pixel serves one page lifetime.
type Pixel struct {
	settings config.Settings
	mapper   ee.Mapper
	dl       *datalayer.DataLayer
	funnel   *FunnelState
	loader   *Loader
	registry *event.Registry

	logger   *slog.Logger
	metrics  observability.MetricsRecorder
	validate bool
	archive  datalayer.Archive

	subs []event.Subscription
}

// New creates a Pixel from validated settings.
func New(settings config.Settings, opts ...Option) (*Pixel, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	p := &Pixel{
		settings: settings,
		mapper:   ee.NewMapper(settings.FeedRegion, settings.BusinessVertical),
		funnel:   NewFunnelState(),
		metrics:  observability.NoopMetrics{},
	}

	for _, opt := range opts {
		opt(p)
	}

	dlOpts := []datalayer.Option{
		datalayer.WithDebug(settings.Debug),
		datalayer.WithLogger(p.logger),
	}
	if p.archive != nil {
		dlOpts = append(dlOpts, datalayer.WithArchive(p.archive))
	}
	p.dl = datalayer.New(dlOpts...)

	p.loader = NewLoader(settings.ContainerID, p.dl, p.logger, p.metrics)
	p.registry = defaultRegistry()

	observability.LogInit(p.logger, settings.ContainerID, Version)
	return p, nil
}

// NewFromFile creates a Pixel from a settings file (yaml or json).
func NewFromFile(path string, opts ...Option) (*Pixel, error) {
	cfg, err := config.FromFile(path)
	if err != nil {
		return nil, err
	}
	settings, err := config.SettingsFrom(cfg)
	if err != nil {
		return nil, err
	}
	return New(settings, opts...)
}

// DataLayer returns the outbound queue this pixel pushes to.
func (p *Pixel) DataLayer() *datalayer.DataLayer {
	return p.dl
}

// Loader returns the container loader.
func (p *Pixel) Loader() *Loader {
	return p.loader
}

// Registry returns the lifecycle event schemas this pixel understands.
func (p *Pixel) Registry() *event.Registry {
	return p.registry
}

// NewBus creates a bus pre-wired with this pixel's schema registry and
// fault logging, ready for Attach.
func (p *Pixel) NewBus() *event.LocalBus {
	return event.NewBus(event.BusConfig{
		Registry:       p.registry,
		ValidateEvents: p.validate,
		OnError: func(evt event.Event, _ string, err error) {
			logger := observability.EnrichLogger(p.logger, evt.ID(), evt.Name(), evt.ClientID())
			observability.LogHandlerFault(logger, err)
		},
	})
}

// Attach registers one subscription per lifecycle event on the bus.
// Handlers run with recovery, logging and metrics middleware applied.
func (p *Pixel) Attach(bus event.Bus) {
	middleware := []event.MiddlewareFunc{
		event.RecoveryMiddleware(),
		event.LoggingMiddleware(func(eventName, handlerName string, duration time.Duration, err error) {
			if p.logger == nil {
				return
			}
			p.logger.Debug("handler completed",
				slog.String("event", eventName),
				slog.String("handler", handlerName),
				slog.Duration("duration", duration),
				slog.Bool("fault", err != nil),
			)
		}),
		event.MetricsMiddleware(nil, func(name string, duration time.Duration, err error) {
			p.metrics.RecordEvent(context.Background(), name, duration, err)
		}),
	}

	for _, handler := range p.handlers() {
		wrapped := event.ChainMiddleware(handler, middleware...)
		if sub := bus.Subscribe(handler.Handles(), wrapped); sub != nil {
			p.subs = append(p.subs, sub)
		}
	}
}

// Detach removes every subscription registered by Attach.
func (p *Pixel) Detach() {
	for _, sub := range p.subs {
		sub.Unsubscribe()
	}
	p.subs = nil
}

// push dispatches one outbound record and records the bookkeeping.
func (p *Pixel) push(ctx context.Context, name string, fields any) {
	p.dl.Push(name, fields)
	depth := p.dl.Len()
	observability.LogDispatch(p.logger, name, depth)
	p.metrics.RecordPush(ctx, name, depth)
}

// defaultRegistry describes the lifecycle events the pixel subscribes to.
func defaultRegistry() *event.Registry {
	r := event.NewRegistry()
	register := func(name, description string, payloadType any) {
		r.MustRegister(&event.Schema{
			Name:        name,
			Version:     1,
			Description: description,
			PayloadType: payloadType,
		})
	}

	register(event.PageViewed, "A page was rendered", shopify.PageViewedPayload{})
	register(event.SearchSubmitted, "A storefront search ran", shopify.SearchSubmittedPayload{})
	register(event.CollectionViewed, "A collection page was rendered", shopify.CollectionViewedPayload{})
	register(event.ProductViewed, "A product detail page was rendered", shopify.ProductViewedPayload{})
	register(event.ProductAddedToCart, "A variant was added to the cart", shopify.CartLinePayload{})
	register(event.ProductRemovedFromCart, "A variant was removed from the cart", shopify.CartLinePayload{})
	register(event.CartViewed, "The cart page was rendered", shopify.CartViewedPayload{})
	register(event.CheckoutStarted, "Checkout began", shopify.CheckoutPayload{})
	register(event.CheckoutContactSubmitted, "Contact info was submitted", shopify.CheckoutPayload{})
	register(event.CheckoutAddressSubmitted, "Address info was submitted", shopify.CheckoutPayload{})
	register(event.CheckoutShippingSubmitted, "Shipping info was submitted", shopify.CheckoutPayload{})
	register(event.PaymentInfoSubmitted, "Payment info was submitted", shopify.CheckoutPayload{})
	register(event.CheckoutCompleted, "Checkout completed", shopify.CheckoutPayload{})

	return r
}
