/*
Package gtmkit adapts storefront customer events to a tag-management data
layer using the enhanced-ecommerce schema.

# Overview

A Pixel subscribes to the 13 lifecycle events a storefront analytics
runtime publishes (page views, catalog browsing, the checkout funnel) and,
for each, reshapes the payload into the flat item/user/economics records
ad-platform tag templates expect, then appends a dispatch record to the
shared data layer queue. The adapter is a passive observer: pushes are
synchronous, in-memory and fire-and-forget.

# Basic Usage

	settings := config.Settings{
	    ContainerID: "GTM-A1B2C3",
	    FeedRegion:  "US",
	}

	pixel, err := gtmkit.New(settings, gtmkit.WithLogger(logger))
	if err != nil {
	    log.Fatal(err)
	}

	bus := pixel.NewBus()
	defer bus.Close()
	pixel.Attach(bus)

	// The storefront runtime publishes; the pixel pushes.
	evt, _ := event.FromJSON(event.ProductViewed, payload)
	bus.Publish(ctx, evt)

	for _, rec := range pixel.DataLayer().Records() {
	    // hand records to the tag container
	}

# Checkout Funnel

The contact, address and shipping steps each dispatch at most once per
page lifetime; a repeated firing of the same lifecycle event is suppressed
by a one-shot guard. Payment and purchase dispatch on every firing.

# Faults

A payload missing a required nested object (a checkout without a shipping
line, a variant without its product) aborts that single event with a
shopify.MissingFieldError. The guard flags, the queue's prior contents and
every subsequent event are unaffected.
*/
package gtmkit
