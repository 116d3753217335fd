package gtmkit

import "sync"

// Step is a checkout funnel step, as reported in the checkout_step field.
type Step string

// Funnel steps, in order. Page-view and catalog-browsing events live
// outside the chain.
const (
	StepStarted  Step = "started"
	StepContact  Step = "contact"
	StepAddress  Step = "address"
	StepShipping Step = "shipping"
	StepPayment  Step = "payment"
	StepThankYou Step = "thank_you"
)

// FunnelState tracks which one-shot funnel steps have already dispatched
// within the current page lifetime. The contact, address and shipping steps
// each gate on their own flag; payment and purchase are never suppressed.
//
// Flags are never reset: a FunnelState lives exactly as long as its pixel,
// one per page.
type FunnelState struct {
	mu    sync.Mutex
	fired map[Step]bool
}

// NewFunnelState creates an empty funnel state.
func NewFunnelState() *FunnelState {
	return &FunnelState{fired: make(map[Step]bool)}
}

// HasFired reports whether the step already dispatched.
func (f *FunnelState) HasFired(step Step) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fired[step]
}

// MarkFired records a successful dispatch of the step. Callers mark only
// after the push succeeds, so a normalizer fault leaves the guard open for
// the next firing.
func (f *FunnelState) MarkFired(step Step) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fired[step] = true
}
