package internal

import (
	"time"
)

// OverlayState is the widget's finite state.
type OverlayState int

const (
	StateHidden OverlayState = iota
	StateIdle
	StateLoading
	StateResult
	StateError
)

func (s OverlayState) String() string {
	switch s {
	case StateHidden:
		return "hidden"
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateResult:
		return "result"
	case StateError:
		return "error"
	}
	return "invalid"
}

// OverlayView renders overlay states and transient notices. The engine owns
// the state machine; styling and layout belong to the host.
type OverlayView interface {
	ShowState(state OverlayState, text string)
	ShowNotice(text string)
	HideNotice()
	ShowOffer(text string)
	HideOffer()
}

// Overlay owns the widget state machine:
//
//	hidden -> idle -> loading -> (result | error) -> idle | hidden
//
// Loading is always resolved: each request gets a token, and exactly one of
// FinishResult, FinishError or the loading watchdog consumes it; later calls
// with a consumed token are no-ops. Transient notices (warm message,
// consolidation offer) carry their own auto-dismiss timers and never change
// the widget state.
type Overlay struct {
	view  OverlayView
	clock Clock

	state       OverlayState
	placeholder string

	reqSeq       int
	activeReq    int
	cancelWatch  func()
	cancelNotice func()

	offer *pendingOffer
}

type pendingOffer struct {
	onAccept  func()
	onDecline func()
	cancel    func()
}

// NewOverlay creates an overlay controller in the hidden state.
func NewOverlay(view OverlayView, clock Clock) *Overlay {
	return &Overlay{view: view, clock: clock, state: StateHidden}
}

// State returns the current widget state.
func (o *Overlay) State() OverlayState {
	return o.state
}

// SetIdle shows the placeholder for the currently selected action mode.
func (o *Overlay) SetIdle(placeholder string) {
	o.placeholder = placeholder
	o.transition(StateIdle, placeholder)
}

// Hide dismisses the widget.
func (o *Overlay) Hide() {
	o.abortActive()
	o.transition(StateHidden, "")
}

// BeginLoading enters the loading state and returns the request token that
// must resolve it. A positive bound installs a watchdog forcing the error
// state if nothing resolves the token in time; the token is consumed either
// way, so a late result cannot overwrite the outcome.
func (o *Overlay) BeginLoading(message string, bound time.Duration) int {
	o.abortActive()

	o.reqSeq++
	token := o.reqSeq
	o.activeReq = token
	o.transition(StateLoading, message)

	if bound > 0 {
		o.cancelWatch = o.clock.AfterFunc(bound, func() {
			if o.FinishError(token, &TimeoutError{Op: "request"}) {
				LogWarn("loading watchdog fired after %s", bound)
			}
		})
	}
	return token
}

// FinishResult resolves a loading token with content. Returns false if the
// token was already consumed or superseded.
func (o *Overlay) FinishResult(token int, text string) bool {
	if !o.consume(token) {
		return false
	}
	o.transition(StateResult, text)
	return true
}

// FinishError resolves a loading token with a user-facing failure message
// derived from the error taxonomy.
func (o *Overlay) FinishError(token int, err error) bool {
	if !o.consume(token) {
		return false
	}
	LogError("request failed: %v", err)
	o.transition(StateError, UserMessage(err))
	return true
}

// Abandon resolves a loading token without output, returning to the idle
// placeholder. Used when the work a request served has been superseded.
func (o *Overlay) Abandon(token int) bool {
	if !o.consume(token) {
		return false
	}
	o.transition(StateIdle, o.placeholder)
	return true
}

func (o *Overlay) consume(token int) bool {
	if token == 0 || token != o.activeReq {
		return false
	}
	o.activeReq = 0
	if o.cancelWatch != nil {
		o.cancelWatch()
		o.cancelWatch = nil
	}
	return true
}

func (o *Overlay) abortActive() {
	if o.activeReq != 0 {
		LogDebug("superseding in-flight request %d", o.activeReq)
	}
	o.activeReq = 0
	if o.cancelWatch != nil {
		o.cancelWatch()
		o.cancelWatch = nil
	}
}

func (o *Overlay) transition(next OverlayState, text string) {
	if o.state != next {
		LogDebug("overlay %s -> %s", o.state, next)
	}
	o.state = next
	if o.view != nil {
		o.view.ShowState(next, text)
	}
}

// Notify shows a transient notice bubble that dismisses itself after d. A
// new notice replaces a pending one. Notices never touch the widget state.
func (o *Overlay) Notify(text string, d time.Duration) {
	if o.cancelNotice != nil {
		o.cancelNotice()
	}
	if o.view != nil {
		o.view.ShowNotice(text)
	}
	o.cancelNotice = o.clock.AfterFunc(d, func() {
		o.cancelNotice = nil
		if o.view != nil {
			o.view.HideNotice()
		}
	})
}

// OfferConsolidation presents an accept/decline offer that auto-dismisses
// unattended after timeout. A new offer replaces a pending one.
func (o *Overlay) OfferConsolidation(text string, timeout time.Duration, onAccept, onDecline func()) {
	o.dismissOffer()

	offer := &pendingOffer{onAccept: onAccept, onDecline: onDecline}
	offer.cancel = o.clock.AfterFunc(timeout, func() {
		if o.offer == offer {
			o.offer = nil
			if o.view != nil {
				o.view.HideOffer()
			}
		}
	})
	o.offer = offer
	if o.view != nil {
		o.view.ShowOffer(text)
	}
}

// OfferPending reports whether an offer is awaiting a decision.
func (o *Overlay) OfferPending() bool {
	return o.offer != nil
}

// AcceptOffer accepts the pending offer, if any.
func (o *Overlay) AcceptOffer() {
	offer := o.offer
	o.dismissOffer()
	if offer != nil && offer.onAccept != nil {
		offer.onAccept()
	}
}

// DeclineOffer dismisses the pending offer without further effect.
func (o *Overlay) DeclineOffer() {
	offer := o.offer
	o.dismissOffer()
	if offer != nil && offer.onDecline != nil {
		offer.onDecline()
	}
}

func (o *Overlay) dismissOffer() {
	if o.offer == nil {
		return
	}
	o.offer.cancel()
	o.offer = nil
	if o.view != nil {
		o.view.HideOffer()
	}
}
