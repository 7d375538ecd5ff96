package internal

// Input-field location under DOM mutation churn. Chat apps render their
// input lazily and re-render it on navigation, so the locator scans per
// mutation batch instead of querying once.

// Minimum size for a candidate to count as the primary input; filters out
// decorative and hidden duplicate nodes.
const (
	minInputWidth  = 200.0
	minInputHeight = 20.0
)

// BindFunc attaches behavioral listeners to a newly accepted input element
// and returns their removal functions. The send control is nil when the
// platform's send button was not found; the keyboard path still works.
type BindFunc func(input Element, send Element) (detach []func())

// Locator watches page mutations for the platform's primary chat input. At
// most one element is bound at a time; a bound element is kept until it
// detaches from the page, which avoids rebinding churn during
// typing-induced DOM updates. Rebinding always removes the previous
// element's listeners first.
type Locator struct {
	doc     Document
	adapter Adapter
	clock   Clock
	bind    BindFunc

	current       Element
	detach        []func()
	cancelObserve func()
	cancelWindow  func()
}

// NewLocator creates a locator for one platform adapter.
func NewLocator(doc Document, adapter Adapter, clock Clock, bind BindFunc) *Locator {
	return &Locator{doc: doc, adapter: adapter, clock: clock, bind: bind}
}

// Watch starts (or restarts) observation. Observation is time-boxed by the
// adapter's watch window: the mutation observer is torn down once the
// window expires, bounding resource growth on long-lived pages. Each Watch
// call installs a fresh window. The current binding survives teardown.
func (l *Locator) Watch() {
	l.stopObservation()

	l.scan()
	l.cancelObserve = l.doc.Observe(l.scan)
	l.cancelWindow = l.clock.AfterFunc(l.adapter.WatchWindow, func() {
		LogDebug("watch window for %s elapsed, disconnecting observer", l.adapter.Platform)
		l.stopObservation()
	})
}

// Stop tears down observation and the current binding.
func (l *Locator) Stop() {
	l.stopObservation()
	l.unbind()
}

// Current returns the bound input element, or nil.
func (l *Locator) Current() Element {
	return l.current
}

func (l *Locator) stopObservation() {
	if l.cancelObserve != nil {
		l.cancelObserve()
		l.cancelObserve = nil
	}
	if l.cancelWindow != nil {
		l.cancelWindow()
		l.cancelWindow = nil
	}
}

func (l *Locator) scan() {
	// Keep the binding while the element is still on the page; replacement
	// on every mutation would thrash listeners during normal typing.
	if l.current != nil && l.current.Attached() {
		return
	}
	if l.current != nil {
		LogDebug("bound input detached, rescanning")
		l.unbind()
	}

	input := l.findInput()
	if input == nil {
		return
	}
	send := l.findSend()

	l.current = input
	if l.bind != nil {
		l.detach = l.bind(input, send)
	}
	LogDebug("input field bound for %s", l.adapter.Platform)
}

func (l *Locator) unbind() {
	for _, remove := range l.detach {
		remove()
	}
	l.detach = nil
	l.current = nil
}

// findInput scans the adapter's candidate selectors in priority order and
// accepts the first visible element exceeding the minimum size.
func (l *Locator) findInput() Element {
	for _, selector := range l.adapter.InputSelectors {
		for _, el := range l.doc.Query(selector) {
			if !el.Visible() {
				continue
			}
			r := el.Rect()
			if r.W > minInputWidth && r.H > minInputHeight {
				return el
			}
		}
	}
	return nil
}

func (l *Locator) findSend() Element {
	for _, selector := range l.adapter.SendSelectors {
		for _, el := range l.doc.Query(selector) {
			if el.Visible() {
				return el
			}
		}
	}
	return nil
}
