package internal

// Engine wires the platform adapter, locator, tracker, pill and overlay
// against one page. All shared state is touched only on the page event
// loop; the Exec given at construction decides how asynchronous gateway
// effects get marshalled back there.
type Engine struct {
	cfg     Config
	doc     Document
	gateway Gateway
	clock   Clock
	exec    Exec

	overlay  *Overlay
	tracker  *Tracker
	pill     *Pill
	pillView PillView
	locator  *Locator

	platform Platform
	adapter  Adapter
	started  bool
}

// NewEngine assembles an engine for a page. Views may be nil for headless
// operation.
func NewEngine(cfg Config, doc Document, gateway Gateway, overlayView OverlayView, pillView PillView, clock Clock, exec Exec) *Engine {
	e := &Engine{
		cfg:      cfg,
		doc:      doc,
		gateway:  gateway,
		exec:     exec,
		pillView: pillView,
	}
	// Timer callbacks fire wherever the clock runs them; posting them keeps
	// every state mutation on the loop.
	e.clock = postedClock{clock: clock, post: exec.Post}
	e.overlay = NewOverlay(overlayView, e.clock)
	e.tracker = NewTracker(cfg, gateway, e.overlay, e.clock, exec)
	return e
}

// Overlay returns the overlay controller.
func (e *Engine) Overlay() *Overlay {
	return e.overlay
}

// Tracker returns the session tracker.
func (e *Engine) Tracker() *Tracker {
	return e.tracker
}

// Pill returns the quick-action controller, nil before Start or on an
// unsupported platform.
func (e *Engine) Pill() *Pill {
	return e.pill
}

// Start detects the platform and begins watching for the chat input. On an
// unrecognized platform the engine is a silent no-op: that is a transient
// page state, not a user-actionable problem.
func (e *Engine) Start() {
	host, path := e.doc.Location()
	e.platform = DetectPlatform(host, path)
	if e.platform == PlatformUnknown {
		LogInfo("unsupported platform at %s, features disabled", host)
		return
	}
	e.adapter = AdapterFor(e.platform)
	LogInfo("engine starting for %s", e.platform)

	e.tracker.SyncSession(e.platform, path)
	e.pill = NewPill(e.cfg, e.doc, e.adapter, e.gateway, e.pillView, e.clock, e.exec)
	e.locator = NewLocator(e.doc, e.adapter, e.clock, e.bindInput)
	e.locator.Watch()
	e.started = true
}

// Rewatch restarts input observation with a fresh bounded window. Call it
// when the page may have re-rendered its input, for example after an
// in-page navigation.
func (e *Engine) Rewatch() {
	if !e.started {
		return
	}
	e.CheckNavigation()
	e.locator.Watch()
}

// Stop tears down observation and all attached listeners.
func (e *Engine) Stop() {
	if e.locator != nil {
		e.locator.Stop()
	}
	e.overlay.Hide()
}

// CheckNavigation re-derives the session from the current address.
// Single-page apps navigate without a reload, so this runs before every
// submit and on every mutation-driven rescan.
func (e *Engine) CheckNavigation() {
	if !e.started {
		return
	}
	host, path := e.doc.Location()
	platform := DetectPlatform(host, path)
	if platform == PlatformUnknown {
		return
	}
	e.tracker.SyncSession(platform, path)
}

// bindInput is the locator's BindFunc: pill listeners plus the submit
// gesture listeners. Returned removers are run by the locator before any
// rebinding, so exactly one listener set exists page-wide.
func (e *Engine) bindInput(input Element, send Element) []func() {
	removers := e.pill.Bind(input)

	removers = append(removers, input.Listen(EventKeydown, func(ev Event) {
		if ev.Key == "Enter" && !ev.Shift && !ev.Ctrl {
			e.submit(input)
		}
	}))

	if send != nil {
		removers = append(removers, send.Listen(EventClick, func(Event) {
			e.submit(input)
		}))
	} else {
		LogDebug("send control not found for %s, keyboard submit only", e.adapter.Platform)
	}
	return removers
}

func (e *Engine) submit(input Element) {
	e.CheckNavigation()
	e.tracker.RecordSubmit(ExtractText(input))
}
