package internal

// The engine never touches a real DOM. The host (browser bridge, or the
// replay harness) presents the page through the interfaces below; everything
// the engine needs from the page is captured here.

// Rect is a rectangle in viewport coordinates.
type Rect struct {
	X float64
	Y float64
	W float64
	H float64
}

// Right returns the x coordinate of the rectangle's right edge.
func (r Rect) Right() float64 {
	return r.X + r.W
}

// Bottom returns the y coordinate of the rectangle's bottom edge.
func (r Rect) Bottom() float64 {
	return r.Y + r.H
}

// Viewport describes the visible page area.
type Viewport struct {
	W float64
	H float64
}

// EventKind identifies a page event type.
type EventKind string

const (
	EventInput       EventKind = "input"
	EventChange      EventKind = "change"
	EventBeforeInput EventKind = "beforeinput"
	EventTextInput   EventKind = "textinput"
	EventKeydown     EventKind = "keydown"
	EventKeyup       EventKind = "keyup"
	EventClick       EventKind = "click"
	EventFocus       EventKind = "focus"
	EventBlur        EventKind = "blur"
	EventPaste       EventKind = "paste"
)

// Event is a page event delivered to a listener.
type Event struct {
	Kind  EventKind
	Key   string
	Shift bool
	Ctrl  bool
}

// Element is the minimal surface of a page node the engine needs. Concrete
// elements additionally implement ValueControl or RichEditor.
type Element interface {
	// Attached reports whether the node is still part of the page.
	Attached() bool

	// Rect returns the node's bounding box in viewport coordinates.
	Rect() Rect

	// Visible reports whether the node is rendered (not hidden or collapsed).
	Visible() bool

	// Listen registers a handler for an event kind and returns its removal
	// function. Removal must be idempotent.
	Listen(kind EventKind, fn func(Event)) (remove func())

	// Dispatch delivers a synthetic event to the node so the host page's own
	// handlers observe it.
	Dispatch(ev Event)

	// Focus moves page focus to the node.
	Focus()
}

// ValueControl is a plain value-bearing control: an input or textarea
// equivalent.
type ValueControl interface {
	Element

	Value() string
	SetValue(text string)

	// SelectionStart returns the caret offset into Value, in runes.
	SelectionStart() int
}

// SelectionRange is an active text selection inside a RichEditor.
type SelectionRange interface {
	// BoundingRect returns the range's bounding box. A collapsed caret yields
	// a zero-width, zero-height rect at the caret.
	BoundingRect() Rect

	// EndRect returns the bounding box of the range collapsed to its end.
	EndRect() Rect
}

// RichEditor is a rich-text editable region. The three text accessors back
// the extractor's layered fallback: platforms differ in whether lines are
// wrapped in block children, so no single accessor is reliable everywhere.
type RichEditor interface {
	Element

	// BlockTexts returns the text of each block-level child, in order.
	BlockTexts() []string

	// FlatText returns the element's flattened visible text.
	FlatText() string

	// TextLeaves returns the text of each text-only leaf node, in order.
	TextLeaves() []string

	SetText(text string)
	MoveCaretToEnd()

	// Selection returns the active selection inside the editor, if any.
	Selection() (SelectionRange, bool)
}

// CaretMetrics is the offset of the caret within a measured text block,
// relative to the control's origin.
type CaretMetrics struct {
	DX     float64
	DY     float64
	Height float64
}

// Surface is a transient text-measurement node mirroring a control's font
// metrics, padding and width. The caller must Remove it after use.
type Surface interface {
	// Measure writes the pre-caret text followed by a marker and returns the
	// marker's offset within the surface.
	Measure(preCaret string) CaretMetrics

	Remove()
}

// Document is the page itself.
type Document interface {
	// Location returns the page's current host and path. Re-read on every
	// use: single-page apps navigate without a reload.
	Location() (host, path string)

	// Query returns all nodes matching a selector, in document order.
	Query(selector string) []Element

	// Observe registers a callback invoked once per mutation batch and
	// returns its cancel function.
	Observe(fn func()) (cancel func())

	// NewSurface creates a measurement surface mirroring the control, placed
	// per the given strategy.
	NewSurface(ctrl ValueControl, strategy MeasureStrategy) Surface

	Viewport() Viewport
}
