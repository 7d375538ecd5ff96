package internal

import "strings"

// In-memory page model backing the replay harness and the engine tests.
// Nodes declare which selectors they match instead of parsing CSS; the
// engine only ever compares selector hits, so a declarative match is
// enough.

// Character-grid text metrics for simulated caret measurement.
const (
	simCharWidth  = 8.0
	simLineHeight = 20.0
)

// SimPage is a scriptable Document.
type SimPage struct {
	host     string
	path     string
	viewport Viewport

	nodes     []simNode
	observers map[int]func()
	obsSeq    int
	focused   Element
}

type simNode interface {
	Element
	matches(selector string) bool
}

// NewSimPage creates an empty page at the given address.
func NewSimPage(host, path string) *SimPage {
	return &SimPage{
		host:      host,
		path:      path,
		viewport:  Viewport{W: 1280, H: 800},
		observers: make(map[int]func()),
	}
}

// SetViewport resizes the simulated viewport.
func (p *SimPage) SetViewport(w, h float64) {
	p.viewport = Viewport{W: w, H: h}
}

// Navigate changes the page address without clearing the tree, the way a
// single-page app routes. Callers decide separately whether nodes churn.
func (p *SimPage) Navigate(host, path string) {
	p.host = host
	p.path = path
}

// Attach adds a node to the page and fires a mutation batch.
func (p *SimPage) Attach(n simNode) {
	p.nodes = append(p.nodes, n)
	p.MutationBurst()
}

// Detach removes a node from the page and fires a mutation batch.
func (p *SimPage) Detach(target simNode) {
	kept := p.nodes[:0]
	for _, n := range p.nodes {
		if n != target {
			kept = append(kept, n)
		}
	}
	p.nodes = kept
	if det, ok := target.(interface{ markDetached() }); ok {
		det.markDetached()
	}
	p.MutationBurst()
}

// MutationBurst invokes every registered observer once, modelling one
// delivered mutation batch.
func (p *SimPage) MutationBurst() {
	for _, fn := range p.observers {
		fn()
	}
}

// Focused returns the element that last received focus, or nil.
func (p *SimPage) Focused() Element {
	return p.focused
}

func (p *SimPage) Location() (string, string) {
	return p.host, p.path
}

func (p *SimPage) Query(selector string) []Element {
	var out []Element
	for _, n := range p.nodes {
		if n.matches(selector) {
			out = append(out, n)
		}
	}
	return out
}

func (p *SimPage) Observe(fn func()) func() {
	p.obsSeq++
	id := p.obsSeq
	p.observers[id] = fn
	return func() {
		delete(p.observers, id)
	}
}

// ObserverCount reports how many mutation observers are registered.
func (p *SimPage) ObserverCount() int {
	return len(p.observers)
}

func (p *SimPage) NewSurface(ctrl ValueControl, strategy MeasureStrategy) Surface {
	return &simSurface{}
}

func (p *SimPage) Viewport() Viewport {
	return p.viewport
}

// simSurface measures text on a fixed character grid.
type simSurface struct {
	removed bool
}

func (s *simSurface) Measure(preCaret string) CaretMetrics {
	lines := strings.Split(preCaret, "\n")
	last := lines[len(lines)-1]
	return CaretMetrics{
		DX:     float64(len([]rune(last))) * simCharWidth,
		DY:     float64(len(lines)-1) * simLineHeight,
		Height: simLineHeight,
	}
}

func (s *simSurface) Remove() {
	s.removed = true
}

// simBase carries the Element behavior shared by controls and editors.
type simBase struct {
	page      *SimPage
	selectors []string
	rect      Rect
	hidden    bool
	detached  bool

	listeners map[EventKind]map[int]func(Event)
	seq       int
}

func newSimBase(page *SimPage, selectors []string, rect Rect) simBase {
	return simBase{
		page:      page,
		selectors: selectors,
		rect:      rect,
		listeners: make(map[EventKind]map[int]func(Event)),
	}
}

func (b *simBase) matches(selector string) bool {
	for _, s := range b.selectors {
		if s == selector {
			return true
		}
	}
	return false
}

func (b *simBase) markDetached() {
	b.detached = true
}

func (b *simBase) Attached() bool {
	return !b.detached
}

func (b *simBase) Rect() Rect {
	return b.rect
}

// SetRect moves or resizes the node.
func (b *simBase) SetRect(r Rect) {
	b.rect = r
}

// SetHidden toggles visibility.
func (b *simBase) SetHidden(hidden bool) {
	b.hidden = hidden
}

func (b *simBase) Visible() bool {
	return !b.hidden && !b.detached
}

func (b *simBase) Listen(kind EventKind, fn func(Event)) func() {
	if b.listeners[kind] == nil {
		b.listeners[kind] = make(map[int]func(Event))
	}
	b.seq++
	id := b.seq
	b.listeners[kind][id] = fn
	return func() {
		delete(b.listeners[kind], id)
	}
}

func (b *simBase) Dispatch(ev Event) {
	for _, fn := range b.listeners[ev.Kind] {
		fn(ev)
	}
}

// ListenerCount reports how many handlers are registered for an event kind.
func (b *simBase) ListenerCount(kind EventKind) int {
	return len(b.listeners[kind])
}

func (b *simBase) focusAs(el Element) {
	if b.page != nil {
		b.page.focused = el
	}
	b.Dispatch(Event{Kind: EventFocus})
}

// SimControl is a plain value control, a textarea equivalent.
type SimControl struct {
	simBase
	value string
	caret int
}

// NewSimControl creates a control matching the given selectors.
func NewSimControl(page *SimPage, selectors []string, rect Rect) *SimControl {
	return &SimControl{simBase: newSimBase(page, selectors, rect)}
}

func (c *SimControl) Focus() {
	c.focusAs(c)
}

func (c *SimControl) Value() string {
	return c.value
}

func (c *SimControl) SetValue(text string) {
	c.value = text
	c.caret = len([]rune(text))
}

// SetCaret positions the caret at a rune offset.
func (c *SimControl) SetCaret(offset int) {
	c.caret = offset
}

func (c *SimControl) SelectionStart() int {
	return c.caret
}

// Type appends text and dispatches the input event, modelling keystrokes.
func (c *SimControl) Type(text string) {
	c.SetValue(c.value + text)
	c.Dispatch(Event{Kind: EventInput})
}

// SimSelection is a fixed selection range inside a SimEditor.
type SimSelection struct {
	Bounding Rect
	End      Rect
}

func (s SimSelection) BoundingRect() Rect {
	return s.Bounding
}

func (s SimSelection) EndRect() Rect {
	return s.End
}

// SimEditor is a rich-text editable region.
type SimEditor struct {
	simBase
	blocks    []string
	selection *SimSelection
	caretEnd  bool
}

// NewSimEditor creates an editor matching the given selectors.
func NewSimEditor(page *SimPage, selectors []string, rect Rect) *SimEditor {
	return &SimEditor{simBase: newSimBase(page, selectors, rect)}
}

func (e *SimEditor) Focus() {
	e.focusAs(e)
}

func (e *SimEditor) BlockTexts() []string {
	return append([]string(nil), e.blocks...)
}

func (e *SimEditor) FlatText() string {
	return strings.Join(e.blocks, "\n")
}

func (e *SimEditor) TextLeaves() []string {
	var leaves []string
	for _, b := range e.blocks {
		if b != "" {
			leaves = append(leaves, b)
		}
	}
	return leaves
}

func (e *SimEditor) SetText(text string) {
	if text == "" {
		e.blocks = nil
		return
	}
	e.blocks = strings.Split(text, "\n")
}

// SetBlocks replaces the editor's block children directly.
func (e *SimEditor) SetBlocks(blocks ...string) {
	e.blocks = append([]string(nil), blocks...)
}

func (e *SimEditor) MoveCaretToEnd() {
	e.caretEnd = true
}

// SetSelection installs a selection range; pass nil to clear it.
func (e *SimEditor) SetSelection(sel *SimSelection) {
	e.selection = sel
}

func (e *SimEditor) Selection() (SelectionRange, bool) {
	if e.selection == nil {
		return nil, false
	}
	return *e.selection, true
}

// Type appends text to the last block and dispatches the input event.
func (e *SimEditor) Type(text string) {
	if len(e.blocks) == 0 {
		e.blocks = []string{""}
	}
	e.blocks[len(e.blocks)-1] += text
	e.Dispatch(Event{Kind: EventInput})
}
