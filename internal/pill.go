package internal

import (
	"context"
	"strings"
	"time"
)

// PillView renders the quick-action control. Placement, visibility and
// outcome flashes are engine decisions; drawing belongs to the host.
type PillView interface {
	ShowAt(x, y float64)
	Hide()
	Busy(active bool)
	Flash(ok bool)
}

// Pill is the quick-action controller: it watches the tracked input field,
// follows the caret, and on activation rewrites the in-progress text in
// place through the gateway.
type Pill struct {
	cfg     Config
	doc     Document
	adapter Adapter
	gateway Gateway
	view    PillView
	clock   Clock
	exec    Exec

	input          Element
	visible        bool
	lastActivation time.Time
	cancelInput    func()
	cancelCaret    func()
	busy           bool
}

// NewPill creates a pill controller. The view may be nil (headless
// tracking); all state transitions still run.
func NewPill(cfg Config, doc Document, adapter Adapter, gateway Gateway, view PillView, clock Clock, exec Exec) *Pill {
	return &Pill{cfg: cfg, doc: doc, adapter: adapter, gateway: gateway, view: view, clock: clock, exec: exec}
}

// Bind attaches the pill's behavioral listeners to an input element and
// returns their removal functions. Shaped as a Locator BindFunc tail so the
// locator's rebinding contract covers the pill's listeners too.
func (p *Pill) Bind(input Element) []func() {
	p.input = input
	p.hide()

	removers := []func(){
		input.Listen(EventInput, p.onInput),
		input.Listen(EventPaste, p.onInput),
		input.Listen(EventFocus, p.onFocus),
		input.Listen(EventBlur, p.onBlur),
		input.Listen(EventKeyup, p.onCaretMove),
		input.Listen(EventClick, p.onCaretMove),
		input.Listen(EventKeydown, p.onKeydown),
	}
	removers = append(removers, func() {
		if p.input == input {
			p.detachTimers()
			p.hide()
			p.input = nil
		}
	})
	return removers
}

// Visible reports whether the pill is currently shown.
func (p *Pill) Visible() bool {
	return p.visible
}

func (p *Pill) onInput(Event) {
	input := p.input
	if p.cancelInput != nil {
		p.cancelInput()
	}
	p.cancelInput = p.clock.AfterFunc(p.cfg.InputDebounce, func() {
		p.cancelInput = nil
		if p.input != input {
			return
		}
		if strings.TrimSpace(ExtractText(input)) != "" {
			p.show()
		} else {
			p.hide()
		}
	})
}

func (p *Pill) onFocus(Event) {
	if strings.TrimSpace(ExtractText(p.input)) != "" {
		p.show()
	}
}

func (p *Pill) onBlur(Event) {
	p.hide()
}

func (p *Pill) onCaretMove(Event) {
	input := p.input
	if p.cancelCaret != nil {
		p.cancelCaret()
	}
	p.cancelCaret = p.clock.AfterFunc(p.cfg.CaretDebounce, func() {
		p.cancelCaret = nil
		if p.input != input || !p.visible {
			return
		}
		p.position()
	})
}

func (p *Pill) onKeydown(ev Event) {
	if ev.Ctrl && ev.Shift && ev.Key == "Enter" && p.visible {
		p.Activate()
	}
}

// Activate runs the in-place rewrite. Rapid-fire triggering is rate-limited
// by the configured cooldown; a rejected activation flashes the failure
// treatment without starting a request.
func (p *Pill) Activate() {
	now := p.clock.Now()
	if now.Sub(p.lastActivation) < p.cfg.PillCooldown {
		LogDebug("pill activation inside cooldown, rejected")
		if p.view != nil {
			p.view.Flash(false)
		}
		return
	}

	input := p.input
	if input == nil {
		return
	}
	text := strings.TrimSpace(ExtractText(input))
	if text == "" {
		return
	}

	p.lastActivation = now
	p.setBusy(true)

	req := PillRequest{Text: text, Platform: p.adapter.Platform}
	p.exec.Spawn(func() {
		reply, err := p.gateway.EnhancePill(context.Background(), req)
		p.exec.Post(func() {
			p.setBusy(false)
			if p.input != input || !input.Attached() {
				// The field was rebound or removed while the request was in
				// flight; replacing text now would hit the wrong element.
				LogDebug("pill result for a superseded input, discarding")
				return
			}
			if err != nil {
				LogError("pill enhancement failed: %v", err)
				if p.view != nil {
					p.view.Flash(false)
				}
				return
			}
			p.replaceText(input, reply.Prompt)
			if p.view != nil {
				p.view.Flash(true)
			}
			p.hide()
		})
	})
}

// replaceText rewrites the input's content and replays the platform's
// expected input-change notifications so the host page's own state (send
// enabled, drafts) recognizes the change.
func (p *Pill) replaceText(input Element, text string) {
	switch v := input.(type) {
	case ValueControl:
		v.SetValue(text)
		v.Dispatch(Event{Kind: EventInput})
		v.Dispatch(Event{Kind: EventChange})
	case RichEditor:
		v.SetText(text)
		for _, kind := range p.adapter.ReplayEvents {
			v.Dispatch(Event{Kind: kind})
		}
		v.Focus()
		v.MoveCaretToEnd()
		return
	}
	input.Focus()
}

func (p *Pill) show() {
	p.visible = true
	p.position()
}

func (p *Pill) position() {
	if p.input == nil || p.view == nil {
		return
	}
	vp := p.doc.Viewport()

	var x, y float64
	if pos, ok := ResolveCaret(p.doc, p.input, p.adapter); ok {
		x, y = PlaceOverlay(pos, vp)
	} else {
		// No caret geometry; anchor to the element box instead of failing
		// silently.
		x, y = PlaceFallback(p.input.Rect(), vp)
	}
	p.view.ShowAt(x, y)
}

func (p *Pill) hide() {
	p.visible = false
	if p.view != nil {
		p.view.Hide()
	}
}

func (p *Pill) setBusy(active bool) {
	p.busy = active
	if p.view != nil {
		p.view.Busy(active)
	}
}

func (p *Pill) detachTimers() {
	if p.cancelInput != nil {
		p.cancelInput()
		p.cancelInput = nil
	}
	if p.cancelCaret != nil {
		p.cancelCaret()
		p.cancelCaret = nil
	}
}
