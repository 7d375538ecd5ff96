package internal

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Script is a recorded interaction sequence replayed against the simulated
// page. Replay runs on a manual clock with inline execution, so the same
// script always produces the same trace.
type Script struct {
	// Host and Path set the page's starting address.
	Host string `yaml:"host"`
	Path string `yaml:"path"`

	// Input selects the simulated input kind: "editor" (rich text, the
	// default) or "control" (plain value).
	Input string `yaml:"input,omitempty"`

	Steps []ScriptStep `yaml:"steps"`
}

// ScriptStep is one scripted action.
type ScriptStep struct {
	// Action is one of: navigate, type, submit, wait, accept_offer,
	// decline_offer, activate_pill.
	Action string `yaml:"action"`

	Host string        `yaml:"host,omitempty"`
	Path string        `yaml:"path,omitempty"`
	Text string        `yaml:"text,omitempty"`
	For  time.Duration `yaml:"for,omitempty"`
}

// LoadScript reads and validates a script file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	if err := script.Validate(); err != nil {
		return nil, err
	}
	return &script, nil
}

// Validate checks the script for errors a replay would only hit midway.
func (s *Script) Validate() error {
	if s.Host == "" {
		return fmt.Errorf("script has no starting host")
	}
	switch s.Input {
	case "", "editor", "control":
	default:
		return fmt.Errorf("unknown input kind %q", s.Input)
	}
	for i, step := range s.Steps {
		switch step.Action {
		case "navigate":
			if step.Host == "" && step.Path == "" {
				return fmt.Errorf("step %d: navigate needs a host or path", i+1)
			}
		case "type":
			if step.Text == "" {
				return fmt.Errorf("step %d: type needs text", i+1)
			}
		case "wait":
			if step.For <= 0 {
				return fmt.Errorf("step %d: wait needs a positive duration", i+1)
			}
		case "submit", "accept_offer", "decline_offer", "activate_pill":
		default:
			return fmt.Errorf("step %d: unknown action %q", i+1, step.Action)
		}
	}
	return nil
}

// ScriptRunner replays a script against a fresh simulated page.
type ScriptRunner struct {
	cfg     Config
	gateway Gateway
	view    *ConsoleView

	page   *SimPage
	clock  *ManualClock
	engine *Engine
	typer  interface{ Type(text string) }
	input  Element
}

// NewScriptRunner creates a runner. view may be nil for a silent replay.
func NewScriptRunner(cfg Config, gateway Gateway, view *ConsoleView) *ScriptRunner {
	return &ScriptRunner{cfg: cfg, gateway: gateway, view: view}
}

// Run replays the script from the beginning and returns the engine used,
// exposing the final session state to the caller.
func (r *ScriptRunner) Run(script *Script) (*Engine, error) {
	if err := script.Validate(); err != nil {
		return nil, err
	}

	r.page = NewSimPage(script.Host, script.Path)
	r.clock = NewManualClock(time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC))

	platform := DetectPlatform(script.Host, script.Path)
	if platform == PlatformUnknown {
		return nil, fmt.Errorf("script starts on an unsupported host %q", script.Host)
	}
	adapter := AdapterFor(platform)
	r.attachInput(adapter, script.Input)

	var overlayView OverlayView
	var pillView PillView
	if r.view != nil {
		overlayView = r.view
		pillView = r.view
	}
	r.engine = NewEngine(r.cfg, r.page, r.gateway, overlayView, pillView, r.clock, DirectExec())
	r.engine.Start()

	for i, step := range script.Steps {
		if err := r.runStep(step); err != nil {
			return r.engine, fmt.Errorf("step %d (%s): %w", i+1, step.Action, err)
		}
	}
	return r.engine, nil
}

// attachInput places an input node matching the adapter's primary selector,
// plus the platform's send button.
func (r *ScriptRunner) attachInput(adapter Adapter, kind string) {
	rect := Rect{X: 200, Y: 600, W: 800, H: 48}
	selectors := []string{adapter.InputSelectors[0]}

	if kind == "control" {
		ctrl := NewSimControl(r.page, selectors, rect)
		r.page.Attach(ctrl)
		r.typer = ctrl
		r.input = ctrl
	} else {
		ed := NewSimEditor(r.page, selectors, rect)
		r.page.Attach(ed)
		r.typer = ed
		r.input = ed
	}

	if len(adapter.SendSelectors) > 0 {
		send := NewSimControl(r.page, []string{adapter.SendSelectors[0]}, Rect{X: 1010, Y: 610, W: 36, H: 36})
		r.page.Attach(send)
	}
}

func (r *ScriptRunner) runStep(step ScriptStep) error {
	if r.view != nil {
		PrintTimestamp(r.clock.Now(), step.Action)
	}

	switch step.Action {
	case "navigate":
		host, path := r.page.Location()
		if step.Host != "" {
			host = step.Host
		}
		if step.Path != "" {
			path = step.Path
		}
		r.page.Navigate(host, path)
		r.engine.Rewatch()

	case "type":
		r.typer.Type(step.Text)

	case "submit":
		r.input.Dispatch(Event{Kind: EventKeydown, Key: "Enter"})
		r.clearInput()

	case "wait":
		r.clock.Advance(step.For)

	case "accept_offer":
		if !r.engine.Overlay().OfferPending() {
			return fmt.Errorf("no offer pending")
		}
		r.engine.Overlay().AcceptOffer()

	case "decline_offer":
		if !r.engine.Overlay().OfferPending() {
			return fmt.Errorf("no offer pending")
		}
		r.engine.Overlay().DeclineOffer()

	case "activate_pill":
		pill := r.engine.Pill()
		if pill == nil {
			return fmt.Errorf("pill not available")
		}
		pill.Activate()
	}
	return nil
}

// clearInput empties the field after a submit, the way the host page does.
func (r *ScriptRunner) clearInput() {
	switch v := r.input.(type) {
	case ValueControl:
		v.SetValue("")
	case RichEditor:
		v.SetText("")
	}
}
