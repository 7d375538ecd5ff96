package internal

import (
	"strings"
	"testing"
	"time"
)

func newTestTracker(gw Gateway) (*Tracker, *Overlay, *RecordingOverlayView, *ManualClock) {
	clock := NewTestClock()
	view := &RecordingOverlayView{}
	overlay := NewOverlay(view, clock)
	tracker := NewTracker(DefaultConfig(), gw, overlay, clock, DirectExec())
	return tracker, overlay, view, clock
}

func TestSyncSessionReplacesOnNewThread(t *testing.T) {
	tracker, _, _, _ := newTestTracker(&FakeGateway{})

	first := tracker.SyncSession(PlatformChatGPT, "/c/one")
	again := tracker.SyncSession(PlatformChatGPT, "/c/one")
	if first != again {
		t.Error("same thread produced a new session")
	}

	second := tracker.SyncSession(PlatformChatGPT, "/c/two")
	if second == first {
		t.Error("new thread did not replace the session")
	}
	if len(second.Inputs) != 0 {
		t.Error("replacement session inherited inputs")
	}
}

func TestFallbackSessionStableWhileLocationUnchanged(t *testing.T) {
	tracker, _, _, clock := newTestTracker(&FakeGateway{})

	// No thread pattern for deepseek: the id falls back to a timestamp. The
	// engine resyncs before every submit, so the id must not be re-minted
	// while the location is unchanged.
	tracker.SyncSession(PlatformDeepSeek, "/")
	tracker.RecordSubmit("first draft of the question")

	clock.Advance(3 * time.Second)
	tracker.SyncSession(PlatformDeepSeek, "/")
	tracker.RecordSubmit("second draft of the question")

	sess := tracker.Session()
	if len(sess.Inputs) != 2 {
		t.Fatalf("inputs = %d, want 2 accumulated across resyncs", len(sess.Inputs))
	}
}

func TestFallbackSessionReplacedOnNavigation(t *testing.T) {
	tracker, _, _, clock := newTestTracker(&FakeGateway{})

	first := tracker.SyncSession(PlatformDeepSeek, "/")
	clock.Advance(time.Second)
	second := tracker.SyncSession(PlatformDeepSeek, "/a/some-chat")
	if second == first {
		t.Error("navigation did not replace the fallback session")
	}
}

func TestRecordSubmitDropsShortInputs(t *testing.T) {
	tracker, _, _, _ := newTestTracker(&FakeGateway{})
	tracker.SyncSession(PlatformChatGPT, "/c/one")

	for _, text := range []string{"", "   ", "hi", "ова", "a b "} {
		tracker.RecordSubmit(text)
	}
	if n := len(tracker.Session().Inputs); n != 0 {
		t.Errorf("recorded %d inputs, want 0 for sub-minimum texts", n)
	}

	tracker.RecordSubmit("  hello  ")
	if n := len(tracker.Session().Inputs); n != 1 {
		t.Fatalf("recorded %d inputs, want 1", n)
	}
	if got := tracker.Session().Inputs[0].Text; got != "hello" {
		t.Errorf("stored text = %q, want trimmed %q", got, "hello")
	}
}

func TestRecordSubmitCountsRunesNotBytes(t *testing.T) {
	tracker, _, _, _ := newTestTracker(&FakeGateway{})
	tracker.SyncSession(PlatformChatGPT, "/c/one")

	// Five runes, more than five bytes.
	tracker.RecordSubmit("приве")
	if n := len(tracker.Session().Inputs); n != 1 {
		t.Errorf("recorded %d inputs, want 1 for a five-rune text", n)
	}
}

func TestRecordSubmitWithoutSession(t *testing.T) {
	tracker, _, _, _ := newTestTracker(&FakeGateway{})

	// Must not panic, must not record anywhere.
	tracker.RecordSubmit("hello world")
	if tracker.Session() != nil {
		t.Error("a session appeared from nowhere")
	}
}

func TestFirstInputTriggersWarmNotice(t *testing.T) {
	gw := &FakeGateway{Warm: &WarmReply{WarmMessage: "Working on your essay!"}}
	tracker, _, view, _ := newTestTracker(gw)
	tracker.SyncSession(PlatformChatGPT, "/c/one")

	tracker.RecordSubmit("write an essay about birds")

	if len(gw.Calls) != 1 || gw.Calls[0] != "analyze" {
		t.Fatalf("gateway calls = %v, want [analyze]", gw.Calls)
	}
	if len(view.Notices) < 2 {
		t.Fatalf("notices = %v, want analyzing then warm message", view.Notices)
	}
	if view.Notices[0] != "Analyzing your input..." {
		t.Errorf("first notice = %q", view.Notices[0])
	}
	if view.Notices[1] != "Working on your essay!" {
		t.Errorf("warm notice = %q", view.Notices[1])
	}
}

func TestWarmNoticeFallsBackOnGatewayError(t *testing.T) {
	gw := &FakeGateway{Err: &NetworkError{Op: "analyze"}}
	tracker, _, view, _ := newTestTracker(gw)
	tracker.SyncSession(PlatformChatGPT, "/c/one")

	tracker.RecordSubmit("write an essay about birds")

	last := view.Notices[len(view.Notices)-1]
	if last != fallbackWarmNotice {
		t.Errorf("fallback notice = %q, want %q", last, fallbackWarmNotice)
	}
}

func TestInterventionCadence(t *testing.T) {
	tracker, overlay, _, clock := newTestTracker(&FakeGateway{})
	tracker.SyncSession(PlatformChatGPT, "/c/one")

	offersAt := make(map[int]bool)
	inputs := []string{
		"write an essay",
		"make it shorter",
		"add a title",
		"use formal tone",
		"cite two sources",
	}
	for i, text := range inputs {
		tracker.RecordSubmit(text)
		clock.Advance(DefaultConfig().OfferDelay)
		if overlay.OfferPending() {
			offersAt[i+1] = true
			overlay.DeclineOffer()
		}
	}

	// Interval 2: offers on inputs 2 and 4, nowhere else.
	for n := 1; n <= len(inputs); n++ {
		want := n%2 == 0
		if offersAt[n] != want {
			t.Errorf("offer after input %d = %v, want %v", n, offersAt[n], want)
		}
	}
}

func TestOfferDelayedUntilConfiguredDelay(t *testing.T) {
	tracker, overlay, _, clock := newTestTracker(&FakeGateway{})
	tracker.SyncSession(PlatformChatGPT, "/c/one")

	tracker.RecordSubmit("write an essay")
	tracker.RecordSubmit("make it shorter")

	if overlay.OfferPending() {
		t.Fatal("offer appeared before the configured delay")
	}
	clock.Advance(DefaultConfig().OfferDelay)
	if !overlay.OfferPending() {
		t.Fatal("offer missing after the delay")
	}
}

func TestConsolidatedContextJoinsInputs(t *testing.T) {
	tracker, _, _, clock := newTestTracker(&FakeGateway{})
	tracker.SyncSession(PlatformChatGPT, "/c/one")

	tracker.RecordSubmit("write an essay")
	tracker.RecordSubmit("make it shorter")
	clock.Advance(time.Second)

	want := "write an essay + make it shorter"
	if got := tracker.Session().ConsolidatedContext; got != want {
		t.Errorf("ConsolidatedContext = %q, want %q", got, want)
	}
}

func TestAcceptedOfferSynthesizesAndCountsIntervention(t *testing.T) {
	gw := &FakeGateway{Synthesis: &SynthesisReply{SynthesizedPrompt: "one good prompt"}}
	tracker, overlay, view, clock := newTestTracker(gw)
	tracker.SyncSession(PlatformChatGPT, "/c/one")

	tracker.RecordSubmit("write an essay")
	tracker.RecordSubmit("make it shorter")
	clock.Advance(time.Second)
	overlay.AcceptOffer()

	if overlay.State() != StateResult {
		t.Fatalf("state = %v, want result", overlay.State())
	}
	if got := view.Payloads[len(view.Payloads)-1]; got != "one good prompt" {
		t.Errorf("result payload = %q", got)
	}
	if got := tracker.Session().InterventionCount; got != 1 {
		t.Errorf("InterventionCount = %d, want 1", got)
	}
}

func TestFailedSynthesisShowsErrorWithoutCounting(t *testing.T) {
	gw := &FakeGateway{}
	tracker, overlay, view, clock := newTestTracker(gw)
	tracker.SyncSession(PlatformChatGPT, "/c/one")

	tracker.RecordSubmit("write an essay")
	gw.Err = &NetworkError{Op: "synthesize"}
	tracker.RecordSubmit("make it shorter")
	clock.Advance(time.Second)
	overlay.AcceptOffer()

	if overlay.State() != StateError {
		t.Fatalf("state = %v, want error", overlay.State())
	}
	if got := view.Payloads[len(view.Payloads)-1]; !strings.Contains(got, "Network error") {
		t.Errorf("error payload = %q, want network wording", got)
	}
	if got := tracker.Session().InterventionCount; got != 0 {
		t.Errorf("InterventionCount = %d, want 0 after a failure", got)
	}
}

func TestNavigationCancelsPendingOfferDelay(t *testing.T) {
	tracker, overlay, _, clock := newTestTracker(&FakeGateway{})
	tracker.SyncSession(PlatformChatGPT, "/c/one")

	tracker.RecordSubmit("write an essay")
	tracker.RecordSubmit("make it shorter")

	// Navigate away before the offer delay elapses.
	tracker.SyncSession(PlatformChatGPT, "/c/two")
	clock.Advance(time.Minute)

	if overlay.OfferPending() {
		t.Error("offer from the abandoned session surfaced after navigation")
	}
}

func TestSynthesisForSupersededSessionIsAbandoned(t *testing.T) {
	gw := &FakeGateway{}
	tracker, overlay, _, clock := newTestTracker(gw)
	tracker.SyncSession(PlatformChatGPT, "/c/one")

	// Navigate away while the synthesize call is in flight.
	gw.Hold = func(op string) {
		if op == "synthesize" {
			tracker.SyncSession(PlatformChatGPT, "/c/two")
		}
	}

	tracker.RecordSubmit("write an essay")
	tracker.RecordSubmit("make it shorter")
	clock.Advance(time.Second)
	overlay.AcceptOffer()

	if overlay.State() == StateResult {
		t.Error("stale synthesis displayed after navigation")
	}
}
