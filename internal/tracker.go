package internal

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"
)

// Notice durations for the warm acknowledgement flow.
const (
	analyzingNoticeFor = 2 * time.Second
	warmNoticeFor      = 5 * time.Second
	fallbackNoticeFor  = 3 * time.Second
)

const fallbackWarmNotice = "Auto mode active - watching your conversation!"

// Tracker accumulates the user's submitted inputs per conversation session
// and decides when to offer a consolidated prompt. All entry points run on
// the page event loop; gateway calls are spawned and their effects posted
// back, re-validating the active session first since it may have been
// superseded while the call was in flight.
type Tracker struct {
	cfg     Config
	gateway Gateway
	overlay *Overlay
	clock   Clock
	exec    Exec

	session          *ConversationSession
	lastPath         string
	cancelOfferDelay func()
}

// NewTracker creates a tracker with no active session.
func NewTracker(cfg Config, gateway Gateway, overlay *Overlay, clock Clock, exec Exec) *Tracker {
	return &Tracker{cfg: cfg, gateway: gateway, overlay: overlay, clock: clock, exec: exec}
}

// Session returns the active session, or nil before the first sync.
func (t *Tracker) Session() *ConversationSession {
	return t.session
}

// SyncSession re-derives the session identifier from the current location
// and replaces the session when it changed. Re-derivation is skipped while
// the location is unchanged: platforms without a thread id in the path get
// a timestamp fallback id, which must stay stable between navigations or
// every resync would discard the session mid-conversation. The old session
// is discarded, never merged; its pending offer delay is cancelled.
func (t *Tracker) SyncSession(platform Platform, path string) *ConversationSession {
	if t.session != nil && t.session.Platform == platform && t.lastPath == path {
		return t.session
	}
	t.lastPath = path

	now := t.clock.Now()
	id := SessionID(platform, path, now)
	if t.session != nil && t.session.SessionID == id {
		return t.session
	}

	LogInfo("new session detected: %s", id)
	if t.cancelOfferDelay != nil {
		t.cancelOfferDelay()
		t.cancelOfferDelay = nil
	}
	t.session = &ConversationSession{
		SessionID: id,
		Platform:  platform,
		StartedAt: now,
	}
	return t.session
}

// RecordSubmit handles a submit gesture. Inputs shorter than the configured
// minimum after trimming are noise and are dropped without any state change.
func (t *Tracker) RecordSubmit(text string) {
	if t.session == nil {
		LogWarn("submit without an active session, dropping")
		return
	}

	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(trimmed) < t.cfg.MinInputLength {
		LogDebug("dropping input below minimum length: %q", trimmed)
		return
	}

	sess := t.session
	sess.Inputs = append(sess.Inputs, InputSnapshot{Text: trimmed, CapturedAt: t.clock.Now()})
	n := len(sess.Inputs)
	LogDebug("input #%d recorded for %s", n, sess.SessionID)

	if n == 1 {
		t.warmAcknowledge(sess, trimmed)
	}

	if n >= t.cfg.InterventionInterval && n%t.cfg.InterventionInterval == 0 {
		t.scheduleOffer(sess)
	}
}

// warmAcknowledge requests a contextual greeting for the session's first
// input. Fire-and-forget: the result only affects a transient notice, and a
// failure degrades to a generic one.
func (t *Tracker) warmAcknowledge(sess *ConversationSession, text string) {
	t.overlay.Notify("Analyzing your input...", analyzingNoticeFor)

	req := AnalyzeRequest{
		InputText: text,
		Platform:  sess.Platform,
		Timestamp: t.clock.Now().UnixMilli(),
	}
	t.exec.Spawn(func() {
		reply, err := t.gateway.AnalyzeContext(context.Background(), req)
		t.exec.Post(func() {
			if t.session != sess {
				return
			}
			if err != nil {
				LogDebug("context analysis failed: %v", err)
				t.overlay.Notify(fallbackWarmNotice, fallbackNoticeFor)
				return
			}
			t.overlay.Notify(reply.WarmMessage, warmNoticeFor)
		})
	})
}

// scheduleOffer consolidates the accepted inputs and presents the offer
// after a short delay so the user sees their own message land first.
func (t *Tracker) scheduleOffer(sess *ConversationSession) {
	sess.ConsolidatedContext = strings.Join(sess.InputTexts(), " + ")
	LogDebug("intervention trigger at %d inputs", len(sess.Inputs))

	if t.cancelOfferDelay != nil {
		t.cancelOfferDelay()
	}
	t.cancelOfferDelay = t.clock.AfterFunc(t.cfg.OfferDelay, func() {
		t.cancelOfferDelay = nil
		if t.session != sess {
			return
		}
		t.overlay.OfferConsolidation(
			"I see you're refining your request. Let me craft a better prompt combining everything!",
			t.cfg.OfferTimeout,
			func() { t.acceptConsolidation(sess) },
			nil,
		)
	})
}

// acceptConsolidation sends the accumulated inputs for synthesis and shows
// the result. The intervention count advances only on a displayed result.
func (t *Tracker) acceptConsolidation(sess *ConversationSession) {
	token := t.overlay.BeginLoading("Crafting better prompt...", timeoutSynthesize)

	req := SynthesizeRequest{
		Inputs:    append([]InputSnapshot(nil), sess.Inputs...),
		Platform:  sess.Platform,
		SessionID: sess.SessionID,
	}
	t.exec.Spawn(func() {
		reply, err := t.gateway.Synthesize(context.Background(), req)
		t.exec.Post(func() {
			if t.session != sess {
				t.overlay.Abandon(token)
				return
			}
			if err != nil {
				t.overlay.FinishError(token, err)
				return
			}
			if t.overlay.FinishResult(token, reply.SynthesizedPrompt) {
				sess.InterventionCount++
			}
		})
	})
}
