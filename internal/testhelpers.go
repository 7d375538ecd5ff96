package internal

import (
	"context"
	"time"
)

// FakeGateway is a scriptable Gateway for tests and offline replay. Each
// reply field, when set, is returned as-is; an unset reply yields a canned
// success. Err, when set, fails every call.
type FakeGateway struct {
	Err error

	Warm      *WarmReply
	Synthesis *SynthesisReply
	Pill      *EnhanceReply
	Enhanced  *EnhanceReply
	Explained *ExplainReply
	LoginR    *LoginReply
	Balance   int
	Deduction *DeductReply

	// Calls records the operation names in invocation order.
	Calls []string

	// Hold, when non-nil, is invoked before every reply; tests use it to
	// block a call until they release it.
	Hold func(op string)
}

func (f *FakeGateway) record(op string) error {
	f.Calls = append(f.Calls, op)
	if f.Hold != nil {
		f.Hold(op)
	}
	return f.Err
}

func (f *FakeGateway) AnalyzeContext(ctx context.Context, req AnalyzeRequest) (*WarmReply, error) {
	if err := f.record("analyze"); err != nil {
		return nil, err
	}
	if f.Warm != nil {
		return f.Warm, nil
	}
	return &WarmReply{WarmMessage: "Happy to help with that!"}, nil
}

func (f *FakeGateway) Synthesize(ctx context.Context, req SynthesizeRequest) (*SynthesisReply, error) {
	if err := f.record("synthesize"); err != nil {
		return nil, err
	}
	if f.Synthesis != nil {
		return f.Synthesis, nil
	}
	return &SynthesisReply{SynthesizedPrompt: "synthesized prompt"}, nil
}

func (f *FakeGateway) EnhancePill(ctx context.Context, req PillRequest) (*EnhanceReply, error) {
	if err := f.record("pill"); err != nil {
		return nil, err
	}
	if f.Pill != nil {
		return f.Pill, nil
	}
	return &EnhanceReply{Prompt: "enhanced: " + req.Text, Status: "success"}, nil
}

func (f *FakeGateway) Enhance(ctx context.Context, req EnhanceRequest) (*EnhanceReply, error) {
	if err := f.record("enhance"); err != nil {
		return nil, err
	}
	if f.Enhanced != nil {
		return f.Enhanced, nil
	}
	return &EnhanceReply{Prompt: "enhanced prompt", Status: "success"}, nil
}

func (f *FakeGateway) Explain(ctx context.Context, kind ExplainKind, text string) (*ExplainReply, error) {
	if err := f.record(string(kind)); err != nil {
		return nil, err
	}
	if f.Explained != nil {
		return f.Explained, nil
	}
	return &ExplainReply{Explanation: "an explanation"}, nil
}

func (f *FakeGateway) Login(ctx context.Context, email, password string) (*LoginReply, error) {
	if err := f.record("login"); err != nil {
		return nil, err
	}
	if f.LoginR != nil {
		return f.LoginR, nil
	}
	return &LoginReply{Success: true, Token: "test-token"}, nil
}

func (f *FakeGateway) Credits(ctx context.Context) (int, error) {
	if err := f.record("credits"); err != nil {
		return 0, err
	}
	return f.Balance, nil
}

func (f *FakeGateway) DeductCredits(ctx context.Context, feature string) (*DeductReply, error) {
	if err := f.record("deduct"); err != nil {
		return nil, err
	}
	if f.Deduction != nil {
		return f.Deduction, nil
	}
	return &DeductReply{Success: true, Remaining: f.Balance}, nil
}

// RecordingOverlayView captures every overlay transition for assertion.
type RecordingOverlayView struct {
	States   []OverlayState
	Payloads []string
	Notices  []string
	Offers   []string
}

func (v *RecordingOverlayView) ShowState(state OverlayState, payload string) {
	v.States = append(v.States, state)
	v.Payloads = append(v.Payloads, payload)
}

func (v *RecordingOverlayView) ShowNotice(text string) {
	v.Notices = append(v.Notices, text)
}

func (v *RecordingOverlayView) HideNotice() {}

func (v *RecordingOverlayView) ShowOffer(text string) {
	v.Offers = append(v.Offers, text)
}

func (v *RecordingOverlayView) HideOffer() {}

// LastState returns the most recent state shown, or StateHidden.
func (v *RecordingOverlayView) LastState() OverlayState {
	if len(v.States) == 0 {
		return StateHidden
	}
	return v.States[len(v.States)-1]
}

// RecordingPillView captures pill placement and outcome flashes.
type RecordingPillView struct {
	Positions [][2]float64
	Hidden    int
	BusyLog   []bool
	Flashes   []bool
}

func (v *RecordingPillView) ShowAt(x, y float64) {
	v.Positions = append(v.Positions, [2]float64{x, y})
}

func (v *RecordingPillView) Hide() {
	v.Hidden++
}

func (v *RecordingPillView) Busy(active bool) {
	v.BusyLog = append(v.BusyLog, active)
}

func (v *RecordingPillView) Flash(ok bool) {
	v.Flashes = append(v.Flashes, ok)
}

// NewTestClock returns a manual clock at a fixed instant.
func NewTestClock() *ManualClock {
	return NewManualClock(time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC))
}

// NewTestSession creates a session with n recorded inputs.
func NewTestSession(id string, platform Platform, n int) *ConversationSession {
	sess := &ConversationSession{
		SessionID: id,
		Platform:  platform,
		StartedAt: time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC),
	}
	for i := 0; i < n; i++ {
		sess.Inputs = append(sess.Inputs, InputSnapshot{
			Text:       "input number " + string(rune('a'+i)),
			CapturedAt: sess.StartedAt.Add(time.Duration(i) * time.Minute),
		})
	}
	return sess
}
