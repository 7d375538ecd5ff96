package internal

import (
	"testing"
	"time"

	"github.com/solthron/autopilot/testutil"
)

func TestScriptValidate(t *testing.T) {
	tests := []struct {
		name    string
		script  Script
		wantErr bool
	}{
		{
			"valid",
			Script{Host: "claude.ai", Steps: []ScriptStep{
				{Action: "type", Text: "hello"},
				{Action: "submit"},
				{Action: "wait", For: time.Second},
			}},
			false,
		},
		{"no host", Script{Steps: []ScriptStep{{Action: "submit"}}}, true},
		{"unknown action", Script{Host: "claude.ai", Steps: []ScriptStep{{Action: "dance"}}}, true},
		{"type without text", Script{Host: "claude.ai", Steps: []ScriptStep{{Action: "type"}}}, true},
		{"wait without duration", Script{Host: "claude.ai", Steps: []ScriptStep{{Action: "wait"}}}, true},
		{"navigate without target", Script{Host: "claude.ai", Steps: []ScriptStep{{Action: "navigate"}}}, true},
		{"bad input kind", Script{Host: "claude.ai", Input: "canvas"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.script.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadScript(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	path := testutil.WriteFile(t, dir, "session.yaml", `
host: claude.ai
path: /chat/abc
steps:
  - action: type
    text: write an essay about birds
  - action: submit
  - action: wait
    for: 2s
`)

	script, err := LoadScript(path)
	if err != nil {
		t.Fatalf("LoadScript() error = %v", err)
	}
	if script.Host != "claude.ai" || len(script.Steps) != 3 {
		t.Errorf("script = %+v", script)
	}
	if script.Steps[2].For != 2*time.Second {
		t.Errorf("wait duration = %v, want 2s", script.Steps[2].For)
	}
}

func TestLoadScriptRejectsInvalid(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	path := testutil.WriteFile(t, dir, "bad.yaml", "steps:\n  - action: submit\n")

	if _, err := LoadScript(path); err == nil {
		t.Error("LoadScript() accepted a script without a host")
	}
}

func TestScriptRunnerFullFlow(t *testing.T) {
	gw := &FakeGateway{Synthesis: &SynthesisReply{SynthesizedPrompt: "combined"}}
	runner := NewScriptRunner(DefaultConfig(), gw, nil)

	engine, err := runner.Run(&Script{
		Host: "claude.ai",
		Path: "/chat/abc",
		Steps: []ScriptStep{
			{Action: "type", Text: "write an essay about birds"},
			{Action: "submit"},
			{Action: "type", Text: "make it about owls"},
			{Action: "submit"},
			{Action: "wait", For: time.Second},
			{Action: "accept_offer"},
		},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	sess := engine.Tracker().Session()
	if len(sess.Inputs) != 2 {
		t.Errorf("inputs = %d, want 2", len(sess.Inputs))
	}
	if sess.InterventionCount != 1 {
		t.Errorf("InterventionCount = %d, want 1", sess.InterventionCount)
	}
	if engine.Overlay().State() != StateResult {
		t.Errorf("state = %v, want result", engine.Overlay().State())
	}
}

func TestScriptRunnerAcceptWithoutOfferFails(t *testing.T) {
	runner := NewScriptRunner(DefaultConfig(), &FakeGateway{}, nil)

	_, err := runner.Run(&Script{
		Host:  "claude.ai",
		Steps: []ScriptStep{{Action: "accept_offer"}},
	})
	if err == nil {
		t.Error("Run() accepted an offer that was never made")
	}
}

func TestScriptRunnerUnsupportedHost(t *testing.T) {
	runner := NewScriptRunner(DefaultConfig(), &FakeGateway{}, nil)

	if _, err := runner.Run(&Script{Host: "example.com"}); err == nil {
		t.Error("Run() started on an unsupported host")
	}
}

func TestScriptRunnerValueControlInput(t *testing.T) {
	runner := NewScriptRunner(DefaultConfig(), &FakeGateway{}, nil)

	engine, err := runner.Run(&Script{
		Host:  "chat.deepseek.com",
		Input: "control",
		Steps: []ScriptStep{
			{Action: "type", Text: "explain quantum tunneling"},
			{Action: "submit"},
		},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if n := len(engine.Tracker().Session().Inputs); n != 1 {
		t.Errorf("inputs = %d, want 1", n)
	}
}

func TestScriptRunnerNavigation(t *testing.T) {
	runner := NewScriptRunner(DefaultConfig(), &FakeGateway{}, nil)

	engine, err := runner.Run(&Script{
		Host: "claude.ai",
		Path: "/chat/abc",
		Steps: []ScriptStep{
			{Action: "type", Text: "first thread question"},
			{Action: "submit"},
			{Action: "navigate", Path: "/chat/other"},
			{Action: "type", Text: "second thread question"},
			{Action: "submit"},
		},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	sess := engine.Tracker().Session()
	if sess.SessionID != "claude_other" {
		t.Errorf("session id = %q, want claude_other", sess.SessionID)
	}
	if len(sess.Inputs) != 1 {
		t.Errorf("inputs = %d, want only the second thread's", len(sess.Inputs))
	}
}
