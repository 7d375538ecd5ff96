package internal

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Platform identifies a supported AI chat platform.
type Platform string

const (
	PlatformChatGPT    Platform = "chatgpt"
	PlatformClaude     Platform = "claude"
	PlatformGemini     Platform = "gemini"
	PlatformDeepSeek   Platform = "deepseek"
	PlatformGrok       Platform = "grok"
	PlatformPerplexity Platform = "perplexity"
	PlatformUnknown    Platform = "unknown"
)

// DetectPlatform maps a page location to a known platform. Pure function;
// unrecognized hosts yield PlatformUnknown. Callers must re-detect on every
// use rather than cache: single-page apps change the address without a
// reload.
func DetectPlatform(host, path string) Platform {
	switch {
	case strings.Contains(host, "chatgpt.com"), strings.Contains(host, "chat.openai.com"):
		return PlatformChatGPT
	case strings.Contains(host, "claude.ai"):
		return PlatformClaude
	case strings.Contains(host, "gemini.google.com"), strings.Contains(host, "bard.google.com"):
		return PlatformGemini
	case strings.Contains(host, "chat.deepseek.com"):
		return PlatformDeepSeek
	case strings.Contains(host, "grok.com"):
		return PlatformGrok
	case strings.Contains(host, "x.com") && strings.Contains(path, "grok"):
		// Grok shares x.com with the rest of the product; the path fragment
		// disambiguates.
		return PlatformGrok
	case strings.Contains(host, "perplexity.ai"):
		return PlatformPerplexity
	}
	return PlatformUnknown
}

// MeasureStrategy selects where a caret-measurement surface is placed.
type MeasureStrategy int

const (
	// MeasureOffscreen hides the surface outside the viewport.
	MeasureOffscreen MeasureStrategy = iota

	// MeasureOverlaid places the surface exactly over the measured control.
	// DeepSeek and Grok apply transforms that skew off-screen measurement;
	// overlaying trades a brief visual no-op for correct offsets there.
	MeasureOverlaid
)

// Adapter carries the per-platform knowledge the engine dispatches on:
// candidate selectors, measurement strategy, watch window and the event
// sequence a rich editor expects after programmatic text replacement.
type Adapter struct {
	Platform       Platform
	InputSelectors []string
	SendSelectors  []string
	Measure        MeasureStrategy
	WatchWindow    time.Duration
	ReplayEvents   []EventKind

	threadPattern *regexp.Regexp
}

var (
	chatgptThread = regexp.MustCompile(`/c/([a-zA-Z0-9-]+)`)
	claudeThread  = regexp.MustCompile(`/chat/([a-zA-Z0-9-]+)`)
	geminiThread  = regexp.MustCompile(`/app/([a-zA-Z0-9-]+)`)
)

var genericSendSelectors = []string{
	`button[aria-label*="Send"]`,
	`[data-testid*="send"]`,
	`button[type="submit"]`,
}

var adapters = map[Platform]Adapter{
	PlatformChatGPT: {
		Platform: PlatformChatGPT,
		InputSelectors: []string{
			"#prompt-textarea",
			`textarea[data-id="root"]`,
			`textarea[placeholder*="Send"]`,
			`textarea[placeholder*="Message"]`,
			`div[contenteditable="true"]`,
		},
		SendSelectors: []string{
			`[data-testid="send-button"]`,
			`button[aria-label*="Send"]`,
			`button[type="submit"]`,
			`button[class*="send"]`,
		},
		Measure:       MeasureOffscreen,
		WatchWindow:   60 * time.Second,
		ReplayEvents:  []EventKind{EventInput},
		threadPattern: chatgptThread,
	},
	PlatformClaude: {
		Platform: PlatformClaude,
		InputSelectors: []string{
			`div.ProseMirror[contenteditable="true"]`,
			`div[contenteditable="true"][data-placeholder]`,
			`div[contenteditable="true"]`,
		},
		SendSelectors: genericSendSelectors,
		Measure:       MeasureOffscreen,
		WatchWindow:   30 * time.Second,
		// ProseMirror ignores bare input events.
		ReplayEvents:  []EventKind{EventBeforeInput, EventInput},
		threadPattern: claudeThread,
	},
	PlatformGemini: {
		Platform: PlatformGemini,
		InputSelectors: []string{
			`.ql-editor[contenteditable="true"]`,
			`div[contenteditable="true"][aria-label*="message"]`,
			`div[contenteditable="true"]`,
			`rich-textarea .ql-editor`,
		},
		SendSelectors: []string{
			`button[aria-label*="Send"]`,
			`[title*="Send"]`,
			`button[type="submit"]`,
		},
		Measure:       MeasureOffscreen,
		WatchWindow:   30 * time.Second,
		ReplayEvents:  []EventKind{EventInput, EventTextInput},
		threadPattern: geminiThread,
	},
	PlatformDeepSeek: {
		Platform: PlatformDeepSeek,
		InputSelectors: []string{
			`textarea[placeholder*="Message"]`,
			"textarea.chat-input",
			`div[contenteditable="true"]`,
			"textarea",
		},
		SendSelectors: genericSendSelectors,
		Measure:       MeasureOverlaid,
		WatchWindow:   30 * time.Second,
		ReplayEvents:  []EventKind{EventInput},
	},
	PlatformGrok: {
		Platform: PlatformGrok,
		InputSelectors: []string{
			`textarea[placeholder*="Enter"]`,
			`textarea[placeholder*="Message"]`,
			`textarea[placeholder*="Type"]`,
			`div[contenteditable="true"]`,
			"textarea.input",
			"textarea",
			"#chat-input",
			".chat-input",
		},
		SendSelectors: genericSendSelectors,
		Measure:       MeasureOverlaid,
		WatchWindow:   30 * time.Second,
		ReplayEvents:  []EventKind{EventInput},
	},
	PlatformPerplexity: {
		Platform: PlatformPerplexity,
		InputSelectors: []string{
			"textarea",
			`div[contenteditable="true"]`,
			`div[role="textbox"]`,
		},
		SendSelectors: genericSendSelectors,
		Measure:       MeasureOffscreen,
		WatchWindow:   30 * time.Second,
		ReplayEvents:  []EventKind{EventInput},
	},
}

// AdapterFor returns the adapter for a platform. Unknown platforms get a
// generic adapter so callers degrade instead of branching.
func AdapterFor(p Platform) Adapter {
	if a, ok := adapters[p]; ok {
		return a
	}
	return Adapter{
		Platform: p,
		InputSelectors: []string{
			"textarea",
			`div[contenteditable="true"]`,
			`div[role="textbox"]`,
		},
		SendSelectors: genericSendSelectors,
		Measure:       MeasureOffscreen,
		WatchWindow:   30 * time.Second,
		ReplayEvents:  []EventKind{EventInput},
	}
}

// SessionID derives a deterministic session identifier from the platform and
// the thread id embedded in the path. Paths without a recognizable thread id
// fall back to a per-load identifier.
func SessionID(p Platform, path string, now time.Time) string {
	if a, ok := adapters[p]; ok && a.threadPattern != nil {
		if m := a.threadPattern.FindStringSubmatch(path); m != nil {
			return fmt.Sprintf("%s_%s", p, m[1])
		}
	}
	return fmt.Sprintf("%s_%d", p, now.UnixMilli())
}
