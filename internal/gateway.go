package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultGatewayURL is the production enhancement API.
const DefaultGatewayURL = "https://afaque.pythonanywhere.com"

// TokenSource supplies the bearer credential, when one is held. The engine
// never issues credentials; it only forwards whatever the auth collaborator
// currently holds.
type TokenSource interface {
	Token(ctx context.Context) (string, bool)
}

// AnalyzeRequest asks for a warm acknowledgement of a first input.
type AnalyzeRequest struct {
	InputText string   `json:"input_text"`
	Platform  Platform `json:"platform"`
	Timestamp int64    `json:"timestamp"`
}

// WarmReply is the contextual acknowledgement for a first input.
type WarmReply struct {
	WarmMessage     string  `json:"warm_message"`
	DetectedTopic   string  `json:"detected_topic"`
	DetectedContext string  `json:"detected_context"`
	Confidence      float64 `json:"confidence"`
}

// SynthesizeRequest asks for a consolidated prompt built from the session's
// accumulated inputs.
type SynthesizeRequest struct {
	Inputs    []InputSnapshot `json:"inputs"`
	Platform  Platform        `json:"platform"`
	SessionID string          `json:"sessionId"`
}

// SynthesisReply carries the synthesized prompt.
type SynthesisReply struct {
	SynthesizedPrompt string `json:"synthesized_prompt"`
}

// PillRequest asks for an in-place rewrite of the text under the caret.
type PillRequest struct {
	Text     string   `json:"text"`
	Platform Platform `json:"platform"`
}

// EnhanceRequest asks for a mode-driven prompt enhancement.
type EnhanceRequest struct {
	Topic  string `json:"topic"`
	Mode   string `json:"mode"`
	Tone   string `json:"tone"`
	Length string `json:"length"`
}

// EnhanceReply carries generated prompt text.
type EnhanceReply struct {
	Prompt   string `json:"prompt"`
	Status   string `json:"status"`
	Metadata any    `json:"metadata,omitempty"`
}

// ExplainKind selects an explanation style.
type ExplainKind string

const (
	ExplainMeaning ExplainKind = "explain-meaning"
	ExplainStory   ExplainKind = "explain-story"
	ExplainELI5    ExplainKind = "explain-eli5"
)

// ExplainReply carries a structured explanation.
type ExplainReply struct {
	Explanation string `json:"explanation"`
}

// LoginReply carries the credential issued by the auth collaborator.
type LoginReply struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	Error   string `json:"error"`
}

// DeductReply reports a credit deduction.
type DeductReply struct {
	Success   bool   `json:"success"`
	Remaining int    `json:"remaining"`
	Message   string `json:"message"`
}

// Gateway is the remote enhancement API as the engine consumes it. Every
// operation carries its own timeout; no call may hang the caller
// indefinitely.
type Gateway interface {
	AnalyzeContext(ctx context.Context, req AnalyzeRequest) (*WarmReply, error)
	Synthesize(ctx context.Context, req SynthesizeRequest) (*SynthesisReply, error)
	EnhancePill(ctx context.Context, req PillRequest) (*EnhanceReply, error)
	Enhance(ctx context.Context, req EnhanceRequest) (*EnhanceReply, error)
	Explain(ctx context.Context, kind ExplainKind, text string) (*ExplainReply, error)
	Login(ctx context.Context, email, password string) (*LoginReply, error)
	Credits(ctx context.Context) (int, error)
	DeductCredits(ctx context.Context, feature string) (*DeductReply, error)
}

// Per-operation timeouts. Quick lookups are short, multi-step generation is
// long.
const (
	timeoutAnalyze    = 15 * time.Second
	timeoutSynthesize = 20 * time.Second
	timeoutPill       = 20 * time.Second
	timeoutGenerate   = 15 * time.Second
	timeoutPersona    = 30 * time.Second
	timeoutExplain    = 15 * time.Second
	timeoutAuth       = 15 * time.Second
)

// HTTPGateway talks JSON-over-HTTPS to the enhancement API.
type HTTPGateway struct {
	baseURL string
	client  *http.Client
	tokens  TokenSource
}

// NewHTTPGateway creates a gateway client. tokens may be nil when no auth
// collaborator is present; requests then go out unauthenticated.
func NewHTTPGateway(baseURL string, tokens TokenSource) *HTTPGateway {
	if baseURL == "" {
		baseURL = DefaultGatewayURL
	}
	return &HTTPGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
		tokens:  tokens,
	}
}

func (g *HTTPGateway) AnalyzeContext(ctx context.Context, req AnalyzeRequest) (*WarmReply, error) {
	var reply struct {
		Success bool `json:"success"`
		WarmReply
	}
	if err := g.post(ctx, "analyze-context", timeoutAnalyze, req, &reply); err != nil {
		return nil, err
	}
	if !reply.Success || reply.WarmMessage == "" {
		return nil, &MalformedResponseError{Op: "analyze-context", Field: "warm_message"}
	}
	return &reply.WarmReply, nil
}

func (g *HTTPGateway) Synthesize(ctx context.Context, req SynthesizeRequest) (*SynthesisReply, error) {
	var reply struct {
		Success bool `json:"success"`
		SynthesisReply
	}
	if err := g.post(ctx, "synthesize-conversation", timeoutSynthesize, req, &reply); err != nil {
		return nil, err
	}
	if !reply.Success || strings.TrimSpace(reply.SynthesizedPrompt) == "" {
		return nil, &MalformedResponseError{Op: "synthesize-conversation", Field: "synthesized_prompt"}
	}
	return &reply.SynthesisReply, nil
}

func (g *HTTPGateway) EnhancePill(ctx context.Context, req PillRequest) (*EnhanceReply, error) {
	var reply EnhanceReply
	if err := g.post(ctx, "magic-pill-enhance", timeoutPill, req, &reply); err != nil {
		return nil, err
	}
	if strings.TrimSpace(reply.Prompt) == "" {
		return nil, &MalformedResponseError{Op: "magic-pill-enhance", Field: "prompt"}
	}
	return &reply, nil
}

func (g *HTTPGateway) Enhance(ctx context.Context, req EnhanceRequest) (*EnhanceReply, error) {
	// Persona generation routes to its own endpoint with a longer bound and
	// a different payload shape.
	endpoint := "generate"
	timeout := timeoutGenerate
	var payload any = req
	if req.Mode == "persona_generator" {
		endpoint = "generate-persona"
		timeout = timeoutPersona
		payload = map[string]string{"text": req.Topic, "mode": req.Mode}
	}

	var reply EnhanceReply
	if err := g.post(ctx, endpoint, timeout, payload, &reply); err != nil {
		return nil, err
	}
	if strings.TrimSpace(reply.Prompt) == "" {
		return nil, &MalformedResponseError{Op: endpoint, Field: "prompt"}
	}
	return &reply, nil
}

func (g *HTTPGateway) Explain(ctx context.Context, kind ExplainKind, text string) (*ExplainReply, error) {
	var reply ExplainReply
	payload := map[string]string{"text": text}
	if err := g.post(ctx, string(kind), timeoutExplain, payload, &reply); err != nil {
		return nil, err
	}
	if strings.TrimSpace(reply.Explanation) == "" {
		return nil, &MalformedResponseError{Op: string(kind), Field: "explanation"}
	}
	return &reply, nil
}

func (g *HTTPGateway) Login(ctx context.Context, email, password string) (*LoginReply, error) {
	var reply LoginReply
	payload := map[string]string{"email": email, "password": password}
	if err := g.post(ctx, "auth/login", timeoutAuth, payload, &reply); err != nil {
		return nil, err
	}
	if reply.Success && reply.Token == "" {
		return nil, &MalformedResponseError{Op: "auth/login", Field: "token"}
	}
	return &reply, nil
}

func (g *HTTPGateway) Credits(ctx context.Context) (int, error) {
	var reply struct {
		Credits int `json:"credits"`
	}
	if err := g.get(ctx, "user-credits", timeoutAuth, &reply); err != nil {
		return 0, err
	}
	return reply.Credits, nil
}

func (g *HTTPGateway) DeductCredits(ctx context.Context, feature string) (*DeductReply, error) {
	var reply DeductReply
	payload := map[string]string{"feature": feature}
	if err := g.post(ctx, "deduct-credits", timeoutAuth, payload, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

func (g *HTTPGateway) post(ctx context.Context, op string, timeout time.Duration, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", op, err)
	}
	return g.do(ctx, http.MethodPost, op, timeout, bytes.NewReader(body), out)
}

func (g *HTTPGateway) get(ctx context.Context, op string, timeout time.Duration, out any) error {
	return g.do(ctx, http.MethodGet, op, timeout, nil, out)
}

func (g *HTTPGateway) do(ctx context.Context, method, op string, timeout time.Duration, body io.Reader, out any) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+"/"+op, body)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if g.tokens != nil {
		if token, ok := g.tokens.Token(ctx); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := g.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || (ctx.Err() != nil && errors.Is(ctx.Err(), context.DeadlineExceeded)) {
			return &TimeoutError{Op: op}
		}
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return &TimeoutError{Op: op}
		}
		return &NetworkError{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := upstreamDetail(data)
		return &UpstreamError{Op: op, Status: resp.StatusCode, Detail: detail}
	}

	if err := json.Unmarshal(data, out); err != nil {
		LogDebug("undecodable %s response: %v", op, err)
		return &MalformedResponseError{Op: op, Field: "body"}
	}
	return nil
}

// upstreamDetail pulls the error field out of a failure body when the
// gateway sent one that is safe to display.
func upstreamDetail(data []byte) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	return body.Error
}
