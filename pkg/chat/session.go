package chat

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/helmcode/boot-ai/pkg/llm"
	"github.com/helmcode/boot-ai/pkg/model"
	"github.com/helmcode/boot-ai/pkg/prompts"
)

// State tracks where a session is in its request cycle.
type State int

const (
	// StateIdle: no turn exchanged yet, or the last send failed.
	StateIdle State = iota
	// StateAwaitingResponse: a request is in flight; further sends
	// are rejected until the reply lands.
	StateAwaitingResponse
	// StateActive: at least one round trip completed.
	StateActive
)

// ErrBusy is returned when a send is attempted while a previous
// request is still outstanding.
var ErrBusy = errors.New("a chat request is already in flight")

const (
	greeting        = "I have access to your boot logs. Focus on any issue, or ask me questions about your system."
	clearedGreeting = "Chat cleared. I still have access to your boot logs. How can I help?"
)

// Session holds the ordered conversation history, the issue focus and
// the boot log context for one chat conversation. History is
// append-only except for Clear. A Session owns its history exclusively
// and is not safe for concurrent use: exactly one request may be
// outstanding at a time, serialized by the caller.
type Session struct {
	id      uuid.UUID
	llm     llm.LLM
	logText string
	history []model.Turn
	focus   *model.Issue
	state   State
}

// NewSession creates a session anchored on the given boot log text,
// opening with a single assistant greeting turn.
func NewSession(l llm.LLM, logText string) *Session {
	return &Session{
		id:      uuid.New(),
		llm:     l,
		logText: logText,
		history: []model.Turn{{Role: model.RoleAssistant, Content: greeting}},
		state:   StateIdle,
	}
}

func (s *Session) ID() string {
	return s.id.String()
}

func (s *Session) State() State {
	return s.state
}

// Focus returns the issue the session is anchored on, nil when unset.
func (s *Session) Focus() *model.Issue {
	return s.focus
}

// History returns a copy of the conversation so far, in send/receive
// order. System-role turns are local markers and are never sent to the
// remote service.
func (s *Session) History() []model.Turn {
	out := make([]model.Turn, len(s.history))
	copy(out, s.history)
	return out
}

// Send appends the user message to history, performs one round trip
// and appends the assistant reply. On transport failure the user turn
// stays in history so the user can retry, and the session returns to
// idle.
func (s *Session) Send(message string) (string, error) {
	if s.state == StateAwaitingResponse {
		return "", ErrBusy
	}

	// The request replays history as it was before this message; the
	// new message rides as the final turn.
	prior := s.history
	s.history = append(s.history, model.Turn{Role: model.RoleUser, Content: message})
	s.state = StateAwaitingResponse

	turns := prompts.BuildChatRequest(message, s.logText, s.focus, prior)
	reply, err := s.llm.SubmitChat(turns)
	if err != nil {
		s.state = StateIdle
		return "", fmt.Errorf("chat request failed: %w", err)
	}

	s.history = append(s.history, model.Turn{Role: model.RoleAssistant, Content: reply})
	s.state = StateActive
	return reply, nil
}

// FocusOnIssue anchors the session on an issue and immediately asks
// the assistant to walk through its remediation. History gains, in
// order: a system-style focus marker, the synthetic user turn, and
// (after the round trip) the assistant reply.
func (s *Session) FocusOnIssue(issue model.Issue) (string, error) {
	if s.state == StateAwaitingResponse {
		return "", ErrBusy
	}

	problem := issue.Problem
	if problem == "" {
		problem = "this issue"
	}
	remediation := issue.Remediation
	if remediation == "" {
		remediation = "N/A"
	}

	s.focus = &issue
	s.history = append(s.history, model.Turn{
		Role:    model.RoleSystem,
		Content: fmt.Sprintf("Now focusing on: [%s] %s", strings.ToUpper(string(issue.Severity)), problem),
	})

	initial := fmt.Sprintf("Please help me fix this issue: %s\n\nThe suggested remediation is: %s\n\nCan you explain what this does and if it's safe to run? Are there any alternatives?", problem, remediation)
	return s.Send(initial)
}

// Clear resets the session: history becomes a single fresh assistant
// greeting and the focus is dropped. The boot log context is kept.
func (s *Session) Clear() {
	s.history = []model.Turn{{Role: model.RoleAssistant, Content: clearedGreeting}}
	s.focus = nil
	s.state = StateIdle
}
