package chat

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helmcode/boot-ai/pkg/model"
)

// stubLLM scripts SubmitChat behavior for session tests.
type stubLLM struct {
	reply    string
	err      error
	requests [][]model.Turn
	onSubmit func()
}

func (s *stubLLM) Submit(system, user string) (string, error) {
	return s.reply, s.err
}

func (s *stubLLM) SubmitChat(turns []model.Turn) (string, error) {
	s.requests = append(s.requests, turns)
	if s.onSubmit != nil {
		s.onSubmit()
	}
	return s.reply, s.err
}

func TestNewSessionStartsWithGreeting(t *testing.T) {
	session := NewSession(&stubLLM{}, "log")

	history := session.History()
	require.Len(t, history, 1)
	assert.Equal(t, model.RoleAssistant, history[0].Role)
	assert.NotEmpty(t, history[0].Content)
	assert.Equal(t, StateIdle, session.State())
	assert.Nil(t, session.Focus())
	assert.NotEmpty(t, session.ID())
}

func TestSendAppendsTurnsInOrder(t *testing.T) {
	stub := &stubLLM{reply: "try restarting the unit"}
	session := NewSession(stub, "log")

	reply, err := session.Send("why did NetworkManager fail?")
	require.NoError(t, err)
	assert.Equal(t, "try restarting the unit", reply)
	assert.Equal(t, StateActive, session.State())

	history := session.History()
	require.Len(t, history, 3)
	assert.Equal(t, model.Turn{Role: model.RoleUser, Content: "why did NetworkManager fail?"}, history[1])
	assert.Equal(t, model.Turn{Role: model.RoleAssistant, Content: "try restarting the unit"}, history[2])
}

func TestSendReplaysPriorHistoryOnly(t *testing.T) {
	stub := &stubLLM{reply: "answer"}
	session := NewSession(stub, "log")

	_, err := session.Send("first")
	require.NoError(t, err)
	_, err = session.Send("second")
	require.NoError(t, err)

	require.Len(t, stub.requests, 2)
	second := stub.requests[1]

	// Last turn is the live message; the greeting and first round trip
	// are replayed before it.
	assert.Equal(t, model.Turn{Role: model.RoleUser, Content: "second"}, second[len(second)-1])
	assert.Equal(t, "first", second[len(second)-3].Content)
	assert.Equal(t, "answer", second[len(second)-2].Content)

	// "second" appears exactly once: it must not ride both as history
	// and as the live message.
	count := 0
	for _, turn := range second {
		if turn.Content == "second" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestSendFailureKeepsUserTurn(t *testing.T) {
	stub := &stubLLM{err: errors.New("connection refused")}
	session := NewSession(stub, "log")

	_, err := session.Send("hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, StateIdle, session.State(), "failed send returns the session to idle")

	history := session.History()
	require.Len(t, history, 2)
	assert.Equal(t, model.Turn{Role: model.RoleUser, Content: "hello"}, history[1], "failed attempt's user turn is not rolled back")

	// Retry works and the failed turn stays in order.
	stub.err = nil
	stub.reply = "back online"
	_, err = session.Send("hello again")
	require.NoError(t, err)
	assert.Len(t, session.History(), 4)
}

func TestSendRejectsOverlappingRequest(t *testing.T) {
	stub := &stubLLM{reply: "ok"}
	session := NewSession(stub, "log")

	// A second send issued while the first is awaiting its reply must
	// be rejected, not interleaved.
	var overlapErr error
	stub.onSubmit = func() {
		stub.onSubmit = nil
		_, overlapErr = session.Send("interleaved")
	}

	_, err := session.Send("outer")
	require.NoError(t, err)
	assert.ErrorIs(t, overlapErr, ErrBusy)

	// The rejected send left no trace in history.
	for _, turn := range session.History() {
		assert.NotEqual(t, "interleaved", turn.Content)
	}
}

func TestFocusOnIssueSequence(t *testing.T) {
	stub := &stubLLM{reply: "that command clears the package cache"}
	session := NewSession(stub, "log")
	priorLen := len(session.History())

	issue := model.Issue{
		Severity:    model.SeverityUrgent,
		Problem:     "disk full",
		Remediation: "sudo apt clean",
	}

	reply, err := session.FocusOnIssue(issue)
	require.NoError(t, err)
	assert.Equal(t, "that command clears the package cache", reply)

	require.NotNil(t, session.Focus())
	assert.Equal(t, "disk full", session.Focus().Problem)

	history := session.History()
	require.Len(t, history, priorLen+3)

	marker := history[priorLen]
	assert.Equal(t, model.RoleSystem, marker.Role)
	assert.Contains(t, marker.Content, "URGENT")
	assert.Contains(t, marker.Content, "disk full")

	synthetic := history[priorLen+1]
	assert.Equal(t, model.RoleUser, synthetic.Role)
	assert.Contains(t, synthetic.Content, "disk full")
	assert.Contains(t, synthetic.Content, "sudo apt clean")

	assert.Equal(t, model.RoleAssistant, history[priorLen+2].Role)

	// Subsequent requests carry the focus block in the priming turn.
	_, err = session.Send("is there anything else to check?")
	require.NoError(t, err)
	last := stub.requests[len(stub.requests)-1]
	assert.Contains(t, last[1].Content, "disk full")
}

func TestFocusOnIssueEmptyFields(t *testing.T) {
	stub := &stubLLM{reply: "ok"}
	session := NewSession(stub, "log")

	_, err := session.FocusOnIssue(model.Issue{})
	require.NoError(t, err)

	history := session.History()
	synthetic := history[len(history)-2]
	assert.Contains(t, synthetic.Content, "this issue")
	assert.Contains(t, synthetic.Content, "N/A")
}

func TestClearResetsSession(t *testing.T) {
	stub := &stubLLM{reply: "ok"}
	session := NewSession(stub, "log")

	for i := 0; i < 3; i++ {
		_, err := session.Send(fmt.Sprintf("message %d", i))
		require.NoError(t, err)
	}
	_, err := session.FocusOnIssue(model.Issue{Problem: "disk full"})
	require.NoError(t, err)

	session.Clear()

	history := session.History()
	require.Len(t, history, 1, "history resets to exactly one greeting turn")
	assert.Equal(t, model.RoleAssistant, history[0].Role)
	assert.Nil(t, session.Focus())
	assert.Equal(t, StateIdle, session.State())
}

func TestHistoryReturnsCopy(t *testing.T) {
	session := NewSession(&stubLLM{reply: "ok"}, "log")

	history := session.History()
	history[0].Content = "mutated"

	assert.NotEqual(t, "mutated", session.History()[0].Content)
}
