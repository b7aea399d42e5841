package prompt

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func send(m tea.Model, msgs ...tea.Msg) tea.Model {
	for _, msg := range msgs {
		m, _ = m.Update(msg)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestInput_Submit(t *testing.T) {
	m := send(newInputModel("Email", false), runes("jane@example.com"), tea.KeyMsg{Type: tea.KeyEnter})

	value, err := m.(inputModel).Value()
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", value)
	assert.Empty(t, m.View())
}

func TestInput_EmptyIsRejected(t *testing.T) {
	m := send(newInputModel("Email", false), tea.KeyMsg{Type: tea.KeyEnter})

	im := m.(inputModel)
	assert.False(t, im.done)
	assert.Contains(t, im.View(), "Email is required")

	m = send(m, runes("x"))
	assert.NotContains(t, m.View(), "is required")
}

func TestInput_Abort(t *testing.T) {
	for _, key := range []tea.KeyType{tea.KeyEsc, tea.KeyCtrlC} {
		m := send(newInputModel("Email", false), runes("jane"), tea.KeyMsg{Type: key})

		_, err := m.(inputModel).Value()
		assert.ErrorIs(t, err, ErrUserAborted)
	}
}

func TestPassword_IsMasked(t *testing.T) {
	m := send(newInputModel("Password", true), runes("hunter2"))

	assert.NotContains(t, m.View(), "hunter2")

	m = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	value, err := m.(inputModel).Value()
	require.NoError(t, err)
	assert.Equal(t, "hunter2", value)
}

func TestSelect(t *testing.T) {
	items := []Item{
		{Title: "corp", Description: "eu-north-1"},
		{Title: "lab", Description: "us-east-1"},
		{Title: "sandbox", Description: "us-west-2"},
	}

	m := send(newSelectModel("SSO", items), tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyEnter})

	idx, err := m.(selectModel).Selected()
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
}

func TestSelect_Abort(t *testing.T) {
	m := send(newSelectModel("SSO", []Item{{Title: "corp"}, {Title: "lab"}}), runes("q"))

	_, err := m.(selectModel).Selected()
	assert.ErrorIs(t, err, ErrUserAborted)
}

func TestTerminal_SelectNothing(t *testing.T) {
	_, err := (&Terminal{}).Select(context.Background(), "SSO", nil)
	assert.ErrorIs(t, err, ErrUserInput)
}

func TestPassword_KeepsWhitespace(t *testing.T) {
	m := send(newInputModel("Password", true), runes("  pass word  "), tea.KeyMsg{Type: tea.KeyEnter})

	value, err := m.(inputModel).Value()
	require.NoError(t, err)
	assert.Equal(t, "  pass word  ", value)

	m = send(newInputModel("Password", true), runes("   "), tea.KeyMsg{Type: tea.KeyEnter})
	value, err = m.(inputModel).Value()
	require.NoError(t, err)
	assert.Equal(t, "   ", value)
}

func TestInput_TrimsEmail(t *testing.T) {
	m := send(newInputModel("Email", false), runes("  jane@example.com "), tea.KeyMsg{Type: tea.KeyEnter})

	value, err := m.(inputModel).Value()
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", value)

	m = send(newInputModel("Email", false), runes("   "), tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.(inputModel).done)
}

func TestTerminal_ClosedInput(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	term := &Terminal{In: bytes.NewReader(nil), Out: io.Discard}

	_, err := term.Input(ctx, "Email")
	assert.ErrorIs(t, err, ErrUserInput)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.NoError(t, ctx.Err())

	_, err = term.Password(ctx, "Password")
	assert.ErrorIs(t, err, ErrUserInput)

	_, err = term.Select(ctx, "SSO", []Item{{Title: "corp"}, {Title: "lab"}})
	assert.ErrorIs(t, err, ErrUserInput)
	assert.NoError(t, ctx.Err())
}

func TestTerminal_PipedInput(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	term := &Terminal{In: strings.NewReader("jane@example.com\r"), Out: io.Discard}

	value, err := term.Input(ctx, "Email")
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", value)
}
