package form

import (
	"context"
	"errors"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexStarov/epl-label-GoLang-lib/label"
	"github.com/AlexStarov/epl-label-GoLang-lib/printer"
)

type recorder struct {
	calls int
	data  []byte
	err   error
}

func (r *recorder) print(ctx context.Context, data []byte) error {
	r.calls++
	r.data = data
	return r.err
}

func newModel(r *recorder) Model {
	return New(context.Background(), Config{
		Printer: printer.DefaultServiceName,
		Options: label.DefaultOptions(),
		Print:   r.print,
	})
}

func send(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	var next tea.Model = m
	for _, msg := range msgs {
		next, cmd = next.(Model).Update(msg)
	}
	return next.(Model), cmd
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestEmptyFormDoesNotPrint(t *testing.T) {
	r := &recorder{}
	m, cmd := send(t, newModel(r), key("enter"))

	assert.Nil(t, cmd)
	assert.Equal(t, "No data to print", m.Status())
	assert.Zero(t, r.calls)
}

func TestPrintSendsLabel(t *testing.T) {
	r := &recorder{}
	m, _ := send(t, newModel(r), key("ELCO"), key("tab"), key("tab"), key("Lote 7"))

	m, cmd := send(t, m, key("enter"))
	require.NotNil(t, cmd)
	msg := cmd()
	assert.Equal(t, 1, r.calls)
	assert.Equal(t, "N\nA50,5,0,3,2,2,N,\"ELCO\"\nA50,55,0,3,2,2,N,\"Lote 7\"\nP1\n", string(r.data))

	m, _ = send(t, m, msg)
	assert.Equal(t, "Label sent to "+printer.DefaultServiceName, m.Status())
	assert.False(t, m.Quitting())
}

func TestSelectorsChangeOptions(t *testing.T) {
	m := newModel(&recorder{})
	// line 1..5 then font
	for i := 0; i < label.MaxLines; i++ {
		m, _ = send(t, m, key("tab"))
	}
	m, _ = send(t, m, key("right"))            // font 4
	m, _ = send(t, m, key("tab"), key("left")) // rotation wraps to 3
	m, _ = send(t, m, key("tab"), key("left")) // horizontal 1
	m, _ = send(t, m, key("tab"), key("right"), key("right"))
	m, _ = send(t, m, key("tab"), key("right")) // reverse

	l, err := m.Label()
	require.NoError(t, err)
	assert.Equal(t, label.Options{Font: 4, Rotation: 3, Horizontal: 1, Vertical: 4, Reverse: true, Copies: 1}, l.Options)
}

func TestCopiesContentIsReplaced(t *testing.T) {
	m := newModel(&recorder{})
	// copies is the last field, one step back from the first line
	m, _ = send(t, m, key("shift+tab"), key("3"), key("0"))

	l, err := m.Label()
	require.NoError(t, err)
	assert.Equal(t, 30, l.Options.Copies)

	m, _ = send(t, m, key("tab"), key("shift+tab"), key("backspace"), key("x"))
	_, err = m.Label()
	assert.ErrorIs(t, err, label.ErrInvalidOption)

	m, _ = send(t, m, key("tab"), key("hola"), key("enter"))
	assert.Contains(t, m.Status(), "not a number")
}

func TestPrinterNotFoundAsksToQuit(t *testing.T) {
	r := &recorder{err: fmt.Errorf("%w: %s", printer.ErrPrinterNotFound, printer.DefaultServiceName)}
	m, cmd := send(t, newModel(r), key("hola"), key("enter"))
	require.NotNil(t, cmd)

	m, _ = send(t, m, cmd())
	assert.Contains(t, m.Status(), "not found. Quit? (y/n)")

	m, cmd = send(t, m, key("n"))
	assert.Nil(t, cmd)
	assert.Empty(t, m.Status())
	assert.False(t, m.Quitting())

	m, cmd = send(t, m, key("enter"))
	m, _ = send(t, m, cmd())
	m, cmd = send(t, m, key("y"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.Quitting())
	assert.Empty(t, m.View())
}

func TestPrintErrorIsShown(t *testing.T) {
	r := &recorder{err: errors.New("paper out")}
	m, cmd := send(t, newModel(r), key("hola"), key("enter"))
	m, _ = send(t, m, cmd())
	assert.Equal(t, "paper out", m.Status())
	assert.False(t, m.Quitting())
}

func TestEscCancels(t *testing.T) {
	m, cmd := send(t, newModel(&recorder{}), key("esc"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.Quitting())
}

func TestViewShowsFields(t *testing.T) {
	v := newModel(&recorder{}).View()
	for _, s := range []string{"Line 1", "Line 5", "Font", "Rotation", "Horizontal", "Vertical", "Image", "Copies", "Normal"} {
		assert.Contains(t, v, s)
	}
}
