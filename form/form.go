// Package form is the interactive label form: five text lines, the
// formatting selectors and a copy count, printed with enter.
package form

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/AlexStarov/epl-label-GoLang-lib/label"
	"github.com/AlexStarov/epl-label-GoLang-lib/printer"
)

// PrintFunc submits a label program to the configured printer.
type PrintFunc func(ctx context.Context, data []byte) error

// Config wires the form to a printer.
type Config struct {
	Printer string
	Options label.Options
	Print   PrintFunc
}

const (
	selFont = iota
	selRotation
	selHorizontal
	selVertical
	selImage
	numSelectors
)

// focus order: text lines, selectors, copies
const (
	focusSelectors = label.MaxLines
	focusCopies    = focusSelectors + numSelectors
	numFields      = focusCopies + 1
)

type selector struct {
	title  string
	labels []string
	values []int
	index  int
}

func newSelector(title string, values []int, format func(int) string, current int) selector {
	s := selector{title: title, values: values}
	for i, v := range values {
		s.labels = append(s.labels, format(v))
		if v == current {
			s.index = i
		}
	}
	return s
}

func (s *selector) step(d int) {
	n := len(s.values)
	s.index = ((s.index+d)%n + n) % n
}

func (s selector) value() int { return s.values[s.index] }

type printedMsg struct{ err error }

// Model is the bubbletea model of the form.
type Model struct {
	ctx       context.Context
	cfg       Config
	lines     [label.MaxLines]textinput.Model
	copies    textinput.Model
	selectors [numSelectors]selector

	focus int
	// the focused field was just entered; the first edit replaces its content
	fresh bool

	status      string
	statusErr   bool
	confirmQuit bool
	printing    bool
	quitting    bool

	styles Styles
}

// New builds the form with cfg.Options preselected.
func New(ctx context.Context, cfg Config) Model {
	o := cfg.Options
	m := Model{ctx: ctx, cfg: cfg, styles: DefaultStyles()}

	for i := range m.lines {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 80
		ti.Width = 30
		m.lines[i] = ti
	}

	m.copies = textinput.New()
	m.copies.Prompt = ""
	m.copies.CharLimit = 5
	m.copies.Width = 6
	if o.Copies < 1 {
		o.Copies = 1
	}
	m.copies.SetValue(strconv.Itoa(o.Copies))

	itoa := strconv.Itoa
	m.selectors[selFont] = newSelector("Font", label.Fonts, itoa, o.Font)
	m.selectors[selRotation] = newSelector("Rotation", label.Rotations, func(v int) string {
		if v == 0 {
			return "0-None"
		}
		return fmt.Sprintf("%d-%d°", v, 90*v)
	}, o.Rotation)
	m.selectors[selHorizontal] = newSelector("Horizontal", label.Horizontals, itoa, o.Horizontal)
	m.selectors[selVertical] = newSelector("Vertical", label.Verticals, itoa, o.Vertical)
	img := 0
	if o.Reverse {
		img = 1
	}
	m.selectors[selImage] = newSelector("Image", []int{0, 1}, func(v int) string {
		if v == 1 {
			return "Reverse"
		}
		return "Normal"
	}, img)

	m.setFocus(0)
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles key presses and print results.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case printedMsg:
		return m.printed(msg.err), nil

	case tea.KeyMsg:
		if m.confirmQuit {
			if s := msg.String(); s == "y" || s == "Y" {
				m.quitting = true
				return m, tea.Quit
			}
			m.confirmQuit = false
			m.setStatus("", false)
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "tab", "down":
			m.setFocus(m.focus + 1)
			return m, nil
		case "shift+tab", "up":
			m.setFocus(m.focus - 1)
			return m, nil
		case "enter":
			return m.submit()
		case "left", "right":
			if sel := m.focusedSelector(); sel != nil {
				if msg.String() == "left" {
					sel.step(-1)
				} else {
					sel.step(1)
				}
				return m, nil
			}
		}

		if in := m.focusedInput(); in != nil {
			if m.fresh {
				switch msg.Type {
				case tea.KeyRunes, tea.KeySpace, tea.KeyBackspace, tea.KeyDelete:
					in.SetValue("")
				}
				m.fresh = false
				if msg.Type == tea.KeyBackspace || msg.Type == tea.KeyDelete {
					return m, nil
				}
			}
			var cmd tea.Cmd
			*in, cmd = in.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m *Model) setFocus(i int) {
	i = ((i % numFields) + numFields) % numFields
	if in := m.focusedInput(); in != nil {
		in.Blur()
	}
	m.focus = i
	if in := m.focusedInput(); in != nil {
		in.Focus()
		in.CursorEnd()
		m.fresh = in.Value() != ""
	} else {
		m.fresh = false
	}
}

func (m *Model) focusedInput() *textinput.Model {
	switch {
	case m.focus < label.MaxLines:
		return &m.lines[m.focus]
	case m.focus == focusCopies:
		return &m.copies
	}
	return nil
}

func (m *Model) focusedSelector() *selector {
	if m.focus >= focusSelectors && m.focus < focusCopies {
		return &m.selectors[m.focus-focusSelectors]
	}
	return nil
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status, m.statusErr = s, isErr
}

// Label collects the form fields into a label.
func (m Model) Label() (*label.Label, error) {
	lines := make([]string, 0, label.MaxLines)
	for _, in := range m.lines {
		lines = append(lines, in.Value())
	}

	copies, err := strconv.Atoi(strings.TrimSpace(m.copies.Value()))
	if err != nil {
		return nil, fmt.Errorf("%w: copies %q is not a number", label.ErrInvalidOption, m.copies.Value())
	}

	return &label.Label{
		Lines: lines,
		Options: label.Options{
			Font:       m.selectors[selFont].value(),
			Rotation:   m.selectors[selRotation].value(),
			Horizontal: m.selectors[selHorizontal].value(),
			Vertical:   m.selectors[selVertical].value(),
			Reverse:    m.selectors[selImage].value() == 1,
			Copies:     copies,
			CodePage:   m.cfg.Options.CodePage,
		},
	}, nil
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.printing {
		return m, nil
	}
	l, err := m.Label()
	if err != nil {
		m.setStatus(err.Error(), true)
		return m, nil
	}
	if l.Empty() {
		m.setStatus("No data to print", false)
		return m, nil
	}
	data, err := l.Build()
	if err != nil {
		m.setStatus(err.Error(), true)
		return m, nil
	}

	m.printing = true
	m.setStatus("Printing...", false)
	ctx, printFn := m.ctx, m.cfg.Print
	return m, func() tea.Msg {
		return printedMsg{err: printFn(ctx, data)}
	}
}

func (m Model) printed(err error) Model {
	m.printing = false
	switch {
	case err == nil:
		m.setStatus("Label sent to "+m.cfg.Printer, false)
	case errors.Is(err, printer.ErrPrinterNotFound):
		m.confirmQuit = true
		m.setStatus(fmt.Sprintf("Printer %s not found. Quit? (y/n)", m.cfg.Printer), true)
	default:
		m.setStatus(err.Error(), true)
	}
	return m
}

// Status returns the message shown under the form.
func (m Model) Status() string { return m.status }

// Quitting reports whether the form asked the program to exit.
func (m Model) Quitting() bool { return m.quitting }

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	st := m.styles

	name := func(i int, s string) string {
		if i == m.focus {
			return st.Focused.Render(s)
		}
		return st.Label.Render(s)
	}

	var rows []string
	for i := 0; i < label.MaxLines; i++ {
		left := name(i, fmt.Sprintf("Line %d", i+1)) + m.lines[i].View()
		sel := m.selectors[i]
		value := st.Selector.Render("< " + sel.labels[sel.index] + " >")
		right := name(focusSelectors+i, sel.title) + value
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, lipgloss.NewStyle().Width(44).Render(left), right))
	}
	rows = append(rows, "", name(focusCopies, "Copies")+m.copies.View())

	body := lipgloss.JoinVertical(lipgloss.Left, rows...)
	out := st.Title.Render("Zebra labels: "+m.cfg.Printer) + "\n" + st.Box.Render(body) + "\n"

	if m.status != "" {
		if m.statusErr {
			out += st.Error.Render(m.status)
		} else {
			out += st.Status.Render(m.status)
		}
		out += "\n"
	}
	return out + st.Help.Render("tab/shift+tab move • ←/→ change • enter print • esc cancel") + "\n"
}
