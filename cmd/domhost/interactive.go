package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v2"
	"golang.org/x/net/html"
	"golang.org/x/term"

	"github.com/wippyai/wasm-dom-bridge/dom"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	targetStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	markupStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB")).
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

func interactiveCommand() *cli.Command {
	return &cli.Command{
		Name:      "interactive",
		Aliases:   []string{"i"},
		Usage:     "mount a guest and click through it in a terminal UI",
		ArgsUsage: "<guest.wasm>",
		Flags:     mountFlags,
		Action: func(c *cli.Context) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return cli.Exit("interactive mode needs a terminal; use render instead", 2)
			}
			s, err := openSession(c)
			if err != nil {
				return err
			}
			defer s.Close(c.Context)

			p := tea.NewProgram(newInteractiveModel(c.Context, s), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}
}

type modelState int

const (
	stateSelectTarget modelState = iota
	stateInputSelector
)

type interactiveModel struct {
	ctx      context.Context
	err      error
	session  *session
	markup   string
	targets  []*html.Node
	input    textinput.Model
	selected int
	clicks   int
	state    modelState
}

func newInteractiveModel(ctx context.Context, s *session) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "button.inc"
	ti.Prompt = "selector: "
	ti.Width = 40

	m := &interactiveModel{ctx: ctx, session: s, input: ti, state: stateSelectTarget}
	m.refresh()
	return m
}

type clickedMsg struct {
	err error
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) refresh() {
	m.targets = m.session.targets()
	if m.selected >= len(m.targets) {
		m.selected = max(0, len(m.targets)-1)
	}
	markup, err := m.session.markup()
	if err != nil {
		m.err = err
		return
	}
	m.markup = markup
}

func (m *interactiveModel) clickTarget(target *html.Node) tea.Cmd {
	return func() tea.Msg {
		return clickedMsg{err: m.session.click(m.ctx, target)}
	}
}

func (m *interactiveModel) clickSelector(selector string) tea.Cmd {
	return func() tea.Msg {
		target, err := m.session.doc.Query(selector)
		if err != nil {
			return clickedMsg{err: err}
		}
		return clickedMsg{err: m.session.click(m.ctx, target)}
	}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.state == stateInputSelector {
			switch msg.String() {
			case "enter":
				sel := strings.TrimSpace(m.input.Value())
				m.input.Reset()
				m.input.Blur()
				m.state = stateSelectTarget
				if sel == "" {
					return m, nil
				}
				return m, m.clickSelector(sel)
			case "esc":
				m.input.Reset()
				m.input.Blur()
				m.state = stateSelectTarget
				return m, nil
			}
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
		case "down", "j":
			if m.selected < len(m.targets)-1 {
				m.selected++
			}
		case "enter", " ":
			if len(m.targets) > 0 {
				return m, m.clickTarget(m.targets[m.selected])
			}
		case "/":
			m.state = stateInputSelector
			return m, m.input.Focus()
		}

	case clickedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.clicks++
		}
		m.refresh()
	}
	return m, nil
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("domhost"))
	b.WriteString(" ")
	b.WriteString(m.session.wasm)
	fmt.Fprintf(&b, "  renders: %d  clicks: %d\n\n", m.session.mount.Platform.Renders(), m.clicks)

	b.WriteString(markupStyle.Render(m.markup))
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectTarget:
		if len(m.targets) == 0 {
			b.WriteString("No elements with event handlers.\n")
		}
		for i, t := range m.targets {
			line := fmt.Sprintf("%s  %s", dom.Label(t), strings.TrimSpace(dom.InnerText(t)))
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + targetStyle.Render(line))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter click • / click by selector • q quit"))

	case stateInputSelector:
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter click • esc back"))
	}

	if m.err != nil {
		b.WriteString("\n\n")
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}
	return b.String()
}
