package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	burst "github.com/wippyai/burst"
	"github.com/wippyai/burst/internal/scenario"
	"github.com/wippyai/burst/region"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// headerLines is the number of lines View prints above the viewport.
const headerLines = 6

type interactiveModel struct {
	err      error
	session  *session
	cfg      options
	result   *scenario.Result
	slots    []burst.RegionID
	view     viewport.Model
	selected int
	ready    bool
}

type loadedMsg struct {
	err     error
	session *session
}

type ranMsg struct {
	err    error
	result scenario.Result
}

func newInteractiveModel(cfg options) *interactiveModel {
	return &interactiveModel{cfg: cfg}
}

func (m *interactiveModel) Init() tea.Cmd {
	return m.load
}

func (m *interactiveModel) load() tea.Msg {
	s, err := openSession(context.Background(), m.cfg)
	return loadedMsg{session: s, err: err}
}

func (m *interactiveModel) runScenario() tea.Msg {
	res, err := m.session.runScenario(m.cfg)
	return ranMsg{result: res, err: err}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.session != nil {
				_ = m.session.Close(context.Background())
			}
			return m, tea.Quit

		case "tab", "right", "l":
			if len(m.slots) > 0 {
				m.selected = (m.selected + 1) % len(m.slots)
				m.refresh()
			}
			return m, nil

		case "shift+tab", "left", "h":
			if len(m.slots) > 0 {
				m.selected = (m.selected + len(m.slots) - 1) % len(m.slots)
				m.refresh()
			}
			return m, nil

		case "enter", "r":
			if m.session != nil {
				return m, m.runScenario
			}
			return m, nil

		case "z":
			if r := m.current(); r != nil {
				r.Reset()
				m.result = nil
				m.refresh()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		height := max(msg.Height-headerLines-2, 1)
		if !m.ready {
			m.view = viewport.New(msg.Width, height)
			m.ready = true
		} else {
			m.view.Width = msg.Width
			m.view.Height = height
		}
		m.refresh()

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.session = msg.session
		m.slots = nil
		m.session.registry.Each(func(index burst.RegionID, _ *region.Region) bool {
			m.slots = append(m.slots, index)
			return true
		})
		m.refresh()

	case ranMsg:
		m.err = msg.err
		if msg.err == nil {
			res := msg.result
			m.result = &res
		}
		m.refresh()
	}

	var cmd tea.Cmd
	m.view, cmd = m.view.Update(msg)
	return m, cmd
}

func (m *interactiveModel) current() *region.Region {
	if m.session == nil || len(m.slots) == 0 {
		return nil
	}
	r, err := m.session.registry.Region(m.slots[m.selected])
	if err != nil {
		return nil
	}
	return r
}

func (m *interactiveModel) refresh() {
	if !m.ready {
		return
	}
	r := m.current()
	if r == nil {
		m.view.SetContent("")
		return
	}
	m.view.SetContent(hexDump(r, 0, r.Bytes()))
}

func (m *interactiveModel) View() string {
	if m.session == nil {
		if m.err != nil {
			return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
		}
		return "Binding regions..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("burstsim"))
	b.WriteString(" scenario ")
	b.WriteString(m.cfg.scenario)
	b.WriteString("\n\n")

	for i, index := range m.slots {
		r, _ := m.session.registry.Region(index)
		label := fmt.Sprintf(" [%d] %s ", index, r)
		if i == m.selected {
			b.WriteString(selectedStyle.Render(label))
		} else {
			b.WriteString(label)
		}
		b.WriteString(" ")
	}
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	case m.result != nil:
		var vals []string
		for _, v := range m.result.Values {
			vals = append(vals, fmt.Sprint(v))
		}
		b.WriteString(valueStyle.Render(strings.Join(vals, " ")))
	default:
		b.WriteString(helpStyle.Render("press enter to run the scenario"))
	}
	b.WriteString("\n\n")

	b.WriteString(m.view.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("tab region • enter run • z reset region • ↑/↓ scroll • q quit"))

	return b.String()
}

func runInteractive(cfg options) error {
	p := tea.NewProgram(newInteractiveModel(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
