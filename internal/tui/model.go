// Package tui renders the landing page sections in the terminal.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/conneroisu/landing/internal/landing"
	"github.com/conneroisu/landing/internal/view"
)

// SectionChangedMsg reports that a section of the page transitioned.
type SectionChangedMsg struct {
	Name string
}

// Model is the bubbletea model of one mounted page.
type Model struct {
	ctx      context.Context
	page     *landing.Page
	messages *view.Messages
	keys     KeyMap
	spinner  spinner.Model
	changes  chan string

	width    int
	quitting bool
}

// New creates a model for page. The page is mounted on ctx when the program
// starts.
func New(ctx context.Context, page *landing.Page) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	m := Model{
		ctx:      ctx,
		page:     page,
		messages: view.NewMessages(page.Locale()),
		keys:     DefaultKeyMap(),
		spinner:  s,
		// Each of the three sections transitions at most once.
		changes: make(chan string, len(view.SectionNames())),
	}

	page.OnChange(func(name string) {
		select {
		case m.changes <- name:
		default:
		}
	})

	return m
}

// Init mounts the page and starts the spinner.
func (m Model) Init() tea.Cmd {
	m.page.Mount(m.ctx)
	return tea.Batch(m.spinner.Tick, waitForChange(m.changes))
}

func waitForChange(changes <-chan string) tea.Cmd {
	return func() tea.Msg {
		return SectionChangedMsg{Name: <-changes}
	}
}

// Update handles keys, resizes, spinner ticks and section transitions.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			m.page.Unmount()
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case SectionChangedMsg:
		return m, waitForChange(m.changes)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}
