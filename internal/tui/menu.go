// Package tui implements the interactive terminal menu.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"firestige.xyz/crxfetch/internal/config"
	"firestige.xyz/crxfetch/internal/downloader"
	"firestige.xyz/crxfetch/internal/webstore"
)

// state identifies which view is active.
type state int

const (
	// stateMenu shows the action list.
	stateMenu state = iota
	// stateInput collects ids or a file path for the chosen action.
	stateInput
	// stateWorking waits for a running download batch.
	stateWorking
	// stateDone shows the outcome until a key is pressed.
	stateDone
)

// action is a menu entry.
type action int

const (
	actionSingle action = iota
	actionBatch
	actionFromFile
	actionWriteConfig
	actionQuit
)

var menuEntries = []struct {
	action action
	title  string
	prompt string
}{
	{actionSingle, "Download single extension", "Extension id or store URL:"},
	{actionBatch, "Download multiple extensions", "Extension ids (space-separated):"},
	{actionFromFile, "Download from id-list file", "Path to id list:"},
	{actionWriteConfig, "Write sample config", ""},
	{actionQuit, "Quit", ""},
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// doneMsg carries the outcome of an action back into the update loop.
type doneMsg struct {
	summary string
	err     error
}

// Model is the bubbletea model for the menu session.
type Model struct {
	cfg    *config.Config
	state  state
	cursor int
	chosen action
	input  textinput.Model
	result doneMsg
}

// NewModel builds the initial menu model.
func NewModel(cfg *config.Config) Model {
	ti := textinput.New()
	ti.CharLimit = 512
	ti.Width = 60
	return Model{cfg: cfg, input: ti}
}

// Run starts the interactive session and blocks until the user quits.
func Run(cfg *config.Config) error {
	_, err := tea.NewProgram(NewModel(cfg)).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case doneMsg:
		m.result = msg
		m.state = stateDone
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case stateMenu:
			return m.updateMenu(msg)
		case stateInput:
			return m.updateInput(msg)
		case stateWorking:
			// Ignore input while a batch runs; ctrl+c still works.
			if msg.Type == tea.KeyCtrlC {
				return m, tea.Quit
			}
			return m, nil
		case stateDone:
			if msg.Type == tea.KeyCtrlC {
				return m, tea.Quit
			}
			m.state = stateMenu
			return m, nil
		}
	}
	return m, nil
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(menuEntries)-1 {
			m.cursor++
		}
	case "enter":
		entry := menuEntries[m.cursor]
		m.chosen = entry.action
		switch entry.action {
		case actionQuit:
			return m, tea.Quit
		case actionWriteConfig:
			m.state = stateWorking
			return m, m.writeConfigCmd()
		default:
			m.state = stateInput
			m.input.SetValue("")
			m.input.Placeholder = entry.prompt
			m.input.Focus()
			return m, textinput.Blink
		}
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.state = stateMenu
		return m, nil
	case tea.KeyEnter:
		value := strings.TrimSpace(m.input.Value())
		if value == "" {
			return m, nil
		}
		m.state = stateWorking
		return m, m.runCmd(m.chosen, value)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// runCmd executes the chosen action off the update loop.
func (m Model) runCmd(act action, value string) tea.Cmd {
	cfg := m.cfg
	return func() tea.Msg {
		d, err := downloader.New(cfg)
		if err != nil {
			return doneMsg{err: err}
		}

		var ids []string
		switch act {
		case actionSingle:
			id, err := webstore.ResolveID(value)
			if err != nil {
				return doneMsg{err: err}
			}
			ids = []string{id}
		case actionBatch:
			ids = strings.Fields(value)
		case actionFromFile:
			ids, err = downloader.ReadIDFile(value)
			if err != nil {
				return doneMsg{err: err}
			}
		}
		if len(ids) == 0 {
			return doneMsg{err: fmt.Errorf("no extension ids given")}
		}

		results := d.DownloadAll(context.Background(), ids)
		var b strings.Builder
		failed := 0
		for _, r := range results {
			if r.Err != nil {
				failed++
				fmt.Fprintf(&b, "FAIL %s: %v\n", r.ID, r.Err)
				continue
			}
			fmt.Fprintf(&b, "OK   %s -> %s\n", r.ID, r.Path)
		}
		fmt.Fprintf(&b, "%d succeeded, %d failed", len(results)-failed, failed)
		return doneMsg{summary: b.String()}
	}
}

func (m Model) writeConfigCmd() tea.Cmd {
	return func() tea.Msg {
		if err := config.WriteSample(config.DefaultFile); err != nil {
			return doneMsg{err: err}
		}
		return doneMsg{summary: "Sample configuration written to " + config.DefaultFile}
	}
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("crxfetch — Chrome Extension Downloader"))
	b.WriteString("\n\n")

	switch m.state {
	case stateMenu:
		for i, entry := range menuEntries {
			if i == m.cursor {
				b.WriteString(selectedStyle.Render("> " + entry.title))
			} else {
				b.WriteString("  " + entry.title)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("up/down to move, enter to select, q to quit"))

	case stateInput:
		b.WriteString(menuEntries[m.cursor].prompt)
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(dimStyle.Render("enter to start, esc to go back"))

	case stateWorking:
		b.WriteString("Working...")

	case stateDone:
		if m.result.err != nil {
			b.WriteString(errorStyle.Render("Error: " + m.result.err.Error()))
		} else {
			b.WriteString(m.result.summary)
		}
		b.WriteString("\n\n")
		b.WriteString(dimStyle.Render("press any key to return to the menu"))
	}

	b.WriteString("\n")
	return b.String()
}
