package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"foldertree/internal/model"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles events.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.WindowSize = msg
		m.help.Width = msg.Width
		return m, nil

	case MsgRefresh:
		m.reload()
		return m, waitForRefresh(m.refresh)

	case tea.KeyMsg:
		if m.ShowHelp {
			switch msg.String() {
			case "esc", "?", "q":
				m.ShowHelp = false
			case "up", "k":
				if m.HelpScrollY > 0 {
					m.HelpScrollY--
				}
			case "down", "j":
				m.HelpScrollY++
			}
			return m, nil
		}

		if m.Prompt == promptDelete {
			m.confirmDelete(msg.String())
			return m, nil
		}

		if m.Prompt != promptNone {
			switch msg.Type {
			case tea.KeyEnter:
				m.submitPrompt()
				return m, nil
			case tea.KeyEsc:
				m.closePrompt()
				return m, nil
			}
			m.InputBuffer, cmd = m.InputBuffer.Update(msg)
			return m, cmd
		}

		return m.handleKey(msg)
	}

	return m, cmd
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.ShowHelp = true
		m.HelpScrollY = 0
		return m, nil
	case key.Matches(msg, m.keys.Up):
		if m.SelectedIdx > 0 {
			m.SelectedIdx--
			m.loadPreview(false)
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.SelectedIdx < len(m.Rows)-1 {
			m.SelectedIdx++
			m.loadPreview(false)
		}
		return m, nil
	case key.Matches(msg, m.keys.AddFolder):
		return m, m.openPrompt(promptAddFolder, model.Node{}, "", "Folder path...")
	case key.Matches(msg, m.keys.ToggleHidden):
		m.setStatus(m.actions.ToggleShowHidden(), nil)
		m.reload()
		return m, nil
	}

	row, ok := m.Selected()
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Expand):
		m.expand(row)
	case key.Matches(msg, m.keys.Collapse):
		m.collapse(row)
	case key.Matches(msg, m.keys.Activate):
		switch {
		case row.State.Expanded:
			m.collapse(row)
		case row.State.Expandable:
			m.expand(row)
		case row.State.DefaultAction == model.ActionOpen:
			m.setStatus("Opened: "+row.Node.Path, m.actions.OpenDefault(row.Node))
		}
	case key.Matches(msg, m.keys.RemoveFolder):
		if !row.Node.IsRoot {
			m.setStatus("Only root folders can be removed from the list", nil)
			return m, nil
		}
		m.setStatus(m.actions.RemoveFolder(row.Node.Path))
		m.reload()
	case key.Matches(msg, m.keys.NewFile):
		parent, _ := m.targetDir()
		return m, m.openPrompt(promptNewFile, parent, "", "File name...")
	case key.Matches(msg, m.keys.NewFolder):
		parent, _ := m.targetDir()
		return m, m.openPrompt(promptNewFolder, parent, "", "Folder name...")
	case key.Matches(msg, m.keys.Rename):
		return m, m.openPrompt(promptRename, row.Node, row.Node.Name, "New name...")
	case key.Matches(msg, m.keys.Delete):
		m.Prompt = promptDelete
		m.PromptTarget = row.Node
	case key.Matches(msg, m.keys.Open):
		m.setStatus("Opened: "+row.Node.Path, m.actions.OpenDefault(row.Node))
	case key.Matches(msg, m.keys.Reveal):
		m.setStatus("Revealed: "+row.Node.Path, m.actions.Reveal(row.Node))
	}
	return m, nil
}

func (m *AppModel) expand(row Row) {
	if !row.State.Expandable {
		return
	}
	if !row.State.Expanded {
		m.host.Expand(row.State.ID)
		m.reload()
	}
}

// collapse folds an expanded directory, otherwise moves to the parent row.
func (m *AppModel) collapse(row Row) {
	if row.State.Expanded {
		m.host.Collapse(row.State.ID)
		m.reload()
		return
	}
	if p := parentIdx(m.Rows, m.SelectedIdx); p >= 0 {
		m.SelectedIdx = p
		m.loadPreview(false)
	}
}

func (m *AppModel) openPrompt(kind promptKind, target model.Node, value, placeholder string) tea.Cmd {
	m.Prompt = kind
	m.PromptTarget = target
	m.InputBuffer.Placeholder = placeholder
	m.InputBuffer.SetValue(value)
	m.InputBuffer.CursorEnd()
	m.InputBuffer.Focus()
	return textinput.Blink
}

func (m *AppModel) closePrompt() {
	m.Prompt = promptNone
	m.PromptTarget = model.Node{}
	m.InputBuffer.Blur()
	m.InputBuffer.SetValue("")
}

func (m *AppModel) submitPrompt() {
	kind, target := m.Prompt, m.PromptTarget
	value := strings.TrimSpace(m.InputBuffer.Value())
	m.closePrompt()

	// An empty answer cancels, the same as esc.
	if value == "" {
		return
	}

	var (
		msg   string
		err   error
		focus string
	)
	switch kind {
	case promptAddFolder:
		msg, err = m.actions.AddFolder(value)
	case promptNewFile:
		msg, err = m.actions.CreateFile(target, value)
		focus = m.revealChild(target, value, err)
	case promptNewFolder:
		msg, err = m.actions.CreateFolder(target, value)
		focus = m.revealChild(target, value, err)
	case promptRename:
		msg, err = m.actions.Rename(target, value)
		if err == nil {
			focus = filepath.Join(filepath.Dir(target.Path), value)
		}
	}
	m.setStatus(msg, err)
	m.reload()
	if m.selectID(focus) {
		m.loadPreview(true)
	}
}

// revealChild expands parent so a freshly created entry is visible and
// returns the entry's identifier.
func (m *AppModel) revealChild(parent model.Node, name string, err error) string {
	if err != nil {
		return ""
	}
	m.host.Expand(parent.ID())
	return filepath.Join(parent.Path, name)
}

func (m *AppModel) confirmDelete(answer string) {
	target := m.PromptTarget
	m.Prompt = promptNone
	m.PromptTarget = model.Node{}
	if answer != "y" && answer != "Y" {
		m.setStatus(fmt.Sprintf("Kept %s", target.Name), nil)
		return
	}
	m.setStatus(m.actions.Delete(target))
	m.reload()
}
