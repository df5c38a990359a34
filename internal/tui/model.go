package tui

import (
	"context"
	"path/filepath"

	"foldertree/internal/model"
	"foldertree/internal/view"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// previewLines caps how much of a text file the details pane reads.
const previewLines = 200

// Actions is the workspace surface the TUI drives.
type Actions interface {
	Host() view.Host
	AddFolder(dir string) (string, error)
	RemoveFolder(dir string) (string, error)
	ToggleShowHidden() string
	CreateFile(parent model.Node, name string) (string, error)
	CreateFolder(parent model.Node, name string) (string, error)
	Delete(node model.Node) (string, error)
	Rename(node model.Node, newName string) (string, error)
	Reveal(node model.Node) error
	OpenDefault(node model.Node) error
}

type promptKind int

const (
	promptNone promptKind = iota
	promptAddFolder
	promptNewFile
	promptNewFolder
	promptRename
	promptDelete
)

// AppModel holds the TUI state.
type AppModel struct {
	actions Actions
	host    view.Host

	// Data
	Rows    []Row
	Preview model.Preview

	// UI State
	SelectedIdx int
	WindowSize  tea.WindowSizeMsg
	ShowHelp    bool
	HelpScrollY int
	HelpContent string

	// Prompt State
	Prompt       promptKind
	PromptTarget model.Node
	InputBuffer  textinput.Model

	// Status line
	Status    string
	StatusErr bool

	keys        keyMap
	help        help.Model
	refresh     <-chan struct{}
	unsubscribe func()
}

// MsgRefresh tells the model the tree changed and must be flattened again.
type MsgRefresh struct{}

// InitialModel returns the initial state, already showing the tree.
func InitialModel(actions Actions) AppModel {
	ti := textinput.New()
	ti.CharLimit = 255
	ti.Width = 40

	host := actions.Host()
	ch, cancel := host.Subscribe()
	m := AppModel{
		actions:     actions,
		host:        host,
		InputBuffer: ti,
		HelpContent: model.HelpText(),
		keys:        defaultKeyMap(),
		help:        help.New(),
		refresh:     ch,
		unsubscribe: cancel,
	}
	m.reload()
	return m
}

func (m AppModel) Init() tea.Cmd {
	return waitForRefresh(m.refresh)
}

// Close stops listening for tree invalidations.
func (m AppModel) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// waitForRefresh turns the next invalidation into a tea message.
func waitForRefresh(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return MsgRefresh{}
	}
}

// Selected returns the node under the cursor.
func (m AppModel) Selected() (Row, bool) {
	if m.SelectedIdx < 0 || m.SelectedIdx >= len(m.Rows) {
		return Row{}, false
	}
	return m.Rows[m.SelectedIdx], true
}

// reload flattens the tree again, keeping the cursor on the same node when
// it still exists.
func (m *AppModel) reload() {
	selectedID := ""
	if row, ok := m.Selected(); ok {
		selectedID = row.State.ID
	}
	m.Rows = Flatten(context.Background(), m.host)
	if !m.selectID(selectedID) {
		m.clampSelection()
	}
	m.loadPreview(true)
}

func (m *AppModel) selectID(id string) bool {
	if id == "" {
		return false
	}
	for i, row := range m.Rows {
		if row.State.ID == id {
			m.SelectedIdx = i
			return true
		}
	}
	return false
}

func (m *AppModel) clampSelection() {
	if m.SelectedIdx >= len(m.Rows) {
		m.SelectedIdx = len(m.Rows) - 1
	}
	if m.SelectedIdx < 0 {
		m.SelectedIdx = 0
	}
}

func (m *AppModel) loadPreview(force bool) {
	row, ok := m.Selected()
	if !ok {
		m.Preview = model.Preview{}
		return
	}
	if !force && m.Preview.Path == row.Node.Path {
		return
	}
	m.Preview = model.ReadPreview(row.Node.Path, previewLines)
}

// targetDir is where new entries go: the selected directory itself, or the
// parent of a selected file.
func (m AppModel) targetDir() (model.Node, bool) {
	row, ok := m.Selected()
	if !ok {
		return model.Node{}, false
	}
	if row.Node.IsDir {
		return row.Node, true
	}
	dir := filepath.Dir(row.Node.Path)
	return model.Node{Name: filepath.Base(dir), Path: dir, IsDir: true}, true
}

func (m *AppModel) setStatus(msg string, err error) {
	if err != nil {
		m.Status = err.Error()
		m.StatusErr = true
		return
	}
	m.Status = msg
	m.StatusErr = false
}
