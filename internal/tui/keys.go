package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up           key.Binding
	Down         key.Binding
	Expand       key.Binding
	Collapse     key.Binding
	Activate     key.Binding
	AddFolder    key.Binding
	RemoveFolder key.Binding
	ToggleHidden key.Binding
	NewFile      key.Binding
	NewFolder    key.Binding
	Rename       key.Binding
	Delete       key.Binding
	Open         key.Binding
	Reveal       key.Binding
	Help         key.Binding
	Quit         key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:           key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:         key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Expand:       key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "expand")),
		Collapse:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "collapse")),
		Activate:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "toggle/open")),
		AddFolder:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add folder")),
		RemoveFolder: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove folder")),
		ToggleHidden: key.NewBinding(key.WithKeys("."), key.WithHelp(".", "hidden")),
		NewFile:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new file")),
		NewFolder:    key.NewBinding(key.WithKeys("N"), key.WithHelp("N", "new folder")),
		Rename:       key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rename")),
		Delete:       key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Open:         key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open")),
		Reveal:       key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reveal")),
		Help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Expand, k.Collapse, k.AddFolder, k.ToggleHidden, k.Delete, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Expand, k.Collapse, k.Activate},
		{k.AddFolder, k.RemoveFolder, k.ToggleHidden},
		{k.NewFile, k.NewFolder, k.Rename, k.Delete},
		{k.Open, k.Reveal, k.Help, k.Quit},
	}
}
