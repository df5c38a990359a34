package model

// Node represents either a root folder or a descendant file or directory.
type Node struct {
	Name   string // Display label (full path for roots, base name otherwise)
	Path   string // Absolute path, doubles as the stable identifier
	IsDir  bool
	IsRoot bool
}

// ID returns the node identifier used for expansion tracking.
func (n Node) ID() string {
	return n.Path
}

// Context values let hosts offer different actions per node kind.
const (
	ContextRootFolder = "rootFolder"
	ContextFolder     = "folder"
	ContextFile       = "file"
)

// ContextValue classifies the node for host menus.
func (n Node) ContextValue() string {
	switch {
	case n.IsDir && n.IsRoot:
		return ContextRootFolder
	case n.IsDir:
		return ContextFolder
	default:
		return ContextFile
	}
}

// Action is what a host does when a node is activated.
type Action int

const (
	ActionNone Action = iota
	ActionOpen        // Open the file in the host's default viewer
)

func (a Action) String() string {
	switch a {
	case ActionOpen:
		return "open"
	default:
		return "none"
	}
}

// MarshalText lets JSON hosts see the action by name.
func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// VisualState is the per-node descriptor handed to a rendering host.
type VisualState struct {
	Label         string `json:"label"`
	ID            string `json:"id"`
	Expandable    bool   `json:"expandable"`
	Expanded      bool   `json:"expanded"`
	DefaultAction Action `json:"defaultAction"`
	ContextValue  string `json:"contextValue"`
	Icon          string `json:"icon"`
}
