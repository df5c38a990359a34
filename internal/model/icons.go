package model

// Centralized icons for the tree hosts
// Using simple single-width characters for consistent terminal rendering
const (
	IconCollapsed = "▸" // Directory that can be expanded
	IconExpanded  = "▾" // Directory currently expanded
	IconFile      = " " // Space (files carry no marker to reduce noise)
	IconRoot      = "◆" // Diamond for configured root folders
	IconHidden    = "·" // Dotfile shown because show-hidden is on
)

// IconFor picks the marker for a node's visual state.
func IconFor(node Node, expanded bool) string {
	switch {
	case !node.IsDir:
		return IconFile
	case expanded:
		return IconExpanded
	default:
		return IconCollapsed
	}
}
