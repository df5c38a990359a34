package model

import (
	_ "embed"
	"strings"
)

//go:embed help.md
var helpMD string

// HelpText returns the user guide shared by the TUI and web hosts.
func HelpText() string {
	return strings.ReplaceAll(helpMD, "{{VERSION}}", Version)
}
