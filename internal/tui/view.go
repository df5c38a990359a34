package tui

import (
	"fmt"
	"strings"

	"foldertree/internal/model"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57"))

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	rootStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")). // Sky Blue/Cyan
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	adviceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208")) // Orange

	borderColor = lipgloss.Color("63")
	activeColor = lipgloss.Color("205")
)

func (m AppModel) View() string {
	if m.ShowHelp {
		return m.renderHelpDialog()
	}

	// Subtracting 6 for horizontal margin (borders x2 + buffer)
	// Subtracting 7 for vertical margin (borders, status, footer)
	width := m.WindowSize.Width
	height := m.WindowSize.Height

	netWidth := width - 6
	if netWidth < 20 {
		netWidth = 20
	}
	leftWidth := netWidth / 2
	rightWidth := netWidth - leftWidth

	interiorHeight := height - 7
	if interiorHeight < 4 {
		interiorHeight = 4
	}

	left := lipgloss.NewStyle().
		Width(leftWidth).
		Height(interiorHeight).
		Border(lipgloss.NormalBorder()).
		BorderForeground(activeColor).
		Render(m.renderTree(leftWidth, interiorHeight))

	right := lipgloss.NewStyle().
		Width(rightWidth).
		Height(interiorHeight).
		Border(lipgloss.NormalBorder()).
		BorderForeground(borderColor).
		Render(m.renderDetails(rightWidth, interiorHeight))

	return lipgloss.JoinHorizontal(lipgloss.Top, left, right) + "\n" + m.renderFooter()
}

func (m AppModel) renderTree(width, height int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Folders"))
	b.WriteString("\n\n")

	if len(m.Rows) == 0 {
		b.WriteString(dimStyle.Render("No folders yet. Press 'a' to add one."))
		return b.String()
	}

	// Header is 2 lines (Title + 1 blank line)
	visibleItems := height - 2
	if visibleItems < 1 {
		visibleItems = 1
	}
	startIdx, endIdx := window(len(m.Rows), m.SelectedIdx, visibleItems)

	for i := startIdx; i < endIdx; i++ {
		line := truncate(rowLabel(m.Rows[i]), width-1)

		style := normalStyle
		switch {
		case i == m.SelectedIdx:
			style = selectedStyle
		case m.Rows[i].Node.IsRoot:
			style = rootStyle
		}
		b.WriteString(style.Render(line))
		if i < endIdx-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// rowLabel renders indentation, marker and label for one row.
func rowLabel(row Row) string {
	indent := strings.Repeat("  ", row.Depth)
	label := row.State.Label
	if row.Node.IsRoot {
		label = model.IconRoot + " " + label
	}
	if strings.HasPrefix(row.Node.Name, ".") {
		label += " " + model.IconHidden
	}
	return fmt.Sprintf("%s%s %s", indent, row.State.Icon, label)
}

func (m AppModel) renderDetails(width, height int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Details"))
	b.WriteString("\n")

	row, ok := m.Selected()
	if !ok {
		b.WriteString("\nNothing selected.")
		return b.String()
	}

	p := m.Preview
	kind := "File"
	switch {
	case row.Node.IsRoot:
		kind = "Root folder"
	case row.Node.IsDir:
		kind = "Folder"
	}
	b.WriteString(fmt.Sprintf("\nName:       %s", row.Node.Name))
	b.WriteString(fmt.Sprintf("\nPath:       %s", row.Node.Path))
	b.WriteString(fmt.Sprintf("\nKind:       %s", kind))

	if p.ErrorMsg != "" {
		b.WriteString("\n\n" + adviceStyle.Render(p.ErrorMsg))
		return clip(b.String(), width, height)
	}
	if !p.ModTime.IsZero() {
		b.WriteString(fmt.Sprintf("\nModified:   %s (%s)", p.ModTime.Format("2006-01-02 15:04:05"), humanize.Time(p.ModTime)))
	}
	if !p.IsDir {
		b.WriteString(fmt.Sprintf("\nSize:       %s", humanize.Bytes(uint64(p.Size))))
		if p.MIME != "" {
			b.WriteString(fmt.Sprintf("\nType:       %s", p.MIME))
		}
	}

	if p.IsText && len(p.Lines) > 0 {
		b.WriteString("\n\n--- Preview ---")
		lnWidth := len(fmt.Sprintf("%d", len(p.Lines)))
		for i, line := range p.Lines {
			b.WriteString("\n" + dimStyle.Render(fmt.Sprintf("%*d ", lnWidth, i+1)) + line)
		}
		if p.Truncated {
			b.WriteString("\n" + dimStyle.Render("..."))
		}
	} else if !p.IsDir && !p.IsText && p.Size > 0 {
		b.WriteString("\n\n" + dimStyle.Render("(binary file)"))
	}

	return clip(b.String(), width, height)
}

func (m AppModel) renderFooter() string {
	switch m.Prompt {
	case promptDelete:
		what := "file"
		if m.PromptTarget.IsDir {
			what = "folder and all its contents"
		}
		return adviceStyle.Render(fmt.Sprintf("Delete %s %q? (y/n)", what, m.PromptTarget.Name))
	case promptAddFolder:
		return "Add folder: " + m.InputBuffer.View()
	case promptNewFile:
		return fmt.Sprintf("New file in %s: %s", m.PromptTarget.Name, m.InputBuffer.View())
	case promptNewFolder:
		return fmt.Sprintf("New folder in %s: %s", m.PromptTarget.Name, m.InputBuffer.View())
	case promptRename:
		return "Rename to: " + m.InputBuffer.View()
	}

	status := ""
	if m.Status != "" {
		if m.StatusErr {
			status = errorStyle.Render(m.Status)
		} else {
			status = infoStyle.Render(m.Status)
		}
	}
	return status + "\n" + m.help.View(m.keys)
}

func (m *AppModel) renderHelpDialog() string {
	w, h := m.WindowSize.Width, m.WindowSize.Height
	if w < 20 || h < 10 {
		return "Window too small"
	}

	helpWidth := w * 80 / 100
	if helpWidth < 40 {
		helpWidth = 40
	}
	if helpWidth > w-4 {
		helpWidth = w - 4
	}
	helpHeight := h - 6
	if helpHeight < 5 {
		helpHeight = 5
	}

	lines := strings.Split(m.HelpContent, "\n")
	// Adjust height for title and border
	contentHeight := helpHeight - 2

	startY := m.HelpScrollY
	if startY > len(lines)-contentHeight {
		startY = len(lines) - contentHeight
	}
	if startY < 0 {
		startY = 0
	}
	m.HelpScrollY = startY // Correct it back

	endY := startY + contentHeight
	if endY > len(lines) {
		endY = len(lines)
	}

	dialog := lipgloss.NewStyle().
		Width(helpWidth).
		Height(helpHeight).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Render(strings.Join(lines[startY:endY], "\n"))

	return lipgloss.Place(w, h,
		lipgloss.Center, lipgloss.Center,
		dialog,
	)
}

// window returns the slice of n items to show so that selected stays
// roughly centred.
func window(n, selected, visible int) (int, int) {
	if n <= visible {
		return 0, n
	}
	start := 0
	if selected >= visible/2 {
		start = selected - visible/2
	}
	if start+visible > n {
		start = n - visible
	}
	return start, start + visible
}

func truncate(s string, width int) string {
	r := []rune(s)
	if width < 4 || len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}

// clip keeps the first height lines, each cut to width.
func clip(s string, width, height int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(strings.Join(lines, "\n"))
}
