package ui

import (
	"fmt"
	"strings"

	"cmdpal/internal/session"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.input.View())
	b.WriteString("\n")

	if m.confirm != nil {
		b.WriteString("\n")
		b.WriteString(m.styles.Confirm.Render(m.confirm.prompt))
		b.WriteString("  ")
		b.WriteString(m.styles.Dim.Render("[y]es  [n]o  [esc] later"))
		b.WriteString("\n")
		return m.styles.Main.Render(b.String())
	}

	top, items := m.sess.VisibleWindow()
	if len(items) > 0 {
		b.WriteString("\n")
		if top > 0 {
			b.WriteString(m.styles.Scroll.Render("  ↑ more"))
			b.WriteString("\n")
		}
		for i, c := range items {
			idx := top + i
			badge := m.styles.Kind.Render("[" + kindLabel(c.Kind) + "]")
			line := fmt.Sprintf("%s %s", badge, c.DisplayName)
			if idx == m.sess.Cursor() {
				b.WriteString(m.styles.SelectedBg.Render(m.styles.Selected.Render("▸ " + line)))
			} else {
				b.WriteString(m.styles.Item.Render("  " + line))
			}
			b.WriteString("\n")
		}
		if top+len(items) < len(m.sess.Suggestions()) {
			b.WriteString(m.styles.Scroll.Render("  ↓ more"))
			b.WriteString("\n")
		}
	} else if hint := m.sess.Hint(); hint != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Hint.Render("  " + hint))
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString("\n")
		if m.statusErr {
			b.WriteString(m.styles.StatusError.Render(m.status))
		} else {
			b.WriteString(m.styles.StatusSuccess.Render(m.status))
		}
		b.WriteString("\n")
	}

	if m.sess.State() == session.StateIdle && m.status == "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Help.Render("enter run · ↑/↓ select · esc clear · ctrl+l activity · ctrl+c quit"))
		b.WriteString("\n")
	}

	return m.styles.Main.Render(b.String())
}

// rowToIndex maps a terminal row to the suggestion it renders on, mirroring
// the layout View produces: one row of frame padding, the input line, and a
// blank line above the list, plus the scroll marker when the window is not
// at the top.
func (m Model) rowToIndex(y int) (int, bool) {
	if m.confirm != nil {
		return 0, false
	}
	top, items := m.sess.VisibleWindow()
	if len(items) == 0 {
		return 0, false
	}
	first := 3
	if top > 0 {
		first++
	}
	i := y - first
	if i < 0 || i >= len(items) {
		return 0, false
	}
	return top + i, true
}
