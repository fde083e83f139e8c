package styles

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/dumbtile/internal/domain/entity"
)

// NewStyledTable creates a themed table model.
func NewStyledTable(theme *Theme, columns []table.Column, rows []table.Row, width, height int) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(height),
		table.WithWidth(width),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.Border).
		BorderBottom(true).
		Foreground(theme.Accent).
		Bold(true)
	// Static listing: no row is selected.
	s.Selected = s.Cell.Foreground(theme.Text)
	s.Cell = s.Cell.
		Foreground(theme.Text)

	t.SetStyles(s)
	return t
}

// ProfileTableColumns returns columns for the profile listing.
func ProfileTableColumns() []table.Column {
	return []table.Column{
		{Title: "Profile", Width: 20},
		{Title: "Panes", Width: 6},
		{Title: "Flags", Width: 24},
		{Title: "Saved", Width: 12},
	}
}

// ProfileRow converts a profile description to a table row.
func ProfileRow(info entity.ProfileInfo, now time.Time) table.Row {
	saved := "-"
	if !info.UpdatedAt.IsZero() {
		saved = RelativeTime(info.UpdatedAt, now)
	}
	return table.Row{info.Name, strconv.Itoa(info.PaneCount), ProfileFlags(info), saved}
}

// ProfileFlags lists the state of a profile as comma-separated words.
func ProfileFlags(info entity.ProfileInfo) string {
	var flags []string
	if info.IsActive {
		flags = append(flags, "active")
	}
	if info.IsBuiltin {
		flags = append(flags, "builtin")
	}
	if info.IsStored {
		flags = append(flags, "stored")
	}
	return strings.Join(flags, ",")
}
