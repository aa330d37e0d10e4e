package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/repolens/repolens/pkg/store"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// entryListModel is the bubbletea model for browsing cache entries. Enter
// selects the entry under the cursor; q or esc quits without a selection.
type entryListModel struct {
	Entries  []store.Entry
	Cursor   int
	Selected *store.Entry
	Height   int
	Offset   int
}

func newEntryListModel(entries []store.Entry) entryListModel {
	return entryListModel{
		Entries: entries,
		Height:  15,
	}
}

func (m entryListModel) Init() tea.Cmd {
	return nil
}

func (m entryListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Entries)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			entry := m.Entries[m.Cursor]
			m.Selected = &entry
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m entryListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Cached Repositories"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Entries) {
		end = len(m.Entries)
	}

	for i := m.Offset; i < end; i++ {
		e := m.Entries[i]

		cursor := "  "
		style := listNormalStyle
		if i == m.Cursor {
			cursor = "▸ "
			style = listSelectedStyle
		}

		score := "-"
		if e.Record != nil {
			score = fmt.Sprintf("%3d", e.Record.Analysis.QualityScore)
		}

		line := fmt.Sprintf("%-40s %s  %4d  %s",
			e.Key, score, e.AccessCount, formatAge(time.Since(e.CreatedAt)))
		b.WriteString(cursor + style.Render(line))
		b.WriteString("\n")
	}

	if len(m.Entries) > m.Height {
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render(
			fmt.Sprintf("%d-%d of %d", m.Offset+1, end, len(m.Entries))))
	}

	return b.String()
}
