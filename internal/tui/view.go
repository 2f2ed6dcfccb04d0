package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/handiism/tubeaudio/internal/download"
	"github.com/mattn/go-runewidth"
)

// Palette
const (
	colorAccent = lipgloss.Color("#FF6B6B")
	colorTeal   = lipgloss.Color("#4ECDC4")
	colorGreen  = lipgloss.Color("#95E1A3")
	colorYellow = lipgloss.Color("#FFE66D")
	colorSky    = lipgloss.Color("#A8DADC")
	colorGrey   = lipgloss.Color("#6C757D")
	colorAmber  = lipgloss.Color("#F8B500")
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorAccent).MarginBottom(1)
	subtitleStyle = lipgloss.NewStyle().Foreground(colorTeal)
	successStyle  = lipgloss.NewStyle().Foreground(colorGreen)
	errorStyle    = lipgloss.NewStyle().Foreground(colorAccent)
	warningStyle  = lipgloss.NewStyle().Foreground(colorYellow)
	infoStyle     = lipgloss.NewStyle().Foreground(colorSky)
	dimStyle      = lipgloss.NewStyle().Foreground(colorGrey)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAmber)
	boxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorTeal).Padding(0, 1)
)

// logMarks maps a log level to its style and prefix.
var logMarks = map[LogLevel]struct {
	style  lipgloss.Style
	prefix string
}{
	LevelInfo:    {infoStyle, "›"},
	LevelSuccess: {successStyle, "✓"},
	LevelWarning: {warningStyle, "!"},
	LevelError:   {errorStyle, "✗"},
}

const (
	defaultTitleWidth = 60
	maxJobRows        = 6
)

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("♪ tubeaudio"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Search videos and download them as MP3"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateSearching:
		b.WriteString(m.viewSearching())
	case StateResults:
		b.WriteString(m.viewResults())
	}

	if len(m.jobs) > 0 {
		b.WriteString("\n")
		b.WriteString(m.viewDownloads())
	}

	if len(m.logs) > 0 {
		b.WriteString("\n")
		b.WriteString(m.renderLogs())
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.helpText()))

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Search:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Download path: %s", m.settings.DownloadsPath)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewSearching() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("Searching %q...", strings.TrimSpace(m.textInput.Value()))))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewResults() string {
	var b strings.Builder

	header := fmt.Sprintf("%q · page %d · %s", m.session.Keyword(), m.session.Page(), m.session.Domain())
	b.WriteString(subtitleStyle.Render(header))
	if m.busy {
		b.WriteString(" ")
		b.WriteString(m.spinner.View())
	}
	b.WriteString("\n\n")

	if len(m.items) == 0 {
		b.WriteString(warningStyle.Render("No videos on this page"))
		b.WriteString("\n")
		return b.String()
	}

	width := m.titleWidth()
	for i, entry := range m.items {
		title := runewidth.FillRight(runewidth.Truncate(entry.Title, width, "…"), width)
		line := fmt.Sprintf("%2d  %s  %8s", i, title, entry.FormatDuration())
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("› " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) viewDownloads() string {
	var b strings.Builder

	b.WriteString(m.progress.ViewAs(m.completedRatio()))
	b.WriteString("\n")

	jobs := m.jobs
	if len(jobs) > maxJobRows {
		jobs = jobs[len(jobs)-maxJobRows:]
	}
	width := m.titleWidth()
	for _, j := range jobs {
		title := runewidth.Truncate(j.entry.Title, width, "…")
		b.WriteString(m.jobIcon(j))
		b.WriteString(" ")
		b.WriteString(title)
		b.WriteString("\n")
	}

	return boxStyle.Render(strings.TrimRight(b.String(), "\n")) + "\n"
}

func (m Model) jobIcon(j jobView) string {
	switch {
	case j.pending || j.kind == download.StateRunning:
		return m.spinner.View()
	case j.kind == download.StateSuccess:
		return infoStyle.Render("…")
	case j.kind == download.StateErrDownload || j.err != nil:
		return errorStyle.Render("✗")
	case j.path != "":
		return successStyle.Render("✓")
	default:
		return warningStyle.Render("?")
	}
}

func (m Model) renderLogs() string {
	lines := make([]string, 0, len(m.logs))
	for _, entry := range m.logs {
		mark := logMarks[entry.Level]
		lines = append(lines, mark.style.Render(mark.prefix+" "+entry.Message))
	}
	return strings.Join(lines, "\n") + "\n"
}

func (m Model) titleWidth() int {
	if m.width <= 0 {
		return defaultTitleWidth
	}
	return max(m.width-20, 10)
}

func (m Model) helpText() string {
	switch m.state {
	case StateInput:
		if len(m.items) > 0 {
			return "enter: search • esc: back to results"
		}
		return "enter: search • esc: quit"
	case StateSearching:
		return "esc: cancel"
	case StateResults:
		return "↑/↓: select • ←/→: page • enter: download • /: new search • q: quit"
	}
	return ""
}
