package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/handiism/tubeaudio/internal/config"
	"github.com/handiism/tubeaudio/internal/download"
	"github.com/handiism/tubeaudio/internal/model"
)

// Session is the catalog state the UI browses.
type Session interface {
	Search(ctx context.Context, keyword string) error
	PrevPage(ctx context.Context) error
	NextPage(ctx context.Context) error
	Items() []model.Entry
	Page() int
	Keyword() string
	Domain() string
}

// Downloader starts downloads of the session's current entries.
type Downloader interface {
	Start(index int, hint string) (*download.Job, error)
	States() <-chan download.TransferState
}

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateSearching
	StateResults
)

// LogLevel is the severity of a log line.
type LogLevel int

const (
	LevelInfo LogLevel = iota
	LevelSuccess
	LevelWarning
	LevelError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   LogLevel
}

type jobView struct {
	id      string
	entry   model.Entry
	pending bool
	kind    download.StateKind
	path    string
	err     error
}

func (j jobView) done() bool {
	return !j.pending && j.kind == download.StateCompleted
}

const maxLogs = 5

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings

	session    Session
	downloader Downloader

	// Catalog query context, replaced after a cancel
	ctx    context.Context
	cancel context.CancelFunc

	items  []model.Entry
	cursor int
	busy   bool

	jobs     []jobView
	jobIndex map[string]int

	logs []LogEntry
	err  error

	width  int
	height int
}

// NewModel creates a new TUI model.
func NewModel(settings *config.Settings, session Session, downloader Downloader) Model {
	ti := textinput.New()
	ti.Placeholder = "lofi hip hop"
	ti.Focus()
	ti.CharLimit = 200
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:      StateInput,
		textInput:  ti,
		spinner:    sp,
		progress:   prog,
		settings:   settings,
		session:    session,
		downloader: downloader,
		ctx:        ctx,
		cancel:     cancel,
		jobIndex:   make(map[string]int),
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, waitForState(m.downloader.States()))
}

// Message types
type (
	// SearchDoneMsg is sent when a search finished.
	SearchDoneMsg struct {
		Err error
	}

	// PageDoneMsg is sent when a page query finished.
	PageDoneMsg struct {
		Err error
	}

	// StateMsg carries one download state.
	StateMsg struct {
		State download.TransferState
	}

	// StatesClosedMsg is sent once the state channel is closed.
	StatesClosedMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-20, 20), 80)
		return m, nil

	case tea.KeyMsg:
		var cmd tea.Cmd
		var handled bool
		m, cmd, handled = m.handleKey(msg)
		if handled {
			return m, cmd
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case SearchDoneMsg:
		m.busy = false
		if msg.Err != nil {
			m.err = msg.Err
			m.addLog(LevelError, fmt.Sprintf("Search failed: %v", msg.Err))
			if len(m.items) == 0 {
				m.state = StateInput
				m.textInput.Focus()
			} else {
				m.state = StateResults
			}
			break
		}
		m.err = nil
		m.items = m.session.Items()
		m.cursor = 0
		m.state = StateResults
		m.textInput.Blur()
		m.addLog(LevelInfo, fmt.Sprintf("Found %d video(s) on %s", len(m.items), m.session.Domain()))

	case PageDoneMsg:
		m.busy = false
		m.items = m.session.Items()
		if msg.Err != nil {
			m.err = msg.Err
			m.addLog(LevelWarning, fmt.Sprintf("Page %d failed: %v", m.session.Page(), msg.Err))
		} else {
			m.err = nil
			m.cursor = 0
		}
		m.cursor = min(m.cursor, max(len(m.items)-1, 0))

	case StateMsg:
		m.applyState(msg.State)
		cmds = append(cmds, m.progress.SetPercent(m.completedRatio()), waitForState(m.downloader.States()))

	case StatesClosedMsg:
		return m, nil

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleKey reports handled=false for keys the text input should receive.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	if msg.String() == "ctrl+c" {
		m.cancel()
		return m, tea.Quit, true
	}

	switch m.state {
	case StateInput:
		switch msg.String() {
		case "esc":
			if len(m.items) > 0 {
				m.state = StateResults
				m.textInput.Blur()
				return m, nil, true
			}
			return m, tea.Quit, true
		case "enter":
			keyword := strings.TrimSpace(m.textInput.Value())
			if keyword == "" || m.busy {
				return m, nil, true
			}
			m.state = StateSearching
			m.busy = true
			return m, tea.Batch(m.searchCmd(keyword), m.spinner.Tick), true
		}
		return m, nil, false

	case StateSearching:
		if msg.String() == "esc" {
			m.cancel()
			m.ctx, m.cancel = context.WithCancel(context.Background())
		}
		return m, nil, true

	case StateResults:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case "left", "h", "pgup":
			if !m.busy && m.session.Page() > 1 {
				m.busy = true
				return m, tea.Batch(m.pageCmd(m.session.PrevPage), m.spinner.Tick), true
			}
		case "right", "l", "pgdown":
			if !m.busy {
				m.busy = true
				return m, tea.Batch(m.pageCmd(m.session.NextPage), m.spinner.Tick), true
			}
		case "enter", "d":
			m.startDownload()
		case "/", "s":
			m.state = StateInput
			m.textInput.SetValue("")
			m.textInput.Focus()
			return m, textinput.Blink, true
		case "esc", "q":
			m.cancel()
			return m, tea.Quit, true
		}
		return m, nil, true
	}

	return m, nil, false
}

func (m *Model) startDownload() {
	if m.busy || len(m.items) == 0 {
		return
	}
	job, err := m.downloader.Start(m.cursor, "")
	if err != nil {
		m.addLog(LevelError, fmt.Sprintf("Cannot start download: %v", err))
		return
	}
	m.jobIndex[job.ID] = len(m.jobs)
	m.jobs = append(m.jobs, jobView{id: job.ID, entry: job.Entry, pending: true})
	m.addLog(LevelInfo, fmt.Sprintf("Downloading %s into %s", job.Entry.Title, job.Dir))
}

func (m *Model) applyState(s download.TransferState) {
	idx, ok := m.jobIndex[s.JobID]
	if !ok {
		return
	}
	j := &m.jobs[idx]
	j.pending = false
	j.kind = s.Kind

	switch s.Kind {
	case download.StateErrDownload:
		j.err = s.Err
		m.addLog(LevelError, fmt.Sprintf("%s failed: %v", j.entry.Title, firstLine(s.Err)))
	case download.StateCompleted:
		j.path = s.Path
		switch {
		case s.HasPath():
			m.addLog(LevelSuccess, fmt.Sprintf("Saved %s", s.Path))
		case j.err == nil:
			m.addLog(LevelWarning, fmt.Sprintf("%s finished but the file was not found", j.entry.Title))
		}
	}
}

func (m Model) completedRatio() float64 {
	if len(m.jobs) == 0 {
		return 0
	}
	var done int
	for _, j := range m.jobs {
		if j.done() {
			done++
		}
	}
	return float64(done) / float64(len(m.jobs))
}

// Running returns the number of downloads that have not completed.
func (m Model) Running() int {
	var n int
	for _, j := range m.jobs {
		if !j.done() {
			n++
		}
	}
	return n
}

func (m *Model) addLog(level LogLevel, message string) {
	m.logs = append(m.logs, LogEntry{Message: message, Level: level})
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

func (m Model) searchCmd(keyword string) tea.Cmd {
	ctx, session := m.ctx, m.session
	return func() tea.Msg {
		return SearchDoneMsg{Err: session.Search(ctx, keyword)}
	}
}

func (m Model) pageCmd(navigate func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return PageDoneMsg{Err: navigate(ctx)}
	}
}

func waitForState(states <-chan download.TransferState) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-states
		if !ok {
			return StatesClosedMsg{}
		}
		return StateMsg{State: s}
	}
}

func firstLine(err error) string {
	if err == nil {
		return ""
	}
	s := err.Error()
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// Run starts the TUI application and returns the final model.
func Run(settings *config.Settings, session Session, downloader Downloader) (Model, error) {
	p := tea.NewProgram(NewModel(settings, session, downloader), tea.WithAltScreen())
	final, err := p.Run()
	if m, ok := final.(Model); ok {
		return m, err
	}
	return Model{}, err
}
