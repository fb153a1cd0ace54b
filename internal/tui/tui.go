// Package tui provides the interactive Bubble Tea front end for hymnscan.
//
// It walks through the same steps as the command-line tool: load and
// analyze a collection, optionally export the missing list, scrape the
// missing hymns, and persist the merged result.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lutherald/hymnscan/internal/config"
	"github.com/lutherald/hymnscan/internal/gap"
	"github.com/lutherald/hymnscan/internal/http"
	"github.com/lutherald/hymnscan/internal/model"
	"github.com/lutherald/hymnscan/internal/scrape"
	"github.com/lutherald/hymnscan/internal/store"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#C9A227")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)
)

const maxLogs = 10

// State represents the current UI state.
type State int

const (
	StatePath State = iota
	StateAskSaveMissing
	StateAskScrape
	StateDelay
	StateScraping
	StateAskPersist
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   model.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state    State
	input    textinput.Model
	spinner  spinner.Model
	progress progress.Model
	settings *config.Settings
	fetcher  scrape.Fetcher
	logs     []LogEntry
	err      error
	notice   string

	path       string
	result     gap.Result
	collection model.Collection
	report     string

	scraped model.Collection
	summary *scrape.Summary
	done    int
	saved   store.SaveResult

	events chan scrape.ProgressEvent
	ctx    context.Context
	cancel context.CancelFunc

	width int
}

// NewModel creates a new TUI model. fetcher retrieves hymn pages; pass an
// *http.Client in production.
func NewModel(settings *config.Settings, fetcher scrape.Fetcher) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#C9A227"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	m := Model{
		state:    StatePath,
		spinner:  sp,
		progress: prog,
		settings: settings,
		fetcher:  fetcher,
		ctx:      ctx,
		cancel:   cancel,
	}
	m.input = m.newInput(settings.CollectionPath, 500)
	return m
}

func (m Model) newInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = 60
	ti.Focus()
	return ti
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// ProgressMsg carries one scrape progress event.
	ProgressMsg struct {
		Event scrape.ProgressEvent
	}

	// ScrapeDoneMsg is sent when the scrape finishes or is cancelled.
	ScrapeDoneMsg struct {
		Scraped model.Collection
		Summary *scrape.Summary
		Err     error
	}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = min(max(msg.Width-20, 20), 80)
		return m, nil

	case tea.KeyMsg:
		next, cmd, handled := m.handleKey(msg)
		if handled {
			return next, cmd
		}
		m = next

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		if msg.Event.Number != 0 && msg.Event.Level != model.LevelVerbose {
			m.done++
		}
		m.appendLog(msg.Event.Message, msg.Event.Level)
		cmds = append(cmds, waitForEvent(m.events))
		if total := len(m.result.Missing); total > 0 {
			cmds = append(cmds, m.progress.SetPercent(float64(m.done)/float64(total)))
		}

	case ScrapeDoneMsg:
		m.scraped = msg.Scraped
		m.summary = msg.Summary
		switch {
		case msg.Err != nil && !scrape.IsCancelled(msg.Err):
			m.state = StateError
			m.err = msg.Err
		case m.scraped.Len() == 0:
			m.notice = "No hymns were scraped. Nothing to save."
			m.state = StateComplete
		default:
			if msg.Err != nil {
				m.appendLog("Scrape cancelled; keeping hymns fetched so far", model.LevelWarning)
			}
			m.state = StateAskPersist
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	if m.state == StatePath || m.state == StateDelay {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleKey processes a key press. handled reports whether the key was
// consumed and must not reach the text input.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	key := msg.String()

	switch key {
	case "ctrl+c":
		m.cancel()
		return m, tea.Quit, true
	case "esc":
		if m.state == StateScraping {
			m.cancel()
			return m, nil, true
		}
		return m, tea.Quit, true
	}

	switch m.state {
	case StatePath:
		if key == "enter" {
			m = m.loadCollection()
			return m, nil, true
		}

	case StateDelay:
		if key == "enter" {
			delay, err := m.parseDelay()
			if err != nil {
				m.notice = err.Error()
				return m, nil, true
			}
			m.notice = ""
			next, cmd := m.startScrape(delay)
			return next, cmd, true
		}

	case StateAskSaveMissing, StateAskScrape, StateAskPersist:
		yes, ok := answer(key)
		if !ok {
			return m, nil, true
		}
		m = m.handleAnswer(yes)
		if m.state == StateDelay {
			return m, textinput.Blink, true
		}
		return m, nil, true

	case StateComplete, StateError:
		if key == "q" || key == "enter" {
			return m, tea.Quit, true
		}
		return m, nil, true
	}

	return m, nil, false
}

func answer(key string) (yes bool, ok bool) {
	switch strings.ToLower(key) {
	case "y":
		return true, true
	case "n":
		return false, true
	}
	return false, false
}

func (m Model) handleAnswer(yes bool) Model {
	switch m.state {
	case StateAskSaveMissing:
		if yes {
			path := m.settings.MissingListPath
			if err := gap.SaveMissingList(path, m.result.Missing, m.result.Last); err != nil {
				m.appendLog(fmt.Sprintf("Error saving missing list: %v", err), model.LevelError)
			} else {
				m.appendLog(fmt.Sprintf("Missing hymns list saved to: %s", path), model.LevelSuccess)
			}
		}
		m.state = StateAskScrape

	case StateAskScrape:
		if !yes {
			m.notice = "Scraping skipped."
			m.state = StateComplete
			return m
		}
		m.input = m.newInput(strconv.FormatFloat(m.settings.RequestDelay, 'f', -1, 64), 10)
		m.state = StateDelay

	case StateAskPersist:
		if !yes {
			m.notice = "Changes discarded."
			m.state = StateComplete
			return m
		}
		merged := store.Merge(m.collection, m.scraped)
		saved, err := store.Save(context.Background(), m.path, merged)
		if err != nil {
			m.state = StateError
			m.err = fmt.Errorf("save %s: %w", m.path, err)
			return m
		}
		m.saved = saved
		if saved.BackupErr != nil {
			m.appendLog(fmt.Sprintf("Could not create backup: %v", saved.BackupErr), model.LevelWarning)
		}
		m.notice = fmt.Sprintf("Saved %d hymns to %s", merged.Len(), m.path)
		m.state = StateComplete
	}

	return m
}

// loadCollection reads and analyzes the file named in the path input.
func (m Model) loadCollection() Model {
	m.path = strings.TrimSpace(m.input.Value())
	if m.path == "" {
		m.path = m.settings.CollectionPath
	}

	result, collection, err := gap.Scan(m.path, m.settings.LastHymn)
	if err != nil {
		m.state = StateError
		m.err = err
		return m
	}

	var sb strings.Builder
	_ = gap.WriteReport(&sb, result)
	m.result = result
	m.collection = collection
	m.report = sb.String()

	if rejected := collection.Rejected(); len(rejected) > 0 {
		m.appendLog(fmt.Sprintf("Keeping %d key(s) that are not readable hymn records as-is", len(rejected)), model.LevelWarning)
	}

	if len(result.Missing) == 0 {
		m.notice = "Nothing to scrape."
		m.state = StateComplete
		return m
	}

	m.state = StateAskSaveMissing
	return m
}

func (m Model) parseDelay() (float64, error) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m.settings.RequestDelay, nil
	}

	delay, err := strconv.ParseFloat(text, 64)
	if err != nil || delay < 0 {
		return 0, errors.New("delay must be a non-negative number of seconds")
	}
	return delay, nil
}

// startScrape launches the scrape in the background. Progress events flow
// through m.events; the channel is closed before ScrapeDoneMsg is sent.
func (m Model) startScrape(delay float64) (Model, tea.Cmd) {
	m.state = StateScraping
	m.done = 0
	m.events = make(chan scrape.ProgressEvent, 16)

	events := m.events
	ctx := m.ctx
	numbers := m.result.Missing
	manager := scrape.NewManager(m.settings, m.fetcher, func(e scrape.ProgressEvent) {
		events <- e
	})

	run := func() tea.Msg {
		defer close(events)
		scraped, summary, err := manager.Scrape(ctx, numbers, config.Seconds(delay))
		return ScrapeDoneMsg{Scraped: scraped, Summary: summary, Err: err}
	}

	return m, tea.Batch(run, waitForEvent(events), m.spinner.Tick)
}

// waitForEvent returns a command that delivers the next progress event, or
// nothing once the channel is closed.
func waitForEvent(events <-chan scrape.ProgressEvent) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		e, ok := <-events
		if !ok {
			return nil
		}
		return ProgressMsg{Event: e}
	}
}

func (m *Model) appendLog(message string, level model.ProgressLevel) {
	if level == model.LevelVerbose {
		return
	}
	m.logs = append(m.logs, LogEntry{Message: message, Level: level})
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("♪ TLH Hymn Scanner"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Find and fill gaps in a hymn collection"))
	b.WriteString("\n\n")

	switch m.state {
	case StatePath:
		b.WriteString(subtitleStyle.Render("Enter the path to your hymn collection file:"))
		b.WriteString("\n\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	case StateAskSaveMissing:
		b.WriteString(m.report)
		b.WriteString("\n")
		b.WriteString(subtitleStyle.Render(fmt.Sprintf("Save missing hymns list to %s? (y/n)", m.settings.MissingListPath)))
		b.WriteString("\n")
	case StateAskScrape:
		b.WriteString(subtitleStyle.Render(fmt.Sprintf("Scrape %d missing hymns from the website? (y/n)", len(m.result.Missing))))
		b.WriteString("\n")
	case StateDelay:
		b.WriteString(subtitleStyle.Render("Delay between requests in seconds:"))
		b.WriteString("\n\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	case StateScraping:
		b.WriteString(m.viewScraping())
	case StateAskPersist:
		b.WriteString(m.viewSummary())
		b.WriteString(subtitleStyle.Render(fmt.Sprintf("Save %d scraped hymns to %s? (y/n)", m.scraped.Len(), m.path)))
		b.WriteString("\n")
	case StateComplete:
		// The analysis is stale once a scrape has run.
		if m.report != "" && m.summary == nil {
			b.WriteString(m.report)
			b.WriteString("\n")
		}
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(errorStyle.Render("✗ Error occurred:"))
		b.WriteString("\n\n")
		if m.err != nil {
			b.WriteString("  " + m.err.Error())
		}
		b.WriteString("\n")
	}

	if m.notice != "" && m.state != StateComplete {
		b.WriteString(warningStyle.Render(m.notice))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderLogs())
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.helpText()))

	return b.String()
}

func (m Model) viewScraping() string {
	var b strings.Builder

	total := len(m.result.Missing)
	var percent float64
	if total > 0 {
		percent = float64(m.done) / float64(total)
	}

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Scraping missing hymns..."))
	b.WriteString("\n\n")
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf("Hymns: %d/%d", m.done, total)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewSummary() string {
	if m.summary == nil {
		return ""
	}
	return infoStyle.Render(fmt.Sprintf("Scraped %d of %d hymns", m.summary.Found(), len(m.summary.Results))) + "\n\n"
}

func (m Model) viewComplete() string {
	lines := []string{"✓ Done!", ""}
	if m.path != "" {
		lines = append(lines,
			fmt.Sprintf("Collection: %s", m.path),
			fmt.Sprintf("Present: %d / %d", len(m.result.Present), m.result.Last),
		)
	}
	if m.summary != nil {
		lines = append(lines, fmt.Sprintf("Scraped: %d of %d", m.summary.Found(), len(m.summary.Results)))
	}
	if m.saved.BackupPath != "" {
		lines = append(lines, fmt.Sprintf("Backup: %s", m.saved.BackupPath))
	}
	if m.notice != "" {
		lines = append(lines, "", m.notice)
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case model.LevelError:
			style = errorStyle
			prefix = "✗"
		case model.LevelWarning:
			style = warningStyle
			prefix = "!"
		case model.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case model.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) helpText() string {
	switch m.state {
	case StatePath:
		return "enter: analyze (blank uses " + m.settings.CollectionPath + ") • esc: quit"
	case StateDelay:
		return "enter: start scraping • esc: quit"
	case StateAskSaveMissing, StateAskScrape, StateAskPersist:
		return "y: yes • n: no • esc: quit"
	case StateScraping:
		return "esc: cancel"
	case StateComplete, StateError:
		return "q: quit"
	}
	return ""
}

// Run starts the TUI application.
func Run(settings *config.Settings) error {
	client := http.NewClient(settings.Timeout(), settings.UserAgent)
	p := tea.NewProgram(NewModel(settings, client), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
