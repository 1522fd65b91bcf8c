// --- START OF FINAL REVISED FILE internal/cli/ui/model.go ---
package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/olivierverdier/pydflatex/internal/cli/hooks" // Import hooks for message types
	"github.com/olivierverdier/pydflatex/pkg/compile"
	"github.com/olivierverdier/pydflatex/pkg/latexlog"
)

// --- Constants ---

const listHeightMargin = 4 // Adjust based on header/footer/padding

// --- Model Struct ---

// Model represents the state of the TUI application.
// It holds UI components (list, spinner), layout dimensions, run phase,
// aggregated summary statistics, and one list entry per source file.
// Update is only ever called from the Bubble Tea program goroutine.
type Model struct {
	list    list.Model
	spinner spinner.Model
	version string
	// width and height track the terminal size, updated on WindowSizeMsg.
	width  int
	height int
	// initialized tracks if the model has received initial dimensions.
	initialized bool
	// sourceItems holds the internal data for each item displayed in the list,
	// in the order sources are compiled.
	sourceItems []listItem
	// itemMap maps source paths to their index in sourceItems.
	itemMap map[string]int
	summary Summary
	// phaseMessage displays the current overall stage of the run.
	phaseMessage string
	// fatalError describes the first session that ended without a document.
	fatalError string
	// quitting indicates the user asked to stop (q or Ctrl+C).
	quitting bool
	// listGeneration identifies the latest scheduled list refresh.
	listGeneration int
}

// listItem represents a single source file in the TUI list.
type listItem struct {
	source      string
	status      compile.Status
	pass        int
	diagnostics int    // Reported diagnostics of the current (or final) pass
	reason      string // Failure reason or first LaTeX error
	duration    time.Duration
}

// Summary holds the aggregated statistics displayed in the TUI footer.
type Summary struct {
	SourceCount    int
	SuccessCount   int
	WarningCount   int
	FailedCount    int // failed and aborted sessions
	CancelledCount int
	TotalPasses    int
	StartTime      time.Time
	EndTime        time.Time
}

// --- Bubble Tea Interface Implementations ---

// Init starts the spinner.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles incoming messages (user input, hook events) and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	// --- Internal Bubble Tea Messages ---
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(m.width, max(m.height-listHeightMargin, 1))
		m.initialized = true

	case tea.KeyMsg:
		if m.quitting {
			return m, nil
		}
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		}
		var listCmd tea.Cmd
		m.list, listCmd = m.list.Update(msg)
		cmds = append(cmds, listCmd)

	case spinner.TickMsg:
		if m.quitting {
			return m, nil
		}
		var spinnerCmd tea.Cmd
		m.spinner, spinnerCmd = m.spinner.Update(msg)
		cmds = append(cmds, spinnerCmd)

	// --- Custom Messages from Library Hooks ---
	case hooks.SessionStartMsg:
		item := m.item(msg.Source)
		item.status = compile.StatusPending
		if !m.quitting {
			m.phaseMessage = "Typesetting..."
		}
		cmds = append(cmds, m.debounceListUpdate())

	case hooks.PassStatusMsg:
		item := m.item(msg.Source)
		if msg.Status == compile.StatusTypesetting && msg.Pass != item.pass {
			item.diagnostics = 0
		}
		item.pass = msg.Pass
		item.status = msg.Status
		cmds = append(cmds, m.debounceListUpdate())

	case hooks.DiagnosticMsg:
		item := m.item(msg.Source)
		item.diagnostics++
		if e, ok := msg.Diagnostic.(latexlog.LaTeXError); ok && item.reason == "" {
			item.reason = e.String()
		}
		cmds = append(cmds, m.debounceListUpdate())

	case hooks.SessionCompleteMsg:
		s := msg.Session
		item := m.item(s.Source)
		wasTerminal := item.status.IsTerminal()
		item.status = s.Status
		item.pass = s.Passes()
		item.diagnostics = len(s.FinalDiagnostics())
		item.duration = s.Duration
		if s.Reason != "" {
			item.reason = s.Reason
		}
		if !wasTerminal {
			m.countSession(s)
		}
		cmds = append(cmds, m.debounceListUpdate())

	case hooks.RunCompleteMsg:
		sum := msg.Report.Summary
		m.phaseMessage = "Complete"
		m.summary.SourceCount = sum.SourceCount
		m.summary.SuccessCount = sum.SuccessCount
		m.summary.WarningCount = sum.WarningCount
		m.summary.FailedCount = sum.FailedCount + sum.AbortedCount
		m.summary.CancelledCount = sum.CancelledCount
		m.summary.TotalPasses = sum.TotalPasses
		m.summary.EndTime = time.Now()
		for _, e := range msg.Report.Errors {
			if e.IsFatal {
				m.fatalError = fmt.Sprintf("Failed: %s (%s)", e.Error, e.Path)
				break
			}
		}
		cmds = append(cmds, m.refreshList(), tea.Quit)

	case UpdateListMsg:
		if msg.generation != 0 && msg.generation != m.listGeneration {
			break // superseded by a later refresh
		}
		cmds = append(cmds, m.refreshList())
	}

	return m, tea.Batch(cmds...)
}

// View renders the current state of the TUI model.
func (m *Model) View() string {
	if m.quitting {
		return "Exiting...\n"
	}
	if !m.initialized {
		return "Initializing..."
	}

	// --- Header ---
	headerLeft := fmt.Sprintf("pydflatex v%s", m.version)
	headerRight := m.phaseMessage
	if m.phaseMessage != "Complete" && m.phaseMessage != "Initializing..." {
		headerRight = m.spinner.View() + " " + m.phaseMessage
	}
	headerCenter := ""
	if headerWidth := m.width - lipgloss.Width(headerLeft) - lipgloss.Width(headerRight); headerWidth > 0 {
		headerCenter = lipgloss.PlaceHorizontal(headerWidth, lipgloss.Center, " ")
	}
	header := HeaderStyle.Width(m.width).Render(lipgloss.JoinHorizontal(lipgloss.Top, headerLeft, headerCenter, headerRight))

	// --- Footer ---
	end := m.summary.EndTime
	if end.IsZero() {
		end = time.Now()
	}
	elapsed := end.Sub(m.summary.StartTime).Round(time.Millisecond)
	footerLeft := fmt.Sprintf(
		"Sources: %d | OK: %d | Warnings: %d | Failed: %d | Passes: %d | Elapsed: %s",
		m.summary.SourceCount,
		m.summary.SuccessCount,
		m.summary.WarningCount,
		m.summary.FailedCount,
		m.summary.TotalPasses,
		elapsed,
	)
	footerRight := "q: quit"
	footerCenter := ""
	if footerWidth := m.width - lipgloss.Width(footerLeft) - lipgloss.Width(footerRight); footerWidth > 0 {
		footerCenter = lipgloss.PlaceHorizontal(footerWidth, lipgloss.Center, " ")
	}
	footer := FooterStyle.Width(m.width).Render(lipgloss.JoinHorizontal(lipgloss.Bottom, footerLeft, footerCenter, footerRight))

	errorView := ""
	if m.fatalError != "" {
		errorView = StatusStyleFailed.Render(m.fatalError) + "\n"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.list.View(),
		errorView,
		footer,
	)
}

// --- Helper Methods ---

// NewModel creates the initial model for the TUI with one pending entry per
// source.
func NewModel(version string, sources []string) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ColorStatusRunning)

	delegate := list.NewDefaultDelegate()
	delegate.SetSpacing(0)
	delegate.ShowDescription = true
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(ColorSelectedFg).
		Background(ColorSelectedBg).
		Bold(true).
		Padding(0, 0, 0, 1)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(ColorSelectedDescFg).
		Background(ColorSelectedBg).
		Padding(0, 0, 0, 1)
	delegate.Styles.NormalTitle = delegate.Styles.NormalTitle.
		Foreground(ColorNormalFg).Padding(0, 0, 0, 1)
	delegate.Styles.NormalDesc = delegate.Styles.NormalDesc.
		Foreground(ColorNormalDescFg).Padding(0, 0, 0, 1)

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowTitle(false)
	l.SetShowFilter(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings() // Use our own quit logic

	m := &Model{
		list:         l,
		spinner:      s,
		version:      version,
		summary:      Summary{StartTime: time.Now()},
		phaseMessage: "Initializing...",
		sourceItems:  make([]listItem, 0, len(sources)),
		itemMap:      make(map[string]int, len(sources)),
	}
	for _, src := range sources {
		m.item(src)
	}
	m.list.SetItems(m.listItems())
	return m
}

// item returns the entry for source, appending a pending one if needed.
func (m *Model) item(source string) *listItem {
	if idx, ok := m.itemMap[source]; ok {
		return &m.sourceItems[idx]
	}
	m.sourceItems = append(m.sourceItems, listItem{source: source, status: compile.StatusPending})
	m.itemMap[source] = len(m.sourceItems) - 1
	m.summary.SourceCount++
	return &m.sourceItems[len(m.sourceItems)-1]
}

// countSession folds a newly sealed session into the footer counts.
func (m *Model) countSession(s compile.Session) {
	m.summary.TotalPasses += s.Passes()
	switch s.Status {
	case compile.StatusSuccess:
		m.summary.SuccessCount++
	case compile.StatusSuccessWithWarnings:
		m.summary.WarningCount++
	case compile.StatusFailed, compile.StatusAborted:
		m.summary.FailedCount++
	case compile.StatusCancelled:
		m.summary.CancelledCount++
	}
}

func (m *Model) listItems() []list.Item {
	items := make([]list.Item, len(m.sourceItems))
	for i, item := range m.sourceItems {
		items[i] = item
	}
	return items
}

func (m *Model) refreshList() tea.Cmd {
	return m.list.SetItems(m.listItems())
}

// --- List Item Interface ---

// FilterValue implements the list.Item interface.
func (i listItem) FilterValue() string { return i.source }

// Title implements the list.Item interface.
func (i listItem) Title() string { return i.source }

// Description implements the list.Item interface.
func (i listItem) Description() string {
	var statusStyle lipgloss.Style
	var statusIcon string
	switch i.status {
	case compile.StatusSuccess:
		statusStyle, statusIcon = StatusStyleSuccess, "✓"
	case compile.StatusSuccessWithWarnings:
		statusStyle, statusIcon = StatusStyleWarning, "!"
	case compile.StatusFailed, compile.StatusAborted:
		statusStyle, statusIcon = StatusStyleFailed, "✗"
	case compile.StatusCancelled:
		statusStyle, statusIcon = StatusStylePending, "-"
	case compile.StatusTypesetting, compile.StatusParsing:
		statusStyle, statusIcon = StatusStyleRunning, "…" // Spinner rendered separately
	default:
		statusStyle, statusIcon = StatusStylePending, " "
	}

	statusStr := statusStyle.Render(fmt.Sprintf("[%s]", statusIcon))
	details := ""

	switch i.status {
	case compile.StatusTypesetting, compile.StatusParsing:
		details = fmt.Sprintf("pass %d %s", i.pass, i.status)
		if i.diagnostics > 0 {
			details += ", " + plural(i.diagnostics, "diagnostic")
		}
	case compile.StatusSuccess, compile.StatusSuccessWithWarnings:
		details = plural(i.pass, "pass") + ", " + plural(i.diagnostics, "diagnostic")
		if d := formatDuration(i.duration); d != "" {
			details += ", " + d
		}
	case compile.StatusFailed, compile.StatusAborted:
		details = i.reason
	case compile.StatusCancelled:
		details = "cancelled"
	}
	return fmt.Sprintf("%s %s", statusStr, details)
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	if word == "pass" {
		return fmt.Sprintf("%d passes", n)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// formatDuration formats duration for display.
func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		if d == 0 {
			return ""
		}
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}

// --- Update Debouncing ---

// UpdateListMsg signals that the list component should update its items.
// Messages from superseded refreshes are ignored.
type UpdateListMsg struct{ generation int }

const listUpdateDebounceDuration = 50 * time.Millisecond // Update list ~20 times/sec max

// debounceListUpdate schedules a list refresh. Only the most recently
// scheduled refresh is applied.
func (m *Model) debounceListUpdate() tea.Cmd {
	m.listGeneration++
	gen := m.listGeneration
	return tea.Tick(listUpdateDebounceDuration, func(time.Time) tea.Msg {
		return UpdateListMsg{generation: gen}
	})
}

// --- Styles ---

const (
	ColorHeaderFg = lipgloss.Color("252") // Light Gray
	ColorHeaderBg = lipgloss.Color("62")  // Purple

	ColorFooterFg = lipgloss.Color("252")
	ColorFooterBg = lipgloss.Color("56") // Dark Pink/Purple

	ColorNormalFg     = lipgloss.Color("250") // Off-white
	ColorNormalDescFg = lipgloss.Color("244") // Dim gray

	ColorSelectedFg     = lipgloss.Color("255") // White
	ColorSelectedBg     = lipgloss.Color("56")  // Dark Pink/Purple
	ColorSelectedDescFg = lipgloss.Color("248") // Lighter Gray

	ColorStatusSuccess = lipgloss.Color("40")  // Green
	ColorStatusFailed  = lipgloss.Color("196") // Red
	ColorStatusWarning = lipgloss.Color("214") // Orange/Yellow
	ColorStatusPending = lipgloss.Color("244") // Dim gray
	ColorStatusRunning = lipgloss.Color("205") // Pink (matches spinner)
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorHeaderFg).
			Background(ColorHeaderBg).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorFooterFg).
			Background(ColorFooterBg).
			Padding(0, 1)

	StatusStyleSuccess = lipgloss.NewStyle().Foreground(ColorStatusSuccess)
	StatusStyleFailed  = lipgloss.NewStyle().Foreground(ColorStatusFailed)
	StatusStyleWarning = lipgloss.NewStyle().Foreground(ColorStatusWarning)
	StatusStylePending = lipgloss.NewStyle().Foreground(ColorStatusPending)
	StatusStyleRunning = lipgloss.NewStyle().Foreground(ColorStatusRunning)
)

// --- END OF FINAL REVISED FILE internal/cli/ui/model.go ---
