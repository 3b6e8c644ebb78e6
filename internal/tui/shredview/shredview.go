// Package shredview is the interactive progress view shown while a file is
// being destroyed. The engine runs in its own goroutine and its events reach
// the model through tea.Program.Send.
package shredview

import (
	"context"
	"fmt"
	"strings"

	"thermite/internal/logging"
	"thermite/internal/shred"
	"thermite/internal/tui/components"
	"thermite/internal/tui/styles"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
)

type (
	// EventMsg carries one engine event into the program.
	EventMsg struct {
		Event shred.Event
	}

	// DoneMsg is sent once SecureDelete has returned.
	DoneMsg struct {
		Result *shred.Result
		Err    error
	}
)

type keyMap struct {
	Abort key.Binding
}

func (k keyMap) ShortHelp() []key.Binding  { return []key.Binding{k.Abort} }
func (k keyMap) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

var keys = keyMap{
	Abort: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "abort after the current writes"),
	),
}

type Model struct {
	logger *logging.AppLogger
	cancel context.CancelFunc

	frame    components.Frame
	spinner  spinner.Model
	progress progress.Model
	help     help.Model

	path     string
	size     int64
	workers  int
	chunks   int
	pass     int
	passes   int
	pattern  string
	applied  int
	total    int
	warnings []string

	aborting bool
	done     bool
	result   *shred.Result
	err      error
}

// New returns a model for destroying path. cancel is called when the user aborts.
func New(path string, cancel context.CancelFunc, logger *logging.AppLogger) Model {
	if logger == nil {
		logger = logging.GetDefault()
	}


	s := spinner.New()
	s.Style = styles.SpinnerStyle
	s.Spinner = spinner.Pulse

	p := progress.New(
		progress.WithGradient(styles.EmberColor, styles.FireColor),
		progress.WithWidth(60),
	)

	return Model{
		logger:   logger,
		cancel:   cancel,
		frame:    components.NewFrame("🔥 Thermite").WithTarget(path),
		spinner:  s,
		progress: p,
		help:     help.New(),
		path:     path,
	}
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.logger.LogMessage(msg)
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.frame = m.frame.Resize(msg)
		m.progress.Width = m.frame.BodyWidth()
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Abort) {
			if m.done {
				return m, tea.Quit
			}
			if !m.aborting {
				m.logger.Warn("Abort requested", "path", m.path)
				m.aborting = true
				if m.cancel != nil {
					m.cancel()
				}
			}
		}
		return m, nil

	case EventMsg:
		return m.handleEvent(msg.Event)

	case DoneMsg:
		m.done = true
		m.result = msg.Result
		m.err = msg.Err
		if msg.Err != nil {
			m.frame = m.frame.Fail(msg.Err)
		}
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progress.FrameMsg:
		updated, cmd := m.progress.Update(msg)
		if p, ok := updated.(progress.Model); ok {
			m.progress = p
		}
		return m, cmd
	}

	return m, nil
}

func (m Model) handleEvent(e shred.Event) (tea.Model, tea.Cmd) {
	switch e.Kind {
	case shred.EventStarted:
		m.size = e.Size
		m.workers = e.Workers
		m.chunks = e.Chunks
		m.passes = e.Passes
		m.total = e.Total
	case shred.EventPassStarted:
		m.pass = e.Pass
		m.pattern = ""
	case shred.EventPatternApplied:
		m.pattern = e.Pattern
		m.applied = e.Applied
		return m, m.progress.SetPercent(e.Fraction())
	case shred.EventWarning:
		m.warnings = append(m.warnings, "Could not remove all metadata: "+e.Err.Error())
	case shred.EventCompleted:
		m.applied = e.Applied
		return m, m.progress.SetPercent(1)
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n", styles.LabelStyle.Render("File size:"), styles.ValueStyle.Render(humanize.IBytes(uint64(m.size))))
	fmt.Fprintf(&b, "%s %s\n", styles.LabelStyle.Render("Passes:"), styles.ValueStyle.Render(fmt.Sprint(m.passes)))
	fmt.Fprintf(&b, "%s %s\n\n", styles.LabelStyle.Render("Workers:"), styles.ValueStyle.Render(fmt.Sprintf("%d (%d chunks)", m.workers, m.chunks)))

	switch {
	case m.done && m.err == nil:
		b.WriteString(styles.SuccessStyle.Render("Secure deletion completed successfully!"))
	case m.done:
		b.WriteString(styles.ErrorStyle.Render("Secure deletion failed"))
	case m.aborting:
		fmt.Fprintf(&b, "%s %s", m.spinner.View(), styles.WarningStyle.Render("Aborting, waiting for in-flight writes..."))
	case m.chunks == 0 && m.passes > 0:
		fmt.Fprintf(&b, "%s %s", m.spinner.View(), styles.SpinnerStyle.Render("Empty file, finalizing..."))
	default:
		status := fmt.Sprintf("Pass %d/%d", m.pass, m.passes)
		if m.pattern != "" {
			status += "  last pattern: " + m.pattern
		}
		fmt.Fprintf(&b, "%s %s", m.spinner.View(), styles.SpinnerStyle.Render(status))
	}
	b.WriteString("\n\n")
	b.WriteString(m.progress.View())
	fmt.Fprintf(&b, "\n%d/%d patterns applied", m.applied, m.total)

	for _, w := range m.warnings {
		b.WriteString("\n\n")
		b.WriteString(styles.WarningStyle.Render("Warning: " + w))
	}

	frame := m.frame
	if !m.done {
		frame = frame.WithKeys(m.help.View(keys))
	}
	return frame.Render(b.String())
}

// Result returns what the engine reported once the model has received DoneMsg.
func (m Model) Result() (*shred.Result, error) {
	return m.result, m.err
}

// Done reports whether the engine has finished.
func (m Model) Done() bool {
	return m.done
}
