package monitor

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/muurk/netcommander/internal/logging"
	"github.com/muurk/netcommander/internal/netcommander"
	"github.com/muurk/netcommander/internal/ui"
)

// DefaultInterval is the polling interval when Options.Interval is unset
const DefaultInterval = 2 * time.Second

// Controller is what the monitor drives. *coordinator.Coordinator satisfies it.
type Controller interface {
	Host() string
	Outlets() int
	Refresh(ctx context.Context) (*netcommander.DeviceStatus, error)
	DeviceInfo() *netcommander.DeviceInfo
	ToggleOutlet(ctx context.Context, outletNumber int) (bool, error)
	TurnOnAll(ctx context.Context) map[int]bool
	TurnOffAll(ctx context.Context) map[int]bool
}

// Options tunes the monitor
type Options struct {
	// Interval between status polls (default: 2s)
	Interval time.Duration

	// Labels optionally names outlets in the status table
	Labels ui.LabelFunc
}

// Message types for async operations
type (
	tickMsg time.Time

	statusMsg struct {
		status *netcommander.DeviceStatus
		err    error
		at     time.Time

		// poll marks results of the periodic poll, which schedules the next tick
		poll bool
	}

	actionMsg struct {
		text string
		err  error
	}
)

// Model is the bubbletea model of the live outlet view
type Model struct {
	ctx      context.Context
	ctrl     Controller
	interval time.Duration
	labels   ui.LabelFunc

	status      *netcommander.DeviceStatus
	lastErr     error
	lastUpdate  time.Time
	message     string
	messageFail bool
	busy        bool

	width   int
	spinner spinner.Model
	help    help.Model
	keys    keyMap
}

// New creates the monitor model. Device calls made by the model use ctx.
func New(ctx context.Context, ctrl Controller, opts Options) Model {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ui.PrimaryColor)

	return Model{
		ctx:      ctx,
		ctrl:     ctrl,
		interval: opts.Interval,
		labels:   opts.Labels,
		busy:     true,
		width:    ui.GetTerminalWidth(),
		spinner:  s,
		help:     help.New(),
		keys:     newKeyMap(ctrl.Outlets()),
	}
}

// Init starts the spinner and the first poll
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.refreshCmd(true))
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		if m.busy {
			return m, m.tickCmd()
		}
		m.busy = true
		return m, m.refreshCmd(true)

	case statusMsg:
		m.busy = false
		m.lastErr = msg.err
		if msg.err == nil {
			m.status = msg.status
			m.lastUpdate = msg.at
		}
		if msg.poll {
			return m, m.tickCmd()
		}
		return m, nil

	case actionMsg:
		m.message = msg.text
		m.messageFail = msg.err != nil
		if msg.err != nil {
			m.message = fmt.Sprintf("%s: %s", msg.text, netcommander.GetShortErrorMessage(msg.err))
		}
		return m, m.refreshCmd(false)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	// Commands are ignored while a device call is in flight
	if m.busy {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Outlet):
		outlet, err := strconv.Atoi(msg.String())
		if err != nil || outlet > m.ctrl.Outlets() {
			return m, nil
		}
		m.busy = true
		return m, m.switchCmd(outlet)

	case key.Matches(msg, m.keys.AllOn):
		m.busy = true
		return m, m.allCmd(true)

	case key.Matches(msg, m.keys.AllOff):
		m.busy = true
		return m, m.allCmd(false)

	case key.Matches(msg, m.keys.Refresh):
		m.busy = true
		return m, m.refreshCmd(false)
	}

	return m, nil
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) refreshCmd(poll bool) tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		status, err := ctrl.Refresh(ctx)
		return statusMsg{status: status, err: err, at: time.Now(), poll: poll}
	}
}

func (m Model) switchCmd(outlet int) tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		ok, err := ctrl.ToggleOutlet(ctx, outlet)
		if err != nil {
			logging.Warn("Monitor outlet switch failed", zap.Int("outlet", outlet), zap.Error(err))
			return actionMsg{text: fmt.Sprintf("Outlet %d not switched", outlet), err: err}
		}
		if !ok {
			return actionMsg{text: fmt.Sprintf("Outlet %d not switched", outlet), err: fmt.Errorf("device did not acknowledge")}
		}
		return actionMsg{text: fmt.Sprintf("Outlet %d switched", outlet)}
	}
}

func (m Model) allCmd(on bool) tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		var results map[int]bool
		if on {
			results = ctrl.TurnOnAll(ctx)
		} else {
			results = ctrl.TurnOffAll(ctx)
		}

		state := "OFF"
		if on {
			state = "ON"
		}
		if failed := netcommander.FailedOutlets(results); len(failed) > 0 {
			return actionMsg{
				text: fmt.Sprintf("All %s incomplete", state),
				err:  fmt.Errorf("outlets %s failed", joinInts(failed)),
			}
		}
		return actionMsg{text: fmt.Sprintf("All outlets %s", state)}
	}
}

// View renders the monitor screen
func (m Model) View() string {
	var b strings.Builder

	title := ui.HeaderTitleStyle.Render("NETCOMMANDER MONITOR")
	b.WriteString(title + "\n")

	device := m.ctrl.Host()
	if info := m.ctrl.DeviceInfo(); info != nil {
		device += "  " + info.Summary()
	}
	b.WriteString(ui.HeaderCommandStyle.Render(device) + "\n")
	b.WriteString(ui.RenderHorizontalDivider(m.width, "─") + "\n\n")

	if m.status != nil {
		b.WriteString(ui.RenderStatusTable(m.status, m.labels) + "\n\n")
	} else if m.lastErr == nil {
		b.WriteString("  " + m.spinner.View() + " Connecting to " + m.ctrl.Host() + "...\n\n")
	}

	if m.lastErr != nil {
		line := fmt.Sprintf("  %s %s", ui.FailureMarker, netcommander.GetShortErrorMessage(m.lastErr))
		b.WriteString(ui.ErrorMessageStyle.Render(line) + "\n")
		if hint := netcommander.GetTroubleshootingHint(m.lastErr); hint != "" {
			hint = "  " + strings.ReplaceAll(hint, "\n", "\n  ")
			b.WriteString(ui.TroubleshootingItemStyle.Render(hint) + "\n")
		}
		b.WriteString("\n")
	}

	if m.message != "" {
		marker, style := ui.SuccessMarker, ui.StepCompleteStyle
		if m.messageFail {
			marker, style = ui.FailureMarker, ui.ErrorMessageStyle
		}
		b.WriteString(style.Render(fmt.Sprintf("  %s %s", marker, m.message)) + "\n")
	}

	footer := "  "
	if m.busy {
		footer += m.spinner.View() + " "
	}
	if !m.lastUpdate.IsZero() {
		footer += fmt.Sprintf("Updated %s, every %s", m.lastUpdate.Format("15:04:05"), m.interval)
	}
	b.WriteString(ui.StepNoteStyle.Render(footer) + "\n\n")

	b.WriteString("  " + m.help.View(m.keys))
	return b.String()
}

// Status returns the last status shown, or nil
func (m Model) Status() *netcommander.DeviceStatus {
	return m.status
}

// Run starts the monitor and blocks until the user quits or ctx is done
func Run(ctx context.Context, ctrl Controller, opts Options) error {
	p := tea.NewProgram(New(ctx, ctrl, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("monitor: %w", err)
	}
	return nil
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}
