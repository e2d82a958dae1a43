package preview

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"mownav/internal/export"
	"mownav/internal/geo"
	"mownav/internal/geofence"
	"mownav/internal/plan"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// runMsg carries a run row into the model.
type runMsg struct{ export.RunRow }

const maxLogLines = 500

// TUIWriter renders a live mowing run using a bubbletea TUI.
type TUIWriter struct {
	program    teaProgram
	done       chan struct{}
	sendSignal atomic.Bool
}

// NewTUIWriter starts a bubbletea program showing the yard map and a
// scrolling run log.
func NewTUIWriter(shape *geofence.Shape, p *plan.Plan) *TUIWriter {
	w := &TUIWriter{done: make(chan struct{})}
	w.sendSignal.Store(true)
	m := newRunModel(shape, p)
	prog := tea.NewProgram(m, tea.WithAltScreen())
	w.program = prog
	go func() {
		_, _ = prog.Run()
		close(w.done)
		if w.sendSignal.Load() {
			if proc, err := os.FindProcess(os.Getpid()); err == nil {
				_ = proc.Signal(os.Interrupt)
			}
		}
	}()
	return w
}

// WriteRun implements export.RunWriter.
func (w *TUIWriter) WriteRun(row export.RunRow) error {
	w.program.Send(runMsg{row})
	return nil
}

// Close shuts down the TUI program and waits for cleanup.
func (w *TUIWriter) Close() error {
	w.sendSignal.Store(false)
	if w.program != nil {
		w.program.Send(tea.Quit())
	}
	if w.done != nil {
		<-w.done
	}
	return nil
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	alertStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

type runModel struct {
	shape      *geofence.Shape
	plan       *plan.Plan
	vp         viewport.Model
	logs       []string
	last       export.RunRow
	haveRow    bool
	width      int
	height     int
	autoscroll bool
}

func newRunModel(shape *geofence.Shape, p *plan.Plan) runModel {
	return runModel{
		shape:      shape,
		plan:       p,
		vp:         viewport.New(0, 0),
		autoscroll: true,
	}
}

func (m runModel) Init() tea.Cmd { return nil }

func (m runModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.vp.Width = msg.Width
		m.resizeViewport()
		m.refreshViewport()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "a":
			m.autoscroll = !m.autoscroll
		case "up", "k":
			m.vp.LineUp(1)
		case "down", "j":
			m.vp.LineDown(1)
		}
	case runMsg:
		m.last = msg.RunRow
		m.haveRow = true
		m.logs = append(m.logs, formatRunLine(msg.RunRow))
		if len(m.logs) > maxLogLines {
			m.logs = m.logs[len(m.logs)-maxLogLines:]
		}
		m.refreshViewport()
	}
	return m, nil
}

func (m *runModel) resizeViewport() {
	mapHeight := m.mapHeight()
	h := m.height - mapHeight - 2
	if h < 3 {
		h = 3
	}
	m.vp.Height = h
}

func (m *runModel) mapHeight() int {
	if m.width == 0 {
		return 0
	}
	return lipgloss.Height(m.renderMap())
}

func (m *runModel) refreshViewport() {
	var content string
	for _, l := range m.logs {
		content += l + "\n"
	}
	m.vp.SetContent(content)
	if m.autoscroll {
		m.vp.GotoBottom()
	}
}

func (m runModel) renderMap() string {
	width := m.width
	if width <= 0 {
		width = 80
	}
	mp := NewMapWidth(m.shape, width)
	mp.DrawPlan(m.plan)
	if m.haveRow {
		mp.DrawMower(geo.LocalPoint{X: m.last.X, Y: m.last.Y})
	}
	return mp.Render()
}

func (m runModel) View() string {
	header := titleStyle.Render("mownav run")
	if m.haveRow {
		style := statusStyle
		if m.last.Status == export.StatusViolation {
			style = alertStyle
		}
		header += "  " + style.Render(fmt.Sprintf("status=%s batt=%.1f", m.last.Status, m.last.Battery))
	}
	return header + "\n" + m.renderMap() + "\n" + m.vp.View()
}

func formatRunLine(r export.RunRow) string {
	return fmt.Sprintf("[%s] x=%.2f y=%.2f batt=%.1f %s",
		r.Timestamp.Format(time.RFC3339), r.X, r.Y, r.Battery, r.Status)
}
