package viz

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/scilab/internal/gesture"
	"github.com/san-kum/scilab/internal/model"
	"github.com/san-kum/scilab/internal/scene"
)

const statsWidth = 36

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	canvasStyle = lipgloss.NewStyle().Padding(0, 1)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).Padding(0, 2).Width(statsWidth)
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	chartStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 2)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
	loadingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Padding(2, 4)
)

type TickMsg time.Time

type boxContainer struct{ w, h int }

func (b boxContainer) Bounds() (int, int) { return b.w, b.h }

// LiveModel is the terminal host for a simulation viewport. It drives the
// same scene manager the GUI uses: window resizes and the fullscreen
// toggle detach and reattach the viewport, and the run survives both.
type LiveModel struct {
	mgr     *scene.Manager
	driver  *CanvasDriver
	simName string

	width      int
	height     int
	fullscreen bool
	showChart  bool
	loading    bool
	retry      scene.RetryThrottle

	paramKeys []string
	selected  int
	fps       int
	orbitStep float64
}

func NewLive(mgr *scene.Manager, driver *CanvasDriver, simName string, fps int) LiveModel {
	if fps <= 0 {
		fps = 30
	}
	keys := make([]string, 0)
	for k := range mgr.Model().Params() {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return LiveModel{
		mgr:       mgr,
		driver:    driver,
		simName:   simName,
		paramKeys: keys,
		fps:       fps,
		orbitStep: 24,
	}
}

func (m LiveModel) Init() tea.Cmd {
	m.mgr.Clock().Start()
	return m.tick()
}

func (m LiveModel) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m LiveModel) container() scene.Container {
	if m.fullscreen {
		return boxContainer{w: m.width - 2, h: m.height - 3}
	}
	return boxContainer{w: m.width - statsWidth - 4, h: m.height - 6}
}

func (m *LiveModel) remount() {
	m.mgr.Detach()
	if err := m.mgr.Attach(m.container()); err != nil {
		m.loading = true
		return
	}
	m.loading = false
}

func (m LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.remount()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case TickMsg:
		if m.loading {
			if m.retry.Due(time.Time(msg)) {
				if err := m.mgr.Attach(m.container()); err == nil {
					m.loading = false
				}
			}
		} else {
			m.mgr.RunFrame(1/float64(m.fps), false)
		}
		return m, m.tick()
	}
	return m, nil
}

func (m LiveModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctrl := m.mgr.Camera()
	clock := m.mgr.Clock()
	switch msg.String() {
	case "q", "ctrl+c":
		m.mgr.Detach()
		return m, tea.Quit
	case " ":
		if clock.Running() {
			clock.Stop()
		} else {
			clock.Start()
		}
	case "r":
		clock.Reset()
		m.mgr.World().ClearTrails()
	case "f":
		m.fullscreen = !m.fullscreen
		m.remount()
	case "c":
		m.showChart = !m.showChart
		m.mgr.NotifyOverlay(m.showChart)
	case "a":
		ctrl.SetAutoRotate(!ctrl.AutoRotate())
	case "d":
		if t, ok := m.mgr.Model().(*model.Titration); ok {
			t.SetDispensing(!t.Dispensing())
			clock.Start()
		}
	case "left":
		ctrl.Handle(gesture.Intent{Kind: gesture.KindOrbit, DX: -m.orbitStep})
	case "right":
		ctrl.Handle(gesture.Intent{Kind: gesture.KindOrbit, DX: m.orbitStep})
	case "+", "=":
		ctrl.Handle(gesture.Intent{Kind: gesture.KindZoom, Delta: 2})
	case "-", "_":
		ctrl.Handle(gesture.Intent{Kind: gesture.KindZoom, Delta: -2})
	case "tab":
		if len(m.paramKeys) > 0 {
			m.selected = (m.selected + 1) % len(m.paramKeys)
		}
	case "up", "k":
		m.adjustParam(1.05)
	case "down", "j":
		m.adjustParam(0.95)
	}
	return m, nil
}

func (m *LiveModel) adjustParam(factor float64) {
	if len(m.paramKeys) == 0 {
		return
	}
	key := m.paramKeys[m.selected]
	cur := m.mgr.Model().Params()[key]
	if cur == 0 {
		cur = 0.01
	}
	m.mgr.Clock().SetParam(key, cur*factor)
	m.mgr.World().ClearTrails()
}

func (m LiveModel) View() string {
	if m.width == 0 {
		return ""
	}
	if m.loading {
		return loadingStyle.Render("preparing viewport...")
	}

	header := headerStyle.Render("scilab") + "  " + valueStyle.Render("· "+m.simName)
	canvas := canvasStyle.Render(m.driver.Frame())

	var body string
	if m.fullscreen {
		body = canvas
	} else {
		body = lipgloss.JoinHorizontal(lipgloss.Top, canvas, m.statsView())
	}

	out := header + "\n" + body
	if m.showChart {
		out += "\n" + m.chartView()
	}
	out += helpStyle.Render("\n[space] pause  [r] reset  [f] fullscreen  [c] chart  [a] rotate  [tab/↑↓] params  [q] quit")
	return out
}

func (m LiveModel) statsView() string {
	clock := m.mgr.Clock()
	var b strings.Builder
	b.WriteString(labelStyle.Render("time") + valueStyle.Render(fmt.Sprintf("%7.2f s", clock.Elapsed())) + "\n")
	status := "running"
	if clock.Terminal() {
		status = "finished"
	} else if !clock.Running() {
		status = "paused"
	}
	b.WriteString(labelStyle.Render("status") + valueStyle.Render(status) + "\n\n")

	for _, name := range m.mgr.Model().Series() {
		if v, ok := clock.LastFrame().Samples[name]; ok {
			b.WriteString(labelStyle.Render(name) + valueStyle.Render(fmt.Sprintf("%9.4f", v)) + "\n")
		}
	}
	b.WriteString("\n")
	for i, key := range m.paramKeys {
		line := fmt.Sprintf("%-13s %8.3f", key, m.mgr.Model().Params()[key])
		if i == m.selected {
			b.WriteString(selectedStyle.Render("> "+line) + "\n")
		} else {
			b.WriteString(valueStyle.Render("  "+line) + "\n")
		}
	}
	return statsStyle.Render(b.String())
}

func (m LiveModel) chartView() string {
	rec := m.mgr.Recorder()
	width := m.width - 12
	if width < 20 {
		width = 20
	}
	var parts []string
	for _, name := range rec.Names() {
		vals := rec.Values(name)
		if len(vals) < 2 {
			continue
		}
		if len(vals) > width {
			vals = vals[len(vals)-width:]
		}
		graph := asciigraph.Plot(vals,
			asciigraph.Height(6),
			asciigraph.Width(width),
			asciigraph.Caption(name),
		)
		parts = append(parts, graph)
	}
	if len(parts) == 0 {
		return chartStyle.Render("no samples yet")
	}
	return chartStyle.Render(strings.Join(parts, "\n\n"))
}
