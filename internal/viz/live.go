package viz

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/paulmach/orb"

	"github.com/san-kum/kinoplan/internal/follow"
	"github.com/san-kum/kinoplan/internal/geom"
	"github.com/san-kum/kinoplan/internal/sim"
)

const (
	canvasWidth     = 80
	canvasHeight    = 24
	historyCapacity = 600
)

type TickMsg time.Time

// Model drives the follower tick by tick and renders the workspace, the
// agent trail and a live deviation chart.
type Model struct {
	follower  *follow.Follower
	actuator  *sim.PointMass
	path      []orb.Point
	obstacles []geom.Obstacle
	goal      orb.MultiPoint
	start     orb.Point
	stepDt    float64

	canvas    *Canvas
	trail     []orb.Point
	devs      []float64
	fps       int
	running   bool
	finished  bool
	lastTick  follow.Sample
	paramKeys []string
	selected  int
}

// NewModel arms a live view over an already-planned path. The actuator is
// recreated on reset, so the initial physics timestep is kept.
func NewModel(f *follow.Follower, act *sim.PointMass, path []orb.Point, obstacles []geom.Obstacle, goal orb.MultiPoint, workspace orb.Bound, stepDt float64, fps int) (*Model, error) {
	if err := f.Begin(path); err != nil {
		return nil, err
	}
	if fps <= 0 {
		fps = 30
	}
	pidX, _ := f.AxisControllers()
	keys := make([]string, 0, 3)
	for k := range pidX.GetParams() {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return &Model{
		follower:  f,
		actuator:  act,
		path:      path,
		obstacles: obstacles,
		goal:      goal,
		start:     act.Position(),
		stepDt:    stepDt,
		canvas:    NewCanvas(canvasWidth, canvasHeight, workspace),
		trail:     make([]orb.Point, 0, historyCapacity),
		devs:      make([]float64, 0, historyCapacity),
		fps:       fps,
		running:   true,
		paramKeys: keys,
	}, nil
}

func (m *Model) Init() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "tab":
			m.cycleParam()
		case "up", "k":
			m.adjustParam(1.05)
		case "down", "j":
			m.adjustParam(0.95)
		}
	case TickMsg:
		if m.running && !m.finished {
			m.step()
		}
		return m, tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

// step advances one control tick and records the trail and deviation.
func (m *Model) step() {
	if m.follower.Done() {
		m.finished = true
		return
	}
	s := m.follower.Tick()
	if m.follower.Done() {
		m.finished = true
		return
	}
	m.lastTick = s

	m.trail = append(m.trail, m.actuator.Position())
	if len(m.trail) > historyCapacity {
		m.trail = m.trail[1:]
	}
	m.devs = append(m.devs, s.Deviation)
	if len(m.devs) > historyCapacity {
		m.devs = m.devs[1:]
	}
}

func (m *Model) reset() {
	act, err := sim.NewPointMass(m.start, m.stepDt)
	if err != nil {
		return
	}
	*m.actuator = *act
	pidX, pidY := m.follower.AxisControllers()
	pidX.Reset()
	pidY.Reset()
	if err := m.follower.Begin(m.path); err != nil {
		return
	}
	m.trail = m.trail[:0]
	m.devs = m.devs[:0]
	m.finished = false
	m.lastTick = follow.Sample{}
}

func (m *Model) cycleParam() {
	if len(m.paramKeys) == 0 {
		return
	}
	m.selected = (m.selected + 1) % len(m.paramKeys)
}

// adjustParam scales the selected gain on both axis loops together.
func (m *Model) adjustParam(factor float64) {
	if len(m.paramKeys) == 0 {
		return
	}
	key := m.paramKeys[m.selected]
	pidX, pidY := m.follower.AxisControllers()
	val := pidX.GetParams()[key] * factor
	pidX.SetParam(key, val)
	pidY.SetParam(key, val)
}

func (m *Model) View() string {
	m.canvas.Clear()
	m.canvas.DrawScene(m.obstacles, m.goal, m.path)
	for _, p := range m.trail {
		m.canvas.DrawPoint(p)
	}
	m.canvas.DrawPoint(m.actuator.Position())
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render("KINOPLAN") + "\n")
	switch {
	case m.finished:
		s.WriteString("DONE\n\n")
	case m.running:
		s.WriteString("RUNNING\n\n")
	default:
		s.WriteString("PAUSED\n\n")
	}

	if len(m.devs) > 1 {
		chart := asciigraph.Plot(m.devs, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Deviation"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	pos := m.actuator.Position()
	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs", m.follower.Time())) + "\n")
	s.WriteString(labelStyle.Render("Segment") + valueStyle.Render(fmt.Sprintf("%d/%d", m.follower.Segment()+1, maxInt(len(m.path)-1, 1))) + "\n")
	s.WriteString(labelStyle.Render("Position") + valueStyle.Render(fmt.Sprintf("(%.3f, %.3f)", pos[0], pos[1])) + "\n")
	s.WriteString(labelStyle.Render("Deviation") + valueStyle.Render(fmt.Sprintf("%+.4f", m.lastTick.Deviation)) + "\n")

	s.WriteString("\nGAINS\n")
	pidX, _ := m.follower.AxisControllers()
	params := pidX.GetParams()
	for i, k := range m.paramKeys {
		line := fmt.Sprintf("%-4s %.3f", k, params[k])
		if i == m.selected {
			s.WriteString(activeParamStyle.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + labelStyle.Render(line) + "\n")
		}
	}

	s.WriteString(helpStyle.Render("\n─────────────────────\nSP:Pause R:Reset Q:Quit\nTab:Gain ↑↓:Tune"))
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
}

// Render and PollEvents satisfy the follower's frame collaborator; the
// bubbletea loop already repaints every tick, so both are no-ops here.
func (m *Model) Render()     {}
func (m *Model) PollEvents() {}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// RunLive blocks inside the bubbletea program until the user quits.
func RunLive(m *Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
