package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/trojansim/internal/celestial"
	"github.com/san-kum/trojansim/internal/orbit"
	"github.com/san-kum/trojansim/internal/resonance"
	"github.com/san-kum/trojansim/internal/sim"
)

const (
	canvasWidth     = 72
	canvasHeight    = 28
	trailCapacity   = 1024
	historyCapacity = 240

	metersPerAU = 1.495978707e11
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(44)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)

	stableStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	brokenStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

type TickMsg time.Time

type trailPoint struct{ x, y int }

// Model steps the system a fixed number of integrator steps per frame
// and renders it top-down about the primary on a braille canvas.
//
// Radial distances are compressed as log10(r_AU + 1) so a tight binary
// and an outer giant fit the same screen; angles are preserved. The
// monitor runs alongside, so the panel shows the same verdict a batch
// run would reach.
type Model struct {
	initial *celestial.System
	sys     *celestial.System
	stepper orbit.Stepper
	grav    *orbit.Gravity
	mon     *resonance.Monitor

	cfg        sim.Config
	integrator string
	g, epsilon float64
	title      string

	t             float64
	steps         int
	stepsPerFrame int
	running       bool
	done          bool
	diverged      bool

	canvas     *Canvas
	trails     [][]trailPoint
	devHistory []float64

	// radial normalization, fixed from the initial state
	scale   float64
	energy0 float64
}

// NewModel builds the live view for a copy of sys; the caller's system
// is never mutated. The integrator name and margin are validated here,
// before the terminal is taken over.
func NewModel(sys *celestial.System, integrator string, g, epsilon float64, cfg sim.Config, title string) (Model, error) {
	m := Model{
		initial:       sys.Clone(),
		cfg:           cfg,
		integrator:    integrator,
		g:             g,
		epsilon:       epsilon,
		title:         title,
		stepsPerFrame: 32,
		running:       true,
		canvas:        NewCanvas(canvasWidth, canvasHeight),
	}
	if err := m.rebuild(); err != nil {
		return Model{}, err
	}
	return m, nil
}

// rebuild constructs fresh working state from the initial system. The
// monitor and the gravity skip counter latch, so reset means rebuild.
func (m *Model) rebuild() error {
	m.sys = m.initial.Clone()
	m.grav = orbit.NewGravity(m.g, m.epsilon)

	stepper, err := orbit.NewStepper(m.integrator, m.grav)
	if err != nil {
		return err
	}
	mon, err := resonance.NewMonitor(m.sys, m.cfg.Margin)
	if err != nil {
		return err
	}
	m.stepper, m.mon = stepper, mon

	m.t = 0
	m.steps = 0
	m.running = true
	m.done = false
	m.diverged = false

	m.trails = make([][]trailPoint, len(m.sys.Bodies))
	m.devHistory = m.devHistory[:0]

	m.scale = radialScale(m.sys)
	m.energy0 = m.sys.TotalEnergy(m.g)
	m.draw()
	return nil
}

// radialScale returns the largest compressed radius in the initial
// state, so the outermost body lands at the edge of the plot.
func radialScale(sys *celestial.System) float64 {
	primary := sys.PrimaryPoint()
	max := 0.0
	for _, b := range sys.Bodies {
		dx := b.Position.X - primary.X
		dy := b.Position.Y - primary.Y
		r := math.Log10(math.Hypot(dx, dy)/metersPerAU + 1)
		if r > max {
			max = r
		}
	}
	return max
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			if !m.done && !m.diverged {
				m.running = !m.running
			}
		case "r":
			// the recipe was validated at construction
			_ = m.rebuild()
		case "+", "=":
			if m.stepsPerFrame < 1<<16 {
				m.stepsPerFrame *= 2
			}
		case "-", "_":
			if m.stepsPerFrame > 1 {
				m.stepsPerFrame /= 2
			}
		}
	case TickMsg:
		if m.running {
			m.advance()
			m.draw()
		}
		return m, tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

// advance runs one frame's worth of integrator steps and feeds the
// monitor. The view keeps stepping after the verdict latches so the
// departure itself stays watchable; only the horizon or a divergence
// stops it.
func (m *Model) advance() {
	for i := 0; i < m.stepsPerFrame; i++ {
		if m.t >= m.cfg.Horizon {
			m.done = true
			m.running = false
			break
		}
		m.stepper.Step(m.sys, m.cfg.Dt)
		m.t += m.cfg.Dt
		m.steps++
		m.mon.Update(m.cfg.Dt)
	}

	for _, b := range m.sys.Bodies {
		if !b.Position.IsFinite() {
			m.diverged = true
			m.running = false
			return
		}
	}

	if dev, ok := m.mon.Deviation(); ok {
		m.devHistory = append(m.devHistory, dev)
		if len(m.devHistory) > historyCapacity {
			m.devHistory = m.devHistory[1:]
		}
	}

	primary := m.sys.PrimaryPoint()
	for i, b := range m.sys.Bodies {
		x, y := m.project(b.Position, primary)
		trail := m.trails[i]
		if n := len(trail); n > 0 && trail[n-1] == (trailPoint{x, y}) {
			continue
		}
		trail = append(trail, trailPoint{x, y})
		if len(trail) > trailCapacity {
			trail = trail[1:]
		}
		m.trails[i] = trail
	}
}

// project maps a position to canvas sub-pixels, top-down about the
// primary with log-compressed radius.
func (m *Model) project(pos, primary celestial.Vector3) (int, int) {
	cw, ch := m.canvas.Width*2, m.canvas.Height*4
	cx, cy := cw/2, ch/2
	if m.scale <= 0 {
		return cx, cy
	}

	dx := pos.X - primary.X
	dy := pos.Y - primary.Y
	r := math.Log10(math.Hypot(dx, dy)/metersPerAU+1) / m.scale

	maxR := float64(ch)/2 - 6
	if cw < ch {
		maxR = float64(cw)/2 - 6
	}
	ang := math.Atan2(dy, dx)
	return cx + int(r*maxR*math.Cos(ang)), cy - int(r*maxR*math.Sin(ang))
}

func (m *Model) draw() {
	m.canvas.Clear()
	for _, trail := range m.trails {
		for _, pt := range trail {
			m.canvas.Set(pt.x, pt.y)
		}
	}
	primary := m.sys.PrimaryPoint()
	if trojan, companion, ok := m.sys.TrojanPair(); ok {
		// The wedge between the radius lines is the pair's angular
		// separation, the quantity the monitor watches.
		ox, oy := m.project(primary, primary)
		tx, ty := m.project(m.sys.Bodies[trojan].Position, primary)
		cx, cy := m.project(m.sys.Bodies[companion].Position, primary)
		m.canvas.DrawLine(ox, oy, tx, ty)
		m.canvas.DrawLine(ox, oy, cx, cy)
	}
	for _, b := range m.sys.Bodies {
		x, y := m.project(b.Position, primary)
		if b.Kind == celestial.Star {
			m.canvas.Mark(x, y, 2)
		} else {
			m.canvas.Mark(x, y, 1)
		}
	}
}

// View renders the TUI interface.
func (m Model) View() string {
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.title)) + "\n")
	s.WriteString(m.statusLine() + "\n\n")

	if len(m.devHistory) > 1 {
		chart := asciigraph.Plot(m.devHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("deviation %"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.1f yr", m.t/sim.Year)) + "\n")
	s.WriteString(labelStyle.Render("Steps") + valueStyle.Render(fmt.Sprintf("%d (%d/frame)", m.steps, m.stepsPerFrame)) + "\n")

	if trojan, companion, ok := m.sys.TrojanPair(); ok {
		primary := m.sys.PrimaryBody()
		s.WriteString(labelStyle.Render("Pair") + valueStyle.Render(
			bodyLabel(m.sys.Bodies[trojan], trojan)+" / "+bodyLabel(m.sys.Bodies[companion], companion)) + "\n")
		if p, ok := orbit.OrbitalPeriod(m.sys.Bodies[trojan], primary, m.g); ok {
			s.WriteString(labelStyle.Render("T period") + valueStyle.Render(fmt.Sprintf("%.1f d", p/sim.Day)) + "\n")
		}
		if p, ok := orbit.OrbitalPeriod(m.sys.Bodies[companion], primary, m.g); ok {
			s.WriteString(labelStyle.Render("C period") + valueStyle.Render(fmt.Sprintf("%.1f d", p/sim.Day)) + "\n")
		}
	}

	if dev, ok := m.mon.Deviation(); ok {
		s.WriteString(labelStyle.Render("Deviation") + valueStyle.Render(fmt.Sprintf("%.3f%% (margin %.1f%%)", dev, m.mon.Margin())) + "\n")
	}
	if skipped := m.grav.SkippedPairs(); skipped > 0 {
		s.WriteString(labelStyle.Render("Skipped") + valueStyle.Render(fmt.Sprintf("%d pair evals", skipped)) + "\n")
	}
	s.WriteString(labelStyle.Render("Energy") + valueStyle.Render(fmt.Sprintf("drift %.2e", m.energyDrift())) + "\n")

	s.WriteString(helpStyle.Render("\n─────────────────────\nSP:Pause R:Reset Q:Quit\n+/-:Steps per frame"))

	statsView := statsStyle.Render(s.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
}

func (m Model) statusLine() string {
	run := "RUNNING"
	switch {
	case m.diverged:
		run = "DIVERGED"
	case m.done:
		run = "DONE"
	case !m.running:
		run = "PAUSED"
	}
	return run + "  " + verdictView(m.mon.Status())
}

func verdictView(st resonance.Status) string {
	switch st {
	case resonance.Stable:
		return stableStyle.Render(st.String())
	case resonance.Broken:
		return brokenStyle.Render(st.String())
	default:
		return dimStyle.Render(st.String())
	}
}

func (m Model) energyDrift() float64 {
	e := m.sys.TotalEnergy(m.g)
	if m.energy0 == 0 {
		return math.Abs(e)
	}
	return math.Abs(e-m.energy0) / math.Abs(m.energy0)
}

func bodyLabel(b celestial.Body, index int) string {
	if b.Name != "" {
		return b.Name
	}
	return fmt.Sprintf("#%d", index)
}
