package viz

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/trackdyn/internal/config"
	"github.com/san-kum/trackdyn/internal/control"
	"github.com/san-kum/trackdyn/internal/sim"
	"github.com/san-kum/trackdyn/internal/vmath"
	"github.com/san-kum/trackdyn/internal/world"
)

const (
	canvasWidth     = 60
	canvasHeight    = 22
	historyCapacity = 300
	trailCapacity   = 400
	inputStep       = 0.25
	frameRate       = 60
)

type TickMsg time.Time

// Model drives one vehicle from the keyboard on a session ticked once per
// frame.
type Model struct {
	session *sim.Session
	driver  *control.Manual
	name    string
	dt      float64

	running bool
	err     error
	sample  sim.Sample

	canvas     *Canvas
	zoom       float64
	trail      []vmath.Vec3
	speedHist  []float64
	rpmHist    []float64
	paramKeys  []string
	initParams map[string]float64
	selected   int
	theme      int
	styles     styles
	showHelp   bool
}

// NewModel opens a session for cfg on ground with a manual driver.
func NewModel(s *sim.Simulator, cfg *config.Vehicle, ground *world.Ground, name string, dt float64) (*Model, error) {
	driver := control.NewManual()
	ss, err := s.Open(sim.Scenario{Name: name, Vehicle: cfg, Driver: driver, Ground: ground})
	if err != nil {
		return nil, err
	}

	params := ss.Vehicle.GetParams()
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return &Model{
		session:    ss,
		driver:     driver,
		name:       name,
		dt:         dt,
		running:    true,
		sample:     sim.SampleOf(ss.Vehicle),
		canvas:     NewCanvas(canvasWidth, canvasHeight),
		zoom:       20,
		trail:      make([]vmath.Vec3, 0, trailCapacity),
		speedHist:  make([]float64, 0, historyCapacity),
		rpmHist:    make([]float64, 0, historyCapacity),
		paramKeys:  keys,
		initParams: params,
		styles:     newStyles(Themes[0]),
	}, nil
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m *Model) Init() tea.Cmd { return tick() }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg.String())
	case TickMsg:
		if m.running && m.err == nil {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) handleKey(key string) tea.Cmd {
	switch key {
	case "q", "ctrl+c":
		return tea.Quit
	case "w":
		m.nudge(func(in *control.Input) { in.Throttle += inputStep })
	case "s":
		m.nudge(func(in *control.Input) { in.Throttle -= inputStep })
	case "a":
		m.nudge(func(in *control.Input) { in.Steering -= inputStep })
	case "d":
		m.nudge(func(in *control.Input) { in.Steering += inputStep })
	case "x":
		m.driver.Update(func(in *control.Input) { in.Throttle, in.Steering = 0, 0 })
	case " ":
		m.driver.Update(func(in *control.Input) { in.Handbrake = !in.Handbrake })
	case "g":
		m.session.Vehicle.ShiftGear(true)
	case "G":
		m.session.Vehicle.ShiftGear(false)
	case "r":
		m.reset()
	case "p":
		m.running = !m.running
	case "tab":
		if len(m.paramKeys) > 0 {
			m.selected = (m.selected + 1) % len(m.paramKeys)
		}
	case "up", "k":
		m.adjustParam(1.05)
	case "down", "j":
		m.adjustParam(0.95)
	case "+", "=":
		m.zoom = math.Max(2, m.zoom/1.25)
	case "-", "_":
		m.zoom = math.Min(200, m.zoom*1.25)
	case "t":
		m.theme = (m.theme + 1) % len(Themes)
		m.styles = newStyles(Themes[m.theme])
	case "?":
		m.showHelp = !m.showHelp
	}
	return nil
}

func (m *Model) nudge(fn func(*control.Input)) {
	m.driver.Update(func(in *control.Input) {
		fn(in)
		in.Throttle = vmath.Clamp(in.Throttle, -1, 1)
		in.Steering = vmath.Clamp(in.Steering, -1, 1)
	})
}

func (m *Model) adjustParam(factor float64) {
	if len(m.paramKeys) == 0 {
		return
	}
	key := m.paramKeys[m.selected]
	val := m.session.Vehicle.GetParams()[key]
	if val == 0 {
		val = 0.01
	}
	_ = m.session.Vehicle.SetParam(key, val*factor)
}

func (m *Model) step() {
	s, err := m.session.Step(m.dt, true)
	if err != nil {
		m.err = err
		m.running = false
		return
	}
	m.sample = s

	m.trail = pushVec(m.trail, s.Position(), trailCapacity)
	m.speedHist = pushFloat(m.speedHist, s.Speed*0.036, historyCapacity)
	m.rpmHist = pushFloat(m.rpmHist, s.RPM, historyCapacity)
}

func pushFloat(buf []float64, v float64, capacity int) []float64 {
	buf = append(buf, v)
	if len(buf) > capacity {
		buf = buf[1:]
	}
	return buf
}

func pushVec(buf []vmath.Vec3, v vmath.Vec3, capacity int) []vmath.Vec3 {
	buf = append(buf, v)
	if len(buf) > capacity {
		buf = buf[1:]
	}
	return buf
}

// reset respawns the vehicle and restores the tuned parameters.
func (m *Model) reset() {
	m.session.Reset()
	m.driver.Set(control.Input{})
	for k, v := range m.initParams {
		_ = m.session.Vehicle.SetParam(k, v)
	}
	m.trail = m.trail[:0]
	m.speedHist = m.speedHist[:0]
	m.rpmHist = m.rpmHist[:0]
	m.sample = sim.SampleOf(m.session.Vehicle)
	m.err = nil
	m.running = true
}

func (m *Model) draw() {
	m.canvas.Clear()
	vp := Viewport{Canvas: m.canvas, Center: m.sample.Position(), Scale: m.zoom}

	for _, b := range m.session.World.Ground.Bumps {
		c := vmath.Vec3{b.X, b.Y, 0}
		for i := 0; i < 16; i++ {
			a := 2 * math.Pi * float64(i) / 16
			vp.Plot(c.Add(vmath.Vec3{b.Radius * math.Cos(a), b.Radius * math.Sin(a), 0}))
		}
	}
	for _, p := range m.trail {
		vp.Plot(p)
	}

	tr := m.session.Body.Transform()
	he := m.session.Vehicle.Config().Body.HalfExtent
	corner := func(fx, fy float64) vmath.Vec3 {
		return tr.TransformPosition(vmath.Vec3{fx * he.X(), fy * he.Y(), 0})
	}
	vp.Polygon(corner(1, 1), corner(1, -1), corner(-1, -1), corner(-1, 1))
	// nose marker
	vp.Line(tr.Location, corner(1, 0))

	for _, w := range m.session.Vehicle.View().Wheels {
		if w.Grounded {
			vp.Plot(w.ContactPoint)
		}
	}
}

func (m *Model) View() string {
	m.draw()
	st := m.styles
	s := m.sample

	var b strings.Builder
	b.WriteString(st.header.Render(strings.ToUpper(m.name)) + "\n")

	status := "RUNNING"
	switch {
	case m.err != nil:
		status = st.warning.Render("STOPPED: " + m.err.Error())
	case !m.running:
		status = "PAUSED"
	case s.Sleeping:
		status = "ASLEEP"
	}
	b.WriteString(status + "\n\n")

	row := func(label, value string) {
		b.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	gear := fmt.Sprintf("%d", s.Gear)
	if s.Reverse {
		gear += " R"
	}
	if s.Shifting {
		gear += " …"
	}
	in := m.driver.Compute(control.Status{}, 0)
	row("Time", fmt.Sprintf("%.2fs", s.Time))
	row("Speed", fmt.Sprintf("%.1f km/h", s.Speed*0.036))
	row("RPM", fmt.Sprintf("%.0f", s.RPM))
	row("Gear", gear)
	row("Throttle", bar(in.Throttle, 21))
	row("Steering", bar(in.Steering, 21))
	row("Brake", fmt.Sprintf("%.2f", s.Brake))
	if in.Handbrake {
		row("Handbrake", st.warning.Render("ON"))
	}
	row("Tracks", fmt.Sprintf("L %.1f  R %.1f rad/s", s.LeftSpeed, s.RightSpeed))
	row("Contact", fmt.Sprintf("%d wheels, %.1f cm", s.Grounded, s.Suspension))

	if len(m.speedHist) > 1 {
		chart := asciigraph.Plot(m.speedHist, asciigraph.Height(5), asciigraph.Width(36), asciigraph.Caption("speed km/h"))
		b.WriteString("\n" + st.graph.Render(chart) + "\n")
	}
	if len(m.rpmHist) > 1 {
		chart := asciigraph.Plot(m.rpmHist, asciigraph.Height(4), asciigraph.Width(36), asciigraph.Caption("rpm"))
		b.WriteString(st.graph.Render(chart) + "\n")
	}

	if len(m.paramKeys) > 0 {
		key := m.paramKeys[m.selected]
		val := m.session.Vehicle.GetParams()[key]
		b.WriteString("\n" + st.active.Render(fmt.Sprintf("> %s %.3f", key, val)) + "\n")
	}

	b.WriteString(st.help.Render("W/S:Throttle A/D:Steer X:Center Space:Brake\nG/g:Gear R:Reset P:Pause Q:Quit ?:Help"))

	main := lipgloss.JoinHorizontal(lipgloss.Top,
		st.canvas.Render(m.canvas.String()),
		st.panel.Render(b.String()),
	)
	if m.showHelp {
		return helpText + "\n" + main
	}
	return main
}

const helpText = `
  w / s     throttle up / down        g / G   shift up / down
  a / d     steer left / right        r       respawn
  x         center throttle, steer    p       pause
  space     toggle handbrake          tab     next parameter
  up / down tune parameter +-5%       + / -   zoom
  t         cycle theme               q       quit
`

// Run starts the dashboard in the alternate screen.
func Run(m *Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
