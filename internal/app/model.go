// Package app is the interactive orrery: a Bubble Tea program that advances
// the system every frame, draws it on a braille canvas and lets the mouse
// select a body.
package app

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/hashicorp/go-hclog"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/samcarey/aetherweave/internal/clock"
	"github.com/samcarey/aetherweave/internal/config"
	"github.com/samcarey/aetherweave/internal/orbit"
	"github.com/samcarey/aetherweave/internal/render"
	"github.com/samcarey/aetherweave/internal/storage"
	"github.com/samcarey/aetherweave/internal/view"
)

const (
	defaultWidth    = 80
	defaultHeight   = 24
	panelWidth      = 40
	historyCapacity = 240
)

type TickMsg time.Time

// Model holds the simulation, the cached view and the UI state.
type Model struct {
	sys   *orbit.System
	clock *clock.Clock
	cfg   *config.Config
	log   hclog.Logger
	kv    storage.KV

	view    *view.View
	sel     view.Selection
	pending *r2.Vec

	canvas *render.Canvas
	cmds   []render.Command
	opts   render.Options
	theme  render.Theme
	stats  []render.StatRow

	width, height int
	paused        bool
	showVelocity  bool
	showHelp      bool
	frames        int

	historyFor string
	distance   []float64
}

// New builds a model for sys. When kv is non-nil the previous session is
// restored from it and saved back on quit.
func New(sys *orbit.System, cfg *config.Config, log hclog.Logger, kv storage.KV) Model {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	m := Model{
		sys:   sys,
		clock: clock.New(cfg.Speed),
		cfg:   cfg,
		log:   log,
		kv:    kv,
		opts:  render.Options{BodyRadius: cfg.BodyRadius, ShowOrbits: cfg.ShowOrbits},
		theme: render.GetTheme(cfg.Theme),

		showVelocity: cfg.ShowVelocity,
	}
	m.resize(defaultWidth, defaultHeight)
	m.restore()
	return m
}

func (m *Model) restore() {
	if m.kv == nil {
		return
	}
	s, err := storage.LoadSession(m.kv)
	if err != nil {
		m.log.Warn("session ignored", "error", err)
	}
	m.view = s.View
	if s.Selected != "" && !m.sel.SelectByName(m.sys, s.Selected) {
		m.log.Info("selected body no longer in roster", "body", s.Selected)
	}
	m.log.Debug("session restored", "view", s.View != nil, "selected", m.sel.Name(m.sys))
}

// Session returns the state that is persisted on quit.
func (m Model) Session() storage.Session {
	return storage.Session{View: m.view, Selected: m.sel.Name(m.sys)}
}

func (m Model) save() {
	if m.kv == nil {
		return
	}
	if err := storage.SaveSession(m.kv, m.Session()); err != nil {
		m.log.Error("saving session", "error", err)
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Duration(m.cfg.FrameDt()*float64(time.Second)), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.save()
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "r":
			m.view = nil
		case "o":
			m.opts.ShowOrbits = !m.opts.ShowOrbits
		case "v":
			m.showVelocity = !m.showVelocity
		case "t":
			m.theme = render.NextTheme(m.theme.Name)
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.MouseMsg:
		// The help overlay shifts the canvas down; presses are dropped
		// while it is shown. Only the first press per frame counts.
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && !m.showHelp && m.pending == nil {
			if msg.X >= 0 && msg.X < m.canvas.Width && msg.Y >= 0 && msg.Y < m.canvas.Height {
				p := r2.Vec{X: float64(msg.X*2 + 1), Y: float64(msg.Y*4 + 2)}
				m.pending = &p
			}
		}
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case TickMsg:
		m.Frame(time.Time(msg))
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	cols := max(w-panelWidth, 10)
	rows := max(h-1, 4)
	m.canvas = render.NewCanvas(cols, rows)
}

func (m Model) viewport() view.Rect {
	w, h := m.canvas.PixelSize()
	return view.Rect{Size: r2.Vec{X: float64(w), Y: float64(h)}}
}

// Frame runs one frame: advance, fit when no view is cached, build the
// draw commands, apply any pending click, then refresh the stats panel.
func (m *Model) Frame(now time.Time) {
	m.frames++

	dt := m.clock.Tick(now)
	if !m.paused {
		m.sys.Advance(dt)
	}

	vp := m.viewport()
	if m.view == nil {
		if err := vp.Validate(); err != nil {
			m.log.Warn("fitting view", "error", err)
		}
		v := view.Fit(m.sys.Positions(), vp, m.opts.BodyRadius, m.cfg.Margin)
		m.view = &v
		m.log.Debug("view fitted", "scale", v.Scale, "center", v.Center)
	}
	vc := vp.Center()

	m.cmds = render.BuildFrame(m.sys, *m.view, vc, m.sel, m.opts)
	m.canvas.Clear()
	m.canvas.Rasterize(m.cmds)

	if m.pending != nil {
		h, ok := view.HitTest(m.sys, *m.view, vc, m.pending, m.opts.BodyRadius, m.cfg.HitTolerance)
		m.sel.Press(h, ok)
		m.pending = nil
		m.log.Debug("click", "hit", ok, "selected", m.sel.Name(m.sys))
	}

	_, b, ok := m.sel.Resolve(m.sys)
	if !ok {
		m.stats = nil
		m.historyFor = ""
		m.distance = m.distance[:0]
		return
	}
	m.stats = render.Stats(b, m.showVelocity)
	if b.Name != m.historyFor {
		m.historyFor = b.Name
		m.distance = m.distance[:0]
	}
	m.distance = append(m.distance, b.OrbitRadius()/orbit.AU)
	if len(m.distance) > historyCapacity {
		m.distance = m.distance[1:]
	}
}

func (m Model) Selected() string { return m.sel.Name(m.sys) }
func (m Model) Stats() []render.StatRow { return m.stats }
func (m Model) CachedView() *view.View { return m.view }
func (m Model) Paused() bool { return m.paused }
func (m Model) System() *orbit.System { return m.sys }
func (m Model) Commands() []render.Command { return m.cmds }
func (m Model) ShowOrbits() bool { return m.opts.ShowOrbits }
func (m Model) ThemeName() string { return m.theme.Name }

// View renders the TUI interface.
func (m Model) View() string {
	st := m.theme.Styles()

	var s strings.Builder
	s.WriteString(st.Header.Render("AETHERWEAVE") + "\n")
	status := "RUNNING"
	if m.paused {
		status = "PAUSED"
	}
	s.WriteString(st.Status.Render(status) + "\n\n")
	s.WriteString(st.Label.Render("Speed") + st.Value.Render(fmt.Sprintf("%.0e x", m.clock.Speed)) + "\n")
	if m.view != nil {
		s.WriteString(st.Label.Render("Scale") + st.Value.Render(fmt.Sprintf("%.3g px/Gm", m.view.Scale*1e9)) + "\n")
	}
	s.WriteString(st.Label.Render("Bodies") + st.Value.Render(fmt.Sprintf("%d", m.sys.Len())) + "\n\n")

	if _, b, ok := m.sel.Resolve(m.sys); ok {
		var info strings.Builder
		info.WriteString(st.Header.Render(b.Name) + "\n")
		for _, row := range m.stats {
			info.WriteString(st.Label.Render(row.Label+":") + st.Value.Render(row.Value) + "\n")
		}
		if len(m.distance) > 1 {
			chart := asciigraph.Plot(m.distance, asciigraph.Height(4), asciigraph.Width(24), asciigraph.Caption("Distance (AU)"))
			info.WriteString(st.Graph.Render(chart))
		}
		panel := st.Panel.BorderForeground(lipgloss.Color(b.Color.Clamped().Hex()))
		s.WriteString(panel.Render(info.String()) + "\n")
	} else {
		s.WriteString(st.Label.Render("click a body") + "\n")
	}

	s.WriteString(st.Help.Render("SP:Pause R:Refit O:Orbits\nV:Velocity T:Theme ?:Help Q:Quit"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, m.canvas.Render(), s.String())
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Click    - Select body / deselect   ║
║  Space    - Pause/Resume             ║
║  R        - Re-fit view              ║
║  O        - Toggle orbit rings       ║
║  V        - Toggle velocity stat     ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
║  Q        - Quit (saves session)     ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

// Run starts the program with mouse support on the alternate screen.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
