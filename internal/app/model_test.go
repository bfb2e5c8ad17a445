package app_test

import (
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/samcarey/aetherweave/internal/app"
	"github.com/samcarey/aetherweave/internal/config"
	"github.com/samcarey/aetherweave/internal/render"
	"github.com/samcarey/aetherweave/internal/storage"
	"github.com/samcarey/aetherweave/internal/view"
)

func update(m app.Model, msg tea.Msg) (app.Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(app.Model), cmd
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func leftClick(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

// cellOf returns the terminal cell showing the named body. The default
// canvas is 40x23 cells, i.e. 80x92 sub-pixels.
func cellOf(m app.Model, name string) (int, int) {
	h, ok := m.System().Lookup(name)
	Expect(ok).To(BeTrue())
	b, _ := m.System().Get(h)
	vc := r2.Vec{X: 40, Y: 46}
	s := view.Project(*m.CachedView(), vc, b.Position)
	return int(s.X) / 2, int(s.Y) / 4
}

func position(m app.Model, name string) r2.Vec {
	h, _ := m.System().Lookup(name)
	b, _ := m.System().Get(h)
	return b.Position
}

var _ = Describe("Model", func() {
	var (
		cfg *config.Config
		m   app.Model
		t0  time.Time
	)

	BeforeEach(func() {
		cfg = config.DefaultConfig()
		cfg.Roster = "earth"
		sys, err := cfg.System()
		Expect(err).NotTo(HaveOccurred())

		t0 = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
		m = app.New(sys, cfg, nil, nil)
		m, _ = update(m, app.TickMsg(t0))
	})

	It("fits the view on the first frame", func() {
		v := m.CachedView()
		Expect(v).NotTo(BeNil())
		Expect(v.Scale).To(BeNumerically(">", 0))
	})

	It("schedules the next frame on every tick", func() {
		_, cmd := update(m, app.TickMsg(t0))
		Expect(cmd).NotTo(BeNil())
	})

	It("advances bodies by scaled wall-clock time", func() {
		before := position(m, "Earth")
		m, _ = update(m, app.TickMsg(t0.Add(time.Second)))
		after := position(m, "Earth")

		h, _ := m.System().Lookup("Earth")
		b, _ := m.System().Get(h)
		want := r2.Add(before, r2.Scale(cfg.Speed, b.Velocity))
		Expect(r2.Norm(r2.Sub(after, want))).To(BeNumerically("<", 1))
		Expect(position(m, "Sun")).To(Equal(r2.Vec{}))
	})

	Context("selecting with the mouse", func() {
		It("selects the clicked body and shows its stats", func() {
			x, y := cellOf(m, "Earth")
			m, _ = update(m, leftClick(x, y))
			m, _ = update(m, app.TickMsg(t0))

			Expect(m.Selected()).To(Equal("Earth"))
			Expect(m.Stats()).To(Equal([]render.StatRow{
				{Label: "Mass", Value: "1.0 x Earth"},
				{Label: "Velocity", Value: "29.7 km/s"},
			}))
			Expect(m.View()).To(ContainSubstring("1.0 x Earth"))
		})

		It("hides velocity for the central body", func() {
			x, y := cellOf(m, "Sun")
			m, _ = update(m, leftClick(x, y))
			m, _ = update(m, app.TickMsg(t0))

			Expect(m.Selected()).To(Equal("Sun"))
			Expect(m.Stats()).To(HaveLen(1))
		})

		It("deselects on a click in empty space", func() {
			x, y := cellOf(m, "Earth")
			m, _ = update(m, leftClick(x, y))
			m, _ = update(m, app.TickMsg(t0))
			Expect(m.Selected()).To(Equal("Earth"))

			m, _ = update(m, leftClick(0, 0))
			m, _ = update(m, app.TickMsg(t0))
			Expect(m.Selected()).To(BeEmpty())
			Expect(m.Stats()).To(BeEmpty())
		})

		It("ignores other buttons and clicks on the side panel", func() {
			x, y := cellOf(m, "Earth")
			m, _ = update(m, leftClick(x, y))
			m, _ = update(m, app.TickMsg(t0))

			m, _ = update(m, tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonRight})
			m, _ = update(m, leftClick(60, 5))
			m, _ = update(m, tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
			m, _ = update(m, app.TickMsg(t0))
			Expect(m.Selected()).To(Equal("Earth"))
		})

		It("ignores presses while the help overlay is shown", func() {
			x, y := cellOf(m, "Earth")
			m, _ = update(m, key("?"))
			m, _ = update(m, leftClick(x, y))
			m, _ = update(m, app.TickMsg(t0))
			Expect(m.Selected()).To(BeEmpty())

			m, _ = update(m, key("?"))
			m, _ = update(m, leftClick(x, y))
			m, _ = update(m, app.TickMsg(t0))
			Expect(m.Selected()).To(Equal("Earth"))
		})

		It("uses the first press between frames", func() {
			ex, ey := cellOf(m, "Earth")
			sx, sy := cellOf(m, "Sun")
			m, _ = update(m, leftClick(ex, ey))
			m, _ = update(m, leftClick(sx, sy))
			m, _ = update(m, app.TickMsg(t0))
			Expect(m.Selected()).To(Equal("Earth"))
		})

		It("draws the highlight from the selection of the previous frame", func() {
			x, y := cellOf(m, "Earth")
			m, _ = update(m, leftClick(x, y))
			m, _ = update(m, app.TickMsg(t0))
			Expect(earthStroke(m).Color).To(Equal(render.LightGray))

			m, _ = update(m, app.TickMsg(t0))
			Expect(earthStroke(m).Color).To(Equal(render.White))
			Expect(earthStroke(m).Width).To(Equal(render.HighlightWidth))
		})
	})

	Context("keys", func() {
		It("pauses and resumes", func() {
			m, _ = update(m, key(" "))
			Expect(m.Paused()).To(BeTrue())

			before := position(m, "Earth")
			m, _ = update(m, app.TickMsg(t0.Add(time.Minute)))
			Expect(position(m, "Earth")).To(Equal(before))

			m, _ = update(m, key(" "))
			m, _ = update(m, app.TickMsg(t0.Add(time.Minute+time.Second)))
			Expect(position(m, "Earth")).NotTo(Equal(before))
		})

		It("re-fits the view after r", func() {
			m, _ = update(m, key("r"))
			Expect(m.CachedView()).To(BeNil())
			m, _ = update(m, app.TickMsg(t0))
			Expect(m.CachedView()).NotTo(BeNil())
		})

		It("keeps the cached view across resizes", func() {
			v := *m.CachedView()
			m, _ = update(m, tea.WindowSizeMsg{Width: 160, Height: 50})
			m, _ = update(m, app.TickMsg(t0))
			Expect(*m.CachedView()).To(Equal(v))
		})

		It("toggles orbit rings and cycles themes", func() {
			Expect(m.ShowOrbits()).To(BeTrue())
			m, _ = update(m, key("o"))
			m, _ = update(m, app.TickMsg(t0))
			Expect(m.ShowOrbits()).To(BeFalse())
			for _, c := range m.Commands() {
				_, isRing := c.(render.Polyline)
				Expect(isRing).To(BeFalse())
			}

			first := m.ThemeName()
			m, _ = update(m, key("t"))
			Expect(m.ThemeName()).NotTo(Equal(first))
		})

		It("shows the help overlay", func() {
			m, _ = update(m, key("?"))
			Expect(m.View()).To(ContainSubstring("KEYBOARD SHORTCUTS"))
		})
	})

	Context("sessions", func() {
		var kv storage.KV

		BeforeEach(func() {
			var err error
			kv, err = storage.OpenFileKV(filepath.Join(GinkgoT().TempDir(), "session.json"))
			Expect(err).NotTo(HaveOccurred())
		})

		newModel := func() app.Model {
			sys, err := cfg.System()
			Expect(err).NotTo(HaveOccurred())
			return app.New(sys, cfg, nil, kv)
		}

		It("saves the view and selection on quit and restores them", func() {
			m = newModel()
			m, _ = update(m, app.TickMsg(t0))
			x, y := cellOf(m, "Earth")
			m, _ = update(m, leftClick(x, y))
			m, _ = update(m, app.TickMsg(t0))
			v := *m.CachedView()

			var cmd tea.Cmd
			m, cmd = update(m, key("q"))
			Expect(cmd).NotTo(BeNil())
			Expect(cmd()).To(Equal(tea.QuitMsg{}))

			restored := newModel()
			Expect(restored.Selected()).To(Equal("Earth"))
			Expect(restored.CachedView()).NotTo(BeNil())
			Expect(*restored.CachedView()).To(Equal(v))
		})

		It("drops a selection that is not in the roster", func() {
			Expect(storage.SaveSession(kv, storage.Session{Selected: "Pluto"})).To(Succeed())
			m = newModel()
			Expect(m.Selected()).To(BeEmpty())
			Expect(m.CachedView()).To(BeNil())
		})

		It("starts fresh from a corrupt session", func() {
			Expect(kv.Set(storage.AppKey, "][")).To(Succeed())
			m = newModel()
			m, _ = update(m, app.TickMsg(t0))
			Expect(m.Selected()).To(BeEmpty())
			Expect(m.CachedView()).NotTo(BeNil())
		})
	})

	It("renders without a selection", func() {
		out := m.View()
		Expect(out).To(ContainSubstring("AETHERWEAVE"))
		Expect(out).To(ContainSubstring("click a body"))
		Expect(strings.Count(out, "\n")).To(BeNumerically(">=", 20))
	})
})

func earthStroke(m app.Model) render.Circle {
	var found []render.Circle
	for _, c := range m.Commands() {
		if circle, ok := c.(render.Circle); ok && !circle.Filled {
			found = append(found, circle)
		}
	}
	Expect(found).To(HaveLen(2))
	return found[1]
}
