package view_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/samcarey/aetherweave/internal/orbit"
	"github.com/samcarey/aetherweave/internal/view"
)

var _ = Describe("Fit", func() {
	viewport := view.Rect{Size: r2.Vec{X: 800, Y: 600}}

	It("returns scale 1 when there are no bodies", func() {
		v := view.Fit(nil, viewport, 8, 10)
		Expect(v).To(Equal(view.Identity))
	})

	It("returns scale 1 for a single body", func() {
		v := view.Fit([]r2.Vec{{X: 5e10, Y: -3e10}}, viewport, 8, 10)
		Expect(v.Scale).To(Equal(1.0))
		Expect(v.Center).To(Equal(r2.Vec{X: 5e10, Y: -3e10}))
	})

	It("centres a lone body at the origin on the viewport", func() {
		v := view.Fit([]r2.Vec{{}}, viewport, 8, 10)
		Expect(v.Scale).To(Equal(1.0))
		Expect(v.Center).To(Equal(r2.Vec{}))
		Expect(view.Project(v, viewport.Center(), r2.Vec{})).To(Equal(r2.Vec{X: 400, Y: 300}))
	})

	It("degrades to scale 1 on an empty viewport", func() {
		empty := view.Rect{}
		Expect(empty.Validate()).To(MatchError(view.ErrEmptyViewport))

		v := view.Fit([]r2.Vec{{}, {X: 1e11, Y: 1e11}}, empty, 8, 10)
		Expect(v.Scale).To(Equal(1.0))
		Expect(math.IsNaN(v.Center.X)).To(BeFalse())
	})

	It("uses the only axis with extent", func() {
		v := view.Fit([]r2.Vec{{X: -1e11}, {X: 1e11}}, viewport, 0, 0)
		Expect(v.Scale).To(BeNumerically("~", 800/2e11, 1e-20))
		Expect(v.Center).To(Equal(r2.Vec{}))
	})

	Context("with the Sun and Earth in an 800x600 viewport", func() {
		var (
			sys   *orbit.System
			v     view.View
			vc    r2.Vec
			earth orbit.Handle
		)

		BeforeEach(func() {
			var err error
			sys, err = orbit.NewSystem([]orbit.Spec{
				{Name: "Sun", MassKg: orbit.SunMassKg, Color: "#ffd700"},
				{Name: "Earth", MassKg: orbit.EarthMassKg, OrbitalRadiusKm: 1.5e8, Color: "#0000ff", StartAngleDeg: 40},
			})
			Expect(err).NotTo(HaveOccurred())
			earth, _ = sys.Lookup("Earth")
			v = view.Fit(sys.Positions(), viewport, 8, 10)
			vc = viewport.Center()
		})

		It("fits every body inside the usable area", func() {
			ps := sys.Positions()
			spanX := math.Abs(ps[1].X - ps[0].X)
			spanY := math.Abs(ps[1].Y - ps[0].Y)
			Expect(spanX * v.Scale).To(BeNumerically("<=", 764+1e-9))
			Expect(spanY * v.Scale).To(BeNumerically("<=", 564+1e-9))
			// the tighter axis is filled exactly
			Expect(math.Max(spanX*v.Scale/764, spanY*v.Scale/564)).To(BeNumerically("~", 1, 1e-9))

			for _, p := range ps {
				s := view.Project(v, vc, p)
				Expect(s.X).To(BeNumerically(">=", 18-1e-9))
				Expect(s.X).To(BeNumerically("<=", 800-18+1e-9))
				Expect(s.Y).To(BeNumerically(">=", 18-1e-9))
				Expect(s.Y).To(BeNumerically("<=", 600-18+1e-9))
			}
		})

		It("places Earth up and to the right of the Sun", func() {
			sunH, _ := sys.Lookup("Sun")
			sun, _ := sys.Get(sunH)
			e, _ := sys.Get(earth)
			ss := view.Project(v, vc, sun.Position)
			es := view.Project(v, vc, e.Position)
			Expect(es.X).To(BeNumerically(">", ss.X))
			Expect(es.Y).To(BeNumerically("<", ss.Y))
		})

		It("hits Earth near its projected center and selects it", func() {
			e, _ := sys.Get(earth)
			s := view.Project(v, vc, e.Position)
			pointer := r2.Add(s, r2.Vec{X: 3, Y: -2})

			h, ok := view.HitTest(sys, v, vc, &pointer, 8, 5)
			Expect(ok).To(BeTrue())
			Expect(h).To(Equal(earth))

			var sel view.Selection
			sel.Press(h, ok)
			Expect(sel.Name(sys)).To(Equal("Earth"))
		})

		DescribeTable("hits with the pointer exactly on the projected center",
			func(bodyRadius, tolerance float64) {
				e, _ := sys.Get(earth)
				pointer := view.Project(v, vc, e.Position)
				h, ok := view.HitTest(sys, v, vc, &pointer, bodyRadius, tolerance)
				Expect(ok).To(BeTrue())
				Expect(h).To(Equal(earth))
			},
			Entry("no tolerance", 8.0, 0.0),
			Entry("wide tolerance", 8.0, 50.0),
		)

		It("converts orbit radii to pixels", func() {
			e, _ := sys.Get(earth)
			Expect(view.ScreenRadius(v, e.OrbitRadius())).To(BeNumerically("~", 1.5e11*v.Scale, 1e-6))
		})

		It("clears the selection on a miss", func() {
			var sel view.Selection
			sel.Press(earth, true)

			pointer := r2.Vec{X: 400, Y: 300}
			h, ok := view.HitTest(sys, v, vc, &pointer, 8, 5)
			Expect(ok).To(BeFalse())
			sel.Press(h, ok)

			_, _, live := sel.Resolve(sys)
			Expect(live).To(BeFalse())
			Expect(sel.Name(sys)).To(BeEmpty())
		})
	})
})

var _ = Describe("Project and Unproject", func() {
	vc := r2.Vec{X: 400, Y: 300}

	DescribeTable("round trip",
		func(v view.View, p r2.Vec) {
			back := view.Unproject(v, vc, view.Project(v, vc, p))
			tol := 1e-9 * math.Max(1, r2.Norm(p))
			Expect(back.X).To(BeNumerically("~", p.X, tol))
			Expect(back.Y).To(BeNumerically("~", p.Y, tol))
		},
		Entry("identity", view.Identity, r2.Vec{X: 12, Y: -7}),
		Entry("solar scale", view.View{Center: r2.Vec{X: 336, Y: 282}, Scale: 5.85e-9}, r2.Vec{X: 1.149e11, Y: 9.64e10}),
		Entry("negative coords", view.View{Center: r2.Vec{X: -10, Y: 4}, Scale: 2e-9}, r2.Vec{X: -4.5e12, Y: -1e9}),
	)

	It("inverts the Y axis", func() {
		v := view.View{Scale: 1}
		s := view.Project(v, vc, r2.Vec{X: 0, Y: 100})
		Expect(s).To(Equal(r2.Vec{X: 400, Y: 200}))
	})

	It("maps the view center to the viewport center", func() {
		v := view.View{Center: r2.Vec{X: 50, Y: 20}, Scale: 0.5}
		s := view.Project(v, vc, r2.Vec{X: 100, Y: 40})
		Expect(s).To(Equal(vc))
	})
})

var _ = Describe("HitTest", func() {
	vc := r2.Vec{X: 0, Y: 0}

	It("never hits without a pointer", func() {
		sys, _ := orbit.NewSystem([]orbit.Spec{{Name: "Sun", MassKg: 1, Color: "#ffffff"}})
		_, ok := view.HitTest(sys, view.Identity, vc, nil, 8, 5)
		Expect(ok).To(BeFalse())
	})

	It("returns the first body in roster order on overlap", func() {
		sys := &orbit.System{}
		a := sys.Add(orbit.Body{Name: "A", Fixed: true})
		sys.Add(orbit.Body{Name: "B", Fixed: true})

		pointer := r2.Vec{X: 1, Y: 1}
		h, ok := view.HitTest(sys, view.Identity, vc, &pointer, 8, 0)
		Expect(ok).To(BeTrue())
		Expect(h).To(Equal(a))
	})

	It("uses a strict radius bound", func() {
		sys := &orbit.System{}
		sys.Add(orbit.Body{Name: "A", Fixed: true})

		pointer := r2.Vec{X: 13, Y: 0}
		_, ok := view.HitTest(sys, view.Identity, vc, &pointer, 8, 5)
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("Selection", func() {
	var sys *orbit.System

	BeforeEach(func() {
		sys = &orbit.System{}
		sys.Add(orbit.Body{Name: "Sun", Fixed: true})
		sys.Add(orbit.Body{Name: "Mars"})
	})

	It("forgets a removed body", func() {
		var sel view.Selection
		Expect(sel.SelectByName(sys, "Mars")).To(BeTrue())

		h, _ := sel.Handle()
		Expect(sys.Remove(h)).To(BeTrue())

		_, _, ok := sel.Resolve(sys)
		Expect(ok).To(BeFalse())
	})

	It("clears on an unknown name", func() {
		var sel view.Selection
		sel.SelectByName(sys, "Sun")
		Expect(sel.SelectByName(sys, "Pluto")).To(BeFalse())
		_, selected := sel.Handle()
		Expect(selected).To(BeFalse())
	})
})
