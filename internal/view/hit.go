package view

import (
	"github.com/samcarey/aetherweave/internal/orbit"
	"gonum.org/v1/gonum/spatial/r2"
)

// HitTest returns the first body, in roster order, whose projected center
// lies closer than bodyRadius+tolerance to pointer. A nil pointer never hits.
func HitTest(sys *orbit.System, v View, viewportCenter r2.Vec, pointer *r2.Vec, bodyRadius, tolerance float64) (orbit.Handle, bool) {
	if pointer == nil || sys == nil {
		return orbit.Handle{}, false
	}

	limit := bodyRadius + tolerance
	var (
		hit   orbit.Handle
		found bool
	)
	sys.Each(func(h orbit.Handle, b *orbit.Body) bool {
		s := Project(v, viewportCenter, b.Position)
		if r2.Norm(r2.Sub(s, *pointer)) < limit {
			hit, found = h, true
			return false
		}
		return true
	})
	return hit, found
}
