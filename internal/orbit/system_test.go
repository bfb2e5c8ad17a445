package orbit

import (
	"errors"
	"strings"
	"testing"

	"github.com/hashicorp/go-multierror"
	"gonum.org/v1/gonum/spatial/r2"
)

func testSpecs() []Spec {
	return []Spec{
		{Name: "Sun", MassKg: SunMassKg, Color: "#ffd700"},
		{Name: "Earth", MassKg: EarthMassKg, OrbitalRadiusKm: 1.5e8, Color: "#0000ff", StartAngleDeg: 40},
		{Name: "Mars", MassKg: 6.39e23, OrbitalRadiusKm: 228e6, Color: "#ff0000", StartAngleDeg: 40},
	}
}

func TestNewSystem(t *testing.T) {
	sys, err := NewSystem(testSpecs())
	if err != nil {
		t.Fatalf("NewSystem failed: %v", err)
	}
	if sys.Len() != 3 {
		t.Fatalf("expected 3 bodies, got %d", sys.Len())
	}

	var names []string
	sys.Each(func(_ Handle, b *Body) bool {
		names = append(names, b.Name)
		return true
	})
	if strings.Join(names, ",") != "Sun,Earth,Mars" {
		t.Errorf("order not preserved: %v", names)
	}
}

func TestNewSystemAggregatesErrors(t *testing.T) {
	specs := append(testSpecs(),
		Spec{Name: "Bad", MassKg: -1, OrbitalRadiusKm: 1, Color: "#ffffff"},
		Spec{Name: "Earth", MassKg: 1, OrbitalRadiusKm: 1, Color: "#ffffff"},
		Spec{Name: "Ugly", MassKg: 1, OrbitalRadiusKm: 1, Color: "blue"},
	)

	sys, err := NewSystem(specs)
	if sys != nil {
		t.Error("expected nil system on error")
	}

	var merr *multierror.Error
	if !errors.As(err, &merr) {
		t.Fatalf("expected multierror, got %T", err)
	}
	if len(merr.Errors) != 3 {
		t.Fatalf("expected 3 errors, got %d: %v", len(merr.Errors), err)
	}
	if !errors.Is(err, ErrInvalidBody) {
		t.Error("expected ErrInvalidBody in chain")
	}
	if !errors.Is(err, ErrDuplicateBody) {
		t.Error("expected ErrDuplicateBody in chain")
	}
}

func TestSystemAdvanceSkipsFixed(t *testing.T) {
	sys, _ := NewSystem(testSpecs())

	before := sys.Clone()
	sys.Advance(3600)

	sunH, _ := sys.Lookup("Sun")
	sun, _ := sys.Get(sunH)
	if sun.Position != (r2.Vec{}) {
		t.Errorf("sun moved: %v", sun.Position)
	}

	sys.Each(func(h Handle, b *Body) bool {
		prev, _ := before.Get(h)
		want := r2.Add(prev.Position, r2.Scale(3600, prev.Velocity))
		if r2.Norm(r2.Sub(b.Position, want)) > 1e-3 {
			t.Errorf("%s: position %v, want %v", b.Name, b.Position, want)
		}
		return true
	})
}

func TestSystemRemoveInvalidatesHandle(t *testing.T) {
	sys, _ := NewSystem(testSpecs())
	h, ok := sys.Lookup("Earth")
	if !ok {
		t.Fatal("Earth not found")
	}

	if !sys.Remove(h) {
		t.Fatal("Remove returned false")
	}
	if _, ok := sys.Get(h); ok {
		t.Error("stale handle still resolves")
	}
	if sys.Remove(h) {
		t.Error("second Remove should fail")
	}
	if sys.Len() != 2 {
		t.Errorf("expected 2 live bodies, got %d", sys.Len())
	}

	mars, _ := sys.Lookup("Mars")
	if mars.Index != 2 {
		t.Errorf("removal changed ordering: Mars at %d", mars.Index)
	}
}

func TestSystemGetOutOfRange(t *testing.T) {
	sys, _ := NewSystem(testSpecs())
	for _, h := range []Handle{{Index: -1}, {Index: 3}, {Index: 1, Gen: 7}} {
		if _, ok := sys.Get(h); ok {
			t.Errorf("handle %+v should not resolve", h)
		}
	}
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#ff0000")
	if err != nil {
		t.Fatal(err)
	}
	if c.Hex() != "#ff0000" {
		t.Errorf("round trip = %s", c.Hex())
	}
	if _, err := ParseColor("red"); err == nil {
		t.Error("expected error for named color")
	}
}
