package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/verletsim/internal/dynamo"
)

func TestOverlap(t *testing.T) {
	m := NewOverlap()
	set := dynamo.NewParticleSet(2, 1)
	set.Pos[0] = dynamo.Vec2{X: 0, Y: 0}
	set.Pos[1] = dynamo.Vec2{X: 1.25, Y: 0}

	m.Observe(set, testBounds, 0)
	if math.Abs(m.Value()-0.75) > 1e-12 {
		t.Errorf("overlap = %v, want 0.75", m.Value())
	}

	set.Pos[1].X = 5
	m.Observe(set, testBounds, 1)
	if math.Abs(m.Value()-0.75) > 1e-12 {
		t.Error("overlap should keep the maximum")
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestContainment(t *testing.T) {
	m := NewContainment()
	if m.Value() != 1.0 {
		t.Errorf("empty containment = %v", m.Value())
	}

	set := dynamo.NewParticleSet(4, 1)
	set.Pos[0] = dynamo.Vec2{X: 0, Y: 0}
	set.Pos[1] = dynamo.Vec2{X: 9, Y: 9}
	set.Pos[2] = dynamo.Vec2{X: 9.5, Y: 0}
	set.Pos[3] = dynamo.Vec2{X: 0, Y: -12}

	m.Observe(set, testBounds, 0)
	if m.Value() != 0.5 {
		t.Errorf("containment = %v, want 0.5", m.Value())
	}
}

func TestDefaults(t *testing.T) {
	names := map[string]bool{}
	for _, m := range Defaults(dynamo.DefaultDt, dynamo.DefaultGravity) {
		names[m.Name()] = true
	}
	for _, want := range []string{"energy", "energy_drift", "containment"} {
		if !names[want] {
			t.Errorf("missing default metric %q", want)
		}
	}
}
