package sim_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/verletsim/internal/dynamo"
	"github.com/san-kum/verletsim/internal/sim"
)

func newSim(n int, seed int64) *sim.Simulator {
	opts := sim.DefaultOptions()
	opts.Particles = n
	opts.Seed = seed
	s, err := sim.New(opts)
	Expect(err).NotTo(HaveOccurred())
	return s
}

var _ = Describe("Simulator", func() {
	Describe("creation", func() {
		It("scatters every particle strictly inside the inset bounds with zero history", func() {
			s := newSim(dynamo.DefaultParticles, 1)
			set := s.Set()
			in := s.Bounds().Inset(set.Radius)

			Expect(set.Len()).To(Equal(dynamo.DefaultParticles))
			for i, p := range set.Pos {
				Expect(p.X).To(BeNumerically(">", in.Left), "particle %d", i)
				Expect(p.X).To(BeNumerically("<", in.Right), "particle %d", i)
				Expect(p.Y).To(BeNumerically(">", in.Bottom), "particle %d", i)
				Expect(p.Y).To(BeNumerically("<", in.Top), "particle %d", i)
				Expect(set.Prev[i]).To(Equal(dynamo.Vec2{}))
				Expect(set.Acc[i]).To(Equal(dynamo.Vec2{}))
			}
		})

		It("uses an 800x600 viewport by default", func() {
			b := newSim(1, 1).Bounds()
			Expect(b.Right).To(BeNumerically("~", 80, 1e-9))
			Expect(b.Top).To(BeNumerically("~", 60, 1e-9))
		})
	})

	Describe("Resize", func() {
		It("zeroes history and respawns inside the new bounds", func() {
			s := newSim(500, 2)
			for i := 0; i < 30; i++ {
				s.Advance(dynamo.DefaultDt)
			}

			Expect(s.Resize(1920, 1080)).To(Succeed())

			set := s.Set()
			b := s.Bounds()
			Expect(b.Right / b.Top).To(BeNumerically("~", 1920.0/1080.0, 1e-9))
			in := b.Inset(set.Radius)
			for i := range set.Pos {
				Expect(set.Prev[i]).To(Equal(dynamo.Vec2{}))
				Expect(set.Acc[i]).To(Equal(dynamo.Vec2{}))
				p := set.Pos[i]
				Expect(p.X > in.Left && p.X < in.Right && p.Y > in.Bottom && p.Y < in.Top).To(BeTrue(), "particle %d at %v", i, p)
			}
		})
	})

	Describe("Advance", func() {
		It("is deterministic for equal seeds", func() {
			a := newSim(300, 42)
			b := newSim(300, 42)
			for i := 0; i < 120; i++ {
				a.Advance(dynamo.DefaultDt)
				b.Advance(dynamo.DefaultDt)
			}
			pa, pb := a.Positions(), b.Positions()
			Expect(pa).To(HaveLen(len(pb)))
			Expect(a.Set().Validate()).To(Succeed())
			for i := range pa {
				Expect(math.Float64bits(pa[i].X)).To(Equal(math.Float64bits(pb[i].X)))
				Expect(math.Float64bits(pa[i].Y)).To(Equal(math.Float64bits(pb[i].Y)))
			}
		})

		It("keeps the default configuration finite", func() {
			s := newSim(dynamo.DefaultParticles, 1)
			result, err := s.Run(context.Background(), dynamo.Config{Dt: dynamo.DefaultDt, Ticks: 60, ValidateState: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Errors).To(BeEmpty())
			Expect(result.Ticks).To(Equal(60))
			Expect(s.Set().Validate()).To(Succeed())
		})

		It("turns corner stacks into NaN without the epsilon guard", func() {
			opts := sim.DefaultOptions()
			opts.Epsilon = 0
			s, err := sim.New(opts)
			Expect(err).NotTo(HaveOccurred())

			result, err := s.Run(context.Background(), dynamo.Config{Dt: dynamo.DefaultDt, Ticks: 60, ValidateState: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Errors).To(HaveLen(1))
			Expect(result.Errors[0]).To(MatchError(dynamo.ErrInvalidState))
			Expect(result.Ticks).To(BeNumerically("<", 60))
		})

		It("leaves resting particles in place at dt=0 but still updates Prev", func() {
			s := newSim(2, 1)
			set := s.Set()
			set.Pos[0] = dynamo.Vec2{X: -10, Y: 3}
			set.Pos[1] = dynamo.Vec2{X: 10, Y: -3}
			set.Prev[0] = dynamo.Vec2{X: -10, Y: 3}
			set.Prev[1] = dynamo.Vec2{X: 10, Y: -3}

			s.Advance(0)

			Expect(set.Pos[0]).To(Equal(dynamo.Vec2{X: -10, Y: 3}))
			Expect(set.Pos[1]).To(Equal(dynamo.Vec2{X: 10, Y: -3}))
			Expect(set.Prev[0]).To(Equal(set.Pos[0]))
			Expect(set.Acc[0]).To(Equal(dynamo.Vec2{}))
		})

		It("is not idempotent at dt=0 when Prev is zero", func() {
			s := newSim(2, 1)
			set := s.Set()
			set.Pos[0] = dynamo.Vec2{X: -10, Y: 3}
			set.Pos[1] = dynamo.Vec2{X: 10, Y: -3}
			set.Reset()

			s.Advance(0)

			Expect(set.Prev[0]).To(Equal(dynamo.Vec2{X: -10, Y: 3}))
			Expect(set.Pos[0]).To(Equal(dynamo.Vec2{X: -20, Y: 6}))
			Expect(set.Pos[1]).To(Equal(dynamo.Vec2{X: 20, Y: -6}))
		})

		It("feeds the clamped position into the Verlet correction", func() {
			s := newSim(1, 1)
			set := s.Set()
			floor := s.Bounds().Bottom + set.Radius

			// Already 0.4 below the floor, falling at 0.5 units per tick.
			set.Pos[0] = dynamo.Vec2{X: 0, Y: floor - 0.4}
			set.Prev[0] = dynamo.Vec2{X: 0, Y: floor + 0.1}

			s.Advance(dynamo.DefaultDt)

			// Prev holds the clamped position; the correction extrapolates
			// from it using the untouched old Prev.
			Expect(set.Prev[0].Y).To(Equal(floor))
			Expect(set.Pos[0].Y).To(BeNumerically("~", floor-0.1, 1e-9))
		})

		It("separates an overlapping pair by the pair pass", func() {
			s := newSim(2, 1)
			set := s.Set()
			set.Pos[0] = dynamo.Vec2{X: 0, Y: 0}
			set.Pos[1] = dynamo.Vec2{X: 1, Y: 0}
			set.Prev[0], set.Prev[1] = set.Pos[0], set.Pos[1]

			s.Advance(0)

			Expect(s.Contacts()).To(Equal(1))
			// The correction is doubled by the Verlet step.
			Expect(set.Prev[0].X).To(BeNumerically("~", -0.5, 1e-12))
			Expect(set.Prev[1].X).To(BeNumerically("~", 1.5, 1e-12))
			Expect(set.Pos[0].X).To(BeNumerically("~", -1.0, 1e-12))
			Expect(set.Pos[1].X).To(BeNumerically("~", 2.0, 1e-12))
		})

		It("exposes a flat float32 buffer matching Positions", func() {
			s := newSim(10, 3)
			s.Advance(dynamo.DefaultDt)
			buf := s.AppendFloat32(nil)
			Expect(buf).To(HaveLen(20))
			for i, p := range s.Positions() {
				Expect(buf[2*i]).To(Equal(float32(p.X)))
				Expect(buf[2*i+1]).To(Equal(float32(p.Y)))
			}
		})
	})
})
