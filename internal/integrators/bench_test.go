package integrators

import (
	"math/rand"
	"testing"

	"github.com/san-kum/verletsim/internal/dynamo"
)

func benchSet() *dynamo.ParticleSet {
	set := dynamo.NewParticleSet(dynamo.DefaultParticles, dynamo.DefaultRadius)
	set.Scatter(dynamo.NewBounds(dynamo.DefaultWidth, dynamo.DefaultHeight, dynamo.DefaultScale), rand.New(rand.NewSource(1)))
	return set
}

func BenchmarkApplyGravity(b *testing.B) {
	v := NewVerlet(dynamo.DefaultGravity)
	set := benchSet()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		v.ApplyGravity(set)
	}
}

func BenchmarkIntegrate(b *testing.B) {
	v := NewVerlet(dynamo.DefaultGravity)
	set := benchSet()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		v.Integrate(set, dynamo.DefaultDt)
	}
}

func BenchmarkCorrect(b *testing.B) {
	v := NewVerlet(dynamo.DefaultGravity)
	set := benchSet()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		v.Correct(set)
	}
}
