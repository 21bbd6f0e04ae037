package sim

import (
	"sync"

	"github.com/san-kum/verletsim/internal/dynamo"
)

// SnapshotPool recycles position buffers of a fixed particle count.
type SnapshotPool struct {
	pool sync.Pool
	size int
}

func NewSnapshotPool(particles int) *SnapshotPool {
	return &SnapshotPool{
		size: particles,
		pool: sync.Pool{
			New: func() interface{} {
				return make([]dynamo.Vec2, particles)
			},
		},
	}
}

func (p *SnapshotPool) Get() []dynamo.Vec2 {
	return p.pool.Get().([]dynamo.Vec2)
}

// Put returns a buffer to the pool. Buffers of the wrong size are dropped.
func (p *SnapshotPool) Put(s []dynamo.Vec2) {
	if len(s) == p.size {
		clear(s)
		p.pool.Put(s)
	}
}

// Capture copies the current positions into a pooled buffer.
func (p *SnapshotPool) Capture(src []dynamo.Vec2) []dynamo.Vec2 {
	dst := p.Get()
	copy(dst, src)
	return dst
}
