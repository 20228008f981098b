package core

import "sync"

// Pool recycles Buffers of a single requisition shape so the scheduler's
// recycle back-channels (see sched.Engine) can hand a consumed buffer back
// to its producer without round-tripping through the allocator. It mirrors
// SublatePool's Get/Put pairing.
type Pool struct {
	requisition Requisition
	buffers     sync.Pool
}

// NewPool creates a pool that manufactures Buffers of the given shape.
func NewPool(req Requisition) *Pool {
	p := &Pool{requisition: req}
	p.buffers.New = func() interface{} {
		b := NewBuffer(req)
		b.recyclable = true
		b.pool = p
		return b
	}
	return p
}

// Get returns a Buffer from the pool, allocating a fresh one if the pool
// is empty.
func (p *Pool) Get() *Buffer {
	return p.buffers.Get().(*Buffer)
}

// Put returns a buffer to the pool after resetting its residency. Put is a
// no-op if b did not come from a pool, or came from a different one.
func (p *Pool) Put(b *Buffer) {
	if b == nil || b.pool != p {
		return
	}
	b.mu.Lock()
	if b.requisition.Equal(p.requisition) {
		b.location = LocationInvalid
	} else {
		// shape drifted (e.g. via Resize): drop storage and let the pool
		// hand out a fresh buffer next time rather than leak a mismatched
		// one back into circulation.
		b.requisition = p.requisition
		b.host = nil
		b.hostCap = 0
		b.device = nil
		b.deviceCap = 0
		b.location = LocationInvalid
	}
	b.mu.Unlock()
	p.buffers.Put(b)
}
