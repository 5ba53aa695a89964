package sim

import "sync"

// SamplePool recycles sample buffers between runs.
type SamplePool struct {
	pool     sync.Pool
	capacity int
}

func NewSamplePool(capacity int) *SamplePool {
	p := &SamplePool{capacity: capacity}
	p.pool.New = func() any {
		buf := make([]Sample, 0, capacity)
		return &buf
	}
	return p
}

// Get returns an empty buffer with at least the pool capacity.
func (p *SamplePool) Get() []Sample {
	return (*p.pool.Get().(*[]Sample))[:0]
}

// Put returns buf to the pool. Buffers smaller than the pool capacity are
// dropped.
func (p *SamplePool) Put(buf []Sample) {
	if cap(buf) < p.capacity {
		return
	}
	buf = buf[:0]
	p.pool.Put(&buf)
}
