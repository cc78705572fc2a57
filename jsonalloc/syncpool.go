package jsonalloc

import (
	"sync"
	"sync/atomic"
)

// maxPooledCapacity bounds how large a buffer PooledAllocator will keep
// around; oversized buffers are dropped instead of recycled so one huge
// document doesn't bloat the pool for every subsequent small one.
const maxPooledCapacity = 1 << 20 // 1 MiB

// defaultPooledCapacity is the capacity hint for freshly allocated buffers.
const defaultPooledCapacity = 512

// PooledAllocator recycles byte buffers through a sync.Pool instead of
// carving them from a fixed arena. It never refuses a request (new buffers
// are allocated on a pool miss), so — unlike BoundedPool — it cannot be used
// to exercise the writer's allocation-failure path; it exists for the
// opposite reason: repeated Write calls across goroutines reuse backing
// arrays instead of generating garbage on every call.
//
// Grounded on the sync.Pool buffer recycler pattern (Get resets and returns,
// Put drops oversized buffers, atomic counters track Gets/Puts/Allocations/
// Drops) used for log-line buffers in high-throughput structured loggers.
type PooledAllocator struct {
	pool sync.Pool

	gets   int64
	puts   int64
	allocs int64
	drops  int64
}

// NewPooledAllocator returns a ready-to-use pooled allocator.
func NewPooledAllocator() *PooledAllocator {
	p := &PooledAllocator{}
	p.pool.New = func() any {
		atomic.AddInt64(&p.allocs, 1)
		buf := make([]byte, 0, defaultPooledCapacity)
		return &buf
	}
	return p
}

// Alloc returns a zero-length buffer with at least size capacity, recycled
// from the pool when possible.
func (p *PooledAllocator) Alloc(size int) []byte {
	if size < 0 {
		return nil
	}
	atomic.AddInt64(&p.gets, 1)
	bp := p.pool.Get().(*[]byte)
	buf := (*bp)[:0]
	if cap(buf) < size {
		buf = make([]byte, 0, size)
	}
	return buf
}

// Realloc grows buf to newSize capacity. The old backing array is not
// returned to the pool here — callers are expected to Free the buffer they
// stop using (the writer frees its working buffer only on failure, and hands
// the success buffer to the caller, who owns its lifetime from then on).
func (p *PooledAllocator) Realloc(buf []byte, newSize int) []byte {
	if newSize < 0 {
		return nil
	}
	if newSize <= cap(buf) {
		return buf[:len(buf):newSize]
	}
	next := make([]byte, len(buf), newSize)
	copy(next, buf)
	return next
}

// Free returns buf's backing array to the pool, unless it has grown past
// maxPooledCapacity, in which case it is dropped to avoid bloating the pool.
func (p *PooledAllocator) Free(buf []byte) {
	atomic.AddInt64(&p.puts, 1)
	if cap(buf) == 0 {
		return
	}
	if cap(buf) > maxPooledCapacity {
		atomic.AddInt64(&p.drops, 1)
		fresh := make([]byte, 0, defaultPooledCapacity)
		p.pool.Put(&fresh)
		return
	}
	reset := buf[:0]
	p.pool.Put(&reset)
}

// PoolStats is a point-in-time snapshot of PooledAllocator activity.
type PoolStats struct {
	Gets        int64
	Puts        int64
	Allocations int64
	Drops       int64
}

// Stats returns a snapshot of the allocator's counters. Safe for concurrent
// use alongside Alloc/Realloc/Free.
func (p *PooledAllocator) Stats() PoolStats {
	return PoolStats{
		Gets:        atomic.LoadInt64(&p.gets),
		Puts:        atomic.LoadInt64(&p.puts),
		Allocations: atomic.LoadInt64(&p.allocs),
		Drops:       atomic.LoadInt64(&p.drops),
	}
}
