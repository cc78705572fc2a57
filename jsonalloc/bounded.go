package jsonalloc

// BoundedPool is an allocator backed by a fixed caller-supplied buffer. It
// satisfies allocation requests by bumping a high-water index into that
// buffer and refuses once the buffer is exhausted — grounded on yyjson's
// yyjson_alc_pool_init bump allocator (original_source/test/test_json_writer.c
// builds one from a stack buffer to test writer behavior under allocation
// pressure).
//
// Like the yyjson pool allocator, only the most recent allocation can be
// grown or shrunk in place (Realloc on an earlier allocation copies it into a
// fresh allocation and Free on one is a no-op; the space they leave behind is
// reclaimed only when the whole pool is reset).
type BoundedPool struct {
	buf     []byte
	used    int
	lastOff int
	lastLen int
}

// NewBoundedPool wraps buf (len(buf) is the total capacity) as a bump
// allocator. The buffer's contents are not modified on construction.
func NewBoundedPool(buf []byte) *BoundedPool {
	return &BoundedPool{buf: buf, lastOff: -1}
}

// Reset rewinds the pool so the whole buffer is available again.
func (p *BoundedPool) Reset() {
	p.used = 0
	p.lastOff = -1
	p.lastLen = 0
}

// Alloc carves size bytes off the pool, or returns nil if the pool is
// exhausted.
func (p *BoundedPool) Alloc(size int) []byte {
	if size < 0 || p.used+size > len(p.buf) {
		return nil
	}
	off := p.used
	p.used += size
	p.lastOff = off
	p.lastLen = size
	return p.buf[off:off:p.used]
}

// Realloc grows or shrinks buf. If buf is the most recent allocation, it is
// resized in place when the pool has room; otherwise a fresh allocation is
// made and the old contents copied (the old space is not reclaimed).
func (p *BoundedPool) Realloc(buf []byte, newSize int) []byte {
	if newSize < 0 {
		return nil
	}
	if p.isLastAlloc(buf) {
		delta := newSize - p.lastLen
		if p.used+delta > len(p.buf) {
			return nil
		}
		p.used += delta
		p.lastLen = newSize
		n := len(buf)
		if newSize < n {
			n = newSize
		}
		return p.buf[p.lastOff : p.lastOff+n : p.used]
	}

	next := p.Alloc(newSize)
	if next == nil {
		return nil
	}
	n := len(buf)
	if newSize < n {
		n = newSize
	}
	next = next[:n]
	copy(next, buf[:n])
	return next[:n:cap(next)]
}

// Free reclaims buf if it is the most recent allocation; otherwise it is a
// no-op, matching the bump-allocator contract (space is only reclaimed in
// bulk via Reset).
func (p *BoundedPool) Free(buf []byte) {
	if p.isLastAlloc(buf) {
		p.used -= p.lastLen
		p.lastLen = 0
		p.lastOff = -1
	}
}

func (p *BoundedPool) isLastAlloc(buf []byte) bool {
	if p.lastOff < 0 || cap(buf) == 0 {
		return false
	}
	// Identify "most recent allocation" by backing-array identity: does buf's
	// address range start exactly at the pool's recorded offset?
	return sameBacking(buf, p.buf[p.lastOff:p.lastOff:len(p.buf)])
}

// sameBacking reports whether a and b share the same backing array starting
// address, by comparing the addresses of their first elements (two
// zero-capacity slices have no element to compare and are matched by cap).
func sameBacking(a, b []byte) bool {
	if cap(a) == 0 || cap(b) == 0 {
		return cap(a) == cap(b)
	}
	return &a[:1][0] == &b[:1][0]
}
