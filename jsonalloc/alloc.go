// Package jsonalloc provides the pluggable allocator abstraction consumed by
// jsonwriter: three operations (alloc, realloc, free) plus an opaque context,
// mirroring the vtable-style allocator in the yyjson C library this module's
// number codec and writer were distilled from.
//
// All three operations may fail (return nil); callers must propagate failure
// upward without returning partial output.
package jsonalloc

// Allocator is the interface the writer obtains its output buffer from.
// Alloc and Realloc return nil on failure. Free is a no-op for allocators
// that don't track individual allocations (e.g. System).
type Allocator interface {
	Alloc(size int) []byte
	Realloc(buf []byte, newSize int) []byte
	Free(buf []byte)
}

// System is the default allocator: every request succeeds (barring an actual
// out-of-memory panic from the Go runtime), backed by make/append. It never
// refuses, so it is not useful for exercising the writer's failure paths —
// use BoundedPool for that (PooledAllocator never refuses either).
type System struct{}

// Alloc returns a zeroed slice of length 0 and the requested capacity.
func (System) Alloc(size int) []byte {
	if size < 0 {
		return nil
	}
	return make([]byte, 0, size)
}

// Realloc grows buf to newSize capacity, copying existing contents.
func (System) Realloc(buf []byte, newSize int) []byte {
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

// Free is a no-op: the Go garbage collector reclaims the backing array once
// nothing references it.
func (System) Free(buf []byte) {}
