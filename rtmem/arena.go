// Package rtmem implements the audio-thread bump allocator the decode
// package uses to build per-block views without touching the Go allocator
// on the steady-state render path. It mirrors RTMemoryArea/RTVector from
// the original engine: one big backing buffer handed out in 64-byte-aligned
// chunks, reset in bulk once per audio block instead of freed piecemeal.
package rtmem

import (
	"sync"
	"unsafe"

	"github.com/charmbracelet/log"
)

const (
	initialSize = 1024 * 1024
	growSize    = 32 * 1024
	alignment   = 64
)

// Area is a bump allocator for real-time use: Alloc never calls into the
// Go allocator while the backing buffer has room, and FreeAll resets it for
// reuse in O(1). If a caller exhausts the buffer, Alloc falls back to a
// regular allocation so the voice keeps making forward progress instead of
// panicking; FreeAll grows the backing buffer for the next cycle when that
// happens.
type Area struct {
	mem       []byte
	used      int
	fellBack  bool
	warnOnce  sync.Once
	allocator func(n int) []byte
}

// NewArea returns an Area with the default 1 MiB initial capacity, large
// enough that a well-behaved voice never hits the malloc fallback.
func NewArea() *Area {
	return &Area{mem: make([]byte, initialSize)}
}

// Alloc reserves n bytes and returns them zeroed, rounding n up to the
// alignment boundary IFFTSynth and the noise decoder expect for their
// vector loads.
func (a *Area) Alloc(n int) []byte {
	n = ((n + alignment - 1) / alignment) * alignment

	if a.used+n > len(a.mem) {
		a.warnOnce.Do(func() {
			log.Warn("rtmem: arena exhausted, falling back to heap allocation", "requested", n, "capacity", len(a.mem))
		})
		a.fellBack = true
		return make([]byte, n)
	}

	b := a.mem[a.used : a.used+n : a.used+n]
	a.used += n
	clear(b)
	return b
}

// FreeAll resets the arena for the next block. If the previous cycle fell
// back to the heap, the backing buffer grows so the fallback is less likely
// to recur.
func (a *Area) FreeAll() {
	if a.fellBack {
		a.mem = make([]byte, len(a.mem)+growSize)
		a.fellBack = false
		a.warnOnce = sync.Once{}
	}
	a.used = 0
}

// AllocUint16 reserves a []uint16 of length n from the arena.
func AllocUint16(a *Area, n int) []uint16 {
	if n == 0 {
		return nil
	}
	b := a.Alloc(n * 2)
	if len(b) < n*2 {
		return make([]uint16, n)
	}
	return unsafe.Slice((*uint16)(unsafe.Pointer(&b[0])), n)[:n]
}

// AllocFloat64 reserves a []float64 of length n from the arena.
func AllocFloat64(a *Area, n int) []float64 {
	if n == 0 {
		return nil
	}
	b := a.Alloc(n * 8)
	if len(b) < n*8 {
		return make([]float64, n)
	}
	return unsafe.Slice((*float64)(unsafe.Pointer(&b[0])), n)[:n]
}
