// Package handle owns the per-open state created by the pipe launcher
// (internal/pipeio) and the opaque 64-bit identifiers exchanged with the
// kernel bridge for it.
package handle

import (
	"github.com/jacobsa/fuse/fuseops"
	"github.com/jacobsa/syncutil"
)

// Registry maps opaque fuseops.HandleID values to live per-open state of
// type T. Identifiers are minted from a monotonically increasing counter
// starting at 1, so a successful Register call never yields zero, the value
// the open path treats as an invalid identifier.
//
// This is the uniform heap representation the design notes permit in place
// of packing raw descriptors into the identifier: it sidesteps having to
// reconstruct a live *os.File from a bare integer, which would risk the
// garbage collector finalizing the file out from under an in-flight
// read or write.
//
// Distinct handles are registered and released concurrently even though a
// single handle's contents are not shared across goroutines, so the map
// itself is guarded by an InvariantMutex checking, on every acquisition, that
// every live identifier lies in [1, next).
type Registry[T any] struct {
	mu   syncutil.InvariantMutex
	next fuseops.HandleID
	live map[fuseops.HandleID]T
}

// NewRegistry constructs an empty registry.
func NewRegistry[T any]() *Registry[T] {
	r := &Registry[T]{
		next: 1,
		live: make(map[fuseops.HandleID]T),
	}
	r.mu = syncutil.NewInvariantMutex(r.checkInvariants)
	return r
}

func (r *Registry[T]) checkInvariants() {
	for id := range r.live {
		if id == 0 || id >= r.next {
			panic("handle registry: live id outside [1, next) range")
		}
	}
}

// Register allocates a fresh identifier for v and returns it.
func (r *Registry[T]) Register(v T) fuseops.HandleID {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.next
	r.next++
	r.live[id] = v
	return id
}

// Lookup returns the value registered under id, if any.
func (r *Registry[T]) Lookup(id fuseops.HandleID) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.live[id]
	return v, ok
}

// Release removes id from the registry. It is a no-op if id is not present.
func (r *Registry[T]) Release(id fuseops.HandleID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.live, id)
}

// Len reports the number of currently live handles. Used by internal/fs to
// populate the open-handles gauge in internal/metrics.
func (r *Registry[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.live)
}
