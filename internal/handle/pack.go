package handle

import "math"

// NoDescriptor is the sentinel value of a packed descriptor field meaning
// "absent" — the handle was opened in a mode that does not use that
// direction. It is distinguishable from any real descriptor, which is
// always non-negative.
const NoDescriptor int32 = -1

// PackDescriptors packs a read and a write file descriptor into a single
// 64-bit identifier, read descriptor in the high 32 bits and write
// descriptor in the low 32 bits. Either may be NoDescriptor. This is a pure,
// allocation-free reference implementation of the alternative encoding
// described alongside the heap-registry representation (Registry, in
// registry.go) — it is exercised by its own tests but is not the encoding
// used on the live FUSE path, since cache-mode handles need heap-allocated
// buffer state that a pair of descriptors cannot carry.
func PackDescriptors(readFD, writeFD int32) uint64 {
	return uint64(uint32(readFD))<<32 | uint64(uint32(writeFD))
}

// UnpackDescriptors reverses PackDescriptors.
func UnpackDescriptors(id uint64) (readFD, writeFD int32) {
	readFD = int32(uint32(id >> 32))
	writeFD = int32(uint32(id))
	return
}

// FitsInDescriptor reports whether fd is representable in the packed
// encoding's 32-bit half. Real file descriptors are always small
// non-negative integers in practice, but per the design requirement that an
// implementation packing raw descriptors into 64 bits must refuse to do so
// where a descriptor would not fit, callers constructing a packed identifier
// from a platform-width int should check this first.
func FitsInDescriptor(fd int) bool {
	return fd >= math.MinInt32 && fd <= math.MaxInt32
}
