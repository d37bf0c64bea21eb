package pipeio

import "golang.org/x/sys/unix"

// DescriptorLimit returns the calling process's current and maximum open
// file descriptor limits (RLIMIT_NOFILE). It is used only as a startup
// diagnostic — each launched command consumes one or two descriptors for the
// lifetime of its handle, so a mount expecting many concurrent opens against
// a small soft limit is worth warning about before it happens.
func DescriptorLimit() (cur, max uint64, err error) {
	var rlimit unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &rlimit); err != nil {
		return 0, 0, err
	}
	return rlimit.Cur, rlimit.Max, nil
}
