// Package entry defines the synthetic file catalog: the immutable, in-memory
// representation of each configured path, the shell command backing it, and
// the permission bits governing access to it.
package entry

import "fmt"

// UnspecifiedSize is the sentinel reported size meaning "use the mount-wide
// default" rather than a literal byte count.
const UnspecifiedSize int64 = -1

// Permissions is a single read/write/execute triple, as configured for one of
// user, group, or other.
type Permissions struct {
	Read    bool
	Write   bool
	Execute bool
}

// Mask returns the permission triple packed into the low three bits in the
// conventional R=4, W=2, X=1 layout.
func (p Permissions) Mask() uint32 {
	var m uint32
	if p.Read {
		m |= 4
	}
	if p.Write {
		m |= 2
	}
	if p.Execute {
		m |= 1
	}
	return m
}

func permissionsFromDigit(d byte) (Permissions, error) {
	if d < '0' || d > '7' {
		return Permissions{}, fmt.Errorf("invalid permission digit %q: must be 0-7", d)
	}
	v := d - '0'
	return Permissions{
		Read:    v&4 != 0,
		Write:   v&2 != 0,
		Execute: v&1 != 0,
	}, nil
}

func (p Permissions) digit() byte {
	return '0' + byte(p.Mask())
}

// Triple is the user/group/other permission set configured for one entry.
type Triple struct {
	User  Permissions
	Group Permissions
	Other Permissions
}

// ParsePermissions parses a three-decimal-digit access string such as "644"
// into a Triple. Each digit must be in the range 0-7.
func ParsePermissions(s string) (Triple, error) {
	if len(s) != 3 {
		return Triple{}, fmt.Errorf("invalid access %q: must be exactly 3 digits", s)
	}

	user, err := permissionsFromDigit(s[0])
	if err != nil {
		return Triple{}, fmt.Errorf("user %w", err)
	}
	group, err := permissionsFromDigit(s[1])
	if err != nil {
		return Triple{}, fmt.Errorf("group %w", err)
	}
	other, err := permissionsFromDigit(s[2])
	if err != nil {
		return Triple{}, fmt.Errorf("other %w", err)
	}

	return Triple{User: user, Group: group, Other: other}, nil
}

// String renders the triple back into its three-digit configuration form.
func (t Triple) String() string {
	return string([]byte{t.User.digit(), t.Group.digit(), t.Other.digit()})
}

// Entry describes one synthetic file: a path under the mount root, the
// command that backs it, and its access policy. Entries are immutable once
// constructed by the configuration reader.
type Entry struct {
	// Path is the name presented under the mount root, without a leading
	// separator. Must be unique within a Table.
	Path string

	// Access is the configured user/group/other permission triple.
	Access Triple

	// Command is executed under /bin/sh -c to service reads and writes.
	Command string

	// Size is the reported stat size, or UnspecifiedSize to fall back to the
	// mount-wide default.
	Size int64

	// Cache enables positional, seek-addressable reads emulated over an
	// in-memory buffer (see internal/fs).
	Cache bool
}
