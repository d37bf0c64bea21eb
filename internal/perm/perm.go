// Package perm evaluates the access mask a caller holds against a synthetic
// file entry.
package perm

import "github.com/Smattr/execfs/internal/entry"

// Evaluate returns the permission triple granted to a caller identified by
// callerUID/callerGID against e, given the mount's owning uid/gid.
//
// This is deliberately not the standard POSIX access(2) ladder: it checks
// owner, then primary group, then other, with no fallthrough once a branch
// is taken. A caller matching the mount uid gets exactly the user triple,
// even if those bits are more restrictive than the group or other triples.
func Evaluate(e entry.Entry, mountUID, mountGID, callerUID, callerGID uint32) entry.Permissions {
	switch {
	case callerUID == mountUID:
		return e.Access.User
	case callerGID == mountGID:
		return e.Access.Group
	default:
		return e.Access.Other
	}
}
