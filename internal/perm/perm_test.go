package perm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Smattr/execfs/internal/entry"
)

func TestEvaluateOwnerMatch(t *testing.T) {
	access, err := entry.ParsePermissions("640")
	assert.NoError(t, err)
	e := entry.Entry{Access: access}

	got := Evaluate(e, 1000, 1000, 1000, 2000)
	assert.Equal(t, access.User, got)
}

func TestEvaluateGroupMatch(t *testing.T) {
	access, err := entry.ParsePermissions("640")
	assert.NoError(t, err)
	e := entry.Entry{Access: access}

	got := Evaluate(e, 1000, 1000, 2000, 1000)
	assert.Equal(t, access.Group, got)
}

func TestEvaluateOther(t *testing.T) {
	access, err := entry.ParsePermissions("640")
	assert.NoError(t, err)
	e := entry.Entry{Access: access}

	got := Evaluate(e, 1000, 1000, 2000, 2000)
	assert.Equal(t, access.Other, got)
}

func TestEvaluateOwnerBitsDoNotFallThroughWhenZero(t *testing.T) {
	// Owner matches but has no bits set; the group triple (even if more
	// permissive) must not be consulted.
	access, err := entry.ParsePermissions("076")
	assert.NoError(t, err)
	e := entry.Entry{Access: access}

	got := Evaluate(e, 1000, 1000, 1000, 1000)
	assert.Equal(t, entry.Permissions{}, got)
}
