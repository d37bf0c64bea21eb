package entry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEntries() []Entry {
	return []Entry{
		{Path: "date", Command: "date +%Y", Size: UnspecifiedSize},
		{Path: "echo", Command: "cat", Size: UnspecifiedSize},
		{Path: "priv", Command: "true", Size: UnspecifiedSize},
	}
}

func TestFind(t *testing.T) {
	table := NewTable(testEntries())

	e, ok := table.Find("/echo")
	require.True(t, ok)
	assert.Equal(t, "cat", e.Command)

	_, ok = table.Find("/nope")
	assert.False(t, ok)
}

func TestFindRejectsRelativePaths(t *testing.T) {
	table := NewTable(testEntries())

	_, ok := table.Find("echo")
	assert.False(t, ok)
}

func TestFindFirstMatchWinsOnDuplicate(t *testing.T) {
	table := NewTable([]Entry{
		{Path: "dup", Command: "first"},
		{Path: "dup", Command: "second"},
	})

	e, ok := table.Find("/dup")
	require.True(t, ok)
	assert.Equal(t, "first", e.Command)
}

func TestEnumerateResumption(t *testing.T) {
	table := NewTable(testEntries())

	var firstPass []string
	var stopOffset int
	table.Enumerate(0, func(e Entry, next int) bool {
		firstPass = append(firstPass, e.Path)
		if len(firstPass) == 2 {
			stopOffset = next
			return false
		}
		return true
	})
	assert.Equal(t, []string{"date", "echo"}, firstPass)

	var secondPass []string
	table.Enumerate(stopOffset, func(e Entry, next int) bool {
		secondPass = append(secondPass, e.Path)
		return true
	})
	assert.Equal(t, []string{"priv"}, secondPass)
}

func TestEnumerateOffsetPastEndYieldsNothing(t *testing.T) {
	table := NewTable(testEntries())

	var seen []string
	table.Enumerate(table.Len(), func(e Entry, next int) bool {
		seen = append(seen, e.Path)
		return true
	})
	assert.Empty(t, seen)
}
