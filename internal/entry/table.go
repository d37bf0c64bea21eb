package entry

import "strings"

// Table is the immutable, ordered catalog of synthetic files for one mount.
// It is built once at startup from the configuration reader and never
// mutated afterward, so lookups require no synchronization.
type Table struct {
	entries []Entry
}

// NewTable builds a Table from an ordered list of entries. If two entries
// share a path, Find returns the first match; no duplicate detection is
// performed here, matching the configuration reader's contract.
func NewTable(entries []Entry) *Table {
	cp := make([]Entry, len(entries))
	copy(cp, entries)
	return &Table{entries: cp}
}

// Len returns the number of entries in the table.
func (t *Table) Len() int {
	return len(t.entries)
}

// At returns the entry at index i, in table order. The second return value
// is false if i is out of range.
func (t *Table) At(i int) (Entry, bool) {
	if i < 0 || i >= len(t.entries) {
		return Entry{}, false
	}
	return t.entries[i], true
}

// Find resolves an absolute path (as delivered by the kernel bridge) against
// the table. It returns false if path does not begin with "/" or does not
// name a known entry.
func (t *Table) Find(path string) (Entry, bool) {
	if !strings.HasPrefix(path, "/") {
		return Entry{}, false
	}
	name := strings.TrimPrefix(path, "/")

	for _, e := range t.entries {
		if e.Path == name {
			return e, true
		}
	}
	return Entry{}, false
}

// FindByName resolves a single path component (as delivered by LookUpInode,
// which already has the parent resolved) against the table.
func (t *Table) FindByName(name string) (Entry, bool) {
	for _, e := range t.entries {
		if e.Path == name {
			return e, true
		}
	}
	return Entry{}, false
}

// Enumerate invokes fn for each entry starting at offset, in table order,
// stopping early if fn returns false. fn is given the next resume offset to
// use on a subsequent call. Used by readdir (internal/fs).
func (t *Table) Enumerate(offset int, fn func(e Entry, nextOffset int) bool) {
	for i := offset; i < len(t.entries); i++ {
		if !fn(t.entries[i], i+1) {
			return
		}
	}
}
