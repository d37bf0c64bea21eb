// Package config reads the mount's INI-style configuration file into an
// ordered list of entries.
package config

import (
	"fmt"

	"gopkg.in/ini.v1"

	"github.com/Smattr/execfs/internal/entry"
)

// Load parses the configuration file at path and returns the entries it
// describes, in file order. Each section corresponds to one entry; the
// section name becomes the entry's path.
func Load(path string) ([]entry.Entry, error) {
	f, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	var entries []entry.Entry
	for _, sec := range f.Sections() {
		// The implicit default section holds keys that appear before any
		// [section] header. It cannot name a path, so it carries no entry.
		if sec.Name() == ini.DefaultSection {
			continue
		}

		e, err := parseSection(sec)
		if err != nil {
			return nil, fmt.Errorf("section %q: %w", sec.Name(), err)
		}
		entries = append(entries, e)
	}

	return entries, nil
}

func parseSection(sec *ini.Section) (entry.Entry, error) {
	accessStr := sec.Key("access").String()
	if accessStr == "" {
		return entry.Entry{}, fmt.Errorf("missing required key %q", "access")
	}
	access, err := entry.ParsePermissions(accessStr)
	if err != nil {
		return entry.Entry{}, fmt.Errorf("key %q: %w", "access", err)
	}

	command := sec.Key("command").String()
	if command == "" {
		return entry.Entry{}, fmt.Errorf("missing required key %q", "command")
	}

	size := entry.UnspecifiedSize
	if sec.HasKey("size") {
		size, err = sec.Key("size").Int64()
		if err != nil {
			return entry.Entry{}, fmt.Errorf("key %q: %w", "size", err)
		}
		if size < 0 {
			return entry.Entry{}, fmt.Errorf("key %q: must not be negative", "size")
		}
	}

	cache := false
	if sec.HasKey("cache") {
		cache, err = sec.Key("cache").Bool()
		if err != nil {
			return entry.Entry{}, fmt.Errorf("key %q: %w", "cache", err)
		}
	}

	return entry.Entry{
		Path:    sec.Name(),
		Access:  access,
		Command: command,
		Size:    size,
		Cache:   cache,
	}, nil
}
