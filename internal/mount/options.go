// Package mount turns the argv tail captured after "-f"/"--fuse" (the
// command-line parser's pre-pass, §2.1) into a mount point and a
// fuse.MountConfig, the way the bridge's own mount helpers build one from
// "-o key=value,..." pairs.
package mount

import (
	"fmt"
	"strings"

	"github.com/jacobsa/fuse"
)

// Args is the parsed form of the bridge argv tail: a mount point plus the
// mount options destined for fuse.MountConfig.
type Args struct {
	MountPoint string
	Config     fuse.MountConfig
}

// Parse interprets fuseArgv, the slice of arguments following "-f"/"--fuse"
// on the command line. It recognizes "-o opts" (or "-oopts" glued to the
// flag, as getopt_long-style parsers accept) where opts is a comma-separated
// list of "key" or "key=value" pairs, and treats the first remaining
// argument as the mount point. Anything beyond the mount point is rejected:
// this system has no use for further positional arguments.
func Parse(fuseArgv []string) (Args, error) {
	var a Args
	opts := make(map[string]string)

	var mountPoint string
	i := 0
	for i < len(fuseArgv) {
		arg := fuseArgv[i]

		switch {
		case arg == "-o":
			i++
			if i >= len(fuseArgv) {
				return Args{}, fmt.Errorf("-o requires an argument")
			}
			if err := parseOptionList(fuseArgv[i], opts); err != nil {
				return Args{}, err
			}
			i++

		case strings.HasPrefix(arg, "-o") && arg != "-o":
			if err := parseOptionList(arg[len("-o"):], opts); err != nil {
				return Args{}, err
			}
			i++

		default:
			if mountPoint != "" {
				return Args{}, fmt.Errorf("unexpected argument %q after mount point %q", arg, mountPoint)
			}
			mountPoint = arg
			i++
		}
	}

	if mountPoint == "" {
		return Args{}, fmt.Errorf("no mount point given after -f/--fuse")
	}

	a.MountPoint = mountPoint
	a.Config = configFromOptions(opts)
	return a, nil
}

// parseOptionList splits a comma-separated "-o" argument into key[=value]
// pairs and merges them into dst. A backslash-escaped comma or backslash,
// per the bridge's own escaping convention (see escapeOptionsKey in the
// mount option encoder), is treated as a literal character rather than a
// separator.
func parseOptionList(s string, dst map[string]string) error {
	for _, part := range splitUnescaped(s) {
		if part == "" {
			continue
		}

		key, value, _ := strings.Cut(part, "=")
		key = unescapeOption(key)
		if key == "" {
			return fmt.Errorf("empty option name in %q", s)
		}
		dst[key] = unescapeOption(value)
	}
	return nil
}

func splitUnescaped(s string) []string {
	var parts []string
	var cur strings.Builder
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			cur.WriteByte(c)
			escaped = false
		case c == '\\':
			cur.WriteByte(c)
			escaped = true
		case c == ',':
			parts = append(parts, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	parts = append(parts, cur.String())
	return parts
}

func unescapeOption(s string) string {
	s = strings.ReplaceAll(s, `\,`, `,`)
	s = strings.ReplaceAll(s, `\\`, `\`)
	return s
}

// configFromOptions translates the raw "-o" option set into a
// fuse.MountConfig. "ro" is recognized specially as fuse.MountConfig.ReadOnly
// (the bridge's own mount helper treats it the same way when building its
// options map); everything else is passed through verbatim via Options, for
// expert use as the bridge's own documentation puts it.
func configFromOptions(opts map[string]string) fuse.MountConfig {
	cfg := fuse.MountConfig{
		Options: make(map[string]string),
	}

	for k, v := range opts {
		if k == "ro" {
			cfg.ReadOnly = true
			continue
		}
		cfg.Options[k] = v
	}

	return cfg
}
